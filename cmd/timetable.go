package cmd

import (
	"github.com/spf13/cobra"
)

var timetableCmd = &cobra.Command{
	Use:   "timetable",
	Short: "Create, list, rename, delete, and switch timetables",
}

var timetableCreateCmd = &cobra.Command{
	Use:   "create <name>",
	Short: "Create a new timetable",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.close()

		semester, _ := cmd.Flags().GetString("semester")
		t, err := a.repo.CreateTimetable(args[0], semester)
		if err = a.report(err); err != nil {
			return err
		}
		a.printer.Success("created timetable %q (%s)", t.Name, t.ID)
		return a.saveState()
	},
}

var timetableListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all timetables",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.close()

		a.printer.TimetableTable(a.repo.Timetables(), a.repo.Active())
		return nil
	},
}

var timetableRenameCmd = &cobra.Command{
	Use:   "rename <id-or-name> <new-name>",
	Short: "Rename a timetable",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.close()

		t, err := a.resolveTimetable(args[0])
		if err != nil {
			return err
		}
		semester, _ := cmd.Flags().GetString("semester")
		if !cmd.Flags().Changed("semester") {
			semester = t.Semester
		}
		t, err = a.repo.RenameTimetable(t.ID, args[1], semester)
		if err = a.report(err); err != nil {
			return err
		}
		a.printer.Success("renamed timetable to %q", t.Name)
		return nil
	},
}

var timetableRmCmd = &cobra.Command{
	Use:   "rm <id-or-name>",
	Short: "Delete a timetable and all of its sessions",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.close()

		t, err := a.resolveTimetable(args[0])
		if err != nil {
			return err
		}
		if err = a.report(a.repo.DeleteTimetable(t.ID)); err != nil {
			return err
		}
		a.printer.Success("deleted timetable %q (%d sessions)", t.Name, len(t.Sessions))
		return a.saveState()
	},
}

var timetableSwitchCmd = &cobra.Command{
	Use:   "switch <id-or-name>",
	Short: "Select the timetable session commands operate on",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.close()

		t, err := a.resolveTimetable(args[0])
		if err != nil {
			return err
		}
		if err := a.repo.SwitchActive(t.ID); err != nil {
			return err
		}
		a.printer.Success("switched to %q", t.Name)
		return a.saveState()
	},
}

func init() {
	timetableCreateCmd.Flags().String("semester", "", "semester label, e.g. 2024-1")
	timetableRenameCmd.Flags().String("semester", "", "new semester label")

	timetableCmd.AddCommand(timetableCreateCmd)
	timetableCmd.AddCommand(timetableListCmd)
	timetableCmd.AddCommand(timetableRenameCmd)
	timetableCmd.AddCommand(timetableRmCmd)
	timetableCmd.AddCommand(timetableSwitchCmd)
	rootCmd.AddCommand(timetableCmd)
}
