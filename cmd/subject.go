package cmd

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/papapumpkin/tabula/internal/schedule"
)

var subjectCmd = &cobra.Command{
	Use:   "subject",
	Short: "Manage the subject collection",
}

var subjectAddCmd = &cobra.Command{
	Use:   "add <code> <name>",
	Short: "Add a subject",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.close()

		instructor, _ := cmd.Flags().GetString("instructor")
		color, _ := cmd.Flags().GetString("color")
		credits, _ := cmd.Flags().GetInt("credits")

		s, err := a.repo.CreateSubject(schedule.Subject{
			Code:       args[0],
			Name:       args[1],
			Instructor: instructor,
			Color:      color,
			Credits:    credits,
		})
		if err = a.report(err); err != nil {
			return err
		}
		a.printer.Success("added subject %s: %s (%s)", s.Code, s.Name, s.ID)
		return nil
	},
}

var subjectListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all subjects",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.close()

		a.printer.SubjectTable(a.repo.Subjects())
		return nil
	},
}

var subjectUpdateCmd = &cobra.Command{
	Use:   "update <id-or-code>",
	Short: "Update a subject's fields",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.close()

		s, err := a.resolveSubject(args[0])
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("code") {
			s.Code, _ = cmd.Flags().GetString("code")
		}
		if cmd.Flags().Changed("name") {
			s.Name, _ = cmd.Flags().GetString("name")
		}
		if cmd.Flags().Changed("instructor") {
			s.Instructor, _ = cmd.Flags().GetString("instructor")
		}
		if cmd.Flags().Changed("color") {
			s.Color, _ = cmd.Flags().GetString("color")
		}
		if cmd.Flags().Changed("credits") {
			s.Credits, _ = cmd.Flags().GetInt("credits")
		}

		s, err = a.repo.UpdateSubject(s)
		if err = a.report(err); err != nil {
			return err
		}
		a.printer.Success("updated subject %s", s.Code)
		return nil
	},
}

var subjectRmCmd = &cobra.Command{
	Use:   "rm <id-or-code>",
	Short: "Delete a subject (blocked while sessions reference it)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.close()

		s, err := a.resolveSubject(args[0])
		if err != nil {
			return err
		}
		err = a.repo.DeleteSubject(s.ID)
		if errors.Is(err, schedule.ErrReferencedEntity) {
			a.printer.Error(err.Error())
			a.printer.Warn("remove its sessions first, or set delete_cascade: true")
			return err
		}
		if err = a.report(err); err != nil {
			return err
		}
		a.printer.Success("deleted subject %s", s.Code)
		return nil
	},
}

func init() {
	subjectAddCmd.Flags().String("instructor", "", "instructor name")
	subjectAddCmd.Flags().String("color", "", "display color (hex), defaults from the palette")
	subjectAddCmd.Flags().Int("credits", 3, "credit count")

	subjectUpdateCmd.Flags().String("code", "", "new code")
	subjectUpdateCmd.Flags().String("name", "", "new name")
	subjectUpdateCmd.Flags().String("instructor", "", "new instructor")
	subjectUpdateCmd.Flags().String("color", "", "new display color")
	subjectUpdateCmd.Flags().Int("credits", 0, "new credit count")

	subjectCmd.AddCommand(subjectAddCmd)
	subjectCmd.AddCommand(subjectListCmd)
	subjectCmd.AddCommand(subjectUpdateCmd)
	subjectCmd.AddCommand(subjectRmCmd)
	rootCmd.AddCommand(subjectCmd)
}
