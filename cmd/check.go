package cmd

import (
	"github.com/spf13/cobra"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Dry-run a conflict check for a candidate slot",
	Long: "Check whether a session at the given day/time/room would collide with the\n" +
		"active timetable, without changing anything.",
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.close()

		ttRef, _ := cmd.Flags().GetString("timetable")
		t, err := a.resolveTimetable(ttRef)
		if err != nil {
			return err
		}
		s, err := a.buildSession(collectSessionFlags(cmd))
		if err != nil {
			return err
		}
		exclude, _ := cmd.Flags().GetString("exclude")

		res, err := a.repo.CheckConflict(t.ID, s, exclude)
		if err != nil {
			return err
		}
		if res.HasHard() {
			a.printer.HardConflicts(res.Hard, t)
			return nil
		}
		a.printer.SoftConflicts(res.Soft, t)
		a.printer.Success("slot is free")
		return nil
	},
}

func init() {
	sessionTargetFlags(checkCmd)
	checkCmd.Flags().String("exclude", "", "session id to exclude (when checking a move)")
	rootCmd.AddCommand(checkCmd)
}
