package cmd

import (
	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Summarize the active timetable",
	Args:  cobra.NoArgs,
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
		st, err := a.repo.Stats(t.ID)
		if err != nil {
			return err
		}
		a.printer.Stats(t, st, a.repo.Subjects())
		return nil
	},
}

func init() {
	statsCmd.Flags().String("timetable", "", "timetable id or name (default: active)")
	rootCmd.AddCommand(statsCmd)
}
