package cmd

import (
	"github.com/spf13/cobra"

	"github.com/papapumpkin/tabula/internal/store"
)

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Display timetable views",
}

var showWeekCmd = &cobra.Command{
	Use:   "week",
	Short: "Show the weekly view of the active timetable",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.close()

		ttRef, _ := cmd.Flags().GetString("timetable")
		if err := renderWeek(a, ttRef); err != nil {
			return err
		}

		watch, _ := cmd.Flags().GetBool("watch")
		if !watch {
			return nil
		}

		// Re-render whenever another process rewrites the live documents.
		w, err := store.NewWatcher(a.store.Dir())
		if err != nil {
			return err
		}
		if err := w.Start(); err != nil {
			return err
		}
		defer w.Stop()

		for {
			select {
			case <-cmd.Context().Done():
				return nil
			case _, ok := <-w.Changes:
				if !ok {
					return nil
				}
				repo, err := a.store.Open(a.log)
				if err != nil {
					return err
				}
				if a.state.ActiveTimetable != "" {
					_ = repo.SwitchActive(a.state.ActiveTimetable)
				}
				a.repo = repo
				if err := renderWeek(a, ttRef); err != nil {
					return err
				}
			}
		}
	},
}

func renderWeek(a *app, ttRef string) error {
	t, err := a.resolveTimetable(ttRef)
	if err != nil {
		return err
	}
	view, err := a.repo.WeeklyView(t.ID)
	if err != nil {
		return err
	}
	a.printer.Week(t, view, a.repo.Subjects())
	return nil
}

var showDayCmd = &cobra.Command{
	Use:   "day <weekday>",
	Short: "Show one day of the active timetable",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.close()

		day, err := parseDayArg(args[0])
		if err != nil {
			return err
		}
		ttRef, _ := cmd.Flags().GetString("timetable")
		t, err := a.resolveTimetable(ttRef)
		if err != nil {
			return err
		}
		sessions, err := a.repo.DailyView(t.ID, day)
		if err != nil {
			return err
		}
		a.printer.Day(day, sessions, a.repo.Subjects())
		return nil
	},
}

func init() {
	showWeekCmd.Flags().String("timetable", "", "timetable id or name (default: active)")
	showWeekCmd.Flags().Bool("watch", false, "keep running and re-render on external changes")
	showDayCmd.Flags().String("timetable", "", "timetable id or name (default: active)")

	showCmd.AddCommand(showWeekCmd)
	showCmd.AddCommand(showDayCmd)
	rootCmd.AddCommand(showCmd)
}
