package cmd

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/papapumpkin/tabula/internal/schedule"
)

var sessionCmd = &cobra.Command{
	Use:   "session",
	Short: "Manage class sessions on the active timetable",
}

// sessionTargetFlags registers the flags shared by session add/update.
func sessionTargetFlags(cmd *cobra.Command) {
	cmd.Flags().String("timetable", "", "timetable id or name (default: active)")
	cmd.Flags().String("subject", "", "subject id or code")
	cmd.Flags().String("day", "", "weekday (Monday..Sunday)")
	cmd.Flags().String("start", "", "start time HH:MM")
	cmd.Flags().String("end", "", "end time HH:MM (default: start + default_session_minutes)")
	cmd.Flags().Int("slot", 0, "predefined hour slot 1-10 (08:00..18:00), replaces --start/--end")
	cmd.Flags().String("room", "", "room")
	cmd.Flags().String("type", "Lecture", "session type (Lecture, Lab, Tutorial, Seminar, ...)")
	cmd.Flags().String("notes", "", "free-form notes")
}

func collectSessionFlags(cmd *cobra.Command) sessionFlags {
	var f sessionFlags
	f.subject, _ = cmd.Flags().GetString("subject")
	f.day, _ = cmd.Flags().GetString("day")
	f.start, _ = cmd.Flags().GetString("start")
	f.end, _ = cmd.Flags().GetString("end")
	f.slot, _ = cmd.Flags().GetInt("slot")
	f.room, _ = cmd.Flags().GetString("room")
	f.typ, _ = cmd.Flags().GetString("type")
	f.notes, _ = cmd.Flags().GetString("notes")
	return f
}

var sessionAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a session, rejecting room/time conflicts",
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
		s, err := a.buildSession(collectSessionFlags(cmd))
		if err != nil {
			return err
		}

		added, res, err := a.repo.AddSession(t.ID, s)
		var cerr *schedule.ConflictError
		if errors.As(err, &cerr) {
			a.printer.HardConflicts(cerr.Conflicting, t)
			return err
		}
		if err = a.report(err); err != nil {
			return err
		}
		a.printer.Success("added %s session on %s (%s)", added.Type, added.Day, added.ID)
		a.printer.SoftConflicts(res.Soft, t)
		return nil
	},
}

var sessionUpdateCmd = &cobra.Command{
	Use:   "update <session-id>",
	Short: "Edit a session, re-running conflict checks",
	Args:  cobra.ExactArgs(1),
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
		existing := findSession(t, args[0])
		if existing == nil {
			return errors.New("session " + args[0] + " not found in timetable " + t.Name)
		}

		// Start from the existing session; only changed flags apply.
		s := *existing
		f := collectSessionFlags(cmd)
		if f.subject == "" {
			f.subject = s.SubjectID
		}
		if f.day == "" {
			f.day = s.Day.String()
		}
		if f.slot == 0 {
			if f.start == "" {
				f.start = s.Start.Clock()
			}
			if f.end == "" {
				f.end = s.End.Clock()
			}
		}
		if !cmd.Flags().Changed("room") {
			f.room = s.Room
		}
		if !cmd.Flags().Changed("type") {
			f.typ = string(s.Type)
		}
		if !cmd.Flags().Changed("notes") {
			f.notes = s.Notes
		}
		updated, err := a.buildSession(f)
		if err != nil {
			return err
		}
		updated.ID = s.ID

		_, res, err := a.repo.UpdateSession(t.ID, updated)
		var cerr *schedule.ConflictError
		if errors.As(err, &cerr) {
			a.printer.HardConflicts(cerr.Conflicting, t)
			return err
		}
		if err = a.report(err); err != nil {
			return err
		}
		a.printer.Success("updated session %s", s.ID)
		a.printer.SoftConflicts(res.Soft, t)
		return nil
	},
}

var sessionRmCmd = &cobra.Command{
	Use:   "rm <session-id>",
	Short: "Remove a session",
	Args:  cobra.ExactArgs(1),
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
		if err = a.report(a.repo.RemoveSession(t.ID, args[0])); err != nil {
			return err
		}
		a.printer.Success("removed session %s", args[0])
		return nil
	},
}

func findSession(t schedule.Timetable, id string) *schedule.Session {
	for i := range t.Sessions {
		if t.Sessions[i].ID == id {
			return &t.Sessions[i]
		}
	}
	return nil
}

func init() {
	sessionTargetFlags(sessionAddCmd)
	sessionTargetFlags(sessionUpdateCmd)
	sessionRmCmd.Flags().String("timetable", "", "timetable id or name (default: active)")

	sessionCmd.AddCommand(sessionAddCmd)
	sessionCmd.AddCommand(sessionUpdateCmd)
	sessionCmd.AddCommand(sessionRmCmd)
	rootCmd.AddCommand(sessionCmd)
}
