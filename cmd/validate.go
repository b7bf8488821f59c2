package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/papapumpkin/tabula/internal/config"
	"github.com/papapumpkin/tabula/internal/schedule"
	"github.com/papapumpkin/tabula/internal/state"
	"github.com/papapumpkin/tabula/internal/store"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check that the data directory and its documents are sound",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Load()
		log := newLogger(cfg.Verbose)
		ok := true

		st, err := store.New(cfg.DataDir, cfg.BackupRetention, log)
		if err != nil {
			fmt.Fprintf(os.Stderr, "✗ data dir: %v\n", err)
			os.Exit(1)
		}
		fmt.Fprintf(os.Stderr, "✓ data dir %s\n", st.Dir())

		snap, err := st.Load()
		if err != nil {
			fmt.Fprintf(os.Stderr, "✗ documents: %v\n", err)
			ok = false
		} else {
			fmt.Fprintf(os.Stderr, "✓ documents parse (%d timetables, %d subjects)\n",
				len(snap.Timetables), len(snap.Subjects))
			if _, err := schedule.FromSnapshot(snap, log); err != nil {
				fmt.Fprintf(os.Stderr, "✗ content: %v\n", err)
				ok = false
			} else {
				fmt.Fprintln(os.Stderr, "✓ content valid")
			}
		}

		if _, err := state.Load(cfg.DataDir); err != nil {
			fmt.Fprintf(os.Stderr, "✗ state file: %v\n", err)
			ok = false
		} else {
			fmt.Fprintln(os.Stderr, "✓ state file")
		}

		backups := st.Backups()
		fmt.Fprintf(os.Stderr, "✓ %d backup(s), retention %d\n", len(backups), cfg.BackupRetention)

		if !ok {
			os.Exit(1)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
