package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/papapumpkin/tabula/internal/store"
)

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import a timetable from a JSON export",
	Long: "Import validates every entity and re-runs conflict checks before anything\n" +
		"is applied; a single invalid entry rejects the whole file.",
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.close()

		f, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("opening %s: %w", args[0], err)
		}
		defer f.Close()

		t, subjects, err := store.ImportJSON(cmd.Context(), f)
		if err != nil {
			return err
		}
		t, err = a.repo.Adopt(t, subjects)
		if err = a.report(err); err != nil {
			return err
		}
		a.printer.Success("imported timetable %q with %d session(s) (%s)", t.Name, len(t.Sessions), t.ID)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(importCmd)
}
