package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/papapumpkin/tabula/internal/store"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export a timetable to JSON or CSV",
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
		format, _ := cmd.Flags().GetString("format")
		outPath, _ := cmd.Flags().GetString("out")

		w := cmd.OutOrStdout()
		if outPath != "" {
			f, err := os.Create(outPath)
			if err != nil {
				return fmt.Errorf("creating %s: %w", outPath, err)
			}
			defer f.Close()
			w = f
		}

		switch format {
		case "json":
			err = store.ExportJSON(w, t, a.repo.Subjects())
		case "csv":
			err = store.ExportCSV(w, t, a.repo.Subjects())
		default:
			return fmt.Errorf("unknown format %q: want json or csv", format)
		}
		if err != nil {
			return err
		}
		if outPath != "" {
			a.printer.Success("exported %q to %s", t.Name, outPath)
		}
		return nil
	},
}

func init() {
	exportCmd.Flags().String("timetable", "", "timetable id or name (default: active)")
	exportCmd.Flags().String("format", "json", "output format: json or csv")
	exportCmd.Flags().String("out", "", "output file (default: stdout)")
	rootCmd.AddCommand(exportCmd)
}
