package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/papapumpkin/tabula/internal/history"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show the journal of recent changes",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.close()

		if a.journal == nil {
			return fmt.Errorf("history journal is disabled (set history: true)")
		}
		limit, _ := cmd.Flags().GetInt("limit")
		entity, _ := cmd.Flags().GetString("entity")

		var entries []history.Entry
		if entity != "" {
			entries, err = a.journal.ForEntity(cmd.Context(), entity)
		} else {
			entries, err = a.journal.Recent(cmd.Context(), limit)
		}
		if err != nil {
			return err
		}
		if len(entries) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "no history recorded")
			return nil
		}
		for _, e := range entries {
			detail := e.Detail
			if detail != "" {
				detail = "  " + detail
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s  %-7s %-9s %s%s\n",
				e.CreatedAt.Local().Format("2006-01-02 15:04:05"), e.Op, e.EntityKind, e.EntityID, detail)
		}
		return nil
	},
}

func init() {
	historyCmd.Flags().Int("limit", 20, "number of entries to show")
	historyCmd.Flags().String("entity", "", "show all entries for one entity id")
	rootCmd.AddCommand(historyCmd)
}
