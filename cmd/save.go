package cmd

import (
	"github.com/spf13/cobra"
)

var saveCmd = &cobra.Command{
	Use:   "save",
	Short: "Write the store to disk and rotate backups",
	Long: "With auto_save enabled (the default) every mutation already saves; this\n" +
		"command forces a save, e.g. after recovering from a failed disk write.",
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.close()

		if err := a.save(); err != nil {
			return err
		}
		a.printer.Success("saved to %s", a.store.Dir())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(saveCmd)
}
