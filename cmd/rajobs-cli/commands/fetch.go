package commands

import (
	"fmt"
	"os"

	"rajobs-backend/internal/fetch"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(fetchCmd)
}

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Download the live source pages into the sources directory.",
	Run: func(cmd *cobra.Command, args []string) {
		err := fetch.Download(cmd.Context(), sourcesDir)
		if err != nil {
			fmt.Fprintln(os.Stderr, err.Error())
			os.Exit(1)
		}
	},
}
