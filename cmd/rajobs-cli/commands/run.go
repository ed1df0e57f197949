package commands

import (
	"fmt"
	"os"

	"rajobs-backend/internal/fetch"
	"rajobs-backend/internal/notify"
	"rajobs-backend/internal/records"
	"rajobs-backend/internal/scrape"
	"rajobs-backend/internal/watch"
	"rajobs-backend/lib/configutil"

	"github.com/spf13/cobra"
)

var notifyConfig string

func init() {
	runCmd.Flags().StringVar(&notifyConfig, "notify", "", "notify subscribers using this json5 config")
	rootCmd.AddCommand(runCmd)
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Scrape the saved source pages and commit new postings to the store.",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()

		pages := fetch.ReadPages(ctx, sourcesDir)
		recs := records.Normalize(scrape.ExtractAll(ctx, pages))

		st, closeStore, err := openStore()
		if err != nil {
			fmt.Fprintln(os.Stderr, err.Error())
			os.Exit(1)
		}
		defer closeStore()

		report, err := watch.Run(ctx, st, recs)
		if err != nil {
			fmt.Fprintln(os.Stderr, err.Error())
			os.Exit(1)
		}

		renderRecords(report.New)
		fmt.Printf("%d new postings, %d already known\n", len(report.New), report.Existing)

		if notifyConfig == "" || len(report.New) == 0 {
			return
		}
		config, err := configutil.ReadConfig[notify.Config](notifyConfig)
		if err != nil {
			fmt.Fprintln(os.Stderr, err.Error())
			os.Exit(1)
		}
		err = notify.NewNotifier(config).Send(ctx, report.New)
		if err != nil {
			fmt.Fprintln(os.Stderr, err.Error())
			os.Exit(1)
		}
	},
}
