package commands

import (
	"fmt"

	"rajobs-backend/internal/fetch"
	"rajobs-backend/internal/records"
	"rajobs-backend/internal/scrape"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(scrapeCmd)
}

var scrapeCmd = &cobra.Command{
	Use:   "scrape",
	Short: "Extract postings from the saved source pages and print them.",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()
		pages := fetch.ReadPages(ctx, sourcesDir)
		recs := records.Normalize(scrape.ExtractAll(ctx, pages))

		renderRecords(recs)
		fmt.Printf("%d postings extracted\n", len(recs))
	},
}
