package commands

import (
	"context"
	"fmt"
	"os"

	"rajobs-backend/internal/records"
	"rajobs-backend/internal/store"
	"rajobs-backend/lib/sqliteutil"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var (
	sourcesDir string
	storePath  string
	dbPath     string
)

var rootCmd = &cobra.Command{
	Use:   "rajobs-cli",
	Short: "rajobs-cli collects economics RA and pre-doc job postings.",
}

func init() {
	rootCmd.PersistentFlags().StringVar(&sourcesDir, "sources", "sources", "directory holding the downloaded source pages")
	rootCmd.PersistentFlags().StringVar(&storePath, "store", "jobs.xml", "path of the xml posting store")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "use a sqlite posting store at this path instead of the xml file")
}

func ExecuteContext(ctx context.Context) {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func openStore() (store.Store, func(), error) {
	if dbPath == "" {
		return store.NewFileStore(storePath), func() {}, nil
	}
	db, err := sqliteutil.OpenDB(store.Schema, dbPath)
	if err != nil {
		return nil, nil, err
	}
	return store.NewDBStore(db), func() { db.Close() }, nil
}

func newTable() table.Writer {
	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.SetOutputMirror(os.Stdout)
	return t
}

func renderRecords(recs []records.Record) {
	t := newTable()
	t.AppendHeader(table.Row{"source", "title", "institution", "main field", "deadline", "link"})
	for _, r := range recs {
		t.AppendRow(table.Row{r.Source, r.ProgramTitle, r.Institution, r.MainField, r.Deadline, r.Link})
	}
	t.Render()
}
