package scrape

import (
	"context"
	"testing"

	"rajobs-backend/internal/records"

	_ "embed"

	"github.com/stretchr/testify/require"
)

//go:embed predoc_page_test.html
var predocPageTest string

func TestPredocExtract(t *testing.T) {
	jobs, err := Predoc{}.Extract(context.Background(), predocPageTest)
	require.NoError(t, err)
	require.Len(t, jobs, 3)

	for _, j := range jobs {
		require.Equal(t, records.SourcePredoc, j["source"])
		require.Equal(t, "PreDoctoral Program", j["program_type"])
	}

	first := jobs[0]
	require.Equal(t, "Research Professional - Labor Markets", first["program_title"])
	require.Equal(t, "https://predoc.org/opportunities/labor-ra", first["link"])
	require.Equal(t, "Jane Smith", first["sponsor"])
	require.Equal(t, "University of Chicago", first["institution"])
	require.Equal(t, "Labour Economics", first["fields"])
	require.Equal(t, "June 1, 2026", first["deadline"])
	require.Equal(t, "Economics, Labour", first["main_field"])
	require.Equal(t, records.Sentinel, first["university"])
	require.Equal(t, records.Sentinel, first["publication_date"])
}

func TestPredocMissingLabels(t *testing.T) {
	jobs, err := Predoc{}.Extract(context.Background(), predocPageTest)
	require.NoError(t, err)

	unlabeled := jobs[1]
	require.Equal(t, "Pre-Doctoral Fellow", unlabeled["program_title"])
	require.Equal(t, records.Sentinel, unlabeled["sponsor"])
	require.Equal(t, records.Sentinel, unlabeled["institution"])
	require.Equal(t, records.Sentinel, unlabeled["fields"])
	require.Equal(t, records.Sentinel, unlabeled["deadline"])
	require.Equal(t, records.Sentinel, unlabeled["main_field"])
}

func TestPredocMissingTitleAnchor(t *testing.T) {
	jobs, err := Predoc{}.Extract(context.Background(), predocPageTest)
	require.NoError(t, err)

	noLink := jobs[2]
	require.Equal(t, records.Sentinel, noLink["program_title"])
	require.Equal(t, records.Sentinel, noLink["link"])
	require.Equal(t, "Alex Roe", noLink["sponsor"])
	require.Equal(t, "Public Policy", noLink["fields"])
	require.Equal(t, "Public Policy", noLink["main_field"])
}

func TestPredocContainerMissing(t *testing.T) {
	jobs, err := Predoc{}.Extract(context.Background(), "<html><body><p>nothing here</p></body></html>")
	require.NoError(t, err)
	require.Empty(t, jobs)
}
