package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"rajobs-backend/internal/records"
	"rajobs-backend/lib/testutil"

	"github.com/stretchr/testify/require"
)

func sampleRecords() []records.Record {
	return []records.Record{
		records.FromMap(map[string]string{
			"source":        records.SourceEJM,
			"program_title": "Research Assistant in Macroeconomics",
			"link":          "https://apply.example.org/101",
			"university":    "Boston University",
			"main_field":    "Economics, Macroeconomics",
		}),
		records.FromMap(map[string]string{
			"source":        records.SourceNBER,
			"program_title": "RA - Health Economics",
			"link":          "https://example.org/apply-health",
			"institution":   "Harvard University",
		}),
	}
}

func TestFileStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "jobs.xml")
	s := NewFileStore(path)
	ctx := context.Background()

	loaded, err := s.Load(ctx)
	require.NoError(t, err)
	require.Empty(t, loaded)

	recs := sampleRecords()
	require.NoError(t, s.Append(ctx, recs))

	loaded, err = s.Load(ctx)
	require.NoError(t, err)
	require.Equal(t, recs, loaded)

	// appends must not disturb existing entries
	more := []records.Record{records.FromMap(map[string]string{
		"source":        records.SourcePredoc,
		"program_title": "Pre-Doctoral Fellow",
	})}
	require.NoError(t, s.Append(ctx, more))

	loaded, err = s.Load(ctx)
	require.NoError(t, err)
	require.Equal(t, append(recs, more...), loaded)
}

func TestFileStoreOldEntriesGetSentinels(t *testing.T) {
	// an entry written before newer canonical fields existed
	path := filepath.Join(t.TempDir(), "jobs.xml")
	old := `<?xml version="1.0" encoding="UTF-8"?>
<jobs>
  <entry>
    <source>nber</source>
    <program_title>RA Position</program_title>
    <link>https://example.org/ra</link>
  </entry>
</jobs>`
	require.NoError(t, os.WriteFile(path, []byte(old), 0644))

	loaded, err := NewFileStore(path).Load(context.Background())
	require.NoError(t, err)
	require.Len(t, loaded, 1)
	require.Equal(t, "RA Position", loaded[0].ProgramTitle)
	require.Equal(t, records.Sentinel, loaded[0].SalaryRange)
	require.Equal(t, records.Sentinel, loaded[0].DegreeRequired)
}

func TestFileStoreUnreadable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "jobs.xml")
	require.NoError(t, os.WriteFile(path, []byte("not xml at all <<<"), 0644))

	s := NewFileStore(path)
	_, err := s.Load(context.Background())
	require.ErrorIs(t, err, ErrUnreadable)

	// appending over an unreadable store must preserve the old bytes
	require.NoError(t, s.Append(context.Background(), sampleRecords()))

	backup, err := os.ReadFile(path + ".bak")
	require.NoError(t, err)
	require.Equal(t, "not xml at all <<<", string(backup))

	loaded, err := s.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, loaded, 2)
}

func TestDBStoreRoundTrip(t *testing.T) {
	setup, cleanup := testutil.SetupService(t, testutil.ServiceParams{
		Name:     "internal/store",
		DbSchema: Schema,
	})
	defer cleanup()

	s := NewDBStore(setup.DB)
	ctx := context.Background()

	loaded, err := s.Load(ctx)
	require.NoError(t, err)
	require.Empty(t, loaded)

	recs := sampleRecords()
	require.NoError(t, s.Append(ctx, recs))

	loaded, err = s.Load(ctx)
	require.NoError(t, err)
	require.Equal(t, recs, loaded)
}

func TestDBStoreMatchesFileStore(t *testing.T) {
	setup, cleanup := testutil.SetupService(t, testutil.ServiceParams{
		Name:     "internal/store",
		DbSchema: Schema,
	})
	defer cleanup()

	ctx := context.Background()
	recs := sampleRecords()

	file := NewFileStore(filepath.Join(t.TempDir(), "jobs.xml"))
	db := NewDBStore(setup.DB)
	require.NoError(t, file.Append(ctx, recs))
	require.NoError(t, db.Append(ctx, recs))

	fromFile, err := file.Load(ctx)
	require.NoError(t, err)
	fromDB, err := db.Load(ctx)
	require.NoError(t, err)
	require.Equal(t, fromFile, fromDB)
}
