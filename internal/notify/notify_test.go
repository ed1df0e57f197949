package notify

import (
	"strings"
	"testing"
	"time"

	"rajobs-backend/internal/records"

	"github.com/stretchr/testify/require"
)

func TestParseSubscribers(t *testing.T) {
	input := `name,email,preferences,university
Alice Chen,alice@example.edu,Macroeconomics/Finance,Boston University
Bob,bob@example.org,,
Carol,carol@example.com,Labour
`
	subs, err := ParseSubscribers(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, subs, 3)

	require.Equal(t, Subscriber{
		Name:        "Alice Chen",
		Email:       "alice@example.edu",
		Preferences: []string{"Macroeconomics", "Finance"},
		University:  "Boston University",
	}, subs[0])
	require.Equal(t, "bob@example.org", subs[1].Email)
	require.Empty(t, subs[1].Preferences)
	require.Equal(t, []string{"Labour"}, subs[2].Preferences)
	require.Empty(t, subs[2].University)
}

func TestParseSubscribersNoHeader(t *testing.T) {
	subs, err := ParseSubscribers(strings.NewReader("Dave,dave@example.net,Economics,MIT\n"))
	require.NoError(t, err)
	require.Len(t, subs, 1)
	require.Equal(t, "Dave", subs[0].Name)
}

func TestParseSubscribersTooFewColumns(t *testing.T) {
	_, err := ParseSubscribers(strings.NewReader("just-a-name\n"))
	require.Error(t, err)
}

func TestRenderMessage(t *testing.T) {
	recs := []records.Record{
		records.FromMap(map[string]string{
			"source":        records.SourceEJM,
			"program_title": "Research Assistant in Macroeconomics",
			"link":          "https://apply.example.org/101",
			"institution":   "Boston University",
			"main_field":    "Economics, Macroeconomics",
			"deadline":      "June 1, 2026",
		}),
		records.FromMap(map[string]string{
			"source":        records.SourceNBER,
			"program_title": "RA - Health Economics",
		}),
	}

	at := time.Date(2026, time.May, 4, 9, 30, 0, 0, time.UTC)
	body, err := renderMessage("Alice", recs, at)
	require.NoError(t, err)

	html := string(body)
	require.Contains(t, html, "Hi Alice,")
	require.Contains(t, html, "2 new postings")
	require.Contains(t, html, "May 4, 2026")
	require.Contains(t, html, `<a href="https://apply.example.org/101">apply</a>`)
	require.Contains(t, html, "Research Assistant in Macroeconomics")
	// the sentinel link renders as plain text, never as an anchor
	require.Contains(t, html, "<td>N/A</td>")
	require.NotContains(t, html, `href="N/A"`)
}

func TestRenderMessageSingular(t *testing.T) {
	recs := []records.Record{records.FromMap(map[string]string{
		"source":        records.SourcePredoc,
		"program_title": "Pre-Doctoral Fellow",
	})}
	body, err := renderMessage("Bob", recs, time.Now())
	require.NoError(t, err)
	require.Contains(t, string(body), "1 new posting ")
}
