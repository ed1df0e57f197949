package scrape

import (
	"context"
	"testing"

	"rajobs-backend/internal/records"

	_ "embed"

	"github.com/stretchr/testify/require"
)

//go:embed ejm_page_test.html
var ejmPageTest string

func TestEJMExtract(t *testing.T) {
	jobs, err := EJM{}.Extract(context.Background(), ejmPageTest)
	require.NoError(t, err)
	// the panel without a main row is skipped
	require.Len(t, jobs, 3)

	first := jobs[0]
	require.Equal(t, records.SourceEJM, first["source"])
	require.Equal(t, "Research Assistant in Macroeconomics", first["program_title"])
	require.Equal(t, "Boston, United States", first["location"])
	require.Equal(t, "Fall 2026", first["start_date"])
	require.Equal(t, "Department of Economics", first["department"])
	require.Equal(t, "Boston University", first["university"])
	require.Equal(t, "Boston University", first["institution"])
	require.Equal(t, "PreDoctoral Program", first["program_type"])
	require.Equal(t, "Macroeconomics Finance", first["fields"])
	require.Equal(t, "Economics, Macroeconomics, Finance", first["main_field"])
	require.Equal(t, "15 Aug 2026", first["publication_date"])
	require.Equal(t, "30 Sep 2026", first["deadline"])
}

func TestEJMDetailBlock(t *testing.T) {
	jobs, err := EJM{}.Extract(context.Background(), ejmPageTest)
	require.NoError(t, err)

	first := jobs[0]
	require.Equal(t, "Alice Johnson, Bob Lee", first["sponsor"])
	require.Equal(t, "Bachelors", first["degree_required"])
	require.Equal(t, "2 years, renewable", first["duration"])
	require.Equal(t, "60,000 USD per year", first["salary_range"])
	require.Equal(t, "https://apply.example.org/101", first["link"])
}

func TestEJMLinkSubstitution(t *testing.T) {
	jobs, err := EJM{}.Extract(context.Background(), ejmPageTest)
	require.NoError(t, err)

	// an application link pointing at the bare site root is useless
	require.Equal(t, records.Sentinel, jobs[1]["link"])
	// no detail block at all
	require.Equal(t, records.Sentinel, jobs[2]["link"])
}

func TestEJMFlexibleInheritance(t *testing.T) {
	jobs, err := EJM{}.Extract(context.Background(), ejmPageTest)
	require.NoError(t, err)

	// jobs[1] is Flexible via its detail block, jobs[2] via its
	// "Starts" line; both inherit backward from the first posting,
	// the second one through the already rewritten value.
	require.Equal(t, "Fall 2026", jobs[0]["start_date"])
	require.Equal(t, "Fall 2026", jobs[1]["start_date"])
	require.Equal(t, "Fall 2026", jobs[2]["start_date"])
}

func TestEJMFlexibleWithoutPredecessor(t *testing.T) {
	markup := `<html><body>
<div class="panel panel-info">
	<div class="row">
		<div class="col-md-4">
			<a id="title-1" href="#c-1">Lonely Posting</a>
			<br/>Somewhere
			<br/>Starts Flexible.
		</div>
	</div>
</div>
</body></html>`

	jobs, err := EJM{}.Extract(context.Background(), markup)
	require.NoError(t, err)
	require.Len(t, jobs, 1)
	require.Equal(t, records.Sentinel, jobs[0]["start_date"])
}

func TestEJMFieldCleanup(t *testing.T) {
	require.Equal(t, "Macroeconomics Finance", cleanEJMFields("• Macroeconomics; Finance"))
	require.Equal(t, "Labor, Development", cleanEJMFields("Labor,  , Development"))
	require.Equal(t, "", cleanEJMFields(" , "))
}
