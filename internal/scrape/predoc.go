package scrape

import (
	"context"
	"log/slog"
	"regexp"
	"strings"

	"rajobs-backend/internal/classify"
	"rajobs-backend/internal/records"
	"rajobs-backend/lib/htmlutil"

	"github.com/PuerkitoBio/goquery"
)

// Predoc extracts from the predoc.org opportunities listing. Each
// posting is an <article> inside a div whose class mentions
// "Opportunities", with the title/link in an <h2> and a free-text
// block carrying four labeled segments.
type Predoc struct{}

func (Predoc) Source() string { return records.SourcePredoc }

// Segments are the text strictly between consecutive labels; a
// missing label leaves the corresponding field sentinel-filled.
var (
	predocSponsorRe     = regexp.MustCompile(`Sponsoring Researcher\(s\):\s*(.*?)\s*Sponsoring Institution:`)
	predocInstitutionRe = regexp.MustCompile(`Sponsoring Institution:\s*(.*?)\s*Fields of Research`)
	predocFieldsRe      = regexp.MustCompile(`Fields of Research\s*:\s*(.*?)\s*Deadline:`)
	predocDeadlineRe    = regexp.MustCompile(`Deadline:\s*(.*)`)
)

func segment(re *regexp.Regexp, text string) string {
	m := re.FindStringSubmatch(text)
	if m == nil {
		return records.Sentinel
	}
	return strings.TrimSpace(m[1])
}

func (p Predoc) Extract(ctx context.Context, markup string) ([]records.Raw, error) {
	ctx, span := tracer.Start(ctx, "predoc.Extract")
	defer span.End()

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	container := doc.Find(`div[class*="Opportunities"]`).First()
	if container.Length() == 0 {
		slog.WarnContext(ctx, "predoc container not found")
		return nil, nil
	}

	var jobs []records.Raw
	container.Find("article").Each(func(_ int, article *goquery.Selection) {
		job := records.Raw{"source": p.Source()}

		title, link := records.Sentinel, records.Sentinel
		if a, ok := htmlutil.FirstAnchor(article.Find("h2").First()); ok {
			title = a.Name
			link = a.Href
		} else {
			slog.WarnContext(ctx, "predoc posting without title anchor")
		}
		job["program_title"] = title
		job["link"] = link

		text := htmlutil.JoinedText(article.Find("div.copy p").First(), " ")
		job["sponsor"] = segment(predocSponsorRe, text)
		job["institution"] = segment(predocInstitutionRe, text)
		job["fields"] = segment(predocFieldsRe, text)
		job["deadline"] = segment(predocDeadlineRe, text)

		job["university"] = records.Sentinel
		job["publication_date"] = records.Sentinel
		// the page only lists pre-doctoral opportunities
		job["program_type"] = "PreDoctoral Program"

		job["main_field"] = classify.MainField(strings.Join([]string{
			job["fields"], job["program_title"], job["institution"],
		}, " "))

		jobs = append(jobs, job)
	})

	return jobs, nil
}
