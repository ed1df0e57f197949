package scrape

import (
	"context"
	"log/slog"
	"regexp"
	"strings"

	"rajobs-backend/internal/classify"
	"rajobs-backend/internal/records"
	"rajobs-backend/lib/htmlutil"
	"rajobs-backend/lib/textutil"

	"github.com/PuerkitoBio/goquery"
)

// NBER extracts from the NBER research-assistant positions page.
// Postings are <p> blocks internally delimited by <br> into segments:
// title, sponsor, institution, fields, and a trailing segment holding
// the posting link. NBER is the only source without an explicit
// program-type label, so the type is classified from the title.
type NBER struct{}

func (NBER) Source() string { return records.SourceNBER }

var brRe = regexp.MustCompile(`<br\s*/?>`)

// fragmentText renders an HTML fragment down to its visible text.
func fragmentText(fragment string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return textutil.CollapseSpace(fragment)
	}
	return htmlutil.JoinedText(doc.Selection, " ")
}

func stripLabel(text, label string) string {
	return strings.TrimSpace(strings.Replace(text, label, "", 1))
}

// cleanNBERFields normalizes the fields segment: ampersand-joined
// lists and semicolon-delimited lists are rewritten comma-joined, and
// when a stray label colon survives only the text after it is kept.
func cleanNBERFields(fields string) string {
	if parts := strings.Split(fields, "&"); len(parts) > 1 {
		for i, p := range parts {
			parts[i] = strings.TrimSpace(p)
		}
		fields = strings.Join(parts, ", ")
	}
	if parts := strings.Split(fields, ";"); len(parts) > 1 {
		for i, p := range parts {
			parts[i] = strings.TrimSpace(p)
		}
		fields = strings.Join(parts, ", ")
	}
	if idx := strings.Index(fields, ":"); idx >= 0 {
		fields = strings.TrimSpace(fields[idx+1:])
	}
	return fields
}

func (n NBER) Extract(ctx context.Context, markup string) ([]records.Raw, error) {
	ctx, span := tracer.Start(ctx, "nber.Extract")
	defer span.End()

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	container := doc.Find("div.page-header__intro-inner").First()
	if container.Length() == 0 {
		slog.WarnContext(ctx, "nber container not found")
		return nil, nil
	}

	var jobs []records.Raw
	container.Find("p").Each(func(i int, p *goquery.Selection) {
		// the first two paragraphs are page boilerplate
		if i < 2 {
			return
		}

		inner, err := p.Html()
		if err != nil {
			slog.WarnContext(ctx, "nber paragraph not renderable", "index", i, "err", err)
			return
		}
		parts := brRe.Split(inner, -1)
		if len(parts) < 4 {
			slog.WarnContext(ctx, "nber posting has too few segments", "index", i, "segments", len(parts))
			return
		}

		job := records.Raw{"source": n.Source()}
		job["program_title"] = fragmentText(parts[0])
		job["sponsor"] = stripLabel(fragmentText(parts[1]), "NBER Sponsoring Researcher(s):")
		job["institution"] = stripLabel(fragmentText(parts[2]), "Institution:")

		fields := cleanNBERFields(stripLabel(fragmentText(parts[3]), "Field(s) of Research:"))
		job["fields"] = fields

		job["program_type"] = classify.ProgramType(job["program_title"])
		job["main_field"] = classify.MainField(fields)

		link := records.Sentinel
		if len(parts) >= 5 {
			linkDoc, err := goquery.NewDocumentFromReader(strings.NewReader(parts[len(parts)-1]))
			if err == nil {
				if a, ok := htmlutil.FirstAnchor(linkDoc.Selection); ok {
					link = a.Href
				}
			}
		}
		if link == records.Sentinel {
			slog.WarnContext(ctx, "nber posting without link", "title", job["program_title"])
		}
		job["link"] = link

		job["deadline"] = records.Sentinel
		job["publication_date"] = records.Sentinel
		job["university"] = records.Sentinel

		jobs = append(jobs, job)
	})

	return jobs, nil
}
