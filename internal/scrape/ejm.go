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

// EJM extracts from the econjobmarket.org market page, the richest
// and most fragile source. Each posting is a bootstrap panel with
// four positional columns plus an optional expandable detail block
// keyed by the title anchor's fragment href. Two batch-wide
// post-processing steps run after panel parsing, in extraction order:
// the visible link is replaced by the detail block's application link,
// and "Flexible" start dates inherit backward from the nearest
// preceding concrete start date.
type EJM struct{}

func (EJM) Source() string { return records.SourceEJM }

const ejmSiteRoot = "https://econjobmarket.org"

var (
	ejmBulletRe      = regexp.MustCompile(`[•;]`)
	ejmDoubleCommaRe = regexp.MustCompile(`,\s*,`)
	ejmSpaceRe       = regexp.MustCompile(`\s+`)
	ejmProfessorRe   = regexp.MustCompile(`[Pp]rofessors?\s+(.*?)(?:\.|$)`)
	ejmApplyLabelRe  = regexp.MustCompile(`(?i)To\s+Apply`)
	ejmApplyAnchorRe = regexp.MustCompile(`(?i)apply`)
)

func (e EJM) Extract(ctx context.Context, markup string) ([]records.Raw, error) {
	ctx, span := tracer.Start(ctx, "ejm.Extract")
	defer span.End()

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	var jobs []records.Raw
	var applyLinks []string
	doc.Find("div.panel.panel-info").Each(func(i int, panel *goquery.Selection) {
		job, applyLink := e.parsePanel(ctx, panel)
		if job == nil {
			slog.WarnContext(ctx, "ejm panel without main row, skipping", "index", i)
			return
		}
		jobs = append(jobs, job)
		applyLinks = append(applyLinks, applyLink)
	})

	postProcessEJM(jobs, applyLinks)
	return jobs, nil
}

func (e EJM) parsePanel(ctx context.Context, panel *goquery.Selection) (records.Raw, string) {
	mainRow := panel.Find("div.row").First()
	if mainRow.Length() == 0 {
		return nil, ""
	}
	cols := mainRow.ChildrenFiltered("div")

	job := records.Raw{"source": e.Source()}
	for _, f := range []string{
		"program_title", "location", "start_date", "duration",
		"department", "university", "program_type", "fields",
		"publication_date", "deadline", "sponsor",
		"degree_required", "salary_range",
	} {
		job[f] = records.Sentinel
	}

	// column 1: title/link anchor, location, Starts/Duration lines
	titleHref := ""
	if cols.Length() >= 1 {
		first := cols.Eq(0)
		titleA := first.Find(`a[id^="title-"]`).First()
		if titleA.Length() > 0 {
			job["program_title"] = textutil.CollapseSpace(titleA.Text())
			titleHref = strings.TrimSpace(titleA.AttrOr("href", ""))
		} else {
			slog.WarnContext(ctx, "ejm panel without title anchor")
		}

		lines := htmlutil.TextChunks(first)
		if len(lines) >= 2 {
			job["location"] = lines[1]
		}
		for _, line := range lines {
			lower := strings.ToLower(line)
			if strings.HasPrefix(lower, "starts") {
				cleaned := strings.ReplaceAll(strings.Replace(line, "Starts", "", 1), ".", "")
				if cleaned = strings.TrimSpace(cleaned); cleaned != "" {
					job["start_date"] = cleaned
				}
			} else if strings.HasPrefix(lower, "duration") {
				cleaned := strings.TrimSpace(strings.Replace(line, "Duration:", "", 1))
				if cleaned != "" {
					job["duration"] = cleaned
				}
			}
		}
	}

	// column 2: department over university
	if cols.Length() >= 2 {
		lines := htmlutil.TextChunks(cols.Eq(1))
		if len(lines) >= 1 {
			job["department"] = lines[0]
		}
		if len(lines) >= 2 {
			job["university"] = lines[1]
		}
	}

	// column 3: program type over the research-field list
	if cols.Length() >= 3 {
		third := cols.Eq(2)
		chunks := htmlutil.TextChunks(third)

		rawProgram := ""
		if len(chunks) > 0 {
			rawProgram = chunks[0]
		}
		job["program_type"] = classify.ProgramType(rawProgram)

		fieldsRaw := ""
		if catsDiv := third.Find(`div[id^="cats-"]`).First(); catsDiv.Length() > 0 {
			fieldsRaw = htmlutil.JoinedText(catsDiv, ", ")
		} else if len(chunks) > 1 {
			fieldsRaw = strings.Join(chunks[1:], "\n")
		}
		if cleaned := cleanEJMFields(fieldsRaw); cleaned != "" {
			job["fields"] = cleaned
		}
	}

	// column 4: publication date then deadline, as inline labels
	if cols.Length() >= 4 {
		spans := cols.Eq(3).Find("span")
		if spans.Length() > 0 {
			job["publication_date"] = textutil.CollapseSpace(spans.Eq(0).Text())
		}
		if spans.Length() > 1 {
			job["deadline"] = textutil.CollapseSpace(spans.Eq(1).Text())
		}
	}

	job["institution"] = job["university"]
	job["main_field"] = classify.MainField(job["fields"])

	applyLink := ""
	if strings.HasPrefix(titleHref, "#") {
		applyLink = e.parseDetailBlock(panel, titleHref[1:], job)
	}
	return job, applyLink
}

// parseDetailBlock scans the expandable block for sponsors, labeled
// sub-blocks and the application link, mutating job in place.
func (e EJM) parseDetailBlock(panel *goquery.Selection, blockID string, job records.Raw) string {
	detail := panel.Find("div").FilterFunction(func(_ int, s *goquery.Selection) bool {
		return s.AttrOr("id", "") == blockID
	}).First()
	if detail.Length() == 0 {
		return ""
	}

	detailText := htmlutil.JoinedText(detail, "\n")
	if m := ejmProfessorRe.FindStringSubmatch(detailText); m != nil {
		names := strings.ReplaceAll(m[1], " and ", ", ")
		var sponsors []string
		for _, name := range strings.Split(names, ",") {
			if name = strings.TrimSpace(name); name != "" {
				sponsors = append(sponsors, name)
			}
		}
		if len(sponsors) > 0 {
			job["sponsor"] = strings.Join(sponsors, ", ")
		}
	}

	detail.Find("div").Each(func(_ int, div *goquery.Selection) {
		strong := div.Find("strong").First()
		if strong.Length() == 0 {
			return
		}
		label := strings.ToLower(textutil.CollapseSpace(strong.Text()))
		val := htmlutil.JoinedText(div, "\n")
		val = strings.Replace(val, textutil.CollapseSpace(strong.Text()), "", 1)
		val = strings.Trim(val, ": \n")
		if val == "" {
			return
		}

		switch {
		case strings.Contains(label, "degree required"):
			job["degree_required"] = val
		case strings.Contains(label, "job start date"):
			job["start_date"] = val
		case strings.Contains(label, "job duration"):
			job["duration"] = val
		case strings.Contains(label, "salary"):
			// multi-line salary ranges collapse to one line
			job["salary_range"] = strings.Join(strings.Fields(val), " ")
		}
	})

	applyLink := ""
	detail.Find("p").EachWithBreak(func(_ int, p *goquery.Selection) bool {
		if !ejmApplyLabelRe.MatchString(p.Text()) {
			return true
		}
		if a, ok := htmlutil.FirstAnchor(p); ok {
			applyLink = a.Href
			return false
		}
		if a, ok := htmlutil.FirstAnchor(p.NextAll()); ok {
			applyLink = a.Href
			return false
		}
		return true
	})
	if applyLink == "" {
		detail.Find("a[href]").EachWithBreak(func(_ int, a *goquery.Selection) bool {
			if ejmApplyAnchorRe.MatchString(a.Text()) {
				applyLink = strings.TrimSpace(a.AttrOr("href", ""))
				return false
			}
			return true
		})
	}
	return applyLink
}

func cleanEJMFields(raw string) string {
	s := ejmBulletRe.ReplaceAllString(raw, "")
	s = ejmDoubleCommaRe.ReplaceAllString(s, ",")
	s = ejmSpaceRe.ReplaceAllString(s, " ")
	return strings.Trim(s, " ,")
}

// postProcessEJM runs the order-dependent batch rules. The backward
// start-date scan works on the batch in extraction order and sees the
// rewrites made for earlier entries, so a run of "Flexible" postings
// all inherit the same concrete date.
func postProcessEJM(jobs []records.Raw, applyLinks []string) {
	for i, job := range jobs {
		app := strings.TrimSpace(applyLinks[i])
		if app == "" || app == ejmSiteRoot {
			job["link"] = records.Sentinel
		} else {
			job["link"] = app
		}

		if strings.EqualFold(job["start_date"], "flexible") {
			inherited := records.Sentinel
			for j := i - 1; j >= 0; j-- {
				prev := jobs[j]["start_date"]
				if prev != "" && !strings.EqualFold(prev, "flexible") {
					inherited = prev
					break
				}
			}
			job["start_date"] = inherited
		}
	}
}
