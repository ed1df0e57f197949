// Package scrape holds the per-source extractors. Each source
// publishes loosely structured markup with no machine-readable feed,
// so extraction is heuristic: recognizable containers, labeled text
// segments and regexes. A structural mismatch is never fatal; the
// extractor logs it and either skips the posting or sentinel-fills
// the affected fields.
package scrape

import (
	"context"
	"log/slog"

	"rajobs-backend/internal/records"

	"go.opentelemetry.io/otel"
)

var tracer = otel.Tracer("rajobs/scrape")

// Extractor turns one source's raw markup into raw posting records.
// Implementations must tolerate malformed input: the returned error
// covers only unparseable documents, not per-posting drift.
type Extractor interface {
	Source() string
	Extract(ctx context.Context, markup string) ([]records.Raw, error)
}

// All returns one extractor per supported source.
func All() []Extractor {
	return []Extractor{
		Predoc{},
		NBER{},
		EJM{},
	}
}

// ExtractAll runs every extractor whose source has markup available
// and returns the combined raw batch. Extractor failures are logged
// and skipped so one broken source cannot take down the run.
func ExtractAll(ctx context.Context, pages map[string]string) []records.Raw {
	ctx, span := tracer.Start(ctx, "ExtractAll")
	defer span.End()

	var out []records.Raw
	for _, ex := range All() {
		markup, ok := pages[ex.Source()]
		if !ok {
			slog.WarnContext(ctx, "no markup for source, skipping", "source", ex.Source())
			continue
		}
		raws, err := ex.Extract(ctx, markup)
		if err != nil {
			slog.ErrorContext(ctx, "extraction failed", "source", ex.Source(), "err", err)
			span.RecordError(err)
			continue
		}
		slog.InfoContext(ctx, "extracted postings", "source", ex.Source(), "count", len(raws))
		out = append(out, raws...)
	}
	return out
}
