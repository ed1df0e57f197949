// Package watch runs the incremental-update step: it partitions a
// freshly scraped batch into postings already present in the
// persisted store and genuinely new ones, and commits only the new
// set. Buckets are scoped per source, so an ejm posting can never
// deduplicate against an nber posting even when every other field
// matches.
package watch

import (
	"context"
	"errors"
	"log/slog"

	"rajobs-backend/internal/records"
	"rajobs-backend/internal/store"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("rajobs/watch")

// Report is the outcome of one incremental run.
type Report struct {
	// New holds the records not seen before, in batch order.
	New []records.Record
	// Existing counts records already present in the store.
	Existing int
}

type buckets map[string]map[records.Signature]struct{}

func (b buckets) add(r records.Record) {
	bucket, ok := b[r.Source]
	if !ok {
		bucket = map[records.Signature]struct{}{}
		b[r.Source] = bucket
	}
	bucket[records.ComputeSignature(r)] = struct{}{}
}

func (b buckets) contains(r records.Record) bool {
	bucket, ok := b[r.Source]
	if !ok {
		return false
	}
	_, ok = bucket[records.ComputeSignature(r)]
	return ok
}

// Run loads the signature history, classifies each record of the
// batch and appends the new ones. The in-memory bucket is updated as
// the batch is walked, so a duplicate inside the same batch is also
// recognized. An unreadable store degrades to an empty history rather
// than failing the run; I/O failures on the append path are returned.
func Run(ctx context.Context, st store.Store, batch []records.Record) (Report, error) {
	ctx, span := tracer.Start(ctx, "watch.Run")
	defer span.End()

	prior, err := st.Load(ctx)
	if errors.Is(err, store.ErrUnreadable) {
		slog.WarnContext(ctx, "store unreadable, treating as empty", "err", err)
		prior = nil
	} else if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return Report{}, err
	}

	seen := buckets{}
	for _, r := range prior {
		seen.add(r)
	}
	for source, bucket := range seen {
		slog.DebugContext(ctx, "loaded source bucket", "source", source, "signatures", len(bucket))
	}

	var report Report
	for _, r := range batch {
		if seen.contains(r) {
			report.Existing++
			continue
		}
		seen.add(r)
		report.New = append(report.New, r)
	}

	span.SetAttributes(
		attribute.Int("batch", len(batch)),
		attribute.Int("new", len(report.New)),
		attribute.Int("existing", report.Existing),
	)

	if len(report.New) == 0 {
		slog.InfoContext(ctx, "no new postings found, store untouched")
		return report, nil
	}

	if err := st.Append(ctx, report.New); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return Report{}, err
	}
	slog.InfoContext(ctx, "appended new postings", "count", len(report.New))
	return report, nil
}
