// Package store persists accepted postings. Two backends implement
// the same contract: a jobs.xml-compatible file store and a sqlite
// store. Records accumulate indefinitely, appends never disturb
// existing entries.
package store

import (
	"context"
	"errors"

	"rajobs-backend/internal/records"

	"go.opentelemetry.io/otel"
)

var tracer = otel.Tracer("rajobs/store")

// ErrUnreadable wraps a store whose contents could not be parsed.
// Callers may treat it as an empty store; Append is responsible for
// not clobbering the unreadable data.
var ErrUnreadable = errors.New("persisted store is unreadable")

type Store interface {
	// Load returns every previously accepted record. A missing
	// store is an empty one. An unparseable store returns an error
	// wrapping ErrUnreadable alongside no records.
	Load(ctx context.Context) ([]records.Record, error)
	// Append adds records without touching existing entries.
	Append(ctx context.Context, recs []records.Record) error
}
