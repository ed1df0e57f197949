package store

import (
	"context"
	"database/sql"
	"fmt"

	"rajobs-backend/internal/records"

	"go.opentelemetry.io/otel/codes"

	_ "embed"

	_ "modernc.org/sqlite"
)

//go:embed schema.sql
var Schema string

// DBStore persists postings in sqlite, one column per canonical
// field. Same contract as FileStore.
type DBStore struct {
	db *sql.DB
}

func NewDBStore(db *sql.DB) DBStore {
	return DBStore{db: db}
}

const selectPostings = `
SELECT source, program_title, link, sponsor, institution, fields,
       main_field, program_type, university, deadline, publication_date,
       location, start_date, duration, department, degree_required,
       salary_range
FROM postings ORDER BY id`

const insertPosting = `
INSERT INTO postings (
    source, program_title, link, sponsor, institution, fields,
    main_field, program_type, university, deadline, publication_date,
    location, start_date, duration, department, degree_required,
    salary_range
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

func (s DBStore) Load(ctx context.Context) ([]records.Record, error) {
	ctx, span := tracer.Start(ctx, "DBStore.Load")
	defer span.End()

	rows, err := s.db.QueryContext(ctx, selectPostings)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("load store: %w", err)
	}
	defer rows.Close()

	var out []records.Record
	for rows.Next() {
		var r records.Record
		err := rows.Scan(
			&r.Source, &r.ProgramTitle, &r.Link, &r.Sponsor,
			&r.Institution, &r.Fields, &r.MainField, &r.ProgramType,
			&r.University, &r.Deadline, &r.PublicationDate,
			&r.Location, &r.StartDate, &r.Duration, &r.Department,
			&r.DegreeRequired, &r.SalaryRange,
		)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return nil, fmt.Errorf("load store: %w", err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("load store: %w", err)
	}
	return out, nil
}

func (s DBStore) Append(ctx context.Context, recs []records.Record) error {
	ctx, span := tracer.Start(ctx, "DBStore.Append")
	defer span.End()

	if len(recs) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("append store: %w", err)
	}
	defer tx.Rollback()

	for _, r := range recs {
		_, err := tx.ExecContext(ctx, insertPosting,
			r.Source, r.ProgramTitle, r.Link, r.Sponsor,
			r.Institution, r.Fields, r.MainField, r.ProgramType,
			r.University, r.Deadline, r.PublicationDate,
			r.Location, r.StartDate, r.Duration, r.Department,
			r.DegreeRequired, r.SalaryRange,
		)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return fmt.Errorf("append store: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("append store: %w", err)
	}
	return nil
}
