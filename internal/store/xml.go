package store

import (
	"context"
	"encoding/xml"
	"fmt"
	"log/slog"
	"os"

	"rajobs-backend/internal/records"

	"go.opentelemetry.io/otel/codes"
)

// FileStore persists postings in the jobs.xml layout: one <entry> per
// record under a <jobs> root, every canonical field a named child
// element, sentinel text "N/A" for anything not applicable. Older
// entries may predate newer canonical fields; those load back
// sentinel-filled.
type FileStore struct {
	path string
}

func NewFileStore(path string) FileStore {
	return FileStore{path: path}
}

type xmlField struct {
	XMLName xml.Name
	Value   string `xml:",chardata"`
}

type xmlEntry struct {
	XMLName xml.Name   `xml:"entry"`
	Fields  []xmlField `xml:",any"`
}

type xmlJobs struct {
	XMLName xml.Name   `xml:"jobs"`
	Entries []xmlEntry `xml:"entry"`
}

func entryFromRecord(r records.Record) xmlEntry {
	entry := xmlEntry{}
	for _, p := range r.Pairs() {
		entry.Fields = append(entry.Fields, xmlField{
			XMLName: xml.Name{Local: p.Field},
			Value:   p.Value,
		})
	}
	return entry
}

func recordFromEntry(e xmlEntry) records.Record {
	m := make(map[string]string, len(e.Fields))
	for _, f := range e.Fields {
		m[f.XMLName.Local] = f.Value
	}
	return records.FromMap(m)
}

func (s FileStore) read() (xmlJobs, error) {
	var root xmlJobs
	contents, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return root, nil
	}
	if err != nil {
		return root, fmt.Errorf("read store: %w", err)
	}
	if err := xml.Unmarshal(contents, &root); err != nil {
		return xmlJobs{}, fmt.Errorf("%w: %s: %v", ErrUnreadable, s.path, err)
	}
	return root, nil
}

func (s FileStore) Load(ctx context.Context) ([]records.Record, error) {
	_, span := tracer.Start(ctx, "FileStore.Load")
	defer span.End()

	root, err := s.read()
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	out := make([]records.Record, 0, len(root.Entries))
	for _, e := range root.Entries {
		out = append(out, recordFromEntry(e))
	}
	return out, nil
}

func (s FileStore) Append(ctx context.Context, recs []records.Record) error {
	ctx, span := tracer.Start(ctx, "FileStore.Append")
	defer span.End()

	if len(recs) == 0 {
		return nil
	}

	root, err := s.read()
	if err != nil {
		// keep the unreadable file around instead of overwriting it
		backup := s.path + ".bak"
		slog.WarnContext(ctx, "store unreadable, moving aside", "path", s.path, "backup", backup, "err", err)
		if renameErr := os.Rename(s.path, backup); renameErr != nil {
			span.RecordError(renameErr)
			span.SetStatus(codes.Error, renameErr.Error())
			return fmt.Errorf("back up unreadable store: %w", renameErr)
		}
		root = xmlJobs{}
	}

	for _, r := range recs {
		root.Entries = append(root.Entries, entryFromRecord(r))
	}

	contents, err := xml.MarshalIndent(root, "", "  ")
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("encode store: %w", err)
	}
	contents = append([]byte(xml.Header), contents...)

	// write-then-rename keeps the previous file intact on failure
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, contents, 0644); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("write store: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("replace store: %w", err)
	}
	return nil
}
