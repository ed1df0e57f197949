// Package records holds the canonical posting schema every source
// converges to, the normalizer that makes raw extractor output total
// over that schema, and the identity signature used for deduplication.
package records

import (
	"sort"
	"strings"
)

// Sentinel marks a field a source does not provide. It is distinct
// from an absent key: a normalized record always carries every
// canonical field, sentinel-filled where nothing applies.
const Sentinel = "N/A"

// Canonical source tags.
const (
	SourcePredoc = "predoc"
	SourceNBER   = "nber"
	SourceEJM    = "ejm"
)

// FieldNames lists every canonical field in serialization order.
var FieldNames = []string{
	"source",
	"program_title",
	"link",
	"sponsor",
	"institution",
	"fields",
	"main_field",
	"program_type",
	"university",
	"deadline",
	"publication_date",
	"location",
	"start_date",
	"duration",
	"department",
	"degree_required",
	"salary_range",
}

// Raw is one extractor's output for a single posting: source-specific
// field names mapped to text. Field sets differ per source, raw
// records are never persisted.
type Raw map[string]string

// Record is a fully normalized posting. Every field is non-empty,
// holding either a real value or Sentinel.
type Record struct {
	Source          string
	ProgramTitle    string
	Link            string
	Sponsor         string
	Institution     string
	Fields          string
	MainField       string
	ProgramType     string
	University      string
	Deadline        string
	PublicationDate string
	Location        string
	StartDate       string
	Duration        string
	Department      string
	DegreeRequired  string
	SalaryRange     string
}

// Pair is one canonical (field, value) element of a record.
type Pair struct {
	Field string
	Value string
}

// Pairs returns every canonical field of the record, in FieldNames
// order. Sentinel-valued fields are included.
func (r Record) Pairs() []Pair {
	return []Pair{
		{"source", r.Source},
		{"program_title", r.ProgramTitle},
		{"link", r.Link},
		{"sponsor", r.Sponsor},
		{"institution", r.Institution},
		{"fields", r.Fields},
		{"main_field", r.MainField},
		{"program_type", r.ProgramType},
		{"university", r.University},
		{"deadline", r.Deadline},
		{"publication_date", r.PublicationDate},
		{"location", r.Location},
		{"start_date", r.StartDate},
		{"duration", r.Duration},
		{"department", r.Department},
		{"degree_required", r.DegreeRequired},
		{"salary_range", r.SalaryRange},
	}
}

// Map returns the record as a field name to value mapping.
func (r Record) Map() map[string]string {
	out := make(map[string]string, len(FieldNames))
	for _, p := range r.Pairs() {
		out[p.Field] = p.Value
	}
	return out
}

func clean(v string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return Sentinel
	}
	return v
}

// FromMap builds a Record from a field mapping. Keys are matched
// case-insensitively after trimming, unknown keys are dropped, missing
// or blank canonical fields come out as Sentinel.
func FromMap(m map[string]string) Record {
	lowered := make(map[string]string, len(m))
	for k, v := range m {
		lowered[strings.ToLower(strings.TrimSpace(k))] = v
	}
	get := func(field string) string {
		return clean(lowered[field])
	}
	return Record{
		Source:          get("source"),
		ProgramTitle:    get("program_title"),
		Link:            get("link"),
		Sponsor:         get("sponsor"),
		Institution:     get("institution"),
		Fields:          get("fields"),
		MainField:       get("main_field"),
		ProgramType:     get("program_type"),
		University:      get("university"),
		Deadline:        get("deadline"),
		PublicationDate: get("publication_date"),
		Location:        get("location"),
		StartDate:       get("start_date"),
		Duration:        get("duration"),
		Department:      get("department"),
		DegreeRequired:  get("degree_required"),
		SalaryRange:     get("salary_range"),
	}
}

// Normalize converts raw extractor output into total, trimmed records.
func Normalize(raws []Raw) []Record {
	out := make([]Record, 0, len(raws))
	for _, raw := range raws {
		out = append(out, FromMap(raw))
	}
	return out
}

// Signature is the unit of equality for deduplication. Two records
// describe the same posting iff their signatures are equal.
type Signature string

// signature pairs are joined with the ASCII unit separator, which
// cannot appear in scraped text that went through cleanup.
const pairSep = "\x1f"

// ComputeSignature derives a canonical, field-order-independent
// identity for a record. Every canonical field participates,
// sentinel values included, so two records compare equal only when
// all fields match exactly. The same construction is used on both the
// history-check path and the append path.
func ComputeSignature(r Record) Signature {
	pairs := r.Pairs()
	parts := make([]string, 0, len(pairs))
	for _, p := range pairs {
		parts = append(parts, p.Field+"="+p.Value)
	}
	sort.Strings(parts)
	return Signature(strings.Join(parts, pairSep))
}
