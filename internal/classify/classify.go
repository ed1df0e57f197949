// Package classify maps free posting text to a research-field tag set
// and a program-type category. The keyword tables live in an embedded
// json5 document so they can be extended without touching extractor
// logic.
package classify

import (
	"strings"

	"rajobs-backend/internal/records"
	"rajobs-backend/lib/textutil"

	_ "embed"

	"github.com/titanous/json5"
)

//go:embed keywords.json5
var keywordsFile []byte

type programType struct {
	Category   string   `json:"category"`
	Indicators []string `json:"indicators"`
}

type keywordTables struct {
	FieldKeywords []string      `json:"field_keywords"`
	ProgramTypes  []programType `json:"program_types"`
}

var tables keywordTables

func init() {
	if err := json5.Unmarshal(keywordsFile, &tables); err != nil {
		panic("classify: bad embedded keyword tables: " + err.Error())
	}
}

// DefaultProgramType is what unmatched text classifies as.
const DefaultProgramType = "Research Assistant"

// MainField scans text for the research-field keywords, case
// insensitively and substring-based, and returns the matches
// comma-joined in keyword-table order with duplicates removed.
// Overlapping matches are intentional: "Macroeconomics" also contains
// "Economics" and both are reported. Returns the sentinel when
// nothing matches.
func MainField(text string) string {
	var found []string
	seen := map[string]bool{}
	for _, kw := range tables.FieldKeywords {
		if seen[kw] {
			continue
		}
		if textutil.ContainsFold(text, kw) {
			found = append(found, kw)
			seen[kw] = true
		}
	}
	if len(found) == 0 {
		return records.Sentinel
	}
	return strings.Join(found, ", ")
}

// ProgramType resolves text to one of the program-type categories.
// Categories are checked in table order and the first match wins, so
// a title carrying several indicator substrings still classifies
// deterministically. Unmatched text defaults to Research Assistant.
func ProgramType(text string) string {
	for _, pt := range tables.ProgramTypes {
		if textutil.ContainsAnyFold(text, pt.Indicators) {
			return pt.Category
		}
	}
	return DefaultProgramType
}
