package records

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNormalizeFillsSentinels(t *testing.T) {
	raws := []Raw{
		{
			"source":        SourcePredoc,
			"program_title": "  RA in Labor Economics  ",
			"link":          "https://example.org/job",
			"deadline":      "   ",
		},
	}

	out := Normalize(raws)
	require.Len(t, out, 1)
	r := out[0]

	require.Equal(t, SourcePredoc, r.Source)
	require.Equal(t, "RA in Labor Economics", r.ProgramTitle)
	require.Equal(t, "https://example.org/job", r.Link)

	// every canonical field must be present and non-empty
	for _, p := range r.Pairs() {
		require.NotEmpty(t, p.Value, "field %q", p.Field)
	}
	require.Equal(t, Sentinel, r.Deadline)
	require.Equal(t, Sentinel, r.SalaryRange)
	require.Equal(t, Sentinel, r.University)
}

func TestFromMapIgnoresKeyCase(t *testing.T) {
	r := FromMap(map[string]string{
		" Program_Title ": "Pre-doc Fellow",
		"SOURCE":          SourceNBER,
	})
	require.Equal(t, "Pre-doc Fellow", r.ProgramTitle)
	require.Equal(t, SourceNBER, r.Source)
}

func TestSignatureEquality(t *testing.T) {
	a := FromMap(map[string]string{
		"source":        SourceEJM,
		"program_title": "Research Assistant",
		"link":          "https://example.org/a",
	})
	b := FromMap(map[string]string{
		"link":          "https://example.org/a",
		"program_title": "Research Assistant",
		"source":        SourceEJM,
	})
	require.Equal(t, ComputeSignature(a), ComputeSignature(b))
}

func TestSignatureChangesPerField(t *testing.T) {
	base := FromMap(map[string]string{
		"source":        SourceEJM,
		"program_title": "Research Assistant",
	})
	for _, field := range FieldNames {
		if field == "source" {
			continue
		}
		m := base.Map()
		m[field] = "different value"
		changed := FromMap(m)
		require.NotEqual(t, ComputeSignature(base), ComputeSignature(changed),
			"changing %q must change the signature", field)
	}
}

func TestSignatureIncludesSentinels(t *testing.T) {
	withSentinel := FromMap(map[string]string{
		"source":        SourceNBER,
		"program_title": "RA",
	})
	withValue := FromMap(map[string]string{
		"source":        SourceNBER,
		"program_title": "RA",
		"deadline":      "June 1, 2026",
	})
	require.NotEqual(t, ComputeSignature(withSentinel), ComputeSignature(withValue))
}
