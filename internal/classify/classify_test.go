package classify

import (
	"testing"

	"rajobs-backend/internal/records"

	"github.com/stretchr/testify/require"
)

func TestMainFieldKeywordOrder(t *testing.T) {
	// "Macroeconomics" substring-matches "Economics" too; both are
	// reported, in keyword-table order.
	require.Equal(t,
		"Economics, Macroeconomics, Finance",
		MainField("Macroeconomics and Finance"),
	)
}

func TestMainFieldCaseInsensitive(t *testing.T) {
	require.Equal(t, "Economics, Labour", MainField("labour ECONOMICS group"))
}

func TestMainFieldNoMatch(t *testing.T) {
	require.Equal(t, records.Sentinel, MainField("Astrophysics postdoc"))
	require.Equal(t, records.Sentinel, MainField(""))
}

func TestMainFieldOverlap(t *testing.T) {
	require.Equal(t,
		"Economics, Microeconomics, Microeconomic Theory",
		MainField("Microeconomic theory and applied microeconomics"),
	)
}

func TestProgramTypePrecedence(t *testing.T) {
	// pre-doctoral indicators win over research-assistant indicators
	require.Equal(t, "PreDoctoral Program", ProgramType("Pre-Doc Research Assistant"))
	require.Equal(t, "PreDoctoral Program", ProgramType("Predoctoral Fellowship"))
	require.Equal(t, "Post Doc", ProgramType("Postdoctoral position in economics"))
	require.Equal(t, "PhD", ProgramType("Ph.D student position"))
	require.Equal(t, "Research Assistant", ProgramType("Full-time Research Assistant"))
}

func TestProgramTypeDefault(t *testing.T) {
	require.Equal(t, DefaultProgramType, ProgramType("Economist"))
	require.Equal(t, DefaultProgramType, ProgramType(""))
}
