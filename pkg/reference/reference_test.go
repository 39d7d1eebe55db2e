package reference

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateMatchesFormat(t *testing.T) {
	for _, reportType := range []string{"TRANSCRIPT", "certificate", "RECEIPT", "attendance", "generic"} {
		ref := Generate(reportType)
		assert.True(t, IsValid(ref), "reference %q should be valid", ref)
		assert.True(t, strings.HasPrefix(ref, strings.ToUpper(reportType[:2])))
	}
}

func TestGenerateEmbedsCurrentYear(t *testing.T) {
	ref := Generate("TRANSCRIPT")
	require.True(t, IsValid(ref))
	assert.Equal(t, fmt.Sprintf("%04d", time.Now().Year()), ref[3:7])
}

func TestGenerateShortTypePadsPrefix(t *testing.T) {
	ref := Generate("a")
	require.True(t, IsValid(ref))
	assert.Equal(t, "AX", ref[:2])

	ref = Generate("")
	require.True(t, IsValid(ref))
	assert.Equal(t, "XX", ref[:2])
}

func TestGenerateNonAlnumTypeSanitised(t *testing.T) {
	ref := Generate("é!")
	require.True(t, IsValid(ref), "got %q", ref)
}

func TestGenerateIsProbabilisticallyUnique(t *testing.T) {
	const n = 10000
	seen := make(map[string]struct{}, n)
	for i := 0; i < n; i++ {
		seen[Generate("TRANSCRIPT")] = struct{}{}
	}
	assert.GreaterOrEqual(t, len(seen), 9990)
}

func TestIsValid(t *testing.T) {
	cases := map[string]bool{
		"TR-2024-ABC123":  true,
		"CE-1999-000000":  true,
		"tr-2024-abc123":  false,
		"TRX-2024-ABC123": false,
		"TR-24-ABC123":    false,
		"TR-2024-ABC12":   false,
		"TR-2024-ABC1234": false,
		"":                false,
		"TR-2024-ABC12!":  false,
	}
	for input, want := range cases {
		assert.Equal(t, want, IsValid(input), "input %q", input)
	}
}
