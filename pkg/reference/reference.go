package reference

import (
	"crypto/rand"
	"encoding/binary"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

const suffixLength = 6

var pattern = regexp.MustCompile(`^[A-Z]{2}-\d{4}-[A-Z0-9]{6}$`)

// Generate produces a report reference number in the form AA-YYYY-XXXXXX:
// a two-letter prefix taken from the report type, the current calendar year,
// and a six character base-36 random suffix. Types shorter than two
// characters are right-padded with 'X' before upper-casing.
func Generate(reportType string) string {
	prefix := strings.ToUpper(reportType)
	prefix = strings.Map(func(r rune) rune {
		if (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			return r
		}
		return 'X'
	}, prefix)
	for len(prefix) < 2 {
		prefix += "X"
	}
	prefix = prefix[:2]

	year := time.Now().Year()
	return fmt.Sprintf("%s-%04d-%s", prefix, year, randomSuffix())
}

// IsValid reports whether s matches the fixed reference number format.
// Used to validate externally supplied references before any lookup.
func IsValid(s string) bool {
	return pattern.MatchString(s)
}

func randomSuffix() string {
	buf := make([]byte, 8)
	if _, err := rand.Read(buf); err != nil {
		// Degraded fallback; nanosecond clock still varies per call.
		binary.BigEndian.PutUint64(buf, uint64(time.Now().UnixNano()))
	}
	n := binary.BigEndian.Uint64(buf)
	s := strings.ToUpper(strconv.FormatUint(n, 36))
	if len(s) >= suffixLength {
		return s[:suffixLength]
	}
	return s + strings.Repeat("0", suffixLength-len(s))
}
