// Package slug builds URL-safe public identifiers. Slugs are the only
// lookup key exposed on unauthenticated endpoints; internal IDs never
// leave the API surface.
package slug

import (
	"crypto/rand"
	"math/big"
	"regexp"
	"strings"
)

const (
	// DefaultMaxPartLength bounds each normalised name segment.
	DefaultMaxPartLength = 30
	// DefaultRandomLength is the size of the random suffix.
	DefaultRandomLength = 6
)

const suffixAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"

var (
	reDisallowed = regexp.MustCompile(`[^a-z0-9\s-]+`)
	reWhitespace = regexp.MustCompile(`\s+`)
	reHyphens    = regexp.MustCompile(`-+`)
)

// Make normalises each part into [a-z0-9-], truncates it to maxLenEach,
// joins the parts with hyphens and appends a random lowercase-alphanumeric
// suffix of randomLen characters. Empty parts vanish from the output.
func Make(parts []string, maxLenEach, randomLen int) string {
	if maxLenEach <= 0 {
		maxLenEach = DefaultMaxPartLength
	}
	if randomLen <= 0 {
		randomLen = DefaultRandomLength
	}

	cleaned := make([]string, 0, len(parts)+1)
	for _, part := range parts {
		normalised := normalise(part, maxLenEach)
		if normalised != "" {
			cleaned = append(cleaned, normalised)
		}
	}
	cleaned = append(cleaned, randomSuffix(randomLen))
	return strings.Join(cleaned, "-")
}

// ForMember derives a member profile slug from the member's display name.
func ForMember(name string) string {
	return Make([]string{name}, DefaultMaxPartLength, DefaultRandomLength)
}

// ForAssignment derives a form assignment slug from the assignee and the
// template it instantiates.
func ForAssignment(assigneeName, templateName string) string {
	return Make([]string{assigneeName, templateName}, DefaultMaxPartLength, DefaultRandomLength)
}

// ForTemplate derives a form template slug.
func ForTemplate(templateName string) string {
	return Make([]string{templateName}, DefaultMaxPartLength, DefaultRandomLength)
}

// ForWorkspace derives a workspace slug. Callers are expected to retry on
// persistence conflicts.
func ForWorkspace(name string) string {
	return Make([]string{name}, DefaultMaxPartLength, DefaultRandomLength)
}

func normalise(part string, maxLen int) string {
	s := strings.ToLower(strings.TrimSpace(part))
	s = reDisallowed.ReplaceAllString(s, "")
	s = reWhitespace.ReplaceAllString(s, "-")
	s = reHyphens.ReplaceAllString(s, "-")
	s = strings.Trim(s, "-")
	if len(s) > maxLen {
		s = strings.Trim(s[:maxLen], "-")
	}
	return s
}

func randomSuffix(length int) string {
	max := big.NewInt(int64(len(suffixAlphabet)))
	b := make([]byte, length)
	for i := range b {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			b[i] = suffixAlphabet[i%len(suffixAlphabet)]
			continue
		}
		b[i] = suffixAlphabet[n.Int64()]
	}
	return string(b)
}
