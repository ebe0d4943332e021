package model

import "strings"

// NormalizeName converts a raw player name into its canonical display form:
// non-breaking spaces, underscores and hyphens become spaces, non-ASCII runes
// are dropped and surrounding space is trimmed.
func NormalizeName(raw string) string {
	var b strings.Builder
	b.Grow(len(raw))
	for _, r := range raw {
		switch {
		case r == '\u00a0' || r == '_' || r == '-':
			b.WriteByte(' ')
		case r < 0x80:
			b.WriteRune(r)
		}
	}
	return strings.TrimSpace(b.String())
}

// Key returns the case-insensitive comparison key for a subject.
func Key(subject string) string {
	return strings.ToLower(NormalizeName(subject))
}

// SameSubject reports whether two raw names refer to the same player.
func SameSubject(a, b string) bool {
	ka := Key(a)
	return ka != "" && ka == Key(b)
}
