// Package sanitize strips markup from user supplied text and enforces
// per-field length ceilings before anything is persisted.
package sanitize

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// Field ceilings, measured in Unicode code points (runes), not UTF-16 code
// units. A character outside the Basic Multilingual Plane counts once here
// and twice in a UTF-16 client.
const (
	MaxCompanyName       = 50
	MaxRoleName          = 50
	MaxBusinessModel     = 100
	MaxEligibility       = 500
	MaxQuestion          = 500
	MaxSolution          = 4000
	MaxInterviewQuestion = 500
	MaxProcessStep       = 500
	MaxTopic             = 200
	MaxMCQQuestion       = 300
	MaxMCQOption         = 100
	MaxJobTitle          = 100
	MaxComment           = 2000
	MaxSubmission        = 5000
)

var (
	// RE2 has no lookahead, so a lazy match stands in for the "up to the first
	// closing tag" semantics. (?is) makes it case-insensitive and multi-line.
	scriptBlock = regexp.MustCompile(`(?is)<script\b[^>]*>.*?</script\s*>`)
	anyTag      = regexp.MustCompile(`<[^>]+>`)
)

// Sanitize removes script blocks, then every remaining tag, then trims
// surrounding whitespace. It never fails; empty input yields "".
func Sanitize(text string) string {
	if text == "" {
		return ""
	}
	out := scriptBlock.ReplaceAllString(text, "")
	out = anyTag.ReplaceAllString(out, "")
	return strings.TrimSpace(out)
}

// Truncate sanitizes text and hard-cuts it to at most maxLen characters.
// A non-positive maxLen disables the ceiling.
func Truncate(text string, maxLen int) string {
	out := Sanitize(text)
	if maxLen <= 0 {
		return out
	}
	if utf8.RuneCountInString(out) > maxLen {
		out = string([]rune(out)[:maxLen])
	}
	return out
}

// Len reports the length of s the same way Truncate measures it.
func Len(s string) int {
	return utf8.RuneCountInString(s)
}

// Equal reports whether two fragments are the same once sanitized.
func Equal(a, b string) bool {
	return Sanitize(a) == Sanitize(b)
}

// CleanList sanitizes and truncates every entry, dropping empties and
// entries that repeat an earlier one. Order of first occurrence is kept.
func CleanList(items []string, maxLen int) []string {
	out := make([]string, 0, len(items))
	seen := make(map[string]struct{}, len(items))
	for _, item := range items {
		v := Truncate(item, maxLen)
		if v == "" {
			continue
		}
		if _, dup := seen[v]; dup {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

// Contains reports whether list holds an entry equal to v after sanitizing.
func Contains(list []string, v string) bool {
	v = Sanitize(v)
	for _, item := range list {
		if Sanitize(item) == v {
			return true
		}
	}
	return false
}
