package utils

import (
	"regexp"
	"strings"
)

var whitespaceRun = regexp.MustCompile(`\s+`)

// GenerateSlug lowercases name and turns every whitespace run into a hyphen.
// "Anna  Marie Lee" -> "anna-marie-lee"
func GenerateSlug(name string) string {
	return whitespaceRun.ReplaceAllString(strings.ToLower(name), "-")
}

// SlugPattern returns an anchored pattern matching the names a slug could
// have been generated from. Each hyphen matches either a whitespace run or a
// literal hyphen, the rest is quoted. Callers match it case-insensitively.
func SlugPattern(slug string) string {
	parts := strings.Split(slug, "-")
	for i, part := range parts {
		parts[i] = regexp.QuoteMeta(part)
	}
	return "^" + strings.Join(parts, `(?:\s+|-)`) + "$"
}
