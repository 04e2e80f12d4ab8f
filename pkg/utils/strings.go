package utils

import (
	"net/url"
	"regexp"
	"strings"
	"unicode/utf8"
)

var whitespaceRe = regexp.MustCompile(`\s+`)

// SafeText collapses runs of whitespace into single spaces and trims the ends.
func SafeText(s string) string {
	return strings.TrimSpace(whitespaceRe.ReplaceAllString(s, " "))
}

// CleanToValidUTF8 strips invalid UTF-8 sequences from a string.
func CleanToValidUTF8(s string) string {
	if utf8.ValidString(s) {
		return s
	}
	return strings.ToValidUTF8(s, "")
}

// ContainsString reports whether list contains the exact value.
func ContainsString(list []string, value string) bool {
	for _, v := range list {
		if v == value {
			return true
		}
	}
	return false
}

// ContainsAny reports whether s contains at least one of the substrings.
func ContainsAny(s string, substrings []string) bool {
	for _, sub := range substrings {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

// TruncateString cuts s to at most max bytes, appending no marker.
func TruncateString(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}

// ExtractDomain returns the hostname portion of a URL, or the input when it
// cannot be parsed.
func ExtractDomain(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.Host == "" {
		return rawURL
	}
	return parsed.Hostname()
}
