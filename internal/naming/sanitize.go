package naming

import (
	"regexp"
	"strings"
)

// reInvalidChars matches runs of characters outside the filename allow-list.
var reInvalidChars = regexp.MustCompile(`[^A-Za-z0-9_.\- ]+`)

var reSpaces = regexp.MustCompile(`\s+`)

func collapseSpaces(s string) string {
	return reSpaces.ReplaceAllString(s, " ")
}

// SanitizeTitle removes characters outside [A-Za-z0-9_.- ] from a metadata
// title and normalizes whitespace, producing a safe filename fragment.
func SanitizeTitle(title string) string {
	cleaned := reInvalidChars.ReplaceAllString(title, "")
	return strings.TrimSpace(collapseSpaces(cleaned))
}

// CollapseWhitespace folds whitespace runs to one space and trims the ends.
func CollapseWhitespace(s string) string {
	return strings.TrimSpace(collapseSpaces(s))
}
