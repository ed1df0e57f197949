package textutil

import (
	"regexp"
	"strings"
)

var whitespaceRegex = regexp.MustCompile(`\s+`)

// CollapseSpace trims a string and squashes every internal whitespace
// run down to a single space.
func CollapseSpace(s string) string {
	s = strings.TrimSpace(s)
	return whitespaceRegex.ReplaceAllString(s, " ")
}

func ContainsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}

func ContainsAnyFold(haystack string, needles []string) bool {
	for _, n := range needles {
		if ContainsFold(haystack, n) {
			return true
		}
	}
	return false
}
