package eval

import (
	"regexp"
	"strings"
)

// likePattern compiles a SQL-style wildcard pattern (% any run, _ single
// rune) into a case-insensitive matcher. An empty pattern matches nothing.
func likePattern(pattern string) func(string) bool {
	if pattern == "" {
		return func(string) bool { return false }
	}

	var sb strings.Builder
	sb.WriteString("(?is)^")
	for _, r := range pattern {
		switch r {
		case '%':
			sb.WriteString(".*")
		case '_':
			sb.WriteString(".")
		default:
			sb.WriteString(regexp.QuoteMeta(string(r)))
		}
	}
	sb.WriteString("$")

	re, err := regexp.Compile(sb.String())
	if err != nil {
		return func(string) bool { return false }
	}
	return re.MatchString
}
