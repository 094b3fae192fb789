package wiki

import (
	"regexp"
	"strings"
)

// delimitedRe matches regex-literal input of the form /pattern/flags,
// with the leading delimiter optional.
var delimitedRe = regexp.MustCompile(`^/?(.*)/([a-zA-Z]*)$`)

// validFlags are the inline flags accepted in the /pattern/flags form.
const validFlags = "imsU"

// CompileFilter compiles an optional title filter. Returns nil for
// empty input and for patterns that fail to compile: a bad filter
// degrades to "no filter" rather than failing the scrape.
//
// Input shaped like /pattern/flags is compiled as a regex with the
// given flags. Anything else, including regex-looking input with a
// bogus flag segment, is compiled as a case-insensitive literal.
func CompileFilter(raw string) *regexp.Regexp {
	s := strings.TrimSpace(raw)
	if s == "" {
		return nil
	}

	if m := delimitedRe.FindStringSubmatch(s); m != nil && validFlagSet(m[2]) {
		expr := m[1]
		if m[2] != "" {
			expr = "(?" + m[2] + ")" + expr
		}
		re, err := regexp.Compile(expr)
		if err != nil {
			return nil
		}
		return re
	}

	re, err := regexp.Compile("(?i)" + regexp.QuoteMeta(s))
	if err != nil {
		return nil
	}
	return re
}

// validFlagSet reports whether flags contains only known flag
// characters with no duplicates.
func validFlagSet(flags string) bool {
	seen := make(map[rune]bool, len(flags))
	for _, r := range flags {
		if !strings.ContainsRune(validFlags, r) || seen[r] {
			return false
		}
		seen[r] = true
	}
	return true
}
