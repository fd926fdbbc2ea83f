package query

import (
	"regexp"
	"strings"
	"unicode"
)

// matcher tests one lowercased record path against the active needle.
type matcher func(lowerPath string) bool

// newMatcher builds the match function for a non-empty needle. The mode
// is chosen by inspecting the needle:
//
//	regex    needle starts with "/" or "^"
//	wildcard needle contains "*" or "?"
//	literal  anything else
//
// A leading "/" is stripped before compiling, a leading "^" stays part
// of the pattern. Needles that look like a regex but do not compile
// degrade to a literal match instead of surfacing an error.
func newMatcher(needle string) matcher {
	switch {
	case strings.HasPrefix(needle, "/") || strings.HasPrefix(needle, "^"):
		re, err := regexp.Compile("(?i)" + strings.TrimPrefix(needle, "/"))
		if err != nil {
			return literalMatcher(needle)
		}
		return re.MatchString
	case strings.ContainsAny(needle, "*?"):
		re, err := regexp.Compile("(?i)" + wildcardPattern(needle))
		if err != nil {
			return literalMatcher(needle)
		}
		return re.MatchString
	default:
		return literalMatcher(needle)
	}
}

// literalMatcher matches by substring containment, with a whitespace
// insensitive fallback so "annual report" still finds
// "annualreport.pdf".
func literalMatcher(needle string) matcher {
	lower := strings.ToLower(needle)
	squeezed := stripSpace(lower)
	return func(lowerPath string) bool {
		if strings.Contains(lowerPath, lower) {
			return true
		}
		return strings.Contains(stripSpace(lowerPath), squeezed)
	}
}

// wildcardPattern escapes needle for regexp use, keeping "*" as any run
// of characters and "?" as any single character.
func wildcardPattern(needle string) string {
	var b strings.Builder
	for _, r := range needle {
		switch r {
		case '*':
			b.WriteString(".*")
		case '?':
			b.WriteString(".")
		default:
			b.WriteString(regexp.QuoteMeta(string(r)))
		}
	}
	return b.String()
}

func stripSpace(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
}

// MatchesSearch reports whether path matches needle under the search
// rules above. Matching is case-insensitive and always runs against the
// full virtual path, not just the filename. An empty needle matches
// everything.
func MatchesSearch(path, needle string) bool {
	if needle == "" {
		return true
	}
	return newMatcher(needle)(strings.ToLower(path))
}
