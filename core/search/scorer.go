package search

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/agnivade/levenshtein"
)

const (
	substringBase = 0.9
	substringSpan = 0.1

	// fuzzy scores stay strictly below substringBase
	fuzzyCeiling = substringBase

	HighlightOpen  = "<mark>"
	HighlightClose = "</mark>"
)

// Score returns how well text matches query, in [0, 1].
//
// A field containing the query scores 0.9 plus a bonus proportional to the
// share of the field the query covers. Otherwise, when fuzzy matching is
// enabled, the Levenshtein similarity s is mapped to 0.9*s*s, which keeps
// every fuzzy score below every substring score.
func Score(query, text string, opts Options) float64 {
	if query == "" || text == "" {
		return 0
	}

	q, t := query, text
	if !opts.CaseSensitive {
		q = strings.ToLower(q)
		t = strings.ToLower(t)
	}

	if opts.ExactMatch {
		if q == t {
			return 1
		}
		return 0
	}

	if strings.Contains(t, q) {
		ratio := float64(utf8.RuneCountInString(q)) / float64(utf8.RuneCountInString(t))
		return substringBase + ratio*substringSpan
	}

	if !opts.Fuzzy {
		return 0
	}

	s := Similarity(q, t)
	return fuzzyCeiling * s * s
}

// Similarity is the normalized Levenshtein similarity of a and b:
// 1 - distance / max(len(a), len(b)), counted in runes.
func Similarity(a, b string) float64 {
	longest := utf8.RuneCountInString(a)
	if n := utf8.RuneCountInString(b); n > longest {
		longest = n
	}
	if longest == 0 {
		return 1
	}

	distance := levenshtein.ComputeDistance(a, b)
	return 1 - float64(distance)/float64(longest)
}

// Highlight wraps every literal occurrence of query in text with
// HighlightOpen and HighlightClose. Text without a literal occurrence is
// returned unchanged.
func Highlight(query, text string, caseSensitive bool) string {
	if query == "" || text == "" {
		return text
	}

	pattern := regexp.QuoteMeta(query)
	if !caseSensitive {
		pattern = "(?i)" + pattern
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return text
	}

	return re.ReplaceAllStringFunc(text, func(m string) string {
		return HighlightOpen + m + HighlightClose
	})
}
