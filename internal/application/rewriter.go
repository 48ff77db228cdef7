package application

import (
	"strings"
	"unicode/utf8"

	"github.com/libreshift/libreshift/internal/domain/model"
)

// maxExcerptLen caps the original-snippet text carried in a CleaningChange.
const maxExcerptLen = 120

// Rewriter applies the pattern catalog to one file's text. It is a pure
// function over its inputs: no network, no disk, no shared state. Failure is
// impossible at runtime; a catalog that cannot compile panics at process
// start, which is a programming error.
type Rewriter struct {
	rules []PatternRule
}

// NewRewriter creates a Rewriter over the given rule table.
func NewRewriter(rules []PatternRule) *Rewriter {
	return &Rewriter{rules: rules}
}

// Rewrite applies every rule's substitutions to content in catalog order and
// returns the rewritten text plus one CleaningChange per firing. Line numbers
// are 1-based, computed from the offset of each match in the content as it
// stood when that substitution ran.
//
// Rewrite is idempotent: running it again on its own output produces zero
// changes, because no replacement template matches any detector.
func (rw *Rewriter) Rewrite(path, content string) (string, []model.CleaningChange) {
	var changes []model.CleaningChange

	for _, rule := range rw.rules {
		for _, sub := range rule.Subs {
			locs := sub.Pattern.FindAllStringIndex(content, -1)
			if len(locs) == 0 {
				continue
			}

			for _, loc := range locs {
				changes = append(changes, model.CleaningChange{
					RuleID:          rule.ID,
					ServiceName:     rule.ServiceName,
					FilePath:        path,
					Line:            1 + strings.Count(content[:loc[0]], "\n"),
					OriginalExcerpt: excerpt(content[loc[0]:loc[1]]),
					Note:            rule.Note,
				})
			}

			content = sub.Pattern.ReplaceAllString(content, sub.Replace)
		}
	}

	return content, changes
}

// excerpt truncates a matched snippet for the change log. The cut backs up to
// a rune boundary so the excerpt stays valid UTF-8.
func excerpt(s string) string {
	s = strings.ReplaceAll(s, "\n", " ")
	if len(s) <= maxExcerptLen {
		return s
	}
	cut := maxExcerptLen
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "…"
}
