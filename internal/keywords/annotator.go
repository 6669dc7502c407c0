package keywords

import (
	"regexp"
	"sort"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/ppiankov/spellbook/internal/model"
)

// Annotator finds keyword occurrences in rules text.
// It is built once per catalog and is safe for concurrent use.
type Annotator struct {
	patterns []pattern
}

type pattern struct {
	def *model.KeywordDefinition
	re  *regexp.Regexp
}

var defaultAnnotator = sync.OnceValue(func() *Annotator {
	return NewAnnotator(defaultCatalog())
})

// Default returns the annotator over the built-in catalog
func Default() *Annotator {
	return defaultAnnotator()
}

// NewAnnotator compiles one whole-word, case-insensitive pattern per keyword.
// Patterns are ordered longest keyword first; keywords of equal length keep
// their catalog order. Blank keywords are ignored.
func NewAnnotator(catalog []model.KeywordDefinition) *Annotator {
	defs := make([]model.KeywordDefinition, 0, len(catalog))
	for _, def := range catalog {
		if strings.TrimSpace(def.Keyword) == "" {
			continue
		}
		defs = append(defs, def)
	}

	sort.SliceStable(defs, func(i, j int) bool {
		return utf8.RuneCountInString(defs[i].Keyword) > utf8.RuneCountInString(defs[j].Keyword)
	})

	patterns := make([]pattern, len(defs))
	for i := range defs {
		patterns[i] = pattern{
			def: &defs[i],
			re:  regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(defs[i].Keyword) + `\b`),
		}
	}

	return &Annotator{patterns: patterns}
}

// Len returns the number of keywords the annotator matches
func (a *Annotator) Len() int {
	return len(a.patterns)
}

// Annotate returns the non-overlapping keyword spans of text sorted by position.
// A longer keyword claims its characters before any shorter keyword is tried.
func (a *Annotator) Annotate(text string) []model.ParsedKeywordSpan {
	spans := []model.ParsedKeywordSpan{}
	if text == "" {
		return spans
	}

	for _, p := range a.patterns {
		for _, loc := range p.re.FindAllStringIndex(text, -1) {
			start, end := loc[0], loc[1]
			if overlapsAny(spans, start, end) {
				continue
			}
			spans = append(spans, model.ParsedKeywordSpan{
				MatchedText: text[start:end],
				Definition:  p.def,
				StartIndex:  start,
				EndIndex:    end,
			})
		}
	}

	sort.Slice(spans, func(i, j int) bool {
		return spans[i].StartIndex < spans[j].StartIndex
	})

	return spans
}

// Annotate annotates text against catalog, or against the built-in catalog
// when catalog is nil
func Annotate(text string, catalog []model.KeywordDefinition) []model.ParsedKeywordSpan {
	if catalog == nil {
		return Default().Annotate(text)
	}
	return NewAnnotator(catalog).Annotate(text)
}

func overlapsAny(spans []model.ParsedKeywordSpan, start, end int) bool {
	for _, s := range spans {
		if s.Overlaps(start, end) {
			return true
		}
	}
	return false
}
