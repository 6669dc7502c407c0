package rules

import (
	"sort"
	"strings"

	"github.com/ppiankov/spellbook/internal/model"
)

const (
	glossaryHeading = "Glossary"
	creditsHeading  = "Credits"
)

// ParseGlossary extracts the glossary that follows the numbered rules.
// The glossary starts after the last line reading "Glossary" (the table of
// contents mentions it first) and ends at "Credits". Entries are
// blank-line-separated paragraphs: the first line is the term and the
// remaining lines, space-joined, are the definition.
func ParseGlossary(rawText string) []model.GlossaryEntry {
	entries := []model.GlossaryEntry{}

	lines := strings.Split(rawText, "\n")
	start := -1
	for i, line := range lines {
		if strings.TrimSpace(line) == glossaryHeading {
			start = i + 1
		}
	}
	if start < 0 {
		return entries
	}

	var paragraph []string
	flush := func() {
		if len(paragraph) > 1 {
			entries = append(entries, model.GlossaryEntry{
				Term:       paragraph[0],
				Definition: strings.Join(paragraph[1:], " "),
			})
		}
		paragraph = paragraph[:0]
	}

	for _, line := range lines[start:] {
		line = strings.TrimSpace(line)
		if line == creditsHeading {
			break
		}
		if line == "" {
			flush()
			continue
		}
		paragraph = append(paragraph, line)
	}
	flush()

	return entries
}

// SearchGlossary ranks glossary entries against query.
// An empty query matches nothing; term matches rank above definition matches.
func SearchGlossary(entries []model.GlossaryEntry, query string) []model.GlossaryEntry {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return []model.GlossaryEntry{}
	}

	type hit struct {
		entry model.GlossaryEntry
		score int
	}

	var hits []hit
	for _, e := range entries {
		score := 0
		term := strings.ToLower(e.Term)
		switch {
		case term == q:
			score += scoreID
		case strings.Contains(term, q):
			score += scoreTitle
		}
		if strings.Contains(strings.ToLower(e.Definition), q) {
			score += scoreBody
		}
		if score > 0 {
			hits = append(hits, hit{entry: e, score: score})
		}
	}

	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].score > hits[j].score
	})

	results := make([]model.GlossaryEntry, len(hits))
	for i, h := range hits {
		results[i] = h.entry
	}
	return results
}
