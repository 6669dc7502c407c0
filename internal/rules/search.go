package rules

import (
	"sort"
	"strings"

	"github.com/ppiankov/spellbook/internal/model"
)

// Relevance weights
const (
	scoreID    = 3
	scoreTitle = 2
	scoreBody  = 1
)

// Search ranks sections against query.
// An empty query matches nothing. Sections score 3 for an exact rule number,
// 2 when the title contains the query and 1 when the body does, ignoring case;
// ties keep document order.
func Search(sections []model.RuleSection, query string) []model.RuleSection {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return []model.RuleSection{}
	}

	type hit struct {
		section model.RuleSection
		score   int
	}

	var hits []hit
	for _, s := range sections {
		if score := relevance(s, q); score > 0 {
			hits = append(hits, hit{section: s, score: score})
		}
	}

	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].score > hits[j].score
	})

	results := make([]model.RuleSection, len(hits))
	for i, h := range hits {
		results[i] = h.section
	}
	return results
}

func relevance(s model.RuleSection, q string) int {
	score := 0
	if strings.ToLower(s.ID) == q {
		score += scoreID
	}
	if strings.Contains(strings.ToLower(s.Title), q) {
		score += scoreTitle
	}
	if strings.Contains(strings.ToLower(s.Body), q) {
		score += scoreBody
	}
	return score
}
