// Package rules splits the comprehensive rules text into numbered sections
// and searches them.
package rules

import (
	"regexp"
	"strings"

	"github.com/ppiankov/spellbook/internal/model"
)

// ruleLine matches a rule declaration such as "603.1a Text" or "603.2. Text".
// The separator also accepts Unicode spaces, which TrimSpace strips too.
var ruleLine = regexp.MustCompile(`^(\d{3}\.\d+[a-z]?)\.?[\s\p{Zs}]+(.+)$`)

// Parse splits raw rules text into sections in document order.
// A line that starts with a rule number opens a new section; any other
// non-blank line continues the open section. Lines before the first rule
// number are dropped.
func Parse(rawText string) []model.RuleSection {
	sections := []model.RuleSection{}

	var current *model.RuleSection
	for _, line := range strings.Split(rawText, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if m := ruleLine.FindStringSubmatch(line); m != nil {
			if current != nil {
				sections = append(sections, *current)
			}
			rest := strings.TrimSpace(m[2])
			current = &model.RuleSection{ID: m[1], Title: rest, Body: rest}
			continue
		}

		if current != nil {
			current.Body += " " + line
		}
	}

	if current != nil {
		sections = append(sections, *current)
	}

	return sections
}

// Find returns the section with the given rule number
func Find(sections []model.RuleSection, id string) (model.RuleSection, bool) {
	id = strings.TrimSuffix(strings.TrimSpace(id), ".")
	for _, s := range sections {
		if strings.EqualFold(s.ID, id) {
			return s, true
		}
	}
	return model.RuleSection{}, false
}
