package keywords

import (
	"strings"

	"github.com/ppiankov/spellbook/internal/model"
)

// Search filters the catalog for the keyword browser.
// An empty query returns every keyword (of typ, when typ is set); otherwise a
// keyword matches when its name, definition or reminder contains the query,
// ignoring case. Catalog order is preserved.
func Search(catalog []model.KeywordDefinition, query string, typ model.KeywordType) []model.KeywordDefinition {
	q := strings.ToLower(strings.TrimSpace(query))

	results := []model.KeywordDefinition{}
	for _, def := range catalog {
		if typ != "" && def.Type != typ {
			continue
		}
		if q != "" && !matches(def, q) {
			continue
		}
		results = append(results, def)
	}

	return results
}

func matches(def model.KeywordDefinition, q string) bool {
	return strings.Contains(strings.ToLower(def.Keyword), q) ||
		strings.Contains(strings.ToLower(def.Definition), q) ||
		strings.Contains(strings.ToLower(def.Reminder), q)
}
