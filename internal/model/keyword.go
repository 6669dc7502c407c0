package model

// KeywordDefinition is a catalog entry for a game keyword
type KeywordDefinition struct {
	Keyword    string      `json:"keyword" yaml:"keyword"`                           // Canonical display name (e.g., "First Strike")
	Type       KeywordType `json:"type" yaml:"type"`                                 // ability, action, mechanic
	Definition string      `json:"definition" yaml:"definition"`                     // Rules-text explanation
	Reminder   string      `json:"reminder,omitempty" yaml:"reminder,omitempty"`     // Italicized reminder text
	Example    string      `json:"example,omitempty" yaml:"example,omitempty"`       // Example card or usage
	Introduced string      `json:"introduced,omitempty" yaml:"introduced,omitempty"` // Set or year of introduction
}

// KeywordType classifies a keyword
type KeywordType string

const (
	KeywordTypeAbility  KeywordType = "ability"  // Evergreen and set keyword abilities (Flying, Ward)
	KeywordTypeAction   KeywordType = "action"   // Keyword actions (Scry, Mill)
	KeywordTypeMechanic KeywordType = "mechanic" // Ability words and named mechanics (Landfall)
)

// Valid reports whether t is one of the known keyword types
func (t KeywordType) Valid() bool {
	switch t {
	case KeywordTypeAbility, KeywordTypeAction, KeywordTypeMechanic:
		return true
	default:
		return false
	}
}

// ParsedKeywordSpan is a keyword occurrence found in a text.
// StartIndex and EndIndex are half-open byte offsets into the source text.
type ParsedKeywordSpan struct {
	MatchedText string             `json:"matched_text"` // Substring of the source, original casing
	Definition  *KeywordDefinition `json:"definition"`   // Catalog entry that matched
	StartIndex  int                `json:"start_index"`
	EndIndex    int                `json:"end_index"`
}

// Overlaps reports whether the span shares any position with [start, end)
func (s ParsedKeywordSpan) Overlaps(start, end int) bool {
	return start < s.EndIndex && s.StartIndex < end
}

// Segment is a piece of annotated text; Keyword is nil for plain gaps
type Segment struct {
	Text    string             `json:"text"`
	Keyword *KeywordDefinition `json:"keyword,omitempty"`
}

// Annotation is the annotated form of one input text
type Annotation struct {
	Text  string              `json:"text"`
	Spans []ParsedKeywordSpan `json:"spans"`
}
