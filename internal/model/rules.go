package model

import "time"

// RuleSection is one numbered rule of the comprehensive rules
type RuleSection struct {
	ID    string `json:"id"`    // Rule number, e.g. "603.2" or "603.1a"
	Title string `json:"title"` // First line of the rule text
	Body  string `json:"body"`  // Full rule text including continuation lines
}

// GlossaryEntry is a term from the glossary at the end of the rules
type GlossaryEntry struct {
	Term       string `json:"term"`
	Definition string `json:"definition"`
}

// RulesDocument is a parsed copy of the comprehensive rules
type RulesDocument struct {
	Source    string          `json:"source"`     // URL or file path the text came from
	FetchedAt time.Time       `json:"fetched_at"` // When the text was loaded
	FromCache bool            `json:"from_cache"`
	Sections  []RuleSection   `json:"sections"`
	Glossary  []GlossaryEntry `json:"glossary,omitempty"`
}
