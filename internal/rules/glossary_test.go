package rules

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/ppiankov/spellbook/internal/model"
)

const rulesDocument = `Magic: The Gathering Comprehensive Rules

Contents

1. Game Concepts
Glossary
Credits

1. Game Concepts

100. General

100.1. These Magic rules apply to any Magic game with two or more players.

702.9a Flying is an evasion ability.

Glossary

Abandon
To turn a face-up ongoing scheme card face down and put it on the bottom of its owner's scheme deck.

Flying
A keyword ability that restricts how a creature may be blocked.
See rule 702.9, "Flying."

Lonely heading

Credits

Magic: The Gathering Original Game Design: Richard Garfield
`

func TestParseGlossary(t *testing.T) {
	got := ParseGlossary(rulesDocument)
	want := []model.GlossaryEntry{
		{
			Term:       "Abandon",
			Definition: "To turn a face-up ongoing scheme card face down and put it on the bottom of its owner's scheme deck.",
		},
		{
			Term:       "Flying",
			Definition: `A keyword ability that restricts how a creature may be blocked. See rule 702.9, "Flying."`,
		},
	}

	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("ParseGlossary mismatch (-want +got):\n%s", diff)
	}
}

func TestParseGlossary_Missing(t *testing.T) {
	got := ParseGlossary("100.1 Just rules\n")
	if got == nil || len(got) != 0 {
		t.Errorf("expected empty glossary, got %+v", got)
	}
}

func TestParse_RulesDocument(t *testing.T) {
	sections := Parse(rulesDocument)
	if len(sections) != 2 {
		t.Fatalf("expected 2 sections, got %d", len(sections))
	}
	// everything after the last rule, glossary included, continues it
	if sections[1].ID != "702.9a" || sections[1].Title != "Flying is an evasion ability." {
		t.Errorf("unexpected last section: %+v", sections[1])
	}
}

func TestSearchGlossary(t *testing.T) {
	entries := []model.GlossaryEntry{
		{Term: "Abandon", Definition: "Turn a scheme face down."},
		{Term: "Flying", Definition: "A keyword ability."},
		{Term: "Flying Creature", Definition: "Not a real term."},
		{Term: "Reach", Definition: "A keyword ability that lets a creature block flying creatures."},
	}

	got := SearchGlossary(entries, "FLYING")
	var terms []string
	for _, e := range got {
		terms = append(terms, e.Term)
	}

	want := []string{"Flying", "Flying Creature", "Reach"}
	if diff := cmp.Diff(want, terms); diff != "" {
		t.Errorf("SearchGlossary mismatch (-want +got):\n%s", diff)
	}

	if got := SearchGlossary(entries, " "); len(got) != 0 {
		t.Errorf("expected empty query to match nothing, got %+v", got)
	}
}
