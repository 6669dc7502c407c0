package keywords

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/ppiankov/spellbook/internal/model"
)

func def(keyword string, typ model.KeywordType) model.KeywordDefinition {
	return model.KeywordDefinition{
		Keyword:    keyword,
		Type:       typ,
		Definition: keyword + " definition",
	}
}

type spanWant struct {
	Text    string
	Keyword string
	Start   int
	End     int
}

func simplify(spans []model.ParsedKeywordSpan) []spanWant {
	out := make([]spanWant, len(spans))
	for i, s := range spans {
		out[i] = spanWant{
			Text:    s.MatchedText,
			Keyword: s.Definition.Keyword,
			Start:   s.StartIndex,
			End:     s.EndIndex,
		}
	}
	return out
}

func TestAnnotate(t *testing.T) {
	flash := []model.KeywordDefinition{
		def("Flash", model.KeywordTypeAbility),
		def("Flashback", model.KeywordTypeAbility),
	}

	tests := []struct {
		name    string
		text    string
		catalog []model.KeywordDefinition
		want    []spanWant
	}{
		{
			name:    "separate words both match",
			text:    "This spell has flashback but not flash.",
			catalog: flash,
			want: []spanWant{
				{Text: "flashback", Keyword: "Flashback", Start: 15, End: 24},
				{Text: "flash", Keyword: "Flash", Start: 33, End: 38},
			},
		},
		{
			name:    "longest match wins",
			text:    "Flashback ability",
			catalog: flash,
			want: []spanWant{
				{Text: "Flashback", Keyword: "Flashback", Start: 0, End: 9},
			},
		},
		{
			name: "sorted by position",
			text: "Trample and flying",
			catalog: []model.KeywordDefinition{
				def("Flying", model.KeywordTypeAbility),
				def("First Strike", model.KeywordTypeAbility),
				def("Trample", model.KeywordTypeAbility),
			},
			want: []spanWant{
				{Text: "Trample", Keyword: "Trample", Start: 0, End: 7},
				{Text: "flying", Keyword: "Flying", Start: 12, End: 18},
			},
		},
		{
			name:    "casing preserved",
			text:    "FLYING",
			catalog: []model.KeywordDefinition{def("Flying", model.KeywordTypeAbility)},
			want: []spanWant{
				{Text: "FLYING", Keyword: "Flying", Start: 0, End: 6},
			},
		},
		{
			name: "multi-word phrases beat their suffix",
			text: "First strike and double strike",
			catalog: []model.KeywordDefinition{
				def("Strike", model.KeywordTypeAbility),
				def("First Strike", model.KeywordTypeAbility),
				def("Double Strike", model.KeywordTypeAbility),
			},
			want: []spanWant{
				{Text: "First strike", Keyword: "First Strike", Start: 0, End: 12},
				{Text: "double strike", Keyword: "Double Strike", Start: 17, End: 30},
			},
		},
		{
			name:    "every occurrence is a span",
			text:    "Scry 1, then scry 2.",
			catalog: []model.KeywordDefinition{def("Scry", model.KeywordTypeAction)},
			want: []spanWant{
				{Text: "Scry", Keyword: "Scry", Start: 0, End: 4},
				{Text: "scry", Keyword: "Scry", Start: 13, End: 17},
			},
		},
		{
			name:    "no partial words",
			text:    "Flashy lights",
			catalog: []model.KeywordDefinition{def("Flash", model.KeywordTypeAbility)},
			want:    []spanWant{},
		},
		{
			name:    "regexp characters are literal",
			text:    "XzY and X.Y here",
			catalog: []model.KeywordDefinition{def("X.Y", model.KeywordTypeMechanic)},
			want: []spanWant{
				{Text: "X.Y", Keyword: "X.Y", Start: 8, End: 11},
			},
		},
		{
			name:    "empty text",
			text:    "",
			catalog: flash,
			want:    []spanWant{},
		},
		{
			name:    "empty catalog",
			text:    "Flying",
			catalog: []model.KeywordDefinition{},
			want:    []spanWant{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Annotate(tt.text, tt.catalog)
			if got == nil {
				t.Fatal("expected non-nil result")
			}
			if diff := cmp.Diff(tt.want, simplify(got)); diff != "" {
				t.Errorf("Annotate(%q) mismatch (-want +got):\n%s", tt.text, diff)
			}
		})
	}
}

func TestAnnotate_EqualLengthKeepsCatalogOrder(t *testing.T) {
	text := "Blue Fire Ball"
	a := def("Blue Fire", model.KeywordTypeMechanic)
	b := def("Fire Ball", model.KeywordTypeMechanic)

	got := Annotate(text, []model.KeywordDefinition{a, b})
	if len(got) != 1 || got[0].Definition.Keyword != "Blue Fire" {
		t.Errorf("expected only 'Blue Fire', got %+v", simplify(got))
	}

	got = Annotate(text, []model.KeywordDefinition{b, a})
	if len(got) != 1 || got[0].Definition.Keyword != "Fire Ball" {
		t.Errorf("expected only 'Fire Ball', got %+v", simplify(got))
	}
}

func TestAnnotate_NilCatalogUsesBuiltin(t *testing.T) {
	got := Annotate("Flying, haste", nil)
	want := []spanWant{
		{Text: "Flying", Keyword: "Flying", Start: 0, End: 6},
		{Text: "haste", Keyword: "Haste", Start: 8, End: 13},
	}
	if diff := cmp.Diff(want, simplify(got)); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

func TestNewAnnotator_SkipsBlankKeywords(t *testing.T) {
	a := NewAnnotator([]model.KeywordDefinition{
		def("", model.KeywordTypeAbility),
		def("   ", model.KeywordTypeAbility),
		def("Haste", model.KeywordTypeAbility),
	})

	if a.Len() != 1 {
		t.Fatalf("expected 1 pattern, got %d", a.Len())
	}

	got := a.Annotate("Haste.")
	if len(got) != 1 || got[0].MatchedText != "Haste" {
		t.Errorf("expected single 'Haste' span, got %+v", simplify(got))
	}
}

func TestNewAnnotator_CopiesCatalog(t *testing.T) {
	catalog := []model.KeywordDefinition{def("Reach", model.KeywordTypeAbility)}
	a := NewAnnotator(catalog)
	catalog[0].Keyword = "Changed"

	got := a.Annotate("reach")
	if len(got) != 1 || got[0].Definition.Keyword != "Reach" {
		t.Errorf("expected annotator to keep its own catalog, got %+v", simplify(got))
	}
}

func TestAnnotate_Invariants(t *testing.T) {
	texts := []string{
		"Flying, first strike, lifelink",
		"Flashback {2}{R} (You may cast this card from your graveyard for its flashback cost. Then exile it.)",
		"Double strike, trample, haste. When this creature dies, exile it. Scry 2, then surveil 1.",
		"Landfall — Whenever a land you control enters, you may sacrifice a creature. If you do, proliferate.",
		"Ward {2}. Split second. Cycling {1}. Kicker {G}. Convoke, delve, cascade, storm.",
		"DEATHTOUCH deathtouch DeathTouch",
		"",
		"No keywords in this sentence at all.",
	}

	annotator := Default()
	for _, text := range texts {
		spans := annotator.Annotate(text)

		for i, s := range spans {
			if got := text[s.StartIndex:s.EndIndex]; got != s.MatchedText {
				t.Errorf("%q: span %d text %q does not match source %q", text, i, s.MatchedText, got)
			}
			if !strings.EqualFold(s.MatchedText, s.Definition.Keyword) {
				t.Errorf("%q: span %q matched definition %q", text, s.MatchedText, s.Definition.Keyword)
			}
			if i > 0 {
				prev := spans[i-1]
				if prev.StartIndex >= s.StartIndex {
					t.Errorf("%q: spans not sorted at %d", text, i)
				}
				if prev.EndIndex > s.StartIndex {
					t.Errorf("%q: spans %d and %d overlap", text, i-1, i)
				}
			}
		}

		again := annotator.Annotate(text)
		if diff := cmp.Diff(simplify(spans), simplify(again)); diff != "" {
			t.Errorf("%q: second run differs (-first +second):\n%s", text, diff)
		}
	}
}

func TestAnnotate_ReminderText(t *testing.T) {
	text := "Flashback {2}{R} (You may cast this card from your graveyard for its flashback cost. Then exile it.)"
	spans := Default().Annotate(text)

	var names []string
	for _, s := range spans {
		names = append(names, s.Definition.Keyword)
	}

	want := []string{"Flashback", "Flashback", "Exile"}
	if diff := cmp.Diff(want, names); diff != "" {
		t.Errorf("keywords mismatch (-want +got):\n%s", diff)
	}
}
