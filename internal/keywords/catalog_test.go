package keywords

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ppiankov/spellbook/internal/model"
)

func TestDefaultCatalog_Valid(t *testing.T) {
	catalog := DefaultCatalog()
	if len(catalog) == 0 {
		t.Fatal("expected built-in catalog to be non-empty")
	}
	if err := ValidateCatalog(catalog); err != nil {
		t.Errorf("built-in catalog invalid: %v", err)
	}

	for _, name := range []string{"Flying", "First Strike", "Flash", "Flashback", "Trample", "Scry", "Landfall"} {
		if _, ok := Lookup(catalog, name); !ok {
			t.Errorf("expected built-in catalog to contain %q", name)
		}
	}
}

func TestDefaultCatalog_ReturnsCopy(t *testing.T) {
	first := DefaultCatalog()
	first[0].Keyword = "Mutated"

	second := DefaultCatalog()
	if second[0].Keyword == "Mutated" {
		t.Error("expected DefaultCatalog to return an independent copy")
	}
}

func TestLoadCatalog(t *testing.T) {
	input := `
- keyword: Flying
  type: ability
  definition: Can't be blocked except by flying or reach.
- keyword: Scry
  type: action
  definition: Look at the top cards of your library.
  reminder: Put any number on the bottom.
`
	catalog, err := LoadCatalog(strings.NewReader(input))
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(catalog) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(catalog))
	}
	if catalog[1].Type != model.KeywordTypeAction || catalog[1].Reminder == "" {
		t.Errorf("unexpected second entry: %+v", catalog[1])
	}
}

func TestLoadCatalog_Empty(t *testing.T) {
	catalog, err := LoadCatalog(strings.NewReader(""))
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(catalog) != 0 {
		t.Errorf("expected empty catalog, got %d entries", len(catalog))
	}
}

func TestLoadCatalog_Malformed(t *testing.T) {
	_, err := LoadCatalog(strings.NewReader("keyword: [unterminated"))
	if err == nil {
		t.Fatal("expected decode error")
	}
}

func TestValidateCatalog(t *testing.T) {
	catalog := []model.KeywordDefinition{
		{Keyword: "Flying", Type: model.KeywordTypeAbility, Definition: "ok"},
		{Keyword: "", Type: model.KeywordTypeAbility, Definition: "blank"},
		{Keyword: "Scry", Type: "spell", Definition: "bad type"},
		{Keyword: "Reach", Type: model.KeywordTypeAbility},
		{Keyword: "FLYING", Type: model.KeywordTypeAbility, Definition: "dup"},
	}

	err := ValidateCatalog(catalog)
	if err == nil {
		t.Fatal("expected validation error")
	}
	if !errors.Is(err, ErrInvalidCatalog) {
		t.Errorf("expected ErrInvalidCatalog, got %v", err)
	}

	msg := err.Error()
	for _, want := range []string{"entry 1: keyword is blank", `unknown type "spell"`, `"Reach": definition is blank`, `"FLYING": duplicate of entry 0`} {
		if !strings.Contains(msg, want) {
			t.Errorf("expected error to mention %q, got: %s", want, msg)
		}
	}
}

func TestLoadCatalogFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "catalog.yaml")
	content := "- keyword: Haste\n  type: ability\n  definition: Attacks right away.\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	catalog, err := LoadCatalogFile(path)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(catalog) != 1 || catalog[0].Keyword != "Haste" {
		t.Errorf("unexpected catalog: %+v", catalog)
	}

	if _, err := LoadCatalogFile(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestLookup(t *testing.T) {
	catalog := DefaultCatalog()

	got, ok := Lookup(catalog, "  first strike ")
	if !ok {
		t.Fatal("expected to find first strike")
	}
	if got.Keyword != "First Strike" {
		t.Errorf("expected 'First Strike', got %q", got.Keyword)
	}

	if _, ok := Lookup(catalog, "Banding"); ok {
		t.Error("expected Banding to be absent")
	}
}
