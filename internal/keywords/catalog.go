package keywords

import (
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/ppiankov/spellbook/internal/model"
	"gopkg.in/yaml.v3"
)

// ErrInvalidCatalog is returned when a catalog fails validation
var ErrInvalidCatalog = errors.New("invalid keyword catalog")

//go:embed catalog.yaml
var builtinCatalog []byte

var defaultCatalog = sync.OnceValue(func() []model.KeywordDefinition {
	var defs []model.KeywordDefinition
	if err := yaml.Unmarshal(builtinCatalog, &defs); err != nil {
		panic(fmt.Sprintf("keywords: decode built-in catalog: %v", err))
	}
	return defs
})

// DefaultCatalog returns a copy of the built-in keyword catalog
func DefaultCatalog() []model.KeywordDefinition {
	defs := defaultCatalog()
	out := make([]model.KeywordDefinition, len(defs))
	copy(out, defs)
	return out
}

// LoadCatalog decodes and validates a YAML keyword catalog
func LoadCatalog(r io.Reader) ([]model.KeywordDefinition, error) {
	var defs []model.KeywordDefinition
	if err := yaml.NewDecoder(r).Decode(&defs); err != nil {
		if errors.Is(err, io.EOF) {
			return []model.KeywordDefinition{}, nil
		}
		return nil, fmt.Errorf("decode catalog: %w", err)
	}

	if err := ValidateCatalog(defs); err != nil {
		return nil, err
	}

	return defs, nil
}

// LoadCatalogFile reads a YAML keyword catalog from disk
func LoadCatalogFile(path string) (defs []model.KeywordDefinition, err error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}
	defer func() { _ = f.Close() }()

	defs, err = LoadCatalog(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return defs, nil
}

// ValidateCatalog reports every problem in the catalog at once
func ValidateCatalog(defs []model.KeywordDefinition) error {
	var errs []error
	seen := make(map[string]int)

	for i, def := range defs {
		name := strings.TrimSpace(def.Keyword)
		if name == "" {
			errs = append(errs, fmt.Errorf("entry %d: keyword is blank", i))
			continue
		}
		if !def.Type.Valid() {
			errs = append(errs, fmt.Errorf("%q: unknown type %q", name, def.Type))
		}
		if strings.TrimSpace(def.Definition) == "" {
			errs = append(errs, fmt.Errorf("%q: definition is blank", name))
		}

		key := strings.ToLower(name)
		if first, dup := seen[key]; dup {
			errs = append(errs, fmt.Errorf("%q: duplicate of entry %d", name, first))
			continue
		}
		seen[key] = i
	}

	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrInvalidCatalog, errors.Join(errs...))
}

// Lookup finds a keyword by name, ignoring case and surrounding whitespace
func Lookup(catalog []model.KeywordDefinition, name string) (*model.KeywordDefinition, bool) {
	name = strings.TrimSpace(name)
	for i := range catalog {
		if strings.EqualFold(catalog[i].Keyword, name) {
			return &catalog[i], true
		}
	}
	return nil, false
}
