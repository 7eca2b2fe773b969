package config

import (
	"errors"
	"fmt"
	"os"
	"slices"

	"potionforge/internal/catalog"
	"potionforge/internal/process"
	"potionforge/internal/simulate"
)

// DebugFile lists hand-written recipes to simulate without filtering. Each
// recipe maps an ingredient name to the processes applied to it, in order.
// The optional alchemists, market and branding sections use the recommend
// config layout so debug appeal matches a recommend run.
type DebugFile struct {
	Recipes    []map[string][]string `yaml:"recipes"`
	Alchemists map[string]int        `yaml:"alchemists"`
	Market     map[string][]string   `yaml:"market"`
	Branding   map[string]int        `yaml:"branding"`
}

// LoadDebug reads and decodes a debug file.
func LoadDebug(path string) (*DebugFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	d, err := ParseDebug(data)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return d, nil
}

// ParseDebug decodes a debug document.
func ParseDebug(data []byte) (*DebugFile, error) {
	var d DebugFile
	if err := decode(data, &d); err != nil {
		return nil, err
	}
	return &d, nil
}

// Scoring resolves the scoring sections. Omitted sections score neutrally.
func (d *DebugFile) Scoring() (simulate.ScoringConfig, error) {
	var errs []error
	sc := resolveScoring(d.Alchemists, d.Market, d.Branding, func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("%w: "+format, append([]any{ErrInvalid}, args...)...))
	})
	if len(errs) > 0 {
		return simulate.ScoringConfig{}, errors.Join(errs...)
	}
	return sc, nil
}

// Combos prepares each recipe's ingredients. Ingredients within a recipe are
// ordered by catalog key.
func (d *DebugFile) Combos() ([][]catalog.Ingredient, error) {
	var errs []error
	out := make([][]catalog.Ingredient, 0, len(d.Recipes))
	for i, recipe := range d.Recipes {
		if len(recipe) == 0 {
			errs = append(errs, fmt.Errorf("%w: recipe %d is empty", ErrInvalid, i))
			continue
		}
		var keys []catalog.IngredientKey
		for name := range recipe {
			key, ok := catalog.ParseIngredientKey(name)
			if !ok {
				errs = append(errs, fmt.Errorf("%w: recipe %d: unknown ingredient %q", ErrInvalid, i, name))
				continue
			}
			keys = append(keys, key)
		}
		slices.Sort(keys)

		combo := make([]catalog.Ingredient, 0, len(keys))
		for _, key := range keys {
			ing, err := prepare(key, recipe[key.String()])
			if err != nil {
				errs = append(errs, fmt.Errorf("recipe %d: %w", i, err))
				continue
			}
			combo = append(combo, ing)
		}
		out = append(out, combo)
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return out, nil
}

func prepare(key catalog.IngredientKey, names []string) (catalog.Ingredient, error) {
	steps := make([]process.Transform, 0, len(names))
	for _, name := range names {
		t, ok := process.ParseTransform(name)
		if !ok {
			return catalog.Ingredient{}, fmt.Errorf("%w: unknown process %q on %s", ErrInvalid, name, key)
		}
		steps = append(steps, t)
	}
	ing, err := process.Prepare(catalog.Raw(key), steps)
	if err != nil {
		return catalog.Ingredient{}, fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	return ing, nil
}
