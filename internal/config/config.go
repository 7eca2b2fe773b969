// Package config loads and validates run configuration files.
package config

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"maps"
	"os"
	"slices"

	"gopkg.in/yaml.v3"

	"potionforge/internal/catalog"
	"potionforge/internal/enumerate"
	"potionforge/internal/process"
	"potionforge/internal/recommend"
	"potionforge/internal/simulate"
	"potionforge/internal/solver"
)

// ErrInvalid marks every configuration validation failure.
var ErrInvalid = errors.New("invalid configuration")

//go:embed example.yml
var example []byte

// Example returns the annotated example configuration.
func Example() []byte { return bytes.Clone(example) }

// File mirrors the YAML layout of a recommend configuration.
type File struct {
	Ingredients map[string]int      `yaml:"ingredients"`
	ArcanePower int                 `yaml:"arcane_power"`
	Utilisation int                 `yaml:"utilisation"`
	Processes   []string            `yaml:"processes"`
	Alchemists  map[string]int      `yaml:"alchemists"`
	Market      map[string][]string `yaml:"market"`
	Branding    map[string]int      `yaml:"branding"`
	Potions     []string            `yaml:"potions"`
	Departments Bounds              `yaml:"departments"`
	Solver      SolverFile          `yaml:"solver"`
}

// Bounds limits the recipes selected per department.
type Bounds struct {
	Min int `yaml:"min"`
	Max int `yaml:"max"`
}

type SolverFile struct {
	// MaxNodes bounds each solve; 0 means unlimited.
	MaxNodes int `yaml:"max_nodes"`
	// MaxPivots bounds the simplex work per node; 0 means unlimited.
	MaxPivots int `yaml:"max_pivots"`
}

func defaultFile() File {
	rc := recommend.DefaultConfig()
	return File{
		Utilisation: rc.Utilisation,
		Departments: Bounds{Min: rc.MinPerDepartment, Max: rc.MaxPerDepartment},
		Solver:      SolverFile{MaxNodes: solver.DefaultConfig().MaxNodes, MaxPivots: solver.DefaultConfig().MaxPivots},
	}
}

// Config is a validated configuration resolved to typed values.
type Config struct {
	// Ingredients lists the stocked raw ingredients in catalog order.
	Ingredients []catalog.IngredientKey
	ArcanePower int
	Processes   process.TransformSet
	Scoring     simulate.ScoringConfig
	Recommend   recommend.Config
	Solver      solver.Config
}

// Load reads and decodes the file at path.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	f, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return f, nil
}

// Parse decodes a YAML (or JSON) document. Unknown keys are rejected.
// Omitted utilisation, departments and solver sections take their defaults.
func Parse(data []byte) (*File, error) {
	f := defaultFile()
	if err := decode(data, &f); err != nil {
		return nil, err
	}
	return &f, nil
}

func decode(data []byte, v any) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return fmt.Errorf("%w: empty document", ErrInvalid)
		}
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	return nil
}

// Validate checks every field and resolves names to catalog values. All
// problems are reported together.
func (f *File) Validate() (*Config, error) {
	var errs []error
	bad := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("%w: "+format, append([]any{ErrInvalid}, args...)...))
	}

	cfg := &Config{
		ArcanePower: f.ArcanePower,
		Recommend: recommend.Config{
			Available:        map[catalog.IngredientKey]int{},
			Utilisation:      f.Utilisation,
			MinPerDepartment: f.Departments.Min,
			MaxPerDepartment: f.Departments.Max,
		},
		Solver: solver.DefaultConfig(),
	}
	cfg.Solver.MaxNodes = f.Solver.MaxNodes
	cfg.Solver.MaxPivots = f.Solver.MaxPivots

	// ── Ingredients ──
	if len(f.Ingredients) == 0 {
		bad("no ingredients")
	}
	for _, name := range sortedKeys(f.Ingredients) {
		key, ok := catalog.ParseIngredientKey(name)
		if !ok {
			bad("unknown ingredient %q", name)
			continue
		}
		n := f.Ingredients[name]
		if n <= 0 {
			bad("ingredient %s has count %d, must be positive", name, n)
			continue
		}
		cfg.Recommend.Available[key] = n
		cfg.Ingredients = append(cfg.Ingredients, key)
	}
	slices.Sort(cfg.Ingredients)

	if f.ArcanePower < enumerate.MinPower {
		bad("arcane_power %d is below %d", f.ArcanePower, enumerate.MinPower)
	}
	if f.Utilisation < 1 {
		bad("utilisation %d must be at least 1", f.Utilisation)
	}

	// ── Processes ──
	for _, name := range f.Processes {
		t, ok := process.ParseTransform(name)
		if !ok {
			bad("unknown process %q", name)
			continue
		}
		cfg.Processes = cfg.Processes.With(t)
	}

	// ── Scoring ──
	cfg.Scoring = resolveScoring(f.Alchemists, f.Market, f.Branding, bad)

	// ── Portfolio ──
	for _, name := range f.Potions {
		kind, ok := catalog.ParsePotionKindKey(name)
		if !ok {
			bad("unknown potion %q", name)
			continue
		}
		if !slices.Contains(cfg.Recommend.Potions, kind) {
			cfg.Recommend.Potions = append(cfg.Recommend.Potions, kind)
		}
	}
	if f.Departments.Min < 0 {
		bad("departments.min %d is negative", f.Departments.Min)
	}
	if f.Departments.Max < f.Departments.Min {
		bad("departments.max %d is below departments.min %d", f.Departments.Max, f.Departments.Min)
	}
	if f.Solver.MaxNodes < 0 {
		bad("solver.max_nodes %d is negative", f.Solver.MaxNodes)
	}
	if f.Solver.MaxPivots < 0 {
		bad("solver.max_pivots %d is negative", f.Solver.MaxPivots)
	}

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return cfg, nil
}

// resolveScoring resolves the alchemist, market and branding sections shared
// by recommend configs and debug files. Problems are reported through bad.
func resolveScoring(alchemists map[string]int, market map[string][]string, branding map[string]int, bad func(string, ...any)) simulate.ScoringConfig {
	var sc simulate.ScoringConfig
	for _, name := range sortedKeys(alchemists) {
		a, ok := simulate.ParseAlchemist(name)
		if !ok {
			bad("unknown alchemist attribute %q", name)
			continue
		}
		if n := alchemists[name]; n < 0 {
			bad("alchemist attribute %s has count %d", name, n)
		} else {
			sc.Alchemists[a] = n
		}
	}
	for _, name := range sortedKeys(market) {
		kind, ok := catalog.ParsePotionKindKey(name)
		if !ok {
			bad("unknown potion %q in market", name)
			continue
		}
		for _, cond := range market[name] {
			m, ok := simulate.ParseMarketCondition(cond)
			if !ok {
				bad("unknown market condition %q for %s", cond, name)
				continue
			}
			sc.Market[kind] = append(sc.Market[kind], m)
		}
	}
	for _, name := range sortedKeys(branding) {
		b, ok := simulate.ParseBranding(name)
		if !ok {
			bad("unknown branding %q", name)
			continue
		}
		if n := branding[name]; n < 0 {
			bad("branding %s has count %d", name, n)
		} else {
			sc.Branding[b] = n
		}
	}
	return sc
}

// Resolve loads, decodes and validates the file at path.
func Resolve(path string) (*Config, error) {
	f, err := Load(path)
	if err != nil {
		return nil, err
	}
	cfg, err := f.Validate()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Raw returns the unprepared form of every stocked ingredient.
func (c *Config) Raw() []catalog.Ingredient { return catalog.RawAll(c.Ingredients) }

// WriteExample writes the example configuration to path. An existing file
// is left untouched.
func WriteExample(path string) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if _, err := f.Write(example); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}

func sortedKeys[V any](m map[string]V) []string {
	return slices.Sorted(maps.Keys(m))
}
