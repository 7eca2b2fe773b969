// Package catalog holds the fixed reference data: the sixteen raw ingredients
// and the sixteen potion kinds. Lookups are array-backed, indexed by key
// ordinal, built once from the embedded catalog.json and never mutated.
package catalog

import (
	_ "embed"
	"fmt"

	"github.com/tidwall/gjson"
)

//go:embed catalog.json
var catalogJSON string

// IngredientSpec is the static definition of a raw ingredient.
type IngredientSpec struct {
	Key   IngredientKey
	Name  string
	Kind  IngredientKind
	Parts [4]Part
}

// PotionKind is the static definition of a potion kind.
type PotionKind struct {
	Key        PotionKindKey
	Name       string
	Department Department
	Effect     MainEffect
	Element    Element
	Toxicity   Polarity // never PolarityNeutral
	Taste      Polarity
}

// Catalog is the decoded reference data.
type Catalog struct {
	ingredients [NumIngredients]IngredientSpec
	potions     [NumPotionKinds]PotionKind
	byPair      [NumMainEffects][NumElements]PotionKindKey
}

var std = mustLoad(catalogJSON)

func mustLoad(data string) *Catalog {
	c, err := Load(data)
	if err != nil {
		panic(err)
	}
	return c
}

// Load decodes a catalog document. Every ingredient and potion kind must be
// present exactly once, and every (main effect, element) pair must name
// exactly one potion kind.
func Load(data string) (*Catalog, error) {
	if !gjson.Valid(data) {
		return nil, fmt.Errorf("catalog: invalid JSON")
	}
	c := &Catalog{}

	var seenIng [NumIngredients]bool
	var err error
	gjson.Get(data, "ingredients").ForEach(func(_, v gjson.Result) bool {
		var spec IngredientSpec
		spec, err = parseIngredient(v)
		if err != nil {
			return false
		}
		if seenIng[spec.Key] {
			err = fmt.Errorf("catalog: duplicate ingredient %s", spec.Key)
			return false
		}
		seenIng[spec.Key] = true
		c.ingredients[spec.Key] = spec
		return true
	})
	if err != nil {
		return nil, err
	}
	for k, ok := range seenIng {
		if !ok {
			return nil, fmt.Errorf("catalog: missing ingredient %s", IngredientKey(k))
		}
	}

	var seenPotion [NumPotionKinds]bool
	var seenPair [NumMainEffects][NumElements]bool
	gjson.Get(data, "potions").ForEach(func(_, v gjson.Result) bool {
		var pk PotionKind
		pk, err = parsePotionKind(v)
		if err != nil {
			return false
		}
		if seenPotion[pk.Key] {
			err = fmt.Errorf("catalog: duplicate potion kind %s", pk.Key)
			return false
		}
		if seenPair[pk.Effect][pk.Element] {
			err = fmt.Errorf("catalog: potion kind %s reuses %s/%s", pk.Key, pk.Effect, pk.Element)
			return false
		}
		seenPotion[pk.Key] = true
		seenPair[pk.Effect][pk.Element] = true
		c.potions[pk.Key] = pk
		c.byPair[pk.Effect][pk.Element] = pk.Key
		return true
	})
	if err != nil {
		return nil, err
	}
	for k, ok := range seenPotion {
		if !ok {
			return nil, fmt.Errorf("catalog: missing potion kind %s", PotionKindKey(k))
		}
	}
	return c, nil
}

func parseIngredient(v gjson.Result) (IngredientSpec, error) {
	keyName := v.Get("key").String()
	key, ok := ParseIngredientKey(keyName)
	if !ok {
		return IngredientSpec{}, fmt.Errorf("catalog: unknown ingredient %q", keyName)
	}
	kind, ok := parseIngredientKind(v.Get("kind").String())
	if !ok {
		return IngredientSpec{}, fmt.Errorf("catalog: ingredient %s: unknown kind %q", key, v.Get("kind").String())
	}
	spec := IngredientSpec{Key: key, Name: v.Get("name").String(), Kind: kind}
	parts := v.Get("parts").Array()
	if len(parts) != len(spec.Parts) {
		return IngredientSpec{}, fmt.Errorf("catalog: ingredient %s: want %d parts, got %d", key, len(spec.Parts), len(parts))
	}
	for i, p := range parts {
		spec.Parts[i] = parsePart(p.String())
		if spec.Parts[i] == PartNone {
			return IngredientSpec{}, fmt.Errorf("catalog: ingredient %s: unknown part %q", key, p.String())
		}
	}
	return spec, nil
}

func parsePotionKind(v gjson.Result) (PotionKind, error) {
	keyName := v.Get("key").String()
	key, ok := ParsePotionKindKey(keyName)
	if !ok {
		return PotionKind{}, fmt.Errorf("catalog: unknown potion kind %q", keyName)
	}
	pk := PotionKind{Key: key, Name: v.Get("name").String()}
	if pk.Department, ok = ParseDepartment(v.Get("department").String()); !ok {
		return PotionKind{}, fmt.Errorf("catalog: potion kind %s: unknown department %q", key, v.Get("department").String())
	}
	effect, ok := parsePart(v.Get("effect").String()).MainEffect()
	if !ok {
		return PotionKind{}, fmt.Errorf("catalog: potion kind %s: unknown main effect %q", key, v.Get("effect").String())
	}
	element, ok := parsePart(v.Get("element").String()).Element()
	if !ok {
		return PotionKind{}, fmt.Errorf("catalog: potion kind %s: unknown element %q", key, v.Get("element").String())
	}
	pk.Effect, pk.Element = effect, element
	if pk.Toxicity, ok = parsePolarity(v.Get("toxicity").String()); !ok || pk.Toxicity == PolarityNeutral {
		return PotionKind{}, fmt.Errorf("catalog: potion kind %s: bad toxicity polarity %q", key, v.Get("toxicity").String())
	}
	if pk.Taste, ok = parsePolarity(v.Get("taste").String()); !ok {
		return PotionKind{}, fmt.Errorf("catalog: potion kind %s: bad taste polarity %q", key, v.Get("taste").String())
	}
	return pk, nil
}

// Spec returns the raw definition of key.
func (c *Catalog) Spec(key IngredientKey) *IngredientSpec { return &c.ingredients[key] }

// Raw returns the unprepared ingredient for key.
func (c *Catalog) Raw(key IngredientKey) Ingredient {
	s := &c.ingredients[key]
	return Ingredient{Key: key, Kind: s.Kind, Prep: Unprepared, Parts: s.Parts}
}

// PotionKind returns the definition of key.
func (c *Catalog) PotionKind(key PotionKindKey) *PotionKind { return &c.potions[key] }

// PotionKindFor returns the potion kind brewed from effect and element.
func (c *Catalog) PotionKindFor(effect MainEffect, element Element) *PotionKind {
	return &c.potions[c.byPair[effect][element]]
}

// Package-level lookups over the embedded catalog.

func Spec(key IngredientKey) *IngredientSpec { return std.Spec(key) }

func Raw(key IngredientKey) Ingredient { return std.Raw(key) }

func Lookup(key PotionKindKey) *PotionKind { return std.PotionKind(key) }

func PotionKindFor(effect MainEffect, element Element) *PotionKind {
	return std.PotionKindFor(effect, element)
}

// RawAll returns the unprepared form of every key, in the order given.
func RawAll(keys []IngredientKey) []Ingredient {
	out := make([]Ingredient, len(keys))
	for i, k := range keys {
		out[i] = std.Raw(k)
	}
	return out
}
