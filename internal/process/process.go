// Package process derives prepared ingredient variants from raw ones.
package process

import (
	"errors"
	"fmt"
	"slices"

	"potionforge/internal/catalog"
)

// Transform is one preparation step.
type Transform uint8

const (
	Crush Transform = iota
	Blanch
	Dry
	Pickle
	Ferment
	Infuse
	// Dissect applies all four cuts at once.
	Dissect
	numTransforms
)

var transformNames = [numTransforms]string{"Crush", "Blanch", "Dry", "Pickle", "Ferment", "Infuse", "Dissect"}

func (t Transform) String() string {
	if t < numTransforms {
		return transformNames[t]
	}
	return "Transform(?)"
}

// ParseTransform maps a configuration name to a Transform.
func ParseTransform(s string) (Transform, bool) {
	for i, name := range transformNames {
		if name == s {
			return Transform(i), true
		}
	}
	return 0, false
}

// TransformSet is a set of transforms to permute over.
type TransformSet uint8

// NewTransformSet builds a set from ts.
func NewTransformSet(ts ...Transform) TransformSet {
	var s TransformSet
	for _, t := range ts {
		s |= 1 << t
	}
	return s
}

// AllTransforms holds every single-result transform.
var AllTransforms = NewTransformSet(Crush, Blanch, Dry, Pickle, Ferment, Infuse)

func (s TransformSet) Has(t Transform) bool { return s&(1<<t) != 0 }

func (s TransformSet) With(t Transform) TransformSet { return s | 1<<t }

func (s TransformSet) String() string {
	var names []string
	for t := Transform(0); t < numTransforms; t++ {
		if s.Has(t) {
			names = append(names, t.String())
		}
	}
	return fmt.Sprint(names)
}

// ErrNotApplicable is returned by Prepare when a step cannot be applied to
// the ingredient's current preparation.
var ErrNotApplicable = errors.New("transform not applicable")

// ── Applicability ──────────────────────────────────────────────────

type cutRule struct {
	transform Transform
	prep      catalog.Preparation
	keep      [2]int
}

var cutRules = [...]cutRule{
	{Crush, catalog.Crushed, [2]int{1, 2}},
	{Blanch, catalog.Blanched, [2]int{0, 1}},
	{Dry, catalog.Dried, [2]int{0, 3}},
	{Pickle, catalog.Pickled, [2]int{2, 3}},
}

// applicable[prep] is the set of transforms structurally permitted on an
// ingredient in state prep. Ferment additionally needs an Impurity slot.
var applicable [catalog.Infused << 1]TransformSet

func init() {
	for p := range applicable {
		prep := catalog.Preparation(p)
		var s TransformSet
		if prep == catalog.Unprepared {
			s = NewTransformSet(Crush, Blanch, Dry, Pickle, Dissect)
		}
		if prep&(catalog.Fermented|catalog.Infused) == 0 {
			s = s.With(Ferment)
		}
		if prep&catalog.Infused == 0 {
			s = s.With(Infuse)
		}
		applicable[p] = s
	}
}

// Applicable reports whether t is permitted on an ingredient in state prep.
func Applicable(t Transform, prep catalog.Preparation) bool {
	return int(prep) < len(applicable) && applicable[prep].Has(t)
}

// ── Transforms ─────────────────────────────────────────────────────

func cut(ing catalog.Ingredient, r cutRule) (catalog.Ingredient, bool) {
	if !Applicable(r.transform, ing.Prep) {
		return catalog.Ingredient{}, false
	}
	out := ing
	out.Prep = r.prep
	out.Parts = [4]catalog.Part{ing.Parts[r.keep[0]], ing.Parts[r.keep[1]]}
	return out, true
}

// Crushing keeps the middle two parts of a raw ingredient.
func Crushing(ing catalog.Ingredient) (catalog.Ingredient, bool) { return cut(ing, cutRules[0]) }

// Blanching keeps the first two parts of a raw ingredient.
func Blanching(ing catalog.Ingredient) (catalog.Ingredient, bool) { return cut(ing, cutRules[1]) }

// Drying keeps the first and last parts of a raw ingredient.
func Drying(ing catalog.Ingredient) (catalog.Ingredient, bool) { return cut(ing, cutRules[2]) }

// Pickling keeps the last two parts of a raw ingredient.
func Pickling(ing catalog.Ingredient) (catalog.Ingredient, bool) { return cut(ing, cutRules[3]) }

// Fermenting turns every Impurity slot into Stimulant. It fails when there is
// no Impurity, or when the ingredient is already fermented or infused.
func Fermenting(ing catalog.Ingredient) (catalog.Ingredient, bool) {
	if !Applicable(Ferment, ing.Prep) || !ing.Has(catalog.PartImpurity) {
		return catalog.Ingredient{}, false
	}
	out := ing
	out.Prep |= catalog.Fermented
	for i := 0; i < out.Arity(); i++ {
		if out.Parts[i] == catalog.PartImpurity {
			out.Parts[i] = catalog.PartStimulant
		}
	}
	return out, true
}

// Infusing swaps every element slot to its opposite pole.
func Infusing(ing catalog.Ingredient) (catalog.Ingredient, bool) {
	if !Applicable(Infuse, ing.Prep) {
		return catalog.Ingredient{}, false
	}
	out := ing
	out.Prep |= catalog.Infused
	for i := 0; i < out.Arity(); i++ {
		if el, ok := out.Parts[i].Element(); ok {
			out.Parts[i] = el.Opposite().Part()
		}
	}
	return out, true
}

// Dissecting returns all four cuts of a raw ingredient, or nil.
func Dissecting(ing catalog.Ingredient) []catalog.Ingredient {
	if !Applicable(Dissect, ing.Prep) {
		return nil
	}
	out := make([]catalog.Ingredient, 0, len(cutRules))
	for _, r := range cutRules {
		if v, ok := cut(ing, r); ok {
			out = append(out, v)
		}
	}
	return out
}

// Apply applies a single-result transform.
func Apply(t Transform, ing catalog.Ingredient) (catalog.Ingredient, bool) {
	switch t {
	case Crush, Blanch, Dry, Pickle:
		return cut(ing, cutRules[t])
	case Ferment:
		return Fermenting(ing)
	case Infuse:
		return Infusing(ing)
	}
	return catalog.Ingredient{}, false
}

// ── Permutation ────────────────────────────────────────────────────

// Permute returns ing followed by every variant reachable from it under set.
// Cuts start from ing itself; Ferment then runs over everything produced so
// far, and Infuse over everything after that. Duplicates are dropped.
func Permute(ing catalog.Ingredient, set TransformSet) []catalog.Ingredient {
	out := []catalog.Ingredient{ing}
	add := func(v catalog.Ingredient) {
		if !slices.Contains(out, v) {
			out = append(out, v)
		}
	}
	for _, r := range cutRules {
		if set.Has(r.transform) || set.Has(Dissect) {
			if v, ok := cut(ing, r); ok {
				add(v)
			}
		}
	}
	if set.Has(Ferment) {
		for _, v := range out[:len(out):len(out)] {
			if f, ok := Fermenting(v); ok {
				add(f)
			}
		}
	}
	if set.Has(Infuse) {
		for _, v := range out[:len(out):len(out)] {
			if f, ok := Infusing(v); ok {
				add(f)
			}
		}
	}
	return out
}

// PermuteAll flat-maps Permute over ings, keeping each ingredient's variants
// contiguous and in input order.
func PermuteAll(ings []catalog.Ingredient, set TransformSet) []catalog.Ingredient {
	var out []catalog.Ingredient
	for _, ing := range ings {
		out = append(out, Permute(ing, set)...)
	}
	return out
}

// Prepare applies steps to ing in order.
func Prepare(ing catalog.Ingredient, steps []Transform) (catalog.Ingredient, error) {
	for _, t := range steps {
		next, ok := Apply(t, ing)
		if !ok {
			return catalog.Ingredient{}, fmt.Errorf("%s on %s: %w", t, ing, ErrNotApplicable)
		}
		ing = next
	}
	return ing, nil
}
