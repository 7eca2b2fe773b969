// Package simulate turns an ingredient combination into a scored recipe.
package simulate

import (
	"slices"

	"potionforge/internal/catalog"
)

// Appeal and potency weights.
const (
	impureAppeal    = -10
	acclaimedAppeal = 3

	stimulantPotency   = 50
	impurityPotency    = -50
	toxinPotency       = 20 // sign follows the kind's toxicity polarity
	dominantPotency    = 50
	stimulatingPotency = 10
	herbalistPotency   = 20
	mycologistPotency  = 20

	// BulkPotencyCeiling is the potency below which Bulk branding adds appeal.
	BulkPotencyCeiling = 400
)

var marketAppeal = [NumMarketConditions]int{
	MarketHighDemand: 20,
	MarketInDemand:   15,
	MarketLowDemand:  10,
	MarketTrendy:     10,
}

var tasteAppealPositive = [numTastes]int{
	TasteTasty: 5, TasteFlavorful: 15, TasteBitter: 5, TasteFoul: -20, TasteUnsavory: -10,
	TasteIcky: -20, TasteSweet: 5, TasteDelicious: 15, TasteBland: 0,
}

var tasteAppealNegative = [numTastes]int{
	TasteTasty: -10, TasteFlavorful: -20, TasteBitter: 5, TasteFoul: 15, TasteUnsavory: 5,
	TasteIcky: 15, TasteSweet: -10, TasteDelicious: -20, TasteBland: 0,
}

var toxicityAppealPositive = [numToxicities]int{
	ToxVeryToxic: 20, ToxToxic: 10, ToxNeutral: 0, ToxAntitoxic: -20, ToxVeryAntitoxic: -50,
}

var toxicityAppealNegative = [numToxicities]int{
	ToxVeryToxic: -50, ToxToxic: -20, ToxNeutral: 0, ToxAntitoxic: 10, ToxVeryAntitoxic: 20,
}

// tasteTable[tastiness+1][sweetness+1]
var tasteTable = [3][3]Taste{
	{TasteFoul, TasteUnsavory, TasteIcky},
	{TasteBitter, TasteBland, TasteSweet},
	{TasteFlavorful, TasteTasty, TasteDelicious},
}

// tally counts the parts of a combination.
type tally struct {
	parts    [catalog.PartAntitoxin + 1]int
	herb     bool
	mushroom bool
}

func count(combo []catalog.Ingredient) tally {
	var t tally
	for _, ing := range combo {
		for i := 0; i < ing.Arity(); i++ {
			t.parts[ing.Parts[i]]++
		}
		if ing.Kind == catalog.Herb {
			t.herb = true
		} else {
			t.mushroom = true
		}
	}
	return t
}

func (t *tally) of(p catalog.Part) int { return t.parts[p] }

// dominantElement collapses each axis to a signed score per pole and returns
// the single highest pole. A tie, including no elements at all, has no
// dominant element.
func (t *tally) dominantElement() (catalog.Element, bool) {
	fire := t.of(catalog.PartFire) - t.of(catalog.PartWater)
	aether := t.of(catalog.PartAether) - t.of(catalog.PartEarth)
	scores := [catalog.NumElements]int{
		catalog.ElemFire:   fire,
		catalog.ElemWater:  -fire,
		catalog.ElemAether: aether,
		catalog.ElemEarth:  -aether,
	}
	return argmaxUnique[catalog.Element](scores[:])
}

// dominantMainEffect returns the main effect with a strict plurality.
func (t *tally) dominantMainEffect() (catalog.MainEffect, bool) {
	var scores [catalog.NumMainEffects]int
	for e := range scores {
		scores[e] = t.of(catalog.MainEffect(e).Part())
	}
	return argmaxUnique[catalog.MainEffect](scores[:])
}

func argmaxUnique[T ~uint8](scores []int) (T, bool) {
	best, tied := 0, false
	for i := 1; i < len(scores); i++ {
		switch {
		case scores[i] > scores[best]:
			best, tied = i, false
		case scores[i] == scores[best]:
			tied = true
		}
	}
	return T(best), !tied
}

func sign(x int) int {
	switch {
	case x > 0:
		return 1
	case x < 0:
		return -1
	}
	return 0
}

func (t *tally) purity() Purity {
	if t.of(catalog.PartImpurity) > 0 {
		return PurityImpure
	}
	return PurityNeutral
}

func (t *tally) taste() Taste {
	tastiness := sign(t.of(catalog.PartTasty) - t.of(catalog.PartUnsavory))
	sweetness := sign(t.of(catalog.PartSweet) - t.of(catalog.PartBitter))
	return tasteTable[tastiness+1][sweetness+1]
}

func (t *tally) toxicity() Toxicity {
	switch sum := t.of(catalog.PartToxin) - t.of(catalog.PartAntitoxin); {
	case sum >= 2:
		return ToxVeryToxic
	case sum == 1:
		return ToxToxic
	case sum == 0:
		return ToxNeutral
	case sum == -1:
		return ToxAntitoxic
	}
	return ToxVeryAntitoxic
}

// TasteAppeal is the appeal contribution of taste for kind.
func TasteAppeal(kind *catalog.PotionKind, taste Taste) int {
	switch kind.Taste {
	case catalog.PolarityPositive:
		return tasteAppealPositive[taste]
	case catalog.PolarityNegative:
		return tasteAppealNegative[taste]
	}
	return 0
}

// ToxicityAppeal is the appeal contribution of toxicity for kind.
func ToxicityAppeal(kind *catalog.PotionKind, tox Toxicity) int {
	if kind.Toxicity == catalog.PolarityPositive {
		return toxicityAppealPositive[tox]
	}
	return toxicityAppealNegative[tox]
}

// PurityAppeal is the appeal contribution of purity.
func PurityAppeal(p Purity) int {
	if p == PurityImpure {
		return impureAppeal
	}
	return 0
}

func potency(t *tally, kind *catalog.PotionKind, cfg *ScoringConfig) int {
	stimulants := t.of(catalog.PartStimulant)
	toxin := toxinPotency
	if kind.Toxicity != catalog.PolarityPositive {
		toxin = -toxinPotency
	}
	p := stimulants*stimulantPotency +
		t.of(catalog.PartImpurity)*impurityPotency +
		t.of(catalog.PartToxin)*toxin +
		t.of(kind.Element.Part())*dominantPotency +
		t.of(kind.Effect.Part())*dominantPotency

	p += cfg.Alchemists[AlchemistStimulating] * stimulatingPotency * stimulants
	if t.herb {
		p += cfg.Alchemists[AlchemistHerbalist] * herbalistPotency
	}
	if t.mushroom {
		p += cfg.Alchemists[AlchemistMycologist] * mycologistPotency
	}
	return p
}

func appeal(kind *catalog.PotionKind, r *Recipe, cfg *ScoringConfig) int {
	a := PurityAppeal(r.Purity) + TasteAppeal(kind, r.Taste) + ToxicityAppeal(kind, r.Toxicity)
	for _, m := range cfg.Market[kind.Key] {
		a += marketAppeal[m]
	}
	a += cfg.Alchemists[AlchemistAcclaimed] * acclaimedAppeal
	a += cfg.Branding[departmentBranding(kind.Department)]
	if r.Potency < BulkPotencyCeiling {
		a += cfg.Branding[BrandingBulk]
	}
	return a
}

var noScoring ScoringConfig

// Simulate scores combo. It reports false when the combination has no unique
// dominant element or main effect. cfg may be nil. The returned recipe owns a
// copy of combo.
func Simulate(combo []catalog.Ingredient, cfg *ScoringConfig) (Recipe, bool) {
	if cfg == nil {
		cfg = &noScoring
	}
	t := count(combo)
	element, ok := t.dominantElement()
	if !ok {
		return Recipe{}, false
	}
	effect, ok := t.dominantMainEffect()
	if !ok {
		return Recipe{}, false
	}
	kind := catalog.PotionKindFor(effect, element)

	r := Recipe{
		Kind:        kind.Key,
		Ingredients: slices.Clone(combo),
		Purity:      t.purity(),
		Taste:       t.taste(),
		Toxicity:    t.toxicity(),
	}
	r.Potency = potency(&t, kind, cfg)
	r.Appeal = appeal(kind, &r, cfg)
	return r, true
}

// Reasonable reports whether r is worth offering: non-negative appeal and a
// toxicity that does not contradict its kind.
func Reasonable(r *Recipe) bool {
	if r.Appeal < 0 {
		return false
	}
	if r.PotionKind().Toxicity == catalog.PolarityPositive {
		return !r.Toxicity.antitoxic()
	}
	return !r.Toxicity.toxic()
}
