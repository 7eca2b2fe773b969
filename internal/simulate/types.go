package simulate

import (
	"potionforge/internal/catalog"
)

type Purity uint8

const (
	PurityNeutral Purity = iota
	PurityImpure
)

func (p Purity) String() string {
	if p == PurityImpure {
		return "Impure"
	}
	return "Neutral"
}

type Taste uint8

const (
	TasteBland Taste = iota
	TasteTasty
	TasteFlavorful
	TasteBitter
	TasteFoul
	TasteUnsavory
	TasteIcky
	TasteSweet
	TasteDelicious
	numTastes
)

var tasteNames = [numTastes]string{"Bland", "Tasty", "Flavorful", "Bitter", "Foul", "Unsavory", "Icky", "Sweet", "Delicious"}

func (t Taste) String() string { return tasteNames[t] }

// Toxicity buckets the signed Toxin minus Antitoxin count.
type Toxicity uint8

const (
	ToxVeryAntitoxic Toxicity = iota
	ToxAntitoxic
	ToxNeutral
	ToxToxic
	ToxVeryToxic
	numToxicities
)

var toxicityNames = [numToxicities]string{"VeryAntitoxic", "Antitoxic", "Neutral", "Toxic", "VeryToxic"}

func (t Toxicity) String() string { return toxicityNames[t] }

func (t Toxicity) toxic() bool     { return t > ToxNeutral }
func (t Toxicity) antitoxic() bool { return t < ToxNeutral }

// Alchemist is an attribute of the brewing staff.
type Alchemist uint8

const (
	AlchemistAcclaimed Alchemist = iota
	AlchemistStimulating
	AlchemistHerbalist
	AlchemistMycologist
	NumAlchemists int = iota
)

var alchemistNames = [...]string{"Acclaimed", "Stimulating", "Herbalist", "Mycologist"}

func (a Alchemist) String() string { return alchemistNames[a] }

func ParseAlchemist(s string) (Alchemist, bool) {
	for i, name := range alchemistNames {
		if name == s {
			return Alchemist(i), true
		}
	}
	return 0, false
}

// MarketCondition is a demand signal for one potion kind.
type MarketCondition uint8

const (
	MarketHighDemand MarketCondition = iota
	MarketInDemand
	MarketLowDemand
	MarketTrendy
	NumMarketConditions int = iota
)

var marketNames = [...]string{"HighDemand", "InDemand", "LowDemand", "Trendy"}

func (m MarketCondition) String() string { return marketNames[m] }

func ParseMarketCondition(s string) (MarketCondition, bool) {
	for i, name := range marketNames {
		if name == s {
			return MarketCondition(i), true
		}
	}
	return 0, false
}

// Branding is a shop branding category. The first three match departments.
type Branding uint8

const (
	BrandingHealth Branding = iota
	BrandingSourcery
	BrandingProvisions
	BrandingBulk
	NumBrandings int = iota
)

var brandingNames = [...]string{"Health", "Sourcery", "Provisions", "Bulk"}

func (b Branding) String() string { return brandingNames[b] }

func ParseBranding(s string) (Branding, bool) {
	for i, name := range brandingNames {
		if name == s {
			return Branding(i), true
		}
	}
	return 0, false
}

func departmentBranding(d catalog.Department) Branding {
	switch d {
	case catalog.Sourcery:
		return BrandingSourcery
	case catalog.Provisions:
		return BrandingProvisions
	}
	return BrandingHealth
}

// ScoringConfig carries the external inputs to appeal and potency. The zero
// value applies no bonuses.
type ScoringConfig struct {
	Alchemists [NumAlchemists]int
	Market     [catalog.NumPotionKinds][]MarketCondition
	Branding   [NumBrandings]int
}

// Recipe is a scored ingredient combination.
type Recipe struct {
	Kind        catalog.PotionKindKey
	Ingredients []catalog.Ingredient
	Purity      Purity
	Taste       Taste
	Toxicity    Toxicity
	Appeal      int
	Potency     int
}

// PotionKind returns the catalog entry for r's kind.
func (r *Recipe) PotionKind() *catalog.PotionKind { return catalog.Lookup(r.Kind) }

// Department returns the department of r's kind.
func (r *Recipe) Department() catalog.Department { return r.PotionKind().Department }

// Uses reports whether any ingredient in r is a variant of key.
func (r *Recipe) Uses(key catalog.IngredientKey) bool {
	for _, ing := range r.Ingredients {
		if ing.Key == key {
			return true
		}
	}
	return false
}
