package catalog

import "strings"

// Part is an atomic trait carried by one ingredient slot.
type Part uint8

const (
	PartNone Part = iota
	// Main effects
	PartCat
	PartBone
	PartSoul
	PartBeast
	// Elements
	PartFire
	PartWater
	PartAether
	PartEarth
	// Tastes
	PartTasty
	PartUnsavory
	PartBitter
	PartSweet
	// Modifiers
	PartStimulant
	PartImpurity
	PartToxin
	PartAntitoxin
)

var partNames = [...]string{
	PartNone:      "None",
	PartCat:       "Cat",
	PartBone:      "Bone",
	PartSoul:      "Soul",
	PartBeast:     "Beast",
	PartFire:      "Fire",
	PartWater:     "Water",
	PartAether:    "Aether",
	PartEarth:     "Earth",
	PartTasty:     "Tasty",
	PartUnsavory:  "Unsavory",
	PartBitter:    "Bitter",
	PartSweet:     "Sweet",
	PartStimulant: "Stimulant",
	PartImpurity:  "Impurity",
	PartToxin:     "Toxin",
	PartAntitoxin: "Antitoxin",
}

func (p Part) String() string {
	if int(p) < len(partNames) {
		return partNames[p]
	}
	return "Part(?)"
}

// MainEffect reports the main effect carried by p, if any.
func (p Part) MainEffect() (MainEffect, bool) {
	if p >= PartCat && p <= PartBeast {
		return MainEffect(p - PartCat), true
	}
	return 0, false
}

// Element reports the element carried by p, if any.
func (p Part) Element() (Element, bool) {
	if p >= PartFire && p <= PartEarth {
		return Element(p - PartFire), true
	}
	return 0, false
}

func parsePart(s string) Part {
	for i, name := range partNames {
		if i > 0 && name == s {
			return Part(i)
		}
	}
	return PartNone
}

// MainEffect is the primary axis of a potion's composition.
type MainEffect uint8

const (
	MainCat MainEffect = iota
	MainBone
	MainSoul
	MainBeast
	NumMainEffects int = iota
)

// Part returns the slot trait for e.
func (e MainEffect) Part() Part { return PartCat + Part(e) }

func (e MainEffect) String() string { return e.Part().String() }

// Element is the secondary axis of a potion's composition.
// Fire opposes Water and Aether opposes Earth.
type Element uint8

const (
	ElemFire Element = iota
	ElemWater
	ElemAether
	ElemEarth
	NumElements int = iota
)

// Part returns the slot trait for e.
func (e Element) Part() Part { return PartFire + Part(e) }

// Opposite returns the element at the other pole of e's axis.
func (e Element) Opposite() Element {
	switch e {
	case ElemFire:
		return ElemWater
	case ElemWater:
		return ElemFire
	case ElemAether:
		return ElemEarth
	default:
		return ElemAether
	}
}

func (e Element) String() string { return e.Part().String() }

type IngredientKind uint8

const (
	Herb IngredientKind = iota
	Mushroom
)

func (k IngredientKind) String() string {
	if k == Mushroom {
		return "Mushroom"
	}
	return "Herb"
}

func parseIngredientKind(s string) (IngredientKind, bool) {
	switch s {
	case "Herb":
		return Herb, true
	case "Mushroom":
		return Mushroom, true
	}
	return 0, false
}

type Department uint8

const (
	Health Department = iota
	Sourcery
	Provisions
	NumDepartments int = iota
)

var departmentNames = [...]string{"Health", "Sourcery", "Provisions"}

func (d Department) String() string { return departmentNames[d] }

// ParseDepartment maps a configuration name to a Department.
func ParseDepartment(s string) (Department, bool) {
	for i, name := range departmentNames {
		if name == s {
			return Department(i), true
		}
	}
	return 0, false
}

// Polarity says whether a classification helps or hurts a potion kind.
type Polarity uint8

const (
	PolarityPositive Polarity = iota
	PolarityNeutral
	PolarityNegative
)

func (p Polarity) String() string {
	switch p {
	case PolarityPositive:
		return "Positive"
	case PolarityNegative:
		return "Negative"
	}
	return "Neutral"
}

func parsePolarity(s string) (Polarity, bool) {
	switch s {
	case "Positive":
		return PolarityPositive, true
	case "Neutral":
		return PolarityNeutral, true
	case "Negative":
		return PolarityNegative, true
	}
	return 0, false
}

// IngredientKey identifies a raw ingredient regardless of preparation.
type IngredientKey uint8

const (
	Catnip IngredientKey = iota
	Lupine
	Mandrake
	Nightshade
	Sage
	Thyme
	Wormwood
	Anise
	Deadmans
	Deathcap
	Elven
	Flyagaric
	Pluteus
	Wizards
	Asporeus
	Stinkhorn
	NumIngredients int = iota
)

var ingredientKeyNames = [...]string{
	"Catnip", "Lupine", "Mandrake", "Nightshade", "Sage", "Thyme", "Wormwood", "Anise",
	"Deadmans", "Deathcap", "Elven", "Flyagaric", "Pluteus", "Wizards", "Asporeus", "Stinkhorn",
}

func (k IngredientKey) String() string {
	if int(k) < len(ingredientKeyNames) {
		return ingredientKeyNames[k]
	}
	return "Ingredient(?)"
}

// ParseIngredientKey maps a configuration name to an IngredientKey.
func ParseIngredientKey(s string) (IngredientKey, bool) {
	for i, name := range ingredientKeyNames {
		if name == s {
			return IngredientKey(i), true
		}
	}
	return 0, false
}

// PotionKindKey identifies one of the sixteen potion kinds.
type PotionKindKey uint8

const (
	Speed PotionKindKey = iota
	Slow
	Mana
	Warding
	Strength
	Weakness
	Necromancy
	Skelleton
	Speech
	Silence
	Conjuring
	Exorcism
	Vitality
	Sleep
	Summoning
	Monster
	NumPotionKinds int = iota
)

var potionKeyNames = [...]string{
	"Speed", "Slow", "Mana", "Warding", "Strength", "Weakness", "Necromancy", "Skelleton",
	"Speech", "Silence", "Conjuring", "Exorcism", "Vitality", "Sleep", "Summoning", "Monster",
}

func (k PotionKindKey) String() string {
	if int(k) < len(potionKeyNames) {
		return potionKeyNames[k]
	}
	return "PotionKind(?)"
}

// ParsePotionKindKey maps a configuration name to a PotionKindKey.
func ParsePotionKindKey(s string) (PotionKindKey, bool) {
	for i, name := range potionKeyNames {
		if name == s {
			return PotionKindKey(i), true
		}
	}
	return 0, false
}

// Preparation records which preparation steps produced an ingredient.
// The zero value is Unprepared. At most one cut (Crushed, Blanched, Dried, Pickled)
// is ever set.
type Preparation uint8

const (
	Crushed Preparation = 1 << iota
	Blanched
	Dried
	Pickled
	Fermented
	Infused
)

const (
	Unprepared Preparation = 0
	Cuts                   = Crushed | Blanched | Dried | Pickled
)

// Has reports whether every step in q has been applied.
func (p Preparation) Has(q Preparation) bool { return p&q == q && q != 0 }

// IsCut reports whether one of the slot-reducing cuts has been applied.
func (p Preparation) IsCut() bool { return p&Cuts != 0 }

// Arity returns the number of part slots an ingredient in state p carries.
func (p Preparation) Arity() int {
	if p.IsCut() {
		return 2
	}
	return 4
}

var preparationNames = [...]struct {
	step Preparation
	name string
}{
	{Crushed, "Crushed"},
	{Blanched, "Blanched"},
	{Dried, "Dried"},
	{Pickled, "Pickled"},
	{Fermented, "Fermented"},
	{Infused, "Infused"},
}

func (p Preparation) String() string {
	if p == Unprepared {
		return "Raw"
	}
	var steps []string
	for _, pn := range preparationNames {
		if p&pn.step != 0 {
			steps = append(steps, pn.name)
		}
	}
	return strings.Join(steps, ", ")
}

// Ingredient is one prepared variant of a raw ingredient. Cut variants keep
// their two retained parts in Parts[0:2] and PartNone in the rest, so two
// Ingredients are equal exactly when they are structurally identical.
type Ingredient struct {
	Key   IngredientKey
	Kind  IngredientKind
	Prep  Preparation
	Parts [4]Part
}

// Arity returns the number of occupied part slots.
func (i Ingredient) Arity() int { return i.Prep.Arity() }

// Has reports whether any occupied slot carries part.
func (i Ingredient) Has(part Part) bool {
	for j := 0; j < i.Arity(); j++ {
		if i.Parts[j] == part {
			return true
		}
	}
	return false
}

func (i Ingredient) String() string {
	return i.Key.String() + " (" + i.Prep.String() + ")"
}
