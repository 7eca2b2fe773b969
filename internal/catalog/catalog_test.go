package catalog

import (
	"strings"
	"testing"
)

func TestPotionKindForIsTotal(t *testing.T) {
	seen := map[PotionKindKey]bool{}
	for e := 0; e < NumMainEffects; e++ {
		for el := 0; el < NumElements; el++ {
			pk := PotionKindFor(MainEffect(e), Element(el))
			if pk.Effect != MainEffect(e) || pk.Element != Element(el) {
				t.Errorf("%s/%s: got kind %s with %s/%s", MainEffect(e), Element(el), pk.Key, pk.Effect, pk.Element)
			}
			if seen[pk.Key] {
				t.Errorf("%s/%s: kind %s already used by another pair", MainEffect(e), Element(el), pk.Key)
			}
			seen[pk.Key] = true
		}
	}
	if len(seen) != NumPotionKinds {
		t.Errorf("got %d distinct kinds, want %d", len(seen), NumPotionKinds)
	}
}

func TestKnownPotionKinds(t *testing.T) {
	tests := []struct {
		key      PotionKindKey
		dept     Department
		effect   MainEffect
		element  Element
		toxicity Polarity
		taste    Polarity
	}{
		{Speed, Health, MainCat, ElemFire, PolarityNegative, PolarityPositive},
		{Warding, Sourcery, MainCat, ElemEarth, PolarityNegative, PolarityPositive},
		{Skelleton, Provisions, MainBone, ElemEarth, PolarityPositive, PolarityNegative},
		{Vitality, Health, MainBeast, ElemFire, PolarityPositive, PolarityPositive},
		{Summoning, Sourcery, MainBeast, ElemAether, PolarityPositive, PolarityNeutral},
	}
	for _, tt := range tests {
		pk := Lookup(tt.key)
		if pk.Key != tt.key || pk.Department != tt.dept || pk.Effect != tt.effect ||
			pk.Element != tt.element || pk.Toxicity != tt.toxicity || pk.Taste != tt.taste {
			t.Errorf("%s: got %+v", tt.key, *pk)
		}
	}
}

func TestRawIngredients(t *testing.T) {
	for k := 0; k < NumIngredients; k++ {
		key := IngredientKey(k)
		ing := Raw(key)
		if ing.Key != key || ing.Prep != Unprepared || ing.Arity() != 4 {
			t.Errorf("%s: got %+v", key, ing)
		}
		for i, p := range ing.Parts {
			if p == PartNone {
				t.Errorf("%s: slot %d empty", key, i)
			}
		}
		if Spec(key).Name == "" {
			t.Errorf("%s: empty display name", key)
		}
	}

	fly := Raw(Flyagaric)
	want := [4]Part{PartStimulant, PartToxin, PartBeast, PartTasty}
	if fly.Parts != want || fly.Kind != Mushroom {
		t.Errorf("Flyagaric: got %v %s", fly.Parts, fly.Kind)
	}
}

func TestParseKeys(t *testing.T) {
	for k := 0; k < NumIngredients; k++ {
		got, ok := ParseIngredientKey(IngredientKey(k).String())
		if !ok || got != IngredientKey(k) {
			t.Errorf("ParseIngredientKey(%q) = %v, %v", IngredientKey(k), got, ok)
		}
	}
	for k := 0; k < NumPotionKinds; k++ {
		got, ok := ParsePotionKindKey(PotionKindKey(k).String())
		if !ok || got != PotionKindKey(k) {
			t.Errorf("ParsePotionKindKey(%q) = %v, %v", PotionKindKey(k), got, ok)
		}
	}
	if _, ok := ParseIngredientKey("Moonflower"); ok {
		t.Error("ParseIngredientKey accepted an unknown name")
	}
}

func TestPartAxes(t *testing.T) {
	if e, ok := PartBone.MainEffect(); !ok || e != MainBone {
		t.Errorf("PartBone.MainEffect() = %v, %v", e, ok)
	}
	if _, ok := PartFire.MainEffect(); ok {
		t.Error("PartFire reported a main effect")
	}
	if el, ok := PartAether.Element(); !ok || el != ElemAether {
		t.Errorf("PartAether.Element() = %v, %v", el, ok)
	}
	pairs := map[Element]Element{ElemFire: ElemWater, ElemWater: ElemFire, ElemAether: ElemEarth, ElemEarth: ElemAether}
	for e, want := range pairs {
		if got := e.Opposite(); got != want {
			t.Errorf("%s.Opposite() = %s, want %s", e, got, want)
		}
	}
}

func TestPreparation(t *testing.T) {
	tests := []struct {
		p     Preparation
		arity int
		name  string
	}{
		{Unprepared, 4, "Raw"},
		{Crushed, 2, "Crushed"},
		{Fermented | Infused, 4, "Fermented, Infused"},
		{Pickled | Fermented | Infused, 2, "Pickled, Fermented, Infused"},
	}
	for _, tt := range tests {
		if got := tt.p.Arity(); got != tt.arity {
			t.Errorf("%s.Arity() = %d, want %d", tt.name, got, tt.arity)
		}
		if got := tt.p.String(); got != tt.name {
			t.Errorf("String() = %q, want %q", got, tt.name)
		}
	}
	if Unprepared.Has(Fermented) || !(Dried | Fermented).Has(Fermented) {
		t.Error("Has mismatch")
	}
}

func TestLoadRejectsIncomplete(t *testing.T) {
	tests := []struct {
		name string
		data string
		want string
	}{
		{"invalid", `{`, "invalid JSON"},
		{"empty", `{"ingredients": [], "potions": []}`, "missing ingredient"},
		{"bad part", strings.Replace(catalogJSON, `"Cat", "Tasty"]`, `"Cat", "Salty"]`, 1), "unknown part"},
		{"dup pair", strings.Replace(catalogJSON, `"effect": "Cat", "element": "Water"`, `"effect": "Cat", "element": "Fire"`, 1), "reuses"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(tt.data)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("Load: got %v, want error containing %q", err, tt.want)
			}
		})
	}
}
