package simulate

import (
	"testing"

	"potionforge/internal/catalog"
	"potionforge/internal/process"
)

func raws(keys ...catalog.IngredientKey) []catalog.Ingredient { return catalog.RawAll(keys) }

func TestSimulateScenarios(t *testing.T) {
	tests := []struct {
		name     string
		combo    []catalog.Ingredient
		kind     catalog.PotionKindKey
		purity   Purity
		taste    Taste
		toxicity Toxicity
		appeal   int
		potency  int
	}{
		{
			name:  "flyagaric lupine",
			combo: raws(catalog.Flyagaric, catalog.Lupine),
			kind:  catalog.Vitality, purity: PurityNeutral, taste: TasteTasty, toxicity: ToxVeryToxic,
			// taste +5, toxicity +20
			appeal: 25,
			// 2 stimulants +100, 2 toxins +40, one Fire +50, one Beast +50
			potency: 240,
		},
		{
			name:  "catnip deathcap",
			combo: raws(catalog.Catnip, catalog.Deathcap),
			kind:  catalog.Warding, purity: PurityImpure, taste: TasteTasty, toxicity: ToxToxic,
			// impure -10, taste +5, toxicity -20
			appeal: -25,
			// stimulants +100, impurities -100, toxin -20, Earth +50, Cat +50
			potency: 80,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, ok := Simulate(tt.combo, nil)
			if !ok {
				t.Fatal("no recipe")
			}
			if r.Kind != tt.kind {
				t.Errorf("kind = %s, want %s", r.Kind, tt.kind)
			}
			if r.Purity != tt.purity || r.Taste != tt.taste || r.Toxicity != tt.toxicity {
				t.Errorf("classification = %s/%s/%s, want %s/%s/%s",
					r.Purity, r.Taste, r.Toxicity, tt.purity, tt.taste, tt.toxicity)
			}
			if r.Appeal != tt.appeal {
				t.Errorf("appeal = %d, want %d", r.Appeal, tt.appeal)
			}
			if r.Potency != tt.potency {
				t.Errorf("potency = %d, want %d", r.Potency, tt.potency)
			}
		})
	}
}

func TestSimulateKinds(t *testing.T) {
	tests := []struct {
		keys []catalog.IngredientKey
		want catalog.PotionKindKey
	}{
		{[]catalog.IngredientKey{catalog.Flyagaric, catalog.Deathcap}, catalog.Monster},
		{[]catalog.IngredientKey{catalog.Catnip, catalog.Lupine}, catalog.Speed},
		{[]catalog.IngredientKey{catalog.Anise, catalog.Lupine}, catalog.Strength},
		{[]catalog.IngredientKey{catalog.Anise, catalog.Deathcap}, catalog.Skelleton},
		{[]catalog.IngredientKey{catalog.Deadmans, catalog.Lupine}, catalog.Speech},
		{[]catalog.IngredientKey{catalog.Deadmans, catalog.Deathcap}, catalog.Exorcism},
	}
	for _, tt := range tests {
		r, ok := Simulate(raws(tt.keys...), nil)
		if !ok || r.Kind != tt.want {
			t.Errorf("%v: got %s, %v; want %s", tt.keys, r.Kind, ok, tt.want)
		}
	}
}

func TestSimulateNoRecipe(t *testing.T) {
	tests := []struct {
		name  string
		combo []catalog.Ingredient
	}{
		// Cat and Beast once each
		{"main effect tie", raws(catalog.Catnip, catalog.Flyagaric)},
		// Fire and Earth once each
		{"element tie", raws(catalog.Wormwood, catalog.Mandrake)},
		{"no element", raws(catalog.Mandrake, catalog.Stinkhorn)},
		{"no main effect", raws(catalog.Lupine, catalog.Pluteus)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if r, ok := Simulate(tt.combo, nil); ok {
				t.Errorf("got recipe %s, want none", r.Kind)
			}
		})
	}
}

func TestSimulateCopiesIngredients(t *testing.T) {
	combo := raws(catalog.Flyagaric, catalog.Lupine)
	r, _ := Simulate(combo, nil)
	combo[0] = catalog.Raw(catalog.Sage)
	if r.Ingredients[0].Key != catalog.Flyagaric {
		t.Error("recipe shares the caller's slice")
	}
}

func TestSimulateDeterministic(t *testing.T) {
	combo := raws(catalog.Flyagaric, catalog.Lupine, catalog.Elven)
	cfg := &ScoringConfig{}
	cfg.Alchemists[AlchemistAcclaimed] = 2
	a, okA := Simulate(combo, cfg)
	b, okB := Simulate(combo, cfg)
	if okA != okB || a.Kind != b.Kind || a.Appeal != b.Appeal || a.Potency != b.Potency {
		t.Errorf("runs differ: %+v vs %+v", a, b)
	}
}

func TestTasteTable(t *testing.T) {
	crushedSage, _ := process.Crushing(catalog.Raw(catalog.Sage)) // Tasty, Impurity
	pickledSage, _ := process.Pickling(catalog.Raw(catalog.Sage)) // Impurity, Sweet
	tests := []struct {
		name  string
		combo []catalog.Ingredient
		want  Taste
	}{
		{"tasty", []catalog.Ingredient{crushedSage}, TasteTasty},
		{"sweet", []catalog.Ingredient{pickledSage}, TasteSweet},
		{"delicious", raws(catalog.Sage), TasteDelicious},
		{"bland", raws(catalog.Elven), TasteBland},
		{"flavorful", raws(catalog.Lupine, catalog.Wormwood), TasteFlavorful},
		{"foul", raws(catalog.Mandrake), TasteFoul},
		{"icky", raws(catalog.Stinkhorn), TasteIcky},
		{"unsavory", raws(catalog.Asporeus), TasteUnsavory},
		{"bitter", raws(catalog.Wormwood), TasteBitter},
	}
	for _, tt := range tests {
		got := count(tt.combo)
		if taste := got.taste(); taste != tt.want {
			t.Errorf("%s: taste = %s, want %s", tt.name, taste, tt.want)
		}
	}
}

func TestToxicityBuckets(t *testing.T) {
	tests := []struct {
		keys []catalog.IngredientKey
		want Toxicity
	}{
		{[]catalog.IngredientKey{catalog.Lupine, catalog.Pluteus}, ToxVeryToxic},
		{[]catalog.IngredientKey{catalog.Lupine}, ToxToxic},
		{[]catalog.IngredientKey{catalog.Lupine, catalog.Wormwood}, ToxNeutral},
		{[]catalog.IngredientKey{catalog.Anise}, ToxAntitoxic},
		{[]catalog.IngredientKey{catalog.Anise, catalog.Elven}, ToxVeryAntitoxic},
	}
	for _, tt := range tests {
		got := count(raws(tt.keys...))
		if tox := got.toxicity(); tox != tt.want {
			t.Errorf("%v: toxicity = %s, want %s", tt.keys, tox, tt.want)
		}
	}
}

func TestScoringConfig(t *testing.T) {
	combo := raws(catalog.Flyagaric, catalog.Lupine) // Vitality, Health, potency 240
	base, _ := Simulate(combo, nil)

	cfg := &ScoringConfig{}
	cfg.Alchemists[AlchemistAcclaimed] = 2   // +6 appeal
	cfg.Alchemists[AlchemistStimulating] = 1 // +10 per stimulant, 2 stimulants
	cfg.Alchemists[AlchemistHerbalist] = 1   // Lupine is a herb: +20
	cfg.Alchemists[AlchemistMycologist] = 1  // Fly Agaric is a mushroom: +20
	cfg.Market[catalog.Vitality] = []MarketCondition{MarketHighDemand, MarketTrendy}
	cfg.Market[catalog.Speed] = []MarketCondition{MarketInDemand}
	cfg.Branding[BrandingHealth] = 4
	cfg.Branding[BrandingSourcery] = 100

	r, _ := Simulate(combo, cfg)
	if want := base.Potency + 20 + 20 + 20; r.Potency != want {
		t.Errorf("potency = %d, want %d", r.Potency, want)
	}
	if want := base.Appeal + 6 + 30 + 4; r.Appeal != want {
		t.Errorf("appeal = %d, want %d", r.Appeal, want)
	}
}

func TestBulkBranding(t *testing.T) {
	combo := raws(catalog.Flyagaric, catalog.Lupine)
	cfg := &ScoringConfig{}
	cfg.Branding[BrandingBulk] = 7
	r, _ := Simulate(combo, cfg)
	if r.Appeal != 25+7 {
		t.Errorf("low potency appeal = %d, want %d", r.Appeal, 32)
	}

	cfg.Alchemists[AlchemistStimulating] = 10 // +200 potency pushes it past the ceiling
	r, _ = Simulate(combo, cfg)
	if r.Potency < BulkPotencyCeiling {
		t.Fatalf("potency %d still below ceiling", r.Potency)
	}
	if r.Appeal != 25 {
		t.Errorf("high potency appeal = %d, want 25", r.Appeal)
	}
}

func TestReasonable(t *testing.T) {
	vitality, _ := Simulate(raws(catalog.Flyagaric, catalog.Lupine), nil)
	if !Reasonable(&vitality) {
		t.Error("rejected a VeryToxic Vitality with positive appeal")
	}
	warding, _ := Simulate(raws(catalog.Catnip, catalog.Deathcap), nil)
	if Reasonable(&warding) {
		t.Error("accepted a negative appeal recipe")
	}

	tests := []struct {
		kind catalog.PotionKindKey
		tox  Toxicity
		want bool
	}{
		{catalog.Vitality, ToxAntitoxic, false},
		{catalog.Vitality, ToxVeryAntitoxic, false},
		{catalog.Vitality, ToxNeutral, true},
		{catalog.Speed, ToxToxic, false},
		{catalog.Speed, ToxVeryToxic, false},
		{catalog.Speed, ToxAntitoxic, true},
	}
	for _, tt := range tests {
		r := Recipe{Kind: tt.kind, Toxicity: tt.tox, Appeal: 100}
		if got := Reasonable(&r); got != tt.want {
			t.Errorf("%s %s: Reasonable = %v, want %v", tt.kind, tt.tox, got, tt.want)
		}
	}
}

func BenchmarkSimulate(b *testing.B) {
	combo := raws(catalog.Flyagaric, catalog.Lupine, catalog.Elven, catalog.Wormwood)
	cfg := &ScoringConfig{}
	for b.Loop() {
		Simulate(combo, cfg)
	}
}
