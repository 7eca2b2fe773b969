// Package recommend selects a portfolio of recipes by solving three cascading
// 0/1 programs: maximise the number of recipes, then their total appeal at
// that count, then their total potency at that count and appeal.
package recommend

import (
	"cmp"
	"fmt"
	"math"
	"math/bits"
	"slices"

	"github.com/rs/zerolog/log"

	"potionforge/internal/catalog"
	"potionforge/internal/simulate"
	"potionforge/internal/solver"
)

// Config holds the portfolio constraints.
type Config struct {
	// Available maps each raw ingredient to the units on hand. Ingredients
	// missing from the map have no units.
	Available map[catalog.IngredientKey]int
	// Utilisation is how many recipes one unit may serve.
	Utilisation int
	// Potions must each appear at least once.
	Potions []catalog.PotionKindKey
	// MinPerDepartment and MaxPerDepartment bound the recipes per department.
	MinPerDepartment int
	MaxPerDepartment int
}

// DefaultConfig returns a Config with the standard department bounds.
func DefaultConfig() Config {
	return Config{
		Available:        map[catalog.IngredientKey]int{},
		Utilisation:      1,
		MinPerDepartment: 1,
		MaxPerDepartment: 5,
	}
}

// Stage names one of the three cascading solves.
type Stage int

const (
	StageCount Stage = iota
	StageAppeal
	StagePotency
)

func (s Stage) String() string {
	switch s {
	case StageCount:
		return "maximise count"
	case StageAppeal:
		return "maximise appeal"
	}
	return "maximise potency"
}

// StageError reports which stage failed to reach a proven optimum.
type StageError struct {
	Stage Stage
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("recommend: %s: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error { return e.Err }

// Recommendation is the final portfolio.
type Recommendation struct {
	Recipes []simulate.Recipe
	Count   int
	Appeal  int
	Potency int
}

// Optimizer runs the cascade over a fixed candidate set.
type Optimizer struct {
	candidates []simulate.Recipe
	cfg        Config
	solver     solver.Solver
}

// NewOptimizer creates an optimizer. One binary variable is created per
// candidate, in order.
func NewOptimizer(candidates []simulate.Recipe, cfg Config, s solver.Solver) *Optimizer {
	return &Optimizer{candidates: candidates, cfg: cfg, solver: s}
}

// ── Constraint builder ─────────────────────────────────────────────

func (o *Optimizer) problem(objective func(*simulate.Recipe) float64) *solver.Problem {
	p := &solver.Problem{
		NumVars:   len(o.candidates),
		Sense:     solver.Maximize,
		Objective: make([]float64, len(o.candidates)),
	}
	for j := range o.candidates {
		p.Objective[j] = objective(&o.candidates[j])
	}
	o.addIngredientConstraints(p)
	o.addPotionKindConstraints(p)
	o.addDepartmentConstraints(p)
	return p
}

func (o *Optimizer) addIngredientConstraints(p *solver.Problem) {
	for k := 0; k < catalog.NumIngredients; k++ {
		key := catalog.IngredientKey(k)
		var terms []solver.Term
		for j := range o.candidates {
			if o.candidates[j].Uses(key) {
				terms = append(terms, solver.Term{Var: j, Coef: 1})
			}
		}
		if len(terms) == 0 {
			continue
		}
		limit := o.cfg.Available[key] * o.cfg.Utilisation
		p.AddConstraint(solver.Constraint{
			Name: "ingredient " + key.String(), Terms: terms, Op: solver.LessEq, RHS: float64(limit),
		})
	}
}

func (o *Optimizer) addPotionKindConstraints(p *solver.Problem) {
	var terms [catalog.NumPotionKinds][]solver.Term
	for j := range o.candidates {
		k := o.candidates[j].Kind
		terms[k] = append(terms[k], solver.Term{Var: j, Coef: 1})
	}
	for k, ts := range terms {
		key := catalog.PotionKindKey(k)
		if len(ts) > 0 {
			p.AddConstraint(solver.Constraint{Name: "at most one " + key.String(), Terms: ts, Op: solver.LessEq, RHS: 1})
		}
	}
	for _, key := range o.cfg.Potions {
		p.AddConstraint(solver.Constraint{Name: "at least one " + key.String(), Terms: terms[key], Op: solver.GreaterEq, RHS: 1})
	}
}

func (o *Optimizer) addDepartmentConstraints(p *solver.Problem) {
	var terms [catalog.NumDepartments][]solver.Term
	for j := range o.candidates {
		d := o.candidates[j].Department()
		terms[d] = append(terms[d], solver.Term{Var: j, Coef: 1})
	}
	for d, ts := range terms {
		name := catalog.Department(d).String()
		p.AddConstraint(solver.Constraint{Name: name + " minimum", Terms: ts, Op: solver.GreaterEq, RHS: float64(o.cfg.MinPerDepartment)})
		p.AddConstraint(solver.Constraint{Name: name + " maximum", Terms: ts, Op: solver.LessEq, RHS: float64(o.cfg.MaxPerDepartment)})
	}
}

func (o *Optimizer) countFloor(p *solver.Problem, n int) {
	terms := make([]solver.Term, len(o.candidates))
	for j := range terms {
		terms[j] = solver.Term{Var: j, Coef: 1}
	}
	p.AddConstraint(solver.Constraint{Name: "count floor", Terms: terms, Op: solver.GreaterEq, RHS: float64(n)})
}

func (o *Optimizer) appealFloor(p *solver.Problem, a int) {
	terms := make([]solver.Term, len(o.candidates))
	for j := range terms {
		terms[j] = solver.Term{Var: j, Coef: float64(o.candidates[j].Appeal)}
	}
	p.AddConstraint(solver.Constraint{Name: "appeal floor", Terms: terms, Op: solver.GreaterEq, RHS: float64(a)})
}

func (o *Optimizer) solve(stage Stage, p *solver.Problem) (*solver.Solution, error) {
	sol, err := o.solver.Solve(p)
	if err != nil {
		return nil, &StageError{Stage: stage, Err: err}
	}
	return sol, nil
}

// ── Stages ─────────────────────────────────────────────────────────

func one(*simulate.Recipe) float64 { return 1 }

func appealOf(r *simulate.Recipe) float64 { return float64(r.Appeal) }

func potencyOf(r *simulate.Recipe) float64 { return float64(r.Potency) }

func round(v float64) int { return int(math.Round(v)) }

// MaximiseCount returns the largest number of recipes that satisfies every
// portfolio constraint.
func (o *Optimizer) MaximiseCount() (int, error) {
	sol, err := o.solve(StageCount, o.problem(one))
	if err != nil {
		return 0, err
	}
	return round(sol.Objective), nil
}

// MaximiseAppeal returns the best total appeal over portfolios of at least n
// recipes.
func (o *Optimizer) MaximiseAppeal(n int) (int, error) {
	p := o.problem(appealOf)
	o.countFloor(p, n)
	sol, err := o.solve(StageAppeal, p)
	if err != nil {
		return 0, err
	}
	return round(sol.Objective), nil
}

// MaximisePotency returns the most potent portfolio of at least n recipes
// with total appeal at least a.
func (o *Optimizer) MaximisePotency(n, a int) ([]simulate.Recipe, error) {
	p := o.problem(potencyOf)
	o.countFloor(p, n)
	o.appealFloor(p, a)
	sol, err := o.solve(StagePotency, p)
	if err != nil {
		return nil, err
	}
	var out []simulate.Recipe
	for _, j := range sol.Selected() {
		out = append(out, o.candidates[j])
	}
	return out, nil
}

// maximiseLexicographic returns the most potent portfolio of at least n
// recipes among those with the best total appeal, by weighting appeal above
// any potency difference. a is the best appeal found by MaximiseAppeal(n).
// It matches MaximisePotency(n, a) without the appeal floor row, which keeps
// the relaxations well conditioned.
func (o *Optimizer) maximiseLexicographic(n, a int) ([]simulate.Recipe, error) {
	w := float64(o.potencySpan())
	p := o.problem(func(r *simulate.Recipe) float64 {
		return w*float64(r.Appeal) + float64(r.Potency)
	})
	o.countFloor(p, n)
	sol, err := o.solve(StagePotency, p)
	if err != nil {
		return nil, err
	}
	var out []simulate.Recipe
	appeal := 0
	for _, j := range sol.Selected() {
		out = append(out, o.candidates[j])
		appeal += o.candidates[j].Appeal
	}
	if appeal < a {
		return nil, &StageError{Stage: StagePotency, Err: fmt.Errorf("appeal %d below %d: %w", appeal, a, solver.ErrInfeasible)}
	}
	return out, nil
}

// potencySpan exceeds the difference in total potency between any two
// portfolios, given at most one recipe per kind.
func (o *Optimizer) potencySpan() int {
	var hi, lo [catalog.NumPotionKinds]int
	for i := range o.candidates {
		r := &o.candidates[i]
		hi[r.Kind] = max(hi[r.Kind], r.Potency)
		lo[r.Kind] = min(lo[r.Kind], r.Potency)
	}
	span := 1
	for k := range hi {
		span += hi[k] - lo[k]
	}
	return span
}

// Recommend runs the three stages in order.
func (o *Optimizer) Recommend() (*Recommendation, error) {
	log.Info().Int("candidates", len(o.candidates)).Msg("[recommend] maximising recipe count")
	n, err := o.MaximiseCount()
	if err != nil {
		return nil, err
	}
	log.Info().Int("count", n).Msg("[recommend] maximising appeal")
	a, err := o.MaximiseAppeal(n)
	if err != nil {
		return nil, err
	}
	log.Info().Int("count", n).Int("appeal", a).Msg("[recommend] maximising potency")
	recipes, err := o.maximiseLexicographic(n, a)
	if err != nil {
		return nil, err
	}
	rec := &Recommendation{Recipes: recipes, Count: len(recipes)}
	for i := range recipes {
		rec.Appeal += recipes[i].Appeal
		rec.Potency += recipes[i].Potency
	}
	log.Info().Int("count", rec.Count).Int("appeal", rec.Appeal).Int("potency", rec.Potency).Msg("[recommend] done")
	return rec, nil
}

// Recommend selects recipes from candidates under cfg.
func Recommend(candidates []simulate.Recipe, cfg Config, s solver.Solver) ([]simulate.Recipe, error) {
	rec, err := NewOptimizer(candidates, cfg, s).Recommend()
	if err != nil {
		return nil, err
	}
	return rec.Recipes, nil
}

// ── Candidate reduction ────────────────────────────────────────────

func usage(r *simulate.Recipe) uint32 {
	var m uint32 // bitmask of raw ingredient keys
	for _, ing := range r.Ingredients {
		m |= 1 << ing.Key
	}
	return m
}

// PruneDominated drops candidates that cannot change any stage's optimum: a
// recipe is dropped when another recipe of the same kind, using a subset of
// its raw ingredients, has appeal and potency at least as high. Swapping in
// the dominating recipe keeps every constraint satisfied. Among equal recipes
// the earliest is kept. Survivors keep their input order.
func PruneDominated(candidates []simulate.Recipe) []simulate.Recipe {
	masks := make([]uint32, len(candidates))
	var groups [catalog.NumPotionKinds][]int
	for i := range candidates {
		masks[i] = usage(&candidates[i])
		k := candidates[i].Kind
		groups[k] = append(groups[k], i)
	}
	keep := make([]bool, len(candidates))
	for _, idx := range groups {
		// a recipe can only be dominated by one sorted before it
		slices.SortFunc(idx, func(a, b int) int {
			ra, rb := &candidates[a], &candidates[b]
			if c := cmp.Compare(rb.Appeal, ra.Appeal); c != 0 {
				return c
			}
			if c := cmp.Compare(rb.Potency, ra.Potency); c != 0 {
				return c
			}
			if c := cmp.Compare(bits.OnesCount32(masks[a]), bits.OnesCount32(masks[b])); c != 0 {
				return c
			}
			return cmp.Compare(a, b)
		})
		var kept []int
		for _, i := range idx {
			if !slices.ContainsFunc(kept, func(j int) bool {
				return masks[j]&masks[i] == masks[j] && candidates[j].Potency >= candidates[i].Potency
			}) {
				kept = append(kept, i)
				keep[i] = true
			}
		}
	}
	var out []simulate.Recipe
	for i := range candidates {
		if keep[i] {
			out = append(out, candidates[i])
		}
	}
	return out
}
