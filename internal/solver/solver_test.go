package solver

import (
	"errors"
	"math"
	"math/rand/v2"
	"testing"
)

// bruteForce returns the best objective over all feasible assignments.
func bruteForce(p *Problem) (float64, bool) {
	best, found := 0.0, false
	x := make([]bool, p.NumVars)
	for mask := 0; mask < 1<<p.NumVars; mask++ {
		for j := range x {
			x[j] = mask&(1<<j) != 0
		}
		if !p.Feasible(x, 1e-9) {
			continue
		}
		v := p.Evaluate(x)
		if p.Sense == Minimize {
			v = -v
		}
		if !found || v > best {
			best, found = v, true
		}
	}
	if p.Sense == Minimize {
		best = -best
	}
	return best, found
}

func terms(coefs ...float64) []Term {
	var ts []Term
	for j, c := range coefs {
		if c != 0 {
			ts = append(ts, Term{Var: j, Coef: c})
		}
	}
	return ts
}

func TestKnapsack(t *testing.T) {
	p := &Problem{
		NumVars:   3,
		Sense:     Maximize,
		Objective: []float64{5, 4, 3},
		Constraints: []Constraint{
			{Name: "a", Terms: terms(2, 3, 1), Op: LessEq, RHS: 5},
			{Name: "b", Terms: terms(4, 1, 2), Op: LessEq, RHS: 11},
			{Name: "c", Terms: terms(3, 4, 2), Op: LessEq, RHS: 8},
		},
	}
	sol, err := NewBranchAndBound(DefaultConfig()).Solve(p)
	if err != nil {
		t.Fatalf("Solve: %v", err)
	}
	want, _ := bruteForce(p)
	if sol.Objective != want {
		t.Errorf("objective = %v, want %v", sol.Objective, want)
	}
	if !p.Feasible(sol.Values, 1e-9) {
		t.Errorf("solution %v infeasible", sol.Values)
	}
}

func TestMinimize(t *testing.T) {
	p := &Problem{
		NumVars:   4,
		Sense:     Minimize,
		Objective: []float64{3, 2, 4, 1},
		Constraints: []Constraint{
			{Name: "cover", Terms: terms(1, 1, 1, 1), Op: GreaterEq, RHS: 2},
			{Name: "pair", Terms: terms(1, 0, 1, 0), Op: GreaterEq, RHS: 1},
		},
	}
	sol, err := NewBranchAndBound(DefaultConfig()).Solve(p)
	if err != nil {
		t.Fatalf("Solve: %v", err)
	}
	// x0 and x3
	if sol.Objective != 4 {
		t.Errorf("objective = %v, want 4 (selected %v)", sol.Objective, sol.Selected())
	}
}

func TestRandomAgainstBruteForce(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 11))
	cases := 60
	if testing.Short() {
		cases = 15
	}
	for i := 0; i < cases; i++ {
		n := 3 + rng.IntN(6)
		p := &Problem{NumVars: n, Objective: make([]float64, n)}
		if rng.IntN(2) == 1 {
			p.Sense = Minimize
		}
		for j := range p.Objective {
			p.Objective[j] = float64(rng.IntN(21) - 5)
		}
		for r := 0; r < 1+rng.IntN(4); r++ {
			coefs := make([]float64, n)
			sum := 0.0
			for j := range coefs {
				coefs[j] = float64(rng.IntN(7) - 1)
				sum += math.Max(coefs[j], 0)
			}
			c := Constraint{Terms: terms(coefs...), Op: LessEq, RHS: math.Floor(sum / 2)}
			if rng.IntN(3) == 0 {
				c.Op, c.RHS = GreaterEq, float64(rng.IntN(3))
			}
			p.AddConstraint(c)
		}

		want, feasible := bruteForce(p)
		sol, err := NewBranchAndBound(DefaultConfig()).Solve(p)
		if !feasible {
			if !errors.Is(err, ErrInfeasible) {
				t.Errorf("case %d: err = %v, want ErrInfeasible", i, err)
			}
			continue
		}
		if err != nil {
			t.Errorf("case %d: Solve: %v", i, err)
			continue
		}
		if math.Abs(sol.Objective-want) > 1e-6 {
			t.Errorf("case %d: objective = %v, want %v", i, sol.Objective, want)
		}
		if !p.Feasible(sol.Values, 1e-9) {
			t.Errorf("case %d: solution infeasible", i)
		}
	}
}

func TestInfeasible(t *testing.T) {
	p := &Problem{
		NumVars:     2,
		Objective:   []float64{1, 1},
		Constraints: []Constraint{{Name: "too many", Terms: terms(1, 1), Op: GreaterEq, RHS: 3}},
	}
	if _, err := NewBranchAndBound(DefaultConfig()).Solve(p); !errors.Is(err, ErrInfeasible) {
		t.Errorf("err = %v, want ErrInfeasible", err)
	}
}

func TestNodeLimit(t *testing.T) {
	p := &Problem{
		NumVars:     3,
		Objective:   []float64{1, 1, 1},
		Constraints: []Constraint{{Name: "half", Terms: terms(2, 2, 2), Op: LessEq, RHS: 3}},
	}
	cfg := DefaultConfig()
	cfg.MaxNodes = 1
	if _, err := NewBranchAndBound(cfg).Solve(p); !errors.Is(err, ErrNodeLimit) {
		t.Errorf("err = %v, want ErrNodeLimit", err)
	}
}

func TestNoConstraints(t *testing.T) {
	p := &Problem{NumVars: 3, Objective: []float64{2, -1, 0.5}}
	sol, err := NewBranchAndBound(DefaultConfig()).Solve(p)
	if err != nil {
		t.Fatalf("Solve: %v", err)
	}
	if sol.Objective != 2.5 {
		t.Errorf("objective = %v, want 2.5", sol.Objective)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		p    Problem
	}{
		{"objective length", Problem{NumVars: 2, Objective: []float64{1}}},
		{"bad var", Problem{NumVars: 1, Objective: []float64{1},
			Constraints: []Constraint{{Terms: []Term{{Var: 3, Coef: 1}}, RHS: 1}}}},
		{"nan rhs", Problem{NumVars: 1, Objective: []float64{1},
			Constraints: []Constraint{{Terms: []Term{{Var: 0, Coef: 1}}, RHS: math.NaN()}}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewBranchAndBound(DefaultConfig()).Solve(&tt.p); !errors.Is(err, ErrInvalidProblem) {
				t.Errorf("err = %v, want ErrInvalidProblem", err)
			}
		})
	}
}
