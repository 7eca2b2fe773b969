package solver

import (
	"fmt"
	"math"

	"github.com/rs/zerolog/log"
)

// BranchAndBound is a depth-first branch-and-bound Solver. Each node is
// bounded by the LP relaxation of the remaining free variables. Nodes whose
// relaxation exhausts its pivot budget are branched without a bound, so the
// search stays exact.
type BranchAndBound struct {
	cfg Config
}

// NewBranchAndBound returns a solver using cfg.
func NewBranchAndBound(cfg Config) *BranchAndBound {
	return &BranchAndBound{cfg: cfg}
}

// Solve implements Solver.
func (b *BranchAndBound) Solve(p *Problem) (*Solution, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	s := newSearch(p, b.cfg)
	err := s.branch()
	log.Debug().
		Int("vars", p.NumVars).
		Int("constraints", len(p.Constraints)).
		Int("nodes", s.nodes).
		Int("lpFailures", s.lpFailures).
		Msg("[solver] search finished")
	if err != nil {
		return nil, fmt.Errorf("after %d nodes: %w", s.nodes, err)
	}
	if !s.found {
		return nil, ErrInfeasible
	}
	return &Solution{Values: s.best, Objective: p.Evaluate(s.best), Nodes: s.nodes}, nil
}

type search struct {
	p   *Problem
	cfg Config

	obj      []float64 // objective in maximisation form
	integral bool      // every objective coefficient is an integer
	fixed    []int8    // -1 free, else the fixed value

	nodes      int
	lpFailures int

	found   bool
	best    []bool
	bestVal float64
}

func newSearch(p *Problem, cfg Config) *search {
	s := &search{
		p:        p,
		cfg:      cfg,
		obj:      make([]float64, p.NumVars),
		integral: true,
		fixed:    make([]int8, p.NumVars),
	}
	for j, c := range p.Objective {
		if p.Sense == Minimize {
			c = -c
		}
		s.obj[j] = c
		if c != math.Trunc(c) {
			s.integral = false
		}
		s.fixed[j] = -1
	}
	return s
}

func (s *search) branch() error {
	s.nodes++
	if s.cfg.MaxNodes > 0 && s.nodes > s.cfg.MaxNodes {
		return ErrNodeLimit
	}

	r := s.relax()
	j := -1
	switch r.status {
	case relaxInfeasible:
		return nil
	case relaxLeaf:
		s.offer(s.assignment(nil))
		return nil
	case relaxOptimal:
		if s.found && !s.improves(r.bound) {
			return nil
		}
		j = s.mostFractional(r.x)
		if j < 0 {
			if x := s.assignment(r.x); s.p.Feasible(x, s.cfg.Tolerance) {
				s.offer(x)
				return nil
			}
		}
	}
	if j < 0 {
		j = s.firstFree()
	}

	for _, v := range [2]int8{1, 0} {
		s.fixed[j] = v
		if err := s.branch(); err != nil {
			s.fixed[j] = -1
			return err
		}
	}
	s.fixed[j] = -1
	return nil
}

func (s *search) improves(bound float64) bool {
	if s.integral {
		return math.Floor(bound+s.cfg.Tolerance) > s.bestVal+s.cfg.Tolerance
	}
	return bound > s.bestVal+s.cfg.Tolerance
}

func (s *search) offer(x []bool) {
	var v float64
	for j, on := range x {
		if on {
			v += s.obj[j]
		}
	}
	if !s.found || v > s.bestVal+s.cfg.Tolerance {
		s.found, s.best, s.bestVal = true, x, v
	}
}

// assignment rounds the relaxed values x (or, if nil, uses fixed values only).
func (s *search) assignment(x []float64) []bool {
	out := make([]bool, len(s.fixed))
	for j, f := range s.fixed {
		switch {
		case f >= 0:
			out[j] = f == 1
		case x != nil:
			out[j] = x[j] > 0.5
		}
	}
	return out
}

func (s *search) mostFractional(x []float64) int {
	best, bestDist := -1, math.Inf(1)
	for j, f := range s.fixed {
		if f >= 0 {
			continue
		}
		frac := x[j] - math.Floor(x[j])
		if frac <= s.cfg.Tolerance || frac >= 1-s.cfg.Tolerance {
			continue
		}
		if d := math.Abs(frac - 0.5); d < bestDist {
			best, bestDist = j, d
		}
	}
	return best
}

func (s *search) firstFree() int {
	for j, f := range s.fixed {
		if f < 0 {
			return j
		}
	}
	return -1
}

// ── LP relaxation ──────────────────────────────────────────────────

type relaxStatus int

const (
	relaxOptimal relaxStatus = iota
	relaxInfeasible
	relaxLeaf   // every variable fixed and all constraints hold
	relaxFailed // the LP could not be solved; no bound available
)

type relaxation struct {
	status relaxStatus
	x      []float64
	bound  float64
}

type lpRow struct {
	coef []float64 // over free variables
	op   Op
	rhs  float64
}

// relax solves the LP relaxation of the current node. Fixed variables are
// folded into the right-hand sides. Free variables get an explicit x <= 1 row
// unless some <= row with non-negative coefficients already implies it.
func (s *search) relax() relaxation {
	tol := s.cfg.Tolerance
	col := make([]int, len(s.fixed))
	var free []int
	var fixedObj float64
	for j, f := range s.fixed {
		col[j] = -1
		switch f {
		case -1:
			col[j] = len(free)
			free = append(free, j)
		case 1:
			fixedObj += s.obj[j]
		}
	}

	var rows []lpRow
	for i := range s.p.Constraints {
		c := &s.p.Constraints[i]
		rhs := c.RHS
		var coef []float64
		nonzero := false
		for _, t := range c.Terms {
			if cj := col[t.Var]; cj >= 0 {
				if coef == nil {
					coef = make([]float64, len(free))
				}
				coef[cj] += t.Coef
			} else if s.fixed[t.Var] == 1 {
				rhs -= t.Coef
			}
		}
		for _, a := range coef {
			if a != 0 {
				nonzero = true
				break
			}
		}
		if !nonzero {
			if (c.Op == LessEq && rhs < -tol) || (c.Op == GreaterEq && rhs > tol) {
				return relaxation{status: relaxInfeasible}
			}
			continue
		}
		rows = append(rows, lpRow{coef: coef, op: c.Op, rhs: rhs})
	}
	if len(free) == 0 {
		return relaxation{status: relaxLeaf}
	}

	bounded := make([]bool, len(free))
	for _, r := range rows {
		if r.op != LessEq || hasNegative(r.coef) {
			continue
		}
		for cj, a := range r.coef {
			if a > tol && r.rhs/a <= 1+tol {
				bounded[cj] = true
			}
		}
	}
	for cj, ok := range bounded {
		if !ok {
			coef := make([]float64, len(free))
			coef[cj] = 1
			rows = append(rows, lpRow{coef: coef, op: LessEq, rhs: 1})
		}
	}

	obj := make([]float64, len(free))
	for cj, j := range free {
		obj[cj] = s.obj[j]
	}
	optX, optF, status := solveLP(obj, rows, s.cfg.SimplexTolerance, s.cfg.MaxPivots)
	switch status {
	case lpInfeasible:
		return relaxation{status: relaxInfeasible}
	case lpOptimal:
	default:
		s.lpFailures++
		return relaxation{status: relaxFailed}
	}

	x := make([]float64, len(s.fixed))
	for j, f := range s.fixed {
		if f >= 0 {
			x[j] = float64(f)
		} else {
			x[j] = optX[col[j]]
		}
	}
	return relaxation{status: relaxOptimal, x: x, bound: fixedObj + optF}
}

func hasNegative(xs []float64) bool {
	for _, x := range xs {
		if x < 0 {
			return true
		}
	}
	return false
}
