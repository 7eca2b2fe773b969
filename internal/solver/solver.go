// Package solver solves small 0/1 integer linear programs.
package solver

import (
	"errors"
	"fmt"
	"math"
)

var (
	// ErrInfeasible means no assignment satisfies the constraints.
	ErrInfeasible = errors.New("problem is infeasible")
	// ErrNodeLimit means the search gave up before proving optimality.
	ErrNodeLimit = errors.New("node limit reached before optimality was proven")
	// ErrInvalidProblem means the problem is malformed.
	ErrInvalidProblem = errors.New("invalid problem")
)

type Sense int

const (
	Maximize Sense = iota
	Minimize
)

type Op int

const (
	LessEq Op = iota
	GreaterEq
)

func (o Op) String() string {
	if o == GreaterEq {
		return ">="
	}
	return "<="
}

// Term is Coef * x[Var].
type Term struct {
	Var  int
	Coef float64
}

// Constraint is sum(Terms) Op RHS.
type Constraint struct {
	Name  string
	Terms []Term
	Op    Op
	RHS   float64
}

// Problem is a linear objective over NumVars binary variables.
type Problem struct {
	NumVars     int
	Sense       Sense
	Objective   []float64
	Constraints []Constraint
}

// AddConstraint appends a constraint and returns its index.
func (p *Problem) AddConstraint(c Constraint) int {
	p.Constraints = append(p.Constraints, c)
	return len(p.Constraints) - 1
}

// Validate checks variable indices and coefficients.
func (p *Problem) Validate() error {
	if p.NumVars < 0 || len(p.Objective) != p.NumVars {
		return fmt.Errorf("%w: %d objective coefficients for %d variables", ErrInvalidProblem, len(p.Objective), p.NumVars)
	}
	for j, c := range p.Objective {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return fmt.Errorf("%w: objective coefficient %d is %v", ErrInvalidProblem, j, c)
		}
	}
	for i, c := range p.Constraints {
		if math.IsNaN(c.RHS) || math.IsInf(c.RHS, 0) {
			return fmt.Errorf("%w: constraint %d (%s) has rhs %v", ErrInvalidProblem, i, c.Name, c.RHS)
		}
		for _, t := range c.Terms {
			if t.Var < 0 || t.Var >= p.NumVars {
				return fmt.Errorf("%w: constraint %d (%s) references variable %d", ErrInvalidProblem, i, c.Name, t.Var)
			}
			if math.IsNaN(t.Coef) || math.IsInf(t.Coef, 0) {
				return fmt.Errorf("%w: constraint %d (%s) has coefficient %v", ErrInvalidProblem, i, c.Name, t.Coef)
			}
		}
	}
	return nil
}

// Evaluate returns the objective value of x.
func (p *Problem) Evaluate(x []bool) float64 {
	var v float64
	for j, on := range x {
		if on {
			v += p.Objective[j]
		}
	}
	return v
}

// Feasible reports whether x satisfies every constraint within tol.
func (p *Problem) Feasible(x []bool, tol float64) bool {
	for i := range p.Constraints {
		c := &p.Constraints[i]
		var lhs float64
		for _, t := range c.Terms {
			if x[t.Var] {
				lhs += t.Coef
			}
		}
		if !c.holds(lhs, tol) {
			return false
		}
	}
	return true
}

func (c *Constraint) holds(lhs, tol float64) bool {
	if c.Op == LessEq {
		return lhs <= c.RHS+tol
	}
	return lhs >= c.RHS-tol
}

// Solution is a proven-optimal assignment.
type Solution struct {
	Values    []bool
	Objective float64
	Nodes     int
}

// Selected returns the indices of variables set to 1.
func (s *Solution) Selected() []int {
	var out []int
	for j, on := range s.Values {
		if on {
			out = append(out, j)
		}
	}
	return out
}

// Solver returns a proven-optimal solution or an error.
type Solver interface {
	Solve(p *Problem) (*Solution, error)
}

// Config tunes the branch-and-bound search.
type Config struct {
	// MaxNodes bounds the number of search nodes explored per solve.
	MaxNodes int
	// Tolerance is the feasibility and integrality tolerance.
	Tolerance float64
	// SimplexTolerance is the reduced-cost tolerance of the LP relaxation.
	SimplexTolerance float64
	// MaxPivots bounds the simplex pivots spent on one node's relaxation.
	MaxPivots int
}

// DefaultConfig returns the default search settings.
func DefaultConfig() Config {
	return Config{
		MaxNodes:         200000,
		Tolerance:        1e-6,
		SimplexTolerance: 1e-9,
		MaxPivots:        20000,
	}
}
