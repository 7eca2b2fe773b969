package solver

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

const (
	// pivotTol is the smallest tableau entry accepted as a pivot.
	pivotTol = 1e-9
	// phase1Tol is the artificial mass above which a program is infeasible.
	phase1Tol = 1e-7
)

type lpStatus int

const (
	lpOptimal lpStatus = iota
	lpInfeasible
	lpUnbounded
	lpStalled // pivot budget exhausted
)

// tableau is a dense two-phase simplex tableau for
//
//	maximise c·x subject to rows, x >= 0.
//
// Row m holds the reduced costs; column n holds the right-hand sides. In
// phase 2 the reduced-cost tolerance scales with the largest objective
// coefficient.
type tableau struct {
	t     *mat.Dense
	m, n  int
	basis []int
	art   int // first artificial column; artificials never re-enter in phase 2

	tol    float64
	pivots int
	budget int
}

// solveLP maximises obj over the given rows with x >= 0. It returns the
// structural values and the objective value. Degenerate runs switch to
// Bland's rule, so the method cannot cycle; a positive budget caps the
// total pivots.
func solveLP(obj []float64, rows []lpRow, tol float64, budget int) ([]float64, float64, lpStatus) {
	nx := len(obj)
	m := len(rows)

	// normalise to non-negative right-hand sides
	neg := make([]bool, m)
	nArt := 0
	for i, r := range rows {
		neg[i] = r.rhs < 0
		op := r.op
		if neg[i] {
			op = flip(op)
		}
		if op == GreaterEq {
			nArt++
		}
	}

	n := nx + m + nArt
	tb := &tableau{
		t:      mat.NewDense(m+1, n+1, nil),
		m:      m,
		n:      n,
		basis:  make([]int, m),
		art:    nx + m,
		tol:    tol,
		budget: budget,
	}
	a := nx + m
	for i, r := range rows {
		row := tb.t.RawRowView(i)
		sgn := 1.0
		op := r.op
		if neg[i] {
			sgn, op = -1, flip(op)
		}
		for j, v := range r.coef {
			row[j] = sgn * v
		}
		row[n] = sgn * r.rhs
		if op == LessEq {
			row[nx+i] = 1
			tb.basis[i] = nx + i
		} else {
			row[nx+i] = -1
			row[a] = 1
			tb.basis[i] = a
			a++
		}
	}

	// phase 1: maximise -sum(artificials)
	if nArt > 0 {
		z := tb.t.RawRowView(m)
		for j := tb.art; j < n; j++ {
			z[j] = 1
		}
		for i, b := range tb.basis {
			if b >= tb.art {
				floats.AddScaled(z, -1, tb.t.RawRowView(i))
			}
		}
		if st := tb.run(n); st != lpOptimal {
			return nil, 0, st
		}
		if tb.t.At(m, n) < -phase1Tol {
			return nil, 0, lpInfeasible
		}
		tb.evictArtificials()
	}

	// phase 2
	tb.tol = tol * math.Max(1, floats.Norm(obj, math.Inf(1)))
	z := tb.t.RawRowView(m)
	for j := range z {
		z[j] = 0
	}
	for j, c := range obj {
		z[j] = -c
	}
	for i, b := range tb.basis {
		if b < nx && z[b] != 0 {
			floats.AddScaled(z, -z[b], tb.t.RawRowView(i))
		}
	}
	if st := tb.run(tb.art); st != lpOptimal {
		return nil, 0, st
	}

	x := make([]float64, nx)
	for i, b := range tb.basis {
		if b < nx {
			x[b] = tb.t.At(i, n)
		}
	}
	return x, tb.t.At(m, n), lpOptimal
}

func flip(op Op) Op {
	if op == LessEq {
		return GreaterEq
	}
	return LessEq
}

// run pivots until no column below limit has a negative reduced cost.
func (tb *tableau) run(limit int) lpStatus {
	bland := false
	degenerate := 0
	z := tb.t.RawRowView(tb.m)
	for {
		e := tb.entering(z, limit, bland)
		if e < 0 {
			return lpOptimal
		}
		l := tb.leaving(e, bland)
		if l < 0 {
			return lpUnbounded
		}
		if tb.budget > 0 && tb.pivots >= tb.budget {
			return lpStalled
		}
		if tb.t.At(l, tb.n) <= pivotTol {
			degenerate++
			bland = degenerate > 2*tb.m
		} else {
			degenerate, bland = 0, false
		}
		tb.pivot(l, e)
	}
}

// entering picks the most negative reduced cost, or the lowest index one
// under Bland's rule.
func (tb *tableau) entering(z []float64, limit int, bland bool) int {
	best, bestVal := -1, -tb.tol
	for j := 0; j < limit; j++ {
		if z[j] < bestVal {
			if bland {
				return j
			}
			best, bestVal = j, z[j]
		}
	}
	return best
}

// leaving runs the ratio test on column e. Ties go to the lowest basic index.
func (tb *tableau) leaving(e int, bland bool) int {
	best, bestRatio := -1, math.Inf(1)
	for i := 0; i < tb.m; i++ {
		a := tb.t.At(i, e)
		if a <= pivotTol {
			continue
		}
		r := tb.t.At(i, tb.n) / a
		switch {
		case r < bestRatio-pivotTol:
			best, bestRatio = i, r
		case r <= bestRatio+pivotTol:
			if bland && tb.basis[i] < tb.basis[best] || !bland && a > tb.t.At(best, e) {
				best, bestRatio = i, math.Min(r, bestRatio)
			}
		}
	}
	return best
}

func (tb *tableau) pivot(l, e int) {
	tb.pivots++
	row := tb.t.RawRowView(l)
	floats.Scale(1/row[e], row)
	row[e] = 1
	for i := 0; i <= tb.m; i++ {
		if i == l {
			continue
		}
		r := tb.t.RawRowView(i)
		if f := r[e]; f != 0 {
			floats.AddScaled(r, -f, row)
			r[e] = 0
		}
	}
	tb.basis[l] = e
}

// evictArtificials pivots zero-valued artificials out of the basis where a
// structural or slack column can replace them. Rows with no replacement are
// redundant and keep their artificial at zero.
func (tb *tableau) evictArtificials() {
	for i, b := range tb.basis {
		if b < tb.art {
			continue
		}
		row := tb.t.RawRowView(i)
		for j := 0; j < tb.art; j++ {
			if math.Abs(row[j]) > pivotTol {
				tb.pivot(i, j)
				break
			}
		}
	}
}
