// Package enumerate walks every k-subset of an ingredient variant list in
// lexicographic order. Subsets are addressed by rank through the
// combinatorial number system, so any rank range can be visited directly
// and the space split across workers without materialising it.
package enumerate

import (
	"errors"
	"fmt"
	"iter"
	"math/bits"

	"potionforge/internal/catalog"
)

// MinPower is the smallest combination size considered.
const MinPower = 2

var ErrTooManyCombinations = errors.New("combination count overflows uint64")

// Binomial returns C(n, k). ok is false when the result does not fit in a
// uint64.
func Binomial(n, k int) (c uint64, ok bool) {
	if k < 0 || n < 0 || k > n {
		return 0, true
	}
	if k > n-k {
		k = n - k
	}
	c = 1
	for i := 0; i < k; i++ {
		// c*(n-i) is always divisible by i+1.
		hi, lo := bits.Mul64(c, uint64(n-i))
		if hi >= uint64(i+1) {
			return 0, false
		}
		c, _ = bits.Div64(hi, lo, uint64(i+1))
	}
	return c, true
}

// Unrank writes into dst the rank-th k-subset of {0..n-1} in lexicographic
// order and returns it. rank must be below C(n, k).
func Unrank(n, k int, rank uint64, dst []int) []int {
	dst = dst[:0]
	c := 0
	for i := 0; i < k; i++ {
		for {
			// subsets with c at position i
			count, _ := Binomial(n-c-1, k-i-1)
			if rank < count {
				break
			}
			rank -= count
			c++
		}
		dst = append(dst, c)
		c++
	}
	return dst
}

// Next advances idx to its lexicographic successor among k-subsets of
// {0..n-1}. It returns false when idx was the last subset.
func Next(idx []int, n int) bool {
	k := len(idx)
	i := k - 1
	for i >= 0 && idx[i] == n-k+i {
		i--
	}
	if i < 0 {
		return false
	}
	idx[i]++
	for j := i + 1; j < k; j++ {
		idx[j] = idx[j-1] + 1
	}
	return true
}

// Valid reports whether no two variants share a raw ingredient.
func Valid(combo []catalog.Ingredient) bool {
	var seen [catalog.NumIngredients]bool
	for _, ing := range combo {
		if seen[ing.Key] {
			return false
		}
		seen[ing.Key] = true
	}
	return true
}

// Reasonable reports whether no variant still carries an Impurity.
func Reasonable(combo []catalog.Ingredient) bool {
	for _, ing := range combo {
		if ing.Has(catalog.PartImpurity) {
			return false
		}
	}
	return true
}

// Accept applies both filters.
func Accept(combo []catalog.Ingredient) bool {
	return Valid(combo) && Reasonable(combo)
}

func powerRange(n, maxPower int) (lo, hi int) {
	return MinPower, min(maxPower, n)
}

// Count returns the number of raw subsets (before filtering) of sizes
// MinPower..maxPower over n variants.
func Count(n, maxPower int) (uint64, error) {
	lo, hi := powerRange(n, maxPower)
	var total uint64
	for k := lo; k <= hi; k++ {
		c, ok := Binomial(n, k)
		if !ok {
			return 0, fmt.Errorf("C(%d,%d): %w", n, k, ErrTooManyCombinations)
		}
		var carry uint64
		total, carry = bits.Add64(total, c, 0)
		if carry != 0 {
			return 0, fmt.Errorf("%d variants up to size %d: %w", n, maxPower, ErrTooManyCombinations)
		}
	}
	return total, nil
}

// Combinations yields every accepted subset of variants with size between
// MinPower and maxPower, by increasing size and then lexicographically. The
// sequence can be ranged over repeatedly. The yielded slice is reused between
// iterations; clone it to retain it.
func Combinations(variants []catalog.Ingredient, maxPower int) iter.Seq[[]catalog.Ingredient] {
	return func(yield func([]catalog.Ingredient) bool) {
		n := len(variants)
		lo, hi := powerRange(n, maxPower)
		combo := make([]catalog.Ingredient, 0, max(hi, 0))
		for k := lo; k <= hi; k++ {
			idx := make([]int, k)
			for i := range idx {
				idx[i] = i
			}
			for {
				combo = gather(combo, variants, idx)
				if Accept(combo) && !yield(combo) {
					return
				}
				if !Next(idx, n) {
					break
				}
			}
		}
	}
}

func gather(dst, variants []catalog.Ingredient, idx []int) []catalog.Ingredient {
	dst = dst[:0]
	for _, i := range idx {
		dst = append(dst, variants[i])
	}
	return dst
}

// Partition is a contiguous rank range [Start, End) of size-K subsets.
type Partition struct {
	K          int
	Start, End uint64
}

// Partitions splits the subset space of n variants, sizes MinPower..maxPower,
// into ranges of roughly equal length. Each size is cut into at most chunks
// ranges. Partitions are returned in enumeration order.
func Partitions(n, maxPower, chunks int) ([]Partition, error) {
	if _, err := Count(n, maxPower); err != nil {
		return nil, err
	}
	chunks = max(chunks, 1)
	lo, hi := powerRange(n, maxPower)
	var parts []Partition
	for k := lo; k <= hi; k++ {
		total, _ := Binomial(n, k)
		size := total / uint64(chunks)
		if total%uint64(chunks) != 0 {
			size++
		}
		for start := uint64(0); start < total; start += size {
			parts = append(parts, Partition{K: k, Start: start, End: min(start+size, total)})
		}
	}
	return parts, nil
}

// Walk calls fn with every accepted subset of variants in p, in rank order,
// until fn returns false. The slice passed to fn is reused.
func Walk(variants []catalog.Ingredient, p Partition, fn func(rank uint64, combo []catalog.Ingredient) bool) {
	if p.Start >= p.End {
		return
	}
	n := len(variants)
	idx := Unrank(n, p.K, p.Start, make([]int, 0, p.K))
	combo := make([]catalog.Ingredient, 0, p.K)
	for rank := p.Start; rank < p.End; rank++ {
		combo = gather(combo, variants, idx)
		if Accept(combo) && !fn(rank, combo) {
			return
		}
		if !Next(idx, n) {
			return
		}
	}
}
