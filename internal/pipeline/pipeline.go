// Package pipeline runs a full recommendation: permute the stocked
// ingredients, enumerate and score every combination in parallel, then pick
// the portfolio.
package pipeline

import (
	"fmt"
	"runtime"
	"slices"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"potionforge/internal/catalog"
	"potionforge/internal/config"
	"potionforge/internal/enumerate"
	"potionforge/internal/logging"
	"potionforge/internal/process"
	"potionforge/internal/recommend"
	"potionforge/internal/simulate"
	"potionforge/internal/solver"
)

// chunksPerWorker oversplits each combination size so slow partitions do not
// leave other workers idle.
const chunksPerWorker = 4

// Result is the outcome of Run.
type Result struct {
	RunID          string
	Variants       int
	Combinations   uint64 // subsets visited before filtering
	Candidates     int    // reasonable recipes
	Pruned         int    // candidates left after dominance pruning
	Recommendation *recommend.Recommendation
	Elapsed        time.Duration
}

// Candidates scores every accepted combination of variants up to maxPower and
// keeps the reasonable recipes. Work is split across workers goroutines
// (GOMAXPROCS when workers <= 0); the result is in enumeration order
// regardless of the worker count.
func Candidates(variants []catalog.Ingredient, maxPower int, scoring *simulate.ScoringConfig, workers int) ([]simulate.Recipe, error) {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	parts, err := enumerate.Partitions(len(variants), maxPower, workers*chunksPerWorker)
	if err != nil {
		return nil, err
	}
	if len(parts) == 0 {
		return nil, nil
	}
	workers = min(workers, len(parts))

	type result struct {
		idx     int
		recipes []simulate.Recipe
	}
	resultCh := make(chan result, len(parts))
	partCh := make(chan int, len(parts))
	for i := range parts {
		partCh <- i
	}
	close(partCh)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range partCh {
				var recipes []simulate.Recipe
				enumerate.Walk(variants, parts[idx], func(_ uint64, combo []catalog.Ingredient) bool {
					if r, ok := simulate.Simulate(combo, scoring); ok && simulate.Reasonable(&r) {
						recipes = append(recipes, r)
					}
					return true
				})
				resultCh <- result{idx, recipes}
			}
		}()
	}
	go func() {
		wg.Wait()
		close(resultCh)
	}()

	byPart := make([][]simulate.Recipe, len(parts))
	for r := range resultCh {
		byPart[r.idx] = r.recipes
	}
	return slices.Concat(byPart...), nil
}

// Run executes the whole pipeline for cfg.
func Run(cfg *config.Config) (*Result, error) {
	start := time.Now()
	runID, logger := logging.NewRun()
	res := &Result{RunID: runID}

	variants := process.PermuteAll(cfg.Raw(), cfg.Processes)
	res.Variants = len(variants)
	total, err := enumerate.Count(len(variants), cfg.ArcanePower)
	if err != nil {
		return nil, fmt.Errorf("enumerate: %w", err)
	}
	res.Combinations = total
	logger.Info().
		Int("ingredients", len(cfg.Ingredients)).
		Str("processes", cfg.Processes.String()).
		Int("variants", len(variants)).
		Uint64("combinations", total).
		Msg("[permute] variants ready")

	candidates, err := Candidates(variants, cfg.ArcanePower, &cfg.Scoring, 0)
	if err != nil {
		return nil, fmt.Errorf("enumerate: %w", err)
	}
	res.Candidates = len(candidates)
	pruned := recommend.PruneDominated(candidates)
	res.Pruned = len(pruned)
	logger.Info().
		Int("candidates", len(candidates)).
		Int("pruned", len(pruned)).
		Dur("elapsed", time.Since(start)).
		Msg("[enumerate] candidates scored")

	opt := recommend.NewOptimizer(pruned, cfg.Recommend, solver.NewBranchAndBound(cfg.Solver))
	rec, err := opt.Recommend()
	if err != nil {
		logger.Error().Err(err).Msg("[recommend] failed")
		return nil, err
	}
	res.Recommendation = rec
	res.Elapsed = time.Since(start)
	logger.Info().Dur("elapsed", res.Elapsed).Msg("[done] recommendation ready")
	return res, nil
}

// Debug scores hand-written combinations without filtering. unmatched holds
// the indices of combos that produce no potion.
func Debug(combos [][]catalog.Ingredient, scoring *simulate.ScoringConfig) (recipes []simulate.Recipe, unmatched []int) {
	for i, combo := range combos {
		r, ok := simulate.Simulate(combo, scoring)
		if !ok {
			log.Warn().Int("recipe", i).Msg("[debug] no unique dominant effect or element")
			unmatched = append(unmatched, i)
			continue
		}
		recipes = append(recipes, r)
	}
	return recipes, unmatched
}
