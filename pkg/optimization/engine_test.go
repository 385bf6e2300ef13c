package optimization

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	gaerrors "github.com/ducminhle1904/combo-optimizer/internal/errors"
)

func sumFitness(genes []int) (float64, error) {
	total := 0
	for _, g := range genes {
		total += g
	}
	return float64(total), nil
}

func constantFitness([]int) (float64, error) {
	return 1, nil
}

func seededConfig(sizes []int, seed int64) GAConfig {
	cfg := DefaultGAConfig(sizes)
	cfg.RandomSeed = &seed
	cfg.PopulationSize = 12
	cfg.Generations = 15
	return cfg
}

// stripTimes zeroes wall-clock fields so results can be compared
func stripTimes(r *Result) *Result {
	out := *r
	out.TotalTime = 0
	out.Statistics = make([]GenerationStatistics, len(r.Statistics))
	for i, s := range r.Statistics {
		s.ExecutionTime = 0
		out.Statistics[i] = s
	}
	return &out
}

func TestNewEngine_Validation(t *testing.T) {
	_, err := NewEngine(DefaultGAConfig([]int{3}), nil)
	assert.True(t, errors.Is(err, gaerrors.ErrValidation))

	cfg := DefaultGAConfig([]int{3})
	cfg.PopulationSize = 50
	cfg.ElitismCount = 50
	_, err = NewEngine(cfg, sumFitness)
	assert.True(t, errors.Is(err, gaerrors.ErrValidation))
}

func TestEngine_DeterministicWithSeed(t *testing.T) {
	cfg := seededConfig([]int{3, 3}, 42)
	cfg.ConvergenceThreshold = 100

	e1, err := NewEngine(cfg, sumFitness)
	require.NoError(t, err)
	r1, err := e1.Run()
	require.NoError(t, err)

	e2, err := NewEngine(seededConfig([]int{3, 3}, 42), sumFitness)
	require.NoError(t, err)
	e2.config.ConvergenceThreshold = 100
	r2, err := e2.Run()
	require.NoError(t, err)

	b1, err := json.Marshal(stripTimes(r1))
	require.NoError(t, err)
	b2, err := json.Marshal(stripTimes(r2))
	require.NoError(t, err)
	assert.Equal(t, string(b1), string(b2))

	// running the same engine again starts from a clean state
	r3, err := e1.Run()
	require.NoError(t, err)
	b3, err := json.Marshal(stripTimes(r3))
	require.NoError(t, err)
	assert.Equal(t, string(b1), string(b3))
}

func TestEngine_DeterministicWithStatefulStrategies(t *testing.T) {
	build := func() *Result {
		cfg := seededConfig([]int{4, 4, 4, 4, 4}, 99)
		sel, err := NewRankSelection(1.7)
		require.NoError(t, err)
		cx, err := NewSegmentCrossover(2)
		require.NoError(t, err)
		mut, err := NewAdaptiveMutation(0.1, 0.05, 0.6)
		require.NoError(t, err)
		cfg.Selection, cfg.Crossover, cfg.Mutation = sel, cx, mut

		e, err := NewEngine(cfg, sumFitness)
		require.NoError(t, err)
		r, err := e.Run()
		require.NoError(t, err)
		assert.True(t, mut.CurrentRate() >= 0.05 && mut.CurrentRate() <= 0.6)
		return stripTimes(r)
	}
	assert.Equal(t, build(), build())
}

func TestEngine_SingleOptionCategories(t *testing.T) {
	cfg := seededConfig([]int{1, 1, 1}, 1)
	calls := 0
	e, err := NewEngine(cfg, func(genes []int) (float64, error) {
		calls++
		assert.Equal(t, []int{0, 0, 0}, genes)
		return 5, nil
	})
	require.NoError(t, err)

	result, err := e.Run()
	require.NoError(t, err)
	assert.Equal(t, []int{0, 0, 0}, result.BestCombination)
	require.NotNil(t, result.BestFitness)
	assert.Equal(t, 5.0, *result.BestFitness)
	assert.Greater(t, calls, 0)
}

func TestEngine_GenerationCap(t *testing.T) {
	cfg := seededConfig([]int{3, 3}, 3)
	cfg.Generations = 5
	cfg.ConvergenceThreshold = 1000

	e, err := NewEngine(cfg, constantFitness)
	require.NoError(t, err)
	result, err := e.Run()
	require.NoError(t, err)

	assert.Equal(t, 5, result.GenerationsCompleted)
	assert.False(t, result.Converged)
	assert.False(t, result.TargetReached)
	assert.Equal(t, "generation_limit", result.TerminationReason())
	// one snapshot per generation plus the final one
	require.Len(t, result.Statistics, 6)
	assert.Equal(t, 5, result.Statistics[5].Generation)
	assert.Equal(t, 0.0, result.Statistics[5].ExecutionTime)
	assert.Equal(t, 5, result.GenerationsWithoutImprovement)
}

func TestEngine_StatisticsInterval(t *testing.T) {
	cfg := seededConfig([]int{3, 3}, 3)
	cfg.Generations = 5
	cfg.ConvergenceThreshold = 1000
	cfg.StatisticsInterval = 2

	e, err := NewEngine(cfg, constantFitness)
	require.NoError(t, err)
	result, err := e.Run()
	require.NoError(t, err)

	require.Len(t, result.Statistics, 3)
	assert.Equal(t, 2, result.Statistics[0].Generation)
	assert.Equal(t, 4, result.Statistics[1].Generation)
	assert.Equal(t, 5, result.Statistics[2].Generation)

	cfg.TrackStatistics = false
	e, err = NewEngine(cfg, constantFitness)
	require.NoError(t, err)
	result, err = e.Run()
	require.NoError(t, err)
	assert.Empty(t, result.Statistics)
}

func TestEngine_Convergence(t *testing.T) {
	cfg := seededConfig([]int{3, 3}, 5)
	cfg.Generations = 100
	cfg.ConvergenceThreshold = 3

	e, err := NewEngine(cfg, constantFitness)
	require.NoError(t, err)
	result, err := e.Run()
	require.NoError(t, err)

	assert.True(t, result.Converged)
	assert.False(t, result.TargetReached)
	assert.Equal(t, 3, result.GenerationsCompleted)
	assert.Equal(t, 3, result.GenerationsWithoutImprovement)
	assert.Equal(t, "converged", result.TerminationReason())
}

func TestEngine_TargetReached(t *testing.T) {
	target := 4.0
	cfg := seededConfig([]int{3, 3}, 11)
	cfg.PopulationSize = 20
	cfg.Generations = 200
	cfg.ConvergenceThreshold = 1000
	cfg.TargetFitness = &target

	e, err := NewEngine(cfg, sumFitness)
	require.NoError(t, err)
	result, err := e.Run()
	require.NoError(t, err)

	assert.True(t, result.TargetReached)
	assert.False(t, result.Converged)
	assert.Equal(t, []int{2, 2}, result.BestCombination)
	assert.Equal(t, 4.0, *result.BestFitness)
	assert.Less(t, result.GenerationsCompleted, 200)
}

func TestEngine_ConvergenceTakesPriorityOverTarget(t *testing.T) {
	target := 0.5
	cfg := seededConfig([]int{3, 3}, 5)
	cfg.ConvergenceThreshold = 1
	cfg.TargetFitness = &target

	e, err := NewEngine(cfg, constantFitness)
	require.NoError(t, err)
	result, err := e.Run()
	require.NoError(t, err)

	assert.Equal(t, 1, result.GenerationsCompleted)
	assert.True(t, result.Converged)
	assert.False(t, result.TargetReached)
}

func TestEngine_BestEverMonotonic(t *testing.T) {
	cfg := seededConfig([]int{5, 5, 5, 5}, 8)
	cfg.Generations = 30
	cfg.ConvergenceThreshold = 1000

	e, err := NewEngine(cfg, sumFitness)
	require.NoError(t, err)

	var history []float64
	var popBest []float64
	e.AddObserver(GenerationObserverFunc(func(stats GenerationStatistics) {
		best := e.BestEver()
		require.NotNil(t, best)
		f, _ := best.Fitness()
		history = append(history, f)
		popBest = append(popBest, stats.BestFitness)
	}))

	result, err := e.Run()
	require.NoError(t, err)
	require.Len(t, history, result.GenerationsCompleted)

	for i := 1; i < len(history); i++ {
		assert.GreaterOrEqual(t, history[i], history[i-1])
		// elites keep the population best from regressing
		assert.GreaterOrEqual(t, popBest[i], popBest[i-1])
	}
	assert.Equal(t, history[len(history)-1], *result.BestFitness)
}

func TestEngine_PopulationInvariants(t *testing.T) {
	sizes := []int{2, 7, 3}
	cfg := seededConfig(sizes, 13)
	cfg.ElitismCount = 3
	cx, err := NewUniformCrossover(0.5)
	require.NoError(t, err)
	cfg.Crossover = cx

	e, err := NewEngine(cfg, sumFitness)
	require.NoError(t, err)
	e.AddObserver(GenerationObserverFunc(func(GenerationStatistics) {
		pop := e.Population()
		require.Equal(t, cfg.PopulationSize, pop.Len())
		for _, ind := range pop.Individuals() {
			for g, v := range ind.Genes() {
				assert.True(t, v >= 0 && v < sizes[g])
			}
		}
	}))

	result, err := e.Run()
	require.NoError(t, err)
	assert.Equal(t, cfg.PopulationSize, result.FinalPopulationStats.Size)
	assert.Equal(t, e.Generation(), result.GenerationsCompleted)
	assert.Equal(t, e.GenerationsWithoutImprovement(), result.GenerationsWithoutImprovement)
}

func TestEngine_EvaluationErrorAbortsRun(t *testing.T) {
	boom := errors.New("evaluator offline")
	calls := 0
	cfg := seededConfig([]int{3, 3}, 2)

	e, err := NewEngine(cfg, func(genes []int) (float64, error) {
		calls++
		if calls > 20 {
			return 0, boom
		}
		return sumFitness(genes)
	})
	require.NoError(t, err)

	result, err := e.Run()
	assert.Nil(t, result)
	require.Error(t, err)
	assert.True(t, errors.Is(err, gaerrors.ErrEvaluation))
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 21, calls)
}

func TestEngine_ObserversCalledEveryGeneration(t *testing.T) {
	cfg := seededConfig([]int{3, 3}, 4)
	cfg.Generations = 7
	cfg.ConvergenceThreshold = 1000
	cfg.StatisticsInterval = 3

	e, err := NewEngine(cfg, sumFitness)
	require.NoError(t, err)

	var generations []int
	e.AddObserver(GenerationObserverFunc(func(stats GenerationStatistics) {
		generations = append(generations, stats.Generation)
	}))
	_, err = e.Run()
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3, 4, 5, 6, 7}, generations)
}

func TestResult_JSONFieldNames(t *testing.T) {
	cfg := seededConfig([]int{3, 3}, 42)
	cfg.Generations = 2
	e, err := NewEngine(cfg, sumFitness)
	require.NoError(t, err)
	result, err := e.Run()
	require.NoError(t, err)

	raw, err := json.Marshal(result)
	require.NoError(t, err)
	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &decoded))

	for _, key := range []string{
		"best_combination", "best_fitness", "generations_completed", "total_time",
		"converged", "target_reached", "generations_without_improvement",
		"final_population_stats", "statistics", "config",
	} {
		assert.Contains(t, decoded, key)
	}
	final := decoded["final_population_stats"].(map[string]interface{})
	for _, key := range []string{"size", "best_fitness", "worst_fitness", "average_fitness", "diversity_score", "evaluated_count"} {
		assert.Contains(t, final, key)
	}
}

func TestEngine_SmallPopulationHighElitism(t *testing.T) {
	for _, tc := range []struct{ size, elitism int }{{4, 2}, {10, 3}, {5, 4}} {
		cfg := seededConfig([]int{3, 3}, 8)
		cfg.PopulationSize = tc.size
		cfg.ElitismCount = tc.elitism
		cfg.Generations = 10
		cfg.ConvergenceThreshold = 100

		e, err := NewEngine(cfg, sumFitness)
		require.NoError(t, err)
		e.AddObserver(GenerationObserverFunc(func(GenerationStatistics) {
			assert.Len(t, e.Population().Evaluated(), tc.size)
		}))

		result, err := e.Run()
		require.NoError(t, err, "size=%d elitism=%d", tc.size, tc.elitism)
		assert.Equal(t, 10, result.GenerationsCompleted)
		assert.Equal(t, tc.size, result.FinalPopulationStats.Size)
		assert.Equal(t, tc.size, result.FinalPopulationStats.EvaluatedCount)
	}
}

func TestEngine_CounterAfterImprovingGeneration(t *testing.T) {
	// every call scores higher than the last, so each generation finds a new best
	calls := 0
	increasing := func([]int) (float64, error) {
		calls++
		return float64(calls), nil
	}

	cfg := seededConfig([]int{3, 3}, 5)
	cfg.Generations = 3
	cfg.ConvergenceThreshold = 100
	e, err := NewEngine(cfg, increasing)
	require.NoError(t, err)

	var counters []int
	var improved []bool
	previous := float64(cfg.PopulationSize)
	e.AddObserver(GenerationObserverFunc(func(stats GenerationStatistics) {
		best := e.BestEver()
		f, _ := best.Fitness()
		improved = append(improved, f > previous)
		previous = f
		counters = append(counters, e.GenerationsWithoutImprovement())
	}))

	result, err := e.Run()
	require.NoError(t, err)
	assert.Equal(t, []bool{true, true, true}, improved)
	// the live-population comparison still counts each improving generation
	assert.Equal(t, []int{1, 1, 1}, counters)
	assert.Equal(t, 1, result.GenerationsWithoutImprovement)
}

func TestEngine_ApplyElitism(t *testing.T) {
	cfg := DefaultGAConfig([]int{10})
	cfg.PopulationSize = 5
	cfg.ElitismCount = 2
	e, err := NewEngine(cfg, sumFitness)
	require.NoError(t, err)

	e.population = populationWithFitness(t, []int{10},
		[][]int{{0}, {1}, {2}, {3}, {4}}, []float64{1, 2, 3, 4, 5})
	offspring := populationWithFitness(t, []int{10},
		[][]int{{5}, {6}, {7}}, []float64{3, 0, 2.5}).Individuals()

	next := e.applyElitism(offspring)
	require.Len(t, next, 3)

	var fitness []float64
	for _, ind := range next {
		f, ok := ind.Fitness()
		require.True(t, ok)
		fitness = append(fitness, f)
	}
	// best offspring survives, elites are appended after it in their own order
	assert.Equal(t, []float64{3, 5, 4}, fitness)
	assert.Equal(t, 5, next[0].Gene(0))
	assert.Equal(t, 4, next[1].Gene(0))
	assert.NotSame(t, e.population.Individuals()[4], next[1])
}

func TestEngine_Reproduce(t *testing.T) {
	cfg := DefaultGAConfig([]int{10})
	cfg.CrossoverRate = 0
	noMutation, err := NewRandomMutation(0)
	require.NoError(t, err)
	cfg.Mutation = noMutation
	e, err := NewEngine(cfg, sumFitness)
	require.NoError(t, err)
	e.rng = newTestRNG()

	parents := populationWithFitness(t, []int{10}, [][]int{{1}, {2}, {3}}, nil).Individuals()
	genesOf := func(inds []*Individual) []int {
		out := make([]int, len(inds))
		for i, ind := range inds {
			out[i] = ind.Gene(0)
		}
		return out
	}

	// the odd last parent pairs with the first one
	offspring, err := e.reproduce(parents, 4)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3, 1}, genesOf(offspring))

	// offspring are cut to the requested count
	offspring, err = e.reproduce(parents, 3)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3}, genesOf(offspring))
	for _, child := range offspring {
		assert.False(t, child.IsEvaluated())
	}
}
