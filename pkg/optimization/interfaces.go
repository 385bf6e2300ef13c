// Package optimization provides a generational genetic algorithm over
// fixed-length categorical genomes: one option is chosen per category and an
// externally computed fitness is maximized.
package optimization

import (
	"math/rand"
)

// FitnessFunc evaluates a gene vector. Errors abort the run.
type FitnessFunc func(genes []int) (float64, error)

// SelectionStrategy chooses parents from an evaluated population. Returned
// individuals are copies.
type SelectionStrategy interface {
	Name() string
	Params() map[string]interface{}
	Select(pop *Population, numParents int, rng *rand.Rand) ([]*Individual, error)
}

// CrossoverStrategy combines two parents into two children
type CrossoverStrategy interface {
	Name() string
	Params() map[string]interface{}
	Crossover(parent1, parent2 *Individual, rng *rand.Rand) (*Individual, *Individual, error)
}

// MutationStrategy returns a perturbed copy of an individual with fitness
// unset. The input is never modified.
type MutationStrategy interface {
	Name() string
	Params() map[string]interface{}
	Mutate(ind *Individual, rng *rand.Rand) *Individual
}

// RateAdapter is implemented by mutation strategies whose rate follows the
// search state. The engine calls UpdateRate once per generation.
type RateAdapter interface {
	UpdateRate(bestFitness, diversity float64)
	CurrentRate() float64
}

// Resetter is implemented by stateful strategies that must start each run
// from a clean state.
type Resetter interface {
	Reset()
}

// GenerationObserver is notified after every completed generation
type GenerationObserver interface {
	OnGeneration(stats GenerationStatistics)
}

// GenerationObserverFunc adapts a function to GenerationObserver
type GenerationObserverFunc func(stats GenerationStatistics)

// OnGeneration implements GenerationObserver
func (f GenerationObserverFunc) OnGeneration(stats GenerationStatistics) {
	f(stats)
}
