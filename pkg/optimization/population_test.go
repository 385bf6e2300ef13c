package optimization

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func populationWithFitness(t *testing.T, sizes []int, genes [][]int, fitness []float64) *Population {
	t.Helper()
	individuals := make([]*Individual, len(genes))
	for i, g := range genes {
		individuals[i] = mustIndividual(t, sizes, g)
		if i < len(fitness) {
			individuals[i].SetFitness(fitness[i])
		}
	}
	return NewPopulationFrom(len(individuals), sizes, individuals)
}

func TestNewPopulation(t *testing.T) {
	sizes := []int{3, 4, 5}
	pop := NewPopulation(25, sizes, newTestRNG())

	assert.Equal(t, 25, pop.Size())
	assert.Equal(t, 25, pop.Len())
	for _, ind := range pop.Individuals() {
		for g, v := range ind.Genes() {
			assert.True(t, v >= 0 && v < sizes[g])
		}
	}
	assert.Nil(t, pop.GetBest())
	assert.Nil(t, pop.GetWorst())
	_, ok := pop.AverageFitness()
	assert.False(t, ok)
}

func TestPopulation_DiversityScore(t *testing.T) {
	sizes := []int{10, 10}

	identical := populationWithFitness(t, sizes, [][]int{{1, 1}, {1, 1}, {1, 1}, {1, 1}}, nil)
	assert.InDelta(t, 0.25, identical.DiversityScore(), 1e-12)

	distinct := populationWithFitness(t, sizes, [][]int{{0, 1}, {1, 0}, {2, 2}, {3, 9}}, nil)
	assert.Equal(t, 1.0, distinct.DiversityScore())

	mixed := populationWithFitness(t, sizes, [][]int{{0, 1}, {0, 1}, {2, 2}, {3, 9}}, nil)
	assert.InDelta(t, 0.75, mixed.DiversityScore(), 1e-12)

	empty := NewPopulationFrom(2, sizes, nil)
	assert.Equal(t, 0.0, empty.DiversityScore())
}

func TestPopulation_EvaluateAll(t *testing.T) {
	pop := NewPopulation(10, []int{3, 3}, newTestRNG())
	calls := 0
	err := pop.EvaluateAll(func(genes []int) (float64, error) {
		calls++
		return float64(genes[0] * genes[1]), nil
	})
	require.NoError(t, err)
	assert.Equal(t, 10, calls)
	assert.Len(t, pop.Evaluated(), 10)

	require.NoError(t, pop.EvaluateAll(func([]int) (float64, error) {
		calls++
		return 0, nil
	}))
	assert.Equal(t, 10, calls, "cached fitness is reused")
}

func TestPopulation_BestWorstAverage(t *testing.T) {
	sizes := []int{5}
	pop := populationWithFitness(t, sizes, [][]int{{0}, {1}, {2}, {3}}, []float64{10, 30, 20})

	assert.Equal(t, []int{1}, pop.GetBest().Genes())
	assert.Equal(t, []int{0}, pop.GetWorst().Genes())
	avg, ok := pop.AverageFitness()
	require.True(t, ok)
	assert.InDelta(t, 20.0, avg, 1e-12)
}

func TestPopulation_SortByFitness(t *testing.T) {
	sizes := []int{5}
	pop := populationWithFitness(t, sizes, [][]int{{0}, {1}, {2}, {3}, {4}}, []float64{5, 1, 5, 3})

	desc := pop.SortByFitness(true)
	require.Len(t, desc, 5)
	keys := make([]string, len(desc))
	for i, ind := range desc {
		keys[i] = ind.Key()
	}
	assert.Equal(t, []string{"0", "2", "3", "1", "4"}, keys, "stable with pending last")

	asc := pop.SortByFitness(false)
	assert.Equal(t, "1", asc[0].Key())
	assert.Equal(t, "4", asc[4].Key())

	// the population order is untouched
	assert.Equal(t, "0", pop.Individuals()[0].Key())
	assert.Equal(t, "1", pop.Individuals()[1].Key())
}

func TestPopulation_GetTopReturnsCopies(t *testing.T) {
	sizes := []int{5}
	pop := populationWithFitness(t, sizes, [][]int{{0}, {1}, {2}}, []float64{1, 3, 2})

	top := pop.GetTop(5)
	require.Len(t, top, 3)
	assert.Equal(t, []int{1}, top[0].Genes())
	assert.NotSame(t, pop.Individuals()[1], top[0])

	assert.Empty(t, pop.GetTop(0))
}

func TestPopulation_Statistics(t *testing.T) {
	sizes := []int{5}
	pop := populationWithFitness(t, sizes, [][]int{{0}, {1}, {1}}, []float64{2, 4})

	stats := pop.Statistics()
	assert.Equal(t, 3, stats.Size)
	assert.Equal(t, 2, stats.EvaluatedCount)
	require.NotNil(t, stats.BestFitness)
	assert.Equal(t, 4.0, *stats.BestFitness)
	assert.Equal(t, 2.0, *stats.WorstFitness)
	assert.Equal(t, 3.0, *stats.AverageFitness)
	assert.InDelta(t, 2.0/3.0, stats.DiversityScore, 1e-12)

	empty := NewPopulation(3, sizes, newTestRNG()).Statistics()
	assert.Nil(t, empty.BestFitness)
	assert.Nil(t, empty.AverageFitness)
}
