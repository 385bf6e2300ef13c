package optimization

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	gaerrors "github.com/ducminhle1904/combo-optimizer/internal/errors"
)

func allMutations(t *testing.T, rate float64) []MutationStrategy {
	t.Helper()
	random, err := NewRandomMutation(rate)
	require.NoError(t, err)
	adaptive, err := NewAdaptiveMutation(rate/2, 0, rate)
	require.NoError(t, err)
	categorical, err := NewCategoricalMutation(rate, true, 0.3)
	require.NoError(t, err)
	swap, err := NewSwapMutation(rate)
	require.NoError(t, err)
	inversion, err := NewInversionMutation(rate)
	require.NoError(t, err)
	composite, err := NewCompositeMutation([]WeightedMutation{
		{Method: random, Weight: 0.5},
		{Method: swap, Weight: 0.3},
		{Method: inversion, Weight: 0.2},
	})
	require.NoError(t, err)
	return []MutationStrategy{random, adaptive, categorical, swap, inversion, composite}
}

func countChanged(a, b []int) int {
	n := 0
	for i := range a {
		if a[i] != b[i] {
			n++
		}
	}
	return n
}

func TestMutation_NeverModifiesInput(t *testing.T) {
	sizes := []int{4, 4, 4, 4, 4, 4}
	rng := newTestRNG()

	for _, m := range allMutations(t, 1.0) {
		t.Run(m.Name(), func(t *testing.T) {
			for i := 0; i < 30; i++ {
				ind := NewRandomIndividual(sizes, rng)
				ind.SetFitness(3)
				before := ind.Genes()

				out := m.Mutate(ind, rng)
				assert.Equal(t, before, ind.Genes())
				assert.True(t, ind.IsEvaluated())
				assert.False(t, out.IsEvaluated())
				assert.NotSame(t, ind, out)
				for g, v := range out.Genes() {
					assert.True(t, v >= 0 && v < sizes[g])
				}
			}
		})
	}
}

func TestMutation_SingleOptionCategories(t *testing.T) {
	sizes := []int{1, 1, 1}
	rng := newTestRNG()

	for _, m := range allMutations(t, 1.0) {
		ind := NewRandomIndividual(sizes, rng)
		assert.Equal(t, []int{0, 0, 0}, m.Mutate(ind, rng).Genes(), m.Name())
	}
}

func TestRandomMutation(t *testing.T) {
	_, err := NewRandomMutation(-0.1)
	assert.True(t, errors.Is(err, gaerrors.ErrValidation))

	m, err := NewRandomMutation(1.0)
	require.NoError(t, err)
	sizes := []int{3, 3, 3, 3}
	ind := mustIndividual(t, sizes, []int{0, 1, 2, 0})
	assert.Equal(t, 4, countChanged(ind.Genes(), m.Mutate(ind, newTestRNG()).Genes()))

	require.NoError(t, m.SetRate(0))
	assert.Equal(t, ind.Genes(), m.Mutate(ind, newTestRNG()).Genes())
	assert.Error(t, m.SetRate(2))
}

func TestAdaptiveMutation_UpdateRate(t *testing.T) {
	_, err := NewAdaptiveMutation(0.05, 0.1, 0.5)
	assert.True(t, errors.Is(err, gaerrors.ErrValidation), "base below min")
	_, err = NewAdaptiveMutation(0.1, 0.05, 1.5)
	assert.True(t, errors.Is(err, gaerrors.ErrValidation))

	m, err := NewAdaptiveMutation(0.1, 0.05, 0.5)
	require.NoError(t, err)
	assert.Equal(t, 0.1, m.CurrentRate())

	// first update with full diversity keeps the base rate
	m.UpdateRate(1.0, 1.0)
	assert.Equal(t, 0, m.Stagnation())
	assert.InDelta(t, 0.1, m.CurrentRate(), 1e-12)

	// no improvement, no diversity
	m.UpdateRate(1.0, 0.0)
	assert.Equal(t, 1, m.Stagnation())
	assert.InDelta(t, 0.1+0.4*0.55, m.CurrentRate(), 1e-12)

	for i := 0; i < 20; i++ {
		m.UpdateRate(1.0, 0.0)
	}
	assert.InDelta(t, 0.5, m.CurrentRate(), 1e-12)

	// improvement resets stagnation
	m.UpdateRate(2.0, 0.5)
	assert.Equal(t, 0, m.Stagnation())
	assert.InDelta(t, 0.1+0.4*0.25, m.CurrentRate(), 1e-12)

	m.Reset()
	assert.Equal(t, 0.1, m.CurrentRate())
	assert.Equal(t, 0, m.Stagnation())
}

func TestCategoricalMutation(t *testing.T) {
	_, err := NewCategoricalMutation(0.1, true, 1.1)
	assert.True(t, errors.Is(err, gaerrors.ErrValidation))

	sizes := []int{5, 5, 5, 5, 5}
	rng := newTestRNG()

	multi, err := NewCategoricalMutation(0, true, 1.0)
	require.NoError(t, err)
	for i := 0; i < 50; i++ {
		ind := NewRandomIndividual(sizes, rng)
		changed := countChanged(ind.Genes(), multi.Mutate(ind, rng).Genes())
		assert.True(t, changed == 2 || changed == 3, "changed %d genes", changed)
	}

	perGene, err := NewCategoricalMutation(1.0, true, 0)
	require.NoError(t, err)
	ind := NewRandomIndividual(sizes, rng)
	assert.Equal(t, 5, countChanged(ind.Genes(), perGene.Mutate(ind, rng).Genes()))

	// clamped to the gene count
	short := NewRandomIndividual([]int{4, 4}, rng)
	assert.Equal(t, 2, countChanged(short.Genes(), multi.Mutate(short, rng).Genes()))
}

func TestSwapMutation(t *testing.T) {
	m, err := NewSwapMutation(1.0)
	require.NoError(t, err)
	rng := newTestRNG()
	sizes := []int{3, 3, 3, 3, 3, 3}

	for i := 0; i < 50; i++ {
		ind := NewRandomIndividual(sizes, rng)
		changed := countChanged(ind.Genes(), m.Mutate(ind, rng).Genes())
		assert.True(t, changed == 2 || changed == 3)
	}

	never, err := NewSwapMutation(0)
	require.NoError(t, err)
	ind := NewRandomIndividual(sizes, rng)
	assert.Equal(t, ind.Genes(), never.Mutate(ind, rng).Genes())
}

func TestInversionMutation(t *testing.T) {
	m, err := NewInversionMutation(1.0)
	require.NoError(t, err)
	rng := newTestRNG()
	sizes := []int{2, 2, 2, 2, 2, 2, 2, 2}

	for i := 0; i < 50; i++ {
		ind := NewRandomIndividual(sizes, rng)
		before := ind.Genes()
		after := m.Mutate(ind, rng).Genes()

		first, last := -1, -1
		for g := range before {
			if before[g] != after[g] {
				if first < 0 {
					first = g
				}
				last = g
			}
		}
		length := last - first + 1
		assert.True(t, length >= 2 && length <= 4, "segment length %d", length)
		assert.Equal(t, length, countChanged(before, after), "segment is contiguous")
	}
}

func TestCompositeMutation_Validation(t *testing.T) {
	random, err := NewRandomMutation(0.1)
	require.NoError(t, err)
	swap, err := NewSwapMutation(0.1)
	require.NoError(t, err)

	_, err = NewCompositeMutation([]WeightedMutation{{random, 0.5}, {swap, 0.4}})
	assert.True(t, errors.Is(err, gaerrors.ErrValidation))

	_, err = NewCompositeMutation(nil)
	assert.True(t, errors.Is(err, gaerrors.ErrValidation))

	_, err = NewCompositeMutation([]WeightedMutation{{random, 1.2}, {swap, -0.2}})
	assert.True(t, errors.Is(err, gaerrors.ErrValidation))

	_, err = NewCompositeMutation([]WeightedMutation{{random, 0.5}, {swap, 0.5000001}})
	assert.NoError(t, err)
}

func TestCompositeMutation_ParamsAndReset(t *testing.T) {
	adaptive, err := NewAdaptiveMutation(0.1, 0.05, 0.5)
	require.NoError(t, err)
	swap, err := NewSwapMutation(0.2)
	require.NoError(t, err)
	m, err := NewCompositeMutation([]WeightedMutation{{adaptive, 0.7}, {swap, 0.3}})
	require.NoError(t, err)

	components := m.Params()["components"].([]map[string]interface{})
	require.Len(t, components, 2)
	assert.Equal(t, "adaptive", components[0]["type"])
	assert.Equal(t, 0.3, components[1]["weight"])

	adaptive.UpdateRate(1, 0)
	adaptive.UpdateRate(1, 0)
	require.NotEqual(t, 0.1, adaptive.CurrentRate())
	m.Reset()
	assert.Equal(t, 0.1, adaptive.CurrentRate())
}

type countingMutation struct {
	calls int
}

func (c *countingMutation) Name() string                   { return "counting" }
func (c *countingMutation) Params() map[string]interface{} { return map[string]interface{}{} }
func (c *countingMutation) Mutate(ind *Individual, _ *rand.Rand) *Individual {
	c.calls++
	out := ind.Copy()
	out.ResetFitness()
	return out
}

func TestCompositeMutation_SkipsZeroWeight(t *testing.T) {
	never := &countingMutation{}
	always := &countingMutation{}
	m, err := NewCompositeMutation([]WeightedMutation{{never, 0}, {always, 1}})
	require.NoError(t, err)

	ind := mustIndividual(t, []int{3, 3}, []int{1, 2})
	rng := newTestRNG()
	for i := 0; i < 500; i++ {
		m.Mutate(ind, rng)
	}
	assert.Zero(t, never.calls)
	assert.Equal(t, 500, always.calls)
}
