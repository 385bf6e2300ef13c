package optimization

import (
	"math"
	"math/rand"

	gaerrors "github.com/ducminhle1904/combo-optimizer/internal/errors"
)

// compositeWeightTolerance is the allowed deviation of composite weights from 1.0
const compositeWeightTolerance = 1e-6

func validateRate(op, name string, rate float64) error {
	if rate < 0 || rate > 1 {
		return gaerrors.NewValidationError("mutation", op, "%s must be between 0 and 1, got: %.4f", name, rate)
	}
	return nil
}

// mutableCopy returns a copy of ind with its fitness cleared
func mutableCopy(ind *Individual) *Individual {
	out := ind.Copy()
	out.ResetFitness()
	return out
}

// RandomMutation replaces each gene with probability Rate by a different option
type RandomMutation struct {
	Rate float64
}

// NewRandomMutation creates a per-gene random mutation
func NewRandomMutation(rate float64) (*RandomMutation, error) {
	if err := validateRate("NewRandomMutation", "mutation rate", rate); err != nil {
		return nil, err
	}
	return &RandomMutation{Rate: rate}, nil
}

func (m *RandomMutation) Name() string { return "random" }

func (m *RandomMutation) Params() map[string]interface{} {
	return map[string]interface{}{"rate": m.Rate}
}

// SetRate updates the per-gene mutation rate
func (m *RandomMutation) SetRate(rate float64) error {
	if err := validateRate("SetRate", "mutation rate", rate); err != nil {
		return err
	}
	m.Rate = rate
	return nil
}

// Mutate implements MutationStrategy
func (m *RandomMutation) Mutate(ind *Individual, rng *rand.Rand) *Individual {
	out := ind.Copy()
	out.MutateInPlace(m.Rate, rng)
	return out
}

// AdaptiveMutation raises its rate from BaseRate towards MaxRate as the
// population loses diversity or the best fitness stagnates. UpdateRate must be
// called once per generation before mutating.
type AdaptiveMutation struct {
	BaseRate float64
	MinRate  float64
	MaxRate  float64

	currentRate float64
	stagnation  int
	lastBest    float64
	hasBest     bool
}

// NewAdaptiveMutation creates an adaptive-rate mutation
func NewAdaptiveMutation(baseRate, minRate, maxRate float64) (*AdaptiveMutation, error) {
	for _, r := range []struct {
		name  string
		value float64
	}{{"base rate", baseRate}, {"min rate", minRate}, {"max rate", maxRate}} {
		if err := validateRate("NewAdaptiveMutation", r.name, r.value); err != nil {
			return nil, err
		}
	}
	if minRate > baseRate || baseRate > maxRate {
		return nil, gaerrors.NewValidationError("mutation", "NewAdaptiveMutation",
			"rates must satisfy min <= base <= max, got: %.4f <= %.4f <= %.4f", minRate, baseRate, maxRate)
	}
	return &AdaptiveMutation{
		BaseRate:    baseRate,
		MinRate:     minRate,
		MaxRate:     maxRate,
		currentRate: baseRate,
	}, nil
}

func (m *AdaptiveMutation) Name() string { return "adaptive" }

func (m *AdaptiveMutation) Params() map[string]interface{} {
	return map[string]interface{}{
		"base_rate": m.BaseRate,
		"min_rate":  m.MinRate,
		"max_rate":  m.MaxRate,
	}
}

// UpdateRate implements RateAdapter
func (m *AdaptiveMutation) UpdateRate(bestFitness, diversity float64) {
	if !m.hasBest || bestFitness > m.lastBest {
		m.stagnation = 0
		m.lastBest = bestFitness
		m.hasBest = true
	} else {
		m.stagnation++
	}

	stagnationPressure := math.Min(float64(m.stagnation)/10.0, 1.0)
	pressure := ((1 - diversity) + stagnationPressure) / 2
	rate := m.BaseRate + (m.MaxRate-m.BaseRate)*pressure
	m.currentRate = math.Max(m.MinRate, math.Min(m.MaxRate, rate))
}

// CurrentRate implements RateAdapter
func (m *AdaptiveMutation) CurrentRate() float64 {
	return m.currentRate
}

// Stagnation returns the number of consecutive non-improving updates
func (m *AdaptiveMutation) Stagnation() int {
	return m.stagnation
}

// Reset implements Resetter
func (m *AdaptiveMutation) Reset() {
	m.currentRate = m.BaseRate
	m.stagnation = 0
	m.lastBest = 0
	m.hasBest = false
}

// Mutate implements MutationStrategy
func (m *AdaptiveMutation) Mutate(ind *Individual, rng *rand.Rand) *Individual {
	out := ind.Copy()
	out.MutateInPlace(m.currentRate, rng)
	return out
}

// CategoricalMutation either mutates 2-3 random genes (with probability
// MultiGeneProb) or runs a Bernoulli(Rate) trial per gene. ForceChange
// excludes the current option from the replacement draw.
type CategoricalMutation struct {
	Rate          float64
	ForceChange   bool
	MultiGeneProb float64
}

// NewCategoricalMutation creates a categorical mutation
func NewCategoricalMutation(rate float64, forceChange bool, multiGeneProb float64) (*CategoricalMutation, error) {
	if err := validateRate("NewCategoricalMutation", "mutation rate", rate); err != nil {
		return nil, err
	}
	if err := validateRate("NewCategoricalMutation", "multi-gene probability", multiGeneProb); err != nil {
		return nil, err
	}
	return &CategoricalMutation{Rate: rate, ForceChange: forceChange, MultiGeneProb: multiGeneProb}, nil
}

func (m *CategoricalMutation) Name() string { return "categorical" }

func (m *CategoricalMutation) Params() map[string]interface{} {
	return map[string]interface{}{
		"rate":            m.Rate,
		"force_change":    m.ForceChange,
		"multi_gene_prob": m.MultiGeneProb,
	}
}

// Mutate implements MutationStrategy
func (m *CategoricalMutation) Mutate(ind *Individual, rng *rand.Rand) *Individual {
	out := mutableCopy(ind)
	n := out.Len()
	if n == 0 {
		return out
	}

	if rng.Float64() < m.MultiGeneProb {
		for _, i := range sampleIndices(rng, n, multiGeneCount(rng, n)) {
			out.genes[i] = randomGeneValue(rng, out.categorySizes[i], out.genes[i], m.ForceChange)
		}
		return out
	}

	for i := 0; i < n; i++ {
		if rng.Float64() < m.Rate {
			out.genes[i] = randomGeneValue(rng, out.categorySizes[i], out.genes[i], m.ForceChange)
		}
	}
	return out
}

// SwapMutation redistributes choices: with probability Rate it reassigns 2-3
// distinct genes to different options.
type SwapMutation struct {
	Rate float64
}

// NewSwapMutation creates a redistribution mutation
func NewSwapMutation(rate float64) (*SwapMutation, error) {
	if err := validateRate("NewSwapMutation", "mutation rate", rate); err != nil {
		return nil, err
	}
	return &SwapMutation{Rate: rate}, nil
}

func (m *SwapMutation) Name() string { return "swap" }

func (m *SwapMutation) Params() map[string]interface{} {
	return map[string]interface{}{"rate": m.Rate}
}

// Mutate implements MutationStrategy
func (m *SwapMutation) Mutate(ind *Individual, rng *rand.Rand) *Individual {
	out := mutableCopy(ind)
	n := out.Len()
	if n == 0 || rng.Float64() >= m.Rate {
		return out
	}
	for _, i := range sampleIndices(rng, n, multiGeneCount(rng, n)) {
		out.genes[i] = randomGeneValue(rng, out.categorySizes[i], out.genes[i], true)
	}
	return out
}

// InversionMutation randomizes a contiguous segment of 2-4 genes with
// probability Rate.
type InversionMutation struct {
	Rate float64
}

// NewInversionMutation creates a segment randomization mutation
func NewInversionMutation(rate float64) (*InversionMutation, error) {
	if err := validateRate("NewInversionMutation", "mutation rate", rate); err != nil {
		return nil, err
	}
	return &InversionMutation{Rate: rate}, nil
}

func (m *InversionMutation) Name() string { return "inversion" }

func (m *InversionMutation) Params() map[string]interface{} {
	return map[string]interface{}{"rate": m.Rate}
}

// Mutate implements MutationStrategy
func (m *InversionMutation) Mutate(ind *Individual, rng *rand.Rand) *Individual {
	out := mutableCopy(ind)
	n := out.Len()
	if n == 0 || rng.Float64() >= m.Rate {
		return out
	}

	length := 2 + rng.Intn(3)
	if length > n {
		length = n
	}
	start := rng.Intn(n - length + 1)
	for i := start; i < start+length; i++ {
		out.genes[i] = randomGeneValue(rng, out.categorySizes[i], out.genes[i], true)
	}
	return out
}

// WeightedMutation pairs a mutation method with its selection weight
type WeightedMutation struct {
	Method MutationStrategy
	Weight float64
}

// CompositeMutation applies exactly one of its methods per call, chosen by weight
type CompositeMutation struct {
	Methods []WeightedMutation
}

// NewCompositeMutation creates a weighted mix of mutation methods. Weights
// must sum to 1.0.
func NewCompositeMutation(methods []WeightedMutation) (*CompositeMutation, error) {
	if len(methods) == 0 {
		return nil, gaerrors.NewValidationError("mutation", "NewCompositeMutation", "at least one method is required")
	}
	total := 0.0
	for i, wm := range methods {
		if wm.Method == nil {
			return nil, gaerrors.NewValidationError("mutation", "NewCompositeMutation", "method %d is nil", i)
		}
		if wm.Weight < 0 {
			return nil, gaerrors.NewValidationError("mutation", "NewCompositeMutation",
				"weight %d must be non-negative, got: %.4f", i, wm.Weight)
		}
		total += wm.Weight
	}
	if math.Abs(total-1.0) > compositeWeightTolerance {
		return nil, gaerrors.NewValidationError("mutation", "NewCompositeMutation",
			"weights must sum to 1.0, got: %.6f", total)
	}

	owned := make([]WeightedMutation, len(methods))
	copy(owned, methods)
	return &CompositeMutation{Methods: owned}, nil
}

func (m *CompositeMutation) Name() string { return "composite" }

func (m *CompositeMutation) Params() map[string]interface{} {
	components := make([]map[string]interface{}, len(m.Methods))
	for i, wm := range m.Methods {
		components[i] = map[string]interface{}{
			"type":   wm.Method.Name(),
			"weight": wm.Weight,
			"params": wm.Method.Params(),
		}
	}
	return map[string]interface{}{"components": components}
}

// Mutate implements MutationStrategy
func (m *CompositeMutation) Mutate(ind *Individual, rng *rand.Rand) *Individual {
	weights := make([]float64, len(m.Methods))
	for i, wm := range m.Methods {
		weights[i] = wm.Weight
	}
	return m.Methods[cumulativePick(rng.Float64(), weights)].Method.Mutate(ind, rng)
}

// Reset forwards to stateful sub-methods
func (m *CompositeMutation) Reset() {
	for _, wm := range m.Methods {
		if r, ok := wm.Method.(Resetter); ok {
			r.Reset()
		}
	}
}
