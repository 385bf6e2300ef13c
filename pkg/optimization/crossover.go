package optimization

import (
	"math/rand"

	gaerrors "github.com/ducminhle1904/combo-optimizer/internal/errors"
)

func checkLengths(name string, p1, p2 *Individual) error {
	if p1.Len() != p2.Len() {
		return gaerrors.NewLengthMismatchError("crossover", name, p1.Len(), p2.Len())
	}
	return nil
}

// childrenFromMask builds two children where fromFirst[i] decides whether
// child1 takes gene i from p1 (child2 always takes the other parent's gene).
func childrenFromMask(p1, p2 *Individual, fromFirst []bool) (*Individual, *Individual) {
	n := p1.Len()
	g1 := make([]int, n)
	g2 := make([]int, n)
	for i := 0; i < n; i++ {
		if fromFirst[i] {
			g1[i], g2[i] = p1.genes[i], p2.genes[i]
		} else {
			g1[i], g2[i] = p2.genes[i], p1.genes[i]
		}
	}
	return newDerived(p1.categorySizes, g1), newDerived(p1.categorySizes, g2)
}

// SinglePointCrossover swaps the tails after one random cut
type SinglePointCrossover struct{}

// NewSinglePointCrossover creates a single-point crossover
func NewSinglePointCrossover() *SinglePointCrossover {
	return &SinglePointCrossover{}
}

func (c *SinglePointCrossover) Name() string { return "single_point" }

func (c *SinglePointCrossover) Params() map[string]interface{} {
	return map[string]interface{}{}
}

// Crossover implements CrossoverStrategy
func (c *SinglePointCrossover) Crossover(p1, p2 *Individual, rng *rand.Rand) (*Individual, *Individual, error) {
	if err := checkLengths("SinglePoint", p1, p2); err != nil {
		return nil, nil, err
	}
	n := p1.Len()
	if n <= 1 {
		return p1.Copy(), p2.Copy(), nil
	}

	point := 1 + rng.Intn(n-1)
	mask := make([]bool, n)
	for i := 0; i < point; i++ {
		mask[i] = true
	}
	c1, c2 := childrenFromMask(p1, p2, mask)
	return c1, c2, nil
}

// MultiPointCrossover alternates the source parent at every one of Points
// distinct cuts.
type MultiPointCrossover struct {
	Points int
}

// NewMultiPointCrossover creates a k-point crossover
func NewMultiPointCrossover(points int) (*MultiPointCrossover, error) {
	if points < 1 {
		return nil, gaerrors.NewValidationError("crossover", "NewMultiPointCrossover",
			"number of crossover points must be at least 1, got: %d", points)
	}
	return &MultiPointCrossover{Points: points}, nil
}

func (c *MultiPointCrossover) Name() string { return "multi_point" }

func (c *MultiPointCrossover) Params() map[string]interface{} {
	return map[string]interface{}{"points": c.Points}
}

// Crossover implements CrossoverStrategy
func (c *MultiPointCrossover) Crossover(p1, p2 *Individual, rng *rand.Rand) (*Individual, *Individual, error) {
	if err := checkLengths("MultiPoint", p1, p2); err != nil {
		return nil, nil, err
	}
	n := p1.Len()
	if n <= 1 {
		return p1.Copy(), p2.Copy(), nil
	}

	k := c.Points
	if k > n-1 {
		k = n - 1
	}
	cuts := sampleCutPoints(rng, 1, n-1, k)

	mask := make([]bool, n)
	fromFirst := true
	next := 0
	for i := 0; i < n; i++ {
		for next < len(cuts) && cuts[next] == i {
			fromFirst = !fromFirst
			next++
		}
		mask[i] = fromFirst
	}
	c1, c2 := childrenFromMask(p1, p2, mask)
	return c1, c2, nil
}

// UniformCrossover decides the source parent of every gene independently
type UniformCrossover struct {
	Probability float64
}

// NewUniformCrossover creates a uniform crossover. Probability is the chance
// child1 inherits a gene from parent1.
func NewUniformCrossover(probability float64) (*UniformCrossover, error) {
	if probability < 0 || probability > 1 {
		return nil, gaerrors.NewValidationError("crossover", "NewUniformCrossover",
			"probability must be between 0 and 1, got: %.4f", probability)
	}
	return &UniformCrossover{Probability: probability}, nil
}

func (c *UniformCrossover) Name() string { return "uniform" }

func (c *UniformCrossover) Params() map[string]interface{} {
	return map[string]interface{}{"probability": c.Probability}
}

// Crossover implements CrossoverStrategy
func (c *UniformCrossover) Crossover(p1, p2 *Individual, rng *rand.Rand) (*Individual, *Individual, error) {
	if err := checkLengths("Uniform", p1, p2); err != nil {
		return nil, nil, err
	}
	mask := make([]bool, p1.Len())
	for i := range mask {
		mask[i] = rng.Float64() < c.Probability
	}
	c1, c2 := childrenFromMask(p1, p2, mask)
	return c1, c2, nil
}

// OrderCrossover swaps the segment between two random cuts. Genes are
// independent categorical slots, so this is a two-point swap rather than a
// permutation-preserving OX.
type OrderCrossover struct{}

// NewOrderCrossover creates a two-cut segment swap crossover
func NewOrderCrossover() *OrderCrossover {
	return &OrderCrossover{}
}

func (c *OrderCrossover) Name() string { return "order" }

func (c *OrderCrossover) Params() map[string]interface{} {
	return map[string]interface{}{}
}

// Crossover implements CrossoverStrategy
func (c *OrderCrossover) Crossover(p1, p2 *Individual, rng *rand.Rand) (*Individual, *Individual, error) {
	if err := checkLengths("Order", p1, p2); err != nil {
		return nil, nil, err
	}
	n := p1.Len()
	if n < 2 {
		return p1.Copy(), p2.Copy(), nil
	}

	cuts := sampleCutPoints(rng, 0, n, 2)
	mask := make([]bool, n)
	for i := range mask {
		mask[i] = i < cuts[0] || i >= cuts[1]
	}
	c1, c2 := childrenFromMask(p1, p2, mask)
	return c1, c2, nil
}

// SegmentCrossover splits the genome into Segments contiguous blocks and
// swaps each block with probability 0.5.
type SegmentCrossover struct {
	Segments int

	fallback SinglePointCrossover
}

// NewSegmentCrossover creates a block-swap crossover
func NewSegmentCrossover(segments int) (*SegmentCrossover, error) {
	if segments < 2 {
		return nil, gaerrors.NewValidationError("crossover", "NewSegmentCrossover",
			"number of segments must be at least 2, got: %d", segments)
	}
	return &SegmentCrossover{Segments: segments}, nil
}

func (c *SegmentCrossover) Name() string { return "segment" }

func (c *SegmentCrossover) Params() map[string]interface{} {
	return map[string]interface{}{"segments": c.Segments}
}

// SegmentBounds returns the [start, end) bounds of each block for n genes.
// The remainder goes to the leading blocks.
func (c *SegmentCrossover) SegmentBounds(n int) [][2]int {
	base := n / c.Segments
	remainder := n % c.Segments
	bounds := make([][2]int, 0, c.Segments)
	start := 0
	for s := 0; s < c.Segments; s++ {
		length := base
		if s < remainder {
			length++
		}
		bounds = append(bounds, [2]int{start, start + length})
		start += length
	}
	return bounds
}

// Crossover implements CrossoverStrategy
func (c *SegmentCrossover) Crossover(p1, p2 *Individual, rng *rand.Rand) (*Individual, *Individual, error) {
	if err := checkLengths("Segment", p1, p2); err != nil {
		return nil, nil, err
	}
	n := p1.Len()
	if n < c.Segments {
		return c.fallback.Crossover(p1, p2, rng)
	}

	mask := make([]bool, n)
	for _, b := range c.SegmentBounds(n) {
		keep := rng.Float64() >= 0.5
		for i := b[0]; i < b[1]; i++ {
			mask[i] = keep
		}
	}
	c1, c2 := childrenFromMask(p1, p2, mask)
	return c1, c2, nil
}
