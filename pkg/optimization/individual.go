package optimization

import (
	"math/rand"
	"strconv"
	"strings"

	gaerrors "github.com/ducminhle1904/combo-optimizer/internal/errors"
)

// Individual represents one candidate combination: a choice per category plus
// a lazily computed fitness.
type Individual struct {
	genes         []int
	categorySizes []int // shared with the owning population, never written
	fitness       float64
	evaluated     bool
}

// NewIndividual creates an individual from explicit genes. When genes is nil a
// random gene is drawn for every category.
func NewIndividual(categorySizes []int, genes []int, rng *rand.Rand) (*Individual, error) {
	if genes == nil {
		return NewRandomIndividual(categorySizes, rng), nil
	}

	if len(genes) != len(categorySizes) {
		return nil, gaerrors.NewInvalidGenesError("individual", "NewIndividual",
			"expected %d genes, got %d", len(categorySizes), len(genes))
	}
	for i, g := range genes {
		if g < 0 || g >= categorySizes[i] {
			return nil, gaerrors.NewInvalidGenesError("individual", "NewIndividual",
				"gene %d out of range: %d not in [0, %d)", i, g, categorySizes[i]).
				WithContext("index", i)
		}
	}

	owned := make([]int, len(genes))
	copy(owned, genes)
	return &Individual{genes: owned, categorySizes: categorySizes}, nil
}

// NewRandomIndividual draws one uniformly random option per category.
func NewRandomIndividual(categorySizes []int, rng *rand.Rand) *Individual {
	genes := make([]int, len(categorySizes))
	for i, size := range categorySizes {
		genes[i] = rng.Intn(size)
	}
	return &Individual{genes: genes, categorySizes: categorySizes}
}

// newDerived wraps a freshly built gene buffer without validation. Operators
// only ever produce in-range genes.
func newDerived(categorySizes []int, genes []int) *Individual {
	return &Individual{genes: genes, categorySizes: categorySizes}
}

// Genes returns a copy of the gene vector
func (ind *Individual) Genes() []int {
	out := make([]int, len(ind.genes))
	copy(out, ind.genes)
	return out
}

// Gene returns the gene at index i
func (ind *Individual) Gene(i int) int {
	return ind.genes[i]
}

// Len returns the number of genes
func (ind *Individual) Len() int {
	return len(ind.genes)
}

// CategorySizes returns the shared per-category option counts
func (ind *Individual) CategorySizes() []int {
	return ind.categorySizes
}

// Fitness returns the cached fitness and whether it has been computed
func (ind *Individual) Fitness() (float64, bool) {
	return ind.fitness, ind.evaluated
}

// SetFitness stores a fitness value without calling any evaluator
func (ind *Individual) SetFitness(fitness float64) {
	ind.fitness = fitness
	ind.evaluated = true
}

// ResetFitness marks the individual as unevaluated
func (ind *Individual) ResetFitness() {
	ind.fitness = 0
	ind.evaluated = false
}

// IsEvaluated reports whether a fitness value is cached
func (ind *Individual) IsEvaluated() bool {
	return ind.evaluated
}

// MutateInPlace runs an independent Bernoulli(rate) trial per gene and replaces
// each hit with a different random option. Fitness is reset.
func (ind *Individual) MutateInPlace(rate float64, rng *rand.Rand) {
	for i := range ind.genes {
		if rng.Float64() < rate {
			ind.genes[i] = randomGeneValue(rng, ind.categorySizes[i], ind.genes[i], true)
		}
	}
	ind.ResetFitness()
}

// Crossover performs single-point recombination with other. A point of 0
// picks a cut uniformly in [1, len-1].
func (ind *Individual) Crossover(other *Individual, point int, rng *rand.Rand) (*Individual, error) {
	if len(ind.genes) != len(other.genes) {
		return nil, gaerrors.NewLengthMismatchError("individual", "Crossover", len(ind.genes), len(other.genes))
	}

	n := len(ind.genes)
	if point == 0 {
		if n < 2 {
			return newDerived(ind.categorySizes, ind.Genes()), nil
		}
		point = 1 + rng.Intn(n-1)
	}
	if point < 1 || point >= n {
		return nil, gaerrors.NewValidationError("individual", "Crossover",
			"crossover point must be in [1, %d], got: %d", n-1, point)
	}

	genes := make([]int, n)
	copy(genes[:point], ind.genes[:point])
	copy(genes[point:], other.genes[point:])
	return newDerived(ind.categorySizes, genes), nil
}

// Evaluate calls fn once and caches the result on this instance. Later calls
// return the cached value.
func (ind *Individual) Evaluate(fn FitnessFunc) (float64, error) {
	if ind.evaluated {
		return ind.fitness, nil
	}
	fitness, err := fn(ind.Genes())
	if err != nil {
		return 0, err
	}
	ind.SetFitness(fitness)
	return fitness, nil
}

// Copy returns an independent gene buffer with the same fitness state
func (ind *Individual) Copy() *Individual {
	return &Individual{
		genes:         ind.Genes(),
		categorySizes: ind.categorySizes,
		fitness:       ind.fitness,
		evaluated:     ind.evaluated,
	}
}

// Less reports whether ind is strictly worse than other. It is false whenever
// either side is unevaluated, so it is not a total order.
func (ind *Individual) Less(other *Individual) bool {
	if !ind.evaluated || !other.evaluated {
		return false
	}
	return ind.fitness < other.fitness
}

// Key returns a string identifying the gene vector
func (ind *Individual) Key() string {
	parts := make([]string, len(ind.genes))
	for i, g := range ind.genes {
		parts[i] = strconv.Itoa(g)
	}
	return strings.Join(parts, ",")
}

// String implements fmt.Stringer
func (ind *Individual) String() string {
	if !ind.evaluated {
		return "[" + ind.Key() + "] fitness=unset"
	}
	return "[" + ind.Key() + "] fitness=" + strconv.FormatFloat(ind.fitness, 'g', -1, 64)
}
