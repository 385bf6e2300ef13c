package optimization

import (
	"math/rand"
	"sort"
)

// Population represents the current generation of individuals
type Population struct {
	size          int
	categorySizes []int
	individuals   []*Individual
}

// PopulationStats summarizes a population. Fitness fields are nil when no
// individual has been evaluated.
type PopulationStats struct {
	Size           int      `json:"size"`
	BestFitness    *float64 `json:"best_fitness"`
	WorstFitness   *float64 `json:"worst_fitness"`
	AverageFitness *float64 `json:"average_fitness"`
	DiversityScore float64  `json:"diversity_score"`
	EvaluatedCount int      `json:"evaluated_count"`
}

// NewPopulation creates a population of size random individuals
func NewPopulation(size int, categorySizes []int, rng *rand.Rand) *Population {
	individuals := make([]*Individual, size)
	for i := range individuals {
		individuals[i] = NewRandomIndividual(categorySizes, rng)
	}
	return &Population{
		size:          size,
		categorySizes: categorySizes,
		individuals:   individuals,
	}
}

// NewPopulationFrom wraps existing individuals. The slice is not copied.
func NewPopulationFrom(size int, categorySizes []int, individuals []*Individual) *Population {
	return &Population{
		size:          size,
		categorySizes: categorySizes,
		individuals:   individuals,
	}
}

// Individuals returns the live individual slice
func (p *Population) Individuals() []*Individual {
	return p.individuals
}

// SetIndividuals replaces the individuals in the population
func (p *Population) SetIndividuals(individuals []*Individual) {
	p.individuals = individuals
}

// Size returns the target population size
func (p *Population) Size() int {
	return p.size
}

// Len returns the number of individuals currently held
func (p *Population) Len() int {
	return len(p.individuals)
}

// CategorySizes returns the shared per-category option counts
func (p *Population) CategorySizes() []int {
	return p.categorySizes
}

// Evaluated returns the evaluated individuals in population order
func (p *Population) Evaluated() []*Individual {
	evaluated := make([]*Individual, 0, len(p.individuals))
	for _, ind := range p.individuals {
		if ind.IsEvaluated() {
			evaluated = append(evaluated, ind)
		}
	}
	return evaluated
}

// EvaluateAll evaluates every individual, honouring the per-individual cache
func (p *Population) EvaluateAll(fn FitnessFunc) error {
	for _, ind := range p.individuals {
		if _, err := ind.Evaluate(fn); err != nil {
			return err
		}
	}
	return nil
}

// GetBest returns the evaluated individual with the highest fitness, or nil
func (p *Population) GetBest() *Individual {
	var best *Individual
	for _, ind := range p.individuals {
		if !ind.IsEvaluated() {
			continue
		}
		if best == nil || ind.fitness > best.fitness {
			best = ind
		}
	}
	return best
}

// GetWorst returns the evaluated individual with the lowest fitness, or nil
func (p *Population) GetWorst() *Individual {
	var worst *Individual
	for _, ind := range p.individuals {
		if !ind.IsEvaluated() {
			continue
		}
		if worst == nil || ind.fitness < worst.fitness {
			worst = ind
		}
	}
	return worst
}

// AverageFitness returns the mean fitness over evaluated individuals
func (p *Population) AverageFitness() (float64, bool) {
	sum := 0.0
	count := 0
	for _, ind := range p.individuals {
		if ind.IsEvaluated() {
			sum += ind.fitness
			count++
		}
	}
	if count == 0 {
		return 0, false
	}
	return sum / float64(count), true
}

// SortByFitness returns the evaluated individuals ordered by fitness followed
// by the unevaluated ones in their original order. The population itself is
// left untouched.
func (p *Population) SortByFitness(descending bool) []*Individual {
	evaluated := make([]*Individual, 0, len(p.individuals))
	var pending []*Individual
	for _, ind := range p.individuals {
		if ind.IsEvaluated() {
			evaluated = append(evaluated, ind)
		} else {
			pending = append(pending, ind)
		}
	}

	sort.SliceStable(evaluated, func(i, j int) bool {
		if descending {
			return evaluated[i].fitness > evaluated[j].fitness
		}
		return evaluated[i].fitness < evaluated[j].fitness
	})

	return append(evaluated, pending...)
}

// GetTop returns copies of the best min(n, size) individuals
func (p *Population) GetTop(n int) []*Individual {
	sorted := p.SortByFitness(true)
	if n > len(sorted) {
		n = len(sorted)
	}
	if n < 0 {
		n = 0
	}

	top := make([]*Individual, n)
	for i := 0; i < n; i++ {
		top[i] = sorted[i].Copy()
	}
	return top
}

// DiversityScore returns the fraction of distinct gene vectors
func (p *Population) DiversityScore() float64 {
	if len(p.individuals) == 0 {
		return 0
	}
	unique := make(map[string]struct{}, len(p.individuals))
	for _, ind := range p.individuals {
		unique[ind.Key()] = struct{}{}
	}
	return float64(len(unique)) / float64(len(p.individuals))
}

// Statistics returns an aggregate snapshot of the population
func (p *Population) Statistics() PopulationStats {
	stats := PopulationStats{
		Size:           len(p.individuals),
		DiversityScore: p.DiversityScore(),
		EvaluatedCount: len(p.Evaluated()),
	}
	if best := p.GetBest(); best != nil {
		v := best.fitness
		stats.BestFitness = &v
	}
	if worst := p.GetWorst(); worst != nil {
		v := worst.fitness
		stats.WorstFitness = &v
	}
	if avg, ok := p.AverageFitness(); ok {
		stats.AverageFitness = &avg
	}
	return stats
}
