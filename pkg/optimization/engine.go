package optimization

import (
	"log"
	"math/rand"
	"sort"
	"time"

	gaerrors "github.com/ducminhle1904/combo-optimizer/internal/errors"
)

// Engine runs the generational search. It is single-threaded: the only
// blocking point is the fitness callback.
type Engine struct {
	config    *GAConfig
	fitness   FitnessFunc
	logger    *log.Logger
	observers []GenerationObserver

	// per-run state
	rng                           *rand.Rand
	generation                    int
	population                    *Population
	bestEver                      *Individual
	generationsWithoutImprovement int
	statistics                    []GenerationStatistics
	converged                     bool
	targetReached                 bool
}

// NewEngine validates cfg and creates an engine around the fitness function
func NewEngine(cfg GAConfig, fitness FitnessFunc) (*Engine, error) {
	if fitness == nil {
		return nil, gaerrors.NewValidationError("engine", "NewEngine", "fitness function is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Engine{
		config:  &cfg,
		fitness: fitness,
		logger:  log.Default(),
	}, nil
}

// Config returns the validated configuration
func (e *Engine) Config() *GAConfig {
	return e.config
}

// SetLogger replaces the logger used for verbose progress output
func (e *Engine) SetLogger(logger *log.Logger) {
	if logger != nil {
		e.logger = logger
	}
}

// AddObserver registers an observer notified after every generation
func (e *Engine) AddObserver(observer GenerationObserver) {
	e.observers = append(e.observers, observer)
}

// Generation returns the number of completed generations
func (e *Engine) Generation() int {
	return e.generation
}

// Population returns the live population
func (e *Engine) Population() *Population {
	return e.population
}

// BestEver returns a copy of the best individual seen so far, or nil
func (e *Engine) BestEver() *Individual {
	if e.bestEver == nil {
		return nil
	}
	return e.bestEver.Copy()
}

// GenerationsWithoutImprovement returns the stagnation counter
func (e *Engine) GenerationsWithoutImprovement() int {
	return e.generationsWithoutImprovement
}

// Run executes the search until the generation cap, convergence, or the
// target fitness is reached. Fitness errors abort the run.
func (e *Engine) Run() (*Result, error) {
	start := time.Now()
	e.reset()

	cfg := e.config
	if cfg.Verbose {
		e.logger.Printf("🧬 Starting Genetic Algorithm Optimization")
		e.logger.Printf("Categories: %d, Population: %d, Generations: %d, Mutation: %.1f%%, Crossover: %.1f%%, Elite: %d",
			len(cfg.CategorySizes), cfg.PopulationSize, cfg.Generations,
			cfg.MutationRate*100, cfg.CrossoverRate*100, cfg.ElitismCount)
	}

	e.population = NewPopulation(cfg.PopulationSize, cfg.CategorySizes, e.rng)
	if err := e.evaluateInitial(); err != nil {
		return nil, err
	}

	for {
		genStart := time.Now()
		if err := e.step(); err != nil {
			return nil, err
		}
		stats := snapshotPopulation(e.generation, e.population, time.Since(genStart).Seconds())

		if cfg.TrackStatistics && e.generation%cfg.StatisticsInterval == 0 {
			e.statistics = append(e.statistics, stats)
		}
		for _, observer := range e.observers {
			observer.OnGeneration(stats)
		}
		if cfg.Verbose && (e.generation%ProgressReportInterval == 0 || e.generation == 1) {
			e.logger.Printf("🔄 Gen %d: Best=%.4f, Avg=%.4f, Worst=%.4f, Diversity=%.2f, Stagnant=%d",
				e.generation, stats.BestFitness, stats.AverageFitness, stats.WorstFitness,
				stats.DiversityScore, e.generationsWithoutImprovement)
		}

		if e.shouldTerminate() {
			break
		}
	}

	if cfg.TrackStatistics {
		e.statistics = append(e.statistics, snapshotPopulation(e.generation, e.population, 0))
	}

	result := e.buildResult(time.Since(start).Seconds())
	if cfg.Verbose {
		e.logger.Printf("✅ GA Optimization completed after %d generations (%s). Best fitness: %.4f",
			result.GenerationsCompleted, result.TerminationReason(), e.bestEver.fitness)
	}
	return result, nil
}

// reset creates the run's random source and clears all run state
func (e *Engine) reset() {
	e.rng = newRunRNG(e.config.RandomSeed)
	e.generation = 0
	e.population = nil
	e.bestEver = nil
	e.generationsWithoutImprovement = 0
	e.statistics = nil
	e.converged = false
	e.targetReached = false

	for _, s := range []interface{}{e.config.Selection, e.config.Crossover, e.config.Mutation} {
		if r, ok := s.(Resetter); ok {
			r.Reset()
		}
	}
}

func (e *Engine) evaluate(ind *Individual) (float64, error) {
	fitness, err := ind.Evaluate(e.fitness)
	if err != nil {
		return 0, gaerrors.NewEvaluationError("engine", "evaluate", err).
			WithContext("generation", e.generation).
			WithContext("genes", ind.Genes())
	}
	return fitness, nil
}

func (e *Engine) evaluateInitial() error {
	for _, ind := range e.population.Individuals() {
		fitness, err := e.evaluate(ind)
		if err != nil {
			return err
		}
		if e.bestEver == nil || fitness > e.bestEver.fitness {
			e.bestEver = ind.Copy()
		}
	}
	return nil
}

// step advances one generation: select, reproduce, evaluate, elitism,
// replace, best tracking and adaptive rate update.
func (e *Engine) step() error {
	cfg := e.config
	e.generation++

	numOffspring := cfg.PopulationSize - cfg.ElitismCount
	parents, err := cfg.Selection.Select(e.population, numOffspring, e.rng)
	if err != nil {
		return err
	}

	offspring, err := e.reproduce(parents, numOffspring)
	if err != nil {
		return err
	}

	if err := e.evaluateOffspring(offspring); err != nil {
		return err
	}

	next := offspring
	if cfg.ElitismCount > 0 {
		next = e.applyElitism(offspring)
	}

	// Individuals padded in after elitism are scored like offspring
	next, padded := e.fitToSize(next)
	if err := e.evaluateOffspring(padded); err != nil {
		return err
	}
	e.population = NewPopulationFrom(cfg.PopulationSize, cfg.CategorySizes, next)

	// Second comparison against the live population; increments unless the
	// population holds something strictly better than bestEver.
	if current := e.population.GetBest(); current != nil && (e.bestEver == nil || current.fitness > e.bestEver.fitness) {
		e.bestEver = current.Copy()
		e.generationsWithoutImprovement = 0
	} else {
		e.generationsWithoutImprovement++
	}

	if adapter, ok := cfg.Mutation.(RateAdapter); ok && e.bestEver != nil {
		adapter.UpdateRate(e.bestEver.fitness, e.population.DiversityScore())
	}
	return nil
}

// evaluateOffspring scores new individuals and records any new global best
func (e *Engine) evaluateOffspring(individuals []*Individual) error {
	for _, child := range individuals {
		fitness, err := e.evaluate(child)
		if err != nil {
			return err
		}
		if e.bestEver == nil || fitness > e.bestEver.fitness {
			e.bestEver = child.Copy()
			e.generationsWithoutImprovement = 0
		}
	}
	return nil
}

// reproduce pairs consecutive parents (an odd last parent pairs with the
// first), applies crossover with CrossoverRate and then mutates each child.
func (e *Engine) reproduce(parents []*Individual, count int) ([]*Individual, error) {
	cfg := e.config
	offspring := make([]*Individual, 0, len(parents)+1)

	for i := 0; i < len(parents); i += 2 {
		p1 := parents[i]
		p2 := parents[0]
		if i+1 < len(parents) {
			p2 = parents[i+1]
		}

		var c1, c2 *Individual
		if e.rng.Float64() < cfg.CrossoverRate {
			var err error
			c1, c2, err = cfg.Crossover.Crossover(p1, p2, e.rng)
			if err != nil {
				return nil, err
			}
		} else {
			c1, c2 = p1.Copy(), p2.Copy()
		}

		offspring = append(offspring, cfg.Mutation.Mutate(c1, e.rng), cfg.Mutation.Mutate(c2, e.rng))
	}

	if len(offspring) > count {
		offspring = offspring[:count]
	}
	return offspring, nil
}

// applyElitism drops the worst ElitismCount offspring and appends the top
// ElitismCount of the previous population.
func (e *Engine) applyElitism(offspring []*Individual) []*Individual {
	n := e.config.ElitismCount
	elites := e.population.GetTop(n)

	sorted := make([]*Individual, len(offspring))
	copy(sorted, offspring)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].fitness > sorted[j].fitness
	})

	keep := len(sorted) - n
	if keep < 0 {
		keep = 0
	}
	return append(sorted[:keep], elites...)
}

// fitToSize truncates or pads with fresh random individuals to
// PopulationSize. The padded individuals are returned separately.
func (e *Engine) fitToSize(individuals []*Individual) ([]*Individual, []*Individual) {
	cfg := e.config
	if len(individuals) > cfg.PopulationSize {
		return individuals[:cfg.PopulationSize], nil
	}
	var padded []*Individual
	for len(individuals) < cfg.PopulationSize {
		ind := NewRandomIndividual(cfg.CategorySizes, e.rng)
		individuals = append(individuals, ind)
		padded = append(padded, ind)
	}
	return individuals, padded
}

// shouldTerminate checks the stop conditions in priority order and sets at
// most one flag.
func (e *Engine) shouldTerminate() bool {
	cfg := e.config
	if e.generation >= cfg.Generations {
		return true
	}
	if e.generationsWithoutImprovement >= cfg.ConvergenceThreshold {
		e.converged = true
		return true
	}
	if cfg.TargetFitness != nil && e.bestEver != nil && e.bestEver.fitness >= *cfg.TargetFitness {
		e.targetReached = true
		return true
	}
	return false
}

func (e *Engine) buildResult(totalSeconds float64) *Result {
	result := &Result{
		GenerationsCompleted:          e.generation,
		TotalTime:                     totalSeconds,
		Converged:                     e.converged,
		TargetReached:                 e.targetReached,
		GenerationsWithoutImprovement: e.generationsWithoutImprovement,
		FinalPopulationStats:          e.population.Statistics(),
		Statistics:                    e.statistics,
		Config:                        e.config.Summary(),
	}
	if result.Statistics == nil {
		result.Statistics = []GenerationStatistics{}
	}
	if e.bestEver != nil {
		fitness := e.bestEver.fitness
		result.BestCombination = e.bestEver.Genes()
		result.BestFitness = &fitness
	}
	return result
}
