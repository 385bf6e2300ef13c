package optimization

import (
	gaerrors "github.com/ducminhle1904/combo-optimizer/internal/errors"
)

// Default GA parameters
const (
	DefaultPopulationSize       = 50
	DefaultGenerations          = 100
	DefaultCrossoverRate        = 0.8
	DefaultMutationRate         = 0.1
	DefaultElitismCount         = 2
	DefaultTournamentSize       = 3
	DefaultConvergenceThreshold = 20
	DefaultStatisticsInterval   = 1
	ProgressReportInterval      = 5
)

// GAConfig holds every parameter of one optimization run. Call Validate (or
// NewEngine, which does) before use; it is not modified afterwards except
// through UpdateMutationRate.
type GAConfig struct {
	CategorySizes  []int
	PopulationSize int
	Generations    int
	CrossoverRate  float64
	MutationRate   float64
	ElitismCount   int

	Selection SelectionStrategy
	Crossover CrossoverStrategy
	Mutation  MutationStrategy

	ConvergenceThreshold int
	TargetFitness        *float64
	RandomSeed           *int64

	Verbose            bool
	TrackStatistics    bool
	StatisticsInterval int
}

// DefaultGAConfig returns the default configuration for the given categories
func DefaultGAConfig(categorySizes []int) GAConfig {
	return GAConfig{
		CategorySizes:        categorySizes,
		PopulationSize:       DefaultPopulationSize,
		Generations:          DefaultGenerations,
		CrossoverRate:        DefaultCrossoverRate,
		MutationRate:         DefaultMutationRate,
		ElitismCount:         DefaultElitismCount,
		ConvergenceThreshold: DefaultConvergenceThreshold,
		TrackStatistics:      true,
		StatisticsInterval:   DefaultStatisticsInterval,
	}
}

// Validate checks every numeric bound and fills in default strategies
// (tournament, single point, random at MutationRate) where none are set.
func (c *GAConfig) Validate() error {
	if err := c.validateNumbers(); err != nil {
		return err
	}

	if c.Selection == nil {
		sel, err := NewTournamentSelection(DefaultTournamentSize)
		if err != nil {
			return err
		}
		c.Selection = sel
	}
	if c.Crossover == nil {
		c.Crossover = NewSinglePointCrossover()
	}
	if c.Mutation == nil {
		mut, err := NewRandomMutation(c.MutationRate)
		if err != nil {
			return err
		}
		c.Mutation = mut
	}
	return nil
}

func (c *GAConfig) validateNumbers() error {
	if len(c.CategorySizes) == 0 {
		return gaerrors.NewValidationError("config", "Validate", "category sizes must not be empty")
	}
	for i, size := range c.CategorySizes {
		if size < 1 {
			return gaerrors.NewValidationError("config", "Validate",
				"category %d must have at least 1 option, got: %d", i, size)
		}
	}

	if c.PopulationSize < 2 {
		return gaerrors.NewValidationError("config", "Validate",
			"population size must be at least 2, got: %d", c.PopulationSize)
	}
	if c.Generations < 1 {
		return gaerrors.NewValidationError("config", "Validate",
			"generations must be at least 1, got: %d", c.Generations)
	}
	if c.CrossoverRate < 0 || c.CrossoverRate > 1 {
		return gaerrors.NewValidationError("config", "Validate",
			"crossover rate must be between 0 and 1, got: %.4f", c.CrossoverRate)
	}
	if c.MutationRate < 0 || c.MutationRate > 1 {
		return gaerrors.NewValidationError("config", "Validate",
			"mutation rate must be between 0 and 1, got: %.4f", c.MutationRate)
	}
	if c.ElitismCount < 0 || c.ElitismCount >= c.PopulationSize {
		return gaerrors.NewValidationError("config", "Validate",
			"elitism count must be in [0, %d), got: %d", c.PopulationSize, c.ElitismCount)
	}
	if c.ConvergenceThreshold < 1 {
		return gaerrors.NewValidationError("config", "Validate",
			"convergence threshold must be at least 1, got: %d", c.ConvergenceThreshold)
	}
	if c.TargetFitness != nil && *c.TargetFitness < 0 {
		return gaerrors.NewValidationError("config", "Validate",
			"target fitness must be non-negative, got: %.4f", *c.TargetFitness)
	}
	if c.StatisticsInterval < 1 {
		return gaerrors.NewValidationError("config", "Validate",
			"statistics interval must be at least 1, got: %d", c.StatisticsInterval)
	}
	return nil
}

// UpdateMutationRate changes MutationRate and forwards it to the active
// mutation strategy when that strategy is a RandomMutation.
func (c *GAConfig) UpdateMutationRate(rate float64) error {
	if rate < 0 || rate > 1 {
		return gaerrors.NewValidationError("config", "UpdateMutationRate",
			"mutation rate must be between 0 and 1, got: %.4f", rate)
	}
	c.MutationRate = rate
	if rm, ok := c.Mutation.(*RandomMutation); ok {
		return rm.SetRate(rate)
	}
	return nil
}

// StrategySummary echoes a strategy by name and parameters
type StrategySummary struct {
	Type   string                 `json:"type"`
	Params map[string]interface{} `json:"params,omitempty"`
}

// ConfigSummary is the serializable echo of a GAConfig
type ConfigSummary struct {
	CategorySizes        []int           `json:"category_sizes"`
	PopulationSize       int             `json:"population_size"`
	Generations          int             `json:"generations"`
	CrossoverRate        float64         `json:"crossover_rate"`
	MutationRate         float64         `json:"mutation_rate"`
	ElitismCount         int             `json:"elitism_count"`
	Selection            StrategySummary `json:"selection"`
	Crossover            StrategySummary `json:"crossover"`
	Mutation             StrategySummary `json:"mutation"`
	ConvergenceThreshold int             `json:"convergence_threshold"`
	TargetFitness        *float64        `json:"target_fitness"`
	RandomSeed           *int64          `json:"random_seed"`
	Verbose              bool            `json:"verbose"`
	TrackStatistics      bool            `json:"track_statistics"`
	StatisticsInterval   int             `json:"statistics_interval"`
}

func summarize(name string, params map[string]interface{}) StrategySummary {
	return StrategySummary{Type: name, Params: params}
}

// Summary returns the echo of this configuration
func (c *GAConfig) Summary() ConfigSummary {
	s := ConfigSummary{
		CategorySizes:        append([]int(nil), c.CategorySizes...),
		PopulationSize:       c.PopulationSize,
		Generations:          c.Generations,
		CrossoverRate:        c.CrossoverRate,
		MutationRate:         c.MutationRate,
		ElitismCount:         c.ElitismCount,
		ConvergenceThreshold: c.ConvergenceThreshold,
		TargetFitness:        c.TargetFitness,
		RandomSeed:           c.RandomSeed,
		Verbose:              c.Verbose,
		TrackStatistics:      c.TrackStatistics,
		StatisticsInterval:   c.StatisticsInterval,
	}
	if c.Selection != nil {
		s.Selection = summarize(c.Selection.Name(), c.Selection.Params())
	}
	if c.Crossover != nil {
		s.Crossover = summarize(c.Crossover.Name(), c.Crossover.Params())
	}
	if c.Mutation != nil {
		s.Mutation = summarize(c.Mutation.Name(), c.Mutation.Params())
	}
	return s
}
