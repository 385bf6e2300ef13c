package config

import (
	"github.com/ducminhle1904/combo-optimizer/pkg/optimization"
)

// NestedConfig represents the nested JSON configuration format of one run
type NestedConfig struct {
	Name       string           `json:"name"`
	Optimizer  OptimizerConfig  `json:"optimizer"`
	Selection  StrategyConfig   `json:"selection"`
	Crossover  StrategyConfig   `json:"crossover"`
	Mutation   StrategyConfig   `json:"mutation"`
	Categories CategoriesConfig `json:"categories"`
	Evaluator  EvaluatorConfig  `json:"evaluator"`
	Output     OutputConfig     `json:"output"`
	Metrics    MetricsConfig    `json:"metrics"`
	Logging    LoggingConfig    `json:"logging"`
}

// OptimizerConfig holds the numeric engine parameters
type OptimizerConfig struct {
	PopulationSize       int      `json:"population_size"`
	Generations          int      `json:"generations"`
	CrossoverRate        float64  `json:"crossover_rate"`
	MutationRate         float64  `json:"mutation_rate"`
	ElitismCount         int      `json:"elitism_count"`
	ConvergenceThreshold int      `json:"convergence_threshold"`
	TargetFitness        *float64 `json:"target_fitness,omitempty"`
	RandomSeed           *int64   `json:"random_seed,omitempty"`
	Verbose              bool     `json:"verbose"`
	TrackStatistics      bool     `json:"track_statistics"`
	StatisticsInterval   int      `json:"statistics_interval"`
}

// StrategyConfig selects an operator by name. Components is only used by the
// composite mutation.
type StrategyConfig struct {
	Type       string                 `json:"type"`
	Parameters map[string]interface{} `json:"parameters,omitempty"`
	Components []ComponentConfig      `json:"components,omitempty"`
}

// ComponentConfig is one weighted member of a composite mutation
type ComponentConfig struct {
	Type       string                 `json:"type"`
	Weight     float64                `json:"weight"`
	Parameters map[string]interface{} `json:"parameters,omitempty"`
}

// CategoriesConfig describes the search space: either explicit sizes or a
// catalog file (csv or xlsx)
type CategoriesConfig struct {
	Sizes  []int  `json:"sizes,omitempty"`
	File   string `json:"file,omitempty"`
	Format string `json:"format,omitempty"`
	Sheet  string `json:"sheet,omitempty"`
}

// EvaluatorConfig selects the fitness function
type EvaluatorConfig struct {
	Type           string      `json:"type"`
	Weights        [][]float64 `json:"weights,omitempty"`
	Target         []int       `json:"target,omitempty"`
	URL            string      `json:"url,omitempty"`
	TimeoutSeconds int         `json:"timeout_seconds,omitempty"`
	MaxRetries     int         `json:"max_retries,omitempty"`
	RateLimit      int         `json:"rate_limit,omitempty"` // requests per second, 0 = unlimited
}

// OutputConfig controls which reports are written after a run
type OutputConfig struct {
	Directory string `json:"directory"`
	JSON      bool   `json:"json"`
	CSV       bool   `json:"csv"`
	Excel     bool   `json:"excel"`
	Markdown  bool   `json:"markdown"`
	Console   bool   `json:"console"`
}

// MetricsConfig controls the Prometheus endpoint
type MetricsConfig struct {
	Enabled bool   `json:"enabled"`
	Address string `json:"address"`
}

// LoggingConfig controls the per-run file log
type LoggingConfig struct {
	File      bool   `json:"file"`
	Directory string `json:"directory"`
}

// NewDefaultConfig returns a configuration populated with engine defaults
func NewDefaultConfig() *NestedConfig {
	return &NestedConfig{
		Name: DefaultRunName,
		Optimizer: OptimizerConfig{
			PopulationSize:       optimization.DefaultPopulationSize,
			Generations:          optimization.DefaultGenerations,
			CrossoverRate:        optimization.DefaultCrossoverRate,
			MutationRate:         optimization.DefaultMutationRate,
			ElitismCount:         optimization.DefaultElitismCount,
			ConvergenceThreshold: optimization.DefaultConvergenceThreshold,
			TrackStatistics:      true,
			StatisticsInterval:   optimization.DefaultStatisticsInterval,
		},
		Selection: StrategyConfig{Type: SelectionTournament},
		Crossover: StrategyConfig{Type: CrossoverSinglePoint},
		Mutation:  StrategyConfig{Type: MutationRandom},
		Evaluator: EvaluatorConfig{Type: EvaluatorSum, TimeoutSeconds: DefaultEvaluatorTimeout},
		Output: OutputConfig{
			Directory: ResultsDir,
			JSON:      true,
			CSV:       true,
			Excel:     true,
			Markdown:  true,
			Console:   true,
		},
		Metrics: MetricsConfig{Address: DefaultMetricsAddr},
		Logging: LoggingConfig{Directory: DefaultLogDir},
	}
}
