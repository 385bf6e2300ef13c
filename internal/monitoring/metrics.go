package monitoring

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ducminhle1904/combo-optimizer/pkg/optimization"
)

// Run outcomes used as the "outcome" label of ga_runs_total
const (
	OutcomeConverged       = "converged"
	OutcomeTargetReached   = "target_reached"
	OutcomeGenerationLimit = "generation_limit"
	OutcomeFailed          = "failed"
)

var (
	// Search progress metrics
	generationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ga_generations_total",
			Help: "Total number of completed generations",
		},
		[]string{"run"},
	)

	bestFitness = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "ga_best_fitness",
			Help: "Best fitness in the current population",
		},
		[]string{"run"},
	)

	averageFitness = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "ga_average_fitness",
			Help: "Average fitness of the evaluated population",
		},
		[]string{"run"},
	)

	populationDiversity = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "ga_population_diversity",
			Help: "Fraction of distinct genomes in the population",
		},
		[]string{"run"},
	)

	// Evaluation metrics
	evaluationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ga_evaluations_total",
			Help: "Total number of fitness evaluations",
		},
		[]string{"run"},
	)

	evaluationDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "ga_evaluation_duration_seconds",
			Help:    "Distribution of fitness evaluation latency",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"run"},
	)

	evaluationErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ga_evaluation_errors_total",
			Help: "Total number of failed fitness evaluations",
		},
		[]string{"run"},
	)

	// Run metrics
	runsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ga_runs_total",
			Help: "Total number of finished runs by outcome",
		},
		[]string{"outcome"},
	)

	activeRuns = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "ga_active_runs",
			Help: "Number of runs in progress",
		},
	)
)

func init() {
	// Register metrics
	prometheus.MustRegister(generationsTotal)
	prometheus.MustRegister(bestFitness)
	prometheus.MustRegister(averageFitness)
	prometheus.MustRegister(populationDiversity)
	prometheus.MustRegister(evaluationsTotal)
	prometheus.MustRegister(evaluationDuration)
	prometheus.MustRegister(evaluationErrorsTotal)
	prometheus.MustRegister(runsTotal)
	prometheus.MustRegister(activeRuns)
}

// MetricsHandler handles Prometheus metrics endpoint
type MetricsHandler struct{}

// NewMetricsHandler creates a new metrics handler
func NewMetricsHandler() *MetricsHandler {
	return &MetricsHandler{}
}

// ServeHTTP serves the Prometheus metrics endpoint
func (m *MetricsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

// RecordGeneration records the statistics of one generation
func RecordGeneration(run string, stats optimization.GenerationStatistics) {
	generationsTotal.WithLabelValues(run).Inc()
	bestFitness.WithLabelValues(run).Set(stats.BestFitness)
	averageFitness.WithLabelValues(run).Set(stats.AverageFitness)
	populationDiversity.WithLabelValues(run).Set(stats.DiversityScore)
}

// RunStarted marks a run as in progress
func RunStarted() {
	activeRuns.Inc()
}

// RunFinished marks a run as finished with the given outcome
func RunFinished(outcome string) {
	activeRuns.Dec()
	runsTotal.WithLabelValues(outcome).Inc()
}

// OutcomeOf maps a result (or a failure) to a run outcome label
func OutcomeOf(result *optimization.Result, err error) string {
	if err != nil || result == nil {
		return OutcomeFailed
	}
	return result.TerminationReason()
}

// InstrumentFitness wraps fn so every call is counted and timed
func InstrumentFitness(run string, fn optimization.FitnessFunc) optimization.FitnessFunc {
	return func(genes []int) (float64, error) {
		start := time.Now()
		fitness, err := fn(genes)
		evaluationDuration.WithLabelValues(run).Observe(time.Since(start).Seconds())
		evaluationsTotal.WithLabelValues(run).Inc()
		if err != nil {
			evaluationErrorsTotal.WithLabelValues(run).Inc()
		}
		return fitness, err
	}
}

// RunObserver publishes generation statistics of one run
type RunObserver struct {
	run string
}

// NewRunObserver creates an observer for the named run
func NewRunObserver(run string) *RunObserver {
	return &RunObserver{run: run}
}

// OnGeneration implements optimization.GenerationObserver
func (o *RunObserver) OnGeneration(stats optimization.GenerationStatistics) {
	RecordGeneration(o.run, stats)
}
