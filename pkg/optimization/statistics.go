package optimization

// GenerationStatistics is an immutable snapshot taken after a generation
type GenerationStatistics struct {
	Generation     int     `json:"generation"`
	BestFitness    float64 `json:"best_fitness"`
	WorstFitness   float64 `json:"worst_fitness"`
	AverageFitness float64 `json:"average_fitness"`
	DiversityScore float64 `json:"diversity_score"`
	BestGenes      []int   `json:"best_genes"`
	ExecutionTime  float64 `json:"execution_time"` // seconds
}

// Result is the bundle returned by Engine.Run
type Result struct {
	BestCombination               []int                  `json:"best_combination"`
	BestFitness                   *float64               `json:"best_fitness"`
	GenerationsCompleted          int                    `json:"generations_completed"`
	TotalTime                     float64                `json:"total_time"` // seconds
	Converged                     bool                   `json:"converged"`
	TargetReached                 bool                   `json:"target_reached"`
	GenerationsWithoutImprovement int                    `json:"generations_without_improvement"`
	FinalPopulationStats          PopulationStats        `json:"final_population_stats"`
	Statistics                    []GenerationStatistics `json:"statistics"`
	Config                        ConfigSummary          `json:"config"`
}

// TerminationReason describes why a run stopped
func (r *Result) TerminationReason() string {
	switch {
	case r.Converged:
		return "converged"
	case r.TargetReached:
		return "target_reached"
	default:
		return "generation_limit"
	}
}

// snapshotPopulation builds generation statistics from the live population
func snapshotPopulation(generation int, pop *Population, seconds float64) GenerationStatistics {
	stats := GenerationStatistics{
		Generation:     generation,
		DiversityScore: pop.DiversityScore(),
		ExecutionTime:  seconds,
	}
	if best := pop.GetBest(); best != nil {
		stats.BestFitness = best.fitness
		stats.BestGenes = best.Genes()
	}
	if worst := pop.GetWorst(); worst != nil {
		stats.WorstFitness = worst.fitness
	}
	if avg, ok := pop.AverageFitness(); ok {
		stats.AverageFitness = avg
	}
	return stats
}
