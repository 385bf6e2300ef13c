package config

import (
	"fmt"

	"github.com/ducminhle1904/combo-optimizer/pkg/optimization"
)

// ToGAConfig builds and validates the engine configuration. categorySizes
// overrides cfg.Categories.Sizes when non-nil (e.g. sizes from a catalog).
func ToGAConfig(cfg *NestedConfig, categorySizes []int) (optimization.GAConfig, error) {
	sizes := categorySizes
	if sizes == nil {
		sizes = cfg.Categories.Sizes
	}

	o := cfg.Optimizer
	ga := optimization.GAConfig{
		CategorySizes:        sizes,
		PopulationSize:       o.PopulationSize,
		Generations:          o.Generations,
		CrossoverRate:        o.CrossoverRate,
		MutationRate:         o.MutationRate,
		ElitismCount:         o.ElitismCount,
		ConvergenceThreshold: o.ConvergenceThreshold,
		TargetFitness:        o.TargetFitness,
		RandomSeed:           o.RandomSeed,
		Verbose:              o.Verbose,
		TrackStatistics:      o.TrackStatistics,
		StatisticsInterval:   o.StatisticsInterval,
	}

	var err error
	if ga.Selection, err = CreateSelection(cfg.Selection); err != nil {
		return optimization.GAConfig{}, fmt.Errorf("selection: %w", err)
	}
	if ga.Crossover, err = CreateCrossover(cfg.Crossover); err != nil {
		return optimization.GAConfig{}, fmt.Errorf("crossover: %w", err)
	}
	if ga.Mutation, err = CreateMutation(cfg.Mutation, o.MutationRate); err != nil {
		return optimization.GAConfig{}, fmt.Errorf("mutation: %w", err)
	}

	if err := ga.Validate(); err != nil {
		return optimization.GAConfig{}, err
	}
	return ga, nil
}
