package config

import (
	"strings"

	gaerrors "github.com/ducminhle1904/combo-optimizer/internal/errors"
	"github.com/ducminhle1904/combo-optimizer/pkg/optimization"
)

// Strategy names
const (
	SelectionTournament = "tournament"
	SelectionRoulette   = "roulette"
	SelectionRank       = "rank"
	SelectionElite      = "elite"

	CrossoverSinglePoint = "single_point"
	CrossoverMultiPoint  = "multi_point"
	CrossoverUniform     = "uniform"
	CrossoverOrder       = "order"
	CrossoverSegment     = "segment"

	MutationRandom      = "random"
	MutationAdaptive    = "adaptive"
	MutationCategorical = "categorical"
	MutationSwap        = "swap"
	MutationInversion   = "inversion"
	MutationComposite   = "composite"
)

func normalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// CreateSelection creates a selection strategy based on configuration
func CreateSelection(cfg StrategyConfig) (optimization.SelectionStrategy, error) {
	name := normalizeName(cfg.Type)
	params := mergeParams(GetDefaultParameters(name), cfg.Parameters)

	switch name {
	case SelectionTournament, "":
		size, err := intParam(params, "tournament_size", optimization.DefaultTournamentSize)
		if err != nil {
			return nil, wrapParamError("CreateSelection", err)
		}
		return optimization.NewTournamentSelection(size)

	case SelectionRoulette, "roulette_wheel":
		return optimization.NewRouletteWheelSelection(), nil

	case SelectionRank:
		pressure, err := floatParam(params, "selection_pressure", 1.5)
		if err != nil {
			return nil, wrapParamError("CreateSelection", err)
		}
		return optimization.NewRankSelection(pressure)

	case SelectionElite:
		return optimization.NewEliteSelection(), nil

	default:
		return nil, gaerrors.NewConfigurationError("factory", "CreateSelection",
			"unknown selection strategy: %s (supported: %s)", cfg.Type, strings.Join(GetAvailableSelections(), ", "))
	}
}

// CreateCrossover creates a crossover strategy based on configuration
func CreateCrossover(cfg StrategyConfig) (optimization.CrossoverStrategy, error) {
	name := normalizeName(cfg.Type)
	params := mergeParams(GetDefaultParameters(name), cfg.Parameters)

	switch name {
	case CrossoverSinglePoint, "":
		return optimization.NewSinglePointCrossover(), nil

	case CrossoverMultiPoint:
		points, err := intParam(params, "points", 2)
		if err != nil {
			return nil, wrapParamError("CreateCrossover", err)
		}
		return optimization.NewMultiPointCrossover(points)

	case CrossoverUniform:
		p, err := floatParam(params, "probability", 0.5)
		if err != nil {
			return nil, wrapParamError("CreateCrossover", err)
		}
		return optimization.NewUniformCrossover(p)

	case CrossoverOrder, "two_point":
		return optimization.NewOrderCrossover(), nil

	case CrossoverSegment:
		segments, err := intParam(params, "segments", 3)
		if err != nil {
			return nil, wrapParamError("CreateCrossover", err)
		}
		return optimization.NewSegmentCrossover(segments)

	default:
		return nil, gaerrors.NewConfigurationError("factory", "CreateCrossover",
			"unknown crossover strategy: %s (supported: %s)", cfg.Type, strings.Join(GetAvailableCrossovers(), ", "))
	}
}

// CreateMutation creates a mutation strategy based on configuration.
// mutationRate is the run's mutation_rate and is used where a strategy has
// no explicit rate parameter.
func CreateMutation(cfg StrategyConfig, mutationRate float64) (optimization.MutationStrategy, error) {
	name := normalizeName(cfg.Type)
	if name == MutationComposite {
		return createComposite(cfg, mutationRate)
	}
	return createSimpleMutation(name, cfg.Type, cfg.Parameters, mutationRate)
}

func createSimpleMutation(name, rawName string, given map[string]interface{}, mutationRate float64) (optimization.MutationStrategy, error) {
	params := mergeParams(GetDefaultParameters(name), given)
	rate, err := floatParam(params, "rate", mutationRate)
	if err != nil {
		return nil, wrapParamError("CreateMutation", err)
	}

	switch name {
	case MutationRandom, "":
		return optimization.NewRandomMutation(rate)

	case MutationAdaptive:
		base, err := floatParam(params, "base_rate", mutationRate)
		if err != nil {
			return nil, wrapParamError("CreateMutation", err)
		}
		minRate, err := floatParam(params, "min_rate", 0.01)
		if err != nil {
			return nil, wrapParamError("CreateMutation", err)
		}
		maxRate, err := floatParam(params, "max_rate", 0.5)
		if err != nil {
			return nil, wrapParamError("CreateMutation", err)
		}
		return optimization.NewAdaptiveMutation(base, minRate, maxRate)

	case MutationCategorical:
		force, err := boolParam(params, "force_change", true)
		if err != nil {
			return nil, wrapParamError("CreateMutation", err)
		}
		multi, err := floatParam(params, "multi_gene_prob", 0.1)
		if err != nil {
			return nil, wrapParamError("CreateMutation", err)
		}
		return optimization.NewCategoricalMutation(rate, force, multi)

	case MutationSwap, "redistribution":
		return optimization.NewSwapMutation(rate)

	case MutationInversion, "segment_randomization":
		return optimization.NewInversionMutation(rate)

	default:
		return nil, gaerrors.NewConfigurationError("factory", "CreateMutation",
			"unknown mutation strategy: %s (supported: %s)", rawName, strings.Join(GetAvailableMutations(), ", "))
	}
}

func createComposite(cfg StrategyConfig, mutationRate float64) (optimization.MutationStrategy, error) {
	if len(cfg.Components) == 0 {
		return nil, gaerrors.NewConfigurationError("factory", "CreateMutation",
			"composite mutation requires at least one component")
	}

	methods := make([]optimization.WeightedMutation, 0, len(cfg.Components))
	for _, c := range cfg.Components {
		name := normalizeName(c.Type)
		if name == MutationComposite {
			return nil, gaerrors.NewConfigurationError("factory", "CreateMutation",
				"composite mutation cannot contain another composite")
		}
		method, err := createSimpleMutation(name, c.Type, c.Parameters, mutationRate)
		if err != nil {
			return nil, err
		}
		methods = append(methods, optimization.WeightedMutation{Method: method, Weight: c.Weight})
	}
	return optimization.NewCompositeMutation(methods)
}

func wrapParamError(operation string, err error) error {
	return gaerrors.Wrap(err, gaerrors.ErrorCategoryConfiguration, "factory", operation)
}

// GetAvailableSelections returns a list of available selection strategies
func GetAvailableSelections() []string {
	return []string{SelectionTournament, SelectionRoulette, SelectionRank, SelectionElite}
}

// GetAvailableCrossovers returns a list of available crossover strategies
func GetAvailableCrossovers() []string {
	return []string{CrossoverSinglePoint, CrossoverMultiPoint, CrossoverUniform, CrossoverOrder, CrossoverSegment}
}

// GetAvailableMutations returns a list of available mutation strategies
func GetAvailableMutations() []string {
	return []string{MutationRandom, MutationAdaptive, MutationCategorical, MutationSwap, MutationInversion, MutationComposite}
}

// GetStrategyDescription returns a description of the specified strategy
func GetStrategyDescription(name string) string {
	switch normalizeName(name) {
	case SelectionTournament:
		return "Tournament selection - best of k distinct evaluated candidates per parent"
	case SelectionRoulette, "roulette_wheel":
		return "Roulette wheel selection - fitness-proportionate sampling"
	case SelectionRank:
		return "Rank selection - linear rank probabilities controlled by selection pressure"
	case SelectionElite:
		return "Elite selection - deterministic top candidates"
	case CrossoverSinglePoint:
		return "Single point crossover - swap tails after one random cut"
	case CrossoverMultiPoint:
		return "Multi point crossover - alternate parents at k random cuts"
	case CrossoverUniform:
		return "Uniform crossover - independent parent choice per gene"
	case CrossoverOrder, "two_point":
		return "Order crossover - swap the segment between two random cuts"
	case CrossoverSegment:
		return "Segment crossover - swap contiguous blocks with probability 0.5"
	case MutationRandom:
		return "Random mutation - per-gene replacement with a different option"
	case MutationAdaptive:
		return "Adaptive mutation - rate rises as diversity drops or fitness stagnates"
	case MutationCategorical:
		return "Categorical mutation - multi-gene or per-gene replacement"
	case MutationSwap, "redistribution":
		return "Swap mutation - reassign 2-3 genes"
	case MutationInversion, "segment_randomization":
		return "Inversion mutation - randomize a contiguous segment of 2-4 genes"
	case MutationComposite:
		return "Composite mutation - weighted choice of one sub-method per call"
	default:
		return "Unknown strategy"
	}
}

// GetDefaultParameters returns default parameters for a strategy
func GetDefaultParameters(name string) map[string]interface{} {
	switch normalizeName(name) {
	case SelectionTournament:
		return map[string]interface{}{"tournament_size": optimization.DefaultTournamentSize}
	case SelectionRank:
		return map[string]interface{}{"selection_pressure": 1.5}
	case CrossoverMultiPoint:
		return map[string]interface{}{"points": 2}
	case CrossoverUniform:
		return map[string]interface{}{"probability": 0.5}
	case CrossoverSegment:
		return map[string]interface{}{"segments": 3}
	case MutationAdaptive:
		return map[string]interface{}{"min_rate": 0.01, "max_rate": 0.5}
	case MutationCategorical:
		return map[string]interface{}{"force_change": true, "multi_gene_prob": 0.1}
	default:
		return map[string]interface{}{}
	}
}
