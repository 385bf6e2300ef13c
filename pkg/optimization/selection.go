package optimization

import (
	"math/rand"
	"sort"

	gaerrors "github.com/ducminhle1904/combo-optimizer/internal/errors"
)

// TournamentSelection runs one tournament of TournamentSize distinct
// evaluated individuals per parent and keeps the fittest.
type TournamentSelection struct {
	TournamentSize int
}

// NewTournamentSelection creates a tournament selector
func NewTournamentSelection(tournamentSize int) (*TournamentSelection, error) {
	if tournamentSize < 2 {
		return nil, gaerrors.NewValidationError("selection", "NewTournamentSelection",
			"tournament size must be at least 2, got: %d", tournamentSize)
	}
	return &TournamentSelection{TournamentSize: tournamentSize}, nil
}

func (s *TournamentSelection) Name() string { return "tournament" }

func (s *TournamentSelection) Params() map[string]interface{} {
	return map[string]interface{}{"tournament_size": s.TournamentSize}
}

// Select implements SelectionStrategy
func (s *TournamentSelection) Select(pop *Population, numParents int, rng *rand.Rand) ([]*Individual, error) {
	evaluated := pop.Evaluated()
	if len(evaluated) < s.TournamentSize {
		return nil, gaerrors.NewInsufficientPopulationError("selection", "Tournament", s.TournamentSize, len(evaluated))
	}

	parents := make([]*Individual, 0, numParents)
	for i := 0; i < numParents; i++ {
		contenders := sampleIndices(rng, len(evaluated), s.TournamentSize)
		winner := evaluated[contenders[0]]
		for _, idx := range contenders[1:] {
			if evaluated[idx].fitness > winner.fitness {
				winner = evaluated[idx]
			}
		}
		parents = append(parents, winner.Copy())
	}
	return parents, nil
}

// RouletteWheelSelection samples parents proportionally to fitness. Negative
// fitness values are shifted so the minimum becomes 1.
type RouletteWheelSelection struct{}

// NewRouletteWheelSelection creates a fitness-proportionate selector
func NewRouletteWheelSelection() *RouletteWheelSelection {
	return &RouletteWheelSelection{}
}

func (s *RouletteWheelSelection) Name() string { return "roulette" }

func (s *RouletteWheelSelection) Params() map[string]interface{} {
	return map[string]interface{}{}
}

// Select implements SelectionStrategy
func (s *RouletteWheelSelection) Select(pop *Population, numParents int, rng *rand.Rand) ([]*Individual, error) {
	evaluated := pop.Evaluated()
	if len(evaluated) == 0 {
		return nil, gaerrors.NewInsufficientPopulationError("selection", "RouletteWheel", 1, 0)
	}

	weights := make([]float64, len(evaluated))
	minFitness := evaluated[0].fitness
	for i, ind := range evaluated {
		weights[i] = ind.fitness
		if ind.fitness < minFitness {
			minFitness = ind.fitness
		}
	}
	if minFitness < 0 {
		for i := range weights {
			weights[i] = weights[i] - minFitness + 1
		}
	}

	total := 0.0
	for _, w := range weights {
		total += w
	}

	var probs []float64
	if total != 0 {
		probs = make([]float64, len(weights))
		for j, w := range weights {
			probs[j] = w / total
		}
	}

	parents := make([]*Individual, 0, numParents)
	for i := 0; i < numParents; i++ {
		if probs == nil {
			parents = append(parents, evaluated[rng.Intn(len(evaluated))].Copy())
			continue
		}
		parents = append(parents, evaluated[cumulativePick(rng.Float64(), probs)].Copy())
	}
	return parents, nil
}

// RankSelection assigns linear rank-based probabilities controlled by
// SelectionPressure in [1, 2].
type RankSelection struct {
	SelectionPressure float64
}

// NewRankSelection creates a rank-based selector
func NewRankSelection(pressure float64) (*RankSelection, error) {
	if pressure < 1 || pressure > 2 {
		return nil, gaerrors.NewValidationError("selection", "NewRankSelection",
			"selection pressure must be between 1.0 and 2.0, got: %.4f", pressure)
	}
	return &RankSelection{SelectionPressure: pressure}, nil
}

func (s *RankSelection) Name() string { return "rank" }

func (s *RankSelection) Params() map[string]interface{} {
	return map[string]interface{}{"selection_pressure": s.SelectionPressure}
}

// Probabilities returns the draw probability of each rank, rank 0 being the
// worst. Weights follow (2-p + 2*p*r/(n-1)) / n, normalized to sum to 1.
func (s *RankSelection) Probabilities(n int) []float64 {
	probs := make([]float64, n)
	if n == 1 {
		probs[0] = 1
		return probs
	}
	p := s.SelectionPressure
	total := 0.0
	for r := 0; r < n; r++ {
		probs[r] = (2 - p + 2*p*float64(r)/float64(n-1)) / float64(n)
		total += probs[r]
	}
	for r := range probs {
		probs[r] /= total
	}
	return probs
}

// Select implements SelectionStrategy
func (s *RankSelection) Select(pop *Population, numParents int, rng *rand.Rand) ([]*Individual, error) {
	evaluated := pop.Evaluated()
	if len(evaluated) == 0 {
		return nil, gaerrors.NewInsufficientPopulationError("selection", "Rank", 1, 0)
	}

	sort.SliceStable(evaluated, func(i, j int) bool {
		return evaluated[i].fitness < evaluated[j].fitness
	})
	probs := s.Probabilities(len(evaluated))

	parents := make([]*Individual, 0, numParents)
	for i := 0; i < numParents; i++ {
		parents = append(parents, evaluated[cumulativePick(rng.Float64(), probs)].Copy())
	}
	return parents, nil
}

// EliteSelection deterministically returns the top individuals
type EliteSelection struct{}

// NewEliteSelection creates an elite selector
func NewEliteSelection() *EliteSelection {
	return &EliteSelection{}
}

func (s *EliteSelection) Name() string { return "elite" }

func (s *EliteSelection) Params() map[string]interface{} {
	return map[string]interface{}{}
}

// Select implements SelectionStrategy
func (s *EliteSelection) Select(pop *Population, numParents int, _ *rand.Rand) ([]*Individual, error) {
	return pop.GetTop(numParents), nil
}

// cumulativePick returns the first index with non-zero weight whose running
// probability reaches draw, falling back to the last non-zero index when
// rounding leaves a gap.
func cumulativePick(draw float64, probs []float64) int {
	cumulative := 0.0
	last := len(probs) - 1
	for i, p := range probs {
		if p <= 0 {
			continue
		}
		cumulative += p
		last = i
		if draw <= cumulative {
			return i
		}
	}
	return last
}
