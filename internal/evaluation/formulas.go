package evaluation

import (
	"fmt"

	"github.com/ducminhle1904/combo-optimizer/pkg/optimization"
)

// Sum scores a combination by the sum of its option indices
func Sum() optimization.FitnessFunc {
	return func(genes []int) (float64, error) {
		total := 0
		for _, g := range genes {
			total += g
		}
		return float64(total), nil
	}
}

// Weighted scores a combination by adding the weight of each chosen option.
// weights[i][j] is the score of option j in category i.
func Weighted(weights [][]float64) (optimization.FitnessFunc, error) {
	if len(weights) == 0 {
		return nil, fmt.Errorf("weighted evaluator requires at least one category")
	}
	owned := make([][]float64, len(weights))
	for i, row := range weights {
		if len(row) == 0 {
			return nil, fmt.Errorf("weights for category %d are empty", i)
		}
		owned[i] = append([]float64(nil), row...)
	}

	return func(genes []int) (float64, error) {
		if len(genes) != len(owned) {
			return 0, fmt.Errorf("expected %d genes, got %d", len(owned), len(genes))
		}
		total := 0.0
		for i, g := range genes {
			if g < 0 || g >= len(owned[i]) {
				return 0, fmt.Errorf("no weight for option %d of category %d", g, i)
			}
			total += owned[i][g]
		}
		return total, nil
	}, nil
}

// Target scores a combination by the number of genes matching target, so the
// maximum fitness is len(target)
func Target(target []int) (optimization.FitnessFunc, error) {
	if len(target) == 0 {
		return nil, fmt.Errorf("target evaluator requires a target combination")
	}
	owned := append([]int(nil), target...)

	return func(genes []int) (float64, error) {
		if len(genes) != len(owned) {
			return 0, fmt.Errorf("expected %d genes, got %d", len(owned), len(genes))
		}
		matches := 0
		for i, g := range genes {
			if g == owned[i] {
				matches++
			}
		}
		return float64(matches), nil
	}, nil
}
