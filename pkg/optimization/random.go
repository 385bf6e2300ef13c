package optimization

import (
	"math/rand"
	"sort"
	"time"
)

// newRunRNG builds the single random source for one engine run
func newRunRNG(seed *int64) *rand.Rand {
	if seed != nil {
		return rand.New(rand.NewSource(*seed))
	}
	return rand.New(rand.NewSource(time.Now().UnixNano()))
}

// randomGeneValue draws an option for a category of the given size. With
// exclude set the current value is never returned unless it is the only option.
func randomGeneValue(rng *rand.Rand, size, current int, exclude bool) int {
	if !exclude {
		return rng.Intn(size)
	}
	if size <= 1 {
		return current
	}
	v := rng.Intn(size - 1)
	if v >= current {
		v++
	}
	return v
}

// sampleIndices returns k distinct indices from [0, n) in draw order using a
// partial Fisher-Yates shuffle. k is clamped to n.
func sampleIndices(rng *rand.Rand, n, k int) []int {
	if k > n {
		k = n
	}
	if k <= 0 {
		return nil
	}
	pool := make([]int, n)
	for i := range pool {
		pool[i] = i
	}
	for i := 0; i < k; i++ {
		j := i + rng.Intn(n-i)
		pool[i], pool[j] = pool[j], pool[i]
	}
	return pool[:k]
}

// sampleCutPoints returns k distinct sorted values from [lo, hi]
func sampleCutPoints(rng *rand.Rand, lo, hi, k int) []int {
	idx := sampleIndices(rng, hi-lo+1, k)
	points := make([]int, len(idx))
	for i, v := range idx {
		points[i] = lo + v
	}
	sort.Ints(points)
	return points
}

// multiGeneCount draws 2 or 3, clamped to the gene count
func multiGeneCount(rng *rand.Rand, genes int) int {
	count := 2 + rng.Intn(2)
	if count > genes {
		count = genes
	}
	return count
}
