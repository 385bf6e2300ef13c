package logger

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ducminhle1904/combo-optimizer/pkg/optimization"
)

func TestLogger_WritesRunLog(t *testing.T) {
	dir := t.TempDir()
	l, err := NewLogger(dir, "menu")
	require.NoError(t, err)
	assert.FileExists(t, l.GetLogPath())

	cfg := optimization.DefaultGAConfig([]int{3, 3})
	require.NoError(t, cfg.Validate())
	l.LogConfig(cfg.Summary())

	l.Info("loaded %d categories", 2)
	l.Warning("slow evaluator")
	l.OnGeneration(optimization.GenerationStatistics{Generation: 4, BestFitness: 3.5, BestGenes: []int{1, 2}})
	l.Writer().Printf("engine line %d", 7)

	best := 4.0
	l.LogResult(&optimization.Result{BestFitness: &best, BestCombination: []int{2, 2}, GenerationsCompleted: 9, Converged: true})
	require.NoError(t, l.Close())
	require.NoError(t, l.Close(), "second close is a no-op")

	data, err := os.ReadFile(l.GetLogPath())
	require.NoError(t, err)
	content := string(data)

	assert.Contains(t, content, "OPTIMIZATION RUN STARTED")
	assert.Contains(t, content, "Run: menu")
	assert.Contains(t, content, "[INFO] loaded 2 categories")
	assert.Contains(t, content, "[WARN] slow evaluator")
	assert.Contains(t, content, "[GEN] gen=4 best=3.500000")
	assert.Contains(t, content, "genes=[1 2]")
	assert.Contains(t, content, "[INFO] engine line 7")
	assert.Contains(t, content, "Selection: tournament")
	assert.Contains(t, content, "Stopped: converged")
	assert.Contains(t, content, "OPTIMIZATION RUN ENDED")
}

func TestLogger_ImplementsObserver(t *testing.T) {
	var _ optimization.GenerationObserver = (*Logger)(nil)
}
