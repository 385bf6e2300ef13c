package reporting

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/ducminhle1904/combo-optimizer/pkg/catalog"
	"github.com/ducminhle1904/combo-optimizer/pkg/optimization"
)

func sampleResult() *optimization.Result {
	best := 7.0
	return &optimization.Result{
		BestCombination:      []int{2, 0, 1},
		BestFitness:          &best,
		GenerationsCompleted: 3,
		TotalTime:            0.25,
		Converged:            true,
		Statistics: []optimization.GenerationStatistics{
			{Generation: 1, BestFitness: 5, WorstFitness: 1, AverageFitness: 3, DiversityScore: 1, BestGenes: []int{1, 0, 1}, ExecutionTime: 0.1},
			{Generation: 2, BestFitness: 7, WorstFitness: 2, AverageFitness: 4.5, DiversityScore: 0.8, BestGenes: []int{2, 0, 1}, ExecutionTime: 0.1},
			{Generation: 3, BestFitness: 7, WorstFitness: 3, AverageFitness: 5, DiversityScore: 0.6, BestGenes: []int{2, 0, 1}, ExecutionTime: 0},
		},
	}
}

func sampleCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	cat, err := catalog.New([]catalog.Category{
		{Name: "color", Options: []string{"red", "green", "blue"}},
		{Name: "size", Options: []string{"small", "large"}},
		{Name: "shape", Options: []string{"circle", "square"}},
	})
	require.NoError(t, err)
	return cat
}

func TestNewRunReport_DecodesBest(t *testing.T) {
	report, err := NewRunReport("id-1", "demo", sampleResult(), sampleCatalog(t))
	require.NoError(t, err)
	require.Len(t, report.BestSelection, 3)
	assert.Equal(t, "blue", report.BestSelection[0].Option)
	assert.Equal(t, "small", report.BestSelection[1].Option)
	assert.Equal(t, "square", report.BestSelection[2].Option)

	small, err := catalog.FromSizes([]int{2})
	require.NoError(t, err)
	_, err = NewRunReport("id-1", "demo", sampleResult(), small)
	assert.Error(t, err)
}

func TestWriteResultJSON_InlinesResult(t *testing.T) {
	report, err := NewRunReport("id-1", "demo", sampleResult(), nil)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "out", ResultFile)
	require.NoError(t, WriteResultJSON(report, path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &decoded))

	assert.Equal(t, "demo", decoded["run_name"])
	assert.Equal(t, "id-1", decoded["run_id"])
	assert.Equal(t, 7.0, decoded["best_fitness"])
	assert.Equal(t, true, decoded["converged"])
	assert.Contains(t, decoded, "best_combination")
	assert.Contains(t, decoded, "statistics")
	assert.NotContains(t, decoded, "best_selection")
}

func TestWriteStatisticsCSV(t *testing.T) {
	report, err := NewRunReport("", "demo", sampleResult(), nil)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), StatisticsFile)
	require.NoError(t, WriteStatisticsCSV(report, path))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)

	require.Len(t, rows, 4)
	assert.Equal(t, statisticsHeader, rows[0])
	assert.Equal(t, []string{"2", "7", "2", "4.5", "0.8", "0.1", "2 0 1"}, rows[2])
}

func TestWriteResultXLSX(t *testing.T) {
	report, err := NewRunReport("id-1", "demo", sampleResult(), sampleCatalog(t))
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), WorkbookFile)
	require.NoError(t, WriteResultXLSX(report, path))

	fx, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer fx.Close()

	assert.Equal(t, []string{summarySheet, statisticsSheet, bestSheet}, fx.GetSheetList())

	stats, err := fx.GetRows(statisticsSheet)
	require.NoError(t, err)
	assert.Len(t, stats, 4)
	assert.Equal(t, "generation", stats[0][0])

	best, err := fx.GetRows(bestSheet)
	require.NoError(t, err)
	require.Len(t, best, 4)
	assert.Equal(t, []string{"color", "blue", "2"}, best[1])

	summary, err := fx.GetRows(summarySheet)
	require.NoError(t, err)
	assert.Equal(t, []string{"Run", "demo"}, summary[1])
}

func TestRenderConsole(t *testing.T) {
	report, err := NewRunReport("", "demo", sampleResult(), sampleCatalog(t))
	require.NoError(t, err)

	var buf bytes.Buffer
	RenderConsole(&buf, report)
	out := buf.String()
	assert.Contains(t, out, "OPTIMIZATION RESULT")
	assert.Contains(t, out, "color=blue")
	assert.Contains(t, out, "converged")
	assert.Contains(t, out, "GENERATIONS")
}

func TestWriteMarkdown(t *testing.T) {
	report, err := NewRunReport("id-1", "demo", sampleResult(), sampleCatalog(t))
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), ReportFile)
	require.NoError(t, WriteMarkdown(report, path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	md := string(data)
	assert.Contains(t, md, "# Optimization report: demo")
	assert.Contains(t, md, "## Best combination")
	assert.Contains(t, md, "| color | blue | 2 |")
	assert.Contains(t, md, "## Generations")
}

func TestSanitizeRunName(t *testing.T) {
	assert.Equal(t, "unnamed", SanitizeRunName("  "))
	assert.Equal(t, "my_run", SanitizeRunName("my run"))
	assert.Equal(t, "a_b_c", SanitizeRunName("a/b\\c"))
	assert.Equal(t, filepath.Join("results", "demo"), DefaultOutputDir("demo"))
}

func TestReportingManager_WritesEnabledFiles(t *testing.T) {
	dir := t.TempDir()
	var console bytes.Buffer
	manager := NewReportingManager(ReportingConfig{
		EnableConsole:   true,
		EnableFiles:     true,
		OutputDirectory: dir,
		JSONEnabled:     true,
		CSVEnabled:      true,
	}).WithConsole(&console)

	report, err := NewRunReport("", "demo run", sampleResult(), nil)
	require.NoError(t, err)

	written, err := manager.ReportResults(report)
	require.NoError(t, err)
	runDir := filepath.Join(dir, "demo_run")
	assert.Equal(t, []string{
		filepath.Join(runDir, ResultFile),
		filepath.Join(runDir, StatisticsFile),
	}, written)
	assert.NoFileExists(t, filepath.Join(runDir, WorkbookFile))
	assert.NotEmpty(t, console.String())

	path, err := manager.ReportConfig(optimization.ConfigSummary{PopulationSize: 10}, map[string]string{"name": "demo run"}, "demo run")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(runDir, BestConfigFile), path)
	assert.FileExists(t, path)
	assert.Contains(t, console.String(), "GA CONFIGURATION")
}

func TestReportingManager_FilesDisabled(t *testing.T) {
	manager := NewReportingManager(ReportingConfig{OutputDirectory: t.TempDir()})
	report, err := NewRunReport("", "demo", sampleResult(), nil)
	require.NoError(t, err)

	written, err := manager.ReportResults(report)
	require.NoError(t, err)
	assert.Empty(t, written)
}
