package reporting

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// DefaultCSVReporter implements CSV output functionality
type DefaultCSVReporter struct{}

// NewDefaultCSVReporter creates a new CSV reporter
func NewDefaultCSVReporter() *DefaultCSVReporter {
	return &DefaultCSVReporter{}
}

var statisticsHeader = []string{
	"generation",
	"best_fitness",
	"worst_fitness",
	"average_fitness",
	"diversity_score",
	"execution_time",
	"best_genes",
}

// WriteStatisticsCSV writes one row per recorded generation
func (r *DefaultCSVReporter) WriteStatisticsCSV(report *RunReport, path string) error {
	// Ensure directory exists
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(statisticsHeader); err != nil {
		return err
	}

	if report.Result != nil {
		for _, s := range report.Statistics {
			row := []string{
				strconv.Itoa(s.Generation),
				formatFloat(s.BestFitness),
				formatFloat(s.WorstFitness),
				formatFloat(s.AverageFitness),
				formatFloat(s.DiversityScore),
				formatFloat(s.ExecutionTime),
				joinGenes(s.BestGenes),
			}
			if err := w.Write(row); err != nil {
				return err
			}
		}
	}

	w.Flush()
	return w.Error()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// joinGenes renders genes as "1 0 2"
func joinGenes(genes []int) string {
	parts := make([]string, len(genes))
	for i, g := range genes {
		parts[i] = strconv.Itoa(g)
	}
	return strings.Join(parts, " ")
}

// Package-level convenience function
func WriteStatisticsCSV(report *RunReport, path string) error {
	return NewDefaultCSVReporter().WriteStatisticsCSV(report, path)
}
