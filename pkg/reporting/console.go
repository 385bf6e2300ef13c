package reporting

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/ducminhle1904/combo-optimizer/pkg/optimization"
)

// maxConsoleGenerations caps the statistics rows printed to the console
const maxConsoleGenerations = 10

// DefaultConsoleReporter implements console output functionality
type DefaultConsoleReporter struct{}

// NewDefaultConsoleReporter creates a new console reporter
func NewDefaultConsoleReporter() *DefaultConsoleReporter {
	return &DefaultConsoleReporter{}
}

// RenderConsole prints the result and the tail of the statistics
func (r *DefaultConsoleReporter) RenderConsole(w io.Writer, report *RunReport) {
	t := resultTable(report)
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleRounded)
	t.Render()
	fmt.Fprintln(w)

	if report.Result == nil || len(report.Statistics) == 0 {
		return
	}
	s := statisticsTable(report.Statistics, maxConsoleGenerations)
	s.SetOutputMirror(w)
	s.SetStyle(table.StyleRounded)
	s.Render()
	fmt.Fprintln(w)
}

// PrintConfig prints the engine configuration echo
func (r *DefaultConsoleReporter) PrintConfig(w io.Writer, summary optimization.ConfigSummary) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetTitle("GA CONFIGURATION")
	t.SetStyle(table.StyleRounded)

	t.AppendRows([]table.Row{
		{"🧬 Category Sizes", joinGenes(summary.CategorySizes)},
		{"👥 Population", summary.PopulationSize},
		{"🔄 Generations", summary.Generations},
	})
	t.AppendSeparator()
	t.AppendRows([]table.Row{
		{"🎯 Selection", summary.Selection.Type},
		{"🔀 Crossover", fmt.Sprintf("%s (rate %.2f)", summary.Crossover.Type, summary.CrossoverRate)},
		{"🎲 Mutation", fmt.Sprintf("%s (rate %.3f)", summary.Mutation.Type, summary.MutationRate)},
		{"🏆 Elitism", summary.ElitismCount},
	})
	t.AppendSeparator()
	t.AppendRows([]table.Row{
		{"📉 Convergence", fmt.Sprintf("%d generations", summary.ConvergenceThreshold)},
		{"🎯 Target Fitness", formatOptional(summary.TargetFitness)},
	})

	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, WidthMin: 18, WidthMax: 18, Align: text.AlignLeft},
		{Number: 2, WidthMin: 25, WidthMax: 40, Align: text.AlignLeft},
	})

	t.Render()
	fmt.Fprintln(w)
}

// WriteMarkdown writes the result and statistics as Markdown tables
func (r *DefaultConsoleReporter) WriteMarkdown(report *RunReport, path string) error {
	var b strings.Builder
	fmt.Fprintf(&b, "# Optimization report: %s\n\n", report.RunName)
	if report.RunID != "" {
		fmt.Fprintf(&b, "Run ID: `%s`\n\n", report.RunID)
	}

	b.WriteString("## Result\n\n")
	b.WriteString(resultTable(report).RenderMarkdown())
	b.WriteString("\n\n")

	if len(report.BestSelection) > 0 {
		b.WriteString("## Best combination\n\n")
		t := table.NewWriter()
		t.AppendHeader(table.Row{"Category", "Option", "Index"})
		for _, s := range report.BestSelection {
			t.AppendRow(table.Row{s.Category, s.Option, s.Index})
		}
		b.WriteString(t.RenderMarkdown())
		b.WriteString("\n\n")
	}

	if report.Result != nil && len(report.Statistics) > 0 {
		b.WriteString("## Generations\n\n")
		b.WriteString(statisticsTable(report.Statistics, 0).RenderMarkdown())
		b.WriteString("\n")
	}

	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	return os.WriteFile(path, []byte(b.String()), 0644)
}

func resultTable(report *RunReport) table.Writer {
	t := table.NewWriter()
	t.SetTitle("OPTIMIZATION RESULT")
	t.AppendHeader(table.Row{"Metric", "Value"})
	for _, kv := range summaryRows(report) {
		t.AppendRow(table.Row{kv[0], kv[1]})
	}
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignLeft},
		{Number: 2, Align: text.AlignLeft},
	})
	return t
}

// statisticsTable renders the last limit generations (all when limit is 0)
func statisticsTable(stats []optimization.GenerationStatistics, limit int) table.Writer {
	if limit > 0 && len(stats) > limit {
		stats = stats[len(stats)-limit:]
	}
	t := table.NewWriter()
	t.SetTitle("GENERATIONS")
	t.AppendHeader(table.Row{"Gen", "Best", "Worst", "Average", "Diversity", "Time (s)"})
	for _, s := range stats {
		t.AppendRow(table.Row{
			s.Generation,
			fmt.Sprintf("%.4f", s.BestFitness),
			fmt.Sprintf("%.4f", s.WorstFitness),
			fmt.Sprintf("%.4f", s.AverageFitness),
			fmt.Sprintf("%.2f", s.DiversityScore),
			fmt.Sprintf("%.3f", s.ExecutionTime),
		})
	}
	return t
}

// summaryRows is shared by the console, Markdown and XLSX summaries
func summaryRows(report *RunReport) [][2]string {
	rows := [][2]string{{"Run", report.RunName}}
	if report.RunID != "" {
		rows = append(rows, [2]string{"Run ID", report.RunID})
	}
	res := report.Result
	if res == nil {
		return rows
	}

	best := joinGenes(res.BestCombination)
	if len(report.BestSelection) > 0 {
		labels := make([]string, len(report.BestSelection))
		for i, s := range report.BestSelection {
			labels[i] = s.Category + "=" + s.Option
		}
		best = strings.Join(labels, ", ")
	}

	return append(rows,
		[2]string{"Best Combination", best},
		[2]string{"Best Fitness", formatOptional(res.BestFitness)},
		[2]string{"Generations Completed", fmt.Sprintf("%d", res.GenerationsCompleted)},
		[2]string{"Termination", res.TerminationReason()},
		[2]string{"Generations Without Improvement", fmt.Sprintf("%d", res.GenerationsWithoutImprovement)},
		[2]string{"Final Diversity", fmt.Sprintf("%.2f", res.FinalPopulationStats.DiversityScore)},
		[2]string{"Total Time", fmt.Sprintf("%.3fs", res.TotalTime)},
	)
}

func formatOptional(v *float64) string {
	if v == nil {
		return "n/a"
	}
	return fmt.Sprintf("%.4f", *v)
}

// Package-level convenience functions

func RenderConsole(w io.Writer, report *RunReport) {
	NewDefaultConsoleReporter().RenderConsole(w, report)
}

func WriteMarkdown(report *RunReport, path string) error {
	return NewDefaultConsoleReporter().WriteMarkdown(report, path)
}
