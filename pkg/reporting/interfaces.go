// Package reporting provides output generation for optimization results
package reporting

import (
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/ducminhle1904/combo-optimizer/pkg/catalog"
	"github.com/ducminhle1904/combo-optimizer/pkg/optimization"
)

// RunReport is the serialized outcome of one run. The result fields are
// inlined so the JSON bundle keeps the engine's field names.
type RunReport struct {
	RunID   string `json:"run_id,omitempty"`
	RunName string `json:"run_name"`
	*optimization.Result
	BestSelection []catalog.Selection `json:"best_selection,omitempty"`
}

// NewRunReport wraps a result; when cat is set the best genes are decoded
// into option labels
func NewRunReport(runID, runName string, result *optimization.Result, cat *catalog.Catalog) (*RunReport, error) {
	report := &RunReport{RunID: runID, RunName: runName, Result: result}
	if cat != nil && result != nil && len(result.BestCombination) > 0 {
		selection, err := cat.Describe(result.BestCombination)
		if err != nil {
			return nil, err
		}
		report.BestSelection = selection
	}
	return report, nil
}

// ConsoleReporter defines interface for console output
type ConsoleReporter interface {
	RenderConsole(w io.Writer, report *RunReport)
	PrintConfig(w io.Writer, summary optimization.ConfigSummary)
}

// FileReporter defines interface for file output
type FileReporter interface {
	WriteResultJSON(report *RunReport, path string) error
	WriteStatisticsCSV(report *RunReport, path string) error
	WriteResultXLSX(report *RunReport, path string) error
	WriteMarkdown(report *RunReport, path string) error
	WriteBestConfigJSON(config interface{}, path string) error
}

// PathManager defines interface for output path management
type PathManager interface {
	GetDefaultOutputDir(runName string) string
	EnsureDirectoryExists(path string) error
}

// Reporter combines all reporting interfaces
type Reporter interface {
	ConsoleReporter
	FileReporter
	PathManager
}

// ExcelFormatter defines interface for Excel-specific formatting
type ExcelFormatter interface {
	WriteHeaderRow(fx *excelize.File, sheet string, headers []string, styles ExcelStyles) error
	WriteRow(fx *excelize.File, sheet string, row int, values []interface{}, style int) error
}

// ExcelStyles holds Excel formatting styles
type ExcelStyles struct {
	HeaderStyle  int
	BaseStyle    int
	NumberStyle  int
	SummaryStyle int
	BestStyle    int
}

// ReportingConfig holds configuration for reporting
type ReportingConfig struct {
	EnableConsole   bool
	EnableFiles     bool
	OutputDirectory string
	ExcelEnabled    bool
	CSVEnabled      bool
	JSONEnabled     bool
	MarkdownEnabled bool
}
