package reporting

import (
	"io"
	"os"
	"path/filepath"

	"github.com/ducminhle1904/combo-optimizer/pkg/optimization"
)

// Output file names inside a run directory
const (
	ResultFile     = "result.json"
	StatisticsFile = "statistics.csv"
	WorkbookFile   = "result.xlsx"
	ReportFile     = "report.md"
	BestConfigFile = "config.json"
)

// DefaultReporter implements the complete Reporter interface
type DefaultReporter struct {
	console *DefaultConsoleReporter
	csv     *DefaultCSVReporter
	excel   *DefaultExcelReporter
	json    *DefaultJSONFormatter
	paths   *DefaultPathManager
}

// NewDefaultReporter creates a new default reporter with all functionality
func NewDefaultReporter() *DefaultReporter {
	return newReporter(NewDefaultPathManager())
}

func newReporter(paths *DefaultPathManager) *DefaultReporter {
	return &DefaultReporter{
		console: NewDefaultConsoleReporter(),
		csv:     NewDefaultCSVReporter(),
		excel:   NewDefaultExcelReporter(),
		json:    NewDefaultJSONFormatter(),
		paths:   paths,
	}
}

// Console output methods
func (r *DefaultReporter) RenderConsole(w io.Writer, report *RunReport) {
	r.console.RenderConsole(w, report)
}

func (r *DefaultReporter) PrintConfig(w io.Writer, summary optimization.ConfigSummary) {
	r.console.PrintConfig(w, summary)
}

// File output methods
func (r *DefaultReporter) WriteResultJSON(report *RunReport, path string) error {
	return WriteResultJSON(report, path)
}

func (r *DefaultReporter) WriteStatisticsCSV(report *RunReport, path string) error {
	return r.csv.WriteStatisticsCSV(report, path)
}

func (r *DefaultReporter) WriteResultXLSX(report *RunReport, path string) error {
	return r.excel.WriteResultXLSX(report, path)
}

func (r *DefaultReporter) WriteMarkdown(report *RunReport, path string) error {
	return r.console.WriteMarkdown(report, path)
}

func (r *DefaultReporter) WriteBestConfigJSON(config interface{}, path string) error {
	return WriteBestConfigJSON(config, path)
}

// Path management methods
func (r *DefaultReporter) GetDefaultOutputDir(runName string) string {
	return r.paths.GetDefaultOutputDir(runName)
}

func (r *DefaultReporter) EnsureDirectoryExists(path string) error {
	return r.paths.EnsureDirectoryExists(path)
}

var _ Reporter = (*DefaultReporter)(nil)

// ReportingManager provides a high-level interface for all reporting needs
type ReportingManager struct {
	reporter *DefaultReporter
	config   ReportingConfig
	console  io.Writer
}

// NewReportingManager creates a new reporting manager with configuration
func NewReportingManager(config ReportingConfig) *ReportingManager {
	return &ReportingManager{
		reporter: newReporter(NewPathManager(config.OutputDirectory)),
		config:   config,
		console:  os.Stdout,
	}
}

// WithConsole redirects console output
func (m *ReportingManager) WithConsole(w io.Writer) *ReportingManager {
	m.console = w
	return m
}

// OutputDir returns the directory files of runName are written to
func (m *ReportingManager) OutputDir(runName string) string {
	return m.reporter.GetDefaultOutputDir(runName)
}

// ReportResults outputs results according to configuration and returns the
// paths of the files written
func (m *ReportingManager) ReportResults(report *RunReport) ([]string, error) {
	// Console output
	if m.config.EnableConsole {
		m.reporter.RenderConsole(m.console, report)
	}

	if !m.config.EnableFiles {
		return nil, nil
	}

	outputDir := m.OutputDir(report.RunName)
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, err
	}

	writers := []struct {
		enabled bool
		file    string
		write   func(*RunReport, string) error
	}{
		{m.config.JSONEnabled, ResultFile, m.reporter.WriteResultJSON},
		{m.config.CSVEnabled, StatisticsFile, m.reporter.WriteStatisticsCSV},
		{m.config.ExcelEnabled, WorkbookFile, m.reporter.WriteResultXLSX},
		{m.config.MarkdownEnabled, ReportFile, m.reporter.WriteMarkdown},
	}

	var written []string
	for _, w := range writers {
		if !w.enabled {
			continue
		}
		path := filepath.Join(outputDir, w.file)
		if err := w.write(report, path); err != nil {
			return written, err
		}
		written = append(written, path)
	}
	return written, nil
}

// ReportConfig prints the engine configuration and saves the run
// configuration next to the results
func (m *ReportingManager) ReportConfig(summary optimization.ConfigSummary, config interface{}, runName string) (string, error) {
	// Console output
	if m.config.EnableConsole {
		m.reporter.PrintConfig(m.console, summary)
	}

	// File output
	if m.config.EnableFiles && m.config.JSONEnabled && config != nil {
		path := filepath.Join(m.OutputDir(runName), BestConfigFile)
		if err := m.reporter.WriteBestConfigJSON(config, path); err != nil {
			return "", err
		}
		return path, nil
	}
	return "", nil
}
