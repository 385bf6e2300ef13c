package reporting

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"
)

const (
	summarySheet    = "Summary"
	statisticsSheet = "Statistics"
	bestSheet       = "Best"
)

// DefaultExcelReporter implements Excel output functionality
type DefaultExcelReporter struct{}

// NewDefaultExcelReporter creates a new Excel reporter
func NewDefaultExcelReporter() *DefaultExcelReporter {
	return &DefaultExcelReporter{}
}

// WriteResultXLSX writes the Summary, Statistics and Best sheets
func (r *DefaultExcelReporter) WriteResultXLSX(report *RunReport, path string) error {
	// Ensure directory exists before creating file
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	fx := excelize.NewFile()
	defer fx.Close()

	if err := fx.SetSheetName(fx.GetSheetName(0), summarySheet); err != nil {
		return err
	}
	if _, err := fx.NewSheet(statisticsSheet); err != nil {
		return err
	}
	if _, err := fx.NewSheet(bestSheet); err != nil {
		return err
	}

	styles, err := r.createExcelStyles(fx)
	if err != nil {
		return err
	}

	if err := r.writeSummarySheet(fx, report, styles); err != nil {
		return err
	}
	if err := r.writeStatisticsSheet(fx, report, styles); err != nil {
		return err
	}
	if err := r.writeBestSheet(fx, report, styles); err != nil {
		return err
	}

	fx.SetActiveSheet(0)
	return fx.SaveAs(path)
}

var thinBorder = []excelize.Border{
	{Type: "left", Color: "E0E0E0", Style: 1},
	{Type: "right", Color: "E0E0E0", Style: 1},
	{Type: "bottom", Color: "E0E0E0", Style: 1},
}

func (r *DefaultExcelReporter) createExcelStyles(fx *excelize.File) (ExcelStyles, error) {
	var styles ExcelStyles
	var err error

	// Header style - Dark blue background with white text
	styles.HeaderStyle, err = fx.NewStyle(&excelize.Style{
		Font: &excelize.Font{
			Bold:   true,
			Size:   11,
			Color:  "FFFFFF",
			Family: "Calibri",
		},
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{"2F4F4F"},
			Pattern: 1,
		},
		Alignment: &excelize.Alignment{
			Horizontal: "center",
			Vertical:   "center",
		},
		Border: []excelize.Border{
			{Type: "left", Color: "000000", Style: 1},
			{Type: "right", Color: "000000", Style: 1},
			{Type: "top", Color: "000000", Style: 1},
			{Type: "bottom", Color: "000000", Style: 1},
		},
	})
	if err != nil {
		return styles, err
	}

	styles.BaseStyle, err = fx.NewStyle(&excelize.Style{Border: thinBorder})
	if err != nil {
		return styles, err
	}

	numFmt := "0.0000"
	styles.NumberStyle, err = fx.NewStyle(&excelize.Style{
		CustomNumFmt: &numFmt,
		Alignment:    &excelize.Alignment{Horizontal: "right"},
		Border:       thinBorder,
	})
	if err != nil {
		return styles, err
	}

	styles.SummaryStyle, err = fx.NewStyle(&excelize.Style{
		Font:   &excelize.Font{Bold: true},
		Border: thinBorder,
	})
	if err != nil {
		return styles, err
	}

	// Best combination rows (light green background)
	styles.BestStyle, err = fx.NewStyle(&excelize.Style{
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{"E6FFE6"},
			Pattern: 1,
		},
		Border: thinBorder,
	})
	if err != nil {
		return styles, err
	}

	return styles, nil
}

func (r *DefaultExcelReporter) writeSummarySheet(fx *excelize.File, report *RunReport, styles ExcelStyles) error {
	fx.SetColWidth(summarySheet, "A", "A", 32)
	fx.SetColWidth(summarySheet, "B", "B", 40)

	if err := r.WriteHeaderRow(fx, summarySheet, []string{"Metric", "Value"}, styles); err != nil {
		return err
	}
	for i, kv := range summaryRows(report) {
		if err := r.WriteRow(fx, summarySheet, i+2, []interface{}{kv[0], kv[1]}, styles.BaseStyle); err != nil {
			return err
		}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		fx.SetCellStyle(summarySheet, cell, cell, styles.SummaryStyle)
	}
	return nil
}

func (r *DefaultExcelReporter) writeStatisticsSheet(fx *excelize.File, report *RunReport, styles ExcelStyles) error {
	fx.SetColWidth(statisticsSheet, "A", "F", 16)
	fx.SetColWidth(statisticsSheet, "G", "G", 40)

	if err := r.WriteHeaderRow(fx, statisticsSheet, statisticsHeader, styles); err != nil {
		return err
	}
	if report.Result == nil {
		return nil
	}
	for i, s := range report.Statistics {
		row := i + 2
		values := []interface{}{
			s.Generation, s.BestFitness, s.WorstFitness, s.AverageFitness,
			s.DiversityScore, s.ExecutionTime, joinGenes(s.BestGenes),
		}
		if err := r.WriteRow(fx, statisticsSheet, row, values, styles.BaseStyle); err != nil {
			return err
		}
		first, _ := excelize.CoordinatesToCellName(2, row)
		last, _ := excelize.CoordinatesToCellName(6, row)
		fx.SetCellStyle(statisticsSheet, first, last, styles.NumberStyle)
	}
	return nil
}

func (r *DefaultExcelReporter) writeBestSheet(fx *excelize.File, report *RunReport, styles ExcelStyles) error {
	fx.SetColWidth(bestSheet, "A", "C", 24)

	if err := r.WriteHeaderRow(fx, bestSheet, []string{"Category", "Option", "Index"}, styles); err != nil {
		return err
	}
	if len(report.BestSelection) > 0 {
		for i, s := range report.BestSelection {
			if err := r.WriteRow(fx, bestSheet, i+2, []interface{}{s.Category, s.Option, s.Index}, styles.BestStyle); err != nil {
				return err
			}
		}
		return nil
	}
	if report.Result == nil {
		return nil
	}
	for i, g := range report.BestCombination {
		name := fmt.Sprintf("category_%d", i+1)
		if err := r.WriteRow(fx, bestSheet, i+2, []interface{}{name, "", g}, styles.BestStyle); err != nil {
			return err
		}
	}
	return nil
}

// WriteHeaderRow writes a styled header into row 1
func (r *DefaultExcelReporter) WriteHeaderRow(fx *excelize.File, sheet string, headers []string, styles ExcelStyles) error {
	for i, h := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return err
		}
		if err := fx.SetCellValue(sheet, cell, h); err != nil {
			return err
		}
		if err := fx.SetCellStyle(sheet, cell, cell, styles.HeaderStyle); err != nil {
			return err
		}
	}
	return nil
}

// WriteRow writes values into the given row with one style
func (r *DefaultExcelReporter) WriteRow(fx *excelize.File, sheet string, row int, values []interface{}, style int) error {
	for i, v := range values {
		cell, err := excelize.CoordinatesToCellName(i+1, row)
		if err != nil {
			return err
		}
		if err := fx.SetCellValue(sheet, cell, v); err != nil {
			return err
		}
		if err := fx.SetCellStyle(sheet, cell, cell, style); err != nil {
			return err
		}
	}
	return nil
}

// Package-level convenience function
func WriteResultXLSX(report *RunReport, path string) error {
	return NewDefaultExcelReporter().WriteResultXLSX(report, path)
}
