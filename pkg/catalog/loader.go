package catalog

import (
	"encoding/csv"
	"fmt"
	"os"
	"strings"

	"github.com/xuri/excelize/v2"

	gaerrors "github.com/ducminhle1904/combo-optimizer/internal/errors"
)

// DefaultSheet is the worksheet used when none is given
const DefaultSheet = "Categories"

// Load reads a catalog in the given format ("csv" or "xlsx")
func Load(path, format, sheet string) (*Catalog, error) {
	switch strings.ToLower(format) {
	case "csv":
		return LoadCSV(path)
	case "xlsx":
		return LoadXLSX(path, sheet)
	default:
		return nil, gaerrors.NewConfigurationError("catalog", "Load",
			"unsupported catalog format: %s (supported: csv, xlsx)", format)
	}
}

// LoadCSV reads a catalog from a two-column category,option CSV file
func LoadCSV(path string) (*Catalog, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, gaerrors.NewIOError("catalog", "LoadCSV", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, gaerrors.NewIOError("catalog", "LoadCSV", fmt.Errorf("error reading %s: %w", path, err))
	}
	return fromRows(rows, path)
}

// LoadXLSX reads a catalog from a worksheet with category and option in the
// first two columns. An empty sheet name means the first worksheet.
func LoadXLSX(path, sheet string) (*Catalog, error) {
	fx, err := excelize.OpenFile(path)
	if err != nil {
		return nil, gaerrors.NewIOError("catalog", "LoadXLSX", err)
	}
	defer fx.Close()

	if sheet == "" {
		sheet = fx.GetSheetName(0)
	}
	rows, err := fx.GetRows(sheet)
	if err != nil {
		return nil, gaerrors.NewIOError("catalog", "LoadXLSX", fmt.Errorf("error reading sheet %s: %w", sheet, err))
	}
	return fromRows(rows, path+":"+sheet)
}

// WriteCSV writes the catalog in the format LoadCSV reads
func (c *Catalog) WriteCSV(path string) error {
	file, err := os.Create(path)
	if err != nil {
		return gaerrors.NewIOError("catalog", "WriteCSV", err)
	}
	defer file.Close()

	w := csv.NewWriter(file)
	if err := w.Write([]string{"category", "option"}); err != nil {
		return gaerrors.NewIOError("catalog", "WriteCSV", err)
	}
	for _, cat := range c.Categories {
		for _, opt := range cat.Options {
			if err := w.Write([]string{cat.Name, opt}); err != nil {
				return gaerrors.NewIOError("catalog", "WriteCSV", err)
			}
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return gaerrors.NewIOError("catalog", "WriteCSV", err)
	}
	return nil
}

// WriteXLSX writes the catalog as a workbook LoadXLSX reads
func (c *Catalog) WriteXLSX(path, sheet string) error {
	if sheet == "" {
		sheet = DefaultSheet
	}

	fx := excelize.NewFile()
	defer fx.Close()

	if err := fx.SetSheetName("Sheet1", sheet); err != nil {
		return gaerrors.NewIOError("catalog", "WriteXLSX", err)
	}
	if err := fx.SetSheetRow(sheet, "A1", &[]interface{}{"category", "option"}); err != nil {
		return gaerrors.NewIOError("catalog", "WriteXLSX", err)
	}

	row := 2
	for _, cat := range c.Categories {
		for _, opt := range cat.Options {
			cell, _ := excelize.CoordinatesToCellName(1, row)
			if err := fx.SetSheetRow(sheet, cell, &[]interface{}{cat.Name, opt}); err != nil {
				return gaerrors.NewIOError("catalog", "WriteXLSX", err)
			}
			row++
		}
	}
	if err := fx.SaveAs(path); err != nil {
		return gaerrors.NewIOError("catalog", "WriteXLSX", err)
	}
	return nil
}
