package csvio

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"ocrbench/internal/domain"
)

const (
	resultsSheet = "Results"
	areaSheet    = "Test Area"
)

// ParseFormat resolves a format query value; empty means CSV.
func ParseFormat(s string) (domain.ExportFormat, error) {
	switch f := domain.ExportFormat(strings.ToLower(strings.TrimSpace(s))); f {
	case "", domain.ExportCSV:
		return domain.ExportCSV, nil
	case domain.ExportXLSX, domain.ExportJSON:
		return f, nil
	default:
		return "", fmt.Errorf("%w: %q", domain.ErrUnsupportedFormat, s)
	}
}

// ContentType returns the MIME type of an export format.
func ContentType(format domain.ExportFormat) string {
	switch format {
	case domain.ExportXLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	case domain.ExportJSON:
		return "application/json"
	default:
		return "text/csv; charset=utf-8"
	}
}

// Export writes area to w in the given format.
func Export(w io.Writer, area *domain.TestArea, format domain.ExportFormat) error {
	switch format {
	case domain.ExportCSV:
		return writeCSV(w, area)
	case domain.ExportXLSX:
		return WriteXLSX(w, area)
	case domain.ExportJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(area)
	default:
		return fmt.Errorf("%w: %q", domain.ErrUnsupportedFormat, format)
	}
}

func writeCSV(w io.Writer, area *domain.TestArea) error {
	if _, err := w.Write(BOM); err != nil {
		return err
	}
	cw := NewWriter(w)
	if err := cw.WriteHeader(); err != nil {
		return err
	}
	if err := cw.WriteArea(area); err != nil {
		return err
	}
	cw.Flush()
	return cw.Error()
}

// WriteXLSX writes a workbook with a results sheet and a sheet holding the
// area's image and ground truth.
func WriteXLSX(w io.Writer, area *domain.TestArea) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", resultsSheet); err != nil {
		return fmt.Errorf("xlsx: %w", err)
	}
	header := make([]interface{}, len(columns))
	for i, c := range columns {
		header[i] = c
	}
	if err := f.SetSheetRow(resultsSheet, "A1", &header); err != nil {
		return fmt.Errorf("xlsx header: %w", err)
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("xlsx style: %w", err)
	}
	lastCol, _ := excelize.ColumnNumberToName(len(columns))
	if err := f.SetCellStyle(resultsSheet, "A1", lastCol+"1", bold); err != nil {
		return fmt.Errorf("xlsx style: %w", err)
	}

	for i, row := range areaRows(area) {
		cells := make([]interface{}, len(row))
		for j, v := range row {
			cells[j] = v
		}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(resultsSheet, cell, &cells); err != nil {
			return fmt.Errorf("xlsx row %d: %w", i+2, err)
		}
	}

	if _, err := f.NewSheet(areaSheet); err != nil {
		return fmt.Errorf("xlsx: %w", err)
	}
	meta := [][]interface{}{
		{"Name", area.Name},
		{"Image URL", area.ImageURL},
		{"Ground Truth", area.GroundTruth},
	}
	for i, row := range meta {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		if err := f.SetSheetRow(areaSheet, cell, &row); err != nil {
			return fmt.Errorf("xlsx area sheet: %w", err)
		}
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("xlsx write: %w", err)
	}
	return nil
}
