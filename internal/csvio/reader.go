package csvio

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"ocrbench/internal/domain"
)

// Row is one test case read from an import sheet.
type Row struct {
	Name        string
	ImageURL    string
	GroundTruth string
}

var (
	imageHeaders = []string{"imageurl", "image_url", "url"}
	textHeaders  = []string{"text", "groundtruth", "ground_truth", "expected"}
	nameHeaders  = []string{"name"}
)

// ReadRows reads an import sheet, choosing the decoder by file extension.
func ReadRows(filename string, r io.Reader) ([]Row, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".xlsx":
		return ReadXLSX(r)
	case ".csv", "":
		return ReadCSV(r)
	default:
		return nil, domain.ErrUnsupportedFileType
	}
}

// ReadCSV reads rows from a CSV file with a header row. Rows missing an image
// URL or text are skipped.
func ReadCSV(r io.Reader) ([]Row, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading csv: %w", err)
	}
	cr := csv.NewReader(bytes.NewReader(bytes.TrimPrefix(data, BOM)))
	cr.FieldsPerRecord = -1

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: malformed csv: %v", domain.ErrInvalidRequest, err)
	}
	return fromRecords(records)
}

// ReadXLSX reads rows from the first sheet of a workbook.
func ReadXLSX(r io.Reader) ([]Row, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("%w: unreadable workbook: %v", domain.ErrInvalidRequest, err)
	}
	defer func() { _ = f.Close() }()

	records, err := f.GetRows(f.GetSheetName(0))
	if err != nil {
		return nil, fmt.Errorf("reading sheet: %w", err)
	}
	return fromRecords(records)
}

func fromRecords(records [][]string) ([]Row, error) {
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: empty sheet", domain.ErrInvalidRequest)
	}
	header := records[0]
	imageCol := findColumn(header, imageHeaders)
	textCol := findColumn(header, textHeaders)
	if imageCol < 0 || textCol < 0 {
		return nil, errors.Join(domain.ErrInvalidRequest,
			errors.New("header must contain image_url and text columns"))
	}
	nameCol := findColumn(header, nameHeaders)

	rows := []Row{}
	for _, rec := range records[1:] {
		row := Row{
			Name:        cell(rec, nameCol),
			ImageURL:    cell(rec, imageCol),
			GroundTruth: cell(rec, textCol),
		}
		if row.ImageURL == "" || row.GroundTruth == "" {
			continue
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// findColumn returns the index of the first header matching one of names,
// in the priority order of names.
func findColumn(header, names []string) int {
	for _, name := range names {
		for i, h := range header {
			if strings.EqualFold(strings.TrimSpace(h), name) {
				return i
			}
		}
	}
	return -1
}

func cell(rec []string, i int) string {
	if i < 0 || i >= len(rec) {
		return ""
	}
	return strings.TrimSpace(rec[i])
}
