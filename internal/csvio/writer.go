// Package csvio exports test-area results as CSV, XLSX or JSON and reads
// test-area import sheets.
package csvio

import (
	"encoding/csv"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
	"time"

	"ocrbench/internal/domain"
)

// UTF-8 BOM bytes for Excel compatibility on Windows.
var BOM = []byte{0xEF, 0xBB, 0xBF}

// columns defines the export header row, one row per result.
var columns = []string{
	"Test Area",
	"Version",
	"Active",
	"System Prompt",
	"User Prompt",
	"Temperature",
	"Provider",
	"Model",
	"Accuracy (%)",
	"Failed",
	"Extracted Text",
	"Created At",
}

// Writer wraps csv.Writer for exporting test-area results as CSV.
type Writer struct {
	csv *csv.Writer
}

// NewWriter creates a Writer that writes CSV to w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{csv: csv.NewWriter(w)}
}

// WriteHeader writes the header row.
func (w *Writer) WriteHeader() error {
	return w.csv.Write(columns)
}

// WriteArea writes one row per result across all versions of area.
func (w *Writer) WriteArea(area *domain.TestArea) error {
	for _, row := range areaRows(area) {
		if err := w.csv.Write(row); err != nil {
			return err
		}
	}
	return nil
}

// Flush flushes the underlying csv.Writer buffer.
func (w *Writer) Flush() {
	w.csv.Flush()
}

// Error returns any error from the underlying csv.Writer.
func (w *Writer) Error() error {
	return w.csv.Error()
}

// areaRows flattens an area into export rows ordered by version, then result.
func areaRows(area *domain.TestArea) [][]string {
	var rows [][]string
	for _, v := range area.Versions {
		active := area.ActiveVersionID != nil && *area.ActiveVersionID == v.ID
		for _, r := range v.Results {
			rows = append(rows, []string{
				area.Name,
				strconv.Itoa(v.VersionNumber),
				formatBool(active),
				v.SystemPrompt,
				v.UserPrompt,
				strconv.FormatFloat(v.Temperature, 'f', -1, 64),
				r.Provider,
				r.Model,
				formatPercent(r.Accuracy),
				formatBool(r.Failed),
				r.Text,
				formatTime(r.CreatedAt),
			})
		}
	}
	return rows
}

func formatPercent(v float64) string {
	return strconv.FormatFloat(v*100, 'f', 2, 64)
}

func formatBool(v bool) string {
	if v {
		return "Yes"
	}
	return "No"
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(time.RFC3339)
}

// nonAlphanumeric matches characters that are not alphanumeric, hyphen, or underscore.
var nonAlphanumeric = regexp.MustCompile(`[^a-zA-Z0-9_-]+`)

// multiUnderscore matches consecutive underscores.
var multiUnderscore = regexp.MustCompile(`_{2,}`)

// SanitizeFilename cleans a test-area name for use in Content-Disposition.
// Replaces non-alphanumeric chars (except - _) with _, collapses consecutive
// underscores, and truncates to 100 chars.
func SanitizeFilename(name string) string {
	s := nonAlphanumeric.ReplaceAllString(name, "_")
	s = multiUnderscore.ReplaceAllString(s, "_")
	s = strings.Trim(s, "_")
	if len(s) > 100 {
		s = s[:100]
	}
	if s == "" {
		s = "test_area"
	}
	return s
}

// BuildFilename returns a sanitized filename for the Content-Disposition header.
// Format: {sanitized_name}_{YYYY-MM-DD}.{format}
func BuildFilename(name string, format domain.ExportFormat) string {
	date := time.Now().Format("2006-01-02")
	return fmt.Sprintf("%s_%s.%s", SanitizeFilename(name), date, format)
}
