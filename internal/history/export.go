// ABOUTME: Export and import functionality for BMI history.
// ABOUTME: Supports CSV, JSON, YAML and Markdown exports and JSON import.
package history

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/harperreed/bmi/internal/models"
	"gopkg.in/yaml.v3"
)

const (
	exportDateLayout = "2006-01-02 15:04"
	exportVersion    = "1.0"
)

// CSVHeader is the first row of every CSV export.
var CSVHeader = []string{"Date", "BMI", "Category", "Age", "Gender", "Weight", "Height"}

// ExportData represents the full export format for history data.
type ExportData struct {
	Version    string          `json:"version" yaml:"version"`
	ExportedAt time.Time       `json:"exported_at" yaml:"exported_at"`
	Tool       string          `json:"tool" yaml:"tool"`
	Records    []models.Record `json:"records" yaml:"records"`
}

func newExportData(records []models.Record) *ExportData {
	if records == nil {
		records = []models.Record{}
	}
	return &ExportData{
		Version:    exportVersion,
		ExportedAt: time.Now(),
		Tool:       "bmi",
		Records:    records,
	}
}

// CSVFileName returns the default export file name for the given day.
func CSVFileName(t time.Time) string {
	return fmt.Sprintf("bmi_history_%s.csv", t.Format("2006_01_02"))
}

// WriteCSV writes records in listing order under CSVHeader.
func WriteCSV(w io.Writer, records []models.Record) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(CSVHeader); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, r := range records {
		row := []string{
			r.Timestamp.Format(exportDateLayout),
			strconv.FormatFloat(r.BMI, 'f', 2, 64),
			r.Category,
			strconv.Itoa(r.Age),
			r.Gender,
			r.Weight,
			r.Height,
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write csv row %d: %w", r.ID, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// ExportCSV renders records as CSV bytes.
func ExportCSV(records []models.Record) ([]byte, error) {
	var sb strings.Builder
	if err := WriteCSV(&sb, records); err != nil {
		return nil, err
	}
	return []byte(sb.String()), nil
}

// ExportJSON exports records as an indented JSON backup.
func ExportJSON(records []models.Record) ([]byte, error) {
	return json.MarshalIndent(newExportData(records), "", "  ")
}

// ExportYAML exports records as YAML.
func ExportYAML(records []models.Record) ([]byte, error) {
	data := newExportData(records)

	yamlData := struct {
		Version    string       `yaml:"version"`
		ExportedAt string       `yaml:"exported_at"`
		Tool       string       `yaml:"tool"`
		Records    []yamlRecord `yaml:"records"`
	}{
		Version:    data.Version,
		ExportedAt: data.ExportedAt.Format(time.RFC3339),
		Tool:       data.Tool,
		Records:    make([]yamlRecord, 0, len(records)),
	}

	for _, r := range records {
		yamlData.Records = append(yamlData.Records, yamlRecord{
			ID:        r.ID,
			Timestamp: r.Timestamp.Format(time.RFC3339),
			BMI:       r.BMI,
			Category:  r.Category,
			Age:       r.Age,
			Gender:    r.Gender,
			Weight:    r.Weight,
			Height:    r.Height,
		})
	}

	return yaml.Marshal(yamlData)
}

type yamlRecord struct {
	ID        int64   `yaml:"id"`
	Timestamp string  `yaml:"timestamp"`
	BMI       float64 `yaml:"bmi"`
	Category  string  `yaml:"category"`
	Age       int     `yaml:"age"`
	Gender    string  `yaml:"gender"`
	Weight    string  `yaml:"weight"`
	Height    string  `yaml:"height"`
}

// ExportMarkdown exports records as a Markdown table.
func ExportMarkdown(records []models.Record) string {
	var sb strings.Builder
	now := time.Now()

	sb.WriteString(fmt.Sprintf("# BMI History - %s\n\n", now.Format("2006-01-02")))
	sb.WriteString(fmt.Sprintf("Generated: %s\n\n", now.Format(time.RFC3339)))

	if len(records) == 0 {
		sb.WriteString("No records.\n")
		return sb.String()
	}

	sb.WriteString("| Date | BMI | Category | Age | Gender | Weight | Height |\n")
	sb.WriteString("|------|-----|----------|-----|--------|--------|--------|\n")
	for _, r := range records {
		sb.WriteString(fmt.Sprintf("| %s | %.2f | %s | %d | %s | %s | %s |\n",
			r.Timestamp.Format(exportDateLayout),
			r.BMI, r.Category, r.Age, r.Gender, r.Weight,
			strings.ReplaceAll(r.Height, "|", "\\|")))
	}

	return sb.String()
}

// ImportJSON restores records from a JSON backup. Records are re-inserted
// oldest first with new ids and their original timestamps.
func ImportJSON(ctx context.Context, s *Store, data []byte) (int, error) {
	var exportData ExportData
	if err := json.Unmarshal(data, &exportData); err != nil {
		return 0, fmt.Errorf("unmarshal JSON: %w", err)
	}

	imported := 0
	for i := len(exportData.Records) - 1; i >= 0; i-- {
		r := exportData.Records[i]
		if _, err := s.InsertExisting(ctx, &r); err != nil {
			return imported, fmt.Errorf("import record %d: %w", r.ID, err)
		}
		imported++
	}
	return imported, nil
}
