package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/devbm7/synthgen/internal/logger"
	"github.com/devbm7/synthgen/internal/models"
)

// Exporter stages fetched results as local JSON/CSV artifacts
type Exporter struct {
	dataDir string
}

// NewExporter creates an exporter staging files under dataDir
func NewExporter(dataDir string) *Exporter {
	return &Exporter{dataDir: dataDir}
}

// ensureDir creates the staging directory if it does not exist
func (e *Exporter) ensureDir() error {
	if err := os.MkdirAll(e.dataDir, 0755); err != nil {
		return fmt.Errorf("failed to create data directory %s: %w", e.dataDir, err)
	}
	return nil
}

// WriteJSON stages a pretty-printed JSON export of the fetched result,
// same shape as the backend's data response
func (e *Exporter) WriteJSON(taskID string, result models.DataResult) (string, error) {
	if err := e.ensureDir(); err != nil {
		return "", err
	}

	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode result: %w", err)
	}

	path := filepath.Join(e.dataDir, fmt.Sprintf("synthetic_data_%s.json", taskID))
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write JSON export: %w", err)
	}

	logger.Info("Staged JSON export: %s", path)
	return path, nil
}

// CSVPath returns where WriteCSV stages the export for a task
func (e *Exporter) CSVPath(taskID string) string {
	return filepath.Join(e.dataDir, fmt.Sprintf("synthetic_data_%s.csv", taskID))
}

// WriteCSV stages a CSV export of the fetched result. The header row
// follows the given column order; see ColumnOrder.
func (e *Exporter) WriteCSV(taskID string, header []string, result models.DataResult) (string, error) {
	if err := e.ensureDir(); err != nil {
		return "", err
	}

	path := e.CSVPath(taskID)
	file, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create CSV export: %w", err)
	}
	defer file.Close()

	if err := EncodeCSV(file, header, result.Data); err != nil {
		return "", fmt.Errorf("failed to write CSV export: %w", err)
	}

	logger.Info("Staged CSV export: %s", path)
	return path, nil
}

// WriteAppended stages the merged CSV content returned for an uploaded
// file, named after the original upload
func (e *Exporter) WriteAppended(filename, content string) (string, error) {
	if err := e.ensureDir(); err != nil {
		return "", err
	}

	path := filepath.Join(e.dataDir, fmt.Sprintf("appended_%s", filepath.Base(filename)))
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return "", fmt.Errorf("failed to write appended CSV: %w", err)
	}

	logger.Info("Staged appended CSV: %s", path)
	return path, nil
}

// ColumnOrder derives the CSV header: the schema's column order when a
// schema is known, otherwise the sorted union of keys across all rows
func ColumnOrder(schema []models.ColumnSpec, rows []models.Row) []string {
	if len(schema) > 0 {
		header := make([]string, 0, len(schema))
		for _, col := range schema {
			header = append(header, col.Name)
		}
		return header
	}

	seen := make(map[string]bool)
	var header []string
	for _, row := range rows {
		for key := range row {
			if !seen[key] {
				seen[key] = true
				header = append(header, key)
			}
		}
	}
	sort.Strings(header)
	return header
}

// EncodeCSV writes a header row followed by one record per data row.
// Missing cells are written empty.
func EncodeCSV(w io.Writer, header []string, rows []models.Row) error {
	writer := csv.NewWriter(w)

	if err := writer.Write(header); err != nil {
		return err
	}

	record := make([]string, len(header))
	for _, row := range rows {
		for i, col := range header {
			if value, ok := row[col]; ok && value != nil {
				record[i] = fmt.Sprint(value)
			} else {
				record[i] = ""
			}
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}

// ReadCSV reads a staged CSV back for preview, returning the header and
// the rows keyed by column name
func ReadCSV(path string) ([]string, []models.Row, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open CSV %s: %w", path, err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	records, err := reader.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to parse CSV %s: %w", path, err)
	}

	if len(records) == 0 {
		return nil, nil, nil
	}

	header := records[0]
	rows := make([]models.Row, 0, len(records)-1)
	for _, record := range records[1:] {
		row := make(models.Row, len(header))
		for i, col := range header {
			if i < len(record) {
				row[col] = record[i]
			}
		}
		rows = append(rows, row)
	}

	return header, rows, nil
}
