package storage

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/Sakshikhade/wee-price-tracker/models"
)

var csvHeader = []string{"Product Name", "Price", "Unit", "Brand", "Category", "Timestamp", "Source"}

// CSVExporter appends matched observations to a tabular export file. The
// header row is written only when the file does not exist yet.
type CSVExporter struct {
	path string
}

// NewCSVExporter creates an exporter for the given path. Intermediate
// directories are created on first export.
func NewCSVExporter(path string) *CSVExporter {
	return &CSVExporter{path: path}
}

// Export appends one row per observation.
func (e *CSVExporter) Export(observations []models.ScrapedObservation) error {
	if len(observations) == 0 {
		return nil
	}

	if dir := filepath.Dir(e.path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("csv: create output dir: %v", err)
		}
	}

	_, statErr := os.Stat(e.path)
	writeHeader := os.IsNotExist(statErr)

	f, err := os.OpenFile(e.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("csv: open file %q: %v", e.path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if writeHeader {
		if err := w.Write(csvHeader); err != nil {
			return fmt.Errorf("csv: write header: %v", err)
		}
	}

	for _, obs := range observations {
		row := []string{
			obs.ProductName,
			obs.PriceText,
			obs.UnitText,
			"", // brand is not extracted from the category page
			"", // category likewise
			obs.ScrapedAt.Format(time.RFC3339),
			obs.SourceSelector,
		}
		if err := w.Write(row); err != nil {
			return fmt.Errorf("csv: write row: %v", err)
		}
	}

	w.Flush()
	return w.Error()
}
