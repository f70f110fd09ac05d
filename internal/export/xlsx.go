package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"
	"github.com/xuri/excelize/v2"

	"warehouse/fiscal-recon/internal/logging"
)

// WriteXLSX writes rows to a single-sheet spreadsheet. The same csv struct
// tags that drive the CSV export provide the header row, so both formats
// always agree on the column contract.
func WriteXLSX[TRow any](rows []TRow, xlsxFile string) error {
	if rows == nil {
		return fmt.Errorf("cannot write nil rows to XLSX")
	}

	log.Info("Writing XLSX file",
		logging.Field{Key: logging.FieldOutputFile, Value: xlsxFile},
		logging.Field{Key: logging.FieldCount, Value: len(rows)})

	cells, err := tabulate(rows)
	if err != nil {
		return err
	}

	dir := filepath.Dir(xlsxFile)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return fmt.Errorf("error creating directory: %w", err)
	}

	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			log.WithError(err).Warn("Failed to close spreadsheet")
		}
	}()

	sheet := f.GetSheetName(0)
	for i, row := range cells {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return fmt.Errorf("error addressing row %d: %w", i+1, err)
		}
		values := make([]interface{}, len(row))
		for j, v := range row {
			values[j] = v
		}
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return fmt.Errorf("error writing row %d: %w", i+1, err)
		}
	}

	if err := f.SaveAs(xlsxFile); err != nil {
		return fmt.Errorf("error saving XLSX file: %w", err)
	}
	return nil
}

// tabulate renders rows through the csv tag mapping into a header row plus
// one cell row per record.
func tabulate[TRow any](rows []TRow) ([][]string, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)
	if err := gocsv.MarshalCSV(rows, gocsv.NewSafeCSVWriter(writer)); err != nil {
		return nil, fmt.Errorf("error tabulating rows: %w", err)
	}

	reader := csv.NewReader(&buf)
	cells, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("error tabulating rows: %w", err)
	}
	return cells, nil
}
