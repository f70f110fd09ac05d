// Package common holds helpers shared by the document import commands.
package common

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"warehouse/fiscal-recon/internal/batch"
	"warehouse/fiscal-recon/internal/categorizer"
	"warehouse/fiscal-recon/internal/export"
	"warehouse/fiscal-recon/internal/logging"
	"warehouse/fiscal-recon/internal/models"
	"warehouse/fiscal-recon/internal/store"
)

// ValidateFunc checks one input file before parsing.
type ValidateFunc func(path string) (bool, error)

// ImportFiles parses every matching file under input and writes the records
// to the given store collection. With replace set, the collection's previous
// content is swapped out instead of appended to. A non-nil validate runs as a
// pre-flight over every collected file and aborts the import on the first
// file that fails it.
func ImportFiles(
	st store.DocumentStore,
	collection string,
	input string,
	extensions []string,
	parse batch.ParseFunc,
	validate ValidateFunc,
	replace bool,
	log *logrus.Logger,
) ([]models.FiscalLineRecord, error) {
	files, err := batch.CollectFiles(input, extensions...)
	if err != nil {
		return nil, fmt.Errorf("error collecting input files: %w", err)
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no input files with extension %s under %s", strings.Join(extensions, ", "), input)
	}

	if validate != nil {
		for _, file := range files {
			ok, err := validate(file)
			if err != nil {
				return nil, fmt.Errorf("error validating %s: %w", file, err)
			}
			if !ok {
				return nil, fmt.Errorf("invalid file format: %s", file)
			}
		}
	}

	runner := batch.NewRunner(logging.NewLogrusAdapterFromLogger(log))
	records, report := runner.Run(files, parse)
	if report.Failed > 0 {
		log.WithField("failed_files", report.Failed).Warn("Some input files could not be parsed")
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("no records parsed from %d input files", len(files))
	}

	if replace {
		if _, err := st.Replace(collection, records); err != nil {
			return nil, err
		}
	} else {
		if _, err := st.Insert(collection, records); err != nil {
			return nil, err
		}
	}
	return records, nil
}

// LoadCategorizer builds a CFOP categorizer from the optional rules file,
// overriding the organization name when one is configured.
func LoadCategorizer(rulesFile, organization string) (*categorizer.Categorizer, error) {
	rules, err := categorizer.LoadRuleSet(rulesFile)
	if err != nil {
		return nil, err
	}
	if organization != "" {
		rules.Organization = organization
	}
	return categorizer.New(rules), nil
}

// OutputPath returns the explicit output path, or a timestamped default name
// built from the given prefix and extension.
func OutputPath(output, prefix, ext string) string {
	if output != "" {
		return output
	}
	return export.Filename(prefix, ext, time.Now())
}

// WriteRows writes rows as XLSX or CSV depending on the target extension.
func WriteRows[TRow any](rows []TRow, path string) error {
	if strings.EqualFold(filepath.Ext(path), ".xlsx") {
		return export.WriteXLSX(rows, path)
	}
	return export.WriteCSV(rows, path)
}

// AsReconciled wraps plain records into unenriched reconciled rows so that
// the invoice export layout can render them before any join has run.
func AsReconciled(records []models.FiscalLineRecord) []models.ReconciledRecord {
	wrapped := make([]models.ReconciledRecord, len(records))
	for i := range records {
		wrapped[i] = models.ReconciledRecord{FiscalLineRecord: records[i]}
	}
	return wrapped
}
