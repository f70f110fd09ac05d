// Package batch runs a parser over many input files with per-file fault
// isolation: one unreadable document never aborts the rest of the upload.
package batch

import (
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"github.com/google/uuid"

	"warehouse/fiscal-recon/internal/logging"
	"warehouse/fiscal-recon/internal/models"
)

// ParseFunc parses one input file into records.
type ParseFunc func(path string) ([]models.FiscalLineRecord, error)

// FileReport records the outcome of one file within a run.
type FileReport struct {
	File    string
	Records int
	Err     error
}

// Report summarizes a batch run.
type Report struct {
	RunID  string
	Files  []FileReport
	Parsed int
	Failed int
}

// Runner executes batch parse runs.
type Runner struct {
	logger logging.Logger
}

// NewRunner creates a Runner. A nil logger falls back to the package default.
func NewRunner(logger logging.Logger) *Runner {
	if logger == nil {
		logger = logging.GetLogger()
	}
	return &Runner{logger: logger}
}

// Run parses every file, skipping the ones that fail, and returns the merged
// records together with a per-file report.
func (r *Runner) Run(files []string, parse ParseFunc) ([]models.FiscalLineRecord, Report) {
	report := Report{RunID: uuid.New().String()}

	r.logger.Info("Starting batch run",
		logging.Field{Key: logging.FieldRunID, Value: report.RunID},
		logging.Field{Key: logging.FieldCount, Value: len(files)})

	var records []models.FiscalLineRecord
	for _, file := range files {
		parsed, err := parse(file)
		if err != nil {
			report.Failed++
			report.Files = append(report.Files, FileReport{File: file, Err: err})
			r.logger.WithError(err).Error("Failed to parse file",
				logging.Field{Key: logging.FieldRunID, Value: report.RunID},
				logging.Field{Key: logging.FieldFile, Value: file})
			continue
		}

		report.Parsed += len(parsed)
		report.Files = append(report.Files, FileReport{File: file, Records: len(parsed)})
		records = append(records, parsed...)

		r.logger.Debug("Parsed file",
			logging.Field{Key: logging.FieldRunID, Value: report.RunID},
			logging.Field{Key: logging.FieldFile, Value: filepath.Base(file)},
			logging.Field{Key: logging.FieldCount, Value: len(parsed)})
	}

	r.logger.Info("Finished batch run",
		logging.Field{Key: logging.FieldRunID, Value: report.RunID},
		logging.Field{Key: logging.FieldCount, Value: report.Parsed},
		logging.Field{Key: "failed_files", Value: report.Failed})

	return records, report
}

// CollectFiles lists the files under root whose extension matches one of the
// given extensions (case-insensitive, leading dot included), sorted by path.
// A root that is itself a matching file yields a single-entry result.
func CollectFiles(root string, extensions ...string) ([]string, error) {
	wanted := make(map[string]bool, len(extensions))
	for _, ext := range extensions {
		wanted[strings.ToLower(ext)] = true
	}

	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if wanted[strings.ToLower(filepath.Ext(path))] {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Strings(files)
	return files, nil
}
