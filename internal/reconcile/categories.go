package reconcile

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"warehouse/fiscal-recon/internal/logging"
	"warehouse/fiscal-recon/internal/models"
)

// categoryFile is the on-disk shape of the category mapping.
type categoryFile struct {
	Categories []models.CategoryRecord `yaml:"categories"`
}

// LoadCategories loads the tag to category mapping from a YAML file. A
// missing file yields no categories, which leaves the join unenriched.
func LoadCategories(path string) ([]models.CategoryRecord, error) {
	if path == "" {
		path = filepath.Join("database", "categories.yaml")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			log.Debug("Category file not found, join will carry no categories",
				logging.Field{Key: logging.FieldFile, Value: path})
			return nil, nil
		}
		return nil, fmt.Errorf("error reading category file: %w", err)
	}

	var parsed categoryFile
	if err := yaml.Unmarshal(data, &parsed); err != nil {
		return nil, fmt.Errorf("error parsing category file: %w", err)
	}

	log.Debug("Loaded category mapping",
		logging.Field{Key: logging.FieldFile, Value: path},
		logging.Field{Key: logging.FieldCount, Value: len(parsed.Categories)})
	return parsed.Categories, nil
}
