package store

import (
	"fmt"
	"strings"

	"warehouse/fiscal-recon/internal/models"
	"warehouse/fiscal-recon/internal/textnorm"
)

// Filter selects records by document field values. Field names are the JSON
// document keys, with dotted paths for nested parties ("issuer.name"). A zero
// Filter matches every record; all set clauses must match at once.
type Filter struct {
	// Equals requires an exact value match per field.
	Equals map[string]string
	// In requires the field value to be one of the listed values.
	In map[string][]string
	// Fragments requires every normalized fragment of the search text to
	// appear somewhere in the field value, in any order.
	Fragments map[string]string
}

// IsZero reports whether the filter has no clauses.
func (f Filter) IsZero() bool {
	return len(f.Equals) == 0 && len(f.In) == 0 && len(f.Fragments) == 0
}

// Matches evaluates the filter against one record.
func (f Filter) Matches(record *models.FiscalLineRecord) (bool, error) {
	if f.IsZero() {
		return true, nil
	}

	doc, err := record.Document()
	if err != nil {
		return false, err
	}

	for field, want := range f.Equals {
		if fieldValue(doc, field) != want {
			return false, nil
		}
	}
	for field, values := range f.In {
		got := fieldValue(doc, field)
		found := false
		for _, v := range values {
			if got == v {
				found = true
				break
			}
		}
		if !found {
			return false, nil
		}
	}
	for field, search := range f.Fragments {
		pattern := textnorm.BuildFlexiblePattern(search)
		if !pattern.Match(fieldValue(doc, field)) {
			return false, nil
		}
	}
	return true, nil
}

// fieldValue resolves a dotted path inside the document map and renders the
// leaf as a string. Missing paths resolve to the empty string.
func fieldValue(doc map[string]interface{}, field string) string {
	parts := strings.Split(field, ".")
	var current interface{} = doc
	for _, part := range parts {
		m, ok := current.(map[string]interface{})
		if !ok {
			return ""
		}
		current, ok = m[part]
		if !ok {
			return ""
		}
	}

	switch v := current.(type) {
	case nil:
		return ""
	case string:
		return v
	default:
		return fmt.Sprintf("%v", v)
	}
}

// filterRecords applies the filter in memory, keeping input order.
func filterRecords(records []models.FiscalLineRecord, filter Filter) ([]models.FiscalLineRecord, error) {
	if filter.IsZero() {
		return records, nil
	}
	var matched []models.FiscalLineRecord
	for i := range records {
		ok, err := filter.Matches(&records[i])
		if err != nil {
			return nil, err
		}
		if ok {
			matched = append(matched, records[i])
		}
	}
	return matched, nil
}
