// Package reconcile joins the three document families into one enriched
// dataset. Goods invoice lines are the anchor: every one of them survives the
// join, picking up purchase-order and category metadata where the extracted
// references match and staying unenriched where they do not.
package reconcile

import (
	"warehouse/fiscal-recon/internal/dedupe"
	"warehouse/fiscal-recon/internal/logging"
	"warehouse/fiscal-recon/internal/models"
	"warehouse/fiscal-recon/internal/textnorm"
)

var log = logging.GetLogger()

// SetLogger allows setting a custom logger for this package
func SetLogger(logger logging.Logger) {
	if logger != nil {
		log = logger
	}
}

// Joiner performs the three-way left join between invoice records,
// purchase-order records and category mappings.
type Joiner struct{}

// NewJoiner creates a Joiner.
func NewJoiner() *Joiner {
	return &Joiner{}
}

type taggedCategory struct {
	pattern  textnorm.FlexiblePattern
	category models.CategoryRecord
}

// Join enriches invoice records with purchase-order and category metadata.
// The join is total: with empty po or category inputs it degrades to the
// identity transform over the deduplicated invoice records.
func (j *Joiner) Join(
	invoices []models.FiscalLineRecord,
	poRecords []models.FiscalLineRecord,
	categories []models.CategoryRecord,
) []models.ReconciledRecord {
	anchor := append([]models.FiscalLineRecord(nil), invoices...)
	dedupe.SortByCreationAsc(anchor)
	anchor = dedupe.Records(anchor)

	poByDocument := indexPOByDocument(poRecords)
	labelByProject := indexProjectLabels(poRecords)
	tagged := compileCategories(categories)

	var joined []models.ReconciledRecord
	matchedPO := 0
	for i := range anchor {
		row := models.ReconciledRecord{FiscalLineRecord: anchor[i]}

		if po, ok := poByDocument[anchor[i].ReferencePO]; ok {
			matchedPO++
			row.POProjectCode = po.ReferenceProjectCode
			row.POCostCenter = po.CostCenter
			row.POWBSElement = po.WBSElement
			row.POProjectLabel = po.ProjectLabel
			row.POTotalNet = po.GroupTotalValue
			row.POTotalWithTaxes = po.GroupTotalWithTaxes
			row.POTotalQuantity = po.GroupTotalQuantity
		}

		// The project label can still be recovered through the project code
		// when the document-number join missed.
		projectCode := row.POProjectCode
		if projectCode == "" {
			projectCode = anchor[i].ReferenceProjectCode
		}
		if row.POProjectLabel == "" && projectCode != "" {
			row.POProjectLabel = labelByProject[projectCode]
		}

		matches := matchCategories(tagged, anchor[i].Description)
		if len(matches) == 0 {
			joined = append(joined, row)
			continue
		}
		for _, category := range matches {
			fanned := row
			fanned.CategoryGroup = category.Group
			fanned.CategorySubgroup = category.Subgroup
			fanned.ImageURL = category.ImageURL
			joined = append(joined, fanned)
		}
	}

	// Category fan-out can duplicate an anchor row; one more pass on the
	// unique key restores exactly one output row per invoice line.
	joined = dedupe.ByKey(joined, func(r models.ReconciledRecord) string { return r.UniqueKey })

	log.Info("Reconciled records",
		logging.Field{Key: logging.FieldCount, Value: len(joined)},
		logging.Field{Key: "po_matches", Value: matchedPO})
	return joined
}

// indexPOByDocument keeps the first line per purchase document; document
// level enrichment fields are identical across a document's lines.
func indexPOByDocument(poRecords []models.FiscalLineRecord) map[string]models.FiscalLineRecord {
	index := make(map[string]models.FiscalLineRecord, len(poRecords))
	for i := range poRecords {
		doc := poRecords[i].DocumentNumber
		if doc == "" {
			continue
		}
		if _, ok := index[doc]; !ok {
			index[doc] = poRecords[i]
		}
	}
	return index
}

func indexProjectLabels(poRecords []models.FiscalLineRecord) map[string]string {
	labels := make(map[string]string)
	for i := range poRecords {
		code := poRecords[i].ReferenceProjectCode
		if code == "" || poRecords[i].ProjectLabel == "" {
			continue
		}
		if _, ok := labels[code]; !ok {
			labels[code] = poRecords[i].ProjectLabel
		}
	}
	return labels
}

func compileCategories(categories []models.CategoryRecord) []taggedCategory {
	tagged := make([]taggedCategory, 0, len(categories))
	for _, category := range categories {
		if category.Tag == "" {
			continue
		}
		tagged = append(tagged, taggedCategory{
			pattern:  textnorm.BuildFlexiblePattern(category.Tag),
			category: category,
		})
	}
	return tagged
}

func matchCategories(tagged []taggedCategory, description string) []models.CategoryRecord {
	if description == "" {
		return nil
	}
	var matches []models.CategoryRecord
	for i := range tagged {
		if tagged[i].pattern.Match(description) {
			matches = append(matches, tagged[i].category)
		}
	}
	return matches
}
