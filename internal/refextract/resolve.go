package refextract

import "warehouse/fiscal-recon/internal/models"

// ResolveDocumentPO applies one purchase-order reference uniformly to all
// line records of each document: the first non-empty candidate found across
// the document's lines wins. A single invoice is assumed to reference at most
// one purchase order.
func ResolveDocumentPO(records []models.FiscalLineRecord) {
	chosen := make(map[string]string)
	for i := range records {
		doc := records[i].DocumentNumber
		if _, ok := chosen[doc]; ok {
			continue
		}
		if records[i].ReferencePO != "" {
			chosen[doc] = records[i].ReferencePO
		}
	}

	for i := range records {
		if po, ok := chosen[records[i].DocumentNumber]; ok {
			records[i].ReferencePO = po
		}
	}
}
