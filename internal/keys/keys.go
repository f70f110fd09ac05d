// Package keys derives the composite uniqueness keys used for deduplication.
// A key is deterministic given its inputs; two records with the same key are
// treated as the same real-world line item regardless of other field
// differences introduced by re-parsing.
package keys

import (
	"fmt"

	"warehouse/fiscal-recon/internal/textnorm"
)

// LineItem builds the key for a goods-invoice line:
// invoice number + line index + normalized material description.
func LineItem(documentNumber string, lineIndex int, description string) string {
	return textnorm.Slugify(fmt.Sprintf("%s-%d-%s", documentNumber, lineIndex, description))
}

// ServiceInvoice builds the key for a service invoice:
// document number + provider tax ID.
func ServiceInvoice(documentNumber, providerTaxID string) string {
	return textnorm.Slugify(documentNumber + "-" + providerTaxID)
}

// PurchaseOrder builds the key for a purchase-order line:
// PO number + line item identifier.
func PurchaseOrder(poNumber, lineItem string) string {
	return textnorm.Slugify(poNumber + "-" + lineItem)
}
