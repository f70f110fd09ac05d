// Package aggregate computes per-group rollups (sums of quantity and value
// fields grouped by a natural key) and writes them back onto every line-item
// record, so each line carries its document-level or PO-level totals inline.
package aggregate

import (
	"github.com/shopspring/decimal"

	"warehouse/fiscal-recon/internal/models"
)

// FieldSum names one decimal field to sum per group and where to write the
// group total back on each member.
type FieldSum struct {
	Get func(r *models.FiscalLineRecord) decimal.Decimal
	Set func(r *models.FiscalLineRecord, total decimal.Decimal)
}

// POFields returns the rollup set for purchase orders: total net value,
// total value with taxes and total ordered quantity per PO.
func POFields() []FieldSum {
	return []FieldSum{
		{
			Get: func(r *models.FiscalLineRecord) decimal.Decimal { return r.TotalPrice },
			Set: func(r *models.FiscalLineRecord, total decimal.Decimal) { r.GroupTotalValue = total },
		},
		{
			Get: func(r *models.FiscalLineRecord) decimal.Decimal { return r.LineValueWithTaxes },
			Set: func(r *models.FiscalLineRecord, total decimal.Decimal) { r.GroupTotalWithTaxes = total },
		},
		{
			Get: func(r *models.FiscalLineRecord) decimal.Decimal { return r.Quantity },
			Set: func(r *models.FiscalLineRecord, total decimal.Decimal) { r.GroupTotalQuantity = total },
		},
	}
}

// InvoiceFields returns the rollup set for goods invoices: total value and
// total item quantity per invoice.
func InvoiceFields() []FieldSum {
	return []FieldSum{
		{
			Get: func(r *models.FiscalLineRecord) decimal.Decimal { return r.TotalPrice },
			Set: func(r *models.FiscalLineRecord, total decimal.Decimal) { r.GroupTotalValue = total },
		},
		{
			Get: func(r *models.FiscalLineRecord) decimal.Decimal { return r.Quantity },
			Set: func(r *models.FiscalLineRecord, total decimal.Decimal) { r.GroupTotalQuantity = total },
		},
	}
}

// Rollup groups records by groupFn, sums each field per group and writes the
// sums back onto every member in place. Records whose group key is empty form
// their own per-record group only if other records share the empty key; the
// sum semantics are identical either way.
func Rollup(records []models.FiscalLineRecord, groupFn func(*models.FiscalLineRecord) string, fields ...FieldSum) {
	if len(records) == 0 || len(fields) == 0 {
		return
	}

	totals := make(map[string][]decimal.Decimal)
	for i := range records {
		key := groupFn(&records[i])
		sums, ok := totals[key]
		if !ok {
			sums = make([]decimal.Decimal, len(fields))
			totals[key] = sums
		}
		for f, field := range fields {
			sums[f] = sums[f].Add(field.Get(&records[i]))
		}
	}

	for i := range records {
		sums := totals[groupFn(&records[i])]
		for f, field := range fields {
			field.Set(&records[i], sums[f])
		}
	}
}
