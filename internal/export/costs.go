package export

import (
	"io"

	"github.com/Simplici0/batteryprice/internal/pricing"
)

// CostHeader is the column layout of the supplier cost export.
var CostHeader = []string{"SKU (Internal)", "SKU (Supplier)", "Invoice Price", "Scrap Deduction", "Adjusted Cost"}

// CostRow explains how one product's pricing cost was reached.
type CostRow struct {
	InternalSKU    string  `json:"internalSku"`
	SupplierSKU    string  `json:"supplierSku"`
	InvoicePrice   float64 `json:"invoicePrice"`
	ScrapDeduction float64 `json:"scrapDeduction"`
	AdjustedCost   float64 `json:"adjustedCost"`
}

// SupplierCosts returns a row per product in the order given.
func SupplierCosts(cat pricing.Catalog, products []pricing.SupplierProduct) []CostRow {
	rows := make([]CostRow, 0, len(products))
	for _, p := range products {
		rows = append(rows, CostRow{
			InternalSKU:    p.InternalSKU,
			SupplierSKU:    p.SupplierSKU,
			InvoicePrice:   p.InvoicePrice,
			ScrapDeduction: cat.ScrapDeduction(p),
			AdjustedCost:   cat.AdjustedCost(p),
		})
	}
	return rows
}

// WriteSupplierCostsCSV writes rows under CostHeader.
func WriteSupplierCostsCSV(w io.Writer, rows []CostRow) error {
	records := make([][]string, 0, len(rows))
	for _, r := range rows {
		records = append(records, []string{
			r.InternalSKU,
			r.SupplierSKU,
			money(r.InvoicePrice),
			money(r.ScrapDeduction),
			money(r.AdjustedCost),
		})
	}
	return writeCSV(w, CostHeader, records)
}
