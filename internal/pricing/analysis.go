package pricing

// SupplierGP is the margin a house-brand price makes over one local supplier.
type SupplierGP struct {
	SupplierName string  `json:"supplierName"`
	GP           float64 `json:"gp"`
	IsProfitable bool    `json:"isProfitable"`
}

// GPAnalysis compares a candidate house-brand price with every local supplier
// carrying the SKU, in supplier order.
type GPAnalysis struct {
	SKU       string       `json:"sku"`
	Price     float64      `json:"price"`
	Suppliers []SupplierGP `json:"suppliers"`
}

// NoData reports that no local supplier carries the SKU.
func (a GPAnalysis) NoData() bool {
	return len(a.Suppliers) == 0
}

// AnalyzeGP computes the GP of price against each non-anchor supplier's
// adjusted cost for sku. Suppliers without the SKU are skipped.
func (c Catalog) AnalyzeGP(price float64, sku string, products []SupplierProduct, suppliers []Supplier) GPAnalysis {
	result := GPAnalysis{SKU: sku, Price: price, Suppliers: []SupplierGP{}}
	for _, s := range suppliers {
		if c.IsAnchor(s.Name) {
			continue
		}
		p, ok := findProduct(products, s.ID, sku)
		if !ok {
			continue
		}
		gp := ActualGP(price, c.AdjustedCost(p))
		result.Suppliers = append(result.Suppliers, SupplierGP{
			SupplierName: s.Name,
			GP:           gp,
			IsProfitable: gp > 0,
		})
	}
	return result
}

func findProduct(products []SupplierProduct, supplierID, sku string) (SupplierProduct, bool) {
	for _, p := range products {
		if p.SupplierID == supplierID && p.InternalSKU == sku {
			return p, true
		}
	}
	return SupplierProduct{}, false
}
