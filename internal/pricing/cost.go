package pricing

// ScrapDeduction is the scrap credit taken off p's invoice price. Scrap-loaded
// invoices already include it.
func (c Catalog) ScrapDeduction(p SupplierProduct) float64 {
	if p.SupplierType == ScrapLoaded {
		return 0
	}
	return c.ScrapValues[p.ScrapType]
}

// AdjustedCost is the cost p contributes to pricing. It is not floored at zero.
func (c Catalog) AdjustedCost(p SupplierProduct) float64 {
	return p.InvoicePrice - c.ScrapDeduction(p)
}
