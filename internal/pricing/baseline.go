package pricing

// Baseline is the cost basis of one SKU.
type Baseline struct {
	// Cost is the mean adjusted cost of the anchor-brand products, zero when
	// the SKU has none.
	Cost        float64
	AnchorCount int
	// HasLocalSource is true when any product is a Local/Import invoice.
	HasLocalSource bool
	// LocalCost is the cheapest Local/Import adjusted cost, zero without one.
	LocalCost float64
}

// Baseline aggregates the products of a single internal SKU. Products whose
// supplier is not in suppliers are skipped.
func (c Catalog) Baseline(products []SupplierProduct, suppliers map[string]Supplier) Baseline {
	var b Baseline
	var sum float64
	for _, p := range products {
		supplier, ok := suppliers[p.SupplierID]
		if !ok {
			continue
		}
		cost := c.AdjustedCost(p)
		if c.IsAnchor(supplier.Name) {
			sum += cost
			b.AnchorCount++
		}
		if p.SupplierType == LocalImport {
			if !b.HasLocalSource || cost < b.LocalCost {
				b.LocalCost = cost
			}
			b.HasLocalSource = true
		}
	}
	if b.AnchorCount > 0 {
		b.Cost = sum / float64(b.AnchorCount)
	}
	return b
}
