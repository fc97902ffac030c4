package pricing

// DeriveHouse prices the house brands from the anchor tiers. Nothing is
// produced for SKUs without a Local/Import source. The returned tiers carry
// no realized GP; the matrix fills it in against the local cost.
func (c Catalog) DeriveHouse(anchor TierSet, hasLocalSource bool) map[string]TierSet {
	if !hasLocalSource {
		return nil
	}

	discount := anchor.scaled(c.House.Discount.Multiplier)
	premium := anchor.scaled(c.House.Premium.Multiplier)
	mid := TierSet{
		G: Tier{SellPrice: meanPrice(discount.G.SellPrice, premium.G.SellPrice)},
		B: Tier{SellPrice: meanPrice(discount.B.SellPrice, premium.B.SellPrice)},
		S: Tier{SellPrice: meanPrice(discount.S.SellPrice, premium.S.SellPrice)},
		A: Tier{SellPrice: meanPrice(discount.A.SellPrice, premium.A.SellPrice)},
	}

	return map[string]TierSet{
		c.House.Discount.Name: discount,
		c.House.Premium.Name:  premium,
		c.House.Mid:           mid,
	}
}
