package pricing

import (
	"maps"
	"slices"
	"strings"
)

// Catalog is the business data prices are derived against. The engine reads
// nothing else, so tests can price synthetic catalogs.
type Catalog struct {
	Branches      []string
	AnchorBrands  []string
	House         HouseLineup
	ScrapValues   map[ScrapType]float64
	SKUCategories []string
	VATRate       float64
}

// BrandMultiplier prices a house brand as a fixed share of the anchor price.
type BrandMultiplier struct {
	Name       string
	Multiplier float64
}

// HouseLineup is the three house brands. Mid is priced at the mean of Discount
// and Premium; Order is the display order of the three names.
type HouseLineup struct {
	Discount BrandMultiplier
	Premium  BrandMultiplier
	Mid      string
	Order    []string
}

// DefaultCatalog returns the production catalog.
func DefaultCatalog() Catalog {
	return Catalog{
		Branches:     []string{"Alberton", "Vanderbijlpark", "Sasolburg"},
		AnchorBrands: []string{"Exide", "Willard"},
		House: HouseLineup{
			Discount: BrandMultiplier{Name: "Global 12", Multiplier: 0.80},
			Premium:  BrandMultiplier{Name: "Novax Premium", Multiplier: 0.90},
			Mid:      "Novax 18",
			Order:    []string{"Global 12", "Novax 18", "Novax Premium"},
		},
		ScrapValues: map[ScrapType]float64{
			ScrapNone:     0,
			ScrapStandard: 150,
			ScrapLarge:    250,
		},
		SKUCategories: []string{
			"610", "611", "612", "615", "616", "619", "621", "622", "628", "630", "631", "634", "636",
			"636CS / HT", "638", "639", "640 / 643", "646", "651", "652", "652PS 75Ah", "657", "659",
			"650", "658", "668", "669", "674", "682", "683", "689", "690", "692", "695", "696",
			"SMF100 / 674TP", "SMF101 / 674SP", "612AGM", "646AGM", "652AGM", "668AGM", "658AGM",
			"RR0", "RR1",
		},
		VATRate: 0.15,
	}
}

// clone returns a copy of c sharing no slices or maps with it.
func (c Catalog) clone() Catalog {
	c.Branches = slices.Clone(c.Branches)
	c.AnchorBrands = slices.Clone(c.AnchorBrands)
	c.House.Order = slices.Clone(c.House.Order)
	c.ScrapValues = maps.Clone(c.ScrapValues)
	c.SKUCategories = slices.Clone(c.SKUCategories)
	return c
}

// IsAnchor reports whether a supplier name is one of the anchor brands.
func (c Catalog) IsAnchor(name string) bool {
	return slices.Contains(c.AnchorBrands, name)
}

// AnchorLabel is the single brand label anchor rows are exported under.
func (c Catalog) AnchorLabel() string {
	return strings.Join(c.AnchorBrands, "/")
}

// HouseBrands returns the house brand names in display order.
func (c Catalog) HouseBrands() []string {
	if len(c.House.Order) > 0 {
		return slices.Clone(c.House.Order)
	}
	return []string{c.House.Discount.Name, c.House.Mid, c.House.Premium.Name}
}

// Brands returns anchor brands followed by house brands.
func (c Catalog) Brands() []string {
	return append(slices.Clone(c.AnchorBrands), c.HouseBrands()...)
}

// IsHouse reports whether name is one of the house brands.
func (c Catalog) IsHouse(name string) bool {
	return slices.Contains(c.HouseBrands(), name)
}

// HasBranch reports whether branch is configured.
func (c Catalog) HasBranch(branch string) bool {
	return slices.Contains(c.Branches, branch)
}
