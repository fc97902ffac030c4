package pricing

import (
	"encoding/json"
	"errors"
	"maps"
	"slices"
	"strings"
)

// PricingState is the derived pricing of one SKU in one branch. Anchor is nil
// when the SKU has no anchor-brand cost or its configuration is unusable.
type PricingState struct {
	SKU            string             `json:"sku"`
	BaselineCost   float64            `json:"baselineCost"`
	HasLocalSource bool               `json:"hasLocalSource"`
	LocalCost      float64            `json:"localCost"`
	Anchor         *TierSet           `json:"anchor"`
	House          map[string]TierSet `json:"house"`
	GpConfig       GpConfig           `json:"gpConfig"`
}

// Priced reports whether the state carries tier prices.
func (s PricingState) Priced() bool {
	return s.Anchor != nil
}

func (s PricingState) clone() PricingState {
	if s.Anchor != nil {
		anchor := *s.Anchor
		s.Anchor = &anchor
	}
	s.House = maps.Clone(s.House)
	return s
}

// Matrix is an immutable snapshot of every branch's pricing. Accessors hand
// out copies.
type Matrix struct {
	catalog  Catalog
	branches map[string]map[string]PricingState
	issues   []error
}

// Build computes the full matrix from scratch. Orphaned products and unusable
// configurations are reported through Issues and never abort the build.
func Build(cat Catalog, in Inputs) *Matrix {
	cat = cat.clone()
	suppliers := indexSuppliers(in.Suppliers)

	m := &Matrix{
		catalog:  cat,
		branches: make(map[string]map[string]PricingState, len(cat.Branches)),
	}

	bySKU := make(map[string][]SupplierProduct)
	for _, p := range in.SupplierProducts {
		if _, ok := suppliers[p.SupplierID]; !ok {
			m.issues = append(m.issues, &MissingReferenceError{ProductID: p.ID, SupplierID: p.SupplierID})
			continue
		}
		bySKU[p.InternalSKU] = append(bySKU[p.InternalSKU], p)
	}

	skus := unionSKUs(in.SupplierProducts, cat.SKUCategories)
	for _, branch := range cat.Branches {
		states := make(map[string]PricingState, len(skus))
		for _, sku := range skus {
			state, err := cat.priceSKU(sku, bySKU[sku], suppliers, in.GpInputs.Lookup(branch, sku))
			if err != nil {
				var cerr *ConfigurationError
				if errors.As(err, &cerr) {
					located := *cerr
					located.Branch, located.SKU = branch, sku
					err = &located
				}
				m.issues = append(m.issues, err)
			}
			states[sku] = state
		}
		m.branches[branch] = states
	}
	return m
}

func (c Catalog) priceSKU(sku string, products []SupplierProduct, suppliers map[string]Supplier, cfg GpConfig) (PricingState, error) {
	base := c.Baseline(products, suppliers)
	state := PricingState{
		SKU:            sku,
		BaselineCost:   base.Cost,
		HasLocalSource: base.HasLocalSource,
		LocalCost:      base.LocalCost,
		GpConfig:       cfg,
	}
	if base.Cost <= 0 {
		return state, nil
	}

	anchor, err := DeriveTiers(base.Cost, cfg)
	if err != nil {
		return state, err
	}
	state.Anchor = &anchor

	house := c.DeriveHouse(anchor, base.HasLocalSource)
	for brand, ts := range house {
		house[brand] = ts.realizedAgainst(base.LocalCost)
	}
	state.House = house
	return state, nil
}

func unionSKUs(products []SupplierProduct, categories []string) []string {
	seen := make(map[string]struct{}, len(categories)+len(products))
	for _, p := range products {
		seen[p.InternalSKU] = struct{}{}
	}
	for _, sku := range categories {
		seen[sku] = struct{}{}
	}
	return slices.Sorted(maps.Keys(seen))
}

// Catalog returns a copy of the catalog the matrix was built with.
func (m *Matrix) Catalog() Catalog {
	return m.catalog.clone()
}

// Issues returns the data-integrity and configuration problems met while
// building.
func (m *Matrix) Issues() []error {
	return slices.Clone(m.issues)
}

// State returns the pricing of sku in branch.
func (m *Matrix) State(branch, sku string) (PricingState, bool) {
	s, ok := m.branches[branch][sku]
	if !ok {
		return PricingState{}, false
	}
	return s.clone(), true
}

// Branch returns every state of branch sorted by SKU.
func (m *Matrix) Branch(branch string) []PricingState {
	states := m.branches[branch]
	out := make([]PricingState, 0, len(states))
	for _, sku := range slices.Sorted(maps.Keys(states)) {
		out = append(out, states[sku].clone())
	}
	return out
}

// Tier returns the stored VAT-exclusive tier of brand for sku in branch.
// It is false when the brand has no price there.
func (m *Matrix) Tier(branch, sku, brand string, tier TierName) (Tier, bool) {
	state, ok := m.branches[branch][sku]
	if !ok || !state.Priced() {
		return Tier{}, false
	}

	var ts TierSet
	switch {
	case m.catalog.IsAnchor(brand):
		ts = *state.Anchor
	case state.HasLocalSource:
		ts, ok = state.House[brand]
		if !ok {
			return Tier{}, false
		}
	default:
		return Tier{}, false
	}
	return ts.Get(tier)
}

// DisplayPrice is the customer-facing price of brand's tier for sku, or false
// when there is none to show.
func (m *Matrix) DisplayPrice(branch, sku, brand string, tier TierName, opts DisplayOptions) (float64, bool) {
	t, ok := m.Tier(branch, sku, brand, tier)
	if !ok {
		return 0, false
	}
	return DisplayPrice(t.SellPrice, m.catalog.VATRate, opts), true
}

type matrixJSON struct {
	Branches map[string]map[string]PricingState `json:"branches"`
	Issues   []string                           `json:"issues"`
}

// MarshalJSON encodes the branches and the issue messages.
func (m *Matrix) MarshalJSON() ([]byte, error) {
	out := matrixJSON{Branches: m.branches, Issues: make([]string, 0, len(m.issues))}
	for _, err := range m.issues {
		out.Issues = append(out.Issues, err.Error())
	}
	return json.Marshal(out)
}

// IssueMessages renders Issues for reporting.
func IssueMessages(errs []error) string {
	msgs := make([]string, 0, len(errs))
	for _, err := range errs {
		msgs = append(msgs, err.Error())
	}
	return strings.Join(msgs, "; ")
}
