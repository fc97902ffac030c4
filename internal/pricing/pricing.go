// Package pricing derives branch, brand and tier sell prices for battery SKUs
// from supplier invoice costs.
package pricing

import "math"

// SupplierType tells whether an invoice price already carries the scrap credit.
type SupplierType string

const (
	ScrapLoaded SupplierType = "Scrap-Loaded"
	LocalImport SupplierType = "Local/Import"
)

// ScrapType selects the scrap deduction applied to Local/Import invoices.
type ScrapType string

const (
	ScrapNone     ScrapType = "none"
	ScrapStandard ScrapType = "standard"
	ScrapLarge    ScrapType = "large"
)

// Supplier is a brand or distributor products are bought from.
type Supplier struct {
	ID   string `json:"id" validate:"required"`
	Name string `json:"name" validate:"required"`
}

// SupplierProduct is one supplier's invoice line for an internal SKU.
type SupplierProduct struct {
	ID           string       `json:"id" validate:"required"`
	SupplierID   string       `json:"supplierId" validate:"required"`
	SupplierSKU  string       `json:"supplierSku"`
	InternalSKU  string       `json:"internalSku" validate:"required"`
	InvoicePrice float64      `json:"invoicePrice" validate:"gte=0"`
	SupplierType SupplierType `json:"supplierType" validate:"oneof=Scrap-Loaded Local/Import"`
	ScrapType    ScrapType    `json:"scrapType" validate:"oneof=none standard large"`
}

// Normalized returns p with the scrap invariant applied: scrap-loaded invoices
// never carry a scrap deduction.
func (p SupplierProduct) Normalized() SupplierProduct {
	if p.SupplierType == ScrapLoaded || p.ScrapType == "" {
		p.ScrapType = ScrapNone
	}
	return p
}

// BMode selects how the B tier is derived from the G tier.
type BMode string

const (
	BModeAuto   BMode = "auto"
	BModeManual BMode = "manual"
)

// Default GP configuration values.
const (
	DefaultG      = 0.15
	DefaultS      = 0.40
	DefaultBValue = 10
)

// GpConfig holds the target margins of one SKU in one branch. G and S are
// fractions, BValue is in percentage points over the G price.
type GpConfig struct {
	G      float64 `json:"g" validate:"gt=0,lt=1"`
	S      float64 `json:"s" validate:"gt=0,lt=1"`
	BMode  BMode   `json:"b_mode" validate:"oneof=auto manual"`
	BValue float64 `json:"b_value"`
}

// DefaultGpConfig returns the configuration used for SKUs nobody has tuned yet.
func DefaultGpConfig() GpConfig {
	return GpConfig{G: DefaultG, S: DefaultS, BMode: BModeAuto, BValue: DefaultBValue}
}

// WithManualB switches the B tier to a manual markup of pct over G.
func (c GpConfig) WithManualB(pct float64) GpConfig {
	c.BMode = BModeManual
	c.BValue = pct
	return c
}

// WithAutoB switches the B tier back to the automatic markup and resets the
// remembered manual value.
func (c GpConfig) WithAutoB() GpConfig {
	c.BMode = BModeAuto
	c.BValue = DefaultBValue
	return c
}

// Validate rejects fractions that would give a non-positive price divisor.
func (c GpConfig) Validate() error {
	if fe := firstFieldError(c); fe != nil {
		return &ConfigurationError{Field: fe.Field(), Value: fe.Value(), Reason: reasonFor(fe)}
	}
	if math.IsNaN(c.BValue) || math.IsInf(c.BValue, 0) {
		return &ConfigurationError{Field: "b_value", Value: c.BValue, Reason: "must be a finite number"}
	}
	return nil
}

// GpInputs maps branch, then internal SKU, to its GP configuration.
type GpInputs map[string]map[string]GpConfig

// Lookup returns the configuration for branch and sku, or the defaults when
// none was stored.
func (g GpInputs) Lookup(branch, sku string) GpConfig {
	if cfg, ok := g[branch][sku]; ok {
		return cfg
	}
	return DefaultGpConfig()
}

// Set stores cfg for branch and sku, allocating the branch map as needed.
func (g GpInputs) Set(branch, sku string, cfg GpConfig) {
	if g[branch] == nil {
		g[branch] = make(map[string]GpConfig)
	}
	g[branch][sku] = cfg
}

// Inputs is everything the matrix is computed from.
type Inputs struct {
	Suppliers        []Supplier        `json:"suppliers"`
	SupplierProducts []SupplierProduct `json:"supplierProducts"`
	GpInputs         GpInputs          `json:"gpInputs"`
}

func indexSuppliers(suppliers []Supplier) map[string]Supplier {
	idx := make(map[string]Supplier, len(suppliers))
	for _, s := range suppliers {
		idx[s.ID] = s
	}
	return idx
}
