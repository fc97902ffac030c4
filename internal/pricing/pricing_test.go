package pricing

import (
	"errors"
	"math"
	"testing"
)

func nearlyEqual(t *testing.T, name string, got, want float64) {
	t.Helper()
	if math.Abs(got-want) > 1e-9 {
		t.Fatalf("%s = %v, want %v", name, got, want)
	}
}

func cents(v float64) float64 {
	return math.Round(v*100) / 100
}

func TestAdjustedCost_ScrapLoadedKeepsInvoicePrice(t *testing.T) {
	cat := DefaultCatalog()
	for _, scrap := range []ScrapType{ScrapNone, ScrapStandard, ScrapLarge} {
		p := SupplierProduct{InvoicePrice: 900, SupplierType: ScrapLoaded, ScrapType: scrap}
		nearlyEqual(t, "adjusted "+string(scrap), cat.AdjustedCost(p), 900)
	}
}

func TestAdjustedCost_LocalImportDeductsScrap(t *testing.T) {
	cat := DefaultCatalog()

	nearlyEqual(t, "none", cat.AdjustedCost(SupplierProduct{InvoicePrice: 700, SupplierType: LocalImport, ScrapType: ScrapNone}), 700)
	nearlyEqual(t, "standard", cat.AdjustedCost(SupplierProduct{InvoicePrice: 700, SupplierType: LocalImport, ScrapType: ScrapStandard}), 550)
	nearlyEqual(t, "large", cat.AdjustedCost(SupplierProduct{InvoicePrice: 1200, SupplierType: LocalImport, ScrapType: ScrapLarge}), 950)
}

func TestAdjustedCost_CanGoNegative(t *testing.T) {
	cat := DefaultCatalog()
	p := SupplierProduct{InvoicePrice: 100, SupplierType: LocalImport, ScrapType: ScrapLarge}

	nearlyEqual(t, "adjusted", cat.AdjustedCost(p), -150)
}

func TestAdjustedCost_UsesCatalogScrapTable(t *testing.T) {
	cat := DefaultCatalog()
	cat.ScrapValues = map[ScrapType]float64{ScrapStandard: 20}
	p := SupplierProduct{InvoicePrice: 100, SupplierType: LocalImport, ScrapType: ScrapStandard}

	nearlyEqual(t, "adjusted", cat.AdjustedCost(p), 80)
	nearlyEqual(t, "deduction", cat.ScrapDeduction(p), 20)
}

func TestGpConfigValidate(t *testing.T) {
	cases := []struct {
		name  string
		cfg   GpConfig
		field string
	}{
		{name: "g of one", cfg: GpConfig{G: 1, S: 0.4, BMode: BModeAuto}, field: "g"},
		{name: "s above one", cfg: GpConfig{G: 0.15, S: 1.2, BMode: BModeAuto}, field: "s"},
		{name: "zero g", cfg: GpConfig{G: 0, S: 0.4, BMode: BModeAuto}, field: "g"},
		{name: "nan s", cfg: GpConfig{G: 0.15, S: math.NaN(), BMode: BModeAuto}, field: "s"},
		{name: "bad mode", cfg: GpConfig{G: 0.15, S: 0.4, BMode: "sometimes"}, field: "b_mode"},
		{name: "infinite b", cfg: GpConfig{G: 0.15, S: 0.4, BMode: BModeManual, BValue: math.Inf(1)}, field: "b_value"},
	}

	for _, tc := range cases {
		err := tc.cfg.Validate()
		if !errors.Is(err, ErrConfiguration) {
			t.Fatalf("%s: expected configuration error, got %v", tc.name, err)
		}
		var cerr *ConfigurationError
		if !errors.As(err, &cerr) || cerr.Field != tc.field {
			t.Fatalf("%s: expected field %q, got %+v", tc.name, tc.field, cerr)
		}
	}

	if err := DefaultGpConfig().Validate(); err != nil {
		t.Fatalf("default config rejected: %v", err)
	}
}

func TestGpConfig_BModeSwitches(t *testing.T) {
	cfg := DefaultGpConfig().WithManualB(25)
	if cfg.BMode != BModeManual || cfg.BValue != 25 {
		t.Fatalf("unexpected manual config: %+v", cfg)
	}

	cfg = cfg.WithAutoB()
	if cfg.BMode != BModeAuto || cfg.BValue != DefaultBValue {
		t.Fatalf("unexpected auto config: %+v", cfg)
	}
}

func TestGpInputsLookupFallsBackToDefaults(t *testing.T) {
	var nilInputs GpInputs
	if got := nilInputs.Lookup("Alberton", "619"); got != DefaultGpConfig() {
		t.Fatalf("nil inputs lookup = %+v", got)
	}

	inputs := GpInputs{}
	inputs.Set("Alberton", "619", GpConfig{G: 0.2, S: 0.5, BMode: BModeAuto, BValue: 10})

	if got := inputs.Lookup("Alberton", "619"); got.G != 0.2 {
		t.Fatalf("stored config not returned: %+v", got)
	}
	if got := inputs.Lookup("Sasolburg", "619"); got != DefaultGpConfig() {
		t.Fatalf("missing branch lookup = %+v", got)
	}
}

func TestSupplierProductValidate(t *testing.T) {
	valid := SupplierProduct{ID: "p1", SupplierID: "s1", InternalSKU: "619", InvoicePrice: 900, SupplierType: LocalImport, ScrapType: ScrapStandard}
	if err := valid.Validate(); err != nil {
		t.Fatalf("valid product rejected: %v", err)
	}

	negative := valid
	negative.InvoicePrice = -1
	if err := negative.Validate(); !errors.Is(err, ErrInvalidRecord) {
		t.Fatalf("expected invalid record for negative price, got %v", err)
	}

	scrapLoaded := valid
	scrapLoaded.SupplierType = ScrapLoaded
	if err := scrapLoaded.Validate(); !errors.Is(err, ErrInvalidRecord) {
		t.Fatalf("expected scrap invariant violation, got %v", err)
	}
	if err := scrapLoaded.Normalized().Validate(); err != nil {
		t.Fatalf("normalized product rejected: %v", err)
	}
}
