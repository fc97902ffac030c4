package export

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/Simplici0/batteryprice/internal/pricing"
)

func testMatrix(t *testing.T) *pricing.Matrix {
	t.Helper()
	in := pricing.Inputs{
		Suppliers: []pricing.Supplier{
			{ID: "s1", Name: "Exide"},
			{ID: "s2", Name: "Willard"},
			{ID: "s3", Name: "Electro City"},
		},
		SupplierProducts: []pricing.SupplierProduct{
			{ID: "p1", SupplierID: "s1", SupplierSKU: "619", InternalSKU: "619", InvoicePrice: 900, SupplierType: pricing.ScrapLoaded, ScrapType: pricing.ScrapNone},
			{ID: "p2", SupplierID: "s2", SupplierSKU: "619", InternalSKU: "619", InvoicePrice: 950, SupplierType: pricing.ScrapLoaded, ScrapType: pricing.ScrapNone},
			{ID: "p3", SupplierID: "s3", SupplierSKU: "EC-619", InternalSKU: "619", InvoicePrice: 700, SupplierType: pricing.LocalImport, ScrapType: pricing.ScrapStandard},
			{ID: "p6", SupplierID: "s1", SupplierSKU: "628", InternalSKU: "628", InvoicePrice: 1100, SupplierType: pricing.ScrapLoaded, ScrapType: pricing.ScrapNone},
			{ID: "p9", SupplierID: "s3", SupplierSKU: "EC-650", InternalSKU: "650", InvoicePrice: 800, SupplierType: pricing.LocalImport, ScrapType: pricing.ScrapNone},
		},
		GpInputs: pricing.GpInputs{},
	}
	return pricing.Build(pricing.DefaultCatalog(), in)
}

func readCSV(t *testing.T, raw string) [][]string {
	t.Helper()
	records, err := csv.NewReader(strings.NewReader(raw)).ReadAll()
	if err != nil {
		t.Fatalf("parse csv: %v", err)
	}
	return records
}

func TestMatrixRowsSkipUnpricedAndOrderBrands(t *testing.T) {
	rows := MatrixRows(testMatrix(t), "Alberton")

	var got []string
	for _, r := range rows {
		got = append(got, r.SKU+" "+r.Brand)
	}
	want := []string{
		"619 Exide/Willard",
		"619 Global 12",
		"619 Novax 18",
		"619 Novax Premium",
		"628 Exide/Willard",
	}
	if strings.Join(got, "|") != strings.Join(want, "|") {
		t.Fatalf("rows = %v, want %v", got, want)
	}
}

func TestWriteMatrixCSV(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteMatrixCSV(&buf, MatrixRows(testMatrix(t), "Alberton")); err != nil {
		t.Fatalf("write csv: %v", err)
	}

	records := readCSV(t, buf.String())
	if strings.Join(records[0], ",") != strings.Join(MatrixHeader, ",") {
		t.Fatalf("unexpected header %v", records[0])
	}

	wantAnchor := "619,Exide/Willard,925.00,1088.24,15.00,1197.06,22.73,1541.67,40.00,1369.36,32.45"
	if got := strings.Join(records[1], ","); got != wantAnchor {
		t.Fatalf("anchor row = %s, want %s", got, wantAnchor)
	}
	wantHouse := "619,Global 12,550.00,870.59,36.82,957.65,42.57,1233.33,55.41,1095.49,49.79"
	if got := strings.Join(records[2], ","); got != wantHouse {
		t.Fatalf("house row = %s, want %s", got, wantHouse)
	}
	wantMid := "619,Novax 18,550.00,925.00,40.54,1017.50,45.95,1310.42,58.03,1163.96,52.75"
	if got := strings.Join(records[3], ","); got != wantMid {
		t.Fatalf("mid row = %s, want %s", got, wantMid)
	}
}

func TestWriteMatrixXLSX(t *testing.T) {
	rows := MatrixRows(testMatrix(t), "Vanderbijlpark")

	var buf bytes.Buffer
	if err := WriteMatrixXLSX(&buf, "Vanderbijlpark", rows); err != nil {
		t.Fatalf("write xlsx: %v", err)
	}

	f, err := excelize.OpenReader(&buf)
	if err != nil {
		t.Fatalf("open workbook: %v", err)
	}
	defer f.Close()

	got, err := f.GetRows("Vanderbijlpark")
	if err != nil {
		t.Fatalf("read rows: %v", err)
	}
	if len(got) != len(rows)+1 {
		t.Fatalf("expected %d rows, got %d", len(rows)+1, len(got))
	}
	if got[0][0] != "SKU" || got[1][1] != "Exide/Willard" {
		t.Fatalf("unexpected first rows %v %v", got[0], got[1])
	}
	if got[1][2] != "925.00" {
		t.Fatalf("expected formatted baseline cost, got %q", got[1][2])
	}
}

func TestBuildPriceList(t *testing.T) {
	m := testMatrix(t)
	q := PriceListQuery{Tier: pricing.TierS, Options: pricing.DisplayOptions{Rounding: 50, ShowVAT: true}}

	list := BuildPriceList(m, "Alberton", q)
	if list.Tier != "S - Counter Prices" {
		t.Fatalf("unexpected tier label %q", list.Tier)
	}
	if len(list.Rows) != 2 {
		t.Fatalf("expected 2 priced skus, got %d", len(list.Rows))
	}

	row := list.Rows[0]
	checks := map[string]float64{
		"Exide":         1750,
		"Willard":       1750,
		"Global 12":     1400,
		"Novax 18":      1500,
		"Novax Premium": 1600,
	}
	for brand, want := range checks {
		p := row.Prices[brand]
		if p == nil || *p != want {
			t.Fatalf("%s price = %v, want %v", brand, p, want)
		}
	}
	if list.Rows[1].Prices["Global 12"] != nil {
		t.Fatalf("628 has no local source, house price should be nil")
	}
}

func TestBuildPriceListSearch(t *testing.T) {
	m := testMatrix(t)
	base := PriceListQuery{Tier: pricing.TierG, Options: pricing.DisplayOptions{ShowVAT: false}}

	cases := map[string][]string{
		"62":      {"628"},
		"novax":   {"619"},
		"WILLARD": {"619", "628"},
		"zzz":     {},
	}
	for term, want := range cases {
		q := base
		q.Search = term
		list := BuildPriceList(m, "Sasolburg", q)
		var got []string
		for _, r := range list.Rows {
			got = append(got, r.SKU)
		}
		if strings.Join(got, ",") != strings.Join(want, ",") {
			t.Fatalf("search %q = %v, want %v", term, got, want)
		}
	}
}

func TestBuildPriceListBrandSearchNeedsOfferedBrand(t *testing.T) {
	q := PriceListQuery{Tier: pricing.TierS, Options: pricing.DisplayOptions{Rounding: 50, ShowVAT: true}, Search: "Global 12"}
	list := BuildPriceList(testMatrix(t), "Alberton", q)

	// 628 has no local source, so Global 12 is not offered for it.
	if len(list.Rows) != 1 || list.Rows[0].SKU != "619" {
		t.Fatalf("expected only 619, got %+v", list.Rows)
	}
	if list.Rows[0].Prices["Global 12"] == nil {
		t.Fatalf("matched brand should carry a price")
	}

	q.Search = "exide"
	if list := BuildPriceList(testMatrix(t), "Alberton", q); len(list.Rows) != 2 {
		t.Fatalf("anchor brand is offered for every priced sku, got %+v", list.Rows)
	}
}

func TestWritePriceListCSVBlankForMissing(t *testing.T) {
	q := PriceListQuery{Tier: pricing.TierS, Options: pricing.DisplayOptions{Rounding: 50, ShowVAT: true}}
	var buf bytes.Buffer
	if err := WritePriceListCSV(&buf, BuildPriceList(testMatrix(t), "Alberton", q)); err != nil {
		t.Fatalf("write csv: %v", err)
	}

	records := readCSV(t, buf.String())
	if got := strings.Join(records[0], ","); got != "SKU,Exide,Willard,Global 12,Novax 18,Novax Premium" {
		t.Fatalf("unexpected header %s", got)
	}
	if got := strings.Join(records[1], ","); got != "619,1750.00,1750.00,1400.00,1500.00,1600.00" {
		t.Fatalf("unexpected 619 row %s", got)
	}
	if records[2][0] != "628" || records[2][3] != "" {
		t.Fatalf("expected blank house price for 628, got %v", records[2])
	}
}

func TestSupplierCosts(t *testing.T) {
	cat := pricing.DefaultCatalog()
	products := []pricing.SupplierProduct{
		{SupplierSKU: "EC-619", InternalSKU: "619", InvoicePrice: 700, SupplierType: pricing.LocalImport, ScrapType: pricing.ScrapStandard},
		{SupplierSKU: "EC-652", InternalSKU: "652", InvoicePrice: 200, SupplierType: pricing.LocalImport, ScrapType: pricing.ScrapLarge},
		{SupplierSKU: "619", InternalSKU: "619", InvoicePrice: 900, SupplierType: pricing.ScrapLoaded, ScrapType: pricing.ScrapNone},
	}

	var buf bytes.Buffer
	if err := WriteSupplierCostsCSV(&buf, SupplierCosts(cat, products)); err != nil {
		t.Fatalf("write csv: %v", err)
	}

	want := strings.Join([]string{
		"SKU (Internal),SKU (Supplier),Invoice Price,Scrap Deduction,Adjusted Cost",
		"619,EC-619,700.00,150.00,550.00",
		"652,EC-652,200.00,250.00,-50.00",
		"619,619,900.00,0.00,900.00",
	}, "\n") + "\n"
	if buf.String() != want {
		t.Fatalf("csv =\n%s\nwant\n%s", buf.String(), want)
	}
}

func TestFilename(t *testing.T) {
	day := time.Date(2024, 5, 1, 15, 0, 0, 0, time.UTC)
	if got := Filename("Supplier_Costs", "Electro City", day, "csv"); got != "Supplier_Costs_Electro_City_2024-05-01.csv" {
		t.Fatalf("unexpected filename %q", got)
	}
}
