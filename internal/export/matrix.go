package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/Simplici0/batteryprice/internal/pricing"
)

// MatrixHeader is the column layout of the matrix export.
var MatrixHeader = []string{
	"SKU",
	"Brand",
	"Baseline Cost",
	"G-Tier Price", "G-Tier GP (%)",
	"B-Tier Price", "B-Tier GP (%)",
	"S-Tier Price", "S-Tier GP (%)",
	"A-Tier Price", "A-Tier GP (%)",
}

// MatrixRow is one brand line of one SKU. Anchor rows carry the baseline
// cost, house rows the cheapest local cost.
type MatrixRow struct {
	SKU   string
	Brand string
	Cost  float64
	Tiers pricing.TierSet
}

// MatrixRows flattens the priced SKUs of branch, anchor row first and house
// rows in display order. It reads the stored states only.
func MatrixRows(m *pricing.Matrix, branch string) []MatrixRow {
	cat := m.Catalog()
	rows := make([]MatrixRow, 0)
	for _, state := range m.Branch(branch) {
		if !state.Priced() {
			continue
		}
		rows = append(rows, MatrixRow{
			SKU:   state.SKU,
			Brand: cat.AnchorLabel(),
			Cost:  state.BaselineCost,
			Tiers: *state.Anchor,
		})
		if !state.HasLocalSource {
			continue
		}
		for _, brand := range cat.HouseBrands() {
			ts, ok := state.House[brand]
			if !ok {
				continue
			}
			rows = append(rows, MatrixRow{SKU: state.SKU, Brand: brand, Cost: state.LocalCost, Tiers: ts})
		}
	}
	return rows
}

func (r MatrixRow) values() []float64 {
	out := []float64{r.Cost}
	for _, t := range pricing.Tiers {
		tier, _ := r.Tiers.Get(t)
		out = append(out, tier.SellPrice, tier.ActualGP)
	}
	return out
}

// Record renders the row as CSV fields.
func (r MatrixRow) Record() []string {
	record := []string{r.SKU, r.Brand}
	for _, v := range r.values() {
		record = append(record, money(v))
	}
	return record
}

// WriteMatrixCSV writes rows under MatrixHeader.
func WriteMatrixCSV(w io.Writer, rows []MatrixRow) error {
	records := make([][]string, 0, len(rows))
	for _, r := range rows {
		records = append(records, r.Record())
	}
	return writeCSV(w, MatrixHeader, records)
}

// WriteMatrixXLSX writes rows as a single-sheet workbook named after branch.
// Numbers are stored as numbers with a two decimal format.
func WriteMatrixXLSX(w io.Writer, branch string, rows []MatrixRow) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := sheetName(branch)
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return fmt.Errorf("name sheet: %w", err)
	}

	for i, h := range MatrixHeader {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return fmt.Errorf("write header %s: %w", cell, err)
		}
	}

	style, err := f.NewStyle(&excelize.Style{NumFmt: 2})
	if err != nil {
		return fmt.Errorf("create number style: %w", err)
	}

	for i, r := range rows {
		rowNo := i + 2
		cells := []any{r.SKU, r.Brand}
		for _, v := range r.values() {
			cells = append(cells, v)
		}
		start, err := excelize.CoordinatesToCellName(1, rowNo)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, start, &cells); err != nil {
			return fmt.Errorf("write row %d: %w", rowNo, err)
		}
	}

	if len(rows) > 0 {
		first, _ := excelize.CoordinatesToCellName(3, 2)
		last, _ := excelize.CoordinatesToCellName(len(MatrixHeader), len(rows)+1)
		if err := f.SetCellStyle(sheet, first, last, style); err != nil {
			return fmt.Errorf("style numbers: %w", err)
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

// sheetName trims branch to a valid worksheet name.
func sheetName(branch string) string {
	name := []rune(branch)
	for i, r := range name {
		switch r {
		case ':', '\\', '/', '?', '*', '[', ']':
			name[i] = '_'
		}
	}
	if len(name) > 31 {
		name = name[:31]
	}
	if len(name) == 0 {
		return "Matrix"
	}
	return string(name)
}
