package export

import (
	"io"
	"strings"

	"github.com/Simplici0/batteryprice/internal/pricing"
)

// PriceListQuery selects what a customer price list shows.
type PriceListQuery struct {
	Tier    pricing.TierName
	Options pricing.DisplayOptions
	Search  string
}

// PriceListRow is one SKU with a display price per brand. A nil price means
// the brand is not offered for the SKU.
type PriceListRow struct {
	SKU    string              `json:"sku"`
	Prices map[string]*float64 `json:"prices"`
}

// PriceList is a tier's customer prices for one branch.
type PriceList struct {
	Branch  string         `json:"branch"`
	Tier    string         `json:"tier"`
	ShowVAT bool           `json:"showVat"`
	Brands  []string       `json:"brands"`
	Rows    []PriceListRow `json:"rows"`
}

// BuildPriceList lists the priced SKUs of branch that match q.Search on the
// SKU or on the name of a brand offered for it. A brand without a price for a
// SKU does not make that SKU match.
func BuildPriceList(m *pricing.Matrix, branch string, q PriceListQuery) PriceList {
	brands := m.Catalog().Brands()
	term := strings.ToLower(strings.TrimSpace(q.Search))

	list := PriceList{
		Branch:  branch,
		Tier:    q.Tier.Label(),
		ShowVAT: q.Options.ShowVAT,
		Brands:  brands,
		Rows:    make([]PriceListRow, 0),
	}
	for _, state := range m.Branch(branch) {
		if !state.Priced() {
			continue
		}

		row := PriceListRow{SKU: state.SKU, Prices: make(map[string]*float64, len(brands))}
		matched := term == "" || strings.Contains(strings.ToLower(state.SKU), term)
		for _, brand := range brands {
			price, ok := m.DisplayPrice(branch, state.SKU, brand, q.Tier, q.Options)
			if !ok {
				row.Prices[brand] = nil
				continue
			}
			row.Prices[brand] = &price
			if !matched && strings.Contains(strings.ToLower(brand), term) {
				matched = true
			}
		}
		if matched {
			list.Rows = append(list.Rows, row)
		}
	}
	return list
}

// WritePriceListCSV writes one line per SKU with a column per brand. Missing
// prices are left blank.
func WritePriceListCSV(w io.Writer, list PriceList) error {
	header := append([]string{"SKU"}, list.Brands...)
	records := make([][]string, 0, len(list.Rows))
	for _, row := range list.Rows {
		record := []string{row.SKU}
		for _, brand := range list.Brands {
			if p := row.Prices[brand]; p != nil {
				record = append(record, money(*p))
			} else {
				record = append(record, "")
			}
		}
		records = append(records, record)
	}
	return writeCSV(w, header, records)
}
