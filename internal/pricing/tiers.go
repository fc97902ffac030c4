package pricing

import "fmt"

// TierName identifies a customer pricing bracket.
type TierName string

const (
	TierG TierName = "g"
	TierB TierName = "b"
	TierS TierName = "s"
	TierA TierName = "a"
)

// Tiers lists every tier in display order.
var Tiers = []TierName{TierG, TierB, TierS, TierA}

// autoBMarkup is the B-over-G markup in auto mode. It does not follow b_value.
const autoBMarkup = 0.10

// ParseTier maps "g", "b", "s" or "a" to its TierName.
func ParseTier(s string) (TierName, bool) {
	for _, t := range Tiers {
		if string(t) == s {
			return t, true
		}
	}
	return "", false
}

// Label is the customer-facing name of the tier.
func (t TierName) Label() string {
	switch t {
	case TierG:
		return "G - Large Customers"
	case TierB:
		return "B - Good Customers"
	case TierS:
		return "S - Counter Prices"
	case TierA:
		return "A - Advertising Prices"
	}
	return string(t)
}

// Tier is a sell price with the margin it realizes over its cost basis.
type Tier struct {
	SellPrice float64 `json:"sellPrice"`
	ActualGP  float64 `json:"actualGp"`
}

// TierSet holds all four tiers of one brand.
type TierSet struct {
	G Tier `json:"g"`
	B Tier `json:"b"`
	S Tier `json:"s"`
	A Tier `json:"a"`
}

// Get returns the tier named t.
func (ts TierSet) Get(t TierName) (Tier, bool) {
	switch t {
	case TierG:
		return ts.G, true
	case TierB:
		return ts.B, true
	case TierS:
		return ts.S, true
	case TierA:
		return ts.A, true
	}
	return Tier{}, false
}

// ActualGP is the realized margin of price over cost in percent, or zero for
// a non-positive price.
func ActualGP(price, cost float64) float64 {
	if price > 0 {
		return ((price - cost) / price) * 100
	}
	return 0
}

func (ts TierSet) scaled(f float64) TierSet {
	return TierSet{
		G: Tier{SellPrice: ts.G.SellPrice * f},
		B: Tier{SellPrice: ts.B.SellPrice * f},
		S: Tier{SellPrice: ts.S.SellPrice * f},
		A: Tier{SellPrice: ts.A.SellPrice * f},
	}
}

func (ts TierSet) realizedAgainst(cost float64) TierSet {
	ts.G.ActualGP = ActualGP(ts.G.SellPrice, cost)
	ts.B.ActualGP = ActualGP(ts.B.SellPrice, cost)
	ts.S.ActualGP = ActualGP(ts.S.SellPrice, cost)
	ts.A.ActualGP = ActualGP(ts.A.SellPrice, cost)
	return ts
}

func meanPrice(a, b float64) float64 {
	return (a + b) / 2
}

// DeriveTiers prices the anchor brands from their baseline cost.
func DeriveTiers(baselineCost float64, cfg GpConfig) (TierSet, error) {
	if err := cfg.Validate(); err != nil {
		return TierSet{}, err
	}
	if !(baselineCost > 0) {
		return TierSet{}, fmt.Errorf("derive tiers for %v: %w", baselineCost, ErrNoBaseline)
	}

	g := baselineCost / (1 - cfg.G)
	s := baselineCost / (1 - cfg.S)

	markup := autoBMarkup
	if cfg.BMode == BModeManual {
		markup = cfg.BValue / 100
	}
	b := g * (1 + markup)

	ts := TierSet{
		G: Tier{SellPrice: g},
		B: Tier{SellPrice: b},
		S: Tier{SellPrice: s},
		A: Tier{SellPrice: meanPrice(b, s)},
	}
	return ts.realizedAgainst(baselineCost), nil
}
