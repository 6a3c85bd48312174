package contracts

import "math"

// Price is one daily bar reduced to what the return engine needs.
// Missing vendor values are NaN.
type Price struct {
	Code     string  `json:"ts_code"`
	Close    float64 `json:"close"`
	PreClose float64 `json:"pre_close"`
}

// Valid reports whether close and pre_close are present and pre_close is positive
func (p Price) Valid() bool {
	return !math.IsNaN(p.Close) && !math.IsNaN(p.PreClose) && p.PreClose > 0
}

// AdjFactor is the cumulative adjustment factor of a security on one date
type AdjFactor struct {
	Code   string  `json:"ts_code"`
	Factor float64 `json:"adj_factor"`
}

// TradeDay is one row of the trading calendar
type TradeDay struct {
	Date         string `json:"cal_date"`
	IsOpen       bool   `json:"is_open"`
	PreTradeDate string `json:"pretrade_date,omitempty"`
}

// PriceIndex keys prices by code
func PriceIndex(prices []Price) map[string]Price {
	idx := make(map[string]Price, len(prices))
	for _, p := range prices {
		idx[p.Code] = p
	}
	return idx
}

// FactorIndex keys adjustment factors by code.
// Non-positive or NaN factors are dropped so lookups treat them as missing.
func FactorIndex(factors []AdjFactor) map[string]float64 {
	idx := make(map[string]float64, len(factors))
	for _, f := range factors {
		if math.IsNaN(f.Factor) || f.Factor <= 0 {
			continue
		}
		idx[f.Code] = f.Factor
	}
	return idx
}
