package s3_returns

import (
	"math"

	"github.com/runchengxie/a-share-animal-index/internal/contracts"
)

// Factors carries the adjustment-factor tables of the pricing date and the previous open date.
// A nil *Factors means unadjusted returns.
type Factors struct {
	Current  map[string]float64
	Previous map[string]float64
}

// ComputeEqualWeightReturn joins constituents to prices (and factors) by code and
// averages the returns of the priced rows.
//
// Returns (0, nil, zero stats) for an empty constituent set. When nothing is priced
// it returns 0 together with every merged row so callers can report what is missing.
// ⭐ SSOT: S3 동일가중 수익률
func ComputeEqualWeightReturn(constituents []contracts.Constituent, prices map[string]contracts.Price, factors *Factors) (float64, []contracts.Holding, contracts.IndexStats) {
	if len(constituents) == 0 {
		return 0, []contracts.Holding{}, contracts.IndexStats{}
	}

	merged := make([]contracts.Holding, 0, len(constituents))
	priced := 0
	for _, c := range constituents {
		h := join(c, prices, factors)
		if h.Priced {
			priced++
		}
		merged = append(merged, h)
	}

	stats := contracts.IndexStats{
		Total:   len(constituents),
		Priced:  priced,
		Missing: len(constituents) - priced,
	}

	if priced == 0 {
		return 0, merged, stats
	}

	weight := 1.0 / float64(priced)
	holdings := make([]contracts.Holding, 0, priced)
	sum := 0.0
	for _, h := range merged {
		if !h.Priced {
			continue
		}
		h.Weight = weight
		sum += h.Return
		holdings = append(holdings, h)
	}

	return sum / float64(priced), holdings, stats
}

// join builds the holding row of one constituent; missing lookups leave NaN fields
func join(c contracts.Constituent, prices map[string]contracts.Price, factors *Factors) contracts.Holding {
	h := contracts.Holding{
		Code:     c.Code,
		Name:     c.Name,
		Keyword:  c.Keyword,
		Forced:   c.Forced,
		Return:   math.NaN(),
		Close:    math.NaN(),
		PreClose: math.NaN(),
	}

	p, ok := prices[c.Code]
	if !ok {
		return h
	}
	h.Close = p.Close
	h.PreClose = p.PreClose
	if !p.Valid() {
		return h
	}

	ret := p.Close/p.PreClose - 1
	if factors != nil {
		adj, ok1 := factors.Current[c.Code]
		prev, ok2 := factors.Previous[c.Code]
		if !ok1 || !ok2 || !(adj > 0) || !(prev > 0) {
			return h
		}
		ret = p.Close/p.PreClose*(adj/prev) - 1
	}

	if math.IsNaN(ret) || math.IsInf(ret, 0) {
		return h
	}

	h.Return = ret
	h.Priced = true
	return h
}
