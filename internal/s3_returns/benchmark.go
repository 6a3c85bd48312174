package s3_returns

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/runchengxie/a-share-animal-index/internal/contracts"
)

// Mode selects how the benchmark instrument is sourced
type Mode string

const (
	ModeIndex Mode = "index" // index level, close/pre_close
	ModeFund  Mode = "fund"  // ETF proxy with fund_adj factors
	ModeStock Mode = "stock" // single equity with the general adj_factor table
)

// ParseMode validates a benchmark mode string
func ParseMode(s string) (Mode, error) {
	switch m := Mode(strings.ToLower(strings.TrimSpace(s))); m {
	case ModeIndex, ModeFund, ModeStock:
		return m, nil
	default:
		return "", fmt.Errorf("invalid benchmark mode %q (want index, fund or stock)", s)
	}
}

// NeedsAdjFactors reports whether the mode reads the general adj_factor table
func (m Mode) NeedsAdjFactors() bool {
	return m == ModeStock
}

// Benchmark is the designated comparison instrument
type Benchmark struct {
	Mode  Mode
	Code  string
	Label string
}

// Input is what one benchmark computation needs beyond its own lookups.
// Daily and Factors are the cross-sectional tables already loaded for the date (stock mode).
type Input struct {
	Date     string
	PrevDate string
	Daily    map[string]contracts.Price
	Factors  *Factors
}

// Return computes the benchmark's daily return on in.Date
func (b Benchmark) Return(ctx context.Context, src contracts.BenchmarkSource, in Input) (float64, error) {
	switch b.Mode {
	case ModeIndex:
		return b.indexReturn(ctx, src, in)
	case ModeFund:
		return b.fundReturn(ctx, src, in)
	case ModeStock:
		return b.stockReturn(in)
	default:
		return 0, fmt.Errorf("invalid benchmark mode %q", b.Mode)
	}
}

func (b Benchmark) indexReturn(ctx context.Context, src contracts.BenchmarkSource, in Input) (float64, error) {
	rows, err := src.IndexDaily(ctx, b.Code, in.Date)
	if err != nil {
		return 0, &contracts.UpstreamError{Op: "index_daily", Date: in.Date, Err: err}
	}
	p, err := b.pick(rows, in.Date, "index_daily")
	if err != nil {
		return 0, err
	}
	return b.checked(in.Date, "index_daily", p, 1, 1)
}

func (b Benchmark) fundReturn(ctx context.Context, src contracts.BenchmarkSource, in Input) (float64, error) {
	rows, err := src.FundDaily(ctx, b.Code, in.Date)
	if err != nil {
		return 0, &contracts.UpstreamError{Op: "fund_daily", Date: in.Date, Err: err}
	}
	p, err := b.pick(rows, in.Date, "fund_daily")
	if err != nil {
		return 0, err
	}

	adj, err := b.fundFactor(ctx, src, in.Date)
	if err != nil {
		return 0, err
	}
	prev, err := b.fundFactor(ctx, src, in.PrevDate)
	if err != nil {
		return 0, err
	}
	return b.checked(in.Date, "fund_adj", p, adj, prev)
}

func (b Benchmark) fundFactor(ctx context.Context, src contracts.BenchmarkSource, date string) (float64, error) {
	rows, err := src.FundAdjFactors(ctx, b.Code, date)
	if err != nil {
		return 0, &contracts.UpstreamError{Op: "fund_adj", Date: date, Err: err}
	}
	for _, r := range rows {
		if r.Code == b.Code {
			return r.Factor, nil
		}
	}
	return 0, &contracts.DataQualityError{
		Date:    date,
		Field:   "fund_adj",
		Message: fmt.Sprintf("no adjustment factor for benchmark %s", b.Code),
	}
}

func (b Benchmark) stockReturn(in Input) (float64, error) {
	p, ok := in.Daily[b.Code]
	if !ok {
		return 0, &contracts.DataQualityError{
			Date:    in.Date,
			Field:   "daily",
			Message: fmt.Sprintf("no price row for benchmark %s", b.Code),
		}
	}
	if in.Factors == nil {
		return 0, &contracts.DataQualityError{Date: in.Date, Field: "adj_factor", Message: "stock benchmark requires adjustment factors"}
	}

	adj, ok := in.Factors.Current[b.Code]
	if !ok {
		return 0, &contracts.DataQualityError{
			Date:    in.Date,
			Field:   "adj_factor",
			Message: fmt.Sprintf("no positive adjustment factor for benchmark %s", b.Code),
		}
	}
	prev, ok := in.Factors.Previous[b.Code]
	if !ok {
		return 0, &contracts.DataQualityError{
			Date:    in.PrevDate,
			Field:   "adj_factor",
			Message: fmt.Sprintf("no positive adjustment factor for benchmark %s", b.Code),
		}
	}
	return b.checked(in.Date, "adj_factor", p, adj, prev)
}

// pick returns the row of the benchmark code, or the only row when the source filtered already
func (b Benchmark) pick(rows []contracts.Price, date, field string) (contracts.Price, error) {
	for _, r := range rows {
		if r.Code == b.Code {
			return r, nil
		}
	}
	if len(rows) == 1 && rows[0].Code == "" {
		return rows[0], nil
	}
	return contracts.Price{}, &contracts.DataQualityError{
		Date:    date,
		Field:   field,
		Message: fmt.Sprintf("no rows for benchmark %s", b.Code),
	}
}

// checked runs AdjustedReturn and reports invalid inputs as data-quality failures of this date
func (b Benchmark) checked(date, factorField string, p contracts.Price, adj, prev float64) (float64, error) {
	if math.IsNaN(p.Close) {
		return 0, &contracts.DataQualityError{Date: date, Field: "close", Message: fmt.Sprintf("benchmark %s close is missing", b.Code)}
	}

	ret, err := AdjustedReturn(p.Close, p.PreClose, adj, prev)
	if err != nil {
		var ve contracts.ValidationError
		if errors.As(err, &ve) {
			field := ve.Field
			if field != "pre_close" {
				field = factorField + "." + field
			}
			return 0, &contracts.DataQualityError{
				Date:    date,
				Field:   field,
				Message: fmt.Sprintf("benchmark %s: %v", b.Code, err),
			}
		}
		return 0, err
	}
	return ret, nil
}
