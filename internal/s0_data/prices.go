package s0_data

import (
	"context"

	"github.com/runchengxie/a-share-animal-index/internal/contracts"
)

// DailyPrices returns the cross-sectional daily table of a trade date
func (c *Client) DailyPrices(ctx context.Context, date string) ([]contracts.Price, error) {
	t, err := c.query(ctx, "daily", map[string]string{"trade_date": date}, "ts_code,close,pre_close")
	if err != nil {
		return nil, err
	}
	return prices(t), nil
}

// AdjFactors returns the cross-sectional adjustment factors of a trade date
func (c *Client) AdjFactors(ctx context.Context, date string) ([]contracts.AdjFactor, error) {
	t, err := c.query(ctx, "adj_factor", map[string]string{"trade_date": date}, "ts_code,adj_factor")
	if err != nil {
		return nil, err
	}
	return factors(t), nil
}

// IndexDaily returns the index bar of code on date
func (c *Client) IndexDaily(ctx context.Context, code, date string) ([]contracts.Price, error) {
	t, err := c.query(ctx, "index_daily", map[string]string{
		"ts_code":    code,
		"trade_date": date,
	}, "ts_code,close,pre_close")
	if err != nil {
		return nil, err
	}
	return prices(t), nil
}

// FundDaily returns the exchange-traded fund bar of code on date
func (c *Client) FundDaily(ctx context.Context, code, date string) ([]contracts.Price, error) {
	t, err := c.query(ctx, "fund_daily", map[string]string{
		"ts_code":    code,
		"trade_date": date,
	}, "ts_code,close,pre_close")
	if err != nil {
		return nil, err
	}
	return prices(t), nil
}

// FundAdjFactors returns the fund adjustment factor of code on date
func (c *Client) FundAdjFactors(ctx context.Context, code, date string) ([]contracts.AdjFactor, error) {
	t, err := c.query(ctx, "fund_adj", map[string]string{
		"ts_code":    code,
		"trade_date": date,
	}, "ts_code,trade_date,adj_factor")
	if err != nil {
		return nil, err
	}
	return factors(t), nil
}

func prices(t *table) []contracts.Price {
	out := make([]contracts.Price, 0, t.Len())
	for i := 0; i < t.Len(); i++ {
		out = append(out, contracts.Price{
			Code:     t.str(i, "ts_code"),
			Close:    t.float(i, "close"),
			PreClose: t.float(i, "pre_close"),
		})
	}
	return out
}

func factors(t *table) []contracts.AdjFactor {
	out := make([]contracts.AdjFactor, 0, t.Len())
	for i := 0; i < t.Len(); i++ {
		out = append(out, contracts.AdjFactor{
			Code:   t.str(i, "ts_code"),
			Factor: t.float(i, "adj_factor"),
		})
	}
	return out
}
