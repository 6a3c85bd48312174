package s0_data

import (
	"context"
	"fmt"
	"sort"

	"github.com/runchengxie/a-share-animal-index/internal/contracts"
)

// calendarExchange is the exchange whose calendar defines A-share trading days
const calendarExchange = "SSE"

// TradeDay looks up one calendar date
func (c *Client) TradeDay(ctx context.Context, date string) (*contracts.TradeDay, error) {
	t, err := c.query(ctx, "trade_cal", map[string]string{
		"exchange":   calendarExchange,
		"start_date": date,
		"end_date":   date,
	}, "cal_date,is_open,pretrade_date")
	if err != nil {
		return nil, err
	}
	if t.Len() == 0 {
		return nil, fmt.Errorf("trade calendar is empty for %s", date)
	}

	return &contracts.TradeDay{
		Date:         t.str(0, "cal_date"),
		IsOpen:       t.flag(0, "is_open"),
		PreTradeDate: t.str(0, "pretrade_date"),
	}, nil
}

// OpenDates lists open trading days in [start, end], ascending
func (c *Client) OpenDates(ctx context.Context, start, end string) ([]string, error) {
	t, err := c.query(ctx, "trade_cal", map[string]string{
		"exchange":   calendarExchange,
		"start_date": start,
		"end_date":   end,
		"is_open":    "1",
	}, "cal_date,is_open")
	if err != nil {
		return nil, err
	}

	dates := make([]string, 0, t.Len())
	for i := 0; i < t.Len(); i++ {
		if !t.flag(i, "is_open") {
			continue
		}
		dates = append(dates, t.str(i, "cal_date"))
	}
	sort.Strings(dates)
	return dates, nil
}
