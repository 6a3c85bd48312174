package s0_data

import (
	"context"
	"strconv"

	"github.com/runchengxie/a-share-animal-index/internal/contracts"
)

// listStatuses covers listed, delisted and paused securities;
// as-of reconstruction needs names that are no longer listed
var listStatuses = []string{"L", "D", "P"}

// namechangePageSize is the row cap of one namechange call
const namechangePageSize = 5000

// Securities returns the listing snapshot, de-duplicated by code (first status wins)
func (c *Client) Securities(ctx context.Context) ([]contracts.Security, error) {
	seen := make(map[string]struct{})
	securities := make([]contracts.Security, 0)

	for _, status := range listStatuses {
		t, err := c.query(ctx, "stock_basic", map[string]string{
			"list_status": status,
		}, "ts_code,name,exchange,market,list_date,delist_date")
		if err != nil {
			return nil, err
		}

		for i := 0; i < t.Len(); i++ {
			code := t.str(i, "ts_code")
			if code == "" {
				continue
			}
			if _, ok := seen[code]; ok {
				continue
			}
			seen[code] = struct{}{}
			securities = append(securities, contracts.Security{
				Code:       code,
				Name:       t.str(i, "name"),
				Exchange:   t.str(i, "exchange"),
				Market:     t.str(i, "market"),
				ListDate:   t.str(i, "list_date"),
				DelistDate: t.str(i, "delist_date"),
			})
		}
	}

	return securities, nil
}

// NameChanges returns the full name-change history, paging until a short page
func (c *Client) NameChanges(ctx context.Context) ([]contracts.NameChange, error) {
	changes := make([]contracts.NameChange, 0)

	for offset := 0; ; offset += namechangePageSize {
		t, err := c.query(ctx, "namechange", map[string]string{
			"limit":  strconv.Itoa(namechangePageSize),
			"offset": strconv.Itoa(offset),
		}, "ts_code,name,start_date,end_date")
		if err != nil {
			return nil, err
		}

		for i := 0; i < t.Len(); i++ {
			changes = append(changes, contracts.NameChange{
				Code:      t.str(i, "ts_code"),
				Name:      t.str(i, "name"),
				StartDate: t.str(i, "start_date"),
				EndDate:   t.str(i, "end_date"),
			})
		}

		if t.Len() < namechangePageSize {
			break
		}
	}

	return changes, nil
}
