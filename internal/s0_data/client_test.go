package s0_data

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/runchengxie/a-share-animal-index/pkg/config"
	"github.com/runchengxie/a-share-animal-index/pkg/httputil"
	"github.com/runchengxie/a-share-animal-index/pkg/logger"
)

type fakeAPI struct {
	t        *testing.T
	handlers map[string]func(params map[string]string) (fields []string, items [][]interface{})

	mu    sync.Mutex
	calls []request
}

func (f *fakeAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		f.t.Errorf("decode request: %v", err)
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	f.mu.Lock()
	f.calls = append(f.calls, req)
	f.mu.Unlock()

	h, ok := f.handlers[req.APIName]
	if !ok {
		_ = json.NewEncoder(w).Encode(map[string]interface{}{"code": 40101, "msg": "unknown api"})
		return
	}
	fields, items := h(req.Params)
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"code": 0,
		"msg":  "",
		"data": map[string]interface{}{"fields": fields, "items": items},
	})
}

func (f *fakeAPI) Calls() []request {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]request(nil), f.calls...)
}

func newTestClient(t *testing.T, api *fakeAPI) *Client {
	t.Helper()
	api.t = t
	server := httptest.NewServer(api)
	t.Cleanup(server.Close)

	cfg := &config.Config{Env: "development", LogLevel: "error"}
	httpClient := httputil.New(cfg, logger.Nop()).WithRetry(1, time.Millisecond)
	return NewClientWithHTTP(httpClient, "secret", server.URL, logger.Nop())
}

func TestTradeDay(t *testing.T) {
	api := &fakeAPI{handlers: map[string]func(map[string]string) ([]string, [][]interface{}){
		"trade_cal": func(p map[string]string) ([]string, [][]interface{}) {
			return []string{"exchange", "cal_date", "is_open", "pretrade_date"},
				[][]interface{}{{"SSE", p["start_date"], 1, "20240102"}}
		},
	}}
	c := newTestClient(t, api)

	day, err := c.TradeDay(context.Background(), "20240103")
	require.NoError(t, err)
	assert.Equal(t, "20240103", day.Date)
	assert.True(t, day.IsOpen)
	assert.Equal(t, "20240102", day.PreTradeDate)

	calls := api.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, "secret", calls[0].Token)
	assert.Equal(t, "SSE", calls[0].Params["exchange"])
}

func TestOpenDates_SortedAndFiltered(t *testing.T) {
	api := &fakeAPI{handlers: map[string]func(map[string]string) ([]string, [][]interface{}){
		"trade_cal": func(p map[string]string) ([]string, [][]interface{}) {
			return []string{"cal_date", "is_open"}, [][]interface{}{
				{"20240103", 1}, {"20240102", "1"}, {"20240106", 0},
			}
		},
	}}

	dates, err := newTestClient(t, api).OpenDates(context.Background(), "20240101", "20240131")
	require.NoError(t, err)
	assert.Equal(t, []string{"20240102", "20240103"}, dates)
}

func TestSecurities_MergesStatuses(t *testing.T) {
	api := &fakeAPI{handlers: map[string]func(map[string]string) ([]string, [][]interface{}){
		"stock_basic": func(p map[string]string) ([]string, [][]interface{}) {
			fields := []string{"ts_code", "name", "exchange", "market", "list_date", "delist_date"}
			switch p["list_status"] {
			case "L":
				return fields, [][]interface{}{{"000001.SZ", "平安银行", "SZSE", "主板", "19910403", nil}}
			case "D":
				return fields, [][]interface{}{
					{"600001.SH", "邯郸钢铁", "SSE", "主板", "19980122", "20091229"},
					{"000001.SZ", "dup", "SZSE", "主板", "19910403", nil},
				}
			default:
				return fields, nil
			}
		},
	}}

	secs, err := newTestClient(t, api).Securities(context.Background())
	require.NoError(t, err)
	require.Len(t, secs, 2)
	assert.Equal(t, "平安银行", secs[0].Name)
	assert.Empty(t, secs[0].DelistDate)
	assert.Equal(t, "20091229", secs[1].DelistDate)
	assert.Len(t, api.Calls(), 3)
}

func TestNameChanges_Paged(t *testing.T) {
	api := &fakeAPI{handlers: map[string]func(map[string]string) ([]string, [][]interface{}){
		"namechange": func(p map[string]string) ([]string, [][]interface{}) {
			fields := []string{"ts_code", "name", "start_date", "end_date"}
			if p["offset"] == "0" {
				items := make([][]interface{}, namechangePageSize)
				for i := range items {
					items[i] = []interface{}{"000001.SZ", "深发展A", "19910403", "20120801"}
				}
				return fields, items
			}
			return fields, [][]interface{}{{"000001.SZ", "平安银行", "20120802", nil}}
		},
	}}

	changes, err := newTestClient(t, api).NameChanges(context.Background())
	require.NoError(t, err)
	assert.Len(t, changes, namechangePageSize+1)
	assert.Equal(t, "平安银行", changes[namechangePageSize].Name)
	assert.Empty(t, changes[namechangePageSize].EndDate)
}

func TestDailyPrices_NullIsNaN(t *testing.T) {
	api := &fakeAPI{handlers: map[string]func(map[string]string) ([]string, [][]interface{}){
		"daily": func(p map[string]string) ([]string, [][]interface{}) {
			return []string{"ts_code", "close", "pre_close"}, [][]interface{}{
				{"000001.SZ", 10.5, 10.0},
				{"000002.SZ", nil, 8.0},
			}
		},
	}}

	prices, err := newTestClient(t, api).DailyPrices(context.Background(), "20240103")
	require.NoError(t, err)
	require.Len(t, prices, 2)
	assert.Equal(t, 10.5, prices[0].Close)
	assert.True(t, prices[0].Valid())
	assert.True(t, math.IsNaN(prices[1].Close))
	assert.False(t, prices[1].Valid())
}

func TestBenchmarkLookups(t *testing.T) {
	api := &fakeAPI{handlers: map[string]func(map[string]string) ([]string, [][]interface{}){
		"index_daily": func(p map[string]string) ([]string, [][]interface{}) {
			return []string{"ts_code", "close", "pre_close"}, [][]interface{}{{p["ts_code"], 3300.0, 3000.0}}
		},
		"fund_adj": func(p map[string]string) ([]string, [][]interface{}) {
			return []string{"ts_code", "trade_date", "adj_factor"}, [][]interface{}{{p["ts_code"], p["trade_date"], 1.25}}
		},
	}}
	c := newTestClient(t, api)
	ctx := context.Background()

	idx, err := c.IndexDaily(ctx, "000300.SH", "20240103")
	require.NoError(t, err)
	assert.Equal(t, "000300.SH", idx[0].Code)
	assert.Equal(t, 3300.0, idx[0].Close)

	adj, err := c.FundAdjFactors(ctx, "510300.SH", "20240103")
	require.NoError(t, err)
	assert.Equal(t, 1.25, adj[0].Factor)
}

func TestQuery_APIError(t *testing.T) {
	_, err := newTestClient(t, &fakeAPI{}).AdjFactors(context.Background(), "20240103")

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, "adj_factor", apiErr.API)
	assert.Equal(t, 40101, apiErr.Code)
	assert.Contains(t, err.Error(), "unknown api")
}

func TestQuery_HTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "forbidden", http.StatusForbidden)
	}))
	defer server.Close()

	cfg := &config.Config{Env: "development", LogLevel: "error"}
	c := NewClientWithHTTP(httputil.New(cfg, logger.Nop()).DisableRetry(), "t", server.URL, logger.Nop())

	_, err := c.DailyPrices(context.Background(), "20240103")
	assert.ErrorContains(t, err, "http 403")
}
