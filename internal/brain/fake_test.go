package brain

import (
	"context"
	"errors"
	"path/filepath"
	"sort"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/runchengxie/a-share-animal-index/internal/contracts"
	"github.com/runchengxie/a-share-animal-index/internal/rules"
	"github.com/runchengxie/a-share-animal-index/internal/s3_returns"
	"github.com/runchengxie/a-share-animal-index/internal/s4_ledger"
	"github.com/runchengxie/a-share-animal-index/internal/s5_publish"
	"github.com/runchengxie/a-share-animal-index/pkg/logger"
)

const benchmarkCode = "000300.SH"

// fakeMarket serves a small January/February 2024 market
type fakeMarket struct {
	mu sync.Mutex

	open        map[string]string // open date → previous open date
	securities  []contracts.Security
	nameChanges []contracts.NameChange
	prices      map[string][]contracts.Price
	factors     map[string][]contracts.AdjFactor
	index       map[string][]contracts.Price
	failDaily   map[string]error

	listingCalls int
	factorCalls  map[string]int
}

var _ contracts.MarketData = (*fakeMarket)(nil)

func newFakeMarket() *fakeMarket {
	defaultPrices := []contracts.Price{
		{Code: "000001.SZ", Close: 11, PreClose: 10},
		{Code: "000002.SZ", Close: 9, PreClose: 10},
		{Code: "600003.SH", Close: 10, PreClose: 10},
	}
	m := &fakeMarket{
		open: map[string]string{
			"20240102": "20231229",
			"20240103": "20240102",
			"20240104": "20240103",
			"20240131": "20240104",
			"20240201": "20240131",
		},
		securities: []contracts.Security{
			{Code: "000001.SZ", Name: "熊猫乳品", Exchange: contracts.ExchangeSZSE, ListDate: "20200101"},
			{Code: "000002.SZ", Name: "马应龙", Exchange: contracts.ExchangeSZSE, ListDate: "20000101"},
			{Code: "600003.SH", Name: "白马股份", Exchange: contracts.ExchangeSSE, ListDate: "19990101"},
		},
		nameChanges: []contracts.NameChange{
			{Code: "600003.SH", Name: "平安实业", StartDate: "20100101", EndDate: "20240131"},
			{Code: "600003.SH", Name: "白马股份", StartDate: "20240201"},
		},
		prices:      make(map[string][]contracts.Price),
		factors:     make(map[string][]contracts.AdjFactor),
		index:       make(map[string][]contracts.Price),
		failDaily:   make(map[string]error),
		factorCalls: make(map[string]int),
	}
	for date := range m.open {
		m.prices[date] = defaultPrices
		m.index[date] = []contracts.Price{{Code: benchmarkCode, Close: 1010, PreClose: 1000}}
	}
	return m
}

func (m *fakeMarket) TradeDay(_ context.Context, date string) (*contracts.TradeDay, error) {
	if prev, ok := m.open[date]; ok {
		return &contracts.TradeDay{Date: date, IsOpen: true, PreTradeDate: prev}, nil
	}
	return &contracts.TradeDay{Date: date, IsOpen: false}, nil
}

func (m *fakeMarket) OpenDates(_ context.Context, start, end string) ([]string, error) {
	dates := make([]string, 0)
	for date := range m.open {
		if date >= start && date <= end {
			dates = append(dates, date)
		}
	}
	sort.Strings(dates)
	return dates, nil
}

func (m *fakeMarket) Securities(context.Context) ([]contracts.Security, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listingCalls++
	return m.securities, nil
}

func (m *fakeMarket) NameChanges(context.Context) ([]contracts.NameChange, error) {
	return m.nameChanges, nil
}

func (m *fakeMarket) DailyPrices(_ context.Context, date string) ([]contracts.Price, error) {
	if err := m.failDaily[date]; err != nil {
		return nil, err
	}
	return m.prices[date], nil
}

func (m *fakeMarket) AdjFactors(_ context.Context, date string) ([]contracts.AdjFactor, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.factorCalls[date]++
	return m.factors[date], nil
}

func (m *fakeMarket) IndexDaily(_ context.Context, _, date string) ([]contracts.Price, error) {
	return m.index[date], nil
}

func (m *fakeMarket) FundDaily(context.Context, string, string) ([]contracts.Price, error) {
	return nil, errors.New("fund_daily not served")
}

func (m *fakeMarket) FundAdjFactors(context.Context, string, string) ([]contracts.AdjFactor, error) {
	return nil, errors.New("fund_adj not served")
}

type fakeMirror struct {
	ledgerRows   []contracts.LedgerRow
	constituents map[string][]contracts.VariantRow
}

func (f *fakeMirror) SaveLedger(_ context.Context, rows []contracts.LedgerRow) error {
	f.ledgerRows = append(f.ledgerRows, rows...)
	return nil
}

func (f *fakeMirror) SaveConstituents(_ context.Context, date string, rows []contracts.VariantRow) error {
	if f.constituents == nil {
		f.constituents = make(map[string][]contracts.VariantRow)
	}
	f.constituents[date] = rows
	return nil
}

const testRules = `
strict_keywords: [熊猫]
extended_keywords: [马]
`

func testSettings(t *testing.T, doc string, adjusted bool) Settings {
	t.Helper()
	r, _, err := rules.Parse([]byte(doc))
	require.NoError(t, err)
	return Settings{
		Rules:        r,
		Benchmark:    s3_returns.Benchmark{Mode: s3_returns.ModeIndex, Code: benchmarkCode, Label: "HS300"},
		UseAdjFactor: adjusted,
	}
}

func newTestRunContext(t *testing.T, m *fakeMarket, adjusted bool) *RunContext {
	t.Helper()
	rc, err := NewRunContext(m, testSettings(t, testRules, adjusted), logger.Nop())
	require.NoError(t, err)
	return rc
}

func newTestOrchestrator(t *testing.T, m *fakeMarket, mirror LedgerMirror) (*Orchestrator, s5_publish.Layout) {
	t.Helper()
	root := t.TempDir()
	layout := s5_publish.Layout{DataDir: filepath.Join(root, "data"), DocsDir: filepath.Join(root, "docs")}
	o := NewOrchestrator(
		m,
		testSettings(t, testRules, false),
		"hash",
		s4_ledger.NewStore(layout.NavPath()),
		s5_publish.NewPublisher(layout, "HS300", false, logger.Nop()),
		mirror,
		logger.Nop(),
	)
	return o, layout
}
