package contracts

import "context"

// Calendar answers trading-calendar questions (S0)
// ⭐ SSOT: 거래일 조회 인터페이스
type Calendar interface {
	TradeDay(ctx context.Context, date string) (*TradeDay, error)
	OpenDates(ctx context.Context, start, end string) ([]string, error)
}

// ListingSource provides the security listing and name history (S0)
type ListingSource interface {
	Securities(ctx context.Context) ([]Security, error)
	NameChanges(ctx context.Context) ([]NameChange, error)
}

// PriceSource provides cross-sectional daily tables (S0)
type PriceSource interface {
	DailyPrices(ctx context.Context, date string) ([]Price, error)
	AdjFactors(ctx context.Context, date string) ([]AdjFactor, error)
}

// BenchmarkSource provides single-instrument lookups for index and fund benchmarks (S3).
// Stock benchmarks reuse the cross-sectional PriceSource tables.
type BenchmarkSource interface {
	IndexDaily(ctx context.Context, code, date string) ([]Price, error)
	FundDaily(ctx context.Context, code, date string) ([]Price, error)
	FundAdjFactors(ctx context.Context, code, date string) ([]AdjFactor, error)
}

// MarketData is everything the core consumes from the data-source collaborator
type MarketData interface {
	Calendar
	ListingSource
	PriceSource
	BenchmarkSource
}
