package contracts

import (
	"errors"
	"fmt"
)

// ErrDateRejected is returned when a daily run targets a date earlier than the ledger's latest row
var ErrDateRejected = errors.New("date precedes latest ledger date, use backfill")

// ConfigError reports a malformed rules document (fatal, aborts before any fetch)
type ConfigError struct {
	Path string
	Err  error
}

func (e *ConfigError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("rules config: %v", e.Err)
	}
	return fmt.Sprintf("rules config %s: %v", e.Path, e.Err)
}

func (e *ConfigError) Unwrap() error { return e.Err }

// UpstreamError reports a failed fetch from the market-data collaborator
type UpstreamError struct {
	Op   string // e.g. "daily", "trade_cal"
	Date string
	Err  error
}

func (e *UpstreamError) Error() string {
	if e.Date == "" {
		return fmt.Sprintf("fetch %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("fetch %s for %s: %v", e.Op, e.Date, e.Err)
}

func (e *UpstreamError) Unwrap() error { return e.Err }

// DataQualityError is a soft failure: data arrived but cannot support the computation
type DataQualityError struct {
	Date    string
	Field   string
	Message string
}

func (e *DataQualityError) Error() string {
	return fmt.Sprintf("%s: %s: %s", e.Date, e.Field, e.Message)
}

// ValidationError rejects a non-positive input to a single-instrument computation
type ValidationError struct {
	Field string
	Value float64
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: must be > 0, got %v", e.Field, e.Value)
}

// IsDataQuality reports whether err carries a DataQualityError
func IsDataQuality(err error) bool {
	var dq *DataQualityError
	return errors.As(err, &dq)
}
