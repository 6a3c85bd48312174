package handlers

import (
	"errors"
	"math"
	"net/http"
	"os"

	"github.com/gorilla/mux"

	"github.com/runchengxie/a-share-animal-index/internal/contracts"
	"github.com/runchengxie/a-share-animal-index/internal/s4_ledger"
	"github.com/runchengxie/a-share-animal-index/internal/s5_publish"
	"github.com/runchengxie/a-share-animal-index/pkg/logger"
)

// LedgerReader loads the full NAV ledger
type LedgerReader interface {
	Load() ([]contracts.LedgerRow, error)
}

// NavHandler serves the ledger and published snapshots
// ⭐ SSOT: 지수 조회 API 핸들러는 이 구조체에서만
type NavHandler struct {
	ledger         LedgerReader
	layout         s5_publish.Layout
	benchmarkLabel string
	logger         *logger.Logger
}

// NewNavHandler creates a new NAV handler
func NewNavHandler(ledger LedgerReader, layout s5_publish.Layout, benchmarkLabel string, log *logger.Logger) *NavHandler {
	return &NavHandler{
		ledger:         ledger,
		layout:         layout,
		benchmarkLabel: benchmarkLabel,
		logger:         log,
	}
}

// NavResponse is the ledger listing
type NavResponse struct {
	Benchmark string                `json:"benchmark"`
	Count     int                   `json:"count"`
	Rows      []contracts.LedgerRow `json:"rows"`
}

// GetNav returns ledger rows, optionally limited by start/end (YYYYMMDD, inclusive)
// GET /api/nav?start=20240101&end=20240131
func (h *NavHandler) GetNav(w http.ResponseWriter, r *http.Request) {
	rows, err := h.ledger.Load()
	if err != nil {
		h.logger.WithError(err).Error("Failed to load ledger")
		respondError(w, http.StatusInternalServerError, "Failed to load ledger")
		return
	}

	start := r.URL.Query().Get("start")
	end := r.URL.Query().Get("end")
	for _, v := range []string{start, end} {
		if v != "" && !contracts.IsDate(v) {
			respondError(w, http.StatusBadRequest, "Invalid date (expected YYYYMMDD)")
			return
		}
	}

	filtered := make([]contracts.LedgerRow, 0, len(rows))
	for _, row := range rows {
		if start != "" && row.Date < start {
			continue
		}
		if end != "" && row.Date > end {
			continue
		}
		filtered = append(filtered, row)
	}

	respondJSON(w, http.StatusOK, NavResponse{
		Benchmark: h.benchmarkLabel,
		Count:     len(filtered),
		Rows:      filtered,
	})
}

// GetLatest returns the latest ledger row in the latest.json shape
// GET /api/nav/latest
func (h *NavHandler) GetLatest(w http.ResponseWriter, r *http.Request) {
	rows, err := h.ledger.Load()
	if err != nil {
		h.logger.WithError(err).Error("Failed to load ledger")
		respondError(w, http.StatusInternalServerError, "Failed to load ledger")
		return
	}

	latest, ok := s4_ledger.Latest(rows)
	if !ok {
		respondError(w, http.StatusNotFound, "Ledger is empty")
		return
	}

	respondJSON(w, http.StatusOK, s5_publish.NewLatest(latest, h.benchmarkLabel, ""))
}

// HoldingView is one holdings row; unpriced values are null
type HoldingView struct {
	Code     string            `json:"ts_code"`
	Name     string            `json:"name"`
	Keyword  string            `json:"keyword"`
	Forced   bool              `json:"forced"`
	Variant  contracts.Variant `json:"variant"`
	Weight   float64           `json:"weight"`
	Return   *float64          `json:"ret"`
	Close    *float64          `json:"close"`
	PreClose *float64          `json:"pre_close"`
}

// HoldingsResponse is the holdings snapshot of one date
type HoldingsResponse struct {
	Date     string        `json:"date"`
	Holdings []HoldingView `json:"holdings"`
}

// GetHoldings returns the holdings snapshot of a date
// GET /api/holdings/{date}
func (h *NavHandler) GetHoldings(w http.ResponseWriter, r *http.Request) {
	date := mux.Vars(r)["date"]
	if !contracts.IsDate(date) {
		respondError(w, http.StatusBadRequest, "Invalid date (expected YYYYMMDD)")
		return
	}

	records, err := s5_publish.ReadHoldings(h.layout.HoldingsPath(date))
	if errors.Is(err, os.ErrNotExist) {
		respondError(w, http.StatusNotFound, "No holdings for "+date)
		return
	}
	if err != nil {
		h.logger.WithError(err).WithField("date", date).Error("Failed to read holdings")
		respondError(w, http.StatusInternalServerError, "Failed to read holdings")
		return
	}

	views := make([]HoldingView, 0, len(records))
	for _, rec := range records {
		views = append(views, HoldingView{
			Code:     rec.Code,
			Name:     rec.Name,
			Keyword:  rec.Keyword,
			Forced:   rec.Forced,
			Variant:  rec.Variant,
			Weight:   rec.Weight,
			Return:   nullable(rec.Return),
			Close:    nullable(rec.Close),
			PreClose: nullable(rec.PreClose),
		})
	}

	respondJSON(w, http.StatusOK, HoldingsResponse{Date: date, Holdings: views})
}

// GetChanges serves the membership change report of a date
// GET /api/changes/{date}
func (h *NavHandler) GetChanges(w http.ResponseWriter, r *http.Request) {
	date := mux.Vars(r)["date"]
	if !contracts.IsDate(date) {
		respondError(w, http.StatusBadRequest, "Invalid date (expected YYYYMMDD)")
		return
	}

	data, err := os.ReadFile(h.layout.ChangesPath(date))
	if errors.Is(err, os.ErrNotExist) {
		respondError(w, http.StatusNotFound, "No change report for "+date)
		return
	}
	if err != nil {
		h.logger.WithError(err).WithField("date", date).Error("Failed to read change report")
		respondError(w, http.StatusInternalServerError, "Failed to read change report")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

func nullable(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}
