package commands

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/runchengxie/a-share-animal-index/internal/brain"
	"github.com/runchengxie/a-share-animal-index/internal/rules"
	"github.com/runchengxie/a-share-animal-index/internal/s0_data"
	"github.com/runchengxie/a-share-animal-index/internal/s3_returns"
	"github.com/runchengxie/a-share-animal-index/internal/s4_ledger"
	"github.com/runchengxie/a-share-animal-index/internal/s5_publish"
	"github.com/runchengxie/a-share-animal-index/pkg/config"
	"github.com/runchengxie/a-share-animal-index/pkg/database"
	"github.com/runchengxie/a-share-animal-index/pkg/logger"
)

// app holds what every command builds from config and flags
type app struct {
	cfg *config.Config
	log *logger.Logger
}

// setup loads config, applies flag overrides and creates the logger
func setup(cmd *cobra.Command) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	flags := cmd.Flags()
	if flags.Changed("rules") {
		cfg.Index.RulesPath = rulesPath
	}
	if flags.Changed("token") {
		cfg.Tushare.Token = token
	}
	if flags.Changed("data-dir") {
		cfg.Index.DataDir = dataDir
	}
	if flags.Changed("docs-dir") {
		cfg.Index.DocsDir = docsDir
	}
	if flags.Changed("benchmark-mode") {
		cfg.Index.BenchmarkMode = benchmarkMode
	}
	if flags.Changed("benchmark-code") {
		cfg.Index.BenchmarkCode = benchmarkCode
	}
	if flags.Changed("benchmark-label") {
		cfg.Index.BenchmarkLabel = benchmarkLabel
	}
	if flags.Changed("use-adj-factor") {
		cfg.Index.UseAdjFactor = useAdjFactor
	}
	if verbose {
		cfg.LogLevel = "debug"
	}

	return &app{cfg: cfg, log: logger.New(cfg)}, nil
}

func (a *app) close() {
	a.log.Close()
}

func (a *app) layout() s5_publish.Layout {
	return s5_publish.Layout{DataDir: a.cfg.Index.DataDir, DocsDir: a.cfg.Index.DocsDir}
}

func (a *app) store() *s4_ledger.Store {
	return s4_ledger.NewStore(a.layout().NavPath())
}

func (a *app) publisher() *s5_publish.Publisher {
	return s5_publish.NewPublisher(a.layout(), a.cfg.Index.BenchmarkLabel, a.cfg.Index.UseAdjFactor, a.log)
}

// loadRules reads the rules document and logs every normalization warning
func (a *app) loadRules() (*rules.Rules, string, error) {
	r, warnings, err := rules.Load(a.cfg.Index.RulesPath)
	if errors.Is(err, os.ErrNotExist) {
		return nil, "", fmt.Errorf("rules file %s does not exist", a.cfg.Index.RulesPath)
	}
	if err != nil {
		return nil, "", err
	}
	for _, w := range warnings {
		a.log.WithFields(map[string]interface{}{
			"code": w.Code,
			"path": a.cfg.Index.RulesPath,
		}).Warn(w.Message)
	}

	hash, err := rules.Hash(r)
	if err != nil {
		return nil, "", err
	}
	return r, hash, nil
}

func (a *app) benchmark() (s3_returns.Benchmark, error) {
	mode, err := s3_returns.ParseMode(a.cfg.Index.BenchmarkMode)
	if err != nil {
		return s3_returns.Benchmark{}, err
	}
	return s3_returns.Benchmark{
		Mode:  mode,
		Code:  a.cfg.Index.BenchmarkCode,
		Label: a.cfg.Index.BenchmarkLabel,
	}, nil
}

// orchestrator wires rules, the Tushare client, the ledger store, the publisher
// and the optional Postgres mirror. The returned cleanup closes the pool.
func (a *app) orchestrator(ctx context.Context) (*brain.Orchestrator, func(), error) {
	// rules errors are fatal before any fetch
	r, hash, err := a.loadRules()
	if err != nil {
		return nil, nil, err
	}
	if err := a.cfg.RequireToken(); err != nil {
		return nil, nil, err
	}
	bench, err := a.benchmark()
	if err != nil {
		return nil, nil, err
	}

	cleanup := func() {}
	var mirror brain.LedgerMirror
	if a.cfg.Database.Enabled() {
		db, err := database.New(ctx, a.cfg)
		if err != nil {
			return nil, nil, fmt.Errorf("connect to database: %w", err)
		}
		status, err := db.HealthCheck(ctx)
		if err != nil {
			db.Close()
			return nil, nil, fmt.Errorf("database health check: %w", err)
		}
		a.log.WithFields(map[string]interface{}{
			"response_ms": status.ResponseTime.Milliseconds(),
			"total_conns": status.Stats.TotalConns,
			"max_conns":   status.Stats.MaxConns,
		}).Info("Ledger mirror connected")

		repo := s4_ledger.NewRepository(db.Pool)
		if err := repo.EnsureSchema(ctx); err != nil {
			db.Close()
			return nil, nil, err
		}
		mirror = repo
		cleanup = db.Close
	}

	o := brain.NewOrchestrator(
		s0_data.NewClient(a.cfg, a.log),
		brain.Settings{
			Rules:        r,
			Benchmark:    bench,
			UseAdjFactor: a.cfg.Index.UseAdjFactor,
			MinCoverage:  a.cfg.Index.MinCoverage,
		},
		hash,
		a.store(),
		a.publisher(),
		mirror,
		a.log,
	)
	return o, cleanup, nil
}

// today returns the current date in the market timezone
func (a *app) today() string {
	return timeNow().In(a.cfg.Location()).Format("20060102")
}

// signalContext is cancelled on Ctrl+C or SIGTERM
func signalContext(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}
