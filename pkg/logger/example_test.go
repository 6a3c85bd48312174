package logger_test

import (
	"errors"

	"github.com/runchengxie/a-share-animal-index/pkg/config"
	"github.com/runchengxie/a-share-animal-index/pkg/logger"
)

// Example_basic demonstrates basic logger usage
func Example_basic() {
	cfg := &config.Config{
		Env:       "development",
		LogLevel:  "info",
		LogFormat: "console",
	}

	// Create logger (SSOT)
	log := logger.New(cfg)
	defer log.Close()

	log.Info("daily run started")
	log.WithFields(map[string]interface{}{
		"date":      "20240102",
		"strict":    0.0123,
		"benchmark": -0.0041,
	}).Info("returns computed")
	log.WithError(errors.New("no open trading day")).Warn("skipped")
}
