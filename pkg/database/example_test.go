package database_test

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/runchengxie/a-share-animal-index/pkg/config"
	"github.com/runchengxie/a-share-animal-index/pkg/database"
)

// Example opens the optional ledger mirror pool
func Example() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	db, err := database.New(ctx, cfg)
	if errors.Is(err, database.ErrNotConfigured) {
		fmt.Println("mirror disabled")
		return
	}
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	status, err := db.HealthCheck(ctx)
	if err != nil {
		log.Fatalf("Health check failed: %v", err)
	}

	fmt.Printf("Database is healthy: %v\n", status.Healthy)
	fmt.Printf("Max connections: %d\n", status.Stats.MaxConns)
}
