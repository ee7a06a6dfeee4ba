// One-shot runner for the price-ingestion pipeline, for operators and
// external schedulers that prefer a process over an HTTP trigger.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/DonJuan-DeMarco/cs2investments/internal/config"
	"github.com/DonJuan-DeMarco/cs2investments/internal/database"
	"github.com/DonJuan-DeMarco/cs2investments/internal/logger"
	"github.com/DonJuan-DeMarco/cs2investments/internal/models"
	"github.com/DonJuan-DeMarco/cs2investments/internal/services/csfloat"
	"github.com/DonJuan-DeMarco/cs2investments/internal/services/pricing"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()

	log, err := logger.New(cfg.LogLevel, cfg.Environment)
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to build logger:", err)
		os.Exit(1)
	}
	defer log.Sync()

	db, err := database.Initialize(cfg.DatabaseURL)
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}

	client := csfloat.NewClient(cfg.CSFloatBaseURL, cfg.CSFloatAPIKey)
	runner := pricing.NewRunner(pricing.NewResolver(client), pricing.NewWriter(db), log)

	ctx := context.Background()

	var items []models.Item
	if err := db.WithContext(ctx).Find(&items).Error; err != nil {
		log.Fatal("failed to load items", zap.Error(err))
	}
	if len(items) == 0 {
		log.Info("no items to update")
		return
	}

	report := runner.Run(ctx, items, pricing.BatchPolicy(cfg.BatchSize, cfg.BatchPause)).Snapshot()

	fmt.Printf("price update completed: total=%d success=%d failed=%d skipped=%d\n",
		report.Total, report.Success, report.Failed, report.Skipped)
	for _, msg := range report.Errors {
		fmt.Println("  -", msg)
	}
	if report.Failed > 0 {
		os.Exit(1)
	}
}
