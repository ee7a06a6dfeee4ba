package main

import (
	"context"
	"net/http"

	"github.com/DonJuan-DeMarco/cs2investments/internal/api"
	"github.com/DonJuan-DeMarco/cs2investments/internal/config"
	cronrunner "github.com/DonJuan-DeMarco/cs2investments/internal/cron"
	"github.com/DonJuan-DeMarco/cs2investments/internal/database"
	"github.com/DonJuan-DeMarco/cs2investments/internal/logger"
	"github.com/DonJuan-DeMarco/cs2investments/internal/models"
	"github.com/DonJuan-DeMarco/cs2investments/internal/services/csfloat"
	"github.com/DonJuan-DeMarco/cs2investments/internal/services/pricing"
	"github.com/DonJuan-DeMarco/cs2investments/internal/ws"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	// Load environment variables
	_ = godotenv.Load()

	cfg := config.Load()

	log, err := logger.New(cfg.LogLevel, cfg.Environment)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	// Initialize database
	db, err := database.Initialize(cfg.DatabaseURL)
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}

	// Ingestion pipeline wiring: adapter -> resolver -> runner -> writer
	client := csfloat.NewClient(cfg.CSFloatBaseURL, cfg.CSFloatAPIKey)
	runner := pricing.NewRunner(pricing.NewResolver(client), pricing.NewWriter(db), log)

	hub := ws.NewHub(log)
	runner.SetPublisher(hub)

	batch := pricing.BatchPolicy(cfg.BatchSize, cfg.BatchPause)
	manual := pricing.ManualPolicy(cfg.ManualPause)

	if cfg.Environment != "development" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.Default()

	// CORS middleware
	r.Use(func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	})

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Live price feed
	r.GET("/ws", hub.Handle)

	// API routes
	handler := api.NewAPIHandler(db, runner, client, cfg.CronSecret, batch, manual, log)
	api.SetupRoutes(r.Group("/api/v1"), handler)

	// In-process scheduled run, mirrors the external cron trigger
	if cfg.PriceUpdateSchedule != "" {
		runnerCron := cronrunner.New(log, context.Background())
		_, err := runnerCron.Add(cfg.PriceUpdateSchedule, func(ctx context.Context) {
			var items []models.Item
			if err := db.WithContext(ctx).Find(&items).Error; err != nil {
				log.Error("scheduled price update failed to load items", zap.Error(err))
				return
			}
			runner.Run(ctx, items, batch)
		})
		if err != nil {
			log.Fatal("invalid price update schedule", zap.Error(err))
		}
		runnerCron.Start()
		defer runnerCron.Stop()
	}

	log.Info("server starting", zap.String("port", cfg.Port))
	if err := http.ListenAndServe(":"+cfg.Port, r); err != nil {
		log.Fatal("server stopped", zap.Error(err))
	}
}
