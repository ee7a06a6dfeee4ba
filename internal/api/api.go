package api

import (
	"github.com/DonJuan-DeMarco/cs2investments/internal/services/pricing"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type APIHandler struct {
	db       *gorm.DB
	runner   *pricing.Runner
	listings pricing.ListingSource
	logger   *zap.Logger

	cronSecret string
	batch      pricing.Policy
	manual     pricing.Policy
}

func NewAPIHandler(db *gorm.DB, runner *pricing.Runner, listings pricing.ListingSource, cronSecret string, batch, manual pricing.Policy, logger *zap.Logger) *APIHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &APIHandler{
		db:         db,
		runner:     runner,
		listings:   listings,
		logger:     logger,
		cronSecret: cronSecret,
		batch:      batch,
		manual:     manual,
	}
}

func SetupRoutes(r *gin.RouterGroup, h *APIHandler) {
	// Price ingestion triggers
	cron := r.Group("/cron")
	{
		cron.POST("/update-prices", h.UpdatePrices)
		cron.GET("/update-prices", h.UpdatePricesInfo)
	}
	r.POST("/manual-update-prices", h.ManualUpdatePrices)

	// Upstream proxy
	r.GET("/listings", h.ProxyListings)

	// Catalog
	items := r.Group("/items")
	{
		items.GET("", h.ListItems)
		items.POST("", h.CreateItem)
		items.GET("/:id", h.GetItem)
	}

	// Portfolio
	investments := r.Group("/investments")
	{
		investments.GET("", h.ListInvestments)
		investments.POST("", h.CreateInvestment)
		investments.DELETE("/:id", h.DeleteInvestment)
	}
	r.GET("/export/investments", h.ExportInvestments)

	// Price read surface
	r.GET("/price-history", h.GetPriceHistory)
	prices := r.Group("/prices")
	{
		prices.GET("/latest", h.GetLatestPrices)
		prices.GET("/last-update", h.GetLastPriceUpdate)
	}
}
