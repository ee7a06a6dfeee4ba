package api

import (
	"net/http"
	"strconv"

	"github.com/DonJuan-DeMarco/cs2investments/internal/models"
	"github.com/DonJuan-DeMarco/cs2investments/internal/services/csfloat"
	"github.com/DonJuan-DeMarco/cs2investments/internal/services/pricing"
	"github.com/gin-gonic/gin"
)

// UpdatePrices is the scheduled batch trigger. It requires the shared cron
// secret as a bearer token; nothing is loaded or fetched before that check.
func (h *APIHandler) UpdatePrices(c *gin.Context) {
	auth := c.GetHeader("Authorization")
	if h.cronSecret == "" || auth != "Bearer "+h.cronSecret {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	h.runUpdate(c, h.batch, "Price update completed")
}

// UpdatePricesInfo mirrors the trigger contract for manual inspection.
func (h *APIHandler) UpdatePricesInfo(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": "Price update cron job endpoint",
		"method":  "POST with Bearer token authorization required",
	})
}

// ManualUpdatePrices is the ad-hoc trigger. It runs strictly sequentially
// with long pauses and intentionally carries no auth check: it is only
// reachable on the trusted network the dashboard runs on.
func (h *APIHandler) ManualUpdatePrices(c *gin.Context) {
	h.runUpdate(c, h.manual, "Manual price update completed")
}

func (h *APIHandler) runUpdate(c *gin.Context, policy pricing.Policy, doneMessage string) {
	ctx := c.Request.Context()

	var items []models.Item
	if err := h.db.WithContext(ctx).Find(&items).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to update prices",
			"details": "failed to fetch items: " + err.Error(),
		})
		return
	}

	if len(items) == 0 {
		c.JSON(http.StatusOK, gin.H{"message": "No items to update"})
		return
	}

	report := h.runner.Run(ctx, items, policy).Snapshot()

	resp := gin.H{
		"message": doneMessage,
		"results": gin.H{
			"total":   report.Total,
			"success": report.Success,
			"failed":  report.Failed,
			"skipped": report.Skipped,
		},
	}
	if len(report.Errors) > 0 {
		resp["errors"] = report.Errors
	}
	c.JSON(http.StatusOK, resp)
}

// ProxyListings exposes the CSFloat listings API server-side so the API key
// never reaches a browser.
func (h *APIHandler) ProxyListings(c *gin.Context) {
	defIndex, err := strconv.Atoi(c.Query("def_index"))
	if err != nil || defIndex <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "def_index is required"})
		return
	}

	params := csfloat.ListingParams{DefIndex: defIndex}
	if v, err := strconv.Atoi(c.Query("paint_index")); err == nil {
		params.PaintIndex = &v
	}
	if v, err := strconv.ParseFloat(c.Query("min_float"), 64); err == nil {
		params.MinFloat = &v
	}
	if v, err := strconv.ParseFloat(c.Query("max_float"), 64); err == nil {
		params.MaxFloat = &v
	}
	if v, err := strconv.Atoi(c.Query("category")); err == nil {
		params.Category = &v
	}
	if v, err := strconv.Atoi(c.Query("limit")); err == nil && v > 0 {
		params.Limit = v
	}

	listings, err := h.listings.Listings(c.Request.Context(), params)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to fetch data from CSFloat", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": listings})
}
