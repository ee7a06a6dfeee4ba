package api

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/DonJuan-DeMarco/cs2investments/internal/models"
	"github.com/gin-gonic/gin"
)

const latestPricesQuery = `
SELECT ip.*
FROM item_prices ip
JOIN (
	SELECT item_id, MAX(recorded_at) AS max_recorded
	FROM item_prices
	GROUP BY item_id
) latest ON ip.item_id = latest.item_id AND ip.recorded_at = latest.max_recorded`

// latestPrices returns the newest price row per item, optionally filtered to
// a set of item ids. This is the read-side "latest price" view; the history
// itself is never mutated.
func (h *APIHandler) latestPrices(ctx context.Context, itemIDs []uint) (map[uint]models.ItemPrice, error) {
	var rows []models.ItemPrice
	q := h.db.WithContext(ctx)
	if len(itemIDs) > 0 {
		q = q.Raw(latestPricesQuery+" WHERE ip.item_id IN ?", itemIDs)
	} else {
		q = q.Raw(latestPricesQuery)
	}
	if err := q.Scan(&rows).Error; err != nil {
		return nil, err
	}

	out := make(map[uint]models.ItemPrice, len(rows))
	for _, row := range rows {
		// Ties on recorded_at resolve to the later insert.
		if existing, ok := out[row.ItemID]; !ok || row.ID > existing.ID {
			out[row.ItemID] = row
		}
	}
	return out, nil
}

// GetLatestPrices returns the latest price per requested item, keyed by item
// id, with null for items that have no history yet.
func (h *APIHandler) GetLatestPrices(c *gin.Context) {
	raw := strings.TrimSpace(c.Query("item_ids"))
	if raw == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "item_ids is required"})
		return
	}

	var itemIDs []uint
	for _, part := range strings.Split(raw, ",") {
		id, err := strconv.ParseUint(strings.TrimSpace(part), 10, 32)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid item id: " + part})
			return
		}
		itemIDs = append(itemIDs, uint(id))
	}

	latest, err := h.latestPrices(c.Request.Context(), itemIDs)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch prices"})
		return
	}

	out := make(map[string]*models.ItemPrice, len(itemIDs))
	for _, id := range itemIDs {
		key := strconv.FormatUint(uint64(id), 10)
		if row, ok := latest[id]; ok {
			price := row
			out[key] = &price
		} else {
			out[key] = nil
		}
	}
	c.JSON(http.StatusOK, out)
}

// GetPriceHistory returns the price rows for one item over the last N days,
// oldest first.
func (h *APIHandler) GetPriceHistory(c *gin.Context) {
	itemID, err := strconv.ParseUint(c.Query("item_id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "item_id is required"})
		return
	}

	days := 30
	if v, err := strconv.Atoi(c.Query("days")); err == nil && v > 0 {
		days = v
	}
	since := time.Now().AddDate(0, 0, -days)

	var rows []models.ItemPrice
	err = h.db.WithContext(c.Request.Context()).
		Where("item_id = ? AND recorded_at >= ?", uint(itemID), since).
		Order("recorded_at asc").
		Find(&rows).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch price history"})
		return
	}
	c.JSON(http.StatusOK, rows)
}

// GetLastPriceUpdate reports the most recent recorded_at across all items.
func (h *APIHandler) GetLastPriceUpdate(c *gin.Context) {
	var row models.ItemPrice
	err := h.db.WithContext(c.Request.Context()).
		Order("recorded_at desc").
		First(&row).Error
	if err != nil {
		c.JSON(http.StatusOK, gin.H{"last_update": nil})
		return
	}
	c.JSON(http.StatusOK, gin.H{"last_update": row.RecordedAt})
}
