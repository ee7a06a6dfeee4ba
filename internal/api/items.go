package api

import (
	"net/http"
	"strconv"

	"github.com/DonJuan-DeMarco/cs2investments/internal/models"
	"github.com/gin-gonic/gin"
)

type createItemRequest struct {
	DefIndex       int      `json:"def_index" binding:"required"`
	DefName        string   `json:"def_name" binding:"required"`
	PaintIndex     *int     `json:"paint_index"`
	PaintName      *string  `json:"paint_name"`
	MinFloat       *float64 `json:"min_float"`
	MaxFloat       *float64 `json:"max_float"`
	Category       *int     `json:"category"`
	MarketHashName *string  `json:"market_hash_name"`
	ImageURL       *string  `json:"image_url"`
}

func (h *APIHandler) ListItems(c *gin.Context) {
	var items []models.Item
	if err := h.db.WithContext(c.Request.Context()).Order("created_at desc").Find(&items).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch items"})
		return
	}
	c.JSON(http.StatusOK, items)
}

func (h *APIHandler) GetItem(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid item id"})
		return
	}

	var item models.Item
	if err := h.db.WithContext(c.Request.Context()).First(&item, uint(id)).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "item not found"})
		return
	}
	c.JSON(http.StatusOK, item)
}

// CreateItem registers a catalog entry. There is no update route: once an
// item has priced history its identifying attributes stay fixed.
func (h *APIHandler) CreateItem(c *gin.Context) {
	var req createItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing required fields", "details": err.Error()})
		return
	}

	if req.MinFloat != nil && (*req.MinFloat < 0 || *req.MinFloat > 1) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "min_float must be in [0,1]"})
		return
	}
	if req.MaxFloat != nil && (*req.MaxFloat < 0 || *req.MaxFloat > 1) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "max_float must be in [0,1]"})
		return
	}
	if req.MinFloat != nil && req.MaxFloat != nil && *req.MinFloat > *req.MaxFloat {
		c.JSON(http.StatusBadRequest, gin.H{"error": "min_float must not exceed max_float"})
		return
	}

	category := models.CategoryWeapon
	if req.Category != nil {
		if *req.Category < models.CategoryWeapon || *req.Category > models.CategoryOther {
			c.JSON(http.StatusBadRequest, gin.H{"error": "category must be 0..3"})
			return
		}
		category = *req.Category
	}

	item := models.Item{
		DefIndex:       req.DefIndex,
		DefName:        req.DefName,
		PaintIndex:     req.PaintIndex,
		PaintName:      req.PaintName,
		MinFloat:       req.MinFloat,
		MaxFloat:       req.MaxFloat,
		Category:       category,
		MarketHashName: req.MarketHashName,
		ImageURL:       req.ImageURL,
	}

	if err := h.db.WithContext(c.Request.Context()).Create(&item).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create item"})
		return
	}
	c.JSON(http.StatusCreated, item)
}
