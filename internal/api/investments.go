package api

import (
	"net/http"
	"time"

	"github.com/DonJuan-DeMarco/cs2investments/internal/models"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type createInvestmentRequest struct {
	ItemID        uint            `json:"item_id" binding:"required"`
	PurchaseDate  time.Time       `json:"purchase_date" binding:"required"`
	PurchasePrice decimal.Decimal `json:"purchase_price" binding:"required"`
	Quantity      int             `json:"quantity" binding:"required"`
}

type investmentView struct {
	models.Investment
	CurrentPrice      *decimal.Decimal `json:"current_price"`
	TotalInvestment   decimal.Decimal  `json:"total_investment"`
	TotalCurrentValue *decimal.Decimal `json:"total_current_value"`
}

// ListInvestments returns every purchase lot joined with the latest known
// price; total_current_value is null until an item has price history.
func (h *APIHandler) ListInvestments(c *gin.Context) {
	ctx := c.Request.Context()

	var investments []models.Investment
	if err := h.db.WithContext(ctx).Preload("Item").Order("purchase_date desc").Find(&investments).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch investments"})
		return
	}

	itemIDs := make([]uint, 0, len(investments))
	for _, inv := range investments {
		itemIDs = append(itemIDs, inv.ItemID)
	}

	latest := map[uint]models.ItemPrice{}
	if len(itemIDs) > 0 {
		var err error
		latest, err = h.latestPrices(ctx, itemIDs)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch prices"})
			return
		}
	}

	out := make([]investmentView, 0, len(investments))
	for _, inv := range investments {
		out = append(out, newInvestmentView(inv, latest))
	}
	c.JSON(http.StatusOK, out)
}

func newInvestmentView(inv models.Investment, latest map[uint]models.ItemPrice) investmentView {
	qty := decimal.NewFromInt(int64(inv.Quantity))
	view := investmentView{
		Investment:      inv,
		TotalInvestment: inv.PurchasePrice.Mul(qty),
	}
	if row, ok := latest[inv.ItemID]; ok {
		price := row.Price
		value := price.Mul(qty)
		view.CurrentPrice = &price
		view.TotalCurrentValue = &value
	}
	return view
}

func (h *APIHandler) CreateInvestment(c *gin.Context) {
	var req createInvestmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing required fields", "details": err.Error()})
		return
	}
	if req.Quantity <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "quantity must be positive"})
		return
	}
	if req.PurchasePrice.IsNegative() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "purchase_price must not be negative"})
		return
	}

	ctx := c.Request.Context()

	var item models.Item
	if err := h.db.WithContext(ctx).First(&item, req.ItemID).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "item not found"})
		return
	}

	investment := models.Investment{
		ID:            uuid.NewString(),
		ItemID:        req.ItemID,
		PurchaseDate:  req.PurchaseDate,
		PurchasePrice: req.PurchasePrice,
		Quantity:      req.Quantity,
	}
	if err := h.db.WithContext(ctx).Create(&investment).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add investment"})
		return
	}
	investment.Item = item

	c.JSON(http.StatusCreated, investment)
}

func (h *APIHandler) DeleteInvestment(c *gin.Context) {
	id := c.Param("id")

	result := h.db.WithContext(c.Request.Context()).Delete(&models.Investment{}, "id = ?", id)
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete investment"})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "investment not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Investment deleted"})
}
