package api

import (
	"fmt"
	"net/http"
	"time"

	"github.com/DonJuan-DeMarco/cs2investments/internal/models"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

// ExportInvestments streams the portfolio as an XLSX workbook: one row per
// purchase lot with latest price and unrealized P/L.
func (h *APIHandler) ExportInvestments(c *gin.Context) {
	ctx := c.Request.Context()

	var investments []models.Investment
	if err := h.db.WithContext(ctx).Preload("Item").Order("purchase_date asc").Find(&investments).Error; err != nil {
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

	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Investments"
	f.SetSheetName("Sheet1", sheet)

	headers := []string{"Item", "Paint", "Purchase Date", "Purchase Price", "Quantity", "Total Investment", "Latest Price", "Current Value", "P/L"}
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, header)
	}

	for rowIdx, inv := range investments {
		qty := decimal.NewFromInt(int64(inv.Quantity))
		total := inv.PurchasePrice.Mul(qty)

		paint := ""
		if inv.Item.PaintName != nil {
			paint = *inv.Item.PaintName
		}

		values := []interface{}{
			inv.Item.DefName,
			paint,
			inv.PurchaseDate.Format("2006-01-02"),
			inv.PurchasePrice.InexactFloat64(),
			inv.Quantity,
			total.InexactFloat64(),
		}
		if row, ok := latest[inv.ItemID]; ok {
			value := row.Price.Mul(qty)
			values = append(values,
				row.Price.InexactFloat64(),
				value.InexactFloat64(),
				value.Sub(total).InexactFloat64(),
			)
		} else {
			values = append(values, nil, nil, nil)
		}

		for colIdx, v := range values {
			cell, _ := excelize.CoordinatesToCellName(colIdx+1, rowIdx+2)
			_ = f.SetCellValue(sheet, cell, v)
		}
	}

	filename := fmt.Sprintf("investments-%s.xlsx", time.Now().Format("20060102"))
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", "attachment; filename="+filename)
	if err := f.Write(c.Writer); err != nil {
		h.logger.Warn("failed to stream export", zap.Error(err))
	}
}
