package pricing

import (
	"context"
	"fmt"

	"github.com/DonJuan-DeMarco/cs2investments/internal/models"
	"gorm.io/gorm"
)

// RecordWriter appends one price-history row per resolved price.
type RecordWriter interface {
	WritePrice(ctx context.Context, itemID uint, priceCents int64) (models.ItemPrice, error)
}

// Writer is the gorm-backed RecordWriter. History is append-only: repeated
// runs insert new rows even when the price has not moved, which is what
// feeds the trend charts.
type Writer struct {
	db *gorm.DB
}

func NewWriter(db *gorm.DB) *Writer {
	return &Writer{db: db}
}

func (w *Writer) WritePrice(ctx context.Context, itemID uint, priceCents int64) (models.ItemPrice, error) {
	record := models.NewItemPrice(itemID, priceCents)
	if err := w.db.WithContext(ctx).Create(&record).Error; err != nil {
		return models.ItemPrice{}, fmt.Errorf("failed to insert price for item %d: %w", itemID, err)
	}
	return record, nil
}
