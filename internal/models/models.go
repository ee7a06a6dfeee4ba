package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Item categories as used by the CSFloat listings API.
const (
	CategoryWeapon = 0
	CategoryKnife  = 1
	CategoryGlove  = 2
	CategoryOther  = 3
)

// PriceSourceCSFloat tags price rows resolved from the CSFloat listings API.
const PriceSourceCSFloat = "csfloat"

// Item represents a tracked CS2 catalog entry
type Item struct {
	ID             uint      `json:"id" gorm:"primaryKey"`
	DefIndex       int       `json:"def_index" gorm:"not null"`
	DefName        string    `json:"def_name" gorm:"not null"`
	PaintIndex     *int      `json:"paint_index"`
	PaintName      *string   `json:"paint_name"`
	MinFloat       *float64  `json:"min_float"`
	MaxFloat       *float64  `json:"max_float"`
	Category       int       `json:"category" gorm:"default:0"`
	MarketHashName *string   `json:"market_hash_name"`
	ImageURL       *string   `json:"image_url"`
	CreatedAt      time.Time `json:"created_at"`
}

func (Item) TableName() string { return "cs_items" }

// ItemPrice is one market price observation for an item. Rows are append-only:
// the ingestion pipeline never updates or deletes them, and the latest price
// per item is derived by taking the max recorded_at.
type ItemPrice struct {
	ID         uint            `json:"id" gorm:"primaryKey"`
	ItemID     uint            `json:"item_id" gorm:"not null;index"`
	Item       Item            `json:"-" gorm:"foreignKey:ItemID"`
	Price      decimal.Decimal `json:"price" gorm:"type:decimal(12,2);not null"`
	PriceCents int64           `json:"price_cents" gorm:"not null"`
	Source     string          `json:"source" gorm:"default:'csfloat'"`
	RecordedAt time.Time       `json:"recorded_at" gorm:"index;autoCreateTime"`
	CreatedAt  time.Time       `json:"created_at"`
}

func (ItemPrice) TableName() string { return "item_prices" }

// NewItemPrice builds the append-only price row for a resolved price.
// Price always equals PriceCents/100 exactly.
func NewItemPrice(itemID uint, priceCents int64) ItemPrice {
	return ItemPrice{
		ItemID:     itemID,
		Price:      decimal.NewFromInt(priceCents).Div(decimal.NewFromInt(100)),
		PriceCents: priceCents,
		Source:     PriceSourceCSFloat,
	}
}

// Investment is a user's purchase lot of an item
type Investment struct {
	ID            string          `json:"id" gorm:"primaryKey;size:36"`
	ItemID        uint            `json:"item_id" gorm:"not null;index"`
	Item          Item            `json:"item" gorm:"foreignKey:ItemID"`
	PurchaseDate  time.Time       `json:"purchase_date" gorm:"not null"`
	PurchasePrice decimal.Decimal `json:"purchase_price" gorm:"type:decimal(12,2);not null"`
	Quantity      int             `json:"quantity" gorm:"not null;default:1"`
	CreatedAt     time.Time       `json:"created_at"`
}

func (Investment) TableName() string { return "investments" }
