package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Product is a storefront catalog entry.
type Product struct {
	ID           uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	CategoryID   uuid.UUID       `gorm:"column:category_id;type:uuid;not null" json:"category_id"`
	Title        string          `gorm:"column:title;not null" json:"title"`
	Slug         string          `gorm:"column:slug;not null;uniqueIndex" json:"slug"`
	Description  *string         `gorm:"column:description" json:"description,omitempty"`
	UnitPrice    decimal.Decimal `gorm:"column:unit_price;type:numeric(12,2);not null" json:"unit_price"`
	StockQty     int             `gorm:"column:stock_qty;not null;default:0" json:"stock_qty"`
	HeroImageRef *string         `gorm:"column:hero_image_ref" json:"hero_image_ref,omitempty"`
	CreatedAt    time.Time       `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time       `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}
