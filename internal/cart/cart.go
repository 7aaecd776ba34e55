package cart

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MaxQuantityPerProduct caps how many units of one product a cart can hold.
const MaxQuantityPerProduct = 99

// Item is a single cart line keyed by product.
type Item struct {
	ProductID    uuid.UUID       `json:"product_id"`
	Title        string          `json:"title"`
	Slug         string          `json:"slug"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
	HeroImageRef *string         `json:"hero_image_ref,omitempty"`
	Quantity     int             `json:"quantity"`
}

// ExpandedItem is one purchasable unit. A line with quantity three expands to
// three of these, each carrying the same product data with quantity one.
type ExpandedItem struct {
	ProductID    uuid.UUID       `json:"product_id"`
	Title        string          `json:"title"`
	Slug         string          `json:"slug"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
	HeroImageRef *string         `json:"hero_image_ref,omitempty"`
}

// Snapshot is an immutable view of a cart used by checkout and the API layer.
type Snapshot struct {
	Items      []Item          `json:"items"`
	ItemCount  int             `json:"item_count"`
	TotalPrice decimal.Decimal `json:"total_price"`
}

// TotalPriceString formats the total with exactly two decimal places.
func (s Snapshot) TotalPriceString() string {
	return s.TotalPrice.StringFixed(2)
}

// Expanded returns the per-unit rows for the snapshot, preserving line order.
func (s Snapshot) Expanded() []ExpandedItem {
	var out []ExpandedItem
	for _, item := range s.Items {
		for i := 0; i < item.Quantity; i++ {
			out = append(out, ExpandedItem{
				ProductID:    item.ProductID,
				Title:        item.Title,
				Slug:         item.Slug,
				UnitPrice:    item.UnitPrice,
				HeroImageRef: item.HeroImageRef,
			})
		}
	}
	return out
}
