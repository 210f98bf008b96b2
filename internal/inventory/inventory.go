package inventory

import (
	"time"

	"github.com/osmech/workshop-management/internal"
)

// Item is a stocked part. Stock levels only change through the explicit
// adjust-stock operation; attaching a part to a service order does not
// touch the quantity here.
type Item struct {
	ID            int64     `json:"id" gorm:"primaryKey"`
	Code          string    `json:"code" gorm:"uniqueIndex;not null"`
	Name          string    `json:"name" gorm:"not null"`
	Description   *string   `json:"description,omitempty"`
	Manufacturer  *string   `json:"manufacturer,omitempty"`
	Category      string    `json:"category" gorm:"index;not null"`
	CostPrice     float64   `json:"cost_price" gorm:"column:cost_price;not null"`
	SellPrice     float64   `json:"sell_price" gorm:"column:sell_price;not null"`
	StockQuantity int       `json:"stock_quantity" gorm:"column:stock_quantity;default:0"`
	MinStockLevel int       `json:"min_stock_level" gorm:"column:min_stock_level;default:0"`
	CreatedAt     time.Time `json:"created_at"`
}

func (Item) TableName() string {
	return "inventory_items"
}

// LowStock reports whether the item is at or below its reorder threshold.
func (i *Item) LowStock() bool {
	return i.StockQuantity <= i.MinStockLevel
}

type StockOperation string

const (
	StockAdd    StockOperation = "add"
	StockRemove StockOperation = "remove"
)

var (
	ErrItemNotFound      = internal.NewNotFoundError("inventory item not found", internal.ErrCodeItemNotFound)
	ErrCodeTaken         = internal.NewConflictError("item code already exists", internal.ErrCodeCodeTaken)
	ErrInsufficientStock = internal.NewConflictError("insufficient stock", internal.ErrCodeInsufficientStock)
)
