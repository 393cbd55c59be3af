package product

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product is owned by the catalog service; the reconciliation engine reads
// products only to pick a line item for synthesized orders.
type Product struct {
	ID          int64           `gorm:"primaryKey"`
	VendorID    int64           `gorm:"column:vendor_id;not null;index"`
	Name        string          `gorm:"column:name;not null"`
	Description string          `gorm:"column:description"`
	Price       decimal.Decimal `gorm:"column:price;type:numeric(12,2);not null"`
	Stock       int             `gorm:"column:stock;default:0"`
	IsActive    bool            `gorm:"column:is_active;default:true"`
	CreatedAt   time.Time       `gorm:"column:created_at"`
	UpdatedAt   time.Time       `gorm:"column:updated_at"`
}

func (Product) TableName() string {
	return "products"
}
