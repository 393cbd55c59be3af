package order

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	StatusPending   = "pending"
	StatusPaid      = "paid"
	StatusDelivered = "delivered"
	StatusCancelled = "cancelled"
)

// SyncedOrderNote marks orders that were synthesized by the reconciliation
// engine because a gateway transaction arrived without order metadata.
const SyncedOrderNote = "order synthesized from paystack transaction sync"

type Order struct {
	ID              int64           `gorm:"primaryKey"`
	BuyerID         int64           `gorm:"column:buyer_id;not null;index"`
	VendorID        int64           `gorm:"column:vendor_id;not null;index"`
	ProductID       int64           `gorm:"column:product_id;not null"`
	Quantity        int             `gorm:"column:quantity;not null;default:1"`
	TotalAmount     decimal.Decimal `gorm:"column:total_amount;type:numeric(12,2);not null"`
	Status          string          `gorm:"column:status;not null;default:pending"`
	ShippingAddress string          `gorm:"column:shipping_address"`
	Phone           string          `gorm:"column:phone"`
	Notes           string          `gorm:"column:notes"`
	CreatedAt       time.Time       `gorm:"column:created_at"`
	UpdatedAt       time.Time       `gorm:"column:updated_at"`
}

func (Order) TableName() string {
	return "orders"
}

// IsSynthesized reports whether this order was created by a sync pass rather
// than through checkout.
func (o *Order) IsSynthesized() bool {
	return o.Notes == SyncedOrderNote
}
