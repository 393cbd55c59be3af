package payout

import (
	"time"

	"github.com/shopspring/decimal"
)

// Payout mirrors one gateway transfer to a vendor. TransactionID carries the
// gateway transfer reference and is the sole idempotency key for transfer sync.
type Payout struct {
	ID            int64           `gorm:"primaryKey"`
	VendorID      int64           `gorm:"column:vendor_id;not null;index"`
	Amount        decimal.Decimal `gorm:"column:amount;type:numeric(12,2);not null"`
	Status        string          `gorm:"column:status;not null;default:pending"`
	MomoNumber    *string         `gorm:"column:momo_number"`
	TransactionID string          `gorm:"column:transaction_id;not null;uniqueIndex"`
	Reason        string          `gorm:"column:reason"`
	CreatedAt     time.Time       `gorm:"column:created_at"`
	UpdatedAt     time.Time       `gorm:"column:updated_at"`
}

func (Payout) TableName() string {
	return "payouts"
}
