package payment

import (
	"time"

	"github.com/shopspring/decimal"
)

// ReferencePrefix prefixes platform-assigned payment references so they are
// distinguishable from gateway references.
const ReferencePrefix = "CM-PAY-"

// Payment mirrors one gateway transaction. PaystackReference is the sole
// idempotency key: at most one row may exist per gateway transaction, and the
// unique index backs the insert-or-update write path under concurrent runs.
type Payment struct {
	ID                int64           `gorm:"primaryKey"`
	Reference         string          `gorm:"column:reference;not null"`
	PaystackReference string          `gorm:"column:paystack_reference;not null;uniqueIndex"`
	OrderID           int64           `gorm:"column:order_id;not null;index"`
	VendorID          int64           `gorm:"column:vendor_id;not null;index"`
	BuyerID           int64           `gorm:"column:buyer_id;not null;index"`
	Amount            decimal.Decimal `gorm:"column:amount;type:numeric(12,2);not null"`
	Currency          string          `gorm:"column:currency;not null;default:GHS"`
	PaymentMethod     string          `gorm:"column:payment_method"`
	Status            string          `gorm:"column:status;not null;default:pending"`
	PaidAt            *time.Time      `gorm:"column:paid_at"`
	GatewayResponse   string          `gorm:"column:gateway_response"`
	MobileNumber      *string         `gorm:"column:mobile_number"`
	NetworkProvider   *string         `gorm:"column:network_provider"`
	CreatedAt         time.Time       `gorm:"column:created_at"`
	UpdatedAt         time.Time       `gorm:"column:updated_at"`
}

func (Payment) TableName() string {
	return "payments"
}
