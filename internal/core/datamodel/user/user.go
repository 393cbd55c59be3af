package user

import (
	"time"
)

const (
	RoleBuyer  = "buyer"
	RoleVendor = "vendor"
	RoleAdmin  = "admin"
)

// User is owned by the accounts service; the reconciliation engine only ever
// reads this table.
type User struct {
	ID             int64      `gorm:"primaryKey"`
	Name           string     `gorm:"column:name;not null"`
	Email          string     `gorm:"column:email;not null;uniqueIndex"`
	Role           string     `gorm:"column:role;not null;default:buyer"`
	SubaccountCode *string    `gorm:"column:subaccount_code"`
	MomoNumber     *string    `gorm:"column:momo_number"`
	IsActive       bool       `gorm:"column:is_active;default:true"`
	CreatedAt      time.Time  `gorm:"column:created_at"`
	UpdatedAt      time.Time  `gorm:"column:updated_at"`
	DeletedAt      *time.Time `gorm:"column:deleted_at"`
}

func (User) TableName() string {
	return "users"
}

func (u *User) IsVendor() bool {
	return u.Role == RoleVendor
}

// HasSubaccount reports whether the vendor has a registered payout subaccount
// on the gateway side.
func (u *User) HasSubaccount() bool {
	return u.SubaccountCode != nil && *u.SubaccountCode != ""
}
