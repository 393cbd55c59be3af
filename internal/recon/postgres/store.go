package postgres

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/akwasiboateng/campus-market/internal/core/datamodel/order"
	"github.com/akwasiboateng/campus-market/internal/core/datamodel/payment"
	"github.com/akwasiboateng/campus-market/internal/core/datamodel/payout"
	"github.com/akwasiboateng/campus-market/internal/core/datamodel/product"
	"github.com/akwasiboateng/campus-market/internal/core/datamodel/user"
	"github.com/akwasiboateng/campus-market/internal/recon"
)

// Store implements recon.Datastore over gorm. Uniqueness of
// payments.paystack_reference and payouts.transaction_id is enforced by the
// schema; the create methods ride that constraint with an
// insert-or-update-on-conflict so overlapping runs converge instead of racing.
type Store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) recon.Datastore {
	return &Store{db: db}
}

func (s *Store) GetUsers(ctx context.Context) ([]user.User, error) {
	var users []user.User
	err := s.db.WithContext(ctx).Order("id ASC").Find(&users).Error
	return users, err
}

func (s *Store) GetUser(ctx context.Context, id int64) (*user.User, error) {
	var u user.User
	err := s.db.WithContext(ctx).First(&u, id).Error
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *Store) GetProductsByVendor(ctx context.Context, vendorID int64) ([]product.Product, error) {
	var products []product.Product
	err := s.db.WithContext(ctx).Where("vendor_id = ?", vendorID).Order("id ASC").Find(&products).Error
	return products, err
}

func (s *Store) GetProducts(ctx context.Context) ([]product.Product, error) {
	var products []product.Product
	err := s.db.WithContext(ctx).Order("id ASC").Find(&products).Error
	return products, err
}

func (s *Store) CreateOrder(ctx context.Context, o *order.Order) error {
	return s.db.WithContext(ctx).Create(o).Error
}

func (s *Store) GetPaymentByPaystackReference(ctx context.Context, reference string) (*payment.Payment, error) {
	var p payment.Payment
	err := s.db.WithContext(ctx).Where("paystack_reference = ?", reference).First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *Store) CreatePayment(ctx context.Context, p *payment.Payment) error {
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "paystack_reference"}},
		DoUpdates: clause.AssignmentColumns([]string{"status", "paid_at", "gateway_response", "updated_at"}),
	}).Create(p).Error
}

func (s *Store) UpdatePayment(ctx context.Context, id int64, patch recon.PaymentPatch) error {
	updates := map[string]interface{}{
		"status":     patch.Status,
		"updated_at": time.Now(),
	}

	if patch.PaidAt != nil {
		updates["paid_at"] = *patch.PaidAt
	}

	if patch.GatewayResponse != "" {
		updates["gateway_response"] = patch.GatewayResponse
	}

	return s.db.WithContext(ctx).Model(&payment.Payment{}).Where("id = ?", id).Updates(updates).Error
}

func (s *Store) GetPayoutByTransactionID(ctx context.Context, transactionID string) (*payout.Payout, error) {
	var p payout.Payout
	err := s.db.WithContext(ctx).Where("transaction_id = ?", transactionID).First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *Store) GetPayoutsByVendor(ctx context.Context, vendorID int64) ([]payout.Payout, error) {
	var payouts []payout.Payout
	err := s.db.WithContext(ctx).Where("vendor_id = ?", vendorID).Order("created_at DESC").Find(&payouts).Error
	return payouts, err
}

func (s *Store) CreatePayout(ctx context.Context, p *payout.Payout) error {
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "transaction_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"status", "updated_at"}),
	}).Create(p).Error
}

func (s *Store) UpdatePayout(ctx context.Context, id int64, patch recon.PayoutPatch) error {
	updates := map[string]interface{}{
		"status":     patch.Status,
		"updated_at": time.Now(),
	}

	return s.db.WithContext(ctx).Model(&payout.Payout{}).Where("id = ?", id).Updates(updates).Error
}
