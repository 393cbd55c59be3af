package recon

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/akwasiboateng/campus-market/internal"
	"github.com/akwasiboateng/campus-market/internal/core/datamodel/order"
	paystacktypes "github.com/akwasiboateng/campus-market/internal/core/datamodel/paystack"
	"github.com/akwasiboateng/campus-market/internal/core/datamodel/user"
)

// Resolver maps gateway-side records onto platform identities. It works off a
// full user-table snapshot taken once when the resolver is built: the
// snapshot is read-only for the duration of one sync run, never shared across
// runs, and discarded with the resolver. Email matching is exact and
// case-sensitive.
type Resolver struct {
	store  Datastore
	logger *slog.Logger

	usersByEmail        map[string]*user.User
	vendorsBySubaccount map[string]*user.User
	vendors             []*user.User
}

// NewResolver snapshots the user table for one sync run.
func NewResolver(ctx context.Context, store Datastore, logger *slog.Logger) (*Resolver, error) {
	users, err := store.GetUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to snapshot users: %w", err)
	}

	r := &Resolver{
		store:               store,
		logger:              logger,
		usersByEmail:        make(map[string]*user.User, len(users)),
		vendorsBySubaccount: make(map[string]*user.User),
	}

	for i := range users {
		u := &users[i]
		r.usersByEmail[u.Email] = u
		if u.IsVendor() {
			r.vendors = append(r.vendors, u)
			if u.HasSubaccount() {
				r.vendorsBySubaccount[*u.SubaccountCode] = u
			}
		}
	}

	logger.Debug("resolver snapshot built",
		"users", len(users),
		"vendors", len(r.vendors),
		"subaccounts", len(r.vendorsBySubaccount))

	return r, nil
}

// ResolveBuyer matches a gateway customer email to a platform user.
func (r *Resolver) ResolveBuyer(email string) (*user.User, error) {
	u, ok := r.usersByEmail[email]
	if !ok {
		return nil, internal.NewResolutionError(
			fmt.Sprintf("no user matches customer email %q", email),
			internal.ErrCodeBuyerNotResolved,
		)
	}
	return u, nil
}

// ResolveTransactionVendor attributes a transaction to a vendor, in priority
// order: metadata vendor_id, subaccount code reverse lookup, then the first
// listed vendor. The last step is the FALLBACK_FIRST policy: it exists so a
// transaction with no linkage metadata is not dropped outright, at the cost
// of attributing it to an arbitrary vendor, and every use of it is logged.
func (r *Resolver) ResolveTransactionVendor(tx *paystacktypes.Transaction) (int64, VendorResolutionPolicy, error) {
	if vendorID, err := tx.Metadata.VendorID.Int64(); err == nil && vendorID > 0 {
		return vendorID, PolicyMetadata, nil
	}

	if tx.Subaccount != nil && tx.Subaccount.SubaccountCode != "" {
		if vendor, ok := r.vendorsBySubaccount[tx.Subaccount.SubaccountCode]; ok {
			return vendor.ID, PolicySubaccount, nil
		}
	}

	if len(r.vendors) > 0 {
		fallback := r.vendors[0]
		r.logger.Warn("vendor attribution fell back to first listed vendor",
			"policy", PolicyFallbackFirst,
			"reference", tx.Reference,
			"vendor_id", fallback.ID)
		return fallback.ID, PolicyFallbackFirst, nil
	}

	return 0, "", internal.NewResolutionError(
		fmt.Sprintf("no vendor attributable for transaction %s", tx.Reference),
		internal.ErrCodeVendorNotResolved,
	)
}

// ResolveTransferVendor matches a transfer recipient to a vendor by exact
// email only. There is deliberately no metadata or subaccount fallback on
// this path.
func (r *Resolver) ResolveTransferVendor(tr *paystacktypes.Transfer) (int64, error) {
	u, ok := r.usersByEmail[tr.Recipient.Email]
	if !ok || !u.IsVendor() {
		return 0, internal.NewResolutionError(
			fmt.Sprintf("no vendor matches recipient email %q for transfer %s", tr.Recipient.Email, tr.Reference),
			internal.ErrCodeVendorNotResolved,
		)
	}
	return u.ID, nil
}

// ResolveOrder returns the order a transaction belongs to, synthesizing one
// when the metadata carries no order_id: quantity 1 of the vendor's first
// product (or the platform's first product when the vendor has none), total
// equal to the transaction amount in major units.
func (r *Resolver) ResolveOrder(ctx context.Context, tx *paystacktypes.Transaction, buyerID, vendorID int64) (int64, bool, error) {
	if orderID, err := tx.Metadata.OrderID.Int64(); err == nil && orderID > 0 {
		return orderID, false, nil
	}

	products, err := r.store.GetProductsByVendor(ctx, vendorID)
	if err != nil {
		return 0, false, internal.NewPersistenceError("failed to list vendor products", err)
	}
	if len(products) == 0 {
		products, err = r.store.GetProducts(ctx)
		if err != nil {
			return 0, false, internal.NewPersistenceError("failed to list products", err)
		}
	}
	if len(products) == 0 {
		return 0, false, internal.NewResolutionError(
			fmt.Sprintf("no product available to synthesize order for transaction %s", tx.Reference),
			internal.ErrCodeOrderNotResolved,
		)
	}

	synthesized := &order.Order{
		BuyerID:     buyerID,
		VendorID:    vendorID,
		ProductID:   products[0].ID,
		Quantity:    1,
		TotalAmount: MinorToMajor(tx.Amount),
		Status:      order.StatusPending,
		Phone:       tx.Metadata.MobileNumber,
		Notes:       order.SyncedOrderNote,
	}

	if err := r.store.CreateOrder(ctx, synthesized); err != nil {
		return 0, false, internal.NewPersistenceError("failed to create synthesized order", err)
	}

	r.logger.Info("synthesized order for unlinked transaction",
		"reference", tx.Reference,
		"order_id", synthesized.ID,
		"vendor_id", vendorID,
		"product_id", synthesized.ProductID)

	return synthesized.ID, true, nil
}
