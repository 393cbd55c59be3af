package recon

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/akwasiboateng/campus-market/internal"
	"github.com/akwasiboateng/campus-market/internal/core/datamodel/payment"
	"github.com/akwasiboateng/campus-market/internal/core/datamodel/payout"
	paystacktypes "github.com/akwasiboateng/campus-market/internal/core/datamodel/paystack"
	"github.com/akwasiboateng/campus-market/internal/core/events"
)

// Service drives one sync pass per resource type: gateway transactions into
// payments, gateway transfers into payouts. Records are processed one at a
// time with per-record fault isolation: an error on one record is logged and
// counted, and never stops the rest of the batch.
type Service struct {
	gateway  GatewayAPI
	store    Datastore
	bus      *events.EventBus
	currency string
	logger   *slog.Logger
}

// NewService wires the engine. currency is the platform settlement currency;
// records in other currencies are mirrored verbatim but flagged in the logs.
// bus may be nil when no subscriber cares about sync events.
func NewService(gateway GatewayAPI, store Datastore, bus *events.EventBus, currency string, logger *slog.Logger) *Service {
	return &Service{
		gateway:  gateway,
		store:    store,
		bus:      bus,
		currency: currency,
		logger:   logger,
	}
}

// SyncTransactionsToPayments runs one reconciliation pass over the gateway
// transaction ledger. The returned error is stage-level only (snapshot
// failure or cancellation); per-record outcomes live in the report.
func (s *Service) SyncTransactionsToPayments(ctx context.Context) (*StageReport, error) {
	report := &StageReport{Resource: "transactions", StartedAt: time.Now()}
	defer func() { report.Duration = time.Since(report.StartedAt) }()

	resolver, err := NewResolver(ctx, s.store, s.logger)
	if err != nil {
		return report, internal.NewStageError("transactions", err)
	}

	transactions := s.gateway.ListTransactions(ctx)
	report.Fetched = len(transactions)

	s.logger.Info("transaction sync pass started",
		"run_id", internal.RunIDFromContext(ctx),
		"fetched", len(transactions))

	for i := range transactions {
		if err := ctx.Err(); err != nil {
			return report, internal.NewStageError("transactions", err)
		}
		s.syncTransaction(ctx, resolver, &transactions[i], report)
	}

	s.logger.Info("transaction sync pass finished",
		"run_id", internal.RunIDFromContext(ctx),
		"fetched", report.Fetched,
		"created", report.Created,
		"updated", report.Updated,
		"unchanged", report.Unchanged,
		"skipped", report.Skipped,
		"failed", report.Failed)

	s.publish(ctx, events.NewSyncCompletedEvent(
		internal.RunIDFromContext(ctx), report.Resource,
		report.Fetched, report.Created, report.Updated, report.Skipped, report.Failed))

	return report, nil
}

// syncTransaction reconciles a single gateway transaction. All failure paths
// end here; nothing escapes to the batch loop.
func (s *Service) syncTransaction(ctx context.Context, resolver *Resolver, tx *paystacktypes.Transaction, report *StageReport) {
	existing, err := s.store.GetPaymentByPaystackReference(ctx, tx.Reference)
	if err != nil {
		s.logger.Error("payment lookup failed", "reference", tx.Reference, "error", err)
		report.Failed++
		return
	}

	if existing != nil {
		if existing.Status == tx.Status {
			report.Unchanged++
			return
		}

		// status drift: only the mirror fields move, everything else is
		// immutable after first creation
		patch := PaymentPatch{
			Status:          tx.Status,
			PaidAt:          tx.PaidAt,
			GatewayResponse: tx.GatewayResponse,
		}
		if err := s.store.UpdatePayment(ctx, existing.ID, patch); err != nil {
			s.logger.Error("payment status update failed",
				"reference", tx.Reference,
				"payment_id", existing.ID,
				"error", err)
			report.Failed++
			return
		}

		s.logger.Info("payment status updated",
			"reference", tx.Reference,
			"payment_id", existing.ID,
			"from", existing.Status,
			"to", tx.Status)
		report.Updated++
		s.publish(ctx, events.NewPaymentSyncedEvent(existing.ID, tx.Reference, existing.OrderID, existing.VendorID, tx.Status, false))
		return
	}

	if s.currency != "" && tx.Currency != "" && tx.Currency != s.currency {
		s.logger.Warn("transaction currency differs from settlement currency",
			"reference", tx.Reference,
			"currency", tx.Currency,
			"settlement_currency", s.currency)
	}

	buyer, err := resolver.ResolveBuyer(tx.Customer.Email)
	if err != nil {
		s.logger.Warn("skipping transaction: buyer not resolved",
			"reference", tx.Reference,
			"customer_email", tx.Customer.Email)
		report.Skipped++
		return
	}

	vendorID, policy, err := resolver.ResolveTransactionVendor(tx)
	if err != nil {
		s.logger.Warn("skipping transaction: vendor not resolved", "reference", tx.Reference)
		report.Skipped++
		return
	}

	orderID, orderCreated, err := resolver.ResolveOrder(ctx, tx, buyer.ID, vendorID)
	if err != nil {
		if internal.IsResolutionError(err) {
			s.logger.Warn("skipping transaction: order not resolved", "reference", tx.Reference, "error", err)
			report.Skipped++
		} else {
			s.logger.Error("order resolution failed", "reference", tx.Reference, "error", err)
			report.Failed++
		}
		return
	}

	newPayment := &payment.Payment{
		Reference:         payment.ReferencePrefix + uuid.NewString(),
		PaystackReference: tx.Reference,
		OrderID:           orderID,
		VendorID:          vendorID,
		BuyerID:           buyer.ID,
		Amount:            MinorToMajor(tx.Amount),
		Currency:          tx.Currency,
		PaymentMethod:     tx.Channel,
		Status:            tx.Status,
		PaidAt:            tx.PaidAt,
		GatewayResponse:   tx.GatewayResponse,
		MobileNumber:      optionalString(tx.Metadata.MobileNumber),
		NetworkProvider:   optionalString(tx.Metadata.NetworkProvider),
	}

	if err := s.store.CreatePayment(ctx, newPayment); err != nil {
		s.logger.Error("payment create failed", "reference", tx.Reference, "error", err)
		report.Failed++
		return
	}

	s.logger.Info("payment created from gateway transaction",
		"reference", tx.Reference,
		"payment_id", newPayment.ID,
		"order_id", orderID,
		"order_synthesized", orderCreated,
		"vendor_id", vendorID,
		"vendor_policy", policy,
		"amount", newPayment.Amount.String())
	report.Created++
	s.publish(ctx, events.NewPaymentSyncedEvent(newPayment.ID, tx.Reference, orderID, vendorID, tx.Status, true))
}

// SyncTransfersToPayouts runs one reconciliation pass over the gateway
// transfer ledger, keyed on transfer reference against payout transaction_id.
func (s *Service) SyncTransfersToPayouts(ctx context.Context) (*StageReport, error) {
	report := &StageReport{Resource: "transfers", StartedAt: time.Now()}
	defer func() { report.Duration = time.Since(report.StartedAt) }()

	resolver, err := NewResolver(ctx, s.store, s.logger)
	if err != nil {
		return report, internal.NewStageError("transfers", err)
	}

	transfers := s.gateway.ListTransfers(ctx)
	report.Fetched = len(transfers)

	s.logger.Info("transfer sync pass started",
		"run_id", internal.RunIDFromContext(ctx),
		"fetched", len(transfers))

	for i := range transfers {
		if err := ctx.Err(); err != nil {
			return report, internal.NewStageError("transfers", err)
		}
		s.syncTransfer(ctx, resolver, &transfers[i], report)
	}

	s.logger.Info("transfer sync pass finished",
		"run_id", internal.RunIDFromContext(ctx),
		"fetched", report.Fetched,
		"created", report.Created,
		"updated", report.Updated,
		"unchanged", report.Unchanged,
		"skipped", report.Skipped,
		"failed", report.Failed)

	s.publish(ctx, events.NewSyncCompletedEvent(
		internal.RunIDFromContext(ctx), report.Resource,
		report.Fetched, report.Created, report.Updated, report.Skipped, report.Failed))

	return report, nil
}

func (s *Service) syncTransfer(ctx context.Context, resolver *Resolver, tr *paystacktypes.Transfer, report *StageReport) {
	existing, err := s.store.GetPayoutByTransactionID(ctx, tr.Reference)
	if err != nil {
		s.logger.Error("payout lookup failed", "reference", tr.Reference, "error", err)
		report.Failed++
		return
	}

	if existing != nil {
		if existing.Status == tr.Status {
			report.Unchanged++
			return
		}

		if err := s.store.UpdatePayout(ctx, existing.ID, PayoutPatch{Status: tr.Status}); err != nil {
			s.logger.Error("payout status update failed",
				"reference", tr.Reference,
				"payout_id", existing.ID,
				"error", err)
			report.Failed++
			return
		}

		s.logger.Info("payout status updated",
			"reference", tr.Reference,
			"payout_id", existing.ID,
			"from", existing.Status,
			"to", tr.Status)
		report.Updated++
		s.publish(ctx, events.NewPayoutSyncedEvent(existing.ID, tr.Reference, existing.VendorID, tr.Status, false))
		return
	}

	vendorID, err := resolver.ResolveTransferVendor(tr)
	if err != nil {
		s.logger.Warn("skipping transfer: vendor not resolved",
			"reference", tr.Reference,
			"recipient_email", tr.Recipient.Email)
		report.Skipped++
		return
	}

	newPayout := &payout.Payout{
		VendorID:      vendorID,
		Amount:        MinorToMajor(tr.Amount),
		Status:        tr.Status,
		MomoNumber:    optionalString(tr.Recipient.Details.AccountNumber),
		TransactionID: tr.Reference,
		Reason:        tr.Reason,
	}

	if err := s.store.CreatePayout(ctx, newPayout); err != nil {
		s.logger.Error("payout create failed", "reference", tr.Reference, "error", err)
		report.Failed++
		return
	}

	s.logger.Info("payout created from gateway transfer",
		"reference", tr.Reference,
		"payout_id", newPayout.ID,
		"vendor_id", vendorID,
		"amount", newPayout.Amount.String())
	report.Created++
	s.publish(ctx, events.NewPayoutSyncedEvent(newPayout.ID, tr.Reference, vendorID, tr.Status, true))
}

func (s *Service) publish(ctx context.Context, event events.Event) {
	if s.bus == nil {
		return
	}
	if err := s.bus.Publish(ctx, event); err != nil {
		s.logger.Error("failed to publish sync event", "event_type", event.EventType(), "error", err)
	}
}

func optionalString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
