package events

import (
	"time"

	"github.com/google/uuid"
)

const (
	EventTypePaymentSynced = "payment.synced"
	EventTypePayoutSynced  = "payout.synced"
	EventTypeSyncCompleted = "sync.completed"
)

// PaymentSyncedEvent is emitted after a gateway transaction is reconciled into
// a Payment row, on both create and status update.
type PaymentSyncedEvent struct {
	BaseEvent
	PaymentID         int64  `json:"payment_id"`
	PaystackReference string `json:"paystack_reference"`
	OrderID           int64  `json:"order_id"`
	VendorID          int64  `json:"vendor_id"`
	Status            string `json:"status"`
	Created           bool   `json:"created"`
}

func NewPaymentSyncedEvent(paymentID int64, paystackReference string, orderID, vendorID int64, status string, created bool) *PaymentSyncedEvent {
	return &PaymentSyncedEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypePaymentSynced,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"payment_id":         paymentID,
				"paystack_reference": paystackReference,
				"order_id":           orderID,
				"vendor_id":          vendorID,
				"status":             status,
				"created":            created,
			},
		},
		PaymentID:         paymentID,
		PaystackReference: paystackReference,
		OrderID:           orderID,
		VendorID:          vendorID,
		Status:            status,
		Created:           created,
	}
}

// PayoutSyncedEvent is emitted after a gateway transfer is reconciled into a
// Payout row.
type PayoutSyncedEvent struct {
	BaseEvent
	PayoutID      int64  `json:"payout_id"`
	TransactionID string `json:"transaction_id"`
	VendorID      int64  `json:"vendor_id"`
	Status        string `json:"status"`
	Created       bool   `json:"created"`
}

func NewPayoutSyncedEvent(payoutID int64, transactionID string, vendorID int64, status string, created bool) *PayoutSyncedEvent {
	return &PayoutSyncedEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypePayoutSynced,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"payout_id":      payoutID,
				"transaction_id": transactionID,
				"vendor_id":      vendorID,
				"status":         status,
				"created":        created,
			},
		},
		PayoutID:      payoutID,
		TransactionID: transactionID,
		VendorID:      vendorID,
		Status:        status,
		Created:       created,
	}
}

// SyncCompletedEvent is emitted once per run with the aggregate counters.
type SyncCompletedEvent struct {
	BaseEvent
	RunID    string `json:"run_id"`
	Resource string `json:"resource"`
	Fetched  int    `json:"fetched"`
	Created  int    `json:"created"`
	Updated  int    `json:"updated"`
	Skipped  int    `json:"skipped"`
	Failed   int    `json:"failed"`
}

func NewSyncCompletedEvent(runID, resource string, fetched, created, updated, skipped, failed int) *SyncCompletedEvent {
	return &SyncCompletedEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypeSyncCompleted,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"run_id":   runID,
				"resource": resource,
				"fetched":  fetched,
				"created":  created,
				"updated":  updated,
				"skipped":  skipped,
				"failed":   failed,
			},
		},
		RunID:    runID,
		Resource: resource,
		Fetched:  fetched,
		Created:  created,
		Updated:  updated,
		Skipped:  skipped,
		Failed:   failed,
	}
}
