package recon

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"github.com/akwasiboateng/campus-market/internal/core/datamodel/order"
	"github.com/akwasiboateng/campus-market/internal/core/datamodel/payment"
	"github.com/akwasiboateng/campus-market/internal/core/datamodel/payout"
	"github.com/akwasiboateng/campus-market/internal/core/datamodel/product"
	paystacktypes "github.com/akwasiboateng/campus-market/internal/core/datamodel/paystack"
	"github.com/akwasiboateng/campus-market/internal/core/datamodel/user"
)

// VendorResolutionPolicy names the strategy that attributed a gateway record
// to a vendor. Transactions walk METADATA → SUBACCOUNT → FALLBACK_FIRST;
// transfers use EMAIL_ONLY exclusively. The two paths are deliberately
// asymmetric and must not be unified: FALLBACK_FIRST attributes revenue to
// the first listed vendor when nothing else matches, which keeps the money
// visible at the cost of possibly wrong attribution, and that trade-off is
// kept explicit per resource type.
type VendorResolutionPolicy string

const (
	PolicyMetadata      VendorResolutionPolicy = "METADATA"
	PolicySubaccount    VendorResolutionPolicy = "SUBACCOUNT"
	PolicyFallbackFirst VendorResolutionPolicy = "FALLBACK_FIRST"
	PolicyEmailOnly     VendorResolutionPolicy = "EMAIL_ONLY"
)

// MinorToMajor converts gateway minor units (pesewas) to major units (cedis).
func MinorToMajor(minor int64) decimal.Decimal {
	return decimal.New(minor, -2)
}

// GatewayAPI is the slice of the Paystack client the engine consumes. The
// list drains return partial results on mid-drain failures, never an error.
type GatewayAPI interface {
	ListTransactions(ctx context.Context) []paystacktypes.Transaction
	ListTransfers(ctx context.Context) []paystacktypes.Transfer
	ListSettlements(ctx context.Context) []paystacktypes.Settlement
	CheckBalance(ctx context.Context) ([]paystacktypes.Balance, error)
}

// PaymentPatch is the only mutation allowed on an existing payment: the
// status mirror fields. Everything else is immutable after first creation.
type PaymentPatch struct {
	Status          string
	PaidAt          *time.Time
	GatewayResponse string
}

// PayoutPatch mirrors the gateway transfer status onto an existing payout.
type PayoutPatch struct {
	Status string
}

// Datastore is the persistence contract the engine reads and writes through.
// Lookups by reference return (nil, nil) when no row exists. CreatePayment
// and CreatePayout must be atomic insert-or-update-on-conflict keyed on the
// gateway reference, so two overlapping runs converge on one row instead of
// racing on read-then-write.
type Datastore interface {
	GetUsers(ctx context.Context) ([]user.User, error)
	GetUser(ctx context.Context, id int64) (*user.User, error)
	GetProductsByVendor(ctx context.Context, vendorID int64) ([]product.Product, error)
	GetProducts(ctx context.Context) ([]product.Product, error)

	CreateOrder(ctx context.Context, o *order.Order) error

	GetPaymentByPaystackReference(ctx context.Context, reference string) (*payment.Payment, error)
	CreatePayment(ctx context.Context, p *payment.Payment) error
	UpdatePayment(ctx context.Context, id int64, patch PaymentPatch) error

	GetPayoutByTransactionID(ctx context.Context, transactionID string) (*payout.Payout, error)
	GetPayoutsByVendor(ctx context.Context, vendorID int64) ([]payout.Payout, error)
	CreatePayout(ctx context.Context, p *payout.Payout) error
	UpdatePayout(ctx context.Context, id int64, patch PayoutPatch) error
}

// StageReport carries the per-record counters for one sync stage. Skipped
// counts resolution misses (orphan gateway records needing manual follow-up);
// Failed counts persistence or lookup errors on individual records.
type StageReport struct {
	Resource  string        `json:"resource"`
	Fetched   int           `json:"fetched"`
	Created   int           `json:"created"`
	Updated   int           `json:"updated"`
	Unchanged int           `json:"unchanged"`
	Skipped   int           `json:"skipped"`
	Failed    int           `json:"failed"`
	StartedAt time.Time     `json:"started_at"`
	Duration  time.Duration `json:"duration"`
}

// StageResult pairs a stage report with the stage-level error, if the stage
// as a whole could not run (snapshot load failure, cancelled context). Record
// level problems never surface here; they live in the report counters.
type StageResult struct {
	Report *StageReport `json:"report,omitempty"`
	Error  string       `json:"error,omitempty"`
	Err    error        `json:"-"`
}

// RunReport is the outcome of one full orchestrated run. Callers choose what
// a stage failure means to them instead of relying on implicit propagation.
type RunReport struct {
	RunID        string        `json:"run_id"`
	StartedAt    time.Time     `json:"started_at"`
	Duration     time.Duration `json:"duration"`
	Transactions StageResult   `json:"transactions"`
	Transfers    StageResult   `json:"transfers"`
}

// Err aggregates the per-stage errors for callers that want a single answer.
func (r *RunReport) Err() error {
	return errors.Join(r.Transactions.Err, r.Transfers.Err)
}
