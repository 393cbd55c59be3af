package paystack

import (
	"bytes"
	"encoding/json"
	"time"
)

// Gateway status strings as Paystack reports them. Internal records store a
// local copy of these verbatim.
const (
	TransactionStatusSuccess   = "success"
	TransactionStatusFailed    = "failed"
	TransactionStatusAbandoned = "abandoned"
	TransactionStatusPending   = "pending"

	TransferStatusSuccess  = "success"
	TransferStatusPending  = "pending"
	TransferStatusFailed   = "failed"
	TransferStatusReversed = "reversed"
)

type Customer struct {
	ID    int64  `json:"id"`
	Email string `json:"email"`
}

type Subaccount struct {
	ID             int64  `json:"id"`
	SubaccountCode string `json:"subaccount_code"`
	BusinessName   string `json:"business_name"`
}

// TransactionMetadata is whatever the checkout flow attached when initializing
// the transaction. Paystack returns metadata as an object, an empty string, or
// null depending on how the transaction was created, so decoding is tolerant.
// vendor_id and order_id arrive as strings or numbers; json.Number accepts both.
type TransactionMetadata struct {
	VendorID        json.Number `json:"vendor_id"`
	OrderID         json.Number `json:"order_id"`
	MobileNumber    string      `json:"mobile_number"`
	NetworkProvider string      `json:"network_provider"`
}

func (m *TransactionMetadata) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) || trimmed[0] == '"' {
		*m = TransactionMetadata{}
		return nil
	}

	type alias TransactionMetadata
	var a alias
	if err := json.Unmarshal(trimmed, &a); err != nil {
		return err
	}
	*m = TransactionMetadata(a)
	return nil
}

// Transaction is one ledger entry from GET /transaction. Amount is in minor
// units (pesewas).
type Transaction struct {
	ID              int64               `json:"id"`
	Reference       string              `json:"reference"`
	Amount          int64               `json:"amount"`
	Currency        string              `json:"currency"`
	Status          string              `json:"status"`
	Channel         string              `json:"channel"`
	GatewayResponse string              `json:"gateway_response"`
	PaidAt          *time.Time          `json:"paid_at"`
	CreatedAt       *time.Time          `json:"created_at"`
	Customer        Customer            `json:"customer"`
	Metadata        TransactionMetadata `json:"metadata"`
	Subaccount      *Subaccount         `json:"subaccount"`
}

type RecipientDetails struct {
	AccountNumber string `json:"account_number"`
	AccountName   string `json:"account_name"`
	BankCode      string `json:"bank_code"`
	BankName      string `json:"bank_name"`
}

type TransferRecipient struct {
	ID      int64            `json:"id"`
	Type    string           `json:"type"`
	Name    string           `json:"name"`
	Email   string           `json:"email"`
	Details RecipientDetails `json:"details"`
}

// Transfer is one ledger entry from GET /transfer. Amount is in minor units.
type Transfer struct {
	ID        int64             `json:"id"`
	Reference string            `json:"reference"`
	Amount    int64             `json:"amount"`
	Currency  string            `json:"currency"`
	Status    string            `json:"status"`
	Reason    string            `json:"reason"`
	CreatedAt *time.Time        `json:"createdAt"`
	Recipient TransferRecipient `json:"recipient"`
}

// Balance is one currency bucket from GET /balance, in minor units.
type Balance struct {
	Currency string `json:"currency"`
	Balance  int64  `json:"balance"`
}

// Settlement is one payout batch from GET /settlement, used for reporting
// only; settlements are not reconciled into internal tables.
type Settlement struct {
	ID              int64      `json:"id"`
	Domain          string     `json:"domain"`
	Status          string     `json:"status"`
	Currency        string     `json:"currency"`
	TotalAmount     int64      `json:"total_amount"`
	EffectiveAmount int64      `json:"effective_amount"`
	TotalFees       int64      `json:"total_fees"`
	SettlementDate  *time.Time `json:"settlement_date"`
}

type ListMeta struct {
	Total     int `json:"total"`
	PerPage   int `json:"perPage"`
	Page      int `json:"page"`
	PageCount int `json:"pageCount"`
}

type TransactionListResponse struct {
	Status  bool          `json:"status"`
	Message string        `json:"message"`
	Data    []Transaction `json:"data"`
	Meta    ListMeta      `json:"meta"`
}

type TransferListResponse struct {
	Status  bool       `json:"status"`
	Message string     `json:"message"`
	Data    []Transfer `json:"data"`
	Meta    ListMeta   `json:"meta"`
}

type SettlementListResponse struct {
	Status  bool         `json:"status"`
	Message string       `json:"message"`
	Data    []Settlement `json:"data"`
	Meta    ListMeta     `json:"meta"`
}

type BalanceResponse struct {
	Status  bool      `json:"status"`
	Message string    `json:"message"`
	Data    []Balance `json:"data"`
}
