package recon

import (
	"github.com/akwasiboateng/campus-market/internal/core/common/validation"
)

const (
	ResourceAll          = "all"
	ResourceTransactions = "transactions"
	ResourceTransfers    = "transfers"
)

// SyncRequest is the optional body of the admin sync trigger. An empty
// resource means a full run.
type SyncRequest struct {
	Resource string `json:"resource"`
}

func (r *SyncRequest) Validate() error {
	validator := validation.NewValidator()

	validator.Field("resource", r.Resource).
		In(ResourceAll, ResourceTransactions, ResourceTransfers)

	if appErr := validator.Validate(); appErr != nil {
		return appErr
	}
	return nil
}

// BalanceEntry is one currency bucket reported back to operators, converted
// to major units.
type BalanceEntry struct {
	Currency string `json:"currency"`
	Balance  string `json:"balance"`
}
