package recon

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"

	errors "github.com/akwasiboateng/campus-market/internal"
	"github.com/akwasiboateng/campus-market/internal/transport"
)

// Handler exposes the reconciliation engine to operators and schedulers.
// This is an administrative surface only; buyers and vendors never see it.
type Handler struct {
	transport.BaseHandler
	Orchestrator *Orchestrator
	Gateway      GatewayAPI
	Logger       *slog.Logger
}

func NewHandler(orchestrator *Orchestrator, gateway GatewayAPI, logger *slog.Logger) *Handler {
	return &Handler{
		BaseHandler:  *transport.NewBaseHandler(logger),
		Orchestrator: orchestrator,
		Gateway:      gateway,
		Logger:       logger,
	}
}

// TriggerSync handles POST /api/v1/admin/sync
func (h *Handler) TriggerSync(w http.ResponseWriter, r *http.Request) {
	req := SyncRequest{Resource: ResourceAll}

	body, err := io.ReadAll(r.Body)
	if err == nil && len(body) > 0 {
		if err := json.Unmarshal(body, &req); err != nil {
			h.Logger.Error("TriggerSync: failed to parse request body", "error", err)
			h.HandleError(w, errors.NewValidationError("invalid request body", errors.ErrCodeValidationFailed))
			return
		}
	}
	if req.Resource == "" {
		req.Resource = ResourceAll
	}

	if err := req.Validate(); err != nil {
		h.Logger.Error("TriggerSync: validation error", "error", err)
		h.HandleServiceError(w, err)
		return
	}

	switch req.Resource {
	case ResourceTransactions:
		report, err := h.Orchestrator.SyncTransactions(r.Context())
		h.writeStageOutcome(w, report, err)
	case ResourceTransfers:
		report, err := h.Orchestrator.SyncTransfers(r.Context())
		h.writeStageOutcome(w, report, err)
	default:
		report := h.Orchestrator.SyncAll(r.Context())
		status := http.StatusOK
		if report.Err() != nil {
			status = http.StatusInternalServerError
		}
		h.WriteJSON(w, status, report)
	}
}

func (h *Handler) writeStageOutcome(w http.ResponseWriter, report *StageReport, err error) {
	result := stageResult(report, err)
	status := http.StatusOK
	if err != nil {
		status = http.StatusInternalServerError
	}
	h.WriteJSON(w, status, result)
}

// GetBalance handles GET /api/v1/admin/balance
func (h *Handler) GetBalance(w http.ResponseWriter, r *http.Request) {
	balances, err := h.Gateway.CheckBalance(r.Context())
	if err != nil {
		h.Logger.Error("GetBalance: gateway error", "error", err)
		h.HandleServiceError(w, err)
		return
	}

	entries := make([]BalanceEntry, 0, len(balances))
	for _, b := range balances {
		entries = append(entries, BalanceEntry{
			Currency: b.Currency,
			Balance:  MinorToMajor(b.Balance).StringFixed(2),
		})
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{"balances": entries})
}

// GetSettlements handles GET /api/v1/admin/settlements
func (h *Handler) GetSettlements(w http.ResponseWriter, r *http.Request) {
	settlements := h.Gateway.ListSettlements(r.Context())
	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"count":       len(settlements),
		"settlements": settlements,
	})
}
