package recon_test

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	paystacktypes "github.com/akwasiboateng/campus-market/internal/core/datamodel/paystack"
	"github.com/akwasiboateng/campus-market/internal/recon"
)

var _ = Describe("ReconHandler", func() {
	var (
		handler *recon.Handler
		store   *mockDatastore
		gateway *mockGateway
		logger  *slog.Logger
	)

	BeforeEach(func() {
		store = newMockDatastore()
		gateway = &mockGateway{}
		logger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		seedMarketplace(store)

		service := recon.NewService(gateway, store, nil, "GHS", logger)
		orchestrator := recon.NewOrchestrator(service, recon.OrchestratorConfig{ContinueOnStageFailure: true}, logger)
		handler = recon.NewHandler(orchestrator, gateway, logger)
	})

	Describe("TriggerSync", func() {
		Context("with no request body", func() {
			It("should run a full sync and report both stages", func() {
				// Given
				gateway.transactions = []paystacktypes.Transaction{successfulTransaction("ps_ref_1", 50000)}

				req := httptest.NewRequest(http.MethodPost, "/api/v1/admin/sync", nil)
				rec := httptest.NewRecorder()

				// When
				handler.TriggerSync(rec, req)

				// Then
				Expect(rec.Code).To(Equal(http.StatusOK))

				var report recon.RunReport
				Expect(json.Unmarshal(rec.Body.Bytes(), &report)).To(Succeed())
				Expect(report.RunID).ToNot(BeEmpty())
				Expect(report.Transactions.Report.Created).To(Equal(1))
				Expect(report.Transfers.Report.Fetched).To(BeZero())
			})
		})

		Context("with a single-resource body", func() {
			It("should run only the requested stage", func() {
				// Given
				gateway.transactions = []paystacktypes.Transaction{successfulTransaction("ps_ref_1", 50000)}

				req := httptest.NewRequest(http.MethodPost, "/api/v1/admin/sync",
					strings.NewReader(`{"resource":"transactions"}`))
				rec := httptest.NewRecorder()

				// When
				handler.TriggerSync(rec, req)

				// Then
				Expect(rec.Code).To(Equal(http.StatusOK))

				var result recon.StageResult
				Expect(json.Unmarshal(rec.Body.Bytes(), &result)).To(Succeed())
				Expect(result.Report.Resource).To(Equal("transactions"))
				Expect(result.Report.Created).To(Equal(1))
			})
		})

		Context("with an unknown resource", func() {
			It("should reject the request", func() {
				req := httptest.NewRequest(http.MethodPost, "/api/v1/admin/sync",
					strings.NewReader(`{"resource":"refunds"}`))
				rec := httptest.NewRecorder()

				handler.TriggerSync(rec, req)

				Expect(rec.Code).To(Equal(http.StatusBadRequest))
			})
		})

		Context("with a malformed body", func() {
			It("should reject the request", func() {
				req := httptest.NewRequest(http.MethodPost, "/api/v1/admin/sync",
					strings.NewReader(`{resource`))
				rec := httptest.NewRecorder()

				handler.TriggerSync(rec, req)

				Expect(rec.Code).To(Equal(http.StatusBadRequest))
			})
		})

		Context("when a stage fails", func() {
			It("should answer with a server error and the per-stage detail", func() {
				// Given
				store.getUsersError = errors.New("snapshot failed")

				req := httptest.NewRequest(http.MethodPost, "/api/v1/admin/sync", nil)
				rec := httptest.NewRecorder()

				// When
				handler.TriggerSync(rec, req)

				// Then
				Expect(rec.Code).To(Equal(http.StatusInternalServerError))

				var report recon.RunReport
				Expect(json.Unmarshal(rec.Body.Bytes(), &report)).To(Succeed())
				Expect(report.Transactions.Error).ToNot(BeEmpty())
			})
		})
	})

	Describe("GetBalance", func() {
		It("should convert balances to major units", func() {
			// Given
			gateway.balances = []paystacktypes.Balance{{Currency: "GHS", Balance: 1250075}}

			req := httptest.NewRequest(http.MethodGet, "/api/v1/admin/balance", nil)
			rec := httptest.NewRecorder()

			// When
			handler.GetBalance(rec, req)

			// Then
			Expect(rec.Code).To(Equal(http.StatusOK))

			var body struct {
				Balances []recon.BalanceEntry `json:"balances"`
			}
			Expect(json.Unmarshal(rec.Body.Bytes(), &body)).To(Succeed())
			Expect(body.Balances).To(HaveLen(1))
			Expect(body.Balances[0].Balance).To(Equal("12500.75"))
		})

		It("should surface gateway failures", func() {
			gateway.balanceError = errors.New("gateway down")

			req := httptest.NewRequest(http.MethodGet, "/api/v1/admin/balance", nil)
			rec := httptest.NewRecorder()

			handler.GetBalance(rec, req)

			Expect(rec.Code).To(Equal(http.StatusInternalServerError))
		})
	})

	Describe("GetSettlements", func() {
		It("should return the settlement list with a count", func() {
			gateway.settlements = []paystacktypes.Settlement{
				{ID: 1, Status: "success", Currency: "GHS", TotalAmount: 100000},
			}

			req := httptest.NewRequest(http.MethodGet, "/api/v1/admin/settlements", nil)
			rec := httptest.NewRecorder()

			handler.GetSettlements(rec, req)

			Expect(rec.Code).To(Equal(http.StatusOK))

			var body struct {
				Count int `json:"count"`
			}
			Expect(json.Unmarshal(rec.Body.Bytes(), &body)).To(Succeed())
			Expect(body.Count).To(Equal(1))
		})
	})
})
