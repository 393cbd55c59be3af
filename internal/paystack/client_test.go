package paystack_test

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strconv"
	"sync/atomic"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	paystacktypes "github.com/akwasiboateng/campus-market/internal/core/datamodel/paystack"
	"github.com/akwasiboateng/campus-market/internal/paystack"
)

func TestPaystackClient(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Paystack Client Suite")
}

func transactionPage(refs ...string) paystacktypes.TransactionListResponse {
	resp := paystacktypes.TransactionListResponse{Status: true, Message: "Transactions retrieved"}
	for _, ref := range refs {
		resp.Data = append(resp.Data, paystacktypes.Transaction{
			Reference: ref,
			Amount:    50000,
			Currency:  "GHS",
			Status:    paystacktypes.TransactionStatusSuccess,
		})
	}
	return resp
}

var _ = Describe("PaystackClient", func() {
	var (
		server *httptest.Server
		client *paystack.Client
		logger *slog.Logger
		ctx    context.Context
	)

	newClient := func(baseURL string, perPage, maxRetries int) *paystack.Client {
		return paystack.NewClient(paystack.Config{
			BaseURL:    baseURL,
			SecretKey:  "sk_test_secret",
			PerPage:    perPage,
			MaxRetries: maxRetries,
		}, logger)
	}

	BeforeEach(func() {
		logger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		ctx = context.Background()
	})

	AfterEach(func() {
		if server != nil {
			server.Close()
		}
	})

	Describe("ListTransactions", func() {
		Context("when the ledger spans multiple pages", func() {
			It("should drain every page and send the bearer secret", func() {
				// Given: page 1 is full, page 2 is short
				var sawAuth atomic.Value
				server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
					sawAuth.Store(r.Header.Get("Authorization"))
					page, _ := strconv.Atoi(r.URL.Query().Get("page"))
					Expect(r.URL.Query().Get("perPage")).To(Equal("2"))

					var resp paystacktypes.TransactionListResponse
					switch page {
					case 1:
						resp = transactionPage("ps_1", "ps_2")
					case 2:
						resp = transactionPage("ps_3")
					default:
						resp = transactionPage()
					}
					json.NewEncoder(w).Encode(resp)
				}))
				client = newClient(server.URL, 2, 0)

				// When
				transactions := client.ListTransactions(ctx)

				// Then
				Expect(transactions).To(HaveLen(3))
				Expect(transactions[2].Reference).To(Equal("ps_3"))
				Expect(sawAuth.Load()).To(Equal("Bearer sk_test_secret"))
			})
		})

		Context("when a later page keeps failing", func() {
			It("should return the pages fetched so far without an error", func() {
				// Given: page 1 succeeds, page 2 is a persistent 500
				server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
					if r.URL.Query().Get("page") == "1" {
						json.NewEncoder(w).Encode(transactionPage("ps_1", "ps_2"))
						return
					}
					w.WriteHeader(http.StatusInternalServerError)
				}))
				client = newClient(server.URL, 2, 0)

				// When
				transactions := client.ListTransactions(ctx)

				// Then: truncated batch, not an aborted one
				Expect(transactions).To(HaveLen(2))
			})
		})

		Context("when the first page fails after retries", func() {
			It("should return an empty slice", func() {
				server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
					w.WriteHeader(http.StatusServiceUnavailable)
				}))
				client = newClient(server.URL, 2, 0)

				Expect(client.ListTransactions(ctx)).To(BeEmpty())
			})
		})

		Context("when a 500 is transient", func() {
			It("should retry and succeed", func() {
				// Given: first attempt fails, second succeeds
				var attempts int32
				server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
					if atomic.AddInt32(&attempts, 1) == 1 {
						w.WriteHeader(http.StatusInternalServerError)
						return
					}
					json.NewEncoder(w).Encode(transactionPage("ps_1"))
				}))
				client = newClient(server.URL, 2, 2)

				// When
				transactions := client.ListTransactions(ctx)

				// Then
				Expect(transactions).To(HaveLen(1))
				Expect(atomic.LoadInt32(&attempts)).To(Equal(int32(2)))
			})
		})

		Context("when the secret is rejected", func() {
			It("should not retry a 401", func() {
				var attempts int32
				server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
					atomic.AddInt32(&attempts, 1)
					w.WriteHeader(http.StatusUnauthorized)
					fmt.Fprint(w, `{"status":false,"message":"Invalid key"}`)
				}))
				client = newClient(server.URL, 2, 3)

				// When
				transactions := client.ListTransactions(ctx)

				// Then: permanent failure, exactly one attempt
				Expect(transactions).To(BeEmpty())
				Expect(atomic.LoadInt32(&attempts)).To(Equal(int32(1)))
			})
		})
	})

	Describe("ListTransfers", func() {
		It("should drain the transfer ledger with the same paging", func() {
			server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				resp := paystacktypes.TransferListResponse{Status: true}
				if r.URL.Query().Get("page") == "1" {
					resp.Data = []paystacktypes.Transfer{
						{Reference: "TRF_1", Amount: 10000, Status: paystacktypes.TransferStatusSuccess},
					}
				}
				json.NewEncoder(w).Encode(resp)
			}))
			client = newClient(server.URL, 2, 0)

			transfers := client.ListTransfers(ctx)
			Expect(transfers).To(HaveLen(1))
			Expect(transfers[0].Reference).To(Equal("TRF_1"))
		})
	})

	Describe("CheckBalance", func() {
		It("should return the currency buckets", func() {
			server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				Expect(r.URL.Path).To(Equal("/balance"))
				json.NewEncoder(w).Encode(paystacktypes.BalanceResponse{
					Status: true,
					Data:   []paystacktypes.Balance{{Currency: "GHS", Balance: 1250075}},
				})
			}))
			client = newClient(server.URL, 2, 0)

			balances, err := client.CheckBalance(ctx)
			Expect(err).ToNot(HaveOccurred())
			Expect(balances).To(HaveLen(1))
			Expect(balances[0].Balance).To(Equal(int64(1250075)))
		})

		It("should surface failures to the caller", func() {
			server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusBadRequest)
			}))
			client = newClient(server.URL, 2, 0)

			_, err := client.CheckBalance(ctx)
			Expect(err).To(HaveOccurred())
		})
	})
})
