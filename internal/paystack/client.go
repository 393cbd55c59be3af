package paystack

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/akwasiboateng/campus-market/internal"
	paystacktypes "github.com/akwasiboateng/campus-market/internal/core/datamodel/paystack"
)

const (
	defaultBaseURL        = "https://api.paystack.co"
	defaultPerPage        = 50
	defaultRequestTimeout = 30 * time.Second
	defaultMaxRetries     = 3
)

type Config struct {
	BaseURL        string
	SecretKey      string
	PerPage        int
	RequestTimeout time.Duration
	MaxRetries     int
}

// Client is a read-only consumer of the Paystack ledger endpoints. It fetches
// one page at a time, sequentially; there is no parallel fetching.
type Client struct {
	baseURL        string
	secretKey      string
	perPage        int
	requestTimeout time.Duration
	maxRetries     uint64
	httpClient     *http.Client
	logger         *slog.Logger
}

func NewClient(config Config, logger *slog.Logger) *Client {
	baseURL := config.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	perPage := config.PerPage
	if perPage <= 0 {
		perPage = defaultPerPage
	}

	requestTimeout := config.RequestTimeout
	if requestTimeout <= 0 {
		requestTimeout = defaultRequestTimeout
	}

	maxRetries := config.MaxRetries
	if maxRetries < 0 {
		maxRetries = defaultMaxRetries
	}

	return &Client{
		baseURL:        baseURL,
		secretKey:      config.SecretKey,
		perPage:        perPage,
		requestTimeout: requestTimeout,
		maxRetries:     uint64(maxRetries),
		httpClient:     &http.Client{Timeout: requestTimeout},
		logger:         logger,
	}
}

// PerPage returns the page size used when draining list endpoints.
func (c *Client) PerPage() int {
	return c.perPage
}

// ListTransactions drains the transaction ledger page by page. If a page
// request fails after retries, the drain stops and whatever was accumulated is
// returned; a transient failure truncates the batch rather than aborting it.
// The truncation is visible only through the warning log.
func (c *Client) ListTransactions(ctx context.Context) []paystacktypes.Transaction {
	var all []paystacktypes.Transaction

	for page := 1; ; page++ {
		batch, err := c.listTransactionsPage(ctx, page)
		if err != nil {
			c.logger.Warn("transaction page fetch failed, returning partial result",
				"page", page,
				"fetched_so_far", len(all),
				"error", err)
			return all
		}

		all = append(all, batch...)
		if len(batch) < c.perPage {
			return all
		}
	}
}

func (c *Client) listTransactionsPage(ctx context.Context, page int) ([]paystacktypes.Transaction, error) {
	var resp paystacktypes.TransactionListResponse
	if err := c.get(ctx, "/transaction", c.pageQuery(page), &resp); err != nil {
		return nil, err
	}
	return resp.Data, nil
}

// ListTransfers drains the transfer ledger with the same partial-result
// contract as ListTransactions.
func (c *Client) ListTransfers(ctx context.Context) []paystacktypes.Transfer {
	var all []paystacktypes.Transfer

	for page := 1; ; page++ {
		batch, err := c.listTransfersPage(ctx, page)
		if err != nil {
			c.logger.Warn("transfer page fetch failed, returning partial result",
				"page", page,
				"fetched_so_far", len(all),
				"error", err)
			return all
		}

		all = append(all, batch...)
		if len(batch) < c.perPage {
			return all
		}
	}
}

func (c *Client) listTransfersPage(ctx context.Context, page int) ([]paystacktypes.Transfer, error) {
	var resp paystacktypes.TransferListResponse
	if err := c.get(ctx, "/transfer", c.pageQuery(page), &resp); err != nil {
		return nil, err
	}
	return resp.Data, nil
}

// ListSettlements drains the settlement list. Settlements feed reporting only
// and are never reconciled into internal tables.
func (c *Client) ListSettlements(ctx context.Context) []paystacktypes.Settlement {
	var all []paystacktypes.Settlement

	for page := 1; ; page++ {
		var resp paystacktypes.SettlementListResponse
		if err := c.get(ctx, "/settlement", c.pageQuery(page), &resp); err != nil {
			c.logger.Warn("settlement page fetch failed, returning partial result",
				"page", page,
				"fetched_so_far", len(all),
				"error", err)
			return all
		}

		all = append(all, resp.Data...)
		if len(resp.Data) < c.perPage {
			return all
		}
	}
}

// CheckBalance fetches the gateway balance buckets. Unlike the list drains,
// a failure here is returned to the caller.
func (c *Client) CheckBalance(ctx context.Context) ([]paystacktypes.Balance, error) {
	var resp paystacktypes.BalanceResponse
	if err := c.get(ctx, "/balance", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Data, nil
}

func (c *Client) pageQuery(page int) url.Values {
	query := url.Values{}
	query.Set("page", strconv.Itoa(page))
	query.Set("perPage", strconv.Itoa(c.perPage))
	return query
}

// get performs one authenticated GET with bounded exponential backoff.
// Transport failures and 5xx responses are retried; other non-2xx responses
// fail immediately.
func (c *Client) get(ctx context.Context, path string, query url.Values, out interface{}) error {
	operation := func() error {
		return c.doOnce(ctx, path, query, out)
	}

	policy := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewExponentialBackOff(), c.maxRetries),
		ctx,
	)

	return backoff.Retry(operation, policy)
}

func (c *Client) doOnce(ctx context.Context, path string, query url.Values, out interface{}) error {
	reqCtx, cancel := context.WithTimeout(ctx, c.requestTimeout)
	defer cancel()

	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, endpoint, nil)
	if err != nil {
		return backoff.Permanent(fmt.Errorf("failed to create request: %w", err))
	}

	req.Header.Set("Authorization", "Bearer "+c.secretKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return internal.NewNetworkError(
			fmt.Sprintf("paystack request failed: GET %s", path),
			internal.ErrCodeGatewayUnreachable,
			err,
		)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusInternalServerError {
		return internal.NewNetworkError(
			fmt.Sprintf("paystack returned status %d: GET %s", resp.StatusCode, path),
			internal.ErrCodeGatewayBadStatus,
			nil,
		)
	}

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return backoff.Permanent(internal.NewNetworkError(
			fmt.Sprintf("paystack returned status %d: GET %s: %s", resp.StatusCode, path, string(body)),
			internal.ErrCodeGatewayBadStatus,
			nil,
		))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return backoff.Permanent(internal.NewNetworkError(
			fmt.Sprintf("failed to decode paystack response: GET %s", path),
			internal.ErrCodeGatewayBadPayload,
			err,
		))
	}

	return nil
}
