// Package relayclient provides a client for the cross-chain swap
// coordinator API: quoting, order submission, status polling and secret
// submission.
package relayclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/sweepd-hq/sweepd/pkg/logger"
	"github.com/sweepd-hq/sweepd/pkg/models"
)

// SubmitOrderResponse carries the coordinator's reference for a submitted
// order. OrderHash is the coordinator's own addressing scheme and is used
// verbatim for every later status and secret call; it is not a chain
// transaction identifier.
type SubmitOrderResponse struct {
	OrderHash string `json:"orderHash"`
	Status    string `json:"status"`
}

// OrderStatusResponse is the coordinator's view of an order
type OrderStatusResponse struct {
	OrderHash string `json:"orderHash"`
	Status    string `json:"status"`
	Fills     int    `json:"fills"`
}

// ReadyFill identifies a fill leg whose escrow is ready to accept a secret
type ReadyFill struct {
	Idx int `json:"idx"`
}

// ReadyFillsResponse lists the fill indices awaiting secrets
type ReadyFillsResponse struct {
	Fills []ReadyFill `json:"fills"`
}

type secretSubmission struct {
	OrderHash string `json:"orderHash"`
	Secret    string `json:"secret"`
	Idx       int    `json:"idx"`
}

// Client is a coordinator API client. All calls carry the service API key
// as a bearer token.
type Client struct {
	endpoint   string
	apiKey     string
	httpClient *http.Client
	logger     logger.Logger
}

// New creates a coordinator client for the given endpoint and API key
func New(endpoint, apiKey string, logger logger.Logger) *Client {
	return &Client{
		endpoint:   endpoint,
		apiKey:     apiKey,
		httpClient: createHTTPClient(),
		logger:     logger,
	}
}

// GetQuote fetches a fee/rate proposal for swapping amount base units
// from the source token/chain to the destination token/chain. Errors
// propagate to the caller; the attempt aborts before touching chain state.
func (c *Client) GetQuote(ctx context.Context, amount uint64, srcChain, dstChain int, srcToken, dstToken, wallet string) (*models.Quote, error) {
	params := url.Values{}
	params.Set("amount", strconv.FormatUint(amount, 10))
	params.Set("srcChain", strconv.Itoa(srcChain))
	params.Set("dstChain", strconv.Itoa(dstChain))
	params.Set("srcTokenAddress", srcToken)
	params.Set("dstTokenAddress", dstToken)
	params.Set("walletAddress", wallet)
	params.Set("enableEstimate", "true")

	var quote models.Quote
	if err := c.get(ctx, "/quoter/v1.0/quote/receive?"+params.Encode(), &quote); err != nil {
		return nil, fmt.Errorf("failed to fetch quote: %v", err)
	}

	if _, ok := quote.Preset(); !ok {
		return nil, fmt.Errorf("quote %s has no preset named %q", quote.QuoteID, quote.RecommendedPreset)
	}
	return &quote, nil
}

// SubmitOrder registers the order and its per-secret hashes with the
// coordinator and returns the coordinator's order reference.
func (c *Client) SubmitOrder(ctx context.Context, order models.Order) (string, error) {
	var resp SubmitOrderResponse
	if err := c.post(ctx, "/relayer/v1.0/submit", order, &resp); err != nil {
		return "", fmt.Errorf("failed to submit order: %v", err)
	}
	if resp.OrderHash == "" {
		return "", fmt.Errorf("coordinator returned an empty order hash")
	}
	c.logger.Debug("Order submitted, coordinator reference %s", resp.OrderHash)
	return resp.OrderHash, nil
}

// OrderStatus queries the current status of a submitted order
func (c *Client) OrderStatus(ctx context.Context, orderHash string) (string, error) {
	var resp OrderStatusResponse
	if err := c.get(ctx, "/orders/v1.0/order/status/"+url.PathEscape(orderHash), &resp); err != nil {
		return "", fmt.Errorf("failed to fetch order status: %v", err)
	}
	return resp.Status, nil
}

// ReadyFills returns the fill indices that can currently accept a secret
func (c *Client) ReadyFills(ctx context.Context, orderHash string) ([]ReadyFill, error) {
	var resp ReadyFillsResponse
	if err := c.get(ctx, "/orders/v1.0/order/ready-to-accept-secret-fills/"+url.PathEscape(orderHash), &resp); err != nil {
		return nil, fmt.Errorf("failed to fetch ready fills: %v", err)
	}
	return resp.Fills, nil
}

// SubmitSecret reveals the secret for one fill index of an order
func (c *Client) SubmitSecret(ctx context.Context, orderHash, secret string, idx int) error {
	body := secretSubmission{
		OrderHash: orderHash,
		Secret:    secret,
		Idx:       idx,
	}
	if err := c.post(ctx, "/relayer/v1.0/submit/secret", body, nil); err != nil {
		return fmt.Errorf("failed to submit secret for fill %d: %v", idx, err)
	}
	return nil
}

func (c *Client) get(ctx context.Context, path string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint+path, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %v", err)
	}
	return c.do(req, out)
}

func (c *Client) post(ctx context.Context, path string, body, out interface{}) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to encode request body: %v", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to create request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out interface{}) error {
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			c.logger.Error("Failed to close response body: %v", closeErr)
		}
	}()

	// Read the response body regardless of status code
	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %v", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("unexpected status code: %d, body: %s", resp.StatusCode, string(bodyBytes))
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(bodyBytes, out); err != nil {
		return fmt.Errorf("failed to decode response: %v, body: %s", err, string(bodyBytes))
	}
	return nil
}

// Helper function to create an HTTP client with timeouts
func createHTTPClient() *http.Client {
	return &http.Client{
		Timeout: 10 * time.Second,
		Transport: &http.Transport{
			MaxIdleConns:        100,
			MaxIdleConnsPerHost: 100,
			IdleConnTimeout:     90 * time.Second,
		},
	}
}
