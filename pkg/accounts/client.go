// Package accounts provides a client for the account source API that
// lists wallets eligible for sweeping.
package accounts

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sweepd-hq/sweepd/pkg/logger"
	"github.com/sweepd-hq/sweepd/pkg/models"
)

// APIResponse represents the structure of the account source response
type APIResponse struct {
	Accounts   []models.Account `json:"accounts,omitempty"`
	Data       []models.Account `json:"data,omitempty"` // Some deployments use "data" as the key
	Page       int              `json:"page"`
	TotalCount int              `json:"total_count"`
}

// Client fetches eligible accounts, authenticating with a bearer token
type Client struct {
	endpoint   string
	authToken  string
	httpClient *http.Client
	logger     logger.Logger
}

// New creates a new account source client
func New(endpoint, authToken string, logger logger.Logger) *Client {
	return &Client{
		endpoint:   endpoint,
		authToken:  authToken,
		httpClient: createHTTPClient(),
		logger:     logger,
	}
}

// FetchEligibleAccounts gets the current list of sweepable accounts.
// A failure here aborts only the current poll tick.
func (c *Client) FetchEligibleAccounts(ctx context.Context) ([]models.Account, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint+"/api/v1/accounts?status=active", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %v", err)
	}
	if c.authToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.authToken)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch accounts: %v", err)
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			c.logger.Error("Failed to close response body: %v", closeErr)
		}
	}()

	// Read the response body regardless of status code
	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %v", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d, body: %s", resp.StatusCode, string(bodyBytes))
	}

	// Try to unmarshal into our wrapper struct first
	var apiResp APIResponse
	if err := json.Unmarshal(bodyBytes, &apiResp); err != nil {
		// If that fails, try directly as an array
		var accounts []models.Account
		if err := json.Unmarshal(bodyBytes, &accounts); err != nil {
			return nil, fmt.Errorf("failed to decode accounts: %v, body: %s", err, string(bodyBytes))
		}
		return accounts, nil
	}

	if len(apiResp.Accounts) > 0 {
		return apiResp.Accounts, nil
	}
	if len(apiResp.Data) > 0 {
		return apiResp.Data, nil
	}

	c.logger.Debug("No eligible accounts found (page %d, total count: %d)", apiResp.Page, apiResp.TotalCount)
	return []models.Account{}, nil
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
