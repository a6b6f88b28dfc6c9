package relayclient

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/sweepd-hq/sweepd/pkg/logger"
	"github.com/sweepd-hq/sweepd/pkg/models"
)

func TestGetQuote(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		assert.Equal(t, "24000000", r.URL.Query().Get("amount"))
		assert.Equal(t, "501", r.URL.Query().Get("srcChain"))

		resp := models.Quote{
			SrcTokenAmount:    "24000000",
			DstTokenAmount:    "23500000",
			RecommendedPreset: "fast",
			Presets: map[string]models.Preset{
				"fast": {SecretsCount: 1},
			},
		}
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	client := New(server.URL, "test-key", &logger.EmptyLogger{})
	quote, err := client.GetQuote(context.Background(), 24000000, 501, 8453, "So11111111111111111111111111111111111111112", "0x4200000000000000000000000000000000000006", "wallet")
	require.NoError(t, err)

	preset, ok := quote.Preset()
	require.True(t, ok)
	assert.Equal(t, 1, preset.SecretsCount)
	assert.Equal(t, "24000000", quote.SrcTokenAmount)
}

func TestGetQuoteRejectsMissingPreset(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		resp := models.Quote{RecommendedPreset: "fast"}
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	client := New(server.URL, "test-key", &logger.EmptyLogger{})
	_, err := client.GetQuote(context.Background(), 1, 501, 8453, "src", "dst", "wallet")
	assert.Error(t, err)
}

func TestSubmitOrderReturnsCoordinatorReference(t *testing.T) {
	var received models.Order
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		_ = json.NewEncoder(w).Encode(SubmitOrderResponse{OrderHash: "0xorderref", Status: "pending"})
	}))
	defer server.Close()

	client := New(server.URL, "test-key", &logger.EmptyLogger{})
	order := models.Order{
		HashLock:     "0xcommitment",
		Receiver:     "0x1111111111111111111111111111111111111111",
		SecretHashes: []string{"0xaaa"},
		Preset:       "fast",
	}
	hash, err := client.SubmitOrder(context.Background(), order)
	require.NoError(t, err)
	assert.Equal(t, "0xorderref", hash)
	assert.Equal(t, order.HashLock, received.HashLock)
	assert.Equal(t, order.SecretHashes, received.SecretHashes)
}

func TestSubmitOrderRejectsEmptyReference(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(SubmitOrderResponse{Status: "pending"})
	}))
	defer server.Close()

	client := New(server.URL, "test-key", &logger.EmptyLogger{})
	_, err := client.SubmitOrder(context.Background(), models.Order{})
	assert.Error(t, err)
}

func TestOrderStatusUsesReferenceVerbatim(t *testing.T) {
	var requestedPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestedPath = r.URL.Path
		_ = json.NewEncoder(w).Encode(OrderStatusResponse{OrderHash: "0xorderref", Status: models.OrderStatusExecuted})
	}))
	defer server.Close()

	client := New(server.URL, "test-key", &logger.EmptyLogger{})
	status, err := client.OrderStatus(context.Background(), "0xorderref")
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusExecuted, status)
	assert.Equal(t, "/orders/v1.0/order/status/0xorderref", requestedPath)
}

func TestReadyFills(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(ReadyFillsResponse{Fills: []ReadyFill{{Idx: 0}, {Idx: 2}}})
	}))
	defer server.Close()

	client := New(server.URL, "test-key", &logger.EmptyLogger{})
	fills, err := client.ReadyFills(context.Background(), "0xorderref")
	require.NoError(t, err)
	require.Len(t, fills, 2)
	assert.Equal(t, 0, fills[0].Idx)
	assert.Equal(t, 2, fills[1].Idx)
}

func TestSubmitSecret(t *testing.T) {
	var received secretSubmission
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		w.WriteHeader(http.StatusAccepted)
	}))
	defer server.Close()

	client := New(server.URL, "test-key", &logger.EmptyLogger{})
	err := client.SubmitSecret(context.Background(), "0xorderref", "0xsecret", 1)
	require.NoError(t, err)
	assert.Equal(t, "0xorderref", received.OrderHash)
	assert.Equal(t, "0xsecret", received.Secret)
	assert.Equal(t, 1, received.Idx)
}

func TestServerErrorPropagates(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer server.Close()

	client := New(server.URL, "test-key", &logger.EmptyLogger{})
	_, err := client.OrderStatus(context.Background(), "0xorderref")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "429")
}
