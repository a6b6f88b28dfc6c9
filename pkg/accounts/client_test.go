package accounts

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

func TestFetchEligibleAccountsWrappedResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer secret-token", r.Header.Get("Authorization"))
		resp := APIResponse{
			Accounts: []models.Account{
				{ID: "a1", Address: "9xQeWvG816bUx9EPjHmaT23yvVM2ZWbrrpZb9PusVFin"},
			},
			TotalCount: 1,
		}
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	client := New(server.URL, "secret-token", &logger.EmptyLogger{})
	accounts, err := client.FetchEligibleAccounts(context.Background())
	require.NoError(t, err)
	require.Len(t, accounts, 1)
	assert.Equal(t, "a1", accounts[0].ID)
}

func TestFetchEligibleAccountsBareArray(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode([]models.Account{{ID: "a1"}, {ID: "a2"}})
	}))
	defer server.Close()

	client := New(server.URL, "", &logger.EmptyLogger{})
	accounts, err := client.FetchEligibleAccounts(context.Background())
	require.NoError(t, err)
	assert.Len(t, accounts, 2)
}

func TestFetchEligibleAccountsEmpty(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(APIResponse{TotalCount: 0})
	}))
	defer server.Close()

	client := New(server.URL, "", &logger.EmptyLogger{})
	accounts, err := client.FetchEligibleAccounts(context.Background())
	require.NoError(t, err)
	assert.Empty(t, accounts)
}

func TestFetchEligibleAccountsServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer server.Close()

	client := New(server.URL, "", &logger.EmptyLogger{})
	_, err := client.FetchEligibleAccounts(context.Background())
	assert.Error(t, err)
}
