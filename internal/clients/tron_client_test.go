package clients

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestTronAccountBalance(t *testing.T) {
	var gotReq getAccountRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/wallet/getaccount", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))
		fmt.Fprint(w, `{"address":"Twallet","balance":123456789}`)
	}))
	defer server.Close()

	client := NewTronClient(server.URL, time.Second)
	balance, err := client.AccountBalance(context.Background(), "Twallet")

	require.NoError(t, err)
	// 123456789 sun is 123.456789 TRX
	require.True(t, balance.Equal(decimal.RequireFromString("123.456789")))
	require.Equal(t, "Twallet", gotReq.Address)
	require.True(t, gotReq.Visible)
}

func TestTronUnknownAccountReadsAsZero(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `{}`)
	}))
	defer server.Close()

	client := NewTronClient(server.URL, time.Second)
	balance, err := client.AccountBalance(context.Background(), "Tfresh")

	require.NoError(t, err)
	require.True(t, balance.IsZero())
}

func TestTronHTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client := NewTronClient(server.URL, time.Second)
	_, err := client.AccountBalance(context.Background(), "Twallet")

	require.Error(t, err)
}
