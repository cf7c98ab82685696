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

func TestRippleAccountBalance(t *testing.T) {
	var gotReq accountInfoRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))
		fmt.Fprint(w, `{"result":{"status":"success","account_data":{"Balance":"25000000"}}}`)
	}))
	defer server.Close()

	client := NewRippleClient(server.URL, time.Second)
	balance, err := client.AccountBalance(context.Background(), "rWallet")

	require.NoError(t, err)
	// 25000000 drops is 25 XRP
	require.True(t, balance.Equal(decimal.NewFromInt(25)))
	require.Equal(t, "account_info", gotReq.Method)
	require.Len(t, gotReq.Params, 1)
	require.Equal(t, "rWallet", gotReq.Params[0].Account)
	require.Equal(t, "validated", gotReq.Params[0].LedgerIndex)
}

func TestRippleErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `{"result":{"status":"error","error_message":"Account not found."}}`)
	}))
	defer server.Close()

	client := NewRippleClient(server.URL, time.Second)
	_, err := client.AccountBalance(context.Background(), "rMissing")

	require.Error(t, err)
	require.Contains(t, err.Error(), "Account not found")
}
