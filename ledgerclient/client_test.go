package ledgerclient

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type rpcTestRequest struct {
	ID     json.RawMessage   `json:"id"`
	Method string            `json:"method"`
	Params []json.RawMessage `json:"params"`
}

func newBalanceServer(t *testing.T, total string, seen *rpcTestRequest) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req rpcTestRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		*seen = req
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"jsonrpc": "2.0",
			"id":      req.ID,
			"result": map[string]interface{}{
				"coinType":        "0x2::sui::SUI",
				"coinObjectCount": 1,
				"totalBalance":    total,
				"lockedBalance":   map[string]interface{}{},
			},
		})
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestBalance(t *testing.T) {
	var seen rpcTestRequest
	srv := newBalanceServer(t, "2500000000", &seen)
	ec := Dial(srv.URL)

	owner := "0x8c6d5fa2d2a6b7c3e0e7b2f4f2e1d3c4b5a69788a1b2c3d4e5f60718293a4b5c"
	bal, err := ec.Balance(context.Background(), owner)
	require.NoError(t, err)
	assert.Equal(t, "2.5", bal.String())
	assert.Equal(t, "suix_getBalance", seen.Method)

	mist, err := ec.BalanceAt(context.Background(), owner)
	require.NoError(t, err)
	assert.Equal(t, "2500000000", mist.String())
}

func TestBalanceRejectsMalformedOwner(t *testing.T) {
	ec := Dial("http://127.0.0.1:0")
	_, err := ec.Balance(context.Background(), "not-an-address")
	require.ErrorIs(t, err, ErrInvalidAddress)
}

func TestValidAddress(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"0x8", true},
		{"0x2", true},
		{"0xABCdef0123", true},
		{"", false},
		{"0x", false},
		{"abc", false},
		{"0xzz", false},
		{"0x" + strings.Repeat("a", 65), false},
	}
	for _, tt := range tests {
		if got := ValidAddress(tt.in); got != tt.want {
			t.Fatalf("ValidAddress(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestResponseSucceeded(t *testing.T) {
	assert.True(t, (&Response{Status: StatusSuccess}).Succeeded())
	assert.False(t, (&Response{Status: "failure", Error: "InsufficientGas"}).Succeeded())
}
