// Package faucet requests test coins from a Sui faucet.
package faucet

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/big"
	"net/http"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/tos-network/redenvelope/internal/log"
	"github.com/tos-network/redenvelope/params"
	"golang.org/x/time/rate"
)

var ErrNoFaucet = errors.New("network has no faucet")

// GasObject is one coin transferred by the faucet.
type GasObject struct {
	Amount           uint64 `json:"amount"`
	ID               string `json:"id"`
	TransferTxDigest string `json:"transferTxDigest"`
}

// Result is the faucet response.
type Result struct {
	TransferredGasObjects []GasObject `json:"transferredGasObjects"`
	Error                 *string     `json:"error"`
}

// TotalMist sums the transferred amounts.
func (r *Result) TotalMist() uint64 {
	var total uint64
	for _, obj := range r.TransferredGasObjects {
		total += obj.Amount
	}
	return total
}

// Total returns the transferred amount in SUI.
func (r *Result) Total() decimal.Decimal {
	return decimal.NewFromBigInt(new(big.Int).SetUint64(r.TotalMist()), -params.SUIDecimals)
}

// Digest returns the first transfer digest, if any.
func (r *Result) Digest() string {
	for _, obj := range r.TransferredGasObjects {
		if obj.TransferTxDigest != "" {
			return obj.TransferTxDigest
		}
	}
	return ""
}

type request struct {
	FixedAmountRequest struct {
		Recipient string `json:"recipient"`
	} `json:"FixedAmountRequest"`
}

// Client talks to one faucet host.
type Client struct {
	host    string
	http    *http.Client
	limiter *rate.Limiter
	log     log.Logger
}

// Config tunes the client.
type Config struct {
	Timeout time.Duration
	// Interval is the minimum spacing between requests.
	Interval time.Duration
}

// DefaultConfig matches the public testnet faucet's tolerance.
var DefaultConfig = Config{
	Timeout:  30 * time.Second,
	Interval: 10 * time.Second,
}

// New creates a client for host. An empty host yields a client whose requests
// fail with ErrNoFaucet.
func New(host string, cfg Config) *Client {
	limit := rate.Inf
	if cfg.Interval > 0 {
		limit = rate.Every(cfg.Interval)
	}
	return &Client{
		host:    strings.TrimRight(host, "/"),
		http:    &http.Client{Timeout: cfg.Timeout},
		limiter: rate.NewLimiter(limit, 1),
		log:     log.New("faucet", host),
	}
}

// Request asks the faucet to fund recipient. A response carrying an error
// field is returned as an error.
func (c *Client) Request(ctx context.Context, recipient string) (*Result, error) {
	if c.host == "" {
		return nil, ErrNoFaucet
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	var body request
	body.FixedAmountRequest.Recipient = recipient
	buf, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.host+"/gas", bytes.NewReader(buf))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, err
	}
	if resp.StatusCode == http.StatusTooManyRequests {
		return nil, fmt.Errorf("faucet rate limited: %s", strings.TrimSpace(string(raw)))
	}
	var result Result
	if err := json.Unmarshal(raw, &result); err != nil {
		if resp.StatusCode/100 != 2 {
			return nil, fmt.Errorf("faucet status %d: %s", resp.StatusCode, strings.TrimSpace(string(raw)))
		}
		return nil, fmt.Errorf("decode faucet response: %w", err)
	}
	if result.Error != nil && *result.Error != "" {
		return nil, errors.New(*result.Error)
	}
	if resp.StatusCode/100 != 2 {
		return nil, fmt.Errorf("faucet status %d", resp.StatusCode)
	}
	c.log.Debug("Faucet transfer", "recipient", recipient, "coins", len(result.TransferredGasObjects), "mist", result.TotalMist())
	return &result, nil
}
