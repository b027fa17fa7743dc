// Package ledgerclient provides a client for the Sui JSON-RPC API.
package ledgerclient

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"regexp"

	"github.com/pattonkan/sui-go/sui"
	"github.com/pattonkan/sui-go/suiclient"
	"github.com/pattonkan/sui-go/suisigner"
	"github.com/shopspring/decimal"
	"github.com/tos-network/redenvelope/internal/log"
	"github.com/tos-network/redenvelope/params"
)

// StatusSuccess is the execution status of an applied transaction.
const StatusSuccess = "success"

var (
	ErrInvalidAddress = errors.New("invalid address")
	ErrNoGasCoins     = errors.New("no gas coins owned by sender")
	ErrNotShared      = errors.New("not a shared object")

	hexIDPattern = regexp.MustCompile(`^0x[0-9a-fA-F]{1,64}$`)
)

// Client defines typed wrappers for the Sui RPC API.
type Client struct {
	c   *suiclient.ClientImpl
	log log.Logger
}

// CreatedObject is an object created by a transaction.
type CreatedObject struct {
	ObjectID   string `json:"objectId"`
	ObjectType string `json:"objectType"`
}

// Response is the outcome of an executed transaction.
type Response struct {
	Digest  string          `json:"digest"`
	Status  string          `json:"status"`
	Error   string          `json:"error,omitempty"`
	Created []CreatedObject `json:"created,omitempty"`
}

// Succeeded reports whether the transaction was applied.
func (r *Response) Succeeded() bool {
	return r.Status == StatusSuccess
}

// Dial creates a client for the given RPC endpoint.
func Dial(rawurl string) *Client {
	return &Client{
		c:   suiclient.NewClient(rawurl),
		log: log.New("rpc", rawurl),
	}
}

// ValidAddress reports whether s is a hex address or object id.
func ValidAddress(s string) bool {
	return hexIDPattern.MatchString(s)
}

func parseAddress(s string) (*sui.Address, error) {
	if !ValidAddress(s) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidAddress, s)
	}
	return sui.MustAddressFromHex(s), nil
}

// BalanceAt returns the SUI balance of owner, in MIST.
func (ec *Client) BalanceAt(ctx context.Context, owner string) (*big.Int, error) {
	addr, err := parseAddress(owner)
	if err != nil {
		return nil, err
	}
	resp, err := ec.c.GetBalance(ctx, &suiclient.GetBalanceRequest{
		Owner:    addr,
		CoinType: sui.ObjectType(params.SuiCoinType),
	})
	if err != nil {
		return nil, err
	}
	if resp == nil || resp.TotalBalance == nil {
		return new(big.Int), nil
	}
	return resp.TotalBalance.BigInt(), nil
}

// Balance returns the SUI balance of owner in whole-unit decimal form.
func (ec *Client) Balance(ctx context.Context, owner string) (decimal.Decimal, error) {
	mist, err := ec.BalanceAt(ctx, owner)
	if err != nil {
		return decimal.Zero, err
	}
	return decimal.NewFromBigInt(mist, -params.SUIDecimals), nil
}

// Execute builds prog for signer, signs it and waits for the ledger response.
// A failed execution is not an error: the caller inspects Response.Status.
func (ec *Client) Execute(ctx context.Context, signer *suisigner.Signer, prog *Program) (*Response, error) {
	coins, err := ec.c.GetCoins(ctx, &suiclient.GetCoinsRequest{Owner: signer.Address})
	if err != nil {
		return nil, fmt.Errorf("fetch gas coins: %w", err)
	}
	if len(coins.Data) == 0 {
		return nil, ErrNoGasCoins
	}
	gas := make([]*sui.ObjectRef, 0, len(coins.Data))
	for _, coin := range coins.Data {
		gas = append(gas, coin.Ref())
	}

	shared, err := ec.resolveAll(ctx, prog)
	if err != nil {
		return nil, err
	}
	budget := prog.GasBudget
	if budget == 0 {
		budget = params.EnvelopeGasBudget
	}
	txBytes, err := encodeTransaction(prog, shared, signer.Address, gas, budget)
	if err != nil {
		return nil, fmt.Errorf("encode transaction: %w", err)
	}

	resp, err := ec.c.SignAndExecuteTransaction(ctx, signer, txBytes, &suiclient.SuiTransactionBlockResponseOptions{
		ShowEffects:        true,
		ShowEvents:         prog.Options.Events,
		ShowBalanceChanges: prog.Options.BalanceChanges,
		ShowObjectChanges:  prog.Options.ObjectChanges,
	})
	if err != nil {
		return nil, err
	}
	out := convertResponse(resp)
	ec.log.Debug("Executed transaction", "digest", out.Digest, "status", out.Status, "created", len(out.Created))
	return out, nil
}

// convertResponse extracts the execution status, the ledger's error detail and
// the created objects from a transaction block response.
func convertResponse(resp *suiclient.SuiTransactionBlockResponse) *Response {
	out := &Response{Digest: resp.Digest.String(), Status: "failure"}
	if resp.Effects != nil {
		if resp.Effects.Data.IsSuccess() {
			out.Status = StatusSuccess
		} else if resp.Effects.Data.V1 != nil {
			out.Error = resp.Effects.Data.V1.Status.Error
		}
	}
	for _, change := range resp.ObjectChanges {
		if created := change.Data.Created; created != nil {
			out.Created = append(out.Created, CreatedObject{
				ObjectID:   created.ObjectId.String(),
				ObjectType: string(created.ObjectType),
			})
		}
	}
	return out
}
