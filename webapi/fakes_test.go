package webapi

import (
	"context"
	"sync"

	"github.com/pattonkan/sui-go/suisigner"
	"github.com/shopspring/decimal"
	"github.com/tos-network/redenvelope/faucet"
	"github.com/tos-network/redenvelope/ledgerclient"
	"github.com/tos-network/redenvelope/params"
	"github.com/tos-network/redenvelope/session"
)

const testAddress = "0xa11ce00000000000000000000000000000000000000000000000000000000001"

type stubProvider struct {
	mu      sync.Mutex
	current *session.Session
	tokens  []string
	ended   bool
}

func (p *stubProvider) Name() string { return "stub" }

func (p *stubProvider) BeginLogin(ctx context.Context, req session.LoginRequest) (*session.LoginResult, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.tokens = append(p.tokens, req.IDToken)
	p.current = &session.Session{Address: testAddress, Network: params.Testnet, Provider: "stub"}
	sess := *p.current
	return &session.LoginResult{Session: &sess}, nil
}

func (p *stubProvider) Authorize(ctx context.Context, network params.Network) (*session.Credential, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := session.CheckNetwork(p.current, network); err != nil {
		return nil, err
	}
	return &session.Credential{Address: p.current.Address}, nil
}

func (p *stubProvider) EndSession(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.current, p.ended = nil, true
	return nil
}

func (p *stubProvider) Current() (*session.Session, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.current == nil {
		return nil, false
	}
	sess := *p.current
	return &sess, true
}

func (p *stubProvider) idTokens() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.tokens...)
}

// stubLedger blocks Execute until release is closed when the gate channels
// are set.
type stubLedger struct {
	balance decimal.Decimal
	entered chan struct{}
	release chan struct{}
}

func (l *stubLedger) Balance(ctx context.Context, owner string) (decimal.Decimal, error) {
	return l.balance, nil
}

func (l *stubLedger) Execute(ctx context.Context, signer *suisigner.Signer, prog *ledgerclient.Program) (*ledgerclient.Response, error) {
	if l.entered != nil {
		l.entered <- struct{}{}
	}
	if l.release != nil {
		select {
		case <-l.release:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return &ledgerclient.Response{Digest: "D1gest", Status: ledgerclient.StatusSuccess}, nil
}

// stubFaucet blocks each request until release is closed.
type stubFaucet struct {
	entered chan struct{}
	release chan struct{}
}

func (f *stubFaucet) Request(ctx context.Context, recipient string) (*faucet.Result, error) {
	if f.entered != nil {
		f.entered <- struct{}{}
	}
	if f.release != nil {
		select {
		case <-f.release:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return &faucet.Result{TransferredGasObjects: []faucet.GasObject{
		{Amount: 1000000000, ID: "0x1", TransferTxDigest: "F4ucet"},
	}}, nil
}
