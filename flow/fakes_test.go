package flow

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

type fakeProvider struct {
	mu        sync.Mutex
	current   *session.Session
	authErr   error
	loginRes  *session.LoginResult
	loginErr  error
	authCalls int
	ended     bool
}

func newFakeProvider(loggedIn bool) *fakeProvider {
	p := &fakeProvider{}
	if loggedIn {
		p.current = &session.Session{Address: testAddress, Network: params.Testnet, Provider: "fake"}
	}
	return p
}

func (p *fakeProvider) Name() string { return "fake" }

func (p *fakeProvider) BeginLogin(ctx context.Context, req session.LoginRequest) (*session.LoginResult, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.loginErr != nil {
		return nil, p.loginErr
	}
	if p.loginRes != nil && p.loginRes.Session != nil {
		p.current = p.loginRes.Session
	}
	return p.loginRes, nil
}

func (p *fakeProvider) Authorize(ctx context.Context, network params.Network) (*session.Credential, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.authCalls++
	if p.authErr != nil {
		return nil, p.authErr
	}
	if err := session.CheckNetwork(p.current, network); err != nil {
		return nil, err
	}
	return &session.Credential{Address: p.current.Address}, nil
}

func (p *fakeProvider) EndSession(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.current, p.ended = nil, true
	return nil
}

func (p *fakeProvider) Current() (*session.Session, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.current == nil {
		return nil, false
	}
	sess := *p.current
	return &sess, true
}

func (p *fakeProvider) authorizations() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.authCalls
}

type fakeLedger struct {
	mu         sync.Mutex
	balance    decimal.Decimal
	balanceErr error
	resp       *ledgerclient.Response
	execErr    error
	programs   []*ledgerclient.Program
	balances   int
	// gate, when set, blocks Execute until it is closed or ctx ends.
	gate    chan struct{}
	entered chan struct{}
}

func (l *fakeLedger) Balance(ctx context.Context, owner string) (decimal.Decimal, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.balances++
	return l.balance, l.balanceErr
}

func (l *fakeLedger) Execute(ctx context.Context, signer *suisigner.Signer, prog *ledgerclient.Program) (*ledgerclient.Response, error) {
	l.mu.Lock()
	l.programs = append(l.programs, prog)
	gate, entered := l.gate, l.entered
	resp, err := l.resp, l.execErr
	l.mu.Unlock()

	if entered != nil {
		entered <- struct{}{}
	}
	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if err != nil {
		return nil, err
	}
	if resp == nil {
		resp = &ledgerclient.Response{Digest: "D1gest", Status: ledgerclient.StatusSuccess}
	}
	return resp, nil
}

func (l *fakeLedger) executions() []*ledgerclient.Program {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]*ledgerclient.Program(nil), l.programs...)
}

type fakeFaucet struct {
	mu    sync.Mutex
	res   *faucet.Result
	err   error
	calls int
}

func (f *fakeFaucet) Request(ctx context.Context, recipient string) (*faucet.Result, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return f.res, f.err
}
