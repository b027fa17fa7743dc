// Package flow drives user actions through validation, authorization,
// submission and reporting.
//
// Each action kind has its own in-flight flag: a request of a kind that is
// already running is refused, while requests of different kinds proceed
// independently. Every accepted request reports an "in progress" toast first
// and then exactly one success or error toast.
package flow

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	mapset "github.com/deckarep/golang-set"
	"github.com/pattonkan/sui-go/suisigner"
	"github.com/shopspring/decimal"
	"github.com/tos-network/redenvelope/action"
	"github.com/tos-network/redenvelope/faucet"
	"github.com/tos-network/redenvelope/internal/log"
	"github.com/tos-network/redenvelope/ledgerclient"
	"github.com/tos-network/redenvelope/params"
	"github.com/tos-network/redenvelope/session"
	"github.com/tos-network/redenvelope/toast"
	"github.com/tos-network/redenvelope/viewstate"
)

// ErrActionInFlight is returned when a request of the same kind is running.
var ErrActionInFlight = errors.New("action already in flight")

// Ledger is the subset of the ledger client used by the controller.
type Ledger interface {
	Balance(ctx context.Context, owner string) (decimal.Decimal, error)
	Execute(ctx context.Context, signer *suisigner.Signer, prog *ledgerclient.Program) (*ledgerclient.Response, error)
}

// Faucet funds an address on a test network.
type Faucet interface {
	Request(ctx context.Context, recipient string) (*faucet.Result, error)
}

// Config holds the on-chain coordinates and policies of the controller.
type Config struct {
	Network         *params.NetworkConfig
	PackageID       string
	Module          string
	SendFunction    string
	ClaimFunction   string
	RandomObject    string
	CoinType        string
	GasBudget       uint64
	FaucetThreshold decimal.Decimal
	// SubmitTimeout bounds the authorization and submission steps. Zero
	// disables the bound.
	SubmitTimeout time.Duration
}

// DefaultConfig returns the testnet configuration without a package id.
func DefaultConfig() Config {
	network := *params.TestnetConfig
	return Config{
		Network:         &network,
		Module:          params.EnvelopeModule,
		SendFunction:    params.EnvelopeSendFunction,
		ClaimFunction:   params.EnvelopeClaimFunction,
		RandomObject:    params.RandomObjectID,
		CoinType:        params.SuiCoinType,
		GasBudget:       params.EnvelopeGasBudget,
		SubmitTimeout:   60 * time.Second,
		FaucetThreshold: decimal.RequireFromString(params.FaucetSufficiencyThreshold),
	}
}

// Deps are the collaborators of a Controller.
type Deps struct {
	Store    *viewstate.Store
	Provider session.Provider
	Ledger   Ledger
	Faucet   Faucet
	Reporter toast.Reporter
	Tracker  Tracker
	// OnTransition, when set, observes every phase change.
	OnTransition func(kind action.Kind, from, to Phase)
}

// Outcome is the result of a successful action.
type Outcome struct {
	Kind     action.Kind                  `json:"kind"`
	Message  string                       `json:"message"`
	Digest   string                       `json:"digest,omitempty"`
	Link     string                       `json:"link,omitempty"`
	Envelope *viewstate.EnvelopeReference `json:"envelope,omitempty"`
	AuthURL  string                       `json:"authUrl,omitempty"`
	Mnemonic string                       `json:"mnemonic,omitempty"`
}

// Controller runs actions.
type Controller struct {
	cfg      Config
	deps     Deps
	handlers *Registry
	inflight mapset.Set
	log      log.Logger

	phaseMu sync.Mutex
	phases  map[action.Kind]Phase
}

// New creates a controller with the built-in handlers registered.
func New(cfg Config, deps Deps) *Controller {
	if deps.Store == nil {
		deps.Store = viewstate.NewStore()
	}
	if deps.Reporter == nil {
		deps.Reporter = toast.Discard
	}
	if deps.Tracker == nil {
		deps.Tracker = nopTracker{}
	}
	c := &Controller{
		cfg:      cfg,
		deps:     deps,
		handlers: NewRegistry(),
		inflight: mapset.NewSet(),
		log:      log.New("component", "flow"),
		phases:   make(map[action.Kind]Phase),
	}
	c.handlers.Register(loginHandler{})
	c.handlers.Register(faucetHandler{})
	c.handlers.Register(transferHandler{})
	c.handlers.Register(sendEnvelopeHandler{})
	c.handlers.Register(claimEnvelopeHandler{})
	return c
}

// Store returns the view state store.
func (c *Controller) Store() *viewstate.Store { return c.deps.Store }

// Config returns the controller configuration.
func (c *Controller) Config() Config { return c.cfg }

// Phase returns the current phase of kind.
func (c *Controller) Phase(kind action.Kind) Phase {
	c.phaseMu.Lock()
	defer c.phaseMu.Unlock()
	return c.phases[kind]
}

// InFlight reports whether a request of kind is running.
func (c *Controller) InFlight(kind action.Kind) bool {
	return c.inflight.Contains(kind)
}

func (c *Controller) transition(kind action.Kind, to Phase) {
	c.phaseMu.Lock()
	from := c.phases[kind]
	c.phases[kind] = to
	c.phaseMu.Unlock()

	c.log.Debug("Action phase", "kind", kind, "from", from, "to", to)
	if c.deps.OnTransition != nil {
		c.deps.OnTransition(kind, from, to)
	}
}

// Execute runs req to completion. Action failures are reported to the user
// and returned as *action.Error. A request whose kind is already in flight is
// refused with ErrActionInFlight and reports nothing.
func (c *Controller) Execute(ctx context.Context, req *action.Request) (*Outcome, error) {
	h := c.handlers.Lookup(req.Kind)
	if h == nil {
		return nil, fmt.Errorf("%w: unknown kind %q", action.ErrInvalidRequest, req.Kind)
	}
	if !c.inflight.Add(req.Kind) {
		return nil, ErrActionInFlight
	}
	defer c.inflight.Remove(req.Kind)

	msgs := MessagesFor(req.Kind)
	if msgs.Event != "" {
		c.deps.Tracker.Track(msgs.Event, map[string]string{"request": req.ID.String()})
	}
	c.report(req, toast.LevelLoading, msgs.Loading, "")
	c.deps.Store.Dispatch(viewstate.LoadingChanged{Kind: req.Kind, Loading: true})
	defer c.deps.Store.Dispatch(viewstate.LoadingChanged{Kind: req.Kind, Loading: false})
	defer c.transition(req.Kind, PhaseIdle)

	out, err := c.run(ctx, h, req)
	if err != nil {
		aerr := classify(err, msgs.FailurePrefix)
		c.log.Warn("Action failed", "kind", req.Kind, "id", req.ID, "class", aerr.Class, "err", aerr.Message)
		c.report(req, toast.LevelError, aerr.Message, "")
		return nil, aerr
	}
	c.transition(req.Kind, PhaseSucceeded)
	out.Kind = req.Kind
	if out.Message == "" {
		out.Message = msgs.Success
	}
	c.log.Info("Action succeeded", "kind", req.Kind, "id", req.ID, "digest", out.Digest)
	c.report(req, toast.LevelSuccess, out.Message, out.Link)
	return out, nil
}

func (c *Controller) run(ctx context.Context, h Handler, req *action.Request) (*Outcome, error) {
	c.transition(req.Kind, PhaseValidating)
	task, err := h.Prepare(c, req, c.deps.Store.Snapshot())
	if err != nil {
		return nil, err
	}

	if c.cfg.SubmitTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.cfg.SubmitTimeout)
		defer cancel()
	}

	var cred *session.Credential
	if task.Authorize {
		c.transition(req.Kind, PhaseAuthorizing)
		if c.deps.Provider == nil {
			return nil, action.Authorization(session.ErrNoSession)
		}
		cred, err = c.deps.Provider.Authorize(ctx, c.cfg.Network.Name)
		if err != nil {
			if errors.Is(err, context.DeadlineExceeded) {
				return nil, err
			}
			return nil, action.Authorization(err)
		}
	}

	c.transition(req.Kind, PhaseSubmitting)
	return task.Run(ctx, &Run{Credential: cred, kind: req.Kind, c: c})
}

// classify converts err into the error reported to the user.
func classify(err error, prefix string) *action.Error {
	var aerr *action.Error
	switch {
	case errors.As(err, &aerr):
		return aerr
	case errors.Is(err, context.DeadlineExceeded):
		return &action.Error{Class: action.ClassNetwork, Message: MsgTimeout, Err: err}
	case errors.Is(err, ledgerclient.ErrInvalidAddress) && prefix != "":
		return &action.Error{Class: action.ClassSubmission, Message: prefix + err.Error(), Err: err}
	}
	return action.Network(err)
}

func (c *Controller) report(req *action.Request, level toast.Level, msg, link string) {
	c.deps.Reporter.Report(toast.Toast{
		RequestID: req.ID,
		Kind:      req.Kind,
		Level:     level,
		Message:   msg,
		Link:      link,
		Time:      time.Now(),
	})
}

// RefreshBalance re-reads the balance of the session address. Failures leave
// the previous balance in place and are only logged.
func (c *Controller) RefreshBalance(ctx context.Context) {
	st := c.deps.Store.Snapshot()
	if !st.LoggedIn() || c.deps.Ledger == nil {
		return
	}
	c.deps.Store.Dispatch(viewstate.AccountLoading{})
	bal, err := c.deps.Ledger.Balance(ctx, st.Session.Address)
	if err != nil {
		c.log.Warn("Balance refresh failed", "address", st.Session.Address, "err", err)
		c.deps.Store.Dispatch(viewstate.BalanceFetchFailed{})
		return
	}
	c.deps.Store.Dispatch(viewstate.BalanceFetched{Balance: bal})
}

// Restore adopts the session persisted by the provider, if any, and fetches
// its account.
func (c *Controller) Restore(ctx context.Context) bool {
	if c.deps.Provider == nil {
		return false
	}
	sess, ok := c.deps.Provider.Current()
	if !ok {
		return false
	}
	c.startSession(ctx, sess)
	return true
}

func (c *Controller) startSession(ctx context.Context, sess *session.Session) {
	c.deps.Store.Dispatch(viewstate.SessionStarted{Session: viewstate.Session{
		Address:  sess.Address,
		Network:  sess.Network,
		Provider: sess.Provider,
	}})
	c.RefreshBalance(ctx)
}

// Logout ends the provider session and clears the view state.
func (c *Controller) Logout(ctx context.Context) error {
	var err error
	if c.deps.Provider != nil {
		err = c.deps.Provider.EndSession(ctx)
	}
	c.deps.Store.Dispatch(viewstate.SessionEnded{})
	return err
}

// TxURL links a transaction on the configured explorer.
func (c *Controller) TxURL(digest string) string {
	if digest == "" {
		return ""
	}
	return c.cfg.Network.TxURL(digest)
}

// AccountURL links an account on the configured explorer.
func (c *Controller) AccountURL(addr string) string {
	return c.cfg.Network.AccountURL(addr)
}
