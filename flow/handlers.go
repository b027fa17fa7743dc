package flow

import (
	"context"
	"errors"
	"strings"

	"github.com/tos-network/redenvelope/action"
	"github.com/tos-network/redenvelope/ledgerclient"
	"github.com/tos-network/redenvelope/session"
	"github.com/tos-network/redenvelope/viewstate"
)

const coinObjectType = "0x2::coin::Coin"

type loginHandler struct{}

func (loginHandler) CanHandle(kind action.Kind) bool { return kind == action.KindLogin }

func (loginHandler) Prepare(c *Controller, req *action.Request, st viewstate.State) (*Task, error) {
	var p action.LoginPayload
	if len(req.Payload) > 0 {
		if err := action.DecodePayload(req, &p); err != nil {
			return nil, action.Validation(err.Error())
		}
	}
	if c.deps.Provider == nil {
		return nil, action.Validation(MsgUnknownProvider + p.Provider)
	}
	if p.Provider != "" && p.Provider != c.deps.Provider.Name() {
		return nil, action.Validation(MsgUnknownProvider + p.Provider)
	}
	return &Task{Run: func(ctx context.Context, r *Run) (*Outcome, error) {
		res, err := c.deps.Provider.BeginLogin(ctx, session.LoginRequest{
			RedirectURL: p.RedirectURL,
			Mnemonic:    p.Mnemonic,
			NewKey:      p.NewKey,
			IDToken:     p.IDToken,
		})
		r.Awaiting()
		if err == nil && res == nil {
			err = errors.New("login produced no result")
		}
		if err != nil {
			return nil, action.Authorization(err)
		}
		out := &Outcome{AuthURL: res.AuthURL, Mnemonic: res.Mnemonic}
		if res.Session == nil {
			out.Message, out.Link = MsgLoginURL, res.AuthURL
			return out, nil
		}
		c.startSession(ctx, res.Session)
		out.Link = c.AccountURL(res.Session.Address)
		return out, nil
	}}, nil
}

type faucetHandler struct{}

func (faucetHandler) CanHandle(kind action.Kind) bool { return kind == action.KindFaucet }

func (faucetHandler) Prepare(c *Controller, req *action.Request, st viewstate.State) (*Task, error) {
	if !st.LoggedIn() {
		return nil, action.Validation(action.MsgNoAddress)
	}
	if st.Account.Balance.GreaterThan(c.cfg.FaucetThreshold) {
		return nil, action.Validation(action.MsgBalanceSufficient)
	}
	recipient := st.Session.Address
	return &Task{Run: func(ctx context.Context, r *Run) (*Outcome, error) {
		if c.deps.Faucet == nil {
			return nil, action.Networkf("faucet unavailable on %s", c.cfg.Network.Name)
		}
		res, err := c.deps.Faucet.Request(ctx, recipient)
		r.Awaiting()
		if err != nil {
			return nil, err
		}
		c.deps.Store.Dispatch(viewstate.BalanceCredited{Delta: res.Total()})
		digest := res.Digest()
		return &Outcome{Digest: digest, Link: c.TxURL(digest)}, nil
	}}, nil
}

type transferHandler struct{}

func (transferHandler) CanHandle(kind action.Kind) bool { return kind == action.KindTransfer }

func (transferHandler) Prepare(c *Controller, req *action.Request, st viewstate.State) (*Task, error) {
	var p action.TransferPayload
	if err := action.DecodePayload(req, &p); err != nil {
		return nil, action.Validation(action.MsgInvalidAmount)
	}
	tr, err := action.ValidateTransfer(p)
	if err != nil {
		return nil, err
	}
	prog := &ledgerclient.Program{
		GasBudget: c.cfg.GasBudget,
		Options:   ledgerclient.ResponseOptions{Effects: true, BalanceChanges: true},
	}
	coin := prog.Add(ledgerclient.Command{SplitCoins: &ledgerclient.SplitCoins{
		Coin:    ledgerclient.Gas(),
		Amounts: []ledgerclient.Arg{ledgerclient.U64(tr.Amount.Mist)},
	}})
	prog.Add(ledgerclient.Command{TransferObjects: &ledgerclient.TransferObjects{
		Objects:   []ledgerclient.Arg{coin},
		Recipient: ledgerclient.Address(tr.Recipient),
	}})

	return &Task{Authorize: true, Run: func(ctx context.Context, r *Run) (*Outcome, error) {
		resp, err := c.submit(ctx, r, prog, MessagesFor(action.KindTransfer).FailurePrefix)
		if err != nil {
			return nil, err
		}
		c.RefreshBalance(ctx)
		return &Outcome{Digest: resp.Digest, Link: c.TxURL(resp.Digest)}, nil
	}}, nil
}

type sendEnvelopeHandler struct{}

func (sendEnvelopeHandler) CanHandle(kind action.Kind) bool { return kind == action.KindSendEnvelope }

func (sendEnvelopeHandler) Prepare(c *Controller, req *action.Request, st viewstate.State) (*Task, error) {
	var p action.SendEnvelopePayload
	if err := action.DecodePayload(req, &p); err != nil {
		return nil, action.Validation(action.MsgInvalidTotal)
	}
	send, err := action.ValidateSendEnvelope(p)
	if err != nil {
		return nil, err
	}
	if c.cfg.PackageID == "" {
		return nil, action.Validation(MsgPackageMissing)
	}
	prog := &ledgerclient.Program{
		GasBudget: c.cfg.GasBudget,
		Options:   ledgerclient.ResponseOptions{Effects: true, Events: true, ObjectChanges: true},
	}
	coin := prog.Add(ledgerclient.Command{SplitCoins: &ledgerclient.SplitCoins{
		Coin:    ledgerclient.Gas(),
		Amounts: []ledgerclient.Arg{ledgerclient.U64(send.Total.Mist)},
	}})
	prog.Add(ledgerclient.Command{MoveCall: &ledgerclient.MoveCall{
		Target:   ledgerclient.Target(c.cfg.PackageID, c.cfg.Module, c.cfg.SendFunction),
		TypeArgs: []string{c.cfg.CoinType},
		Args: []ledgerclient.Arg{
			ledgerclient.Shared(c.cfg.RandomObject, false),
			coin,
			ledgerclient.U8(send.Count),
		},
	}})

	return &Task{Authorize: true, Run: func(ctx context.Context, r *Run) (*Outcome, error) {
		resp, err := c.submit(ctx, r, prog, MessagesFor(action.KindSendEnvelope).FailurePrefix)
		if err != nil {
			return nil, err
		}
		ref := c.createdReference(resp, "::"+c.cfg.Module+"::")
		c.deps.Store.Dispatch(viewstate.EnvelopeSent{Ref: ref})
		return &Outcome{Digest: resp.Digest, Link: c.TxURL(resp.Digest), Envelope: &ref}, nil
	}}, nil
}

type claimEnvelopeHandler struct{}

func (claimEnvelopeHandler) CanHandle(kind action.Kind) bool { return kind == action.KindClaimEnvelope }

func (claimEnvelopeHandler) Prepare(c *Controller, req *action.Request, st viewstate.State) (*Task, error) {
	var p action.ClaimEnvelopePayload
	if err := action.DecodePayload(req, &p); err != nil {
		return nil, action.Validation(action.MsgMissingEnvelopeID)
	}
	claim, err := action.ValidateClaimEnvelope(p)
	if err != nil {
		return nil, err
	}
	if c.cfg.PackageID == "" {
		return nil, action.Validation(MsgPackageMissing)
	}
	prog := &ledgerclient.Program{
		GasBudget: c.cfg.GasBudget,
		Options:   ledgerclient.ResponseOptions{Effects: true, ObjectChanges: true},
	}
	prog.Add(ledgerclient.Command{MoveCall: &ledgerclient.MoveCall{
		Target:   ledgerclient.Target(c.cfg.PackageID, c.cfg.Module, c.cfg.ClaimFunction),
		TypeArgs: []string{c.cfg.CoinType},
		Args: []ledgerclient.Arg{
			ledgerclient.Shared(claim.EnvelopeID, true),
			ledgerclient.Shared(c.cfg.RandomObject, false),
		},
	}})

	return &Task{Authorize: true, Run: func(ctx context.Context, r *Run) (*Outcome, error) {
		resp, err := c.submit(ctx, r, prog, MessagesFor(action.KindClaimEnvelope).FailurePrefix)
		if err != nil {
			return nil, err
		}
		ref := c.createdReference(resp, coinObjectType)
		c.deps.Store.Dispatch(viewstate.EnvelopeClaimed{Ref: ref})
		c.RefreshBalance(ctx)
		return &Outcome{Digest: resp.Digest, Link: c.TxURL(resp.Digest), Envelope: &ref}, nil
	}}, nil
}

// submit executes prog with the run's credential. A response whose status is
// not success becomes a submission error carrying the ledger's detail.
func (c *Controller) submit(ctx context.Context, r *Run, prog *ledgerclient.Program, failurePrefix string) (*ledgerclient.Response, error) {
	if c.deps.Ledger == nil {
		return nil, action.Networkf("ledger client unavailable")
	}
	resp, err := c.deps.Ledger.Execute(ctx, r.Credential.Signer, prog)
	r.Awaiting()
	if err != nil {
		return nil, err
	}
	if !resp.Succeeded() {
		return nil, action.Submission(failurePrefix, resp.Error)
	}
	return resp, nil
}

// createdReference picks the object of interest among the created objects:
// the first whose type contains typeMatch, else the first one.
func (c *Controller) createdReference(resp *ledgerclient.Response, typeMatch string) viewstate.EnvelopeReference {
	ref := viewstate.EnvelopeReference{Digest: resp.Digest}
	if len(resp.Created) == 0 {
		return ref
	}
	for _, obj := range resp.Created {
		if obj.ObjectType != "" && strings.Contains(obj.ObjectType, typeMatch) {
			ref.ID, ref.Known = obj.ObjectID, true
			return ref
		}
	}
	c.log.Warn("No created object matched, using the first", "match", typeMatch, "digest", resp.Digest, "created", len(resp.Created))
	ref.ID, ref.Known = resp.Created[0].ObjectID, true
	return ref
}
