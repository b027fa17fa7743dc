// Package viewstate holds the client-side view of the session: who is logged
// in, the last observed balance, per-action loading flags and the envelope
// references produced by the last send and claim.
//
// State is only changed by dispatching events to a Store; readers receive
// copies.
package viewstate

import (
	"github.com/shopspring/decimal"
	"github.com/tos-network/redenvelope/action"
	"github.com/tos-network/redenvelope/params"
)

// UnknownID is displayed when an envelope reference could not be extracted.
const UnknownID = "未知"

// Session is the authenticated identity bound to a wallet address.
type Session struct {
	Address  string         `json:"address"`
	Network  params.Network `json:"network"`
	Provider string         `json:"provider,omitempty"`
}

// AccountSnapshot is the last observed ledger balance of the session address.
// It is a point-in-time read with no cross-request consistency.
type AccountSnapshot struct {
	Balance decimal.Decimal `json:"balance"`
	Loading bool            `json:"loading"`
}

// EnvelopeReference identifies an object produced by a send or claim. Known is
// false when the ledger response did not name the object.
type EnvelopeReference struct {
	ID     string `json:"id"`
	Known  bool   `json:"known"`
	Digest string `json:"digest,omitempty"`
}

// Display returns the abbreviated identifier, or UnknownID.
func (r EnvelopeReference) Display() string {
	if !r.Known {
		return UnknownID
	}
	return Abbreviate(r.ID)
}

// IsSet reports whether the reference holds a value.
func (r EnvelopeReference) IsSet() bool {
	return r.Known || r.ID != ""
}

// State is a snapshot of all view slots.
type State struct {
	Session       *Session             `json:"session,omitempty"`
	Account       AccountSnapshot      `json:"account"`
	Loading       map[action.Kind]bool `json:"loading"`
	SentEnvelope  EnvelopeReference    `json:"sentEnvelope"`
	ClaimedObject EnvelopeReference    `json:"claimedObject"`
	Version       uint64               `json:"version"`
}

// LoggedIn reports whether a session is established.
func (s State) LoggedIn() bool {
	return s.Session != nil && s.Session.Address != ""
}

func (s State) clone() State {
	c := s
	if s.Session != nil {
		sess := *s.Session
		c.Session = &sess
	}
	c.Loading = make(map[action.Kind]bool, len(s.Loading))
	for k, v := range s.Loading {
		c.Loading[k] = v
	}
	return c
}

// Abbreviate shortens an identifier to its first 6 and last 4 characters.
func Abbreviate(id string) string {
	return abbreviate(id, 6, 4)
}

// AbbreviateAddress shortens an address for compact headers: first 5 and last
// 5 characters.
func AbbreviateAddress(addr string) string {
	return abbreviate(addr, 5, 5)
}

// abbreviate joins the first head and last tail characters of s with an
// ellipsis. The parts overlap when s is shorter than head+tail.
func abbreviate(s string, head, tail int) string {
	if head > len(s) {
		head = len(s)
	}
	if tail > len(s) {
		tail = len(s)
	}
	return s[:head] + "..." + s[len(s)-tail:]
}

// FormatBalance renders a balance with three significant digits. Balances of
// 1000 SUI and more are rounded to whole units.
func FormatBalance(b decimal.Decimal) string {
	const precision = 3
	if b.IsZero() {
		return decimal.Zero.StringFixed(precision - 1)
	}
	exp := b.NumDigits() + int(b.Exponent()) - 1
	places := precision - 1 - exp
	if places < 0 {
		places = 0
	}
	return b.StringFixed(int32(places))
}
