// Package action defines the user-initiated operations of the red envelope
// client.
//
// An action travels as a Request: a kind tag plus a JSON payload whose shape
// depends on the kind. The flow package validates a request against the
// current view state and drives it through authorization and submission.
package action

import (
	"encoding/json"
	"strings"

	"github.com/google/uuid"
)

// Kind identifies the type of an action.
type Kind string

const (
	KindLogin         Kind = "LOGIN"
	KindFaucet        Kind = "FAUCET"
	KindTransfer      Kind = "TRANSFER"
	KindSendEnvelope  Kind = "SEND_ENVELOPE"
	KindClaimEnvelope Kind = "CLAIM_ENVELOPE"
)

// Kinds lists every action kind in display order.
var Kinds = []Kind{KindLogin, KindFaucet, KindTransfer, KindSendEnvelope, KindClaimEnvelope}

var kindAliases = map[string]Kind{
	"login":          KindLogin,
	"faucet":         KindFaucet,
	"transfer":       KindTransfer,
	"send":           KindSendEnvelope,
	"send_envelope":  KindSendEnvelope,
	"claim":          KindClaimEnvelope,
	"claim_envelope": KindClaimEnvelope,
}

// ParseKind resolves a kind from its canonical name or a short alias
// ("send", "claim"), case-insensitively.
func ParseKind(s string) (Kind, bool) {
	k, ok := kindAliases[strings.ToLower(strings.TrimSpace(strings.ReplaceAll(s, "-", "_")))]
	return k, ok
}

// Request is one submission of an action.
type Request struct {
	ID      uuid.UUID       `json:"id"`
	Kind    Kind            `json:"kind"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// LoginPayload is the payload for LOGIN. All fields are optional and fall back
// to the configured login settings.
type LoginPayload struct {
	Provider    string `json:"provider,omitempty"`
	RedirectURL string `json:"redirectUrl,omitempty"`
	Mnemonic    string `json:"mnemonic,omitempty"`
	NewKey      bool   `json:"newKey,omitempty"`
	IDToken     string `json:"idToken,omitempty"`
}

// TransferPayload is the payload for TRANSFER.
type TransferPayload struct {
	Recipient string `json:"recipient"`
	Amount    string `json:"amount"`
}

// SendEnvelopePayload is the payload for SEND_ENVELOPE.
type SendEnvelopePayload struct {
	TotalAmount string `json:"totalAmount"`
	Count       string `json:"count"`
}

// ClaimEnvelopePayload is the payload for CLAIM_ENVELOPE.
type ClaimEnvelopePayload struct {
	EnvelopeID string `json:"envelopeId"`
}
