// Package session defines the contract between the action flow and the
// identity providers that bind a user to a wallet address.
package session

import (
	"context"
	"errors"
	"time"

	"github.com/pattonkan/sui-go/suisigner"
	"github.com/tos-network/redenvelope/params"
)

var (
	ErrNoSession       = errors.New("no active session")
	ErrNetworkMismatch = errors.New("session is bound to a different network")
	ErrUnknownProvider = errors.New("unknown session provider")
)

// Session is an authenticated identity bound to one address.
type Session struct {
	Address  string         `json:"address"`
	Network  params.Network `json:"network"`
	Provider string         `json:"provider"`
	Subject  string         `json:"subject,omitempty"`
	Created  time.Time      `json:"created"`
}

// Credential authorizes one transaction for the session address.
type Credential struct {
	Address string
	Signer  *suisigner.Signer
}

// LoginRequest carries the inputs a provider may need to begin a login. Fields
// that do not apply to a provider are ignored.
type LoginRequest struct {
	RedirectURL string
	Mnemonic    string
	NewKey      bool
	IDToken     string
}

// LoginResult reports either an established session or a URL the user must
// visit to continue.
type LoginResult struct {
	Session *Session
	AuthURL string
	// Mnemonic is set when a new key was generated and must be shown once.
	Mnemonic string
}

// Provider is an identity provider.
type Provider interface {
	Name() string

	// BeginLogin starts or completes a login.
	BeginLogin(ctx context.Context, req LoginRequest) (*LoginResult, error)

	// Authorize returns a credential valid for the given network.
	Authorize(ctx context.Context, network params.Network) (*Credential, error)

	// EndSession discards the active session.
	EndSession(ctx context.Context) error

	// Current returns the active session, if any.
	Current() (*Session, bool)
}

// CheckNetwork verifies that sess may be used on network.
func CheckNetwork(sess *Session, network params.Network) error {
	if sess == nil || sess.Address == "" {
		return ErrNoSession
	}
	if sess.Network != "" && sess.Network != network {
		return ErrNetworkMismatch
	}
	return nil
}
