// Package enoki implements a session provider that logs in through Google
// OAuth and resolves the zkLogin wallet address with the Enoki API.
//
// Enoki sessions are read-only. They resolve the address and read balances,
// but transaction signing requires a zero-knowledge proof and is not
// supported: Authorize always fails with ErrSigningUnsupported. Only the
// public half of the ephemeral key is kept, to bind the login nonce; the
// private half is discarded once the nonce is created.
package enoki

import (
	"context"
	"crypto/ed25519"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v4"
	lru "github.com/hashicorp/golang-lru"
	"github.com/tos-network/redenvelope/internal/log"
	"github.com/tos-network/redenvelope/params"
	"github.com/tos-network/redenvelope/session"
)

// ProviderName identifies this provider in session files and configuration.
const ProviderName = "enoki"

const (
	googleAuthURL    = "https://accounts.google.com/o/oauth2/v2/auth"
	pendingFileName  = "enoki-pending.json"
	addressCacheSize = 64
	additionalEpochs = 2

	// ed25519 signature scheme flag of Sui public keys.
	ed25519Flag = 0x00
)

var (
	ErrSigningUnsupported = errors.New("zkLogin transaction signing is not supported by this client")
	ErrNoPendingLogin     = errors.New("no login in progress")
	ErrNonceMismatch      = errors.New("id token nonce does not match the pending login")
	ErrTokenExpired       = errors.New("id token expired")
	ErrAudienceMismatch   = errors.New("id token was issued for a different client")
)

// Config configures a Provider.
type Config struct {
	DataDir     string
	Network     params.Network
	APIKey      string
	BaseURL     string
	ClientID    string
	RedirectURL string
	HTTPClient  *http.Client
}

// pendingLogin is the state kept between the redirect and the callback.
type pendingLogin struct {
	Nonce              string    `json:"nonce"`
	Randomness         string    `json:"randomness"`
	MaxEpoch           uint64    `json:"maxEpoch"`
	EphemeralPublicKey string    `json:"ephemeralPublicKey"`
	Created            time.Time `json:"created"`
}

// Provider is the Enoki session provider.
type Provider struct {
	cfg       Config
	api       *apiClient
	store     *session.Store
	addresses *lru.ARCCache // jwt subject → address
	log       log.Logger

	mu      sync.Mutex
	current *session.Session
}

// New creates the provider and restores a persisted session.
func New(cfg Config) (*Provider, error) {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = &http.Client{Timeout: 30 * time.Second}
	}
	cache, err := lru.NewARC(addressCacheSize)
	if err != nil {
		return nil, err
	}
	p := &Provider{
		cfg:       cfg,
		api:       &apiClient{base: cfg.BaseURL, apiKey: cfg.APIKey, http: cfg.HTTPClient},
		store:     session.NewStore(cfg.DataDir),
		addresses: cache,
		log:       log.New("provider", ProviderName),
	}
	sess, err := p.store.Load()
	switch {
	case err == nil && sess.Provider == ProviderName:
		p.current = sess
	case err == nil, errors.Is(err, session.ErrNoSession):
	default:
		return nil, err
	}
	return p, nil
}

func (p *Provider) Name() string { return ProviderName }

func (p *Provider) Current() (*session.Session, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.current == nil {
		return nil, false
	}
	sess := *p.current
	return &sess, true
}

// BeginLogin returns the OAuth URL to visit. When req carries an id token the
// login is completed instead.
func (p *Provider) BeginLogin(ctx context.Context, req session.LoginRequest) (*session.LoginResult, error) {
	if req.IDToken != "" {
		sess, err := p.CompleteLogin(ctx, req.IDToken)
		if err != nil {
			return nil, err
		}
		return &session.LoginResult{Session: sess}, nil
	}
	redirect := req.RedirectURL
	if redirect == "" {
		redirect = p.cfg.RedirectURL
	}
	if p.cfg.ClientID == "" || redirect == "" {
		return nil, errors.New("enoki login requires a client id and redirect url")
	}

	pub, _, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return nil, err
	}
	ephemeral := base64.StdEncoding.EncodeToString(append([]byte{ed25519Flag}, pub...))
	nonce, err := p.api.createNonce(ctx, nonceRequest{
		Network:            string(p.cfg.Network),
		EphemeralPublicKey: ephemeral,
		AdditionalEpochs:   additionalEpochs,
	})
	if err != nil {
		return nil, fmt.Errorf("create nonce: %w", err)
	}
	pending := pendingLogin{
		Nonce:              nonce.Nonce,
		Randomness:         nonce.Randomness,
		MaxEpoch:           nonce.MaxEpoch,
		EphemeralPublicKey: ephemeral,
		Created:            time.Now().UTC(),
	}
	if err := session.WriteJSON(p.pendingPath(), &pending); err != nil {
		return nil, err
	}
	return &session.LoginResult{AuthURL: AuthURL(p.cfg.ClientID, redirect, nonce.Nonce)}, nil
}

// AuthURL builds the Google OAuth URL requesting an id token bound to nonce.
func AuthURL(clientID, redirectURL, nonce string) string {
	q := url.Values{}
	q.Set("client_id", clientID)
	q.Set("redirect_uri", redirectURL)
	q.Set("response_type", "id_token")
	q.Set("response_mode", "form_post")
	q.Set("scope", "openid")
	q.Set("nonce", nonce)
	return googleAuthURL + "?" + q.Encode()
}

// CompleteLogin checks idToken against the pending login and establishes the
// session for the zkLogin address of its subject.
func (p *Provider) CompleteLogin(ctx context.Context, idToken string) (*session.Session, error) {
	var pending pendingLogin
	if err := session.ReadJSON(p.pendingPath(), &pending); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrNoPendingLogin
		}
		return nil, err
	}
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(idToken, claims); err != nil {
		return nil, fmt.Errorf("parse id token: %w", err)
	}
	if nonce, _ := claims["nonce"].(string); nonce != pending.Nonce {
		return nil, ErrNonceMismatch
	}
	if !claims.VerifyExpiresAt(time.Now().Unix(), true) {
		return nil, ErrTokenExpired
	}
	if p.cfg.ClientID != "" && !claims.VerifyAudience(p.cfg.ClientID, true) {
		return nil, ErrAudienceMismatch
	}
	subject, _ := claims["sub"].(string)

	address, err := p.resolveAddress(ctx, subject, idToken)
	if err != nil {
		return nil, err
	}
	sess := &session.Session{
		Address:  address,
		Network:  p.cfg.Network,
		Provider: ProviderName,
		Subject:  subject,
		Created:  time.Now().UTC(),
	}
	if err := p.store.Save(sess); err != nil {
		return nil, err
	}
	os.Remove(p.pendingPath())

	p.mu.Lock()
	p.current = sess
	p.mu.Unlock()
	p.log.Info("Session established", "address", address, "network", p.cfg.Network)
	return sess, nil
}

func (p *Provider) resolveAddress(ctx context.Context, subject, idToken string) (string, error) {
	if subject != "" {
		if addr, ok := p.addresses.Get(subject); ok {
			return addr.(string), nil
		}
	}
	resp, err := p.api.address(ctx, idToken)
	if err != nil {
		return "", fmt.Errorf("resolve zkLogin address: %w", err)
	}
	if resp.Address == "" {
		return "", errors.New("enoki returned no address")
	}
	if subject != "" {
		p.addresses.Add(subject, resp.Address)
	}
	return resp.Address, nil
}

// Authorize checks the session but cannot produce a signer.
func (p *Provider) Authorize(ctx context.Context, network params.Network) (*session.Credential, error) {
	p.mu.Lock()
	sess := p.current
	p.mu.Unlock()
	if err := session.CheckNetwork(sess, network); err != nil {
		return nil, err
	}
	return nil, ErrSigningUnsupported
}

// EndSession forgets the session and any pending login.
func (p *Provider) EndSession(ctx context.Context) error {
	p.mu.Lock()
	p.current = nil
	p.mu.Unlock()
	if err := os.Remove(p.pendingPath()); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return p.store.Clear()
}

func (p *Provider) pendingPath() string {
	return filepath.Join(p.cfg.DataDir, pendingFileName)
}
