// Package keystore implements a session provider backed by a locally stored,
// passphrase-encrypted mnemonic.
package keystore

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pattonkan/sui-go/suisigner"
	"github.com/pattonkan/sui-go/suisigner/suicrypto"
	"github.com/tos-network/redenvelope/internal/log"
	"github.com/tos-network/redenvelope/params"
	"github.com/tos-network/redenvelope/session"
	"github.com/tyler-smith/go-bip39"
)

// ProviderName identifies this provider in session files and configuration.
const ProviderName = "keystore"

// KeyFileName is the key file within the data directory.
const KeyFileName = "key.json"

var (
	ErrNoKey           = errors.New("no key stored; log in with a mnemonic or generate a new key")
	ErrInvalidMnemonic = errors.New("invalid mnemonic")
)

// PassphraseFunc obtains a passphrase. confirm asks for it twice.
type PassphraseFunc func(prompt string, confirm bool) (string, error)

// Config configures a Provider.
type Config struct {
	DataDir    string
	Network    params.Network
	Passphrase PassphraseFunc
	ScryptN    int
	ScryptP    int
	// MnemonicBits is the entropy of generated mnemonics.
	MnemonicBits int
}

// Provider is the keystore-backed session provider. The decrypted signer is
// held in memory until EndSession.
type Provider struct {
	cfg   Config
	store *session.Store
	log   log.Logger

	mu      sync.Mutex
	current *session.Session
	signer  *suisigner.Signer
}

// New opens the keystore in cfg.DataDir and restores a persisted session.
func New(cfg Config) (*Provider, error) {
	if cfg.Passphrase == nil {
		cfg.Passphrase = TerminalPassphrase
	}
	if cfg.ScryptN == 0 {
		cfg.ScryptN, cfg.ScryptP = StandardScryptN, StandardScryptP
	}
	if cfg.MnemonicBits == 0 {
		cfg.MnemonicBits = 128
	}
	p := &Provider{
		cfg:   cfg,
		store: session.NewStore(cfg.DataDir),
		log:   log.New("provider", ProviderName),
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

// Current returns the active session.
func (p *Provider) Current() (*session.Session, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.current == nil {
		return nil, false
	}
	sess := *p.current
	return &sess, true
}

// BeginLogin establishes a session. A supplied mnemonic is imported, NewKey
// generates a fresh one, and otherwise the stored key is unlocked.
func (p *Provider) BeginLogin(ctx context.Context, req session.LoginRequest) (*session.LoginResult, error) {
	var (
		mnemonic  = strings.Join(strings.Fields(req.Mnemonic), " ")
		generated bool
		key       *Key
		err       error
	)
	switch {
	case mnemonic != "":
		if !bip39.IsMnemonicValid(mnemonic) {
			return nil, ErrInvalidMnemonic
		}
	case req.NewKey:
		entropy, err := bip39.NewEntropy(p.cfg.MnemonicBits)
		if err != nil {
			return nil, err
		}
		if mnemonic, err = bip39.NewMnemonic(entropy); err != nil {
			return nil, err
		}
		generated = true
	default:
		if key, err = p.unlock(); err != nil {
			return nil, err
		}
		mnemonic = key.Mnemonic
	}

	signer, err := suisigner.NewSignerWithMnemonic(mnemonic, suicrypto.KeySchemeFlagEd25519)
	if err != nil {
		return nil, fmt.Errorf("derive signer: %w", err)
	}
	address := signer.Address.String()

	if key == nil {
		auth, err := p.cfg.Passphrase("Passphrase for the new key file", true)
		if err != nil {
			return nil, err
		}
		if err := p.storeKey(&Key{Id: uuid.New(), Address: address, Mnemonic: mnemonic}, auth); err != nil {
			return nil, err
		}
	}

	sess := &session.Session{
		Address:  address,
		Network:  p.cfg.Network,
		Provider: ProviderName,
		Created:  time.Now().UTC(),
	}
	if err := p.store.Save(sess); err != nil {
		return nil, err
	}
	p.mu.Lock()
	p.current, p.signer = sess, signer
	p.mu.Unlock()

	p.log.Info("Session established", "address", address, "network", p.cfg.Network)
	res := &session.LoginResult{Session: sess}
	if generated {
		res.Mnemonic = mnemonic
	}
	return res, nil
}

// Authorize returns the signer of the active session, unlocking the key file
// if it is not yet in memory.
func (p *Provider) Authorize(ctx context.Context, network params.Network) (*session.Credential, error) {
	p.mu.Lock()
	sess, signer := p.current, p.signer
	p.mu.Unlock()

	if err := session.CheckNetwork(sess, network); err != nil {
		return nil, err
	}
	if signer == nil {
		key, err := p.unlock()
		if err != nil {
			return nil, err
		}
		if signer, err = suisigner.NewSignerWithMnemonic(key.Mnemonic, suicrypto.KeySchemeFlagEd25519); err != nil {
			return nil, err
		}
		if got := signer.Address.String(); got != sess.Address {
			return nil, fmt.Errorf("key file address %s does not match session %s", got, sess.Address)
		}
		p.mu.Lock()
		p.signer = signer
		p.mu.Unlock()
	}
	return &session.Credential{Address: sess.Address, Signer: signer}, nil
}

// EndSession forgets the session and the in-memory signer. The key file is
// kept so that a later login only needs the passphrase.
func (p *Provider) EndSession(ctx context.Context) error {
	p.mu.Lock()
	p.current, p.signer = nil, nil
	p.mu.Unlock()
	return p.store.Clear()
}

func (p *Provider) keyPath() string {
	return filepath.Join(p.cfg.DataDir, KeyFileName)
}

func (p *Provider) storeKey(key *Key, auth string) error {
	enc, err := encryptKey(key, auth, p.cfg.ScryptN, p.cfg.ScryptP)
	if err != nil {
		return err
	}
	return session.WriteJSON(p.keyPath(), enc)
}

func (p *Provider) unlock() (*Key, error) {
	var enc keyJSON
	if err := session.ReadJSON(p.keyPath(), &enc); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrNoKey
		}
		return nil, err
	}
	auth, err := p.cfg.Passphrase(fmt.Sprintf("Passphrase for %s", enc.Address), false)
	if err != nil {
		return nil, err
	}
	return decryptKey(&enc, auth)
}
