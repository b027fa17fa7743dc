// Package utils contains internal helper functions for redenvelope commands.
package utils

import (
	"fmt"
	"io"
	"os"
	"runtime"
	"strings"

	"github.com/tos-network/redenvelope/config"
	"github.com/tos-network/redenvelope/faucet"
	"github.com/tos-network/redenvelope/flow"
	"github.com/tos-network/redenvelope/internal/log"
	"github.com/tos-network/redenvelope/ledgerclient"
	"github.com/tos-network/redenvelope/session"
	"github.com/tos-network/redenvelope/session/enoki"
	"github.com/tos-network/redenvelope/session/keystore"
	"github.com/tos-network/redenvelope/toast"
	"github.com/tos-network/redenvelope/viewstate"
)

// Fatalf formats a message to standard error and exits the program.
// The message is also printed to standard output if standard error
// is redirected to a different file.
func Fatalf(format string, args ...interface{}) {
	w := io.MultiWriter(os.Stdout, os.Stderr)
	if runtime.GOOS == "windows" {
		// The SameFile check below doesn't work on Windows.
		// stdout is unlikely to get redirected though, so just print there.
		w = os.Stdout
	} else {
		outf, _ := os.Stdout.Stat()
		errf, _ := os.Stderr.Stat()
		if outf != nil && errf != nil && os.SameFile(outf, errf) {
			w = os.Stderr
		}
	}
	fmt.Fprintf(w, "Fatal: "+format+"\n", args...)
	os.Exit(1)
}

// MakeProvider opens the session provider selected by cfg.Session.Provider.
func MakeProvider(cfg *config.Config, passphrase keystore.PassphraseFunc) (session.Provider, error) {
	network, err := cfg.ResolveNetwork()
	if err != nil {
		return nil, err
	}
	switch strings.ToLower(cfg.Session.Provider) {
	case keystore.ProviderName, "":
		kc := keystore.Config{
			DataDir:    cfg.Session.DataDir,
			Network:    network.Name,
			Passphrase: passphrase,
		}
		if cfg.Session.LightKDF {
			kc.ScryptN, kc.ScryptP = keystore.LightScryptN, keystore.LightScryptP
		}
		return keystore.New(kc)
	case enoki.ProviderName:
		return enoki.New(enoki.Config{
			DataDir:     cfg.Session.DataDir,
			Network:     network.Name,
			APIKey:      cfg.Login.EnokiAPIKey,
			BaseURL:     cfg.Login.EnokiBaseURL,
			ClientID:    cfg.Login.GoogleClientID,
			RedirectURL: cfg.Login.RedirectURL,
		})
	}
	return nil, fmt.Errorf("%w: %q", session.ErrUnknownProvider, cfg.Session.Provider)
}

// FlowConfig converts the file configuration into controller settings.
func FlowConfig(cfg *config.Config) (flow.Config, error) {
	network, err := cfg.ResolveNetwork()
	if err != nil {
		return flow.Config{}, err
	}
	threshold, err := cfg.Threshold()
	if err != nil {
		return flow.Config{}, err
	}
	return flow.Config{
		Network:         network,
		PackageID:       cfg.Envelope.PackageID,
		Module:          cfg.Envelope.Module,
		SendFunction:    cfg.Envelope.SendFunction,
		ClaimFunction:   cfg.Envelope.ClaimFunction,
		RandomObject:    cfg.Envelope.RandomObject,
		CoinType:        cfg.Envelope.CoinType,
		GasBudget:       cfg.Envelope.GasBudget,
		FaucetThreshold: threshold,
		SubmitTimeout:   cfg.Flow.SubmitTimeout.Std(),
	}, nil
}

// MakeController wires the ledger client, faucet and session provider into an
// action controller reporting to reporter.
func MakeController(cfg *config.Config, provider session.Provider, reporter toast.Reporter) (*flow.Controller, error) {
	fc, err := FlowConfig(cfg)
	if err != nil {
		return nil, err
	}
	deps := flow.Deps{
		Store:    viewstate.NewStore(),
		Provider: provider,
		Ledger:   ledgerclient.Dial(fc.Network.RPCURL),
		Reporter: reporter,
		Tracker:  flow.LogTracker{Log: log.New("component", "analytics")},
	}
	if fc.Network.FaucetURL != "" {
		deps.Faucet = faucet.New(fc.Network.FaucetURL, faucet.DefaultConfig)
	}
	log.Debug("Controller configured", "network", fc.Network.Name, "rpc", fc.Network.RPCURL,
		"provider", cfg.Session.Provider, "package", fc.PackageID)
	return flow.New(fc, deps), nil
}
