// Copyright 2015 The go-ethereum Authors
// This file is part of go-ethereum.
//
// go-ethereum is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// go-ethereum is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with go-ethereum. If not, see <http://www.gnu.org/licenses/>.

// Package utils contains internal helper functions for redenvelope commands.
package utils

import (
	"fmt"
	"os"
	"strings"

	"github.com/tos-network/redenvelope/config"
	"github.com/tos-network/redenvelope/internal/flags"
	"github.com/tos-network/redenvelope/internal/log"
	"github.com/tos-network/redenvelope/session/enoki"
	"github.com/tos-network/redenvelope/session/keystore"
	"github.com/urfave/cli/v2"
)

// These are all the command line flags we support.
// If you add to this list, please remember to include the
// flag in the appropriate command definition.
//
// The flags are defined here so their names and help texts
// are the same for all commands.

var (
	// General settings
	ConfigFileFlag = &cli.PathFlag{
		Name:     "config",
		Usage:    "TOML configuration file",
		Category: flags.MiscCategory,
	}
	JSONFlag = &cli.BoolFlag{
		Name:     "json",
		Usage:    "Output JSON instead of human-readable format",
		Category: flags.MiscCategory,
	}

	// Network settings
	NetworkFlag = &cli.StringFlag{
		Name:     "network",
		Usage:    "Sui network to use (testnet, devnet, localnet, mainnet)",
		Value:    config.Defaults.Network.Name,
		Category: flags.NetworkCategory,
	}
	RPCFlag = &cli.StringFlag{
		Name:     "rpc",
		Usage:    "Full node JSON-RPC endpoint (overrides the network default)",
		Category: flags.NetworkCategory,
	}
	FaucetFlag = &cli.StringFlag{
		Name:     "faucet",
		Usage:    "Faucet host (overrides the network default)",
		Category: flags.NetworkCategory,
	}
	TimeoutFlag = &cli.DurationFlag{
		Name:     "timeout",
		Usage:    "Time limit for signing and submitting a transaction (0 disables)",
		Value:    config.Defaults.Flow.SubmitTimeout.Std(),
		Category: flags.NetworkCategory,
	}

	// Red envelope program
	PackageFlag = &cli.StringFlag{
		Name:     "package",
		Usage:    "Package id of the red envelope program",
		Category: flags.EnvelopeCategory,
	}
	GasBudgetFlag = &cli.Uint64Flag{
		Name:     "gasbudget",
		Usage:    "Gas budget (MIST) of envelope transactions",
		Value:    config.Defaults.Envelope.GasBudget,
		Category: flags.EnvelopeCategory,
	}

	// Account and login settings
	DataDirFlag = &cli.PathFlag{
		Name:     "datadir",
		Usage:    "Data directory for the key file and the session",
		Value:    config.Defaults.Session.DataDir,
		Category: flags.AccountCategory,
	}
	SessionFlag = &cli.StringFlag{
		Name:     "session",
		Usage:    "Session provider (keystore, enoki)",
		Value:    config.Defaults.Session.Provider,
		Category: flags.AccountCategory,
	}
	PasswordFileFlag = &cli.PathFlag{
		Name:     "password",
		Usage:    "Password file to use for the key file",
		Category: flags.AccountCategory,
	}
	LightKDFFlag = &cli.BoolFlag{
		Name:     "lightkdf",
		Usage:    "Reduce key-derivation RAM & CPU usage at some expense of KDF strength",
		Category: flags.AccountCategory,
	}
	ClientIDFlag = &cli.StringFlag{
		Name:     "login.clientid",
		Usage:    "Google OAuth client id used for zkLogin",
		Category: flags.AccountCategory,
	}
	RedirectURLFlag = &cli.StringFlag{
		Name:     "login.redirect",
		Usage:    "OAuth redirect URL receiving the id token",
		Category: flags.AccountCategory,
	}
	EnokiKeyFlag = &cli.StringFlag{
		Name:     "enoki.apikey",
		Usage:    "Enoki public API key",
		EnvVars:  []string{"ENOKI_API_KEY"},
		Category: flags.AccountCategory,
	}
	EnokiURLFlag = &cli.StringFlag{
		Name:     "enoki.url",
		Usage:    "Enoki API base URL",
		Value:    enoki.DefaultBaseURL,
		Category: flags.AccountCategory,
	}

	// API settings
	HTTPListenFlag = &cli.StringFlag{
		Name:     "http.addr",
		Usage:    "HTTP server listening address",
		Value:    config.Defaults.HTTP.Listen,
		Category: flags.APICategory,
	}
	HTTPCORSDomainFlag = &cli.StringFlag{
		Name:     "http.corsdomain",
		Usage:    "Comma separated list of domains from which to accept cross origin requests (browser enforced)",
		Category: flags.APICategory,
	}

	// Logging
	VerbosityFlag = &cli.IntFlag{
		Name:     "verbosity",
		Usage:    "Logging verbosity: 0=silent, 1=error, 2=warn, 3=info, 4=debug",
		Value:    3,
		Category: flags.LoggingCategory,
	}
	LogJSONFlag = &cli.BoolFlag{
		Name:     "log.json",
		Usage:    "Format logs with JSON",
		Category: flags.LoggingCategory,
	}
)

var (
	// NetworkFlags are the flags selecting the ledger endpoints.
	NetworkFlags = []cli.Flag{
		NetworkFlag,
		RPCFlag,
		FaucetFlag,
		TimeoutFlag,
	}
	// AccountFlags configure the session provider.
	AccountFlags = []cli.Flag{
		DataDirFlag,
		SessionFlag,
		PasswordFileFlag,
		LightKDFFlag,
		ClientIDFlag,
		RedirectURLFlag,
		EnokiKeyFlag,
		EnokiURLFlag,
	}
	EnvelopeFlags = []cli.Flag{
		PackageFlag,
		GasBudgetFlag,
	}
	LoggingFlags = []cli.Flag{
		VerbosityFlag,
		LogJSONFlag,
	}
	// GlobalFlags are accepted by every command.
	GlobalFlags = flags.Merge(
		[]cli.Flag{ConfigFileFlag, JSONFlag},
		NetworkFlags,
		EnvelopeFlags,
		AccountFlags,
		LoggingFlags,
	)
	HTTPFlags = []cli.Flag{
		HTTPListenFlag,
		HTTPCORSDomainFlag,
	}
)

// MakeConfig loads the configuration file named by --config (with environment
// overrides) and applies the command line flags on top.
func MakeConfig(ctx *cli.Context) *config.Config {
	cfg, err := config.Load(ctx.Path(ConfigFileFlag.Name))
	if err != nil {
		Fatalf("%v", err)
	}
	SetConfig(ctx, cfg)
	return cfg
}

// SetConfig applies the explicitly set command line flags to cfg.
func SetConfig(ctx *cli.Context, cfg *config.Config) {
	if ctx.IsSet(NetworkFlag.Name) {
		cfg.Network.Name = ctx.String(NetworkFlag.Name)
	}
	if ctx.IsSet(RPCFlag.Name) {
		cfg.Network.RPC = ctx.String(RPCFlag.Name)
	}
	if ctx.IsSet(FaucetFlag.Name) {
		cfg.Network.Faucet = ctx.String(FaucetFlag.Name)
	}
	if ctx.IsSet(TimeoutFlag.Name) {
		cfg.Flow.SubmitTimeout = config.Duration(ctx.Duration(TimeoutFlag.Name))
	}
	if ctx.IsSet(PackageFlag.Name) {
		cfg.Envelope.PackageID = ctx.String(PackageFlag.Name)
	}
	if ctx.IsSet(GasBudgetFlag.Name) {
		cfg.Envelope.GasBudget = ctx.Uint64(GasBudgetFlag.Name)
	}
	if ctx.IsSet(DataDirFlag.Name) {
		cfg.Session.DataDir = ctx.Path(DataDirFlag.Name)
	}
	if ctx.IsSet(SessionFlag.Name) {
		cfg.Session.Provider = ctx.String(SessionFlag.Name)
	}
	if ctx.IsSet(LightKDFFlag.Name) {
		cfg.Session.LightKDF = ctx.Bool(LightKDFFlag.Name)
	}
	if ctx.IsSet(ClientIDFlag.Name) {
		cfg.Login.GoogleClientID = ctx.String(ClientIDFlag.Name)
	}
	if ctx.IsSet(RedirectURLFlag.Name) {
		cfg.Login.RedirectURL = ctx.String(RedirectURLFlag.Name)
	}
	if ctx.IsSet(EnokiKeyFlag.Name) {
		cfg.Login.EnokiAPIKey = ctx.String(EnokiKeyFlag.Name)
	}
	if ctx.IsSet(EnokiURLFlag.Name) {
		cfg.Login.EnokiBaseURL = ctx.String(EnokiURLFlag.Name)
	}
	if ctx.IsSet(HTTPListenFlag.Name) {
		cfg.HTTP.Listen = ctx.String(HTTPListenFlag.Name)
	}
	if ctx.IsSet(HTTPCORSDomainFlag.Name) {
		cfg.HTTP.CorsOrigins = SplitAndTrim(ctx.String(HTTPCORSDomainFlag.Name))
	}
	if ctx.IsSet(VerbosityFlag.Name) {
		cfg.Log.Level = verbosityLevel(ctx.Int(VerbosityFlag.Name))
	}
	if ctx.IsSet(LogJSONFlag.Name) {
		cfg.Log.JSON = ctx.Bool(LogJSONFlag.Name)
	}
	if cfg.Session.DataDir == "" {
		Fatalf("Cannot determine default data directory, please set manually (--%s)", DataDirFlag.Name)
	}
}

func verbosityLevel(v int) string {
	switch {
	case v <= 0:
		return "fatal"
	case v == 1:
		return "error"
	case v == 2:
		return "warn"
	case v == 3:
		return "info"
	default:
		return "debug"
	}
}

// SetupLogging installs the root logger described by cfg.
func SetupLogging(cfg *config.Config) {
	if _, err := log.Setup(log.Options{Level: cfg.Log.Level, JSON: cfg.Log.JSON}); err != nil {
		Fatalf("%v", err)
	}
}

// SplitAndTrim splits input separated by a comma
// and trims excessive white space from the substrings.
func SplitAndTrim(input string) (ret []string) {
	l := strings.Split(input, ",")
	for _, r := range l {
		if r = strings.TrimSpace(r); r != "" {
			ret = append(ret, r)
		}
	}
	return ret
}

// MakePasswordList reads password lines from the file specified by the global --password flag.
func MakePasswordList(ctx *cli.Context) []string {
	path := ctx.Path(PasswordFileFlag.Name)
	if path == "" {
		return nil
	}
	text, err := os.ReadFile(path)
	if err != nil {
		Fatalf("Failed to read password file: %v", err)
	}
	lines := strings.Split(string(text), "\n")
	// Sanitise DOS line endings.
	for i := range lines {
		lines[i] = strings.TrimRight(lines[i], "\r")
	}
	return lines
}

// PassphraseSource returns the keystore passphrase callback: the first line of
// the password file when one is given, the terminal otherwise.
func PassphraseSource(ctx *cli.Context) keystore.PassphraseFunc {
	passwords := MakePasswordList(ctx)
	return func(prompt string, confirm bool) (string, error) {
		if len(passwords) > 0 {
			return GetPassPhraseWithList(prompt, confirm, 0, passwords), nil
		}
		return keystore.TerminalPassphrase(prompt, confirm)
	}
}

// CheckExclusive verifies that only a single instance of the provided flags was
// set by the user. Each flag might optionally be followed by a string type to
// specialize it further.
func CheckExclusive(ctx *cli.Context, args ...interface{}) {
	set := make([]string, 0, 1)
	for i := 0; i < len(args); i++ {
		// Make sure the next argument is a flag and skip if not set
		flag, ok := args[i].(cli.Flag)
		if !ok {
			panic(fmt.Sprintf("invalid argument, not cli.Flag type: %T", args[i]))
		}
		// Check if next arg extends current and expand its name if so
		name := flag.Names()[0]

		if i+1 < len(args) {
			switch option := args[i+1].(type) {
			case string:
				// Extended flag check, make sure value set doesn't conflict with passed in option
				if ctx.String(flag.Names()[0]) == option {
					name += "=" + option
					set = append(set, "--"+name)
				}
				// shift arguments and continue
				i++
				continue

			case cli.Flag:
			default:
				panic(fmt.Sprintf("invalid argument, not cli.Flag or string extension: %T", args[i+1]))
			}
		}
		// Mark the flag if it's set
		if ctx.IsSet(flag.Names()[0]) {
			set = append(set, "--"+name)
		}
	}
	if len(set) > 1 {
		Fatalf("Flags %v can't be used at the same time", strings.Join(set, ", "))
	}
}
