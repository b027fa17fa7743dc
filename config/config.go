// Package config holds the settings of the red envelope client.
//
// Settings are layered: Defaults, then an optional TOML file, then
// REDENVELOPE_* environment variables. Command line flags are applied on top
// by cmd/utils.
package config

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"reflect"
	"strings"
	"time"
	"unicode"

	"github.com/caarlos0/env/v11"
	"github.com/naoina/toml"
	"github.com/shopspring/decimal"
	"github.com/tos-network/redenvelope/params"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "REDENVELOPE_"

// Config is the root of the configuration file.
type Config struct {
	Network  NetworkConfig
	Envelope EnvelopeConfig
	Login    LoginConfig
	Session  SessionConfig
	Flow     FlowConfig
	HTTP     HTTPConfig
	Log      LogConfig
}

// NetworkConfig selects the network. Empty endpoints fall back to the
// built-in ones of the named network.
type NetworkConfig struct {
	Name     string `env:"NAME"`
	RPC      string `env:"RPC"`
	Faucet   string `env:"FAUCET"`
	Explorer string `env:"EXPLORER"`
}

// EnvelopeConfig locates the red envelope program.
type EnvelopeConfig struct {
	PackageID     string `env:"PACKAGE_ID"`
	Module        string `env:"MODULE"`
	SendFunction  string `env:"SEND_FUNCTION"`
	ClaimFunction string `env:"CLAIM_FUNCTION"`
	RandomObject  string `env:"RANDOM_OBJECT"`
	CoinType      string `env:"COIN_TYPE"`
	GasBudget     uint64 `env:"GAS_BUDGET"`
}

type LoginConfig struct {
	GoogleClientID string `env:"GOOGLE_CLIENT_ID"`
	RedirectURL    string `env:"REDIRECT_URL"`
	EnokiAPIKey    string `env:"ENOKI_API_KEY"`
	EnokiBaseURL   string `env:"ENOKI_BASE_URL"`
}

// SessionConfig selects the session provider ("keystore" or "enoki") and
// where its files live.
type SessionConfig struct {
	Provider string `env:"PROVIDER"`
	DataDir  string `env:"DATADIR"`
	// LightKDF lowers the scrypt cost of new key files.
	LightKDF bool `env:"LIGHTKDF"`
}

type FlowConfig struct {
	SubmitTimeout   Duration `env:"SUBMIT_TIMEOUT"`
	FaucetThreshold string   `env:"FAUCET_THRESHOLD"`
}

type HTTPConfig struct {
	Listen      string   `env:"LISTEN"`
	CorsOrigins []string `env:"CORS_ORIGINS" envSeparator:","`
}

type LogConfig struct {
	Level string `env:"LEVEL"`
	JSON  bool   `env:"JSON"`
}

// Defaults contains the settings used when nothing else is configured.
var Defaults = Config{
	Network: NetworkConfig{
		Name: string(params.Testnet),
	},
	Envelope: EnvelopeConfig{
		Module:        params.EnvelopeModule,
		SendFunction:  params.EnvelopeSendFunction,
		ClaimFunction: params.EnvelopeClaimFunction,
		RandomObject:  params.RandomObjectID,
		CoinType:      params.SuiCoinType,
		GasBudget:     params.EnvelopeGasBudget,
	},
	Login: LoginConfig{
		RedirectURL: "http://localhost:8545/auth",
	},
	Session: SessionConfig{
		Provider: "keystore",
		DataDir:  DefaultDataDir(),
	},
	Flow: FlowConfig{
		SubmitTimeout:   Duration(60 * time.Second),
		FaucetThreshold: params.FaucetSufficiencyThreshold,
	},
	HTTP: HTTPConfig{
		Listen:      "localhost:8545",
		CorsOrigins: []string{"http://localhost:3000"},
	},
	Log: LogConfig{
		Level: "info",
	},
}

// These settings ensure that TOML keys use the same names as Go struct fields.
var tomlSettings = toml.Config{
	NormFieldName: func(rt reflect.Type, key string) string {
		return key
	},
	FieldToKey: func(rt reflect.Type, field string) string {
		return field
	},
	MissingField: func(rt reflect.Type, field string) error {
		id := fmt.Sprintf("%s.%s", rt.String(), field)
		link := ""
		if unicode.IsUpper(rune(rt.Name()[0])) && rt.PkgPath() != "main" {
			link = fmt.Sprintf(", see https://pkg.go.dev/%s#%s for available fields", rt.PkgPath(), rt.Name())
		}
		return fmt.Errorf("field '%s' is not defined in %s%s", field, id, link)
	},
}

// Load builds a configuration from the defaults, the TOML file at path (if
// path is not empty) and the environment.
func Load(path string) (*Config, error) {
	cfg := Defaults
	cfg.HTTP.CorsOrigins = append([]string(nil), Defaults.HTTP.CorsOrigins...)
	if path != "" {
		if err := LoadFile(path, &cfg); err != nil {
			return nil, err
		}
	}
	if err := ApplyEnv(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadFile decodes the TOML file at path into cfg.
func LoadFile(path string, cfg *Config) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	err = tomlSettings.NewDecoder(bufio.NewReader(f)).Decode(cfg)
	// Add file name to errors that have a line number.
	if _, ok := err.(*toml.LineError); ok {
		err = errors.New(path + ", " + err.Error())
	}
	return err
}

// ApplyEnv overrides cfg with the REDENVELOPE_* environment variables, e.g.
// REDENVELOPE_ENVELOPE_PACKAGE_ID.
func ApplyEnv(cfg *Config) error {
	opts := env.Options{Prefix: EnvPrefix}
	sections := []struct {
		prefix string
		target interface{}
	}{
		{"NETWORK_", &cfg.Network},
		{"ENVELOPE_", &cfg.Envelope},
		{"LOGIN_", &cfg.Login},
		{"SESSION_", &cfg.Session},
		{"FLOW_", &cfg.Flow},
		{"HTTP_", &cfg.HTTP},
		{"LOG_", &cfg.Log},
	}
	for _, s := range sections {
		o := opts
		o.Prefix = EnvPrefix + s.prefix
		if err := env.ParseWithOptions(s.target, o); err != nil {
			return fmt.Errorf("parse env: %w", err)
		}
	}
	return nil
}

// Encode writes cfg as TOML.
func Encode(cfg *Config) ([]byte, error) {
	return tomlSettings.Marshal(cfg)
}

// ResolveNetwork returns the network endpoints with the configured overrides
// applied.
func (c *Config) ResolveNetwork() (*params.NetworkConfig, error) {
	base, err := params.LookupNetwork(c.Network.Name)
	if err != nil {
		return nil, err
	}
	n := *base
	if c.Network.RPC != "" {
		n.RPCURL = c.Network.RPC
	}
	if c.Network.Faucet != "" {
		n.FaucetURL = c.Network.Faucet
	}
	if c.Network.Explorer != "" {
		n.Explorer = strings.TrimRight(c.Network.Explorer, "/")
	}
	return &n, nil
}

// Threshold parses the faucet sufficiency threshold.
func (c *Config) Threshold() (decimal.Decimal, error) {
	s := c.Flow.FaucetThreshold
	if s == "" {
		s = params.FaucetSufficiencyThreshold
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid faucet threshold %q: %w", s, err)
	}
	return d, nil
}

// Duration is a time.Duration written as text ("45s", "2m") in TOML and the
// environment.
type Duration time.Duration

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

// Std returns d as a time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }
