package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tos-network/redenvelope/params"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "testnet", cfg.Network.Name)
	assert.Equal(t, params.EnvelopeGasBudget, cfg.Envelope.GasBudget)
	assert.Equal(t, 60*time.Second, cfg.Flow.SubmitTimeout.Std())
	assert.Equal(t, "keystore", cfg.Session.Provider)

	// Load must not alias the defaults.
	cfg.HTTP.CorsOrigins[0] = "changed"
	assert.Equal(t, "http://localhost:3000", Defaults.HTTP.CorsOrigins[0])
}

func TestLoadFile(t *testing.T) {
	path := writeFile(t, `
[Network]
Name = "devnet"
RPC = "http://127.0.0.1:9000"

[Envelope]
PackageID = "0xabc"

[Flow]
SubmitTimeout = "45s"
FaucetThreshold = "5"

[HTTP]
CorsOrigins = ["https://a.example", "https://b.example"]
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "devnet", cfg.Network.Name)
	assert.Equal(t, "0xabc", cfg.Envelope.PackageID)
	assert.Equal(t, params.EnvelopeModule, cfg.Envelope.Module)
	assert.Equal(t, 45*time.Second, cfg.Flow.SubmitTimeout.Std())
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.HTTP.CorsOrigins)

	th, err := cfg.Threshold()
	require.NoError(t, err)
	assert.Equal(t, "5", th.String())

	n, err := cfg.ResolveNetwork()
	require.NoError(t, err)
	assert.Equal(t, params.Devnet, n.Name)
	assert.Equal(t, "http://127.0.0.1:9000", n.RPCURL)
	assert.Equal(t, params.DevnetConfig.FaucetURL, n.FaucetURL)
	// The built-in network must not be modified.
	assert.Equal(t, "https://fullnode.devnet.sui.io:443", params.DevnetConfig.RPCURL)
}

func TestLoadFileUnknownField(t *testing.T) {
	path := writeFile(t, "[Envelope]\nPackage = \"0x1\"\n")
	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), path)
	assert.Contains(t, err.Error(), "Package")
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	require.Error(t, err)
}

func TestEnvOverrides(t *testing.T) {
	path := writeFile(t, "[Envelope]\nPackageID = \"0xfile\"\n")
	t.Setenv("REDENVELOPE_ENVELOPE_PACKAGE_ID", "0xenv")
	t.Setenv("REDENVELOPE_NETWORK_NAME", "localnet")
	t.Setenv("REDENVELOPE_FLOW_SUBMIT_TIMEOUT", "2m")
	t.Setenv("REDENVELOPE_HTTP_CORS_ORIGINS", "https://x.example,https://y.example")
	t.Setenv("REDENVELOPE_LOG_JSON", "true")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "0xenv", cfg.Envelope.PackageID)
	assert.Equal(t, "localnet", cfg.Network.Name)
	assert.Equal(t, 2*time.Minute, cfg.Flow.SubmitTimeout.Std())
	assert.Equal(t, []string{"https://x.example", "https://y.example"}, cfg.HTTP.CorsOrigins)
	assert.True(t, cfg.Log.JSON)
	// Unset variables leave the file and default values alone.
	assert.Equal(t, params.EnvelopeModule, cfg.Envelope.Module)
}

func TestEnvInvalid(t *testing.T) {
	t.Setenv("REDENVELOPE_ENVELOPE_GAS_BUDGET", "lots")
	_, err := Load("")
	require.Error(t, err)
}

func TestResolveNetworkUnknown(t *testing.T) {
	cfg := Defaults
	cfg.Network.Name = "moonnet"
	_, err := cfg.ResolveNetwork()
	require.Error(t, err)
}

func TestEncodeRoundTrip(t *testing.T) {
	cfg := Defaults
	cfg.Envelope.PackageID = "0x42"
	out, err := Encode(&cfg)
	require.NoError(t, err)

	var back Config
	path := writeFile(t, string(out))
	require.NoError(t, LoadFile(path, &back))
	assert.Equal(t, "0x42", back.Envelope.PackageID)
	assert.Equal(t, cfg.Flow.SubmitTimeout, back.Flow.SubmitTimeout)
}
