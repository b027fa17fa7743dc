package console

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/pattonkan/sui-go/suisigner"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tos-network/redenvelope/action"
	"github.com/tos-network/redenvelope/flow"
	"github.com/tos-network/redenvelope/ledgerclient"
	"github.com/tos-network/redenvelope/params"
	"github.com/tos-network/redenvelope/session"
	"github.com/tos-network/redenvelope/toast"
	"github.com/tos-network/redenvelope/viewstate"
)

const testAddress = "0xa11ce00000000000000000000000000000000000000000000000000000000001"

// hookedPrompter implements UserPrompter by replaying scripted input lines.
type hookedPrompter struct {
	mu      sync.Mutex
	inputs  []string
	history []string
}

func (p *hookedPrompter) PromptInput(prompt string) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.inputs) == 0 {
		return "", io.EOF
	}
	line := p.inputs[0]
	p.inputs = p.inputs[1:]
	return line, nil
}

func (p *hookedPrompter) PromptPassword(prompt string) (string, error) {
	return p.PromptInput(prompt)
}

func (p *hookedPrompter) SetHistory(history []string) { p.history = append([]string(nil), history...) }
func (p *hookedPrompter) AppendHistory(command string) { p.history = append(p.history, command) }
func (p *hookedPrompter) ClearHistory()                { p.history = nil }

func (p *hookedPrompter) SetWordCompleter(completer WordCompleter) {}

type stubProvider struct {
	current *session.Session
	last    session.LoginRequest
}

func (p *stubProvider) Name() string { return "stub" }

func (p *stubProvider) BeginLogin(ctx context.Context, req session.LoginRequest) (*session.LoginResult, error) {
	p.last = req
	p.current = &session.Session{Address: testAddress, Network: params.Testnet, Provider: "stub"}
	sess := *p.current
	res := &session.LoginResult{Session: &sess}
	if req.NewKey {
		res.Mnemonic = "abandon abandon about"
	}
	return res, nil
}

func (p *stubProvider) Authorize(ctx context.Context, network params.Network) (*session.Credential, error) {
	if p.current == nil {
		return nil, session.ErrNoSession
	}
	return &session.Credential{Address: p.current.Address}, nil
}

func (p *stubProvider) EndSession(ctx context.Context) error {
	p.current = nil
	return nil
}

func (p *stubProvider) Current() (*session.Session, bool) {
	if p.current == nil {
		return nil, false
	}
	sess := *p.current
	return &sess, true
}

type stubLedger struct{}

func (stubLedger) Balance(ctx context.Context, owner string) (decimal.Decimal, error) {
	return decimal.NewFromFloat(12.345), nil
}

func (stubLedger) Execute(ctx context.Context, signer *suisigner.Signer, prog *ledgerclient.Program) (*ledgerclient.Response, error) {
	return &ledgerclient.Response{
		Digest: "D1gest",
		Status: ledgerclient.StatusSuccess,
		Created: []ledgerclient.CreatedObject{
			{ObjectID: "0xe11e000000000000000000000000000000000000000000000000000000000042", ObjectType: "0x5::lucky::RedEnvelope<0x2::sui::SUI>"},
		},
	}, nil
}

func newTestConsole(t *testing.T, inputs ...string) (*Console, *hookedPrompter, *stubProvider, *bytes.Buffer, *toast.Recorder) {
	t.Helper()
	provider := &stubProvider{}
	toasts := new(toast.Recorder)
	cfg := flow.DefaultConfig()
	cfg.PackageID = "0x5"
	ctrl := flow.New(cfg, flow.Deps{Provider: provider, Ledger: stubLedger{}, Reporter: toasts})
	prompter := &hookedPrompter{inputs: inputs}
	printer := new(bytes.Buffer)
	c, err := New(Config{
		DataDir:    t.TempDir(),
		Controller: ctrl,
		Prompter:   prompter,
		Printer:    printer,
	})
	require.NoError(t, err)
	return c, prompter, provider, printer, toasts
}

func TestBuildRequest(t *testing.T) {
	tests := []struct {
		kind    action.Kind
		args    []string
		payload string
		usage   bool
	}{
		{action.KindLogin, nil, `{}`, false},
		{action.KindLogin, []string{"new"}, `{"newKey":true}`, false},
		{action.KindLogin, []string{"import", "a", "b", "c"}, `{"mnemonic":"a b c"}`, false},
		{action.KindLogin, []string{"token", "jwt"}, `{"idToken":"jwt"}`, false},
		{action.KindLogin, []string{"import"}, "", true},
		{action.KindLogin, []string{"bogus"}, "", true},
		{action.KindFaucet, nil, "", false},
		{action.KindFaucet, []string{"x"}, "", true},
		{action.KindTransfer, []string{testAddress, "1.5"}, `{"recipient":"` + testAddress + `","amount":"1.5"}`, false},
		{action.KindTransfer, []string{testAddress}, "", true},
		{action.KindSendEnvelope, []string{"1", "3"}, `{"totalAmount":"1","count":"3"}`, false},
		{action.KindSendEnvelope, []string{"1"}, "", true},
		{action.KindClaimEnvelope, []string{"0x42"}, `{"envelopeId":"0x42"}`, false},
		{action.KindClaimEnvelope, nil, "", true},
	}
	for _, tt := range tests {
		req, err := BuildRequest(tt.kind, tt.args)
		if tt.usage {
			assert.ErrorIs(t, err, usageError{}, "%s %v", tt.kind, tt.args)
			continue
		}
		require.NoError(t, err, "%s %v", tt.kind, tt.args)
		assert.Equal(t, tt.kind, req.Kind)
		assert.Equal(t, tt.payload, string(req.Payload), "%s %v", tt.kind, tt.args)
	}
}

func TestSplitCommand(t *testing.T) {
	name, args := splitCommand("  Transfer  0xabc   1.5 ")
	assert.Equal(t, "transfer", name)
	assert.Equal(t, []string{"0xabc", "1.5"}, args)

	name, args = splitCommand("   ")
	assert.Empty(t, name)
	assert.Nil(t, args)
}

func TestSensitive(t *testing.T) {
	assert.True(t, sensitive("login import word word"))
	assert.True(t, sensitive("login token abc"))
	assert.False(t, sensitive("login new"))
	assert.False(t, sensitive("login"))
	assert.False(t, sensitive("transfer 0x1 1"))
}

func TestInteractiveSession(t *testing.T) {
	c, prompter, provider, printer, toasts := newTestConsole(t,
		"help",
		"login new",
		"account",
		"send 1 3",
		"transfer",
		"frobnicate",
		"exit",
		"faucet",
	)
	c.Interactive(context.Background())

	out := printer.String()
	assert.Contains(t, out, "transfer <recipient> <amount>")
	assert.True(t, provider.last.NewKey)
	assert.Contains(t, out, "abandon abandon about")
	assert.Contains(t, out, "0xa11...00001")
	assert.Contains(t, out, "12.3 SUI")
	assert.Contains(t, out, "Object: 0xe11e000000000000000000000000000000000000000000000000000000000042")
	assert.Contains(t, out, "Usage: transfer <recipient> <amount>")
	assert.Contains(t, out, `Unknown command "frobnicate"`)

	// exit stops before the trailing faucet command
	assert.Equal(t, []string{"faucet"}, prompter.inputs)
	var kinds []action.Kind
	for _, ts := range toasts.Toasts() {
		if ts.Terminal() {
			kinds = append(kinds, ts.Kind)
		}
	}
	assert.Equal(t, []action.Kind{action.KindLogin, action.KindSendEnvelope}, kinds)
}

func TestHistoryPersistence(t *testing.T) {
	c, _, _, _, _ := newTestConsole(t, "login import secret words here", "help", "help", "account")
	c.Interactive(context.Background())
	require.NoError(t, c.Stop())

	content, err := os.ReadFile(c.histPath)
	require.NoError(t, err)
	assert.Equal(t, "help\naccount", string(content))
	assert.NotContains(t, string(content), "secret")

	prompter := &hookedPrompter{}
	_, err = New(Config{DataDir: filepath.Dir(c.histPath), Controller: c.ctrl, Prompter: prompter, Printer: io.Discard})
	require.NoError(t, err)
	assert.Equal(t, []string{"help", "account"}, prompter.history)
}

func TestAutoComplete(t *testing.T) {
	c, _, _, _, _ := newTestConsole(t)
	_, matches, tail := c.AutoCompleteInput("l", 1)
	assert.Equal(t, []string{"login", "logout"}, matches)
	assert.Empty(t, tail)

	_, matches, _ = c.AutoCompleteInput("send 1", 6)
	assert.Empty(t, matches)
}

func TestWelcome(t *testing.T) {
	c, _, _, printer, _ := newTestConsole(t)
	c.Welcome()
	out := printer.String()
	assert.True(t, strings.HasPrefix(out, "Welcome to the Sui red envelope console!"))
	assert.Contains(t, out, "network: testnet")
	assert.Contains(t, out, "package: 0x5")
}

func TestPrintAccountLoggedOut(t *testing.T) {
	var buf bytes.Buffer
	PrintAccount(&buf, viewstate.State{}, "")
	assert.Equal(t, "Not logged in\n", buf.String())
}
