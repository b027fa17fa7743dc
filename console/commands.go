package console

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/tos-network/redenvelope/action"
	"github.com/tos-network/redenvelope/flow"
	"github.com/tos-network/redenvelope/viewstate"
)

type usageError struct{}

func (usageError) Error() string { return "invalid arguments" }

type command struct {
	usage   string
	summary string
	run     func(ctx context.Context, c *Console, args []string) error
}

// commands is filled in init to break the reference cycle through help.
var commands map[string]command

// commandOrder is the listing order of help.
var commandOrder = []string{"account", "login", "logout", "faucet", "transfer", "send", "claim", "help", "exit"}

func init() {
	commands = map[string]command{
		"account": {"", "Show the address, balance and envelope ids", func(ctx context.Context, c *Console, args []string) error {
			st := c.ctrl.Store().Snapshot()
			accountURL := ""
			if st.LoggedIn() {
				accountURL = c.ctrl.AccountURL(st.Session.Address)
			}
			PrintAccount(c.printer, st, accountURL)
			return nil
		}},
		"login": {"[new | import <mnemonic...> | token <id-token>]", "Log in", actionCommand(action.KindLogin)},
		"logout": {"", "End the session", func(ctx context.Context, c *Console, args []string) error {
			if err := c.ctrl.Logout(ctx); err != nil {
				return err
			}
			fmt.Fprintln(c.printer, "Logged out")
			return nil
		}},
		"faucet":   {"", "Request test SUI", actionCommand(action.KindFaucet)},
		"transfer": {"<recipient> <amount>", "Transfer SUI", actionCommand(action.KindTransfer)},
		"send":     {"<total-amount> <count>", "Send a red envelope", actionCommand(action.KindSendEnvelope)},
		"claim":    {"<envelope-id>", "Claim a red envelope", actionCommand(action.KindClaimEnvelope)},
		"help": {"", "Show this list", func(ctx context.Context, c *Console, args []string) error {
			for _, name := range commandOrder {
				cmd := commands[name]
				fmt.Fprintf(c.printer, "  %-34s %s\n", strings.TrimSpace(name+" "+cmd.usage), cmd.summary)
			}
			return nil
		}},
		"exit": {"", "Leave the console", func(context.Context, *Console, []string) error { return errExit }},
	}
	commands["quit"] = commands["exit"]
}

// splitCommand splits line into a lower-cased command word and its arguments.
func splitCommand(line string) (string, []string) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return "", nil
	}
	return strings.ToLower(fields[0]), fields[1:]
}

// sensitive reports whether line carries secrets and must stay out of the
// history file.
func sensitive(line string) bool {
	name, args := splitCommand(line)
	return name == "login" && len(args) > 0 && args[0] != "new"
}

// BuildRequest converts a command and its arguments into an action request.
func BuildRequest(kind action.Kind, args []string) (*action.Request, error) {
	var payload interface{}
	switch kind {
	case action.KindLogin:
		p := action.LoginPayload{}
		switch {
		case len(args) == 0:
		case args[0] == "new" && len(args) == 1:
			p.NewKey = true
		case args[0] == "import" && len(args) > 1:
			p.Mnemonic = strings.Join(args[1:], " ")
		case args[0] == "token" && len(args) == 2:
			p.IDToken = args[1]
		default:
			return nil, usageError{}
		}
		payload = p
	case action.KindFaucet:
		if len(args) != 0 {
			return nil, usageError{}
		}
	case action.KindTransfer:
		if len(args) != 2 {
			return nil, usageError{}
		}
		payload = action.TransferPayload{Recipient: args[0], Amount: args[1]}
	case action.KindSendEnvelope:
		if len(args) != 2 {
			return nil, usageError{}
		}
		payload = action.SendEnvelopePayload{TotalAmount: args[0], Count: args[1]}
	case action.KindClaimEnvelope:
		if len(args) != 1 {
			return nil, usageError{}
		}
		payload = action.ClaimEnvelopePayload{EnvelopeID: args[0]}
	default:
		return nil, fmt.Errorf("%w: %s", action.ErrInvalidRequest, kind)
	}
	return action.NewRequest(kind, payload)
}

func actionCommand(kind action.Kind) func(ctx context.Context, c *Console, args []string) error {
	return func(ctx context.Context, c *Console, args []string) error {
		req, err := BuildRequest(kind, args)
		if err != nil {
			return err
		}
		out, err := c.ctrl.Execute(ctx, req)
		if err != nil {
			return err
		}
		PrintOutcome(c.printer, out)
		return nil
	}
}

// PrintOutcome prints the details of an outcome that the success toast leaves
// out: full object ids, a generated mnemonic and the login URL.
func PrintOutcome(w io.Writer, out *flow.Outcome) {
	if out.Mnemonic != "" {
		fmt.Fprintf(w, "Recovery phrase (write it down, it is shown only once):\n  %s\n", out.Mnemonic)
	}
	if out.AuthURL != "" {
		fmt.Fprintf(w, "Open this URL to log in:\n  %s\n", out.AuthURL)
	}
	if out.Digest != "" {
		fmt.Fprintf(w, "Transaction: %s\n", out.Digest)
	}
	if out.Envelope != nil {
		if out.Envelope.Known {
			fmt.Fprintf(w, "Object: %s\n", out.Envelope.ID)
		} else {
			fmt.Fprintf(w, "Object: %s\n", viewstate.UnknownID)
		}
	}
}

// PrintAccount renders the account view as a table.
func PrintAccount(w io.Writer, st viewstate.State, accountURL string) {
	if !st.LoggedIn() {
		fmt.Fprintln(w, "Not logged in")
		return
	}
	balance := "loading"
	if !st.Account.Loading {
		balance = viewstate.FormatBalance(st.Account.Balance) + " SUI"
	}
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Field", "Value"})
	table.SetAutoWrapText(false)
	table.Append([]string{"Address", viewstate.AbbreviateAddress(st.Session.Address)})
	table.Append([]string{"Full address", st.Session.Address})
	table.Append([]string{"Network", string(st.Session.Network)})
	table.Append([]string{"Balance", balance})
	if accountURL != "" {
		table.Append([]string{"Explorer", accountURL})
	}
	if st.SentEnvelope.IsSet() {
		table.Append([]string{"Sent envelope", referenceText(st.SentEnvelope)})
	}
	if st.ClaimedObject.IsSet() {
		table.Append([]string{"Claimed object", referenceText(st.ClaimedObject)})
	}
	table.Render()
}

func referenceText(ref viewstate.EnvelopeReference) string {
	if !ref.Known {
		return viewstate.UnknownID
	}
	return ref.ID
}
