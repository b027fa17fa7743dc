package main

import (
	"encoding/json"
	"errors"

	"github.com/tos-network/redenvelope/action"
	"github.com/tos-network/redenvelope/cmd/utils"
	"github.com/tos-network/redenvelope/config"
	"github.com/tos-network/redenvelope/console"
	"github.com/tos-network/redenvelope/flow"
	"github.com/tos-network/redenvelope/toast"
	"github.com/urfave/cli/v2"
)

// reportedError is an action failure that has already been shown to the user.
type reportedError struct{ err error }

func (e *reportedError) Error() string { return e.err.Error() }
func (e *reportedError) Unwrap() error { return e.err }

// jsonResult is the --json output of an action command.
type jsonResult struct {
	Outcome *flow.Outcome `json:"outcome,omitempty"`
	Error   string        `json:"error,omitempty"`
	Class   string        `json:"class,omitempty"`
}

// openController loads the configuration, opens the session provider and
// restores the persisted session.
func openController(ctx *cli.Context, reporter toast.Reporter) (*flow.Controller, *config.Config, error) {
	cfg := utils.MakeConfig(ctx)
	utils.SetupLogging(cfg)
	provider, err := utils.MakeProvider(cfg, utils.PassphraseSource(ctx))
	if err != nil {
		return nil, nil, err
	}
	ctrl, err := utils.MakeController(cfg, provider, reporter)
	if err != nil {
		return nil, nil, err
	}
	ctrl.Restore(ctx.Context)
	return ctrl, cfg, nil
}

// reporterFor prints toasts to the terminal unless JSON output is requested.
func reporterFor(ctx *cli.Context) toast.Reporter {
	if ctx.Bool(utils.JSONFlag.Name) {
		return toast.Discard
	}
	return toast.NewTerminal(ctx.App.Writer)
}

func printJSON(ctx *cli.Context, v interface{}) error {
	enc := json.NewEncoder(ctx.App.Writer)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// runAction executes req and prints its result.
func runAction(ctx *cli.Context, req *action.Request) error {
	ctrl, _, err := openController(ctx, reporterFor(ctx))
	if err != nil {
		return err
	}
	out, err := ctrl.Execute(ctx.Context, req)
	if ctx.Bool(utils.JSONFlag.Name) {
		res := jsonResult{Outcome: out}
		if err != nil {
			res.Error, res.Class = err.Error(), action.ClassOf(err).String()
		}
		if perr := printJSON(ctx, res); perr != nil {
			return perr
		}
		if err != nil {
			return &reportedError{err}
		}
		return nil
	}
	if err != nil {
		var aerr *action.Error
		if errors.As(err, &aerr) {
			return &reportedError{err}
		}
		return err
	}
	console.PrintOutcome(ctx.App.Writer, out)
	return nil
}
