package main

import (
	"fmt"
	"strings"

	"github.com/tos-network/redenvelope/action"
	"github.com/tos-network/redenvelope/cmd/utils"
	"github.com/tos-network/redenvelope/console"
	"github.com/tos-network/redenvelope/toast"
	"github.com/tos-network/redenvelope/webapi"
	"github.com/urfave/cli/v2"
)

var (
	newKeyFlag = &cli.BoolFlag{
		Name:  "new",
		Usage: "Generate a new recovery phrase and key file",
	}
	mnemonicFlag = &cli.StringFlag{
		Name:  "mnemonic",
		Usage: `Import a recovery phrase ("-" prompts for it)`,
	}
	idTokenFlag = &cli.StringFlag{
		Name:  "id-token",
		Usage: "Complete a zkLogin with the id token returned by the OAuth provider",
	}
	redirectFlag = &cli.StringFlag{
		Name:  "redirect",
		Usage: "OAuth redirect URL for this login (overrides --login.redirect)",
	}
)

var (
	loginCommand = &cli.Command{
		Action: login,
		Name:   "login",
		Usage:  "Log in and bind a wallet address",
		Flags: []cli.Flag{
			newKeyFlag,
			mnemonicFlag,
			idTokenFlag,
			redirectFlag,
		},
		Description: `
With the keystore provider, login unlocks the stored key file. Use --new to
generate a fresh recovery phrase or --mnemonic to import one; the key is then
encrypted into the data directory.

With the enoki provider, login prints the OAuth URL to visit. The id token
posted back to the redirect URL completes the login, either through the serve
command's /auth endpoint or with --id-token.`,
	}
	logoutCommand = &cli.Command{
		Action: logout,
		Name:   "logout",
		Usage:  "End the session",
		Description: `
Ends the session and clears the cached account state. Key files are kept.`,
	}
	accountCommand = &cli.Command{
		Action: account,
		Name:   "account",
		Usage:  "Show the logged in address and its balance",
	}
)

func login(ctx *cli.Context) error {
	utils.CheckExclusive(ctx, newKeyFlag, mnemonicFlag, idTokenFlag)

	payload := action.LoginPayload{
		NewKey:      ctx.Bool(newKeyFlag.Name),
		Mnemonic:    ctx.String(mnemonicFlag.Name),
		IDToken:     ctx.String(idTokenFlag.Name),
		RedirectURL: ctx.String(redirectFlag.Name),
	}
	if payload.Mnemonic == "-" {
		phrase, err := console.Stdin.PromptPassword("Recovery phrase: ")
		if err != nil {
			return err
		}
		payload.Mnemonic = strings.TrimSpace(phrase)
	}
	req, err := action.NewRequest(action.KindLogin, payload)
	if err != nil {
		return err
	}
	return runAction(ctx, req)
}

func logout(ctx *cli.Context) error {
	ctrl, _, err := openController(ctx, reporterFor(ctx))
	if err != nil {
		return err
	}
	if err := ctrl.Logout(ctx.Context); err != nil {
		return err
	}
	if ctx.Bool(utils.JSONFlag.Name) {
		return printJSON(ctx, map[string]bool{"loggedIn": false})
	}
	fmt.Fprintln(ctx.App.Writer, "Logged out")
	return nil
}

func account(ctx *cli.Context) error {
	ctrl, _, err := openController(ctx, toast.Discard)
	if err != nil {
		return err
	}
	st := ctrl.Store().Snapshot()
	if ctx.Bool(utils.JSONFlag.Name) {
		return printJSON(ctx, webapi.NewStateView(st, ctrl.AccountURL))
	}
	accountURL := ""
	if st.LoggedIn() {
		accountURL = ctrl.AccountURL(st.Session.Address)
	}
	console.PrintAccount(ctx.App.Writer, st, accountURL)
	return nil
}
