package main

import (
	"github.com/tos-network/redenvelope/cmd/utils"
	"github.com/tos-network/redenvelope/console"
	"github.com/tos-network/redenvelope/toast"
	"github.com/tos-network/redenvelope/webapi"
	"github.com/urfave/cli/v2"
)

var (
	consoleCommand = &cli.Command{
		Action: localConsole,
		Name:   "console",
		Usage:  "Start an interactive session",
		Description: `
The console runs the same actions as the single commands, one per line. Type
help inside the console for the command list.`,
	}
	serveCommand = &cli.Command{
		Action: serve,
		Name:   "serve",
		Usage:  "Serve the HTTP API for the browser front end",
		Flags:  utils.HTTPFlags,
		Description: `
Serves the action API, the OAuth id token callback at /auth and a websocket
event stream at /api/events until interrupted.`,
	}
)

// localConsole starts an interactive console over a freshly opened controller.
func localConsole(ctx *cli.Context) error {
	ctrl, cfg, err := openController(ctx, toast.NewTerminal(ctx.App.Writer))
	if err != nil {
		return err
	}
	c, err := console.New(console.Config{
		DataDir:    cfg.Session.DataDir,
		Controller: ctrl,
		Printer:    ctx.App.Writer,
	})
	if err != nil {
		utils.Fatalf("Failed to start the console: %v", err)
	}
	defer c.Stop()

	c.Welcome()
	c.Interactive(ctx.Context)
	return nil
}

func serve(ctx *cli.Context) error {
	hub := toast.NewHub(64)
	reporter := toast.Multi{hub}
	if !ctx.Bool(utils.JSONFlag.Name) {
		reporter = append(reporter, toast.NewTerminal(ctx.App.Writer))
	}
	ctrl, cfg, err := openController(ctx, reporter)
	if err != nil {
		return err
	}
	srv := webapi.New(webapi.Config{
		Listen:      cfg.HTTP.Listen,
		CorsOrigins: cfg.HTTP.CorsOrigins,
	}, ctrl, hub)
	return srv.ListenAndServe(ctx.Context)
}
