// redenvelope is the command line client of the Sui red envelope demo.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"syscall"

	"github.com/mattn/go-colorable"
	"github.com/tos-network/redenvelope/cmd/utils"
	"github.com/tos-network/redenvelope/internal/flags"
	"github.com/urfave/cli/v2"
)

const clientIdentifier = "redenvelope"

// Git SHA1 commit hash of the release (set via linker flags)
var gitCommit = ""
var gitDate = ""

var app = newApp()

func newApp() *cli.App {
	app := flags.NewApp(gitCommit, gitDate, "the Sui red envelope command line client")
	app.Writer = colorable.NewColorableStdout()
	app.Flags = flags.Merge(utils.GlobalFlags)
	app.Commands = []*cli.Command{
		loginCommand,
		logoutCommand,
		accountCommand,
		faucetCommand,
		transferCommand,
		sendCommand,
		claimCommand,
		consoleCommand,
		serveCommand,
		versionCommand,
		licenseCommand,
	}
	sort.Sort(cli.CommandsByName(app.Commands))
	return app
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := app.RunContext(ctx, os.Args)
	stop()
	if err != nil {
		var reported *reportedError
		if !errors.As(err, &reported) {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}
