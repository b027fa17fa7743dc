package flags

import "github.com/urfave/cli/v2"

const (
	NetworkCategory  = "NETWORK"
	EnvelopeCategory = "RED ENVELOPE"
	AccountCategory  = "ACCOUNT AND LOGIN"
	APICategory      = "API AND CONSOLE"
	LoggingCategory  = "LOGGING AND DEBUGGING"
	MiscCategory     = "MISC"
)

func init() {
	cli.HelpFlag.(*cli.BoolFlag).Category = MiscCategory
	cli.VersionFlag.(*cli.BoolFlag).Category = MiscCategory
}
