package flags

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/tos-network/redenvelope/params"
	"github.com/urfave/cli/v2"
)

// NewApp creates an app with sane defaults.
func NewApp(gitCommit, gitDate, usage string) *cli.App {
	app := cli.NewApp()
	app.EnableBashCompletion = true
	app.Name = filepath.Base(os.Args[0])
	app.Version = params.VersionWithCommit(gitCommit, gitDate)
	app.Usage = usage
	app.Copyright = "Copyright 2024 The tos-network Authors"
	return app
}

// Merge merges the given flag slices.
func Merge(groups ...[]cli.Flag) []cli.Flag {
	var ret []cli.Flag
	for _, group := range groups {
		ret = append(ret, group...)
	}
	return ret
}

// FlagNames returns the primary names of flags, for use in error messages.
func FlagNames(fs ...cli.Flag) string {
	names := make([]string, 0, len(fs))
	for _, f := range fs {
		names = append(names, "--"+f.Names()[0])
	}
	return strings.Join(names, ", ")
}
