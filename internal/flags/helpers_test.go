package flags

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/urfave/cli/v2"
)

func TestMerge(t *testing.T) {
	a := &cli.StringFlag{Name: "a"}
	b := &cli.BoolFlag{Name: "b"}
	c := &cli.IntFlag{Name: "c"}
	merged := Merge([]cli.Flag{a}, nil, []cli.Flag{b, c})
	assert.Equal(t, []cli.Flag{a, b, c}, merged)
	assert.Equal(t, "--a, --b, --c", FlagNames(merged...))
}

func TestNewApp(t *testing.T) {
	app := NewApp("0123456789abcdef", "20240101", "test usage")
	assert.Equal(t, "test usage", app.Usage)
	assert.Contains(t, app.Version, "-01234567")
	assert.Equal(t, MiscCategory, cli.HelpFlag.(*cli.BoolFlag).Category)
}
