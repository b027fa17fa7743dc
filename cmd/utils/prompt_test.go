package utils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"
)

func TestGetPassPhraseWithList(t *testing.T) {
	passwords := []string{"keystore", "session", "spare"}
	tests := []struct {
		index   int
		confirm bool
		want    string
	}{
		{0, false, "keystore"},
		{1, true, "session"},
		{2, false, "spare"},
		// Indexes past the list reuse the last line.
		{7, false, "spare"},
	}
	for _, tt := range tests {
		got := GetPassPhraseWithList("Passphrase: ", tt.confirm, tt.index, passwords)
		assert.Equal(t, tt.want, got, "index %d", tt.index)
	}
}

func TestPassphraseSourceReadsPasswordFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "password.txt")
	require.NoError(t, os.WriteFile(path, []byte("red envelope\r\nignored\r\n"), 0600))

	app := cli.NewApp()
	app.Flags = []cli.Flag{PasswordFileFlag}
	app.Action = func(ctx *cli.Context) error {
		source := PassphraseSource(ctx)
		// New keys ask for confirmation; the file answers both prompts.
		for _, confirm := range []bool{true, false} {
			pass, err := source("Passphrase for the new key: ", confirm)
			require.NoError(t, err)
			assert.Equal(t, "red envelope", pass)
		}
		return nil
	}
	require.NoError(t, app.Run([]string{"redenvelope-test", "--password", path}))
}
