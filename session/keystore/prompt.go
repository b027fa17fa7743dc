package keystore

import (
	"errors"
	"fmt"
	"os"

	"golang.org/x/term"
)

// TerminalPassphrase reads a passphrase from the controlling terminal without
// echo.
func TerminalPassphrase(prompt string, confirm bool) (string, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return "", errors.New("passphrase required but stdin is not a terminal")
	}
	fmt.Fprintf(os.Stderr, "%s: ", prompt)
	first, err := term.ReadPassword(fd)
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", err
	}
	if confirm {
		fmt.Fprint(os.Stderr, "Repeat passphrase: ")
		second, err := term.ReadPassword(fd)
		fmt.Fprintln(os.Stderr)
		if err != nil {
			return "", err
		}
		if string(first) != string(second) {
			return "", errors.New("passphrases do not match")
		}
	}
	return string(first), nil
}

// StaticPassphrase always returns pass.
func StaticPassphrase(pass string) PassphraseFunc {
	return func(string, bool) (string, error) { return pass, nil }
}
