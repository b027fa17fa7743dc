// Package console is an interactive shell over the action controller. Each
// command line submits one action; progress is reported through the
// controller's toast reporter.
package console

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/peterh/liner"
	"github.com/tos-network/redenvelope/action"
	"github.com/tos-network/redenvelope/flow"
	"github.com/tos-network/redenvelope/params"
)

// HistoryFile is the file within the data directory to store input scrollback.
const HistoryFile = "history"

// DefaultPrompt is the default prompt line prefix to use for user input querying.
const DefaultPrompt = "> "

var errExit = errors.New("exit")

// Config is the collection of configurations to fine tune the behavior of the
// console.
type Config struct {
	DataDir    string           // Data directory to store the console history at
	Controller *flow.Controller // Controller running the actions
	Prompt     string           // Input prompt prefix string (defaults to DefaultPrompt)
	Prompter   UserPrompter     // Input prompter to allow interactive user feedback (defaults to TerminalPrompter)
	Printer    io.Writer        // Output writer to serialize any display strings to (defaults to os.Stdout)
}

// Console is an interactive shell mirroring the single page front end.
type Console struct {
	ctrl     *flow.Controller
	prompt   string
	prompter UserPrompter
	histPath string
	history  []string
	printer  io.Writer
}

// New initializes a console and restores the command history.
func New(config Config) (*Console, error) {
	if config.Controller == nil {
		return nil, errors.New("console requires a controller")
	}
	if config.Prompter == nil {
		config.Prompter = Stdin
	}
	if config.Prompt == "" {
		config.Prompt = DefaultPrompt
	}
	if config.Printer == nil {
		config.Printer = os.Stdout
	}
	c := &Console{
		ctrl:     config.Controller,
		prompt:   config.Prompt,
		prompter: config.Prompter,
		printer:  config.Printer,
	}
	if config.DataDir != "" {
		c.histPath = filepath.Join(config.DataDir, HistoryFile)
		if content, err := os.ReadFile(c.histPath); err == nil {
			c.history = strings.Split(string(content), "\n")
			c.prompter.SetHistory(c.history)
		} else if !os.IsNotExist(err) {
			return nil, err
		}
	}
	c.prompter.SetWordCompleter(c.AutoCompleteInput)
	return c, nil
}

// AutoCompleteInput completes the command word of line.
func (c *Console) AutoCompleteInput(line string, pos int) (string, []string, string) {
	if len(line) == 0 || pos == 0 || strings.Contains(line[:pos], " ") {
		return "", nil, ""
	}
	prefix := line[:pos]
	var matches []string
	for name := range commands {
		if strings.HasPrefix(name, prefix) {
			matches = append(matches, name)
		}
	}
	sort.Strings(matches)
	return "", matches, line[pos:]
}

// Welcome shows a summary of the current session.
func (c *Console) Welcome() {
	cfg := c.ctrl.Config()
	message := "Welcome to the Sui red envelope console!\n\n"
	message += fmt.Sprintf("version: %s\n", params.VersionWithMeta)
	message += fmt.Sprintf("network: %s\n", cfg.Network.Name)
	if st := c.ctrl.Store().Snapshot(); st.LoggedIn() {
		message += fmt.Sprintf("account: %s\n", st.Session.Address)
	}
	if cfg.PackageID != "" {
		message += fmt.Sprintf("package: %s\n", cfg.PackageID)
	}
	message += "\nType help for the command list. To exit, press ctrl-d or type exit"
	fmt.Fprintln(c.printer, message)
}

// Evaluate runs one command line. Usage errors are printed; action failures
// have already been reported as toasts.
func (c *Console) Evaluate(ctx context.Context, line string) error {
	name, args := splitCommand(line)
	if name == "" {
		return nil
	}
	cmd, ok := commands[name]
	if !ok {
		fmt.Fprintf(c.printer, "Unknown command %q, type help for the command list\n", name)
		return nil
	}
	err := cmd.run(ctx, c, args)
	var usage usageError
	if errors.As(err, &usage) {
		fmt.Fprintf(c.printer, "Usage: %s %s\n", name, cmd.usage)
		return nil
	}
	return err
}

// Interactive starts an interactive user session, where input is prompted from
// the configured user prompter.
func (c *Console) Interactive(ctx context.Context) {
	for {
		line, err := c.prompter.PromptInput(c.prompt)
		if err != nil {
			// ctrl-c aborts the current line, ctrl-d and read errors end the session
			if errors.Is(err, liner.ErrPromptAborted) {
				continue
			}
			fmt.Fprintln(c.printer)
			return
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if !sensitive(line) {
			c.addHistory(line)
		}
		if err := c.Evaluate(ctx, line); err != nil {
			if errors.Is(err, errExit) {
				return
			}
			if !errors.As(err, new(*action.Error)) {
				fmt.Fprintln(c.printer, "Error:", err)
			}
		}
		if ctx.Err() != nil {
			return
		}
	}
}

func (c *Console) addHistory(line string) {
	if len(c.history) > 0 && c.history[len(c.history)-1] == line {
		return
	}
	c.history = append(c.history, line)
	c.prompter.AppendHistory(line)
}

// Stop saves the command history.
func (c *Console) Stop() error {
	if c.histPath == "" {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(c.histPath), 0700); err != nil {
		return err
	}
	return os.WriteFile(c.histPath, []byte(strings.Join(c.history, "\n")), 0600)
}
