package toast

import (
	"fmt"
	"io"
	"sync"

	"github.com/fatih/color"
)

// Terminal prints toasts as coloured lines.
type Terminal struct {
	mu      sync.Mutex
	w       io.Writer
	loading *color.Color
	success *color.Color
	failure *color.Color
	link    *color.Color
}

// NewTerminal creates a terminal reporter writing to w.
func NewTerminal(w io.Writer) *Terminal {
	return &Terminal{
		w:       w,
		loading: color.New(color.FgYellow),
		success: color.New(color.FgGreen, color.Bold),
		failure: color.New(color.FgRed, color.Bold),
		link:    color.New(color.FgCyan, color.Underline),
	}
}

func (t *Terminal) Report(ts Toast) {
	t.mu.Lock()
	defer t.mu.Unlock()

	switch ts.Level {
	case LevelLoading:
		t.loading.Fprintf(t.w, "… %s\n", ts.Message)
	case LevelSuccess:
		t.success.Fprintf(t.w, "✔ %s", ts.Message)
		if ts.Link != "" {
			fmt.Fprint(t.w, " ")
			t.link.Fprint(t.w, ts.Link)
		}
		fmt.Fprintln(t.w)
	case LevelError:
		t.failure.Fprintf(t.w, "✘ %s\n", ts.Message)
	}
}
