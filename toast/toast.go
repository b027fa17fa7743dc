// Package toast delivers action progress notifications to the user.
package toast

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/tos-network/redenvelope/action"
)

// Level is the phase a toast reports.
type Level string

const (
	LevelLoading Level = "loading"
	LevelSuccess Level = "success"
	LevelError   Level = "error"
)

// Toast is one notification. A loading toast is superseded by exactly one
// success or error toast carrying the same RequestID.
type Toast struct {
	RequestID uuid.UUID   `json:"requestId"`
	Kind      action.Kind `json:"kind"`
	Level     Level       `json:"level"`
	Message   string      `json:"message"`
	Link      string      `json:"link,omitempty"`
	Time      time.Time   `json:"time"`
}

// Terminal reports whether t ends its request.
func (t Toast) Terminal() bool {
	return t.Level != LevelLoading
}

// Reporter receives toasts.
type Reporter interface {
	Report(t Toast)
}

// ReporterFunc adapts a function to Reporter.
type ReporterFunc func(Toast)

func (f ReporterFunc) Report(t Toast) { f(t) }

// Multi fans a toast out to several reporters in order.
type Multi []Reporter

func (m Multi) Report(t Toast) {
	for _, r := range m {
		if r != nil {
			r.Report(t)
		}
	}
}

// Discard drops every toast.
var Discard Reporter = ReporterFunc(func(Toast) {})

// Recorder keeps every toast it receives.
type Recorder struct {
	mu     sync.Mutex
	toasts []Toast
}

func (r *Recorder) Report(t Toast) {
	r.mu.Lock()
	r.toasts = append(r.toasts, t)
	r.mu.Unlock()
}

// Toasts returns a copy of the recorded toasts.
func (r *Recorder) Toasts() []Toast {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Toast(nil), r.toasts...)
}

// ForRequest returns the toasts of one request.
func (r *Recorder) ForRequest(id uuid.UUID) []Toast {
	var out []Toast
	for _, t := range r.Toasts() {
		if t.RequestID == id {
			out = append(out, t)
		}
	}
	return out
}

// Reset drops the recorded toasts.
func (r *Recorder) Reset() {
	r.mu.Lock()
	r.toasts = nil
	r.mu.Unlock()
}
