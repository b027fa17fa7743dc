package flow

import (
	"context"

	"github.com/tos-network/redenvelope/action"
	"github.com/tos-network/redenvelope/session"
	"github.com/tos-network/redenvelope/viewstate"
)

// Handler validates one action kind and prepares its submission.
type Handler interface {
	CanHandle(kind action.Kind) bool
	// Prepare validates req against the current view state. It must not call
	// any external service.
	Prepare(c *Controller, req *action.Request, st viewstate.State) (*Task, error)
}

// Task is a validated action ready to run.
type Task struct {
	// Authorize requests a signing credential before Run.
	Authorize bool
	Run       func(ctx context.Context, r *Run) (*Outcome, error)
}

// Run is the context of one task execution.
type Run struct {
	Credential *session.Credential

	kind action.Kind
	c    *Controller
}

// Awaiting marks the request as submitted and waiting for its result.
func (r *Run) Awaiting() {
	r.c.transition(r.kind, PhaseAwaiting)
}

// Registry holds registered handlers.
type Registry struct{ handlers []Handler }

// NewRegistry returns an empty registry.
func NewRegistry() *Registry { return &Registry{} }

// Register adds a handler. Later handlers take precedence.
func (r *Registry) Register(h Handler) {
	r.handlers = append([]Handler{h}, r.handlers...)
}

// Lookup returns the handler of kind, or nil.
func (r *Registry) Lookup(kind action.Kind) Handler {
	for _, h := range r.handlers {
		if h.CanHandle(kind) {
			return h
		}
	}
	return nil
}

// Register overrides or adds the handler of an action kind.
func (c *Controller) Register(h Handler) {
	c.handlers.Register(h)
}
