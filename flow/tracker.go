package flow

import (
	"github.com/tos-network/redenvelope/internal/log"
)

// Tracker records analytics events.
type Tracker interface {
	Track(event string, props map[string]string)
}

// LogTracker writes events to the log.
type LogTracker struct {
	Log log.Logger
}

func (t LogTracker) Track(event string, props map[string]string) {
	l := t.Log
	if l == nil {
		l = log.Root()
	}
	ctx := make([]interface{}, 0, 2+2*len(props))
	ctx = append(ctx, "event", event)
	for k, v := range props {
		ctx = append(ctx, k, v)
	}
	l.Info("Tracked event", ctx...)
}

type nopTracker struct{}

func (nopTracker) Track(string, map[string]string) {}
