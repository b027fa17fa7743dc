// Package log is the structured logging facade used across the client.
//
// Call sites pass a message followed by alternating key/value pairs:
//
//	log.Info("Submitted transaction", "kind", kind, "digest", digest)
//
// Records are written by a zap core configured through Setup.
package log

import (
	"os"
	"sync"

	"go.uber.org/zap"
)

// Logger writes key/value records. New returns a child logger that prefixes
// every record with ctx.
type Logger interface {
	New(ctx ...interface{}) Logger

	Debug(msg string, ctx ...interface{})
	Info(msg string, ctx ...interface{})
	Warn(msg string, ctx ...interface{})
	Error(msg string, ctx ...interface{})
	Crit(msg string, ctx ...interface{})
}

type logger struct {
	s *zap.SugaredLogger
}

// NewZap wraps an existing zap logger.
func NewZap(z *zap.Logger) Logger {
	return &logger{s: z.Sugar()}
}

func (l *logger) New(ctx ...interface{}) Logger {
	return &logger{s: l.s.With(ctx...)}
}

func (l *logger) Debug(msg string, ctx ...interface{}) { l.s.Debugw(msg, ctx...) }
func (l *logger) Info(msg string, ctx ...interface{})  { l.s.Infow(msg, ctx...) }
func (l *logger) Warn(msg string, ctx ...interface{})  { l.s.Warnw(msg, ctx...) }
func (l *logger) Error(msg string, ctx ...interface{}) { l.s.Errorw(msg, ctx...) }

func (l *logger) Crit(msg string, ctx ...interface{}) {
	l.s.Errorw(msg, ctx...)
	l.s.Sync()
	os.Exit(1)
}

var (
	rootMu sync.RWMutex
	root   Logger = NewZap(zap.NewNop())
)

// Root returns the process-wide logger.
func Root() Logger {
	rootMu.RLock()
	defer rootMu.RUnlock()
	return root
}

// SetRoot replaces the process-wide logger.
func SetRoot(l Logger) {
	rootMu.Lock()
	root = l
	rootMu.Unlock()
}

// New returns a child of the root logger.
func New(ctx ...interface{}) Logger {
	return Root().New(ctx...)
}

func Debug(msg string, ctx ...interface{}) { Root().Debug(msg, ctx...) }
func Info(msg string, ctx ...interface{})  { Root().Info(msg, ctx...) }
func Warn(msg string, ctx ...interface{})  { Root().Warn(msg, ctx...) }
func Error(msg string, ctx ...interface{}) { Root().Error(msg, ctx...) }
func Crit(msg string, ctx ...interface{})  { Root().Crit(msg, ctx...) }
