package log

import (
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const timeLayout = "01-02|15:04:05.000"

// Options controls the root logger built by Setup.
type Options struct {
	Level  string    // debug, info, warn, error; defaults to info
	JSON   bool      // emit JSON records instead of console lines
	Writer io.Writer // defaults to stderr
}

// Setup builds a logger from opts and installs it as the root logger.
func Setup(opts Options) (Logger, error) {
	level := zapcore.InfoLevel
	if opts.Level != "" {
		lvl, err := zapcore.ParseLevel(opts.Level)
		if err != nil {
			return nil, fmt.Errorf("invalid log level %q: %w", opts.Level, err)
		}
		level = lvl
	}
	w := opts.Writer
	useColor := false
	if w == nil {
		w = os.Stderr
		if isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd()) {
			w = colorable.NewColorableStderr()
			useColor = true
		}
	}
	var enc zapcore.Encoder
	if opts.JSON {
		enc = zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig())
	} else {
		cfg := zap.NewDevelopmentEncoderConfig()
		cfg.EncodeTime = zapcore.TimeEncoderOfLayout(timeLayout)
		cfg.EncodeCaller = nil
		cfg.CallerKey = zapcore.OmitKey
		cfg.EncodeLevel = zapcore.CapitalLevelEncoder
		if useColor {
			cfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
		}
		enc = zapcore.NewConsoleEncoder(cfg)
	}
	l := NewZap(zap.New(zapcore.NewCore(enc, zapcore.AddSync(w), level)))
	SetRoot(l)
	return l, nil
}
