package logging

import (
	"context"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/lmittmann/tint"
	"github.com/mattn/go-isatty"
	slogctx "github.com/veqryn/slog-context"
)

// Options controls the console logger.
type Options struct {
	Verbose bool
	NoColor bool
}

// Setup installs a tint console logger writing to w as the slog default and
// returns ctx carrying it.
func Setup(ctx context.Context, w io.Writer, opts Options) context.Context {
	level := slog.LevelInfo
	if opts.Verbose {
		level = slog.LevelDebug
	}

	tintHandler := tint.NewHandler(w, &tint.Options{
		Level:      level,
		TimeFormat: time.TimeOnly,
		NoColor:    opts.NoColor || !IsTerminal(w),
	})

	ctxHandler := slogctx.NewHandler(tintHandler, nil)

	logger := slog.New(ctxHandler)
	slog.SetDefault(logger)

	return slogctx.NewCtx(ctx, logger)
}

// IsTerminal reports whether w is a terminal that can render color.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
