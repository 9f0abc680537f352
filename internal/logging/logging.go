// Package logging wraps log/slog with CLI-friendly defaults: silent
// unless a host opts in, JSON in production, text for a terminal, level
// controlled by one knob.
package logging

import (
	"context"
	"io"
	"log/slog"
	"os"
)

// Format selects the slog.Handler backing a Logger.
type Format uint8

const (
	// FormatText renders human-readable lines, the default for a
	// terminal-attached CLI invocation.
	FormatText Format = iota
	// FormatJSON renders structured records, for piping into a log
	// aggregator.
	FormatJSON
)

// Options configures Init. The zero value yields a discard logger, so a
// package that imports logging but never calls Init stays silent.
type Options struct {
	Level  slog.Level
	Format Format
	Output io.Writer
}

// Init builds a *slog.Logger from opts. A nil Output defaults to os.Stderr
// only when a non-zero Level or Format was requested; an entirely zero
// Options still yields slog.DiscardHandler, matching the library's
// silent-by-default posture.
func Init(opts Options) *slog.Logger {
	if opts == (Options{}) {
		return slog.New(slog.DiscardHandler)
	}
	out := opts.Output
	if out == nil {
		out = os.Stderr
	}
	handlerOpts := &slog.HandlerOptions{Level: opts.Level}
	var h slog.Handler
	switch opts.Format {
	case FormatJSON:
		h = slog.NewJSONHandler(out, handlerOpts)
	default:
		h = slog.NewTextHandler(out, handlerOpts)
	}
	return slog.New(h)
}

// WithContext attaches attrs drawn from ctx-scoped identifiers (a thread
// name, a request id) to every record l emits. Used the way a host
// thread handle would set up one logger per collector at startup.
func WithContext(ctx context.Context, l *slog.Logger, attrs ...slog.Attr) *slog.Logger {
	return slog.New(l.Handler().WithAttrs(attrs)).With(contextAttr(ctx))
}

func contextAttr(ctx context.Context) slog.Attr {
	if v := ctx.Value(threadNameKey{}); v != nil {
		if name, ok := v.(string); ok {
			return slog.String("thread", name)
		}
	}
	return slog.String("thread", "unnamed")
}

type threadNameKey struct{}

// WithThreadName returns a context carrying name for WithContext to pick
// up, so a per-thread Runtime's logger self-labels without the caller
// threading a name through every call.
func WithThreadName(ctx context.Context, name string) context.Context {
	return context.WithValue(ctx, threadNameKey{}, name)
}
