package logging

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
)

var level = new(slog.LevelVar)

// Init configures the process-wide slog default. Call once from main.
// levelStr is one of debug, info, warn, error; format is text or json.
func Init(levelStr, format string) {
	InitTo(os.Stderr, levelStr, format)
}

// InitTo is Init with an explicit destination.
func InitTo(w io.Writer, levelStr, format string) {
	level.Set(ParseLevel(levelStr))

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if strings.EqualFold(strings.TrimSpace(format), "json") {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}
	slog.SetDefault(slog.New(handler))
}

// For returns a logger tagged with component. It resolves slog.Default() on
// every call, so package-level loggers follow later Init or CaptureForTest calls.
func For(component string) *slog.Logger {
	return slog.New(&dynamicHandler{attrs: []slog.Attr{slog.String("component", component)}})
}

// SetLevel changes the minimum level at runtime.
func SetLevel(l slog.Level) {
	level.Set(l)
}

// ParseLevel maps a level name to a slog.Level, defaulting to info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

type dynamicHandler struct {
	attrs []slog.Attr
}

func (h *dynamicHandler) Enabled(ctx context.Context, l slog.Level) bool {
	return slog.Default().Handler().Enabled(ctx, l)
}

func (h *dynamicHandler) Handle(ctx context.Context, r slog.Record) error {
	r.AddAttrs(h.attrs...)
	return slog.Default().Handler().Handle(ctx, r)
}

func (h *dynamicHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	merged := make([]slog.Attr, 0, len(h.attrs)+len(attrs))
	merged = append(merged, h.attrs...)
	merged = append(merged, attrs...)
	return &dynamicHandler{attrs: merged}
}

// WithGroup is not supported; component loggers stay flat.
func (h *dynamicHandler) WithGroup(string) slog.Handler {
	return h
}
