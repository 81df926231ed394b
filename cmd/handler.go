package main

import (
	"context"
	"log/slog"
)

// splitHandler routes records below slog.LevelWarn to one handler and the rest to another.
type splitHandler struct {
	out  slog.Handler
	diag slog.Handler
}

func newSplitHandler(out, diag slog.Handler) *splitHandler {
	return &splitHandler{out: out, diag: diag}
}

func (h *splitHandler) Enabled(ctx context.Context, level slog.Level) bool {
	if level >= slog.LevelWarn {
		return h.diag.Enabled(ctx, level)
	}
	return h.out.Enabled(ctx, level)
}

func (h *splitHandler) Handle(ctx context.Context, record slog.Record) error {
	if record.Level >= slog.LevelWarn {
		return h.diag.Handle(ctx, record)
	}
	return h.out.Handle(ctx, record)
}

func (h *splitHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &splitHandler{out: h.out.WithAttrs(attrs), diag: h.diag.WithAttrs(attrs)}
}

func (h *splitHandler) WithGroup(name string) slog.Handler {
	return &splitHandler{out: h.out.WithGroup(name), diag: h.diag.WithGroup(name)}
}
