package sim

import (
	"context"
	"log/slog"
)

// A LogHook writes every hook invocation at the selected positions into a
// structured logger.
type LogHook struct {
	logger    *slog.Logger
	level     slog.Level
	positions map[*HookPos]bool
}

// NewLogHook creates a LogHook. If no position is given, all positions are
// logged.
func NewLogHook(logger *slog.Logger, positions ...*HookPos) *LogHook {
	h := &LogHook{
		logger:    logger,
		level:     slog.LevelDebug,
		positions: make(map[*HookPos]bool),
	}

	for _, p := range positions {
		h.positions[p] = true
	}

	return h
}

// WithLevel changes the level that the hook logs at.
func (h *LogHook) WithLevel(level slog.Level) *LogHook {
	h.level = level
	return h
}

// Func logs the hook context.
func (h *LogHook) Func(ctx HookCtx) {
	if len(h.positions) > 0 && !h.positions[ctx.Pos] {
		return
	}

	attrs := []any{"pos", ctx.Pos.Name}

	if named, ok := ctx.Domain.(Named); ok {
		attrs = append(attrs, "domain", named.Name())
	}

	if ctx.Item != nil {
		attrs = append(attrs, "item", ctx.Item)
	}

	if ctx.Detail != nil {
		attrs = append(attrs, "detail", ctx.Detail)
	}

	h.logger.Log(context.Background(), h.level, "hook", attrs...)
}
