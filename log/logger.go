// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package log

import (
	"context"
	"io"
	"log/slog"

	ethlog "github.com/ethereum/go-ethereum/log"
)

// Logger writes key/value pairs to the root handler.
type Logger interface {
	// With returns a new Logger that has this logger's attributes plus the given attributes
	With(ctx ...any) Logger

	Trace(msg string, ctx ...any)
	Debug(msg string, ctx ...any)
	Info(msg string, ctx ...any)
	Warn(msg string, ctx ...any)
	Error(msg string, ctx ...any)
	// Crit logs a message at critical level and terminates the process.
	Crit(msg string, ctx ...any)

	// Enabled reports whether l emits log records at the given context and level.
	Enabled(ctx context.Context, level slog.Level) bool
}

// logger resolves the root logger on every call, so that package level loggers
// declared before SetDefault still write to the configured handler.
type logger struct {
	ctx []any
}

// WithContext returns a logger carrying the given context pairs.
func WithContext(ctx ...any) Logger {
	return &logger{ctx: ctx}
}

// Root returns the logger without any context.
func Root() Logger {
	return &logger{}
}

func (l *logger) With(ctx ...any) Logger {
	merged := make([]any, 0, len(l.ctx)+len(ctx))
	merged = append(merged, l.ctx...)
	merged = append(merged, ctx...)
	return &logger{ctx: merged}
}

func (l *logger) pairs(ctx []any) []any {
	if len(l.ctx) == 0 {
		return ctx
	}
	merged := make([]any, 0, len(l.ctx)+len(ctx))
	merged = append(merged, l.ctx...)
	return append(merged, ctx...)
}

func (l *logger) Trace(msg string, ctx ...any) { ethlog.Root().Trace(msg, l.pairs(ctx)...) }
func (l *logger) Debug(msg string, ctx ...any) { ethlog.Root().Debug(msg, l.pairs(ctx)...) }
func (l *logger) Info(msg string, ctx ...any)  { ethlog.Root().Info(msg, l.pairs(ctx)...) }
func (l *logger) Warn(msg string, ctx ...any)  { ethlog.Root().Warn(msg, l.pairs(ctx)...) }
func (l *logger) Error(msg string, ctx ...any) { ethlog.Root().Error(msg, l.pairs(ctx)...) }
func (l *logger) Crit(msg string, ctx ...any)  { ethlog.Root().Crit(msg, l.pairs(ctx)...) }

func (l *logger) Enabled(ctx context.Context, level slog.Level) bool {
	return ethlog.Root().Enabled(ctx, level)
}

// SetDefault replaces the root handler.
func SetDefault(h slog.Handler) {
	ethlog.SetDefault(ethlog.NewLogger(h))
}

// TerminalHandler returns a human readable handler, optionally colored.
// Records below level are dropped, level being read on every record.
func TerminalHandler(w io.Writer, level slog.Leveler, useColor bool) slog.Handler {
	return &levelHandler{level, ethlog.NewTerminalHandlerWithLevel(w, ethlog.LevelTrace, useColor)}
}

// JSONHandler returns a handler which prints records in JSON format.
func JSONHandler(w io.Writer, level slog.Leveler) slog.Handler {
	return &levelHandler{level, ethlog.JSONHandlerWithLevel(w, ethlog.LevelTrace)}
}

// levelHandler filters records of the inner handler by a level that may change at runtime.
type levelHandler struct {
	level slog.Leveler
	inner slog.Handler
}

func (h *levelHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return level >= h.level.Level() && h.inner.Enabled(ctx, level)
}

func (h *levelHandler) Handle(ctx context.Context, r slog.Record) error {
	if r.Level < h.level.Level() {
		return nil
	}
	return h.inner.Handle(ctx, r)
}

func (h *levelHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &levelHandler{h.level, h.inner.WithAttrs(attrs)}
}

func (h *levelHandler) WithGroup(name string) slog.Handler {
	return &levelHandler{h.level, h.inner.WithGroup(name)}
}

// DiscardHandler returns a no-op handler
func DiscardHandler() slog.Handler {
	return ethlog.DiscardHandler()
}
