// Copyright (c) 2026 The StakeVault developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package log provides structured logging on top of log/slog.
package log

import (
	"context"
	"io"
	"log/slog"
	"os"
	"sync/atomic"
)

const (
	LevelTrace = slog.Level(-8)
	LevelDebug = slog.LevelDebug
	LevelInfo  = slog.LevelInfo
	LevelWarn  = slog.LevelWarn
	LevelError = slog.LevelError
	LevelCrit  = slog.Level(12)

	levelMaxVerbosity = slog.Level(-10)
)

// Logger writes key/value pairs at various levels.
type Logger interface {
	With(ctx ...any) Logger
	Trace(msg string, ctx ...any)
	Debug(msg string, ctx ...any)
	Info(msg string, ctx ...any)
	Warn(msg string, ctx ...any)
	Error(msg string, ctx ...any)
}

type logger struct {
	inner *slog.Logger
}

func (l *logger) With(ctx ...any) Logger {
	return &logger{l.inner.With(ctx...)}
}

func (l *logger) write(level slog.Level, msg string, ctx []any) {
	l.inner.Log(context.Background(), level, msg, ctx...)
}

func (l *logger) Trace(msg string, ctx ...any) { l.write(LevelTrace, msg, ctx) }
func (l *logger) Debug(msg string, ctx ...any) { l.write(LevelDebug, msg, ctx) }
func (l *logger) Info(msg string, ctx ...any)  { l.write(LevelInfo, msg, ctx) }
func (l *logger) Warn(msg string, ctx ...any)  { l.write(LevelWarn, msg, ctx) }
func (l *logger) Error(msg string, ctx ...any) { l.write(LevelError, msg, ctx) }

// rootHandler is swappable at runtime. Loggers derived before SetRootHandler
// runs still pick up the new handler, so package-level loggers work.
var rootHandler atomic.Value

func init() {
	rootHandler.Store(DiscardHandler())
}

// dynamicHandler defers handler resolution to log time, carrying the attrs
// accumulated by With along the way.
type dynamicHandler struct {
	attrs []slog.Attr
}

func (d *dynamicHandler) current() slog.Handler {
	return rootHandler.Load().(slog.Handler)
}

func (d *dynamicHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return d.current().Enabled(ctx, level)
}

func (d *dynamicHandler) Handle(ctx context.Context, r slog.Record) error {
	h := d.current()
	if len(d.attrs) > 0 {
		h = h.WithAttrs(d.attrs)
	}
	return h.Handle(ctx, r)
}

func (d *dynamicHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	merged := make([]slog.Attr, 0, len(d.attrs)+len(attrs))
	merged = append(merged, d.attrs...)
	merged = append(merged, attrs...)
	return &dynamicHandler{merged}
}

func (d *dynamicHandler) WithGroup(_ string) slog.Handler {
	return d
}

var root = &logger{slog.New(&dynamicHandler{})}

// SetRootHandler installs the handler backing the root logger and every
// logger derived from it, before or after.
func SetRootHandler(h slog.Handler) {
	rootHandler.Store(h)
}

// Root returns the root logger.
func Root() Logger {
	return root
}

// WithContext returns a logger derived from the root with the given context pairs.
func WithContext(ctx ...any) Logger {
	return Root().With(ctx...)
}

// NewTerminalLogger is a convenience for interactive programs:
// colored terminal output at the given level.
func NewTerminalLogger(w io.Writer, lvl *slog.LevelVar, useColor bool) Logger {
	return &logger{slog.New(NewTerminalHandlerWithLevel(w, lvl, useColor))}
}

// Crit logs a critical message via the root logger and exits the process.
func Crit(msg string, ctx ...any) {
	root.write(LevelCrit, msg, ctx)
	os.Exit(1)
}

// LevelString returns the string presentation of a level.
func LevelString(l slog.Level) string {
	switch l {
	case LevelTrace:
		return "trace"
	case LevelDebug:
		return "debug"
	case LevelInfo:
		return "info"
	case LevelWarn:
		return "warn"
	case LevelError:
		return "error"
	case LevelCrit:
		return "crit"
	default:
		return l.String()
	}
}
