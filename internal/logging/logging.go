// Package logging provides the process-global slog logger used across the
// library, plus the switchable handler and callback fan-out backing the
// pixelgrab_set_log_level / pixelgrab_set_log_callback / pixelgrab_log C ABI.
package logging

import (
	"context"
	"log/slog"
	"os"
	"strings"
	"sync"
	"sync/atomic"
)

// Key constants for structured log fields.
const (
	KeyComponent   = "component"
	KeySessionID   = "sessionId"
	KeyDurationMs  = "durationMs"
	KeyError       = "error"
)

type contextKey struct{}

// switchableHandler lets package-level loggers created before SetLevel or
// SetCallback runs dynamically pick up the current handler. Package-level
// loggers are typically created at init() time via L(), long before a host
// application calls pixelgrab_set_log_level.
type switchableHandler struct {
	state  *switchableState
	attrs  []slog.Attr
	groups []string
}

type switchableState struct {
	current atomic.Value // stores slog.Handler
}

func newSwitchableHandler(h slog.Handler) *switchableHandler {
	state := &switchableState{}
	state.current.Store(h)
	return &switchableHandler{state: state}
}

func (h *switchableHandler) set(handler slog.Handler) {
	h.state.current.Store(handler)
}

func (h *switchableHandler) base() slog.Handler {
	return h.state.current.Load().(slog.Handler)
}

func (h *switchableHandler) materialize() slog.Handler {
	handler := h.base()
	for _, group := range h.groups {
		handler = handler.WithGroup(group)
	}
	if len(h.attrs) > 0 {
		handler = handler.WithAttrs(h.attrs)
	}
	return handler
}

func (h *switchableHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.materialize().Enabled(ctx, level)
}

func (h *switchableHandler) Handle(ctx context.Context, record slog.Record) error {
	return h.materialize().Handle(ctx, record)
}

func (h *switchableHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	merged := make([]slog.Attr, 0, len(h.attrs)+len(attrs))
	merged = append(merged, h.attrs...)
	merged = append(merged, attrs...)
	groups := append([]string(nil), h.groups...)
	return &switchableHandler{state: h.state, attrs: merged, groups: groups}
}

func (h *switchableHandler) WithGroup(name string) slog.Handler {
	attrs := append([]slog.Attr(nil), h.attrs...)
	groups := append(append([]string(nil), h.groups...), name)
	return &switchableHandler{state: h.state, attrs: attrs, groups: groups}
}

// Level mirrors PixelGrabLogLevel; kept distinct from slog.Level so the C
// ABI enum can evolve independently of Go's logging levels.
type Level int

const (
	LevelTrace Level = iota
	LevelDebug
	LevelInfo
	LevelWarn
	LevelError
	LevelFatal
)

func (l Level) slogLevel() slog.Level {
	switch l {
	case LevelTrace, LevelDebug:
		return slog.LevelDebug
	case LevelWarn:
		return slog.LevelWarn
	case LevelError, LevelFatal:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Callback mirrors pixelgrab_log_callback_t.
type Callback func(level Level, message string)

var (
	levelVar      atomic.Int64
	rootHandler   = newSwitchableHandler(&callbackHandler{base: textHandlerAt(slog.LevelInfo)})
	defaultLogger = slog.New(rootHandler)

	callbackMu sync.RWMutex
	callback   Callback
)

func init() {
	levelVar.Store(int64(LevelInfo))
	slog.SetDefault(defaultLogger)
}

func textHandlerAt(level slog.Level) slog.Handler {
	return slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
}

// SetLevel sets the minimum level; messages below it are discarded by both
// the stderr handler and the user callback.
func SetLevel(level Level) {
	levelVar.Store(int64(level))
	rootHandler.set(&callbackHandler{base: textHandlerAt(level.slogLevel())})
}

// SetCallback installs (or, with nil, clears) the process-global log
// callback. All records at or above the current level are forwarded to it
// in addition to the default stderr output.
func SetCallback(cb Callback) {
	callbackMu.Lock()
	callback = cb
	callbackMu.Unlock()
}

// Log emits a single message through the same pipeline as package loggers,
// backing pixelgrab_log for host applications that want to share it.
func Log(level Level, message string) {
	L("host").Log(context.Background(), level.slogLevel(), message)
}

// callbackHandler wraps a base slog.Handler to also fan records out to the
// registered Callback.
type callbackHandler struct {
	base   slog.Handler
	attrs  []slog.Attr
	groups []string
}

func (h *callbackHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.base.Enabled(ctx, level)
}

func (h *callbackHandler) Handle(ctx context.Context, record slog.Record) error {
	callbackMu.RLock()
	cb := callback
	callbackMu.RUnlock()

	if cb != nil {
		var b strings.Builder
		b.WriteString(record.Message)
		record.Attrs(func(a slog.Attr) bool {
			b.WriteString(" ")
			b.WriteString(a.Key)
			b.WriteString("=")
			b.WriteString(a.Value.String())
			return true
		})
		cb(levelFromSlog(record.Level), b.String())
	}

	return h.base.Handle(ctx, record)
}

func levelFromSlog(l slog.Level) Level {
	switch {
	case l < slog.LevelInfo:
		return LevelDebug
	case l < slog.LevelWarn:
		return LevelInfo
	case l < slog.LevelError:
		return LevelWarn
	default:
		return LevelError
	}
}

func (h *callbackHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	merged := append(append([]slog.Attr(nil), h.attrs...), attrs...)
	return &callbackHandler{base: h.base.WithAttrs(attrs), attrs: merged, groups: h.groups}
}

func (h *callbackHandler) WithGroup(name string) slog.Handler {
	groups := append(append([]string(nil), h.groups...), name)
	return &callbackHandler{base: h.base.WithGroup(name), attrs: h.attrs, groups: groups}
}

// L returns a logger tagged with the given component name.
func L(component string) *slog.Logger {
	return defaultLogger.With(slog.String(KeyComponent, component))
}

// NewContext returns a new context carrying the given logger.
func NewContext(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, contextKey{}, logger)
}

// FromContext extracts the logger from context, falling back to the default.
func FromContext(ctx context.Context) *slog.Logger {
	if l, ok := ctx.Value(contextKey{}).(*slog.Logger); ok {
		return l
	}
	return defaultLogger
}
