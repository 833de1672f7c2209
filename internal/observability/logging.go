// Package observability provides logging, metrics, and tracing.
package observability

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/google/uuid"
)

// Logger wraps slog.Logger to provide specialized logging methods.
type Logger struct {
	*slog.Logger
}

// GlobalLogger is the default logger instance for the application.
var GlobalLogger *Logger

func init() {
	GlobalLogger = NewLogger(os.Stdout, os.Getenv("APP_ENV"), slog.LevelInfo)
}

// NewLogger builds a JSON logger for production and a text logger otherwise.
func NewLogger(w io.Writer, env string, level slog.Level) *Logger {
	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	switch strings.ToLower(env) {
	case "production", "prod":
		handler = slog.NewJSONHandler(w, opts)
	default:
		handler = slog.NewTextHandler(w, opts)
	}
	return &Logger{Logger: slog.New(&ctxHandler{handler})}
}

// SetGlobalLogger replaces the logger used by package-level helpers.
func SetGlobalLogger(l *Logger) {
	if l != nil {
		GlobalLogger = l
	}
}

// LogContextKey is a type for context keys used by the logging package.
type LogContextKey string

// Context keys for logging
const (
	CorrelationID LogContextKey = "correlation_id"
	ActorID       LogContextKey = "actor_id"
)

// ctxHandler adds correlation and actor ids from the context to each record.
type ctxHandler struct {
	slog.Handler
}

func (h *ctxHandler) Handle(ctx context.Context, r slog.Record) error {
	if id, ok := ctx.Value(CorrelationID).(string); ok && id != "" {
		r.AddAttrs(slog.String("correlation_id", id))
	}
	if id, ok := ctx.Value(ActorID).(string); ok && id != "" {
		r.AddAttrs(slog.String("actor_id", id))
	}
	return h.Handler.Handle(ctx, r)
}

func (h *ctxHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &ctxHandler{h.Handler.WithAttrs(attrs)}
}

func (h *ctxHandler) WithGroup(name string) slog.Handler {
	return &ctxHandler{h.Handler.WithGroup(name)}
}

// GenerateCorrelationID creates a new unique correlation ID.
func GenerateCorrelationID() string {
	return uuid.NewString()
}

// WithCorrelationID returns a new context with the given correlation ID.
func WithCorrelationID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, CorrelationID, id)
}

// WithActorID returns a new context tagged with the acting user.
func WithActorID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ActorID, id)
}

// ExtractCorrelationID retrieves the correlation ID from the context.
func ExtractCorrelationID(ctx context.Context) string {
	if id, ok := ctx.Value(CorrelationID).(string); ok {
		return id
	}
	return ""
}

// ActionLogger provides structured logging for feed actions.
type ActionLogger struct {
	component string
	logger    *Logger
}

// NewActionLogger creates a new ActionLogger for the given component.
func NewActionLogger(component string) *ActionLogger {
	return &ActionLogger{
		component: component,
		logger:    GlobalLogger,
	}
}

// WithLogger returns a copy that writes to l.
func (l *ActionLogger) WithLogger(logger *Logger) *ActionLogger {
	return &ActionLogger{component: l.component, logger: logger}
}

func (l *ActionLogger) attrs(action string, fields map[string]interface{}) []any {
	attrs := []any{
		slog.String("component", l.component),
		slog.String("action", action),
	}
	for k, v := range fields {
		attrs = append(attrs, slog.Any(k, v))
	}
	return attrs
}

// LogAction logs a completed action.
func (l *ActionLogger) LogAction(ctx context.Context, action string, fields map[string]interface{}) {
	l.logger.InfoContext(ctx, "action completed", l.attrs(action, fields)...)
}

// LogRollback logs an optimistic change that was undone.
func (l *ActionLogger) LogRollback(ctx context.Context, action string, err error, fields map[string]interface{}) {
	attrs := l.attrs(action, fields)
	attrs = append(attrs, slog.String("error", err.Error()))
	l.logger.WarnContext(ctx, "optimistic change rolled back", attrs...)
}

// LogSkipped logs a non-fatal no-op such as a missing mutation target.
func (l *ActionLogger) LogSkipped(ctx context.Context, action string, err error, fields map[string]interface{}) {
	attrs := l.attrs(action, fields)
	attrs = append(attrs, slog.String("reason", err.Error()))
	l.logger.WarnContext(ctx, "action skipped", attrs...)
}

// LogError logs a failed action.
func (l *ActionLogger) LogError(ctx context.Context, action string, err error, fields map[string]interface{}) {
	attrs := l.attrs(action, fields)
	attrs = append(attrs, slog.String("error", err.Error()))
	l.logger.ErrorContext(ctx, "action failed", attrs...)
}
