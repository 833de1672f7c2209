package interaction

import (
	"context"
	"sync"

	"uniconnect/internal/observability"
)

// Level is the severity of a user-facing notice.
type Level string

const (
	LevelSuccess Level = "success"
	LevelError   Level = "error"
	LevelInfo    Level = "info"
)

// Notice is a short message shown to the user after an action.
type Notice struct {
	Level   Level
	Action  string
	Message string
}

// Notifier delivers notices to the user.
type Notifier interface {
	Notify(ctx context.Context, n Notice)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(ctx context.Context, n Notice)

func (f NotifierFunc) Notify(ctx context.Context, n Notice) { f(ctx, n) }

// LogNotifier writes notices to a structured logger.
type LogNotifier struct {
	Logger *observability.Logger
}

func (l LogNotifier) Notify(ctx context.Context, n Notice) {
	logger := l.Logger
	if logger == nil {
		logger = observability.GlobalLogger
	}
	attrs := []any{"action", n.Action, "level", string(n.Level)}
	if n.Level == LevelError {
		logger.WarnContext(ctx, n.Message, attrs...)
		return
	}
	logger.InfoContext(ctx, n.Message, attrs...)
}

// Recorder keeps every notice in memory.
type Recorder struct {
	mu      sync.Mutex
	notices []Notice
}

func (r *Recorder) Notify(_ context.Context, n Notice) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notices = append(r.notices, n)
}

// Notices returns the recorded notices in order.
func (r *Recorder) Notices() []Notice {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Notice(nil), r.notices...)
}

// Drain returns and forgets the recorded notices.
func (r *Recorder) Drain() []Notice {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := r.notices
	r.notices = nil
	return out
}
