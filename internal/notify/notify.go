// Package notify delivers transient user-facing notifications ("toasts")
// for failed API calls.
package notify

import (
	"context"
	"sync"
	"time"

	"github.com/eshaffer321/booking-go/internal/types"
)

// DefaultDuration is how long a toast stays visible
const DefaultDuration = 5 * time.Second

// Level of a notification
type Level string

const (
	LevelError Level = "error"
	LevelInfo  Level = "info"
)

// Notification is one toast
type Notification struct {
	Level     Level
	Message   string
	Code      string
	Status    int
	RequestID string
	Duration  time.Duration
}

// FromError builds the error toast for a normalized failure
func FromError(err *types.Error) Notification {
	return Notification{
		Level:     LevelError,
		Message:   err.Message,
		Code:      err.Code,
		Status:    err.Status,
		RequestID: err.RequestID,
		Duration:  DefaultDuration,
	}
}

// Notifier shows notifications to the user
type Notifier interface {
	Notify(ctx context.Context, n Notification)
}

// NotifierFunc adapts a function to Notifier
type NotifierFunc func(ctx context.Context, n Notification)

// Notify calls f
func (f NotifierFunc) Notify(ctx context.Context, n Notification) {
	f(ctx, n)
}

// Multi sends every notification to each notifier in order
type Multi []Notifier

// Notify fans n out
func (m Multi) Notify(ctx context.Context, n Notification) {
	for _, notifier := range m {
		if notifier != nil {
			notifier.Notify(ctx, n)
		}
	}
}

// FailureNotifier turns failed calls into error toasts
type FailureNotifier struct {
	Notifier Notifier
}

// HandleFailure notifies about err
func (f FailureNotifier) HandleFailure(ctx context.Context, err *types.Error) {
	if f.Notifier == nil || err == nil {
		return
	}
	f.Notifier.Notify(ctx, FromError(err))
}

// LogNotifier writes notifications to a logger
type LogNotifier struct {
	Logger types.Logger
}

// Notify logs n
func (l LogNotifier) Notify(_ context.Context, n Notification) {
	if l.Logger == nil {
		return
	}
	kv := []interface{}{"code", n.Code, "status", n.Status, "request_id", n.RequestID}
	if n.Level == LevelError {
		l.Logger.Warn(n.Message, kv...)
		return
	}
	l.Logger.Info(n.Message, kv...)
}

// Recorder keeps every notification; useful in tests
type Recorder struct {
	mu    sync.Mutex
	notes []Notification
}

// Notify records n
func (r *Recorder) Notify(_ context.Context, n Notification) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notes = append(r.notes, n)
}

// Notifications returns a copy of everything recorded
func (r *Recorder) Notifications() []Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Notification(nil), r.notes...)
}

// Messages returns the recorded messages in order
func (r *Recorder) Messages() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.notes))
	for _, n := range r.notes {
		out = append(out, n.Message)
	}
	return out
}
