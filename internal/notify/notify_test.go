package notify

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/eshaffer321/booking-go/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type captureLogger struct {
	warns []string
	infos []string
}

func (l *captureLogger) Debug(msg string, keysAndValues ...interface{}) {}
func (l *captureLogger) Info(msg string, keysAndValues ...interface{})  { l.infos = append(l.infos, msg) }
func (l *captureLogger) Warn(msg string, keysAndValues ...interface{})  { l.warns = append(l.warns, msg) }
func (l *captureLogger) Error(msg string, keysAndValues ...interface{}) {}

func TestFromError(t *testing.T) {
	n := FromError(&types.Error{Code: "NotEnoughSeats", Message: "No seats left", Status: 409, RequestID: "r-1"})

	assert.Equal(t, Notification{
		Level:     LevelError,
		Message:   "No seats left",
		Code:      "NotEnoughSeats",
		Status:    409,
		RequestID: "r-1",
		Duration:  DefaultDuration,
	}, n)
}

func TestFailureNotifier(t *testing.T) {
	rec := &Recorder{}
	h := FailureNotifier{Notifier: rec}

	h.HandleFailure(context.Background(), &types.Error{Message: "first"})
	h.HandleFailure(context.Background(), nil)
	h.HandleFailure(context.Background(), &types.Error{Message: "second"})

	assert.Equal(t, []string{"first", "second"}, rec.Messages())
}

func TestMulti(t *testing.T) {
	a, b := &Recorder{}, &Recorder{}
	var order []string

	m := Multi{
		a,
		nil,
		NotifierFunc(func(_ context.Context, n Notification) { order = append(order, n.Message) }),
		b,
	}
	m.Notify(context.Background(), Notification{Message: "hello"})

	assert.Len(t, a.Notifications(), 1)
	assert.Len(t, b.Notifications(), 1)
	assert.Equal(t, []string{"hello"}, order)
}

func TestLogNotifier(t *testing.T) {
	logger := &captureLogger{}
	n := LogNotifier{Logger: logger}

	n.Notify(context.Background(), Notification{Level: LevelError, Message: "boom"})
	n.Notify(context.Background(), Notification{Level: LevelInfo, Message: "saved"})
	LogNotifier{}.Notify(context.Background(), Notification{Message: "dropped"})

	assert.Equal(t, []string{"boom"}, logger.warns)
	assert.Equal(t, []string{"saved"}, logger.infos)
}

func TestToast(t *testing.T) {
	var buf bytes.Buffer
	toast := NewToast(&buf, &ToastOptions{ShowRequestID: true})

	toast.Notify(context.Background(), FromError(&types.Error{Message: "Event not found", RequestID: "abc-123"}))

	out := buf.String()
	assert.Contains(t, out, "Event not found")
	assert.Contains(t, out, "✕")
	assert.Contains(t, out, "request abc-123")
	assert.Contains(t, out, "╭")
	assert.True(t, strings.HasSuffix(out, "\n"))
}

func TestToast_WrapsLongMessages(t *testing.T) {
	toast := NewToast(&bytes.Buffer{}, &ToastOptions{MaxWidth: 40})

	msg := strings.Repeat("seats are required ", 10)
	out := toast.Render(Notification{Level: LevelError, Message: msg})

	lines := strings.Split(out, "\n")
	require.Greater(t, len(lines), 3)
	for _, line := range lines {
		assert.LessOrEqual(t, lipgloss.Width(line), 40)
	}
}

func TestToast_MultilineMessage(t *testing.T) {
	toast := NewToast(&bytes.Buffer{}, nil)

	out := toast.Render(Notification{Level: LevelError, Message: "body.seats: required\nbody.date: invalid"})

	assert.Contains(t, out, "body.seats: required")
	assert.Contains(t, out, "body.date: invalid")
}
