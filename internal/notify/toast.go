package notify

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/charmbracelet/lipgloss"
)

// DefaultMaxWidth is the widest a toast grows before wrapping, in cells
const DefaultMaxWidth = 60

// ToastOptions configures the terminal toast
type ToastOptions struct {
	MaxWidth int

	// ShowRequestID appends the request id under the message
	ShowRequestID bool
}

// Toast renders notifications as boxed messages on a terminal
type Toast struct {
	mu       sync.Mutex
	w        io.Writer
	maxWidth int
	showID   bool
	box      lipgloss.Style
	icon     lipgloss.Style
	muted    lipgloss.Style
}

// NewToast creates a toast notifier writing to w
func NewToast(w io.Writer, opts *ToastOptions) *Toast {
	if opts == nil {
		opts = &ToastOptions{}
	}
	if opts.MaxWidth <= 0 {
		opts.MaxWidth = DefaultMaxWidth
	}

	r := lipgloss.NewRenderer(w)

	return &Toast{
		w:        w,
		maxWidth: opts.MaxWidth,
		showID:   opts.ShowRequestID,
		box: r.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("196")).
			Background(lipgloss.Color("#222222")).
			Foreground(lipgloss.Color("#FFFFFF")).
			Padding(0, 2),
		icon:  r.NewStyle().Foreground(lipgloss.Color("196")).Bold(true),
		muted: r.NewStyle().Foreground(lipgloss.Color("245")),
	}
}

// Notify writes the rendered toast
func (t *Toast) Notify(_ context.Context, n Notification) {
	out := t.Render(n)

	t.mu.Lock()
	defer t.mu.Unlock()
	_, _ = fmt.Fprintln(t.w, out)
}

// Render returns the toast for n without writing it
func (t *Toast) Render(n Notification) string {
	icon := "i"
	if n.Level == LevelError {
		icon = "✕"
	}

	body := t.icon.Render(icon) + " " + n.Message
	if t.showID && n.RequestID != "" {
		body += "\n" + t.muted.Render("request "+n.RequestID)
	}

	style := t.box
	// content width excludes padding and border
	if lipgloss.Width(body) > t.maxWidth-6 {
		style = style.Width(t.maxWidth - 2)
	}
	return style.Render(body)
}
