package ui

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"
)

type toastKind int

const (
	toastSuccess toastKind = iota
	toastError
)

// toast is the notification currently shown in the footer. The sequence
// number ties each toast to its own expiry timer, so a new toast is never
// cleared by an old timer firing.
type toast struct {
	text string
	kind toastKind
	seq  int
}

// renderToast renders the active toast, or "" when none is showing.
func (m Model) renderToast(styles Styles, bg BgStyle) string {
	if m.toast.text == "" {
		return ""
	}
	style := styles.SuccessText
	if m.toast.kind == toastError {
		style = styles.DangerText
	}
	return bg.Render(truncate(m.toast.text, m.width/2), style)
}

// Toaster carries notifications from background goroutines into the
// program. The poll scheduler and the edit coordinator hold it as their
// notifier; messages sent before the program starts are queued and
// flushed by Attach.
type Toaster struct {
	mu      sync.Mutex
	program *tea.Program
	queued  []toastMsg
}

// NewToaster returns an unattached Toaster.
func NewToaster() *Toaster {
	return &Toaster{}
}

// Attach binds the Toaster to a running program and flushes anything
// queued while the program was still starting.
func (t *Toaster) Attach(p *tea.Program) {
	t.mu.Lock()
	t.program = p
	queued := t.queued
	t.queued = nil
	t.mu.Unlock()

	for _, msg := range queued {
		p.Send(msg)
	}
}

// Success surfaces a success notification.
func (t *Toaster) Success(message string) {
	t.send(toastMsg{text: message, kind: toastSuccess})
}

// Error surfaces a failure notification.
func (t *Toaster) Error(message string) {
	t.send(toastMsg{text: message, kind: toastError})
}

func (t *Toaster) send(msg toastMsg) {
	t.mu.Lock()
	p := t.program
	if p == nil {
		t.queued = append(t.queued, msg)
		t.mu.Unlock()
		return
	}
	t.mu.Unlock()
	p.Send(msg)
}
