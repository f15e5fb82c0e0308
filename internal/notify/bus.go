// Package notify implements the transient, self-expiring notification queue
// shown on top of every deploybot view.
package notify

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
)

// Kind classifies a notification for rendering.
type Kind string

const (
	KindSuccess Kind = "success"
	KindError   Kind = "error"
	KindWarning Kind = "warning"
	KindInfo    Kind = "info"
)

// Notification is a single user-facing event.
type Notification struct {
	ID        string
	Kind      Kind
	Message   string
	Timestamp time.Time
}

// PostMsg asks the bus to publish a notification.
// Components that must not depend on the bus emit it through Post.
type PostMsg struct {
	Kind    Kind
	Message string
}

// ExpiredMsg is delivered when the lifetime of the notification with ID elapses.
type ExpiredMsg struct {
	ID string
}

// Post returns a command that delivers a PostMsg.
func Post(kind Kind, message string) tea.Cmd {
	return func() tea.Msg {
		return PostMsg{Kind: kind, Message: message}
	}
}

// Bus is an immutable model holding the active notifications.
type Bus struct {
	items []Notification
	ttl   time.Duration
	now   func() time.Time
}

// NewBus creates an empty bus whose notifications live for ttl.
func NewBus(ttl time.Duration) Bus {
	return Bus{ttl: ttl, now: time.Now}
}

// WithClock returns a bus that timestamps notifications with now.
func (b Bus) WithClock(now func() time.Time) Bus {
	b.now = now
	return b
}

// Post appends a notification and returns the command that expires it.
// Each notification gets its own timer, so removing one never changes the
// remaining lifetime of another.
func (b Bus) Post(kind Kind, message string) (Bus, tea.Cmd) {
	n := Notification{
		ID:        uuid.Must(uuid.NewV7()).String(),
		Kind:      kind,
		Message:   message,
		Timestamp: b.now(),
	}
	items := make([]Notification, len(b.items), len(b.items)+1)
	copy(items, b.items)
	b.items = append(items, n)

	id := n.ID
	return b, tea.Tick(b.ttl, func(time.Time) tea.Msg {
		return ExpiredMsg{ID: id}
	})
}

// Dismiss removes the notification with id, if present.
func (b Bus) Dismiss(id string) Bus {
	items := make([]Notification, 0, len(b.items))
	for _, n := range b.items {
		if n.ID != id {
			items = append(items, n)
		}
	}
	b.items = items
	return b
}

// DismissOldest removes the oldest active notification.
func (b Bus) DismissOldest() Bus {
	if len(b.items) == 0 {
		return b
	}
	return b.Dismiss(b.items[0].ID)
}

// Update handles PostMsg and ExpiredMsg. Other messages are ignored.
func (b Bus) Update(msg tea.Msg) (Bus, tea.Cmd) {
	switch msg := msg.(type) {
	case PostMsg:
		return b.Post(msg.Kind, msg.Message)
	case ExpiredMsg:
		return b.Dismiss(msg.ID), nil
	}
	return b, nil
}

// Active returns the notifications currently visible, oldest first.
func (b Bus) Active() []Notification {
	return b.items
}

// Len returns the number of active notifications.
func (b Bus) Len() int {
	return len(b.items)
}
