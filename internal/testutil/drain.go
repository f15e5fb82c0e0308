package testutil

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

const maxDrainSteps = 1000

// Drain executes cmd synchronously, passes each produced message to update,
// and keeps executing the commands update returns until none are left.
// Batches are flattened in order. It returns every delivered message.
func Drain(t testing.TB, cmd tea.Cmd, update func(tea.Msg) tea.Cmd) []tea.Msg {
	t.Helper()

	var delivered []tea.Msg
	queue := []tea.Cmd{cmd}
	for steps := 0; len(queue) > 0; steps++ {
		if steps > maxDrainSteps {
			t.Fatalf("command queue did not settle after %d steps", maxDrainSteps)
		}
		next := queue[0]
		queue = queue[1:]
		if next == nil {
			continue
		}
		msg := next()
		if batch, ok := msg.(tea.BatchMsg); ok {
			queue = append(queue, batch...)
			continue
		}
		if msg == nil {
			continue
		}
		delivered = append(delivered, msg)
		queue = append(queue, update(msg))
	}
	return delivered
}
