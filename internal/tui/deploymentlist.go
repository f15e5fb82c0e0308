package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/waabox/deploybot/internal/domain"
)

// DeploymentListModel is an immutable Bubbletea-compatible model for the dashboard deployment list.
type DeploymentListModel struct {
	deployments []domain.Deployment
	cursor      int
}

// NewDeploymentListModel creates a deployment list model with the given deployments.
func NewDeploymentListModel(deployments []domain.Deployment) DeploymentListModel {
	return DeploymentListModel{deployments: deployments, cursor: 0}
}

// MoveDown returns a new model with the cursor moved down by one.
func (m DeploymentListModel) MoveDown() DeploymentListModel {
	if m.cursor < len(m.deployments)-1 {
		m.cursor++
	}
	return m
}

// MoveUp returns a new model with the cursor moved up by one.
func (m DeploymentListModel) MoveUp() DeploymentListModel {
	if m.cursor > 0 {
		m.cursor--
	}
	return m
}

// SelectedIndex returns the current cursor position.
func (m DeploymentListModel) SelectedIndex() int {
	return m.cursor
}

// SelectedDeployment returns the currently highlighted deployment.
// Returns zero-value Deployment if the list is empty.
func (m DeploymentListModel) SelectedDeployment() domain.Deployment {
	if len(m.deployments) == 0 {
		return domain.Deployment{}
	}
	return m.deployments[m.cursor]
}

// Deployments returns the full deployment slice.
func (m DeploymentListModel) Deployments() []domain.Deployment {
	return m.deployments
}

// UpdateDeployments replaces the list, keeping the cursor on the previously
// selected deployment when it is still present.
func (m DeploymentListModel) UpdateDeployments(deployments []domain.Deployment) DeploymentListModel {
	selected := m.SelectedDeployment().ID
	m.deployments = deployments
	m.cursor = 0
	for i, d := range deployments {
		if d.ID == selected {
			m.cursor = i
			break
		}
	}
	return m
}

// View renders the deployment list as a string.
func (m DeploymentListModel) View() string {
	if len(m.deployments) == 0 {
		return "No deployments yet."
	}
	var sb strings.Builder
	for i, d := range m.deployments {
		prefix := "  "
		if i == m.cursor {
			prefix = "> "
		}
		sb.WriteString(fmt.Sprintf("%s%s %-20s %-10s %s\n",
			prefix,
			statusIcon(d.Status),
			truncate(d.Name, 20),
			truncate(d.Platform, 10),
			formatAge(d.LastDeployed),
		))
	}
	return sb.String()
}

func statusIcon(s domain.DeploymentStatus) string {
	switch s {
	case domain.DeploymentSuccess:
		return "✓"
	case domain.DeploymentFailed:
		return "✗"
	case domain.DeploymentInProgress:
		return "●"
	case domain.DeploymentPending:
		return "↷"
	default:
		return "?"
	}
}

func formatAge(t time.Time) string {
	if t.IsZero() {
		return "--"
	}
	d := time.Since(t)
	switch {
	case d < 10*time.Second:
		return "just now"
	case d < time.Minute:
		return fmt.Sprintf("%ds ago", int(d.Seconds()))
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	case d < 48*time.Hour:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	default:
		return fmt.Sprintf("%dd ago", int(d.Hours()/24))
	}
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-1] + "…"
}
