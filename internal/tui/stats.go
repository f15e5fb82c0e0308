package tui

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/waabox/deploybot/internal/domain"
)

// DashboardStats summarizes the deployment list.
type DashboardStats struct {
	Total  int
	Active int
	// SuccessRate is the share of finished deployments that succeeded, in
	// percent. It is zero when nothing has finished yet.
	SuccessRate float64
	Platforms   []string
}

// ComputeStats derives the dashboard statistics from deployments.
func ComputeStats(deployments []domain.Deployment) DashboardStats {
	stats := DashboardStats{Total: len(deployments)}
	var succeeded, finished int
	seen := map[string]bool{}
	for _, d := range deployments {
		switch d.Status {
		case domain.DeploymentSuccess:
			succeeded++
			finished++
		case domain.DeploymentFailed:
			finished++
		case domain.DeploymentInProgress:
			stats.Active++
		}
		if d.Platform != "" && !seen[d.Platform] {
			seen[d.Platform] = true
			stats.Platforms = append(stats.Platforms, d.Platform)
		}
	}
	if finished > 0 {
		stats.SuccessRate = float64(succeeded) * 100 / float64(finished)
	}
	sort.Strings(stats.Platforms)
	return stats
}

func (s DashboardStats) render(st styles) string {
	card := func(label, value string) string {
		return st.statCard.Render(st.statLabel.Render(label) + "\n" + st.statValue.Render(value))
	}
	platforms := "--"
	if len(s.Platforms) > 0 {
		platforms = strings.Join(s.Platforms, ", ")
	}
	return lipgloss.JoinHorizontal(lipgloss.Top,
		card("Total Deployments", fmt.Sprintf("%d", s.Total)),
		card("Success Rate", fmt.Sprintf("%.0f%%", s.SuccessRate)),
		card("Active Services", fmt.Sprintf("%d", s.Active)),
		card("Platforms", platforms),
	)
}

// SampleDeployments returns the deployments the dashboard shows on first launch.
func SampleDeployments(now time.Time) []domain.Deployment {
	return []domain.Deployment{
		{
			ID:           "1",
			Name:         "sample-repo",
			Status:       domain.DeploymentSuccess,
			LastDeployed: now.Add(-2 * time.Hour),
			Platform:     "Railway",
			URL:          "https://sample.railway.app",
		},
		{
			ID:           "2",
			Name:         "api-service",
			Status:       domain.DeploymentInProgress,
			LastDeployed: now.Add(-5 * time.Minute),
			Platform:     "AWS",
		},
		{
			ID:           "3",
			Name:         "frontend-app",
			Status:       domain.DeploymentSuccess,
			LastDeployed: now.Add(-24 * time.Hour),
			Platform:     "Vercel",
			URL:          "https://frontend.vercel.app",
		},
	}
}
