package domain

import "time"

// DeploymentStatus represents the state of a dashboard deployment record.
type DeploymentStatus string

const (
	DeploymentSuccess    DeploymentStatus = "success"
	DeploymentFailed     DeploymentStatus = "failed"
	DeploymentInProgress DeploymentStatus = "in_progress"
	DeploymentPending    DeploymentStatus = "pending"
)

// DefaultPlatform is the platform recorded for a deployment when no
// infrastructure recommendation is available.
const DefaultPlatform = "Railway"

// Deployment is a dashboard record of an approved deployment.
// Records live in memory only.
type Deployment struct {
	ID           string           `json:"id"`
	Name         string           `json:"name"`
	Status       DeploymentStatus `json:"status"`
	LastDeployed time.Time        `json:"last_deployed"`
	Platform     string           `json:"platform"`
	URL          string           `json:"url,omitempty"`
}
