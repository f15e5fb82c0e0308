package domain

import "strings"

// defaultDeploymentName is used when a repository reference has no trailing path segment.
const defaultDeploymentName = "new-deployment"

// Repository represents the git repository being deployed.
type Repository struct {
	Owner     string
	Name      string
	RemoteURL string
}

// DeploymentName returns the trailing path segment of a repository reference,
// e.g. "widget" for "https://github.com/acme/widget".
// A reference ending in "/" yields "new-deployment".
func DeploymentName(ref string) string {
	ref = strings.TrimSpace(ref)
	if i := strings.LastIndexByte(ref, '/'); i >= 0 {
		ref = ref[i+1:]
	}
	if ref == "" {
		return defaultDeploymentName
	}
	return ref
}
