package agent

import "fmt"

// Capability names one of the agent-backed features of the pipeline.
type Capability string

const (
	CodeAnalysis           Capability = "code_analysis"
	SecurityScanner        Capability = "security_scanner"
	Infrastructure         Capability = "infrastructure"
	DeploymentOrchestrator Capability = "deployment_orchestrator"
	ChatAssistant          Capability = "chat_assistant"
)

// Default agent identities, one per capability.
const (
	DefaultCodeAnalysisID           = "6985adf57551cb7920ffea13"
	DefaultSecurityScannerID        = "6985ae172a763ad393eee3d8"
	DefaultInfrastructureID         = "6985ae3d2a763ad393eee3d9"
	DefaultDeploymentOrchestratorID = "6985ae5e2a763ad393eee3da"
	DefaultChatAssistantID          = "6985ae7c85ec6e96582ac263"
)

// Directory maps capabilities to the agent identity that serves them.
type Directory struct {
	entries map[Capability]string
}

// NewDirectory creates a directory pre-populated with the default identities.
func NewDirectory() *Directory {
	return &Directory{entries: map[Capability]string{
		CodeAnalysis:           DefaultCodeAnalysisID,
		SecurityScanner:        DefaultSecurityScannerID,
		Infrastructure:         DefaultInfrastructureID,
		DeploymentOrchestrator: DefaultDeploymentOrchestratorID,
		ChatAssistant:          DefaultChatAssistantID,
	}}
}

// Register associates a capability with an agent identity.
// An empty id leaves the current mapping untouched.
func (d *Directory) Register(c Capability, id string) {
	if id == "" {
		return
	}
	d.entries[c] = id
}

// Lookup returns the agent identity serving the given capability.
func (d *Directory) Lookup(c Capability) (string, error) {
	id, ok := d.entries[c]
	if !ok {
		return "", fmt.Errorf("no agent registered for capability: %s", c)
	}
	return id, nil
}

// MustLookup is like Lookup but panics when the capability is unknown.
// It is meant for the fixed capabilities declared in this package.
func (d *Directory) MustLookup(c Capability) string {
	id, err := d.Lookup(c)
	if err != nil {
		panic(err)
	}
	return id
}
