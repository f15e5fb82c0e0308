package pipeline

import (
	"fmt"

	"github.com/waabox/deploybot/internal/agent"
	"github.com/waabox/deploybot/internal/domain"
)

// Phase is the active stage of the deployment pipeline.
type Phase string

const (
	PhaseIdle           Phase = "idle"
	PhaseCode           Phase = "code"
	PhaseSecurity       Phase = "security"
	PhaseInfrastructure Phase = "infrastructure"
	PhaseReview         Phase = "review"
)

// Loading marks the agent call currently in flight, if any.
type Loading string

const (
	LoadingNone           Loading = ""
	LoadingCode           Loading = "code"
	LoadingSecurity       Loading = "security"
	LoadingInfrastructure Loading = "infrastructure"
	LoadingDeploy         Loading = "deploy"
)

// step describes one agent-backed stage of the pipeline.
type step struct {
	loading    Loading
	capability agent.Capability
	kind       domain.ResultKind
	prompt     string
	decode     func(domain.AgentResponse) (domain.PhaseResult, error)
	next       Phase

	succeeded  string
	rejected   string
	callFailed string
}

func (s step) promptFor(repoRef string) string {
	return fmt.Sprintf(s.prompt, repoRef)
}

// failureMessage returns the notification text for a failed call.
// callErr is non-nil when the call itself failed.
func (s step) failureMessage(callErr error) string {
	if callErr != nil {
		return s.callFailed
	}
	return s.rejected
}

var steps = map[Loading]step{
	LoadingCode: {
		loading:    LoadingCode,
		capability: agent.CodeAnalysis,
		kind:       domain.KindCodeAnalysis,
		prompt:     "Analyze repository: %s",
		decode:     decodeAs[domain.CodeAnalysisResult],
		next:       PhaseSecurity,
		succeeded:  "Code analysis completed",
		rejected:   "Code analysis failed",
		callFailed: "Code analysis phase failed",
	},
	LoadingSecurity: {
		loading:    LoadingSecurity,
		capability: agent.SecurityScanner,
		kind:       domain.KindSecurity,
		prompt:     "Security scan for repository: %s",
		decode:     decodeAs[domain.SecurityResult],
		next:       PhaseInfrastructure,
		succeeded:  "Security scan completed",
		rejected:   "Security scan failed",
		callFailed: "Security phase failed",
	},
	LoadingInfrastructure: {
		loading:    LoadingInfrastructure,
		capability: agent.Infrastructure,
		kind:       domain.KindInfrastructure,
		prompt:     "Infrastructure provisioning for repository: %s",
		decode:     decodeAs[domain.InfrastructureResult],
		next:       PhaseReview,
		succeeded:  "Infrastructure planning completed",
		rejected:   "Infrastructure planning failed",
		callFailed: "Infrastructure phase failed",
	},
	LoadingDeploy: {
		loading:    LoadingDeploy,
		capability: agent.DeploymentOrchestrator,
		kind:       domain.KindDeployment,
		prompt:     "Deploy repository: %s",
		decode:     decodeAs[domain.DeploymentSummary],
		succeeded:  "Deployment approved and initiated!",
		rejected:   "Deployment orchestration failed",
		callFailed: "Deployment failed",
	},
}

// phaseLoading maps each analysis phase to the call it issues on entry.
var phaseLoading = map[Phase]Loading{
	PhaseCode:           LoadingCode,
	PhaseSecurity:       LoadingSecurity,
	PhaseInfrastructure: LoadingInfrastructure,
}

func decodeAs[T domain.PhaseResult](resp domain.AgentResponse) (domain.PhaseResult, error) {
	var v T
	if err := resp.DecodeResult(&v); err != nil {
		return nil, err
	}
	return v, nil
}
