// Package pipeline implements the phase-sequencing controller that drives a
// repository through code analysis, security scanning and infrastructure
// planning, and gates the deployment call behind explicit approval.
//
// The controller is an immutable bubbletea-style model: every operation
// returns the next Controller and the commands to run. Agent calls and
// delays come back as messages tagged with the run generation they were
// issued under; messages from an earlier generation are dropped, so a reset
// while a call is in flight never leaks into the next run.
package pipeline

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"

	"github.com/waabox/deploybot/internal/agent"
	"github.com/waabox/deploybot/internal/domain"
	"github.com/waabox/deploybot/internal/notify"
)

// Options tunes the controller's fixed delays and fallbacks.
type Options struct {
	// PhaseDelay separates the completion of one analysis phase from the start of the next.
	PhaseDelay time.Duration
	// ResetDelay separates a successful deploy from the pipeline reset.
	ResetDelay time.Duration
	// DefaultPlatform is used for new deployments when infrastructure planning
	// produced no recommendation.
	DefaultPlatform string
	Logger          *slog.Logger
	Now             func() time.Time
}

// CallCompletedMsg carries the outcome of one agent call.
type CallCompletedMsg struct {
	Generation uint64
	Step       Loading
	Response   domain.AgentResponse
	Err        error
}

// AdvanceMsg is delivered when the delay before entering Phase has elapsed.
type AdvanceMsg struct {
	Generation uint64
	Phase      Phase
}

// ResetMsg is delivered when the post-deploy delay has elapsed.
type ResetMsg struct {
	Generation uint64
}

// Controller owns the state of one deployment pipeline and the dashboard's
// deployment list.
type Controller struct {
	ctx     context.Context
	gateway domain.AgentGateway
	agents  *agent.Directory
	opts    Options

	generation  uint64
	phase       Phase
	repoRef     string
	loading     Loading
	results     [domain.NumResultKinds]domain.PhaseResult
	deployments []domain.Deployment
	manualReset bool
}

// New creates an idle controller. ctx bounds every agent call it issues.
func New(ctx context.Context, gateway domain.AgentGateway, agents *agent.Directory, opts Options) Controller {
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return Controller{
		ctx:     ctx,
		gateway: gateway,
		agents:  agents,
		opts:    opts,
		phase:   PhaseIdle,
	}
}

// WithDeployments returns a controller whose dashboard list starts with deployments.
func (c Controller) WithDeployments(deployments []domain.Deployment) Controller {
	c.deployments = append([]domain.Deployment(nil), deployments...)
	return c
}

// WithoutAutoReset returns a controller that keeps its results after a
// successful deploy instead of scheduling the post-deploy reset.
func (c Controller) WithoutAutoReset() Controller {
	c.manualReset = true
	return c
}

// Start begins a pipeline run for repoRef.
// A blank reference or a run already in progress leaves the state unchanged
// and only emits a notification.
func (c Controller) Start(repoRef string) (Controller, tea.Cmd) {
	ref := strings.TrimSpace(repoRef)
	if ref == "" {
		return c, notify.Post(notify.KindError, "Please enter a repository URL")
	}
	if c.phase != PhaseIdle {
		return c, notify.Post(notify.KindWarning, "A deployment pipeline is already running")
	}
	c.generation++
	c.repoRef = ref
	c.opts.Logger.Info("pipeline started", "repository", ref, "generation", c.generation)
	return c.enter(PhaseCode)
}

// ApproveAndDeploy issues the deployment orchestration call.
// It only acts in the review phase, while no deploy call is in flight and
// before the current run has been deployed.
func (c Controller) ApproveAndDeploy() (Controller, tea.Cmd) {
	if !c.CanDeploy() {
		return c, nil
	}
	c.loading = LoadingDeploy
	c.opts.Logger.Info("deployment approved", "repository", c.repoRef, "generation", c.generation)
	return c, c.invoke(steps[LoadingDeploy])
}

// CanDeploy reports whether ApproveAndDeploy would issue a call.
func (c Controller) CanDeploy() bool {
	return c.phase == PhaseReview &&
		c.loading == LoadingNone &&
		c.results[domain.KindDeployment] == nil
}

// Reset clears every result slot, the loading marker and the repository
// reference, and returns the pipeline to idle. The deployment list is kept.
func (c Controller) Reset() Controller {
	c.generation++
	c.phase = PhaseIdle
	c.repoRef = ""
	c.loading = LoadingNone
	c.results = [domain.NumResultKinds]domain.PhaseResult{}
	return c
}

// Update handles the controller's own messages. Other messages are ignored.
func (c Controller) Update(msg tea.Msg) (Controller, tea.Cmd) {
	switch msg := msg.(type) {
	case CallCompletedMsg:
		if msg.Generation != c.generation || msg.Step != c.loading {
			c.opts.Logger.Debug("dropping stale agent completion",
				"step", string(msg.Step), "generation", msg.Generation, "current", c.generation)
			return c, nil
		}
		if msg.Step == LoadingDeploy {
			return c.completeDeploy(msg)
		}
		return c.completeAnalysis(msg)

	case AdvanceMsg:
		if msg.Generation != c.generation {
			return c, nil
		}
		return c.enter(msg.Phase)

	case ResetMsg:
		if msg.Generation != c.generation {
			return c, nil
		}
		c.opts.Logger.Info("pipeline reset after deployment", "generation", c.generation)
		return c.Reset(), nil
	}
	return c, nil
}

func (c Controller) enter(p Phase) (Controller, tea.Cmd) {
	loading, ok := phaseLoading[p]
	if !ok {
		return c, nil
	}
	c.phase = p
	c.loading = loading
	c.opts.Logger.Info("phase started", "phase", string(p), "generation", c.generation)
	return c, c.invoke(steps[loading])
}

func (c Controller) invoke(s step) tea.Cmd {
	ctx, gateway, generation := c.ctx, c.gateway, c.generation
	agentID := c.agents.MustLookup(s.capability)
	prompt := s.promptFor(c.repoRef)
	return func() tea.Msg {
		resp, err := gateway.Invoke(ctx, prompt, agentID)
		return CallCompletedMsg{
			Generation: generation,
			Step:       s.loading,
			Response:   resp,
			Err:        err,
		}
	}
}

// completeAnalysis stores the phase result (or reports the failure) and
// schedules the next phase. Failures never halt the pipeline.
func (c Controller) completeAnalysis(msg CallCompletedMsg) (Controller, tea.Cmd) {
	s := steps[msg.Step]
	c.loading = LoadingNone
	note := c.record(s, msg)

	if s.next == PhaseReview {
		c.phase = PhaseReview
		c.opts.Logger.Info("pipeline ready for review", "generation", c.generation)
		return c, note
	}

	generation, next := c.generation, s.next
	advance := tea.Tick(c.opts.PhaseDelay, func(time.Time) tea.Msg {
		return AdvanceMsg{Generation: generation, Phase: next}
	})
	return c, tea.Batch(note, advance)
}

// completeDeploy records the deployment and schedules the reset. A failed
// deploy leaves the review state untouched so it can be retried.
func (c Controller) completeDeploy(msg CallCompletedMsg) (Controller, tea.Cmd) {
	s := steps[LoadingDeploy]
	c.loading = LoadingNone
	note := c.record(s, msg)
	if c.results[domain.KindDeployment] == nil {
		return c, note
	}

	deployment := domain.Deployment{
		ID:           uuid.Must(uuid.NewV7()).String(),
		Name:         domain.DeploymentName(c.repoRef),
		Status:       domain.DeploymentInProgress,
		LastDeployed: c.opts.Now(),
		Platform:     c.platform(),
	}
	deployments := make([]domain.Deployment, 0, len(c.deployments)+1)
	c.deployments = append(append(deployments, deployment), c.deployments...)
	if c.manualReset {
		return c, note
	}

	generation := c.generation
	reset := tea.Tick(c.opts.ResetDelay, func(time.Time) tea.Msg {
		return ResetMsg{Generation: generation}
	})
	return c, tea.Batch(note, reset)
}

// record stores the decoded result of msg, or logs the failure, and returns
// the matching notification command.
func (c *Controller) record(s step, msg CallCompletedMsg) tea.Cmd {
	var result domain.PhaseResult
	err := msg.Err
	if err == nil {
		result, err = s.decode(msg.Response)
	}
	if err != nil {
		c.opts.Logger.Warn("agent call failed",
			"step", string(s.loading), "capability", string(s.capability), "error", err)
		return notify.Post(notify.KindError, s.failureMessage(msg.Err))
	}
	c.results[s.kind] = result
	c.opts.Logger.Info("agent call succeeded", "step", string(s.loading))
	return notify.Post(notify.KindSuccess, s.succeeded)
}

func (c Controller) platform() string {
	if infra, ok := c.Infrastructure(); ok && infra.RecommendedPlatform != "" {
		return infra.RecommendedPlatform
	}
	if c.opts.DefaultPlatform != "" {
		return c.opts.DefaultPlatform
	}
	return domain.DefaultPlatform
}

// Phase returns the active phase.
func (c Controller) Phase() Phase { return c.phase }

// RepoRef returns the repository reference of the current run.
func (c Controller) RepoRef() string { return c.repoRef }

// Loading returns the call currently in flight.
func (c Controller) Loading() Loading { return c.loading }

// Generation returns the current run generation.
func (c Controller) Generation() uint64 { return c.generation }

// Deployments returns the dashboard deployment list, newest first.
func (c Controller) Deployments() []domain.Deployment { return c.deployments }

// Result returns the stored result of the given kind.
func (c Controller) Result(kind domain.ResultKind) (domain.PhaseResult, bool) {
	if kind < 0 || kind >= domain.NumResultKinds {
		return nil, false
	}
	r := c.results[kind]
	return r, r != nil
}

// Results returns every stored result in pipeline order.
func (c Controller) Results() []domain.PhaseResult {
	var out []domain.PhaseResult
	for _, r := range c.results {
		if r != nil {
			out = append(out, r)
		}
	}
	return out
}

// CodeAnalysis returns the code analysis result, if stored.
func (c Controller) CodeAnalysis() (domain.CodeAnalysisResult, bool) {
	r, ok := c.results[domain.KindCodeAnalysis].(domain.CodeAnalysisResult)
	return r, ok
}

// Security returns the security scan result, if stored.
func (c Controller) Security() (domain.SecurityResult, bool) {
	r, ok := c.results[domain.KindSecurity].(domain.SecurityResult)
	return r, ok
}

// Infrastructure returns the infrastructure plan, if stored.
func (c Controller) Infrastructure() (domain.InfrastructureResult, bool) {
	r, ok := c.results[domain.KindInfrastructure].(domain.InfrastructureResult)
	return r, ok
}

// DeploymentSummary returns the deployment orchestration result, if stored.
func (c Controller) DeploymentSummary() (domain.DeploymentSummary, bool) {
	r, ok := c.results[domain.KindDeployment].(domain.DeploymentSummary)
	return r, ok
}
