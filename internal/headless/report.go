package headless

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/waabox/deploybot/internal/domain"
	"github.com/waabox/deploybot/internal/notify"
	"github.com/waabox/deploybot/internal/pipeline"
	"github.com/waabox/deploybot/internal/tui"
)

// Event is a notification raised during the run.
type Event struct {
	Kind    notify.Kind `json:"kind"`
	Message string      `json:"message"`
}

// Report collects everything a headless run produced.
type Report struct {
	Repository     string                       `json:"repository"`
	Phase          pipeline.Phase               `json:"phase"`
	CodeAnalysis   *domain.CodeAnalysisResult   `json:"code_analysis,omitempty"`
	Security       *domain.SecurityResult       `json:"security_scan,omitempty"`
	Infrastructure *domain.InfrastructureResult `json:"infrastructure,omitempty"`
	Deployment     *domain.DeploymentSummary    `json:"deployment_summary,omitempty"`
	NewDeployment  *domain.Deployment           `json:"new_deployment,omitempty"`
	Events         []Event                      `json:"events"`
}

func (r Report) withResults(ctrl pipeline.Controller) Report {
	r.Phase = ctrl.Phase()
	if v, ok := ctrl.CodeAnalysis(); ok {
		r.CodeAnalysis = &v
	}
	if v, ok := ctrl.Security(); ok {
		r.Security = &v
	}
	if v, ok := ctrl.Infrastructure(); ok {
		r.Infrastructure = &v
	}
	if v, ok := ctrl.DeploymentSummary(); ok {
		r.Deployment = &v
		if deployments := ctrl.Deployments(); len(deployments) > 0 {
			d := deployments[0]
			r.NewDeployment = &d
		}
	}
	return r
}

// Deployed reports whether the deployment orchestration call succeeded.
func (r Report) Deployed() bool {
	return r.Deployment != nil
}

// Failures returns the messages of every error event.
func (r Report) Failures() []string {
	var out []string
	for _, e := range r.Events {
		if e.Kind == notify.KindError {
			out = append(out, e.Message)
		}
	}
	return out
}

// WriteJSON writes the report as indented JSON.
func (r Report) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(r); err != nil {
		return fmt.Errorf("encoding report: %w", err)
	}
	return nil
}

// WriteText writes the report in the same layout the dashboard uses.
func (r Report) WriteText(w io.Writer) error {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("deploybot | %s (%s)\n", r.Repository, r.Phase))
	for _, e := range r.Events {
		sb.WriteString(fmt.Sprintf("  [%s] %s\n", e.Kind, e.Message))
	}
	sections := []struct {
		title  string
		result domain.PhaseResult
	}{
		{"Code Analysis", deref(r.CodeAnalysis)},
		{"Security Scan", deref(r.Security)},
		{"Infrastructure", deref(r.Infrastructure)},
		{"Deployment Summary", deref(r.Deployment)},
	}
	for _, s := range sections {
		if s.result == nil {
			continue
		}
		sb.WriteString("\n== " + s.title + " ==\n")
		sb.WriteString(tui.RenderResult(s.result))
	}
	if r.NewDeployment != nil {
		sb.WriteString(fmt.Sprintf("\nDeployment %s of %s started on %s\n",
			r.NewDeployment.ID, r.NewDeployment.Name, r.NewDeployment.Platform))
	}
	_, err := io.WriteString(w, sb.String())
	return err
}

// deref turns a nil result pointer into a nil interface.
func deref[T domain.PhaseResult](v *T) domain.PhaseResult {
	if v == nil {
		return nil
	}
	return *v
}
