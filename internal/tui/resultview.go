package tui

import (
	"fmt"
	"strings"

	"github.com/waabox/deploybot/internal/domain"
)

// RenderResult renders a phase result as plain text with every finding collapsed.
func RenderResult(r domain.PhaseResult) string {
	return renderResult(r, NewFindingListModel(findingsFor(r)))
}

// findingsFor returns the navigable findings of r. Only code analysis and
// security results have any.
func findingsFor(r domain.PhaseResult) []Finding {
	switch r := r.(type) {
	case domain.CodeAnalysisResult:
		return blockerFindings(r)
	case domain.SecurityResult:
		return securityFindings(r)
	}
	return nil
}

func renderResult(r domain.PhaseResult, findings FindingListModel) string {
	switch r := r.(type) {
	case domain.CodeAnalysisResult:
		return renderCodeAnalysis(r, findings)
	case domain.SecurityResult:
		return renderSecurity(r, findings)
	case domain.InfrastructureResult:
		return renderInfrastructure(r)
	case domain.DeploymentSummary:
		return renderDeploymentSummary(r)
	}
	return ""
}

func renderCodeAnalysis(r domain.CodeAnalysisResult, findings FindingListModel) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(" Readiness   %s\n", scoreBar(r.ReadinessScore)))
	sb.WriteString(fmt.Sprintf(" Stack       %s\n", joinNonEmpty(" / ",
		r.TechStack.Language, r.TechStack.Framework, r.TechStack.PackageManager, r.TechStack.RuntimeVersion)))
	sb.WriteString(fmt.Sprintf("\n Issues Found (%d)\n", len(r.Blockers)))
	sb.WriteString(findings.View())
	writeList(&sb, "Recommendations", r.Recommendations)
	return sb.String()
}

func renderSecurity(r domain.SecurityResult, findings FindingListModel) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(" Clearance   %s (risk: %s)\n", orDash(r.SecurityClearance), orDash(r.RiskLevel)))
	sb.WriteString(fmt.Sprintf(" Score       %s\n", scoreBar(r.OverallScore)))
	sb.WriteString(fmt.Sprintf(" Compliance  SOC2 %s  GDPR %s\n", check(r.Compliance.SOC2Ready), check(r.Compliance.GDPRReady)))
	sb.WriteString(fmt.Sprintf("\n Findings (%d)\n", len(r.ExposedCredentials)+len(r.Vulnerabilities)))
	sb.WriteString(findings.View())
	writeList(&sb, "Missing Security Headers", r.SecurityHeaders.Missing)
	writeList(&sb, "Compliance Issues", r.Compliance.Issues)
	return sb.String()
}

func renderInfrastructure(r domain.InfrastructureResult) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(" Platform    %s\n", orDash(r.RecommendedPlatform)))
	if r.PlatformJustification != "" {
		sb.WriteString("             " + r.PlatformJustification + "\n")
	}
	sb.WriteString(fmt.Sprintf(" Est. time   %s\n", orDash(r.EstimatedTime)))

	if len(r.InfrastructureDesign.Services) > 0 {
		sb.WriteString("\n Services\n")
		for _, s := range r.InfrastructureDesign.Services {
			sb.WriteString(fmt.Sprintf("   %-20s %-10s %-12s %d-%d instances\n",
				truncate(s.Name, 20), s.Type, s.InstanceType, s.Scaling.MinInstances, s.Scaling.MaxInstances))
		}
	}
	for _, db := range r.InfrastructureDesign.Databases {
		sb.WriteString(fmt.Sprintf("   database %s %s backup=%s\n", db.Type, db.Size, check(db.Backup)))
	}

	cost := r.CostEstimate.MonthlyCost
	currency := r.CostEstimate.Currency
	if currency == "" {
		currency = "USD"
	}
	sb.WriteString(fmt.Sprintf("\n Monthly cost (%s)\n", currency))
	sb.WriteString(fmt.Sprintf("   compute %.2f  database %.2f  networking %.2f  storage %.2f\n",
		cost.Compute, cost.Database, cost.Networking, cost.Storage))
	sb.WriteString(fmt.Sprintf("   Monthly Total %.2f\n", cost.Total))

	cfg := r.DeploymentConfig
	if cfg.BuildCommand != "" || cfg.StartCommand != "" {
		sb.WriteString("\n Deployment config\n")
		sb.WriteString(fmt.Sprintf("   build   %s\n   start   %s\n", orDash(cfg.BuildCommand), orDash(cfg.StartCommand)))
		if cfg.Port > 0 {
			sb.WriteString(fmt.Sprintf("   port    %d\n", cfg.Port))
		}
		if cfg.HealthCheck != "" {
			sb.WriteString("   health  " + cfg.HealthCheck + "\n")
		}
	}
	writeSteps(&sb, "Provisioning Steps", r.ProvisioningSteps)
	return sb.String()
}

func renderDeploymentSummary(r domain.DeploymentSummary) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(" Decision    %s\n", strings.ToUpper(orDash(r.DeploymentDecision))))
	if r.DecisionJustification != "" {
		sb.WriteString("             " + r.DecisionJustification + "\n")
	}
	sb.WriteString(fmt.Sprintf(" Readiness   %s\n", scoreBar(r.OverallReadinessScore)))
	if r.EstimatedDeploymentTime != "" {
		sb.WriteString(fmt.Sprintf(" Est. time   %s\n", r.EstimatedDeploymentTime))
	}
	sb.WriteString(fmt.Sprintf("\n Code        %s (%d critical blockers)\n",
		orDash(r.CodeAnalysisSummary.Status), r.CodeAnalysisSummary.CriticalBlockers))
	sb.WriteString(fmt.Sprintf(" Security    %s (%d critical vulnerabilities)\n",
		orDash(r.SecuritySummary.Status), r.SecuritySummary.CriticalVulnerabilities))
	sb.WriteString(fmt.Sprintf(" Infra       %s on %s, %.2f/month\n",
		orDash(r.InfrastructureSummary.Status), orDash(r.InfrastructureSummary.RecommendedPlatform),
		r.InfrastructureSummary.EstimatedMonthlyCost))
	writeSteps(&sb, "Next Steps", r.NextSteps)
	return sb.String()
}

// scoreBar renders a 0-100 score with a ten cell bar.
func scoreBar(score float64) string {
	clamped := score
	if clamped < 0 {
		clamped = 0
	}
	if clamped > 100 {
		clamped = 100
	}
	filled := int(clamped / 10)
	return fmt.Sprintf("%3.0f/100 [%s%s]", score, strings.Repeat("█", filled), strings.Repeat("░", 10-filled))
}

func writeList(sb *strings.Builder, title string, items []string) {
	if len(items) == 0 {
		return
	}
	sb.WriteString("\n " + title + "\n")
	for _, item := range items {
		sb.WriteString("   • " + item + "\n")
	}
}

func writeSteps(sb *strings.Builder, title string, items []string) {
	if len(items) == 0 {
		return
	}
	sb.WriteString("\n " + title + "\n")
	for i, item := range items {
		sb.WriteString(fmt.Sprintf("   %d. %s\n", i+1, item))
	}
}

func joinNonEmpty(sep string, parts ...string) string {
	var kept []string
	for _, p := range parts {
		if p != "" {
			kept = append(kept, p)
		}
	}
	return orDash(strings.Join(kept, sep))
}

func orDash(s string) string {
	if s == "" {
		return "--"
	}
	return s
}

func check(ok bool) string {
	if ok {
		return "✓"
	}
	return "✗"
}
