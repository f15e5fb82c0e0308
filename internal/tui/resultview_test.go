package tui_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/waabox/deploybot/internal/domain"
	"github.com/waabox/deploybot/internal/tui"
)

func TestRenderResult_CodeAnalysis(t *testing.T) {
	view := tui.RenderResult(domain.CodeAnalysisResult{
		TechStack:      domain.TechStack{Language: "Go", Framework: "chi"},
		ReadinessScore: 72,
		Blockers: []domain.Blocker{
			{Severity: "high", Location: "main.go", Description: "hard-coded port", AutoFix: "os.Getenv(\"PORT\")"},
		},
		Recommendations: []string{"add a Dockerfile"},
	})

	assert.Contains(t, view, "72/100")
	assert.Contains(t, view, "Go / chi")
	assert.Contains(t, view, "Issues Found (1)")
	assert.Contains(t, view, "hard-coded port")
	assert.Contains(t, view, "add a Dockerfile")
	assert.NotContains(t, view, "os.Getenv", "fixes stay collapsed")
}

func TestRenderResult_Security(t *testing.T) {
	view := tui.RenderResult(domain.SecurityResult{
		SecurityClearance: "conditional",
		RiskLevel:         "medium",
		ExposedCredentials: []domain.ExposedCredential{
			{Type: "AWS key", Location: ".env", Severity: "critical"},
		},
		Vulnerabilities: []domain.Vulnerability{
			{Package: "lodash", CurrentVersion: "4.17.11", CVEID: "CVE-2019-10744", Severity: "high"},
		},
		SecurityHeaders: domain.SecurityHeaders{Missing: []string{"Content-Security-Policy"}},
		Compliance:      domain.Compliance{SOC2Ready: true},
	})

	assert.Contains(t, view, "conditional (risk: medium)")
	assert.Contains(t, view, "Findings (2)")
	assert.Contains(t, view, "Exposed AWS key")
	assert.Contains(t, view, "CVE-2019-10744")
	assert.Contains(t, view, "Content-Security-Policy")
}

func TestRenderResult_Infrastructure(t *testing.T) {
	view := tui.RenderResult(domain.InfrastructureResult{
		RecommendedPlatform: "Railway",
		EstimatedTime:       "10 minutes",
		InfrastructureDesign: domain.InfrastructureDesign{
			Services: []domain.Service{{Name: "web", Type: "web", Scaling: domain.ServiceScaling{MinInstances: 1, MaxInstances: 3}}},
		},
		CostEstimate:      domain.CostEstimate{MonthlyCost: domain.MonthlyCost{Compute: 5, Total: 12.5}},
		ProvisioningSteps: []string{"create project", "attach database"},
	})

	assert.Contains(t, view, "Railway")
	assert.Contains(t, view, "1-3 instances")
	assert.Contains(t, view, "Monthly Total 12.50")
	assert.Contains(t, view, "2. attach database")
}

func TestRenderResult_DeploymentSummary(t *testing.T) {
	view := tui.RenderResult(domain.DeploymentSummary{
		DeploymentDecision:    "approve",
		OverallReadinessScore: 88,
		NextSteps:             []string{"monitor logs"},
	})

	assert.Contains(t, view, "APPROVE")
	assert.Contains(t, view, " 88/100")
	assert.Contains(t, view, "1. monitor logs")
}

func TestRenderResult_ScoreIsClamped(t *testing.T) {
	view := tui.RenderResult(domain.CodeAnalysisResult{ReadinessScore: 140})
	assert.Contains(t, view, "140/100 [██████████]")
}
