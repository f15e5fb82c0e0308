package tui_test

import (
	"context"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/waabox/deploybot/internal/agent"
	"github.com/waabox/deploybot/internal/chat"
	"github.com/waabox/deploybot/internal/domain"
	"github.com/waabox/deploybot/internal/notify"
	"github.com/waabox/deploybot/internal/pipeline"
	"github.com/waabox/deploybot/internal/testutil"
	"github.com/waabox/deploybot/internal/tui"
)

func newApp(gw *testutil.FakeGateway, prefill string) tui.AppModel {
	ctx := context.Background()
	ctrl := pipeline.New(ctx, gw, agent.NewDirectory(), pipeline.Options{
		PhaseDelay: time.Millisecond,
		ResetDelay: time.Millisecond,
	}).WithDeployments(tui.SampleDeployments(time.Now()))
	return tui.NewAppModel(tui.Options{
		Controller:      ctrl,
		Chat:            chat.NewSession(ctx, gw, agent.DefaultChatAssistantID, nil),
		NotificationTTL: time.Hour,
		RepoRef:         prefill,
	})
}

func press(m tui.AppModel, key string) (tui.AppModel, tea.Cmd) {
	var msg tea.KeyMsg
	switch key {
	case "enter":
		msg = tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		msg = tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		msg = tea.KeyMsg{Type: tea.KeyTab}
	case "down":
		msg = tea.KeyMsg{Type: tea.KeyDown}
	default:
		msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)}
	}
	updated, cmd := m.Update(msg)
	return updated.(tui.AppModel), cmd
}

// drain runs cmd to completion against m, skipping notification expiry
// timers so posted notifications stay visible.
func drain(t *testing.T, m tui.AppModel, cmd tea.Cmd) tui.AppModel {
	t.Helper()
	testutil.Drain(t, cmd, func(msg tea.Msg) tea.Cmd {
		updated, next := m.Update(msg)
		m = updated.(tui.AppModel)
		if _, ok := msg.(notify.PostMsg); ok {
			return nil
		}
		return next
	})
	return m
}

func analysisGateway() *testutil.FakeGateway {
	return testutil.NewFakeGateway().
		On(agent.DefaultCodeAnalysisID, testutil.Success(domain.CodeAnalysisResult{
			ReadinessScore: 81,
			Blockers:       []domain.Blocker{{Severity: "high", Description: "hard-coded port", AutoFix: "read PORT"}},
		})).
		On(agent.DefaultSecurityScannerID, testutil.Success(domain.SecurityResult{SecurityClearance: "approved"})).
		On(agent.DefaultInfrastructureID, testutil.Success(domain.InfrastructureResult{RecommendedPlatform: "Fly.io"}))
}

func TestApp_Dashboard_ShowsSampleDeploymentsAndStats(t *testing.T) {
	m := newApp(testutil.NewFakeGateway(), "")
	view := m.View()

	for _, want := range []string{"sample-repo", "api-service", "frontend-app", "Total Deployments", "Success Rate", "100%"} {
		if !strings.Contains(view, want) {
			t.Errorf("expected %q in dashboard, got:\n%s", want, view)
		}
	}
}

func TestApp_NewDeployment_PrefillsRepository(t *testing.T) {
	m := newApp(testutil.NewFakeGateway(), "https://github.com/acme/widget")

	m, _ = press(m, "n")
	view := m.View()

	if !strings.Contains(view, "New Deployment") {
		t.Errorf("expected new deployment view, got:\n%s", view)
	}
	if !strings.Contains(view, "acme/widget") {
		t.Errorf("expected prefilled repository, got:\n%s", view)
	}
}

func TestApp_BlankRepository_ShowsError(t *testing.T) {
	m := newApp(testutil.NewFakeGateway(), "")

	m, _ = press(m, "n")
	m, cmd := press(m, "enter")
	if cmd == nil {
		t.Fatal("expected a notification command")
	}
	m = drain(t, m, cmd)

	if !strings.Contains(m.View(), "Please enter a repository URL") {
		t.Errorf("expected error notification, got:\n%s", m.View())
	}
}

func TestApp_DismissNotification(t *testing.T) {
	m := newApp(testutil.NewFakeGateway(), "")
	updated, _ := m.Update(notify.PostMsg{Kind: notify.KindInfo, Message: "hello there"})
	m = updated.(tui.AppModel)
	if !strings.Contains(m.View(), "hello there") {
		t.Fatalf("expected notification in view, got:\n%s", m.View())
	}

	m, _ = press(m, "x")

	if strings.Contains(m.View(), "hello there") {
		t.Errorf("expected notification dismissed, got:\n%s", m.View())
	}
}

func TestApp_PipelineReachesReview(t *testing.T) {
	m := newApp(analysisGateway(), "")

	m, _ = press(m, "n")
	m, _ = press(m, "https://github.com/acme/widget")
	m, cmd := press(m, "enter")
	m = drain(t, m, cmd)
	view := m.View()

	if !strings.Contains(view, "Approve & Deploy") {
		t.Errorf("expected review prompt, got:\n%s", view)
	}
	if !strings.Contains(view, "Fly.io") {
		t.Errorf("expected the latest result panel, got:\n%s", view)
	}
	if !strings.Contains(view, "Infrastructure planning completed") {
		t.Errorf("expected success notification, got:\n%s", view)
	}
}

func TestApp_NewDeployment_DiscardsRunningPipeline(t *testing.T) {
	gw := analysisGateway().
		On(agent.DefaultCodeAnalysisID, testutil.Success(domain.CodeAnalysisResult{ReadinessScore: 64}))
	m := newApp(gw, "")
	m, _ = press(m, "n")
	m, _ = press(m, "https://github.com/acme/widget")
	m, stale := press(m, "enter")
	if !strings.Contains(m.View(), "Analyzing code...") {
		t.Fatalf("expected code analysis in flight, got:\n%s", m.View())
	}

	m, _ = press(m, "n")
	view := m.View()
	if strings.Contains(view, "Analyzing code...") {
		t.Errorf("expected the running pipeline to be discarded, got:\n%s", view)
	}
	if !strings.Contains(view, "enter: start analysis") {
		t.Errorf("expected the repository input to be focused, got:\n%s", view)
	}

	m = drain(t, m, stale)
	view = m.View()
	if strings.Contains(view, "Code analysis completed") || strings.Contains(view, "Approve & Deploy") {
		t.Errorf("expected the discarded run's completion to be ignored, got:\n%s", view)
	}
	if len(gw.Calls()) != 1 {
		t.Errorf("expected the discarded run to stop after its pending call, got %d calls", len(gw.Calls()))
	}

	m, cmd := press(m, "enter")
	m = drain(t, m, cmd)
	if !strings.Contains(m.View(), "Approve & Deploy") {
		t.Errorf("expected a fresh run to reach review, got:\n%s", m.View())
	}
}

func TestApp_ResultPanels_CycleAndExpand(t *testing.T) {
	m := newApp(analysisGateway(), "")
	m, _ = press(m, "n")
	m, _ = press(m, "https://github.com/acme/widget")
	m, cmd := press(m, "enter")
	m = drain(t, m, cmd)

	// infrastructure -> deployment (absent) -> code analysis
	m, _ = press(m, "tab")
	if !strings.Contains(m.View(), "hard-coded port") {
		t.Fatalf("expected code analysis panel after tab, got:\n%s", m.View())
	}
	if strings.Contains(m.View(), "read PORT") {
		t.Errorf("expected fix collapsed, got:\n%s", m.View())
	}
	m, _ = press(m, "enter")
	if !strings.Contains(m.View(), "read PORT") {
		t.Errorf("expected fix expanded after enter, got:\n%s", m.View())
	}
}

func TestApp_ApproveDeploy_ReturnsToDashboard(t *testing.T) {
	gw := analysisGateway().On(agent.DefaultDeploymentOrchestratorID,
		testutil.Success(domain.DeploymentSummary{DeploymentDecision: "approve"}))
	m := newApp(gw, "")
	m, _ = press(m, "n")
	m, _ = press(m, "https://github.com/acme/widget")
	m, cmd := press(m, "enter")
	m = drain(t, m, cmd)

	m, cmd = press(m, "a")
	if cmd == nil {
		t.Fatal("expected approve to issue the deployment call")
	}
	m = drain(t, m, cmd)
	view := m.View()

	if !strings.Contains(view, "Dashboard") {
		t.Errorf("expected dashboard after reset, got:\n%s", view)
	}
	if !strings.Contains(view, "widget") {
		t.Errorf("expected new deployment in list, got:\n%s", view)
	}
	if !strings.Contains(view, "Deployment approved and initiated!") {
		t.Errorf("expected deploy notification, got:\n%s", view)
	}
}

func TestApp_StaleResetKeepsView(t *testing.T) {
	m := newApp(testutil.NewFakeGateway(), "")
	m, _ = press(m, "n")

	updated, _ := m.Update(pipeline.ResetMsg{Generation: 0})
	m = updated.(tui.AppModel)

	if !strings.Contains(m.View(), "New Deployment") {
		t.Errorf("expected stale reset to be ignored, got:\n%s", m.View())
	}
}

func TestApp_Chat_SendsAndRendersReply(t *testing.T) {
	gw := testutil.NewFakeGateway().
		On(agent.DefaultChatAssistantID, testutil.Success(domain.ChatReply{Response: "Railway is a good fit."}))
	m := newApp(gw, "")

	m, _ = press(m, "c")
	m, _ = press(m, "which platform?")
	m, cmd := press(m, "enter")
	if cmd == nil {
		t.Fatal("expected chat send to issue a call")
	}
	m = drain(t, m, cmd)
	view := m.View()

	if !strings.Contains(view, "which platform?") {
		t.Errorf("expected user message in transcript, got:\n%s", view)
	}
	if !strings.Contains(view, "Railway is a good fit.") {
		t.Errorf("expected assistant reply in transcript, got:\n%s", view)
	}
}

func TestApp_Chat_BlankMessageIsIgnored(t *testing.T) {
	m := newApp(testutil.NewFakeGateway(), "")
	m, _ = press(m, "c")
	_, cmd := press(m, "enter")
	if cmd != nil {
		t.Error("expected no call for a blank chat message")
	}
}

func TestApp_QuitKey(t *testing.T) {
	m := newApp(testutil.NewFakeGateway(), "")
	_, cmd := press(m, "q")
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("expected tea.QuitMsg")
	}
}
