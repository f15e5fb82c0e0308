package agent_test

import (
	"testing"

	"github.com/waabox/deploybot/internal/agent"
)

func TestDirectory_DefaultsCoverEveryCapability(t *testing.T) {
	dir := agent.NewDirectory()
	caps := []agent.Capability{
		agent.CodeAnalysis,
		agent.SecurityScanner,
		agent.Infrastructure,
		agent.DeploymentOrchestrator,
		agent.ChatAssistant,
	}
	seen := map[string]bool{}
	for _, c := range caps {
		id, err := dir.Lookup(c)
		if err != nil {
			t.Fatalf("unexpected error for %s: %v", c, err)
		}
		if seen[id] {
			t.Errorf("identity %s is shared by more than one capability", id)
		}
		seen[id] = true
	}
}

func TestDirectory_RegisterOverridesDefault(t *testing.T) {
	dir := agent.NewDirectory()
	dir.Register(agent.ChatAssistant, "custom-chat")

	if got := dir.MustLookup(agent.ChatAssistant); got != "custom-chat" {
		t.Errorf("expected 'custom-chat', got '%s'", got)
	}
}

func TestDirectory_RegisterIgnoresEmptyID(t *testing.T) {
	dir := agent.NewDirectory()
	dir.Register(agent.CodeAnalysis, "")

	if got := dir.MustLookup(agent.CodeAnalysis); got != agent.DefaultCodeAnalysisID {
		t.Errorf("expected default identity, got '%s'", got)
	}
}

func TestDirectory_UnknownCapability(t *testing.T) {
	dir := agent.NewDirectory()
	if _, err := dir.Lookup("billing"); err == nil {
		t.Error("expected error for unknown capability")
	}
}
