package domain_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/waabox/deploybot/internal/domain"
)

func TestAgentResponse_DecodeResult(t *testing.T) {
	resp := domain.AgentResponse{
		Success: true,
		Result:  json.RawMessage(`{"readiness_score": 82, "tech_stack": {"language": "Go"}}`),
	}

	var got domain.CodeAnalysisResult
	require.NoError(t, resp.DecodeResult(&got))
	assert.Equal(t, 82.0, got.ReadinessScore)
	assert.Equal(t, "Go", got.TechStack.Language)
}

func TestAgentResponse_DecodeResult_RejectedResponse(t *testing.T) {
	resp := domain.AgentResponse{Success: false, Message: "quota exceeded"}

	var got domain.CodeAnalysisResult
	err := resp.DecodeResult(&got)
	require.ErrorIs(t, err, domain.ErrAgentRejected)
	assert.Contains(t, err.Error(), "quota exceeded")
}

func TestAgentResponse_DecodeResult_NullResult(t *testing.T) {
	for _, raw := range []string{"", "null", "  null "} {
		resp := domain.AgentResponse{Success: true, Result: json.RawMessage(raw)}
		var got domain.SecurityResult
		assert.ErrorIs(t, resp.DecodeResult(&got), domain.ErrEmptyResult, "raw=%q", raw)
	}
}

func TestDeploymentName(t *testing.T) {
	cases := map[string]string{
		"https://github.com/acme/widget":     "widget",
		"git@github.com:acme/widget.git":     "widget.git",
		"  https://github.com/acme/widget  ": "widget",
		"widget":                             "widget",
		"https://github.com/acme/":           "new-deployment",
	}
	for ref, want := range cases {
		assert.Equal(t, want, domain.DeploymentName(ref), "ref=%q", ref)
	}
}
