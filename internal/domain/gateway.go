package domain

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
)

// AgentGateway is the port through which every agent capability is invoked.
// The domain does not know how agents are hosted or reached.
type AgentGateway interface {
	Invoke(ctx context.Context, prompt string, agentID string) (AgentResponse, error)
}

// AgentResponse is the envelope returned by a gateway call that reached the agent.
type AgentResponse struct {
	Success bool
	Result  json.RawMessage
	Message string
}

// HasResult reports whether the response carries a non-null result payload.
func (r AgentResponse) HasResult() bool {
	trimmed := bytes.TrimSpace(r.Result)
	return len(trimmed) > 0 && !bytes.Equal(trimmed, []byte("null"))
}

// DecodeResult unmarshals the result payload into target.
// It returns ErrAgentRejected when Success is false and ErrEmptyResult when
// the payload is absent.
func (r AgentResponse) DecodeResult(target any) error {
	if !r.Success {
		if r.Message != "" {
			return fmt.Errorf("%w: %s", ErrAgentRejected, r.Message)
		}
		return ErrAgentRejected
	}
	if !r.HasResult() {
		return ErrEmptyResult
	}
	if err := json.Unmarshal(r.Result, target); err != nil {
		return fmt.Errorf("decoding agent result: %w", err)
	}
	return nil
}
