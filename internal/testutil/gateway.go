// Package testutil provides test doubles and helpers shared by deploybot tests.
package testutil

import (
	"context"
	"encoding/json"
	"errors"
	"sync"

	"github.com/waabox/deploybot/internal/domain"
)

// ErrTransport is the error returned by Failure replies.
var ErrTransport = errors.New("connection refused")

// Call records one gateway invocation.
type Call struct {
	Prompt  string
	AgentID string
}

// Reply is a scripted gateway outcome.
type Reply struct {
	Response domain.AgentResponse
	Err      error
}

// Success returns a reply carrying result as its payload.
func Success(result any) Reply {
	raw, err := json.Marshal(result)
	if err != nil {
		panic(err)
	}
	return Reply{Response: domain.AgentResponse{Success: true, Result: raw}}
}

// Rejected returns a reply with success=false.
func Rejected(message string) Reply {
	return Reply{Response: domain.AgentResponse{Success: false, Message: message}}
}

// Empty returns a success-shaped reply with no result payload.
func Empty() Reply {
	return Reply{Response: domain.AgentResponse{Success: true}}
}

// Failure returns a reply whose call fails outright.
func Failure() Reply {
	return Reply{Err: ErrTransport}
}

// FakeGateway is a scripted domain.AgentGateway. Replies are queued per agent
// identity; an agent with no queued reply gets Empty().
type FakeGateway struct {
	mu      sync.Mutex
	replies map[string][]Reply
	calls   []Call
}

var _ domain.AgentGateway = (*FakeGateway)(nil)

// NewFakeGateway creates a gateway with no scripted replies.
func NewFakeGateway() *FakeGateway {
	return &FakeGateway{replies: map[string][]Reply{}}
}

// On queues replies for agentID, returned in order by successive calls.
func (g *FakeGateway) On(agentID string, replies ...Reply) *FakeGateway {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.replies[agentID] = append(g.replies[agentID], replies...)
	return g
}

// Invoke records the call and returns the next scripted reply for agentID.
func (g *FakeGateway) Invoke(_ context.Context, prompt string, agentID string) (domain.AgentResponse, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls = append(g.calls, Call{Prompt: prompt, AgentID: agentID})
	queue := g.replies[agentID]
	if len(queue) == 0 {
		r := Empty()
		return r.Response, r.Err
	}
	g.replies[agentID] = queue[1:]
	return queue[0].Response, queue[0].Err
}

// Calls returns a copy of every recorded call, in order.
func (g *FakeGateway) Calls() []Call {
	g.mu.Lock()
	defer g.mu.Unlock()
	out := make([]Call, len(g.calls))
	copy(out, g.calls)
	return out
}
