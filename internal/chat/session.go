// Package chat implements the assistant conversation that runs beside the
// deployment pipeline. It shares no state with the pipeline.
package chat

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/waabox/deploybot/internal/domain"
)

// Role identifies the author of a transcript entry.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Canned assistant replies used when the agent cannot answer.
const (
	NoResponseReply   = "No response available"
	AgentErrorReply   = "Sorry, I encountered an error. Please try again."
	NetworkErrorReply = "Network error. Please try again."
)

// Message is one transcript entry.
type Message struct {
	Role      Role
	Content   string
	Timestamp time.Time
}

// ReplyMsg carries the outcome of a chat call.
type ReplyMsg struct {
	Response domain.AgentResponse
	Err      error
}

// Session is an immutable model of the chat transcript.
// Entries are only ever appended.
type Session struct {
	ctx      context.Context
	gateway  domain.AgentGateway
	agentID  string
	messages []Message
	busy     bool
	now      func() time.Time
	logger   *slog.Logger
}

// NewSession creates an empty session that sends every turn to agentID.
func NewSession(ctx context.Context, gateway domain.AgentGateway, agentID string, logger *slog.Logger) Session {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return Session{
		ctx:     ctx,
		gateway: gateway,
		agentID: agentID,
		now:     time.Now,
		logger:  logger,
	}
}

// WithClock returns a session that timestamps entries with now.
func (s Session) WithClock(now func() time.Time) Session {
	s.now = now
	return s
}

// Send appends text as a user entry and returns the command that asks the
// assistant. Blank text, or a send while a previous turn is still pending,
// is a no-op and returns a nil command.
func (s Session) Send(text string) (Session, tea.Cmd) {
	if strings.TrimSpace(text) == "" || s.busy {
		return s, nil
	}
	s = s.appendMessage(RoleUser, text)
	s.busy = true

	ctx, gateway, agentID := s.ctx, s.gateway, s.agentID
	return s, func() tea.Msg {
		resp, err := gateway.Invoke(ctx, text, agentID)
		return ReplyMsg{Response: resp, Err: err}
	}
}

// Update handles ReplyMsg. Other messages are ignored.
func (s Session) Update(msg tea.Msg) (Session, tea.Cmd) {
	reply, ok := msg.(ReplyMsg)
	if !ok {
		return s, nil
	}
	s.busy = false
	return s.appendMessage(RoleAssistant, s.replyText(reply)), nil
}

func (s Session) replyText(reply ReplyMsg) string {
	if reply.Err != nil {
		s.logger.Warn("chat call failed", "error", reply.Err)
		return NetworkErrorReply
	}
	var result domain.ChatReply
	err := reply.Response.DecodeResult(&result)
	switch {
	case errors.Is(err, domain.ErrAgentRejected), errors.Is(err, domain.ErrEmptyResult):
		s.logger.Warn("chat agent returned no usable result", "error", err)
		return AgentErrorReply
	case err != nil:
		// a result without a response object
		s.logger.Debug("chat result has no response field", "error", err)
		return NoResponseReply
	}
	if result.Response == "" {
		return NoResponseReply
	}
	return result.Response
}

func (s Session) appendMessage(role Role, content string) Session {
	messages := make([]Message, len(s.messages), len(s.messages)+1)
	copy(messages, s.messages)
	s.messages = append(messages, Message{Role: role, Content: content, Timestamp: s.now()})
	return s
}

// Messages returns the transcript in the order entries were appended.
func (s Session) Messages() []Message {
	return s.messages
}

// Busy reports whether a turn is waiting for the assistant.
func (s Session) Busy() bool {
	return s.busy
}
