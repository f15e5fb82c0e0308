package agent

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/waabox/deploybot/internal/domain"
)

const (
	defaultBaseURL = "http://localhost:3000"
	invokePath     = "/api/agent"
	defaultTimeout = 120 * time.Second
)

// Client implements domain.AgentGateway over HTTP.
type Client struct {
	apiKey  string
	baseURL string
	client  *http.Client
	logger  *slog.Logger
}

// Ensure Client implements AgentGateway.
var _ domain.AgentGateway = (*Client)(nil)

// NewClient creates an agent gateway client.
// baseURL is used for testing; pass empty string to use the default gateway.
// A zero timeout selects the default of two minutes.
func NewClient(apiKey string, baseURL string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		apiKey:  apiKey,
		baseURL: strings.TrimSuffix(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

// WithLogger returns a copy of the client that logs calls to logger.
func (c *Client) WithLogger(logger *slog.Logger) *Client {
	cp := *c
	cp.logger = logger
	return &cp
}

// Invoke sends prompt to the agent identified by agentID.
// A returned error means the call itself failed (transport or HTTP status);
// logical failures are reported through the response envelope.
func (c *Client) Invoke(ctx context.Context, prompt string, agentID string) (domain.AgentResponse, error) {
	body, err := json.Marshal(invokeRequest{Message: prompt, AgentID: agentID})
	if err != nil {
		return domain.AgentResponse{}, fmt.Errorf("encoding request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+invokePath, bytes.NewReader(body))
	if err != nil {
		return domain.AgentResponse{}, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	started := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		c.logger.Warn("agent call failed", "agent_id", agentID, "error", err)
		return domain.AgentResponse{}, fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	c.logger.Debug("agent call completed",
		"agent_id", agentID,
		"status", resp.StatusCode,
		"duration", time.Since(started))

	if resp.StatusCode == http.StatusUnauthorized {
		return domain.AgentResponse{}, fmt.Errorf("agent gateway error: %s: %w", resp.Status, domain.ErrUnauthorized)
	}
	if resp.StatusCode >= 400 {
		return domain.AgentResponse{}, fmt.Errorf("agent gateway error: %s", resp.Status)
	}

	var raw invokeResponse
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return domain.AgentResponse{}, fmt.Errorf("decoding response: %w", err)
	}
	return raw.toAgentResponse(), nil
}

// invokeRequest is the gateway request body.
type invokeRequest struct {
	Message string `json:"message"`
	AgentID string `json:"agent_id"`
}

// invokeResponse is the raw gateway response shape.
type invokeResponse struct {
	Success  bool `json:"success"`
	Response struct {
		Result  json.RawMessage `json:"result"`
		Message string          `json:"message"`
	} `json:"response"`
	Error string `json:"error"`
}

func (r invokeResponse) toAgentResponse() domain.AgentResponse {
	msg := r.Response.Message
	if msg == "" {
		msg = r.Error
	}
	return domain.AgentResponse{
		Success: r.Success,
		Result:  r.Response.Result,
		Message: msg,
	}
}
