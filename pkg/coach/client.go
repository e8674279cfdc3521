// Package coach turns profiles and goals into AI-generated summaries, goal
// plans and reading lists, falling back to deterministic output whenever the
// gateway or the model misbehaves.
package coach

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// ErrGateway is wrapped by every failure to get content from the gateway.
var ErrGateway = errors.New("ai gateway")

// RequestType selects the prompt the gateway builds.
type RequestType string

const (
	TypeLifeSummary         RequestType = "life-summary"
	TypeGoalBreakdown       RequestType = "goal-breakdown"
	TypeBookRecommendations RequestType = "book-recommendations"
)

// Error codes returned in a gateway error body.
const (
	CodeAIAPIError           = "AI_API_ERROR"
	CodeInvalidAIResponse    = "INVALID_AI_RESPONSE"
	CodeEmptyAIResponse      = "EMPTY_AI_RESPONSE"
	CodeJSONExtractionFailed = "JSON_EXTRACTION_FAILED"
	CodeFunctionError        = "FUNCTION_ERROR"
)

// AnalysisPath is where the gateway serves analysis requests.
const AnalysisPath = "/functions/v1/ai-analysis"

// Request is the body posted to the gateway.
type Request struct {
	Type RequestType `json:"type"`
	Data any         `json:"data"`
}

// Response is the gateway's reply. Failures are reported in-band with
// HTTP 200 and Error set.
type Response struct {
	Content string `json:"content,omitempty"`
	Error   string `json:"error,omitempty"`
	Message string `json:"message,omitempty"`
	Details string `json:"details,omitempty"`
}

// GatewayError is a structured failure reported by the gateway.
type GatewayError struct {
	Code    string
	Message string
	Details string
}

func (e *GatewayError) Error() string {
	if e.Message == "" {
		return "ai gateway: " + e.Code
	}
	return fmt.Sprintf("ai gateway: %s: %s", e.Code, e.Message)
}

func (e *GatewayError) Unwrap() error { return ErrGateway }

// Analyzer returns raw model output for a request.
type Analyzer interface {
	Analyze(ctx context.Context, typ RequestType, data any) (string, error)
}

// Client posts analysis requests to the gateway.
type Client struct {
	BaseURL    string
	APIKey     string
	HTTPClient *http.Client
}

// NewClient returns a gateway client with the given request timeout.
func NewClient(baseURL, apiKey string, timeout time.Duration) *Client {
	return &Client{
		BaseURL:    baseURL,
		APIKey:     apiKey,
		HTTPClient: &http.Client{Timeout: timeout},
	}
}

// Analyze sends one request and returns the model's text.
func (c *Client) Analyze(ctx context.Context, typ RequestType, data any) (string, error) {
	baseURL := strings.TrimRight(strings.TrimSpace(c.BaseURL), "/")
	if baseURL == "" {
		return "", fmt.Errorf("%w: url not configured", ErrGateway)
	}
	payload, err := json.Marshal(Request{Type: typ, Data: data})
	if err != nil {
		return "", fmt.Errorf("marshal %s request: %w", typ, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, baseURL+AnalysisPath, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("create %s request: %w", typ, err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.APIKey)
	}

	httpClient := c.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 60 * time.Second}
	}
	resp, err := httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrGateway, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: read response: %w", ErrGateway, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("%w: status %d", ErrGateway, resp.StatusCode)
	}

	var out Response
	if err := json.Unmarshal(body, &out); err != nil {
		return "", fmt.Errorf("%w: decode response: %w", ErrGateway, err)
	}
	if out.Error != "" {
		return "", &GatewayError{Code: out.Error, Message: out.Message, Details: out.Details}
	}
	if out.Content == "" {
		return "", &GatewayError{Code: CodeEmptyAIResponse, Message: "no content received"}
	}
	return out.Content, nil
}
