package checkout

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
)

// ErrNoSession means the provider answered without a session id.
var ErrNoSession = errors.New("checkout response has no session id")

const sessionPath = "/functions/v1/stripe-checkout"

// SessionIDPlaceholder is substituted by the provider on redirect.
const SessionIDPlaceholder = "{CHECKOUT_SESSION_ID}"

// Session is a created checkout session.
type Session struct {
	SessionID string `json:"sessionId"`
	URL       string `json:"url"`
}

// Client talks to the hosted checkout function.
type Client struct {
	BaseURL    string
	APIKey     string
	HTTPClient *http.Client
	logger     *zap.Logger
}

// NewClient returns a client for the checkout function under baseURL.
func NewClient(baseURL, apiKey string, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		BaseURL:    baseURL,
		APIKey:     apiKey,
		HTTPClient: &http.Client{Timeout: 30 * time.Second},
		logger:     logger,
	}
}

type sessionRequest struct {
	PriceID    string `json:"price_id"`
	Mode       Mode   `json:"mode"`
	SuccessURL string `json:"success_url"`
	CancelURL  string `json:"cancel_url"`
}

// CreateSession asks the provider for a hosted checkout page. The browser
// returns to origin/success or origin/cancel afterwards.
func (c *Client) CreateSession(ctx context.Context, priceID string, mode Mode, origin string) (Session, error) {
	if strings.TrimSpace(priceID) == "" {
		return Session{}, fmt.Errorf("missing price id")
	}
	if !mode.Valid() {
		return Session{}, fmt.Errorf("invalid checkout mode %q", mode)
	}
	baseURL := strings.TrimRight(strings.TrimSpace(c.BaseURL), "/")
	if baseURL == "" {
		return Session{}, fmt.Errorf("checkout url not configured")
	}
	origin = strings.TrimRight(origin, "/")

	payload, err := json.Marshal(sessionRequest{
		PriceID:    priceID,
		Mode:       mode,
		SuccessURL: origin + "/success?session_id=" + SessionIDPlaceholder,
		CancelURL:  origin + "/cancel",
	})
	if err != nil {
		return Session{}, fmt.Errorf("marshal checkout payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, baseURL+sessionPath, bytes.NewReader(payload))
	if err != nil {
		return Session{}, fmt.Errorf("create checkout request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.APIKey)
	}

	httpClient := c.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	resp, err := httpClient.Do(req)
	if err != nil {
		return Session{}, fmt.Errorf("execute checkout request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return Session{}, fmt.Errorf("read checkout response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var e struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(body, &e) == nil && e.Error != "" {
			return Session{}, fmt.Errorf("checkout failed with status %d: %s", resp.StatusCode, e.Error)
		}
		return Session{}, fmt.Errorf("checkout failed with status %d", resp.StatusCode)
	}

	var s Session
	if err := json.Unmarshal(body, &s); err != nil {
		return Session{}, fmt.Errorf("decode checkout response: %w", err)
	}
	if s.SessionID == "" {
		return Session{}, ErrNoSession
	}
	c.log().Info("checkout session created", zap.String("price_id", priceID), zap.String("session_id", s.SessionID))
	return s, nil
}

func (c *Client) log() *zap.Logger {
	if c.logger == nil {
		return zap.NewNop()
	}
	return c.logger
}

// SessionIDFromReturnURL reads the session id the provider appended to the
// success URL.
func SessionIDFromReturnURL(raw string) (string, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("parse return url: %w", err)
	}
	id := u.Query().Get("session_id")
	if id == "" || id == SessionIDPlaceholder {
		return "", ErrNoSession
	}
	return id, nil
}
