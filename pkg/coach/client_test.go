package coach

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newGateway(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	ts := httptest.NewServer(h)
	t.Cleanup(ts.Close)
	c := NewClient(ts.URL, "anon-key", time.Second)
	c.HTTPClient = ts.Client()
	return c
}

func TestAnalyzeSendsRequest(t *testing.T) {
	c := newGateway(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, AnalysisPath, r.URL.Path)
		assert.Equal(t, "Bearer anon-key", r.Header.Get("Authorization"))
		var req struct {
			Type RequestType    `json:"type"`
			Data map[string]any `json:"data"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, TypeGoalBreakdown, req.Type)
		assert.Equal(t, "Run", req.Data["title"])
		_ = json.NewEncoder(w).Encode(Response{Content: `{"milestones": []}`})
	})

	content, err := c.Analyze(context.Background(), TypeGoalBreakdown, map[string]string{"title": "Run"})
	require.NoError(t, err)
	assert.Equal(t, `{"milestones": []}`, content)
}

func TestAnalyzeStructuredError(t *testing.T) {
	c := newGateway(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(Response{
			Error:   CodeJSONExtractionFailed,
			Message: "Could not extract valid JSON",
			Details: "Sure! Here is",
		})
	})

	_, err := c.Analyze(context.Background(), TypeLifeSummary, nil)
	var gerr *GatewayError
	require.ErrorAs(t, err, &gerr)
	assert.Equal(t, CodeJSONExtractionFailed, gerr.Code)
	assert.Equal(t, "Sure! Here is", gerr.Details)
	assert.ErrorIs(t, err, ErrGateway)
}

func TestAnalyzeFailures(t *testing.T) {
	tests := []struct {
		name string
		h    http.HandlerFunc
		code string
	}{
		{"empty content", func(w http.ResponseWriter, r *http.Request) { _, _ = w.Write([]byte(`{}`)) }, CodeEmptyAIResponse},
		{"server error", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusInternalServerError) }, ""},
		{"not json", func(w http.ResponseWriter, r *http.Request) { _, _ = w.Write([]byte(`<html>`)) }, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := newGateway(t, tt.h).Analyze(context.Background(), TypeLifeSummary, nil)
			require.ErrorIs(t, err, ErrGateway)
			var gerr *GatewayError
			if tt.code != "" {
				require.True(t, errors.As(err, &gerr))
				assert.Equal(t, tt.code, gerr.Code)
			} else {
				assert.False(t, errors.As(err, &gerr))
			}
		})
	}
}

func TestAnalyzeUnconfigured(t *testing.T) {
	_, err := (&Client{}).Analyze(context.Background(), TypeLifeSummary, nil)
	assert.ErrorIs(t, err, ErrGateway)
}

func TestAnalyzeHonorsContext(t *testing.T) {
	c := newGateway(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(Response{Content: "{}"})
	})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := c.Analyze(ctx, TypeLifeSummary, nil)
	assert.ErrorIs(t, err, context.Canceled)
}
