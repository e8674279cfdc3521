// Package gateway serves the AI analysis endpoints: it renders prompts,
// calls the model and returns extracted JSON, reporting every failure
// in-band so clients can fall back without treating it as a network error.
package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/stefanpenner/lifeos/pkg/coach"
	"github.com/stefanpenner/lifeos/pkg/llmjson"
	"github.com/stefanpenner/lifeos/pkg/resources"
)

// BookRecommendationsPath serves the curated reading list.
const BookRecommendationsPath = "/functions/v1/ai-book-recommendations"

// detailsLimit caps how much raw model output is echoed back on failure.
const detailsLimit = 500

// ResourceSaver persists a reading list for a user.
type ResourceSaver interface {
	SaveResources(ctx context.Context, userID string, recs resources.Recommendations) error
}

// Server is the HTTP gateway.
type Server struct {
	gen    Generator
	saver  ResourceSaver
	logger *zap.Logger
	now    func() time.Time
}

// NewServer returns a gateway around gen. saver may be nil.
func NewServer(gen Generator, saver ResourceSaver, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{gen: gen, saver: saver, logger: logger, now: time.Now}
}

// Handler returns the routed handler.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(cors)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("ok"))
	})
	r.Post(coach.AnalysisPath, s.handleAnalysis)
	r.Post(BookRecommendationsPath, s.handleBookRecommendations)
	return r
}

// ListenAndServe serves until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()
	s.logger.Info("gateway listening", zap.String("addr", addr))

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		if err := <-errc; err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}

func cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("Access-Control-Allow-Origin", "*")
		h.Set("Access-Control-Allow-Headers", "authorization, x-client-info, apikey, content-type")
		h.Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS")
		if r.Method == http.MethodOptions {
			_, _ = w.Write([]byte("ok"))
			return
		}
		next.ServeHTTP(w, r)
	})
}

type analysisRequest struct {
	Type coach.RequestType `json:"type"`
	Data any               `json:"data"`
}

func (s *Server) handleAnalysis(w http.ResponseWriter, r *http.Request) {
	log := s.logger.With(zap.String("request_id", middleware.GetReqID(r.Context())))

	var req analysisRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, coach.CodeFunctionError, "Invalid request body", err.Error())
		return
	}
	if req.Type == "" || req.Data == nil {
		writeError(w, coach.CodeFunctionError, "Missing type or data in request", "")
		return
	}
	prompt, err := Prompt(req.Type, req.Data)
	if err != nil {
		writeError(w, coach.CodeFunctionError, err.Error(), "")
		return
	}

	log = log.With(zap.String("type", string(req.Type)))
	start := s.now()
	content, err := s.gen.Generate(r.Context(), SystemInstruction, prompt)
	if err != nil {
		log.Error("model call failed", zap.Error(err))
		writeError(w, coach.CodeAIAPIError, "AI API error", err.Error())
		return
	}
	if strings.TrimSpace(content) == "" {
		writeError(w, coach.CodeEmptyAIResponse, "Empty response from AI", "AI returned no content")
		return
	}

	m, err := llmjson.ExtractWith(content, llmjson.DefaultStrategies...)
	if err != nil {
		log.Warn("no JSON in model output", zap.Int("length", len(content)))
		writeError(w, coach.CodeJSONExtractionFailed, "Could not extract valid JSON from AI response", truncate(content, detailsLimit))
		return
	}
	log.Info("analysis complete",
		zap.String("strategy", m.Strategy),
		zap.Duration("elapsed", s.now().Sub(start)))
	writeJSON(w, http.StatusOK, coach.Response{Content: m.JSON})
}

type bookRequest struct {
	UserID string `json:"userId"`
}

func (s *Server) handleBookRecommendations(w http.ResponseWriter, r *http.Request) {
	var req bookRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.UserID == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Missing required userId parameter"})
		return
	}

	recs := resources.Default(s.now())
	if s.saver != nil {
		if err := s.saver.SaveResources(r.Context(), req.UserID, recs); err != nil {
			s.logger.Error("saving recommendations", zap.String("user_id", req.UserID), zap.Error(err))
		}
	}
	writeJSON(w, http.StatusOK, recs)
}

func writeError(w http.ResponseWriter, code, message, details string) {
	writeJSON(w, http.StatusOK, coach.Response{Error: code, Message: message, Details: details})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
