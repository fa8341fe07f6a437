package main

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"

	"agent-insights-go/internal/classifier"
	"agent-insights-go/internal/elevenlabs"
	"agent-insights-go/internal/insights"
	"agent-insights-go/internal/logger"
	"agent-insights-go/internal/types"
)

// ConversationSource is the transcript-fetch collaborator; the real
// API client, the spreadsheet dataset, and the mock source all satisfy
// it.
type ConversationSource interface {
	Conversations(ctx context.Context, agentID string, limit int) ([]types.Transcript, error)
}

type server struct {
	source     ConversationSource
	mock       *elevenlabs.MockSource
	analyzer   *classifier.Analyzer
	insights   *insights.Generator
	validate   *validator.Validate
	fetchLimit int
}

func newServer(source ConversationSource, analyzer *classifier.Analyzer, gen *insights.Generator, fetchLimit int) *server {
	return &server{
		source:     source,
		mock:       elevenlabs.NewMockSource(),
		analyzer:   analyzer,
		insights:   gen,
		validate:   validator.New(),
		fetchLimit: fetchLimit,
	}
}

func (s *server) routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", s.handleHealthz)
	mux.HandleFunc("POST /analyze", s.handleAnalyze)
	mux.HandleFunc("GET /agent/{agent_id}/overview", s.handleOverview)
	mux.HandleFunc("GET /agent/{agent_id}/conversations", s.handleConversations)
	mux.HandleFunc("GET /agent/{agent_id}/insights", s.handleInsights)
	mux.HandleFunc("GET /agent/{agent_id}/mock-conversations", s.handleMockConversations)
	return mux
}

type agentParams struct {
	AgentID string `validate:"required,max=100,printascii"`
}

// agentID pulls and validates the path parameter; writes a 400 and
// returns false when it is unusable.
func (s *server) agentID(w http.ResponseWriter, r *http.Request) (string, bool) {
	id := r.PathValue("agent_id")
	if err := s.validate.Struct(agentParams{AgentID: id}); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid agent id"})
		return "", false
	}
	return id, true
}

func (s *server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	logger.New().WithRequest(r).Debug("health check")
	writeJSON(w, http.StatusOK, map[string]string{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

type analyzeRequest struct {
	Text string `json:"text"`
}

func (s *server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	reqLog := logger.New().WithRequest(r).WithField("handler", "analyze")

	var req analyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		reqLog.WithField("error", err.Error()).Warn("bad analyze payload")
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON body"})
		return
	}

	// Empty text is valid input and maps to the zero-confidence neutral
	// judgment, not an error.
	res := s.analyzer.Classify(r.Context(), req.Text)
	reqLog.WithField("label", res.Label).Info("analyzed text")
	writeJSON(w, http.StatusOK, res)
}

func (s *server) handleOverview(w http.ResponseWriter, r *http.Request) {
	agentID, ok := s.agentID(w, r)
	if !ok {
		return
	}
	reqLog := logger.New().WithRequest(r).WithField("handler", "overview").WithField("agent_id", agentID)

	transcripts, err := s.source.Conversations(r.Context(), agentID, s.fetchLimit)
	if err != nil {
		reqLog.WithField("error", err.Error()).Error("transcript source unavailable")
		writeJSON(w, http.StatusBadGateway, map[string]string{"error": "transcript source unavailable"})
		return
	}

	agg := s.insights.Summarize(r.Context(), transcripts)
	reqLog.WithField("total", agg.Summary.TotalConversations).Info("overview generated")
	writeJSON(w, http.StatusOK, map[string]any{
		"agent_id":            agentID,
		"total_conversations": agg.Summary.TotalConversations,
		"overall_sentiment":   agg.OverallSentiment,
		"sentiment_breakdown": agg.SentimentBreakdown,
		"key_insights":        agg.KeyInsights,
	})
}

func (s *server) handleConversations(w http.ResponseWriter, r *http.Request) {
	agentID, ok := s.agentID(w, r)
	if !ok {
		return
	}
	reqLog := logger.New().WithRequest(r).WithField("handler", "conversations").WithField("agent_id", agentID)

	transcripts, err := s.source.Conversations(r.Context(), agentID, s.fetchLimit)
	if err != nil {
		reqLog.WithField("error", err.Error()).Error("transcript source unavailable")
		writeJSON(w, http.StatusBadGateway, map[string]string{"error": "transcript source unavailable"})
		return
	}

	analyses := s.insights.Analyses(r.Context(), transcripts)
	reqLog.WithField("count", len(analyses)).Info("conversations analyzed")
	writeJSON(w, http.StatusOK, map[string]any{
		"agent_id":      agentID,
		"conversations": analyses,
		"total":         len(analyses),
	})
}

func (s *server) handleInsights(w http.ResponseWriter, r *http.Request) {
	agentID, ok := s.agentID(w, r)
	if !ok {
		return
	}
	reqLog := logger.New().WithRequest(r).WithField("handler", "insights").WithField("agent_id", agentID)

	transcripts, err := s.source.Conversations(r.Context(), agentID, s.fetchLimit)
	if err != nil {
		reqLog.WithField("error", err.Error()).Error("transcript source unavailable")
		writeJSON(w, http.StatusBadGateway, map[string]string{"error": "transcript source unavailable"})
		return
	}

	agg := s.insights.Summarize(r.Context(), transcripts)
	reqLog.WithField("priority_insights", len(agg.PriorityInsights)).Info("insights generated")
	writeJSON(w, http.StatusOK, map[string]any{
		"agent_id":     agentID,
		"generated_at": time.Now().UTC().Format(time.RFC3339),
		"insights":     agg,
	})
}

func (s *server) handleMockConversations(w http.ResponseWriter, r *http.Request) {
	agentID, ok := s.agentID(w, r)
	if !ok {
		return
	}
	transcripts, _ := s.mock.Conversations(r.Context(), agentID, s.fetchLimit)
	writeJSON(w, http.StatusOK, map[string]any{
		"agent_id":           agentID,
		"mock_conversations": transcripts,
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		logger.New().WithField("error", err.Error()).Error("failed to write response")
	}
}
