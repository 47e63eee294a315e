package http

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/raulponte3/dashboard-cashflow/internal/core"
	"github.com/raulponte3/dashboard-cashflow/internal/llm"
)

const (
	summaryCacheKey = "summary"
	maxChatBody     = 1 << 20 // 1 MiB
)

// handleSummary serves the weekly cash-flow summary, optionally filtered
// to a single week label via ?week=.
func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		writeJSON(w, http.StatusMethodNotAllowed, errorResponse{Error: "Method not allowed"})
		return
	}

	summary, err := s.getSummary(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "Summary build error", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "Failed to fetch data"})
		return
	}

	// Week filter is applied after caching so every request shares the
	// same cached full summary.
	if week := strings.TrimSpace(r.URL.Query().Get("week")); week != "" {
		summary.Periods = core.FilterPeriods(summary.Periods, week)
	}

	writeJSON(w, http.StatusOK, summary)
}

func (s *Server) getSummary(ctx context.Context) (core.Summary, error) {
	if summary, found := s.summaryCache.Get(summaryCacheKey); found {
		slog.DebugContext(ctx, "Summary cache hit")
		return summary, nil
	}

	// Small timeout so a slow spreadsheet fetch does not hang requests.
	cctx, cancel := context.WithTimeout(ctx, 7*time.Second)
	defer cancel()

	grid, err := s.grid.ReadGrid(cctx)
	if err != nil {
		return core.Summary{}, err
	}

	summary := core.BuildSummary(grid, s.layout, s.topN, s.forecastWindow)
	s.summaryCache.Set(summaryCacheKey, summary)
	slog.DebugContext(ctx, "Summary cached", "periods", len(summary.Periods))
	return summary, nil
}

// handleChat proxies a chat payload to the language model unchanged and
// returns the upstream body verbatim. Completed analyses are persisted
// best-effort after the response is written.
func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		writeJSON(w, http.StatusMethodNotAllowed, errorResponse{Error: "Method not allowed"})
		return
	}

	if s.llm == nil {
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "Language model not configured"})
		return
	}

	payload, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxChatBody))
	if err != nil {
		var mbe *http.MaxBytesError
		if errors.As(err, &mbe) {
			slog.WarnContext(r.Context(), "Chat body too large", "limit", mbe.Limit)
			writeJSON(w, http.StatusRequestEntityTooLarge, errorResponse{Error: "Request body too large"})
			return
		}
		slog.ErrorContext(r.Context(), "Chat body read error", "error", err)
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "Invalid request body"})
		return
	}

	body, err := s.llm.Messages(r.Context(), payload)
	if err != nil {
		var ue *llm.UpstreamError
		if errors.As(err, &ue) {
			slog.ErrorContext(r.Context(), "Language model upstream error",
				"status", ue.StatusCode, "message", ue.Message)
			writeJSON(w, http.StatusInternalServerError, errorResponse{Error: ue.Message})
			return
		}
		slog.ErrorContext(r.Context(), "Language model request error", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "Internal server error"})
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)

	s.persistAnalysis(r.Context(), body)
}

// persistAnalysis stores a completed analysis and notifies the sync
// worker. Failures are logged, never surfaced to the client.
func (s *Server) persistAnalysis(ctx context.Context, body []byte) {
	if s.analyses == nil {
		return
	}

	model, text, ok := llm.ExtractCompletion(body)
	if !ok {
		slog.DebugContext(ctx, "Response has no completion text, skipping persistence")
		return
	}

	analysis := core.Analysis{
		Model:     model,
		Content:   text,
		CreatedAt: time.Now(),
	}

	id, version, err := s.analyses.SaveAnalysis(ctx, analysis)
	if err != nil {
		slog.ErrorContext(ctx, "Failed to save analysis", "error", err)
		return
	}

	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishAnalysisSync(ctx, id, version); err != nil {
		slog.ErrorContext(ctx, "Failed to publish analysis sync", "error", err, "id", id)
	}
}
