package daemon

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"scriptqa/internal/answer"
	"scriptqa/internal/api"
	"scriptqa/internal/logging"
	"scriptqa/internal/services"
)

const maxRequestBytes = 64 << 10

type apiServer struct {
	bind   string
	logger *slog.Logger
	daemon *Daemon

	mu       sync.Mutex
	listener net.Listener
	server   *http.Server
}

func newAPIServer(bind string, d *Daemon, logger *slog.Logger) *apiServer {
	srv := &apiServer{
		bind:   strings.TrimSpace(bind),
		logger: logging.NewComponentLogger(logger, "api-server"),
		daemon: d,
	}
	srv.server = &http.Server{
		Handler:           srv.routes(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		// Answers over long scripts can take several model calls.
		WriteTimeout: 5 * time.Minute,
		IdleTimeout:  60 * time.Second,
	}
	return srv
}

func (s *apiServer) routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /ask", s.handleAsk)
	mux.HandleFunc("POST /api/ask", s.handleAsk)
	mux.HandleFunc("GET /suggest_movies", s.handleSuggest)
	mux.HandleFunc("GET /api/suggest", s.handleSuggest)
	mux.HandleFunc("POST /clear_history", s.handleClearHistory)
	mux.HandleFunc("POST /api/history/clear", s.handleClearHistory)
	mux.HandleFunc("GET /api/status", s.handleStatus)
	return requestIDMiddleware(sessionMiddleware(mux))
}

func (s *apiServer) start(ctx context.Context) error {
	if s.bind == "" {
		return errors.New("api bind address is empty")
	}
	listener, err := net.Listen("tcp", s.bind)
	if err != nil {
		return fmt.Errorf("api listen: %w", err)
	}
	s.mu.Lock()
	s.listener = listener
	s.mu.Unlock()

	go func() {
		if err := s.server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.ErrorWithContext(s.logger, "api server error", "api_serve_failed", logging.Error(err))
		}
	}()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.server.Shutdown(shutdownCtx)
	}()

	s.logger.Info("api server listening", logging.String("address", listener.Addr().String()))
	return nil
}

func (s *apiServer) stop() {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = s.server.Shutdown(shutdownCtx)
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener != nil {
		_ = s.listener.Close()
		s.listener = nil
	}
}

func (s *apiServer) address() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return s.bind
	}
	return s.listener.Addr().String()
}

func (s *apiServer) handleAsk(w http.ResponseWriter, r *http.Request) {
	var req api.AskRequest
	if err := decodeBody(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	sessionID, _ := services.SessionIDFromContext(r.Context())
	result := s.daemon.deps.Orchestrator.Answer(r.Context(), answer.Request{
		Title:     req.MovieTitle,
		Question:  req.UserQuestion,
		SessionID: sessionID,
	})
	s.writeJSON(w, statusCode(result.Status), api.FromResult(result))
}

func (s *apiServer) handleSuggest(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("query")
	s.writeJSON(w, http.StatusOK, s.daemon.deps.Orchestrator.Suggest(query))
}

func (s *apiServer) handleClearHistory(w http.ResponseWriter, r *http.Request) {
	var req api.ClearHistoryRequest
	if err := decodeBody(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	sessionID, _ := services.SessionIDFromContext(r.Context())
	confirmation := s.daemon.deps.Orchestrator.ClearHistory(r.Context(), req.MovieTitle, sessionID)
	s.writeJSON(w, statusCode(confirmation.Status), api.FromConfirmation(confirmation))
}

func (s *apiServer) handleStatus(w http.ResponseWriter, r *http.Request) {
	status := s.daemon.Status()
	s.writeJSON(w, http.StatusOK, api.ServerStatus{
		Running:       status.Running,
		PID:           status.PID,
		StartedAt:     api.FormatTime(status.StartedAt),
		LLMConfigured: status.LLMConfigured,
		Model:         status.Model,
		AnswerMode:    status.AnswerMode,
		CachedScripts: status.CachedScripts,
		CachePath:     status.CachePath,
		TitlesLoaded:  status.TitlesLoaded,
		LockFilePath:  status.LockFilePath,
	})
}

// statusCode maps an orchestrator outcome to an HTTP status. Unavailable
// scripts are an expected outcome and answer 200.
func statusCode(status answer.Status) int {
	switch status {
	case answer.StatusOK, answer.StatusScriptUnavailable:
		return http.StatusOK
	case answer.StatusInvalidInput:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func decodeBody(w http.ResponseWriter, r *http.Request, target any) error {
	body := http.MaxBytesReader(w, r.Body, maxRequestBytes)
	if err := json.NewDecoder(body).Decode(target); err != nil {
		if errors.Is(err, io.EOF) {
			return services.Wrap(services.ErrValidation, "api-server", "decode body", "request body is empty", nil)
		}
		return services.Wrap(services.ErrValidation, "api-server", "decode body", "invalid JSON", err)
	}
	return nil
}

func (s *apiServer) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.Error("failed to encode response", logging.Error(err))
	}
}

func (s *apiServer) writeError(w http.ResponseWriter, r *http.Request, err error) {
	logging.WithContext(r.Context(), s.logger).Debug("request rejected",
		logging.String("path", r.URL.Path),
		logging.Error(err))
	s.writeJSON(w, services.HTTPStatus(err), api.ErrorResponse{Error: services.Summary(err)})
}
