package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	_ "github.com/raysh454/respdiff/docs/swagger" // registers the swagger docs
	"github.com/raysh454/respdiff/internal/app"
	"github.com/raysh454/respdiff/internal/logging"
)

// Server is the HTTP + WebSocket API surface for respdiff.
type Server struct {
	cfg          Config
	orchestrator *app.Orchestrator
	application  *app.Application // set only when the server built it
	router       chi.Router
	upgrader     websocket.Upgrader
	logger       logging.Logger
}

// NewServer creates a new Server. Without cfg.Orchestrator it builds its own
// application (store + transport) from cfg.AppConfig.
func NewServer(cfg Config) (*Server, error) {
	if cfg.AppConfig == nil {
		cfg.AppConfig = app.DefaultConfig()
	}
	if cfg.ListenAddr == "" {
		cfg.ListenAddr = cfg.AppConfig.ListenAddr
	}
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = defaultMaxBodyBytes
	}

	logger := cfg.Logger
	if logger == nil {
		logger = logging.NewStdoutLogger("Server")
	}

	s := &Server{
		cfg:          cfg,
		orchestrator: cfg.Orchestrator,
		router:       chi.NewRouter(),
		logger:       logger,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
	}

	if s.orchestrator == nil {
		application, err := app.NewApplication(context.Background(), cfg.AppConfig, nil, logger)
		if err != nil {
			return nil, fmt.Errorf("creating application: %w", err)
		}
		s.application = application
		s.orchestrator = application.Orch
	}

	s.routes()
	return s, nil
}

// Orchestrator returns the underlying orchestrator for advanced use (tests, etc.).
func (s *Server) Orchestrator() *app.Orchestrator {
	return s.orchestrator
}

func (s *Server) routes() {
	r := s.router

	r.Use(middleware.Recoverer)
	r.Use(s.requestIDMiddleware)
	r.Use(s.corsMiddleware)

	// CORS preflight
	r.Options("/api/v1/compare", s.optionsHandler("POST"))
	r.Options("/api/v1/history", s.optionsHandler("GET"))
	r.Options("/api/v1/latest", s.optionsHandler("GET"))

	r.Get("/", s.handleHealth)

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/compare", s.handleCompare)
		r.Get("/history", s.handleHistory)
		r.Get("/latest", s.handleLatest)
	})

	// WebSocket feed of new comparisons
	r.Get("/ws/comparisons", s.handleComparisonsWS)

	r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))
}

func (s *Server) corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		w.Header().Set("Access-Control-Max-Age", "86400")

		next.ServeHTTP(w, r)
	})
}

func (s *Server) requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", id)
		next.ServeHTTP(w, r)
	})
}

func (s *Server) optionsHandler(methods string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Methods", methods)
		w.WriteHeader(http.StatusNoContent)
	}
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	fields := []logging.Field{
		{Key: "method", Value: r.Method},
		{Key: "path", Value: r.URL.Path},
	}

	if q := r.URL.Query(); len(q) > 0 {
		fields = append(fields, logging.Field{Key: "query", Value: q})
	}
	if r.ContentLength > 0 {
		fields = append(fields, logging.Field{Key: "body_bytes", Value: r.ContentLength})
	}

	s.logger.Info("http_request", fields...)

	s.router.ServeHTTP(w, r)
}

// Close releases the application the server built, if any.
func (s *Server) Close() {
	if s.application != nil {
		if err := s.application.Shutdown(context.Background()); err != nil {
			s.logger.Warn("shutting down application", logging.Field{Key: "error", Value: err.Error()})
		}
	}
}

// HTTPServer creates an *http.Server ready to ListenAndServe.
func (s *Server) HTTPServer() *http.Server {
	return &http.Server{
		Addr:              s.cfg.ListenAddr,
		Handler:           s,
		ReadHeaderTimeout: 15 * time.Second,
		WriteTimeout:      0, // allow streaming
	}
}

// --- JSON helpers ---

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		_ = json.NewEncoder(w).Encode(v)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, ErrorResponse{Error: msg})
}

// statusForError maps a comparison failure to the status the API answers with.
func statusForError(err error) int {
	kind, ok := app.KindOf(err)
	if !ok {
		return http.StatusInternalServerError
	}
	switch kind {
	case app.KindInvalidRequest:
		return http.StatusBadRequest
	case app.KindTransport, app.KindEmptyResponse:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func errorMessage(err error) string {
	if errors.Is(err, app.ErrEmptyResponse) {
		return emptyResponseMessage
	}
	return err.Error()
}

// --- HTTP handlers ---

// handleHealth godoc
// @Summary Health check
// @Tags health
// @Produce json
// @Success 200 {object} HealthResponse
// @Router / [get]
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{Status: "ok"})
}

// handleCompare godoc
// @Summary Compare two endpoints
// @Description Fetches source and target concurrently, diffs the normalized bodies and stores the result.
// @Tags comparisons
// @Accept json
// @Produce json
// @Param request body app.ComparisonRequest true "Comparison request"
// @Success 200 {object} app.ComparisonResult
// @Failure 400 {object} ErrorResponse
// @Failure 502 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /api/v1/compare [post]
func (s *Server) handleCompare(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxBodyBytes)

	var req app.ComparisonRequest
	dec := json.NewDecoder(r.Body)
	dec.UseNumber()
	if err := dec.Decode(&req); err != nil {
		s.logger.Warn("decoding compare body", logging.Field{Key: "error", Value: err.Error()})
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	res, err := s.orchestrator.Run(r.Context(), &req)
	if err != nil {
		status := statusForError(err)
		s.logger.Warn("comparison failed",
			logging.Field{Key: "status", Value: status},
			logging.Field{Key: "error", Value: err.Error()})
		writeError(w, status, errorMessage(err))
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// handleHistory godoc
// @Summary List recent comparisons
// @Tags comparisons
// @Produce json
// @Param limit query int false "Maximum number of records" default(10)
// @Success 200 {array} app.ComparisonHistoryItem
// @Failure 400 {object} ErrorResponse
// @Router /api/v1/history [get]
func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "limit must be an integer")
			return
		}
		limit = n
	}

	items := s.orchestrator.History(r.Context(), limit)
	s.logger.Debug("listed history", logging.Field{Key: "count", Value: len(items)})
	writeJSON(w, http.StatusOK, items)
}

// handleLatest godoc
// @Summary Most recent comparison
// @Tags comparisons
// @Produce json
// @Success 200 {object} app.ComparisonHistoryItem
// @Failure 404 {object} ErrorResponse
// @Router /api/v1/latest [get]
func (s *Server) handleLatest(w http.ResponseWriter, r *http.Request) {
	item, ok := s.orchestrator.Latest(r.Context())
	if !ok {
		writeError(w, http.StatusNotFound, noHistoryMessage)
		return
	}
	writeJSON(w, http.StatusOK, item)
}
