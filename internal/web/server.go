package web

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/chainmart/chainmart/internal/domain"
	"github.com/chainmart/chainmart/internal/service"
)

type Server struct {
	service *service.MarketService
	mux     *http.ServeMux
	logger  *slog.Logger
}

func NewServer(svc *service.MarketService, logger *slog.Logger) *Server {
	s := &Server{
		service: svc,
		mux:     http.NewServeMux(),
		logger:  logger,
	}
	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	s.mux.HandleFunc("GET /items", s.handleListItems)
	s.mux.HandleFunc("GET /items/{category}", s.handleListItemsByCategory)
	s.mux.HandleFunc("GET /items-detail/{itemID}", s.handleGetItemDetail)
	s.mux.HandleFunc("POST /items", s.handleCreateItem)
	s.mux.HandleFunc("GET /balance", s.handleGetBalance)
	s.mux.HandleFunc("POST /purchase", s.handlePurchase)
	s.mux.HandleFunc("POST /purchase-complete", s.handlePurchaseComplete)
}

// cors allows the storefront, served from a different origin, to call the API.
func cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("Access-Control-Allow-Origin", "*")
		h.Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		h.Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// statusRecorder wraps http.ResponseWriter to capture the written status code.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func requestLogger(logger *slog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration_ms", time.Since(start).Milliseconds(),
		)
	})
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	requestLogger(s.logger, cors(s.mux)).ServeHTTP(w, r)
}

func (s *Server) ListenAndServe(addr string) error {
	s.logger.Info("starting server", "addr", addr)
	srv := &http.Server{
		Addr:         addr,
		Handler:      s,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}
	return srv.ListenAndServe()
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		s.logger.Error("failed to encode response", "error", err)
	}
}

// respondError maps domain errors onto HTTP statuses. Unexpected errors are
// logged and reported as a bare 500 with no internals leaked.
func (s *Server) respondError(w http.ResponseWriter, r *http.Request, err error) {
	var status int
	var message string

	var ve *domain.ValidationError
	switch {
	case errors.As(err, &ve):
		status, message = http.StatusBadRequest, ve.Error()
	case errors.Is(err, domain.ErrNotFound):
		status, message = http.StatusNotFound, err.Error()
	case errors.Is(err, domain.ErrPriceMismatch),
		errors.Is(err, domain.ErrInsufficientBalance):
		status, message = http.StatusBadRequest, err.Error()
	case errors.Is(err, domain.ErrAlreadySold):
		status, message = http.StatusConflict, err.Error()
	default:
		s.logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		status, message = http.StatusInternalServerError, "internal server error"
	}

	s.respondJSON(w, status, map[string]string{"error": message})
}

// decodeJSON reads a JSON request body into dst, rejecting malformed bodies.
func decodeJSON(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return &domain.ValidationError{Field: "body", Reason: "malformed JSON"}
	}
	return nil
}
