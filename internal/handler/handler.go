package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	_ "github.com/mtlprog/dbprobe/docs" // Import generated docs
	"github.com/mtlprog/dbprobe/internal/database"
	"github.com/mtlprog/dbprobe/internal/handler/dto"
	"github.com/mtlprog/dbprobe/internal/metrics"
	"github.com/mtlprog/dbprobe/internal/middleware"
	httpSwagger "github.com/swaggo/http-swagger"
)

// Handler holds dependencies for HTTP handlers.
type Handler struct {
	db      database.Lister
	metrics *metrics.Metrics
	logger  *slog.Logger
}

// New creates a new Handler. db may be nil, in which case /dbtest reports
// no databases. A nil m gets a fresh metrics set.
func New(db database.Lister, m *metrics.Metrics) *Handler {
	if m == nil {
		m = metrics.New()
	}

	return &Handler{
		db:      db,
		metrics: m,
		logger:  slog.Default(),
	}
}

// RegisterRoutes registers all HTTP routes.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /health", h.handleHealth)
	mux.HandleFunc("GET /dbtest", h.handleDBTest)

	mux.Handle("GET /metrics", h.metrics.Handler())
	mux.HandleFunc("GET /swagger/", httpSwagger.Handler())
}

// Routes returns the registered routes wrapped in the request ID, access
// log and metrics middlewares.
func (h *Handler) Routes() http.Handler {
	mux := http.NewServeMux()
	h.RegisterRoutes(mux)

	return middleware.Chain(mux,
		middleware.RequestID,
		middleware.AccessLog(h.logger),
		middleware.Metrics(h.metrics),
	)
}

// handleHealth reports that the process is up.
// @Summary Liveness probe
// @Tags health
// @Produce json
// @Success 200 {object} dto.HealthResponse
// @Router /health [get]
func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, dto.HealthResponse{Message: "OK"})
}

// handleDBTest lists the databases visible to the configured credential.
// @Summary List databases
// @Description Lists the database names visible to the connected credential, in store order.
// @Tags diagnostics
// @Produce json
// @Success 200 {object} dto.DatabasesResponse
// @Failure 500 {object} dto.ErrorResponse
// @Failure 503 {object} dto.ErrorResponse
// @Router /dbtest [get]
func (h *Handler) handleDBTest(w http.ResponseWriter, r *http.Request) {
	if h.db == nil {
		respondJSON(w, http.StatusOK, dto.NewDatabasesResponse(nil))
		return
	}

	ctx := r.Context()

	names, err := h.db.ListDatabaseNames(ctx)
	h.metrics.ObserveListing(err)
	if err != nil {
		h.logger.ErrorContext(ctx, "list databases failed",
			"error", err,
			"request_id", middleware.RequestIDFromContext(ctx),
		)
		status, code, message := dto.MapDomainError(err)
		respondError(w, status, code, message)
		return
	}

	respondJSON(w, http.StatusOK, dto.NewDatabasesResponse(names))
}

// respondJSON writes a JSON response with the given status code.
func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("failed to encode JSON response", "error", err)
	}
}

// respondError writes a standard error response.
func respondError(w http.ResponseWriter, status int, code, message string) {
	respondJSON(w, status, dto.NewErrorResponse(code, message))
}
