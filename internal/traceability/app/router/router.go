package router

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	goccy_json "github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/valdezmx/wms-traceability/internal/traceability/domain"
	internal_error "github.com/valdezmx/wms-traceability/internal/traceability/error"
	"github.com/valdezmx/wms-traceability/internal/traceability/usecase"
)

// userIDHeader carries the authenticated caller's id, set by the upstream
// auth gateway. The service itself performs no authentication.
const userIDHeader = "X-User-Id"

type router struct {
	uc     usecase.UseCase
	logger *slog.Logger
	mux    *http.ServeMux
}

var _ http.Handler = (*router)(nil)

func NewRouter(
	uc usecase.UseCase,
	logger *slog.Logger,
) *router {
	router := &router{
		uc:     uc,
		logger: logger,
	}

	// Checkpoints are immutable: no PUT/DELETE routes exist.
	mux := http.NewServeMux()
	mux.HandleFunc("GET /checkpoints", router.getAll)
	mux.HandleFunc("GET /checkpoints/{id}", router.getByID)
	mux.HandleFunc("GET /checkpoints/by-shipment/{shipmentId}", router.byShipment)
	mux.HandleFunc("GET /checkpoints/timeline/{shipmentId}", router.timeline)
	mux.HandleFunc("GET /checkpoints/by-status/{shipmentId}/{statusCode}", router.byStatus)
	mux.HandleFunc("GET /checkpoints/last/{shipmentId}", router.last)
	mux.HandleFunc("POST /checkpoints", router.create)

	router.mux = mux
	return router
}

func (r *router) getAll(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	logger := r.logger.With(slog.String("method", req.Method), slog.String("url", req.URL.Path))

	request := domain.PagedRequest{
		Page:     intQuery(req, "page", domain.DefaultPage),
		PageSize: intQuery(req, "pageSize", domain.DefaultPageSize),
	}

	response, err := r.uc.GetAll(req.Context(), request)
	if err != nil {
		r.writeError(w, logger, err)
		return
	}

	r.writeJSON(w, logger, http.StatusOK, response)
}

func (r *router) getByID(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	logger := r.logger.With(slog.String("method", req.Method), slog.String("url", req.URL.Path))

	id, err := uuid.Parse(req.PathValue("id"))
	if err != nil {
		r.writeError(w, logger, internal_error.ValidationError("id must be a valid uuid"))
		return
	}

	response, err := r.uc.GetByID(req.Context(), id)
	if err != nil {
		r.writeError(w, logger, err)
		return
	}

	r.writeJSON(w, logger, http.StatusOK, response)
}

func (r *router) byShipment(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	logger := r.logger.With(slog.String("method", req.Method), slog.String("url", req.URL.Path))

	shipmentID, err := uuid.Parse(req.PathValue("shipmentId"))
	if err != nil {
		r.writeError(w, logger, internal_error.ValidationError("shipmentId must be a valid uuid"))
		return
	}

	response, err := r.uc.GetByShipment(req.Context(), shipmentID)
	if err != nil {
		r.writeError(w, logger, err)
		return
	}

	r.writeJSON(w, logger, http.StatusOK, response)
}

func (r *router) timeline(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	logger := r.logger.With(slog.String("method", req.Method), slog.String("url", req.URL.Path))

	shipmentID, err := uuid.Parse(req.PathValue("shipmentId"))
	if err != nil {
		r.writeError(w, logger, internal_error.ValidationError("shipmentId must be a valid uuid"))
		return
	}

	response, err := r.uc.GetTimeline(req.Context(), shipmentID)
	if err != nil {
		r.writeError(w, logger, err)
		return
	}

	r.writeJSON(w, logger, http.StatusOK, response)
}

func (r *router) byStatus(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	logger := r.logger.With(slog.String("method", req.Method), slog.String("url", req.URL.Path))

	shipmentID, err := uuid.Parse(req.PathValue("shipmentId"))
	if err != nil {
		r.writeError(w, logger, internal_error.ValidationError("shipmentId must be a valid uuid"))
		return
	}

	response, err := r.uc.GetByStatusCode(req.Context(), shipmentID, req.PathValue("statusCode"))
	if err != nil {
		r.writeError(w, logger, err)
		return
	}

	r.writeJSON(w, logger, http.StatusOK, response)
}

func (r *router) last(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	logger := r.logger.With(slog.String("method", req.Method), slog.String("url", req.URL.Path))

	shipmentID, err := uuid.Parse(req.PathValue("shipmentId"))
	if err != nil {
		r.writeError(w, logger, internal_error.ValidationError("shipmentId must be a valid uuid"))
		return
	}

	response, err := r.uc.GetLastCheckpoint(req.Context(), shipmentID)
	if err != nil {
		r.writeError(w, logger, err)
		return
	}

	r.writeJSON(w, logger, http.StatusOK, response)
}

func (r *router) create(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	defer req.Body.Close()

	logger := r.logger.With(slog.String("method", req.Method), slog.String("url", req.URL.Path))

	userID, err := uuid.Parse(req.Header.Get(userIDHeader))
	if err != nil {
		r.writeError(w, logger, internal_error.UnauthorizedError("could not determine user"))
		return
	}

	var input domain.CreateCheckpointInput
	if err := goccy_json.NewDecoder(req.Body).Decode(&input); err != nil {
		logger.Error("failed to decode request", slog.Any("error", err))
		r.writeError(w, logger, internal_error.ValidationError(err.Error()))
		return
	}

	response, err := r.uc.CreateCheckpoint(req.Context(), &input, userID)
	if err != nil {
		// On create, a missing shipment maps to 400: the request target
		// is the collection, not the shipment.
		if _, ok := err.(internal_error.NotFoundError); ok {
			err = internal_error.ValidationError(err.Error())
		}
		r.writeError(w, logger, err)
		return
	}

	w.Header().Set("Location", "/checkpoints/"+response.ID.String())
	r.writeJSON(w, logger, http.StatusCreated, response)
}

func (r *router) writeError(w http.ResponseWriter, logger *slog.Logger, err error) {
	logger.Error("request failed", slog.Any("error", err))

	switch err.(type) {
	case internal_error.ValidationError:
		w.WriteHeader(http.StatusBadRequest)
	case internal_error.UnauthorizedError:
		w.WriteHeader(http.StatusUnauthorized)
	case internal_error.NotFoundError:
		w.WriteHeader(http.StatusNotFound)
	default:
		w.WriteHeader(http.StatusInternalServerError)
	}

	if err := json.NewEncoder(w).Encode(map[string]string{"error": err.Error()}); err != nil {
		http.Error(w, "Internal Server Error: "+err.Error(), http.StatusInternalServerError)
	}
}

func (r *router) writeJSON(w http.ResponseWriter, logger *slog.Logger, status int, v any) {
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("failed to encode response", slog.Any("error", err))
		http.Error(w, "Internal Server Error: "+err.Error(), http.StatusInternalServerError)
	}
}

func intQuery(req *http.Request, key string, fallback int) int {
	value := req.URL.Query().Get(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func (r *router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.mux.ServeHTTP(w, req)
}
