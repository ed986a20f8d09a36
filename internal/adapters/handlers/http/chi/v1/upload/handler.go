package upload

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"roomfiles/internal/core/domain"
	"roomfiles/internal/core/port"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// HandlerV1 is the handler for v1 upload routes
type HandlerV1 struct {
	uploadService port.UploadService
	logger        *slog.Logger
}

// NewUploadHandlerV1 creates HandlerV1
func NewUploadHandlerV1(service port.UploadService, logger *slog.Logger) *HandlerV1 {
	return &HandlerV1{
		uploadService: service,
		logger:        logger,
	}
}

// Routes exposes handler routes
func (h *HandlerV1) Routes() chi.Router {
	router := chi.NewRouter()

	router.Post("/", h.BeginV1)
	router.Get("/{uploadID}", h.StatusV1)
	router.Delete("/{uploadID}", h.AbortV1)
	router.Get("/{uploadID}/parts/{partNumber}/url", h.PartURLV1)
	router.Post("/{uploadID}/parts/{partNumber}", h.CompletePartV1)
	router.Post("/{uploadID}/finalize", h.FinalizeV1)

	return router
}

// V1Error is the structured error payload. Internal state never appears here.
type V1Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (h *HandlerV1) respondError(w http.ResponseWriter, err error) {
	code := domain.CodeOf(err)

	status := http.StatusInternalServerError
	message := err.Error()
	switch code {
	case domain.CodeValidation:
		status = http.StatusBadRequest
	case domain.CodeNotFound:
		status = http.StatusNotFound
	case domain.CodeProvider:
		status = http.StatusBadGateway
		message = "storage provider request failed"
	default:
		message = "internal server error"
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if encodeErr := json.NewEncoder(w).Encode(V1Error{Code: string(code), Message: message}); encodeErr != nil {
		h.logger.Error("error encoding error response", "error", encodeErr)
	}
}

func (h *HandlerV1) respond(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		h.logger.Error("error encoding response", "error", err)
	}
}

func uploadIDParam(r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "uploadID"))
	return id, err == nil
}
