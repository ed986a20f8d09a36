package upload

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
)

// V1CompletePartRequest reports one uploaded part's eTag
type V1CompletePartRequest struct {
	ETag string `json:"etag"`
}

// V1ProgressResponse is the session progress view
type V1ProgressResponse struct {
	UploadID         string  `json:"upload_id"`
	Status           string  `json:"status"`
	TotalParts       int     `json:"total_parts"`
	CompletedParts   int     `json:"completed_parts"`
	Progress         float64 `json:"progress"`
	BytesTransferred int64   `json:"bytes_transferred"`
	TotalBytes       int64   `json:"total_bytes"`
}

func (h *HandlerV1) CompletePartV1(w http.ResponseWriter, r *http.Request) {
	uploadID, ok := uploadIDParam(r)
	if !ok {
		http.Error(w, "invalid upload ID", http.StatusBadRequest)
		return
	}

	partNumber, err := strconv.Atoi(chi.URLParam(r, "partNumber"))
	if err != nil {
		http.Error(w, "invalid part number", http.StatusBadRequest)
		return
	}

	var req V1CompletePartRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Error("error decoding complete part request", "error", err)
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if req.ETag == "" {
		http.Error(w, "etag is required", http.StatusBadRequest)
		return
	}

	progress, err := h.uploadService.CompletePart(r.Context(), uploadID, partNumber, req.ETag)
	if err != nil {
		h.logger.Error("error completing part", "upload_id", uploadID, "part", partNumber, "error", err)
		h.respondError(w, err)
		return
	}

	h.respond(w, http.StatusOK, V1ProgressResponse{
		UploadID:         progress.UploadID.String(),
		Status:           string(progress.Status),
		TotalParts:       progress.TotalParts,
		CompletedParts:   progress.CompletedParts,
		Progress:         progress.Progress,
		BytesTransferred: progress.BytesTransferred,
		TotalBytes:       progress.TotalBytes,
	})
}
