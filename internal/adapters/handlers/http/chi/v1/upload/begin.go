package upload

import (
	"encoding/json"
	"net/http"

	"roomfiles/internal/core/domain"

	"github.com/google/uuid"
)

// V1BeginRequest is the request to start a multipart upload
type V1BeginRequest struct {
	FileName         string            `json:"filename"`
	ContentType      string            `json:"content_type"`
	SizeBytes        int64             `json:"size_bytes"`
	RoomID           uuid.UUID         `json:"room_id"`
	UserID           uuid.UUID         `json:"user_id"`
	StorageAccountID string            `json:"storage_account_id,omitempty"`
	Metadata         map[string]string `json:"metadata,omitempty"`
}

// V1BeginResponse is the upload ticket returned to the caller
type V1BeginResponse struct {
	UploadID   uuid.UUID `json:"upload_id"`
	PartSize   int64     `json:"part_size"`
	TotalParts int       `json:"total_parts"`
}

func (h *HandlerV1) BeginV1(w http.ResponseWriter, r *http.Request) {
	var req V1BeginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Error("error decoding begin upload request", "error", err)
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if req.FileName == "" || req.ContentType == "" || req.SizeBytes == 0 || req.RoomID == uuid.Nil || req.UserID == uuid.Nil {
		http.Error(w, "missing param", http.StatusBadRequest)
		return
	}

	ticket, err := h.uploadService.Begin(r.Context(), domain.BeginUpload{
		FileName:         req.FileName,
		MimeType:         req.ContentType,
		TotalSize:        req.SizeBytes,
		RoomID:           req.RoomID,
		UserID:           req.UserID,
		StorageAccountID: req.StorageAccountID,
		Metadata:         req.Metadata,
	})
	if err != nil {
		h.logger.Error("error starting upload", "error", err)
		h.respondError(w, err)
		return
	}

	h.respond(w, http.StatusCreated, V1BeginResponse{
		UploadID:   ticket.UploadID,
		PartSize:   ticket.PartSize,
		TotalParts: ticket.TotalParts,
	})
}
