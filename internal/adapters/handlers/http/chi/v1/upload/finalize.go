package upload

import (
	"net/http"

	"github.com/google/uuid"
)

// V1FinalizeResponse is the durable file record materialized by finalize
type V1FinalizeResponse struct {
	FileID     uuid.UUID `json:"file_id"`
	Name       string    `json:"name"`
	MimeType   string    `json:"mime_type"`
	Size       int64     `json:"size"`
	RoomID     uuid.UUID `json:"room_id"`
	StorageKey string    `json:"storage_key"`
}

func (h *HandlerV1) FinalizeV1(w http.ResponseWriter, r *http.Request) {
	uploadID, ok := uploadIDParam(r)
	if !ok {
		http.Error(w, "invalid upload ID", http.StatusBadRequest)
		return
	}

	record, err := h.uploadService.Finalize(r.Context(), uploadID)
	if err != nil {
		h.logger.Error("error finalizing upload", "upload_id", uploadID, "error", err)
		h.respondError(w, err)
		return
	}

	h.respond(w, http.StatusCreated, V1FinalizeResponse{
		FileID:     record.ID,
		Name:       record.Name,
		MimeType:   record.MimeType,
		Size:       record.Size,
		RoomID:     record.RoomID,
		StorageKey: record.StorageKey,
	})
}
