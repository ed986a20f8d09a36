package upload

import (
	"net/http"
)

func (h *HandlerV1) StatusV1(w http.ResponseWriter, r *http.Request) {
	uploadID, ok := uploadIDParam(r)
	if !ok {
		http.Error(w, "invalid upload ID", http.StatusBadRequest)
		return
	}

	progress, err := h.uploadService.Status(r.Context(), uploadID)
	if err != nil {
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
