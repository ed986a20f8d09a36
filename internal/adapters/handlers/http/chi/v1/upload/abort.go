package upload

import (
	"net/http"
)

func (h *HandlerV1) AbortV1(w http.ResponseWriter, r *http.Request) {
	uploadID, ok := uploadIDParam(r)
	if !ok {
		http.Error(w, "invalid upload ID", http.StatusBadRequest)
		return
	}

	if err := h.uploadService.Abort(r.Context(), uploadID); err != nil {
		h.logger.Error("error aborting upload", "upload_id", uploadID, "error", err)
		h.respondError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
