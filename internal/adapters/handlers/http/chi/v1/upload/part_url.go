package upload

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
)

// V1PartURLResponse carries the signed URL for one part
type V1PartURLResponse struct {
	PartNumber int    `json:"part_number"`
	URL        string `json:"url"`
}

func (h *HandlerV1) PartURLV1(w http.ResponseWriter, r *http.Request) {
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

	contentLength, err := strconv.ParseInt(r.URL.Query().Get("content_length"), 10, 64)
	if err != nil {
		http.Error(w, "content_length query param is required", http.StatusBadRequest)
		return
	}

	url, err := h.uploadService.PartUploadURL(r.Context(), uploadID, partNumber, contentLength)
	if err != nil {
		h.logger.Error("error issuing part URL", "upload_id", uploadID, "part", partNumber, "error", err)
		h.respondError(w, err)
		return
	}

	h.respond(w, http.StatusOK, V1PartURLResponse{PartNumber: partNumber, URL: url})
}
