package httpx

import (
	"net/http"

	"github.com/ZinoChan/LangRhythms/internal/logging"
	"github.com/ZinoChan/LangRhythms/internal/server/content"
)

// ContentHandlers serves lesson documents.
type ContentHandlers struct {
	Store  content.Store
	Logger logging.Logger
}

// Lesson returns a handler that writes the document stored under key.
func (h *ContentHandlers) Lesson(key string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		doc, err := h.Store.Get(r.Context(), key)
		if err != nil {
			writeServiceError(w, r, h.Logger, err)
			return
		}
		WriteJSON(w, http.StatusOK, doc)
	}
}
