package httpx

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/ZinoChan/LangRhythms/internal/common"
)

// maxRequestBytes bounds JSON request bodies.
const maxRequestBytes = 1 << 20

// errInvalidBody marks request bodies that could not be decoded. Clients
// only ever see a fixed message for it; the decoder detail is logged.
var errInvalidBody = fmt.Errorf("%w: invalid JSON body", common.ErrorValidation)

// DecodeJSON decodes the request body into dst. Malformed input is reported
// as errInvalidBody so callers can hand it to writeServiceError.
func DecodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBytes))
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("%w: %w", errInvalidBody, err)
	}
	return nil
}

// WriteJSON writes a JSON response with the given status code and data.
func WriteJSON(w http.ResponseWriter, code int, v any) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(v); err != nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	// Client disconnects can't be recovered from here.
	_, _ = buf.WriteTo(w)
}

// WriteError writes {"error": msg}.
func WriteError(w http.ResponseWriter, code int, msg string) {
	WriteJSON(w, code, map[string]string{"error": msg})
}
