package httpx

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"

	apperrors "github.com/orc-hfg/uploader/internal/errors"
)

const maxJSONBody = 1 << 20

// WriteJSON writes a JSON response with the given status code and data.
func WriteJSON(w http.ResponseWriter, code int, v any) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(v); err != nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if _, err := buf.WriteTo(w); err != nil {
		// Response writer errors (e.g., client disconnect) can't be recovered from here.
		return
	}
}

// StatusBody is the structured error body shared with the Madek server.
type StatusBody struct {
	StatusCode    int    `json:"statusCode"`
	StatusMessage string `json:"statusMessage"`
}

// WriteStatusError writes err as {"statusCode","statusMessage"}.
// Errors without a status are reported as 500.
func WriteStatusError(w http.ResponseWriter, err error) {
	code := apperrors.StatusCodeOf(err)
	if code < http.StatusBadRequest {
		code = http.StatusInternalServerError
	}
	WriteJSON(w, code, StatusBody{StatusCode: code, StatusMessage: apperrors.MessageOf(err)})
}

// decodeJSONLenient decodes a bounded request body into dst.
// It reports false on a malformed body and leaves dst untouched.
func decodeJSONLenient(r *http.Request, dst any) bool {
	if r.Body == nil {
		return false
	}
	data, err := io.ReadAll(io.LimitReader(r.Body, maxJSONBody))
	if err != nil || len(data) == 0 {
		return false
	}
	return json.Unmarshal(data, dst) == nil
}
