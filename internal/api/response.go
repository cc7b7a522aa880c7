package api

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
)

// maxBodyBytes caps JSON request bodies. Photo uploads use multipart with
// their own larger limit; a brief request with an embedded base64 photo stays
// well under this.
const maxBodyBytes = 1 << 20

func jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			slog.Error("encoding response", "error", err)
		}
	}
}

// jsonError writes a JSON error response with the given status code.
func jsonError(w http.ResponseWriter, status int, message string) {
	jsonResponse(w, status, map[string]string{"error": message})
}

// decodeJSON decodes a JSON request body into the given target, rejecting
// bodies over maxBodyBytes.
func decodeJSON(r *http.Request, target any) error {
	defer r.Body.Close()
	limited := io.LimitReader(r.Body, maxBodyBytes+1)
	data, err := io.ReadAll(limited)
	if err != nil {
		return fmt.Errorf("reading request body: %w", err)
	}
	if len(data) > maxBodyBytes {
		return fmt.Errorf("request body over %d bytes", maxBodyBytes)
	}
	if len(data) == 0 {
		return io.EOF
	}
	return json.Unmarshal(data, target)
}
