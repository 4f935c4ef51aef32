package errors

import (
	"encoding/json"
	"net/http"
)

// Write emits a flat JSON error envelope — {"error": message, ...extra} —
// at kind's fixed status, plus any caller-supplied response headers (e.g.
// Retry-After). extra and headers may both be nil.
func Write(w http.ResponseWriter, kind Kind, message string, extra map[string]any, headers map[string]string) {
	for k, v := range headers {
		w.Header().Set(k, v)
	}

	body := map[string]any{"error": message}
	for k, v := range extra {
		body[k] = v
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(kind.HTTPStatus())
	json.NewEncoder(w).Encode(body)
}

// WriteSimple is Write with no extra fields or headers.
func WriteSimple(w http.ResponseWriter, kind Kind, message string) {
	Write(w, kind, message, nil, nil)
}
