package middleware

import (
	"encoding/json"
	"net/http"
)

// writeError answers with the same {"error": ...} envelope the handlers
// use, so every status the API emits shares one wire format.
func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message})
}
