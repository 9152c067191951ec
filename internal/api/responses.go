package api

import (
	"encoding/json"
	"net/http"

	"github.com/ifbridge/ifbridge/internal/log"
	"github.com/ifbridge/ifbridge/internal/netif"
)

// respondJSON sends a JSON response.
func respondJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Errorf("[API] Failed to encode response: %v", err)
	}
}

// respondEngineError sends a whole-call failure as the standard error
// envelope with the HTTP status derived from the error code.
func respondEngineError(w http.ResponseWriter, e *netif.Error) {
	respondJSON(w, statusForCode(e.Code), netif.NewErrorEnvelope(e))
}
