package api

import (
	"encoding/json"
	"net/http"

	"github.com/ifbridge/ifbridge/internal/netif"
)

func (s *Server) handleABI(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]uint32{"abi": netif.ABIVersion})
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	resp, err := s.engine.List()
	if err != nil {
		respondEngineError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, resp)
}

func (s *Server) handleApply(w http.ResponseWriter, r *http.Request) {
	var req netif.ApplyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondEngineError(w, netif.InvalidArgumentf("parsing apply request: %v", err))
		return
	}

	resp, err := s.engine.Apply(&req)
	if resp == nil {
		respondEngineError(w, err)
		return
	}

	// An ABI mismatch still produces an envelope; surface it with the
	// matching status so plain HTTP clients notice too.
	status := http.StatusOK
	if err != nil {
		status = statusForCode(err.Code)
	}
	respondJSON(w, status, resp)
}

func statusForCode(code netif.Code) int {
	switch code {
	case netif.CodeInvalidArgument:
		return http.StatusBadRequest
	case netif.CodeNotFound:
		return http.StatusNotFound
	case netif.CodeUnsupported:
		return http.StatusNotImplemented
	case netif.CodePermissionDenied:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}
