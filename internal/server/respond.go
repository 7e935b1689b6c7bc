package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"neighborly/pkg/types"
)

type errorResponse struct {
	OK    bool   `json:"ok"`
	Code  string `json:"error"`
	Error string `json:"message"`
}

type changedResponse struct {
	OK      bool `json:"ok"`
	Changed bool `json:"changed"`
}

func (s *Service) respondJSON(w http.ResponseWriter, code int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)

	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.WithError(err).Error("failed to encode response")
	}
}

func (s *Service) respondError(w http.ResponseWriter, code int, errCode, message string) {
	s.respondJSON(w, code, errorResponse{Code: errCode, Error: message})
}

// respondDomainError maps workflow sentinels onto distinct, user-actionable
// codes. Anything unmapped is a transient failure the caller may retry.
func (s *Service) respondDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, types.ErrNeedNotActive):
		s.respondError(w, http.StatusConflict, "NEED_NOT_ACTIVE", err.Error())
	case errors.Is(err, types.ErrAlreadyCommitted):
		s.respondError(w, http.StatusConflict, "ALREADY_COMMITTED", err.Error())
	case errors.Is(err, types.ErrNotAuthorized):
		s.respondError(w, http.StatusForbidden, "NOT_AUTHORIZED", err.Error())
	case errors.Is(err, types.ErrNeedNotFound),
		errors.Is(err, types.ErrCommitmentNotFound),
		errors.Is(err, types.ErrProfileNotFound):
		s.respondError(w, http.StatusNotFound, "NOT_FOUND", err.Error())
	case errors.Is(err, types.ErrInvalidInput):
		s.respondError(w, http.StatusBadRequest, "INVALID_INPUT", err.Error())
	default:
		s.logger.WithError(err).Error("operation failed")
		s.respondError(w, http.StatusInternalServerError, "TRANSIENT", "temporary failure, please retry")
	}
}
