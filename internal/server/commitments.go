package server

import (
	"context"
	"net/http"

	"github.com/alexedwards/flow"
)

func (s *Service) handleRequestHelp(w http.ResponseWriter, r *http.Request) {
	volunteerID, err := s.userIDFromContext(r.Context())
	if err != nil {
		s.respondError(w, http.StatusUnauthorized, "UNAUTHENTICATED", "authentication required")
		return
	}

	needID := flow.Param(r.Context(), "id")

	commitment, err := s.commitmentSvc.RequestHelp(r.Context(), needID, volunteerID)
	if err != nil {
		s.respondDomainError(w, err)
		return
	}

	s.respondJSON(w, http.StatusCreated, map[string]any{
		"ok":     true,
		"id":     commitment.ID,
		"status": commitment.Status,
	})
}

func (s *Service) handleMyCommitments(w http.ResponseWriter, r *http.Request) {
	volunteerID, err := s.userIDFromContext(r.Context())
	if err != nil {
		s.respondError(w, http.StatusUnauthorized, "UNAUTHENTICATED", "authentication required")
		return
	}

	commitments, err := s.commitmentsRepo.CommitmentsByVolunteer(r.Context(), volunteerID)
	if err != nil {
		s.respondDomainError(w, err)
		return
	}

	s.respondJSON(w, http.StatusOK, commitments)
}

// handleNeedCommitments is the leader view of everyone signed up for a need.
func (s *Service) handleNeedCommitments(w http.ResponseWriter, r *http.Request) {
	actorID, err := s.userIDFromContext(r.Context())
	if err != nil {
		s.respondError(w, http.StatusUnauthorized, "UNAUTHENTICATED", "authentication required")
		return
	}

	needID := flow.Param(r.Context(), "id")

	actor, err := s.profilesRepo.Profile(r.Context(), actorID)
	if err != nil || !actor.IsLeader {
		s.respondError(w, http.StatusForbidden, "NOT_AUTHORIZED", "not authorized")
		return
	}

	need, err := s.needsRepo.Need(r.Context(), needID)
	if err != nil {
		s.respondDomainError(w, err)
		return
	}

	if need.OrganizationID != actor.OrganizationID {
		s.respondError(w, http.StatusForbidden, "NOT_AUTHORIZED", "not authorized")
		return
	}

	commitments, err := s.commitmentsRepo.CommitmentsByNeed(r.Context(), needID)
	if err != nil {
		s.respondDomainError(w, err)
		return
	}

	s.respondJSON(w, http.StatusOK, commitments)
}

func (s *Service) handleAcceptCommitment(w http.ResponseWriter, r *http.Request) {
	s.decideCommitment(w, r, s.commitmentSvc.Accept)
}

func (s *Service) handleDeclineCommitment(w http.ResponseWriter, r *http.Request) {
	s.decideCommitment(w, r, s.commitmentSvc.Decline)
}

func (s *Service) handleCancelCommitment(w http.ResponseWriter, r *http.Request) {
	s.decideCommitment(w, r, s.commitmentSvc.Cancel)
}

func (s *Service) decideCommitment(w http.ResponseWriter, r *http.Request, decide func(ctx context.Context, commitmentID, actorID string) (bool, error)) {
	actorID, err := s.userIDFromContext(r.Context())
	if err != nil {
		s.respondError(w, http.StatusUnauthorized, "UNAUTHENTICATED", "authentication required")
		return
	}

	commitmentID := flow.Param(r.Context(), "id")

	changed, err := decide(r.Context(), commitmentID, actorID)
	if err != nil {
		s.respondDomainError(w, err)
		return
	}

	s.respondJSON(w, http.StatusOK, changedResponse{OK: true, Changed: changed})
}
