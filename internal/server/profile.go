package server

import (
	"errors"
	"net/http"

	"neighborly/internal/gifts"
	"neighborly/pkg/types"
)

// handleGiftTaxonomy exposes the closed vocabulary so clients can render
// pickers instead of collecting free text.
func (s *Service) handleGiftTaxonomy(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, gifts.All())
}

type upsertProfileInput struct {
	OrganizationID string   `form:"organization_id"`
	DisplayName    string   `form:"display_name"`
	Email          *string  `form:"email"`
	Gifts          []string `form:"gifts"`
}

func (s *Service) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	userID, err := s.userIDFromContext(r.Context())
	if err != nil {
		s.respondError(w, http.StatusUnauthorized, "UNAUTHENTICATED", "authentication required")
		return
	}

	profile, err := s.profilesRepo.Profile(r.Context(), userID)
	if err != nil {
		s.respondDomainError(w, err)
		return
	}

	s.respondJSON(w, http.StatusOK, profile)
}

// handleUpsertProfile updates the caller's declared gifts and display name.
// Non-canonical tags are kept as-is; matching tolerates them, and the
// client can use the taxonomy endpoint data to steer users toward the
// closed vocabulary.
func (s *Service) handleUpsertProfile(w http.ResponseWriter, r *http.Request) {
	userID, err := s.userIDFromContext(r.Context())
	if err != nil {
		s.respondError(w, http.StatusUnauthorized, "UNAUTHENTICATED", "authentication required")
		return
	}

	if err := r.ParseForm(); err != nil {
		s.respondError(w, http.StatusBadRequest, "INVALID_INPUT", "invalid form payload")
		return
	}

	var input upsertProfileInput
	if err := decoder.Decode(&input, r.PostForm); err != nil {
		s.respondError(w, http.StatusBadRequest, "INVALID_INPUT", "invalid form payload")
		return
	}

	existing, err := s.profilesRepo.Profile(r.Context(), userID)
	if err != nil && !errors.Is(err, types.ErrProfileNotFound) {
		s.respondDomainError(w, err)
		return
	}

	profile := &types.Profile{
		ID:             userID,
		OrganizationID: input.OrganizationID,
		DisplayName:    input.DisplayName,
		Email:          input.Email,
		Gifts:          input.Gifts,
	}

	if profile.Gifts == nil {
		profile.Gifts = []string{}
	}

	if existing != nil {
		profile.OrganizationID = existing.OrganizationID
		profile.IsLeader = existing.IsLeader
		profile.CreatedAt = existing.CreatedAt
	}

	if err := s.profilesRepo.UpsertProfile(r.Context(), profile); err != nil {
		s.respondDomainError(w, err)
		return
	}

	canonical := 0
	for _, tag := range profile.Gifts {
		if gifts.IsCanonical(tag) {
			canonical++
		}
	}

	s.respondJSON(w, http.StatusOK, map[string]any{
		"ok":              true,
		"canonical_gifts": canonical,
		"total_gifts":     len(profile.Gifts),
	})
}
