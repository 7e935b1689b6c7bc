package server

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"neighborly/internal/matching"
	"neighborly/internal/workflow"
	"neighborly/pkg/types"

	"github.com/alexedwards/flow"
)

type needView struct {
	*types.Need
	MatchScore  int      `json:"match_score,omitempty"`
	MatchedTags []string `json:"matched_tags,omitempty"`
}

// rankedRequested reports whether the caller asked for the ranked listing.
// Accepts the usual boolean spellings, so ?ranked=0 stays unranked.
func rankedRequested(r *http.Request) bool {
	v, err := strconv.ParseBool(r.URL.Query().Get("ranked"))
	return err == nil && v
}

// handleBrowseNeeds lists active needs. With ?ranked=1 the caller's declared
// gifts order the list best-match-first; needs that don't match stay in the
// list so the unfiltered view is never narrower than the plain one.
func (s *Service) handleBrowseNeeds(w http.ResponseWriter, r *http.Request) {
	userID, err := s.userIDFromContext(r.Context())
	if err != nil {
		s.respondError(w, http.StatusUnauthorized, "UNAUTHENTICATED", "authentication required")
		return
	}

	needs, err := s.needsRepo.NeedsByStatus(r.Context(), types.NeedStatusActive)
	if err != nil {
		s.respondDomainError(w, err)
		return
	}

	if !rankedRequested(r) {
		s.respondJSON(w, http.StatusOK, needs)
		return
	}

	var volunteerGifts []string
	if profile, err := s.profilesRepo.Profile(r.Context(), userID); err == nil {
		volunteerGifts = profile.Gifts
	}

	ranked := matching.RankNeeds(volunteerGifts, needs)
	views := make([]needView, 0, len(ranked))
	for _, rn := range ranked {
		views = append(views, needView{
			Need:        rn.Need,
			MatchScore:  rn.Match.Score,
			MatchedTags: rn.Match.MatchedTags,
		})
	}

	s.respondJSON(w, http.StatusOK, views)
}

func (s *Service) handleSubmitNeed(w http.ResponseWriter, r *http.Request) {
	userID, err := s.userIDFromContext(r.Context())
	if err != nil {
		s.respondError(w, http.StatusUnauthorized, "UNAUTHENTICATED", "authentication required")
		return
	}

	if err := r.ParseForm(); err != nil {
		s.respondError(w, http.StatusBadRequest, "INVALID_INPUT", "invalid form payload")
		return
	}

	var input types.SubmitNeedInput
	if err := decoder.Decode(&input, r.PostForm); err != nil {
		s.respondError(w, http.StatusBadRequest, "INVALID_INPUT", "invalid form payload")
		return
	}

	need, err := s.needSvc.Submit(r.Context(), userID, input)
	if err != nil {
		s.respondDomainError(w, err)
		return
	}

	s.respondJSON(w, http.StatusCreated, map[string]string{"id": need.ID})
}

func (s *Service) handleNeedDetail(w http.ResponseWriter, r *http.Request) {
	userID, err := s.userIDFromContext(r.Context())
	if err != nil {
		s.respondError(w, http.StatusUnauthorized, "UNAUTHENTICATED", "authentication required")
		return
	}

	needID := flow.Param(r.Context(), "id")

	need, err := s.needsRepo.Need(r.Context(), needID)
	if err != nil {
		s.respondDomainError(w, err)
		return
	}

	// Pending and rejected needs read as not-found to everyone except the
	// creator and the org's leaders.
	if need.Status != types.NeedStatusActive {
		viewer, err := s.profilesRepo.Profile(r.Context(), userID)
		if err != nil && !errors.Is(err, types.ErrProfileNotFound) {
			s.respondDomainError(w, err)
			return
		}
		if !workflow.NeedVisibleTo(need, viewer) {
			s.respondDomainError(w, types.ErrNeedNotFound)
			return
		}
	}

	accepted, err := s.commitmentSvc.AcceptedCount(r.Context(), needID)
	if err != nil {
		s.respondDomainError(w, err)
		return
	}

	remaining := need.PeopleNeeded - accepted
	if remaining < 0 {
		remaining = 0
	}

	s.respondJSON(w, http.StatusOK, map[string]any{
		"need":           need,
		"accepted_count": accepted,
		"remaining":      remaining,
	})
}

func (s *Service) handleApproveNeed(w http.ResponseWriter, r *http.Request) {
	s.decideNeed(w, r, s.needSvc.Approve)
}

func (s *Service) handleRejectNeed(w http.ResponseWriter, r *http.Request) {
	s.decideNeed(w, r, s.needSvc.Reject)
}

func (s *Service) decideNeed(w http.ResponseWriter, r *http.Request, decide func(ctx context.Context, needID, actorID string) (bool, error)) {
	actorID, err := s.userIDFromContext(r.Context())
	if err != nil {
		s.respondError(w, http.StatusUnauthorized, "UNAUTHENTICATED", "authentication required")
		return
	}

	needID := flow.Param(r.Context(), "id")

	changed, err := decide(r.Context(), needID, actorID)
	if err != nil {
		s.respondDomainError(w, err)
		return
	}

	s.respondJSON(w, http.StatusOK, changedResponse{OK: true, Changed: changed})
}
