package matching_test

import (
	"testing"

	"neighborly/internal/matching"
	"neighborly/pkg/types"

	"github.com/stretchr/testify/assert"
)

func TestMatch(t *testing.T) {
	tests := []struct {
		name          string
		volunteerTags []string
		needTags      []string
		wantMatch     bool
		wantScore     int
	}{
		{
			name:          "exact tag",
			volunteerTags: []string{"cooking"},
			needTags:      []string{"cooking"},
			wantMatch:     true,
			wantScore:     1,
		},
		{
			name:          "case-insensitive substring against legacy free text",
			volunteerTags: []string{"cooking"},
			needTags:      []string{"Cooking Assistance"},
			wantMatch:     true,
			wantScore:     1,
		},
		{
			name:          "substring works in the other direction too",
			volunteerTags: []string{"Cooking Assistance"},
			needTags:      []string{"cooking"},
			wantMatch:     true,
			wantScore:     1,
		},
		{
			name:          "empty volunteer tags never match",
			volunteerTags: nil,
			needTags:      []string{"cooking"},
			wantMatch:     false,
			wantScore:     0,
		},
		{
			name:          "empty need tags never match",
			volunteerTags: []string{"cooking"},
			needTags:      nil,
			wantMatch:     false,
			wantScore:     0,
		},
		{
			name:          "unrelated tags",
			volunteerTags: []string{"driving"},
			needTags:      []string{"childcare"},
			wantMatch:     false,
			wantScore:     0,
		},
		{
			name:          "score counts matched need tags once each",
			volunteerTags: []string{"cooking", "logistics"},
			needTags:      []string{"Cooking", "Logistics & Coordination", "driving"},
			wantMatch:     true,
			wantScore:     2,
		},
		{
			name:          "duplicate need tags are not double counted",
			volunteerTags: []string{"cooking"},
			needTags:      []string{"cooking", "Cooking"},
			wantMatch:     true,
			wantScore:     1,
		},
		{
			name:          "whitespace is trimmed before comparison",
			volunteerTags: []string{"  cooking  "},
			needTags:      []string{"COOKING"},
			wantMatch:     true,
			wantScore:     1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := matching.Match(tt.volunteerTags, tt.needTags)
			assert.Equal(t, tt.wantMatch, got.IsMatch)
			assert.Equal(t, tt.wantScore, got.Score)
			assert.Len(t, got.MatchedTags, tt.wantScore)
		})
	}
}

func TestRankNeeds(t *testing.T) {
	needs := []*types.Need{
		{ID: "none", RequiredGifts: []string{"childcare"}},
		{ID: "both", RequiredGifts: []string{"cooking", "logistics"}},
		{ID: "one", RequiredGifts: []string{"Cooking Assistance"}},
	}

	ranked := matching.RankNeeds([]string{"cooking", "logistics"}, needs)

	assert.Equal(t, "both", ranked[0].Need.ID)
	assert.Equal(t, 2, ranked[0].Match.Score)
	assert.Equal(t, "one", ranked[1].Need.ID)
	assert.Equal(t, "none", ranked[2].Need.ID)
	assert.False(t, ranked[2].Match.IsMatch)

	// Non-matching needs stay in the list.
	assert.Len(t, ranked, 3)
}

func TestRankNeedsStableOnTies(t *testing.T) {
	needs := []*types.Need{
		{ID: "first", RequiredGifts: []string{"driving"}},
		{ID: "second", RequiredGifts: []string{"childcare"}},
	}

	ranked := matching.RankNeeds(nil, needs)

	assert.Equal(t, "first", ranked[0].Need.ID)
	assert.Equal(t, "second", ranked[1].Need.ID)
}
