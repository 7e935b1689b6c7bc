package seed

import (
	"context"
	"fmt"

	"neighborly/internal/store"
	"neighborly/internal/utils"
	"neighborly/pkg/types"
)

const demoOrgID = "demo-org"

type fakeProfileSeed struct {
	ID          string
	DisplayName string
	Email       string
	Gifts       []string
	IsLeader    bool
}

var fakeProfiles = []fakeProfileSeed{
	{ID: "11111111-1111-1111-1111-111111111111", DisplayName: "Ava Williams", Email: "ava.williams+seed1@example.com", Gifts: []string{"cooking", "hospitality"}, IsLeader: true},
	{ID: "22222222-2222-2222-2222-222222222222", DisplayName: "Liam Johnson", Email: "liam.johnson+seed2@example.com", Gifts: []string{"driving", "logistics"}, IsLeader: true},
	{ID: "33333333-3333-3333-3333-333333333333", DisplayName: "Noah Brown", Email: "noah.brown+seed3@example.com", Gifts: []string{"repairs", "yardwork"}},
	{ID: "44444444-4444-4444-4444-444444444444", DisplayName: "Mia Davis", Email: "mia.davis+seed4@example.com", Gifts: []string{"childcare", "teaching"}},
	{ID: "55555555-5555-5555-5555-555555555555", DisplayName: "Elijah Garcia", Email: "elijah.garcia+seed5@example.com", Gifts: []string{"Cooking Assistance", "music"}},
	{ID: "66666666-6666-6666-6666-666666666666", DisplayName: "Olivia Miller", Email: "olivia.miller+seed6@example.com", Gifts: []string{"technology", "administration"}},
}

func SeedFakeProfiles(ctx context.Context, profileRepo *store.ProfileRepository) error {
	for _, fake := range fakeProfiles {
		profile := &types.Profile{
			ID:             fake.ID,
			OrganizationID: demoOrgID,
			DisplayName:    fake.DisplayName,
			Email:          utils.StringPtr(fake.Email),
			Gifts:          fake.Gifts,
			IsLeader:       fake.IsLeader,
		}

		if err := profileRepo.UpsertProfile(ctx, profile); err != nil {
			return fmt.Errorf("failed to seed profile %s: %w", fake.ID, err)
		}
	}

	return nil
}
