package seed

import (
	"context"
	"fmt"

	"neighborly/internal/store"
	"neighborly/pkg/types"

	"github.com/k0kubun/pp/v3"
)

type fakeNeedSeed struct {
	CreatorID     string
	Title         string
	Description   string
	RequiredGifts []string
	Urgency       types.NeedUrgency
	PeopleNeeded  int
	AutoAccept    bool
	Status        types.NeedStatus
}

var fakeNeeds = []fakeNeedSeed{
	{
		CreatorID:     "33333333-3333-3333-3333-333333333333",
		Title:         "Meal train for the Hendersons",
		Description:   "Looking for a few people to cook and drop off dinners next week while the family is at the hospital.",
		RequiredGifts: []string{"cooking", "deliveries"},
		Urgency:       types.NeedUrgencyASAP,
		PeopleNeeded:  3,
		Status:        types.NeedStatusActive,
	},
	{
		CreatorID:     "44444444-4444-4444-4444-444444444444",
		Title:         "Saturday morning yard cleanup",
		Description:   "An elderly neighbor needs help clearing leaves and trimming hedges before winter sets in.",
		RequiredGifts: []string{"yardwork"},
		Urgency:       types.NeedUrgencySpecific,
		PeopleNeeded:  4,
		AutoAccept:    true,
		Status:        types.NeedStatusActive,
	},
	{
		CreatorID:     "55555555-5555-5555-5555-555555555555",
		Title:         "Weekly ride to dialysis",
		Description:   "Ongoing need for a driver on Tuesday and Thursday mornings, roughly an hour round trip.",
		RequiredGifts: []string{"driving"},
		Urgency:       types.NeedUrgencyOngoing,
		PeopleNeeded:  2,
		Status:        types.NeedStatusPending,
	},
}

func SeedFakeNeeds(ctx context.Context, needsRepo *store.NeedRepository) error {
	seeded := 0
	for _, fake := range fakeNeeds {
		existing, err := needsRepo.NeedsByCreator(ctx, fake.CreatorID)
		if err != nil {
			return fmt.Errorf("failed to check existing needs for %s: %w", fake.CreatorID, err)
		}
		if len(existing) > 0 {
			continue
		}

		need := &types.Need{
			OrganizationID: demoOrgID,
			CreatorID:      fake.CreatorID,
			Title:          fake.Title,
			Description:    fake.Description,
			RequiredGifts:  fake.RequiredGifts,
			Urgency:        fake.Urgency,
			PeopleNeeded:   fake.PeopleNeeded,
			AutoAccept:     fake.AutoAccept,
			Status:         fake.Status,
		}

		if err := needsRepo.CreateNeed(ctx, need); err != nil {
			return fmt.Errorf("failed to seed need %q: %w", fake.Title, err)
		}

		pp.Println(need.ID, need.Title, need.Status)
		seeded++
	}

	fmt.Printf("Seeded %d needs\n", seeded)
	return nil
}
