package matching

import (
	"sort"
	"strings"

	"neighborly/pkg/types"
)

// Result is the outcome of comparing a volunteer's declared gifts against a
// need's required gifts.
type Result struct {
	IsMatch     bool
	MatchedTags []string
	Score       int
}

// Match compares two tag sets. Two tags match when one is a case-insensitive
// substring of the other, which keeps legacy free-text tags ("Cooking
// Assistance") matching canonical ones ("cooking"). This is deliberately
// recall-favoring; the score is only ever used for sort ordering.
func Match(volunteerTags, needTags []string) Result {
	var result Result

	if len(volunteerTags) == 0 || len(needTags) == 0 {
		return result
	}

	seen := make(map[string]bool, len(needTags))
	for _, needTag := range needTags {
		nt := normalize(needTag)
		if nt == "" || seen[nt] {
			continue
		}
		for _, volTag := range volunteerTags {
			vt := normalize(volTag)
			if vt == "" {
				continue
			}
			if strings.Contains(nt, vt) || strings.Contains(vt, nt) {
				seen[nt] = true
				result.MatchedTags = append(result.MatchedTags, needTag)
				break
			}
		}
	}

	result.Score = len(result.MatchedTags)
	result.IsMatch = result.Score > 0

	return result
}

// RankedNeed pairs a need with its match result for the "best match" view.
type RankedNeed struct {
	Need  *types.Need
	Match Result
}

// RankNeeds orders needs by descending match score against the volunteer's
// gifts. Needs that don't match stay in the list (the unfiltered view still
// shows everything); ties keep their original relative order.
func RankNeeds(volunteerTags []string, needs []*types.Need) []RankedNeed {
	ranked := make([]RankedNeed, 0, len(needs))
	for _, need := range needs {
		ranked = append(ranked, RankedNeed{
			Need:  need,
			Match: Match(volunteerTags, need.RequiredGifts),
		})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Match.Score > ranked[j].Match.Score
	})

	return ranked
}

func normalize(tag string) string {
	return strings.ToLower(strings.TrimSpace(tag))
}
