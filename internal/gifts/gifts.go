package gifts

import "strings"

// Category groups related skill tags. The list below is the source of truth
// for the taxonomy; profiles may still carry legacy free-text tags, which
// matching tolerates but lookups here will not resolve.
type Category struct {
	Name         string
	Slug         string
	DisplayOrder int
	Gifts        []Gift
}

type Gift struct {
	Tag         string
	DisplayName string
}

var categories = []Category{
	{
		Name:         "Practical Service",
		Slug:         "practical-service",
		DisplayOrder: 1,
		Gifts: []Gift{
			{Tag: "cooking", DisplayName: "Cooking & Meal Prep"},
			{Tag: "cleaning", DisplayName: "Cleaning"},
			{Tag: "yardwork", DisplayName: "Yard Work"},
			{Tag: "repairs", DisplayName: "Home Repairs"},
			{Tag: "moving", DisplayName: "Moving & Hauling"},
		},
	},
	{
		Name:         "Transportation",
		Slug:         "transportation",
		DisplayOrder: 2,
		Gifts: []Gift{
			{Tag: "driving", DisplayName: "Driving & Rides"},
			{Tag: "deliveries", DisplayName: "Deliveries"},
		},
	},
	{
		Name:         "Care & Hospitality",
		Slug:         "care-hospitality",
		DisplayOrder: 3,
		Gifts: []Gift{
			{Tag: "childcare", DisplayName: "Childcare"},
			{Tag: "eldercare", DisplayName: "Elder Care"},
			{Tag: "hospitality", DisplayName: "Hospitality"},
			{Tag: "visitation", DisplayName: "Visitation"},
		},
	},
	{
		Name:         "Administration & Logistics",
		Slug:         "administration-logistics",
		DisplayOrder: 4,
		Gifts: []Gift{
			{Tag: "logistics", DisplayName: "Logistics & Coordination"},
			{Tag: "administration", DisplayName: "Administration"},
			{Tag: "finance", DisplayName: "Finance & Budgeting"},
			{Tag: "technology", DisplayName: "Technology Help"},
		},
	},
	{
		Name:         "Teaching & Encouragement",
		Slug:         "teaching-encouragement",
		DisplayOrder: 5,
		Gifts: []Gift{
			{Tag: "teaching", DisplayName: "Teaching & Tutoring"},
			{Tag: "mentoring", DisplayName: "Mentoring"},
			{Tag: "counseling", DisplayName: "Counseling & Listening"},
			{Tag: "music", DisplayName: "Music"},
		},
	},
}

var (
	byTag         = map[string]Gift{}
	categoryByTag = map[string]Category{}
)

func init() {
	for _, c := range categories {
		for _, g := range c.Gifts {
			byTag[g.Tag] = g
			categoryByTag[g.Tag] = c
		}
	}
}

// All returns the taxonomy in display order.
func All() []Category {
	out := make([]Category, len(categories))
	copy(out, categories)
	return out
}

// CategoryFor resolves the category a canonical tag belongs to.
func CategoryFor(tag string) (Category, bool) {
	c, ok := categoryByTag[normalize(tag)]
	return c, ok
}

// DisplayName returns the human-readable name for a canonical tag. Unknown
// (legacy free-text) tags are returned unchanged.
func DisplayName(tag string) string {
	if g, ok := byTag[normalize(tag)]; ok {
		return g.DisplayName
	}
	return tag
}

// IsCanonical reports whether a tag belongs to the closed vocabulary.
func IsCanonical(tag string) bool {
	_, ok := byTag[normalize(tag)]
	return ok
}

func normalize(tag string) string {
	return strings.ToLower(strings.TrimSpace(tag))
}
