package types

import "time"

// Profile is a member's declared capabilities. The ID is the stable
// identifier issued by the external auth provider.
type Profile struct {
	ID             string    `db:"id"`
	OrganizationID string    `db:"organization_id"`
	DisplayName    string    `db:"display_name"`
	Email          *string   `db:"email"`
	Gifts          []string  `db:"gifts"` // jsonb array
	IsLeader       bool      `db:"is_leader"`
	CreatedAt      time.Time `db:"created_at"`
	UpdatedAt      time.Time `db:"updated_at"`
}
