package types

import (
	"time"
)

type NeedStatus string

const (
	NeedStatusPending  NeedStatus = "PENDING"
	NeedStatusActive   NeedStatus = "ACTIVE"
	NeedStatusRejected NeedStatus = "REJECTED"
)

type NeedUrgency string

const (
	NeedUrgencyASAP     NeedUrgency = "ASAP"
	NeedUrgencySpecific NeedUrgency = "SPECIFIC"
	NeedUrgencyOngoing  NeedUrgency = "ONGOING"
)

type Need struct {
	ID             string      `db:"id"`
	OrganizationID string      `db:"organization_id"`
	CreatorID      string      `db:"creator_id"`
	Title          string      `db:"title"`
	Description    string      `db:"description"`
	RequiredGifts  []string    `db:"required_gifts"` // jsonb array
	Location       *string     `db:"location"`
	Urgency        NeedUrgency `db:"urgency"`
	SpecificTime   *time.Time  `db:"specific_time"`
	Recurrence     *string     `db:"recurrence"`
	PeopleNeeded   int         `db:"people_needed"`
	AutoAccept     bool        `db:"auto_accept"`
	Status         NeedStatus  `db:"status"`
	DecidedBy      *string     `db:"decided_by"`
	DecidedAt      *time.Time  `db:"decided_at"`
	CreatedAt      time.Time   `db:"created_at"`
	UpdatedAt      time.Time   `db:"updated_at"`
}

// SubmitNeedInput is the payload for posting a new need. The title and
// description minimums are policy gates, not domain requirements.
type SubmitNeedInput struct {
	OrganizationID string   `form:"organization_id" validate:"required"`
	Title          string   `form:"title" validate:"required,min=5"`
	Description    string   `form:"description" validate:"required,min=20"`
	RequiredGifts  []string `form:"required_gifts"`
	Location       *string  `form:"location"`
	Urgency        string   `form:"urgency" validate:"omitempty,oneof=ASAP SPECIFIC ONGOING"`
	SpecificTime   *string  `form:"specific_time"`
	Recurrence     *string  `form:"recurrence"`
	PeopleNeeded   int      `form:"people_needed" validate:"omitempty,min=1"`
	AutoAccept     bool     `form:"auto_accept"`
}
