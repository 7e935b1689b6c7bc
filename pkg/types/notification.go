package types

import "time"

type EventType string

const (
	EventNeedMatchesGifting  EventType = "need.matches_gifting"
	EventVolunteerSignedUp   EventType = "volunteer.signed_up"
	EventNeedApproved        EventType = "need.approved"
	EventCommitmentAccepted  EventType = "commitment.accepted"
	EventCommitmentDeclined  EventType = "commitment.declined"
	EventCommitmentCancelled EventType = "commitment.cancelled"
)

// NotificationPayload is denormalized so a client can render the message
// and a deep-link without further lookups.
type NotificationPayload struct {
	NeedID       string `json:"need_id"`
	NeedTitle    string `json:"need_title"`
	CommitmentID string `json:"commitment_id,omitempty"`
	ActorID      string `json:"actor_id"`
	ActorName    string `json:"actor_name"`
}

type Notification struct {
	ID          string              `db:"id" json:"id"`
	RecipientID string              `db:"recipient_id" json:"recipient_id"`
	EventType   EventType           `db:"event_type" json:"event_type"`
	Payload     NotificationPayload `db:"payload" json:"payload"` // jsonb
	ReadAt      *time.Time          `db:"read_at" json:"read_at"`
	CreatedAt   time.Time           `db:"created_at" json:"created_at"`
}
