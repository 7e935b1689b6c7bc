package types

import "time"

type CommitmentStatus string

const (
	CommitmentStatusPending   CommitmentStatus = "PENDING"
	CommitmentStatusAccepted  CommitmentStatus = "ACCEPTED"
	CommitmentStatusDeclined  CommitmentStatus = "DECLINED"
	CommitmentStatusCancelled CommitmentStatus = "CANCELLED"
)

// Terminal reports whether no further transition may be applied to a
// commitment in this status. A new commitment for the same (need, volunteer)
// pair may still be created afterwards.
func (s CommitmentStatus) Terminal() bool {
	return s == CommitmentStatusDeclined || s == CommitmentStatusCancelled
}

// Active reports whether the commitment counts against the one-active-
// commitment-per-(need, volunteer) uniqueness guard.
func (s CommitmentStatus) Active() bool {
	return s == CommitmentStatusPending || s == CommitmentStatusAccepted
}

type Commitment struct {
	ID          string           `db:"id"`
	NeedID      string           `db:"need_id"`
	VolunteerID string           `db:"volunteer_id"`
	Status      CommitmentStatus `db:"status"`
	DecidedBy   *string          `db:"decided_by"`
	CancelledAt *time.Time       `db:"cancelled_at"`
	CreatedAt   time.Time        `db:"created_at"`
	UpdatedAt   time.Time        `db:"updated_at"`
}
