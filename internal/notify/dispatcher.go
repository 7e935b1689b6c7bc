package notify

import (
	"context"
	"fmt"

	"neighborly/pkg/types"

	"github.com/sirupsen/logrus"
)

// Store is the slice of the notification repository the dispatcher needs.
type Store interface {
	CreateNotifications(ctx context.Context, notifications []*types.Notification) error
}

// EmailResolver turns a recipient id into an address for the optional email
// sink. Recipients without a resolvable address are skipped silently.
type EmailResolver interface {
	Profile(ctx context.Context, profileID string) (*types.Profile, error)
}

// Dispatcher fans a single event out to N recipients: one notification row
// per recipient, a push to any live subscription, and optionally an email.
// Notification delivery is strictly best-effort; every failure here is
// logged and swallowed so that the state transition that triggered the
// event is never rolled back or blocked.
type Dispatcher struct {
	logger   *logrus.Logger
	store    Store
	broker   *Broker
	mailer   *Mailer
	profiles EmailResolver
}

func NewDispatcher(logger *logrus.Logger, store Store, broker *Broker) *Dispatcher {
	return &Dispatcher{
		logger: logger,
		store:  store,
		broker: broker,
	}
}

// WithMailer enables the email sink. profiles resolves recipient addresses.
func (d *Dispatcher) WithMailer(mailer *Mailer, profiles EmailResolver) *Dispatcher {
	d.mailer = mailer
	d.profiles = profiles
	return d
}

func (d *Dispatcher) Dispatch(ctx context.Context, eventType types.EventType, payload types.NotificationPayload, recipientIDs []string) {

	if len(recipientIDs) == 0 {
		return
	}

	notifications := make([]*types.Notification, 0, len(recipientIDs))
	for _, recipientID := range recipientIDs {
		notifications = append(notifications, &types.Notification{
			RecipientID: recipientID,
			EventType:   eventType,
			Payload:     payload,
		})
	}

	if err := d.store.CreateNotifications(ctx, notifications); err != nil {
		d.logger.WithError(err).WithFields(logrus.Fields{
			"event_type": eventType,
			"recipients": len(recipientIDs),
		}).Error("failed to persist notifications")
		return
	}

	for _, notification := range notifications {
		d.broker.Publish(notification)
	}

	if d.mailer != nil {
		d.sendEmails(ctx, eventType, payload, recipientIDs)
	}
}

func (d *Dispatcher) sendEmails(ctx context.Context, eventType types.EventType, payload types.NotificationPayload, recipientIDs []string) {
	subject, body := renderEmail(eventType, payload)

	for _, recipientID := range recipientIDs {
		profile, err := d.profiles.Profile(ctx, recipientID)
		if err != nil || profile.Email == nil {
			continue
		}

		if err := d.mailer.Send(*profile.Email, subject, body); err != nil {
			d.logger.WithError(err).WithField("recipient_id", recipientID).Warn("failed to send notification email")
		}
	}
}

func renderEmail(eventType types.EventType, payload types.NotificationPayload) (subject, body string) {
	switch eventType {
	case types.EventVolunteerSignedUp:
		subject = fmt.Sprintf("%s offered to help with %q", payload.ActorName, payload.NeedTitle)
	case types.EventCommitmentAccepted:
		subject = fmt.Sprintf("You're confirmed for %q", payload.NeedTitle)
	case types.EventCommitmentDeclined:
		subject = fmt.Sprintf("Update on %q", payload.NeedTitle)
	case types.EventCommitmentCancelled:
		subject = fmt.Sprintf("%s can no longer help with %q", payload.ActorName, payload.NeedTitle)
	case types.EventNeedApproved:
		subject = fmt.Sprintf("Your need %q is now live", payload.NeedTitle)
	default:
		subject = fmt.Sprintf("Update on %q", payload.NeedTitle)
	}

	body = fmt.Sprintf("%s\n\nOpen the app to see the details for need %s.", subject, payload.NeedID)
	return subject, body
}
