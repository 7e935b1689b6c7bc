package notify

import (
	"fmt"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

// Mailer is the sendgrid-backed email sink for the dispatcher.
type Mailer struct {
	client   *sendgrid.Client
	from     string
	fromName string
}

func NewMailer(apiKey, from, fromName string) *Mailer {
	return &Mailer{
		client:   sendgrid.NewSendClient(apiKey),
		from:     from,
		fromName: fromName,
	}
}

func (m *Mailer) Send(to, subject, body string) error {
	message := mail.NewSingleEmail(mail.NewEmail(m.fromName, m.from), subject, mail.NewEmail("", to), body, "")

	response, err := m.client.Send(message)
	if err != nil {
		return fmt.Errorf("failed to send email via sendgrid: %w", err)
	}

	if response.StatusCode != 202 {
		return fmt.Errorf("unexpected sendgrid status code: %d, body: %s", response.StatusCode, response.Body)
	}

	return nil
}
