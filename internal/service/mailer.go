package service

import (
	"context"
	"errors"

	"github.com/resend/resend-go/v2"
)

type Message struct {
	To      string
	Subject string
	Text    string
	HTML    string
}

// Mailer dispatches a message and returns the provider's delivery id.
// Flows treat a missing id the same as an error.
type Mailer interface {
	Send(ctx context.Context, msg Message) (string, error)
}

type ResendMailer struct {
	client *resend.Client
	from   string
}

func NewResendMailer(apiKey string, from string) *ResendMailer {
	return &ResendMailer{
		client: resend.NewClient(apiKey),
		from:   from,
	}
}

func (m *ResendMailer) Send(ctx context.Context, msg Message) (string, error) {
	if m.client == nil {
		return "", errors.New("mailer not configured")
	}
	sent, err := m.client.Emails.Send(&resend.SendEmailRequest{
		From:    m.from,
		To:      []string{msg.To},
		Subject: msg.Subject,
		Text:    msg.Text,
		Html:    msg.HTML,
	})
	if err != nil {
		return "", err
	}
	return sent.Id, nil
}
