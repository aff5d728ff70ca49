// Package email turns booking notifications into patient emails.
package email

import (
	"context"
	"fmt"
	"net/http"

	"github.com/Domenick1991/opdqueue/internal/kafka"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"go.uber.org/zap"
)

type Message struct {
	ToName  string
	ToEmail string
	Subject string
	Text    string
}

// Transport delivers one rendered message.
type Transport interface {
	Deliver(ctx context.Context, msg Message) error
}

type Sender struct {
	transport Transport
	log       *zap.Logger
}

func NewSender(transport Transport, log *zap.Logger) *Sender {
	if log == nil {
		log = zap.NewNop()
	}
	return &Sender{transport: transport, log: log}
}

// Send mails the patient a token confirmation. Events other than booking_created,
// or without a patient email, are skipped.
func (s *Sender) Send(ctx context.Context, event kafka.ChangeEvent) error {
	if event.Type != kafka.EventBookingCreated || event.PatientEmail == "" {
		return nil
	}
	msg := Confirmation(event)
	if err := s.transport.Deliver(ctx, msg); err != nil {
		return fmt.Errorf("deliver confirmation for booking %s: %w", event.ID, err)
	}
	s.log.Info("confirmation sent", zap.String("booking_id", event.ID), zap.Int("token", event.TokenNumber))
	return nil
}

func Confirmation(event kafka.ChangeEvent) Message {
	return Message{
		ToName:  event.PatientName,
		ToEmail: event.PatientEmail,
		Subject: fmt.Sprintf("OPD token #%d confirmed for %s", event.TokenNumber, event.Date),
		Text: fmt.Sprintf(
			"Dear %s,\n\nYour appointment with %s on %s at %s is confirmed.\nYour token number is %d.\n\nPlease arrive 15 minutes before your slot.",
			event.PatientName, event.DoctorName, event.Date, event.Slot, event.TokenNumber,
		),
	}
}

type SendGridTransport struct {
	client   *sendgrid.Client
	fromName string
	from     string
}

func NewSendGridTransport(apiKey, fromName, fromAddress string) *SendGridTransport {
	return &SendGridTransport{client: sendgrid.NewSendClient(apiKey), fromName: fromName, from: fromAddress}
}

func (t *SendGridTransport) Deliver(ctx context.Context, msg Message) error {
	p := mail.NewPersonalization()
	p.AddTos(mail.NewEmail(msg.ToName, msg.ToEmail))

	m := mail.NewV3Mail()
	m.SetFrom(mail.NewEmail(t.fromName, t.from))
	m.Subject = msg.Subject
	m.AddPersonalizations(p)
	m.AddContent(mail.NewContent("text/plain", msg.Text))

	resp, err := t.client.SendWithContext(ctx, m)
	if err != nil {
		return err
	}
	if resp.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("sendgrid status %d: %s", resp.StatusCode, resp.Body)
	}
	return nil
}

// LogTransport only logs; used when no mail provider is configured.
type LogTransport struct {
	log *zap.Logger
}

func NewLogTransport(log *zap.Logger) *LogTransport {
	return &LogTransport{log: log}
}

func (t *LogTransport) Deliver(_ context.Context, msg Message) error {
	t.log.Info("email", zap.String("to", msg.ToEmail), zap.String("subject", msg.Subject))
	return nil
}
