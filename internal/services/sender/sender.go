// Package sender отправляет письма по сообщениям из очередей уведомлений.
package sender

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/goccy/go-json"

	"github.com/matrimony-portal/portal-api/internal/lib/sl"
	"github.com/matrimony-portal/portal-api/internal/lib/smtp"
	"github.com/matrimony-portal/portal-api/internal/models"
)

// Service превращает сообщения брокера в письма через SMTP транспорт.
type Service struct {
	transport smtp.TransportInterface
	log       *slog.Logger
}

// NewService создает новый экземпляр Service.
func NewService(transport smtp.TransportInterface, log *slog.Logger) *Service {
	return &Service{transport: transport, log: log}
}

// HandleProposalNotification обрабатывает сообщение о новом предложении.
func (s *Service) HandleProposalNotification(body []byte) error {
	const op = "sender.HandleProposalNotification"

	var msg models.ProposalNotification
	if err := json.Unmarshal(body, &msg); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	subject := "You have a new proposal"
	text := fmt.Sprintf(
		"Hello %s,\r\n\r\n%s sent you a proposal.\r\n\r\n%s\r\n\r\nLog in to respond.\r\n",
		msg.ToFullName, msg.FromFullName, msg.Message,
	)
	if err := s.send(msg.Email, subject, text); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	s.log.Info("proposal notification sent", slog.String("email", msg.Email))
	return nil
}

// HandleRegistrationNotification обрабатывает сообщение о подтвержденной
// регистрации на мероприятие.
func (s *Service) HandleRegistrationNotification(body []byte) error {
	const op = "sender.HandleRegistrationNotification"

	var msg models.RegistrationNotification
	if err := json.Unmarshal(body, &msg); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	subject := "Your event registration is confirmed"
	text := fmt.Sprintf(
		"Your registration for %q on %s is confirmed.\r\nSee you there!\r\n",
		msg.EventTitle, msg.EventDate,
	)
	if err := s.send(msg.Email, subject, text); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	s.log.Info("registration notification sent", slog.String("email", msg.Email))
	return nil
}

func (s *Service) send(to, subject, text string) error {
	client, err := s.transport.Connect()
	if err != nil {
		return err
	}
	defer func() {
		if err := client.Quit(); err != nil {
			s.log.Warn("failed to quit smtp client", sl.Err(err))
		}
	}()

	from := s.transport.GetSMTPUser()
	if err := client.Mail(from); err != nil {
		return err
	}
	if err := client.Rcpt(to); err != nil {
		return err
	}
	w, err := client.Data()
	if err != nil {
		return err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", from)
	fmt.Fprintf(&b, "To: %s\r\n", to)
	fmt.Fprintf(&b, "Subject: %s\r\n", subject)
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=\"utf-8\"\r\n")
	b.WriteString("\r\n")
	b.WriteString(text)

	if _, err := w.Write([]byte(b.String())); err != nil {
		return err
	}
	return w.Close()
}
