// Package sender потребляет события напоминаний и отправляет письма по SMTP.
package sender

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/caseconnect/casetracker/internal/lib/sl"
	"github.com/caseconnect/casetracker/internal/lib/smtp"
	"github.com/caseconnect/casetracker/internal/models"
)

// Service отправляет напоминания о продлении подписки по электронной почте.
type Service struct {
	transport smtp.TransportInterface
	log       *slog.Logger
}

// NewService создает новый экземпляр Service.
func NewService(transport smtp.TransportInterface, log *slog.Logger) *Service {
	return &Service{
		transport: transport,
		log:       log,
	}
}

// SendRenewalReminder обрабатывает событие из очереди напоминаний
// и отправляет письмо пользователю.
func (s *Service) SendRenewalReminder(body []byte) error {
	var reminder models.RenewalReminder
	if err := json.Unmarshal(body, &reminder); err != nil {
		s.log.Error("failed to unmarshal reminder", sl.Err(err))
		return fmt.Errorf("error unmarshalling message: %w", err)
	}

	subject := "Your CaseTracker subscription is expiring soon"
	bodyText := fmt.Sprintf(
		"Dear %s,\n\nYour %s subscription expires in %d day(s), on %s.\n\n"+
			"Please renew your plan to keep access to your cases and clients.\n\n"+
			"Regards,\nCaseTracker",
		reminder.FirstName, reminder.PackageName, reminder.DaysRemaining,
		reminder.EndDate.Format("02 Jan 2006"))

	return s.sendEmail([]string{reminder.Email}, subject, bodyText)
}

func (s *Service) sendEmail(to []string, subject, bodyText string) error {
	msg := strings.Join([]string{
		"From: " + s.transport.GetSMTPUser(),
		"To: " + strings.Join(to, ";"),
		"Subject: " + subject,
		"MIME-Version: 1.0",
		"Content-Type: text/plain; charset=\"UTF-8\"",
		"",
		bodyText,
	}, "\r\n")

	client, err := s.transport.Connect()
	if err != nil {
		s.log.Error("failed to connect to SMTP server", sl.Err(err))
		return err
	}
	defer func() {
		if err := client.Close(); err != nil {
			s.log.Error("failed to close SMTP client", sl.Err(err))
		}
	}()

	if err := client.Mail(s.transport.GetSMTPUser()); err != nil {
		s.log.Error("failed to set MAIL FROM", sl.Err(err))
		return err
	}
	for _, addr := range to {
		if err := client.Rcpt(addr); err != nil {
			s.log.Error("failed to set RCPT TO", slog.String("to", addr), sl.Err(err))
			return err
		}
	}

	w, err := client.Data()
	if err != nil {
		s.log.Error("failed to open DATA", sl.Err(err))
		return err
	}
	if _, err := w.Write([]byte(msg)); err != nil {
		s.log.Error("failed to write message body", sl.Err(err))
		return err
	}
	if err := w.Close(); err != nil {
		s.log.Error("failed to close message body", sl.Err(err))
		return err
	}

	if err := client.Quit(); err != nil {
		s.log.Error("failed to quit SMTP session", sl.Err(err))
		return err
	}

	s.log.Info("reminder email sent", slog.String("to", strings.Join(to, ";")))
	return nil
}
