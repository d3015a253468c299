// Package services отправляет письма-подтверждения по событиям order.created.
package services

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/velotech/storefront/internal/lib/sl"
	"github.com/velotech/storefront/internal/lib/smtp"
	"github.com/velotech/storefront/internal/models"
)

// NotifierService потребляет события заказов и шлет письма через SMTP транспорт.
type NotifierService struct {
	transport Transport
	log       *slog.Logger
}

// Transport контракт SMTP транспорта.
type Transport interface {
	Connect() (smtp.Client, error)
	GetSMTPUser() string
}

// NewNotifierService создает новый экземпляр NotifierService.
func NewNotifierService(log *slog.Logger, transport Transport) *NotifierService {
	return &NotifierService{
		transport: transport,
		log:       log,
	}
}

// SendOrderConfirmation обрабатывает тело события order.created.
func (s *NotifierService) SendOrderConfirmation(body []byte) error {
	var event models.OrderCreatedEvent
	if err := json.Unmarshal(body, &event); err != nil {
		s.log.Error("failed to unmarshal order event", sl.Err(err))
		return fmt.Errorf("error unmarshalling message: %w", err)
	}

	to := []string{event.UserEmail}
	subject := "Your VeloTech order is confirmed"
	bodyText := fmt.Sprintf("Hello, %s!\n\nWe received your order %s (%d item(s), total %.2f).\n"+
		"We will let you know once it ships.\n\nThank you for riding with VeloTech!",
		event.UserName, event.OrderID, event.ItemsCount, event.Total)

	return s.sendEmail(to, subject, bodyText)
}

func (s *NotifierService) sendEmail(to []string, subject, bodyText string) error {
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
	defer client.Close()

	if err := client.Mail(s.transport.GetSMTPUser()); err != nil {
		s.log.Error("failed to set MAIL FROM", "from", s.transport.GetSMTPUser(), "error", sl.Err(err))
		return err
	}

	for _, addr := range to {
		if err := client.Rcpt(addr); err != nil {
			s.log.Error("failed to set RCPT TO", "recipient", addr, "error", sl.Err(err))
			return err
		}
	}

	wc, err := client.Data()
	if err != nil {
		s.log.Error("failed to get data writer", sl.Err(err))
		return err
	}

	if _, err = wc.Write([]byte(msg)); err != nil {
		s.log.Error("failed to write email body", sl.Err(err))
		return err
	}

	if err = wc.Close(); err != nil {
		s.log.Error("failed to close data writer", sl.Err(err))
		return err
	}

	if err = client.Quit(); err != nil {
		s.log.Error("failed to quit SMTP client", sl.Err(err))
		return err
	}

	s.log.Info("order confirmation sent", "to", to)
	return nil
}
