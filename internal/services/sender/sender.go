// Package sender отправляет письма по событиям аккаунта: приветствие после
// регистрации и прощание после удаления.
package sender

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/magabrotheeeer/stockmate/internal/lib/rabbitmq"
	"github.com/magabrotheeeer/stockmate/internal/lib/sl"
	"github.com/magabrotheeeer/stockmate/internal/lib/smtp"
)

// ErrEmptyRecipient возвращается для события без адреса получателя.
var ErrEmptyRecipient = errors.New("event has no email")

// Service формирует и отправляет письма через SMTP-транспорт.
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

// SendWelcome обрабатывает событие user.registered.
func (s *Service) SendWelcome(body []byte) error {
	const op = "sender.SendWelcome"
	event, err := decode(body)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	subject := "Welcome to StockMate"
	text := fmt.Sprintf("Hello, %s!\n\nYour StockMate account is ready. "+
		"Start by adding the products you have at home to your inventory.", event.Name)
	if err := s.sendEmail([]string{event.Email}, subject, text); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// SendGoodbye обрабатывает событие user.deleted.
func (s *Service) SendGoodbye(body []byte) error {
	const op = "sender.SendGoodbye"
	event, err := decode(body)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	subject := "Your StockMate account has been deleted"
	text := fmt.Sprintf("Hello, %s!\n\nYour StockMate account and all of its inventory, "+
		"shopping list and recipes have been deleted.", event.Name)
	if err := s.sendEmail([]string{event.Email}, subject, text); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func decode(body []byte) (*rabbitmq.UserEvent, error) {
	var event rabbitmq.UserEvent
	if err := json.Unmarshal(body, &event); err != nil {
		return nil, fmt.Errorf("error unmarshalling message: %w", err)
	}
	if event.Email == "" {
		return nil, ErrEmptyRecipient
	}
	return &event, nil
}

func (s *Service) sendEmail(to []string, subject, bodyText string) error {
	from := s.transport.GetSMTPUser()
	msg := strings.Join([]string{
		"From: " + from,
		"To: " + strings.Join(to, ";"),
		"Subject: " + subject,
		"MIME-Version: 1.0",
		"Content-Type: text/plain; charset=\"UTF-8\"",
		"",
		bodyText,
	}, "\r\n")

	client, err := s.transport.Connect()
	if err != nil {
		return fmt.Errorf("failed to connect to SMTP server: %w", err)
	}
	defer func() {
		if err := client.Close(); err != nil {
			s.log.Debug("smtp client close", sl.Err(err))
		}
	}()

	if err := client.Mail(from); err != nil {
		return fmt.Errorf("MAIL FROM %s: %w", from, err)
	}
	for _, addr := range to {
		if err := client.Rcpt(addr); err != nil {
			return fmt.Errorf("RCPT TO %s: %w", addr, err)
		}
	}

	wc, err := client.Data()
	if err != nil {
		return fmt.Errorf("DATA: %w", err)
	}
	if _, err = wc.Write([]byte(msg)); err != nil {
		_ = wc.Close()
		return fmt.Errorf("write body: %w", err)
	}
	if err = wc.Close(); err != nil {
		return fmt.Errorf("close data writer: %w", err)
	}
	if err = client.Quit(); err != nil {
		return fmt.Errorf("QUIT: %w", err)
	}

	s.log.Info("email sent successfully", slog.Any("to", to), slog.String("subject", subject))
	return nil
}
