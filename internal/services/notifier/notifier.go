// Package services рассылает письма по событиям подписки из очереди уведомлений.
package services

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/magabrotheeeer/study-tools-hub/internal/lib/smtp"
	"github.com/magabrotheeeer/study-tools-hub/internal/models"
)

// Transport выдаёт подключение к почтовому серверу.
type Transport interface {
	Connect() (smtp.Client, error)
	Sender() string
}

type NotifierService struct {
	transport Transport
	log       *slog.Logger
}

// NewNotifierService создает новый экземпляр NotifierService.
func NewNotifierService(transport Transport, log *slog.Logger) *NotifierService {
	return &NotifierService{
		transport: transport,
		log:       log,
	}
}

// SendSubscriptionExpired разбирает сообщение subscription.expired и отправляет письмо пользователю.
func (s *NotifierService) SendSubscriptionExpired(body []byte) error {
	const op = "services.notifier.SendSubscriptionExpired"

	var msg models.ExpiredNotification
	if err := json.Unmarshal(body, &msg); err != nil {
		return fmt.Errorf("%s: error unmarshalling message: %w", op, err)
	}
	if msg.Email == "" {
		// повторная доставка ничего не изменит
		s.log.Warn("notification without email dropped", slog.String("user_id", msg.UserID))
		return nil
	}

	subject := "Your Study Tools Hub subscription has expired"
	text := fmt.Sprintf("Hello, %s!\n\n"+
		"Your access to the Study Tools Hub catalog ended on %s.\n"+
		"Renew your subscription to keep comparing tools for your exam preparation.\n",
		msg.Name, msg.ExpiredAt.Format("2 January 2006"))

	if err := s.sendEmail([]string{msg.Email}, subject, text); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	s.log.Info("expiry email sent", slog.String("user_id", msg.UserID))
	return nil
}

func (s *NotifierService) sendEmail(to []string, subject, bodyText string) error {
	msg := strings.Join([]string{
		"From: " + s.transport.Sender(),
		"To: " + strings.Join(to, ";"),
		"Subject: " + subject,
		"MIME-Version: 1.0",
		"Content-Type: text/plain; charset=\"UTF-8\"",
		"",
		bodyText,
	}, "\r\n")

	client, err := s.transport.Connect()
	if err != nil {
		return err
	}
	defer client.Close()

	if err := client.Mail(s.transport.Sender()); err != nil {
		return fmt.Errorf("mail from: %w", err)
	}
	for _, addr := range to {
		if err := client.Rcpt(addr); err != nil {
			return fmt.Errorf("rcpt to %s: %w", addr, err)
		}
	}

	wc, err := client.Data()
	if err != nil {
		return fmt.Errorf("data: %w", err)
	}
	if _, err = wc.Write([]byte(msg)); err != nil {
		return fmt.Errorf("write body: %w", err)
	}
	if err = wc.Close(); err != nil {
		return fmt.Errorf("close body: %w", err)
	}
	return client.Quit()
}
