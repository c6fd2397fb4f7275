// Package services содержит отправку почтовых уведомлений пользователям.
package services

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/magabrotheeeer/cardlink/internal/lib/sl"
	"github.com/magabrotheeeer/cardlink/internal/lib/smtp"
	"github.com/magabrotheeeer/cardlink/internal/models"
)

// SenderService читает сообщения из очередей уведомлений и рассылает письма.
type SenderService struct {
	transport   smtp.TransportInterface
	checkoutURL string
	log         *slog.Logger
}

// NewSenderService создает новый экземпляр SenderService.
// checkoutURL указывает страницу оплаты, которую получит пользователь в письме.
func NewSenderService(transport smtp.TransportInterface, checkoutURL string, log *slog.Logger) *SenderService {
	return &SenderService{
		transport:   transport,
		checkoutURL: checkoutURL,
		log:         log,
	}
}

// SendTrialExpiringNotice отправляет письмо о скором окончании пробного периода.
func (s *SenderService) SendTrialExpiringNotice(body []byte) error {
	var user models.User
	if err := json.Unmarshal(body, &user); err != nil {
		s.log.Error("failed to unmarshal message body", sl.Err(err))
		return fmt.Errorf("error unmarshalling message: %w", err)
	}

	to := []string{user.Email}
	subject := "Уведомление об окончании пробного периода на Cardlink"
	bodyText := fmt.Sprintf(`Здравствуйте, %s!

Ваш пробный период на сервисе Cardlink заканчивается сегодня.
Чтобы сохранить доступ к визиткам и презентациям, оформите подписку: %s.
В противном случае создание новых материалов станет недоступно.`,
		user.Username, s.checkoutURL)

	return s.sendEmail(to, subject, bodyText)
}

// SendSubscriptionExpiredNotice отправляет письмо об окончании оплаченной подписки.
func (s *SenderService) SendSubscriptionExpiredNotice(body []byte) error {
	var user models.User
	if err := json.Unmarshal(body, &user); err != nil {
		s.log.Error("failed to unmarshal message body", sl.Err(err))
		return fmt.Errorf("error unmarshalling message: %w", err)
	}

	to := []string{user.Email}
	subject := "Подписка на Cardlink закончилась"
	bodyText := fmt.Sprintf(`Здравствуйте, %s!

Срок действия вашей подписки на сервис Cardlink истек.
Продлить подписку можно по ссылке: %s.`,
		user.Username, s.checkoutURL)

	return s.sendEmail(to, subject, bodyText)
}

func (s *SenderService) sendEmail(to []string, subject, bodyText string) error {
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
		_ = client.Close()
	}()

	if err := client.Mail(s.transport.GetSMTPUser()); err != nil {
		s.log.Error("failed to set MAIL FROM", "from", s.transport.GetSMTPUser(), sl.Err(err))
		return err
	}

	for _, addr := range to {
		if err := client.Rcpt(addr); err != nil {
			s.log.Error("failed to set RCPT TO", "recipient", addr, sl.Err(err))
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

	s.log.Info("email sent successfully", "to", to)
	return nil
}
