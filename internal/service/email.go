package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/resend/resend-go/v2"
	"github.com/templui/corpsite/internal/model"
)

type EmailService struct {
	client    *resend.Client
	fromEmail string
	toEmail   string
	isDev     bool
	appURL    string
	appName   string
}

func NewEmailService(apiKey, fromEmail, toEmail, appURL, appName string, isDev bool) *EmailService {
	var client *resend.Client
	if apiKey != "" && !isDev {
		client = resend.NewClient(apiKey)
	}

	return &EmailService{
		client:    client,
		fromEmail: fromEmail,
		toEmail:   toEmail,
		isDev:     isDev,
		appURL:    appURL,
		appName:   appName,
	}
}

// NotifyMessage tells the site owner about a new contact message.
func (s *EmailService) NotifyMessage(m *model.Message) error {
	subject, body := messageNotificationTemplate(m, s.appURL, s.appName)
	return s.send("contact_message", m.Email, subject, body)
}

// NotifyQuote tells the site owner about a new quote request.
func (s *EmailService) NotifyQuote(q *model.Quote) error {
	subject, body := quoteNotificationTemplate(q, s.appURL, s.appName)
	return s.send("quote_request", q.Email, subject, body)
}

func (s *EmailService) send(kind, replyTo, subject, body string) error {
	if s.isDev {
		slog.Info("email sent (dev mode)", "type", kind, "to", s.toEmail, "subject", subject)
		return nil
	}

	if s.client == nil {
		return fmt.Errorf("email service not configured (missing RESEND_API_KEY)")
	}

	params := &resend.SendEmailRequest{
		From:    s.fromEmail,
		To:      []string{s.toEmail},
		ReplyTo: replyTo,
		Subject: subject,
		Text:    body,
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err := s.client.Emails.SendWithContext(ctx, params)
	if err == nil {
		slog.Info("email sent", "type", kind, "to", s.toEmail)
	}
	return err
}
