package service

import (
	"log/slog"
	"time"

	"github.com/templui/corpsite/internal/model"
	"github.com/templui/corpsite/internal/repository"
	"github.com/templui/corpsite/internal/validation"
)

// Notifier delivers owner notifications for new submissions.
type Notifier interface {
	NotifyMessage(m *model.Message) error
	NotifyQuote(q *model.Quote) error
}

type MessageInput struct {
	Name    string
	Email   string
	Phone   string
	Subject string
	Body    string
}

type QuoteInput struct {
	Name    string
	Email   string
	Company string
	Service string
	Budget  string
	Details string
}

// InboxService handles contact messages and quote requests.
type InboxService struct {
	messages repository.MessageRepository
	quotes   repository.QuoteRepository
	notifier Notifier
	now      func() time.Time
}

func NewInboxService(messages repository.MessageRepository, quotes repository.QuoteRepository, notifier Notifier) *InboxService {
	return &InboxService{
		messages: messages,
		quotes:   quotes,
		notifier: notifier,
		now:      time.Now,
	}
}

func validateSender(name, email string) (string, error) {
	err := validation.Required("name", name, 100)
	if err != nil {
		return "", err
	}
	email = validation.NormalizeEmail(email)
	err = validation.ValidateEmail(email)
	if err != nil {
		return "", err
	}
	return email, nil
}

// SubmitMessage stores a contact message. The owner notification is best
// effort and never fails the submission.
func (s *InboxService) SubmitMessage(in MessageInput) (*model.Message, error) {
	email, err := validateSender(in.Name, in.Email)
	if err != nil {
		return nil, err
	}
	err = validation.Required("body", in.Body, 5000)
	if err != nil {
		return nil, err
	}
	err = validation.MaxLength("subject", in.Subject, 200)
	if err != nil {
		return nil, err
	}

	m := &model.Message{
		Name:      in.Name,
		Email:     email,
		Phone:     in.Phone,
		Subject:   in.Subject,
		Body:      in.Body,
		Status:    model.MessageStatusNew,
		CreatedAt: s.now().UTC(),
	}
	err = s.messages.Create(m)
	if err != nil {
		return nil, err
	}

	err = s.notifier.NotifyMessage(m)
	if err != nil {
		slog.Warn("failed to send message notification", "message_id", m.ID, "error", err)
	}
	return m, nil
}

func (s *InboxService) Messages(status string) ([]*model.Message, error) {
	if status != "" && !model.ValidMessageStatus(status) {
		return nil, validation.Invalid("status", "status must be new, read or archived")
	}
	return s.messages.List(status)
}

func (s *InboxService) Message(id int64) (*model.Message, error) {
	return s.messages.ByID(id)
}

func (s *InboxService) SetMessageStatus(id int64, status string) (*model.Message, error) {
	if !model.ValidMessageStatus(status) {
		return nil, validation.Invalid("status", "status must be new, read or archived")
	}
	err := s.messages.UpdateStatus(id, status)
	if err != nil {
		return nil, err
	}
	return s.messages.ByID(id)
}

func (s *InboxService) DeleteMessage(id int64) error {
	return s.messages.Delete(id)
}

// SubmitQuote stores a quote request and notifies the owner, best effort.
func (s *InboxService) SubmitQuote(in QuoteInput) (*model.Quote, error) {
	email, err := validateSender(in.Name, in.Email)
	if err != nil {
		return nil, err
	}
	err = validation.MaxLength("details", in.Details, 5000)
	if err != nil {
		return nil, err
	}

	q := &model.Quote{
		Name:      in.Name,
		Email:     email,
		Company:   in.Company,
		Service:   in.Service,
		Budget:    in.Budget,
		Details:   in.Details,
		Status:    model.QuoteStatusNew,
		CreatedAt: s.now().UTC(),
	}
	err = s.quotes.Create(q)
	if err != nil {
		return nil, err
	}

	err = s.notifier.NotifyQuote(q)
	if err != nil {
		slog.Warn("failed to send quote notification", "quote_id", q.ID, "error", err)
	}
	return q, nil
}

func (s *InboxService) Quotes(status string) ([]*model.Quote, error) {
	if status != "" && !model.ValidQuoteStatus(status) {
		return nil, validation.Invalid("status", "status must be new, contacted or closed")
	}
	return s.quotes.List(status)
}

func (s *InboxService) Quote(id int64) (*model.Quote, error) {
	return s.quotes.ByID(id)
}

func (s *InboxService) SetQuoteStatus(id int64, status string) (*model.Quote, error) {
	if !model.ValidQuoteStatus(status) {
		return nil, validation.Invalid("status", "status must be new, contacted or closed")
	}
	err := s.quotes.UpdateStatus(id, status)
	if err != nil {
		return nil, err
	}
	return s.quotes.ByID(id)
}

func (s *InboxService) DeleteQuote(id int64) error {
	return s.quotes.Delete(id)
}
