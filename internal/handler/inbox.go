package handler

import (
	"net/http"

	"github.com/templui/corpsite/internal/middleware"
	"github.com/templui/corpsite/internal/respond"
	"github.com/templui/corpsite/internal/service"
)

// InboxHandler serves the contact form and quote requests.
type InboxHandler struct {
	binder
	inbox *service.InboxService
}

func NewInboxHandler(inbox *service.InboxService, maxMemory int64) *InboxHandler {
	return &InboxHandler{binder: binder{maxMemory: maxMemory}, inbox: inbox}
}

func (h *InboxHandler) SubmitMessage(w http.ResponseWriter, r *http.Request) {
	form, err := h.parse(r)
	defer form.Close()
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	body := form.Get("message")
	if body == "" {
		body = form.Get("body")
	}

	m, err := h.inbox.SubmitMessage(service.MessageInput{
		Name:    form.Get("name"),
		Email:   form.Get("email"),
		Phone:   form.Get("phone"),
		Subject: form.Get("subject"),
		Body:    body,
	})
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	respond.Created(w, m)
}

func (h *InboxHandler) ListMessages(w http.ResponseWriter, r *http.Request) {
	msgs, err := h.inbox.Messages(r.URL.Query().Get("status"))
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	respond.OK(w, msgs)
}

func (h *InboxHandler) GetMessage(w http.ResponseWriter, r *http.Request) {
	id, err := middleware.PathID(r)
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	m, err := h.inbox.Message(id)
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	respond.OK(w, m)
}

// UpdateMessage only changes the status.
func (h *InboxHandler) UpdateMessage(w http.ResponseWriter, r *http.Request) {
	id, err := middleware.PathID(r)
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	form, err := h.parse(r)
	defer form.Close()
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	m, err := h.inbox.SetMessageStatus(id, form.Get("status"))
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	respond.OK(w, m)
}

func (h *InboxHandler) DeleteMessage(w http.ResponseWriter, r *http.Request) {
	id, err := middleware.PathID(r)
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	err = h.inbox.DeleteMessage(id)
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	respond.Deleted(w)
}

func (h *InboxHandler) SubmitQuote(w http.ResponseWriter, r *http.Request) {
	form, err := h.parse(r)
	defer form.Close()
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	q, err := h.inbox.SubmitQuote(service.QuoteInput{
		Name:    form.Get("name"),
		Email:   form.Get("email"),
		Company: form.Get("company"),
		Service: form.Get("service"),
		Budget:  form.Get("budget"),
		Details: form.Get("details"),
	})
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	respond.Created(w, q)
}

func (h *InboxHandler) ListQuotes(w http.ResponseWriter, r *http.Request) {
	quotes, err := h.inbox.Quotes(r.URL.Query().Get("status"))
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	respond.OK(w, quotes)
}

func (h *InboxHandler) GetQuote(w http.ResponseWriter, r *http.Request) {
	id, err := middleware.PathID(r)
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	q, err := h.inbox.Quote(id)
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	respond.OK(w, q)
}

func (h *InboxHandler) UpdateQuote(w http.ResponseWriter, r *http.Request) {
	id, err := middleware.PathID(r)
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	form, err := h.parse(r)
	defer form.Close()
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	q, err := h.inbox.SetQuoteStatus(id, form.Get("status"))
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	respond.OK(w, q)
}

func (h *InboxHandler) DeleteQuote(w http.ResponseWriter, r *http.Request) {
	id, err := middleware.PathID(r)
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	err = h.inbox.DeleteQuote(id)
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	respond.Deleted(w)
}
