package service

import (
	"fmt"

	"github.com/templui/corpsite/internal/model"
)

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func messageNotificationTemplate(m *model.Message, appURL, appName string) (string, string) {
	subject := fmt.Sprintf("[%s] New message from %s", appName, m.Name)
	if m.Subject != "" {
		subject = fmt.Sprintf("[%s] %s", appName, m.Subject)
	}

	body := fmt.Sprintf(`New contact message #%d

From:  %s <%s>
Phone: %s

%s

Reply directly to this email to answer.
Admin: %s/admin/messages/%d`, m.ID, m.Name, m.Email, orDash(m.Phone), m.Body, appURL, m.ID)

	return subject, body
}

func quoteNotificationTemplate(q *model.Quote, appURL, appName string) (string, string) {
	subject := fmt.Sprintf("[%s] Quote request from %s", appName, q.Name)

	body := fmt.Sprintf(`New quote request #%d

From:    %s <%s>
Company: %s
Service: %s
Budget:  %s

%s

Admin: %s/admin/quotes/%d`, q.ID, q.Name, q.Email, orDash(q.Company), orDash(q.Service), orDash(q.Budget), orDash(q.Details), appURL, q.ID)

	return subject, body
}
