// Package notification turns ticket events into customer and support emails.
package notification

import (
	"bytes"
	"context"
	"fmt"
	"text/template"

	"github.com/orris-inc/helpdesk/internal/domain/ticket"
	vo "github.com/orris-inc/helpdesk/internal/domain/ticket/valueobjects"
	"github.com/orris-inc/helpdesk/internal/infrastructure/email"
	"github.com/orris-inc/helpdesk/internal/shared/logger"
	"github.com/orris-inc/helpdesk/internal/shared/utils/logutil"
)

// MarkdownRenderer produces the HTML and plain text parts of an email body.
type MarkdownRenderer interface {
	ToHTML(markdown string) (string, error)
	ToPlainText(markdown string) (string, error)
}

type emailTemplate struct {
	subject *template.Template
	body    *template.Template
}

func mustTemplate(name, subject, body string) emailTemplate {
	return emailTemplate{
		subject: template.Must(template.New(name + ".subject").Parse(subject)),
		body:    template.Must(template.New(name + ".body").Parse(body)),
	}
}

var (
	customerCreatedTemplate = mustTemplate("created.customer",
		"[Ticket #{{.TicketID}}] We received your request",
		`Hi {{.CustomerName}},

Thanks for contacting support. Your ticket **#{{.TicketID}}** has been created and our team will get back to you soon.

> {{.Description}}
{{if .AttachmentCount}}
{{.AttachmentCount}} attachment(s) were received with your request.
{{end}}`)

	inboxCreatedTemplate = mustTemplate("created.inbox",
		"[Ticket #{{.TicketID}}] New ticket from {{.CustomerName}}",
		`A new ticket was submitted by **{{.CustomerName}}** ({{.CustomerEmail}}).

> {{.Description}}

Attachments: {{.AttachmentCount}}`)

	statusChangedTemplate = mustTemplate("status_changed",
		"[Ticket #{{.TicketID}}] Status changed to {{.NewStatusDisplay}}",
		`Hi {{.CustomerName}},

The status of your ticket **#{{.TicketID}}** changed from *{{.OldStatusDisplay}}* to *{{.NewStatusDisplay}}*.
{{if eq .NewStatus "RESOLVED"}}
If the problem persists, reply to this email and we will reopen it.
{{end}}`)

	commentAddedTemplate = mustTemplate("comment_added",
		"[Ticket #{{.TicketID}}] New reply from {{.AuthorName}}",
		`Hi {{.CustomerName}},

**{{.AuthorName}}** replied to your ticket **#{{.TicketID}}**:

{{.Content}}`)
)

// templateData adds display names to the raw event.
type templateData struct {
	ticket.TicketEvent
	OldStatusDisplay string
	NewStatusDisplay string
}

// TicketNotifier handles events delivered by the ticket event bus.
type TicketNotifier struct {
	sender       email.Sender
	renderer     MarkdownRenderer
	inboxAddress string
	logger       logger.Interface
}

func NewTicketNotifier(
	sender email.Sender,
	renderer MarkdownRenderer,
	inboxAddress string,
	logger logger.Interface,
) *TicketNotifier {
	return &TicketNotifier{
		sender:       sender,
		renderer:     renderer,
		inboxAddress: inboxAddress,
		logger:       logger,
	}
}

// Handle sends the emails for one event. A returned error makes the bus redeliver the event.
func (n *TicketNotifier) Handle(ctx context.Context, event ticket.TicketEvent) error {
	data := templateData{
		TicketEvent:      event,
		OldStatusDisplay: vo.TicketStatus(event.OldStatus).DisplayName(),
		NewStatusDisplay: vo.TicketStatus(event.NewStatus).DisplayName(),
	}

	var messages []email.Message
	switch event.Type {
	case ticket.EventTicketCreated:
		msg, err := n.render(customerCreatedTemplate, data, event.CustomerEmail)
		if err != nil {
			return err
		}
		messages = append(messages, msg)
		if n.inboxAddress != "" {
			msg, err := n.render(inboxCreatedTemplate, data, n.inboxAddress)
			if err != nil {
				return err
			}
			messages = append(messages, msg)
		}
	case ticket.EventTicketStatusChanged:
		msg, err := n.render(statusChangedTemplate, data, event.CustomerEmail)
		if err != nil {
			return err
		}
		messages = append(messages, msg)
	case ticket.EventTicketCommentAdded:
		msg, err := n.render(commentAddedTemplate, data, event.CustomerEmail)
		if err != nil {
			return err
		}
		messages = append(messages, msg)
	default:
		n.logger.Warnw("ignoring unknown ticket event", "event_type", event.Type, "ticket_id", event.TicketID)
		return nil
	}

	for _, msg := range messages {
		if err := n.sender.Send(ctx, msg); err != nil {
			n.logger.Errorw("failed to send ticket notification",
				"event_type", event.Type,
				"ticket_id", event.TicketID,
				"to", logutil.MaskEmail(msg.To[0]),
				"error", err,
			)
			return fmt.Errorf("failed to send %s notification: %w", event.Type, err)
		}
	}

	n.logger.Infow("ticket notification sent",
		"event_type", event.Type,
		"ticket_id", event.TicketID,
		"messages", len(messages),
	)
	return nil
}

func (n *TicketNotifier) render(tmpl emailTemplate, data templateData, to string) (email.Message, error) {
	var subject, body bytes.Buffer
	if err := tmpl.subject.Execute(&subject, data); err != nil {
		return email.Message{}, fmt.Errorf("failed to render email subject: %w", err)
	}
	if err := tmpl.body.Execute(&body, data); err != nil {
		return email.Message{}, fmt.Errorf("failed to render email body: %w", err)
	}

	html, err := n.renderer.ToHTML(body.String())
	if err != nil {
		return email.Message{}, fmt.Errorf("failed to render email html: %w", err)
	}
	plain, err := n.renderer.ToPlainText(body.String())
	if err != nil {
		plain = body.String()
	}

	return email.Message{
		To:        []string{to},
		Subject:   subject.String(),
		PlainBody: plain,
		HTMLBody:  html,
	}, nil
}
