package notifx

import (
	"bytes"
	"context"
	"html/template"
	"sync"
)

// EmailMessage represents an email to be sent.
type EmailMessage struct {
	From     string   `json:"from"`
	To       []string `json:"to"`
	Subject  string   `json:"subject"`
	TextBody string   `json:"text_body,omitempty"`
	HTMLBody string   `json:"html_body,omitempty"`
}

// EmailSender sends a single email.
type EmailSender interface {
	SendEmail(ctx context.Context, msg EmailMessage) error
}

// Client is the main entry point for sending notifications. It owns the
// parsed html/templates used for email bodies; templates are registered once
// at startup and looked up per send.
type Client struct {
	provider  EmailSender
	mu        sync.RWMutex
	templates map[string]*template.Template
}

// NewClient creates a new notification client.
func NewClient(provider EmailSender) *Client {
	return &Client{
		provider:  provider,
		templates: make(map[string]*template.Template),
	}
}

// SendEmail sends an email through the configured provider.
func (c *Client) SendEmail(ctx context.Context, msg EmailMessage) error {
	if len(msg.To) == 0 {
		return notifxErrors.New(ErrInvalidMessage).WithDetail("reason", "no recipients")
	}
	if msg.Subject == "" {
		return notifxErrors.New(ErrInvalidMessage).WithDetail("reason", "empty subject")
	}
	return c.provider.SendEmail(ctx, msg)
}

// RegisterTemplate parses and stores a named template for later use.
func (c *Client) RegisterTemplate(name, tmplString string) error {
	t, err := template.New(name).Parse(tmplString)
	if err != nil {
		return notifxErrors.NewWithCause(ErrTemplateParse, err).WithDetail("template", name)
	}

	c.mu.Lock()
	c.templates[name] = t
	c.mu.Unlock()

	return nil
}

// SendTemplatedEmail renders a registered template with the given data and
// sends the result as the HTML body.
func (c *Client) SendTemplatedEmail(ctx context.Context, templateName string, data interface{}, msg EmailMessage) error {
	c.mu.RLock()
	t, ok := c.templates[templateName]
	c.mu.RUnlock()

	if !ok {
		return notifxErrors.New(ErrTemplateNotFound).WithDetail("template", templateName)
	}

	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return notifxErrors.NewWithCause(ErrTemplateRender, err).WithDetail("template", templateName)
	}

	msg.HTMLBody = buf.String()
	return c.SendEmail(ctx, msg)
}
