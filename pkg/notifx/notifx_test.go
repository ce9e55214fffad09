package notifx_test

import (
	"context"
	"testing"

	"github.com/Abraxas-365/gatekeeper/pkg/errx"
	"github.com/Abraxas-365/gatekeeper/pkg/notifx"
)

// recordingSender captures the last message handed to the provider.
type recordingSender struct {
	last notifx.EmailMessage
}

func (r *recordingSender) SendEmail(_ context.Context, msg notifx.EmailMessage) error {
	r.last = msg
	return nil
}

func TestClient_SendTemplatedEmail(t *testing.T) {
	sender := &recordingSender{}
	client := notifx.NewClient(sender)

	if err := client.RegisterTemplate("code", `<p>Code: <strong>{{.Code}}</strong></p>`); err != nil {
		t.Fatalf("RegisterTemplate: %v", err)
	}

	msg := notifx.EmailMessage{
		To:      []string{"alice@example.com"},
		Subject: "Your code",
	}
	err := client.SendTemplatedEmail(context.Background(), "code", struct{ Code string }{"123456"}, msg)
	if err != nil {
		t.Fatalf("SendTemplatedEmail: %v", err)
	}

	if sender.last.HTMLBody != `<p>Code: <strong>123456</strong></p>` {
		t.Fatalf("unexpected rendered body: %q", sender.last.HTMLBody)
	}
	if len(sender.last.To) != 1 || sender.last.To[0] != "alice@example.com" {
		t.Fatalf("recipient lost: %+v", sender.last.To)
	}
}

func TestClient_SendTemplatedEmail_UnknownTemplate(t *testing.T) {
	client := notifx.NewClient(&recordingSender{})

	err := client.SendTemplatedEmail(context.Background(), "missing", nil, notifx.EmailMessage{
		To:      []string{"alice@example.com"},
		Subject: "x",
	})
	if !errx.IsCode(err, notifx.ErrTemplateNotFound) {
		t.Fatalf("expected TEMPLATE_NOT_FOUND, got %v", err)
	}
}

func TestClient_RegisterTemplate_ParseError(t *testing.T) {
	client := notifx.NewClient(&recordingSender{})

	err := client.RegisterTemplate("broken", `{{.Unclosed`)
	if !errx.IsCode(err, notifx.ErrTemplateParse) {
		t.Fatalf("expected TEMPLATE_PARSE, got %v", err)
	}
}

func TestClient_SendEmail_Validation(t *testing.T) {
	client := notifx.NewClient(&recordingSender{})
	ctx := context.Background()

	err := client.SendEmail(ctx, notifx.EmailMessage{Subject: "x"})
	if !errx.IsCode(err, notifx.ErrInvalidMessage) {
		t.Fatalf("expected INVALID_MESSAGE for no recipients, got %v", err)
	}

	err = client.SendEmail(ctx, notifx.EmailMessage{To: []string{"a@b.co"}})
	if !errx.IsCode(err, notifx.ErrInvalidMessage) {
		t.Fatalf("expected INVALID_MESSAGE for empty subject, got %v", err)
	}
}
