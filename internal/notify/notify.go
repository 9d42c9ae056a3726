package notify

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"log"
	"strings"

	"github.com/lumina/internal/db"
	"github.com/resend/resend-go/v2"
)

var demoRequestEmail = template.Must(template.New("demo_request").Parse(`<h2>New demo request</h2>
<p><strong>{{.Request.Name}}</strong> from <strong>{{.Request.ParishName}}</strong> ({{.Request.Location}}) asked for a demo.</p>
<ul>
<li>Email: {{.Request.Email}}</li>
{{- with .Request.PhoneText}}
<li>Phone: {{.}}</li>
{{- end}}
</ul>
{{- with .Request.MessageText}}
<blockquote>{{.}}</blockquote>
{{- end}}
<p><a href="{{.DashboardURL}}">Open the dashboard</a></p>
`))

// Nop drops notifications. It is used when no email provider is configured.
type Nop struct{}

func (Nop) DemoRequested(_ context.Context, req db.DemoRequest) error {
	log.Printf("notify: demo request %s from %s (email disabled)", req.ID, req.ParishName)
	return nil
}

// ResendNotifier emails the sales inbox through the Resend API.
type ResendNotifier struct {
	client  *resend.Client
	from    string
	to      []string
	baseURL string
}

// NewResendNotifier builds a notifier that sends from `from` to every address
// in the comma separated `to` list.
func NewResendNotifier(apiKey, from, to, baseURL string) *ResendNotifier {
	return &ResendNotifier{
		client:  resend.NewClient(apiKey),
		from:    from,
		to:      splitRecipients(to),
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

// DemoRequested sends one email describing req.
func (n *ResendNotifier) DemoRequested(ctx context.Context, req db.DemoRequest) error {
	if len(n.to) == 0 {
		return nil
	}

	body, err := RenderDemoRequest(req, n.baseURL)
	if err != nil {
		return err
	}

	params := &resend.SendEmailRequest{
		From:    n.from,
		To:      n.to,
		Subject: fmt.Sprintf("Demo request: %s", req.ParishName),
		Html:    body,
		ReplyTo: req.Email,
	}

	sent, err := n.client.Emails.SendWithContext(ctx, params)
	if err != nil {
		return fmt.Errorf("resend send failed: %w", err)
	}

	log.Printf("notify: demo request %s emailed (message %s)", req.ID, sent.Id)
	return nil
}

// RenderDemoRequest renders the HTML email body for req.
func RenderDemoRequest(req db.DemoRequest, baseURL string) (string, error) {
	var buf bytes.Buffer
	err := demoRequestEmail.Execute(&buf, struct {
		Request      db.DemoRequest
		DashboardURL string
	}{
		Request:      req,
		DashboardURL: strings.TrimRight(baseURL, "/") + "/admin",
	})
	if err != nil {
		return "", fmt.Errorf("render demo request email: %w", err)
	}
	return buf.String(), nil
}

func splitRecipients(raw string) []string {
	var recipients []string
	for _, part := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			recipients = append(recipients, trimmed)
		}
	}
	return recipients
}
