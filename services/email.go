package services

import (
	"bytes"
	"fmt"
	htmltemplate "html/template"
	"strings"
	texttemplate "text/template"

	"legal_aid_app_go/config"

	"github.com/resend/resend-go/v2"
	"github.com/rs/zerolog/log"
)

// Email represents an email message
type Email struct {
	To       []string
	Subject  string
	HTMLBody string
	TextBody string
}

// SendEmail sends an email using Resend API
func SendEmail(cfg *config.Config, email *Email) error {
	// In test mode, log the email instead of sending
	if cfg.EmailTestMode {
		logEmail(email)
		return nil
	}

	if cfg.ResendAPIKey == "" {
		return fmt.Errorf("RESEND_API_KEY not configured")
	}
	if email.HTMLBody == "" && email.TextBody == "" {
		return fmt.Errorf("email must have either HTMLBody or TextBody")
	}

	client := resend.NewClient(cfg.ResendAPIKey)
	params := &resend.SendEmailRequest{
		From:    fmt.Sprintf("%s <%s>", cfg.EmailFromName, cfg.EmailFrom),
		To:      email.To,
		Subject: email.Subject,
		Html:    email.HTMLBody,
		Text:    email.TextBody,
	}

	sent, err := client.Emails.Send(params)
	if err != nil {
		return fmt.Errorf("failed to send email via Resend: %w", err)
	}

	log.Info().Str("component", "email").Str("id", sent.Id).Strs("to", email.To).Msg("Email sent")
	return nil
}

// logEmail writes the email to the log in test mode
func logEmail(email *Email) {
	log.Info().
		Str("component", "email").
		Bool("test_mode", true).
		Strs("to", email.To).
		Str("subject", email.Subject).
		Str("text", truncate(email.TextBody, 500)).
		Msg("Email not sent (test mode)")
}

// truncate truncates a string to a maximum length
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen]
}

// SendEmailAsync sends an email in a goroutine so handlers do not block on delivery
func SendEmailAsync(cfg *config.Config, email *Email) {
	// Copy to avoid races with the caller
	emailCopy := &Email{
		To:       append([]string{}, email.To...),
		Subject:  email.Subject,
		HTMLBody: email.HTMLBody,
		TextBody: email.TextBody,
	}

	go func(cfg *config.Config, email *Email) {
		if err := SendEmail(cfg, email); err != nil {
			log.Error().Str("component", "email").Err(err).Msg("Error sending async email")
		}
	}(cfg, emailCopy)
}

// CaseAssignmentEmailData contains data for the case assignment email
type CaseAssignmentEmailData struct {
	UserName   string
	CaseNumber string
	ClientName string
	CaseURL    string
}

var caseAssignmentHTML = htmltemplate.Must(htmltemplate.New("case_assignment.html").Parse(
	`<p>Hello {{.UserName}},</p>
<p>You have been assigned to case <strong>{{.CaseNumber}}</strong>{{if .ClientName}} for {{.ClientName}}{{end}}.</p>
{{if .CaseURL}}<p><a href="{{.CaseURL}}">Open the case</a></p>{{end}}`))

var caseAssignmentText = texttemplate.Must(texttemplate.New("case_assignment.txt").Parse(
	`Hello {{.UserName}},

You have been assigned to case {{.CaseNumber}}{{if .ClientName}} for {{.ClientName}}{{end}}.
{{if .CaseURL}}
Open the case: {{.CaseURL}}
{{end}}`))

// BuildCaseAssignmentEmail creates the notification sent to a user added to a case
func BuildCaseAssignmentEmail(userEmail string, data CaseAssignmentEmailData) (*Email, error) {
	var html, text bytes.Buffer
	if err := caseAssignmentHTML.Execute(&html, data); err != nil {
		return nil, fmt.Errorf("failed to render case assignment email: %w", err)
	}
	if err := caseAssignmentText.Execute(&text, data); err != nil {
		return nil, fmt.Errorf("failed to render case assignment email: %w", err)
	}

	return &Email{
		To:       []string{userEmail},
		Subject:  "You have been assigned to case " + data.CaseNumber,
		HTMLBody: html.String(),
		TextBody: strings.TrimSpace(text.String()),
	}, nil
}
