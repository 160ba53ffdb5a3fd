package resendmail

import (
	"bytes"
	"context"
	"fmt"
	"html/template"

	"github.com/resend/resend-go/v2"

	"github.com/bugswriter/bizniz-api/internal/domain/entity"
	"github.com/bugswriter/bizniz-api/internal/domain/port/provider"
)

// Mailer sends transactional emails through the Resend API
type Mailer struct {
	client      *resend.Client
	fromAddress string
	projectName string
}

// NewMailer creates a Resend-backed mailer
func NewMailer(apiKey, fromAddress, projectName string) provider.Mailer {
	return &Mailer{
		client:      resend.NewClient(apiKey),
		fromAddress: fromAddress,
		projectName: projectName,
	}
}

var _ provider.Mailer = (*Mailer)(nil)

type emailData struct {
	ProjectName string
	Name        string
	PlanName    string
	CoinsAdded  string
}

// SendSubscriptionStarted welcomes a user to their new plan
func (m *Mailer) SendSubscriptionStarted(ctx context.Context, to, name, planName string) error {
	subject := fmt.Sprintf("Welcome to %s", planName)
	return m.send(ctx, to, subject, subscriptionStartedTmpl, emailData{
		ProjectName: m.projectName,
		Name:        name,
		PlanName:    planName,
	})
}

// SendRenewalReceipt confirms a successful subscription renewal
func (m *Mailer) SendRenewalReceipt(ctx context.Context, to, name string, coinsAdded float64, planName string) error {
	subject := fmt.Sprintf("Your %s subscription has renewed", planName)
	return m.send(ctx, to, subject, renewalReceiptTmpl, emailData{
		ProjectName: m.projectName,
		Name:        name,
		PlanName:    planName,
		CoinsAdded:  entity.FormatCoins(coinsAdded),
	})
}

// SendSubscriptionCancelled confirms a scheduled cancellation
func (m *Mailer) SendSubscriptionCancelled(ctx context.Context, to, name, planName string) error {
	subject := fmt.Sprintf("Your %s subscription has been cancelled", planName)
	return m.send(ctx, to, subject, subscriptionCancelledTmpl, emailData{
		ProjectName: m.projectName,
		Name:        name,
		PlanName:    planName,
	})
}

func (m *Mailer) send(ctx context.Context, to, subject string, tmpl *template.Template, data emailData) error {
	var body bytes.Buffer
	if err := tmpl.Execute(&body, data); err != nil {
		return fmt.Errorf("render email template: %w", err)
	}

	params := &resend.SendEmailRequest{
		From:    fmt.Sprintf("%s <%s>", m.projectName, m.fromAddress),
		To:      []string{to},
		Subject: subject,
		Html:    body.String(),
	}

	if _, err := m.client.Emails.SendWithContext(ctx, params); err != nil {
		return fmt.Errorf("send email: %w", err)
	}
	return nil
}
