package notify

import (
	"fmt"

	"go_sitebuilder/internal/model"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

// Mailer sends transactional email through SendGrid
type Mailer struct {
	FromName  string
	FromEmail string
	client    *sendgrid.Client
}

// NewMailer creates a mailer. Returns nil if no API key is configured,
// in which case email notifications are silently skipped.
func NewMailer(apiKey, fromEmail string) *Mailer {
	if apiKey == "" {
		return nil
	}
	return &Mailer{
		FromName:  "Begrat Support",
		FromEmail: fromEmail,
		client:    sendgrid.NewSendClient(apiKey),
	}
}

// domainStatusText maps a dns_status to the message shown to the tenant
func domainStatusText(domain string, status model.DNSStatus, serverIP string) string {
	switch status {
	case model.DNSStatusVerified:
		return fmt.Sprintf("Your domain %s is active!", domain)
	case model.DNSStatusUnverified:
		return fmt.Sprintf("Please configure your DNS for %s to point to %s.", domain, serverIP)
	case model.DNSStatusError:
		return fmt.Sprintf("We encountered an issue verifying %s. Please check your DNS settings.", domain)
	default:
		return fmt.Sprintf("Your domain %s is being verified. We'll notify you soon.", domain)
	}
}

// SendDomainStatus sends a domain status-change notification
func (m *Mailer) SendDomainStatus(toEmail, domain string, status model.DNSStatus, serverIP string) error {
	text := domainStatusText(domain, status, serverIP)

	from := mail.NewEmail(m.FromName, m.FromEmail)
	to := mail.NewEmail("", toEmail)
	subject := fmt.Sprintf("Domain %s Status Update", domain)
	message := mail.NewSingleEmail(from, subject, to, text, "<p>"+text+"</p>")

	resp, err := m.client.Send(message)
	if err != nil {
		return err
	}
	if resp.StatusCode >= 400 {
		return fmt.Errorf("sendgrid returned status %d", resp.StatusCode)
	}
	return nil
}

// SendWelcome sends the credentials email for an admin-provisioned account
func (m *Mailer) SendWelcome(toEmail, name, password, storeURL, loginURL string) error {
	text := fmt.Sprintf(
		"Hello %s,\n\nYour store account has been created.\n\nEmail: %s\nPassword: %s\nStore URL: %s\nLogin URL: %s\n\nPlease change your password after your first login.",
		name, toEmail, password, storeURL, loginURL)

	from := mail.NewEmail(m.FromName, m.FromEmail)
	to := mail.NewEmail(name, toEmail)
	message := mail.NewSingleEmail(from, "Welcome to your new store", to, text, "")

	resp, err := m.client.Send(message)
	if err != nil {
		return err
	}
	if resp.StatusCode >= 400 {
		return fmt.Errorf("sendgrid returned status %d", resp.StatusCode)
	}
	return nil
}
