package notify

import (
	"context"

	"go_sitebuilder/internal/model"

	"github.com/sirupsen/logrus"
)

// Broadcaster pushes a domain status event to connected consoles
type Broadcaster func(tenantID int, domain string, status model.DNSStatus)

// Notifier fans a domain status change out to email, webhook, and the
// realtime channel. All sends are best-effort: failures are logged and
// never propagate to the caller, so a notification outage can never
// block or roll back the status write that triggered it.
type Notifier struct {
	mailer    *Mailer
	webhook   *WebhookSender
	broadcast Broadcaster
	serverIP  string
	log       *logrus.Entry
}

// NewNotifier wires the fan-out. mailer, webhook, and broadcast may each
// be nil, in which case that channel is skipped.
func NewNotifier(mailer *Mailer, webhook *WebhookSender, broadcast Broadcaster, serverIP string) *Notifier {
	return &Notifier{
		mailer:    mailer,
		webhook:   webhook,
		broadcast: broadcast,
		serverIP:  serverIP,
		log:       logrus.WithField("component", "notify"),
	}
}

// DomainStatusChanged notifies the tenant about a dns_status transition
func (n *Notifier) DomainStatusChanged(ctx context.Context, tenantID int, email, domain string, status model.DNSStatus) {
	fields := logrus.Fields{"tenant_id": tenantID, "domain": domain, "status": status}

	if n.mailer != nil && email != "" {
		if err := n.mailer.SendDomainStatus(email, domain, status, n.serverIP); err != nil {
			n.log.WithFields(fields).WithError(err).Warn("domain status email failed")
		}
	}

	if n.webhook != nil {
		if err := n.webhook.Send(ctx, tenantID, domain, status); err != nil {
			n.log.WithFields(fields).WithError(err).Warn("domain status webhook failed")
		}
	}

	if n.broadcast != nil {
		n.broadcast(tenantID, domain, status)
	}
}
