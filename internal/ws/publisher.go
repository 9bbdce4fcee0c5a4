package ws

import (
	"log"
	"time"

	"go_sitebuilder/internal/model"
)

// baseDomain is the platform apex, used to render a tenant's active
// domain in status snapshots. Set once during startup.
var baseDomain string

// SetBaseDomain configures the platform apex for status snapshots
func SetBaseDomain(domain string) {
	baseDomain = domain
}

// PublishDomainStatus broadcasts a dns_status change to the tenant's
// room. Satisfies the notifier's Broadcaster hook; delivery is
// fire-and-forget.
func PublishDomainStatus(tenantID int, domain string, status model.DNSStatus) {
	BroadcastToRoom(TenantRoom(tenantID), "domain:status-changed", map[string]interface{}{
		"tenantId":   tenantID,
		"domain":     domain,
		"dnsStatus":  status,
		"occurredAt": time.Now().UTC().Format(time.RFC3339),
	})
	log.Printf("[WebSocket] Domain status broadcast: tenant=%d domain=%s status=%s", tenantID, domain, status)
}
