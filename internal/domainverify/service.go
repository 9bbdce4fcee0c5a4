package domainverify

import (
	"context"

	"go_sitebuilder/internal/dnscheck"
	"go_sitebuilder/internal/model"
	"go_sitebuilder/internal/notify"

	"github.com/sirupsen/logrus"
)

// Repo is the persistence surface the verification service needs
type Repo interface {
	UpdateDNSStatus(settingsID int, status model.DNSStatus) error
	TouchDNSCheck(settingsID int) error
	AppendDomainLog(entry *model.DomainLog) error
	OwnerEmail(tenantID int) string
	CustomDomainSettings(limit int) ([]model.Settings, error)
}

// CachePurger drops a cached host route after a status change
type CachePurger interface {
	PurgeHost(ctx context.Context, host string)
}

// Service runs DNS checks for custom domains and records the outcome.
// Confirming an unchanged dns_status is a no-op: no settings write, no
// audit row, no notification. Only transitions leave a trace.
type Service struct {
	repo       Repo
	checker    dnscheck.Checker
	notifier   *notify.Notifier
	purger     CachePurger
	onVerified func(tenantID int, domain string)
	log        *logrus.Entry
}

// NewService creates a verification service
func NewService(repo Repo, checker dnscheck.Checker, notifier *notify.Notifier) *Service {
	return &Service{
		repo:     repo,
		checker:  checker,
		notifier: notifier,
		log:      logrus.WithField("component", "domainverify"),
	}
}

// OnVerified registers a hook invoked after a domain transitions to
// verified. Used to queue TLS issuance.
func (s *Service) OnVerified(fn func(tenantID int, domain string)) {
	s.onVerified = fn
}

// SetCachePurger wires the resolver cache so a domain that loses
// verification stops resolving immediately instead of at TTL expiry.
func (s *Service) SetCachePurger(p CachePurger) {
	s.purger = p
}

// Check runs a DNS check without touching persisted state. Callers that
// apply settings transitions use this and persist the outcome themselves.
func (s *Service) Check(ctx context.Context, domain string) dnscheck.Result {
	return s.checker.Check(ctx, domain)
}

// Reverify re-checks an accepted custom domain. When the result differs
// from the stored dns_status it persists the new status, appends one
// audit row, and fans out notifications. Returns whether a transition
// happened.
func (s *Service) Reverify(ctx context.Context, st *model.Settings) (dnscheck.Result, bool, error) {
	res := s.checker.Check(ctx, st.PrimaryDomainName)
	if res.Status == st.DNSStatus {
		// Stamp the row anyway so the sweep batch rotates past it.
		if err := s.repo.TouchDNSCheck(st.ID); err != nil {
			s.log.WithField("settings_id", st.ID).WithError(err).Warn("failed to stamp dns check")
		}
		return res, false, nil
	}

	if err := s.repo.UpdateDNSStatus(st.ID, res.Status); err != nil {
		return res, false, err
	}

	s.log.WithFields(logrus.Fields{
		"tenant_id": st.TenantID,
		"domain":    st.PrimaryDomainName,
		"from":      st.DNSStatus,
		"to":        res.Status,
	}).Info("dns status changed")

	s.RecordTransition(ctx, st.TenantID, st.PrimaryDomainName, res.Status, res.Message)
	st.DNSStatus = res.Status
	return res, true, nil
}

// RecordTransition appends the audit row for a committed status change
// and notifies the tenant. Audit and notification failures are logged
// but never propagate: the status write already happened and must stand.
func (s *Service) RecordTransition(ctx context.Context, tenantID int, domain string, status model.DNSStatus, message string) {
	if message == "" {
		message = "DNS check completed"
	}

	err := s.repo.AppendDomainLog(&model.DomainLog{
		TenantID: tenantID,
		Domain:   domain,
		Status:   status,
		Message:  message,
	})
	if err != nil {
		s.log.WithFields(logrus.Fields{"tenant_id": tenantID, "domain": domain}).
			WithError(err).Error("failed to append domain log")
	}

	if s.notifier != nil {
		s.notifier.DomainStatusChanged(ctx, tenantID, s.repo.OwnerEmail(tenantID), domain, status)
	}

	if status != model.DNSStatusVerified && s.purger != nil {
		s.purger.PurgeHost(ctx, domain)
	}

	if status == model.DNSStatusVerified && s.onVerified != nil {
		s.onVerified(tenantID, domain)
	}
}

// ReverifyAll sweeps custom-domain tenants and re-checks each one.
// Rows without a domain name are skipped. Returns how many domains were
// checked and how many changed status.
func (s *Service) ReverifyAll(ctx context.Context, batchSize int) (checked, changed int) {
	rows, err := s.repo.CustomDomainSettings(batchSize)
	if err != nil {
		s.log.WithError(err).Error("failed to list custom domain settings")
		return 0, 0
	}

	for i := range rows {
		if err := ctx.Err(); err != nil {
			s.log.WithError(err).Warn("revalidation sweep interrupted")
			return checked, changed
		}

		st := &rows[i]
		if st.PrimaryDomainName == "" {
			continue
		}

		checked++
		_, didChange, err := s.Reverify(ctx, st)
		if err != nil {
			s.log.WithFields(logrus.Fields{"tenant_id": st.TenantID, "domain": st.PrimaryDomainName}).
				WithError(err).Error("failed to persist dns status")
			continue
		}
		if didChange {
			changed++
		}
	}
	return checked, changed
}
