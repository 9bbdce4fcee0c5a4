package dnscheck

import (
	"context"
	"fmt"
	"time"

	"go_sitebuilder/internal/model"

	"github.com/miekg/dns"
)

const (
	maxAttempts  = 3
	retryBackoff = time.Second
)

// Result is the outcome of one domain check
type Result struct {
	Status    model.DNSStatus
	Addresses []string
	Message   string
}

// Checker resolves a domain and decides whether it points at the platform
type Checker interface {
	Check(ctx context.Context, domain string) Result
}

// ARecordChecker performs A-record lookups against a fixed resolver and
// compares the answer set with the platform's serving IP. Lookup failures
// are retried up to maxAttempts with a fixed backoff; a successful lookup
// is never retried regardless of the verified/unverified outcome.
type ARecordChecker struct {
	ServerIP     string
	ResolverAddr string
	Timeout      time.Duration
}

// NewARecordChecker creates a checker for the given expected server IP
func NewARecordChecker(serverIP, resolverAddr string, timeout time.Duration) *ARecordChecker {
	return &ARecordChecker{
		ServerIP:     serverIP,
		ResolverAddr: resolverAddr,
		Timeout:      timeout,
	}
}

// Check implements Checker
func (c *ARecordChecker) Check(ctx context.Context, domain string) Result {
	var lastErr error

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		addrs, err := c.lookupA(ctx, domain)
		if err == nil {
			for _, addr := range addrs {
				if addr == c.ServerIP {
					return Result{Status: model.DNSStatusVerified, Addresses: addrs}
				}
			}
			return Result{
				Status:    model.DNSStatusUnverified,
				Addresses: addrs,
				Message:   fmt.Sprintf("no A record points to %s", c.ServerIP),
			}
		}

		lastErr = err
		if attempt == maxAttempts {
			break
		}
		select {
		case <-time.After(retryBackoff):
		case <-ctx.Done():
			return Result{Status: model.DNSStatusError, Message: ctx.Err().Error()}
		}
	}

	return Result{Status: model.DNSStatusError, Message: lastErr.Error()}
}

// lookupA performs a single bounded A-record query
func (c *ARecordChecker) lookupA(ctx context.Context, domain string) ([]string, error) {
	client := &dns.Client{Timeout: c.Timeout}

	msg := new(dns.Msg)
	msg.SetQuestion(dns.Fqdn(domain), dns.TypeA)
	msg.RecursionDesired = true

	in, _, err := client.ExchangeContext(ctx, msg, c.ResolverAddr)
	if err != nil {
		return nil, fmt.Errorf("dns lookup failed for %s: %w", domain, err)
	}
	if in.Rcode != dns.RcodeSuccess {
		return nil, fmt.Errorf("dns lookup for %s returned %s", domain, dns.RcodeToString[in.Rcode])
	}

	var addrs []string
	for _, rr := range in.Answer {
		if a, ok := rr.(*dns.A); ok {
			addrs = append(addrs, a.A.String())
		}
	}
	return addrs, nil
}

// StaticChecker returns a fixed result; used when DNS verification is
// disabled via configuration and in tests.
type StaticChecker struct {
	Result Result
}

// Check implements Checker
func (c *StaticChecker) Check(ctx context.Context, domain string) Result {
	return c.Result
}
