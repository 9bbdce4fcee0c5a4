package dnscheck

import (
	"context"
	"net"
	"testing"
	"time"

	"go_sitebuilder/internal/model"

	"github.com/miekg/dns"
)

// startTestDNS starts a local DNS server answering A queries from the
// given zone map. A nil entry produces NXDOMAIN.
func startTestDNS(t *testing.T, zone map[string][]string) string {
	t.Helper()

	pc, err := net.ListenPacket("udp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("failed to listen: %v", err)
	}

	handler := dns.HandlerFunc(func(w dns.ResponseWriter, r *dns.Msg) {
		m := new(dns.Msg)
		m.SetReply(r)

		q := r.Question[0]
		addrs, ok := zone[q.Name]
		if !ok {
			m.Rcode = dns.RcodeNameError
			w.WriteMsg(m)
			return
		}
		for _, addr := range addrs {
			m.Answer = append(m.Answer, &dns.A{
				Hdr: dns.RR_Header{Name: q.Name, Rrtype: dns.TypeA, Class: dns.ClassINET, Ttl: 60},
				A:   net.ParseIP(addr),
			})
		}
		w.WriteMsg(m)
	})

	server := &dns.Server{PacketConn: pc, Handler: handler}
	go server.ActivateAndServe()
	t.Cleanup(func() { server.Shutdown() })

	return pc.LocalAddr().String()
}

func TestCheck_Verified(t *testing.T) {
	addr := startTestDNS(t, map[string][]string{
		"shop.example.com.": {"10.0.0.1", "139.59.3.58"},
	})

	checker := NewARecordChecker("139.59.3.58", addr, 2*time.Second)
	res := checker.Check(context.Background(), "shop.example.com")

	if res.Status != model.DNSStatusVerified {
		t.Errorf("Status = %s, want verified (addresses: %v, message: %s)", res.Status, res.Addresses, res.Message)
	}
	if len(res.Addresses) != 2 {
		t.Errorf("Addresses = %v, want 2 entries", res.Addresses)
	}
}

func TestCheck_Unverified(t *testing.T) {
	addr := startTestDNS(t, map[string][]string{
		"shop.example.com.": {"10.0.0.1"},
	})

	checker := NewARecordChecker("139.59.3.58", addr, 2*time.Second)
	res := checker.Check(context.Background(), "shop.example.com")

	if res.Status != model.DNSStatusUnverified {
		t.Errorf("Status = %s, want unverified", res.Status)
	}
	if res.Message == "" {
		t.Error("expected message naming the missing A-record target")
	}
}

func TestCheck_NXDomainIsError(t *testing.T) {
	addr := startTestDNS(t, map[string][]string{})

	checker := NewARecordChecker("139.59.3.58", addr, 2*time.Second)
	res := checker.Check(context.Background(), "missing.example.com")

	if res.Status != model.DNSStatusError {
		t.Errorf("Status = %s, want error", res.Status)
	}
}

func TestCheck_ContextCancelDuringBackoff(t *testing.T) {
	addr := startTestDNS(t, map[string][]string{})

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	checker := NewARecordChecker("139.59.3.58", addr, 2*time.Second)
	res := checker.Check(ctx, "missing.example.com")

	if res.Status != model.DNSStatusError {
		t.Errorf("Status = %s, want error", res.Status)
	}
}

func TestStaticChecker(t *testing.T) {
	checker := &StaticChecker{Result: Result{Status: model.DNSStatusVerified}}
	res := checker.Check(context.Background(), "anything.example.com")
	if res.Status != model.DNSStatusVerified {
		t.Errorf("Status = %s, want verified", res.Status)
	}
}
