package notify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go_sitebuilder/internal/model"
)

func TestWebhookSender_Send(t *testing.T) {
	var got WebhookPayload
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("content type = %s, want application/json", ct)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("failed to decode payload: %v", err)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	sender := NewWebhookSender(nil, server.URL, 5*time.Second)
	if err := sender.Send(context.Background(), 42, "shop.example.com", model.DNSStatusUnverified); err != nil {
		t.Fatalf("Send failed: %v", err)
	}

	if got.TenantID != 42 {
		t.Errorf("tenant_id = %d, want 42", got.TenantID)
	}
	if got.Domain != "shop.example.com" {
		t.Errorf("domain = %s, want shop.example.com", got.Domain)
	}
	if got.Status != model.DNSStatusUnverified {
		t.Errorf("status = %s, want unverified", got.Status)
	}
	if got.DeliveryID == "" {
		t.Error("delivery_id must be set")
	}
}

func TestWebhookSender_EndpointError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	sender := NewWebhookSender(nil, server.URL, 5*time.Second)
	if err := sender.Send(context.Background(), 1, "shop.example.com", model.DNSStatusVerified); err == nil {
		t.Error("expected error for 502 endpoint response, got nil")
	}
}

func TestNewWebhookSender_Disabled(t *testing.T) {
	if sender := NewWebhookSender(nil, "", time.Second); sender != nil {
		t.Error("expected nil sender when endpoint is empty")
	}
}

func TestNotifier_NilChannels(t *testing.T) {
	// A notifier with no configured channels must be a safe no-op
	n := NewNotifier(nil, nil, nil, "139.59.3.58")
	n.DomainStatusChanged(context.Background(), 1, "owner@example.com", "shop.example.com", model.DNSStatusVerified)
}

func TestNotifier_Broadcast(t *testing.T) {
	var calls int
	var gotTenant int
	n := NewNotifier(nil, nil, func(tenantID int, domain string, status model.DNSStatus) {
		calls++
		gotTenant = tenantID
	}, "139.59.3.58")

	n.DomainStatusChanged(context.Background(), 42, "", "shop.example.com", model.DNSStatusUnverified)

	if calls != 1 {
		t.Errorf("broadcast calls = %d, want 1", calls)
	}
	if gotTenant != 42 {
		t.Errorf("broadcast tenant = %d, want 42", gotTenant)
	}
}

func TestDomainStatusText(t *testing.T) {
	tests := []struct {
		status model.DNSStatus
		want   string
	}{
		{model.DNSStatusVerified, "Your domain shop.example.com is active!"},
		{model.DNSStatusUnverified, "Please configure your DNS for shop.example.com to point to 139.59.3.58."},
		{model.DNSStatusError, "We encountered an issue verifying shop.example.com. Please check your DNS settings."},
		{model.DNSStatusPending, "Your domain shop.example.com is being verified. We'll notify you soon."},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			got := domainStatusText("shop.example.com", tt.status, "139.59.3.58")
			if got != tt.want {
				t.Errorf("domainStatusText = %q, want %q", got, tt.want)
			}
		})
	}
}
