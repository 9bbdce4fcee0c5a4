package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go_sitebuilder/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// WebhookPayload is the body POSTed to the configured endpoint on every
// domain status change.
type WebhookPayload struct {
	DeliveryID string          `json:"delivery_id"`
	TenantID   int             `json:"tenant_id"`
	Domain     string          `json:"domain"`
	Status     model.DNSStatus `json:"status"`
	OccurredAt time.Time       `json:"occurred_at"`
}

// WebhookSender POSTs domain status changes to an external endpoint and
// records each attempt in webhook_deliveries.
type WebhookSender struct {
	db       *gorm.DB
	endpoint string
	client   *http.Client
}

// NewWebhookSender creates a sender. Returns nil if no endpoint is
// configured, in which case webhook notifications are silently skipped.
func NewWebhookSender(db *gorm.DB, endpoint string, timeout time.Duration) *WebhookSender {
	if endpoint == "" {
		return nil
	}
	return &WebhookSender{
		db:       db,
		endpoint: endpoint,
		client:   &http.Client{Timeout: timeout},
	}
}

// Send delivers one status-change event. The delivery row is written
// whether or not the POST succeeds.
func (w *WebhookSender) Send(ctx context.Context, tenantID int, domain string, status model.DNSStatus) error {
	payload := WebhookPayload{
		DeliveryID: uuid.NewString(),
		TenantID:   tenantID,
		Domain:     domain,
		Status:     status,
		OccurredAt: time.Now().UTC(),
	}

	delivery := model.WebhookDelivery{
		ID:       payload.DeliveryID,
		TenantID: tenantID,
		Domain:   domain,
		Status:   status,
		Endpoint: w.endpoint,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal webhook payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Delivery-ID", payload.DeliveryID)

	resp, err := w.client.Do(req)
	if err != nil {
		delivery.Error = err.Error()
		w.record(&delivery)
		return fmt.Errorf("webhook delivery failed: %w", err)
	}
	defer resp.Body.Close()

	delivery.ResponseCode = resp.StatusCode
	if resp.StatusCode >= 400 {
		delivery.Error = fmt.Sprintf("endpoint returned status %d", resp.StatusCode)
	}
	w.record(&delivery)

	if delivery.Error != "" {
		return fmt.Errorf("webhook delivery failed: %s", delivery.Error)
	}
	return nil
}

func (w *WebhookSender) record(delivery *model.WebhookDelivery) {
	if w.db == nil {
		return
	}
	w.db.Create(delivery)
}
