package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/umbraco/Umbraco.AI-sub015/internal/domain"
)

// WebhookNotifier delivers entity events by POSTing JSON to a subscriber URL.
// The URL is injected from config so tests can point to a local httptest server.
type WebhookNotifier struct {
	url        string
	httpClient *http.Client
}

func NewWebhookNotifier(url string, timeout time.Duration) *WebhookNotifier {
	return &WebhookNotifier{
		url: url,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Notify posts ev to the configured URL and expects any 2xx status.
// The event's correlation id is forwarded as X-Correlation-ID.
func (p *WebhookNotifier) Notify(ctx context.Context, ev domain.EntityEvent) (*NotifyResponse, error) {
	body, err := json.Marshal(ev)
	if err != nil {
		return nil, fmt.Errorf("marshal event: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if ev.CorrelationID != "" {
		req.Header.Set("X-Correlation-ID", ev.CorrelationID)
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("unexpected webhook status: %d", resp.StatusCode)
	}

	var out NotifyResponse
	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	// Subscribers may answer 204 or a non-JSON body; only decode when there is one.
	if len(bytes.TrimSpace(raw)) > 0 {
		if err := json.Unmarshal(raw, &out); err != nil {
			return nil, fmt.Errorf("decode response: %w", err)
		}
	}
	if out.Status == "" {
		out.Status = http.StatusText(resp.StatusCode)
	}
	return &out, nil
}

// compile-time check that WebhookNotifier implements Notifier
var _ Notifier = (*WebhookNotifier)(nil)
