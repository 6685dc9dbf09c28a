package provider

import (
	"context"
	"sync"

	"github.com/umbraco/Umbraco.AI-sub015/internal/domain"
)

// NotifyResponse maps the subscriber's 2xx response body.
type NotifyResponse struct {
	DeliveryID string `json:"deliveryId"`
	Status     string `json:"status"`
}

// Notifier delivers committed entity events to external subscribers.
// Mocking this interface in tests gives full control over delivery behaviour
// without making real HTTP calls.
type Notifier interface {
	Notify(ctx context.Context, ev domain.EntityEvent) (*NotifyResponse, error)
}

// NopNotifier accepts every event and delivers nothing. Used when no
// webhook URL is configured.
type NopNotifier struct{}

func (NopNotifier) Notify(context.Context, domain.EntityEvent) (*NotifyResponse, error) {
	return &NotifyResponse{Status: "skipped"}, nil
}

// MockNotifier records delivered events. Err, when set, is returned instead.
type MockNotifier struct {
	mu     sync.Mutex
	events []domain.EntityEvent

	Err error
}

func (m *MockNotifier) Notify(_ context.Context, ev domain.EntityEvent) (*NotifyResponse, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	m.events = append(m.events, ev)
	return &NotifyResponse{DeliveryID: ev.EntityID, Status: "accepted"}, nil
}

// Events returns a copy of every event delivered so far.
func (m *MockNotifier) Events() []domain.EntityEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]domain.EntityEvent(nil), m.events...)
}

var (
	_ Notifier = NopNotifier{}
	_ Notifier = (*MockNotifier)(nil)
)
