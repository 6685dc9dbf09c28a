package provider_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/umbraco/Umbraco.AI-sub015/internal/domain"
	"github.com/umbraco/Umbraco.AI-sub015/internal/provider"
)

func testEvent() domain.EntityEvent {
	return domain.EntityEvent{
		EntityType:    domain.EntityPrompt,
		EntityID:      "p-1",
		Alias:         "summarise-page",
		Action:        domain.AuditCreated,
		Version:       1,
		CorrelationID: "corr-1",
		OccurredAt:    time.Now().UTC(),
	}
}

func TestWebhookNotifier_Notify(t *testing.T) {
	var got domain.EntityEvent
	var gotCorrelation string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotCorrelation = r.Header.Get("X-Correlation-ID")
		_ = json.NewDecoder(r.Body).Decode(&got)
		w.WriteHeader(http.StatusAccepted)
		_, _ = w.Write([]byte(`{"deliveryId":"d-42","status":"accepted"}`))
	}))
	defer srv.Close()

	n := provider.NewWebhookNotifier(srv.URL, time.Second)
	resp, err := n.Notify(context.Background(), testEvent())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.DeliveryID != "d-42" {
		t.Fatalf("expected delivery id d-42, got %q", resp.DeliveryID)
	}
	if got.EntityID != "p-1" || got.Action != domain.AuditCreated {
		t.Fatalf("unexpected event posted: %+v", got)
	}
	if gotCorrelation != "corr-1" {
		t.Fatalf("expected correlation header corr-1, got %q", gotCorrelation)
	}
}

func TestWebhookNotifier_NoContent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	resp, err := provider.NewWebhookNotifier(srv.URL, time.Second).Notify(context.Background(), testEvent())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Status != http.StatusText(http.StatusNoContent) {
		t.Fatalf("expected status text fallback, got %q", resp.Status)
	}
}

func TestWebhookNotifier_ErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	if _, err := provider.NewWebhookNotifier(srv.URL, time.Second).Notify(context.Background(), testEvent()); err == nil {
		t.Fatal("expected error for 502 response")
	}
}
