package service_test

import (
	"context"
	"testing"

	"github.com/umbraco/Umbraco.AI-sub015/internal/domain"
	"github.com/umbraco/Umbraco.AI-sub015/internal/repository"
	"github.com/umbraco/Umbraco.AI-sub015/internal/service"
)

func TestAuditService_ListFiltersByEntity(t *testing.T) {
	repo := repository.NewMockAuditRepository()
	svc := service.NewAuditService(repo)
	ctx := context.Background()

	for _, e := range []domain.AuditEntry{
		{EntityType: domain.EntityPrompt, EntityID: "p1", Action: domain.AuditCreated},
		{EntityType: domain.EntityPrompt, EntityID: "p2", Action: domain.AuditCreated},
		{EntityType: domain.EntityPrompt, EntityID: "p1", Action: domain.AuditUpdated},
	} {
		e := e
		if err := repo.Insert(ctx, &e); err != nil {
			t.Fatal(err)
		}
	}

	id := "p1"
	entries, total, err := svc.List(ctx, domain.AuditFilter{EntityID: &id, Page: 1, Limit: 20})
	if err != nil {
		t.Fatal(err)
	}
	if total != 2 || len(entries) != 2 {
		t.Fatalf("expected 2 entries for p1, got total=%d len=%d", total, len(entries))
	}
}
