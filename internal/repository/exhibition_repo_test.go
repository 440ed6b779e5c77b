package repository

import (
	"context"
	"fmt"
	"testing"

	"github.com/timmy/artsearch/internal/config"
	"github.com/timmy/artsearch/internal/domain"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := InitDB(&config.DatabaseConfig{
		Driver:      "sqlite",
		Path:        fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name()),
		AutoMigrate: true,
	})
	if err != nil {
		t.Fatalf("failed to init db: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

func exhibitionItem(user string, tag domain.SourceTag, id string) *domain.ExhibitionItem {
	return &domain.ExhibitionItem{
		UserID:    user,
		SourceTag: tag,
		ItemID:    id,
		Item: domain.ItemPayload{
			ID:        id,
			SourceTag: tag,
			Title:     "Title " + id,
			Maker:     []domain.Maker{{Name: "Maker"}},
		},
	}
}

func TestExhibitionRepository_AddListDelete(t *testing.T) {
	repo := NewExhibitionRepository(newTestDB(t))
	ctx := context.Background()

	inserted, err := repo.Add(ctx, exhibitionItem("u1", domain.SourceVAM, "O1"))
	if err != nil || !inserted {
		t.Fatalf("expected insert, got inserted=%t err=%v", inserted, err)
	}
	if _, err := repo.Add(ctx, exhibitionItem("u1", domain.SourceEuropeana, "/9200/x")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := repo.Add(ctx, exhibitionItem("u2", domain.SourceVAM, "O1")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	items, err := repo.ListByUser(ctx, "u1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(items))
	}
	for _, it := range items {
		if it.Item.Title != "Title "+it.ItemID || it.Item.SourceTag != it.SourceTag || it.Item.Maker[0].Name != "Maker" {
			t.Errorf("payload did not round-trip: %+v", it.Item)
		}
	}

	removed, err := repo.Delete(ctx, "u1", domain.SourceVAM, "O1")
	if err != nil || !removed {
		t.Fatalf("expected removal, got removed=%t err=%v", removed, err)
	}
	removed, err = repo.Delete(ctx, "u1", domain.SourceVAM, "O1")
	if err != nil || removed {
		t.Errorf("expected no-op removal, got removed=%t err=%v", removed, err)
	}

	others, err := repo.ListByUser(ctx, "u2")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(others) != 1 {
		t.Errorf("expected other user's item to remain, got %d", len(others))
	}
}

func TestExhibitionRepository_AddIsIdempotent(t *testing.T) {
	repo := NewExhibitionRepository(newTestDB(t))
	ctx := context.Background()

	if _, err := repo.Add(ctx, exhibitionItem("u1", domain.SourceVAM, "O1")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	inserted, err := repo.Add(ctx, exhibitionItem("u1", domain.SourceVAM, "O1"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if inserted {
		t.Error("expected duplicate add to be ignored")
	}

	items, err := repo.ListByUser(ctx, "u1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(items) != 1 {
		t.Errorf("expected 1 item, got %d", len(items))
	}
}
