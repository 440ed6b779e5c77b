package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/timmy/artsearch/internal/domain"
)

type memoryExhibitionStore struct {
	mu    sync.Mutex
	items []domain.ExhibitionItem
}

func (m *memoryExhibitionStore) ListByUser(ctx context.Context, userID string) ([]domain.ExhibitionItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []domain.ExhibitionItem{}
	for _, it := range m.items {
		if it.UserID == userID {
			out = append(out, it)
		}
	}
	return out, nil
}

func (m *memoryExhibitionStore) Add(ctx context.Context, item *domain.ExhibitionItem) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, it := range m.items {
		if it.UserID == item.UserID && it.SourceTag == item.SourceTag && it.ItemID == item.ItemID {
			return false, nil
		}
	}
	m.items = append(m.items, *item)
	return true, nil
}

func (m *memoryExhibitionStore) Delete(ctx context.Context, userID string, tag domain.SourceTag, itemID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, it := range m.items {
		if it.UserID == userID && it.SourceTag == tag && it.ItemID == itemID {
			m.items = append(m.items[:i], m.items[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

type memoryExportStore struct {
	objects map[string][]byte
	types   map[string]string
}

func (m *memoryExportStore) Put(ctx context.Context, key string, body io.Reader, size int64, contentType string) error {
	data, err := io.ReadAll(body)
	if err != nil {
		return err
	}
	if int64(len(data)) != size {
		return errors.New("size mismatch")
	}
	m.objects[key] = data
	m.types[key] = contentType
	return nil
}

func (m *memoryExportStore) EnsureBucket(ctx context.Context) error {
	return nil
}

func (m *memoryExportStore) URL(ctx context.Context, key string) (string, error) {
	return "https://exports.example/" + key, nil
}

func TestExhibitionService_AddListRemove(t *testing.T) {
	svc := NewExhibitionService(&memoryExhibitionStore{}, nil)
	ctx := context.Background()
	item := domain.NormalizedItem{ID: "O1", SourceTag: domain.SourceVAM, Title: "Teapot"}

	added, err := svc.Add(ctx, "u1", item)
	if err != nil || !added {
		t.Fatalf("expected add, got added=%t err=%v", added, err)
	}
	added, err = svc.Add(ctx, "u1", item)
	if err != nil || added {
		t.Errorf("expected idempotent add, got added=%t err=%v", added, err)
	}

	items, err := svc.List(ctx, "u1")
	if err != nil || len(items) != 1 {
		t.Fatalf("expected 1 item, got %d err=%v", len(items), err)
	}

	removed, err := svc.Remove(ctx, "u1", domain.SourceVAM, "O1")
	if err != nil || !removed {
		t.Errorf("expected removal, got removed=%t err=%v", removed, err)
	}
	removed, err = svc.Remove(ctx, "u1", domain.SourceVAM, "O1")
	if err != nil || removed {
		t.Errorf("expected no-op removal, got removed=%t err=%v", removed, err)
	}
}

func TestExhibitionService_Errors(t *testing.T) {
	svc := NewExhibitionService(&memoryExhibitionStore{}, nil)
	ctx := context.Background()

	if _, err := svc.List(ctx, ""); !errors.Is(err, domain.ErrNotAuthenticated) {
		t.Errorf("expected ErrNotAuthenticated, got %v", err)
	}
	if _, err := svc.Add(ctx, "u1", domain.NormalizedItem{ID: "x", SourceTag: "other"}); !errors.Is(err, domain.ErrInvalidRequest) {
		t.Errorf("expected ErrInvalidRequest, got %v", err)
	}
	if _, err := svc.Remove(ctx, "u1", "other", "x"); !errors.Is(err, domain.ErrInvalidRequest) {
		t.Errorf("expected ErrInvalidRequest, got %v", err)
	}
	if _, err := svc.Export(ctx, "u1"); !errors.Is(err, domain.ErrExportUnavailable) {
		t.Errorf("expected ErrExportUnavailable, got %v", err)
	}
}

func TestExhibitionService_Export(t *testing.T) {
	exports := &memoryExportStore{objects: map[string][]byte{}, types: map[string]string{}}
	svc := NewExhibitionService(&memoryExhibitionStore{}, exports)
	svc.now = func() time.Time { return time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC) }
	ctx := context.Background()

	for _, id := range []string{"O1", "O2"} {
		if _, err := svc.Add(ctx, "u/1", domain.NormalizedItem{ID: id, SourceTag: domain.SourceVAM, Title: "Item " + id}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	res, err := svc.Export(ctx, "u/1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.ItemCount != 2 {
		t.Errorf("expected 2 items, got %d", res.ItemCount)
	}
	if !strings.HasPrefix(res.Key, "u%2F1/20240501T120000Z-") || !strings.HasSuffix(res.Key, ".json") {
		t.Errorf("unexpected key %q", res.Key)
	}
	if res.URL != "https://exports.example/"+res.Key {
		t.Errorf("unexpected url %q", res.URL)
	}
	if exports.types[res.Key] != "application/json" {
		t.Errorf("unexpected content type %q", exports.types[res.Key])
	}

	var doc exportDocument
	if err := json.NewDecoder(bytes.NewReader(exports.objects[res.Key])).Decode(&doc); err != nil {
		t.Fatalf("failed to decode export: %v", err)
	}
	if doc.UserID != "u/1" || len(doc.Items) != 2 || doc.Items[1].Title != "Item O2" {
		t.Errorf("unexpected export document: %+v", doc)
	}
}
