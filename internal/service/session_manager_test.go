package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/timmy/artsearch/internal/domain"
)

func TestSessionManager_Lifecycle(t *testing.T) {
	m := NewSessionManager(NewAggregator(&stubPaged{fn: vamPages(10)}, nil, nil), time.Minute)

	id, sess := m.Create()
	if id == "" || sess == nil {
		t.Fatal("expected a new session")
	}
	if _, err := sess.NewSearch(context.Background(), SearchParams{Query: "teapot"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err := m.Get(id)
	if err != nil || got != sess {
		t.Fatalf("expected the same session, got %v err=%v", got, err)
	}
	if len(got.Snapshot().ItemsA) != 10 {
		t.Error("expected session state to be kept")
	}

	if err := m.Delete(id); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := m.Get(id); !errors.Is(err, domain.ErrSessionNotFound) {
		t.Errorf("expected ErrSessionNotFound, got %v", err)
	}
	if err := m.Delete(id); !errors.Is(err, domain.ErrSessionNotFound) {
		t.Errorf("expected ErrSessionNotFound, got %v", err)
	}
}

func TestSessionManager_Sweep(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	m := NewSessionManager(NewAggregator(nil, nil, nil), 10*time.Minute)
	m.now = func() time.Time { return now }

	idle, _ := m.Create()
	active, _ := m.Create()

	now = now.Add(8 * time.Minute)
	if _, err := m.Get(active); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	now = now.Add(5 * time.Minute)
	if removed := m.Sweep(); removed != 1 {
		t.Errorf("expected 1 eviction, got %d", removed)
	}
	if _, err := m.Get(idle); !errors.Is(err, domain.ErrSessionNotFound) {
		t.Errorf("expected idle session to be evicted, got %v", err)
	}
	if _, err := m.Get(active); err != nil {
		t.Errorf("expected active session to survive, got %v", err)
	}
}

func TestSessionManager_RunStopsOnCancel(t *testing.T) {
	m := NewSessionManager(NewAggregator(nil, nil, nil), time.Minute)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		m.Run(ctx)
		close(done)
	}()
	cancel()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not stop after cancel")
	}
}
