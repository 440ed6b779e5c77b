package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/timmy/artsearch/internal/config"
	"github.com/timmy/artsearch/internal/domain"
	"github.com/timmy/artsearch/internal/service"
	"github.com/timmy/artsearch/internal/source"
)

type fakeMuseum struct {
	total int
	fail  bool
}

func (f *fakeMuseum) FetchPage(ctx context.Context, q source.PageQuery) (*source.PageResult, error) {
	if q.Query == "" && q.MakerID == "" {
		return nil, domain.ErrInvalidRequest
	}
	if f.fail {
		return nil, domain.NewUpstreamError(domain.SourceVAM, 503, nil)
	}
	n := f.total - (q.Page-1)*source.VAMPageSize
	if n > source.VAMPageSize {
		n = source.VAMPageSize
	}
	if n < 0 {
		n = 0
	}
	items := make([]domain.NormalizedItem, n)
	for i := range items {
		items[i] = domain.NormalizedItem{
			ID:           fmt.Sprintf("O%d-%d", q.Page, i),
			SourceTag:    domain.SourceVAM,
			Title:        "Teapot",
			BaseImageURL: domain.VAMNoImage,
		}
		if i%2 == 0 {
			items[i].BaseImageURL = "https://iiif.example/x/"
		}
	}
	return &source.PageResult{Items: items, TotalRecords: f.total, TotalImages: f.total / 2}, nil
}

func (f *fakeMuseum) FetchDetail(ctx context.Context, id string) (*domain.NormalizedItem, error) {
	if id != "O1" {
		return nil, fmt.Errorf("museum object %s: %w", id, domain.ErrItemNotFound)
	}
	return &domain.NormalizedItem{ID: "O1", SourceTag: domain.SourceVAM, Title: "Teapot", ImagesCount: 2}, nil
}

type fakeAggregator struct{}

func (fakeAggregator) FetchFiltered(ctx context.Context, q source.CursorQuery) (*source.FilteredResult, error) {
	return &source.FilteredResult{
		Items:        []domain.NormalizedItem{{ID: "/9200/a", SourceTag: domain.SourceEuropeana, Title: "Vase"}},
		ScannedCount: 10,
		TotalRecords: 1,
		TotalImages:  1,
	}, nil
}

type memoryStore struct {
	mu    sync.Mutex
	items []domain.ExhibitionItem
}

func (m *memoryStore) ListByUser(ctx context.Context, userID string) ([]domain.ExhibitionItem, error) {
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

func (m *memoryStore) Add(ctx context.Context, item *domain.ExhibitionItem) (bool, error) {
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

func (m *memoryStore) Delete(ctx context.Context, userID string, tag domain.SourceTag, itemID string) (bool, error) {
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

func newTestRouter(museum *fakeMuseum) http.Handler {
	agg := service.NewAggregator(museum, fakeAggregator{}, nil)
	return SetupRouter(Dependencies{
		VAM:         museum,
		Europeana:   fakeAggregator{},
		Sessions:    service.NewSessionManager(agg, 0),
		Exhibitions: service.NewExhibitionService(&memoryStore{}, nil),
	}, config.ServerConfig{Mode: "test"})
}

func doJSON(t *testing.T, h http.Handler, method, path string, body interface{}, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("failed to encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.Unmarshal(w.Body.Bytes(), v); err != nil {
		t.Fatalf("failed to decode response %q: %v", w.Body.String(), err)
	}
}

func TestHealth(t *testing.T) {
	w := doJSON(t, newTestRouter(&fakeMuseum{total: 42}), http.MethodGet, "/health", nil, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if w.Header().Get("X-Request-ID") == "" {
		t.Error("expected request id header")
	}
}

func TestSearchA(t *testing.T) {
	tests := []struct {
		name       string
		museum     *fakeMuseum
		body       string
		wantStatus int
		wantItems  int
	}{
		{"first page", &fakeMuseum{total: 42}, `{"query":"teapot","page":1}`, http.StatusOK, 15},
		{"last page", &fakeMuseum{total: 42}, `{"query":"teapot","page":3}`, http.StatusOK, 12},
		{"page defaults to 1", &fakeMuseum{total: 42}, `{"makerId":"A1"}`, http.StatusOK, 15},
		{"missing query", &fakeMuseum{total: 42}, `{"page":1}`, http.StatusBadRequest, 0},
		{"malformed body", &fakeMuseum{total: 42}, `{"query":`, http.StatusBadRequest, 0},
		{"upstream failure", &fakeMuseum{fail: true}, `{"query":"teapot"}`, http.StatusBadGateway, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/search/a", bytes.NewBufferString(tt.body))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()
			newTestRouter(tt.museum).ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Fatalf("expected %d, got %d: %s", tt.wantStatus, w.Code, w.Body.String())
			}
			if tt.wantStatus != http.StatusOK {
				var body map[string]string
				decode(t, w, &body)
				if body["error"] == "" {
					t.Error("expected error message")
				}
				return
			}
			var resp struct {
				Items        []domain.NormalizedItem `json:"items"`
				TotalRecords int                     `json:"totalRecords"`
			}
			decode(t, w, &resp)
			if len(resp.Items) != tt.wantItems || resp.TotalRecords != 42 {
				t.Errorf("unexpected response: items=%d total=%d", len(resp.Items), resp.TotalRecords)
			}
		})
	}
}

func TestSearchB_ExhaustedCursorIsNull(t *testing.T) {
	w := doJSON(t, newTestRouter(&fakeMuseum{}), http.MethodPost, "/search/b", map[string]string{"query": "vase", "cursor": "*"}, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var resp map[string]interface{}
	decode(t, w, &resp)
	if v, ok := resp["nextCursor"]; !ok || v != nil {
		t.Errorf("expected null nextCursor, got %v (present=%t)", v, ok)
	}
	if resp["scannedCount"] != float64(10) {
		t.Errorf("unexpected scannedCount %v", resp["scannedCount"])
	}
}

func TestItemDetail(t *testing.T) {
	h := newTestRouter(&fakeMuseum{})

	w := doJSON(t, h, http.MethodGet, "/item/a/O1", nil, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	w = doJSON(t, h, http.MethodPost, "/item/a/O404", nil, nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", w.Code)
	}

	w = doJSON(t, h, http.MethodPost, "/item/b", domain.NormalizedItem{ID: "/9200/a", Title: "Vase", BaseImageURL: "https://p.example/v.jpg"}, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var full domain.NormalizedItem
	decode(t, w, &full)
	if full.ImagesCount != 1 || len(full.ImageURLs) != 1 || full.SourceTag != domain.SourceEuropeana {
		t.Errorf("unexpected expanded item: %+v", full)
	}
}

func TestSessionFlow(t *testing.T) {
	h := newTestRouter(&fakeMuseum{total: 20})

	w := doJSON(t, h, http.MethodPost, "/sessions", map[string]string{"query": "teapot", "sourceSelection": "va"}, nil)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}
	var created struct {
		SessionID string             `json:"sessionId"`
		State     domain.SearchState `json:"state"`
		Items     []domain.NormalizedItem
	}
	decode(t, w, &created)
	if created.SessionID == "" || len(created.Items) != 15 || !created.State.HasMore {
		t.Fatalf("unexpected session: %+v", created.State)
	}

	w = doJSON(t, h, http.MethodPost, "/sessions/"+created.SessionID+"/more", nil, nil)
	var more struct {
		Items []domain.NormalizedItem `json:"items"`
		Noop  bool                    `json:"noop"`
		State domain.SearchState      `json:"state"`
	}
	decode(t, w, &more)
	if more.Noop || len(more.Items) != 20 || more.State.HasMore {
		t.Errorf("unexpected load more: noop=%t items=%d hasMore=%t", more.Noop, len(more.Items), more.State.HasMore)
	}

	w = doJSON(t, h, http.MethodPost, "/sessions/"+created.SessionID+"/more", nil, nil)
	more.Noop = false
	decode(t, w, &more)
	if !more.Noop {
		t.Error("expected exhausted load more to be a no-op")
	}

	w = doJSON(t, h, http.MethodGet, "/sessions/"+created.SessionID+"?only_with_images=true", nil, nil)
	var filtered struct {
		Items []domain.NormalizedItem `json:"items"`
	}
	decode(t, w, &filtered)
	if len(filtered.Items) != 11 {
		t.Errorf("expected 11 items with images, got %d", len(filtered.Items))
	}

	w = doJSON(t, h, http.MethodDelete, "/sessions/"+created.SessionID, nil, nil)
	if w.Code != http.StatusNoContent {
		t.Errorf("expected 204, got %d", w.Code)
	}
	w = doJSON(t, h, http.MethodGet, "/sessions/"+created.SessionID, nil, nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", w.Code)
	}
}

func TestSessionCreate_Errors(t *testing.T) {
	h := newTestRouter(&fakeMuseum{total: 20})

	w := doJSON(t, h, http.MethodPost, "/sessions", map[string]string{"query": "teapot", "sourceSelection": "nope"}, nil)
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for bad selection, got %d", w.Code)
	}
	w = doJSON(t, h, http.MethodPost, "/sessions", map[string]string{"sourceSelection": "both"}, nil)
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 without query, got %d", w.Code)
	}
}

func TestSession_PartialFailureIsNotAnError(t *testing.T) {
	h := newTestRouter(&fakeMuseum{fail: true})

	w := doJSON(t, h, http.MethodPost, "/sessions", map[string]string{"query": "vase", "sourceSelection": "both"}, nil)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", w.Code)
	}
	var resp struct {
		State domain.SearchState      `json:"state"`
		Items []domain.NormalizedItem `json:"items"`
	}
	decode(t, w, &resp)
	if resp.State.Warning == nil || resp.State.Warning.Kind != domain.WarningPartialFailure {
		t.Errorf("expected partial failure warning, got %+v", resp.State.Warning)
	}
	if len(resp.Items) != 1 {
		t.Errorf("expected the aggregator item, got %d", len(resp.Items))
	}
}

func TestExhibitionRoutes(t *testing.T) {
	h := newTestRouter(&fakeMuseum{})
	user := map[string]string{"X-User-ID": "u1"}

	w := doJSON(t, h, http.MethodGet, "/exhibition", nil, nil)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 without user, got %d", w.Code)
	}

	item := domain.NormalizedItem{ID: "/9200/a", SourceTag: domain.SourceEuropeana, Title: "Vase"}
	w = doJSON(t, h, http.MethodPost, "/exhibition", item, user)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}
	w = doJSON(t, h, http.MethodPost, "/exhibition", item, user)
	if w.Code != http.StatusOK {
		t.Errorf("expected 200 for duplicate add, got %d", w.Code)
	}

	w = doJSON(t, h, http.MethodGet, "/exhibition", nil, user)
	var list struct {
		Total int `json:"total"`
	}
	decode(t, w, &list)
	if list.Total != 1 {
		t.Errorf("expected 1 item, got %d", list.Total)
	}

	w = doJSON(t, h, http.MethodDelete, "/exhibition/euro/9200/a", nil, user)
	var removed map[string]bool
	decode(t, w, &removed)
	if w.Code != http.StatusOK || !removed["removed"] {
		t.Errorf("expected removal, got %d %v", w.Code, removed)
	}

	w = doJSON(t, h, http.MethodPost, "/exhibition/export", nil, user)
	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("expected 503 without storage, got %d", w.Code)
	}
}

func TestCORSPreflight(t *testing.T) {
	req := httptest.NewRequest(http.MethodOptions, "/sessions", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", "POST")
	w := httptest.NewRecorder()
	newTestRouter(&fakeMuseum{}).ServeHTTP(w, req)

	if w.Code != http.StatusNoContent {
		t.Errorf("expected 204, got %d", w.Code)
	}
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("expected wildcard origin, got %q", got)
	}
}
