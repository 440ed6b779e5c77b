package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/timmy/artsearch/internal/domain"
	"github.com/timmy/artsearch/internal/logger"
	"github.com/timmy/artsearch/internal/storage"
)

// ExhibitionStore is the persistence the exhibition service needs.
type ExhibitionStore interface {
	ListByUser(ctx context.Context, userID string) ([]domain.ExhibitionItem, error)
	Add(ctx context.Context, item *domain.ExhibitionItem) (bool, error)
	Delete(ctx context.Context, userID string, sourceTag domain.SourceTag, itemID string) (bool, error)
}

// ExhibitionService manages each user's personal exhibition.
type ExhibitionService struct {
	store   ExhibitionStore
	exports storage.ExportStore
	now     func() time.Time
}

// NewExhibitionService creates a new exhibition service.
// Parameters:
//   - store: persistence for saved items.
//   - exports: object storage for exports; nil disables Export.
//
// Returns:
//   - *ExhibitionService: initialized service.
func NewExhibitionService(store ExhibitionStore, exports storage.ExportStore) *ExhibitionService {
	return &ExhibitionService{store: store, exports: exports, now: time.Now}
}

// ExportResult describes an exported exhibition document.
type ExportResult struct {
	Key       string    `json:"key"`
	URL       string    `json:"url"`
	ItemCount int       `json:"itemCount"`
	CreatedAt time.Time `json:"createdAt"`
}

type exportDocument struct {
	UserID     string                  `json:"userId"`
	ExportedAt time.Time               `json:"exportedAt"`
	Items      []domain.NormalizedItem `json:"items"`
}

// List returns the user's saved items.
func (s *ExhibitionService) List(ctx context.Context, userID string) ([]domain.ExhibitionItem, error) {
	if userID == "" {
		return nil, domain.ErrNotAuthenticated
	}
	return s.store.ListByUser(ctx, userID)
}

// Add saves an item to the user's exhibition. Adding an item twice is not an error.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - userID: current user; empty means not signed in.
//   - item: normalized item as shown in search results.
//
// Returns:
//   - bool: true if the item was newly added.
//   - error: domain.ErrNotAuthenticated, domain.ErrInvalidRequest, or a storage error.
func (s *ExhibitionService) Add(ctx context.Context, userID string, item domain.NormalizedItem) (bool, error) {
	if userID == "" {
		return false, domain.ErrNotAuthenticated
	}
	if !item.SourceTag.Valid() || strings.TrimSpace(item.ID) == "" {
		return false, fmt.Errorf("%w: item needs an id and a known source tag", domain.ErrInvalidRequest)
	}

	added, err := s.store.Add(ctx, &domain.ExhibitionItem{
		UserID:    userID,
		SourceTag: item.SourceTag,
		ItemID:    item.ID,
		Item:      domain.ItemPayload(item),
	})
	if err != nil {
		return false, fmt.Errorf("failed to save exhibition item: %w", err)
	}
	logger.CtxInfo(ctx, "Exhibition item saved: source=%s, item_id=%s, added=%t", item.SourceTag, item.ID, added)
	return added, nil
}

// Remove drops an item from the user's exhibition. Removing a missing item is not an error.
func (s *ExhibitionService) Remove(ctx context.Context, userID string, sourceTag domain.SourceTag, itemID string) (bool, error) {
	if userID == "" {
		return false, domain.ErrNotAuthenticated
	}
	if !sourceTag.Valid() || itemID == "" {
		return false, fmt.Errorf("%w: unknown source tag %q", domain.ErrInvalidRequest, sourceTag)
	}
	removed, err := s.store.Delete(ctx, userID, sourceTag, itemID)
	if err != nil {
		return false, fmt.Errorf("failed to remove exhibition item: %w", err)
	}
	return removed, nil
}

// Export writes the user's exhibition as a JSON document to object storage.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - userID: current user; empty means not signed in.
//
// Returns:
//   - *ExportResult: object key and link of the written document.
//   - error: domain.ErrExportUnavailable when no storage is configured.
func (s *ExhibitionService) Export(ctx context.Context, userID string) (*ExportResult, error) {
	if userID == "" {
		return nil, domain.ErrNotAuthenticated
	}
	if s.exports == nil {
		return nil, domain.ErrExportUnavailable
	}

	saved, err := s.store.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load exhibition: %w", err)
	}

	now := s.now().UTC()
	doc := exportDocument{UserID: userID, ExportedAt: now, Items: make([]domain.NormalizedItem, len(saved))}
	for i := range saved {
		doc.Items[i] = domain.NormalizedItem(saved[i].Item)
	}
	body, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode exhibition: %w", err)
	}

	key := fmt.Sprintf("%s/%s-%s.json", url.PathEscape(userID), now.Format("20060102T150405Z"), uuid.New().String()[:8])
	if err := s.exports.Put(ctx, key, bytes.NewReader(body), int64(len(body)), "application/json"); err != nil {
		return nil, err
	}
	link, err := s.exports.URL(ctx, key)
	if err != nil {
		return nil, err
	}

	logger.With(logger.Fields{
		logger.FieldCount: len(doc.Items),
		logger.FieldSize:  len(body),
	}).Info(ctx, "Exhibition exported: key=%s", key)

	return &ExportResult{Key: key, URL: link, ItemCount: len(doc.Items), CreatedAt: now}, nil
}
