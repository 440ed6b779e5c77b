package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/timmy/artsearch/internal/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ExhibitionRepository stores the items users save to their personal exhibition.
type ExhibitionRepository struct {
	db *gorm.DB
}

// NewExhibitionRepository creates a new ExhibitionRepository.
// Parameters:
//   - db: GORM database handle used for queries.
//
// Returns:
//   - *ExhibitionRepository: repository instance bound to db.
func NewExhibitionRepository(db *gorm.DB) *ExhibitionRepository {
	return &ExhibitionRepository{db: db}
}

// ListByUser returns a user's saved items, oldest first.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - userID: owner of the exhibition.
//
// Returns:
//   - []domain.ExhibitionItem: saved items, empty when none.
//   - error: non-nil if the query fails.
func (r *ExhibitionRepository) ListByUser(ctx context.Context, userID string) ([]domain.ExhibitionItem, error) {
	items := []domain.ExhibitionItem{}
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Order("id ASC").
		Find(&items).Error
	return items, err
}

// Add saves an item; saving the same (user, source, item) twice keeps the first entry.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - item: entry to save; ID is generated when empty.
//
// Returns:
//   - bool: true if a new row was inserted.
//   - error: non-nil if the insert fails.
func (r *ExhibitionRepository) Add(ctx context.Context, item *domain.ExhibitionItem) (bool, error) {
	if item.ID == "" {
		item.ID = uuid.New().String()
	}
	res := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "source_tag"}, {Name: "item_id"}},
		DoNothing: true,
	}).Create(item)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// Delete removes an item; removing a missing item is not an error.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - userID: owner of the exhibition.
//   - sourceTag: catalog the item came from.
//   - itemID: catalog-specific item id.
//
// Returns:
//   - bool: true if a row was removed.
//   - error: non-nil if the delete fails.
func (r *ExhibitionRepository) Delete(ctx context.Context, userID string, sourceTag domain.SourceTag, itemID string) (bool, error) {
	res := r.db.WithContext(ctx).
		Where("user_id = ? AND source_tag = ? AND item_id = ?", userID, sourceTag, itemID).
		Delete(&domain.ExhibitionItem{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
