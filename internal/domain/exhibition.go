package domain

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"
)

// ItemPayload stores a NormalizedItem as JSON in the database.
type ItemPayload NormalizedItem

// Value implements the driver.Valuer interface for database serialization.
// Parameters: none.
// Returns:
//   - driver.Value: JSON-encoded string representation of the item.
//   - error: non-nil if marshaling fails.
func (p ItemPayload) Value() (driver.Value, error) {
	b, err := json.Marshal(NormalizedItem(p))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements the sql.Scanner interface for database deserialization.
// Parameters:
//   - value: raw database value to decode.
// Returns:
//   - error: non-nil if decoding fails or the type is unexpected.
func (p *ItemPayload) Scan(value interface{}) error {
	if value == nil {
		*p = ItemPayload{}
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		str, ok := value.(string)
		if !ok {
			return errors.New("failed to scan ItemPayload")
		}
		bytes = []byte(str)
	}
	var item NormalizedItem
	if err := json.Unmarshal(bytes, &item); err != nil {
		return err
	}
	*p = ItemPayload(item)
	return nil
}

// ExhibitionItem is one item a user has saved to their personal exhibition.
type ExhibitionItem struct {
	ID        string      `gorm:"type:text;primaryKey" json:"-"`
	UserID    string      `gorm:"type:text;not null;index:idx_exhibition_user_item,unique" json:"-"`
	SourceTag SourceTag   `gorm:"type:text;not null;index:idx_exhibition_user_item,unique" json:"sourceTag"`
	ItemID    string      `gorm:"type:text;not null;index:idx_exhibition_user_item,unique" json:"itemId"`
	Item      ItemPayload `gorm:"type:text" json:"item"`
	CreatedAt time.Time   `json:"addedAt"`
}

// TableName returns the database table name for ExhibitionItem.
// Parameters: none.
// Returns:
//   - string: table name for GORM mapping.
func (ExhibitionItem) TableName() string {
	return "exhibition_items"
}
