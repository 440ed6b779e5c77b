package source

import (
	"context"

	"github.com/timmy/artsearch/internal/domain"
)

// VAMPageSize is the fixed page size of the page-indexed catalog.
const VAMPageSize = 15

// PageQuery asks the page-indexed catalog for one page.
// Exactly one of Query and MakerID drives the lookup; MakerID wins when both are set.
type PageQuery struct {
	Query   string
	MakerID string
	Page    int // 1-based
}

// PageResult is one normalized page from the page-indexed catalog.
type PageResult struct {
	Items        []domain.NormalizedItem `json:"items"`
	TotalRecords int                     `json:"totalRecords"`
	TotalImages  int                     `json:"totalImages"`
}

// CursorQuery asks the cursor-indexed catalog for filtered items.
type CursorQuery struct {
	Query       string
	Cursor      string // empty or domain.CursorStart for the first page
	TargetCount int
	MaxAttempts int
}

// FilteredResult is the output of one filtered accumulation run.
// NextCursor is empty once the upstream cursor is exhausted.
type FilteredResult struct {
	Items        []domain.NormalizedItem `json:"items"`
	ScannedCount int                     `json:"scannedCount"`
	TotalRecords int                     `json:"totalRecords"`
	TotalImages  int                     `json:"totalImages"`
	NextCursor   string                  `json:"nextCursor"`
	Attempts     int                     `json:"attempts"`
}

// PagedSource is a catalog paginated by page number.
type PagedSource interface {
	// FetchPage fetches one fixed-size page and normalizes its records.
	// Parameters:
	//   - ctx: context for cancellation and deadlines.
	//   - q: query or maker id plus the 1-based page number.
	// Returns:
	//   - *PageResult: normalized items and catalog totals.
	//   - error: domain.ErrInvalidRequest or a *domain.UpstreamError.
	FetchPage(ctx context.Context, q PageQuery) (*PageResult, error)
}

// CursorSource is a catalog paginated by an opaque cursor whose raw results need filtering.
type CursorSource interface {
	// FetchFiltered pages through the catalog until enough records pass the quality filter.
	// Parameters:
	//   - ctx: context for cancellation and deadlines.
	//   - q: query, starting cursor and accumulation limits.
	// Returns:
	//   - *FilteredResult: accepted items, scan count, totals and the next cursor.
	//   - error: a *domain.UpstreamError if any page fetch fails.
	FetchFiltered(ctx context.Context, q CursorQuery) (*FilteredResult, error)
}

// DetailSource returns the full record for a single item.
type DetailSource interface {
	FetchDetail(ctx context.Context, id string) (*domain.NormalizedItem, error)
}
