package domain

import "fmt"

// SourceSelection chooses which catalogs a search session queries.
type SourceSelection string

const (
	SelectVAM       SourceSelection = "va"
	SelectEuropeana SourceSelection = "europeana"
	SelectBoth      SourceSelection = "both"
)

// ParseSourceSelection accepts the selection names used by the API.
// An empty string selects the page-indexed catalog, matching the search page default.
func ParseSourceSelection(s string) (SourceSelection, error) {
	switch SourceSelection(s) {
	case "", SelectVAM, "a", "A":
		return SelectVAM, nil
	case SelectEuropeana, "euro", "b", "B":
		return SelectEuropeana, nil
	case SelectBoth, "Both", "all":
		return SelectBoth, nil
	}
	return "", fmt.Errorf("%w: unknown source selection %q", ErrInvalidRequest, s)
}

// IncludesVAM reports whether the page-indexed catalog is active.
func (s SourceSelection) IncludesVAM() bool {
	return s == SelectVAM || s == SelectBoth
}

// IncludesEuropeana reports whether the cursor-indexed catalog is active.
func (s SourceSelection) IncludesEuropeana() bool {
	return s == SelectEuropeana || s == SelectBoth
}

// CursorStart is the cursor value that asks the aggregator catalog for its first page.
const CursorStart = "*"

// SearchState is the pagination and accumulation state of one search session.
//
// ItemsA is the leading slice of the result list and ItemsB the trailing one. A
// load-more folds the previous ItemsB into ItemsA ahead of the new page-indexed
// items and replaces ItemsB with the new cursor-indexed page, so ItemsA can hold
// items from both catalogs after the first load-more. CountA and CountB track how
// many items each catalog actually delivered.
type SearchState struct {
	Generation      uint64          `json:"generation"`
	QueryText       *string         `json:"queryText"`
	MakerFilter     *string         `json:"makerFilter"`
	SourceSelection SourceSelection `json:"sourceSelection"`

	PageCursorA int     `json:"pageCursorA"`
	PageCursorB *string `json:"pageCursorB"`

	ItemsA []NormalizedItem `json:"itemsA"`
	ItemsB []NormalizedItem `json:"itemsB"`
	CountA int              `json:"countA"`
	CountB int              `json:"countB"`

	TotalRecordsA int `json:"totalRecordsA"`
	TotalImagesA  int `json:"totalImagesA"`
	TotalRecordsB int `json:"totalRecordsB"`
	TotalImagesB  int `json:"totalImagesB"`

	TotalRecordCount int `json:"totalRecordCount"`
	TotalImageCount  int `json:"totalImageCount"`
	ScannedCountB    int `json:"scannedCountB"`

	// ExhaustedA is set when a successful page came back empty before the reported total was reached.
	ExhaustedA bool     `json:"-"`
	HasMore    bool     `json:"hasMore"`
	Loading    bool     `json:"loading"`
	Warning    *Warning `json:"warning,omitempty"`
}

// NewSearchState returns the empty state a session starts with.
func NewSearchState() SearchState {
	return SearchState{
		ItemsA: []NormalizedItem{},
		ItemsB: []NormalizedItem{},
	}
}

// MoreFromVAM reports whether the page-indexed catalog can contribute further items.
func (s *SearchState) MoreFromVAM() bool {
	return s.SourceSelection.IncludesVAM() && !s.ExhaustedA && s.CountA < s.TotalRecordsA
}

// MoreFromEuropeana reports whether the cursor-indexed catalog can contribute further items.
func (s *SearchState) MoreFromEuropeana() bool {
	return s.SourceSelection.IncludesEuropeana() && s.PageCursorB != nil
}

// RecomputeTotals sums the per-catalog totals of the active sources.
func (s *SearchState) RecomputeTotals() {
	s.TotalRecordCount = 0
	s.TotalImageCount = 0
	if s.SourceSelection.IncludesVAM() {
		s.TotalRecordCount += s.TotalRecordsA
		s.TotalImageCount += s.TotalImagesA
	}
	if s.SourceSelection.IncludesEuropeana() {
		s.TotalRecordCount += s.TotalRecordsB
		s.TotalImageCount += s.TotalImagesB
	}
}

// Items returns the ordered result list: ItemsA followed by ItemsB.
// With onlyWithImages set, items showing a placeholder image are dropped.
func (s *SearchState) Items(onlyWithImages bool) []NormalizedItem {
	out := make([]NormalizedItem, 0, len(s.ItemsA)+len(s.ItemsB))
	for _, group := range [][]NormalizedItem{s.ItemsA, s.ItemsB} {
		for i := range group {
			if onlyWithImages && !group[i].HasImage() {
				continue
			}
			out = append(out, group[i])
		}
	}
	return out
}

// Clone returns a copy that shares no slices or pointers with s.
func (s *SearchState) Clone() SearchState {
	c := *s
	c.QueryText = cloneString(s.QueryText)
	c.MakerFilter = cloneString(s.MakerFilter)
	c.PageCursorB = cloneString(s.PageCursorB)
	c.ItemsA = append([]NormalizedItem{}, s.ItemsA...)
	c.ItemsB = append([]NormalizedItem{}, s.ItemsB...)
	if s.Warning != nil {
		w := *s.Warning
		w.Sources = append([]SourceTag(nil), s.Warning.Sources...)
		c.Warning = &w
	}
	return c
}

func cloneString(p *string) *string {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
