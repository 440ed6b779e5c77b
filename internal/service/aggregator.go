package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/timmy/artsearch/internal/domain"
	"github.com/timmy/artsearch/internal/logger"
	"github.com/timmy/artsearch/internal/source"
	"golang.org/x/sync/errgroup"
)

// AggregatorConfig holds the per-call limits passed to the cursor-indexed catalog.
type AggregatorConfig struct {
	TargetCount int
	MaxAttempts int
}

// Aggregator federates the two catalogs behind one paginated result stream.
// It is stateless; each search session owns its own Session.
type Aggregator struct {
	vam       source.PagedSource
	europeana source.CursorSource
	cfg       AggregatorConfig
}

// NewAggregator creates a new aggregator.
// Parameters:
//   - vam: page-indexed catalog adapter.
//   - europeana: cursor-indexed catalog adapter.
//   - cfg: optional accumulation limits; nil uses the adapter defaults.
//
// Returns:
//   - *Aggregator: initialized aggregator.
func NewAggregator(vam source.PagedSource, europeana source.CursorSource, cfg *AggregatorConfig) *Aggregator {
	a := &Aggregator{vam: vam, europeana: europeana}
	if cfg != nil {
		a.cfg = *cfg
	}
	return a
}

// NewSession returns an empty search session.
func (a *Aggregator) NewSession() *Session {
	return &Session{agg: a, state: domain.NewSearchState()}
}

// SearchParams describes a new search submission.
type SearchParams struct {
	Query   string                 `json:"query"`
	MakerID string                 `json:"makerId"`
	Sources domain.SourceSelection `json:"sourceSelection"`
}

// Session owns the SearchState of one search session.
//
// NewSearch and LoadMore are the only state transitions. Every NewSearch bumps
// the generation; fetch results are applied only if the generation they were
// issued under is still current, so late responses from a superseded search are
// dropped. At most one LoadMore is in flight at a time.
type Session struct {
	agg *Aggregator

	mu        sync.Mutex
	state     domain.SearchState
	loadSeq   uint64
	loadToken uint64 // non-zero while a LoadMore is in flight
	searching uint64 // generation of the NewSearch still in flight, 0 when none
}

// vamOutcome and europeanaOutcome carry one fetch result back to the applying goroutine.
type vamOutcome struct {
	fetched bool
	res     *source.PageResult
	err     error
}

type europeanaOutcome struct {
	fetched bool
	res     *source.FilteredResult
	err     error
}

// Snapshot returns a copy of the current state.
func (s *Session) Snapshot() domain.SearchState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Session) snapshotLocked() domain.SearchState {
	snap := s.state.Clone()
	snap.Loading = s.loadToken != 0 || s.searching != 0
	return snap
}

// NewSearch resets the session and runs the first fetch for the selected sources.
// A maker filter always searches the page-indexed catalog only.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - params: query or maker id plus the source selection.
//
// Returns:
//   - domain.SearchState: the resulting state; upstream failures surface as state.Warning.
//   - error: domain.ErrInvalidRequest when neither query nor maker id is given.
func (s *Session) NewSearch(ctx context.Context, params SearchParams) (domain.SearchState, error) {
	query := strings.TrimSpace(params.Query)
	makerID := strings.TrimSpace(params.MakerID)
	if query == "" && makerID == "" {
		return domain.SearchState{}, domain.ErrInvalidRequest
	}
	selection := params.Sources
	if selection == "" {
		selection = domain.SelectVAM
	}
	if makerID != "" {
		selection = domain.SelectVAM
		query = ""
	}

	s.mu.Lock()
	gen := s.state.Generation + 1
	next := domain.NewSearchState()
	next.Generation = gen
	next.SourceSelection = selection
	if makerID != "" {
		next.MakerFilter = &makerID
	} else {
		next.QueryText = &query
	}
	if selection.IncludesEuropeana() {
		start := domain.CursorStart
		next.PageCursorB = &start
	}
	s.state = next
	s.loadToken = 0
	s.searching = gen
	s.mu.Unlock()

	ctx = logger.WithFields(ctx, logger.Fields{
		logger.FieldComponent:  "aggregator",
		logger.FieldGeneration: gen,
	})
	logger.CtxInfo(ctx, "New search: query=%q, maker_id=%q, sources=%s", query, makerID, selection)

	start := time.Now()
	va, eu := s.fetch(ctx, selection.IncludesVAM(), selection.IncludesEuropeana(),
		source.PageQuery{Query: query, MakerID: makerID, Page: 1},
		source.CursorQuery{Query: query, Cursor: domain.CursorStart})

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state.Generation != gen {
		logger.CtxInfo(ctx, "Discarding stale search response: current_generation=%d", s.state.Generation)
		return s.snapshotLocked(), nil
	}
	s.searching = 0

	st := &s.state
	var failed []domain.SourceTag
	if va.fetched {
		if va.err != nil {
			failed = append(failed, domain.SourceVAM)
			logger.CtxWarn(ctx, "V&A search failed: error=%v", va.err)
		} else {
			st.ItemsA = va.res.Items
			st.CountA = len(va.res.Items)
			st.TotalRecordsA = va.res.TotalRecords
			st.TotalImagesA = va.res.TotalImages
			st.PageCursorA = 1
			st.ExhaustedA = len(va.res.Items) == 0
		}
	}
	if eu.fetched {
		if eu.err != nil {
			failed = append(failed, domain.SourceEuropeana)
			st.PageCursorB = nil
			logger.CtxWarn(ctx, "Europeana search failed: error=%v", eu.err)
		} else {
			st.ItemsB = eu.res.Items
			st.CountB = len(eu.res.Items)
			st.TotalRecordsB = eu.res.TotalRecords
			st.TotalImagesB = eu.res.TotalImages
			st.ScannedCountB = eu.res.ScannedCount
			st.PageCursorB = cursorPtr(eu.res.NextCursor)
		}
	}
	st.RecomputeTotals()
	st.HasMore = st.MoreFromVAM() || st.MoreFromEuropeana()
	st.Warning = warningFor(selection, failed)

	logger.With(logger.Fields{
		logger.FieldCount:      len(st.ItemsA) + len(st.ItemsB),
		logger.FieldDurationMs: time.Since(start).Milliseconds(),
	}).Info(ctx, "Search completed: total_records=%d, has_more=%t", st.TotalRecordCount, st.HasMore)

	return s.snapshotLocked(), nil
}

// LoadMore fetches the next page from every selected source that is not exhausted.
// It is a no-op, returning false, when nothing more is available or another
// LoadMore is still in flight.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//
// Returns:
//   - domain.SearchState: the resulting state; upstream failures surface as state.Warning.
//   - bool: true if a fetch round was performed.
func (s *Session) LoadMore(ctx context.Context) (domain.SearchState, bool) {
	s.mu.Lock()
	if !s.state.HasMore || s.loadToken != 0 || s.searching != 0 {
		snap := s.snapshotLocked()
		s.mu.Unlock()
		return snap, false
	}
	s.loadSeq++
	token := s.loadSeq
	s.loadToken = token

	gen := s.state.Generation
	fetchVAM := s.state.MoreFromVAM()
	fetchEuropeana := s.state.MoreFromEuropeana()
	pq := source.PageQuery{Page: s.state.PageCursorA + 1}
	if s.state.MakerFilter != nil {
		pq.MakerID = *s.state.MakerFilter
	} else if s.state.QueryText != nil {
		pq.Query = *s.state.QueryText
	}
	cq := source.CursorQuery{Query: pq.Query}
	if s.state.PageCursorB != nil {
		cq.Cursor = *s.state.PageCursorB
	}
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		if s.loadToken == token {
			s.loadToken = 0
		}
		s.mu.Unlock()
	}()

	ctx = logger.WithFields(ctx, logger.Fields{
		logger.FieldComponent:  "aggregator",
		logger.FieldGeneration: gen,
	})
	logger.CtxDebug(ctx, "Load more: vam=%t (page %d), europeana=%t", fetchVAM, pq.Page, fetchEuropeana)

	va, eu := s.fetch(ctx, fetchVAM, fetchEuropeana, pq, cq)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state.Generation != gen {
		logger.CtxInfo(ctx, "Discarding stale load-more response: current_generation=%d", s.state.Generation)
		return s.snapshotLocked(), false
	}

	st := &s.state
	var failed []domain.SourceTag
	var newA, newB []domain.NormalizedItem
	if va.fetched {
		if va.err != nil {
			failed = append(failed, domain.SourceVAM)
			logger.CtxWarn(ctx, "V&A load-more failed: page=%d, error=%v", pq.Page, va.err)
		} else {
			newA = va.res.Items
			st.PageCursorA = pq.Page
			st.CountA += len(newA)
			if len(newA) == 0 {
				st.ExhaustedA = true
			}
		}
	}
	if eu.fetched {
		if eu.err != nil {
			failed = append(failed, domain.SourceEuropeana)
			logger.CtxWarn(ctx, "Europeana load-more failed: error=%v", eu.err)
		} else {
			newB = eu.res.Items
			st.CountB += len(newB)
			st.ScannedCountB += eu.res.ScannedCount
			st.PageCursorB = cursorPtr(eu.res.NextCursor)
		}
	}

	// [old A][old B][new A], then the new B page becomes the tail.
	merged := make([]domain.NormalizedItem, 0, len(st.ItemsA)+len(st.ItemsB)+len(newA))
	merged = append(merged, st.ItemsA...)
	merged = append(merged, st.ItemsB...)
	merged = append(merged, newA...)
	st.ItemsA = merged
	st.ItemsB = append([]domain.NormalizedItem{}, newB...)

	st.HasMore = st.MoreFromVAM() || st.MoreFromEuropeana()
	st.Warning = warningFor(st.SourceSelection, failed)

	logger.With(logger.Fields{
		logger.FieldCount: len(newA) + len(newB),
	}).Info(ctx, "Load more completed: has_more=%t", st.HasMore)

	return s.snapshotLocked(), true
}

// fetch runs the requested catalog calls concurrently and waits for both.
// Neither failure cancels the other call.
func (s *Session) fetch(ctx context.Context, fetchVAM, fetchEuropeana bool, pq source.PageQuery, cq source.CursorQuery) (vamOutcome, europeanaOutcome) {
	var va vamOutcome
	var eu europeanaOutcome
	var g errgroup.Group

	if fetchVAM {
		va.fetched = true
		g.Go(func() error {
			if s.agg.vam == nil {
				va.err = fmt.Errorf("%w: museum catalog not configured", domain.ErrUpstreamUnavailable)
				return nil
			}
			va.res, va.err = s.agg.vam.FetchPage(logger.WithField(ctx, logger.FieldSource, string(domain.SourceVAM)), pq)
			return nil
		})
	}
	if fetchEuropeana {
		eu.fetched = true
		cq.TargetCount = s.agg.cfg.TargetCount
		cq.MaxAttempts = s.agg.cfg.MaxAttempts
		g.Go(func() error {
			if s.agg.europeana == nil {
				eu.err = fmt.Errorf("%w: aggregator catalog not configured", domain.ErrUpstreamUnavailable)
				return nil
			}
			eu.res, eu.err = s.agg.europeana.FetchFiltered(logger.WithField(ctx, logger.FieldSource, string(domain.SourceEuropeana)), cq)
			return nil
		})
	}
	_ = g.Wait()

	if va.err == nil && va.fetched && va.res == nil {
		va.err = errors.New("museum catalog returned no result")
	}
	if eu.err == nil && eu.fetched && eu.res == nil {
		eu.err = errors.New("aggregator catalog returned no result")
	}
	return va, eu
}

func cursorPtr(c string) *string {
	if c == "" {
		return nil
	}
	return &c
}

// warningFor builds the recoverable warning for the sources that failed this round.
func warningFor(selection domain.SourceSelection, failed []domain.SourceTag) *domain.Warning {
	if len(failed) == 0 {
		return nil
	}
	names := make([]string, len(failed))
	for i, f := range failed {
		names[i] = string(f)
	}
	if selection == domain.SelectBoth && len(failed) == 1 {
		return &domain.Warning{
			Kind:    domain.WarningPartialFailure,
			Sources: failed,
			Message: fmt.Sprintf("Results from %s are unavailable right now; showing the other collection only.", names[0]),
		}
	}
	return &domain.Warning{
		Kind:    domain.WarningSourceFailure,
		Sources: failed,
		Message: fmt.Sprintf("Search failed for %s. Please try again.", strings.Join(names, ", ")),
	}
}
