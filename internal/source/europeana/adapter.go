package europeana

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/timmy/artsearch/internal/domain"
	"github.com/timmy/artsearch/internal/logger"
	"github.com/timmy/artsearch/internal/source"
)

const (
	// DefaultBaseURL is the public search API root.
	DefaultBaseURL = "https://api.europeana.eu"
	// DefaultRows is the raw page size requested per attempt.
	DefaultRows = 10
	// DefaultTargetCount is how many accepted items a call tries to collect.
	DefaultTargetCount = 10
	// DefaultMaxAttempts bounds the number of page fetches per call.
	DefaultMaxAttempts = 50
)

// Config holds configuration for the cursor-indexed catalog client.
type Config struct {
	BaseURL         string
	APIKey          string
	Rows            int
	TargetCount     int
	MaxAttempts     int
	MinCompleteness int
	Timeout         time.Duration
}

// Adapter implements source.CursorSource for the aggregator catalog.
type Adapter struct {
	client      *resty.Client
	baseURL     string
	apiKey      string
	rows        int
	targetCount int
	maxAttempts int
	filter      Filter
}

// NewAdapter creates a new aggregator catalog adapter.
// Parameters:
//   - cfg: API key, base URL and accumulation limits; zero values fall back to defaults.
// Returns:
//   - *Adapter: initialized adapter.
func NewAdapter(cfg *Config) *Adapter {
	if cfg == nil {
		cfg = &Config{}
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}

	client := resty.New()
	client.SetHeader("Accept", "application/json")
	client.SetTimeout(timeout)

	minCompleteness := cfg.MinCompleteness
	if minCompleteness <= 0 {
		minCompleteness = DefaultMinCompleteness
	}

	return &Adapter{
		client:      client,
		baseURL:     strings.TrimSuffix(source.Or(cfg.BaseURL, DefaultBaseURL), "/"),
		apiKey:      cfg.APIKey,
		rows:        positiveOr(cfg.Rows, DefaultRows),
		targetCount: positiveOr(cfg.TargetCount, DefaultTargetCount),
		maxAttempts: positiveOr(cfg.MaxAttempts, DefaultMaxAttempts),
		filter:      Filter{MinCompleteness: minCompleteness},
	}
}

// FetchFiltered pages through search results, keeping records that pass the filter,
// until TargetCount items are collected, the cursor runs out, or MaxAttempts pages were fetched.
// Hitting MaxAttempts is not an error: whatever was collected is returned with the live cursor.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - q: query, starting cursor and accumulation limits (zero limits use the adapter defaults).
// Returns:
//   - *source.FilteredResult: accepted items, raw scan count, totals and next cursor.
//   - error: *domain.UpstreamError if any page fetch fails; partial progress is discarded.
func (a *Adapter) FetchFiltered(ctx context.Context, q source.CursorQuery) (*source.FilteredResult, error) {
	target := positiveOr(q.TargetCount, a.targetCount)
	maxAttempts := positiveOr(q.MaxAttempts, a.maxAttempts)
	cursor := source.Or(q.Cursor, domain.CursorStart)

	result := &source.FilteredResult{Items: []domain.NormalizedItem{}}
	start := time.Now()

	for result.Attempts < maxAttempts {
		page, err := a.fetchPage(ctx, q.Query, cursor)
		if err != nil {
			return nil, err
		}
		result.Attempts++
		result.ScannedCount += len(page.Items)
		result.TotalRecords = page.TotalResults
		result.TotalImages = page.TotalResults

		for i := range page.Items {
			if a.filter.Accept(&page.Items[i], q.Query) {
				result.Items = append(result.Items, Normalize(&page.Items[i]))
			}
		}

		cursor = page.NextCursor
		if cursor == "" || len(result.Items) >= target {
			break
		}
	}
	result.NextCursor = cursor

	logger.With(logger.Fields{
		logger.FieldCount:      len(result.Items),
		logger.FieldScanned:    result.ScannedCount,
		logger.FieldAttempts:   result.Attempts,
		logger.FieldDurationMs: time.Since(start).Milliseconds(),
	}).Debug(ctx, "Filtered aggregator catalog results: query=%q, exhausted=%t", q.Query, cursor == "")

	return result, nil
}

// fetchPage requests one raw page of search results.
func (a *Adapter) fetchPage(ctx context.Context, query, cursor string) (*searchResponse, error) {
	var resp searchResponse
	httpResp, err := a.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"wskey":   a.apiKey,
			"query":   query,
			"profile": "rich",
			"type":    "IMAGE",
			"rows":    strconv.Itoa(a.rows),
			"cursor":  cursor,
		}).
		SetResult(&resp).
		Get(a.baseURL + "/record/v2/search.json")
	if err != nil {
		status := 0
		if httpResp != nil && httpResp.RawResponse != nil {
			status = httpResp.StatusCode()
		}
		return nil, domain.NewUpstreamError(domain.SourceEuropeana, status, fmt.Errorf("failed to call aggregator catalog: %w", err))
	}
	if httpResp.StatusCode() != http.StatusOK {
		return nil, domain.NewUpstreamError(domain.SourceEuropeana, httpResp.StatusCode(), nil)
	}
	// Every search response carries "success"; without it the body was not decoded.
	if resp.Success == nil {
		return nil, domain.NewUpstreamError(domain.SourceEuropeana, httpResp.StatusCode(),
			fmt.Errorf("malformed response: content-type=%q", httpResp.Header().Get("Content-Type")))
	}
	if !*resp.Success {
		return nil, domain.NewUpstreamError(domain.SourceEuropeana, httpResp.StatusCode(), fmt.Errorf("aggregator catalog error: %s", resp.Error))
	}
	if resp.Items == nil && resp.TotalResults > 0 {
		return nil, domain.NewUpstreamError(domain.SourceEuropeana, httpResp.StatusCode(), fmt.Errorf("malformed response: missing items"))
	}
	return &resp, nil
}

func positiveOr(v, def int) int {
	if v > 0 {
		return v
	}
	return def
}
