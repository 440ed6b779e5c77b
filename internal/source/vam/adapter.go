package vam

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
	// DefaultBaseURL is the public collections API root.
	DefaultBaseURL = "https://api.vam.ac.uk"
	// DefaultIIIFBaseURL is the image server that serves object images by asset reference.
	DefaultIIIFBaseURL = "https://framemark.vam.ac.uk/collections/"
)

// Config holds configuration for the page-indexed catalog client.
type Config struct {
	BaseURL     string
	IIIFBaseURL string
	Timeout     time.Duration
}

// Adapter implements source.PagedSource and source.DetailSource for the museum catalog.
type Adapter struct {
	client   *resty.Client
	baseURL  string
	iiifBase string
}

// NewAdapter creates a new museum catalog adapter.
// Parameters:
//   - cfg: base URLs and request timeout; zero values fall back to defaults.
// Returns:
//   - *Adapter: initialized adapter.
func NewAdapter(cfg *Config) *Adapter {
	if cfg == nil {
		cfg = &Config{}
	}
	baseURL := strings.TrimSuffix(source.Or(cfg.BaseURL, DefaultBaseURL), "/")
	iiifBase := source.Or(cfg.IIIFBaseURL, DefaultIIIFBaseURL)
	if !strings.HasSuffix(iiifBase, "/") {
		iiifBase += "/"
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}

	client := resty.New()
	client.SetHeader("Accept", "application/json")
	client.SetTimeout(timeout)

	return &Adapter{
		client:   client,
		baseURL:  baseURL,
		iiifBase: iiifBase,
	}
}

// FetchPage fetches one page of search results by free text or by maker id.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - q: query or maker id plus the 1-based page number.
// Returns:
//   - *source.PageResult: at most source.VAMPageSize normalized items and catalog totals.
//   - error: domain.ErrInvalidRequest without a query or maker, *domain.UpstreamError on upstream failure.
func (a *Adapter) FetchPage(ctx context.Context, q source.PageQuery) (*source.PageResult, error) {
	query := strings.TrimSpace(q.Query)
	makerID := strings.TrimSpace(q.MakerID)
	if query == "" && makerID == "" {
		return nil, domain.ErrInvalidRequest
	}
	page := q.Page
	if page < 1 {
		page = 1
	}

	params := map[string]string{
		"page":      strconv.Itoa(page),
		"page_size": strconv.Itoa(source.VAMPageSize),
	}
	if makerID != "" {
		params["id_person"] = makerID
	} else {
		params["q"] = query
	}

	logger.CtxDebug(ctx, "Fetching museum catalog page: query=%q, maker_id=%q, page=%d", query, makerID, page)

	var resp searchResponse
	httpResp, err := a.client.R().
		SetContext(ctx).
		SetQueryParams(params).
		SetResult(&resp).
		Get(a.baseURL + "/v2/objects/search")
	if err != nil {
		return nil, domain.NewUpstreamError(domain.SourceVAM, statusOf(httpResp), fmt.Errorf("failed to call museum catalog: %w", err))
	}
	if httpResp.StatusCode() != http.StatusOK {
		return nil, domain.NewUpstreamError(domain.SourceVAM, httpResp.StatusCode(), nil)
	}
	if resp.Records == nil {
		return nil, domain.NewUpstreamError(domain.SourceVAM, httpResp.StatusCode(), fmt.Errorf("malformed response: missing records"))
	}

	items := make([]domain.NormalizedItem, 0, len(resp.Records))
	for i := range resp.Records {
		items = append(items, normalizeRecord(&resp.Records[i]))
	}

	return &source.PageResult{
		Items:        clampPage(items, page, resp.Info.RecordCount),
		TotalRecords: resp.Info.RecordCount,
		TotalImages:  resp.Info.ImageCount,
	}, nil
}

// FetchDetail fetches the full record for a single object.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - id: catalog system number.
// Returns:
//   - *domain.NormalizedItem: full record including structured fields and image URLs.
//   - error: domain.ErrInvalidRequest for an empty id, domain.ErrItemNotFound for an unknown id,
//     *domain.UpstreamError on upstream failure.
func (a *Adapter) FetchDetail(ctx context.Context, id string) (*domain.NormalizedItem, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, domain.ErrInvalidRequest
	}

	var resp detailResponse
	httpResp, err := a.client.R().
		SetContext(ctx).
		SetPathParam("id", id).
		SetResult(&resp).
		Get(a.baseURL + "/v2/museumobject/{id}")
	if err != nil {
		return nil, domain.NewUpstreamError(domain.SourceVAM, statusOf(httpResp), fmt.Errorf("failed to call museum catalog: %w", err))
	}
	if httpResp.StatusCode() == http.StatusNotFound {
		return nil, fmt.Errorf("museum object %s: %w", id, domain.ErrItemNotFound)
	}
	if httpResp.StatusCode() != http.StatusOK {
		return nil, domain.NewUpstreamError(domain.SourceVAM, httpResp.StatusCode(), nil)
	}
	if resp.Record == nil {
		return nil, domain.NewUpstreamError(domain.SourceVAM, httpResp.StatusCode(), fmt.Errorf("malformed response: missing record"))
	}

	item := normalizeDetail(&resp, a.iiifBase)
	return &item, nil
}

// clampPage enforces the page-size and remaining-records bounds on a page.
func clampPage(items []domain.NormalizedItem, page, total int) []domain.NormalizedItem {
	limit := source.VAMPageSize
	if remaining := total - (page-1)*source.VAMPageSize; remaining < limit {
		limit = remaining
	}
	if limit < 0 {
		limit = 0
	}
	if len(items) > limit {
		items = items[:limit]
	}
	return items
}

func statusOf(resp *resty.Response) int {
	if resp == nil || resp.RawResponse == nil {
		return 0
	}
	return resp.StatusCode()
}
