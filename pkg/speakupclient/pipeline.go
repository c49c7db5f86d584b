package speakupclient

import (
	"context"
	"sync"
	"time"

	"github.com/openhrstack/speakup_app/internal/dto"
)

// SearchFunc is one of the client's paginated search endpoints.
type SearchFunc func(ctx context.Context, params dto.SearchParams, page dto.PageQuery) (dto.SearchResponse, error)

// Result is the outcome of one pipeline dispatch, already paginated.
type Result struct {
	Items      []dto.SpeakUpItem
	TotalCount int
	TotalPages int
	Page       int
	Err        error
}

const defaultQueryDebounce = 250 * time.Millisecond

// Pipeline owns the filter, page, and sort state behind one list view and
// turns state changes into search requests. Free-text query edits are
// debounced; every other change dispatches immediately. Responses carry a
// generation number so a slow request can never overwrite a newer one, and
// independent pipelines (my entries vs assigned) never interfere.
type Pipeline struct {
	search   SearchFunc
	onResult func(Result)
	debounce time.Duration

	mu     sync.Mutex
	params dto.SearchParams
	page   dto.PageQuery
	gen    uint64
	timer  *time.Timer
}

// PipelineOption configures a Pipeline.
type PipelineOption func(*Pipeline)

// WithQueryDebounce overrides the free-text debounce interval.
func WithQueryDebounce(d time.Duration) PipelineOption {
	return func(p *Pipeline) { p.debounce = d }
}

// NewPipeline creates a pipeline that calls search and delivers each
// non-stale outcome to onResult. Filters start unset and paging starts at
// page 1.
func NewPipeline(search SearchFunc, onResult func(Result), opts ...PipelineOption) *Pipeline {
	p := &Pipeline{
		search:   search,
		onResult: onResult,
		debounce: defaultQueryDebounce,
		params:   SanitizeFilters(RawFilters{}),
		page:     dto.PageQuery{Page: 1, Size: 10},
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// SetQuery updates the free-text query and schedules a debounced dispatch.
// Rapid keystrokes collapse into one request; paging resets to the first
// page since the result set changes shape.
func (p *Pipeline) SetQuery(ctx context.Context, query string) {
	p.mu.Lock()
	p.params.CommonSearchString = query
	p.page.Page = 1
	if p.timer != nil {
		p.timer.Stop()
	}
	p.timer = time.AfterFunc(p.debounce, func() {
		p.Refresh(ctx)
	})
	p.mu.Unlock()
}

// SetFilters replaces the structured filters and dispatches immediately.
// The free-text query is part of params and travels with it.
func (p *Pipeline) SetFilters(ctx context.Context, params dto.SearchParams) {
	p.mu.Lock()
	p.params = params
	p.page.Page = 1
	p.mu.Unlock()
	p.Refresh(ctx)
}

// SetPage moves to the given page and dispatches immediately.
func (p *Pipeline) SetPage(ctx context.Context, page int) {
	p.mu.Lock()
	if page < 1 {
		page = 1
	}
	p.page.Page = page
	p.mu.Unlock()
	p.Refresh(ctx)
}

// SetPageSize changes the page size, returns to the first page, and
// dispatches immediately.
func (p *Pipeline) SetPageSize(ctx context.Context, size int) {
	p.mu.Lock()
	if size > 0 {
		p.page.Size = size
	}
	p.page.Page = 1
	p.mu.Unlock()
	p.Refresh(ctx)
}

// SetSort changes the sort column and direction, returns to the first page,
// and dispatches immediately.
func (p *Pipeline) SetSort(ctx context.Context, sortBy, sortOrder string) {
	p.mu.Lock()
	p.page.SortBy = sortBy
	p.page.SortOrder = sortOrder
	p.page.Page = 1
	p.mu.Unlock()
	p.Refresh(ctx)
}

// Refresh dispatches a request with the current state. Any in-flight request
// becomes stale the moment this is called; its response will be dropped.
func (p *Pipeline) Refresh(ctx context.Context) {
	p.mu.Lock()
	if p.timer != nil {
		p.timer.Stop()
		p.timer = nil
	}
	p.gen++
	gen := p.gen
	params := p.params
	page := p.page
	p.mu.Unlock()

	go func() {
		resp, err := p.search(ctx, params, page)

		p.mu.Lock()
		stale := gen != p.gen
		p.mu.Unlock()
		if stale {
			return
		}

		if err != nil {
			p.onResult(Result{Page: page.Page, Err: err})
			return
		}

		total := 0
		if len(resp.Count) > 0 {
			total = resp.Count[0].TotalCount
		}
		p.onResult(Result{
			Items:      resp.Data,
			TotalCount: total,
			TotalPages: totalPages(total, page.Size),
			Page:       page.Page,
		})
	}()
}

// totalPages derives the page count from the authoritative total, never from
// the length of the current page.
func totalPages(totalCount, size int) int {
	if totalCount <= 0 || size <= 0 {
		return 0
	}
	return (totalCount + size - 1) / size
}
