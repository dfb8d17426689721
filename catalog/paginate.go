package catalog

import (
	"context"
	"sync"
	"time"
)

// Screen identifies the feed a result list is shown on.
type Screen string

const (
	ScreenHome   Screen = "home"
	ScreenDeals  Screen = "deals"
	ScreenBundle Screen = "bundle"
	ScreenSearch Screen = "search"
)

// DefaultLoadMoreDelay paces page appends so the list does not jump.
const DefaultLoadMoreDelay = 300 * time.Millisecond

const defaultPageSize = 20

// PageSize returns the fixed page size of the screen.
func (s Screen) PageSize() int {
	if s == ScreenDeals {
		return 18
	}
	return defaultPageSize
}

// ParseScreen maps a request value to a Screen, falling back to home.
func ParseScreen(v string) Screen {
	switch s := Screen(v); s {
	case ScreenDeals, ScreenBundle, ScreenSearch:
		return s
	}
	return ScreenHome
}

// PageState is what the rendering layer sees of a paginated list.
type PageState struct {
	CurrentPage int       `json:"current_page"`
	PageSize    int       `json:"page_size"`
	Total       int       `json:"total_count"`
	HasMore     bool      `json:"has_more"`
	LoadingMore bool      `json:"is_loading_more"`
	Items       []Product `json:"items"`
}

// Paginator exposes a filtered list in growing pages. At most one LoadMore is
// in flight; extra calls while loading are dropped, not queued.
type Paginator struct {
	mu       sync.Mutex
	pageSize int
	delay    time.Duration
	source   []Product
	state    PageState
	gen      uint64
	closed   bool
	done     chan struct{}
}

// NewPaginator returns an idle paginator over an empty list.
func NewPaginator(pageSize int, delay time.Duration) *Paginator {
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	if delay < 0 {
		delay = 0
	}
	p := &Paginator{
		pageSize: pageSize,
		delay:    delay,
		done:     make(chan struct{}),
	}
	p.state = PageState{CurrentPage: 1, PageSize: pageSize, Items: []Product{}}
	return p
}

// Reset shows the first page of filtered and abandons any load in flight.
func (p *Paginator) Reset(filtered []Product) PageState {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return p.snapshot()
	}
	p.gen++
	p.source = filtered
	end := p.pageSize
	if end > len(filtered) {
		end = len(filtered)
	}
	items := make([]Product, end)
	copy(items, filtered[:end])
	p.state = PageState{
		CurrentPage: 1,
		PageSize:    p.pageSize,
		Total:       len(filtered),
		HasMore:     len(filtered) > p.pageSize,
		Items:       items,
	}
	return p.snapshot()
}

// LoadMore appends the next page after the pacing delay. It returns the state
// unchanged when a load is already running, nothing is left, the paginator is
// closed, ctx ends first, or a Reset happened meanwhile.
func (p *Paginator) LoadMore(ctx context.Context) PageState {
	p.mu.Lock()
	if p.closed || p.state.LoadingMore || !p.state.HasMore {
		s := p.snapshot()
		p.mu.Unlock()
		return s
	}
	p.state.LoadingMore = true
	gen := p.gen
	p.mu.Unlock()

	if p.delay > 0 {
		t := time.NewTimer(p.delay)
		defer t.Stop()
		select {
		case <-t.C:
		case <-ctx.Done():
			return p.abort(gen)
		case <-p.done:
			return p.abort(gen)
		}
	} else if ctx.Err() != nil {
		return p.abort(gen)
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed || gen != p.gen {
		return p.snapshot()
	}
	p.state.LoadingMore = false
	start := p.state.CurrentPage * p.pageSize
	if start >= len(p.source) {
		p.state.HasMore = false
		return p.snapshot()
	}
	end := start + p.pageSize
	if end > len(p.source) {
		end = len(p.source)
	}
	p.state.Items = append(p.state.Items, p.source[start:end]...)
	p.state.CurrentPage++
	p.state.HasMore = end < len(p.source)
	return p.snapshot()
}

// State returns the current page state.
func (p *Paginator) State() PageState {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.snapshot()
}

// Close stops pending loads from ever touching the state again.
func (p *Paginator) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return
	}
	p.closed = true
	p.gen++
	p.state.LoadingMore = false
	close(p.done)
}

func (p *Paginator) abort(gen uint64) PageState {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.closed && gen == p.gen {
		p.state.LoadingMore = false
	}
	return p.snapshot()
}

// snapshot copies the state; callers must hold mu.
func (p *Paginator) snapshot() PageState {
	s := p.state
	s.Items = make([]Product, len(p.state.Items))
	copy(s.Items, p.state.Items)
	return s
}

// PageOf is the state a paginator over filtered reaches after loading page
// pages, for callers that cannot keep a Paginator between requests.
func PageOf(filtered []Product, page, pageSize int) PageState {
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	if page < 1 {
		page = 1
	}
	// pages past the last one show everything; this also keeps page*pageSize
	// from overflowing
	end := len(filtered)
	if page < pageCount(len(filtered), pageSize) {
		end = page * pageSize
	}
	items := make([]Product, end)
	copy(items, filtered[:end])
	return PageState{
		CurrentPage: page,
		PageSize:    pageSize,
		Total:       len(filtered),
		HasMore:     end < len(filtered),
		Items:       items,
	}
}

func pageCount(n, pageSize int) int {
	pages := n / pageSize
	if n%pageSize != 0 {
		pages++
	}
	return pages
}
