package predictive

import (
	"context"
	"log"
	"net/url"
	"strings"
	"sync"
	"time"

	"storefront-search-api/internal/filters"
	"storefront-search-api/internal/models"
	"storefront-search-api/internal/search"
	"storefront-search-api/internal/storefront"
)

type State string

const (
	StateIdle    State = "idle"
	StatePending State = "pending"
)

// Fetcher issues a raw predictive query. *search.Service and
// *storefront.Client both satisfy it.
type Fetcher interface {
	PredictiveSearch(ctx context.Context, req storefront.PredictiveRequest) (storefront.PredictiveResult, error)
}

type Options struct {
	Limit      int
	Debounce   time.Duration // 0 issues a request on every keystroke
	Timeout    time.Duration
	Normalizer *search.Normalizer
}

// Snapshot is the observable state of a controller.
type Snapshot struct {
	Term    string                 `json:"term"`
	State   State                  `json:"state"`
	Results models.SearchResultSet `json:"results"`
	Open    bool                   `json:"open"`
	Focused bool                   `json:"focused"`
}

// Controller drives as-you-type search for one input. Requests are never
// cancelled when the term changes; instead every input bumps a sequence
// number and only the response carrying the latest sequence is applied.
type Controller struct {
	fetcher    Fetcher
	normalizer *search.Normalizer
	limit      int
	debounce   time.Duration
	timeout    time.Duration

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu      sync.Mutex
	term    string
	state   State
	results models.SearchResultSet
	open    bool
	focused bool
	seq     uint64
	timer   *time.Timer
	closed  bool

	subs    map[int]func(Snapshot)
	nextSub int
	pending []Snapshot
	notify  chan struct{}
	done    chan struct{}
}

func NewController(fetcher Fetcher, opts Options) *Controller {
	if opts.Limit <= 0 || opts.Limit > search.MaxPredictiveLimit {
		opts.Limit = search.MaxPredictiveLimit
	}
	if opts.Normalizer == nil {
		opts.Normalizer = search.NewNormalizer("")
	}
	ctx, cancel := context.WithCancel(context.Background())
	c := &Controller{
		fetcher:    fetcher,
		normalizer: opts.Normalizer,
		limit:      opts.Limit,
		debounce:   opts.Debounce,
		timeout:    opts.Timeout,
		ctx:        ctx,
		cancel:     cancel,
		state:      StateIdle,
		results:    search.NoPredictiveSearchResults(),
		subs:       map[int]func(Snapshot){},
		notify:     make(chan struct{}, 1),
		done:       make(chan struct{}),
	}
	go c.deliver()
	return c
}

// Subscribe registers fn for every state change. Snapshots are delivered in
// order on a single goroutine. The returned func unsubscribes.
func (c *Controller) Subscribe(fn func(Snapshot)) func() {
	c.mu.Lock()
	defer c.mu.Unlock()
	id := c.nextSub
	c.nextSub++
	c.subs[id] = fn
	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		delete(c.subs, id)
	}
}

func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

// Input handles a change of the search term.
func (c *Controller) Input(term string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.open = true
	c.inputLocked(term)
}

// Focus marks the input focused and reopens the panel. Focusing with a
// non-empty value searches it again, like a keystroke.
func (c *Controller) Focus(term string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.focused = true
	c.open = true
	if strings.TrimSpace(term) != "" || term != c.term {
		c.inputLocked(term)
		return
	}
	c.publishLocked()
}

// Blur drops focus. Results stay visible until ClickOutside or Select.
func (c *Controller) Blur() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.focused = false
	c.publishLocked()
}

// Escape behaves like Blur.
func (c *Controller) Escape() {
	c.Blur()
}

// ClickOutside dismisses the result panel.
func (c *Controller) ClickOutside() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.focused = false
	c.open = false
	c.publishLocked()
}

// Select returns the location to navigate to for item, clears the input and
// closes the panel.
func (c *Controller) Select(item models.SearchResultItem) string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.closed {
		c.clearLocked()
		c.focused = false
		c.open = false
		c.publishLocked()
	}
	return item.URL
}

// Clear empties the input and resets the results to the empty sentinel.
func (c *Controller) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.clearLocked()
	c.publishLocked()
}

// ViewAllURL links to the full search page for the current term.
func (c *Controller) ViewAllURL() string {
	c.mu.Lock()
	term := c.term
	c.mu.Unlock()
	return c.searchURL(url.Values{filters.ParamTerm: {term}})
}

// CategoryURL links to the full search page restricted to one group.
func (c *Controller) CategoryURL(group models.GroupType) string {
	c.mu.Lock()
	term := c.term
	c.mu.Unlock()
	return c.searchURL(url.Values{
		filters.ParamTerm: {term},
		filters.ParamType: {group.SearchType()},
	})
}

// Close stops pending timers, abandons in-flight requests and stops
// delivering snapshots.
func (c *Controller) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	if c.timer != nil {
		c.timer.Stop()
	}
	c.mu.Unlock()

	c.cancel()
	c.wg.Wait()
	close(c.done)
}

func (c *Controller) inputLocked(term string) {
	c.term = term
	c.seq++
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}

	trimmed := strings.TrimSpace(term)
	if trimmed == "" {
		c.results = search.NoPredictiveSearchResults()
		c.state = StateIdle
		c.publishLocked()
		return
	}

	c.state = StatePending
	c.publishLocked()

	seq := c.seq
	if c.debounce <= 0 {
		c.issueLocked(seq, trimmed)
		return
	}
	c.timer = time.AfterFunc(c.debounce, func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		if c.closed || seq != c.seq {
			return
		}
		c.issueLocked(seq, trimmed)
	})
}

func (c *Controller) clearLocked() {
	c.term = ""
	c.seq++
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	c.results = search.NoPredictiveSearchResults()
	c.state = StateIdle
}

func (c *Controller) issueLocked(seq uint64, term string) {
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		ctx := c.ctx
		if c.timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, c.timeout)
			defer cancel()
		}
		raw, err := c.fetcher.PredictiveSearch(ctx, storefront.PredictiveRequest{Term: term, Limit: c.limit})
		c.apply(seq, term, raw, err)
	}()
}

func (c *Controller) apply(seq uint64, term string, raw storefront.PredictiveResult, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	if seq != c.seq {
		log.Printf("Predictive search: dropping stale response for %q (seq %d, latest %d)", term, seq, c.seq)
		return
	}

	if err != nil {
		log.Printf("Predictive search for %q failed: %v", term, err)
		c.results = search.NoPredictiveSearchResults()
	} else {
		c.results = c.normalizer.NormalizePredictive(raw)
	}
	c.state = StateIdle
	c.publishLocked()
}

func (c *Controller) snapshotLocked() Snapshot {
	return Snapshot{
		Term:    c.term,
		State:   c.state,
		Results: c.results,
		Open:    c.open,
		Focused: c.focused,
	}
}

func (c *Controller) publishLocked() {
	c.pending = append(c.pending, c.snapshotLocked())
	select {
	case c.notify <- struct{}{}:
	default:
	}
}

func (c *Controller) deliver() {
	for {
		select {
		case <-c.done:
			return
		case <-c.notify:
		}

		c.mu.Lock()
		batch := c.pending
		c.pending = nil
		subs := make([]func(Snapshot), 0, len(c.subs))
		for id := 0; id < c.nextSub; id++ {
			if fn, ok := c.subs[id]; ok {
				subs = append(subs, fn)
			}
		}
		c.mu.Unlock()

		for _, snap := range batch {
			for _, fn := range subs {
				fn(snap)
			}
		}
	}
}

func (c *Controller) searchURL(values url.Values) string {
	return c.normalizer.Prefixed(filters.SearchPath + "?" + values.Encode())
}
