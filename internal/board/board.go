// Package board is the job board controller. It decides between cached and
// fresh data, owns the filter state, and produces the render tree that a
// surface applies.
package board

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/pterm/pterm"

	"github.com/fr4nk3nst1ner/jobboard/internal/cache"
	"github.com/fr4nk3nst1ner/jobboard/internal/fetcher"
	"github.com/fr4nk3nst1ner/jobboard/internal/filters"
	"github.com/fr4nk3nst1ner/jobboard/internal/logging"
	"github.com/fr4nk3nst1ner/jobboard/internal/models"
	"github.com/fr4nk3nst1ner/jobboard/internal/render"
)

// ErrAlreadyStarted is returned by Init on a board that has left Idle
var ErrAlreadyStarted = errors.New("board already initialised")

// Phase is the load state of a board
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseLoading
	PhaseLoaded
	PhaseFailed
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseLoading:
		return "loading"
	case PhaseLoaded:
		return "loaded"
	case PhaseFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// JobFetcher retrieves the full job list
type JobFetcher interface {
	FetchAll(ctx context.Context) ([]models.JobRecord, error)
}

// JobCache is the time-bounded job list cache
type JobCache interface {
	Read(ctx context.Context, key string) (models.CacheEntry, bool)
	Write(ctx context.Context, key string, jobs []models.JobRecord)
}

// State is everything the board knows. Event handlers mutate it and derive
// the View from it.
type State struct {
	Phase              Phase
	Jobs               []models.JobRecord
	Filters            *filters.Set
	Content            render.Content
	FilterPanelVisible bool
	FromCache          bool
	Err                error
}

// Board is safe for concurrent use. Filter events are accepted while a
// fetch is in flight; the lock is not held across the fetch.
type Board struct {
	cache    JobCache
	fetcher  JobFetcher
	key      string
	narrow   bool
	onRender func(render.View)
	logger   *pterm.Logger

	mu      sync.Mutex
	started bool
	state   State
}

// Option configures a Board
type Option func(*Board)

// WithCacheKey overrides the storage key
func WithCacheKey(key string) Option {
	return func(b *Board) { b.key = key }
}

// WithNarrowing makes applied filters narrow the card list to jobs carrying
// every filter tag. Off by default: filters only drive the chip list.
func WithNarrowing(on bool) Option {
	return func(b *Board) { b.narrow = on }
}

// WithRenderHook is called with the new view after every transition. It
// runs with the board locked and must not call back into the board.
func WithRenderHook(fn func(render.View)) Option {
	return func(b *Board) { b.onRender = fn }
}

// WithLogger sets the diagnostic logger
func WithLogger(l *pterm.Logger) Option {
	return func(b *Board) { b.logger = l }
}

// New returns an Idle board with an empty filter set
func New(c JobCache, f JobFetcher, opts ...Option) *Board {
	b := &Board{
		cache:   c,
		fetcher: f,
		key:     cache.DefaultKey,
		logger:  logging.Discard(),
		state:   State{Phase: PhaseIdle, Filters: filters.NewSet()},
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// State returns a snapshot of the board state; the job list and filter set
// are copies
func (b *Board) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()

	s := b.state
	s.Jobs = append([]models.JobRecord(nil), b.state.Jobs...)
	s.Filters = b.state.Filters.Clone()
	return s
}

// View returns the current render tree
func (b *Board) View() render.View {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.view()
}

func (b *Board) view() render.View {
	return render.View{
		Content:            b.state.Content,
		Chips:              render.FilterChips(b.state.Filters.Ordered()),
		FilterPanelVisible: b.state.FilterPanelVisible,
	}
}

// Init loads the job list: from the cache when it holds a valid entry,
// otherwise from the fetcher. A fetch failure leaves the board Failed with
// the generic error message; it is not returned.
func (b *Board) Init(ctx context.Context) (render.View, error) {
	b.mu.Lock()
	if b.started {
		defer b.mu.Unlock()
		return b.view(), ErrAlreadyStarted
	}
	b.started = true
	b.mu.Unlock()

	if entry, ok := b.cache.Read(ctx, b.key); ok {
		b.logger.Debug("serving jobs from cache", b.logger.Args("jobs", len(entry.Jobs)))
		b.mu.Lock()
		defer b.mu.Unlock()
		b.state.FromCache = true
		b.loaded(entry.Jobs)
		return b.view(), nil
	}

	b.mu.Lock()
	b.state.Phase = PhaseLoading
	b.state.Content = render.Message(render.LoadingMessage)
	b.emit()
	b.mu.Unlock()

	jobs, err := b.fetcher.FetchAll(ctx)
	if err != nil {
		b.logger.Error("loading jobs failed", b.logger.Args("kind", fetcher.KindOf(err).String(), "error", err.Error()))
		b.mu.Lock()
		defer b.mu.Unlock()
		b.state.Phase = PhaseFailed
		b.state.Err = err
		b.state.Content = render.Message(render.ErrorMessage)
		b.emit()
		return b.view(), nil
	}

	b.cache.Write(ctx, b.key, jobs)

	b.mu.Lock()
	defer b.mu.Unlock()
	b.loaded(jobs)
	return b.view(), nil
}

func (b *Board) loaded(jobs []models.JobRecord) {
	b.state.Phase = PhaseLoaded
	b.state.Jobs = jobs
	b.state.Content = render.JobCards(b.visibleJobs())
	b.emit()
}

// AddFilter applies tag and reveals the filter panel
func (b *Board) AddFilter(tag string) render.View {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.state.Filters.Add(tag)
	b.state.FilterPanelVisible = true
	b.filtersChanged()
	return b.view()
}

// RemoveFilter drops tag; the panel hides once no filter is left
func (b *Board) RemoveFilter(tag string) render.View {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.state.Filters.Remove(tag)
	b.state.FilterPanelVisible = !b.state.Filters.IsEmpty()
	b.filtersChanged()
	return b.view()
}

// ClearFilters drops every filter and hides the panel
func (b *Board) ClearFilters() render.View {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.state.Filters.Clear()
	b.state.FilterPanelVisible = false
	b.filtersChanged()
	return b.view()
}

// Dispatch routes an action emitted by the render tree
func (b *Board) Dispatch(a render.Action) (render.View, error) {
	switch a.Kind {
	case render.ActionAddFilter:
		return b.AddFilter(a.Tag), nil
	case render.ActionRemoveFilter:
		return b.RemoveFilter(a.Tag), nil
	case render.ActionClearFilters:
		return b.ClearFilters(), nil
	default:
		return b.View(), fmt.Errorf("unknown action %d", a.Kind)
	}
}

func (b *Board) filtersChanged() {
	if b.narrow && b.state.Phase == PhaseLoaded {
		b.state.Content = render.JobCards(b.visibleJobs())
	}
	b.emit()
}

func (b *Board) visibleJobs() []models.JobRecord {
	if !b.narrow || b.state.Filters.IsEmpty() {
		return b.state.Jobs
	}
	tags := b.state.Filters.Ordered()
	var out []models.JobRecord
	for _, job := range b.state.Jobs {
		if job.HasAllTags(tags) {
			out = append(out, job)
		}
	}
	return out
}

func (b *Board) emit() {
	if b.onRender != nil {
		b.onRender(b.view())
	}
}
