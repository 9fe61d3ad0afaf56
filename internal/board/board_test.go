package board

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fr4nk3nst1ner/jobboard/internal/cache"
	"github.com/fr4nk3nst1ner/jobboard/internal/fetcher"
	"github.com/fr4nk3nst1ner/jobboard/internal/models"
	"github.com/fr4nk3nst1ner/jobboard/internal/render"
	"github.com/fr4nk3nst1ner/jobboard/internal/session"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) Now() time.Time          { return c.t }
func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

type stubFetcher struct {
	jobs  []models.JobRecord
	err   error
	calls int
}

func (f *stubFetcher) FetchAll(context.Context) ([]models.JobRecord, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.jobs, nil
}

func engineer() models.JobRecord {
	return models.JobRecord{
		Title:          "Engineer",
		CompanyName:    "Acme",
		LogoURL:        "https://example.com/acme.png",
		EmploymentType: "Full-Time",
		LocationType:   "Remote",
		CreatedAtHuman: "2 days ago",
		TagNames:       []string{"Remote", "Full-Time"},
	}
}

func designer() models.JobRecord {
	return models.JobRecord{
		Title:          "Designer",
		CompanyName:    "Globex",
		LogoURL:        "https://example.com/globex.png",
		EmploymentType: "Part-Time",
		LocationType:   "On-site",
		CreatedAtHuman: "1 week ago",
		TagNames:       []string{"Part-Time", "Figma"},
	}
}

// env is one browsing session: session storage and a clock shared by every
// board created on it, as a page reload would.
type env struct {
	storage *session.Memory
	clock   *fakeClock
	cache   *cache.Store
	fetch   *stubFetcher
}

func newEnv(jobs ...models.JobRecord) *env {
	clock := &fakeClock{t: time.UnixMilli(1_700_000_000_000)}
	storage := session.NewMemory()
	return &env{
		storage: storage,
		clock:   clock,
		cache:   cache.NewStore(storage, cache.WithClock(clock.Now)),
		fetch:   &stubFetcher{jobs: jobs},
	}
}

func (e *env) board(opts ...Option) *Board {
	return New(e.cache, e.fetch, opts...)
}

func TestInit_FreshSessionFetchesRendersAndCaches(t *testing.T) {
	e := newEnv(engineer())
	b := e.board()

	view, err := b.Init(context.Background())
	require.NoError(t, err)

	assert.Equal(t, PhaseLoaded, b.State().Phase)
	assert.False(t, b.State().FromCache)
	assert.Equal(t, 1, e.fetch.calls)
	require.Len(t, view.Content.Cards, 1)
	assert.Len(t, view.Content.Cards[0].Tags, 2)

	entry, ok := e.cache.Read(context.Background(), cache.DefaultKey)
	require.True(t, ok)
	assert.Len(t, entry.Jobs, 1)
}

func TestInit_SecondLoadWithinWindowUsesCache(t *testing.T) {
	e := newEnv(engineer())
	first, err := e.board().Init(context.Background())
	require.NoError(t, err)

	e.clock.Advance(1500 * time.Millisecond)
	b := e.board()
	second, err := b.Init(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, e.fetch.calls, "no network call on cache hit")
	assert.True(t, b.State().FromCache)
	assert.Equal(t, first.Content, second.Content)
}

func TestInit_LoadAfterExpiryFetchesAgain(t *testing.T) {
	e := newEnv(engineer())
	_, err := e.board().Init(context.Background())
	require.NoError(t, err)

	e.clock.Advance(2500 * time.Millisecond)
	b := e.board()
	_, err = b.Init(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, e.fetch.calls)
	assert.False(t, b.State().FromCache)
}

func TestInit_FetchFailureShowsGenericMessage(t *testing.T) {
	e := newEnv()
	e.fetch.err = &fetcher.FetchError{Kind: fetcher.KindStatus, StatusCode: 500}
	b := e.board()

	view, err := b.Init(context.Background())
	require.NoError(t, err)

	assert.Equal(t, PhaseFailed, b.State().Phase)
	assert.True(t, view.Content.IsMessage())
	assert.Equal(t, render.ErrorMessage, view.Content.Message)
	assert.Equal(t, fetcher.KindStatus, fetcher.KindOf(b.State().Err))

	_, present, _ := e.storage.Get(context.Background(), cache.DefaultKey)
	assert.False(t, present, "failed fetch must not write the cache")
}

func TestInit_FailedIsTerminal(t *testing.T) {
	e := newEnv()
	e.fetch.err = errors.New("network down")
	b := e.board()

	_, err := b.Init(context.Background())
	require.NoError(t, err)

	_, err = b.Init(context.Background())
	assert.ErrorIs(t, err, ErrAlreadyStarted)
	assert.Equal(t, 1, e.fetch.calls)
	assert.Equal(t, PhaseFailed, b.State().Phase)
}

func TestInit_LoadingIndicatorOnlyOnMiss(t *testing.T) {
	e := newEnv(engineer())

	var missViews []render.View
	_, err := e.board(WithRenderHook(func(v render.View) { missViews = append(missViews, v) })).Init(context.Background())
	require.NoError(t, err)
	require.Len(t, missViews, 2)
	assert.Equal(t, render.LoadingMessage, missViews[0].Content.Message)
	assert.Len(t, missViews[1].Content.Cards, 1)

	var hitViews []render.View
	_, err = e.board(WithRenderHook(func(v render.View) { hitViews = append(hitViews, v) })).Init(context.Background())
	require.NoError(t, err)
	require.Len(t, hitViews, 1)
	assert.False(t, hitViews[0].Content.IsMessage())
}

func TestFilters_AddThenRemoveTogglesPanel(t *testing.T) {
	e := newEnv(engineer())
	b := e.board()
	_, err := b.Init(context.Background())
	require.NoError(t, err)

	view := b.AddFilter("Remote")
	assert.True(t, view.FilterPanelVisible)
	require.Len(t, view.Chips, 1)
	assert.Equal(t, "Remote", view.Chips[0].Text)

	view = b.RemoveFilter("Remote")
	assert.False(t, view.FilterPanelVisible)
	assert.Empty(t, view.Chips)
	assert.True(t, b.State().Filters.IsEmpty())
}

func TestFilters_RemoveKeepsPanelWhileNonEmpty(t *testing.T) {
	b := newEnv(engineer()).board()
	b.AddFilter("Remote")
	b.AddFilter("Full-Time")

	view := b.RemoveFilter("Remote")
	assert.True(t, view.FilterPanelVisible)
	require.Len(t, view.Chips, 1)
	assert.Equal(t, "Full-Time", view.Chips[0].Text)
}

func TestFilters_ClearHidesPanel(t *testing.T) {
	b := newEnv(engineer()).board()
	b.AddFilter("Remote")
	b.AddFilter("Full-Time")

	view := b.ClearFilters()
	assert.False(t, view.FilterPanelVisible)
	assert.Empty(t, view.Chips)
	assert.True(t, b.State().Filters.IsEmpty())

	view = b.ClearFilters()
	assert.False(t, view.FilterPanelVisible)
}

func TestFilters_DoNotNarrowCardsByDefault(t *testing.T) {
	b := newEnv(engineer(), designer()).board()
	_, err := b.Init(context.Background())
	require.NoError(t, err)

	view := b.AddFilter("Remote")
	assert.Len(t, view.Content.Cards, 2, "filters drive chips only")
}

func TestFilters_NarrowingIsOptIn(t *testing.T) {
	b := newEnv(engineer(), designer()).board(WithNarrowing(true))
	_, err := b.Init(context.Background())
	require.NoError(t, err)

	view := b.AddFilter("Remote")
	require.Len(t, view.Content.Cards, 1)
	assert.Equal(t, "Engineer", view.Content.Cards[0].Title)

	view = b.AddFilter("Figma")
	assert.Empty(t, view.Content.Cards)

	view = b.ClearFilters()
	assert.Len(t, view.Content.Cards, 2)
}

func TestFilters_WorkWhileNotLoaded(t *testing.T) {
	e := newEnv()
	e.fetch.err = errors.New("offline")
	b := e.board(WithNarrowing(true))
	_, err := b.Init(context.Background())
	require.NoError(t, err)

	view := b.AddFilter("Remote")
	assert.True(t, view.FilterPanelVisible)
	assert.Equal(t, render.ErrorMessage, view.Content.Message)
}

func TestDispatch(t *testing.T) {
	b := newEnv(engineer()).board()
	_, err := b.Init(context.Background())
	require.NoError(t, err)

	tag := b.View().Content.Cards[0].Tags[0]
	view, err := b.Dispatch(tag.OnActivate)
	require.NoError(t, err)
	require.Len(t, view.Chips, 1)

	view, err = b.Dispatch(view.Chips[0].Remove)
	require.NoError(t, err)
	assert.Empty(t, view.Chips)

	_, err = b.Dispatch(render.ClearAction)
	require.NoError(t, err)

	_, err = b.Dispatch(render.Action{})
	assert.Error(t, err)
}

// gatedFetcher blocks FetchAll until release is closed
type gatedFetcher struct {
	jobs    []models.JobRecord
	entered chan struct{}
	release chan struct{}
}

func (f *gatedFetcher) FetchAll(ctx context.Context) ([]models.JobRecord, error) {
	close(f.entered)
	select {
	case <-f.release:
		return f.jobs, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func TestFilters_AcceptedWhileFetchInFlight(t *testing.T) {
	e := newEnv()
	f := &gatedFetcher{
		jobs:    []models.JobRecord{engineer()},
		entered: make(chan struct{}),
		release: make(chan struct{}),
	}
	b := New(e.cache, f)

	done := make(chan render.View)
	go func() {
		view, _ := b.Init(context.Background())
		done <- view
	}()
	<-f.entered

	assert.Equal(t, PhaseLoading, b.State().Phase)
	view := b.AddFilter("Remote")
	assert.True(t, view.FilterPanelVisible)
	assert.Equal(t, render.LoadingMessage, view.Content.Message)

	close(f.release)
	select {
	case view = <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("Init did not return")
	}

	assert.Equal(t, PhaseLoaded, b.State().Phase)
	assert.Len(t, view.Content.Cards, 1)
	require.Len(t, view.Chips, 1)
	assert.Equal(t, "Remote", view.Chips[0].Text)
}

func TestState_IsASnapshot(t *testing.T) {
	b := newEnv(engineer()).board()
	_, err := b.Init(context.Background())
	require.NoError(t, err)
	b.AddFilter("Remote")

	snap := b.State()
	snap.Filters.Add("Figma")
	snap.Jobs[0].Title = "mutated"

	assert.Equal(t, []string{"Remote"}, b.State().Filters.Ordered())
	assert.Equal(t, "Engineer", b.State().Jobs[0].Title)
}

func TestPhase_String(t *testing.T) {
	assert.Equal(t, "idle", PhaseIdle.String())
	assert.Equal(t, "loading", PhaseLoading.String())
	assert.Equal(t, "loaded", PhaseLoaded.String())
	assert.Equal(t, "failed", PhaseFailed.String())
}
