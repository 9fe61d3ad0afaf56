// Package cache keeps the last fetched job list in session storage for a
// short, fixed window.
package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/pterm/pterm"
	"github.com/tidwall/gjson"

	"github.com/fr4nk3nst1ner/jobboard/internal/logging"
	"github.com/fr4nk3nst1ner/jobboard/internal/models"
	"github.com/fr4nk3nst1ner/jobboard/internal/session"
)

const (
	// DefaultKey is the storage key of the job list entry
	DefaultKey = "jobs"
	// DefaultDuration is how long an entry stays valid
	DefaultDuration = 2000 * time.Millisecond
)

// Store reads and writes CacheEntry values in session storage
type Store struct {
	storage  session.Store
	duration time.Duration
	now      func() time.Time
	logger   *pterm.Logger
}

// Option configures a Store
type Option func(*Store)

// WithDuration sets the validity window
func WithDuration(d time.Duration) Option {
	return func(s *Store) { s.duration = d }
}

// WithClock replaces time.Now
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithLogger sets the diagnostic logger
func WithLogger(l *pterm.Logger) Option {
	return func(s *Store) { s.logger = l }
}

// NewStore wraps storage
func NewStore(storage session.Store, opts ...Option) *Store {
	s := &Store{
		storage:  storage,
		duration: DefaultDuration,
		now:      time.Now,
		logger:   logging.Discard(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Duration returns the validity window
func (s *Store) Duration() time.Duration {
	return s.duration
}

// Read returns the entry under key when present and still valid. An expired
// entry is removed from storage. Storage failures and malformed values read
// as absent.
func (s *Store) Read(ctx context.Context, key string) (models.CacheEntry, bool) {
	raw, ok, err := s.storage.Get(ctx, key)
	if err != nil {
		s.logger.Warn("cache read failed", s.logger.Args("key", key, "error", err))
		return models.CacheEntry{}, false
	}
	if !ok {
		return models.CacheEntry{}, false
	}

	if !gjson.Valid(raw) {
		s.logger.Debug("cache entry is not valid JSON", s.logger.Args("key", key))
		return models.CacheEntry{}, false
	}

	ts := gjson.Get(raw, "timestamp")
	if ts.Type != gjson.Number {
		s.logger.Debug("cache entry has no timestamp", s.logger.Args("key", key))
		return models.CacheEntry{}, false
	}

	stamp := ts.Int()
	if !s.fresh(stamp) {
		if err := s.storage.Remove(ctx, key); err != nil {
			s.logger.Warn("cache remove failed", s.logger.Args("key", key, "error", err))
		}
		s.logger.Debug("cache entry expired", s.logger.Args("key", key, "stored", humanize.Time(time.UnixMilli(stamp))))
		return models.CacheEntry{}, false
	}

	jobs := gjson.Get(raw, "jobs")
	if !jobs.IsArray() {
		s.logger.Debug("cache entry has no job list", s.logger.Args("key", key))
		return models.CacheEntry{}, false
	}

	var entry models.CacheEntry
	if err := json.Unmarshal([]byte(jobs.Raw), &entry.Jobs); err != nil {
		s.logger.Debug("cache entry jobs undecodable", s.logger.Args("key", key, "error", err))
		return models.CacheEntry{}, false
	}
	entry.Timestamp = stamp
	return entry, true
}

// Write stores jobs under key stamped with the current time, replacing any
// previous entry.
func (s *Store) Write(ctx context.Context, key string, jobs []models.JobRecord) {
	if jobs == nil {
		jobs = []models.JobRecord{}
	}
	data, err := json.Marshal(models.CacheEntry{Jobs: jobs, Timestamp: s.now().UnixMilli()})
	if err != nil {
		s.logger.Warn("cache encode failed", s.logger.Args("key", key, "error", err))
		return
	}
	if err := s.storage.Set(ctx, key, string(data)); err != nil {
		s.logger.Warn("cache write failed", s.logger.Args("key", key, "error", err))
		return
	}
	s.logger.Debug("cache written", s.logger.Args("key", key, "jobs", len(jobs), "size", humanize.Bytes(uint64(len(data)))))
}

// fresh is symmetric in time: a stamp slightly in the future is accepted too
func (s *Store) fresh(stamp int64) bool {
	diff := s.now().UnixMilli() - stamp
	if diff < 0 {
		diff = -diff
	}
	return diff < s.duration.Milliseconds()
}
