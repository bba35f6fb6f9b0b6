package store

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/swellmap/windlayer/field"
	"github.com/swellmap/windlayer/geo"
)

// Options configures a Store.
type Options struct {
	Debounce       time.Duration
	MaxAttempts    int
	InitialBackoff time.Duration
	MaxBackoff     time.Duration
	FetchTimeout   time.Duration
	// BBoxKeyDigits is the rounding used for the dedup key.
	BBoxKeyDigits int
}

// Store owns the current sample set. Poke it on every viewport change;
// it debounces until the viewport settles, skips fetches whose rounded
// bbox+zoom key matches the last success, retries failures with capped
// backoff, and never replaces good samples with nothing.
type Store struct {
	fetcher Fetcher
	clock   clockwork.Clock
	logger  *slog.Logger
	opts    Options

	mu         sync.Mutex
	samples    []field.GridSample
	bounds     geo.Bounds
	generation uint64
	lastKey    string
	fetchedAt  time.Time
	active     bool

	reqSeq        uint64
	debounceTimer clockwork.Timer

	ctx    context.Context
	cancel context.CancelFunc
}

// New creates a Store. clock is injectable for tests; pass
// clockwork.NewRealClock() in production.
func New(fetcher Fetcher, clock clockwork.Clock, logger *slog.Logger, opts Options) *Store {
	ctx, cancel := context.WithCancel(context.Background())
	return &Store{
		fetcher: fetcher,
		clock:   clock,
		logger:  logger,
		opts:    opts,
		active:  true,
		ctx:     ctx,
		cancel:  cancel,
	}
}

// Current returns the latest sample set, its bounds and generation.
// The slice is replaced atomically per fetch, never mutated in place,
// so callers may hold it across frames.
func (s *Store) Current() ([]field.GridSample, geo.Bounds, uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.samples, s.bounds, s.generation
}

// FetchedAt returns when the current samples arrived.
func (s *Store) FetchedAt() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fetchedAt
}

// SetActive marks the overlay visible or hidden. Responses arriving
// while hidden are discarded.
func (s *Store) SetActive(active bool) {
	s.mu.Lock()
	s.active = active
	s.mu.Unlock()
}

// Poke notifies the store of a viewport change. The actual fetch fires
// once the viewport has been quiet for the debounce window; repeated
// pokes with the same rounded key are ignored entirely.
func (s *Store) Poke(b geo.Bounds, zoom float64) {
	key := s.key(b, zoom)

	s.mu.Lock()
	defer s.mu.Unlock()

	if key == s.lastKey {
		// Back on the already-fetched viewport: anything armed or in
		// flight for another key must not land on top of it.
		s.reqSeq++
		if s.debounceTimer != nil {
			s.debounceTimer.Stop()
		}
		return
	}
	// New target: any in-flight response for the old one is stale.
	s.reqSeq++
	seq := s.reqSeq

	if s.debounceTimer != nil {
		s.debounceTimer.Stop()
	}
	s.debounceTimer = s.clock.AfterFunc(s.opts.Debounce, func() {
		go s.refresh(b, key, seq)
	})
}

// Close stops any pending fetch work.
func (s *Store) Close() {
	s.cancel()
	s.mu.Lock()
	if s.debounceTimer != nil {
		s.debounceTimer.Stop()
	}
	s.mu.Unlock()
}

func (s *Store) key(b geo.Bounds, zoom float64) string {
	d := s.opts.BBoxKeyDigits
	return fmt.Sprintf("%.*f,%.*f,%.*f,%.*f@%.0f",
		d, b.South, d, b.North, d, b.West, d, b.East, zoom)
}

// refresh runs the attempt loop off the frame thread. Rendering keeps
// going against the last-known samples the whole time.
func (s *Store) refresh(b geo.Bounds, key string, seq uint64) {
	backoff := s.opts.InitialBackoff

	for attempt := 1; attempt <= s.opts.MaxAttempts; attempt++ {
		if s.stale(seq) {
			return
		}

		ctx, cancel := context.WithTimeout(s.ctx, s.opts.FetchTimeout)
		points, err := s.fetcher.Fetch(ctx, b)
		cancel()

		switch {
		case err != nil:
			s.logger.Warn("grid-weather fetch failed",
				"attempt", attempt, "key", key, "error", err)
		case len(points) == 0:
			// Treated like a failure: an empty set must not clear a
			// populated display.
			s.logger.Warn("grid-weather returned no points",
				"attempt", attempt, "key", key)
		default:
			s.apply(points, b, key, seq)
			return
		}

		if attempt < s.opts.MaxAttempts {
			if !s.sleep(backoff) {
				return
			}
			backoff *= 2
			if backoff > s.opts.MaxBackoff {
				backoff = s.opts.MaxBackoff
			}
		}
	}
	s.logger.Warn("grid-weather refresh exhausted, keeping previous samples",
		"key", key, "attempts", s.opts.MaxAttempts)
}

func (s *Store) apply(points []field.GridSample, b geo.Bounds, key string, seq uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if seq != s.reqSeq || !s.active {
		// Viewport moved on, or overlay hidden: drop the response.
		return
	}
	s.samples = points
	s.bounds = b
	s.lastKey = key
	s.generation++
	s.fetchedAt = s.clock.Now()
	s.logger.Info("grid-weather samples replaced",
		"points", len(points), "generation", s.generation, "key", key)
}

func (s *Store) stale(seq uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return seq != s.reqSeq
}

func (s *Store) sleep(d time.Duration) bool {
	select {
	case <-s.ctx.Done():
		return false
	case <-s.clock.After(d):
		return true
	}
}
