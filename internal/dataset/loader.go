package dataset

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/HQhanqiZHQ/bmi706-2024-Project/internal/cache"
	"github.com/HQhanqiZHQ/bmi706-2024-Project/internal/logging"
	"github.com/HQhanqiZHQ/bmi706-2024-Project/internal/model"
)

// Loader fetches and parses the dataset once per source for its lifetime.
// Parsed tables are memoized in memory by the (owner, repo, path, branch) tuple; the raw
// CSV bytes go through a cache.Cache only when a disk directory lets them survive restarts.
type Loader struct {
	fetcher     *Fetcher
	tables      *cache.MemoryCache[Table]
	bytes       cache.Cache
	baseURL     string
	causeFilter string
	logger      *slog.Logger

	group singleflight.Group
}

// NewLoader creates a Loader from configuration
func NewLoader(cfg *model.Config, logger *slog.Logger) *Loader {
	if logger == nil {
		logger = logging.Discard()
	}
	fetcher := NewFetcher(cfg.HTTP)
	fetcher.logger = logger
	return &Loader{
		fetcher:     fetcher,
		tables:      cache.NewMemoryCache[Table](cfg.Cache.MemoryTTL, 10*time.Minute),
		bytes:       cache.New(cfg.Cache),
		baseURL:     cfg.HTTP.BaseURL,
		causeFilter: cfg.Load.CauseFilter,
		logger:      logger,
	}
}

// Load returns the normalized table for src. Every failure is a *LoadError.
func (l *Loader) Load(ctx context.Context, src model.Source) (Table, error) {
	key := cache.KeyFor(src)
	if t, ok := l.tables.Get(key); ok {
		return t, nil
	}

	v, err, _ := l.group.Do(key, func() (any, error) {
		return l.load(ctx, src)
	})
	if err != nil {
		return Table{}, err
	}
	return v.(Table), nil
}

// Invalidate forgets the memoized table and cached bytes for src
func (l *Loader) Invalidate(src model.Source) {
	key := cache.KeyFor(src)
	_ = l.tables.Delete(key)
	if err := l.bytes.Delete(key); err != nil {
		logging.LogError(l.logger, "failed to invalidate dataset cache", err,
			slog.String("source", src.String()))
	}
}

func (l *Loader) load(ctx context.Context, src model.Source) (Table, error) {
	start := time.Now()
	key := cache.KeyFor(src)

	raw, cached := l.bytes.Get(key)
	if !cached {
		u, err := SourceURL(l.baseURL, src)
		if err != nil {
			return Table{}, &LoadError{Source: src, Op: OpFetch, Err: err}
		}
		raw, err = l.fetcher.FetchWithRetry(ctx, u)
		if err != nil {
			logging.LogError(l.logger, "dataset fetch failed", err,
				slog.String("source", src.String()),
				slog.String("component", "dataset"))
			return Table{}, &LoadError{Source: src, Op: OpFetch, Err: err}
		}
	}

	t, stats, err := Parse(bytes.NewReader(raw), l.causeFilter)
	if err != nil {
		if cached {
			_ = l.bytes.Delete(key)
		}
		logging.LogError(l.logger, "dataset parse failed", err,
			slog.String("source", src.String()),
			slog.String("component", "dataset"))
		return Table{}, &LoadError{Source: src, Op: OpParse, Err: err}
	}

	if !cached {
		if err := l.bytes.Set(key, raw, 0); err != nil {
			logging.LogError(l.logger, "failed to cache dataset", err,
				slog.String("source", src.String()))
		}
	}

	_ = l.tables.Set(key, t, 0)
	memoHits, memoMisses := l.tables.Stats()

	logging.LogOperation(l.logger, "dataset_loaded",
		slog.String("source", src.String()),
		slog.Bool("from_cache", cached),
		slog.Int("csv_rows", stats.Rows),
		slog.Int("cause_rows", stats.CauseMatch),
		slog.Int("dropped_missing_year", stats.MissingYear),
		slog.Int("dropped_missing_val", stats.MissingVal),
		slog.Int("rows", t.Len()),
		slog.Int64("memo_hits", memoHits),
		slog.Int64("memo_misses", memoMisses),
		slog.Duration("duration", time.Since(start)))

	return t, nil
}

// IsLoadError reports whether err is a dataset load failure
func IsLoadError(err error) bool {
	var le *LoadError
	return errors.As(err, &le)
}
