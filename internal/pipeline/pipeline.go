// Package pipeline runs the load, filter and build stages of one dashboard render pass
// and writes the results as JSON, Markdown and PNG reports.
package pipeline

import (
	"context"
	"log/slog"
	"time"

	"github.com/HQhanqiZHQ/bmi706-2024-Project/internal/dataset"
	"github.com/HQhanqiZHQ/bmi706-2024-Project/internal/logging"
	"github.com/HQhanqiZHQ/bmi706-2024-Project/internal/model"
)

// TableLoader loads and memoizes the dataset for a source
type TableLoader interface {
	Load(ctx context.Context, src model.Source) (dataset.Table, error)
	Invalidate(src model.Source)
}

// Pipeline orchestrates a render pass against the configured source
type Pipeline struct {
	loader TableLoader
	source model.Source
	limit  int
	logger *slog.Logger
}

// NewPipeline creates a pipeline with a memoizing dataset loader
func NewPipeline(cfg *model.Config, logger *slog.Logger) *Pipeline {
	return NewWithLoader(cfg, dataset.NewLoader(cfg, logger), logger)
}

// NewWithLoader creates a pipeline around an existing loader
func NewWithLoader(cfg *model.Config, loader TableLoader, logger *slog.Logger) *Pipeline {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Pipeline{
		loader: loader,
		source: cfg.Source,
		limit:  cfg.Concurrency.ChartBuilds,
		logger: logger,
	}
}

// Source returns the dataset location
func (p *Pipeline) Source() model.Source {
	return p.source
}

// Table returns the memoized dataset
func (p *Pipeline) Table(ctx context.Context) (dataset.Table, error) {
	return p.loader.Load(ctx, p.source)
}

// Render loads the dataset and builds the dashboard for params.
// Load failures are returned unchanged so callers can detect a *dataset.LoadError.
func (p *Pipeline) Render(ctx context.Context, params Params) (*Dashboard, error) {
	start := time.Now()

	t, err := p.Table(ctx)
	if err != nil {
		return nil, err
	}

	d, err := Run(ctx, t, params, p.limit)
	if err != nil {
		return nil, err
	}

	logging.LogOperation(p.logger, "render_pass",
		slog.Int("rows", t.Len()),
		slog.Int("start", d.Params.Start),
		slog.Int("end", d.Params.End),
		slog.Int("year", d.Params.Year),
		slog.Duration("duration", time.Since(start)))
	return d, nil
}

// Reload drops the memoized dataset so the next pass fetches it again
func (p *Pipeline) Reload() {
	p.loader.Invalidate(p.source)
	logging.LogOperation(p.logger, "dataset_invalidated", slog.String("source", p.source.String()))
}
