package worker

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/HQhanqiZHQ/bmi706-2024-Project/internal/pipeline"
)

// Dashboards renders a dashboard for one set of widget values
type Dashboards interface {
	Render(ctx context.Context, params pipeline.Params) (*pipeline.Dashboard, error)
}

// State is a named set of widget values
type State struct {
	Name            string `yaml:"name"`
	pipeline.Params `yaml:",inline"`
}

// StateFile is the batch input document
type StateFile struct {
	States []State `yaml:"states"`
}

// ExportJob renders one state and writes its reports under OutputDir/Name
type ExportJob struct {
	Index      int
	State      State
	Dashboards Dashboards
	Writer     *pipeline.Renderer
	OutputDir  string
	PNG        bool
}

// Execute runs the export
func (j *ExportJob) Execute(ctx context.Context) Result {
	res := &ExportResult{Index: j.Index, Name: j.State.Name}

	d, err := j.Dashboards.Render(ctx, j.State.Params)
	if err != nil {
		res.Error = fmt.Errorf("render %s: %w", j.State.Name, err)
		return res
	}

	dir := filepath.Join(j.OutputDir, j.State.Name)
	jsonPath := filepath.Join(dir, "dashboard.json")
	if err := j.Writer.RenderJSON(d, jsonPath); err != nil {
		res.Error = err
		return res
	}
	res.Files = append(res.Files, jsonPath)

	if j.PNG {
		paths, err := j.Writer.RenderPNG(d, dir)
		res.Files = append(res.Files, paths...)
		if err != nil {
			res.Error = err
			return res
		}
	}

	mdPath := filepath.Join(dir, "dashboard.md")
	if err := j.Writer.RenderMarkdown(d, mdPath, j.PNG); err != nil {
		res.Error = err
		return res
	}
	res.Files = append(res.Files, mdPath)
	return res
}

// ExportResult is the outcome of one ExportJob
type ExportResult struct {
	Index int
	Name  string
	Files []string
	Error error
}

// GetError returns the export error
func (r *ExportResult) GetError() error {
	return r.Error
}

// BatchProcessor exports many states concurrently against one shared dataset
type BatchProcessor struct {
	dashboards  Dashboards
	writer      *pipeline.Renderer
	concurrency int
	outputDir   string
	png         bool
}

// NewBatchProcessor creates a batch processor writing under outputDir
func NewBatchProcessor(dashboards Dashboards, writer *pipeline.Renderer, concurrency int, outputDir string, png bool) *BatchProcessor {
	return &BatchProcessor{
		dashboards:  dashboards,
		writer:      writer,
		concurrency: concurrency,
		outputDir:   outputDir,
		png:         png,
	}
}

// ProcessStates exports every state and returns results in input order
func (b *BatchProcessor) ProcessStates(ctx context.Context, states []State) []*ExportResult {
	if len(states) == 0 {
		return []*ExportResult{}
	}

	pool := NewPool(ctx, b.concurrency)
	pool.Start()

	for i, s := range states {
		pool.Submit(&ExportJob{
			Index:      i,
			State:      s,
			Dashboards: b.dashboards,
			Writer:     b.writer,
			OutputDir:  b.outputDir,
			PNG:        b.png,
		})
	}

	results := pool.Wait()

	out := make([]*ExportResult, 0, len(results))
	for _, r := range results {
		out = append(out, r.(*ExportResult))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Index < out[j].Index })
	return out
}

// ProcessFile reads states from a YAML file and exports them
func (b *BatchProcessor) ProcessFile(ctx context.Context, filePath string) ([]*ExportResult, error) {
	states, err := ReadStatesFromFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("read states: %w", err)
	}
	return b.ProcessStates(ctx, states), nil
}

// ReadStatesFromFile parses a YAML state file. Names must be unique and usable as
// directory names.
func ReadStatesFromFile(filePath string) ([]State, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}

	var f StateFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse %s: %w", filePath, err)
	}

	seen := make(map[string]bool)
	var errs []error
	for i, s := range f.States {
		switch {
		case strings.TrimSpace(s.Name) == "":
			errs = append(errs, fmt.Errorf("state %d: name is required", i))
		case strings.ContainsAny(s.Name, `/\`) || s.Name == "." || s.Name == "..":
			errs = append(errs, fmt.Errorf("state %d: invalid name %q", i, s.Name))
		case seen[s.Name]:
			errs = append(errs, fmt.Errorf("state %d: duplicate name %q", i, s.Name))
		}
		seen[s.Name] = true
	}
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return f.States, nil
}
