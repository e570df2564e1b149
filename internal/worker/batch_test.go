package worker

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/HQhanqiZHQ/bmi706-2024-Project/internal/dataset"
	"github.com/HQhanqiZHQ/bmi706-2024-Project/internal/model"
	"github.com/HQhanqiZHQ/bmi706-2024-Project/internal/pipeline"
)

// mockDashboards renders against a fixed table and records the params it saw
type mockDashboards struct {
	table dataset.Table
	fail  map[int]bool // fail when Params.Year matches

	mu   sync.Mutex
	seen []pipeline.Params
}

func (m *mockDashboards) Render(ctx context.Context, params pipeline.Params) (*pipeline.Dashboard, error) {
	m.mu.Lock()
	m.seen = append(m.seen, params)
	m.mu.Unlock()
	if m.fail[params.Year] {
		return nil, errors.New("render error")
	}
	return pipeline.Run(ctx, m.table, params, 0)
}

func testTable() dataset.Table {
	var rows []model.Record
	for year := 2015; year <= 2017; year++ {
		for _, sex := range model.SexGroups() {
			for _, race := range []string{model.RaceTotal, "Latino"} {
				rows = append(rows,
					model.Record{Year: year, Date: model.YearDate(year), AgeName: model.AllAges, SexName: sex, RaceName: race, Val: 1e-4},
					model.Record{Year: year, Date: model.YearDate(year), AgeName: "60 to 64", SexName: sex, RaceName: race, Val: 3e-4},
				)
			}
		}
	}
	return dataset.NewTable(rows)
}

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "states.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestBatchProcessor_ProcessStates(t *testing.T) {
	dash := &mockDashboards{table: testTable()}
	out := t.TempDir()
	processor := NewBatchProcessor(dash, pipeline.NewRenderer(false), 2, out, false)

	states := []State{
		{Name: "all"},
		{Name: "latino-2016", Params: pipeline.Params{Year: 2016, Races: []string{"Latino"}}},
		{Name: "male", Params: pipeline.Params{Sex: model.SexMale}},
	}
	results := processor.ProcessStates(context.Background(), states)

	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}
	for i, res := range results {
		if res.Name != states[i].Name {
			t.Errorf("result %d: expected %s, got %s", i, states[i].Name, res.Name)
		}
		if res.Error != nil {
			t.Errorf("unexpected error for %s: %v", res.Name, res.Error)
			continue
		}
		if len(res.Files) != 2 {
			t.Errorf("%s: expected json and markdown, got %v", res.Name, res.Files)
		}
		for _, f := range res.Files {
			if _, err := os.Stat(f); err != nil {
				t.Errorf("missing output %s: %v", f, err)
			}
			if !strings.HasPrefix(f, filepath.Join(out, res.Name)) {
				t.Errorf("output %s outside %s", f, res.Name)
			}
		}
	}
}

func TestBatchProcessor_PNG(t *testing.T) {
	processor := NewBatchProcessor(&mockDashboards{table: testTable()}, pipeline.NewRenderer(false), 1, t.TempDir(), true)

	results := processor.ProcessStates(context.Background(), []State{{Name: "snap"}})
	if results[0].Error != nil {
		t.Fatalf("unexpected error: %v", results[0].Error)
	}
	// json + six charts + markdown
	if len(results[0].Files) != 8 {
		t.Errorf("expected 8 files, got %d: %v", len(results[0].Files), results[0].Files)
	}
}

func TestBatchProcessor_Error(t *testing.T) {
	dash := &mockDashboards{table: testTable(), fail: map[int]bool{2016: true}}
	processor := NewBatchProcessor(dash, pipeline.NewRenderer(false), 2, t.TempDir(), false)

	results := processor.ProcessStates(context.Background(), []State{
		{Name: "ok", Params: pipeline.Params{Year: 2015}},
		{Name: "broken", Params: pipeline.Params{Year: 2016}},
	})
	if results[0].GetError() != nil {
		t.Errorf("expected success, got %v", results[0].GetError())
	}
	if results[1].GetError() == nil || !strings.Contains(results[1].GetError().Error(), "render broken") {
		t.Errorf("expected render error, got %v", results[1].GetError())
	}
	if len(results[1].Files) != 0 {
		t.Errorf("expected no files for failed state, got %v", results[1].Files)
	}
}

func TestBatchProcessor_Empty(t *testing.T) {
	processor := NewBatchProcessor(&mockDashboards{}, pipeline.NewRenderer(false), 2, t.TempDir(), false)
	if results := processor.ProcessStates(context.Background(), nil); len(results) != 0 {
		t.Errorf("expected 0 results, got %d", len(results))
	}
}

func TestReadStatesFromFile(t *testing.T) {
	path := writeFile(t, `
states:
  - name: default
  - name: early-female
    start: 2015
    end: 2016
    year: 2016
    sex: Female
    races: [Total, Latino]
  - name: nothing-selected
    dist_ages: []
`)

	states, err := ReadStatesFromFile(path)
	if err != nil {
		t.Fatalf("ReadStatesFromFile failed: %v", err)
	}
	if len(states) != 3 {
		t.Fatalf("expected 3 states, got %d", len(states))
	}

	if states[0].Races != nil || states[0].Start != 0 {
		t.Errorf("expected zero params for default, got %+v", states[0].Params)
	}
	early := states[1]
	if early.Start != 2015 || early.End != 2016 || early.Year != 2016 || early.Sex != model.SexFemale {
		t.Errorf("unexpected params: %+v", early.Params)
	}
	if strings.Join(early.Races, ",") != "Total,Latino" {
		t.Errorf("unexpected races: %v", early.Races)
	}
	if states[2].DistAges == nil || len(states[2].DistAges) != 0 {
		t.Errorf("expected explicit empty selection, got %#v", states[2].DistAges)
	}
	if states[2].DistSexes != nil {
		t.Errorf("expected default dist sexes, got %#v", states[2].DistSexes)
	}
}

func TestReadStatesFromFile_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"missing name", "states:\n  - year: 2015\n", "name is required"},
		{"duplicate", "states:\n  - name: a\n  - name: a\n", `duplicate name "a"`},
		{"path", "states:\n  - name: ../escape\n", "invalid name"},
		{"yaml", "states: [", "parse"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadStatesFromFile(writeFile(t, tt.content))
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("expected error containing %q, got %v", tt.want, err)
			}
		})
	}
}

func TestBatchProcessor_ProcessFile(t *testing.T) {
	processor := NewBatchProcessor(&mockDashboards{table: testTable()}, pipeline.NewRenderer(false), 2, t.TempDir(), false)

	results, err := processor.ProcessFile(context.Background(), writeFile(t, "states:\n  - name: a\n  - name: b\n"))
	if err != nil {
		t.Fatalf("ProcessFile failed: %v", err)
	}
	if len(results) != 2 {
		t.Errorf("expected 2 results, got %d", len(results))
	}

	if _, err := processor.ProcessFile(context.Background(), "no_such_file.yaml"); err == nil {
		t.Error("expected error for non-existent file, got nil")
	}

	empty, err := processor.ProcessFile(context.Background(), writeFile(t, ""))
	if err != nil {
		t.Fatalf("ProcessFile on empty file failed: %v", err)
	}
	if len(empty) != 0 {
		t.Errorf("expected 0 results for empty file, got %d", len(empty))
	}
}
