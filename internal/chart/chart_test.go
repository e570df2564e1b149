package chart

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/HQhanqiZHQ/bmi706-2024-Project/internal/dataset"
	"github.com/HQhanqiZHQ/bmi706-2024-Project/internal/model"
)

func rec(year int, age, sex, race string, val float64) model.Record {
	return model.Record{
		Year:      year,
		Date:      model.YearDate(year),
		CauseName: "Cirrhosis",
		AgeName:   age,
		SexName:   sex,
		RaceName:  race,
		Val:       val,
	}
}

func TestAgeGroup(t *testing.T) {
	table := dataset.NewTable([]model.Record{
		rec(2010, "20 to 24", model.SexBoth, "White", 0.2),
		rec(2010, "1 to 4", model.SexBoth, "Black", 0.1),
		rec(2010, model.AllAges, model.SexBoth, "Black", 0.5),
		rec(2010, model.AgeStandardized, model.SexBoth, "Asian", 0.4),
		rec(2010, "85 plus", model.SexBoth, model.RaceTotal, 0.9),
	})

	spec := AgeGroup(table)

	assert.Equal(t, NameAgeGroup, spec.Name)
	assert.Equal(t, "Mortality Rates by Age Group and Demographic Group", spec.Title)
	assert.Equal(t, Mark{Type: MarkLine, Point: true}, spec.Mark)
	assert.Equal(t, 600, spec.Width)
	assert.Equal(t, 400, spec.Height)
	assert.True(t, spec.Interactive)

	require.Len(t, spec.Data, 3, "aggregate ages are dropped")
	for _, r := range spec.Data {
		assert.True(t, model.IsOrdinalAge(r.AgeName), r.AgeName)
	}

	want := Encoding{
		X:     &Channel{Field: FieldAge, Type: Ordinal, Title: "Age Group", Sort: model.AgeGroups()},
		Y:     &Channel{Field: FieldVal, Type: Quantitative, Title: "Mortality Rate"},
		Color: &Channel{Field: FieldRace, Type: Nominal, Title: "Racial Group", Sort: []string{model.RaceTotal, "Black", "White"}},
		Tooltip: []Channel{
			{Field: FieldAge, Type: Ordinal},
			{Field: FieldRace, Type: Nominal},
			{Field: FieldVal, Type: Quantitative},
		},
	}
	if diff := cmp.Diff(want, spec.Encoding); diff != "" {
		t.Errorf("encoding mismatch (-want +got):\n%s", diff)
	}
}

func TestAgeGroup_AllRacesKeepFixedOrder(t *testing.T) {
	table := dataset.NewTable([]model.Record{
		rec(2010, "30 to 34", model.SexBoth, "White", 0.6),
		rec(2010, "30 to 34", model.SexBoth, "Asian", 0.3),
		rec(2010, "30 to 34", model.SexBoth, model.RaceTotal, 0.1),
		rec(2010, "30 to 34", model.SexBoth, "Latino", 0.5),
		rec(2010, "30 to 34", model.SexBoth, "AIAN", 0.2),
		rec(2010, "30 to 34", model.SexBoth, "Black", 0.4),
	})

	spec := AgeGroup(table)

	require.NotNil(t, spec.Encoding.Color)
	want := []string{model.RaceTotal, "AIAN", "Asian", "Black", "Latino", "White"}
	if diff := cmp.Diff(want, spec.Encoding.Color.Sort); diff != "" {
		t.Errorf("color sort mismatch (-want +got):\n%s", diff)
	}
	assert.Len(t, spec.Data, 6)
}

func TestTimeSeries(t *testing.T) {
	table := dataset.NewTable([]model.Record{
		rec(2000, "40 to 44", model.SexMale, model.RaceTotal, 0.1),
		rec(2001, "5 to 9", model.SexFemale, "Latino", 0.2),
		rec(2002, "40 to 44", model.SexBoth, "AIAN", 0.3),
	})

	tests := []struct {
		name      string
		build     func(dataset.Table) Spec
		specName  string
		title     string
		field     string
		legend    string
		sort      []string
		scale     *Scale
		selection string
	}{
		{
			name:      "age",
			build:     TimeSeriesByAge,
			specName:  NameTimeSeriesAge,
			title:     "Mortality Rates Over Time Categorized by Age Group",
			field:     FieldAge,
			legend:    "Age Group",
			sort:      []string{"5 to 9", "40 to 44"},
			scale:     &Scale{Scheme: "yelloworangered"},
			selection: "select_age",
		},
		{
			name:      "sex",
			build:     TimeSeriesBySex,
			specName:  NameTimeSeriesSex,
			title:     "Mortality Rates Over Time Categorized by Sex Group",
			field:     FieldSex,
			legend:    "Sex Group",
			sort:      []string{model.SexBoth, model.SexFemale, model.SexMale},
			selection: "select_sex",
		},
		{
			name:      "race",
			build:     TimeSeriesByRace,
			specName:  NameTimeSeriesRace,
			title:     "Mortality Rates Over Time Categorized by Demographic Group",
			field:     FieldRace,
			legend:    "Demographic Group",
			sort:      []string{model.RaceTotal, "AIAN", "Latino"},
			selection: "select_race",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spec := tt.build(table)

			assert.Equal(t, tt.specName, spec.Name)
			assert.Equal(t, tt.title, spec.Title)
			assert.Equal(t, 600, spec.Width)
			assert.Equal(t, 500, spec.Height)
			assert.Equal(t, &Channel{Field: FieldYear, Type: Temporal, Title: "Year"}, spec.Encoding.X)
			assert.Equal(t, "Mortality Rate", spec.Encoding.Y.Title)

			wantColor := &Channel{Field: tt.field, Type: Nominal, Title: tt.legend, Sort: tt.sort, Scale: tt.scale}
			if diff := cmp.Diff(wantColor, spec.Encoding.Color); diff != "" {
				t.Errorf("color channel mismatch (-want +got):\n%s", diff)
			}

			wantSel := []Selection{{Name: tt.selection, Field: tt.field, BindLegend: true}}
			if diff := cmp.Diff(wantSel, spec.Selections); diff != "" {
				t.Errorf("selections mismatch (-want +got):\n%s", diff)
			}
			assert.Len(t, spec.Data, table.Len())
		})
	}
}

func TestDistribution(t *testing.T) {
	table := dataset.NewTable([]model.Record{
		rec(2010, "20 to 24", model.SexFemale, "White", 1e-5),
		rec(2010, "25 to 29", model.SexMale, "Black", 3e-4),
	})

	overall := Distribution(table, OverallStyle)
	selected := Distribution(table, SelectedStyle)

	assert.Equal(t, "grey", overall.Mark.Color)
	assert.Equal(t, "red", selected.Mark.Color)
	assert.Equal(t, MarkBoxplot, overall.Mark.Type)
	assert.Contains(t, overall.Title, "All Combinations")
	assert.Contains(t, selected.Title, "Selected Combinations")
	assert.Equal(t, 200, overall.Height)

	for _, spec := range []Spec{overall, selected} {
		x := spec.Encoding.X
		require.NotNil(t, x)
		assert.Equal(t, FieldVal, x.Field)
		assert.Equal(t, "Log-Transformed Mortality Rates With Zero-Values Omitted", x.Title)
		require.NotNil(t, x.Scale)
		assert.Equal(t, ScaleLog, x.Scale.Type)
		assert.Equal(t, []float64{1e-7, 1e-2}, x.Scale.Domain, "domain is fixed regardless of data")
	}

	empty := Distribution(dataset.Table{}, SelectedStyle)
	assert.Equal(t, []float64{LogDomainMin, LogDomainMax}, empty.Encoding.X.Scale.Domain)
}

func TestBuilders_EmptyTable(t *testing.T) {
	builders := map[string]func(dataset.Table) Spec{
		"age":      AgeGroup,
		"ts_age":   TimeSeriesByAge,
		"ts_sex":   TimeSeriesBySex,
		"ts_race":  TimeSeriesByRace,
		"overall":  func(t dataset.Table) Spec { return Distribution(t, OverallStyle) },
		"selected": func(t dataset.Table) Spec { return Distribution(t, SelectedStyle) },
	}
	for name, build := range builders {
		t.Run(name, func(t *testing.T) {
			spec := build(dataset.Table{})
			assert.NotEmpty(t, spec.Mark.Type)
			assert.NotNil(t, spec.Encoding.X)
			assert.NotNil(t, spec.Data)
			assert.Empty(t, spec.Data)

			raw, err := spec.VegaLite()
			require.NoError(t, err)
			var doc map[string]any
			require.NoError(t, json.Unmarshal(raw, &doc))
			assert.Equal(t, []any{}, doc["data"].(map[string]any)["values"])
		})
	}
}

func TestVegaLite_TimeSeries(t *testing.T) {
	table := dataset.NewTable([]model.Record{
		rec(2001, model.AllAges, model.SexFemale, model.RaceTotal, 0.25),
		rec(2001, model.AllAges, model.SexMale, model.RaceTotal, 0.5),
	})
	raw, err := TimeSeriesBySex(table).VegaLite(WithContainerWidth())
	require.NoError(t, err)

	var doc struct {
		Schema string `json:"$schema"`
		Title  string `json:"title"`
		Width  string `json:"width"`
		Height int    `json:"height"`
		Data   struct {
			Values []map[string]any `json:"values"`
		} `json:"data"`
		Mark struct {
			Type  string `json:"type"`
			Point bool   `json:"point"`
		} `json:"mark"`
		Encoding struct {
			Color struct {
				Field string `json:"field"`
				Scale struct {
					Domain []string `json:"domain"`
				} `json:"scale"`
			} `json:"color"`
			Tooltip []map[string]any `json:"tooltip"`
		} `json:"encoding"`
		Params []struct {
			Name   string         `json:"name"`
			Select map[string]any `json:"select"`
			Bind   any            `json:"bind"`
		} `json:"params"`
		Transform []map[string]map[string]string `json:"transform"`
	}
	require.NoError(t, json.Unmarshal(raw, &doc))

	assert.Equal(t, VegaLiteSchema, doc.Schema)
	assert.Equal(t, "container", doc.Width)
	assert.Equal(t, 500, doc.Height)
	assert.Equal(t, "line", doc.Mark.Type)
	assert.True(t, doc.Mark.Point)

	require.Len(t, doc.Data.Values, 2)
	assert.Equal(t, "2001-01-01", doc.Data.Values[0]["year"])
	assert.Equal(t, "Female", doc.Data.Values[0]["sex_name"])

	assert.Equal(t, FieldSex, doc.Encoding.Color.Field)
	assert.Equal(t, []string{model.SexFemale, model.SexMale}, doc.Encoding.Color.Scale.Domain)
	assert.Len(t, doc.Encoding.Tooltip, 3)

	require.Len(t, doc.Params, 2)
	assert.Equal(t, "select_sex", doc.Params[0].Name)
	assert.Equal(t, "legend", doc.Params[0].Bind)
	assert.Equal(t, "point", doc.Params[0].Select["type"])
	assert.Equal(t, "scales", doc.Params[1].Bind)
	assert.Equal(t, "interval", doc.Params[1].Select["type"])

	require.Len(t, doc.Transform, 1)
	assert.Equal(t, "select_sex", doc.Transform[0]["filter"]["param"])
}

func TestVegaLite_Distribution(t *testing.T) {
	raw, err := Distribution(dataset.NewTable([]model.Record{
		rec(2010, "20 to 24", model.SexFemale, "White", 1e-5),
	}), OverallStyle).VegaLite()
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal(raw, &doc))

	assert.Equal(t, float64(600), doc["width"])
	mark := doc["mark"].(map[string]any)
	assert.Equal(t, "boxplot", mark["type"])
	assert.Equal(t, "grey", mark["color"])

	x := doc["encoding"].(map[string]any)["x"].(map[string]any)
	scale := x["scale"].(map[string]any)
	assert.Equal(t, "log", scale["type"])
	assert.Equal(t, []any{1e-7, 1e-2}, scale["domain"])
	assert.NotContains(t, doc, "transform")
}

func TestVegaLite_InvalidSelection(t *testing.T) {
	spec := Spec{Name: "broken", Mark: Mark{Type: MarkLine}, Selections: []Selection{{Name: "s"}}}
	_, err := spec.VegaLite()
	assert.ErrorContains(t, err, "selection requires name and field")
}

func TestNames(t *testing.T) {
	names := Names()
	assert.Len(t, names, 6)
	names[0] = "mutated"
	assert.Equal(t, NameAgeGroup, Names()[0])
}
