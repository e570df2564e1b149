package render

import (
	"bytes"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/HQhanqiZHQ/bmi706-2024-Project/internal/chart"
	"github.com/HQhanqiZHQ/bmi706-2024-Project/internal/dataset"
	"github.com/HQhanqiZHQ/bmi706-2024-Project/internal/model"
)

func sampleTable() dataset.Table {
	var rows []model.Record
	for year := 2000; year <= 2003; year++ {
		for i, age := range []string{"1 to 4", "20 to 24", "85 plus"} {
			for _, sex := range model.SexGroups() {
				for _, race := range []string{model.RaceTotal, "Black", "White"} {
					rows = append(rows, model.Record{
						Year:     year,
						Date:     model.YearDate(year),
						AgeName:  age,
						SexName:  sex,
						RaceName: race,
						Val:      float64(i+1) * 1e-4 * float64(year-1999),
					})
				}
			}
		}
	}
	return dataset.NewTable(rows)
}

func TestPNG_AllCharts(t *testing.T) {
	table := sampleTable()
	specs := []chart.Spec{
		chart.AgeGroup(table),
		chart.TimeSeriesByAge(table),
		chart.TimeSeriesBySex(table),
		chart.TimeSeriesByRace(table),
		chart.Distribution(table, chart.SelectedStyle),
		chart.Distribution(table, chart.OverallStyle),
	}

	for _, spec := range specs {
		t.Run(spec.Name, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, PNG(&buf, spec))

			cfg, err := png.DecodeConfig(bytes.NewReader(buf.Bytes()))
			require.NoError(t, err)
			assert.Greater(t, cfg.Width, cfg.Height/2)
			assert.Greater(t, cfg.Height, 0)
		})
	}
}

func TestPNG_EmptyData(t *testing.T) {
	for _, spec := range []chart.Spec{
		chart.TimeSeriesBySex(dataset.Table{}),
		chart.Distribution(dataset.Table{}, chart.SelectedStyle),
	} {
		var buf bytes.Buffer
		require.NoError(t, PNG(&buf, spec), spec.Name)
		assert.NotZero(t, buf.Len())
	}
}

func TestPlot_UnsupportedMark(t *testing.T) {
	_, err := Plot(chart.Spec{Name: "pie", Mark: chart.Mark{Type: "arc"}})
	assert.ErrorIs(t, err, ErrUnsupportedMark)
}

func TestPlot_LogAxis(t *testing.T) {
	p, err := Plot(chart.Distribution(sampleTable(), chart.OverallStyle))
	require.NoError(t, err)
	assert.Equal(t, chart.LogDomainMin, p.X.Min)
	assert.Equal(t, chart.LogDomainMax, p.X.Max)
	assert.Equal(t, "Log-Transformed Mortality Rates With Zero-Values Omitted", p.X.Label.Text)
}

func TestSeriesColors(t *testing.T) {
	plain := seriesColors(&chart.Channel{}, 3)
	assert.Len(t, plain, 3)
	assert.NotEqual(t, plain[0], plain[1])

	scheme := seriesColors(&chart.Channel{Scale: &chart.Scale{Scheme: "yelloworangered"}}, 5)
	assert.Len(t, scheme, 5)
	assert.Empty(t, seriesColors(nil, 0))
}
