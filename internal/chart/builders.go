package chart

import (
	"github.com/HQhanqiZHQ/bmi706-2024-Project/internal/dataset"
	"github.com/HQhanqiZHQ/bmi706-2024-Project/internal/filter"
	"github.com/HQhanqiZHQ/bmi706-2024-Project/internal/model"
)

// Log-scale domain shared by both distribution box plots
const (
	LogDomainMin = 1e-7
	LogDomainMax = 1e-2
)

// Field names as they appear in chart data
const (
	FieldYear = "year"
	FieldAge  = "age_name"
	FieldSex  = "sex_name"
	FieldRace = "race_name"
	FieldVal  = "val"
)

func ageOf(r model.Record) string  { return r.AgeName }
func sexOf(r model.Record) string  { return r.SexName }
func raceOf(r model.Record) string { return r.RaceName }

// AgeGroup plots mortality across the ordinal age groups, one line per race.
// Aggregate age rows are dropped here rather than in the filter stage.
func AgeGroup(t dataset.Table) Spec {
	data := t.Filter(func(r model.Record) bool { return model.IsOrdinalAge(r.AgeName) })

	return Spec{
		Name:  NameAgeGroup,
		Title: "Mortality Rates by Age Group and Demographic Group",
		Mark:  Mark{Type: MarkLine, Point: true},
		Encoding: Encoding{
			X:     &Channel{Field: FieldAge, Type: Ordinal, Title: "Age Group", Sort: model.AgeGroups()},
			Y:     rateChannel(),
			Color: &Channel{Field: FieldRace, Type: Nominal, Title: "Racial Group", Sort: filter.Present(model.RaceGroups(), data, raceOf)},
			Tooltip: []Channel{
				{Field: FieldAge, Type: Ordinal},
				{Field: FieldRace, Type: Nominal},
				{Field: FieldVal, Type: Quantitative},
			},
		},
		Width:       600,
		Height:      400,
		Interactive: true,
		Data:        rows(data),
	}
}

type seriesDim struct {
	name      string
	title     string
	field     string
	legend    string
	order     []string
	scheme    string
	column    func(model.Record) string
	selection string
}

// TimeSeriesByAge plots one line per ordinal age group over time
func TimeSeriesByAge(t dataset.Table) Spec {
	return timeSeries(t, seriesDim{
		name:      NameTimeSeriesAge,
		title:     "Mortality Rates Over Time Categorized by Age Group",
		field:     FieldAge,
		legend:    "Age Group",
		order:     model.AgeGroups(),
		scheme:    "yelloworangered",
		column:    ageOf,
		selection: "select_age",
	})
}

// TimeSeriesBySex plots one line per sex over time
func TimeSeriesBySex(t dataset.Table) Spec {
	return timeSeries(t, seriesDim{
		name:      NameTimeSeriesSex,
		title:     "Mortality Rates Over Time Categorized by Sex Group",
		field:     FieldSex,
		legend:    "Sex Group",
		order:     model.SexGroups(),
		column:    sexOf,
		selection: "select_sex",
	})
}

// TimeSeriesByRace plots one line per race over time
func TimeSeriesByRace(t dataset.Table) Spec {
	return timeSeries(t, seriesDim{
		name:      NameTimeSeriesRace,
		title:     "Mortality Rates Over Time Categorized by Demographic Group",
		field:     FieldRace,
		legend:    "Demographic Group",
		order:     model.RaceGroups(),
		column:    raceOf,
		selection: "select_race",
	})
}

func timeSeries(t dataset.Table, dim seriesDim) Spec {
	color := &Channel{
		Field: dim.field,
		Type:  Nominal,
		Title: dim.legend,
		Sort:  filter.Present(dim.order, t, dim.column),
	}
	if dim.scheme != "" {
		color.Scale = &Scale{Scheme: dim.scheme}
	}

	return Spec{
		Name:  dim.name,
		Title: dim.title,
		Mark:  Mark{Type: MarkLine, Point: true},
		Encoding: Encoding{
			X:     &Channel{Field: FieldYear, Type: Temporal, Title: "Year"},
			Y:     rateChannel(),
			Color: color,
			Tooltip: []Channel{
				{Field: FieldYear, Type: Temporal},
				{Field: dim.field, Type: Nominal},
				{Field: FieldVal, Type: Quantitative},
			},
		},
		Width:       600,
		Height:      500,
		Selections:  []Selection{{Name: dim.selection, Field: dim.field, BindLegend: true}},
		Interactive: true,
		Data:        rows(t),
	}
}

// BoxStyle parameterizes the distribution box plot
type BoxStyle struct {
	Name  string
	Title string
	Color string
}

var (
	// OverallStyle draws every subpopulation combination in grey
	OverallStyle = BoxStyle{
		Name:  NameDistributionOverall,
		Title: "Distribution of Cirrhosis Mortality Data from All Combinations of Subpopulation Groups",
		Color: "grey",
	}
	// SelectedStyle draws the user's selected combinations in red
	SelectedStyle = BoxStyle{
		Name:  NameDistributionSelected,
		Title: "Distribution of Cirrhosis Mortality Data from the Selected Combinations of Subpopulation Groups",
		Color: "red",
	}
)

// Distribution draws a horizontal box plot of val on a fixed log domain.
// Zero values must have been removed by filter.ForDistribution.
func Distribution(t dataset.Table, style BoxStyle) Spec {
	return Spec{
		Name:  style.Name,
		Title: style.Title,
		Mark:  Mark{Type: MarkBoxplot, Color: style.Color},
		Encoding: Encoding{
			X: &Channel{
				Field: FieldVal,
				Type:  Quantitative,
				Title: "Log-Transformed Mortality Rates With Zero-Values Omitted",
				Scale: &Scale{Type: ScaleLog, Domain: []float64{LogDomainMin, LogDomainMax}},
			},
		},
		Width:       600,
		Height:      200,
		Interactive: true,
		Data:        rows(t),
	}
}

func rateChannel() *Channel {
	return &Channel{Field: FieldVal, Type: Quantitative, Title: "Mortality Rate"}
}

// rows never returns nil so an empty chart still serializes its data as []
func rows(t dataset.Table) []model.Record {
	r := t.Records()
	if r == nil {
		return []model.Record{}
	}
	return r
}
