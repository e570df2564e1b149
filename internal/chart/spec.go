// Package chart turns filtered tables into declarative chart specifications.
//
// A Spec describes marks, encodings, scales, sort orders, size, title and interaction
// selectors. Builders never render or perform I/O; Spec.VegaLite encodes a Spec for
// the browser's Vega runtime and package render draws static snapshots.
package chart

import "github.com/HQhanqiZHQ/bmi706-2024-Project/internal/model"

// MarkType is the geometric mark drawn for each datum
type MarkType string

const (
	MarkLine    MarkType = "line"
	MarkBoxplot MarkType = "boxplot"
)

// FieldType is the measurement type of an encoded field
type FieldType string

const (
	Quantitative FieldType = "quantitative"
	Ordinal      FieldType = "ordinal"
	Nominal      FieldType = "nominal"
	Temporal     FieldType = "temporal"
)

// ScaleType names a non-linear scale
type ScaleType string

const (
	ScaleLog ScaleType = "log"
)

// Chart names, stable across API calls and file exports
const (
	NameAgeGroup             = "age_group"
	NameTimeSeriesAge        = "time_series_age"
	NameTimeSeriesSex        = "time_series_sex"
	NameTimeSeriesRace       = "time_series_race"
	NameDistributionSelected = "distribution_selected"
	NameDistributionOverall  = "distribution_overall"
)

// Names lists every chart in page order
func Names() []string {
	return []string{
		NameAgeGroup,
		NameTimeSeriesAge, NameTimeSeriesSex, NameTimeSeriesRace,
		NameDistributionSelected, NameDistributionOverall,
	}
}

// Mark describes the mark and static mark properties
type Mark struct {
	Type  MarkType `json:"type"`
	Point bool     `json:"point,omitempty"` // Overlay points on a line
	Color string   `json:"color,omitempty"` // Static color, used when no color channel is set
}

// Scale overrides the default scale of a channel
type Scale struct {
	Type   ScaleType `json:"type,omitempty"`
	Domain []float64 `json:"domain,omitempty"`
	Scheme string    `json:"scheme,omitempty"`
}

// Channel binds a data field to a visual channel
type Channel struct {
	Field string    `json:"field"`
	Type  FieldType `json:"type"`
	Title string    `json:"title,omitempty"`
	Sort  []string  `json:"sort,omitempty"`
	Scale *Scale    `json:"scale,omitempty"`
}

// Encoding maps fields to channels
type Encoding struct {
	X       *Channel  `json:"x,omitempty"`
	Y       *Channel  `json:"y,omitempty"`
	Color   *Channel  `json:"color,omitempty"`
	Tooltip []Channel `json:"tooltip,omitempty"`
}

// Selection is a single-value selector on Field. When BindLegend is set, clicking a
// legend entry selects that value and the chart shows only the matching series;
// with nothing selected every series is shown.
type Selection struct {
	Name       string `json:"name"`
	Field      string `json:"field"`
	BindLegend bool   `json:"bind_legend"`
}

// Spec is a render-engine-agnostic chart description
type Spec struct {
	Name        string         `json:"name"`
	Title       string         `json:"title"`
	Mark        Mark           `json:"mark"`
	Encoding    Encoding       `json:"encoding"`
	Width       int            `json:"width"`
	Height      int            `json:"height"`
	Selections  []Selection    `json:"selections,omitempty"`
	Interactive bool           `json:"interactive"` // Zoom and pan bound to the scales
	Data        []model.Record `json:"data"`
}
