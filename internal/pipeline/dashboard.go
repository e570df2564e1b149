package pipeline

import (
	"context"
	"encoding/json"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/HQhanqiZHQ/bmi706-2024-Project/internal/chart"
	"github.com/HQhanqiZHQ/bmi706-2024-Project/internal/dataset"
	"github.com/HQhanqiZHQ/bmi706-2024-Project/internal/filter"
	"github.com/HQhanqiZHQ/bmi706-2024-Project/internal/model"
)

// PageTitle heads the dashboard page and every exported report
const PageTitle = "Cirrhosis Mortality Analysis"

// Section anchors
const (
	AnchorLifespan  = "section1"
	AnchorOverTime  = "section2"
	AnchorDisparity = "section3"
)

// Section is one titled block of charts
type Section struct {
	Anchor string       `json:"anchor"`
	Header string       `json:"header"`
	Text   []string     `json:"text"`
	Charts []chart.Spec `json:"-"`
}

// Dashboard is the result of one render pass
type Dashboard struct {
	Title       string    `json:"title"`
	Params      Params    `json:"params"`
	Bounds      Bounds    `json:"bounds"`
	RaceOptions []string  `json:"race_options"`
	Rows        int       `json:"rows"`
	Sections    []Section `json:"sections"`
}

// Chart finds a chart by name
func (d *Dashboard) Chart(name string) (chart.Spec, bool) {
	for _, s := range d.Sections {
		for _, c := range s.Charts {
			if c.Name == name {
				return c, true
			}
		}
	}
	return chart.Spec{}, false
}

// Charts returns every chart in page order
func (d *Dashboard) Charts() []chart.Spec {
	var out []chart.Spec
	for _, s := range d.Sections {
		out = append(out, s.Charts...)
	}
	return out
}

// Run filters t with params and builds every chart. Builders run concurrently,
// at most limit at a time (limit <= 0 means unbounded); a cancelled ctx aborts the pass.
func Run(ctx context.Context, t dataset.Table, params Params, limit int) (*Dashboard, error) {
	p, bounds, err := params.Normalize(t)
	if err != nil {
		return nil, err
	}

	ranged := filter.ByYearRange(t, p.Start, p.End)

	builds := []func() chart.Spec{
		func() chart.Spec {
			return chart.AgeGroup(filter.ForAgeDistribution(ranged, p.Year, p.Races, p.Sex))
		},
		func() chart.Spec { return chart.TimeSeriesByAge(filter.ForTimeSeriesByAge(ranged)) },
		func() chart.Spec { return chart.TimeSeriesBySex(filter.ForTimeSeriesBySex(ranged)) },
		func() chart.Spec { return chart.TimeSeriesByRace(filter.ForTimeSeriesByRace(ranged)) },
		func() chart.Spec {
			return chart.Distribution(filter.ForDistribution(ranged, p.DistAges, p.DistSexes, p.DistRaces), chart.SelectedStyle)
		},
		func() chart.Spec {
			return chart.Distribution(filter.ForDistribution(ranged, nil, nil, nil), chart.OverallStyle)
		},
	}

	specs := make([]chart.Spec, len(builds))
	g, gctx := errgroup.WithContext(ctx)
	if limit > 0 {
		g.SetLimit(limit)
	}
	for i, build := range builds {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			specs[i] = build()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("build charts: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("build charts: %w", err)
	}

	races := filter.UniqueRaces(ranged)
	if races == nil {
		races = []string{}
	}

	return &Dashboard{
		Title:       PageTitle,
		Params:      p,
		Bounds:      bounds,
		RaceOptions: races,
		Rows:        t.Len(),
		Sections: []Section{
			{
				Anchor: AnchorLifespan,
				Header: "Section 1: Distribution of Cirrhosis Across the Lifespan",
				Text: []string{
					"This section shows the distribution of cirrhosis mortality rates across the lifespan.",
					"Use the interactive features to display data corresponding to different years, demographics, and sexes.",
				},
				Charts: specs[0:1],
			},
			{
				Anchor: AnchorOverTime,
				Header: "Section 2: Distribution of Cirrhosis Over Time in Different Subpopulations",
				Text: []string{
					"This section shows how cirrhosis has impacted different subpopulations over the years.",
					"For a more detailed view of a specific subpopulation, click on the subpopulation in its legend.",
				},
				Charts: specs[1:4],
			},
			{
				Anchor: AnchorDisparity,
				Header: "Section 3: Visualizing the Disproportionate Impact of Cirrhosis",
				Text: []string{
					"This section compares the overall mortality rates of cirrhosis to the rates of the selected subpopulations.",
					"Use the interactive tools to select age, sex, and demographic groups.",
					"The distribution of rates within the selected groups will appear in the red boxplot.",
					"For comparison, the overall distribution of rates will appear in the gray boxplot.",
					"Each point in the boxplot represents one year's mortality data from a specific age, sex, and race.",
					"Hover over the boxplots to view descriptive statistics about the distributions.",
				},
				Charts: specs[4:6],
			},
		},
	}, nil
}

// Document is the JSON form of a dashboard with every chart encoded as Vega-Lite
type Document struct {
	*Dashboard
	Sections []DocumentSection `json:"sections"`
}

// DocumentSection carries encoded charts keyed by chart name
type DocumentSection struct {
	Section
	Charts []NamedChart `json:"charts"`
}

// NamedChart pairs a chart name with its Vega-Lite document
type NamedChart struct {
	Name string          `json:"name"`
	Spec json.RawMessage `json:"spec"`
}

// Document encodes every chart of d
func (d *Dashboard) Document(opts ...chart.VegaLiteOption) (*Document, error) {
	doc := &Document{Dashboard: d, Sections: make([]DocumentSection, 0, len(d.Sections))}
	for _, s := range d.Sections {
		ds := DocumentSection{Section: s, Charts: make([]NamedChart, 0, len(s.Charts))}
		for _, c := range s.Charts {
			raw, err := c.VegaLite(opts...)
			if err != nil {
				return nil, err
			}
			ds.Charts = append(ds.Charts, NamedChart{Name: c.Name, Spec: raw})
		}
		doc.Sections = append(doc.Sections, ds)
	}
	return doc, nil
}

// Options lists the choices offered by each selector
type Options struct {
	Sexes     []string `json:"sexes"`
	Ages      []string `json:"ages"`
	DistSexes []string `json:"dist_sexes"`
	DistRaces []string `json:"dist_races"`
}

// SelectorOptions returns the fixed selector choices
func SelectorOptions() Options {
	return Options{
		Sexes:     model.SexOptions(),
		Ages:      model.AgeGroups(),
		DistSexes: model.SubgroupSexes(),
		DistRaces: model.SubgroupRaces(),
	}
}
