package pipeline

import (
	"fmt"

	"github.com/HQhanqiZHQ/bmi706-2024-Project/internal/dataset"
	"github.com/HQhanqiZHQ/bmi706-2024-Project/internal/filter"
	"github.com/HQhanqiZHQ/bmi706-2024-Project/internal/model"
)

// Params are the widget values of one render pass.
// A nil slice means "use the default"; a non-nil empty slice means the user
// deselected every option and yields empty charts.
type Params struct {
	Start     int      `json:"start" yaml:"start,omitempty"`
	End       int      `json:"end" yaml:"end,omitempty"`
	Year      int      `json:"year" yaml:"year,omitempty"`
	Races     []string `json:"races" yaml:"races,omitempty"`
	Sex       string   `json:"sex" yaml:"sex,omitempty"`
	DistAges  []string `json:"dist_ages" yaml:"dist_ages,omitempty"`
	DistSexes []string `json:"dist_sexes" yaml:"dist_sexes,omitempty"`
	DistRaces []string `json:"dist_races" yaml:"dist_races,omitempty"`
}

// Bounds is the year extent of the loaded table
type Bounds struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

// Normalize validates p and fills defaults from t.
// Year values are clamped into the table's extent and the single year into the range.
func (p Params) Normalize(t dataset.Table) (Params, Bounds, error) {
	if p.Sex != "" && !model.IsSexOption(p.Sex) {
		return Params{}, Bounds{}, fmt.Errorf("invalid sex %q: want one of %v", p.Sex, model.SexOptions())
	}

	first, last, ok := filter.YearBounds(t)
	b := Bounds{Min: first, Max: last}

	out := p
	if ok {
		if out.Start == 0 {
			out.Start = b.Min
		}
		if out.End == 0 {
			out.End = b.Max
		}
		out.Start = clamp(out.Start, b.Min, b.Max)
		out.End = clamp(out.End, b.Min, b.Max)
	}
	if out.Start > out.End {
		out.Start, out.End = out.End, out.Start
	}
	if out.Year == 0 {
		out.Year = out.Start
	}
	out.Year = clamp(out.Year, out.Start, out.End)

	if out.Races == nil {
		out.Races = filter.UniqueRaces(filter.ByYearRange(t, out.Start, out.End))
		if out.Races == nil {
			out.Races = []string{}
		}
	}
	if out.Sex == "" {
		out.Sex = model.SexBoth
	}
	if out.DistAges == nil {
		out.DistAges = model.AgeGroups()
	}
	if out.DistSexes == nil {
		out.DistSexes = model.SubgroupSexes()
	}
	if out.DistRaces == nil {
		out.DistRaces = model.SubgroupRaces()
	}
	return out, b, nil
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
