// Package filter subsets the mortality table into the views each chart consumes.
//
// Every function is pure: it never fails, never mutates its input and returns a new
// Table. Empty inputs and empty selections produce empty tables.
package filter

import (
	"github.com/HQhanqiZHQ/bmi706-2024-Project/internal/dataset"
	"github.com/HQhanqiZHQ/bmi706-2024-Project/internal/model"
)

// ByYearRange keeps rows with start <= year <= end. It is the first stage shared by all charts.
func ByYearRange(t dataset.Table, start, end int) dataset.Table {
	return t.Filter(func(r model.Record) bool {
		return r.Year >= start && r.Year <= end
	})
}

// ForAgeDistribution keeps rows for exactly one year, the given races and one sex.
// Aggregate ages are left in place; the age chart drops them when it is built.
func ForAgeDistribution(t dataset.Table, year int, races []string, sex string) dataset.Table {
	raceSet := newSet(races)
	return t.Filter(func(r model.Record) bool {
		return r.Year == year && raceSet.has(r.RaceName) && r.SexName == sex
	})
}

// ForTimeSeriesByAge keeps the Total/Both rows for every ordinal age group
func ForTimeSeriesByAge(t dataset.Table) dataset.Table {
	return t.Filter(func(r model.Record) bool {
		return r.RaceName == model.RaceTotal && r.SexName == model.SexBoth && model.IsOrdinalAge(r.AgeName)
	})
}

// ForTimeSeriesBySex keeps the All Ages/Total rows for every sex
func ForTimeSeriesBySex(t dataset.Table) dataset.Table {
	return t.Filter(func(r model.Record) bool {
		return r.AgeName == model.AllAges && r.RaceName == model.RaceTotal
	})
}

// ForTimeSeriesByRace keeps the All Ages/Both rows for every race
func ForTimeSeriesByRace(t dataset.Table) dataset.Table {
	return t.Filter(func(r model.Record) bool {
		return r.AgeName == model.AllAges && r.SexName == model.SexBoth
	})
}

// ForDistribution keeps only fully disaggregated, non-zero rows: no Total race, no
// All Ages or Age-standardized age, no Both sex and no zero value (the box plots use a
// log scale). The remaining rows are intersected with each selection; a nil selection
// applies no restriction while an empty one removes every row.
func ForDistribution(t dataset.Table, ages, sexes, races []string) dataset.Table {
	ageSet, sexSet, raceSet := newSet(ages), newSet(sexes), newSet(races)
	return t.Filter(func(r model.Record) bool {
		switch {
		case r.RaceName == model.RaceTotal:
			return false
		case r.AgeName == model.AllAges || r.AgeName == model.AgeStandardized:
			return false
		case r.SexName == model.SexBoth:
			return false
		case r.Val == 0:
			return false
		}
		return (ages == nil || ageSet.has(r.AgeName)) &&
			(sexes == nil || sexSet.has(r.SexName)) &&
			(races == nil || raceSet.has(r.RaceName))
	})
}

// YearBounds returns the smallest and largest year; ok is false for an empty table
func YearBounds(t dataset.Table) (first, last int, ok bool) {
	t.Each(func(r model.Record) {
		if !ok {
			first, last, ok = r.Year, r.Year, true
			return
		}
		if r.Year < first {
			first = r.Year
		}
		if r.Year > last {
			last = r.Year
		}
	})
	return first, last, ok
}

// UniqueRaces lists the races present in first-seen order
func UniqueRaces(t dataset.Table) []string {
	return unique(t, func(r model.Record) string { return r.RaceName })
}

// Present restricts order to the values found in column of t, keeping order's sequence
func Present(order []string, t dataset.Table, column func(model.Record) string) []string {
	seen := newSet(unique(t, column))
	out := make([]string, 0, len(order))
	for _, v := range order {
		if seen.has(v) {
			out = append(out, v)
		}
	}
	return out
}

func unique(t dataset.Table, column func(model.Record) string) []string {
	var out []string
	seen := make(map[string]bool)
	t.Each(func(r model.Record) {
		v := column(r)
		if !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	})
	return out
}

type set map[string]struct{}

func newSet(values []string) set {
	s := make(set, len(values))
	for _, v := range values {
		s[v] = struct{}{}
	}
	return s
}

func (s set) has(v string) bool {
	_, ok := s[v]
	return ok
}
