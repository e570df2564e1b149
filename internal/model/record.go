package model

import (
	"encoding/json"
	"time"
)

// Record is one row of the mortality dataset
type Record struct {
	Year      int       `json:"-"`          // Calendar year
	Date      time.Time `json:"year"`       // January 1 of Year (temporal axis)
	CauseName string    `json:"cause_name"` // Disease/cause label
	AgeName   string    `json:"age_name"`   // Ordinal age group or an aggregate label
	SexName   string    `json:"sex_name"`   // Both, Male, Female
	RaceName  string    `json:"race_name"`  // Total, AIAN, Asian, Black, Latino, White
	Val       float64   `json:"val"`        // Mortality rate (non-negative)
}

// YearDate returns the temporal key for a calendar year
func YearDate(year int) time.Time {
	return time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
}

// MarshalJSON emits the year as an ISO date so chart engines parse it as temporal data
func (r Record) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Year      string  `json:"year"`
		CauseName string  `json:"cause_name"`
		AgeName   string  `json:"age_name"`
		SexName   string  `json:"sex_name"`
		RaceName  string  `json:"race_name"`
		Val       float64 `json:"val"`
	}{
		Year:      r.Date.Format("2006-01-02"),
		CauseName: r.CauseName,
		AgeName:   r.AgeName,
		SexName:   r.SexName,
		RaceName:  r.RaceName,
		Val:       r.Val,
	})
}
