package web

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/HQhanqiZHQ/bmi706-2024-Project/internal/pipeline"
)

// Query keys of the dashboard form
const (
	keyStart    = "start"
	keyEnd      = "end"
	keyYear     = "year"
	keyRace     = "race"
	keySex      = "sex"
	keyDistAge  = "dist_age"
	keyDistSex  = "dist_sex"
	keyDistRace = "dist_race"
	keySection1 = "s1" // present once the Section 1 form has been submitted
	keySection3 = "s3" // present once the Section 3 form has been submitted
)

// parseParams reads widget values from the query string. Absent multiselects fall back
// to their defaults unless the section marker shows the form was submitted, in which
// case an absent key means every option was deselected.
func parseParams(q url.Values) (pipeline.Params, error) {
	var p pipeline.Params
	var err error

	if p.Start, err = intParam(q, keyStart); err != nil {
		return p, err
	}
	if p.End, err = intParam(q, keyEnd); err != nil {
		return p, err
	}
	if p.Year, err = intParam(q, keyYear); err != nil {
		return p, err
	}

	p.Sex = strings.TrimSpace(q.Get(keySex))
	p.Races = listParam(q, keyRace, q.Has(keySection1))

	submitted := q.Has(keySection3)
	p.DistAges = listParam(q, keyDistAge, submitted)
	p.DistSexes = listParam(q, keyDistSex, submitted)
	p.DistRaces = listParam(q, keyDistRace, submitted)
	return p, nil
}

func intParam(q url.Values, key string) (int, error) {
	raw := strings.TrimSpace(q.Get(key))
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: must be an integer year", key, raw)
	}
	return v, nil
}

func listParam(q url.Values, key string, submitted bool) []string {
	values, ok := q[key]
	if !ok {
		if submitted {
			return []string{}
		}
		return nil
	}
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
