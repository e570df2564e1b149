package dataset

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"github.com/HQhanqiZHQ/bmi706-2024-Project/internal/model"
)

// CSV columns consumed by the dashboard; any other columns are ignored
const (
	ColYear  = "year"
	ColCause = "cause_name"
	ColAge   = "age_name"
	ColSex   = "sex_name"
	ColRace  = "race_name"
	ColVal   = "val"
)

var requiredColumns = []string{ColYear, ColCause, ColAge, ColSex, ColRace, ColVal}

// ParseStats describes what normalization kept and dropped
type ParseStats struct {
	Rows        int // Rows in the CSV
	CauseMatch  int // Rows matching the cause filter
	MissingYear int // Matching rows dropped for an empty year
	MissingVal  int // Matching rows dropped for an empty or non-numeric val
}

// utf8BOM is stripped from the start of the input
const utf8BOM = "\ufeff"

// Values read as a missing year
var missingYears = map[string]bool{"": true, "NA": true, "NaN": true}

// Parse reads a mortality CSV and normalizes it: the year becomes a January 1 date and
// rows are restricted to causes containing causeFilter (case-insensitive). An empty
// causeFilter keeps every cause. Rows without a year or a numeric val are dropped and
// counted; a header-only file yields an empty table.
func Parse(r io.Reader, causeFilter string) (Table, ParseStats, error) {
	var stats ParseStats

	data, err := io.ReadAll(r)
	if err != nil {
		return Table{}, stats, fmt.Errorf("read csv: %w", err)
	}
	data = bytes.TrimPrefix(data, []byte(utf8BOM))

	header, rows, err := peekCSV(data)
	if err != nil {
		return Table{}, stats, fmt.Errorf("read csv: %w", err)
	}
	if missing := missingColumns(header); len(missing) > 0 {
		return Table{}, stats, fmt.Errorf("missing columns: %s", strings.Join(missing, ", "))
	}
	if !rows {
		return Table{}, stats, nil
	}

	df := dataframe.ReadCSV(bytes.NewReader(data),
		dataframe.DetectTypes(false),
		dataframe.WithTypes(map[string]series.Type{
			ColYear: series.String,
			ColVal:  series.Float,
		}),
	)
	if df.Err != nil {
		return Table{}, stats, fmt.Errorf("read csv: %w", df.Err)
	}
	stats.Rows = df.Nrow()

	if causeFilter != "" {
		needle := strings.ToLower(causeFilter)
		df = df.Filter(dataframe.F{
			Colname:    ColCause,
			Comparator: series.CompFunc,
			Comparando: func(el series.Element) bool {
				return strings.Contains(strings.ToLower(el.String()), needle)
			},
		})
		if df.Err != nil {
			return Table{}, stats, fmt.Errorf("filter %s: %w", ColCause, df.Err)
		}
	}
	stats.CauseMatch = df.Nrow()
	if df.Nrow() == 0 {
		return Table{}, stats, nil
	}

	years := df.Col(ColYear)
	vals := df.Col(ColVal).Float()
	causes := df.Col(ColCause).Records()
	ages := df.Col(ColAge).Records()
	sexes := df.Col(ColSex).Records()
	races := df.Col(ColRace).Records()

	records := make([]model.Record, 0, len(vals))
	for i := range vals {
		el := years.Elem(i)
		raw := strings.TrimSpace(el.String())
		if el.IsNA() || missingYears[raw] {
			stats.MissingYear++
			continue
		}
		year, err := strconv.Atoi(raw)
		if err != nil {
			return Table{}, stats, fmt.Errorf("parse %s: row %d: %q is not a year", ColYear, i+1, raw)
		}
		if math.IsNaN(vals[i]) || math.IsInf(vals[i], 0) {
			stats.MissingVal++
			continue
		}
		records = append(records, model.Record{
			Year:      year,
			Date:      model.YearDate(year),
			CauseName: causes[i],
			AgeName:   ages[i],
			SexName:   sexes[i],
			RaceName:  races[i],
			Val:       vals[i],
		})
	}

	return Table{records: records}, stats, nil
}

// peekCSV reads the header and reports whether at least one data row follows.
// gota rejects header-only input, so this runs first.
func peekCSV(data []byte) (header []string, rows bool, err error) {
	cr := csv.NewReader(bytes.NewReader(data))
	cr.FieldsPerRecord = -1
	header, err = cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	_, err = cr.Read()
	if errors.Is(err, io.EOF) {
		return header, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return header, true, nil
}

func missingColumns(names []string) []string {
	have := make(map[string]bool, len(names))
	for _, n := range names {
		have[n] = true
	}
	var missing []string
	for _, c := range requiredColumns {
		if !have[c] {
			missing = append(missing, c)
		}
	}
	return missing
}
