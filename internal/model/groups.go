package model

// Aggregate labels that never appear on an ordinal axis
const (
	AllAges         = "All Ages"
	AgeStandardized = "Age-standardized"
	RaceTotal       = "Total"
	SexBoth         = "Both"
	SexFemale       = "Female"
	SexMale         = "Male"
)

var ageGroups = [...]string{
	"<1 year", "1 to 4", "5 to 9", "10 to 14", "15 to 19", "20 to 24", "25 to 29",
	"30 to 34", "35 to 39", "40 to 44", "45 to 49", "50 to 54", "55 to 59", "60 to 64",
	"65 to 69", "70 to 74", "75 to 79", "80 to 84", "85 plus",
}

var raceGroups = [...]string{RaceTotal, "AIAN", "Asian", "Black", "Latino", "White"}

var sexGroups = [...]string{SexBoth, SexFemale, SexMale}

var sexOptions = [...]string{SexBoth, SexMale, SexFemale}

var ordinalAges = func() map[string]int {
	m := make(map[string]int, len(ageGroups))
	for i, a := range ageGroups {
		m[a] = i
	}
	return m
}()

// AgeGroups returns the 19 ordinal age labels, youngest first
func AgeGroups() []string {
	return append([]string(nil), ageGroups[:]...)
}

// RaceGroups returns the fixed race/demographic order, Total first
func RaceGroups() []string {
	return append([]string(nil), raceGroups[:]...)
}

// SubgroupRaces returns the race order without the Total aggregate
func SubgroupRaces() []string {
	return append([]string(nil), raceGroups[1:]...)
}

// SexGroups returns the sex order used for color legends
func SexGroups() []string {
	return append([]string(nil), sexGroups[:]...)
}

// SubgroupSexes returns the sexes without the Both aggregate
func SubgroupSexes() []string {
	return []string{SexFemale, SexMale}
}

// SexOptions returns the sex choices in selector order
func SexOptions() []string {
	return append([]string(nil), sexOptions[:]...)
}

// IsOrdinalAge reports whether label is one of the 19 ordinal age groups
func IsOrdinalAge(label string) bool {
	_, ok := ordinalAges[label]
	return ok
}

// IsSexOption reports whether s is a valid sex selector value
func IsSexOption(s string) bool {
	for _, o := range sexOptions {
		if o == s {
			return true
		}
	}
	return false
}
