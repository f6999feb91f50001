// Package missions filters, orders and compares the mission catalog.
package missions

import (
	"slices"
	"strconv"
	"strings"

	"go-akashdhara/internal/domain"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// SortKey selects the ordering field
type SortKey string

const (
	SortByDate   SortKey = "date"
	SortByName   SortKey = "name"
	SortByAgency SortKey = "agency"
)

// SortOrder selects the ordering direction
type SortOrder string

const (
	Ascending  SortOrder = "asc"
	Descending SortOrder = "desc"
)

// Dimension names one set-valued filter
type Dimension string

const (
	DimensionCountry Dimension = "country"
	DimensionType    Dimension = "type"
	DimensionStatus  Dimension = "status"
)

// Default launch-year window
const (
	DefaultStartYear = 1950
	DefaultEndYear   = 2030
)

// YearRange bounds the launch year inclusively. A zero bound is open.
type YearRange struct {
	StartYear int `json:"startYear"`
	EndYear   int `json:"endYear"`
}

// Contains reports whether year falls inside the range
func (r YearRange) Contains(year int) bool {
	if r.StartYear != 0 && year < r.StartYear {
		return false
	}
	if r.EndYear != 0 && year > r.EndYear {
		return false
	}
	return true
}

// FilterSpec is the combined set of user-selected constraints.
// An empty dimension does not constrain.
type FilterSpec struct {
	Countries    []string  `json:"countries"`
	MissionTypes []string  `json:"missionTypes"`
	Statuses     []string  `json:"statuses"`
	DateRange    YearRange `json:"dateRange"`
}

// DefaultFilterSpec is the cleared filter state
func DefaultFilterSpec() FilterSpec {
	return FilterSpec{DateRange: YearRange{StartYear: DefaultStartYear, EndYear: DefaultEndYear}}
}

// Toggle returns a copy of f with value added to, or removed from, dimension d
func (f FilterSpec) Toggle(d Dimension, value string) FilterSpec {
	out := FilterSpec{
		Countries:    slices.Clone(f.Countries),
		MissionTypes: slices.Clone(f.MissionTypes),
		Statuses:     slices.Clone(f.Statuses),
		DateRange:    f.DateRange,
	}
	var set *[]string
	switch d {
	case DimensionCountry:
		set = &out.Countries
	case DimensionType:
		set = &out.MissionTypes
	case DimensionStatus:
		set = &out.Statuses
	default:
		return out
	}
	if i := slices.Index(*set, value); i >= 0 {
		*set = slices.Delete(*set, i, i+1)
	} else {
		*set = append(*set, value)
	}
	return out
}

// Matches reports whether m passes every filter dimension
func (f FilterSpec) Matches(m *domain.Mission) bool {
	return inSet(f.Countries, m.Country) &&
		inSet(f.MissionTypes, string(m.MissionType)) &&
		inSet(f.Statuses, string(m.Status)) &&
		f.DateRange.Contains(m.LaunchYear())
}

func inSet(set []string, v string) bool {
	return len(set) == 0 || slices.Contains(set, v)
}

// MatchesSearch reports whether the lower-cased search text occurs in the
// name, description, agency or country of m. Empty text matches everything.
func MatchesSearch(m *domain.Mission, text string) bool {
	text = strings.ToLower(strings.TrimSpace(text))
	if text == "" {
		return true
	}
	for _, field := range []string{m.Name, m.Description, m.Agency, m.Country} {
		if strings.Contains(strings.ToLower(field), text) {
			return true
		}
	}
	return false
}

// Query is a full filter, search and ordering request
type Query struct {
	Filters FilterSpec
	Search  string
	SortBy  SortKey
	Order   SortOrder
}

// DefaultQuery lists everything, newest launch first
func DefaultQuery() Query {
	return Query{Filters: DefaultFilterSpec(), SortBy: SortByDate, Order: Descending}
}

// Apply filters then orders missions. The input is not modified.
func Apply(missions []domain.Mission, q Query) []domain.Mission {
	out := Filter(missions, q.Filters, q.Search)
	Sort(out, q.SortBy, q.Order)
	return out
}

// Filter keeps missions passing the search text and every dimension, in input order
func Filter(missions []domain.Mission, spec FilterSpec, search string) []domain.Mission {
	out := make([]domain.Mission, 0, len(missions))
	for i := range missions {
		if MatchesSearch(&missions[i], search) && spec.Matches(&missions[i]) {
			out = append(out, missions[i])
		}
	}
	return out
}

// Sort orders missions in place. Equal keys keep their input order in both
// directions.
func Sort(missions []domain.Mission, key SortKey, order SortOrder) {
	cmp := comparator(key)
	if order == Descending {
		asc := cmp
		cmp = func(a, b domain.Mission) int { return -asc(a, b) }
	}
	slices.SortStableFunc(missions, cmp)
}

func comparator(key SortKey) func(a, b domain.Mission) int {
	switch key {
	case SortByName:
		col := collate.New(language.English)
		return func(a, b domain.Mission) int { return col.CompareString(a.Name, b.Name) }
	case SortByAgency:
		col := collate.New(language.English)
		return func(a, b domain.Mission) int { return col.CompareString(a.Agency, b.Agency) }
	default:
		return func(a, b domain.Mission) int {
			ta, errA := a.Launch()
			tb, errB := b.Launch()
			if errA != nil || errB != nil {
				return strings.Compare(a.LaunchDate, b.LaunchDate)
			}
			return ta.Compare(tb)
		}
	}
}

// ParseSortKey validates a sort key; empty means date
func ParseSortKey(s string) (SortKey, error) {
	switch SortKey(strings.ToLower(s)) {
	case "", SortByDate:
		return SortByDate, nil
	case SortByName:
		return SortByName, nil
	case SortByAgency:
		return SortByAgency, nil
	}
	return "", &domain.ValidationError{Field: "sort", Message: "sort must be one of date, name, agency"}
}

// ParseSortOrder validates a sort order; empty means descending
func ParseSortOrder(s string) (SortOrder, error) {
	switch SortOrder(strings.ToLower(s)) {
	case "", Descending:
		return Descending, nil
	case Ascending:
		return Ascending, nil
	}
	return "", &domain.ValidationError{Field: "order", Message: "order must be asc or desc"}
}

// Params is the loosely typed form of a Query as it arrives from a request
// or the command line. Multi-valued fields may also hold comma-separated values.
type Params struct {
	Search    string
	Countries []string
	Types     []string
	Statuses  []string
	StartYear int
	EndYear   int
	Sort      string
	Order     string
}

// ParseQuery validates p. Missing years fall back to the default window.
func ParseQuery(p Params) (Query, error) {
	q := DefaultQuery()
	q.Search = p.Search

	var err error
	if q.SortBy, err = ParseSortKey(p.Sort); err != nil {
		return Query{}, err
	}
	if q.Order, err = ParseSortOrder(p.Order); err != nil {
		return Query{}, err
	}

	q.Filters.Countries = splitValues(p.Countries)
	q.Filters.MissionTypes = splitValues(p.Types)
	q.Filters.Statuses = splitValues(p.Statuses)
	for _, t := range q.Filters.MissionTypes {
		if !domain.ValidMissionType(domain.MissionType(t)) {
			return Query{}, &domain.ValidationError{Field: "type", Message: "unknown mission type " + strconv.Quote(t)}
		}
	}
	for _, s := range q.Filters.Statuses {
		if !domain.ValidStatus(domain.MissionStatus(s)) {
			return Query{}, &domain.ValidationError{Field: "status", Message: "unknown mission status " + strconv.Quote(s)}
		}
	}

	if p.StartYear != 0 {
		q.Filters.DateRange.StartYear = p.StartYear
	}
	if p.EndYear != 0 {
		q.Filters.DateRange.EndYear = p.EndYear
	}
	if q.Filters.DateRange.StartYear > q.Filters.DateRange.EndYear {
		return Query{}, &domain.ValidationError{Field: "start", Message: "start year must not be after end year"}
	}
	return q, nil
}

func splitValues(in []string) []string {
	var out []string
	for _, v := range in {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" && !slices.Contains(out, part) {
				out = append(out, part)
			}
		}
	}
	return out
}
