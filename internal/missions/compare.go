package missions

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"go-akashdhara/internal/domain"
)

var costNumber = regexp.MustCompile(`[\d.]+`)

// Stats summarises a mission list
type Stats struct {
	Total      int `json:"total"`
	Successful int `json:"successful"`
	Ongoing    int `json:"ongoing"`
	Countries  int `json:"countries"`
}

// ComputeStats counts outcomes and distinct countries
func ComputeStats(missions []domain.Mission) Stats {
	countries := make(map[string]struct{})
	st := Stats{Total: len(missions)}
	for _, m := range missions {
		switch m.Status {
		case domain.StatusSuccess:
			st.Successful++
		case domain.StatusOngoing:
			st.Ongoing++
		}
		countries[m.Country] = struct{}{}
	}
	st.Countries = len(countries)
	return st
}

// Metric is one mission's value on a compared axis
type Metric struct {
	ID    string  `json:"id"`
	Name  string  `json:"name"`
	Value float64 `json:"value"`
}

// Comparison lines up the selected missions on each axis, in selection order
type Comparison struct {
	Missions     []domain.Mission `json:"missions"`
	CostMillions []Metric         `json:"costMillions"`
	DurationDays []Metric         `json:"durationDays"`
	Achievements []Metric         `json:"achievements"`
	Objectives   []Metric         `json:"objectives"`
}

// Compare builds the comparison of at least MinCompared missions.
// Ongoing missions are measured up to now.
func Compare(missions []domain.Mission, now time.Time) (*Comparison, error) {
	if len(missions) < MinCompared {
		return nil, &domain.ValidationError{
			Field:   "ids",
			Message: fmt.Sprintf("select at least %d missions to compare", MinCompared),
		}
	}
	if len(missions) > MaxSelected {
		return nil, &domain.ValidationError{
			Field:   "ids",
			Message: fmt.Sprintf("at most %d missions can be compared", MaxSelected),
		}
	}

	c := &Comparison{Missions: missions}
	for _, m := range missions {
		c.CostMillions = append(c.CostMillions, Metric{ID: m.ID, Name: m.Name, Value: ParseCostMillions(m.Cost)})
		c.DurationDays = append(c.DurationDays, Metric{ID: m.ID, Name: m.Name, Value: float64(DurationDays(m, now))})
		c.Achievements = append(c.Achievements, Metric{ID: m.ID, Name: m.Name, Value: float64(len(m.Achievements))})
		c.Objectives = append(c.Objectives, Metric{ID: m.ID, Name: m.Name, Value: float64(len(m.Objectives))})
	}
	return c, nil
}

// ParseCostMillions reads the first number of a free-text cost as millions of
// dollars; "billion" scales by 1000. Unparseable text is 0.
func ParseCostMillions(cost string) float64 {
	match := costNumber.FindString(cost)
	if match == "" {
		return 0
	}
	n, err := strconv.ParseFloat(match, 64)
	if err != nil {
		return 0
	}
	if strings.Contains(strings.ToLower(cost), "billion") {
		return n * 1000
	}
	return n
}

// DurationDays counts whole days from launch to end date, or to now
func DurationDays(m domain.Mission, now time.Time) int {
	launch, err := m.Launch()
	if err != nil {
		return 0
	}
	end := now
	if m.EndDate != "" {
		if t, err := time.Parse(domain.DateLayout, m.EndDate); err == nil {
			end = t
		}
	}
	return int(end.Sub(launch).Hours() / 24)
}
