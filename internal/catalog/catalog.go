// Package catalog holds the static knowledge base: historical events by date,
// monthly fallback events and the mission catalog. It is loaded once and never
// mutated; every accessor hands out copies.
package catalog

import (
	"bytes"
	"embed"
	"fmt"
	"maps"
	"regexp"
	"slices"

	"go-akashdhara/internal/domain"

	"gopkg.in/yaml.v3"
)

//go:embed data/*.yaml
var dataFS embed.FS

var (
	monthDayPattern = regexp.MustCompile(`^(0[1-9]|1[0-2])-(0[1-9]|[12][0-9]|3[01])$`)
	monthPattern    = regexp.MustCompile(`^(0[1-9]|1[0-2])$`)
)

// KnowledgeBase is the immutable in-memory data set
type KnowledgeBase struct {
	events   map[string][]domain.HistoricalEvent
	monthly  map[string][]domain.HistoricalEvent
	missions []domain.Mission
	byID     map[string]int
}

// Load decodes the embedded data files
func Load() (*KnowledgeBase, error) {
	var (
		events   map[string][]domain.HistoricalEvent
		monthly  map[string][]domain.HistoricalEvent
		missions []domain.Mission
	)
	if err := decodeFile("data/events.yaml", &events); err != nil {
		return nil, err
	}
	if err := decodeFile("data/monthly.yaml", &monthly); err != nil {
		return nil, err
	}
	if err := decodeFile("data/missions.yaml", &missions); err != nil {
		return nil, err
	}
	return New(events, monthly, missions)
}

// MustLoad is Load for process start-up, panicking on malformed embedded data
func MustLoad() *KnowledgeBase {
	kb, err := Load()
	if err != nil {
		panic(err)
	}
	return kb
}

// New validates and takes a private copy of the given tables
func New(events, monthly map[string][]domain.HistoricalEvent, missions []domain.Mission) (*KnowledgeBase, error) {
	kb := &KnowledgeBase{
		events:   make(map[string][]domain.HistoricalEvent, len(events)),
		monthly:  make(map[string][]domain.HistoricalEvent, len(monthly)),
		missions: make([]domain.Mission, 0, len(missions)),
		byID:     make(map[string]int, len(missions)),
	}

	for key, list := range events {
		if !monthDayPattern.MatchString(key) {
			return nil, fmt.Errorf("events: invalid month-day key %q", key)
		}
		kb.events[key] = slices.Clone(list)
	}
	for key, list := range monthly {
		if !monthPattern.MatchString(key) {
			return nil, fmt.Errorf("monthly events: invalid month key %q", key)
		}
		kb.monthly[key] = slices.Clone(list)
	}

	for i := range missions {
		m := missions[i]
		if err := validateMission(&m); err != nil {
			return nil, err
		}
		if _, dup := kb.byID[m.ID]; dup {
			return nil, fmt.Errorf("missions: duplicate id %q", m.ID)
		}
		kb.byID[m.ID] = len(kb.missions)
		kb.missions = append(kb.missions, cloneMission(m))
	}
	return kb, nil
}

// EventsOn returns the dated entries for a "MM-DD" key, or nil
func (kb *KnowledgeBase) EventsOn(monthDay string) []domain.HistoricalEvent {
	return slices.Clone(kb.events[monthDay])
}

// MonthlyEvents returns the fallback entries for a "MM" key, or nil
func (kb *KnowledgeBase) MonthlyEvents(month string) []domain.HistoricalEvent {
	return slices.Clone(kb.monthly[month])
}

// Missions returns the catalog in catalog order
func (kb *KnowledgeBase) Missions() []domain.Mission {
	out := make([]domain.Mission, len(kb.missions))
	for i, m := range kb.missions {
		out[i] = cloneMission(m)
	}
	return out
}

// Mission looks a mission up by id
func (kb *KnowledgeBase) Mission(id string) (domain.Mission, bool) {
	i, ok := kb.byID[id]
	if !ok {
		return domain.Mission{}, false
	}
	return cloneMission(kb.missions[i]), true
}

// Countries lists distinct countries in first-seen catalog order
func (kb *KnowledgeBase) Countries() []string {
	return distinct(kb.missions, func(m domain.Mission) string { return m.Country })
}

// MissionTypes lists distinct mission types in first-seen catalog order
func (kb *KnowledgeBase) MissionTypes() []string {
	return distinct(kb.missions, func(m domain.Mission) string { return string(m.MissionType) })
}

// Statuses lists distinct statuses in first-seen catalog order
func (kb *KnowledgeBase) Statuses() []string {
	return distinct(kb.missions, func(m domain.Mission) string { return string(m.Status) })
}

func distinct(missions []domain.Mission, key func(domain.Mission) string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, m := range missions {
		k := key(m)
		if seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, k)
	}
	return out
}

func validateMission(m *domain.Mission) error {
	if m.ID == "" {
		return fmt.Errorf("missions: %q has no id", m.Name)
	}
	if _, err := m.Launch(); err != nil {
		return fmt.Errorf("missions: %s: invalid launch date %q", m.ID, m.LaunchDate)
	}
	if !domain.ValidStatus(m.Status) {
		return fmt.Errorf("missions: %s: unknown status %q", m.ID, m.Status)
	}
	if !domain.ValidMissionType(m.MissionType) {
		return fmt.Errorf("missions: %s: unknown mission type %q", m.ID, m.MissionType)
	}
	if len(m.Images) == 0 {
		return fmt.Errorf("missions: %s: at least one image is required", m.ID)
	}
	return nil
}

func cloneMission(m domain.Mission) domain.Mission {
	m.Objectives = slices.Clone(m.Objectives)
	m.Achievements = slices.Clone(m.Achievements)
	m.Crew = slices.Clone(m.Crew)
	m.Images = slices.Clone(m.Images)
	m.Videos = slices.Clone(m.Videos)
	m.KeyFacts = slices.Clone(m.KeyFacts)
	m.Timeline = slices.Clone(m.Timeline)
	m.TechnicalSpecs = maps.Clone(m.TechnicalSpecs)
	return m
}

func decodeFile(name string, out interface{}) error {
	data, err := dataFS.ReadFile(name)
	if err != nil {
		return fmt.Errorf("read %s: %w", name, err)
	}
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(out); err != nil {
		return fmt.Errorf("decode %s: %w", name, err)
	}
	return nil
}
