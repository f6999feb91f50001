package domain

import "time"

// MissionStatus is the outcome of a mission
type MissionStatus string

const (
	StatusSuccess        MissionStatus = "Success"
	StatusPartialSuccess MissionStatus = "Partial Success"
	StatusFailure        MissionStatus = "Failure"
	StatusOngoing        MissionStatus = "Ongoing"
	StatusPlanned        MissionStatus = "Planned"
)

// MissionType is the destination or class of a mission
type MissionType string

const (
	TypeLunar      MissionType = "Lunar"
	TypeMars       MissionType = "Mars"
	TypeVenus      MissionType = "Venus"
	TypeJupiter    MissionType = "Jupiter"
	TypeSaturn     MissionType = "Saturn"
	TypeSolar      MissionType = "Solar"
	TypeEarthOrbit MissionType = "Earth Orbit"
	TypeDeepSpace  MissionType = "Deep Space"
	TypeISS        MissionType = "ISS"
	TypeSatellite  MissionType = "Satellite"
)

// ValidStatus reports whether s is a known mission status
func ValidStatus(s MissionStatus) bool {
	switch s {
	case StatusSuccess, StatusPartialSuccess, StatusFailure, StatusOngoing, StatusPlanned:
		return true
	}
	return false
}

// ValidMissionType reports whether t is a known mission type
func ValidMissionType(t MissionType) bool {
	switch t {
	case TypeLunar, TypeMars, TypeVenus, TypeJupiter, TypeSaturn, TypeSolar,
		TypeEarthOrbit, TypeDeepSpace, TypeISS, TypeSatellite:
		return true
	}
	return false
}

// KeyFact is a labelled headline figure
type KeyFact struct {
	Label string `json:"label" yaml:"label"`
	Value string `json:"value" yaml:"value"`
}

// TimelineEntry is one milestone of a mission
type TimelineEntry struct {
	Date        string `json:"date" yaml:"date"`
	Event       string `json:"event" yaml:"event"`
	Description string `json:"description" yaml:"description"`
}

// Mission represents a catalogued space mission
type Mission struct {
	ID             string            `json:"id" yaml:"id"`
	Name           string            `json:"name" yaml:"name"`
	Description    string            `json:"description" yaml:"description"`
	LaunchDate     string            `json:"launchDate" yaml:"launchDate"`
	EndDate        string            `json:"endDate,omitempty" yaml:"endDate,omitempty"`
	Status         MissionStatus     `json:"status" yaml:"status"`
	Country        string            `json:"country" yaml:"country"`
	Agency         string            `json:"agency" yaml:"agency"`
	MissionType    MissionType       `json:"missionType" yaml:"missionType"`
	Objectives     []string          `json:"objectives" yaml:"objectives"`
	Achievements   []string          `json:"achievements" yaml:"achievements"`
	Cost           string            `json:"cost,omitempty" yaml:"cost,omitempty"`
	Duration       string            `json:"duration,omitempty" yaml:"duration,omitempty"`
	Crew           []string          `json:"crew,omitempty" yaml:"crew,omitempty"`
	Images         []string          `json:"images" yaml:"images"`
	Videos         []string          `json:"videos,omitempty" yaml:"videos,omitempty"`
	KeyFacts       []KeyFact         `json:"keyFacts" yaml:"keyFacts"`
	Timeline       []TimelineEntry   `json:"timeline" yaml:"timeline"`
	Significance   string            `json:"significance" yaml:"significance"`
	TechnicalSpecs map[string]string `json:"technicalSpecs,omitempty" yaml:"technicalSpecs,omitempty"`
}

// Launch parses the launch date
func (m *Mission) Launch() (time.Time, error) {
	return time.Parse(DateLayout, m.LaunchDate)
}

// LaunchYear returns the launch year, or 0 when the launch date is malformed
func (m *Mission) LaunchYear() int {
	t, err := m.Launch()
	if err != nil {
		return 0
	}
	return t.Year()
}

// ChatRole is the author of a chat message
type ChatRole string

const (
	RoleSystem    ChatRole = "system"
	RoleUser      ChatRole = "user"
	RoleAssistant ChatRole = "assistant"
)

// ChatMessage is one turn of a conversation
type ChatMessage struct {
	Role      ChatRole  `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}
