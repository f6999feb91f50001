package missions

import "slices"

const (
	// MaxSelected bounds the comparison selection
	MaxSelected = 3
	// MinCompared is the smallest selection that can be compared
	MinCompared = 2
)

// Selection is the bounded, ordered set of mission ids picked for comparison.
// It is not safe for concurrent use.
type Selection struct {
	ids []string
}

// NewSelection creates an empty selection
func NewSelection() *Selection {
	return &Selection{}
}

// Toggle removes id when selected, otherwise adds it if there is room.
// It reports whether the selection changed; a full selection ignores new ids.
func (s *Selection) Toggle(id string) bool {
	if i := slices.Index(s.ids, id); i >= 0 {
		s.ids = slices.Delete(s.ids, i, i+1)
		return true
	}
	if len(s.ids) >= MaxSelected {
		return false
	}
	s.ids = append(s.ids, id)
	return true
}

// Contains reports membership
func (s *Selection) Contains(id string) bool {
	return slices.Contains(s.ids, id)
}

// IDs returns the selected ids in selection order
func (s *Selection) IDs() []string {
	return slices.Clone(s.ids)
}

func (s *Selection) Len() int {
	return len(s.ids)
}

// CanCompare reports whether enough missions are selected
func (s *Selection) CanCompare() bool {
	return len(s.ids) >= MinCompared
}

// Clear empties the selection
func (s *Selection) Clear() {
	s.ids = nil
}
