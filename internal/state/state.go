// Package state holds the in-memory subject collection and the current
// subject/day selection.
package state

import (
	"sort"
	"sync"

	"github.com/stridelab/stridex/internal/model"
)

// Store is the selection state machine. All operations are guarded by
// one mutex: Select couples a membership read with two writes, and that
// read-modify-write must be atomic.
type Store struct {
	mu sync.Mutex

	subjects  map[string]model.Subject
	ids       []string
	currentID string
	dayIndex  int
}

// New returns an empty store with no selection.
func New() *Store {
	return &Store{subjects: map[string]model.Subject{}}
}

// ReplaceAll installs a new subject collection wholesale, discarding
// the previous one and clearing the selection. Ingestion is atomic:
// there is no incremental merge and no partial-state visibility.
func (s *Store) ReplaceAll(subjects map[string]model.Subject) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.subjects = make(map[string]model.Subject, len(subjects))
	s.ids = make([]string, 0, len(subjects))
	for id, subject := range subjects {
		s.subjects[id] = subject
		s.ids = append(s.ids, id)
	}
	sort.Strings(s.ids)
	s.currentID = ""
	s.dayIndex = 0
}

// Select makes id the current subject and resets the day index to 0.
// Selecting an unknown id is a no-op: the store never dangles on a
// missing subject.
func (s *Store) Select(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.subjects[id]; !ok {
		return
	}
	s.currentID = id
	s.dayIndex = 0
}

// SelectDay sets the day index for the current subject's insole data.
// Out-of-range indexes (including any index when nothing is selected)
// are ignored.
func (s *Store) SelectDay(index int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	subject, ok := s.subjects[s.currentID]
	if !ok {
		return
	}
	if index < 0 || index >= len(subject.Insole) {
		return
	}
	s.dayIndex = index
}

// Current returns the selected subject, or nil when nothing is
// selected.
func (s *Store) Current() *model.Subject {
	s.mu.Lock()
	defer s.mu.Unlock()

	subject, ok := s.subjects[s.currentID]
	if !ok {
		return nil
	}
	return &subject
}

// CurrentID returns the selected subject id, or "" when nothing is
// selected.
func (s *Store) CurrentID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.currentID
}

// DayIndex returns the selected insole day index.
func (s *Store) DayIndex() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dayIndex
}

// IDs returns the subject ids in sorted order.
func (s *Store) IDs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.ids...)
}

// Len returns the number of subjects.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.subjects)
}
