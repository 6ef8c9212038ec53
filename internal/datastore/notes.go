package datastore

import (
	"slices"
	"strings"

	"github.com/Will-L07/scheduler/internal/models"
)

// Notes returns every journal note, newest first.
func (s *Store) Notes() []models.Note {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.notes)
}

func (s *Store) noteIndex(id string) int {
	for i := range s.notes {
		if s.notes[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) Note(id string) (models.Note, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.noteIndex(id)
	if i < 0 {
		return models.Note{}, false
	}
	return s.notes[i], true
}

// AddNote assigns an id and created-at stamp, then prepends the note.
func (s *Store) AddNote(n models.Note) models.Note {
	s.lockFresh()
	defer s.mu.Unlock()

	if n.ID == "" || s.noteIndex(n.ID) >= 0 {
		n.ID = s.newID()
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = s.now()
	}
	s.notes = append([]models.Note{n}, s.notes...)
	s.persist(CollectionNotes, OriginLocal)
	return n
}

// NotePatch lists the fields UpdateNote may overwrite. Nil fields are kept.
type NotePatch struct {
	Title          *string
	Category       *string
	Content        *string
	LinkedSchedule *string
	LinkedEntry    *string
}

func (s *Store) UpdateNote(id string, patch NotePatch) (models.Note, bool) {
	s.lockFresh()
	defer s.mu.Unlock()

	i := s.noteIndex(id)
	if i < 0 {
		return models.Note{}, false
	}
	n := &s.notes[i]
	if patch.Title != nil {
		n.Title = *patch.Title
	}
	if patch.Category != nil {
		n.Category = *patch.Category
	}
	if patch.Content != nil {
		n.Content = *patch.Content
	}
	if patch.LinkedSchedule != nil {
		n.LinkedSchedule = *patch.LinkedSchedule
	}
	if patch.LinkedEntry != nil {
		n.LinkedEntry = *patch.LinkedEntry
	}
	s.persist(CollectionNotes, OriginLocal)
	return *n, true
}

// DeleteNote removes a note. Deleting an unknown id is a no-op.
func (s *Store) DeleteNote(id string) {
	s.lockFresh()
	defer s.mu.Unlock()

	i := s.noteIndex(id)
	if i < 0 {
		return
	}
	s.notes = append(s.notes[:i], s.notes[i+1:]...)
	s.persist(CollectionNotes, OriginLocal)
}

// SearchNotes filters by category (exact, empty matches all) and a
// case-insensitive query over title and content.
func (s *Store) SearchNotes(category, query string) []models.Note {
	s.mu.Lock()
	defer s.mu.Unlock()

	query = strings.ToLower(strings.TrimSpace(query))
	var out []models.Note
	for _, n := range s.notes {
		if category != "" && n.Category != category {
			continue
		}
		if query != "" &&
			!strings.Contains(strings.ToLower(n.Title), query) &&
			!strings.Contains(strings.ToLower(n.Content), query) {
			continue
		}
		out = append(out, n)
	}
	return out
}

// NoteCategories returns the distinct categories in first-seen order.
func (s *Store) NoteCategories() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	seen := map[string]bool{}
	var out []string
	for _, n := range s.notes {
		if n.Category != "" && !seen[n.Category] {
			seen[n.Category] = true
			out = append(out, n.Category)
		}
	}
	return out
}

// ResolveLink follows a note's weak reference. Either half may be gone.
func (s *Store) ResolveLink(n models.Note) (models.Schedule, *models.Entry, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if n.LinkedSchedule == "" {
		return models.Schedule{}, nil, false
	}
	i := s.indexOf(n.LinkedSchedule)
	if i < 0 {
		return models.Schedule{}, nil, false
	}
	sch := s.schedules[i].Clone()
	if n.LinkedEntry == "" {
		return sch, nil, true
	}
	j := sch.EntryIndex(n.LinkedEntry)
	if j < 0 {
		return sch, nil, true
	}
	return sch, &sch.Entries[j], true
}
