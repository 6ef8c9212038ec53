package datastore

import (
	"fmt"
	"sort"

	"github.com/Will-L07/scheduler/internal/logger"
	"github.com/Will-L07/scheduler/internal/models"
)

// Schedules returns a copy of every schedule in insertion order.
func (s *Store) Schedules() []models.Schedule {
	s.mu.Lock()
	defer s.mu.Unlock()
	return models.CloneSchedules(s.schedules)
}

func (s *Store) indexOf(id string) int {
	for i := range s.schedules {
		if s.schedules[i].ID == id {
			return i
		}
	}
	return -1
}

// Schedule looks up a schedule by id.
func (s *Store) Schedule(id string) (models.Schedule, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOf(id)
	if i < 0 {
		return models.Schedule{}, false
	}
	return s.schedules[i].Clone(), true
}

// AddSchedule assigns an id and created-at stamp when absent, appends and persists.
func (s *Store) AddSchedule(sch models.Schedule) (models.Schedule, error) {
	s.lockFresh()
	defer s.mu.Unlock()

	sch = sch.Clone()
	if sch.ID == "" {
		sch.ID = s.newID()
	}
	if s.indexOf(sch.ID) >= 0 {
		return models.Schedule{}, fmt.Errorf("schedule %s: %w", sch.ID, ErrDuplicateID)
	}
	if sch.CreatedAt.IsZero() {
		sch.CreatedAt = s.now()
	}
	if err := prepareEntries(sch.Entries); err != nil {
		return models.Schedule{}, err
	}
	sch.Normalize()

	s.schedules = append(s.schedules, sch)
	s.persist(CollectionSchedules, OriginLocal)
	return sch.Clone(), nil
}

// prepareEntries validates entries, rejects duplicate ids and normalises
// recurring completion sets.
func prepareEntries(entries []models.Entry) error {
	seen := make(map[string]bool, len(entries))
	for i := range entries {
		if err := entries[i].Validate(); err != nil {
			return err
		}
		if seen[entries[i].ID] {
			return fmt.Errorf("entry %s: %w", entries[i].ID, ErrDuplicateID)
		}
		seen[entries[i].ID] = true
		if r, ok := entries[i].Recurring(); ok {
			r.Normalize()
		}
	}
	return nil
}

// SchedulePatch lists the fields UpdateSchedule may overwrite. Nil fields are kept.
type SchedulePatch struct {
	Name          *string
	Type          *models.ScheduleType
	Color         *string
	WeeklyReset   *bool
	Phases        *[]models.Phase
	Exams         *[]models.Exam
	Entries       *[]models.Entry
	TopicGroups   *map[string][]string
	SubjectColors *map[string]string
}

// UpdateSchedule shallow-merges patch into the schedule. It reports false
// when the id is unknown; an invalid entry list is rejected with an error.
func (s *Store) UpdateSchedule(id string, patch SchedulePatch) (models.Schedule, bool, error) {
	s.lockFresh()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return models.Schedule{}, false, nil
	}

	sch := s.schedules[i].Clone()
	if patch.Name != nil {
		sch.Name = *patch.Name
	}
	if patch.Type != nil {
		sch.Type = *patch.Type
	}
	if patch.Color != nil {
		sch.Color = *patch.Color
	}
	if patch.WeeklyReset != nil {
		sch.WeeklyReset = *patch.WeeklyReset
	}
	if patch.Phases != nil {
		sch.Phases = append([]models.Phase{}, (*patch.Phases)...)
	}
	if patch.Exams != nil {
		sch.Exams = append([]models.Exam{}, (*patch.Exams)...)
	}
	if patch.Entries != nil {
		entries := make([]models.Entry, len(*patch.Entries))
		for j, e := range *patch.Entries {
			entries[j] = e.Clone()
		}
		if err := prepareEntries(entries); err != nil {
			return models.Schedule{}, true, err
		}
		sch.Entries = entries
	}
	if patch.TopicGroups != nil {
		sch.TopicGroups = *patch.TopicGroups
	}
	if patch.SubjectColors != nil {
		sch.SubjectColors = *patch.SubjectColors
	}

	s.schedules[i] = sch
	s.persist(CollectionSchedules, OriginLocal)
	return sch.Clone(), true, nil
}

// DeleteSchedule removes a schedule. Deleting an unknown id is a no-op.
// Notes linking to the schedule are left in place.
func (s *Store) DeleteSchedule(id string) {
	s.lockFresh()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return
	}
	s.schedules = append(s.schedules[:i], s.schedules[i+1:]...)
	s.persist(CollectionSchedules, OriginLocal)
}

// Entry looks up an entry within a schedule.
func (s *Store) Entry(scheduleID, entryID string) (models.Entry, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e := s.entry(scheduleID, entryID)
	if e == nil {
		return models.Entry{}, false
	}
	return e.Clone(), true
}

func (s *Store) entry(scheduleID, entryID string) *models.Entry {
	i := s.indexOf(scheduleID)
	if i < 0 {
		return nil
	}
	j := s.schedules[i].EntryIndex(entryID)
	if j < 0 {
		return nil
	}
	return &s.schedules[i].Entries[j]
}

// AddEntry appends an entry to a schedule, assigning an id when absent.
func (s *Store) AddEntry(scheduleID string, e models.Entry) (models.Entry, error) {
	s.lockFresh()
	defer s.mu.Unlock()

	i := s.indexOf(scheduleID)
	if i < 0 {
		return models.Entry{}, fmt.Errorf("%w: %s", ErrUnknownSchedule, scheduleID)
	}

	e = e.Clone()
	if e.ID == "" {
		e.ID = s.newID()
	}
	if err := e.Validate(); err != nil {
		return models.Entry{}, err
	}
	if s.schedules[i].EntryIndex(e.ID) >= 0 {
		return models.Entry{}, fmt.Errorf("entry %s: %w", e.ID, ErrDuplicateID)
	}
	if r, ok := e.Recurring(); ok {
		r.Normalize()
	}

	s.schedules[i].Entries = append(s.schedules[i].Entries, e)
	s.persist(CollectionSchedules, OriginLocal)
	return e.Clone(), nil
}

// DeleteEntry removes an entry; it reports false when nothing was removed.
func (s *Store) DeleteEntry(scheduleID, entryID string) bool {
	s.lockFresh()
	defer s.mu.Unlock()

	i := s.indexOf(scheduleID)
	if i < 0 {
		return false
	}
	j := s.schedules[i].EntryIndex(entryID)
	if j < 0 {
		return false
	}
	entries := s.schedules[i].Entries
	s.schedules[i].Entries = append(entries[:j], entries[j+1:]...)
	s.persist(CollectionSchedules, OriginLocal)
	return true
}

// ToggleEntryComplete flips completion. Recurring entries toggle forDate in
// their completed set; dated entries flip their single flag and stamp or
// clear completedAt. A recurring entry without forDate is left untouched.
func (s *Store) ToggleEntryComplete(scheduleID, entryID, forDate string) bool {
	s.lockFresh()
	defer s.mu.Unlock()

	e := s.entry(scheduleID, entryID)
	if e == nil {
		return false
	}

	switch occ := e.Occurrence.(type) {
	case *models.RecurringOccurrence:
		if forDate == "" {
			logger.Warn("Toggle on recurring entry without a date ignored", "schedule", scheduleID, "entry", entryID)
			return false
		}
		occ.Toggle(forDate)
	case *models.DatedOccurrence:
		occ.Completed = !occ.Completed
		if occ.Completed {
			now := s.now()
			occ.CompletedAt = &now
		} else {
			occ.CompletedAt = nil
		}
	default:
		return false
	}

	s.persist(CollectionSchedules, OriginLocal)
	return true
}

// SetEntryNote writes a note. Recurring entries store it under forDate;
// dated entries have a single note. An empty string clears the note.
func (s *Store) SetEntryNote(scheduleID, entryID, text, forDate string) bool {
	s.lockFresh()
	defer s.mu.Unlock()

	e := s.entry(scheduleID, entryID)
	if e == nil {
		return false
	}

	switch occ := e.Occurrence.(type) {
	case *models.RecurringOccurrence:
		if forDate == "" {
			logger.Warn("Note on recurring entry without a date ignored", "schedule", scheduleID, "entry", entryID)
			return false
		}
		if occ.NotesByDate == nil {
			occ.NotesByDate = map[string]string{}
		}
		occ.NotesByDate[forDate] = text
	case *models.DatedOccurrence:
		occ.Notes = text
	default:
		return false
	}

	s.persist(CollectionSchedules, OriginLocal)
	return true
}

// SetEntryConfidence records a red/amber/green rating. An empty rating clears it.
func (s *Store) SetEntryConfidence(scheduleID, entryID string, c models.Confidence, forDate string) bool {
	if !c.Valid() {
		return false
	}

	s.lockFresh()
	defer s.mu.Unlock()

	e := s.entry(scheduleID, entryID)
	if e == nil {
		return false
	}

	switch occ := e.Occurrence.(type) {
	case *models.RecurringOccurrence:
		if forDate == "" {
			logger.Warn("Rating on recurring entry without a date ignored", "schedule", scheduleID, "entry", entryID)
			return false
		}
		if occ.ConfidenceByDate == nil {
			occ.ConfidenceByDate = map[string]models.Confidence{}
		}
		if c == models.ConfidenceNone {
			delete(occ.ConfidenceByDate, forDate)
		} else {
			occ.ConfidenceByDate[forDate] = c
		}
	case *models.DatedOccurrence:
		occ.Confidence = c
	default:
		return false
	}

	s.persist(CollectionSchedules, OriginLocal)
	return true
}

// Exams lists every exam across schedules, soonest first.
func (s *Store) Exams() []models.ExamRef {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []models.ExamRef
	for _, sch := range s.schedules {
		for _, ex := range sch.Exams {
			out = append(out, models.ExamRef{
				Exam:          ex,
				ScheduleID:    sch.ID,
				ScheduleName:  sch.Name,
				ScheduleColor: sch.Color,
			})
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date < out[j].Date
	})
	return out
}
