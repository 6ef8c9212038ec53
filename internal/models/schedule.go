package models

import (
	"slices"
	"time"
)

type ScheduleType string

const (
	ScheduleTypeRevision ScheduleType = "revision"
	ScheduleTypeTraining ScheduleType = "training"
)

// Phase is an inclusive calendar-date range during which a schedule's
// recurring entries are active. Phases may overlap or leave gaps.
type Phase struct {
	Name      string `json:"name"`
	StartDate string `json:"startDate"` // YYYY-MM-DD format
	EndDate   string `json:"endDate"`   // YYYY-MM-DD format
}

// Exam is a dated milestone. It never carries completion state.
type Exam struct {
	Name    string `json:"name"`
	Date    string `json:"date"` // YYYY-MM-DD format
	Session string `json:"session"`
}

type Schedule struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	Type        ScheduleType `json:"type"`
	Color       string       `json:"color"`
	WeeklyReset bool         `json:"weeklyReset,omitempty"`
	Phases      []Phase      `json:"phases"`
	Exams       []Exam       `json:"exams"`
	Entries     []Entry      `json:"entries"`
	// TopicGroups maps a group name to the topics it contains, used by confidence analysis.
	TopicGroups   map[string][]string `json:"topicGroups,omitempty"`
	SubjectColors map[string]string   `json:"subjectColors,omitempty"`
	CreatedAt     time.Time           `json:"createdAt"`
}

// EntryIndex returns the position of the entry with the given id, or -1.
func (s *Schedule) EntryIndex(entryID string) int {
	for i := range s.Entries {
		if s.Entries[i].ID == entryID {
			return i
		}
	}
	return -1
}

// Normalize replaces missing phase, exam and entry lists with empty ones so
// they encode as [] rather than null.
func (s *Schedule) Normalize() {
	if s.Phases == nil {
		s.Phases = []Phase{}
	}
	if s.Exams == nil {
		s.Exams = []Exam{}
	}
	if s.Entries == nil {
		s.Entries = []Entry{}
	}
}

// Clone returns a deep copy so callers can't mutate store-owned state.
func (s Schedule) Clone() Schedule {
	out := s
	out.Phases = slices.Clone(s.Phases)
	out.Exams = slices.Clone(s.Exams)
	if s.Entries != nil {
		out.Entries = make([]Entry, len(s.Entries))
		for i, e := range s.Entries {
			out.Entries[i] = e.Clone()
		}
	}
	if s.TopicGroups != nil {
		out.TopicGroups = make(map[string][]string, len(s.TopicGroups))
		for k, v := range s.TopicGroups {
			out.TopicGroups[k] = slices.Clone(v)
		}
	}
	if s.SubjectColors != nil {
		out.SubjectColors = make(map[string]string, len(s.SubjectColors))
		for k, v := range s.SubjectColors {
			out.SubjectColors[k] = v
		}
	}
	return out
}

// CloneSchedules deep-copies a list of schedules.
func CloneSchedules(in []Schedule) []Schedule {
	if in == nil {
		return nil
	}
	out := make([]Schedule, len(in))
	for i, s := range in {
		out[i] = s.Clone()
	}
	return out
}

// ExamRef is an exam annotated with the schedule it belongs to.
type ExamRef struct {
	Exam
	ScheduleID    string `json:"scheduleId"`
	ScheduleName  string `json:"scheduleName"`
	ScheduleColor string `json:"scheduleColor"`
}
