package models

import (
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"time"
)

type Confidence string

const (
	ConfidenceNone  Confidence = ""
	ConfidenceRed   Confidence = "red"
	ConfidenceAmber Confidence = "amber"
	ConfidenceGreen Confidence = "green"
)

func (c Confidence) Valid() bool {
	switch c {
	case ConfidenceNone, ConfidenceRed, ConfidenceAmber, ConfidenceGreen:
		return true
	}
	return false
}

// ParseConfidence accepts red, amber, green or an empty string (clears the rating).
func ParseConfidence(s string) (Confidence, error) {
	c := Confidence(s)
	if !c.Valid() {
		return ConfidenceNone, fmt.Errorf("invalid confidence %q (expected red, amber or green)", s)
	}
	return c, nil
}

// Occurrence is either a *DatedOccurrence or a *RecurringOccurrence.
type Occurrence interface {
	isOccurrence()
}

// DatedOccurrence happens on a single calendar date and carries a single
// completion state.
type DatedOccurrence struct {
	Date        string // YYYY-MM-DD format
	Completed   bool
	CompletedAt *time.Time
	Notes       string
	Confidence  Confidence
}

// RecurringOccurrence repeats weekly on DayOfWeek while a schedule phase
// is active. Completion is tracked per completion key.
type RecurringOccurrence struct {
	DayOfWeek        time.Weekday
	CompletedDates   []string // sorted, unique
	NotesByDate      map[string]string
	ConfidenceByDate map[string]Confidence
}

func (*DatedOccurrence) isOccurrence()     {}
func (*RecurringOccurrence) isOccurrence() {}

// IsCompleted reports whether key appears in the completed set.
func (r *RecurringOccurrence) IsCompleted(key string) bool {
	_, found := slices.BinarySearch(r.CompletedDates, key)
	return found
}

// Toggle flips membership of key in the completed set, keeping it sorted.
func (r *RecurringOccurrence) Toggle(key string) bool {
	i, found := slices.BinarySearch(r.CompletedDates, key)
	if found {
		r.CompletedDates = slices.Delete(r.CompletedDates, i, i+1)
		return false
	}
	r.CompletedDates = slices.Insert(r.CompletedDates, i, key)
	return true
}

// Normalize sorts and dedupes the completed set and allocates the per-date maps.
func (r *RecurringOccurrence) Normalize() {
	slices.Sort(r.CompletedDates)
	r.CompletedDates = slices.Compact(r.CompletedDates)
	if r.CompletedDates == nil {
		r.CompletedDates = []string{}
	}
	if r.NotesByDate == nil {
		r.NotesByDate = map[string]string{}
	}
	if r.ConfidenceByDate == nil {
		r.ConfidenceByDate = map[string]Confidence{}
	}
}

// Entry is a single task in a schedule. Its Occurrence decides whether it
// happens once or weekly.
type Entry struct {
	ID         string
	Block      int
	Subject    string
	Topic      string
	Duration   string
	TaskFocus  string
	Occurrence Occurrence
}

// NewDatedEntry builds a one-off entry.
func NewDatedEntry(id, date, subject, topic, duration string) Entry {
	return Entry{
		ID:         id,
		Subject:    subject,
		Topic:      topic,
		Duration:   duration,
		Occurrence: &DatedOccurrence{Date: date},
	}
}

// NewRecurringEntry builds a weekly entry.
func NewRecurringEntry(id string, day time.Weekday, subject, topic, duration string) Entry {
	occ := &RecurringOccurrence{DayOfWeek: day}
	occ.Normalize()
	return Entry{
		ID:         id,
		Subject:    subject,
		Topic:      topic,
		Duration:   duration,
		Occurrence: occ,
	}
}

func (e *Entry) Dated() (*DatedOccurrence, bool) {
	d, ok := e.Occurrence.(*DatedOccurrence)
	return d, ok
}

func (e *Entry) Recurring() (*RecurringOccurrence, bool) {
	r, ok := e.Occurrence.(*RecurringOccurrence)
	return r, ok
}

func (e *Entry) IsRecurring() bool {
	_, ok := e.Occurrence.(*RecurringOccurrence)
	return ok
}

// Clone returns a deep copy of the entry and its occurrence.
func (e Entry) Clone() Entry {
	out := e
	switch occ := e.Occurrence.(type) {
	case *DatedOccurrence:
		d := *occ
		if occ.CompletedAt != nil {
			t := *occ.CompletedAt
			d.CompletedAt = &t
		}
		out.Occurrence = &d
	case *RecurringOccurrence:
		r := RecurringOccurrence{
			DayOfWeek:      occ.DayOfWeek,
			CompletedDates: slices.Clone(occ.CompletedDates),
		}
		if occ.NotesByDate != nil {
			r.NotesByDate = make(map[string]string, len(occ.NotesByDate))
			for k, v := range occ.NotesByDate {
				r.NotesByDate[k] = v
			}
		}
		if occ.ConfidenceByDate != nil {
			r.ConfidenceByDate = make(map[string]Confidence, len(occ.ConfidenceByDate))
			for k, v := range occ.ConfidenceByDate {
				r.ConfidenceByDate[k] = v
			}
		}
		out.Occurrence = &r
	}
	return out
}

// Validate checks the entry carries exactly one well-formed occurrence.
func (e *Entry) Validate() error {
	if e.ID == "" {
		return errors.New("entry id is required")
	}
	switch occ := e.Occurrence.(type) {
	case *DatedOccurrence:
		if _, err := time.Parse(time.DateOnly, occ.Date); err != nil {
			return fmt.Errorf("entry %s: invalid date %q", e.ID, occ.Date)
		}
		if !occ.Confidence.Valid() {
			return fmt.Errorf("entry %s: invalid confidence %q", e.ID, occ.Confidence)
		}
	case *RecurringOccurrence:
		if occ.DayOfWeek < time.Sunday || occ.DayOfWeek > time.Saturday {
			return fmt.Errorf("entry %s: invalid day of week %d", e.ID, occ.DayOfWeek)
		}
	default:
		return fmt.Errorf("entry %s: must have either a date or a day of week", e.ID)
	}
	return nil
}

// entryWire is the flat JSON shape shared with the web client and exports.
type entryWire struct {
	ID               string                `json:"id"`
	Date             *string               `json:"date"`
	DayOfWeek        *string               `json:"dayOfWeek"`
	Block            int                   `json:"block"`
	Subject          string                `json:"subject"`
	Topic            string                `json:"topic"`
	Duration         string                `json:"duration"`
	TaskFocus        string                `json:"taskFocus,omitempty"`
	Completed        bool                  `json:"completed"`
	CompletedAt      *time.Time            `json:"completedAt"`
	Notes            string                `json:"notes"`
	Confidence       Confidence            `json:"confidence,omitempty"`
	CompletedDates   []string              `json:"completedDates,omitempty"`
	NotesByDate      map[string]string     `json:"notesByDate,omitempty"`
	ConfidenceByDate map[string]Confidence `json:"confidenceByDate,omitempty"`
}

// recurringWire always writes the completion set and per-date notes, so
// readers can tell a migrated recurring entry from a legacy one.
type recurringWire struct {
	entryWire
	CompletedDates []string          `json:"completedDates"`
	NotesByDate    map[string]string `json:"notesByDate"`
}

func (e Entry) MarshalJSON() ([]byte, error) {
	w := entryWire{
		ID:        e.ID,
		Block:     e.Block,
		Subject:   e.Subject,
		Topic:     e.Topic,
		Duration:  e.Duration,
		TaskFocus: e.TaskFocus,
	}
	switch occ := e.Occurrence.(type) {
	case *DatedOccurrence:
		date := occ.Date
		w.Date = &date
		w.Completed = occ.Completed
		w.CompletedAt = occ.CompletedAt
		w.Notes = occ.Notes
		w.Confidence = occ.Confidence
	case *RecurringOccurrence:
		day := occ.DayOfWeek.String()
		w.DayOfWeek = &day
		w.ConfidenceByDate = occ.ConfidenceByDate
		rw := recurringWire{entryWire: w, CompletedDates: occ.CompletedDates, NotesByDate: occ.NotesByDate}
		if rw.CompletedDates == nil {
			rw.CompletedDates = []string{}
		}
		if rw.NotesByDate == nil {
			rw.NotesByDate = map[string]string{}
		}
		return json.Marshal(rw)
	default:
		return nil, fmt.Errorf("entry %s has no occurrence", e.ID)
	}
	return json.Marshal(w)
}

func (e *Entry) UnmarshalJSON(data []byte) error {
	var w entryWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}

	hasDate := w.Date != nil && *w.Date != ""
	hasDay := w.DayOfWeek != nil && *w.DayOfWeek != ""
	switch {
	case hasDate && hasDay:
		return fmt.Errorf("entry %s: has both date and dayOfWeek", w.ID)
	case !hasDate && !hasDay:
		return fmt.Errorf("entry %s: has neither date nor dayOfWeek", w.ID)
	}

	*e = Entry{
		ID:        w.ID,
		Block:     w.Block,
		Subject:   w.Subject,
		Topic:     w.Topic,
		Duration:  w.Duration,
		TaskFocus: w.TaskFocus,
	}

	if hasDate {
		e.Occurrence = &DatedOccurrence{
			Date:        *w.Date,
			Completed:   w.Completed,
			CompletedAt: w.CompletedAt,
			Notes:       w.Notes,
			Confidence:  w.Confidence,
		}
		return nil
	}

	day, err := ParseWeekday(*w.DayOfWeek)
	if err != nil {
		return fmt.Errorf("entry %s: %w", w.ID, err)
	}
	occ := &RecurringOccurrence{
		DayOfWeek:        day,
		CompletedDates:   w.CompletedDates,
		NotesByDate:      w.NotesByDate,
		ConfidenceByDate: w.ConfidenceByDate,
	}
	occ.Normalize()
	e.Occurrence = occ
	return nil
}
