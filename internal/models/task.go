package models

// Task is an entry resolved against a specific date: the view of "what do I
// do on that day" with completion state taken from the right place.
type Task struct {
	ScheduleID    string
	ScheduleName  string
	ScheduleColor string
	Entry         Entry
	Completed     bool
	Notes         string
	Confidence    Confidence
	// CompletionKey is the key toggles and per-date notes are written under.
	// For dated entries it is the entry's own date.
	CompletionKey string
}

func (t Task) Recurring() bool {
	return t.Entry.IsRecurring()
}
