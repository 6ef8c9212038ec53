package models

import "time"

// Note is a free-form journal record, optionally linked to a schedule entry.
type Note struct {
	ID             string    `json:"id"`
	Title          string    `json:"title"`
	Category       string    `json:"category"`
	Content        string    `json:"content"`
	CreatedAt      time.Time `json:"createdAt"`
	LinkedSchedule string    `json:"linkedSchedule,omitempty"`
	LinkedEntry    string    `json:"linkedEntry,omitempty"`
}
