// Package merge reconciles a local copy of the schedules and notes with a
// copy pulled from the remote store.
//
// The rules are fixed heuristics rather than causal ordering. Concurrent
// edits to the same dated entry's notes resolve to the longer note, and a
// completion on either side wins over a pending one.
package merge

import (
	"maps"
	"slices"
	"sort"
	"unicode/utf8"

	"github.com/Will-L07/scheduler/internal/models"
)

// Schedules merges remote into local. Schedules only present remotely are
// appended; schedules on both sides keep the local scalar fields and have
// their entries merged. Neither input is modified.
func Schedules(local, remote []models.Schedule) []models.Schedule {
	out := models.CloneSchedules(local)
	for _, rs := range remote {
		i := indexOf(out, rs.ID)
		if i < 0 {
			out = append(out, rs.Clone())
			continue
		}
		out[i] = Entries(out[i], rs.Entries)
	}
	return out
}

func indexOf(schedules []models.Schedule, id string) int {
	for i := range schedules {
		if schedules[i].ID == id {
			return i
		}
	}
	return -1
}

// Entries merges remote entries into a copy of sch.
func Entries(sch models.Schedule, remote []models.Entry) models.Schedule {
	sch = sch.Clone()
	for _, re := range remote {
		j := sch.EntryIndex(re.ID)
		if j < 0 {
			sch.Entries = append(sch.Entries, re.Clone())
			continue
		}
		mergeEntry(&sch.Entries[j], re)
	}
	return sch
}

// mergeEntry folds remote's completion state into local in place. Entries
// whose variants differ keep the local variant.
func mergeEntry(local *models.Entry, remote models.Entry) {
	switch lo := local.Occurrence.(type) {
	case *models.RecurringOccurrence:
		ro, ok := remote.Occurrence.(*models.RecurringOccurrence)
		if !ok {
			return
		}
		mergeRecurring(lo, ro)
	case *models.DatedOccurrence:
		ro, ok := remote.Occurrence.(*models.DatedOccurrence)
		if !ok {
			return
		}
		mergeDated(lo, ro)
	}
}

func mergeRecurring(local, remote *models.RecurringOccurrence) {
	dates := append(slices.Clone(local.CompletedDates), remote.CompletedDates...)
	slices.Sort(dates)
	local.CompletedDates = slices.Compact(dates)

	// remote wins on the same date
	if local.NotesByDate == nil {
		local.NotesByDate = map[string]string{}
	}
	maps.Copy(local.NotesByDate, remote.NotesByDate)
	if local.ConfidenceByDate == nil {
		local.ConfidenceByDate = map[string]models.Confidence{}
	}
	maps.Copy(local.ConfidenceByDate, remote.ConfidenceByDate)
	local.Normalize()
}

func mergeDated(local, remote *models.DatedOccurrence) {
	if remote.Completed && !local.Completed {
		local.Completed = true
		local.CompletedAt = nil
		if remote.CompletedAt != nil {
			t := *remote.CompletedAt
			local.CompletedAt = &t
		}
	}
	if utf8.RuneCountInString(remote.Notes) > utf8.RuneCountInString(local.Notes) {
		local.Notes = remote.Notes
	}
	if local.Confidence == models.ConfidenceNone {
		local.Confidence = remote.Confidence
	}
}

// Notes returns the union of both lists by id, newest first. A note present
// on both sides keeps its local version.
func Notes(local, remote []models.Note) []models.Note {
	out := slices.Clone(local)
	seen := make(map[string]bool, len(local))
	for _, n := range local {
		seen[n.ID] = true
	}
	for _, n := range remote {
		if !seen[n.ID] {
			seen[n.ID] = true
			out = append(out, n)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if out == nil {
		out = []models.Note{}
	}
	return out
}
