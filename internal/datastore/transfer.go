package datastore

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Will-L07/scheduler/internal/logger"
	"github.com/Will-L07/scheduler/internal/models"
)

// ErrMalformedImport reports an import document that is not a JSON object
// or whose collections cannot be decoded. Nothing is changed when it is returned.
var ErrMalformedImport = errors.New("malformed import document")

// ExportDocument is the backup and transfer format.
type ExportDocument struct {
	Schedules  []models.Schedule `json:"schedules"`
	Notes      []models.Note     `json:"notes"`
	Settings   models.Settings   `json:"settings"`
	ExportedAt time.Time         `json:"exportedAt"`
}

func (s *Store) Export() ([]byte, error) {
	s.mu.Lock()
	doc := ExportDocument{
		Schedules:  models.CloneSchedules(s.schedules),
		Notes:      append([]models.Note{}, s.notes...),
		Settings:   s.settings,
		ExportedAt: s.now().UTC(),
	}
	s.mu.Unlock()

	if doc.Schedules == nil {
		doc.Schedules = []models.Schedule{}
	}
	return json.MarshalIndent(doc, "", "  ")
}

// ImportResult counts what an import changed.
type ImportResult struct {
	SchedulesReplaced int
	SchedulesAdded    int
	NotesAdded        int
	SettingsReplaced  bool
}

// Import merges an export document. Each top-level key is applied only if
// present: schedules replace same-id schedules or are appended, notes with
// unknown ids are appended and settings are overwritten.
func (s *Store) Import(data []byte) (ImportResult, error) {
	var res ImportResult

	var root map[string]json.RawMessage
	if err := json.Unmarshal(data, &root); err != nil || root == nil {
		logger.Warn("Rejected import", "error", err)
		return res, fmt.Errorf("%w: root must be a JSON object", ErrMalformedImport)
	}

	var (
		schedules []models.Schedule
		notes     []models.Note
		settings  *models.Settings
	)
	if raw, ok := root["schedules"]; ok && !isNull(raw) {
		if err := json.Unmarshal(raw, &schedules); err != nil {
			return res, fmt.Errorf("%w: schedules: %v", ErrMalformedImport, err)
		}
		for i := range schedules {
			if schedules[i].ID == "" {
				return res, fmt.Errorf("%w: schedule %d has no id", ErrMalformedImport, i)
			}
			if err := prepareEntries(schedules[i].Entries); err != nil {
				return res, fmt.Errorf("%w: schedule %s: %v", ErrMalformedImport, schedules[i].ID, err)
			}
			schedules[i].Normalize()
		}
	}
	if raw, ok := root["notes"]; ok && !isNull(raw) {
		if err := json.Unmarshal(raw, &notes); err != nil {
			return res, fmt.Errorf("%w: notes: %v", ErrMalformedImport, err)
		}
	}
	if raw, ok := root["settings"]; ok && !isNull(raw) {
		decoded := models.DefaultSettings()
		if err := json.Unmarshal(raw, &decoded); err != nil {
			return res, fmt.Errorf("%w: settings: %v", ErrMalformedImport, err)
		}
		settings = &decoded
	}

	s.lockFresh()
	defer s.mu.Unlock()

	if schedules != nil {
		for _, sch := range schedules {
			if i := s.indexOf(sch.ID); i >= 0 {
				s.schedules[i] = sch
				res.SchedulesReplaced++
			} else {
				s.schedules = append(s.schedules, sch)
				res.SchedulesAdded++
			}
		}
		s.persist(CollectionSchedules, OriginLocal)
	}
	if notes != nil {
		for _, n := range notes {
			if s.noteIndex(n.ID) < 0 {
				s.notes = append(s.notes, n)
				res.NotesAdded++
			}
		}
		s.persist(CollectionNotes, OriginLocal)
	}
	if settings != nil {
		s.settings = *settings
		res.SettingsReplaced = true
		s.persist(CollectionSettings, OriginLocal)
	}

	logger.Info("Imported data",
		"schedulesReplaced", res.SchedulesReplaced,
		"schedulesAdded", res.SchedulesAdded,
		"notesAdded", res.NotesAdded,
		"settings", res.SettingsReplaced,
	)
	return res, nil
}

func isNull(raw json.RawMessage) bool {
	return string(raw) == "null"
}
