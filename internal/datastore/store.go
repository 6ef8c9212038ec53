package datastore

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Will-L07/scheduler/internal/constants"
	"github.com/Will-L07/scheduler/internal/logger"
	"github.com/Will-L07/scheduler/internal/models"
	"github.com/Will-L07/scheduler/internal/storage"
)

// Collection names one of the synced records.
type Collection string

const (
	CollectionSchedules Collection = constants.KeySchedules
	CollectionNotes     Collection = constants.KeyNotes
	CollectionSettings  Collection = constants.KeySettings
)

// Origin tells the sync loop whether a change came from this device or
// was applied from the remote copy.
type Origin int

const (
	OriginLocal Origin = iota
	OriginRemote
)

// Event is emitted on Changes() after every persisted mutation.
type Event struct {
	Collection Collection
	Origin     Origin
}

const defaultChangeBuffer = 64

// UnreadableSuffix is appended to a record key to keep a copy of bytes
// that failed to decode. The copy holds the original bytes as a JSON string.
const UnreadableSuffix = ".unreadable"

var (
	ErrUnknownSchedule = errors.New("schedule not found")
	ErrDuplicateID     = errors.New("id already exists")
)

// Store owns the schedules, notes, settings and seeded flag. Every mutation
// updates memory first, then persists the whole owning collection.
// A failed write is logged and retried by the next Flush.
type Store struct {
	mu       sync.Mutex
	provider storage.Provider
	now      func() time.Time
	newID    func() string

	schedules []models.Schedule
	notes     []models.Note
	settings  models.Settings
	seeded    bool

	// raw holds the bytes last read from or written to each record.
	raw     map[string][]byte
	dirty   map[string]bool
	changes chan Event
}

type Option func(*Store)

// WithClock overrides time.Now for completion timestamps and created-at stamps.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithIDGenerator overrides uuid generation.
func WithIDGenerator(newID func() string) Option {
	return func(s *Store) { s.newID = newID }
}

// WithChangeBuffer sets the capacity of the change queue.
func WithChangeBuffer(n int) Option {
	return func(s *Store) { s.changes = make(chan Event, n) }
}

func New(provider storage.Provider, opts ...Option) *Store {
	s := &Store{
		provider: provider,
		now:      time.Now,
		newID:    uuid.NewString,
		settings: models.DefaultSettings(),
		raw:      make(map[string][]byte),
		dirty:    make(map[string]bool),
		changes:  make(chan Event, defaultChangeBuffer),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Changes delivers one event per persisted mutation. Events are dropped
// when the buffer is full, since a single pending sync covers them all.
func (s *Store) Changes() <-chan Event {
	return s.changes
}

// Provider exposes the underlying key-value store for auxiliary records.
func (s *Store) Provider() storage.Provider {
	return s.provider
}

// Now returns the store's clock reading.
func (s *Store) Now() time.Time {
	return s.now()
}

// Load reads all records from the provider. Missing records start empty.
// A record that fails to decode is copied aside under "<key>.unreadable"
// as a JSON string, logged and treated as empty.
func (s *Store) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.raw = make(map[string][]byte)
	_, err := s.reload(false)
	return err
}

// Reload picks up records written by other processes sharing the provider.
// Collections with a pending failed write keep their in-memory state.
// Every synced collection that changed on disk emits an OriginLocal event.
func (s *Store) Reload() (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.reload(true)
}

func (s *Store) reload(announce bool) (bool, error) {
	changed := false
	for _, key := range []string{constants.KeySchedules, constants.KeyNotes, constants.KeySettings, constants.KeySeeded} {
		ok, err := s.loadRecord(key)
		if err != nil {
			return changed, err
		}
		if ok {
			changed = true
			if announce && key != constants.KeySeeded {
				s.emit(Event{Collection: Collection(key), Origin: OriginLocal})
			}
		}
	}
	return changed, nil
}

// lockFresh takes s.mu and first picks up records written by other
// processes, so the caller works on and writes back current data.
func (s *Store) lockFresh() {
	s.mu.Lock()
	if _, err := s.reload(true); err != nil {
		logger.Warn("Using the last loaded state", "error", err)
	}
}

// loadRecord decodes key into memory when its stored bytes differ from the
// last ones read or written. Callers hold s.mu.
func (s *Store) loadRecord(key string) (bool, error) {
	if s.dirty[key] {
		return false, nil
	}
	data, err := s.provider.Get(key)
	if errors.Is(err, storage.ErrNotFound) {
		data, err = nil, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to load %s: %w", key, err)
	}
	if prev, seen := s.raw[key]; seen && bytes.Equal(prev, data) {
		return false, nil
	}
	s.raw[key] = data

	switch key {
	case constants.KeySchedules:
		var schedules []models.Schedule
		if !s.decode(key, data, &schedules) || schedules == nil {
			schedules = []models.Schedule{}
		}
		for i := range schedules {
			schedules[i].Normalize()
		}
		s.schedules = schedules
	case constants.KeyNotes:
		var notes []models.Note
		if !s.decode(key, data, &notes) || notes == nil {
			notes = []models.Note{}
		}
		s.notes = notes
	case constants.KeySettings:
		settings := models.DefaultSettings()
		if !s.decode(key, data, &settings) {
			settings = models.DefaultSettings()
		}
		models.ApplyDefaultSettings(&settings)
		s.settings = settings
	case constants.KeySeeded:
		var seeded bool
		s.decode(key, data, &seeded)
		s.seeded = seeded
	}
	return true, nil
}

// decode reports whether data was present and valid.
func (s *Store) decode(key string, data []byte, dst any) bool {
	if data == nil {
		return false
	}
	err := json.Unmarshal(data, dst)
	if err == nil {
		return true
	}
	logger.Error("Discarding unreadable record", "key", key, "error", err)
	aside := key + UnreadableSuffix
	// stored as a JSON string since providers only accept valid JSON
	copied, _ := json.Marshal(string(data))
	if setErr := s.provider.Set(aside, copied); setErr != nil {
		logger.Error("Failed to keep a copy of unreadable record", "key", aside, "error", setErr)
	} else {
		logger.Warn("Kept a copy of the unreadable record", "key", aside)
	}
	return false
}

// Flush persists every collection whose last write failed.
func (s *Store) Flush() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var errs []error
	for key := range s.dirty {
		if err := s.write(key); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (s *Store) write(key string) error {
	var value any
	switch key {
	case constants.KeySchedules:
		value = s.schedules
	case constants.KeyNotes:
		value = s.notes
	case constants.KeySettings:
		value = s.settings
	case constants.KeySeeded:
		value = s.seeded
	default:
		return fmt.Errorf("unknown record %q", key)
	}

	data, err := json.Marshal(value)
	if err == nil {
		err = s.provider.Set(key, data)
	}
	if err != nil {
		s.dirty[key] = true
		logger.Error("Failed to persist record", "key", key, "error", err)
		return fmt.Errorf("failed to persist %s: %w", key, err)
	}
	s.raw[key] = data
	delete(s.dirty, key)
	return nil
}

// persist writes a collection and announces the change. Callers hold s.mu.
func (s *Store) persist(c Collection, origin Origin) {
	_ = s.write(string(c))
	s.emit(Event{Collection: c, Origin: origin})
}

func (s *Store) emit(ev Event) {
	select {
	case s.changes <- ev:
	default:
		logger.Debug("Change queue full, dropping event", "collection", ev.Collection)
	}
}

// Seeded reports whether first-run seed data has been added.
func (s *Store) Seeded() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.seeded
}

func (s *Store) MarkSeeded() {
	s.lockFresh()
	defer s.mu.Unlock()
	s.seeded = true
	_ = s.write(constants.KeySeeded)
}

func (s *Store) Settings() models.Settings {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.settings
}

// SaveSettings overwrites the settings record wholesale.
func (s *Store) SaveSettings(settings models.Settings) {
	s.lockFresh()
	defer s.mu.Unlock()
	s.settings = settings
	s.persist(CollectionSettings, OriginLocal)
}

// Reset removes all four records and returns the store to its empty state.
func (s *Store) Reset() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var errs []error
	for _, key := range []string{constants.KeySchedules, constants.KeyNotes, constants.KeySettings, constants.KeySeeded} {
		if err := s.provider.Delete(key); err != nil {
			errs = append(errs, fmt.Errorf("failed to delete %s: %w", key, err))
		}
	}

	s.schedules = []models.Schedule{}
	s.notes = []models.Note{}
	s.settings = models.DefaultSettings()
	s.seeded = false
	s.dirty = make(map[string]bool)
	s.raw = map[string][]byte{
		constants.KeySchedules: nil,
		constants.KeyNotes:     nil,
		constants.KeySettings:  nil,
		constants.KeySeeded:    nil,
	}

	s.emit(Event{Collection: CollectionSchedules, Origin: OriginLocal})
	s.emit(Event{Collection: CollectionNotes, Origin: OriginLocal})
	s.emit(Event{Collection: CollectionSettings, Origin: OriginLocal})
	return errors.Join(errs...)
}

// State is a point-in-time copy of the synced collections.
type State struct {
	Schedules []models.Schedule
	Notes     []models.Note
	Settings  models.Settings
}

// State re-reads the provider first so a push carries writes made by other
// processes sharing it.
func (s *Store) State() State {
	s.lockFresh()
	defer s.mu.Unlock()
	return State{
		Schedules: models.CloneSchedules(s.schedules),
		Notes:     slices.Clone(s.notes),
		Settings:  s.settings,
	}
}

// RemoteUpdate carries collections produced by reconciling with the remote
// copy. Nil fields are left untouched.
type RemoteUpdate struct {
	Schedules []models.Schedule
	Notes     []models.Note
	Settings  *models.Settings
}

// ApplyRemote replaces the given collections. The resulting events carry
// OriginRemote so the sync loop does not push them straight back.
func (s *Store) ApplyRemote(u RemoteUpdate) {
	s.lockFresh()
	defer s.mu.Unlock()
	s.applyRemote(u)
}

// Reconcile re-reads the provider, then computes a RemoteUpdate from the fresh
// state and applies it without letting another mutation in between.
func (s *Store) Reconcile(fn func(State) RemoteUpdate) {
	s.lockFresh()
	defer s.mu.Unlock()

	u := fn(State{
		Schedules: models.CloneSchedules(s.schedules),
		Notes:     slices.Clone(s.notes),
		Settings:  s.settings,
	})
	s.applyRemote(u)
}

func (s *Store) applyRemote(u RemoteUpdate) {
	if u.Schedules != nil {
		s.schedules = models.CloneSchedules(u.Schedules)
		for i := range s.schedules {
			s.schedules[i].Normalize()
		}
		s.persist(CollectionSchedules, OriginRemote)
	}
	if u.Notes != nil {
		s.notes = slices.Clone(u.Notes)
		s.persist(CollectionNotes, OriginRemote)
	}
	if u.Settings != nil {
		s.settings = *u.Settings
		models.ApplyDefaultSettings(&s.settings)
		s.persist(CollectionSettings, OriginRemote)
	}
}
