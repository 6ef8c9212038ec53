package remote

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/Will-L07/scheduler/internal/models"
)

var ErrClosed = errors.New("remote is closed")

type memoryDoc struct {
	schedules json.RawMessage
	notes     json.RawMessage
	settings  json.RawMessage
}

type memorySub struct {
	userID string
	origin string
	fn     func(Snapshot)
}

// Memory is an in-process document store shared by any number of clients.
// Documents are kept as encoded JSON so clients never share memory.
type Memory struct {
	mu     sync.Mutex
	docs   map[string]*memoryDoc
	subs   map[int]memorySub
	nextID int
	err    error
	pushes int
}

func NewMemory() *Memory {
	return &Memory{
		docs: make(map[string]*memoryDoc),
		subs: make(map[int]memorySub),
	}
}

// FailWith makes every following call return err until it is reset with nil.
func (m *Memory) FailWith(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// Pushes counts successful pushes across all clients.
func (m *Memory) Pushes() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.pushes
}

// Client returns a Remote bound to one device. Subscribers are not told
// about the device's own writes.
func (m *Memory) Client(origin string) Remote {
	return &memoryClient{hub: m, origin: origin}
}

type memoryClient struct {
	hub    *Memory
	origin string
	closed bool
}

func (c *memoryClient) Push(ctx context.Context, userID string, snap Snapshot) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m := c.hub
	m.mu.Lock()
	if c.closed {
		m.mu.Unlock()
		return ErrClosed
	}
	if m.err != nil {
		err := m.err
		m.mu.Unlock()
		return err
	}

	doc := m.docs[userID]
	if doc == nil {
		doc = &memoryDoc{}
		m.docs[userID] = doc
	}
	if err := encodeInto(&doc.schedules, snap.Schedules, snap.Schedules != nil); err != nil {
		m.mu.Unlock()
		return err
	}
	if err := encodeInto(&doc.notes, snap.Notes, snap.Notes != nil); err != nil {
		m.mu.Unlock()
		return err
	}
	if err := encodeInto(&doc.settings, snap.Settings, snap.Settings != nil); err != nil {
		m.mu.Unlock()
		return err
	}
	m.pushes++

	var notify []func(Snapshot)
	for _, s := range m.subs {
		if s.userID == userID && s.origin != c.origin {
			notify = append(notify, s.fn)
		}
	}
	current, err := doc.decode()
	m.mu.Unlock()
	if err != nil {
		return err
	}

	for _, fn := range notify {
		fn(current)
	}
	return nil
}

func encodeInto(dst *json.RawMessage, v any, present bool) error {
	if !present {
		return nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode document: %w", err)
	}
	*dst = data
	return nil
}

func (d *memoryDoc) decode() (Snapshot, error) {
	var snap Snapshot
	if d.schedules != nil {
		snap.Schedules = []models.Schedule{}
		if err := json.Unmarshal(d.schedules, &snap.Schedules); err != nil {
			return Snapshot{}, fmt.Errorf("failed to decode schedules: %w", err)
		}
	}
	if d.notes != nil {
		snap.Notes = []models.Note{}
		if err := json.Unmarshal(d.notes, &snap.Notes); err != nil {
			return Snapshot{}, fmt.Errorf("failed to decode notes: %w", err)
		}
	}
	if d.settings != nil {
		snap.Settings = &models.Settings{}
		if err := json.Unmarshal(d.settings, snap.Settings); err != nil {
			return Snapshot{}, fmt.Errorf("failed to decode settings: %w", err)
		}
	}
	return snap, nil
}

func (c *memoryClient) Pull(ctx context.Context, userID string) (Snapshot, bool, error) {
	if err := ctx.Err(); err != nil {
		return Snapshot{}, false, err
	}
	m := c.hub
	m.mu.Lock()
	defer m.mu.Unlock()
	if c.closed {
		return Snapshot{}, false, ErrClosed
	}
	if m.err != nil {
		return Snapshot{}, false, m.err
	}

	doc := m.docs[userID]
	if doc == nil {
		return Snapshot{}, false, nil
	}
	snap, err := doc.decode()
	if err != nil {
		return Snapshot{}, false, err
	}
	return snap, !snap.Empty(), nil
}

func (c *memoryClient) Subscribe(_ context.Context, userID string, fn func(Snapshot)) (func(), error) {
	m := c.hub
	m.mu.Lock()
	defer m.mu.Unlock()
	if c.closed {
		return nil, ErrClosed
	}

	id := m.nextID
	m.nextID++
	m.subs[id] = memorySub{userID: userID, origin: c.origin, fn: fn}

	var once sync.Once
	return func() {
		once.Do(func() {
			m.mu.Lock()
			delete(m.subs, id)
			m.mu.Unlock()
		})
	}, nil
}

func (c *memoryClient) Close() error {
	m := c.hub
	m.mu.Lock()
	defer m.mu.Unlock()
	c.closed = true
	for id, s := range m.subs {
		if s.origin == c.origin {
			delete(m.subs, id)
		}
	}
	return nil
}
