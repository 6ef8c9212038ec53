// Package cloudsync keeps the local store and a remote copy in step.
//
// Local writes are collected from the store's change queue and pushed
// after a quiet period. Changes made on other devices arrive through the
// remote subscription and are merged into the local store. At most one
// push or pull runs at a time.
package cloudsync

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/Will-L07/scheduler/internal/constants"
	"github.com/Will-L07/scheduler/internal/datastore"
	"github.com/Will-L07/scheduler/internal/logger"
	"github.com/Will-L07/scheduler/internal/merge"
	"github.com/Will-L07/scheduler/internal/metrics"
	"github.com/Will-L07/scheduler/internal/models"
	"github.com/Will-L07/scheduler/internal/remote"
)

const (
	StatusNotSignedIn = "Not signed in"
	StatusConnected   = "Connected"
	StatusSynced      = "Synced just now"
	StatusFailed      = "Sync failed"
)

var (
	ErrNotSignedIn    = errors.New("not signed in to cloud sync")
	ErrSyncInProgress = errors.New("a sync is already in progress")
)

type Syncer struct {
	store    *datastore.Store
	remote   remote.Remote
	debounce time.Duration
	now      func() time.Time

	mu          sync.Mutex
	userID      string
	syncing     bool
	status      string
	lastSync    time.Time
	unsubscribe func()
	stopLoop    context.CancelFunc
	loopDone    chan struct{}
}

type Option func(*Syncer)

// WithDebounce sets the quiet period between the last local write and the push.
func WithDebounce(d time.Duration) Option {
	return func(s *Syncer) { s.debounce = d }
}

func WithClock(now func() time.Time) Option {
	return func(s *Syncer) { s.now = now }
}

func New(store *datastore.Store, r remote.Remote, opts ...Option) *Syncer {
	s := &Syncer{
		store:    store,
		remote:   r,
		debounce: constants.DefaultSyncDebounce,
		now:      time.Now,
		status:   StatusNotSignedIn,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Syncer) Status() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// LastSync is the time of the last successful push or pull.
func (s *Syncer) LastSync() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSync
}

func (s *Syncer) UserID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.userID
}

func (s *Syncer) SignedIn() bool {
	return s.UserID() != ""
}

// SignIn binds the syncer to userID, reconciles with the remote copy and
// starts the debounced push loop and the remote subscription. A failed
// initial sync is returned but leaves the syncer signed in so later
// writes still sync.
func (s *Syncer) SignIn(ctx context.Context, userID string) error {
	if userID == "" {
		return errors.New("user id is required")
	}
	if s.SignedIn() {
		s.SignOut()
	}

	s.mu.Lock()
	s.userID = userID
	s.status = StatusConnected
	s.mu.Unlock()
	logger.Info("Signed in to cloud sync", "user", userID)

	syncErr := s.SyncFromCloud(ctx)
	if syncErr != nil && !errors.Is(syncErr, ErrSyncInProgress) {
		logger.Error("Initial sync failed", "error", syncErr)
	}

	unsubscribe, err := s.remote.Subscribe(ctx, userID, s.onRemoteChange)
	if err != nil {
		logger.Error("Failed to subscribe to remote changes", "error", err)
		return errors.Join(syncErr, err)
	}

	loopCtx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	s.mu.Lock()
	s.unsubscribe = unsubscribe
	s.stopLoop = cancel
	s.loopDone = done
	s.mu.Unlock()

	go s.run(loopCtx, done)
	return syncErr
}

// SignOut stops future syncs. A push already in flight is allowed to finish.
func (s *Syncer) SignOut() {
	s.mu.Lock()
	unsubscribe, stop, done := s.unsubscribe, s.stopLoop, s.loopDone
	s.unsubscribe, s.stopLoop, s.loopDone = nil, nil, nil
	user := s.userID
	s.userID = ""
	s.status = StatusNotSignedIn
	s.mu.Unlock()

	if unsubscribe != nil {
		unsubscribe()
	}
	if stop != nil {
		stop()
		<-done
	}
	if user != "" {
		logger.Info("Signed out of cloud sync; data stays on this device", "user", user)
	}
}

// run drains the store's change queue and pushes once no local change has
// arrived for the debounce period. Changes applied from the remote copy are
// not pushed back.
func (s *Syncer) run(ctx context.Context, done chan struct{}) {
	defer close(done)

	timer := time.NewTimer(s.debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case ev := <-s.store.Changes():
			if ev.Origin == datastore.OriginRemote {
				continue
			}
			timer.Reset(s.debounce)
		case <-timer.C:
			err := s.SyncToCloud(context.WithoutCancel(ctx))
			if errors.Is(err, ErrSyncInProgress) {
				// retry once the running sync has finished
				timer.Reset(s.debounce)
			}
		}
	}
}

// begin takes the reentrancy guard.
func (s *Syncer) begin(op string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.userID == "" {
		return "", ErrNotSignedIn
	}
	if s.syncing {
		metrics.RecordSync(op, metrics.StatusSkipped)
		return "", ErrSyncInProgress
	}
	s.syncing = true
	return s.userID, nil
}

func (s *Syncer) end(op string, started time.Time, err error) {
	elapsed := time.Since(started)

	s.mu.Lock()
	s.syncing = false
	if s.userID != "" {
		if err != nil {
			s.status = StatusFailed
		} else {
			s.status = StatusSynced
			s.lastSync = s.now()
		}
	}
	s.mu.Unlock()

	if err != nil {
		metrics.RecordSync(op, metrics.StatusFailed)
		logger.Error("Sync failed", "op", op, "error", err)
		return
	}
	metrics.RecordSync(op, metrics.StatusSuccess)
	metrics.ObserveSyncDuration(op, elapsed.Seconds())
	logger.Debug("Sync complete", "op", op, "duration", elapsed)
}

// SyncToCloud pushes the whole local state.
func (s *Syncer) SyncToCloud(ctx context.Context) (err error) {
	userID, err := s.begin(metrics.OpPush)
	if err != nil {
		return err
	}
	started := time.Now()
	defer func() { s.end(metrics.OpPush, started, err) }()

	return s.push(ctx, userID)
}

func (s *Syncer) push(ctx context.Context, userID string) error {
	st := s.store.State()
	if st.Schedules == nil {
		st.Schedules = []models.Schedule{}
	}
	if st.Notes == nil {
		st.Notes = []models.Note{}
	}
	return s.remote.Push(ctx, userID, remote.Snapshot{
		Schedules: st.Schedules,
		Notes:     st.Notes,
		Settings:  &st.Settings,
	})
}

// SyncFromCloud pulls the remote copy and merges it into the local store.
// When the remote has no schedules document yet, local data is pushed up
// instead. A remote with an empty schedule list changes nothing.
func (s *Syncer) SyncFromCloud(ctx context.Context) (err error) {
	userID, err := s.begin(metrics.OpPull)
	if err != nil {
		return err
	}
	started := time.Now()
	defer func() { s.end(metrics.OpPull, started, err) }()

	snap, _, err := s.remote.Pull(ctx, userID)
	if err != nil {
		return err
	}
	if snap.Schedules == nil {
		logger.Info("Remote copy is empty, pushing local data", "user", userID)
		return s.push(ctx, userID)
	}
	if len(snap.Schedules) == 0 {
		return nil
	}

	s.store.Reconcile(func(local datastore.State) datastore.RemoteUpdate {
		u := datastore.RemoteUpdate{
			Schedules: merge.Schedules(local.Schedules, snap.Schedules),
			Settings:  snap.Settings,
		}
		if snap.Notes != nil {
			u.Notes = merge.Notes(local.Notes, snap.Notes)
		}
		return u
	})
	return nil
}

// onRemoteChange merges schedules written by another device. It is ignored
// while a push or pull of our own is running.
func (s *Syncer) onRemoteChange(snap remote.Snapshot) {
	s.mu.Lock()
	busy := s.syncing || s.userID == ""
	s.mu.Unlock()
	if busy || len(snap.Schedules) == 0 {
		return
	}

	s.store.Reconcile(func(local datastore.State) datastore.RemoteUpdate {
		return datastore.RemoteUpdate{Schedules: merge.Schedules(local.Schedules, snap.Schedules)}
	})
	metrics.RecordRemoteChange()

	s.mu.Lock()
	if s.userID != "" {
		s.status = StatusSynced
		s.lastSync = s.now()
	}
	s.mu.Unlock()
	logger.Debug("Merged remote change", "schedules", len(snap.Schedules))
}
