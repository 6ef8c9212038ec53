// Package postgres implements the sync remote on a shared PostgreSQL
// database. Each document is one row of sync_documents; writes fire a
// NOTIFY on the sync channel that other devices LISTEN to.
package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/pressly/goose/v3"
	"golang.org/x/sync/errgroup"

	"github.com/Will-L07/scheduler/internal/constants"
	"github.com/Will-L07/scheduler/internal/logger"
	"github.com/Will-L07/scheduler/internal/models"
	"github.com/Will-L07/scheduler/internal/remote"
	"github.com/Will-L07/scheduler/migrations"
)

const (
	docSchedules = "schedules"
	docNotes     = "notes"
	docSettings  = "settings"

	migrationsDir = "remote"
)

var gooseMu sync.Mutex

type document struct {
	Body   string `db:"body"`
	Origin string `db:"origin"`
}

type Remote struct {
	dsn    string
	origin string
	db     *sqlx.DB
	psql   squirrel.StatementBuilderType
}

var _ remote.Remote = (*Remote)(nil)

type Option func(*Remote)

// WithOrigin sets the device id stamped on writes. Defaults to a random uuid.
func WithOrigin(origin string) Option {
	return func(r *Remote) { r.origin = origin }
}

// Open connects to dsn and applies the remote schema.
func Open(ctx context.Context, dsn string, opts ...Option) (*Remote, error) {
	db, err := sqlx.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("connect to remote: %w", err)
	}
	db.SetMaxOpenConns(4)
	db.SetConnMaxLifetime(time.Hour)
	db.SetConnMaxIdleTime(10 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping remote: %w", err)
	}

	r := &Remote{
		dsn:    dsn,
		origin: uuid.NewString(),
		db:     db,
		psql:   squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
	for _, opt := range opts {
		opt(r)
	}

	if err := r.up(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return r, nil
}

func (r *Remote) up(ctx context.Context) error {
	gooseMu.Lock()
	defer gooseMu.Unlock()

	goose.SetBaseFS(migrations.FS)
	defer goose.SetBaseFS(nil)
	goose.SetLogger(goose.NopLogger())
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("set migration dialect: %w", err)
	}
	if err := goose.UpContext(ctx, r.db.DB, migrationsDir); err != nil {
		return fmt.Errorf("run remote migrations (dir: %s): %w", migrationsDir, err)
	}
	return nil
}

// Origin is the device id this client stamps on its writes.
func (r *Remote) Origin() string {
	return r.origin
}

func (r *Remote) Close() error {
	return r.db.Close()
}

// Push upserts every non-nil document in a single transaction.
func (r *Remote) Push(ctx context.Context, userID string, snap remote.Snapshot) error {
	docs := map[string]any{}
	if snap.Schedules != nil {
		docs[docSchedules] = snap.Schedules
	}
	if snap.Notes != nil {
		docs[docNotes] = snap.Notes
	}
	if snap.Settings != nil {
		docs[docSettings] = snap.Settings
	}
	if len(docs) == 0 {
		return nil
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for collection, value := range docs {
		body, err := json.Marshal(value)
		if err != nil {
			return fmt.Errorf("encode %s: %w", collection, err)
		}

		query, args, err := r.psql.Insert("sync_documents").
			Columns("user_id", "collection", "body", "origin", "updated_at").
			Values(userID, collection, squirrel.Expr("?::jsonb", string(body)), r.origin, squirrel.Expr("now()")).
			Suffix("ON CONFLICT (user_id, collection) DO UPDATE SET body = EXCLUDED.body, origin = EXCLUDED.origin, updated_at = EXCLUDED.updated_at").
			ToSql()
		if err != nil {
			return fmt.Errorf("build SQL query (user_id: %s, collection: %s): %w", userID, collection, err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("push %s (user_id: %s): %w", collection, userID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit push: %w", err)
	}
	return nil
}

func (r *Remote) fetch(ctx context.Context, userID, collection string) (*document, error) {
	query, args, err := r.psql.Select("body::text AS body", "origin").
		From("sync_documents").
		Where(squirrel.Eq{"user_id": userID, "collection": collection}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build SQL query (user_id: %s, collection: %s): %w", userID, collection, err)
	}

	var doc document
	if err := r.db.GetContext(ctx, &doc, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("pull %s (user_id: %s): %w", collection, userID, err)
	}
	return &doc, nil
}

// Pull fetches the three documents concurrently.
func (r *Remote) Pull(ctx context.Context, userID string) (remote.Snapshot, bool, error) {
	var schedules, notes, settings *document
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		schedules, err = r.fetch(gctx, userID, docSchedules)
		return err
	})
	g.Go(func() (err error) {
		notes, err = r.fetch(gctx, userID, docNotes)
		return err
	})
	g.Go(func() (err error) {
		settings, err = r.fetch(gctx, userID, docSettings)
		return err
	})
	if err := g.Wait(); err != nil {
		return remote.Snapshot{}, false, err
	}

	var snap remote.Snapshot
	if schedules != nil {
		snap.Schedules = []models.Schedule{}
		if err := json.Unmarshal([]byte(schedules.Body), &snap.Schedules); err != nil {
			return remote.Snapshot{}, false, fmt.Errorf("decode schedules: %w", err)
		}
	}
	if notes != nil {
		snap.Notes = []models.Note{}
		if err := json.Unmarshal([]byte(notes.Body), &snap.Notes); err != nil {
			return remote.Snapshot{}, false, fmt.Errorf("decode notes: %w", err)
		}
	}
	if settings != nil {
		snap.Settings = &models.Settings{}
		if err := json.Unmarshal([]byte(settings.Body), snap.Settings); err != nil {
			return remote.Snapshot{}, false, fmt.Errorf("decode settings: %w", err)
		}
	}
	return snap, !snap.Empty(), nil
}

// parsePayload splits a "user:origin" notification payload.
func parsePayload(payload string) (userID, origin string, ok bool) {
	i := strings.LastIndex(payload, ":")
	if i < 0 {
		return "", "", false
	}
	return payload[:i], payload[i+1:], true
}

// Subscribe opens a dedicated connection, LISTENs on the sync channel and
// pulls a fresh snapshot for every notification written by another device.
func (r *Remote) Subscribe(ctx context.Context, userID string, fn func(remote.Snapshot)) (func(), error) {
	conn, err := pgx.Connect(ctx, r.dsn)
	if err != nil {
		return nil, fmt.Errorf("connect listener: %w", err)
	}
	if _, err := conn.Exec(ctx, "LISTEN "+constants.RemoteChannel); err != nil {
		_ = conn.Close(context.Background())
		return nil, fmt.Errorf("listen on %s: %w", constants.RemoteChannel, err)
	}

	listenCtx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		defer func() { _ = conn.Close(context.Background()) }()
		for {
			n, err := conn.WaitForNotification(listenCtx)
			if err != nil {
				if listenCtx.Err() == nil {
					logger.Error("Remote listener stopped", "error", err)
				}
				return
			}
			user, origin, ok := parsePayload(n.Payload)
			if !ok || user != userID || origin == r.origin {
				continue
			}
			snap, found, err := r.Pull(listenCtx, userID)
			if err != nil {
				logger.Error("Failed to pull after remote change", "error", err)
				continue
			}
			if found {
				fn(snap)
			}
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			cancel()
			<-done
		})
	}, nil
}
