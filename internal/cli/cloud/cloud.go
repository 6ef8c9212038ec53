package cloud

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/Will-L07/scheduler/internal/cli"
	"github.com/Will-L07/scheduler/internal/cloudsync"
	"github.com/Will-L07/scheduler/internal/constants"
	"github.com/Will-L07/scheduler/internal/keyring"
	"github.com/Will-L07/scheduler/internal/remote"
	"github.com/Will-L07/scheduler/internal/remote/postgres"
)

var errNoRemote = fmt.Errorf("no sync remote configured: set sync.remote in the config file or run '%s keyring set'", constants.AppName)

// openRemote is replaced in tests.
var openRemote = func(ctx context.Context, dsn string) (remote.Remote, error) {
	return postgres.Open(ctx, dsn)
}

// remoteDSN prefers the config file over the keyring.
func remoteDSN(ctx *cli.Context) (string, error) {
	if ctx.Config.Sync.Remote != "" {
		return ctx.Config.Sync.Remote, nil
	}
	dsn, err := keyring.GetConnectionString()
	if errors.Is(err, keyring.ErrNotFound) || errors.Is(err, keyring.ErrKeyringUnavailable) {
		return "", errNoRemote
	}
	if err != nil {
		return "", fmt.Errorf("failed to read sync remote from keyring: %w", err)
	}
	return dsn, nil
}

// userID returns the signed-in user: the config file first, then the keyring.
func userID(ctx *cli.Context) (string, bool) {
	if ctx.Config.Sync.UserID != "" {
		return ctx.Config.Sync.UserID, true
	}
	id, err := keyring.GetUserID()
	if err != nil || id == "" {
		return "", false
	}
	return id, true
}

// connect opens the remote and signs a syncer in, which runs the initial
// reconcile. Callers must call the returned close func.
func connect(appCtx context.Context, ctx *cli.Context) (*cloudsync.Syncer, func(), error) {
	id, ok := userID(ctx)
	if !ok {
		return nil, nil, fmt.Errorf("%w: run '%s sync login' first", cloudsync.ErrNotSignedIn, constants.AppName)
	}
	dsn, err := remoteDSN(ctx)
	if err != nil {
		return nil, nil, err
	}
	r, err := openRemote(appCtx, dsn)
	if err != nil {
		return nil, nil, err
	}
	s := cloudsync.New(ctx.Store, r, cloudsync.WithDebounce(ctx.Config.Sync.Debounce))
	closeFn := func() {
		s.SignOut()
		_ = r.Close()
	}
	if err := s.SignIn(appCtx, id); err != nil {
		closeFn()
		return nil, nil, fmt.Errorf("initial sync failed: %w", err)
	}
	return s, closeFn, nil
}

type LoginCmd struct {
	User string `arg:"" optional:"" help:"Account id to sign in as. A new one is generated when omitted."`
}

func (c *LoginCmd) Run(appCtx context.Context, ctx *cli.Context) error {
	id := c.User
	if id == "" {
		if existing, ok := userID(ctx); ok {
			id = existing
		} else {
			id = uuid.NewString()
		}
	}
	if err := keyring.SetUserID(id); err != nil {
		return fmt.Errorf("failed to store user id in keyring: %w", err)
	}

	_, closeFn, err := connect(appCtx, ctx)
	if err != nil {
		return err
	}
	closeFn()

	ctx.Printf("✓ Signed in as %s\n", id)
	ctx.Println("  Use the same id on your other devices to share schedules.")
	return nil
}

type LogoutCmd struct{}

func (c *LogoutCmd) Run(ctx *cli.Context) error {
	if err := keyring.DeleteUserID(); err != nil && !errors.Is(err, keyring.ErrNotFound) {
		return fmt.Errorf("failed to remove user id from keyring: %w", err)
	}
	ctx.Println("Signed out. Your data stays on this device.")
	return nil
}

// NowCmd merges the remote copy into local data and pushes the result.
type NowCmd struct{}

func (c *NowCmd) Run(appCtx context.Context, ctx *cli.Context) error {
	s, closeFn, err := connect(appCtx, ctx)
	if err != nil {
		return err
	}
	defer closeFn()

	if err := s.SyncToCloud(appCtx); err != nil {
		return fmt.Errorf("push failed: %w", err)
	}
	ctx.Printf("✓ %s (%d schedules, %d notes)\n", s.Status(), len(ctx.Store.Schedules()), len(ctx.Store.Notes()))
	return nil
}

type StatusCmd struct{}

func (c *StatusCmd) Run(appCtx context.Context, ctx *cli.Context) error {
	id, ok := userID(ctx)
	if !ok {
		ctx.Println(cloudsync.StatusNotSignedIn)
		return nil
	}
	ctx.Printf("Signed in as: %s\n", id)

	dsn, err := remoteDSN(ctx)
	if err != nil {
		ctx.Printf("Remote: %v\n", err)
		return nil
	}
	r, err := openRemote(appCtx, dsn)
	if err != nil {
		ctx.Printf("Remote: unreachable (%v)\n", err)
		return nil
	}
	defer r.Close()

	pullCtx, cancel := context.WithTimeout(appCtx, 10*time.Second)
	defer cancel()
	snap, found, err := r.Pull(pullCtx, id)
	if err != nil {
		ctx.Printf("Remote: unreachable (%v)\n", err)
		return nil
	}
	if !found {
		ctx.Println("Remote: reachable, nothing synced yet")
		return nil
	}
	ctx.Printf("Remote: reachable, %d schedules and %d notes\n", len(snap.Schedules), len(snap.Notes))
	return nil
}
