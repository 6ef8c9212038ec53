package backups

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Will-L07/scheduler/internal/cli"
	"github.com/Will-L07/scheduler/internal/config"
	"github.com/Will-L07/scheduler/internal/seed"
	"github.com/Will-L07/scheduler/internal/storage"
	"github.com/Will-L07/scheduler/internal/storage/sqlite"
)

func setup(t *testing.T, provider storage.Provider) (*cli.Context, *bytes.Buffer) {
	t.Helper()
	if err := provider.Init(); err != nil {
		t.Fatalf("failed to init storage: %v", err)
	}
	t.Cleanup(func() { provider.Close() })

	ctx := cli.NewContext(provider, config.Default())
	var out bytes.Buffer
	ctx.Out = &out
	if err := ctx.Store.Load(); err != nil {
		t.Fatal(err)
	}
	if _, err := seed.Run(ctx.Store); err != nil {
		t.Fatal(err)
	}
	if err := ctx.Store.Flush(); err != nil {
		t.Fatal(err)
	}
	return ctx, &out
}

func TestBackupRoundTrip(t *testing.T) {
	for _, name := range []string{"test.db", "test.json"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), name)
			provider, err := cli.OpenProvider(path)
			if err != nil {
				t.Fatal(err)
			}
			ctx, out := setup(t, provider)

			if err := (&BackupCreateCmd{}).Run(ctx); err != nil {
				t.Fatalf("create failed: %v", err)
			}
			if !strings.Contains(out.String(), "✓ Backup created: scheduler-") {
				t.Fatalf("unexpected output:\n%s", out.String())
			}
			created := strings.TrimSpace(strings.TrimPrefix(out.String(), "✓ Backup created: "))

			out.Reset()
			if err := (&BackupListCmd{}).Run(ctx); err != nil {
				t.Fatal(err)
			}
			if !strings.Contains(out.String(), created) {
				t.Errorf("expected %s in listing:\n%s", created, out.String())
			}

			ctx.Store.DeleteSchedule("hike-2026")
			if err := ctx.Store.Flush(); err != nil {
				t.Fatal(err)
			}

			if err := (&BackupRestoreCmd{BackupFile: created, Yes: true}).Run(ctx); err != nil {
				t.Fatalf("restore failed: %v", err)
			}
			if _, ok := ctx.Store.Schedule("hike-2026"); !ok {
				t.Error("expected restored schedule")
			}
		})
	}
}

func TestBackupListEmpty(t *testing.T) {
	ctx, out := setup(t, sqlite.NewStore(filepath.Join(t.TempDir(), "test.db")))
	if err := (&BackupListCmd{}).Run(ctx); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "No backups found.") {
		t.Errorf("unexpected output:\n%s", out.String())
	}
}

func TestBackupRestoreMissing(t *testing.T) {
	ctx, _ := setup(t, sqlite.NewStore(filepath.Join(t.TempDir(), "test.db")))
	err := (&BackupRestoreCmd{BackupFile: "scheduler-19990101-000000.db", Yes: true}).Run(ctx)
	if err == nil || !strings.Contains(err.Error(), "backup file not found") {
		t.Errorf("expected not found error, got %v", err)
	}
}

func TestBackupUnsupported(t *testing.T) {
	ctx, _ := setup(t, storage.NewMemoryStore())
	if err := (&BackupCreateCmd{}).Run(ctx); err != errUnsupported {
		t.Errorf("expected errUnsupported, got %v", err)
	}
}
