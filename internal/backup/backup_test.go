package backup

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/Will-L07/scheduler/internal/constants"
	"github.com/Will-L07/scheduler/internal/storage"
	"github.com/Will-L07/scheduler/internal/storage/sqlite"
)

func stepClock(start time.Time) func() time.Time {
	n := 0
	return func() time.Time {
		t := start.Add(time.Duration(n) * time.Minute)
		n++
		return t
	}
}

func setupSQLite(t *testing.T, value string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scheduler.db")
	store := sqlite.NewStore(path)
	if err := store.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}
	if err := store.Set(constants.KeySchedules, []byte(value)); err != nil {
		t.Fatalf("set failed: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("close failed: %v", err)
	}
	return path
}

func readSQLite(t *testing.T, path string) string {
	t.Helper()
	store := sqlite.NewStore(path)
	if err := store.Load(); err != nil {
		t.Fatalf("load failed: %v", err)
	}
	defer store.Close()
	data, err := store.Get(constants.KeySchedules)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	return string(data)
}

func TestCreateBackupSQLite(t *testing.T) {
	path := setupSQLite(t, `["before"]`)
	mgr := NewManager(path)

	backupPath, err := mgr.CreateBackup()
	if err != nil {
		t.Fatalf("CreateBackup failed: %v", err)
	}
	if filepath.Dir(backupPath) != filepath.Join(filepath.Dir(path), constants.BackupDirName) {
		t.Errorf("backup written outside backup dir: %s", backupPath)
	}
	if filepath.Ext(backupPath) != ".db" {
		t.Errorf("expected .db suffix, got %s", backupPath)
	}
	if got := readSQLite(t, backupPath); got != `["before"]` {
		t.Errorf("backup content = %s", got)
	}
}

func TestCreateBackupMissingSource(t *testing.T) {
	mgr := NewManager(filepath.Join(t.TempDir(), "missing.db"))
	if _, err := mgr.CreateBackup(); err == nil {
		t.Error("expected an error for a missing data file")
	}
}

func TestBackupNamesAreUnique(t *testing.T) {
	path := setupSQLite(t, `[]`)
	fixed := time.Date(2026, 2, 16, 9, 0, 0, 0, time.Local)
	mgr := NewManager(path, WithClock(func() time.Time { return fixed }))

	first, err := mgr.CreateBackup()
	if err != nil {
		t.Fatalf("first backup failed: %v", err)
	}
	second, err := mgr.CreateBackup()
	if err != nil {
		t.Fatalf("second backup failed: %v", err)
	}
	if first == second {
		t.Fatalf("expected distinct names, got %s twice", first)
	}

	backups, err := mgr.ListBackups()
	if err != nil {
		t.Fatalf("ListBackups failed: %v", err)
	}
	if len(backups) != 2 {
		t.Fatalf("expected 2 backups, got %d", len(backups))
	}
	for _, b := range backups {
		if !b.Timestamp.Equal(fixed) {
			t.Errorf("unexpected timestamp %v for %s", b.Timestamp, b.Path)
		}
	}
}

func TestPruneKeepsNewest(t *testing.T) {
	path := setupSQLite(t, `[]`)
	start := time.Date(2026, 2, 16, 9, 0, 0, 0, time.Local)
	mgr := NewManager(path, WithKeep(3), WithClock(stepClock(start)))

	for i := 0; i < 5; i++ {
		if _, err := mgr.CreateBackup(); err != nil {
			t.Fatalf("backup %d failed: %v", i, err)
		}
	}

	backups, err := mgr.ListBackups()
	if err != nil {
		t.Fatalf("ListBackups failed: %v", err)
	}
	if len(backups) != 3 {
		t.Fatalf("expected 3 backups after pruning, got %d", len(backups))
	}
	if want := start.Add(4 * time.Minute); !backups[0].Timestamp.Equal(want) {
		t.Errorf("newest backup = %v, want %v", backups[0].Timestamp, want)
	}
	if want := start.Add(2 * time.Minute); !backups[2].Timestamp.Equal(want) {
		t.Errorf("oldest kept backup = %v, want %v", backups[2].Timestamp, want)
	}
}

func TestListBackupsIgnoresForeignFiles(t *testing.T) {
	path := setupSQLite(t, `[]`)
	mgr := NewManager(path)
	if err := os.MkdirAll(mgr.Dir(), 0700); err != nil {
		t.Fatal(err)
	}
	for _, name := range []string{"notes.txt", constants.BackupFilePrefix + "garbage.db", constants.BackupFilePrefix + "20260216-090000.json"} {
		if err := os.WriteFile(filepath.Join(mgr.Dir(), name), []byte("x"), 0600); err != nil {
			t.Fatal(err)
		}
	}

	backups, err := mgr.ListBackups()
	if err != nil {
		t.Fatalf("ListBackups failed: %v", err)
	}
	if len(backups) != 0 {
		t.Errorf("expected no backups, got %d", len(backups))
	}
}

func TestRestoreSQLite(t *testing.T) {
	path := setupSQLite(t, `["before"]`)
	mgr := NewManager(path, WithClock(stepClock(time.Date(2026, 2, 16, 9, 0, 0, 0, time.Local))))

	backupPath, err := mgr.CreateBackup()
	if err != nil {
		t.Fatalf("CreateBackup failed: %v", err)
	}

	store := sqlite.NewStore(path)
	if err := store.Load(); err != nil {
		t.Fatal(err)
	}
	if err := store.Set(constants.KeySchedules, []byte(`["after"]`)); err != nil {
		t.Fatal(err)
	}
	store.Close()

	if err := mgr.RestoreBackup(backupPath); err != nil {
		t.Fatalf("RestoreBackup failed: %v", err)
	}
	if got := readSQLite(t, path); got != `["before"]` {
		t.Errorf("restored content = %s", got)
	}

	backups, _ := mgr.ListBackups()
	if len(backups) != 2 {
		t.Errorf("expected pre-restore safety backup, got %d backups", len(backups))
	}
}

func TestRestoreRejectsCorruptBackup(t *testing.T) {
	path := setupSQLite(t, `[]`)
	mgr := NewManager(path)
	bad := filepath.Join(t.TempDir(), "bad.db")
	if err := os.WriteFile(bad, []byte("not a database"), 0600); err != nil {
		t.Fatal(err)
	}
	if err := mgr.RestoreBackup(bad); err == nil {
		t.Error("expected an error for a corrupt backup")
	}
	if err := mgr.RestoreBackup(filepath.Join(t.TempDir(), "missing.db")); err == nil {
		t.Error("expected an error for a missing backup")
	}
}

func TestJSONBackupAndRestore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scheduler.json")
	store := storage.NewJSONStore(path)
	if err := store.Init(); err != nil {
		t.Fatal(err)
	}
	if err := store.Set(constants.KeyNotes, []byte(`[{"id":"n1"}]`)); err != nil {
		t.Fatal(err)
	}

	mgr := NewManager(path, WithClock(stepClock(time.Date(2026, 2, 16, 9, 0, 0, 0, time.Local))))
	backupPath, err := mgr.CreateBackup()
	if err != nil {
		t.Fatalf("CreateBackup failed: %v", err)
	}
	if filepath.Ext(backupPath) != ".json" {
		t.Errorf("expected .json suffix, got %s", backupPath)
	}

	if err := store.Delete(constants.KeyNotes); err != nil {
		t.Fatal(err)
	}
	if err := mgr.RestoreBackup(backupPath); err != nil {
		t.Fatalf("RestoreBackup failed: %v", err)
	}

	reloaded := storage.NewJSONStore(path)
	if err := reloaded.Load(); err != nil {
		t.Fatal(err)
	}
	data, err := reloaded.Get(constants.KeyNotes)
	if err != nil {
		t.Fatalf("expected notes after restore: %v", err)
	}
	if !strings.Contains(string(data), `"n1"`) {
		t.Errorf("restored notes = %s", data)
	}
}

func TestSupported(t *testing.T) {
	tests := []struct {
		location string
		want     bool
	}{
		{"/home/u/.config/scheduler/scheduler.db", true},
		{"data.json", true},
		{"postgres://u@localhost/db", false},
		{"host=localhost dbname=x", false},
		{"", false},
		{":memory:", false},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%q", tt.location), func(t *testing.T) {
			if got := Supported(tt.location); got != tt.want {
				t.Errorf("Supported(%q) = %v, want %v", tt.location, got, tt.want)
			}
		})
	}
}
