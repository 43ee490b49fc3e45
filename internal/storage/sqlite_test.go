package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/vovakirdan/block-buddy/internal/settings"
)

func TestStoreOpenClose(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, DatabaseFile)

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	// Check that the file was created
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created")
	}
}

func TestStoreExpandHomePath(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	store, err := Open("~/.blockbuddy/" + DatabaseFile)
	if err != nil {
		t.Fatalf("Open() with ~ path failed: %v", err)
	}
	defer store.Close()

	if _, err := os.Stat(filepath.Join(home, ".blockbuddy", DatabaseFile)); err != nil {
		t.Errorf("database not created under home: %v", err)
	}
}

func TestStoreReopenKeepsSaves(t *testing.T) {
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), DatabaseFile)

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	store.Profile("kid", fallback, nil).Save(ctx, withStars(9))
	store.Close()

	// Migrations run again on reopen and must keep existing rows
	store, err = Open(dbPath)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer store.Close()
	s, err := store.Profile("kid", fallback, nil).Load(ctx)
	if err != nil || s.Stars != 9 {
		t.Errorf("reloaded stars = %d, %v", s.Stars, err)
	}
}

func TestSQLiteSettingsPerProfile(t *testing.T) {
	ctx := context.Background()
	store, err := Open(filepath.Join(t.TempDir(), DatabaseFile))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	calm := settings.Default()
	calm.SensoryCalmMode = true
	if err := store.Profile("alice", fallback, nil).SaveSettings(ctx, calm); err != nil {
		t.Fatalf("SaveSettings() failed: %v", err)
	}

	a, _ := store.Profile("alice", fallback, nil).LoadSettings(ctx)
	b, _ := store.Profile("bob", fallback, nil).LoadSettings(ctx)
	if !a.SensoryCalmMode || b.SensoryCalmMode {
		t.Errorf("alice %+v bob %+v", a, b)
	}
	if b != settings.Default() {
		t.Errorf("unsaved profile settings = %+v, want defaults", b)
	}
}

func TestSQLiteProfilesAreSeparate(t *testing.T) {
	ctx := context.Background()
	store, err := Open(filepath.Join(t.TempDir(), "subdir", "deep", DatabaseFile))
	if err != nil {
		t.Fatalf("Open() with nested path failed: %v", err)
	}
	defer store.Close()

	alice := store.Profile("alice", fallback, nil)
	bob := store.Profile("bob", fallback, nil)
	alice.Save(ctx, withStars(7))
	bob.Save(ctx, withStars(1))

	a, _ := alice.Load(ctx)
	b, _ := bob.Load(ctx)
	if a.Stars != 7 || b.Stars != 1 {
		t.Errorf("alice %d bob %d", a.Stars, b.Stars)
	}

	profiles, err := store.Profiles(ctx)
	if err != nil {
		t.Fatalf("Profiles() failed: %v", err)
	}
	if len(profiles) != 2 || profiles[0].Profile != "alice" || profiles[0].Stars != 7 {
		t.Errorf("profiles = %+v", profiles)
	}

	if err := bob.ClearAll(ctx); err != nil {
		t.Fatalf("ClearAll() failed: %v", err)
	}
	if a, _ := alice.Load(ctx); a.Stars != 7 {
		t.Error("clearing bob must not touch alice")
	}
}

func TestSQLiteFallsBackToBackup(t *testing.T) {
	ctx := context.Background()
	store, err := Open(filepath.Join(t.TempDir(), DatabaseFile))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	repo := store.Profile("kid", fallback, nil)
	repo.Save(ctx, withStars(2))
	repo.Save(ctx, withStars(4))

	if _, err := store.db.Exec("UPDATE world_snapshots SET payload = 'broken' WHERE slot = 'primary'"); err != nil {
		t.Fatal(err)
	}
	s, _ := repo.Load(ctx)
	if s.Stars != 2 {
		t.Errorf("stars = %d, want backup value 2", s.Stars)
	}
}

