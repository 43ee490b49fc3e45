package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/vovakirdan/block-buddy/internal/settings"
	"github.com/vovakirdan/block-buddy/internal/snapshot"
)

// Snapshot slots in the world_snapshots table.
const (
	slotPrimary = "primary"
	slotBackup  = "backup"
)

// DatabaseFile is the SQLite file name inside the data directory.
const DatabaseFile = "buddy.db"

// Store manages the SQLite database connection. One database holds every
// profile; Profile returns a handle bound to one of them.
type Store struct {
	db *sql.DB
}

// ProfileSummary describes one saved profile.
type ProfileSummary struct {
	Profile   string
	Stars     int
	UpdatedAt time.Time
}

// Open creates or opens a SQLite database at the given path.
// It creates the parent directories if needed and runs migrations.
func Open(dbPath string) (*Store, error) {
	dbPath, err := ExpandHome(dbPath)
	if err != nil {
		return nil, err
	}

	// Create parent directories
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}
	// SQLite allows a single writer.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}

	return store, nil
}

// migrate creates the database schema if it doesn't exist.
func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS world_snapshots (
			profile TEXT NOT NULL,
			slot TEXT NOT NULL,
			payload TEXT NOT NULL,
			stars INTEGER NOT NULL DEFAULT 0,
			updated_at INTEGER NOT NULL,
			PRIMARY KEY (profile, slot)
		);

		CREATE TABLE IF NOT EXISTS player_settings (
			profile TEXT PRIMARY KEY,
			payload TEXT NOT NULL,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Profile returns a backend bound to one profile of this database.
// Closing the returned handle does not close the store.
func (s *Store) Profile(profile string, fallback func() snapshot.WorldSnapshot, logger *log.Logger) *SQLiteRepository {
	if logger == nil {
		logger = log.Default()
	}
	return &SQLiteRepository{
		store:    s,
		profile:  SanitizeProfile(profile),
		fallback: fallback,
		logger:   logger,
	}
}

// Profiles lists every profile with a primary save, most recent first.
func (s *Store) Profiles(ctx context.Context) ([]ProfileSummary, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT profile, stars, updated_at
		 FROM world_snapshots
		 WHERE slot = ?
		 ORDER BY updated_at DESC`,
		slotPrimary,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query profiles: %w", err)
	}
	defer rows.Close()

	var out []ProfileSummary
	for rows.Next() {
		var p ProfileSummary
		var updatedMs int64
		if err := rows.Scan(&p.Profile, &p.Stars, &updatedMs); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		p.UpdatedAt = time.UnixMilli(updatedMs)
		out = append(out, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return out, nil
}

// SQLiteRepository is one profile inside a Store.
type SQLiteRepository struct {
	store    *Store
	profile  string
	fallback func() snapshot.WorldSnapshot
	logger   *log.Logger
	owned    bool // Close also closes the store
}

func (r *SQLiteRepository) readSlot(ctx context.Context, name string) ([]byte, error) {
	var payload string
	err := r.store.db.QueryRowContext(ctx,
		"SELECT payload FROM world_snapshots WHERE profile = ? AND slot = ?",
		r.profile, name,
	).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return []byte(payload), nil
}

// Load reads the primary slot, then the backup, then falls back to a fresh snapshot.
func (r *SQLiteRepository) Load(ctx context.Context) (snapshot.WorldSnapshot, error) {
	if err := ctx.Err(); err != nil {
		return snapshot.WorldSnapshot{}, err
	}
	s, from, ok := loadFirst(r.logger,
		slot{name: slotPrimary, read: func() ([]byte, error) { return r.readSlot(ctx, slotPrimary) }},
		slot{name: slotBackup, read: func() ([]byte, error) { return r.readSlot(ctx, slotBackup) }},
	)
	if !ok {
		return r.fallback(), nil
	}
	if from != slotPrimary {
		r.logger.Warn("restored save from backup", "profile", r.profile)
	}
	return s, nil
}

// Save rotates the current primary into the backup slot, if it still decodes,
// and writes the new primary in one transaction.
func (r *SQLiteRepository) Save(ctx context.Context, s snapshot.WorldSnapshot) error {
	data, err := snapshot.Encode(s)
	if err != nil {
		return err
	}

	tx, err := r.store.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("storage: cannot begin save: %w", err)
	}
	defer tx.Rollback()

	var prev string
	var prevStars int
	var prevUpdated int64
	err = tx.QueryRowContext(ctx,
		"SELECT payload, stars, updated_at FROM world_snapshots WHERE profile = ? AND slot = ?",
		r.profile, slotPrimary,
	).Scan(&prev, &prevStars, &prevUpdated)
	switch {
	case errors.Is(err, sql.ErrNoRows):
	case err != nil:
		return fmt.Errorf("storage: cannot read primary save: %w", err)
	default:
		if _, decodeErr := snapshot.Decode([]byte(prev)); decodeErr == nil {
			if err := upsertSlot(ctx, tx, r.profile, slotBackup, prev, prevStars, prevUpdated); err != nil {
				return fmt.Errorf("storage: cannot rotate backup: %w", err)
			}
		} else {
			r.logger.Warn("primary save corrupt, keeping previous backup", "profile", r.profile, "err", decodeErr)
		}
	}

	if err := upsertSlot(ctx, tx, r.profile, slotPrimary, string(data), s.Stars, s.UpdatedAtEpochMs); err != nil {
		return fmt.Errorf("storage: cannot save snapshot: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("storage: cannot commit save: %w", err)
	}
	return nil
}

func upsertSlot(ctx context.Context, tx *sql.Tx, profile, name, payload string, stars int, updatedMs int64) error {
	_, err := tx.ExecContext(ctx,
		`INSERT INTO world_snapshots (profile, slot, payload, stars, updated_at)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT (profile, slot) DO UPDATE SET
			payload = excluded.payload,
			stars = excluded.stars,
			updated_at = excluded.updated_at`,
		profile, name, payload, stars, updatedMs,
	)
	return err
}

// ClearAll deletes both snapshot slots of the profile. Settings are kept.
func (r *SQLiteRepository) ClearAll(ctx context.Context) error {
	_, err := r.store.db.ExecContext(ctx, "DELETE FROM world_snapshots WHERE profile = ?", r.profile)
	if err != nil {
		return fmt.Errorf("storage: cannot clear saves: %w", err)
	}
	return nil
}

// LoadSettings returns the profile's settings or the defaults.
func (r *SQLiteRepository) LoadSettings(ctx context.Context) (settings.Settings, error) {
	var payload string
	err := r.store.db.QueryRowContext(ctx,
		"SELECT payload FROM player_settings WHERE profile = ?",
		r.profile,
	).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return settings.Default(), nil
	}
	if err != nil {
		return settings.Default(), fmt.Errorf("storage: cannot query settings: %w", err)
	}

	s := settings.Default()
	if err := json.Unmarshal([]byte(payload), &s); err != nil {
		return settings.Default(), fmt.Errorf("storage: cannot decode settings: %w", err)
	}
	return s.Normalized(), nil
}

// SaveSettings stores the profile's settings.
func (r *SQLiteRepository) SaveSettings(ctx context.Context, s settings.Settings) error {
	payload, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("storage: cannot encode settings: %w", err)
	}
	_, err = r.store.db.ExecContext(ctx,
		`INSERT INTO player_settings (profile, payload) VALUES (?, ?)
		 ON CONFLICT (profile) DO UPDATE SET payload = excluded.payload, updated_at = CURRENT_TIMESTAMP`,
		r.profile, string(payload),
	)
	if err != nil {
		return fmt.Errorf("storage: cannot save settings: %w", err)
	}
	return nil
}

// Close closes the underlying store only if this handle opened it.
func (r *SQLiteRepository) Close() error {
	if r.owned {
		return r.store.Close()
	}
	return nil
}
