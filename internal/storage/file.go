package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/block-buddy/internal/settings"
	"github.com/vovakirdan/block-buddy/internal/snapshot"
)

// Save file names inside a profile directory.
const (
	PrimaryFile  = "world_primary.json"
	BackupFile   = "world_backup_last_good.json"
	TempFile     = "world_primary.tmp"
	SettingsFile = "settings.yaml"
)

// FileRepository keeps one profile in a directory of JSON files.
// Writes are staged in a temp file and renamed into place; the previous
// primary is rotated to the backup slot first, but only if it still decodes.
type FileRepository struct {
	*settings.FileStore
	dir      string
	fallback func() snapshot.WorldSnapshot
	logger   *log.Logger
}

// OpenFileRepository creates the profile directory under root if needed.
func OpenFileRepository(root, profile string, fallback func() snapshot.WorldSnapshot, logger *log.Logger) (*FileRepository, error) {
	root, err := ExpandHome(root)
	if err != nil {
		return nil, err
	}
	dir := filepath.Join(root, "profiles", SanitizeProfile(profile))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
	}
	if logger == nil {
		logger = log.Default()
	}
	return &FileRepository{
		FileStore: settings.NewFileStore(filepath.Join(dir, SettingsFile)),
		dir:       dir,
		fallback:  fallback,
		logger:    logger,
	}, nil
}

// Dir returns the profile directory.
func (r *FileRepository) Dir() string {
	return r.dir
}

func (r *FileRepository) path(name string) string {
	return filepath.Join(r.dir, name)
}

// Load reads the primary file, then the backup, then falls back to a fresh snapshot.
func (r *FileRepository) Load(ctx context.Context) (snapshot.WorldSnapshot, error) {
	if err := ctx.Err(); err != nil {
		return snapshot.WorldSnapshot{}, err
	}
	s, from, ok := loadFirst(r.logger,
		slot{name: PrimaryFile, read: func() ([]byte, error) { return os.ReadFile(r.path(PrimaryFile)) }},
		slot{name: BackupFile, read: func() ([]byte, error) { return os.ReadFile(r.path(BackupFile)) }},
	)
	if !ok {
		return r.fallback(), nil
	}
	if from != PrimaryFile {
		r.logger.Warn("restored save from backup", "dir", r.dir)
	}
	return s, nil
}

// Save stages the snapshot, rotates the last good primary to the backup slot
// and commits the staged file with an atomic rename.
func (r *FileRepository) Save(ctx context.Context, s snapshot.WorldSnapshot) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := snapshot.Encode(s)
	if err != nil {
		return err
	}
	if err := writeSynced(r.path(TempFile), data); err != nil {
		return fmt.Errorf("storage: cannot stage save: %w", err)
	}

	if prev, err := os.ReadFile(r.path(PrimaryFile)); err == nil {
		if _, decodeErr := snapshot.Decode(prev); decodeErr == nil {
			if err := replaceFile(r.path(BackupFile), prev); err != nil {
				return fmt.Errorf("storage: cannot rotate backup: %w", err)
			}
		} else {
			r.logger.Warn("primary save corrupt, keeping previous backup", "err", decodeErr)
		}
	} else if !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("storage: cannot read primary save: %w", err)
	}

	if err := os.Rename(r.path(TempFile), r.path(PrimaryFile)); err != nil {
		return fmt.Errorf("storage: cannot commit save: %w", err)
	}
	return nil
}

// ClearAll removes the primary, backup and any staged file.
func (r *FileRepository) ClearAll(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	for _, name := range []string{PrimaryFile, BackupFile, TempFile} {
		if err := os.Remove(r.path(name)); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("storage: cannot remove %s: %w", name, err)
		}
	}
	return nil
}

// Close is a no-op for files.
func (r *FileRepository) Close() error {
	return nil
}

// writeSynced writes data and fsyncs before closing.
func writeSynced(path string, data []byte) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		return err
	}
	if err := f.Sync(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// replaceFile atomically replaces path with data.
func replaceFile(path string, data []byte) error {
	tmp := path + ".tmp"
	if err := writeSynced(tmp, data); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}
