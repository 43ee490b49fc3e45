// Package storage persists world snapshots and settings per player profile.
// Three backends are registered: "file" (JSON files with a rotating backup),
// "sqlite" (pure-Go modernc.org/sqlite, no CGO) and "memory".
package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/block-buddy/internal/snapshot"
)

// DefaultProfile is used when no profile name is given.
const DefaultProfile = "default"

// ExpandHome expands a leading ~ to the user's home directory.
func ExpandHome(path string) (string, error) {
	if path == "" || path[0] != '~' {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("storage: cannot expand home directory: %w", err)
	}
	return filepath.Join(home, path[1:]), nil
}

// SanitizeProfile maps a free-form name (such as an SSH user) to a profile
// name that is safe as a directory name and a database key.
func SanitizeProfile(name string) string {
	name = strings.TrimSpace(name)
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
		if b.Len() >= 64 {
			break
		}
	}
	out := strings.Trim(b.String(), "_")
	if out == "" {
		return DefaultProfile
	}
	return out
}

// slot is one stored copy of a snapshot.
type slot struct {
	name string
	read func() ([]byte, error)
}

// loadFirst decodes the first readable slot. Missing and corrupt slots are
// skipped; ok is false when none could be used.
func loadFirst(logger *log.Logger, slots ...slot) (snap snapshot.WorldSnapshot, from string, ok bool) {
	for _, sl := range slots {
		data, err := sl.read()
		if err != nil {
			if !os.IsNotExist(err) {
				logger.Warn("save slot unreadable", "slot", sl.name, "err", err)
			}
			continue
		}
		if data == nil {
			continue
		}
		s, err := snapshot.Decode(data)
		if err != nil {
			logger.Warn("save slot corrupt", "slot", sl.name, "err", err)
			continue
		}
		return s, sl.name, true
	}
	return snapshot.WorldSnapshot{}, "", false
}
