package settings

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaults(t *testing.T) {
	s := Default()
	if s.LargerControls || s.DailyChallengeMode || s.SensoryCalmMode {
		t.Errorf("unexpected true flag in %+v", s)
	}
	if !s.BlueprintAssist || !s.FeedbackCuesEnabled || s.CameraSensitivity != 5 {
		t.Errorf("defaults = %+v", s)
	}
}

func TestWith(t *testing.T) {
	tests := []struct {
		key, value string
		check      func(Settings) bool
	}{
		{KeyCameraSensitivity, "7", func(s Settings) bool { return s.CameraSensitivity == 7 }},
		{KeyCameraSensitivity, "0", func(s Settings) bool { return s.CameraSensitivity == 1 }},
		{KeyCameraSensitivity, "42", func(s Settings) bool { return s.CameraSensitivity == 10 }},
		{KeyDailyChallengeMode, "true", func(s Settings) bool { return s.DailyChallengeMode }},
		{KeyBlueprintAssist, "false", func(s Settings) bool { return !s.BlueprintAssist }},
		{KeySensoryCalmMode, " 1 ", func(s Settings) bool { return s.SensoryCalmMode }},
	}
	for _, tc := range tests {
		t.Run(tc.key+"="+tc.value, func(t *testing.T) {
			s, err := Default().With(tc.key, tc.value)
			if err != nil {
				t.Fatalf("With() failed: %v", err)
			}
			if !tc.check(s) {
				t.Errorf("unexpected settings %+v", s)
			}
			got, _ := s.Get(tc.key)
			if got == "" {
				t.Error("Get returned empty value")
			}
		})
	}

	if _, err := Default().With("volume", "3"); !errors.Is(err, ErrUnknownKey) {
		t.Errorf("unknown key error = %v", err)
	}
	if _, err := Default().With(KeyLargerControls, "maybe"); err == nil {
		t.Error("expected parse error")
	}
	if _, err := Default().Get("volume"); !errors.Is(err, ErrUnknownKey) {
		t.Errorf("Get unknown key error = %v", err)
	}
}

func TestFileStore(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "settings.yaml")
	store := NewFileStore(path)

	s, err := store.LoadSettings(ctx)
	if err != nil {
		t.Fatalf("LoadSettings() on missing file failed: %v", err)
	}
	if s != Default() {
		t.Errorf("missing file = %+v, want defaults", s)
	}

	s.DailyChallengeMode = true
	s.CameraSensitivity = 8
	if err := store.SaveSettings(ctx, s); err != nil {
		t.Fatalf("SaveSettings() failed: %v", err)
	}
	got, err := store.LoadSettings(ctx)
	if err != nil {
		t.Fatalf("LoadSettings() failed: %v", err)
	}
	if got != s {
		t.Errorf("loaded %+v, want %+v", got, s)
	}
}

func TestFileStorePartialAndClamped(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.yaml")
	if err := os.WriteFile(path, []byte("camera_sensitivity: 99\nsensory_calm_mode: true\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	s, err := NewFileStore(path).LoadSettings(context.Background())
	if err != nil {
		t.Fatalf("LoadSettings() failed: %v", err)
	}
	if s.CameraSensitivity != 10 || !s.SensoryCalmMode || !s.BlueprintAssist {
		t.Errorf("loaded %+v", s)
	}
}

func receive(t *testing.T, ch <-chan Settings) Settings {
	t.Helper()
	select {
	case s := <-ch:
		return s
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for settings")
		return Settings{}
	}
}

func TestHubBroadcasts(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	hub := NewHub(ctx, store, nil)
	defer hub.Close()

	ch, cancel := hub.Subscribe()
	defer cancel()

	if first := receive(t, ch); first != Default() {
		t.Errorf("first value = %+v, want current settings", first)
	}

	if _, err := hub.Set(ctx, KeyDailyChallengeMode, "true"); err != nil {
		t.Fatalf("Set() failed: %v", err)
	}
	if got := receive(t, ch); !got.DailyChallengeMode {
		t.Errorf("broadcast = %+v", got)
	}

	saved, _ := store.LoadSettings(ctx)
	if !saved.DailyChallengeMode {
		t.Error("store was not updated")
	}
}

func TestHubSkipsNoOpUpdates(t *testing.T) {
	ctx := context.Background()
	hub := NewHub(ctx, NewMemoryStore(), nil)
	ch, cancel := hub.Subscribe()
	defer cancel()
	receive(t, ch)

	if _, err := hub.Set(ctx, KeyBlueprintAssist, "true"); err != nil {
		t.Fatalf("Set() failed: %v", err)
	}
	select {
	case s := <-ch:
		t.Errorf("unexpected broadcast %+v", s)
	default:
	}
}

func TestHubSetRejectsBadInput(t *testing.T) {
	ctx := context.Background()
	hub := NewHub(ctx, NewMemoryStore(), nil)
	if _, err := hub.Set(ctx, "volume", "11"); !errors.Is(err, ErrUnknownKey) {
		t.Errorf("error = %v", err)
	}
	if hub.Current() != Default() {
		t.Error("failed Set must not change settings")
	}
}

type brokenStore struct{}

func (brokenStore) LoadSettings(context.Context) (Settings, error) {
	return Settings{}, errors.New("disk on fire")
}

func (brokenStore) SaveSettings(context.Context, Settings) error {
	return errors.New("disk on fire")
}

func TestHubSurvivesBrokenStore(t *testing.T) {
	ctx := context.Background()
	hub := NewHub(ctx, brokenStore{}, nil)
	if hub.Current() != Default() {
		t.Errorf("current = %+v, want defaults", hub.Current())
	}
	s, err := hub.Set(ctx, KeyCameraSensitivity, "3")
	if err == nil {
		t.Error("expected save error")
	}
	if s.CameraSensitivity != 3 || hub.Current().CameraSensitivity != 3 {
		t.Error("in-memory value should change even when saving fails")
	}
}
