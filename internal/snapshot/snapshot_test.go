package snapshot

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/vovakirdan/block-buddy/internal/mission"
	"github.com/vovakirdan/block-buddy/internal/world"
)

func sample() WorldSnapshot {
	s := Default(mission.DefaultCatalog().First(), 4, 2, time.UnixMilli(1_700_000_000_000))
	s.World = s.World.Place(world.Pos(1, 0), world.Grass).Place(world.Pos(3, 1), world.Flower)
	s.Stars = 7
	s.CompletedMissionIDs = []string{"welcome_park"}
	s.StickerBook = []string{"sticker_sunny_park"}
	return s
}

func TestDefault(t *testing.T) {
	first := mission.DefaultCatalog().First()
	now := time.UnixMilli(42_000)
	s := Default(first, 10, 6, now)

	if s.World.Width() != 10 || s.World.Height() != 6 || s.World.FilledCount() != 0 {
		t.Errorf("world = %dx%d filled %d", s.World.Width(), s.World.Height(), s.World.FilledCount())
	}
	if s.Stars != 0 || s.ActiveMission.ID != first.ID {
		t.Errorf("stars %d mission %s", s.Stars, s.ActiveMission.ID)
	}
	if len(s.CompletedMissionIDs) != 0 || len(s.StickerBook) != 0 {
		t.Error("sets should start empty")
	}
	if !s.UpdatedAt().Equal(now) {
		t.Errorf("UpdatedAt = %v, want %v", s.UpdatedAt(), now)
	}

	fallback := Default(first, 0, 3, now)
	if fallback.World.Width() != DefaultWidth || fallback.World.Height() != DefaultHeight {
		t.Error("non-positive size should fall back to the default board")
	}
}

func TestEncodeDecode(t *testing.T) {
	in := sample()
	data, err := Encode(in)
	if err != nil {
		t.Fatalf("Encode() failed: %v", err)
	}
	for _, field := range []string{`"world"`, `"stars":7`, `"activeMission"`, `"completedMissionIds"`, `"stickerBook"`, `"updatedAtEpochMs":1700000000000`, `"GRASS":3`} {
		if !bytes.Contains(data, []byte(field)) {
			t.Errorf("encoded snapshot missing %s: %s", field, data)
		}
	}

	out, err := Decode(data)
	if err != nil {
		t.Fatalf("Decode() failed: %v", err)
	}
	if !out.World.Equal(in.World) {
		t.Error("world changed across encode/decode")
	}
	if out.Stars != 7 || out.ActiveMission.ID != in.ActiveMission.ID {
		t.Errorf("decoded = %+v", out)
	}
	if got := out.ActiveMission.RequiredByType; len(got) != 2 || got[0].Type != world.Grass || got[1].Type != world.Flower {
		t.Errorf("requirement order = %+v", got)
	}
}

func TestDecodeDefaultsAndUnknownFields(t *testing.T) {
	doc := `{
		"world": {"width": 2, "height": 1, "cells": ["EMPTY", "STONE"]},
		"activeMission": {"id": "free_build", "minTotalBlocks": 1},
		"futureField": {"anything": true}
	}`
	now := time.UnixMilli(5_000_000)
	s, err := DecodeAt([]byte(doc), now)
	if err != nil {
		t.Fatalf("DecodeAt() failed: %v", err)
	}
	if s.Stars != 0 {
		t.Errorf("stars = %d, want 0", s.Stars)
	}
	if !s.UpdatedAt().Equal(now) {
		t.Errorf("missing timestamp decoded as %v, want %v", s.UpdatedAt(), now)
	}
	if s.CompletedMissionIDs == nil || s.StickerBook == nil {
		t.Error("absent sets should decode as empty, not nil")
	}
	if s.World.BlockAt(world.Pos(1, 0)) != world.Stone {
		t.Error("cell not decoded")
	}
}

func TestDecodeKeepsPresentTimestamp(t *testing.T) {
	tests := []struct {
		name string
		ts   string
		want int64
	}{
		{"recorded", `,"updatedAtEpochMs":1234`, 1234},
		{"explicit zero", `,"updatedAtEpochMs":0`, 0},
		{"absent", ``, 9_999},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			doc := `{"world":{"width":1,"height":1,"cells":["EMPTY"]},"activeMission":{"id":"a"}` + tc.ts + `}`
			s, err := DecodeAt([]byte(doc), time.UnixMilli(9_999))
			if err != nil {
				t.Fatalf("DecodeAt() failed: %v", err)
			}
			if s.UpdatedAtEpochMs != tc.want {
				t.Errorf("UpdatedAtEpochMs = %d, want %d", s.UpdatedAtEpochMs, tc.want)
			}
		})
	}
}

func TestDecodeCollapsesDuplicates(t *testing.T) {
	doc := `{
		"world": {"width": 1, "height": 1, "cells": ["EMPTY"]},
		"activeMission": {"id": "a"},
		"completedMissionIds": ["a", "b", "a"],
		"stickerBook": ["s", "s"]
	}`
	s, err := Decode([]byte(doc))
	if err != nil {
		t.Fatalf("Decode() failed: %v", err)
	}
	if len(s.CompletedMissionIDs) != 2 || len(s.StickerBook) != 1 {
		t.Errorf("sets = %v %v", s.CompletedMissionIDs, s.StickerBook)
	}
}

func TestDecodeRejects(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"not json", `{"world":`},
		{"missing world", `{"activeMission":{"id":"a"}}`},
		{"missing mission", `{"world":{"width":1,"height":1,"cells":["EMPTY"]}}`},
		{"negative stars", `{"world":{"width":1,"height":1,"cells":["EMPTY"]},"activeMission":{"id":"a"},"stars":-1}`},
		{"unknown tag", `{"world":{"width":1,"height":1,"cells":["LAVA"]},"activeMission":{"id":"a"}}`},
		{"cell count mismatch", `{"world":{"width":2,"height":2,"cells":["EMPTY"]},"activeMission":{"id":"a"}}`},
		{"zero width", `{"world":{"width":0,"height":1,"cells":[]},"activeMission":{"id":"a"}}`},
		{"empty mission id", `{"world":{"width":1,"height":1,"cells":["EMPTY"]},"activeMission":{"id":""}}`},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Decode([]byte(tc.doc))
			if err == nil {
				t.Fatal("expected error")
			}
			if !errors.Is(err, ErrInvalidSnapshot) && !errors.Is(err, world.ErrInvalidGrid) {
				t.Errorf("error = %v, want ErrInvalidSnapshot", err)
			}
		})
	}
}

func TestAddUnique(t *testing.T) {
	set := []string{"a"}
	out, added := AddUnique(set, "b")
	if !added || len(out) != 2 {
		t.Fatalf("AddUnique(b) = %v, %v", out, added)
	}
	if len(set) != 1 {
		t.Error("AddUnique must not modify its input")
	}
	if _, added := AddUnique(out, "a"); added {
		t.Error("duplicate should not be added")
	}
	if _, added := AddUnique(out, ""); added {
		t.Error("empty id should not be added")
	}
}

func TestArchiveRoundTrip(t *testing.T) {
	in := sample()
	a := NewArchive("kid", in, time.UnixMilli(9_000))

	var buf bytes.Buffer
	if err := WriteArchive(&buf, a); err != nil {
		t.Fatalf("WriteArchive() failed: %v", err)
	}
	out, err := ReadArchive(&buf)
	if err != nil {
		t.Fatalf("ReadArchive() failed: %v", err)
	}
	if out.Header.ID == "" || out.Header.ID != a.Header.ID {
		t.Errorf("header id = %q, want %q", out.Header.ID, a.Header.ID)
	}
	if out.Header.Profile != "kid" || out.Snapshot.Stars != in.Stars {
		t.Errorf("archive = %+v", out.Header)
	}
}

func TestReadArchiveRejectsGarbage(t *testing.T) {
	if _, err := ReadArchive(strings.NewReader("plain text, not zstd")); err == nil {
		t.Error("expected error for non-archive input")
	}
}
