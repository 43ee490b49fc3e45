// Package snapshot defines the persisted world state and its serialized form.
package snapshot

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/vovakirdan/block-buddy/internal/mission"
	"github.com/vovakirdan/block-buddy/internal/world"
)

// Default board size for fresh saves.
const (
	DefaultWidth  = 10
	DefaultHeight = 6
)

// ErrInvalidSnapshot is returned when a serialized snapshot cannot be used.
var ErrInvalidSnapshot = errors.New("snapshot: invalid snapshot")

//go:embed schema/world_snapshot.json
var schemaJSON string

// WorldSnapshot is the unit of persistence. It is replaced wholesale on every
// change and never mutated after it has been handed to storage.
type WorldSnapshot struct {
	World               world.WorldGrid `json:"world"`
	Stars               int             `json:"stars"`
	ActiveMission       mission.Card    `json:"activeMission"`
	CompletedMissionIDs []string        `json:"completedMissionIds"`
	StickerBook         []string        `json:"stickerBook"`
	UpdatedAtEpochMs    int64           `json:"updatedAtEpochMs"`
}

// Default returns the fresh-start snapshot: an empty board, no stars and the
// given mission.
func Default(first mission.Card, width, height int, now time.Time) WorldSnapshot {
	if width <= 0 || height <= 0 {
		width, height = DefaultWidth, DefaultHeight
	}
	return WorldSnapshot{
		World:               world.EmptyGrid(width, height),
		ActiveMission:       first,
		CompletedMissionIDs: []string{},
		StickerBook:         []string{},
		UpdatedAtEpochMs:    now.UnixMilli(),
	}
}

// UpdatedAt returns the save timestamp as a time.Time.
func (s WorldSnapshot) UpdatedAt() time.Time {
	return time.UnixMilli(s.UpdatedAtEpochMs)
}

// HasCompleted reports whether the mission id is in the completed set.
func (s WorldSnapshot) HasCompleted(id string) bool {
	return slices.Contains(s.CompletedMissionIDs, id)
}

// HasSticker reports whether the sticker is in the sticker book.
func (s WorldSnapshot) HasSticker(id string) bool {
	return slices.Contains(s.StickerBook, id)
}

// Clone returns a copy that shares no slices with s.
func (s WorldSnapshot) Clone() WorldSnapshot {
	out := s
	out.CompletedMissionIDs = slices.Clone(s.CompletedMissionIDs)
	out.StickerBook = slices.Clone(s.StickerBook)
	out.ActiveMission.RequiredByType = slices.Clone(s.ActiveMission.RequiredByType)
	if out.CompletedMissionIDs == nil {
		out.CompletedMissionIDs = []string{}
	}
	if out.StickerBook == nil {
		out.StickerBook = []string{}
	}
	return out
}

// AddUnique appends id to set unless it is already present.
// The second result reports whether id was added.
func AddUnique(set []string, id string) ([]string, bool) {
	if id == "" || slices.Contains(set, id) {
		return set, false
	}
	out := make([]string, len(set), len(set)+1)
	copy(out, set)
	return append(out, id), true
}

var (
	schemaOnce sync.Once
	schema     *jsonschema.Schema
	schemaErr  error
)

func compiledSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		schema, schemaErr = jsonschema.CompileString("world_snapshot.json", schemaJSON)
	})
	return schema, schemaErr
}

// Encode serializes a snapshot.
func Encode(s WorldSnapshot) ([]byte, error) {
	data, err := json.Marshal(s.Clone())
	if err != nil {
		return nil, fmt.Errorf("snapshot: encode: %w", err)
	}
	return data, nil
}

// Decode is DecodeAt with the current time.
func Decode(data []byte) (WorldSnapshot, error) {
	return DecodeAt(data, time.Now())
}

// DecodeAt parses and validates a serialized snapshot. Unknown fields are
// ignored. Missing stars and sets take their zero values; a missing
// timestamp becomes now, so the save does not look years old.
// Duplicate ids in the sets are collapsed.
func DecodeAt(data []byte, now time.Time) (WorldSnapshot, error) {
	var doc any
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&doc); err != nil {
		return WorldSnapshot{}, fmt.Errorf("%w: %v", ErrInvalidSnapshot, err)
	}

	sch, err := compiledSchema()
	if err != nil {
		return WorldSnapshot{}, fmt.Errorf("snapshot: compile schema: %w", err)
	}
	if err := sch.Validate(doc); err != nil {
		return WorldSnapshot{}, fmt.Errorf("%w: %v", ErrInvalidSnapshot, err)
	}

	var s WorldSnapshot
	if err := json.Unmarshal(data, &s); err != nil {
		return WorldSnapshot{}, fmt.Errorf("%w: %v", ErrInvalidSnapshot, err)
	}
	if err := s.ActiveMission.Validate(); err != nil {
		return WorldSnapshot{}, fmt.Errorf("%w: %v", ErrInvalidSnapshot, err)
	}
	if fields, ok := doc.(map[string]any); ok {
		if _, has := fields["updatedAtEpochMs"]; !has {
			s.UpdatedAtEpochMs = now.UnixMilli()
		}
	}
	s.CompletedMissionIDs = dedupe(s.CompletedMissionIDs)
	s.StickerBook = dedupe(s.StickerBook)
	return s, nil
}

func dedupe(ids []string) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if !slices.Contains(out, id) {
			out = append(out, id)
		}
	}
	return out
}
