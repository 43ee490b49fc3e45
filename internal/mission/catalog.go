package mission

import (
	_ "embed"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed defaults/catalog.yaml
var defaultCatalogYAML []byte

// ErrEmptyCatalog is returned when a catalog has no missions.
var ErrEmptyCatalog = errors.New("mission: catalog is empty")

// Catalog is a fixed, ordered list of missions. It is never mutated after load.
type Catalog struct {
	missions []Card
}

// catalogFile is the YAML layout of a catalog document.
type catalogFile struct {
	Missions []Card `yaml:"missions"`
}

// NewCatalog validates the cards and builds a catalog.
// Ids must be unique and the list must not be empty.
func NewCatalog(cards []Card) (Catalog, error) {
	if len(cards) == 0 {
		return Catalog{}, ErrEmptyCatalog
	}
	seen := make(map[string]bool, len(cards))
	for _, c := range cards {
		if err := c.Validate(); err != nil {
			return Catalog{}, err
		}
		if seen[c.ID] {
			return Catalog{}, fmt.Errorf("%w: duplicate id %q", ErrInvalidMission, c.ID)
		}
		seen[c.ID] = true
	}
	owned := make([]Card, len(cards))
	copy(owned, cards)
	return Catalog{missions: owned}, nil
}

// ParseCatalog decodes a YAML catalog document.
func ParseCatalog(data []byte) (Catalog, error) {
	var f catalogFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return Catalog{}, fmt.Errorf("mission: parse catalog: %w", err)
	}
	return NewCatalog(f.Missions)
}

// LoadCatalog reads a catalog file. An empty path returns the built-in catalog.
func LoadCatalog(path string) (Catalog, error) {
	if path == "" {
		return DefaultCatalog(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Catalog{}, fmt.Errorf("mission: read catalog: %w", err)
	}
	return ParseCatalog(data)
}

// DefaultCatalog returns the built-in catalog.
// It panics if the embedded document is broken, which is a build defect.
func DefaultCatalog() Catalog {
	c, err := ParseCatalog(defaultCatalogYAML)
	if err != nil {
		panic(err)
	}
	return c
}

// First returns the first mission, used for fresh saves.
func (c Catalog) First() Card {
	return c.missions[0]
}

// All returns a copy of the missions in catalog order.
func (c Catalog) All() []Card {
	out := make([]Card, len(c.missions))
	copy(out, c.missions)
	return out
}

// Len returns the number of missions.
func (c Catalog) Len() int {
	return len(c.missions)
}

// ByID looks up a mission by id.
func (c Catalog) ByID(id string) (Card, bool) {
	for _, m := range c.missions {
		if m.ID == id {
			return m, true
		}
	}
	return Card{}, false
}
