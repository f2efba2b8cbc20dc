// Package catalog holds the static content shown next to an analysis:
// industry roadmaps, the learning calendar and the community links.
package catalog

import (
	_ "embed"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"skillsync/internal/errors"

	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var catalogYAML []byte

const dateLayout = "2006-01-02"

// RoadmapItem is one entry of a roadmap section
type RoadmapItem struct {
	Name string `yaml:"name" json:"name"`
	Type string `yaml:"type" json:"type"`
}

// RoadmapSection groups roadmap items under a title
type RoadmapSection struct {
	Title string        `yaml:"title" json:"title"`
	Items []RoadmapItem `yaml:"items" json:"items"`
}

// Roadmap is a standard industry learning path
type Roadmap struct {
	ID          string           `yaml:"id" json:"id"`
	Tab         string           `yaml:"tab" json:"tab"`
	Title       string           `yaml:"title" json:"title"`
	Description string           `yaml:"description" json:"description"`
	Sections    []RoadmapSection `yaml:"sections" json:"sections"`
}

// LearningEvent marks a learning activity on a calendar day
type LearningEvent struct {
	Date     string `yaml:"date" json:"date"`
	Title    string `yaml:"title" json:"title"`
	Platform string `yaml:"platform" json:"platform"`
}

// CommunityCard links to an external professional platform
type CommunityCard struct {
	ID          string `yaml:"id" json:"id"`
	Title       string `yaml:"title" json:"title"`
	Description string `yaml:"description" json:"description"`
	ButtonText  string `yaml:"buttonText" json:"buttonText"`
	URL         string `yaml:"url" json:"url"`
}

// Catalog is the parsed static content. It is read-only after Load.
type Catalog struct {
	Roadmaps  []Roadmap       `yaml:"roadmaps"`
	Events    []LearningEvent `yaml:"events"`
	Community []CommunityCard `yaml:"community"`

	events map[string]LearningEvent
}

// Load parses the embedded catalog
func Load() (*Catalog, error) {
	return Parse(catalogYAML)
}

// Parse decodes and validates catalog YAML
func Parse(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}

	seen := make(map[string]bool, len(c.Roadmaps))
	for _, r := range c.Roadmaps {
		if r.ID == "" {
			return nil, fmt.Errorf("roadmap %q has no id", r.Title)
		}
		if seen[r.ID] {
			return nil, fmt.Errorf("duplicate roadmap id %q", r.ID)
		}
		seen[r.ID] = true
	}

	c.events = make(map[string]LearningEvent, len(c.Events))
	for _, e := range c.Events {
		if _, err := time.Parse(dateLayout, e.Date); err != nil {
			return nil, fmt.Errorf("event %q has invalid date %q: %w", e.Title, e.Date, err)
		}
		if _, dup := c.events[e.Date]; dup {
			return nil, fmt.Errorf("more than one event on %s", e.Date)
		}
		c.events[e.Date] = e
	}
	sort.Slice(c.Events, func(i, j int) bool { return c.Events[i].Date < c.Events[j].Date })

	return &c, nil
}

var loadDefault = sync.OnceValues(Load)

// Default returns the embedded catalog, parsed once
func Default() (*Catalog, error) {
	return loadDefault()
}

// RoadmapIDs lists the available roadmap ids in display order
func (c *Catalog) RoadmapIDs() []string {
	ids := make([]string, 0, len(c.Roadmaps))
	for _, r := range c.Roadmaps {
		ids = append(ids, r.ID)
	}
	return ids
}

// Roadmap returns the roadmap with the given id (case-insensitive)
func (c *Catalog) Roadmap(id string) (Roadmap, error) {
	id = strings.ToLower(strings.TrimSpace(id))
	for _, r := range c.Roadmaps {
		if r.ID == id {
			return r, nil
		}
	}
	return Roadmap{}, errors.NewNotFoundError(errors.ErrCodeRoadmapNotFound,
		fmt.Sprintf("Unknown roadmap %q. Available: %s", id, strings.Join(c.RoadmapIDs(), ", "))).
		WithContext("roadmap", id)
}

// EventOn returns the learning event on the given day, if any
func (c *Catalog) EventOn(date string) (LearningEvent, bool) {
	e, ok := c.events[date]
	return e, ok
}
