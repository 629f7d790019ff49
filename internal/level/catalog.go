// Package level streams track segments ahead of the camera and recycles
// segment, obstacle and coin instances through pools.
package level

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Lanes is the number of lanes on the track.
const Lanes = 3

// ErrNoMatchingSegment is returned when no template connects to the current exit key.
var ErrNoMatchingSegment = errors.New("no matching segment")

// Key is the lane-height plug a segment exposes at one of its ends.
type Key struct {
	Y1, Y2, Y3 int
}

// MatchesAny reports whether the keys agree on at least one lane.
// Segments may constrain only a subset of lanes, so this is an OR match.
func (k Key) MatchesAny(o Key) bool {
	return k.Y1 == o.Y1 || k.Y2 == o.Y2 || k.Y3 == o.Y3
}

// String formats the key as (y1,y2,y3).
func (k Key) String() string {
	return fmt.Sprintf("(%d,%d,%d)", k.Y1, k.Y2, k.Y3)
}

// UnmarshalYAML reads a key written as a three-element sequence.
func (k *Key) UnmarshalYAML(node *yaml.Node) error {
	var ys []int
	if err := node.Decode(&ys); err != nil {
		return err
	}
	if len(ys) != Lanes {
		return fmt.Errorf("connection key needs %d values, got %d", Lanes, len(ys))
	}
	*k = Key{Y1: ys[0], Y2: ys[1], Y3: ys[2]}
	return nil
}

// MarshalYAML writes the key as a flow sequence.
func (k Key) MarshalYAML() (any, error) {
	n := &yaml.Node{Kind: yaml.SequenceNode, Style: yaml.FlowStyle}
	for _, y := range []int{k.Y1, k.Y2, k.Y3} {
		n.Content = append(n.Content, &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!int", Value: fmt.Sprint(y)})
	}
	return n, nil
}

// ObstacleType enumerates obstacle kinds.
type ObstacleType int

const (
	Ramp ObstacleType = iota
	Longblock
	Jump
	Slide
)

var obstacleTypeNames = [...]string{"ramp", "longblock", "jump", "slide"}

// String returns the YAML name of the type.
func (t ObstacleType) String() string {
	if t < 0 || int(t) >= len(obstacleTypeNames) {
		return "unknown"
	}
	return obstacleTypeNames[t]
}

// ParseObstacleType converts a YAML name to a type.
func ParseObstacleType(s string) (ObstacleType, error) {
	for i, n := range obstacleTypeNames {
		if strings.EqualFold(s, n) {
			return ObstacleType(i), nil
		}
	}
	return 0, fmt.Errorf("unknown obstacle type %q", s)
}

// UnmarshalYAML reads the type by name.
func (t *ObstacleType) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return err
	}
	parsed, err := ParseObstacleType(s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// MarshalYAML writes the type by name.
func (t ObstacleType) MarshalYAML() (any, error) {
	return t.String(), nil
}

// Solid reports whether touching the obstacle's volume is a crash.
// Ramps are walked on; only their sides crash (see Track.ObstacleContacts).
func (t ObstacleType) Solid() bool {
	return t != Ramp
}

// ObstacleSpec is the shared geometry of one obstacle type.
type ObstacleSpec struct {
	Variants  int     `yaml:"variants"`
	Length    float64 `yaml:"length"`    // along the track
	Height    float64 `yaml:"height"`    // vertical extent
	Elevation float64 `yaml:"elevation"` // gap between ground and the bottom face
}

// ObstaclePlacement places one obstacle spawner inside a segment.
type ObstaclePlacement struct {
	Type ObstacleType `yaml:"type"`
	Lane int          `yaml:"lane"`
	Z    float64      `yaml:"z"` // offset from the segment start
}

// CoinPlacement places one coin spawner inside a segment.
type CoinPlacement struct {
	Lane          int     `yaml:"lane"`
	Z             float64 `yaml:"z"`
	Y             float64 `yaml:"y"`
	Slots         int     `yaml:"slots"`   // number of child coins
	Spacing       float64 `yaml:"spacing"` // distance between coins along the track
	MaxCoin       int     `yaml:"max_coin"`
	ChanceToSpawn float64 `yaml:"chance_to_spawn"`
	ForceSpawnAll bool    `yaml:"force_spawn_all"`
}

// Template is a segment blueprint from the catalog.
type Template struct {
	ID           int                 `yaml:"-"`
	IsTransition bool                `yaml:"-"`
	Name         string              `yaml:"name"`
	Length       int                 `yaml:"length"`
	Begin        Key                 `yaml:"begin"`
	End          Key                 `yaml:"end"`
	Obstacles    []ObstaclePlacement `yaml:"obstacles"`
	Coins        []CoinPlacement     `yaml:"coins"`
}

// Catalog holds every segment and transition template plus obstacle geometry.
type Catalog struct {
	Start       Key                           `yaml:"start"`
	Obstacles   map[ObstacleType]ObstacleSpec `yaml:"obstacles"`
	Segments    []Template                    `yaml:"segments"`
	Transitions []Template                    `yaml:"transitions"`
}

// ParseCatalog decodes a catalog and assigns template identities.
// It does not validate reachability; call Validate for that.
func ParseCatalog(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("level: cannot parse catalog: %w", err)
	}
	c.assignIDs()
	return &c, nil
}

// LoadCatalog reads and parses a catalog file.
func LoadCatalog(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("level: cannot read catalog %s: %w", path, err)
	}
	return ParseCatalog(data)
}

func (c *Catalog) assignIDs() {
	for i := range c.Segments {
		c.Segments[i].ID = i
		c.Segments[i].IsTransition = false
	}
	for i := range c.Transitions {
		c.Transitions[i].ID = i
		c.Transitions[i].IsTransition = true
	}
}

// Templates returns the regular or transition list.
func (c *Catalog) Templates(transition bool) []Template {
	if transition {
		return c.Transitions
	}
	return c.Segments
}

// Matching returns the templates whose begin key matches key on any lane.
func (c *Catalog) Matching(key Key, transition bool) []Template {
	var out []Template
	for _, t := range c.Templates(transition) {
		if t.Begin.MatchesAny(key) {
			out = append(out, t)
		}
	}
	return out
}

// Variants returns the number of visual variants of an obstacle type.
func (c *Catalog) Variants(t ObstacleType) int {
	return c.Obstacles[t].Variants
}

// Spec returns the geometry of an obstacle type.
func (c *Catalog) Spec(t ObstacleType) ObstacleSpec {
	return c.Obstacles[t]
}
