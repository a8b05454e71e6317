package prefabs

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"
	"time"

	"github.com/milk9111/tilecombat/tileset"
	"gopkg.in/yaml.v3"
)

func LoadSpec[T any](filename string) (T, error) {
	var zero T
	data, err := Load(filename)
	if err != nil {
		return zero, fmt.Errorf("prefabs: load %s: %w", filename, err)
	}

	var spec T
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return zero, fmt.Errorf("prefabs: unmarshal %s: %w", filename, err)
	}

	return spec, nil
}

// SceneSpec is a host scene: one tileset plus the entities spawned on it.
type SceneSpec struct {
	Name     string       `yaml:"name"`
	Tileset  string       `yaml:"tileset"`
	Engine   EngineSpec   `yaml:"engine"`
	Entities []EntitySpec `yaml:"entities"`
	Viewer   ViewerSpec   `yaml:"viewer"`
}

func LoadSceneSpec(filename string) (*SceneSpec, error) {
	spec, err := LoadSpec[SceneSpec](filename)
	if err != nil {
		return nil, err
	}
	if spec.Tileset == "" {
		return nil, fmt.Errorf("prefabs: %s: scene has no tileset", filename)
	}
	return &spec, nil
}

type EngineSpec struct {
	TickMS           int    `yaml:"tick_ms"`
	ResetOnSwitch    bool   `yaml:"reset_on_switch"`
	FriendlyFire     bool   `yaml:"friendly_fire"`
	MissingResources string `yaml:"missing_resources"`
	Parallel         bool   `yaml:"parallel"`
	Workers          int    `yaml:"workers"`
}

// Tick returns the configured tick length, 16ms when unset.
func (s EngineSpec) Tick() time.Duration {
	if s.TickMS <= 0 {
		return 16 * time.Millisecond
	}
	return time.Duration(s.TickMS) * time.Millisecond
}

// ResourcePolicy maps missing_resources (warn, error, ignore) to a loader policy.
func (s EngineSpec) ResourcePolicy() (tileset.ResourcePolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s.MissingResources)) {
	case "", "warn":
		return tileset.ResourceWarn, nil
	case "error":
		return tileset.ResourceError, nil
	case "ignore":
		return tileset.ResourceIgnore, nil
	}
	return tileset.ResourceWarn, fmt.Errorf("prefabs: unknown missing_resources policy %q", s.MissingResources)
}

type EntitySpec struct {
	Name  string  `yaml:"name"`
	Tile  int     `yaml:"tile"`
	X     float64 `yaml:"x"`
	Y     float64 `yaml:"y"`
	Team  string  `yaml:"team"`
	FlipX bool    `yaml:"flip_x"`
	FlipY bool    `yaml:"flip_y"`
	// Script overrides the tile's script property.
	Script string `yaml:"script"`
}

// ViewerSpec is read by the debug viewer only.
type ViewerSpec struct {
	Scale      float64    `yaml:"scale"`
	Background *YAMLColor `yaml:"background"`
	Hitbox     *YAMLColor `yaml:"hitbox"`
	Hurtbox    *YAMLColor `yaml:"hurtbox"`
}

type YAMLColor struct {
	color.Color
}

func (c *YAMLColor) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("color must be a string")
	}

	s := strings.TrimPrefix(value.Value, "#")

	if len(s) != 6 && len(s) != 8 {
		return fmt.Errorf("invalid color format: %s", value.Value)
	}

	parse := func(start int) (uint8, error) {
		v, err := strconv.ParseUint(s[start:start+2], 16, 8)
		return uint8(v), err
	}

	r, err := parse(0)
	if err != nil {
		return err
	}
	g, err := parse(2)
	if err != nil {
		return err
	}
	b, err := parse(4)
	if err != nil {
		return err
	}

	a := uint8(255)
	if len(s) == 8 {
		a, err = parse(6)
		if err != nil {
			return err
		}
	}

	c.Color = color.NRGBA{R: r, G: g, B: b, A: a}
	return nil
}
