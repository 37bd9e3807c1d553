package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/Versifine/fpcontroller/internal/controller"
	"github.com/Versifine/fpcontroller/internal/world"
)

type Config struct {
	Controller controller.Settings `yaml:"controller"`
	World      WorldConfig         `yaml:"world"`
	Input      InputConfig         `yaml:"input"`
	Window     WindowConfig        `yaml:"window"`
	Logging    LoggingConfig       `yaml:"logging"`
	Simulation SimulationConfig    `yaml:"simulation"`

	dir string
}

type WorldConfig struct {
	// Gravity for rigid bodies; zero means the controller's gravity.
	Gravity    float64                 `yaml:"gravity"`
	FollowGain float64                 `yaml:"follow_gain"`
	Palette    []world.BlockDefinition `yaml:"palette"`
	Templates  []world.Template        `yaml:"templates"`
	Level      world.Level             `yaml:"level"`
	// LevelFile replaces Level when set. Relative paths resolve against the
	// config file's directory.
	LevelFile string `yaml:"level_file"`
}

type InputConfig struct {
	// Bindings maps a control name to the keys or mouse buttons that drive it.
	Bindings map[string][]string `yaml:"bindings"`
	// MouseScale converts cursor pixels into look input units.
	MouseScale    float64 `yaml:"mouse_scale"`
	CaptureCursor bool    `yaml:"capture_cursor"`
}

type WindowConfig struct {
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
	Title  string `yaml:"title"`
	// Scale is the top-down view zoom in pixels per world unit.
	Scale float64 `yaml:"scale"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	File   string `yaml:"file"`
}

type SimulationConfig struct {
	TickRate int `yaml:"tick_rate"`
	// SnapshotEvery is the interval in seconds between logged snapshots in
	// headless runs; zero disables them.
	SnapshotEvery float64 `yaml:"snapshot_every"`
}

// Controls understood by Input.Bindings.
var Controls = []string{"forward", "back", "left", "right", "jump", "crouch", "shoot", "pickup", "throw", "release_cursor"}

func Default() *Config {
	return &Config{
		Controller: controller.DefaultSettings(),
		World: WorldConfig{
			FollowGain: world.DefaultFollowGain,
			Palette:    world.DefaultPalette(),
			Templates:  world.DefaultTemplates(),
			Level:      world.DefaultLevel(),
		},
		Input: InputConfig{
			Bindings: map[string][]string{
				"forward":        {"w", "arrow_up"},
				"back":           {"s", "arrow_down"},
				"left":           {"a", "arrow_left"},
				"right":          {"d", "arrow_right"},
				"jump":           {"space"},
				"crouch":         {"c", "control_left"},
				"shoot":          {"mouse_left", "f"},
				"pickup":         {"e"},
				"throw":          {"q", "mouse_right"},
				"release_cursor": {"escape"},
			},
			MouseScale:    0.1,
			CaptureCursor: true,
		},
		Window: WindowConfig{
			Width:  960,
			Height: 640,
			Title:  "fpcontroller",
			Scale:  24,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
		Simulation: SimulationConfig{
			TickRate:      60,
			SnapshotEvery: 1,
		},
	}
}

// Load overlays the YAML file at path on Default.
func Load(path string) (*Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	cfg.dir = filepath.Dir(path)
	return cfg, nil
}

func (c *Config) Validate() error {
	s := c.Controller
	if s.Gravity >= 0 {
		return fmt.Errorf("controller.gravity must be negative, got %v", s.Gravity)
	}
	if s.MoveSpeed < 0 || s.CrouchSpeed < 0 {
		return fmt.Errorf("controller speeds must not be negative")
	}
	if s.JumpHeight < 0 {
		return fmt.Errorf("controller.jump_height must not be negative, got %v", s.JumpHeight)
	}
	if s.VerticalLookLimit <= 0 || s.VerticalLookLimit > 90 {
		return fmt.Errorf("controller.vertical_look_limit must be in (0, 90], got %v", s.VerticalLookLimit)
	}
	if s.StandHeight <= 0 || s.CrouchHeight <= 0 {
		return fmt.Errorf("controller heights must be positive")
	}
	if s.CrouchHeight > s.StandHeight {
		return fmt.Errorf("controller.crouch_height %v exceeds stand_height %v", s.CrouchHeight, s.StandHeight)
	}
	if s.EyeClearance < 0 || s.EyeClearance >= s.CrouchHeight {
		return fmt.Errorf("controller.eye_clearance must be in [0, crouch_height), got %v", s.EyeClearance)
	}
	if s.PickupRange < 0 || s.ProjectileLifetime < 0 {
		return fmt.Errorf("controller pickup_range and projectile_lifetime must not be negative")
	}
	if c.World.Gravity > 0 {
		return fmt.Errorf("world.gravity must not be positive, got %v", c.World.Gravity)
	}
	for _, t := range c.World.Templates {
		if err := t.Validate(); err != nil {
			return fmt.Errorf("world.templates: %w", err)
		}
	}
	for name := range c.Input.Bindings {
		if !isControl(name) {
			return fmt.Errorf("input.bindings: unknown control %q", name)
		}
	}
	if c.Simulation.TickRate <= 0 {
		return fmt.Errorf("simulation.tick_rate must be positive, got %d", c.Simulation.TickRate)
	}
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return fmt.Errorf("window size must be positive, got %dx%d", c.Window.Width, c.Window.Height)
	}
	return nil
}

// WorldGravity is the gravity applied to rigid bodies.
func (c *Config) WorldGravity() float64 {
	if c.World.Gravity != 0 {
		return c.World.Gravity
	}
	return c.Controller.Gravity
}

// ResolveLevel returns the inline level, or the one in LevelFile when set.
func (c *Config) ResolveLevel() (world.Level, error) {
	if c.World.LevelFile == "" {
		return c.World.Level, nil
	}
	path := c.World.LevelFile
	if !filepath.IsAbs(path) && c.dir != "" {
		path = filepath.Join(c.dir, path)
	}
	return world.LoadLevel(path)
}

// TickInterval is the fixed step in seconds.
func (c *Config) TickInterval() float64 {
	if c.Simulation.TickRate <= 0 {
		return 1.0 / 60
	}
	return 1.0 / float64(c.Simulation.TickRate)
}

func (c *Config) Marshal() ([]byte, error) {
	return yaml.Marshal(c)
}

func isControl(name string) bool {
	for _, control := range Controls {
		if control == name {
			return true
		}
	}
	return false
}
