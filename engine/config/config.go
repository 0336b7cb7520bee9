package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// ErrInvalid is wrapped by Validate failures.
var ErrInvalid = errors.New("invalid config")

// Config is the engine configuration. Every field has a default; a TOML file
// only needs the keys it changes.
type Config struct {
	Window  WindowConfig  `toml:"window"`
	Physics PhysicsConfig `toml:"physics"`
	Camera  CameraConfig  `toml:"camera"`
	Render  RenderConfig  `toml:"render"`
	Scene   SceneConfig   `toml:"scene"`
	Log     LogConfig     `toml:"log"`
}

type WindowConfig struct {
	Title  string `toml:"title"`
	Width  int    `toml:"width"`
	Height int    `toml:"height"`
	VSync  bool   `toml:"vsync"`
}

type PhysicsConfig struct {
	Gravity          [3]float32 `toml:"gravity"`
	StepsPerSecond   float64    `toml:"steps_per_second"`
	MaxSubSteps      int        `toml:"max_sub_steps"`
	SolverIterations int        `toml:"solver_iterations"`
	Sleeping         bool       `toml:"sleeping"`
}

// CameraConfig angles are in degrees.
type CameraConfig struct {
	Position      [3]float32 `toml:"position"`
	Yaw           float32    `toml:"yaw"`
	Pitch         float32    `toml:"pitch"`
	Step          float32    `toml:"step"`
	Sensitivity   float32    `toml:"sensitivity"`
	RotationStep  float32    `toml:"rotation_step"`
	Fov           float32    `toml:"fov"`
	Near          float32    `toml:"near"`
	Far           float32    `toml:"far"`
	MouseInterval Duration   `toml:"mouse_interval"`
	MouseLook     bool       `toml:"mouse_look"`
	InvertY       bool       `toml:"invert_y"`
}

type RenderConfig struct {
	// ShaderDir overrides the embedded shaders when set.
	ShaderDir   string     `toml:"shader_dir"`
	HotReload   bool       `toml:"hot_reload"`
	Background  [4]float32 `toml:"background"`
	Ambient     [4]float32 `toml:"ambient"`
	ErrorChecks bool       `toml:"error_checks"`
}

type SceneConfig struct {
	// Script is a Go scene script run by the script package.
	Script string `toml:"script"`
	// Preload lists model files loaded in parallel before the script runs.
	Preload []string `toml:"preload"`
	Workers int      `toml:"workers"`
}

type LogConfig struct {
	Level           string   `toml:"level"`
	Profile         bool     `toml:"profile"`
	ProfileInterval Duration `toml:"profile_interval"`
}

// Duration is a time.Duration written as a Go duration string ("250ms") in TOML.
type Duration struct {
	time.Duration
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func (d *Duration) UnmarshalText(b []byte) error {
	v, err := time.ParseDuration(string(b))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// Default returns the configuration used when no file is given.
//
// Returns:
//   - Config: the defaults
func Default() Config {
	return Config{
		Window: WindowConfig{
			Title:  "oxy",
			Width:  1280,
			Height: 720,
			VSync:  true,
		},
		Physics: PhysicsConfig{
			Gravity:          [3]float32{0, -9.81, 0},
			StepsPerSecond:   60,
			MaxSubSteps:      5,
			SolverIterations: 10,
			Sleeping:         true,
		},
		Camera: CameraConfig{
			Position:      [3]float32{0, 2, 10},
			Step:          0.1,
			Sensitivity:   0.1,
			RotationStep:  2,
			Fov:           45,
			Near:          0.1,
			Far:           100,
			MouseInterval: Duration{10 * time.Millisecond},
			MouseLook:     true,
		},
		Render: RenderConfig{
			Background: [4]float32{0.1, 0.1, 0.12, 1},
			Ambient:    [4]float32{0.2, 0.2, 0.2, 1},
		},
		Scene: SceneConfig{
			Workers: 4,
		},
		Log: LogConfig{
			Level:           "info",
			ProfileInterval: Duration{time.Second},
		},
	}
}

// Load reads a TOML file over the defaults and validates the result.
//
// Parameters:
//   - path: the config file
//
// Returns:
//   - Config: the merged configuration
//   - error: I/O, decode or validation error
func Load(path string) (Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	defer f.Close()
	cfg, err := Decode(f)
	if err != nil {
		return Config{}, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Decode reads TOML over the defaults and validates the result.
// Unknown keys are rejected so typos do not pass silently.
//
// Parameters:
//   - r: TOML input
//
// Returns:
//   - Config: the merged configuration
//   - error: decode or validation error
func Decode(r io.Reader) (Config, error) {
	cfg := Default()
	dec := toml.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&cfg); err != nil {
		var strict *toml.StrictMissingError
		if errors.As(err, &strict) {
			return Config{}, fmt.Errorf("unknown keys:\n%s", strict.String())
		}
		var de *toml.DecodeError
		if errors.As(err, &de) {
			row, col := de.Position()
			return Config{}, fmt.Errorf("line %d column %d: %w", row, col, err)
		}
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Encode writes the configuration as TOML.
//
// Parameters:
//   - w: destination
//
// Returns:
//   - error: write error
func (c Config) Encode(w io.Writer) error {
	enc := toml.NewEncoder(w)
	enc.SetIndentTables(true)
	return enc.Encode(c)
}

// Validate checks ranges that would otherwise fail deep inside a component.
//
// Returns:
//   - error: an ErrInvalid-wrapped error naming the first bad key
func (c Config) Validate() error {
	switch {
	case c.Window.Width <= 0 || c.Window.Height <= 0:
		return fmt.Errorf("%w: window size %dx%d", ErrInvalid, c.Window.Width, c.Window.Height)
	case c.Physics.StepsPerSecond <= 0:
		return fmt.Errorf("%w: physics.steps_per_second must be positive", ErrInvalid)
	case c.Physics.SolverIterations <= 0:
		return fmt.Errorf("%w: physics.solver_iterations must be positive", ErrInvalid)
	case c.Camera.Fov <= 0 || c.Camera.Fov >= 180:
		return fmt.Errorf("%w: camera.fov %v outside (0, 180)", ErrInvalid, c.Camera.Fov)
	case c.Camera.Near <= 0 || c.Camera.Far <= c.Camera.Near:
		return fmt.Errorf("%w: camera near %v / far %v", ErrInvalid, c.Camera.Near, c.Camera.Far)
	case c.Camera.Step <= 0:
		return fmt.Errorf("%w: camera.step must be positive", ErrInvalid)
	case c.Camera.MouseInterval.Duration <= 0:
		return fmt.Errorf("%w: camera.mouse_interval must be positive", ErrInvalid)
	case c.Log.ProfileInterval.Duration <= 0:
		return fmt.Errorf("%w: log.profile_interval must be positive", ErrInvalid)
	case c.Scene.Workers <= 0:
		return fmt.Errorf("%w: scene.workers must be positive", ErrInvalid)
	}
	switch c.Log.Level {
	case "debug", "info", "warn", "error", "fatal":
	default:
		return fmt.Errorf("%w: log.level %q", ErrInvalid, c.Log.Level)
	}
	return nil
}
