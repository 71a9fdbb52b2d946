// Package config provides configuration loading and access for the wave canvas.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/pthm-cable/wavecanvas/shader"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all configuration parameters.
type Config struct {
	Screen    ScreenConfig    `yaml:"screen"`
	Wave      WaveConfig      `yaml:"wave"`
	Palette   PaletteConfig   `yaml:"palette"`
	Export    ExportConfig    `yaml:"export"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
	Startup   StartupConfig   `yaml:"startup"`
	Log       LogConfig       `yaml:"log"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// ScreenConfig holds display settings.
type ScreenConfig struct {
	Width     int    `yaml:"width"`
	Height    int    `yaml:"height"`
	TargetFPS int    `yaml:"target_fps"`
	Title     string `yaml:"title"`
	MSAA      bool   `yaml:"msaa"`
	Resizable bool   `yaml:"resizable"`
}

// NoiseConfig is one family of noise parameters, in the raw units the renderer setters accept.
type NoiseConfig struct {
	Frequency   Vec2    `yaml:"frequency"`
	Speed       float64 `yaml:"speed"`        // divided by 100 in the shader
	Strength    float64 `yaml:"strength"`     // divided by 10 in the shader
	ScrollSpeed Vec2    `yaml:"scroll_speed"` // divided by 100 in the shader
	ClampLow    float64 `yaml:"clamp_low"`
	ClampHigh   float64 `yaml:"clamp_high"`
}

// WaveConfig holds the initial animation parameters.
type WaveConfig struct {
	Deform              NoiseConfig `yaml:"deform"`
	Light               NoiseConfig `yaml:"light"`
	PerLightNoiseOffset float64     `yaml:"per_light_noise_offset"`
	LightBlendStrength  float64     `yaml:"light_blend_strength"`
	TimeOffset          float64     `yaml:"time_offset"`
	Subdivision         Vec2        `yaml:"subdivision"`

	// Noise and Blend name a preset or hold inline GLSL.
	Noise string `yaml:"noise"`
	Blend string `yaml:"blend"`

	StartPaused bool    `yaml:"start_paused"`
	StartAtTime float64 `yaml:"start_at_time"`

	// ExtraUniforms maps a uniform name to 1-4 float components.
	ExtraUniforms map[string][]float64 `yaml:"extra_uniforms"`
}

// PaletteConfig holds the color modes.
type PaletteConfig struct {
	Mode              string              `yaml:"mode"`
	TransitionSeconds float64             `yaml:"transition_seconds"`
	Modes             map[string][]string `yaml:"modes"`    // mode -> hex colors
	Fallback          map[string]string   `yaml:"fallback"` // mode -> hex color
	FallbackImage     string              `yaml:"fallback_image"`
}

// ExportConfig holds screenshot export settings.
type ExportConfig struct {
	Dir      string `yaml:"dir"`
	MimeType string `yaml:"mime_type"`
}

// TelemetryConfig holds frame statistics settings.
type TelemetryConfig struct {
	Window             int     `yaml:"window"` // frames per stats window
	OutputDir          string  `yaml:"output_dir"`
	LogIntervalSeconds float64 `yaml:"log_interval_seconds"`
}

// StartupConfig controls deferred mounting.
type StartupConfig struct {
	IdleBudgetMS float64 `yaml:"idle_budget_ms"` // a frame shorter than this counts as idle
	TimeoutMS    float64 `yaml:"timeout_ms"`     // mount anyway after this long
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // text or json
}

// DerivedConfig holds values computed from the loaded config.
type DerivedConfig struct {
	IdleBudget         time.Duration
	StartupTimeout     time.Duration
	TransitionDuration time.Duration
	LogInterval        time.Duration
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	cfg.computeDerived()

	return cfg, nil
}

func (c *Config) validate() error {
	var errs []error

	if c.Screen.Width <= 0 || c.Screen.Height <= 0 {
		errs = append(errs, fmt.Errorf("screen size must be positive, got %dx%d", c.Screen.Width, c.Screen.Height))
	}
	for name, n := range map[string]NoiseConfig{"deform": c.Wave.Deform, "light": c.Wave.Light} {
		if n.ClampLow >= n.ClampHigh {
			errs = append(errs, fmt.Errorf("wave.%s: clamp_low %v must be below clamp_high %v", name, n.ClampLow, n.ClampHigh))
		}
	}
	if c.Wave.Subdivision.X <= 0 || c.Wave.Subdivision.Y <= 0 {
		errs = append(errs, fmt.Errorf("wave.subdivision must be positive, got %v", c.Wave.Subdivision))
	}
	if !isInline(c.Wave.Noise) {
		if _, ok := shader.Noise(c.Wave.Noise); !ok && c.Wave.Noise != "" {
			errs = append(errs, fmt.Errorf("wave.noise: unknown preset %q (have %s)", c.Wave.Noise, strings.Join(shader.NoiseNames(), ", ")))
		}
	}
	if !isInline(c.Wave.Blend) {
		if _, ok := shader.Blend(c.Wave.Blend); !ok && c.Wave.Blend != "" {
			errs = append(errs, fmt.Errorf("wave.blend: unknown preset %q (have %s)", c.Wave.Blend, strings.Join(shader.BlendNames(), ", ")))
		}
	}
	for name, values := range c.Wave.ExtraUniforms {
		if len(values) < 1 || len(values) > 4 {
			errs = append(errs, fmt.Errorf("wave.extra_uniforms.%s: need 1-4 components, got %d", name, len(values)))
		}
		if shader.Reserved(name) {
			errs = append(errs, fmt.Errorf("wave.extra_uniforms.%s: name is declared by the shader", name))
		}
	}

	if len(c.Palette.Modes) == 0 {
		errs = append(errs, errors.New("palette.modes is empty"))
	}
	for mode, colors := range c.Palette.Modes {
		if len(colors) == 0 {
			errs = append(errs, fmt.Errorf("palette.modes.%s has no colors", mode))
		}
		if len(colors) > shader.MaxLights {
			errs = append(errs, fmt.Errorf("palette.modes.%s has %d colors, at most %d are drawn", mode, len(colors), shader.MaxLights))
		}
	}
	if _, ok := c.Palette.Modes[c.Palette.Mode]; !ok {
		errs = append(errs, fmt.Errorf("palette.mode %q is not defined in palette.modes", c.Palette.Mode))
	}

	return errors.Join(errs...)
}

// isInline reports whether s looks like GLSL rather than a preset name.
func isInline(s string) bool {
	return strings.ContainsAny(s, "(){};")
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	c.Derived.IdleBudget = time.Duration(c.Startup.IdleBudgetMS * float64(time.Millisecond))
	c.Derived.StartupTimeout = time.Duration(c.Startup.TimeoutMS * float64(time.Millisecond))
	c.Derived.TransitionDuration = time.Duration(c.Palette.TransitionSeconds * float64(time.Second))
	c.Derived.LogInterval = time.Duration(c.Telemetry.LogIntervalSeconds * float64(time.Second))
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
