package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/jmylchreest/wordbubble/internal/placement"
)

// Duration is a time.Duration that can be unmarshaled from human-readable strings.
// Supports formats like "500ms", "5s", "1m", or integer milliseconds.
type Duration time.Duration

// UnmarshalText implements encoding.TextUnmarshaler for TOML parsing.
func (d *Duration) UnmarshalText(text []byte) error {
	s := string(text)

	// Try parsing as integer (milliseconds)
	if ms, err := strconv.ParseInt(s, 10, 64); err == nil {
		*d = Duration(time.Duration(ms) * time.Millisecond)
		return nil
	}

	dur, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: must be like '500ms', '5s', '1m' or milliseconds: %w", s, err)
	}
	*d = Duration(dur)
	return nil
}

// MarshalText implements encoding.TextMarshaler for TOML output.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// Milliseconds returns the duration in milliseconds.
func (d Duration) Milliseconds() int {
	return int(time.Duration(d).Milliseconds())
}

// Duration returns the underlying time.Duration.
func (d Duration) Duration() time.Duration {
	return time.Duration(d)
}

// DaemonConfig is the configuration for wordbubbled.
// Loaded from ~/.config/wordbubble/wordbubbled.toml
type DaemonConfig struct {
	Placement PlacementConfig `toml:"placement"`
	Animation AnimationConfig `toml:"animation"`
	Instance  InstanceConfig  `toml:"instance"`
	Display   DisplayConfig   `toml:"display"`
	Audio     AudioConfig     `toml:"audio"`
}

// PlacementConfig tunes the placement engine.
type PlacementConfig struct {
	Margin     int `toml:"margin"`      // Pixels kept from every screen edge
	Spacing    int `toml:"spacing"`     // Horizontal step of cascading sweeps
	CascadeGap int `toml:"cascade_gap"` // Vertical gap between cascaded bubbles
}

// AnimationConfig controls frame and polling cadence.
type AnimationConfig struct {
	FrameInterval Duration `toml:"frame_interval"` // Fade/move frame period
	PollInterval  Duration `toml:"poll_interval"`  // Settings and state file polling
}

// InstanceConfig controls the single-instance handshake.
type InstanceConfig struct {
	Name           string   `toml:"name"`
	Backend        string   `toml:"backend"` // "socket" or "dbus"
	ConnectTimeout Duration `toml:"connect_timeout"`
}

// DisplayConfig contains display-related settings.
type DisplayConfig struct {
	Monitor    int `toml:"monitor"`     // 0 = primary, 1+ = specific monitor
	MaxVisible int `toml:"max_visible"` // 0 = unlimited
}

// AudioConfig contains audio settings.
type AudioConfig struct {
	Enabled bool `toml:"enabled"`
}

// Instance backends.
const (
	BackendSocket = "socket"
	BackendDBus   = "dbus"
)

// DefaultDaemonConfig returns a new DaemonConfig with default values.
func DefaultDaemonConfig() *DaemonConfig {
	return &DaemonConfig{
		Placement: PlacementConfig{
			Margin:     placement.DefaultMargin,
			Spacing:    placement.DefaultSpacing,
			CascadeGap: placement.DefaultCascadeGap,
		},
		Animation: AnimationConfig{
			FrameInterval: Duration(30 * time.Millisecond),
			PollInterval:  Duration(500 * time.Millisecond),
		},
		Instance: InstanceConfig{
			Name:           "WordBubbleApp",
			Backend:        BackendSocket,
			ConnectTimeout: Duration(500 * time.Millisecond),
		},
		Display: DisplayConfig{
			Monitor:    0,
			MaxVisible: 0,
		},
		Audio: AudioConfig{
			Enabled: true,
		},
	}
}

// DaemonConfigPath returns the path to the daemon config file.
func DaemonConfigPath() string {
	return filepath.Join(ConfigDir(), "wordbubbled.toml")
}

// LoadDaemonConfig loads the daemon configuration from path, or the
// default path when empty. A missing file yields the defaults.
func LoadDaemonConfig(path string) (*DaemonConfig, error) {
	if path == "" {
		path = DaemonConfigPath()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultDaemonConfig(), nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Start with defaults, then overlay with file contents
	config := DefaultDaemonConfig()
	if err := toml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// SaveDaemonConfig saves the daemon configuration to path.
func SaveDaemonConfig(path string, config *DaemonConfig) error {
	if path == "" {
		path = DaemonConfigPath()
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := toml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	// Write atomically via temp file
	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return os.Rename(tmpPath, path)
}

// Validate checks if the configuration is valid.
func (c *DaemonConfig) Validate() error {
	if c.Placement.Margin < 0 || c.Placement.Margin > 500 {
		return fmt.Errorf("margin must be between 0 and 500, got %d", c.Placement.Margin)
	}
	if c.Placement.Spacing < 1 {
		return fmt.Errorf("spacing must be positive, got %d", c.Placement.Spacing)
	}
	if c.Placement.CascadeGap < 0 {
		return fmt.Errorf("cascade_gap must not be negative, got %d", c.Placement.CascadeGap)
	}

	if d := c.Animation.FrameInterval.Duration(); d < 5*time.Millisecond || d > time.Second {
		return fmt.Errorf("frame_interval must be between 5ms and 1s, got %s", d)
	}
	if c.Animation.PollInterval.Duration() < 50*time.Millisecond {
		return fmt.Errorf("poll_interval must be at least 50ms, got %s", c.Animation.PollInterval.Duration())
	}

	if c.Instance.Name == "" {
		return fmt.Errorf("instance name must not be empty")
	}
	if c.Instance.Backend != BackendSocket && c.Instance.Backend != BackendDBus {
		return fmt.Errorf("invalid instance backend %q, must be %q or %q", c.Instance.Backend, BackendSocket, BackendDBus)
	}
	if c.Instance.ConnectTimeout.Duration() <= 0 {
		return fmt.Errorf("connect_timeout must be positive")
	}

	if c.Display.Monitor < 0 {
		return fmt.Errorf("monitor must not be negative, got %d", c.Display.Monitor)
	}
	if c.Display.MaxVisible < 0 {
		return fmt.Errorf("max_visible must not be negative, got %d", c.Display.MaxVisible)
	}

	return nil
}

// PlacementParams converts the placement section for the engine.
func (c *DaemonConfig) PlacementParams() placement.Params {
	return placement.Params{
		Margin:     c.Placement.Margin,
		Spacing:    c.Placement.Spacing,
		CascadeGap: c.Placement.CascadeGap,
	}
}
