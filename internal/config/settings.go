package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/jmylchreest/wordbubble/internal/bubble"
	"github.com/jmylchreest/wordbubble/internal/placement"
)

// Default settings values.
const (
	DefaultBubbleDuration = 5
	DefaultBubbleInterval = 15
	DefaultFontSize       = 13
	DefaultWordColor      = "#000000"
	DefaultMeaningColor   = "#0000ff"
	DefaultBgColor        = "#ccffff"
	DefaultOpacity        = 0.9
	DefaultAlignment      = "right"
	DefaultFont           = "Vazir.ttf"
	DefaultLanguage       = "fa"
	DefaultPlayMode       = "random"
	DefaultPosition       = "random"
	DefaultSoundVolume    = 80
)

// Accepted ranges.
const (
	MinBubbleDuration = 1
	MaxBubbleDuration = 20
	MinBubbleInterval = 1
	MaxBubbleInterval = 60
	MinFontSize       = 8
	MaxFontSize       = 30
	MinOpacity        = 0.1
	MaxOpacity        = 1.0
)

// ErrUnknownSetting is returned by Get and Set for keys that don't exist.
var ErrUnknownSetting = errors.New("unknown setting")

// Settings is the user-facing settings document, stored as JSON.
type Settings struct {
	SelectedFile   string  `json:"selected_file" yaml:"selected_file"`
	BubbleDuration int     `json:"bubble_duration" yaml:"bubble_duration"` // seconds
	BubbleInterval int     `json:"bubble_interval" yaml:"bubble_interval"` // seconds
	FontSize       int     `json:"font_size" yaml:"font_size"`
	WordColor      string  `json:"word_color" yaml:"word_color"`
	MeaningColor   string  `json:"meaning_color" yaml:"meaning_color"`
	BgColor        string  `json:"bg_color" yaml:"bg_color"`
	Opacity        float64 `json:"opacity" yaml:"opacity"`
	TopMost        bool    `json:"top_most" yaml:"top_most"`
	TextAlignment  string  `json:"text_alignment" yaml:"text_alignment"`
	SelectedFont   string  `json:"selected_font" yaml:"selected_font"`
	Language       string  `json:"language" yaml:"language"`
	PlayMode       string  `json:"play_mode" yaml:"play_mode"`
	BubblePosition string  `json:"bubble_position" yaml:"bubble_position"`
	DarkMode       bool    `json:"dark_mode" yaml:"dark_mode"`
	SoundFile      string  `json:"sound_file,omitempty" yaml:"sound_file,omitempty"`
	SoundVolume    int     `json:"sound_volume" yaml:"sound_volume"` // 0-100
}

// DefaultSettings returns the settings used when no document exists.
func DefaultSettings() *Settings {
	return &Settings{
		SelectedFile:   "",
		BubbleDuration: DefaultBubbleDuration,
		BubbleInterval: DefaultBubbleInterval,
		FontSize:       DefaultFontSize,
		WordColor:      DefaultWordColor,
		MeaningColor:   DefaultMeaningColor,
		BgColor:        DefaultBgColor,
		Opacity:        DefaultOpacity,
		TopMost:        true,
		TextAlignment:  DefaultAlignment,
		SelectedFont:   DefaultFont,
		Language:       DefaultLanguage,
		PlayMode:       DefaultPlayMode,
		BubblePosition: DefaultPosition,
		DarkMode:       false,
		SoundVolume:    DefaultSoundVolume,
	}
}

// settingsFileMutex protects concurrent access to the settings file.
var settingsFileMutex sync.RWMutex

// LoadSettings reads the settings document at path over the defaults.
// A missing or malformed document yields the defaults; only I/O errors
// other than not-exist are returned.
func LoadSettings(path string) (*Settings, error) {
	settingsFileMutex.RLock()
	defer settingsFileMutex.RUnlock()

	if path == "" {
		path = SettingsPath()
	}

	s := DefaultSettings()
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return s, nil
		}
		return nil, fmt.Errorf("failed to read settings: %w", err)
	}

	if err := json.Unmarshal(data, s); err != nil {
		// Malformed documents are discarded wholesale.
		return DefaultSettings(), nil
	}

	s.Normalize()
	return s, nil
}

// SaveSettings writes the whole document atomically.
func SaveSettings(path string, s *Settings) error {
	settingsFileMutex.Lock()
	defer settingsFileMutex.Unlock()

	if path == "" {
		path = SettingsPath()
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create settings directory: %w", err)
	}

	data, err := json.MarshalIndent(s, "", "    ")
	if err != nil {
		return fmt.Errorf("failed to marshal settings: %w", err)
	}

	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write settings: %w", err)
	}
	return os.Rename(tmpPath, path)
}

// Normalize repairs out-of-range values in place. An unknown placement
// mode becomes random and invalid colors fall back to their defaults.
func (s *Settings) Normalize() {
	s.BubbleDuration = clampInt(s.BubbleDuration, MinBubbleDuration, MaxBubbleDuration)
	s.BubbleInterval = clampInt(s.BubbleInterval, MinBubbleInterval, MaxBubbleInterval)
	s.FontSize = clampInt(s.FontSize, MinFontSize, MaxFontSize)
	s.Opacity = min(max(s.Opacity, MinOpacity), MaxOpacity)
	s.SoundVolume = clampInt(s.SoundVolume, 0, 100)

	s.WordColor = normalizeColor(s.WordColor, DefaultWordColor)
	s.MeaningColor = normalizeColor(s.MeaningColor, DefaultMeaningColor)
	s.BgColor = normalizeColor(s.BgColor, DefaultBgColor)

	s.TextAlignment = string(bubble.ParseAlignment(s.TextAlignment))
	s.BubblePosition = placement.ParseMode(s.BubblePosition).String()

	if s.PlayMode != "sequential" {
		s.PlayMode = DefaultPlayMode
	}
	if !slices.Contains(Languages(), s.Language) {
		s.Language = DefaultLanguage
	}
	s.SelectedFile = strings.TrimSpace(s.SelectedFile)
}

// Languages returns the supported UI languages.
func Languages() []string {
	return []string{"fa", "en"}
}

// Mode returns the parsed placement mode.
func (s *Settings) Mode() placement.Mode {
	return placement.ParseMode(s.BubblePosition)
}

// Duration returns the bubble lifetime.
func (s *Settings) Duration() time.Duration {
	return time.Duration(s.BubbleDuration) * time.Second
}

// Interval returns the time between bubbles.
func (s *Settings) Interval() time.Duration {
	return time.Duration(s.BubbleInterval) * time.Second
}

// SoundPath returns the chime path with ~ expanded.
func (s *Settings) SoundPath() string {
	return expandPath(s.SoundFile)
}

// Style returns the bubble style described by the settings. fontFamily is
// the resolved family of SelectedFont.
func (s *Settings) Style(fontFamily string) bubble.Style {
	return bubble.Style{
		FontSize:        s.FontSize,
		FontFamily:      fontFamily,
		WordColor:       s.WordColor,
		MeaningColor:    s.MeaningColor,
		BackgroundColor: s.BgColor,
		Opacity:         s.Opacity,
		Alignment:       bubble.ParseAlignment(s.TextAlignment),
		TopMost:         s.TopMost,
	}
}

// Keys returns every settings key in document order.
func Keys() []string {
	return []string{
		"selected_file", "bubble_duration", "bubble_interval", "font_size",
		"word_color", "meaning_color", "bg_color", "opacity", "top_most",
		"text_alignment", "selected_font", "language", "play_mode",
		"bubble_position", "dark_mode", "sound_file", "sound_volume",
	}
}

// Get returns a setting formatted as a string.
func (s *Settings) Get(key string) (string, error) {
	switch key {
	case "selected_file":
		return s.SelectedFile, nil
	case "bubble_duration":
		return strconv.Itoa(s.BubbleDuration), nil
	case "bubble_interval":
		return strconv.Itoa(s.BubbleInterval), nil
	case "font_size":
		return strconv.Itoa(s.FontSize), nil
	case "word_color":
		return s.WordColor, nil
	case "meaning_color":
		return s.MeaningColor, nil
	case "bg_color":
		return s.BgColor, nil
	case "opacity":
		return strconv.FormatFloat(s.Opacity, 'f', -1, 64), nil
	case "top_most":
		return strconv.FormatBool(s.TopMost), nil
	case "text_alignment":
		return s.TextAlignment, nil
	case "selected_font":
		return s.SelectedFont, nil
	case "language":
		return s.Language, nil
	case "play_mode":
		return s.PlayMode, nil
	case "bubble_position":
		return s.BubblePosition, nil
	case "dark_mode":
		return strconv.FormatBool(s.DarkMode), nil
	case "sound_file":
		return s.SoundFile, nil
	case "sound_volume":
		return strconv.Itoa(s.SoundVolume), nil
	}
	return "", fmt.Errorf("%w: %s", ErrUnknownSetting, key)
}

// Set parses value into the named setting. Values are validated strictly;
// use Normalize for lenient repair.
func (s *Settings) Set(key, value string) error {
	value = strings.TrimSpace(value)
	// Parse into a copy so a rejected value leaves s untouched.
	next := *s
	var err error
	switch key {
	case "selected_file":
		next.SelectedFile = value
	case "bubble_duration":
		next.BubbleDuration, err = parseIntRange(value, MinBubbleDuration, MaxBubbleDuration)
	case "bubble_interval":
		next.BubbleInterval, err = parseIntRange(value, MinBubbleInterval, MaxBubbleInterval)
	case "font_size":
		next.FontSize, err = parseIntRange(value, MinFontSize, MaxFontSize)
	case "word_color":
		next.WordColor, err = parseColor(value)
	case "meaning_color":
		next.MeaningColor, err = parseColor(value)
	case "bg_color":
		next.BgColor, err = parseColor(value)
	case "opacity":
		var f float64
		f, err = strconv.ParseFloat(value, 64)
		if err == nil && (f < MinOpacity || f > MaxOpacity) {
			err = fmt.Errorf("must be between %.1f and %.1f", MinOpacity, MaxOpacity)
		}
		if err == nil {
			next.Opacity = f
		}
	case "top_most":
		next.TopMost, err = strconv.ParseBool(value)
	case "text_alignment":
		if value != "right" && value != "left" && value != "center" {
			err = errors.New("must be one of right, left, center")
		} else {
			next.TextAlignment = value
		}
	case "selected_font":
		next.SelectedFont = value
	case "language":
		if !slices.Contains(Languages(), value) {
			err = fmt.Errorf("must be one of %s", strings.Join(Languages(), ", "))
		} else {
			next.Language = value
		}
	case "play_mode":
		if value != "random" && value != "sequential" {
			err = errors.New("must be random or sequential")
		} else {
			next.PlayMode = value
		}
	case "bubble_position":
		if !placement.IsValidMode(value) {
			err = errors.New("unknown placement mode")
		} else {
			next.BubblePosition = value
		}
	case "dark_mode":
		next.DarkMode, err = strconv.ParseBool(value)
	case "sound_file":
		next.SoundFile = value
	case "sound_volume":
		next.SoundVolume, err = parseIntRange(value, 0, 100)
	default:
		return fmt.Errorf("%w: %s", ErrUnknownSetting, key)
	}
	if err != nil {
		return fmt.Errorf("invalid value %q for %s: %w", value, key, err)
	}
	*s = next
	return nil
}

func parseIntRange(value string, lo, hi int) (int, error) {
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, err
	}
	if n < lo || n > hi {
		return 0, fmt.Errorf("must be between %d and %d", lo, hi)
	}
	return n, nil
}

// parseColor accepts #rgb or #rrggbb and returns lower-case #rrggbb.
func parseColor(value string) (string, error) {
	if !strings.HasPrefix(value, "#") {
		value = "#" + value
	}
	c, err := colorful.Hex(value)
	if err != nil {
		return "", err
	}
	return c.Hex(), nil
}

func normalizeColor(value, fallback string) string {
	c, err := parseColor(strings.TrimSpace(value))
	if err != nil {
		return fallback
	}
	return c
}

func clampInt(v, lo, hi int) int {
	return min(max(v, lo), hi)
}
