package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmylchreest/wordbubble/internal/bubble"
	"github.com/jmylchreest/wordbubble/internal/placement"
)

func TestDefaultSettings(t *testing.T) {
	s := DefaultSettings()

	assert.Equal(t, "", s.SelectedFile)
	assert.Equal(t, 5, s.BubbleDuration)
	assert.Equal(t, 15, s.BubbleInterval)
	assert.Equal(t, 13, s.FontSize)
	assert.Equal(t, "#000000", s.WordColor)
	assert.Equal(t, "#0000ff", s.MeaningColor)
	assert.Equal(t, "#ccffff", s.BgColor)
	assert.InDelta(t, 0.9, s.Opacity, 1e-9)
	assert.True(t, s.TopMost)
	assert.Equal(t, "right", s.TextAlignment)
	assert.Equal(t, "Vazir.ttf", s.SelectedFont)
	assert.Equal(t, "fa", s.Language)
	assert.Equal(t, "random", s.PlayMode)
	assert.Equal(t, "random", s.BubblePosition)
	assert.False(t, s.DarkMode)
}

func TestLoadSettings_DefaultsWhenNoFile(t *testing.T) {
	s, err := LoadSettings(filepath.Join(t.TempDir(), "missing.json"))
	require.NoError(t, err)
	assert.Equal(t, DefaultSettings(), s)
}

func TestLoadSettings_MalformedIsDiscarded(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"font_size": 20, "language": `), 0o600))

	s, err := LoadSettings(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultSettings(), s)
}

func TestLoadSettings_OverlaysAndNormalizes(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")
	content := `{
		"selected_file": "english.txt",
		"font_size": 20,
		"word_color": "#FF0000",
		"meaning_color": "not a color",
		"bubble_position": "diagonal",
		"bubble_duration": 99,
		"opacity": 0,
		"language": "en",
		"extra_key": true
	}`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	s, err := LoadSettings(path)
	require.NoError(t, err)
	assert.Equal(t, "english.txt", s.SelectedFile)
	assert.Equal(t, 20, s.FontSize)
	assert.Equal(t, "#ff0000", s.WordColor)
	assert.Equal(t, DefaultMeaningColor, s.MeaningColor)
	assert.Equal(t, "random", s.BubblePosition)
	assert.Equal(t, MaxBubbleDuration, s.BubbleDuration)
	assert.InDelta(t, MinOpacity, s.Opacity, 1e-9)
	assert.Equal(t, "en", s.Language)
	// Untouched keys keep their defaults.
	assert.Equal(t, 15, s.BubbleInterval)
	assert.True(t, s.TopMost)
}

func TestSaveSettings_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "settings.json")
	s := DefaultSettings()
	s.SelectedFile = "persian.txt"
	s.BubblePosition = "cascade_top_left"
	s.DarkMode = true

	require.NoError(t, SaveSettings(path, s))
	loaded, err := LoadSettings(path)
	require.NoError(t, err)
	assert.Equal(t, s, loaded)

	_, err = os.Stat(path + ".tmp")
	assert.True(t, os.IsNotExist(err))
}

func TestSettings_Derived(t *testing.T) {
	s := DefaultSettings()
	s.BubblePosition = "top_to_bottom_top_center"
	s.TextAlignment = "left"

	assert.Equal(t, placement.ModeTopToBottomTopCenter, s.Mode())
	assert.Equal(t, 5*time.Second, s.Duration())
	assert.Equal(t, 15*time.Second, s.Interval())

	style := s.Style("Vazir")
	assert.Equal(t, "Vazir", style.FontFamily)
	assert.Equal(t, bubble.AlignLeft, style.Alignment)
	assert.Equal(t, 13, style.FontSize)
	assert.True(t, style.TopMost)
}

func TestSettings_GetSet(t *testing.T) {
	s := DefaultSettings()

	for _, key := range Keys() {
		_, err := s.Get(key)
		assert.NoError(t, err, key)
	}

	require.NoError(t, s.Set("bubble_interval", "30"))
	assert.Equal(t, 30, s.BubbleInterval)
	require.NoError(t, s.Set("word_color", "F00"))
	assert.Equal(t, "#ff0000", s.WordColor)
	require.NoError(t, s.Set("bubble_position", "center"))
	require.NoError(t, s.Set("opacity", "0.5"))
	require.NoError(t, s.Set("dark_mode", "true"))

	v, err := s.Get("opacity")
	require.NoError(t, err)
	assert.Equal(t, "0.5", v)

	tests := []struct {
		key, value string
	}{
		{"bubble_interval", "0"},
		{"bubble_interval", "abc"},
		{"font_size", "99"},
		{"word_color", "blue"},
		{"opacity", "1.5"},
		{"text_alignment", "justify"},
		{"language", "de"},
		{"play_mode", "shuffle"},
		{"bubble_position", "diagonal"},
		{"top_most", "maybe"},
	}
	for _, tt := range tests {
		assert.Error(t, s.Set(tt.key, tt.value), "%s=%s", tt.key, tt.value)
	}

	assert.ErrorIs(t, s.Set("nope", "1"), ErrUnknownSetting)
	_, err = s.Get("nope")
	assert.ErrorIs(t, err, ErrUnknownSetting)

	// Failed sets leave values untouched.
	assert.Equal(t, 30, s.BubbleInterval)
	assert.Equal(t, "center", s.BubblePosition)
}

func TestSettings_SetRejectedValueKeepsPrevious(t *testing.T) {
	tests := []struct {
		key, value string
	}{
		{"bubble_duration", "0"},
		{"bubble_interval", "abc"},
		{"font_size", "99"},
		{"word_color", "blue"},
		{"meaning_color", "#12"},
		{"bg_color", ""},
		{"opacity", "0"},
		{"top_most", "maybe"},
		{"dark_mode", "sometimes"},
		{"sound_volume", "101"},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			s := DefaultSettings()
			s.TopMost = true
			s.DarkMode = true
			before := *s

			require.Error(t, s.Set(tt.key, tt.value))
			assert.Equal(t, before, *s)
		})
	}
}

func TestDaemonConfig_Defaults(t *testing.T) {
	cfg, err := LoadDaemonConfig(filepath.Join(t.TempDir(), "missing.toml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultDaemonConfig(), cfg)
	assert.NoError(t, cfg.Validate())

	p := cfg.PlacementParams()
	assert.Equal(t, placement.DefaultParams(), p)
	assert.Equal(t, 500*time.Millisecond, cfg.Instance.ConnectTimeout.Duration())
	assert.Equal(t, "WordBubbleApp", cfg.Instance.Name)
}

func TestDaemonConfig_ParsesTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wordbubbled.toml")
	content := `
[placement]
margin = 10
spacing = 150

[animation]
frame_interval = "16ms"
poll_interval = "1000"

[instance]
backend = "dbus"
connect_timeout = "250ms"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := LoadDaemonConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 10, cfg.Placement.Margin)
	assert.Equal(t, 150, cfg.Placement.Spacing)
	assert.Equal(t, placement.DefaultCascadeGap, cfg.Placement.CascadeGap)
	assert.Equal(t, 16*time.Millisecond, cfg.Animation.FrameInterval.Duration())
	assert.Equal(t, time.Second, cfg.Animation.PollInterval.Duration())
	assert.Equal(t, BackendDBus, cfg.Instance.Backend)
	assert.Equal(t, 250, cfg.Instance.ConnectTimeout.Milliseconds())
	assert.Equal(t, "WordBubbleApp", cfg.Instance.Name)
}

func TestDaemonConfig_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"bad backend", "[instance]\nbackend = \"pipe\"\n"},
		{"negative margin", "[placement]\nmargin = -1\n"},
		{"zero spacing", "[placement]\nspacing = 0\n"},
		{"bad duration", "[animation]\nframe_interval = \"soon\"\n"},
		{"frame too slow", "[animation]\nframe_interval = \"2s\"\n"},
		{"empty name", "[instance]\nname = \"\"\n"},
		{"malformed", "[placement\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "wordbubbled.toml")
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0o600))
			_, err := LoadDaemonConfig(path)
			assert.Error(t, err)
		})
	}
}

func TestSaveDaemonConfig_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wordbubbled.toml")
	cfg := DefaultDaemonConfig()
	cfg.Display.Monitor = 2
	cfg.Instance.Backend = BackendDBus

	require.NoError(t, SaveDaemonConfig(path, cfg))
	loaded, err := LoadDaemonConfig(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestPaths(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/cfg")
	t.Setenv("XDG_DATA_HOME", "/data")

	assert.Equal(t, "/cfg/wordbubble/settings.json", SettingsPath())
	assert.Equal(t, "/cfg/wordbubble/wordbubbled.toml", DaemonConfigPath())
	assert.Equal(t, "/data/wordbubble/word_lists", WordListDir())
	assert.Equal(t, "/data/fonts", FontDir())
}
