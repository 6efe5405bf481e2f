package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/hc3-tools/quickapp-manager/internal/logging"
	"github.com/hc3-tools/quickapp-manager/internal/updater"
	"github.com/hc3-tools/quickapp-manager/internal/util"
	"github.com/hc3-tools/quickapp-manager/internal/version"
)

// Settings holds the optional, read-only application settings file.
type Settings struct {
	Window  WindowSettings `yaml:"window"`
	Logging logging.Config `yaml:"logging"`
	Updater updater.Config `yaml:"updater"`
	HTTP    HTTPSettings   `yaml:"http"`
}

// WindowSettings describes the main webview window.
type WindowSettings struct {
	Title     string `yaml:"title"`
	Width     int    `yaml:"width"`
	Height    int    `yaml:"height"`
	MinWidth  int    `yaml:"min_width"`
	MinHeight int    `yaml:"min_height"`
}

// HTTPSettings configures the HTTP client exposed to the UI.
type HTTPSettings struct {
	TimeoutSeconds     int  `yaml:"timeout_seconds"`
	InsecureSkipVerify bool `yaml:"insecure_skip_verify"`
}

// DefaultSettings returns the settings used when no file is present.
func DefaultSettings() Settings {
	return Settings{
		Window: WindowSettings{
			Title:     version.ProductName,
			Width:     1200,
			Height:    800,
			MinWidth:  800,
			MinHeight: 600,
		},
		Logging: logging.DefaultConfig(),
		Updater: updater.DefaultConfig(),
		HTTP: HTTPSettings{
			TimeoutSeconds: 30,
		},
	}
}

// Validate checks the settings for values the application cannot start with.
func (s *Settings) Validate() error {
	if s.Window.Width <= 0 || s.Window.Height <= 0 {
		return fmt.Errorf("window size must be positive, got %dx%d", s.Window.Width, s.Window.Height)
	}
	if s.Window.MinWidth > s.Window.Width || s.Window.MinHeight > s.Window.Height {
		return errors.New("window minimum size exceeds window size")
	}
	if s.HTTP.TimeoutSeconds < 0 {
		return errors.New("http timeout must not be negative")
	}
	return s.Updater.Validate()
}

// Load reads and parses a YAML file into v, expanding ${VAR} references first.
func Load(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return util.WrapErrorf(err, "failed to read config file")
	}

	data = []byte(os.ExpandEnv(string(data)))

	return util.WrapErrorf(yaml.Unmarshal(data, v), "failed to parse config file %s", path)
}

// LoadSettings loads path over DefaultSettings. An empty path or a missing file yields
// the defaults.
func LoadSettings(path string) (Settings, error) {
	s := DefaultSettings()
	if path == "" {
		return s, nil
	}

	if err := Load(path, &s); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return DefaultSettings(), nil
		}
		return Settings{}, err
	}

	if err := s.Validate(); err != nil {
		return Settings{}, fmt.Errorf("invalid settings %s: %w", path, err)
	}
	return s, nil
}
