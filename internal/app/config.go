package app

import (
	"fmt"
	"image/color"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config holds viewer tuning loaded from YAML.
type Config struct {
	// View parameters for pan and zoom.
	View struct {
		// ZoomStep is the per-notch scale factor for scroll zoom.
		ZoomStep float64 `yaml:"zoomStep"`

		// PanSensitivity scales middle-drag panning.
		PanSensitivity float64 `yaml:"panSensitivity"`
	} `yaml:"view"`

	// Composite stretch parameters.
	Composite struct {
		// LowPercentile and HighPercentile bound the contrast stretch
		// suggested for a freshly selected band.
		LowPercentile  float64 `yaml:"lowPercentile"`
		HighPercentile float64 `yaml:"highPercentile"`
	} `yaml:"composite"`

	// Interaction parameters.
	Interaction struct {
		// BandHitTolerance is the wavelength distance within which a press
		// grabs a band indicator.
		BandHitTolerance float64 `yaml:"bandHitTolerance"`
	} `yaml:"interaction"`

	// Overlay colors as hex strings, for example "#ff0000".
	Overlay struct {
		PickColor      string `yaml:"pickColor"`
		LassoColor     string `yaml:"lassoColor"`
		CrosshairColor string `yaml:"crosshairColor"`
		IndicatorRed   string `yaml:"indicatorRed"`
		IndicatorGreen string `yaml:"indicatorGreen"`
		IndicatorBlue  string `yaml:"indicatorBlue"`
	} `yaml:"overlay"`
}

// DefaultConfig returns a configuration with default values.
func DefaultConfig() *Config {
	cfg := &Config{}

	cfg.View.ZoomStep = 1.3
	cfg.View.PanSensitivity = 0.3

	cfg.Composite.LowPercentile = 2
	cfg.Composite.HighPercentile = 98

	cfg.Interaction.BandHitTolerance = 12

	cfg.Overlay.PickColor = "#ff0000"
	cfg.Overlay.LassoColor = "#00ff80"
	cfg.Overlay.CrosshairColor = "#ffffff"
	cfg.Overlay.IndicatorRed = "#ff4040"
	cfg.Overlay.IndicatorGreen = "#40ff40"
	cfg.Overlay.IndicatorBlue = "#4060ff"

	return cfg
}

// ParseHexColor parses an "#rrggbb" overlay color string.
func ParseHexColor(s string) (color.RGBA, error) {
	var r, g, b uint8
	if _, err := fmt.Sscanf(s, "#%02x%02x%02x", &r, &g, &b); err != nil {
		return color.RGBA{}, fmt.Errorf("bad color %q: %w", s, err)
	}
	return color.RGBA{R: r, G: g, B: b, A: 255}, nil
}

// LoadConfig loads configuration from a YAML file. A missing file yields
// the defaults.
func LoadConfig(configPath string) (*Config, error) {
	cfg := DefaultConfig()

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return cfg, nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}

	return cfg, nil
}

// SaveConfig saves the configuration to a YAML file.
func SaveConfig(cfg *Config, configPath string) error {
	if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		return fmt.Errorf("error creating config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("error marshaling config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("error writing config file: %w", err)
	}

	return nil
}
