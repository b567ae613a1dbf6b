// Package config provides configuration management for the leaptable CLI.
package config

// UIConfig holds configuration for the table explorer and renderers.
type UIConfig struct {
	ShowHidden  bool `koanf:"show_hidden"`
	Watch       bool `koanf:"watch"`
	HiddenWidth int  `koanf:"hidden_width"`
}

// Config holds all CLI configuration options.
type Config struct {
	StatePath    string    `koanf:"state_path"`
	Workbook     string    `koanf:"workbook"`
	Verbose      bool      `koanf:"verbose"`
	OutputFormat string    `koanf:"output"`
	UI           *UIConfig `koanf:"ui"`

	// ProjectRoot is the directory relative paths are resolved against.
	ProjectRoot string `koanf:"-"`
}

// Default configuration values.
const (
	DefaultStateFile   = ".leaptable/state.db"
	DefaultOutput      = "auto" // Auto-detect: TTY=text, non-TTY=markdown
	DefaultHiddenWidth = 3
)

// DefaultUIConfig returns a UIConfig with default values.
func DefaultUIConfig() *UIConfig {
	return &UIConfig{
		ShowHidden:  false,
		Watch:       false,
		HiddenWidth: DefaultHiddenWidth,
	}
}

// GetUIConfig returns the UI config with defaults applied for any unset values.
func (c *Config) GetUIConfig() *UIConfig {
	if c.UI == nil {
		return DefaultUIConfig()
	}
	ui := *c.UI
	if ui.HiddenWidth <= 0 {
		ui.HiddenWidth = DefaultHiddenWidth
	}
	return &ui
}
