package config

import (
	"fmt"
	"slices"
)

// OutputFormats lists the accepted values of the output setting.
var OutputFormats = []string{"auto", "text", "markdown", "json"}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.StatePath == "" {
		return fmt.Errorf("state_path is required")
	}
	if c.OutputFormat != "" && !slices.Contains(OutputFormats, c.OutputFormat) {
		return fmt.Errorf("invalid output format %q (valid: %v)", c.OutputFormat, OutputFormats)
	}
	if c.UI != nil && c.UI.HiddenWidth < 0 {
		return fmt.Errorf("ui.hidden_width must not be negative")
	}
	return nil
}
