package am

import (
	"slices"
	"strings"

	"github.com/teranos/clwm/errors"
)

// Validate checks that the configuration is valid
func (c *Config) Validate() error {
	if c.World.File == "" {
		return errors.New("world.file cannot be empty")
	}

	// Empty format is treated as text
	if c.Output.Format != "" && !slices.Contains(OutputFormats, c.Output.Format) {
		return errors.WithHintf(
			errors.Newf("output.format %q is not supported", c.Output.Format),
			"use one of: %s", strings.Join(OutputFormats, ", "))
	}

	return nil
}
