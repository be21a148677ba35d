package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateFeed(); err != nil {
		return err
	}
	if err := c.validateContent(); err != nil {
		return err
	}
	if err := c.validateGeneration(); err != nil {
		return err
	}
	if err := c.validateImages(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateFeed() error {
	if c.Feed.URL == "" {
		return nil
	}
	parsed, err := url.Parse(c.Feed.URL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return fmt.Errorf("feed.url %q is not a valid absolute URL", c.Feed.URL)
	}
	return nil
}

func (c *Config) validateContent() error {
	if c.Content.HashtagCount > len(c.Content.HashtagPool) {
		// The whole pool is used in that case; not an error, but a count far
		// beyond realistic pin text is.
		if c.Content.HashtagCount > 30 {
			return errors.New("content.hashtag_count must be 30 or fewer")
		}
	}
	return nil
}

func (c *Config) validateGeneration() error {
	if !c.Generation.Enabled {
		return nil
	}
	if strings.TrimSpace(c.Generation.APIKey) == "" {
		defaultPath, err := DefaultConfigPath()
		if err != nil {
			defaultPath = "~/.config/aurapin/config.toml"
		}
		return fmt.Errorf("generation.api_key is required when generation.enabled is true. Set OPENAI_API_KEY env var or edit %s (create with 'aurapin config init')", defaultPath)
	}
	return nil
}

func (c *Config) validateImages() error {
	if c.Images.TargetWidth*3 != c.Images.TargetHeight*2 {
		return fmt.Errorf("images.target_width x images.target_height (%dx%d) must keep the 2:3 pin aspect ratio", c.Images.TargetWidth, c.Images.TargetHeight)
	}
	if c.Images.MinWidth > c.Images.TargetWidth || c.Images.MinHeight > c.Images.TargetHeight {
		return errors.New("images.min_width/min_height must not exceed the target dimensions")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be debug, info, warn, or error, got %q", c.Logging.Level)
	}
	return nil
}
