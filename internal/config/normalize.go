package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeFeed()
	c.normalizeContent()
	c.normalizeGeneration()
	c.normalizeImages()
	c.normalizePinterest()
	c.normalizeCuration()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.DataDir) == "" {
		c.Paths.DataDir = defaultDataDir
	}
	if c.Paths.DataDir, err = expandPath(c.Paths.DataDir); err != nil {
		return fmt.Errorf("paths.data_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.ImagesDir) == "" {
		c.Paths.ImagesDir = defaultImagesDir
	}
	if c.Paths.ImagesDir, err = expandPath(c.Paths.ImagesDir); err != nil {
		return fmt.Errorf("paths.images_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeFeed() {
	c.Feed.URL = strings.TrimSpace(c.Feed.URL)
	if c.Feed.URL == "" {
		if value, ok := os.LookupEnv("AWIN_FEED_URL"); ok {
			c.Feed.URL = strings.TrimSpace(value)
		}
	}
	if c.Feed.TimeoutSeconds <= 0 {
		c.Feed.TimeoutSeconds = defaultFeedTimeoutSeconds
	}
}

func (c *Config) normalizeContent() {
	c.Content.Disclaimer = strings.TrimSpace(c.Content.Disclaimer)
	if c.Content.Disclaimer == "" {
		c.Content.Disclaimer = defaultDisclaimer
	}
	pool := make([]string, 0, len(c.Content.HashtagPool))
	for _, tag := range c.Content.HashtagPool {
		tag = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(tag), "#"))
		if tag != "" {
			pool = append(pool, tag)
		}
	}
	if len(pool) == 0 {
		pool = append(pool, defaultHashtagPool...)
	}
	c.Content.HashtagPool = pool
	if c.Content.HashtagCount <= 0 {
		c.Content.HashtagCount = defaultHashtagCount
	}
}

func (c *Config) normalizeGeneration() {
	if c.Generation.APIKey == "" {
		if value, ok := os.LookupEnv("OPENAI_API_KEY"); ok {
			c.Generation.APIKey = value
		}
	}
	c.Generation.BaseURL = strings.TrimSpace(c.Generation.BaseURL)
	if c.Generation.BaseURL == "" {
		c.Generation.BaseURL = defaultGenerationBaseURL
	}
	c.Generation.Model = strings.TrimSpace(c.Generation.Model)
	if c.Generation.Model == "" {
		c.Generation.Model = defaultGenerationModel
	}
	if c.Generation.TimeoutSeconds <= 0 {
		c.Generation.TimeoutSeconds = defaultGenerationTimeoutSeconds
	}
}

func (c *Config) normalizeImages() {
	if c.Images.TargetWidth <= 0 {
		c.Images.TargetWidth = defaultImageTargetWidth
	}
	if c.Images.TargetHeight <= 0 {
		c.Images.TargetHeight = defaultImageTargetHeight
	}
	if c.Images.MinWidth <= 0 {
		c.Images.MinWidth = defaultImageMinWidth
	}
	if c.Images.MinHeight <= 0 {
		c.Images.MinHeight = defaultImageMinHeight
	}
	if c.Images.JPEGQuality <= 0 || c.Images.JPEGQuality > 100 {
		c.Images.JPEGQuality = defaultImageJPEGQuality
	}
	if c.Images.TimeoutSeconds <= 0 {
		c.Images.TimeoutSeconds = defaultImageTimeoutSeconds
	}
}

func (c *Config) normalizePinterest() {
	if c.Pinterest.AccessToken == "" {
		if value, ok := os.LookupEnv("PINTEREST_ACCESS_TOKEN"); ok {
			c.Pinterest.AccessToken = value
		}
	}
	if c.Pinterest.BoardID == "" {
		if value, ok := os.LookupEnv("PINTEREST_BOARD_ID"); ok {
			c.Pinterest.BoardID = strings.TrimSpace(value)
		}
	}
	c.Pinterest.BaseURL = strings.TrimSpace(c.Pinterest.BaseURL)
	if c.Pinterest.BaseURL == "" {
		c.Pinterest.BaseURL = defaultPinterestBaseURL
	}
	if c.Pinterest.TimeoutSeconds <= 0 {
		c.Pinterest.TimeoutSeconds = defaultPinterestTimeoutSeconds
	}
}

func (c *Config) normalizeCuration() {
	if c.Curation.MaxProducts <= 0 {
		c.Curation.MaxProducts = defaultMaxProducts
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
