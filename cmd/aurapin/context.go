package main

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/gofrs/flock"

	"github.com/Hali-creater/AuraPin/internal/config"
	"github.com/Hali-creater/AuraPin/internal/content"
	"github.com/Hali-creater/AuraPin/internal/curation"
	"github.com/Hali-creater/AuraPin/internal/feed"
	"github.com/Hali-creater/AuraPin/internal/images"
	"github.com/Hali-creater/AuraPin/internal/logging"
	"github.com/Hali-creater/AuraPin/internal/publish"
	"github.com/Hali-creater/AuraPin/internal/services/openai"
	"github.com/Hali-creater/AuraPin/internal/services/pinterest"
	"github.com/Hali-creater/AuraPin/internal/store"
)

type commandContext struct {
	configFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error

	loggerOnce sync.Once
	logger     *slog.Logger
	loggerErr  error
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{configFlag: configFlag}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

func (c *commandContext) ensureLogger() (*slog.Logger, error) {
	c.loggerOnce.Do(func() {
		cfg, err := c.ensureConfig()
		if err != nil {
			c.loggerErr = err
			return
		}
		logger, err := logging.New(logging.Options{
			Level:       cfg.Logging.Level,
			Format:      cfg.Logging.Format,
			OutputPaths: []string{filepath.Join(cfg.Paths.LogDir, "aurapin.log")},
		})
		if err != nil {
			c.loggerErr = err
			return
		}
		c.logger = logger
	})
	return c.logger, c.loggerErr
}

// withStore opens the database for the duration of fn.
func (c *commandContext) withStore(fn func(cfg *config.Config, st *store.Store) error) error {
	cfg, err := c.ensureConfig()
	if err != nil {
		return err
	}
	st, err := store.Open(cfg)
	if err != nil {
		return err
	}
	defer st.Close()
	return fn(cfg, st)
}

// withLockedStore additionally holds the instance lock so mutating commands
// never run concurrently against the same data directory.
func (c *commandContext) withLockedStore(fn func(cfg *config.Config, st *store.Store) error) error {
	cfg, err := c.ensureConfig()
	if err != nil {
		return err
	}

	lock := flock.New(cfg.LockPath())
	ok, err := lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return fmt.Errorf("another aurapin command holds the lock at %s", cfg.LockPath())
	}
	defer lock.Unlock()

	return c.withStore(fn)
}

func (c *commandContext) newPipeline(cfg *config.Config, st *store.Store) (*curation.Pipeline, error) {
	logger, err := c.ensureLogger()
	if err != nil {
		return nil, err
	}

	feedClient := feed.NewClient(time.Duration(cfg.Feed.TimeoutSeconds) * time.Second)
	settings := content.Settings{
		Disclaimer:   cfg.Content.Disclaimer,
		HashtagPool:  cfg.Content.HashtagPool,
		HashtagCount: cfg.Content.HashtagCount,
	}
	var generator content.Generator = content.NewTemplateGenerator(settings)
	if cfg.Generation.Enabled {
		client := openai.NewClient(openai.Config{
			APIKey:         cfg.Generation.APIKey,
			BaseURL:        cfg.Generation.BaseURL,
			Model:          cfg.Generation.Model,
			TimeoutSeconds: cfg.Generation.TimeoutSeconds,
		})
		generator = content.NewModelAssistedGenerator(settings, client, logger)
	}
	preparer := images.NewPreparer(cfg.Paths.ImagesDir, images.Options{
		TargetWidth:  cfg.Images.TargetWidth,
		TargetHeight: cfg.Images.TargetHeight,
		MinWidth:     cfg.Images.MinWidth,
		MinHeight:    cfg.Images.MinHeight,
		JPEGQuality:  cfg.Images.JPEGQuality,
	}, time.Duration(cfg.Images.TimeoutSeconds)*time.Second, logger)

	return curation.New(curation.ClientSource{Client: feedClient}, st, generator, preparer, logger), nil
}

func (c *commandContext) newPublisher(cfg *config.Config, st *store.Store) (*publish.Publisher, error) {
	logger, err := c.ensureLogger()
	if err != nil {
		return nil, err
	}
	poster := pinterest.NewClient(pinterest.Config{
		AccessToken:    cfg.Pinterest.AccessToken,
		BoardID:        cfg.Pinterest.BoardID,
		BaseURL:        cfg.Pinterest.BaseURL,
		TimeoutSeconds: cfg.Pinterest.TimeoutSeconds,
	})
	return publish.New(poster, st, cfg.SimulationMode(), logger), nil
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
