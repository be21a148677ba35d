package testsupport

import (
	"path/filepath"
	"testing"

	"github.com/Hali-creater/AuraPin/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.DataDir = filepath.Join(base, "data")
	cfgVal.Paths.ImagesDir = filepath.Join(base, "images")
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")
	cfgVal.Feed.URL = "https://feeds.example.com/products.csv"
	cfgVal.Pinterest.Simulate = true

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	if err := builder.cfg.EnsureDirectories(); err != nil {
		t.Fatalf("ensure config directories: %v", err)
	}

	return builder.cfg
}

// WithFeedURL overrides the feed endpoint on the test config.
func WithFeedURL(url string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Feed.URL = url
	}
}

// WithPinterestCredentials sets real-looking posting credentials and turns
// simulation off.
func WithPinterestCredentials(token, boardID string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Pinterest.AccessToken = token
		b.cfg.Pinterest.BoardID = boardID
		b.cfg.Pinterest.Simulate = false
	}
}

// WithHashtagPool replaces the configured hashtag pool.
func WithHashtagPool(tags ...string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Content.HashtagPool = tags
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.DataDir)
}
