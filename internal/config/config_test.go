package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Hali-creater/AuraPin/internal/config"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{"AWIN_FEED_URL", "OPENAI_API_KEY", "PINTEREST_ACCESS_TOKEN", "PINTEREST_BOARD_ID"} {
		t.Setenv(key, "")
	}
}

func writeConfig(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "missing.toml")
	cfg, resolved, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if exists {
		t.Fatal("expected missing config file")
	}
	if resolved != path {
		t.Fatalf("expected resolved path %s, got %s", path, resolved)
	}
	if cfg.Curation.MaxProducts != 5 {
		t.Fatalf("unexpected default max products: %d", cfg.Curation.MaxProducts)
	}
	if cfg.Images.TargetWidth != 1000 || cfg.Images.TargetHeight != 1500 {
		t.Fatalf("unexpected default image target: %dx%d", cfg.Images.TargetWidth, cfg.Images.TargetHeight)
	}
	if !cfg.SimulationMode() {
		t.Fatal("expected simulation mode without pinterest credentials")
	}
}

func TestLoadParsesFileAndNormalizesHashtags(t *testing.T) {
	clearEnv(t)

	path := writeConfig(t, `
[feed]
url = "https://feeds.example.com/products.csv"

[content]
hashtag_pool = ["#HomeDecor", " #Style ", ""]
hashtag_count = 2

[curation]
max_products = 7
`)

	cfg, _, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if !exists {
		t.Fatal("expected config file to be found")
	}
	if cfg.Curation.MaxProducts != 7 {
		t.Fatalf("expected max_products 7, got %d", cfg.Curation.MaxProducts)
	}
	if len(cfg.Content.HashtagPool) != 2 {
		t.Fatalf("expected empty entries dropped, got %v", cfg.Content.HashtagPool)
	}
	for _, tag := range cfg.Content.HashtagPool {
		if strings.HasPrefix(tag, "#") || tag != strings.TrimSpace(tag) {
			t.Fatalf("expected normalized tag, got %q", tag)
		}
	}
}

func TestEnvironmentFallbacks(t *testing.T) {
	clearEnv(t)
	t.Setenv("AWIN_FEED_URL", "https://feeds.example.com/env.csv")
	t.Setenv("PINTEREST_ACCESS_TOKEN", "env-token")
	t.Setenv("PINTEREST_BOARD_ID", "env-board")

	cfg, _, _, err := config.Load(filepath.Join(t.TempDir(), "missing.toml"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Feed.URL != "https://feeds.example.com/env.csv" {
		t.Fatalf("expected env feed url, got %q", cfg.Feed.URL)
	}
	if cfg.SimulationMode() {
		t.Fatal("expected real posting mode with env credentials")
	}
}

func TestValidateRejectsNonPinAspectRatio(t *testing.T) {
	clearEnv(t)

	path := writeConfig(t, `
[images]
target_width = 1000
target_height = 1400
`)
	if _, _, _, err := config.Load(path); err == nil {
		t.Fatal("expected aspect ratio validation error")
	}
}

func TestValidateRequiresAPIKeyWhenGenerationEnabled(t *testing.T) {
	clearEnv(t)

	path := writeConfig(t, `
[generation]
enabled = true
`)
	if _, _, _, err := config.Load(path); err == nil {
		t.Fatal("expected missing api key error")
	}
}

func TestValidateRejectsBadFeedURL(t *testing.T) {
	clearEnv(t)

	path := writeConfig(t, `
[feed]
url = "not a url"
`)
	if _, _, _, err := config.Load(path); err == nil {
		t.Fatal("expected feed url validation error")
	}
}

func TestSimulateFlagForcesSimulation(t *testing.T) {
	clearEnv(t)

	path := writeConfig(t, `
[pinterest]
access_token = "token"
board_id = "board"
simulate = true
`)
	cfg, _, _, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if !cfg.SimulationMode() {
		t.Fatal("simulate flag must force simulation even with credentials")
	}
}
