// Package config loads, defaults, normalizes, and validates the TOML
// configuration for AuraPin. The search order is an explicit --config path,
// ~/.config/aurapin/config.toml, then ./aurapin.toml; missing files fall back
// to defaults so simulation-mode runs work with no configuration at all.
package config
