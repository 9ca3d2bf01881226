// Package config implements scope.json (spec.md §6): the one piece of
// engine state that is not a content-addressed object — the scope's name,
// recorded schema version, and remote table.
//
// Grounded on the teacher's configuration.Configuration: parse a file, then
// overlay a handful of environment variables on top (REGISTRY_ABC style,
// here SCOPE_ABC). Simplified from the teacher's fully generic reflect-
// walking overlay to an explicit field list — this config's surface is a
// handful of string fields, not the teacher's full HTTP/TLS/auth/storage
// tree, and reflection would only obscure a short list.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/scopeengine/core/version"
)

// FileName is scope.json's name within a scope root.
const FileName = "scope.json"

// Config is the decoded shape of scope.json.
type Config struct {
	Name         string            `json:"name"`
	GroupName    string            `json:"groupName,omitempty"`
	Version      string            `json:"version"`
	Remotes      map[string]string `json:"remotes"`
	ResolverPath string            `json:"resolverPath,omitempty"`
}

// Default returns a fresh Config for a newly initialized scope, recorded
// at the engine's current version.
func Default(name string) *Config {
	return &Config{
		Name:    name,
		Version: version.Version,
		Remotes: map[string]string{},
	}
}

// Load reads and decodes scope.json from dir, then applies any SCOPE_*
// environment overrides.
func Load(dir string) (*Config, error) {
	path := filepath.Join(dir, FileName)
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}

	cfg := &Config{}
	if err := json.Unmarshal(raw, cfg); err != nil {
		return nil, fmt.Errorf("config: decode %s: %w", path, err)
	}
	if cfg.Remotes == nil {
		cfg.Remotes = map[string]string{}
	}

	applyEnvOverrides(cfg)
	return cfg, nil
}

// Save encodes cfg and writes it to dir/scope.json.
func Save(dir string, cfg *Config) error {
	raw, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("config: encode: %w", err)
	}
	path := filepath.Join(dir, FileName)
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		return fmt.Errorf("config: write %s: %w", path, err)
	}
	return nil
}

// applyEnvOverrides overlays SCOPE_NAME, SCOPE_GROUPNAME, and
// SCOPE_RESOLVERPATH on top of a loaded Config, matching the teacher's
// Configuration.Abc -> REGISTRY_ABC naming scheme. Remotes are not
// override-able this way: a map of arbitrary remote names has no single
// env var to bind to, and scope-local remote overrides already have their
// own mechanism (remotes.Compose, spec.md §4.4.3).
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("SCOPE_NAME"); v != "" {
		cfg.Name = v
	}
	if v := os.Getenv("SCOPE_GROUPNAME"); v != "" {
		cfg.GroupName = v
	}
	if v := os.Getenv("SCOPE_RESOLVERPATH"); v != "" {
		cfg.ResolverPath = v
	}
}
