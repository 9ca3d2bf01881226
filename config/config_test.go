package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestSaveThenLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	cfg := Default("utils")
	cfg.Remotes["origin"] = "https://scope.example.com"

	if err := Save(dir, cfg); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.Name != "utils" || got.Remotes["origin"] != "https://scope.example.com" {
		t.Fatalf("unexpected config after round trip: %+v", got)
	}
}

func TestLoadAppliesEnvOverrides(t *testing.T) {
	dir := t.TempDir()
	if err := Save(dir, Default("utils")); err != nil {
		t.Fatalf("Save: %v", err)
	}

	t.Setenv("SCOPE_NAME", "overridden")
	got, err := Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.Name != "overridden" {
		t.Fatalf("expected env override to win, got %q", got.Name)
	}
}

func TestLoadMissingFileFails(t *testing.T) {
	dir := t.TempDir()
	if _, err := Load(dir); err == nil {
		t.Fatal("expected an error loading a missing scope.json")
	}
}

func TestLoadTemplateToConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "template.yml")
	content := "name: utils\ngroupName: acme\nremotes:\n  origin: https://scope.example.com\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write template: %v", err)
	}

	tmpl, err := LoadTemplate(path)
	if err != nil {
		t.Fatalf("LoadTemplate: %v", err)
	}
	cfg := tmpl.ToConfig("0.2.0")
	if cfg.Name != "utils" || cfg.GroupName != "acme" || cfg.Version != "0.2.0" {
		t.Fatalf("unexpected config from template: %+v", cfg)
	}
	if cfg.Remotes["origin"] != "https://scope.example.com" {
		t.Fatalf("expected remote to carry over, got %+v", cfg.Remotes)
	}
}
