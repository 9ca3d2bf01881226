package main

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/scopeengine/core"
	"github.com/scopeengine/core/engine"
)

// manifest is the on-disk shape of <box>/<name>/component.json: enough for
// dirComponent to satisfy engine.ConsumerComponent without a real build
// toolchain. A production consumer would replace this with its own
// language-specific component loader; scopectl's job stops at the engine
// boundary (spec.md §6 "the Scope invokes them but does not implement
// them").
type manifest struct {
	Box          string   `json:"box"`
	Name         string   `json:"name"`
	MainFile     string   `json:"mainFile"`
	Dependencies []string `json:"dependencies"`
}

// dirComponent is a working-copy component backed by a directory
// <scopeRoot>/<box>/<name> containing component.json plus its source
// files.
type dirComponent struct {
	dir string
	m   manifest
}

// loadDirComponent reads and validates box/name's manifest under scopeRoot.
func loadDirComponent(scopeRoot, box, name string) (*dirComponent, error) {
	dir := filepath.Join(scopeRoot, box, name)
	raw, err := os.ReadFile(filepath.Join(dir, "component.json"))
	if err != nil {
		return nil, err
	}
	var m manifest
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, err
	}
	m.Box, m.Name = box, name
	return &dirComponent{dir: dir, m: m}, nil
}

func (c *dirComponent) Id() scope.BitId {
	return scope.BitId{Box: c.m.Box, Name: c.m.Name}
}

func (c *dirComponent) DependencyKeys() []string {
	keys := make([]string, 0, len(c.m.Dependencies))
	for _, d := range c.m.Dependencies {
		id, err := scope.ParseBitId(d)
		if err != nil {
			continue
		}
		keys = append(keys, id.Key())
	}
	return keys
}

// Build is a no-op: scopectl's dirComponent carries no build toolchain of
// its own.
func (c *dirComponent) Build(ctx context.Context, scopeRoot string) error { return nil }

// RunSpecs always passes: dirComponent has no test runner. A real
// ConsumerComponent implementation would shell out to the component's own
// tooling here.
func (c *dirComponent) RunSpecs(ctx context.Context, scopeRoot string, rejectOnFailure bool) ([]scope.SpecsResult, error) {
	return nil, nil
}

func (c *dirComponent) Pack(ctx context.Context, scopeRoot string) (engine.SourceFiles, error) {
	entries, err := os.ReadDir(c.dir)
	if err != nil {
		return engine.SourceFiles{}, err
	}

	var files []engine.WorkingFile
	for _, e := range entries {
		if e.IsDir() || e.Name() == "component.json" {
			continue
		}
		content, err := os.ReadFile(filepath.Join(c.dir, e.Name()))
		if err != nil {
			return engine.SourceFiles{}, err
		}
		files = append(files, engine.WorkingFile{Name: e.Name(), RelativePath: e.Name(), Content: content})
	}

	depIds := make([]scope.BitId, 0, len(c.m.Dependencies))
	for _, d := range c.m.Dependencies {
		id, err := scope.ParseBitId(d)
		if err != nil {
			return engine.SourceFiles{}, err
		}
		depIds = append(depIds, id)
	}

	return engine.SourceFiles{
		MainFile: c.m.MainFile,
		Files:    files,
		DepIds:   depIds,
	}, nil
}

func (c *dirComponent) Write(ctx context.Context, bitDir string, ver *scope.Version) error {
	return os.MkdirAll(bitDir, 0o777)
}
