package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v2"
)

// Template is the bootstrap document `scopectl init --template` reads: a
// smaller, human-authored yaml shape that Load turns into a Config, the
// same role the teacher's yaml-tagged Configuration struct plays for a
// hand-written registry config file. scope.json itself stays plain JSON
// per spec.md §6; yaml is only this one entry point's input format.
type Template struct {
	Name      string            `yaml:"name"`
	GroupName string            `yaml:"groupName,omitempty"`
	Remotes   map[string]string `yaml:"remotes,omitempty"`
}

// LoadTemplate decodes a yaml bootstrap file at path.
func LoadTemplate(path string) (*Template, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read template %s: %w", path, err)
	}
	var t Template
	if err := yaml.Unmarshal(raw, &t); err != nil {
		return nil, fmt.Errorf("config: decode template %s: %w", path, err)
	}
	return &t, nil
}

// ToConfig turns a Template into a fresh Config at the engine's current
// version, ready for Save.
func (t *Template) ToConfig(currentVersion string) *Config {
	remotes := t.Remotes
	if remotes == nil {
		remotes = map[string]string{}
	}
	return &Config{
		Name:      t.Name,
		GroupName: t.GroupName,
		Version:   currentVersion,
		Remotes:   remotes,
	}
}
