package manifest

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"gopkg.in/yaml.v3"
)

// Entry is a per-file registry merged into the module aggregate.
type Entry struct {
	Source   string `yaml:"source" json:"source"`
	Registry string `yaml:"registry" json:"registry"`
}

// Manifest records what the last module pass merged and produced.
type Manifest struct {
	Module          string   `yaml:"module" json:"module"`
	FormatVersion   string   `yaml:"format_version" json:"format_version"`
	PreviousVersion string   `yaml:"previous_version,omitempty" json:"previous_version,omitempty"`
	Aggregate       string   `yaml:"aggregate" json:"aggregate"`
	Generated       []string `yaml:"generated,omitempty" json:"generated,omitempty"`
	Files           []Entry  `yaml:"files" json:"files"`
	Stale           []string `yaml:"stale,omitempty" json:"stale,omitempty"`
}

// Load reads a manifest from the provided path. If the file does not exist,
// an empty manifest is returned.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return &Manifest{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}

	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("unmarshal manifest: %w", err)
	}

	return &m, nil
}

// Save writes the manifest to the provided path, creating parent directories as needed.
func (m *Manifest) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create manifest directory: %w", err)
	}

	data, err := yaml.Marshal(m)
	if err != nil {
		return fmt.Errorf("marshal manifest: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write manifest: %w", err)
	}

	return nil
}

// SetVersion records the registry format version, remembering the one it
// replaces.
func (m *Manifest) SetVersion(v string) {
	if m.FormatVersion != "" && m.FormatVersion != v {
		m.PreviousVersion = m.FormatVersion
	}
	m.FormatVersion = v
}

// AddFile records a merged registry, replacing an existing entry for the
// same registry path. Entries stay sorted by registry path.
func (m *Manifest) AddFile(e Entry) {
	i, found := slices.BinarySearchFunc(m.Files, e.Registry, func(a Entry, reg string) int {
		switch {
		case a.Registry < reg:
			return -1
		case a.Registry > reg:
			return 1
		}
		return 0
	})
	if found {
		m.Files[i] = e
		return
	}
	m.Files = slices.Insert(m.Files, i, e)
}

// Retain drops entries whose registry is not listed.
func (m *Manifest) Retain(registries []string) {
	keep := make(map[string]bool, len(registries))
	for _, r := range registries {
		keep[r] = true
	}
	m.Files = slices.DeleteFunc(m.Files, func(e Entry) bool { return !keep[e.Registry] })
}

// RegistryFile returns the registry recorded for source, if present.
func (m *Manifest) RegistryFile(source string) string {
	for _, e := range m.Files {
		if e.Source == source {
			return e.Registry
		}
	}
	return ""
}
