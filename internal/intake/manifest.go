// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package intake

import (
	"fmt"
	"os"
	"path/filepath"

	"go.yaml.in/yaml/v3"
)

// Manifest is an ordered list of inputs saved to YAML so a merge can be
// replayed. Relative paths are resolved against the manifest's directory.
type Manifest struct {
	// Prefix optionally overrides the output filename prefix.
	Prefix string `yaml:"prefix,omitempty"`

	// Files lists input paths in merge order.
	Files []string `yaml:"files"`
}

// LoadManifest reads a manifest file and returns it with every path made
// absolute or relative to the working directory.
func LoadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading manifest: %w", err)
	}

	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parsing manifest %s: %w", path, err)
	}
	if len(m.Files) == 0 {
		return nil, fmt.Errorf("manifest %s lists no files", path)
	}

	base := filepath.Dir(path)
	for i, f := range m.Files {
		if !filepath.IsAbs(f) {
			m.Files[i] = filepath.Join(base, f)
		}
	}
	return &m, nil
}

// WriteManifest saves m to path.
func WriteManifest(m *Manifest, path string) error {
	data, err := yaml.Marshal(m)
	if err != nil {
		return fmt.Errorf("marshaling manifest: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}
