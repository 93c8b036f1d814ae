package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v2"
)

// ModelEntry describes one provider/model pairing from models.yaml.
type ModelEntry struct {
	Provider    string  `yaml:"provider"`
	Model       string  `yaml:"model"`
	Temperature float64 `yaml:"temperature"`
}

// ModelManifest is the parsed models.yaml. Roles map logical names
// ("completion", "embedding") to concrete provider entries so deployments can
// repoint models without a rebuild.
type ModelManifest struct {
	Roles map[string]ModelEntry `yaml:"roles"`
}

// LoadModelManifest parses a models.yaml file. Returns nil without error if
// the file does not exist; environment settings then stand alone.
func LoadModelManifest(path string) (*ModelManifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read model manifest %s: %w", path, err)
	}

	var manifest ModelManifest
	if err := yaml.Unmarshal(data, &manifest); err != nil {
		return nil, fmt.Errorf("failed to parse model manifest %s: %w", path, err)
	}
	return &manifest, nil
}

// Apply overlays manifest entries onto settings. Manifest values win over
// environment defaults but only for fields the manifest actually sets.
func (m *ModelManifest) Apply(s *Settings) {
	if m == nil {
		return
	}
	if entry, ok := m.Roles["completion"]; ok {
		if entry.Provider != "" {
			s.Provider = entry.Provider
		}
		if entry.Model != "" {
			s.Model = entry.Model
		}
		if entry.Temperature > 0 {
			s.Temperature = entry.Temperature
		}
	}
	if entry, ok := m.Roles["embedding"]; ok {
		if entry.Model != "" {
			s.EmbeddingModel = entry.Model
		}
	}
}
