package discovery

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/aragorn2909/media-dashboard/internal/models"
)

// ConfigFile represents the structure of the external backends file
type ConfigFile struct {
	Backends []Backend `json:"backends" yaml:"backends"`
}

// ImportConfig imports backend endpoints from a YAML or JSON file
func ImportConfig(path string) ([]Backend, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config ConfigFile

	// Determine file format from extension
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &config); err != nil {
			return nil, fmt.Errorf("failed to parse YAML config: %w", err)
		}
	case ".json":
		if err := json.Unmarshal(data, &config); err != nil {
			return nil, fmt.Errorf("failed to parse JSON config: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported file format: %s", filepath.Ext(path))
	}

	backends := make([]Backend, 0, len(config.Backends))
	for _, backend := range config.Backends {
		backend.Type = strings.ToLower(backend.Type)

		apiKey, err := expandEnv(backend.APIKey)
		if err != nil {
			return nil, err
		}
		backend.APIKey = apiKey

		password, err := expandEnv(backend.Password)
		if err != nil {
			return nil, err
		}
		backend.Password = password

		if err := Validate(backend); err != nil {
			return nil, fmt.Errorf("invalid backend %q: %w", backend.Type, err)
		}

		backends = append(backends, backend)
	}

	return backends, nil
}

// ExportConfig exports the dashboard configuration to a backends file. With
// maskSecrets set, keys and passwords are replaced by environment variable
// references.
func ExportConfig(config models.DashboardConfig, path string, maskSecrets bool) error {
	var backends []Backend

	for _, backendType := range []string{"plex", "sonarr", "radarr", "jackett", "transmission", "jellyfin", "emby"} {
		url, creds, _ := config.Backend(backendType)
		if url == "" {
			continue
		}

		backend := Backend{
			Type:     backendType,
			URL:      url,
			APIKey:   creds.APIKey,
			Username: creds.Username,
			Password: creds.Password,
		}

		if maskSecrets {
			envRef := "${MEDIADASH_" + strings.ToUpper(backendType) + "_API_KEY}"
			if backend.APIKey != "" {
				backend.APIKey = envRef
			}
			if backend.Password != "" {
				backend.Password = "${MEDIADASH_" + strings.ToUpper(backendType) + "_PASSWORD}"
			}
		}

		backends = append(backends, backend)
	}

	configFile := ConfigFile{Backends: backends}

	var data []byte
	var err error

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		data, err = yaml.Marshal(configFile)
		if err != nil {
			return fmt.Errorf("failed to generate YAML: %w", err)
		}
	case ".json":
		data, err = json.MarshalIndent(configFile, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to generate JSON: %w", err)
		}
	default:
		return fmt.Errorf("unsupported file format: %s", filepath.Ext(path))
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
