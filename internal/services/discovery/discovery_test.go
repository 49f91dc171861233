package discovery

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aragorn2909/media-dashboard/internal/models"
)

func TestParseLabels(t *testing.T) {
	t.Run("complete backend", func(t *testing.T) {
		backend, err := parseLabels(map[string]string{
			GetLabelKey(labelTypeKey):   "sonarr",
			GetLabelKey(labelURLKey):    "http://sonarr:8989",
			GetLabelKey(labelAPIKeyKey): "abc123",
		})
		if err != nil {
			t.Fatalf("parseLabels failed: %v", err)
		}
		if backend.Type != "sonarr" || backend.URL != "http://sonarr:8989" || backend.APIKey != "abc123" {
			t.Errorf("Unexpected backend: %+v", backend)
		}
	})

	t.Run("disabled backend", func(t *testing.T) {
		backend, err := parseLabels(map[string]string{
			GetLabelKey(labelTypeKey):    "sonarr",
			GetLabelKey(labelURLKey):     "http://sonarr:8989",
			GetLabelKey(labelEnabledKey): "false",
		})
		if err != nil {
			t.Fatalf("parseLabels failed: %v", err)
		}
		if backend != nil {
			t.Errorf("Expected nil for disabled backend, got %+v", backend)
		}
	})

	t.Run("missing url", func(t *testing.T) {
		_, err := parseLabels(map[string]string{
			GetLabelKey(labelTypeKey): "sonarr",
		})
		if err == nil {
			t.Error("Expected error for missing URL")
		}
	})

	t.Run("unknown type", func(t *testing.T) {
		_, err := parseLabels(map[string]string{
			GetLabelKey(labelTypeKey): "widget",
			GetLabelKey(labelURLKey):  "http://widget:1234",
		})
		if err == nil {
			t.Error("Expected error for unknown backend type")
		}
	})

	t.Run("env substitution", func(t *testing.T) {
		t.Setenv("TEST_SONARR_KEY", "secret-from-env")

		backend, err := parseLabels(map[string]string{
			GetLabelKey(labelTypeKey):   "sonarr",
			GetLabelKey(labelURLKey):    "http://sonarr:8989",
			GetLabelKey(labelAPIKeyKey): "${TEST_SONARR_KEY}",
		})
		if err != nil {
			t.Fatalf("parseLabels failed: %v", err)
		}
		if backend.APIKey != "secret-from-env" {
			t.Errorf("Expected resolved env value, got %q", backend.APIKey)
		}
	})
}

func TestApply(t *testing.T) {
	var config models.DashboardConfig

	Apply(&config, []Backend{
		{Type: "sonarr", URL: "http://sonarr:8989", APIKey: "s-key"},
		{Type: "transmission", URL: "http://transmission:9091", Username: "admin", Password: "pass"},
	})

	if config.SonarrURL != "http://sonarr:8989" || config.SonarrKey != "s-key" {
		t.Errorf("Sonarr not applied: %+v", config)
	}
	if config.TransmissionURL != "http://transmission:9091" ||
		config.TransmissionUser != "admin" || config.TransmissionPass != "pass" {
		t.Errorf("Transmission not applied: %+v", config)
	}
	if config.PlexURL != "" {
		t.Errorf("Plex should remain unset, got %q", config.PlexURL)
	}
}

func TestConfigFileRoundTrip(t *testing.T) {
	config := models.DashboardConfig{
		SonarrURL:        "http://sonarr:8989",
		SonarrKey:        "s-key",
		TransmissionURL:  "http://transmission:9091",
		TransmissionUser: "admin",
		TransmissionPass: "pass",
	}

	path := filepath.Join(t.TempDir(), "backends.yaml")
	if err := ExportConfig(config, path, false); err != nil {
		t.Fatalf("ExportConfig failed: %v", err)
	}

	backends, err := ImportConfig(path)
	if err != nil {
		t.Fatalf("ImportConfig failed: %v", err)
	}

	var restored models.DashboardConfig
	Apply(&restored, backends)

	if restored != config {
		t.Errorf("Round trip mismatch:\ngot  %+v\nwant %+v", restored, config)
	}
}

func TestExportMasksSecrets(t *testing.T) {
	config := models.DashboardConfig{
		SonarrURL: "http://sonarr:8989",
		SonarrKey: "s-key",
	}

	path := filepath.Join(t.TempDir(), "backends.yaml")
	if err := ExportConfig(config, path, true); err != nil {
		t.Fatalf("ExportConfig failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read exported file: %v", err)
	}

	content := string(data)
	if !strings.Contains(content, "${MEDIADASH_SONARR_API_KEY}") {
		t.Errorf("Expected masked API key in export:\n%s", content)
	}
	if strings.Contains(content, "s-key") {
		t.Errorf("Secret leaked into masked export:\n%s", content)
	}
}
