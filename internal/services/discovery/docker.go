package discovery

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/api/types/filters"
	"github.com/docker/docker/client"
	"github.com/rs/zerolog/log"
)

// DockerDiscovery handles backend discovery from Docker labels
type DockerDiscovery struct {
	client *client.Client
}

// NewDockerDiscovery creates a new Docker discovery instance
func NewDockerDiscovery() (*DockerDiscovery, error) {
	cli, err := client.NewClientWithOpts(client.FromEnv)
	if err != nil {
		return nil, fmt.Errorf("failed to create Docker client: %w", err)
	}

	return &DockerDiscovery{
		client: cli,
	}, nil
}

// DiscoverBackends finds backends configured via Docker labels
func (d *DockerDiscovery) DiscoverBackends(ctx context.Context) ([]Backend, error) {
	f := filters.NewArgs()
	f.Add("label", GetLabelKey(labelTypeKey))

	containers, err := d.client.ContainerList(ctx, container.ListOptions{
		All:     false,
		Filters: f,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list containers: %w", err)
	}

	var backends []Backend

	for _, container := range containers {
		backend, err := parseLabels(container.Labels)
		if err != nil {
			log.Warn().Err(err).Str("container", container.ID[:12]).Msg("Failed to parse container labels")
			continue
		}
		if backend != nil {
			backends = append(backends, *backend)
		}
	}

	return backends, nil
}

// parseLabels extracts a backend from discovery labels. A nil backend with a
// nil error means the backend is explicitly disabled.
func parseLabels(labels map[string]string) (*Backend, error) {
	backendType := strings.ToLower(labels[GetLabelKey(labelTypeKey)])
	if backendType == "" {
		return nil, fmt.Errorf("backend type label not found")
	}

	url := labels[GetLabelKey(labelURLKey)]
	if url == "" {
		return nil, fmt.Errorf("backend URL label not found")
	}

	apiKey, err := expandEnv(labels[GetLabelKey(labelAPIKeyKey)])
	if err != nil {
		return nil, err
	}
	password, err := expandEnv(labels[GetLabelKey(labelPasswordKey)])
	if err != nil {
		return nil, err
	}

	if enabled := labels[GetLabelKey(labelEnabledKey)]; enabled == "false" {
		return nil, nil
	}

	backend := &Backend{
		Type:     backendType,
		URL:      url,
		APIKey:   apiKey,
		Username: labels[GetLabelKey(labelUserKey)],
		Password: password,
	}

	if err := Validate(*backend); err != nil {
		return nil, err
	}

	return backend, nil
}

// expandEnv resolves ${VAR} references so secrets never sit in labels.
func expandEnv(value string) (string, error) {
	if strings.HasPrefix(value, "${") && strings.HasSuffix(value, "}") {
		envVar := strings.TrimSuffix(strings.TrimPrefix(value, "${"), "}")
		resolved := os.Getenv(envVar)
		if resolved == "" {
			return "", fmt.Errorf("environment variable %s not set", envVar)
		}
		return resolved, nil
	}
	return value, nil
}

// Close closes the Docker client connection
func (d *DockerDiscovery) Close() error {
	if d.client != nil {
		return d.client.Close()
	}
	return nil
}
