package config

import (
	"errors"
	"fmt"
	"strings"
)

// ServiceMode represents the listeners the uploader process can run.
type ServiceMode string

const (
	// ServiceModeHTTP runs the uploader HTTP server (pages, guard, health, mocks).
	ServiceModeHTTP ServiceMode = "http"
	// ServiceModeMetrics runs a dedicated Prometheus scrape listener.
	ServiceModeMetrics ServiceMode = "metrics"
)

// ValidServiceModes returns all valid service mode names.
func ValidServiceModes() []ServiceMode {
	return []ServiceMode{
		ServiceModeHTTP,
		ServiceModeMetrics,
	}
}

// ParseServices parses a comma-delimited string of service names and returns the enabled services.
// It validates that all service names are valid and returns an error if any are invalid.
func ParseServices(servicesStr string) (map[ServiceMode]bool, error) {
	services := make(map[ServiceMode]bool)

	if servicesStr == "" {
		return services, errors.New("at least one service must be specified")
	}

	for _, part := range strings.Split(servicesStr, ",") {
		serviceName := strings.TrimSpace(part)
		if serviceName == "" {
			continue
		}

		mode := ServiceMode(serviceName)
		switch mode {
		case ServiceModeHTTP, ServiceModeMetrics:
			services[mode] = true
		default:
			return nil, fmt.Errorf("invalid service name: %q (valid options: http, metrics)", serviceName)
		}
	}

	if len(services) == 0 {
		return nil, errors.New("at least one valid service must be specified")
	}

	return services, nil
}
