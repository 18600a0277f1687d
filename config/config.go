package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
)

// AppConfig is the main application configuration struct that composes
// domain-specific configuration from separate files.
//
// Configuration is loaded from environment variables using the
// github.com/caarlos0/env library. See individual domain config
// files for details on available environment variables:
//   - authentication.go: Madek authentication endpoints, cookies, mock
//   - cache.go: Redis and the optional validation cache
//   - http.go: HTTP server configuration
//   - observability.go: metrics
//   - services.go: which listeners to run
type AppConfig struct {
	// IsDev controls development mode behavior.
	// Set DEV=true or NODE_ENV=development for development mode.
	IsDev bool `env:"DEV" envDefault:"false"`

	// IsCI is set by CI runners; it enables the authentication mock like the dev mode does.
	IsCI bool `env:"CI" envDefault:"false"`

	Authentication AuthenticationConfig
	Mock           MockConfig

	HTTP HTTPConfig

	Redis           RedisConfig `envPrefix:"REDIS_"`
	ValidationCache ValidationCacheConfig

	// Services is a comma-separated list of listeners to run.
	Services string `env:"SERVICES" envDefault:"http"`

	Observability ObservabilityConfig
}

// Sanitize applies guardrails to configuration values loaded from env.
// This should be called after loading configuration from environment variables.
func (c *AppConfig) Sanitize() {
	c.HTTP.Sanitize()
	c.Authentication.Sanitize()
	c.Mock.Sanitize()
	c.ValidationCache.Sanitize()
	c.Observability.Sanitize()

	c.detectDevMode()

	// The mock is always on for dev and CI; the user-info mock follows the sign-in mock there.
	if c.IsDev || c.IsCI {
		c.Mock.AuthenticationEnabled = true
		c.Mock.AuthenticationInfoEnabled = true
	}
}

// Validate checks required values after Sanitize.
func (c *AppConfig) Validate() error {
	var errs []error
	if err := c.Authentication.Validate(); err != nil {
		errs = append(errs, err)
	}
	if _, err := c.GetEnabledServices(); err != nil {
		errs = append(errs, fmt.Errorf("invalid service configuration: %w", err))
	}
	if c.Mock.AuthenticationEnabled && (c.Mock.User.Login == "" || c.Mock.User.ID == "") {
		errs = append(errs, errors.New("MOCK_USER_LOGIN and MOCK_USER_ID are required when the authentication mock is enabled"))
	}
	return errors.Join(errs...)
}

// detectDevMode checks both DEV and NODE_ENV environment variables.
// NODE_ENV is checked as a fallback (common in frontend tooling).
func (c *AppConfig) detectDevMode() {
	if !c.IsDev {
		nodeEnv := strings.ToLower(os.Getenv("NODE_ENV"))
		c.IsDev = nodeEnv == "development" || nodeEnv == "dev"
	}
}

// GetEnabledServices returns the enabled services based on the Services field.
func (c *AppConfig) GetEnabledServices() (map[ServiceMode]bool, error) {
	return ParseServices(c.Services)
}

// IsHTTPServerEnabled returns true if the HTTP server service is enabled.
func (c *AppConfig) IsHTTPServerEnabled() bool {
	services, err := c.GetEnabledServices()
	if err != nil {
		return false
	}
	return services[ServiceModeHTTP]
}

// IsMetricsListenerEnabled returns true if the dedicated metrics listener should run.
func (c *AppConfig) IsMetricsListenerEnabled() bool {
	services, err := c.GetEnabledServices()
	if err != nil {
		return false
	}
	return services[ServiceModeMetrics] &&
		c.Observability.Metrics.IsEnabled() &&
		c.Observability.Metrics.Backend == MetricsBackendPrometheus
}
