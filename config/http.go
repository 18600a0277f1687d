package config

import "strings"

// HTTPConfig contains HTTP server configuration.
type HTTPConfig struct {
	// Addr is the address to bind the HTTP server to.
	Addr string `env:"HTTP_ADDR" envDefault:":3000"`

	// PathPrefix is the path the uploader is served under (the app base URL).
	PathPrefix string `env:"HTTP_PATH_PREFIX" envDefault:"/uploader"`

	// CookieDomain is the domain for cookies written by the server.
	// Leave empty to use the request domain.
	CookieDomain string `env:"APP_COOKIE_DOMAIN" envDefault:""`

	// DefaultLocale is used when a request path carries no locale prefix.
	DefaultLocale string `env:"HTTP_DEFAULT_LOCALE" envDefault:"de"`

	// PublicDir holds static files such as deploy-info.json.
	PublicDir string `env:"HTTP_PUBLIC_DIR" envDefault:"public"`

	// CompressionEnabled enables gzip compression for text-based responses.
	CompressionEnabled bool `env:"HTTP_COMPRESSION_ENABLED" envDefault:"false"`

	// CompressionLevel is the gzip compression level (1-9).
	CompressionLevel int `env:"HTTP_COMPRESSION_LEVEL" envDefault:"6"`
}

// Sanitize applies guardrails to HTTP configuration values.
func (h *HTTPConfig) Sanitize() {
	if h.CompressionLevel < 1 {
		h.CompressionLevel = 1
	}
	if h.CompressionLevel > 9 {
		h.CompressionLevel = 9
	}

	h.PathPrefix = "/" + strings.Trim(strings.TrimSpace(h.PathPrefix), "/")
	if h.PathPrefix == "/" {
		h.PathPrefix = ""
	}

	switch strings.ToLower(strings.TrimSpace(h.DefaultLocale)) {
	case "en":
		h.DefaultLocale = "en"
	default:
		h.DefaultLocale = "de"
	}
}
