package apiclient

import "time"

// Config holds API client configuration.
type Config struct {
	// BaseURL is the business backend root, e.g. "https://api.rxware.app"
	BaseURL string `env:"RXKIT_API_URL" envDefault:"http://localhost:8080"`

	// RequestTimeout bounds every outbound request
	RequestTimeout time.Duration `env:"RXKIT_API_TIMEOUT" envDefault:"15s"`

	// UserAgent is sent with every request
	UserAgent string `env:"RXKIT_API_USER_AGENT" envDefault:"rxkit"`
}

// DefaultConfig returns default API client configuration.
func DefaultConfig() Config {
	return Config{
		BaseURL:        "http://localhost:8080",
		RequestTimeout: 15 * time.Second,
		UserAgent:      "rxkit",
	}
}
