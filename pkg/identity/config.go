package identity

import "time"

// Config holds identity backend configuration.
type Config struct {
	// BaseURL is the identity backend root, e.g. "https://id.rxware.app"
	BaseURL string `env:"RXKIT_IDENTITY_URL" envDefault:"http://localhost:9999"`

	// RequestTimeout bounds every individual call to the backend
	RequestTimeout time.Duration `env:"RXKIT_IDENTITY_TIMEOUT" envDefault:"10s"`

	// WatchInterval is how often the change feed re-probes the backend
	WatchInterval time.Duration `env:"RXKIT_IDENTITY_WATCH_INTERVAL" envDefault:"30s"`

	// SubscriberBuffer is the channel buffer for each change-feed subscriber
	SubscriberBuffer int `env:"RXKIT_IDENTITY_SUBSCRIBER_BUFFER" envDefault:"8"`
}

// DefaultConfig returns default identity backend configuration.
func DefaultConfig() Config {
	return Config{
		BaseURL:          "http://localhost:9999",
		RequestTimeout:   10 * time.Second,
		WatchInterval:    30 * time.Second,
		SubscriberBuffer: 8,
	}
}
