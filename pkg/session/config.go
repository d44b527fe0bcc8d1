package session

import "time"

// Config holds session manager configuration.
type Config struct {
	// LoadingTimeout forces Loading to signed-out when no trigger has
	// resolved in time, so the UI never hangs on a spinner
	LoadingTimeout time.Duration `env:"RXKIT_SESSION_LOADING_TIMEOUT" envDefault:"5s"`

	// ReprobeDelay is how long after start the defensive re-probe fires
	ReprobeDelay time.Duration `env:"RXKIT_SESSION_REPROBE_DELAY" envDefault:"1s"`

	// SubscriberBuffer is the channel buffer for each state subscriber
	SubscriberBuffer int `env:"RXKIT_SESSION_SUBSCRIBER_BUFFER" envDefault:"8"`
}

// DefaultConfig returns default session manager configuration.
func DefaultConfig() Config {
	return Config{
		LoadingTimeout:   5 * time.Second,
		ReprobeDelay:     time.Second,
		SubscriberBuffer: 8,
	}
}
