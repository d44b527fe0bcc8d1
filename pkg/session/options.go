package session

import (
	"log/slog"
	"time"
)

// Option is a functional option for configuring the Manager.
type Option func(*Manager)

// WithConfig sets custom configuration.
func WithConfig(config Config) Option {
	return func(m *Manager) {
		m.config = config
	}
}

// WithLogger sets the logger for the manager.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// WithLoadingTimeout sets the bound on how long the state may stay Loading.
func WithLoadingTimeout(d time.Duration) Option {
	return func(m *Manager) {
		m.config.LoadingTimeout = d
	}
}

// WithReprobeDelay sets when the defensive re-probe fires after Start.
func WithReprobeDelay(d time.Duration) Option {
	return func(m *Manager) {
		m.config.ReprobeDelay = d
	}
}

// WithLoginHook registers a function invoked after every successful sign-in,
// including a sign-up that auto-logged in. Used to re-arm the
// authentication-failure latch.
func WithLoginHook(fn func()) Option {
	return func(m *Manager) {
		if fn != nil {
			m.loginHooks = append(m.loginHooks, fn)
		}
	}
}
