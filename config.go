package rxkit

import (
	"errors"
	"sync"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/rxware/rxkit/pkg/apiclient"
	"github.com/rxware/rxkit/pkg/identity"
	"github.com/rxware/rxkit/pkg/session"
	"github.com/rxware/rxkit/pkg/tokenstore"
)

// ErrConfig indicates the environment could not be parsed into a Config.
var ErrConfig = errors.New("rxkit.invalid_config")

// Config aggregates the configuration of every subsystem.
type Config struct {
	Identity identity.Config
	Session  session.Config
	API      apiclient.Config
	Tokens   tokenstore.Config

	// SignedOutRoute is where a forced sign-out navigates to
	SignedOutRoute string `env:"RXKIT_SIGNED_OUT_ROUTE" envDefault:"/login"`
}

// DefaultConfig returns the defaults of every subsystem.
func DefaultConfig() Config {
	return Config{
		Identity:       identity.DefaultConfig(),
		Session:        session.DefaultConfig(),
		API:            apiclient.DefaultConfig(),
		Tokens:         tokenstore.DefaultConfig(),
		SignedOutRoute: "/login",
	}
}

var dotenvOnce sync.Once

// LoadConfig populates a Config from environment variables. A .env file in
// the working directory is loaded once per process when present; a missing
// file is not an error.
func LoadConfig() (Config, error) {
	dotenvOnce.Do(func() {
		_ = godotenv.Load()
	})

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, errors.Join(ErrConfig, err)
	}
	return cfg, nil
}
