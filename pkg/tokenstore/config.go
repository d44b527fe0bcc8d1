package tokenstore

// Backend selects the durable store implementation.
type Backend string

const (
	BackendMemory Backend = "memory"
	BackendFile   Backend = "file"
	BackendRedis  Backend = "redis"
)

// Config holds token storage configuration.
type Config struct {
	// Backend selects the durable store: "memory", "file" or "redis"
	Backend Backend `env:"RXKIT_TOKEN_BACKEND" envDefault:"file"`

	// FilePath is the credential file location for the file backend
	FilePath string `env:"RXKIT_TOKEN_FILE" envDefault:".rxkit/access_token"`

	// RedisURL is the connection URL for the redis backend
	RedisURL string `env:"RXKIT_TOKEN_REDIS_URL" envDefault:"redis://localhost:6379/0"`

	// RedisKey is the durable key for the redis backend
	RedisKey string `env:"RXKIT_TOKEN_REDIS_KEY" envDefault:"rxkit:access_token"`
}

// DefaultConfig returns default token storage configuration.
func DefaultConfig() Config {
	return Config{
		Backend:  BackendFile,
		FilePath: ".rxkit/access_token",
		RedisURL: "redis://localhost:6379/0",
		RedisKey: DefaultRedisKey,
	}
}
