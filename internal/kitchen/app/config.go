package app

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	Env       string `env:"ENV" envDefault:"dev"`
	Port      int    `env:"PORT" envDefault:"8080"`
	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"json"`

	// DatabaseFile is the SQLite database path.
	DatabaseFile string `env:"DATABASE_FILE" envDefault:"kitchen.db"`

	// JWTSecret signs both access and share tokens. Required; there is no
	// safe default for a signing secret.
	JWTSecret string `env:"JWT_SECRET,required"`

	// Issuer is the iss claim stamped into every token.
	Issuer string `env:"TOKEN_ISSUER" envDefault:"paper-kitchen"`

	// ClientURL is the web client origin share links are built against.
	ClientURL string `env:"CLIENT_URL" envDefault:"http://localhost:5173"`

	AccessTokenTTL       time.Duration `env:"ACCESS_TOKEN_TTL" envDefault:"168h"`
	ShareLinkRetention   time.Duration `env:"SHARE_LINK_RETENTION" envDefault:"240h"`
	HousekeepingInterval time.Duration `env:"HOUSEKEEPING_INTERVAL" envDefault:"1h"`
	ShutdownGracePeriod  time.Duration `env:"SHUTDOWN_GRACE_PERIOD" envDefault:"10s"`
}

// LoadConfig reads configuration from the environment.
func LoadConfig() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}
	return cfg, nil
}
