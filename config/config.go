package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	Port    string `env:"PORT" envDefault:"8080"`
	GinMode string `env:"GIN_MODE" envDefault:"debug"`

	MongoURI      string `env:"MONGODB_URI,required,notEmpty"`
	MongoDatabase string `env:"MONGODB_DATABASE" envDefault:"gameon"`

	JWTSecret     string        `env:"JWT_SECRET,required,notEmpty"`
	SessionMaxAge time.Duration `env:"SESSION_MAX_AGE" envDefault:"720h"`

	CORSOrigins []string `env:"CORS_ORIGINS" envSeparator:";" envDefault:"http://localhost:3000"`

	GoogleClientID     string `env:"GOOGLE_CLIENT_ID"`
	GoogleClientSecret string `env:"GOOGLE_CLIENT_SECRET"`
	GoogleRedirectURL  string `env:"GOOGLE_REDIRECT_URL" envDefault:"http://localhost:8080/api/auth/google/callback"`

	EmailHost     string `env:"EMAIL_SERVER_HOST"`
	EmailPort     int    `env:"EMAIL_SERVER_PORT" envDefault:"587"`
	EmailUser     string `env:"EMAIL_SERVER_USER"`
	EmailPassword string `env:"EMAIL_SERVER_PASSWORD"`
	EmailFrom     string `env:"EMAIL_FROM" envDefault:"\"The GameOn Co.\" <noreply@gameon.co>"`

	CloudinaryURL string `env:"CLOUDINARY_URL"`

	FeedDefaultLimit   int           `env:"FEED_DEFAULT_LIMIT" envDefault:"20"`
	FeedMaxLimit       int           `env:"FEED_MAX_LIMIT" envDefault:"100"`
	RateLimitPerMinute int           `env:"RATE_LIMIT_PER_MINUTE" envDefault:"60"`
	RequestTimeout     time.Duration `env:"REQUEST_TIMEOUT" envDefault:"10s"`
}

// Load reads an optional .env file and then parses the environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}
	return Parse()
}

// Parse builds a Config from the current environment only.
func Parse() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if cfg.FeedDefaultLimit < 1 || cfg.FeedMaxLimit < cfg.FeedDefaultLimit {
		return nil, fmt.Errorf("load config: invalid feed limits default=%d max=%d", cfg.FeedDefaultLimit, cfg.FeedMaxLimit)
	}
	if cfg.RateLimitPerMinute < 1 {
		return nil, fmt.Errorf("load config: RATE_LIMIT_PER_MINUTE must be at least 1, got %d", cfg.RateLimitPerMinute)
	}
	return &cfg, nil
}

func (c *Config) GoogleEnabled() bool {
	return c.GoogleClientID != "" && c.GoogleClientSecret != ""
}

func (c *Config) SMTPEnabled() bool {
	return c.EmailHost != ""
}
