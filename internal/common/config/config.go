package config

import (
	"errors"
	"fmt"
	"net/netip"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/Deek-011/formbot/internal/common/constants"
)

var (
	ErrInvalidJWTSecret = errors.New("JWT_SECRET must be at least 32 bytes")
	ErrInvalidTokenTTL  = errors.New("TOKEN_TTL must be positive")
)

type Config struct {
	HTTPPort         string         `env:"HTTP_PORT"            envDefault:"3000"`
	DatabaseURL      string         `env:"DATABASE_URL,required,notEmpty"`
	JWTSecret        string         `env:"JWT_SECRET,required,notEmpty"`
	TokenTTL         time.Duration  `env:"TOKEN_TTL"            envDefault:"24h"`
	BcryptCost       int            `env:"BCRYPT_COST"          envDefault:"12"`
	RequestTimeout   time.Duration  `env:"REQUEST_TIMEOUT"      envDefault:"5s"`
	DBQueryTimeout   time.Duration  `env:"DB_QUERY_TIMEOUT"     envDefault:"3s"`
	BreakerThreshold int32          `env:"DB_BREAKER_THRESHOLD" envDefault:"50"`
	BreakerReset     time.Duration  `env:"DB_BREAKER_RESET"     envDefault:"10s"`
	CORSOrigins      []string       `env:"CORS_ORIGINS"         envSeparator:","`
	// TrustedProxies are CIDRs (e.g. "10.0.0.0/8") whose X-Forwarded-For is
	// believed when keying rate limits. Empty means the peer address is used.
	TrustedProxies   []netip.Prefix `env:"TRUSTED_PROXIES"      envSeparator:","`
	StaticDir        string         `env:"STATIC_DIR"`
	Server           ServerConfig
	Log              LogConfig
}

type ServerConfig struct {
	ReadHeaderTimeout time.Duration `env:"SERVER_READ_HEADER_TIMEOUT" envDefault:"10s"`
	ReadTimeout       time.Duration `env:"SERVER_READ_TIMEOUT"        envDefault:"30s"`
	WriteTimeout      time.Duration `env:"SERVER_WRITE_TIMEOUT"       envDefault:"30s"`
	IdleTimeout       time.Duration `env:"SERVER_IDLE_TIMEOUT"        envDefault:"120s"`
}

type LogConfig struct {
	Dir   string `env:"LOG_DIR"`
	Level string `env:"LOG_LEVEL" envDefault:"INFO"`
}

// MigrateConfig is the subset the migrate command needs; it does not
// require a signing secret.
type MigrateConfig struct {
	DatabaseURL string `env:"DATABASE_URL,required,notEmpty"`
	Log         LogConfig
}

func Load() (Config, error) {
	return load(env.Options{})
}

// LoadFromMap parses environ instead of the process environment.
func LoadFromMap(environ map[string]string) (Config, error) {
	return load(env.Options{Environment: environ})
}

func load(opts env.Options) (Config, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, opts); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}

	if err := validateJWTSecret(cfg.JWTSecret); err != nil {
		return Config{}, err
	}
	if cfg.TokenTTL <= 0 {
		return Config{}, fmt.Errorf("%w: got %v", ErrInvalidTokenTTL, cfg.TokenTTL)
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = constants.DefaultRequestTimeout
	}
	if cfg.DBQueryTimeout <= 0 {
		cfg.DBQueryTimeout = constants.DefaultDBQueryTimeout
	}
	if cfg.BreakerThreshold <= 0 {
		cfg.BreakerThreshold = constants.DefaultBreakerThreshold
	}

	return cfg, nil
}

func LoadMigrate() (MigrateConfig, error) {
	var cfg MigrateConfig
	if err := env.Parse(&cfg); err != nil {
		return MigrateConfig{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

func validateJWTSecret(secret string) error {
	if len(secret) < constants.JWTSecretMinLength {
		return fmt.Errorf("%w: got %d bytes", ErrInvalidJWTSecret, len(secret))
	}
	return nil
}
