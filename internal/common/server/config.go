package server

import (
	"net/http"
	"time"

	"github.com/Deek-011/formbot/internal/common/config"
	"github.com/Deek-011/formbot/internal/common/constants"
)

type ServerConfig struct {
	Addr              string
	ReadHeaderTimeout time.Duration
	ReadTimeout       time.Duration
	WriteTimeout      time.Duration
	IdleTimeout       time.Duration
}

// NewServerConfig listens on port with the configured timeouts; a zero
// timeout falls back to the package default.
func NewServerConfig(port string, cfg config.ServerConfig) ServerConfig {
	return ServerConfig{
		Addr:              ":" + port,
		ReadHeaderTimeout: orDefault(cfg.ReadHeaderTimeout, constants.ServerReadHeaderTimeout),
		ReadTimeout:       orDefault(cfg.ReadTimeout, constants.ServerReadTimeout),
		WriteTimeout:      orDefault(cfg.WriteTimeout, constants.ServerWriteTimeout),
		IdleTimeout:       orDefault(cfg.IdleTimeout, constants.ServerIdleTimeout),
	}
}

func orDefault(d, fallback time.Duration) time.Duration {
	if d <= 0 {
		return fallback
	}
	return d
}

func NewServer(cfg ServerConfig, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              cfg.Addr,
		Handler:           handler,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		ReadTimeout:       cfg.ReadTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
	}
}
