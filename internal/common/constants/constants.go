package constants

import "time"

const (
	UsernameMinLength  = 1
	UsernameMaxLength  = 64
	EmailMaxLength     = 254
	PasswordMinLength  = 8
	PasswordMaxLength  = 72
	JWTSecretMinLength = 32

	FolderNameMaxLength = 128
	FormNameMaxLength   = 128
	MaxFormFields       = 200

	DefaultMaxRequestSize = 1 << 20

	DefaultBcryptCost = 12

	DBPoolMaxConns        = 25
	DBPoolMinConns        = 5
	DBPoolConnMaxLifetime = time.Hour
	DBPoolConnMaxIdleTime = 30 * time.Minute
	DBPoolHealthCheck     = time.Minute
	DBPoolConnectTimeout  = 5 * time.Second
	DBPoolMaxAttempts     = 10
	DBPoolRetryDelay      = time.Second
	DBPoolMetricsInterval = 30 * time.Second

	ServerReadHeaderTimeout = 10 * time.Second
	ServerReadTimeout       = 30 * time.Second
	ServerWriteTimeout      = 30 * time.Second
	ServerIdleTimeout       = 120 * time.Second

	ShutdownTimeout = 30 * time.Second
	DrainTimeout    = 10 * time.Second

	DefaultHTTPPort         = "3000"
	DefaultTokenTTL         = 24 * time.Hour
	DefaultRequestTimeout   = 5 * time.Second
	DefaultDBQueryTimeout   = 3 * time.Second
	DefaultBreakerThreshold = 50
	DefaultBreakerReset     = 10 * time.Second

	RateLimitLoginRequestsPerSecond   = 1.0
	RateLimitLoginBurst               = 5
	RateLimitSignupRequestsPerSecond  = 0.5
	RateLimitSignupBurst              = 3
	RateLimitGeneralRequestsPerSecond = 20.0
	RateLimitGeneralBurst             = 40
	RateLimitCleanupInterval          = 5 * time.Minute

	LoggerMaxSize    = 100
	LoggerMaxBackups = 3
	LoggerMaxAge     = 28
	DefaultLogDir    = "/var/log/formbot"
)

type TraceIDKeyType string

const TraceIDKey TraceIDKeyType = "trace_id"
