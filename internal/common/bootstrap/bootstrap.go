package bootstrap

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Deek-011/formbot/internal/auth/token"
	"github.com/Deek-011/formbot/internal/common/clock"
	"github.com/Deek-011/formbot/internal/common/config"
	commoncrypto "github.com/Deek-011/formbot/internal/common/crypto"
	"github.com/Deek-011/formbot/internal/common/db"
	commonhttp "github.com/Deek-011/formbot/internal/common/http"
	"github.com/Deek-011/formbot/internal/common/httpmetrics"
	"github.com/Deek-011/formbot/internal/common/jwtverify"
	"github.com/Deek-011/formbot/internal/common/logger"
	"github.com/Deek-011/formbot/internal/common/resilience"
	folderhttp "github.com/Deek-011/formbot/internal/folder/http"
	folderrepo "github.com/Deek-011/formbot/internal/folder/repository"
	folderservice "github.com/Deek-011/formbot/internal/folder/service"
	formhttp "github.com/Deek-011/formbot/internal/form/http"
	formrepo "github.com/Deek-011/formbot/internal/form/repository"
	formservice "github.com/Deek-011/formbot/internal/form/service"
	userhttp "github.com/Deek-011/formbot/internal/user/http"
	userrepo "github.com/Deek-011/formbot/internal/user/repository"
	userservice "github.com/Deek-011/formbot/internal/user/service"
)

const (
	ServiceName = "formbot"
	APIPrefix   = "/api/v1"
)

// Stores groups the persistence the HTTP API runs on. Pinger may be nil.
type Stores struct {
	Users   userrepo.Repository
	Folders folderrepo.Repository
	Forms   formrepo.Repository
	Pinger  commonhttp.Pinger
}

type App struct {
	Config      config.Config
	Log         *logger.Logger
	Pool        *pgxpool.Pool
	Handler     http.Handler
	RateLimiter *commonhttp.PathRateLimiter
}

// New connects to Postgres and assembles the full handler chain.
func New(ctx context.Context, cfg config.Config, log *logger.Logger) (*App, error) {
	pool, err := db.NewPool(ctx, log, cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database pool: %w", err)
	}

	stores := Stores{
		Users:   userrepo.NewPgRepository(pool),
		Folders: folderrepo.NewPgRepository(pool),
		Forms:   formrepo.NewPgRepository(pool),
		Pinger:  pool,
	}

	handler, limiter := NewHandler(cfg, log, stores, clock.NewRealClock())

	return &App{
		Config:      cfg,
		Log:         log,
		Pool:        pool,
		Handler:     handler,
		RateLimiter: limiter,
	}, nil
}

func (a *App) Close() {
	if a.Pool != nil {
		a.Pool.Close()
	}
}

// NewHandler wires services and routes over stores. The returned limiter
// must be swept by the caller for the lifetime of the handler.
func NewHandler(cfg config.Config, log *logger.Logger, stores Stores, clk clock.Clock) (http.Handler, *commonhttp.PathRateLimiter) {
	tokens := token.NewManager(cfg.JWTSecret, cfg.TokenTTL, clk)
	hasher := commoncrypto.NewBcryptHasher(cfg.BcryptCost)
	ids := commoncrypto.NewUUIDGenerator()

	breaker := resilience.NewCircuitBreaker(resilience.CircuitBreakerConfig{
		Threshold:  cfg.BreakerThreshold,
		Timeout:    cfg.DBQueryTimeout,
		ResetAfter: cfg.BreakerReset,
		Name:       "postgres",
		Logger:     log,
	})

	users := userservice.NewService(stores.Users, hasher, tokens, ids, breaker, clk, log)
	folders := folderservice.NewService(stores.Folders, ids, breaker, clk, log)
	forms := formservice.NewService(stores.Forms, stores.Folders, ids, breaker, clk, log)

	auth := jwtverify.Middleware(tokens, log)

	limiter := commonhttp.NewPathRateLimiter(APIPrefix, cfg.TrustedProxies)

	router := mux.NewRouter()
	router.Use(httpmetrics.Middleware, limiter.Middleware)
	setFallbackHandlers(router)

	api := router.PathPrefix(APIPrefix).Subrouter()
	setFallbackHandlers(api)
	userhttp.NewHandler(users, log, cfg.RequestTimeout).Register(api, auth)
	folderhttp.NewHandler(folders, log, cfg.RequestTimeout).Register(api, auth)
	formhttp.NewHandler(forms, log, cfg.RequestTimeout).Register(api, auth)

	router.HandleFunc("/health", commonhttp.HealthHandler(stores.Pinger, log))
	router.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	if cfg.StaticDir != "" {
		router.PathPrefix("/").Handler(http.FileServer(http.Dir(cfg.StaticDir))).Methods(http.MethodGet, http.MethodHead)
	} else {
		router.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
			commonhttp.WriteMessage(w, http.StatusOK, "API is working!")
		}).Methods(http.MethodGet)
	}

	return commonhttp.BuildBaseHandler(log, router, cfg.CORSOrigins), limiter
}

// setFallbackHandlers must be applied to every subrouter too: mux answers a
// method mismatch inside a subrouter with 404 unless the subrouter has its
// own MethodNotAllowedHandler.
func setFallbackHandlers(r *mux.Router) {
	r.NotFoundHandler = httpmetrics.Unmatched(http.HandlerFunc(notFound))
	r.MethodNotAllowedHandler = httpmetrics.Unmatched(http.HandlerFunc(methodNotAllowed))
}

func notFound(w http.ResponseWriter, r *http.Request) {
	commonhttp.WriteError(w, http.StatusNotFound, commonhttp.CodeNotFound, "not found")
}

func methodNotAllowed(w http.ResponseWriter, r *http.Request) {
	commonhttp.WriteError(w, http.StatusMethodNotAllowed, commonhttp.CodeMethodNotAllowed, "method not allowed")
}
