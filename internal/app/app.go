// Package app wires configuration, stores, services and the HTTP server
// together and runs them until shutdown.
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/haguru/bloguser/config"
	"github.com/haguru/bloguser/internal/auth"
	"github.com/haguru/bloguser/internal/authenticator"
	"github.com/haguru/bloguser/internal/forms"
	"github.com/haguru/bloguser/internal/hasher"
	"github.com/haguru/bloguser/internal/interfaces"
	"github.com/haguru/bloguser/internal/metrics"
	"github.com/haguru/bloguser/internal/middleware"
	"github.com/haguru/bloguser/internal/routes"
	"github.com/haguru/bloguser/internal/server"
	"github.com/haguru/bloguser/internal/session"
	"github.com/haguru/bloguser/internal/userservice"
	pkgmetrics "github.com/haguru/bloguser/pkg/metrics"
	"github.com/haguru/bloguser/pkg/zerolog"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

// App represents the main application, containing server and configuration.
type App struct {
	Server  *server.Server
	Config  *config.ServiceConfig
	Logger  interfaces.Logger
	Metrics interfaces.Metrics
	Stores  *Stores
	Sweeper *Sweeper
}

// NewLogger builds the service logger from the config.
func NewLogger(cfg *config.ServiceConfig) interfaces.Logger {
	return zerolog.NewZerologLogger(cfg.ServiceName, zerolog.Options{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
	})
}

// BuildUserService assembles the account service over open stores. The
// HTTP server and the admin CLI share it.
func BuildUserService(cfg *config.ServiceConfig, stores *Stores, logger interfaces.Logger) (*userservice.UserService, *session.Issuer, error) {
	passwordHasher, err := hasher.NewBcryptHasher(cfg.Security.BcryptCost, cfg.Security.MaxConcurrentHashes)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", ErrInitializingHasher, err)
	}

	issuer, err := session.NewIssuer(stores.Sessions, cfg.Session.TTL, logger)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", ErrInitializingIssuer, err)
	}

	authn := authenticator.NewAuthenticator(stores.Users, passwordHasher, logger)
	service := userservice.NewUserService(forms.NewValidator(), authn, passwordHasher, stores.Users, issuer, logger)

	return service, issuer, nil
}

// NewApp loads the config at configPath and builds every component. Stores
// are connected here; call Run to serve.
func NewApp(ctx context.Context, configPath string) (*App, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrLoadingConfig, err)
	}

	logger := NewLogger(cfg)

	appMetrics := pkgmetrics.NewMetrics(cfg.ServiceName)
	metrics.Register(appMetrics)

	privateKey, created, err := auth.LoadOrCreateECDSAPrivateKey(cfg.PrivateKeyPath)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrInitializingKey, err)
	}
	if created {
		logger.Warn(MsgPrivateKeyGenerated, "path", cfg.PrivateKeyPath)
	}
	signer, err := auth.NewCookieSigner(privateKey)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrInitializingSigner, err)
	}

	stores, err := OpenStores(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	service, issuer, err := BuildUserService(cfg, stores, logger)
	if err != nil {
		return nil, errors.Join(err, stores.Close(ctx))
	}

	route := routes.NewRoute(appMetrics, service, signer, cfg.Cookie, logger)
	for name, check := range stores.HealthChecks() {
		route.AddHealthCheck(name, check)
	}

	srv := server.NewServer(cfg.Host, cfg.Port, logger)
	limiter := middleware.NewClientLimiter(rate.Limit(cfg.RateLimit.RequestsPerSecond), cfg.RateLimit.Burst,
		cfg.RateLimit.ClientIdleTimeout, appMetrics)
	if err := registerRoutes(srv, route, appMetrics, limiter); err != nil {
		return nil, errors.Join(err, stores.Close(ctx))
	}

	return &App{
		Server:  srv,
		Config:  cfg,
		Logger:  logger,
		Metrics: appMetrics,
		Stores:  stores,
		Sweeper: &Sweeper{
			Issuer:   issuer,
			Interval: cfg.Session.SweepInterval,
			Metrics:  appMetrics,
			Logger:   logger.With(map[string]any{"component": "sweeper"}),
		},
	}, nil
}

func registerRoutes(srv interfaces.Server, route *routes.Route, m interfaces.Metrics, limiter *middleware.ClientLimiter) error {
	metricsHandler := promhttp.HandlerFor(m.GetRegistry(), promhttp.HandlerOpts{})

	handlers := []struct {
		pattern string
		handler http.Handler
	}{
		{routes.MetricsRouteAPI, otelhttp.NewHandler(metricsHandler, routes.MetricsRouteAPI)},
		{routes.SignupRouteAPI, http.HandlerFunc(route.Signup)},
		{routes.LoginRouteAPI, middleware.RateLimitMiddleware(limiter, m)(http.HandlerFunc(route.Login))},
		{routes.LogoutRouteAPI, http.HandlerFunc(route.Logout)},
		{routes.MeRouteAPI, http.HandlerFunc(route.Me)},
		{routes.UserRouteAPI, http.HandlerFunc(route.GetUser)},
		{routes.HealthRouteAPI, http.HandlerFunc(route.Healthz)},
	}

	for _, h := range handlers {
		if err := srv.AddRoute(h.pattern, h.handler); err != nil {
			return fmt.Errorf("%s %s: %w", ErrAddingRoute, h.pattern, err)
		}
	}
	return nil
}

// Run serves HTTP and sweeps expired sessions until ctx is cancelled or the
// process receives SIGINT or SIGTERM, then shuts down within the configured
// grace period and closes the stores.
func (app *App) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	app.Logger.Info(MsgServiceReady, "service", app.Config.ServiceName)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(app.Server.ListenAndServe)
	g.Go(func() error {
		app.Sweeper.Run(gctx)
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		app.Logger.Info(MsgShutdownSignal)
		shutdownCtx, cancel := context.WithTimeout(context.Background(), app.Config.ShutdownGrace)
		defer cancel()
		return app.Server.Shutdown(shutdownCtx)
	})

	err := g.Wait()
	err = errors.Join(err, app.Close())
	app.Logger.Info(MsgAppStopped)
	return err
}

// Close releases the stores.
func (app *App) Close() error {
	app.Logger.Info(MsgClosingStores)
	ctx, cancel := context.WithTimeout(context.Background(), app.Config.ShutdownGrace)
	defer cancel()
	return app.Stores.Close(ctx)
}
