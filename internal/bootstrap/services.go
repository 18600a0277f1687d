package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"github.com/orc-hfg/uploader/config"
	redisadapter "github.com/orc-hfg/uploader/internal/adapters/redis"
	"github.com/orc-hfg/uploader/internal/ports"
)

const shutdownWaitTimeout = 10 * time.Second

// ServiceOrchestrationConfig contains dependencies for running the uploader listeners.
type ServiceOrchestrationConfig struct {
	Config *config.AppConfig
	Logger *slog.Logger

	// Listeners override the configured addresses; tests pass pre-bound listeners.
	HTTPListener    net.Listener
	MetricsListener net.Listener
}

// RunServicesWithShutdown starts all enabled listeners and blocks until ctx is
// cancelled, SIGINT/SIGTERM arrives, or a listener fails.
func RunServicesWithShutdown(ctx context.Context, cfg *ServiceOrchestrationConfig) error {
	if cfg == nil || cfg.Config == nil {
		return errors.New("service orchestration config is required")
	}
	appCfg := cfg.Config
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	enabled, err := appCfg.GetEnabledServices()
	if err != nil {
		return fmt.Errorf("determine enabled services: %w", err)
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	obs := BuildObservability(logger, appCfg.Observability)
	defer func() {
		if cerr := obs.Close(); cerr != nil {
			logger.Error("close metrics sink failed", "error", cerr)
		}
	}()

	cache, redisClient, err := buildValidationCache(ctx, appCfg, logger)
	if err != nil {
		return err
	}
	if redisClient != nil {
		defer func() {
			if cerr := redisClient.Close(); cerr != nil {
				logger.Error("close redis failed", "error", cerr)
			}
		}()
	}

	var servers []namedServer
	if enabled[config.ServiceModeHTTP] {
		handler, buildErr := BuildHTTPHandler(HandlerDeps{
			Config:  appCfg,
			Cache:   cache,
			Metrics: obs,
			Logger:  logger,
		})
		if buildErr != nil {
			return fmt.Errorf("build http handler: %w", buildErr)
		}
		servers = append(servers, namedServer{
			name:     "http",
			server:   newServer(appCfg.HTTP.Addr, handler),
			listener: cfg.HTTPListener,
		})
	}
	if appCfg.IsMetricsListenerEnabled() && obs.Handler != nil {
		mux := http.NewServeMux()
		mux.Handle("GET /metrics", obs.Handler)
		servers = append(servers, namedServer{
			name:     "metrics",
			server:   newServer(appCfg.Observability.Metrics.ListenAddr, mux),
			listener: cfg.MetricsListener,
		})
	}
	if len(servers) == 0 {
		return errors.New("no listeners enabled")
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, s := range servers {
		g.Go(func() error { return s.serve(logger) })
	}
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down services...")
		return shutdownAll(servers, logger)
	})

	return g.Wait()
}

type namedServer struct {
	name     string
	server   *http.Server
	listener net.Listener
}

func (s namedServer) serve(logger *slog.Logger) error {
	var err error
	if s.listener != nil {
		logger.Info("starting "+s.name+" server", "addr", s.listener.Addr().String())
		err = s.server.Serve(s.listener)
	} else {
		logger.Info("starting "+s.name+" server", "addr", s.server.Addr)
		err = s.server.ListenAndServe()
	}
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("%s server: %w", s.name, err)
	}
	return nil
}

func shutdownAll(servers []namedServer, logger *slog.Logger) error {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownWaitTimeout)
	defer cancel()

	var errs []error
	for _, s := range servers {
		if err := s.server.Shutdown(shutdownCtx); err != nil {
			errs = append(errs, fmt.Errorf("shutdown %s server: %w", s.name, err))
			continue
		}
		logger.Info(s.name + " server stopped")
	}
	return errors.Join(errs...)
}

// buildValidationCache connects Redis only when the validation cache is enabled.
//
//nolint:ireturn // the cache is consumed through its port.
func buildValidationCache(
	ctx context.Context,
	cfg *config.AppConfig,
	logger *slog.Logger,
) (ports.ValidationCache, redis.UniversalClient, error) {
	if !cfg.ValidationCache.Enabled {
		return nil, nil, nil
	}
	client, err := ConnectRedis(ctx, cfg.Redis, logger)
	if err != nil {
		return nil, nil, fmt.Errorf("connect redis: %w", err)
	}
	logger.Info("session validation cache enabled", "ttl", cfg.ValidationCache.TTL)
	return redisadapter.NewValidationCacheWithPrefix(client, cfg.ValidationCache.Prefix), client, nil
}
