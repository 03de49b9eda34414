package app

import (
	"context"
	"errors"
	"fmt"
	stdhttp "net/http"
	"os"
	"os/signal"
	"syscall"

	"erp-portal/internal/audit"
	"erp-portal/internal/config"
	"erp-portal/internal/grants"
	portalhttp "erp-portal/internal/http"
	"erp-portal/internal/infra/cache"
	"erp-portal/internal/infra/postgres"
	"erp-portal/internal/remote"
	"erp-portal/pkg/metrics"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	serverAddrPrefix = ":"
	grantsResource   = "grants"

	errServerFmt   = "server error: %w"
	errShutdownFmt = "server forced to shutdown: %w"
)

var shutdownSignals = []os.Signal{
	syscall.SIGINT,
	syscall.SIGTERM,
}

// Service is the running portal: HTTP server, grant registry and the
// resources they share
type Service struct {
	config   *config.Config
	logger   *zap.Logger
	db       *postgres.DB
	redis    *redis.Client
	memory   *cache.MemoryCache
	sessions cache.SessionCache
	api      *remote.API
	registry *grants.Registry
	audit    *audit.Logger
	metrics  *metrics.Metrics
	server   *portalhttp.Server
}

// Registry exposes the grant registry, mainly for tests and the CLI
func (s *Service) Registry() *grants.Registry {
	return s.registry
}

// Run loads the first grant catalog and serves HTTP until ctx is done or a
// shutdown signal arrives. SIGHUP reloads the catalog.
func (s *Service) Run(ctx context.Context) error {
	if err := s.ReloadGrants(ctx); err != nil {
		s.logger.Error("initial grant catalog load failed, every check denies until a reload succeeds", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(ctx, shutdownSignals...)
	defer stop()

	s.server.RunMaintenance(ctx)
	if s.memory != nil {
		go s.memory.RunSweeper(ctx, 0)
	}
	go s.watchReloadSignal(ctx)

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("starting HTTP server", zap.String("port", s.config.Server.Port))
		if err := s.server.Start(serverAddrPrefix + s.config.Server.Port); err != nil && !errors.Is(err, stdhttp.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf(errServerFmt, err)
	case <-ctx.Done():
	}

	s.logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.config.Server.ShutdownTimeout)
	defer cancel()

	if err := s.server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf(errShutdownFmt, err)
	}
	s.logger.Info("server exited gracefully")
	return nil
}

// ReloadGrants reloads the catalog and records the outcome in the audit log
func (s *Service) ReloadGrants(ctx context.Context) error {
	status, err := s.registry.Reload(ctx)
	if err != nil {
		s.audit.LogSystem(audit.ActionReloadGrants, audit.StatusFailure, grantsResource, err)
		return err
	}
	s.audit.LogSystem(audit.ActionReloadGrants, audit.StatusSuccess, grantsResource, nil)
	s.logger.Debug("grant catalog active", zap.Uint64("generation", status.Generation))
	return nil
}

func (s *Service) watchReloadSignal(ctx context.Context) {
	hup := make(chan os.Signal, 1)
	signal.Notify(hup, syscall.SIGHUP)
	defer signal.Stop(hup)

	for {
		select {
		case <-ctx.Done():
			return
		case <-hup:
			s.logger.Info("SIGHUP received, reloading grant catalog")
			_ = s.ReloadGrants(ctx)
		}
	}
}

// Close flushes pending audit writes and releases connections
func (s *Service) Close() {
	if s.audit != nil {
		s.audit.Flush()
	}
	if s.redis != nil {
		if err := s.redis.Close(); err != nil {
			s.logger.Warn("failed to close redis", zap.Error(err))
		}
	}
	if s.db != nil {
		s.db.Close()
	}
}
