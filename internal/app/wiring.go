package app

import (
	"context"
	"errors"
	"fmt"

	"erp-portal/internal/audit"
	"erp-portal/internal/auth"
	"erp-portal/internal/config"
	"erp-portal/internal/grants"
	portalhttp "erp-portal/internal/http"
	"erp-portal/internal/infra/cache"
	"erp-portal/internal/infra/postgres"
	"erp-portal/internal/infra/s3"
	"erp-portal/internal/rbac"
	"erp-portal/internal/rbac/presets"
	"erp-portal/internal/remote"
	"erp-portal/pkg/metrics"

	"go.uber.org/zap"
)

const (
	errConnectDatabaseFmt  = "failed to connect to database: %w"
	errCreateS3ClientFmt   = "failed to create S3 client: %w"
	errGrantsSourceFmt     = "failed to build grants source: %w"
	errUnknownGrantsSource = "unknown grants source %q"
	errGrantsNeedDatabase  = "grants source postgres needs a database connection"
)

// InitializeService wires up all dependencies and returns a configured
// Service. Redis is optional: when it cannot be reached sessions are cached
// in process.
func InitializeService(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Service, error) {
	s := &Service{
		config:  cfg,
		logger:  logger,
		metrics: metrics.GetMetrics(),
	}

	if cfg.Database.Enabled() {
		db, err := postgres.New(ctx, &cfg.Database)
		if err != nil {
			return nil, fmt.Errorf(errConnectDatabaseFmt, err)
		}
		s.db = db
		logger.Info("database connection established")
	}

	s.sessions = s.sessionCache(ctx)

	client := remote.NewClient(cfg.Remote.BaseURL, cfg.Remote.Timeout,
		remote.WithLogger(logger),
		remote.WithFailureHook(s.metrics.RecordUpstreamFailure),
	)
	s.api = remote.NewAPI(client)

	source, err := NewGrantsSource(cfg, s.db, s.api)
	if err != nil {
		s.Close()
		return nil, fmt.Errorf(errGrantsSourceFmt, err)
	}
	s.registry = grants.NewRegistry(source, logger)
	s.registry.OnReload(func(ctx context.Context) {
		// entries are keyed by catalog digest; purging only frees the old ones
		s.sessions.Purge(ctx)
	})

	var execer audit.Execer
	if s.db != nil {
		execer = s.db.Pool
	}
	s.audit = audit.NewLogger(execer, logger)

	verifier := auth.NewTokenVerifier(cfg.Auth.JWTSecret)
	resolver := auth.NewResolver(verifier, s.registry, s.sessions, cfg.Auth.SessionCacheTTL)

	s.server = portalhttp.NewServer(&portalhttp.ServerDependencies{
		Config:         cfg,
		Logger:         logger,
		Evaluator:      rbac.NewEvaluator(),
		Registry:       s.registry,
		AuthMiddleware: auth.NewMiddleware(resolver, logger),
		API:            s.api,
		AuditLogger:    s.audit,
		Metrics:        s.metrics,
	})

	return s, nil
}

func (s *Service) sessionCache(ctx context.Context) cache.SessionCache {
	if s.config.Redis.Enabled() {
		client, err := cache.OpenRedis(ctx, s.config.Redis.URL)
		if err == nil {
			s.redis = client
			s.logger.Info("session cache: redis")
			return cache.NewRedisCache(client, s.logger)
		}
		s.logger.Warn("redis unavailable, falling back to in-process session cache", zap.Error(err))
	}
	s.memory = cache.NewMemoryCache()
	return s.memory
}

// NewGrantsSource picks the catalog source named by GRANTS_SOURCE
func NewGrantsSource(cfg *config.Config, db *postgres.DB, roles grants.RoleLister) (grants.Source, error) {
	switch cfg.Grants.Source {
	case config.GrantsSourcePreset:
		return grants.NewPresetSource(presets.Business()), nil
	case config.GrantsSourceFile:
		return grants.NewFileSource(cfg.Grants.File), nil
	case config.GrantsSourceS3:
		client, err := s3.NewClient(&cfg.AWS)
		if err != nil {
			return nil, fmt.Errorf(errCreateS3ClientFmt, err)
		}
		return grants.NewS3Source(client, cfg.Grants.Bucket, cfg.Grants.Key), nil
	case config.GrantsSourcePostgres:
		if db == nil {
			return nil, errors.New(errGrantsNeedDatabase)
		}
		return grants.NewPostgresSource(db.Pool), nil
	case config.GrantsSourceRemote:
		return grants.NewRemoteSource(roles), nil
	default:
		return nil, fmt.Errorf(errUnknownGrantsSource, cfg.Grants.Source)
	}
}
