package http

import (
	"context"
	stdhttp "net/http"
	"time"

	"erp-portal/internal/audit"
	"erp-portal/internal/auth"
	"erp-portal/internal/config"
	"erp-portal/internal/grants"
	"erp-portal/internal/guard"
	"erp-portal/internal/http/handler"
	"erp-portal/internal/http/middleware"
	"erp-portal/internal/rbac"
	"erp-portal/internal/rbac/presets"
	"erp-portal/internal/remote"
	"erp-portal/pkg/metrics"
	"erp-portal/pkg/profiling"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
)

const (
	jsonKeyStatus     = "status"
	jsonKeyGeneration = "grants_generation"
	statusOK          = "ok"
	statusStarting    = "starting"

	limiterSweepInterval = time.Minute
	limiterIdleTimeout   = 10 * time.Minute
)

var (
	viewRFQ = rbac.Request{Application: presets.AppPurchase, Module: presets.ModulePurchaseRequests, Action: rbac.ActionView}
	editRFQ = rbac.Request{Application: presets.AppPurchase, Module: presets.ModulePurchaseRequests, Action: rbac.ActionEdit}
)

type ServerDependencies struct {
	Config         *config.Config
	Logger         *zap.Logger
	Evaluator      *rbac.Evaluator
	Registry       *grants.Registry
	AuthMiddleware *auth.Middleware
	API            *remote.API
	AuditLogger    *audit.Logger
	Metrics        *metrics.Metrics
}

type Server struct {
	echo     *echo.Echo
	deps     *ServerDependencies
	limiters []*middleware.RateLimiter
}

func NewServer(deps *ServerDependencies) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Logger)

	e.Server.ReadTimeout = deps.Config.Server.ReadTimeout
	e.Server.WriteTimeout = deps.Config.Server.WriteTimeout

	s := &Server{echo: e, deps: deps}

	// Request ID first so every log line carries it
	e.Use(middleware.RequestID())
	e.Use(middleware.SecurityHeaders())
	e.Use(middleware.RequestLogger(deps.Logger))
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.BodyLimit(deps.Config.Server.BodyLimit))
	e.Use(middleware.CSRF(deps.Config.Server.TrustedOrigins))
	e.Use(deps.Metrics.Middleware())
	// Sessions resolve before the global limiter so it can key by user
	e.Use(deps.AuthMiddleware.Attach())

	globalRateLimiter := middleware.NewRateLimiter(deps.Config.Server.RateLimitRPS, deps.Config.Server.RateLimitBurst)
	strictRateLimiter := middleware.NewRateLimiter(deps.Config.Server.AuthRateLimitRPS, deps.Config.Server.AuthRateLimitBurst)
	s.limiters = append(s.limiters, globalRateLimiter, strictRateLimiter)
	e.Use(globalRateLimiter.Middleware())

	guards := guard.NewMiddleware(deps.Evaluator, guard.WithObserver(s.observeDecision))

	authHandler := handler.NewAuthHandler(deps.Config.Auth.CookieSecure, deps.AuditLogger)
	permissionHandler := handler.NewPermissionHandler(deps.Evaluator)
	purchaseHandler := handler.NewPurchaseHandler(deps.API, deps.AuditLogger, deps.Logger)
	accessHandler := handler.NewAccessHandler(deps.API, deps.Logger)
	grantsHandler := handler.NewGrantsHandler(deps.Registry, deps.AuditLogger)

	e.GET("/health", s.healthCheck)
	e.GET("/metrics", deps.Metrics.Handler)
	e.GET("/metrics/memory", profiling.MemoryHandler)
	e.GET(guard.UnauthorizedPath, permissionHandler.Unauthorized)

	// Pages
	e.GET("/purchase/requests/:id", purchaseHandler.GetRFQ, guards.RequirePage(viewRFQ))

	api := e.Group("/api")

	authAPI := api.Group("/auth", strictRateLimiter.Middleware())
	authAPI.POST("/token", authHandler.SetToken)
	authAPI.GET("/status", authHandler.Status)
	authAPI.POST("/logout", authHandler.Logout)

	api.GET("/permissions/check", permissionHandler.Check)
	api.POST("/permissions/guard", permissionHandler.Guard)
	api.GET("/permissions/me", permissionHandler.Me)

	api.GET("/purchase/rfqs/:id", purchaseHandler.GetRFQ, guards.RequireAPI(viewRFQ))
	api.PATCH("/purchase/rfqs/:id", purchaseHandler.PatchRFQ, guards.RequireAPI(editRFQ))

	registerSettings(api, guards, handler.NewSettingsHandler[remote.Currency](deps.API.Currencies, deps.Logger))
	registerSettings(api, guards, handler.NewSettingsHandler[remote.Unit](deps.API.Units, deps.Logger))
	registerSettings(api, guards, handler.NewSettingsHandler[remote.Location](deps.API.Locations, deps.Logger))
	registerSettings(api, guards, handler.NewSettingsHandler[remote.Vendor](deps.API.Vendors, deps.Logger))
	registerSettings(api, guards, handler.NewSettingsHandler[remote.Product](deps.API.Products, deps.Logger))

	api.GET("/access/applications", accessHandler.Applications, guards.RequireAPI(accessRequest(presets.ModuleApplications, rbac.ActionView)))
	api.GET("/access/companies", accessHandler.Companies, guards.RequireAPI(accessRequest(presets.ModuleCompanies, rbac.ActionView)))
	api.GET("/access/roles", accessHandler.Roles, guards.RequireAPI(accessRequest(presets.ModuleRoles, rbac.ActionView)))

	api.GET("/admin/grants", grantsHandler.Status, guards.RequireAPI(accessRequest(presets.ModuleRoles, rbac.ActionView)))
	api.POST("/admin/grants/reload", grantsHandler.Reload, strictRateLimiter.Middleware(), guards.RequireAPI(accessRequest(presets.ModuleRoles, rbac.ActionEdit)))

	if deps.Config.Server.Profiling {
		debug := e.Group("/debug/pprof", guards.RequireAPI(accessRequest(presets.ModuleRoles, rbac.ActionEdit)))
		profiling.RegisterPprofRoutes(debug)
	}

	return s
}

// registerSettings mounts the CRUD routes for one settings resource, each
// guarded by settings.<resource>.<action>
func registerSettings[T handler.Validatable](g *echo.Group, guards *guard.Middleware, h *handler.SettingsHandler[T]) {
	base := "/settings/" + h.Name()
	guarded := func(action rbac.Action) echo.MiddlewareFunc {
		return guards.RequireAPI(rbac.Request{
			Application: presets.AppSettings,
			Module:      rbac.Module(h.Name()),
			Action:      action,
		})
	}

	g.GET(base, h.List, guarded(rbac.ActionView))
	g.GET(base+"/:id", h.Get, guarded(rbac.ActionView))
	g.POST(base, h.Create, guarded(rbac.ActionCreate))
	g.PUT(base+"/:id", h.Update, guarded(rbac.ActionEdit))
	g.DELETE(base+"/:id", h.Delete, guarded(rbac.ActionDelete))
}

func accessRequest(module rbac.Module, action rbac.Action) rbac.Request {
	return rbac.Request{Application: presets.AppAccess, Module: module, Action: action}
}

// observeDecision counts every guard outcome and audits denials
func (s *Server) observeDecision(c echo.Context, d guard.Decision) {
	s.deps.Metrics.RecordGuardDecision(d.Allowed(), d.Missing)
	if d.Allowed() || s.deps.AuditLogger == nil {
		return
	}
	s.deps.AuditLogger.LogFromContext(c, audit.ActionAccess, audit.StatusDenied, d.Missing, map[string]any{
		"path":   c.Request().URL.Path,
		"method": c.Request().Method,
	})
}

// Handler exposes the router, mainly for tests
func (s *Server) Handler() stdhttp.Handler {
	return s.echo
}

// RunMaintenance sweeps idle rate limiter keys until ctx is done
func (s *Server) RunMaintenance(ctx context.Context) {
	for _, rl := range s.limiters {
		go rl.RunSweeper(ctx, limiterSweepInterval, limiterIdleTimeout)
	}
}

func (s *Server) Start(address string) error {
	return s.echo.Start(address)
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

// healthCheck reports 503 until the first grant catalog is active, since
// every permission check denies before then
func (s *Server) healthCheck(c echo.Context) error {
	status := s.deps.Registry.Status()
	if status.Generation == 0 {
		return c.JSON(stdhttp.StatusServiceUnavailable, map[string]any{
			jsonKeyStatus:     statusStarting,
			jsonKeyGeneration: status.Generation,
		})
	}
	return c.JSON(stdhttp.StatusOK, map[string]any{
		jsonKeyStatus:     statusOK,
		jsonKeyGeneration: status.Generation,
	})
}
