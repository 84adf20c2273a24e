package api

import (
	"net/http"
	"time"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"
	"golang.org/x/time/rate"

	_ "github.com/gigboard/marketplace/docs"
	"github.com/gigboard/marketplace/internal/api/handler"
	"github.com/gigboard/marketplace/internal/api/middleware"
	"github.com/gigboard/marketplace/internal/core/domain"
	"github.com/gigboard/marketplace/internal/core/ports"
)

// Deps carries everything the router wires into handlers.
type Deps struct {
	Auth      ports.AuthService
	Sessions  ports.SessionService
	Jobs      ports.JobService
	Proposals ports.ProposalService

	Store       handler.StorePinger
	Redis       *redis.Client
	MongoURISet bool

	Cookie middleware.SessionCookie
	// AuthRate is the sustained requests per second allowed on /auth per
	// client IP. Zero disables the limiter.
	AuthRate  float64
	AuthBurst int

	// Registerer receives the HTTP request metrics. Nil means the default
	// Prometheus registry.
	Registerer prometheus.Registerer
	Logger     zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Logger)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(requestLogger(d.Logger))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:  "marketplace",
		Registerer: d.Registerer,
	}))

	// --- Operational endpoints (no session) ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(d.Store, d.Redis, d.MongoURISet)

	e.GET("/health", healthHandler.Liveness)            // liveness
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// --- Application routes ---
	authHandler := handler.NewAuthHandler(d.Auth, d.Sessions, d.Cookie)
	jobHandler := handler.NewJobHandler(d.Jobs, d.Proposals)
	proposalHandler := handler.NewProposalHandler(d.Proposals)
	dashboardHandler := handler.NewDashboardHandler(d.Jobs, d.Proposals)

	app := e.Group("", middleware.Session(d.Sessions, d.Cookie, d.Logger))
	signedIn := middleware.RequireUser()
	clientsOnly := middleware.RequireRole(domain.RoleClient)
	freelancersOnly := middleware.RequireRole(domain.RoleFreelancer)

	auth := app.Group("/auth")
	if d.AuthRate > 0 {
		auth.Use(authRateLimiter(d.AuthRate, d.AuthBurst))
	}
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)
	auth.POST("/logout", authHandler.Logout)

	app.GET("/me", authHandler.Me, signedIn)
	app.GET("/categories", jobHandler.Categories)

	app.GET("/jobs", jobHandler.List)
	app.POST("/jobs", jobHandler.Create, clientsOnly)
	app.GET("/jobs/:id", jobHandler.Get)
	app.DELETE("/jobs/:id", jobHandler.Delete, signedIn)
	app.POST("/jobs/:id/delete", jobHandler.Delete, signedIn)
	app.POST("/jobs/:id/proposals", proposalHandler.Submit, freelancersOnly)

	app.DELETE("/proposals/:id", proposalHandler.Delete, signedIn)
	app.POST("/proposals/:id/delete", proposalHandler.Delete, signedIn)

	app.GET("/dashboard", dashboardHandler.Home, signedIn)
	app.GET("/dashboard/client", dashboardHandler.Client, clientsOnly)
	app.GET("/dashboard/freelancer", dashboardHandler.Freelancer, freelancersOnly)

	return e
}

func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			evt := log.Info()
			if v.Error != nil {
				evt = log.Warn().Err(v.Error)
			}
			evt.
				Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID).
				Msg("request")
			return nil
		},
	})
}

func authRateLimiter(perSecond float64, burst int) echo.MiddlewareFunc {
	return echomiddleware.RateLimiterWithConfig(echomiddleware.RateLimiterConfig{
		Skipper: echomiddleware.DefaultSkipper,
		Store: echomiddleware.NewRateLimiterMemoryStoreWithConfig(
			echomiddleware.RateLimiterMemoryStoreConfig{
				Rate:      rate.Limit(perSecond),
				Burst:     burst,
				ExpiresIn: 3 * time.Minute,
			}),
		IdentifierExtractor: func(c echo.Context) (string, error) {
			return c.RealIP(), nil
		},
		ErrorHandler: func(c echo.Context, err error) error {
			return echo.NewHTTPError(http.StatusForbidden, "unable to identify client")
		},
		DenyHandler: func(c echo.Context, identifier string, err error) error {
			return echo.NewHTTPError(http.StatusTooManyRequests, "rate limit exceeded")
		},
	})
}
