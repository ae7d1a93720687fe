package api

import (
	"net/http"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/inkpad/inkpad-api/docs"
	"github.com/inkpad/inkpad-api/internal/api/handler"
	"github.com/inkpad/inkpad-api/internal/api/middleware"
	"github.com/inkpad/inkpad-api/internal/core/ports"
	"github.com/inkpad/inkpad-api/internal/infrastructure/http/handlers"
)

// authLevel says what the auth middleware does for a route.
type authLevel int

const (
	// public routes never look at the Authorization header.
	public authLevel = iota
	// optional routes accept anonymous callers but reject a bad token.
	optional
	// required routes reject anonymous callers with 401.
	required
)

type route struct {
	method  string
	path    string
	handler echo.HandlerFunc
	auth    authLevel
	extra   []echo.MiddlewareFunc
}

// Deps carries everything the router wires into handlers.
type Deps struct {
	Identity     ports.IdentityService
	Blog         ports.BlogService
	Todo         ports.TodoService
	Tokens       ports.TokenIssuer
	HealthChecks map[string]handlers.Check
	Logger       zerolog.Logger
}

// discovery lists what GET / advertises.
var discovery = []handler.Endpoint{
	{Name: "register", Path: "/users/register"},
	{Name: "profile", Path: "/users/profile"},
	{Name: "login", Path: "/token"},
	{Name: "refresh_token", Path: "/token/refresh"},
	{Name: "csrf", Path: "/users/csrf"},
	{Name: "password_reset", Path: "/users/password_reset"},
	{Name: "password_reset_confirm", Path: "/users/reset-password-confirm"},
	{Name: "posts", Path: "/blog/posts"},
	{Name: "my_posts", Path: "/blog/posts/my_posts"},
	{Name: "todos", Path: "/todo"},
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Logger)

	// --- Global middleware ---
	httpMetrics := prometheus.NewRegistry()
	e.Pre(echomiddleware.RemoveTrailingSlash())
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(requestLogger(d.Logger))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Namespace:  "inkpad",
		Subsystem:  "http",
		Registerer: httpMetrics,
		Skipper: func(c echo.Context) bool {
			return c.Path() == "/metrics"
		},
	}))

	// --- Handlers ---
	identity := handler.NewIdentityHandler(d.Identity)
	blog := handler.NewBlogHandler(d.Blog)
	todo := handler.NewTodoHandler(d.Todo)
	root := handler.NewRootHandler(discovery)
	health := handlers.NewHealthHandler()
	ready := handlers.NewHealthDependenciesHandler(d.HealthChecks)

	csrf := echomiddleware.CSRFWithConfig(echomiddleware.CSRFConfig{
		TokenLookup:    "header:X-CSRFToken",
		CookieName:     "csrftoken",
		CookiePath:     "/",
		CookieSameSite: http.SameSiteLaxMode,
	})

	routes := []route{
		{http.MethodGet, "/", root.Index, optional, nil},

		{http.MethodPost, "/users/register", identity.Register, optional, nil},
		{http.MethodGet, "/users/profile", identity.GetProfile, required, nil},
		{http.MethodPatch, "/users/profile", identity.UpdateProfile, required, nil},
		{http.MethodGet, "/users/csrf", identity.CSRF, optional, []echo.MiddlewareFunc{csrf}},
		{http.MethodPost, "/users/password_reset", identity.RequestPasswordReset, optional, nil},
		{http.MethodPost, "/users/reset-password-confirm", identity.ConfirmPasswordReset, optional, nil},

		{http.MethodPost, "/token", identity.Login, public, nil},
		{http.MethodPost, "/token/refresh", identity.Refresh, public, nil},

		{http.MethodGet, "/blog/posts", blog.List, optional, nil},
		{http.MethodPost, "/blog/posts", blog.Create, required, nil},
		{http.MethodGet, "/blog/posts/my_posts", blog.MyPosts, required, nil},
		{http.MethodGet, "/blog/posts/:id", blog.Get, optional, nil},
		{http.MethodPut, "/blog/posts/:id", blog.Replace, required, nil},
		{http.MethodPatch, "/blog/posts/:id", blog.Update, required, nil},
		{http.MethodDelete, "/blog/posts/:id", blog.Delete, required, nil},

		{http.MethodGet, "/todo", todo.List, required, nil},
		{http.MethodPost, "/todo", todo.Create, required, nil},
		{http.MethodGet, "/todo/:id", todo.Get, required, nil},
		{http.MethodPut, "/todo/:id", todo.Replace, required, nil},
		{http.MethodPatch, "/todo/:id", todo.Update, required, nil},
		{http.MethodDelete, "/todo/:id", todo.Delete, required, nil},

		// --- Operations (no auth) ---
		{http.MethodGet, "/health", health.Liveness, public, nil},
		{http.MethodGet, "/health/ready", ready.Readiness, public, nil},
		{http.MethodGet, "/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{
			Gatherer: prometheus.Gatherers{prometheus.DefaultGatherer, httpMetrics},
		}), public, nil},
		{http.MethodGet, "/swagger/*", echoSwagger.WrapHandler, public, nil},
	}

	for _, r := range routes {
		mw := append([]echo.MiddlewareFunc{}, r.extra...)
		switch r.auth {
		case optional:
			mw = append(mw, middleware.Authenticate(d.Tokens, false))
		case required:
			mw = append(mw, middleware.Authenticate(d.Tokens, true))
		}
		e.Add(r.method, r.path, r.handler, mw...)
	}

	return e
}

// requestLogger writes one structured line per request through zerolog.
func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogStatus:    true,
		LogURI:       true,
		LogMethod:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			evt := log.Info()
			switch {
			case v.Status >= http.StatusInternalServerError:
				evt = log.Error().Err(v.Error)
			case v.Error != nil:
				evt = log.Warn().Err(v.Error)
			}
			evt.Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID).
				Msg("request")
			return nil
		},
	})
}
