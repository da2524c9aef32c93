// Package httpserver provides HTTP server and routing.
package httpserver

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/filesystem"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/fiber/v2/middleware/session"
	"github.com/gofiber/template/html/v2"
	"go.uber.org/zap"

	"camp-slides/internal/app/service"
	"camp-slides/internal/domain"
	"camp-slides/internal/transport/httpserver/handler"
	"camp-slides/internal/transport/httpserver/middleware"
	"camp-slides/internal/validator"
	"camp-slides/web"
)

// ServerConfig holds server configuration.
type ServerConfig struct {
	Port       int
	BodyLimit  int
	Debug      bool
	AdminToken string // empty disables the admin API
	CookieName string
	SessionTTL time.Duration
	Page       handler.PageConfig
}

// Dependencies are the services the routes are served from.
type Dependencies struct {
	Slides    *service.SlideService
	Content   *service.ContentService
	Sessions  *service.SessionService
	Source    domain.PostSource
	Refresher handler.DeckRefresher
	Store     middleware.Pinger // nil when running without a shared cache
	Validator *validator.Validator
}

// Server wraps Fiber app with handlers.
type Server struct {
	App    *fiber.App
	Logger *zap.Logger
}

// NewServer creates a new HTTP server with all routes configured.
func NewServer(cfg ServerConfig, deps Dependencies, logger *zap.Logger) *Server {
	engine := html.NewFileSystem(http.FS(web.Templates()), ".html")
	if cfg.Debug {
		engine.Debug(true)
	}

	app := fiber.New(fiber.Config{
		AppName:      "camp-slides",
		BodyLimit:    cfg.BodyLimit,
		ErrorHandler: errorHandler(logger),
		Views:        engine,
	})

	// Health check middleware MUST be registered BEFORE other middleware
	// for Kubernetes probes to work even during high load
	app.Use(middleware.NewHealthCheck(deps.Store))

	app.Use(requestid.New())
	app.Use(middleware.Recover(logger))
	app.Use(middleware.Logger(logger))
	app.Use(compress.New())

	app.Use("/static", filesystem.New(filesystem.Config{
		Root:   http.FS(web.Static()),
		MaxAge: 3600,
	}))

	store := session.New(session.Config{
		Expiration:     cfg.SessionTTL,
		KeyLookup:      "cookie:" + cfg.CookieName,
		CookieHTTPOnly: true,
		CookieSameSite: fiber.CookieSameSiteLaxMode,
	})

	h := handlers{
		page:    handler.NewPageHandler(deps.Slides, deps.Sessions, store, cfg.Page, logger),
		relay:   handler.NewRelayHandler(deps.Source, logger),
		tracker: handler.NewTrackerHandler(deps.Sessions, store, deps.Validator, logger),
		card:    handler.NewCardHandler(deps.Sessions, store, logger),
		admin:   handler.NewAdminHandler(deps.Refresher, deps.Content, logger),
	}

	registerRoutes(app, h, cfg.AdminToken, logger)

	return &Server{
		App:    app,
		Logger: logger,
	}
}

type handlers struct {
	page    *handler.PageHandler
	relay   *handler.RelayHandler
	tracker *handler.TrackerHandler
	card    *handler.CardHandler
	admin   *handler.AdminHandler
}

// registerRoutes sets up all routes.
func registerRoutes(app *fiber.App, h handlers, adminToken string, logger *zap.Logger) {
	// Health checks are handled by middleware (/livez, /readyz)

	app.Get("/", h.page.Render)

	cards := app.Group("/cards")
	cards.Get("/:postId", h.card.Get)
	cards.Post("/:postId/retry", h.card.Retry)

	relay := app.Group("/api/wordpress", middleware.RelayCORS())
	relay.Get("/", h.relay.Get)
	relay.Options("/", h.relay.Options)

	v1 := app.Group("/api/v1")

	tracker := v1.Group("/tracker")
	tracker.Get("/", h.tracker.View)
	tracker.Post("/scroll", h.tracker.Scroll)
	tracker.Post("/slide", h.tracker.Slide)
	tracker.Post("/cards/:postId/toggle", h.tracker.ToggleCard)
	tracker.Post("/cards/:postId/close", h.tracker.CloseCard)
	tracker.Post("/escape", h.tracker.Escape)
	tracker.Post("/menu/toggle", h.tracker.ToggleMenu)
	tracker.Post("/menu/select", h.tracker.SelectMenuItem)

	if adminToken == "" {
		logger.Info("admin API disabled, no admin token configured")
		return
	}

	admin := v1.Group("/admin", middleware.AdminAuth(adminToken))
	admin.Post("/refresh", h.admin.Refresh)
	admin.Delete("/content", h.admin.ClearContent)
	admin.Delete("/content/:postId", h.admin.ClearPost)
}

// errorHandler returns a custom error handler that logs based on HTTP status code.
// 404s are logged at DEBUG level (expected client behavior), 4xx at WARN, 5xx at ERROR.
func errorHandler(logger *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError
		message := "internal server error"

		var fe *fiber.Error
		if errors.As(err, &fe) {
			code = fe.Code
			message = fe.Message
		}

		switch {
		case code == fiber.StatusNotFound:
			logger.Debug("resource not found",
				zap.String("path", c.Path()),
				zap.String("method", c.Method()),
			)
		case code >= 500:
			logger.Error("server error",
				zap.Error(err),
				zap.Int("status", code),
				zap.String("path", c.Path()),
			)
		case code >= 400:
			logger.Warn("client error",
				zap.Error(err),
				zap.Int("status", code),
				zap.String("path", c.Path()),
			)
		default:
			logger.Error("unhandled error",
				zap.Error(err),
				zap.Int("status", code),
				zap.String("path", c.Path()),
			)
		}

		return c.Status(code).JSON(fiber.Map{
			"error": message,
			"code":  "UNHANDLED_ERROR",
		})
	}
}

// Start starts the HTTP server.
func (s *Server) Start(port int) error {
	s.Logger.Info("starting HTTP server", zap.Int("port", port))

	return s.App.Listen(fmt.Sprintf(":%d", port))
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown() error {
	s.Logger.Info("shutting down HTTP server")

	return s.App.Shutdown()
}
