package router

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/dtroode/gophaccounts-server/internal/api/http/handler"
	"github.com/dtroode/gophaccounts-server/internal/api/http/middleware"
	"github.com/dtroode/gophaccounts-server/internal/logger"
	"github.com/dtroode/gophaccounts-server/internal/model"
	"github.com/dtroode/gophaccounts-server/internal/service"
)

// hstsValue pins HTTPS for 18 weeks.
const hstsValue = "max-age=10886400; includeSubDomains"

// Options holds router settings that come from configuration.
type Options struct {
	Cookie          handler.CookieConfig
	CORSOrigin      string
	CreateCustomers bool
}

// Router wires services, middleware and handlers into a Fiber application.
type Router struct {
	authService    *service.Auth
	accountService *service.Account
	tokenService   *service.TokenService
	contextManager model.ContextManager
	metrics        *middleware.Metrics
	opts           Options
	logger         *logger.Logger
}

// New creates new Router instance.
func New(
	authService *service.Auth,
	accountService *service.Account,
	tokenService *service.TokenService,
	contextManager model.ContextManager,
	metrics *middleware.Metrics,
	opts Options,
	logger *logger.Logger,
) *Router {
	if opts.CORSOrigin == "" {
		opts.CORSOrigin = "*"
	}
	if metrics == nil {
		metrics = middleware.NewMetrics()
	}

	return &Router{
		authService:    authService,
		accountService: accountService,
		tokenService:   tokenService,
		contextManager: contextManager,
		metrics:        metrics,
		opts:           opts,
		logger:         logger,
	}
}

// Register builds the application with every route mounted.
func (r *Router) Register() *fiber.App {
	app := r.newApp()

	authenticate := middleware.NewAuthenticate(r.tokenService, r.contextManager, r.opts.Cookie.Name, r.logger)

	app.Get("/status", handler.Status)
	app.Get("/metrics", r.metrics.Handler())
	app.Get("/verify", authenticate.Handle, handler.Verify(r.contextManager))

	r.registerAuthRoutes(app, authenticate)
	r.registerAccountRoutes(app, authenticate)

	app.Use(handler.NotFound)

	return app
}

// newApp creates the application with the middleware chain installed.
// Recover sits inside metrics and logging so recovered panics are counted and logged.
func (r *Router) newApp() *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler:          handler.ErrorHandler(r.logger),
		DisableStartupMessage: true,
		ProxyHeader:           fiber.HeaderXForwardedFor,
	})

	logging := middleware.NewLogging(r.logger)

	app.Use(r.metrics.Handle)
	app.Use(logging.Handle)
	app.Use(recover.New())
	app.Use(forceHSTS)
	app.Use(helmet.New())
	app.Use(compress.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: r.opts.CORSOrigin,
	}))

	return app
}

// forceHSTS sends Strict-Transport-Security on every response, not only HTTPS ones.
func forceHSTS(c *fiber.Ctx) error {
	c.Set(fiber.HeaderStrictTransportSecurity, hstsValue)
	return c.Next()
}

func (r *Router) registerAuthRoutes(app *fiber.App, authenticate *middleware.Authenticate) {
	authHandler := handler.NewAuth(
		r.authService,
		r.accountService,
		r.tokenService,
		r.contextManager,
		r.opts.Cookie,
		r.opts.CreateCustomers,
		r.logger.Module("auth"),
	)

	auth := app.Group("/auth")
	auth.Post("/register", authHandler.Register)
	auth.Post("/login", authHandler.Login)
	auth.Post("/logout", authenticate.Handle, authHandler.Logout)
	auth.Post("/password/forgot", authHandler.PasswordForgot)
	auth.Post("/password/reset", authHandler.PasswordReset)
	auth.Post("/password/change", authenticate.Handle, authHandler.PasswordChange)
}

func (r *Router) registerAccountRoutes(app *fiber.App, authenticate *middleware.Authenticate) {
	accountHandler := handler.NewAccount(r.accountService, r.contextManager, r.logger.Module("accounts"))

	accounts := app.Group("/accounts", authenticate.Handle)
	accounts.Get("/", accountHandler.Get)
	accounts.Post("/", accountHandler.Update)
}
