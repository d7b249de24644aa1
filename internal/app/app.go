package app

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"go.uber.org/zap"

	"storefront/internal/handlers"
	"storefront/internal/middleware"
	"storefront/internal/repositories"
	"storefront/internal/services"
)

// Services bundles everything the HTTP layer calls into.
type Services struct {
	Products  *services.ProductService
	Orders    *services.OrderService
	Payments  *services.PaymentService
	Dashboard *services.DashboardService
	Auth      *services.AuthService
}

// NewServices wires the services over stores. notifier may be nil.
func NewServices(
	stores repositories.Stores,
	notifier services.OrderNotifier,
	processor services.PaymentProcessor,
	jwtSecret string,
	log *zap.Logger,
) Services {
	return Services{
		Products:  services.NewProductService(stores.Products, log),
		Orders:    services.NewOrderService(stores.Orders, notifier, log),
		Payments:  services.NewPaymentService(processor, log),
		Dashboard: services.NewDashboardService(stores.Orders),
		Auth:      services.NewAuthService(stores.Users, jwtSecret, log),
	}
}

// Options tune the HTTP application.
type Options struct {
	SignInPath string
	// AccessLog enables Fiber's request logger.
	AccessLog bool
}

// New builds the Fiber application with every storefront route.
func New(svc Services, opts Options, log *zap.Logger) *fiber.App {
	if log == nil {
		log = zap.NewNop()
	}
	if opts.SignInPath == "" {
		opts.SignInPath = "/auth/signin"
	}

	app := fiber.New(fiber.Config{
		AppName:               "storefront",
		DisableStartupMessage: true,
	})
	if opts.AccessLog {
		app.Use(logger.New())
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	api := app.Group("/api")

	handlers.NewAuthHandler(svc.Auth, log).RegisterRoutes(api)
	handlers.NewProductHandler(svc.Products, log).RegisterRoutes(api)
	handlers.NewOrderHandler(svc.Orders, log).
		RegisterRoutes(api, middleware.OptionalSession(svc.Auth, log))
	handlers.NewPaymentHandler(svc.Payments, log).RegisterRoutes(api)
	handlers.NewDashboardHandler(svc.Dashboard, log).
		RegisterRoutes(api, middleware.RedirectToSignIn(svc.Auth, opts.SignInPath, log))

	return app
}
