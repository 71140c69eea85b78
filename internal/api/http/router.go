package http

import (
	nethttp "net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"

	"github.com/fixdesk/workorder-service/internal/api/http/handlers"
	"github.com/fixdesk/workorder-service/internal/auth"
	"github.com/fixdesk/workorder-service/internal/domain"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Users          *handlers.UsersHandler
	Customers      *handlers.CustomersHandler
	Devices        *handlers.DevicesHandler
	WorkOrders     *handlers.WorkOrdersHandler
	Analytics      *handlers.AnalyticsHandler
	AuthMiddleware *auth.AuthMiddleware
	MetricsHandler nethttp.Handler
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	if cfg.MetricsHandler != nil {
		app.Get("/metrics", adaptor.HTTPHandler(cfg.MetricsHandler))
	}

	authGroup := app.Group("/auth")
	authGroup.Post("/login", cfg.Auth.Login)
	authGroup.Post("/register", cfg.Auth.Register)
	authGroup.Get("/me", cfg.AuthMiddleware.Handle, cfg.Auth.Me)

	api := app.Group("/api/v1", cfg.AuthMiddleware.Handle, auth.RequireAuthenticated())

	users := api.Group("/users", auth.RequireRole(domain.RoleAdmin))
	users.Post("/", cfg.Users.Create)
	users.Get("/", cfg.Users.List)
	users.Get("/technicians", cfg.Users.ListTechnicians)
	users.Get("/:id", cfg.Users.Get)
	users.Put("/:id", cfg.Users.Update)
	users.Post("/:id/password", cfg.Users.ChangePassword)
	users.Post("/:id/deactivate", cfg.Users.Deactivate)
	users.Delete("/:id", cfg.Users.Delete)

	customers := api.Group("/customers")
	customers.Post("/", cfg.Customers.Create)
	customers.Get("/", cfg.Customers.List)
	customers.Get("/:id", cfg.Customers.Get)
	customers.Put("/:id", cfg.Customers.Update)
	customers.Delete("/:id", auth.RequireRole(domain.RoleAdmin), cfg.Customers.Delete)
	customers.Get("/:id/devices", cfg.Customers.ListDevices)

	devices := api.Group("/devices")
	devices.Post("/", cfg.Devices.Create)
	devices.Get("/", cfg.Devices.List)
	devices.Get("/:id", cfg.Devices.Get)
	devices.Put("/:id", cfg.Devices.Update)
	devices.Delete("/:id", auth.RequireRole(domain.RoleAdmin), cfg.Devices.Delete)

	workOrders := api.Group("/work-orders")
	workOrders.Post("/", cfg.WorkOrders.Create)
	workOrders.Post("/intake", cfg.WorkOrders.Intake)
	workOrders.Get("/", cfg.WorkOrders.List)
	workOrders.Get("/:id", cfg.WorkOrders.Get)
	workOrders.Put("/:id", cfg.WorkOrders.Update)
	workOrders.Post("/:id/status", cfg.WorkOrders.SetStatus)
	workOrders.Post("/:id/assign", auth.RequireRole(domain.RoleAdmin), cfg.WorkOrders.AssignTechnician)
	workOrders.Delete("/:id", auth.RequireRole(domain.RoleAdmin), cfg.WorkOrders.Delete)

	analytics := api.Group("/analytics")
	analytics.Get("/summary", cfg.Analytics.Summary)
	analytics.Get("/overview", cfg.Analytics.Overview)
	analytics.Get("/technicians", cfg.Analytics.TechnicianPerformance)
	analytics.Get("/job-types", cfg.Analytics.Distribution)
	analytics.Get("/recent-orders", cfg.Analytics.RecentOrders)

	api.Get("/history", cfg.Analytics.History)
	api.Post("/history/reload", cfg.Analytics.ReloadHistory)
}
