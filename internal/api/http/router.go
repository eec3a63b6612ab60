package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/task-tracker/internal/api/http/handlers"
	"github.com/spec-kit/task-tracker/internal/auth"
	"github.com/spec-kit/task-tracker/internal/domain"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Accounts       *handlers.AccountsHandler
	Roles          *handlers.RolesHandler
	Tasks          *handlers.TasksHandler
	Teams          *handlers.TeamsHandler
	Documents      *handlers.DocumentsHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	accounts := app.Group("/accounts")
	accounts.Post("/register", cfg.Accounts.Register)
	accounts.Post("/login", cfg.Accounts.Login)
	accounts.Get("/emailexists", cfg.Accounts.EmailExists)
	accounts.Get("", cfg.AuthMiddleware.Handle, auth.RequireAuthenticated(), cfg.Accounts.CurrentUser)

	admin := app.Group("", cfg.AuthMiddleware.Handle, auth.RequireRole(domain.RoleAdmin))
	admin.Post("/roles/add", cfg.Roles.ModifyRole)
	admin.Post("/teams", cfg.Teams.Create)
	admin.Get("/teams", cfg.Teams.List)
	admin.Post("/teams/assign", cfg.Teams.Assign)

	tasks := app.Group("/tasks", cfg.AuthMiddleware.Handle, auth.RequireAuthenticated())
	tasks.Get("", cfg.Tasks.GetOwnPending)
	tasks.Get("/all", cfg.Tasks.ListByTeam)
	tasks.Get("/:id", cfg.Tasks.GetByID)
	tasks.Post("", cfg.Tasks.Create)
	tasks.Put("", cfg.Tasks.Update)
	tasks.Post("/:id/comment", cfg.Tasks.AddComment)

	documents := app.Group("/documents", cfg.AuthMiddleware.Handle, auth.RequireAuthenticated())
	documents.Post("/:taskId/attach", cfg.Documents.Attach)
	documents.Get("/:id", cfg.Documents.Get)
}
