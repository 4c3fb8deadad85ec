package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/biosecret/portfolio-api/handlers"
	"github.com/biosecret/portfolio-api/middleware"
)

// SetupRoutes registers every route. limiter may be nil to disable rate limiting
// of the register and login endpoints.
func SetupRoutes(app *fiber.App, h *handlers.Handler, limiter *middleware.RateLimiter) {
	app.Get("/health", handlers.HandleHealthCheck)

	api := app.Group("/api")
	requireAuth := middleware.JWTMiddleware(h.Auth)

	var throttle []fiber.Handler
	if limiter != nil {
		throttle = append(throttle, limiter.Handler())
	}
	api.Post("/register", append(throttle, h.RegisterHandler)...)
	api.Post("/login", append(throttle, h.LoginHandler)...)
	api.Get("/profile", requireAuth, h.HandleProfile)

	todos := api.Group("/todos", requireAuth)
	todos.Get("/", h.HandleAllTodos)
	todos.Post("/", h.HandleCreateTodo)
	todos.Put("/:id", h.HandleUpdateTodo)
	todos.Delete("/:id", h.HandleDeleteTodo)
	api.Get("/events", requireAuth, h.HandleEvents)

	api.Get("/projects", h.HandleAllProjects)
	api.Get("/projects/:id", h.HandleGetOneProject)
	api.Post("/projects", requireAuth, h.HandleCreateProject)
	api.Put("/projects/:id", requireAuth, h.HandleUpdateProject)
	api.Delete("/projects/:id", requireAuth, h.HandleDeleteProject)
	api.Post("/projects/:id/like", requireAuth, h.HandleLikeProject)
	api.Post("/projects/:id/dislike", requireAuth, h.HandleDislikeProject)

	api.Get("/projects/:id/comments", h.HandleProjectComments)
	api.Post("/projects/:id/comments", requireAuth, h.HandleCreateComment)
	api.Get("/comments/:id", h.HandleGetOneComment)
	api.Put("/comments/:id", requireAuth, h.HandleUpdateComment)
	api.Delete("/comments/:id", requireAuth, h.HandleDeleteComment)
}
