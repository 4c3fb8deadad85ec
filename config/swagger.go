package config

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"

	_ "github.com/biosecret/portfolio-api/docs"
)

// AddSwaggerRoutes serves the Swagger UI and doc.json under /swagger.
// The bearer token entered in the UI survives page reloads.
func AddSwaggerRoutes(app *fiber.App) {
	app.Get("/swagger/*", swagger.New(swagger.Config{
		Title:                "Portfolio API",
		DeepLinking:          true,
		DocExpansion:         "list",
		PersistAuthorization: true,
	}))
}
