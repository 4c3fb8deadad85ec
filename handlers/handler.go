package handlers

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"

	"github.com/biosecret/portfolio-api/auth"
	"github.com/biosecret/portfolio-api/database"
	"github.com/biosecret/portfolio-api/notify"
)

// Handler holds what the HTTP handlers need
type Handler struct {
	Store database.Store
	Auth  *auth.Service
	Hub   *notify.Hub
}

func New(store database.Store, authService *auth.Service, hub *notify.Hub) *Handler {
	return &Handler{Store: store, Auth: authService, Hub: hub}
}

type errorResponse struct {
	Error string `json:"error"`
}

type messageResponse struct {
	Message string `json:"message"`
}

func errorJSON(c *fiber.Ctx, status int, msg string) error {
	return c.Status(status).JSON(errorResponse{Error: msg})
}

// paramID parses the :id route parameter
func paramID(c *fiber.Ctx) (int64, bool) {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}

// storeError maps store errors to responses. notFound is the message for ErrNotFound.
func storeError(c *fiber.Ctx, err error, notFound string) error {
	switch {
	case errors.Is(err, database.ErrNotFound):
		return errorJSON(c, fiber.StatusNotFound, notFound)
	case errors.Is(err, database.ErrForbidden):
		return errorJSON(c, fiber.StatusForbidden, "You can only modify your own comments.")
	case errors.Is(err, database.ErrConflict):
		return errorJSON(c, fiber.StatusConflict, err.Error())
	default:
		log.Errorf("%s %s: %v", c.Method(), c.Path(), err)
		return errorJSON(c, fiber.StatusInternalServerError, err.Error())
	}
}

// HandleHealthCheck godoc
// @Summary Liveness probe
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func HandleHealthCheck(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"status": "ok"})
}
