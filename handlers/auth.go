package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/biosecret/portfolio-api/auth"
	"github.com/biosecret/portfolio-api/middleware"
	"github.com/biosecret/portfolio-api/models"
)

type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Email    string `json:"email,omitempty"`
}

type loginResponse struct {
	Token string            `json:"token"`
	User  models.PublicUser `json:"user"`
}

type profileResponse struct {
	Message string       `json:"message"`
	User    *auth.Claims `json:"user"`
}

// RegisterHandler godoc
// @Summary Register a new user
// @Tags auth
// @Accept json
// @Produce json
// @Param body body credentialsRequest true "Credentials"
// @Success 201 {object} messageResponse
// @Failure 400 {object} errorResponse
// @Failure 409 {object} errorResponse
// @Router /api/register [post]
func (h *Handler) RegisterHandler(c *fiber.Ctx) error {
	var input credentialsRequest
	if err := c.BodyParser(&input); err != nil {
		return errorJSON(c, fiber.StatusBadRequest, err.Error())
	}

	err := h.Auth.Register(c.UserContext(), input.Username, input.Password, input.Email)
	switch {
	case errors.Is(err, auth.ErrMissingCredentials):
		return errorJSON(c, fiber.StatusBadRequest, "Username and password are required.")
	case errors.Is(err, auth.ErrUserExists):
		return errorJSON(c, fiber.StatusConflict, "Username already exists.")
	case err != nil:
		return storeError(c, err, "")
	}

	return c.Status(fiber.StatusCreated).JSON(messageResponse{Message: "User registered successfully."})
}

// LoginHandler godoc
// @Summary Log in and receive a bearer token
// @Tags auth
// @Accept json
// @Produce json
// @Param body body credentialsRequest true "Credentials"
// @Success 200 {object} loginResponse
// @Failure 401 {object} errorResponse
// @Router /api/login [post]
func (h *Handler) LoginHandler(c *fiber.Ctx) error {
	var input credentialsRequest
	if err := c.BodyParser(&input); err != nil {
		return errorJSON(c, fiber.StatusBadRequest, err.Error())
	}

	token, user, err := h.Auth.Login(c.UserContext(), input.Username, input.Password)
	if errors.Is(err, auth.ErrInvalidCredentials) {
		return errorJSON(c, fiber.StatusUnauthorized, "Invalid credentials.")
	}
	if err != nil {
		return storeError(c, err, "")
	}

	return c.Status(fiber.StatusOK).JSON(loginResponse{Token: token, User: user})
}

// HandleProfile godoc
// @Summary Echo the claims of the caller's token
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} profileResponse
// @Failure 401 {object} errorResponse
// @Failure 403 {object} errorResponse
// @Router /api/profile [get]
func (h *Handler) HandleProfile(c *fiber.Ctx) error {
	return c.JSON(profileResponse{
		Message: "This is a protected profile route.",
		User:    middleware.CurrentUser(c),
	})
}
