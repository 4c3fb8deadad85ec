package handlers

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/biosecret/portfolio-api/database"
	"github.com/biosecret/portfolio-api/middleware"
	"github.com/biosecret/portfolio-api/models"
)

type commentRequest struct {
	Text string `json:"text"`
}

// HandleProjectComments godoc
// @Summary List the comments of a project
// @Tags comments
// @Produce json
// @Param id path int true "Project ID"
// @Success 200 {array} models.Comment
// @Router /api/projects/{id}/comments [get]
func (h *Handler) HandleProjectComments(c *fiber.Ctx) error {
	id, ok := paramID(c)
	if !ok {
		return errorJSON(c, fiber.StatusBadRequest, "Invalid ID.")
	}

	comments, err := h.Store.ListComments(c.UserContext(), id)
	if err != nil {
		return storeError(c, err, "")
	}
	return c.Status(fiber.StatusOK).JSON(comments)
}

// HandleCreateComment godoc
// @Summary Comment on a project as the caller
// @Tags comments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Project ID"
// @Param body body commentRequest true "Comment"
// @Success 201 {object} models.Comment
// @Failure 400 {object} errorResponse
// @Failure 404 {object} errorResponse
// @Router /api/projects/{id}/comments [post]
func (h *Handler) HandleCreateComment(c *fiber.Ctx) error {
	projectID, ok := paramID(c)
	if !ok {
		return errorJSON(c, fiber.StatusBadRequest, "Invalid ID.")
	}

	var input commentRequest
	if err := c.BodyParser(&input); err != nil {
		return errorJSON(c, fiber.StatusBadRequest, err.Error())
	}
	text := strings.TrimSpace(input.Text)
	if text == "" {
		return errorJSON(c, fiber.StatusBadRequest, "Comment text is required.")
	}

	comment, err := h.Store.CreateComment(c.UserContext(), models.Comment{
		ProjectID: projectID,
		Text:      text,
		Author:    middleware.CurrentUser(c).Username,
		CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		return storeError(c, err, "Project not found.")
	}
	return c.Status(fiber.StatusCreated).JSON(comment)
}

// HandleGetOneComment godoc
// @Summary Get a comment
// @Tags comments
// @Produce json
// @Param id path int true "Comment ID"
// @Success 200 {object} models.Comment
// @Failure 404 {object} errorResponse
// @Router /api/comments/{id} [get]
func (h *Handler) HandleGetOneComment(c *fiber.Ctx) error {
	id, ok := paramID(c)
	if !ok {
		return errorJSON(c, fiber.StatusBadRequest, "Invalid ID.")
	}

	comment, err := h.Store.GetComment(c.UserContext(), id)
	if err != nil {
		return storeError(c, err, "Comment not found.")
	}
	return c.Status(fiber.StatusOK).JSON(comment)
}

// HandleUpdateComment godoc
// @Summary Edit a comment written by the caller
// @Tags comments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Comment ID"
// @Param body body commentRequest true "New text"
// @Success 200 {object} models.Comment
// @Failure 403 {object} errorResponse
// @Failure 404 {object} errorResponse
// @Router /api/comments/{id} [put]
func (h *Handler) HandleUpdateComment(c *fiber.Ctx) error {
	id, ok := paramID(c)
	if !ok {
		return errorJSON(c, fiber.StatusBadRequest, "Invalid ID.")
	}

	var input commentRequest
	if err := c.BodyParser(&input); err != nil {
		return errorJSON(c, fiber.StatusBadRequest, err.Error())
	}
	text := strings.TrimSpace(input.Text)
	if text == "" {
		return errorJSON(c, fiber.StatusBadRequest, "Comment text is required.")
	}

	user := middleware.CurrentUser(c).Username
	comment, err := h.Store.UpdateComment(c.UserContext(), id, func(cm *models.Comment) error {
		if cm.Author != user {
			return database.ErrForbidden
		}
		cm.Text = text
		return nil
	})
	if err != nil {
		return storeError(c, err, "Comment not found.")
	}
	return c.Status(fiber.StatusOK).JSON(comment)
}

// HandleDeleteComment godoc
// @Summary Delete a comment written by the caller
// @Tags comments
// @Produce json
// @Security BearerAuth
// @Param id path int true "Comment ID"
// @Success 200 {object} messageResponse
// @Failure 403 {object} errorResponse
// @Failure 404 {object} errorResponse
// @Router /api/comments/{id} [delete]
func (h *Handler) HandleDeleteComment(c *fiber.Ctx) error {
	id, ok := paramID(c)
	if !ok {
		return errorJSON(c, fiber.StatusBadRequest, "Invalid ID.")
	}

	user := middleware.CurrentUser(c).Username
	err := h.Store.DeleteComment(c.UserContext(), id, func(cm models.Comment) error {
		if cm.Author != user {
			return database.ErrForbidden
		}
		return nil
	})
	if err != nil {
		return storeError(c, err, "Comment not found.")
	}
	return c.Status(fiber.StatusOK).JSON(messageResponse{Message: "Comment deleted."})
}
