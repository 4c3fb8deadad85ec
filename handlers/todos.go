package handlers

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/biosecret/portfolio-api/middleware"
	"github.com/biosecret/portfolio-api/models"
)

type createTodoRequest struct {
	Text    string `json:"text"`
	DueDate string `json:"dueDate"`
}

// updateTodoRequest uses pointers so omitted fields keep their stored value
type updateTodoRequest struct {
	Text      *string `json:"text"`
	Completed *bool   `json:"completed"`
	DueDate   *string `json:"dueDate"`
}

// HandleAllTodos godoc
// @Summary List the caller's todos
// @Tags todos
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.Todo
// @Router /api/todos [get]
func (h *Handler) HandleAllTodos(c *fiber.Ctx) error {
	todos, err := h.Store.ListTodos(c.UserContext(), middleware.CurrentUser(c).Username)
	if err != nil {
		return storeError(c, err, "")
	}
	return c.Status(fiber.StatusOK).JSON(todos)
}

// HandleCreateTodo godoc
// @Summary Create a todo owned by the caller
// @Tags todos
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body createTodoRequest true "Todo"
// @Success 201 {object} models.Todo
// @Failure 400 {object} errorResponse
// @Router /api/todos [post]
func (h *Handler) HandleCreateTodo(c *fiber.Ctx) error {
	var input createTodoRequest
	if err := c.BodyParser(&input); err != nil {
		return errorJSON(c, fiber.StatusBadRequest, err.Error())
	}

	text := strings.TrimSpace(input.Text)
	if text == "" {
		return errorJSON(c, fiber.StatusBadRequest, "Todo text is required.")
	}
	if !models.ValidDueDate(input.DueDate) {
		return errorJSON(c, fiber.StatusBadRequest, "Invalid due date.")
	}

	todo, err := h.Store.CreateTodo(c.UserContext(), models.Todo{
		Text:      text,
		User:      middleware.CurrentUser(c).Username,
		CreatedAt: time.Now().UTC(),
		DueDate:   input.DueDate,
	})
	if err != nil {
		return storeError(c, err, "")
	}

	return c.Status(fiber.StatusCreated).JSON(todo)
}

// HandleUpdateTodo godoc
// @Summary Update fields of one of the caller's todos
// @Tags todos
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Todo ID"
// @Param body body updateTodoRequest true "Fields to change"
// @Success 200 {object} models.Todo
// @Failure 400 {object} errorResponse
// @Failure 404 {object} errorResponse
// @Router /api/todos/{id} [put]
func (h *Handler) HandleUpdateTodo(c *fiber.Ctx) error {
	id, ok := paramID(c)
	if !ok {
		return errorJSON(c, fiber.StatusBadRequest, "Invalid ID.")
	}

	var input updateTodoRequest
	if err := c.BodyParser(&input); err != nil {
		return errorJSON(c, fiber.StatusBadRequest, err.Error())
	}
	if input.Text != nil && strings.TrimSpace(*input.Text) == "" {
		return errorJSON(c, fiber.StatusBadRequest, "Todo text is required.")
	}
	if input.DueDate != nil && !models.ValidDueDate(*input.DueDate) {
		return errorJSON(c, fiber.StatusBadRequest, "Invalid due date.")
	}

	todo, err := h.Store.UpdateTodo(c.UserContext(), middleware.CurrentUser(c).Username, id, func(t *models.Todo) error {
		if input.Text != nil {
			t.Text = strings.TrimSpace(*input.Text)
		}
		if input.Completed != nil {
			t.Completed = *input.Completed
		}
		if input.DueDate != nil && *input.DueDate != t.DueDate {
			t.DueDate = *input.DueDate
			t.Notified = false
		}
		return nil
	})
	if err != nil {
		return storeError(c, err, "Todo not found.")
	}

	return c.Status(fiber.StatusOK).JSON(todo)
}

// HandleDeleteTodo godoc
// @Summary Delete one of the caller's todos
// @Tags todos
// @Produce json
// @Security BearerAuth
// @Param id path int true "Todo ID"
// @Success 200 {object} messageResponse
// @Failure 404 {object} errorResponse
// @Router /api/todos/{id} [delete]
func (h *Handler) HandleDeleteTodo(c *fiber.Ctx) error {
	id, ok := paramID(c)
	if !ok {
		return errorJSON(c, fiber.StatusBadRequest, "Invalid ID.")
	}

	if err := h.Store.DeleteTodo(c.UserContext(), middleware.CurrentUser(c).Username, id); err != nil {
		return storeError(c, err, "Todo not found.")
	}
	return c.Status(fiber.StatusOK).JSON(messageResponse{Message: "Todo deleted."})
}
