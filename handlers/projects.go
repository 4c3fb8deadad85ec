package handlers

import (
	"sort"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/biosecret/portfolio-api/models"
)

type createProjectRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Image       string `json:"image"`
}

// updateProjectRequest uses pointers so omitted fields keep their stored value
type updateProjectRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Image       *string `json:"image"`
	Likes       *int    `json:"likes"`
	Dislikes    *int    `json:"dislikes"`
}

// HandleAllProjects godoc
// @Summary List projects
// @Tags projects
// @Produce json
// @Param sort query string false "likes to order by likes, most first"
// @Success 200 {array} models.Project
// @Router /api/projects [get]
func (h *Handler) HandleAllProjects(c *fiber.Ctx) error {
	projects, err := h.Store.ListProjects(c.UserContext())
	if err != nil {
		return storeError(c, err, "")
	}

	if c.Query("sort") == "likes" {
		sort.SliceStable(projects, func(i, j int) bool {
			return projects[i].Likes > projects[j].Likes
		})
	}
	return c.Status(fiber.StatusOK).JSON(projects)
}

// HandleGetOneProject godoc
// @Summary Get a project
// @Tags projects
// @Produce json
// @Param id path int true "Project ID"
// @Success 200 {object} models.Project
// @Failure 404 {object} errorResponse
// @Router /api/projects/{id} [get]
func (h *Handler) HandleGetOneProject(c *fiber.Ctx) error {
	id, ok := paramID(c)
	if !ok {
		return errorJSON(c, fiber.StatusBadRequest, "Invalid ID.")
	}

	project, err := h.Store.GetProject(c.UserContext(), id)
	if err != nil {
		return storeError(c, err, "Project not found.")
	}
	return c.Status(fiber.StatusOK).JSON(project)
}

// HandleCreateProject godoc
// @Summary Create a project
// @Tags projects
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body createProjectRequest true "Project"
// @Success 201 {object} models.Project
// @Failure 400 {object} errorResponse
// @Router /api/projects [post]
func (h *Handler) HandleCreateProject(c *fiber.Ctx) error {
	var input createProjectRequest
	if err := c.BodyParser(&input); err != nil {
		return errorJSON(c, fiber.StatusBadRequest, err.Error())
	}

	title := strings.TrimSpace(input.Title)
	if title == "" {
		return errorJSON(c, fiber.StatusBadRequest, "Project title is required.")
	}

	project, err := h.Store.CreateProject(c.UserContext(), models.Project{
		Title:       title,
		Description: input.Description,
		Image:       input.Image,
	})
	if err != nil {
		return storeError(c, err, "")
	}
	return c.Status(fiber.StatusCreated).JSON(project)
}

// HandleUpdateProject godoc
// @Summary Update fields of a project
// @Tags projects
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Project ID"
// @Param body body updateProjectRequest true "Fields to change"
// @Success 200 {object} models.Project
// @Failure 400 {object} errorResponse
// @Failure 404 {object} errorResponse
// @Router /api/projects/{id} [put]
func (h *Handler) HandleUpdateProject(c *fiber.Ctx) error {
	id, ok := paramID(c)
	if !ok {
		return errorJSON(c, fiber.StatusBadRequest, "Invalid ID.")
	}

	var input updateProjectRequest
	if err := c.BodyParser(&input); err != nil {
		return errorJSON(c, fiber.StatusBadRequest, err.Error())
	}
	if input.Title != nil && strings.TrimSpace(*input.Title) == "" {
		return errorJSON(c, fiber.StatusBadRequest, "Project title is required.")
	}
	if (input.Likes != nil && *input.Likes < 0) || (input.Dislikes != nil && *input.Dislikes < 0) {
		return errorJSON(c, fiber.StatusBadRequest, "Likes and dislikes cannot be negative.")
	}

	project, err := h.Store.UpdateProject(c.UserContext(), id, func(p *models.Project) error {
		if input.Title != nil {
			p.Title = strings.TrimSpace(*input.Title)
		}
		if input.Description != nil {
			p.Description = *input.Description
		}
		if input.Image != nil {
			p.Image = *input.Image
		}
		if input.Likes != nil {
			p.Likes = *input.Likes
		}
		if input.Dislikes != nil {
			p.Dislikes = *input.Dislikes
		}
		return nil
	})
	if err != nil {
		return storeError(c, err, "Project not found.")
	}
	return c.Status(fiber.StatusOK).JSON(project)
}

// HandleDeleteProject godoc
// @Summary Delete a project and its comments
// @Tags projects
// @Produce json
// @Security BearerAuth
// @Param id path int true "Project ID"
// @Success 200 {object} messageResponse
// @Failure 404 {object} errorResponse
// @Router /api/projects/{id} [delete]
func (h *Handler) HandleDeleteProject(c *fiber.Ctx) error {
	id, ok := paramID(c)
	if !ok {
		return errorJSON(c, fiber.StatusBadRequest, "Invalid ID.")
	}

	if err := h.Store.DeleteProject(c.UserContext(), id); err != nil {
		return storeError(c, err, "Project not found.")
	}
	return c.Status(fiber.StatusOK).JSON(messageResponse{Message: "Project deleted."})
}

// HandleLikeProject godoc
// @Summary Add a like to a project
// @Tags projects
// @Produce json
// @Security BearerAuth
// @Param id path int true "Project ID"
// @Success 200 {object} models.Project
// @Failure 404 {object} errorResponse
// @Router /api/projects/{id}/like [post]
func (h *Handler) HandleLikeProject(c *fiber.Ctx) error {
	return h.vote(c, func(p *models.Project) { p.Likes++ })
}

// HandleDislikeProject godoc
// @Summary Add a dislike to a project
// @Tags projects
// @Produce json
// @Security BearerAuth
// @Param id path int true "Project ID"
// @Success 200 {object} models.Project
// @Failure 404 {object} errorResponse
// @Router /api/projects/{id}/dislike [post]
func (h *Handler) HandleDislikeProject(c *fiber.Ctx) error {
	return h.vote(c, func(p *models.Project) { p.Dislikes++ })
}

func (h *Handler) vote(c *fiber.Ctx, apply func(*models.Project)) error {
	id, ok := paramID(c)
	if !ok {
		return errorJSON(c, fiber.StatusBadRequest, "Invalid ID.")
	}

	project, err := h.Store.UpdateProject(c.UserContext(), id, func(p *models.Project) error {
		apply(p)
		return nil
	})
	if err != nil {
		return storeError(c, err, "Project not found.")
	}
	return c.Status(fiber.StatusOK).JSON(project)
}
