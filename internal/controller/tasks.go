package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"taskboard/internal/middleware"
	"taskboard/internal/models"
	"taskboard/internal/repository"
	"taskboard/pkg/logger"
)

// TaskController serves the /tasks endpoints. The owner scoping comes
// from the authenticated subject the auth middleware stored on the
// context, never from client input.
type TaskController struct {
	Tasks repository.TaskRepository
}

type taskCreateRequest struct {
	Title       string  `json:"title" binding:"required,min=1,max=255"`
	Description *string `json:"description"`
}

type taskUpdateRequest struct {
	Title       *string `json:"title" binding:"omitempty,min=1,max=255"`
	Description *string `json:"description"`
	IsCompleted *bool   `json:"is_completed"`
}

// Create persists a new task owned by the caller.
func (h *TaskController) Create(c *gin.Context) {
	ctx := c.Request.Context()
	var body taskCreateRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}
	task := &models.Task{
		Title:       body.Title,
		Description: body.Description,
		UserID:      c.GetString(middleware.UserKey),
	}
	if err := h.Tasks.Create(ctx, task); err != nil {
		logger.Error(ctx, "Create task failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create task"})
		return
	}
	c.JSON(http.StatusCreated, task)
}

// List returns every task the caller owns.
func (h *TaskController) List(c *gin.Context) {
	ctx := c.Request.Context()
	tasks, err := h.Tasks.ListByOwner(ctx, c.GetString(middleware.UserKey))
	if err != nil {
		logger.Error(ctx, "List tasks failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list tasks"})
		return
	}
	c.JSON(http.StatusOK, tasks)
}

// Get returns a single task by id, owner-scoped.
func (h *TaskController) Get(c *gin.Context) {
	ctx := c.Request.Context()
	id, ok := taskID(c)
	if !ok {
		return
	}
	task, err := h.Tasks.GetByID(ctx, id, c.GetString(middleware.UserKey))
	if err != nil {
		h.notFoundOr500(c, err, "Get task failed")
		return
	}
	c.JSON(http.StatusOK, task)
}

// Update applies a partial update. The body must carry at least one
// mutable field.
func (h *TaskController) Update(c *gin.Context) {
	ctx := c.Request.Context()
	id, ok := taskID(c)
	if !ok {
		return
	}
	var body taskUpdateRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}
	changes := models.TaskChanges{
		Title:       body.Title,
		Description: body.Description,
		IsCompleted: body.IsCompleted,
	}
	if changes.Empty() {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "No fields to update"})
		return
	}
	task, err := h.Tasks.Update(ctx, id, c.GetString(middleware.UserKey), changes)
	if err != nil {
		h.notFoundOr500(c, err, "Update task failed")
		return
	}
	c.JSON(http.StatusOK, task)
}

// Delete hard-deletes a task, owner-scoped.
func (h *TaskController) Delete(c *gin.Context) {
	ctx := c.Request.Context()
	id, ok := taskID(c)
	if !ok {
		return
	}
	if err := h.Tasks.Delete(ctx, id, c.GetString(middleware.UserKey)); err != nil {
		h.notFoundOr500(c, err, "Delete task failed")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Task deleted successfully"})
}

// ToggleComplete flips the completion flag.
func (h *TaskController) ToggleComplete(c *gin.Context) {
	ctx := c.Request.Context()
	id, ok := taskID(c)
	if !ok {
		return
	}
	task, err := h.Tasks.ToggleComplete(ctx, id, c.GetString(middleware.UserKey))
	if err != nil {
		h.notFoundOr500(c, err, "Toggle task failed")
		return
	}
	c.JSON(http.StatusOK, task)
}

// taskID validates the path id is a well-formed UUID before any query
// runs. Replies 422 and returns ok=false otherwise.
func taskID(c *gin.Context) (string, bool) {
	raw := c.Param("id")
	parsed, err := uuid.Parse(raw)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Invalid task ID format: " + raw})
		return "", false
	}
	return parsed.String(), true
}

// notFoundOr500 maps the uniform absent-or-foreign-owner case to 404
// and anything else to a generic 500.
func (h *TaskController) notFoundOr500(c *gin.Context, err error, logMsg string) {
	ctx := c.Request.Context()
	if errors.Is(err, repository.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
		return
	}
	logger.Error(ctx, logMsg, "error", err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
}
