package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/taskly/taskly-api/internal/core/domain"
	"github.com/taskly/taskly-api/internal/core/ports"
)

// TaskHandler handles HTTP requests for the caller's tasks.
type TaskHandler struct {
	service ports.TaskService
}

func NewTaskHandler(service ports.TaskService) *TaskHandler {
	return &TaskHandler{service: service}
}

// Create handles POST /tasks.
//
// @Summary      Create a task
// @Tags         tasks
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createTaskRequest  true  "Task"
// @Success      201   {object}  taskResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Router       /tasks [post]
func (h *TaskHandler) Create(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	var req createTaskRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	task, err := h.service.Create(c.Request().Context(), ports.CreateTaskInput{
		UserID:      userID,
		Title:       req.Title,
		Description: req.Description,
		StartAt:     req.StartAt,
		EndAt:       *req.EndAt,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toTaskResponse(task))
}

// List handles GET /tasks.
//
// @Summary      List my tasks
// @Tags         tasks
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  taskListResponse
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Router       /tasks [get]
func (h *TaskHandler) List(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	tasks, err := h.service.ListForUser(c.Request().Context(), userID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toTaskList(tasks))
}

// UpdateStatus handles PATCH /tasks/:id.
//
// @Summary      Change task status
// @Tags         tasks
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string               true  "Task ID"
// @Param        body  body      updateStatusRequest  true  "New status (pending or completed)"
// @Success      200   {object}  taskResponse
// @Failure      400   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /tasks/{id} [patch]
func (h *TaskHandler) UpdateStatus(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	var req updateStatusRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	task, err := h.service.UpdateStatus(c.Request().Context(), c.Param("id"), userID, domain.TaskStatus(req.Status))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toTaskResponse(task))
}

// Update handles PUT /tasks/:id.
//
// @Summary      Edit task details
// @Tags         tasks
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string             true  "Task ID"
// @Param        body  body      updateTaskRequest  true  "Fields to change"
// @Success      200   {object}  taskResponse
// @Failure      400   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /tasks/{id} [put]
func (h *TaskHandler) Update(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	var req updateTaskRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	task, err := h.service.UpdateDetails(c.Request().Context(), ports.UpdateTaskInput{
		TaskID:      c.Param("id"),
		UserID:      userID,
		Title:       req.Title,
		Description: req.Description,
		StartAt:     req.StartAt,
		EndAt:       req.EndAt,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toTaskResponse(task))
}
