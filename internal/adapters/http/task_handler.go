package http

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/taskboard/core/internal/domain/entities"
	"github.com/taskboard/core/internal/infrastructure/logger"
	"github.com/taskboard/core/internal/ports"
)

const dateLayout = "2006-01-02"

// TaskHandler handles task requests
type TaskHandler struct {
	taskService ports.TaskService
	logger      *logger.Logger
}

// NewTaskHandler creates a new task handler
func NewTaskHandler(taskService ports.TaskService, logger *logger.Logger) *TaskHandler {
	return &TaskHandler{
		taskService: taskService,
		logger:      logger,
	}
}

// CreateTask creates a task owned by the caller
func (h *TaskHandler) CreateTask(c echo.Context) error {
	var req ports.CreateTaskRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	task, err := h.taskService.CreateTask(c.Request().Context(), getUserIDFromContext(c), req)
	if err != nil {
		h.logger.Errorw("Create task failed", "error", err)
		return domainError(err)
	}

	return c.JSON(http.StatusCreated, task)
}

// GetTask returns a task visible to the caller
func (h *TaskHandler) GetTask(c echo.Context) error {
	id, err := intParam(c, "id")
	if err != nil {
		return err
	}

	task, err := h.taskService.GetTask(c.Request().Context(), getUserIDFromContext(c), id)
	if err != nil {
		return domainError(err)
	}

	return c.JSON(http.StatusOK, task)
}

// UpdateTask updates task attributes
func (h *TaskHandler) UpdateTask(c echo.Context) error {
	id, err := intParam(c, "id")
	if err != nil {
		return err
	}

	var req ports.UpdateTaskRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	task, err := h.taskService.UpdateTask(c.Request().Context(), getUserIDFromContext(c), id, req)
	if err != nil {
		return domainError(err)
	}

	return c.JSON(http.StatusOK, task)
}

// DeleteTask deletes a task
func (h *TaskHandler) DeleteTask(c echo.Context) error {
	id, err := intParam(c, "id")
	if err != nil {
		return err
	}

	if err := h.taskService.DeleteTask(c.Request().Context(), getUserIDFromContext(c), id); err != nil {
		return domainError(err)
	}

	return c.NoContent(http.StatusNoContent)
}

// ListTasks lists the caller's visible tasks with optional filters
func (h *TaskHandler) ListTasks(c echo.Context) error {
	filter, err := parseTaskFilter(c)
	if err != nil {
		return err
	}

	tasks, err := h.taskService.ListTasks(c.Request().Context(), getUserIDFromContext(c), filter)
	if err != nil {
		h.logger.Errorw("List tasks failed", "error", err)
		return domainError(err)
	}

	return c.JSON(http.StatusOK, tasks)
}

// AddCollaborator grants a user task-level access
func (h *TaskHandler) AddCollaborator(c echo.Context) error {
	id, err := intParam(c, "id")
	if err != nil {
		return err
	}

	var req ports.CollaboratorRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.taskService.AddCollaborator(c.Request().Context(), getUserIDFromContext(c), id, req.UserID); err != nil {
		return domainError(err)
	}

	return c.JSON(http.StatusOK, MessageResponse{Message: "Collaborator added"})
}

// RemoveCollaborator revokes a user's task-level access
func (h *TaskHandler) RemoveCollaborator(c echo.Context) error {
	id, err := intParam(c, "id")
	if err != nil {
		return err
	}

	var req ports.CollaboratorRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.taskService.RemoveCollaborator(c.Request().Context(), getUserIDFromContext(c), id, req.UserID); err != nil {
		return domainError(err)
	}

	return c.JSON(http.StatusOK, MessageResponse{Message: "Collaborator removed"})
}

// Calendar returns visible tasks overlapping a date range
func (h *TaskHandler) Calendar(c echo.Context) error {
	from, err := parseDateParam(c, "start", time.Now().AddDate(0, -1, 0))
	if err != nil {
		return err
	}
	to, err := parseDateParam(c, "end", time.Now().AddDate(0, 1, 0))
	if err != nil {
		return err
	}

	tasks, err := h.taskService.Calendar(c.Request().Context(), getUserIDFromContext(c), from, to)
	if err != nil {
		h.logger.Errorw("Calendar failed", "error", err)
		return domainError(err)
	}

	return c.JSON(http.StatusOK, tasks)
}

// Upcoming returns visible tasks due within the next week
func (h *TaskHandler) Upcoming(c echo.Context) error {
	tasks, err := h.taskService.Upcoming(c.Request().Context(), getUserIDFromContext(c))
	if err != nil {
		h.logger.Errorw("Upcoming tasks failed", "error", err)
		return domainError(err)
	}

	return c.JSON(http.StatusOK, tasks)
}

func parseDateParam(c echo.Context, name string, fallback time.Time) (time.Time, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return fallback, nil
	}

	value, err := time.Parse(dateLayout, raw)
	if err != nil {
		return time.Time{}, echo.NewHTTPError(http.StatusBadRequest, "Invalid "+name+" date, expected YYYY-MM-DD")
	}
	return value, nil
}

func parseTaskFilter(c echo.Context) (ports.TaskFilter, error) {
	var filter ports.TaskFilter

	if search := c.QueryParam("search"); search != "" {
		filter.Search = &search
	}

	if raw := c.QueryParam("status"); raw != "" {
		status := entities.TaskStatus(raw)
		if !status.IsValid() {
			return filter, echo.NewHTTPError(http.StatusBadRequest, "Invalid status filter")
		}
		filter.Status = &status
	}

	if raw := c.QueryParam("priority"); raw != "" {
		priority := entities.Priority(raw)
		if !priority.IsValid() {
			return filter, echo.NewHTTPError(http.StatusBadRequest, "Invalid priority filter")
		}
		filter.Priority = &priority
	}

	if raw := c.QueryParam("board"); raw != "" {
		boardID, err := strconv.Atoi(raw)
		if err != nil {
			return filter, echo.NewHTTPError(http.StatusBadRequest, "Invalid board filter")
		}
		filter.BoardID = &boardID
	}

	if raw := c.QueryParam("from"); raw != "" {
		from, err := time.Parse(dateLayout, raw)
		if err != nil {
			return filter, echo.NewHTTPError(http.StatusBadRequest, "Invalid from date, expected YYYY-MM-DD")
		}
		filter.From = &from
	}

	if raw := c.QueryParam("to"); raw != "" {
		to, err := time.Parse(dateLayout, raw)
		if err != nil {
			return filter, echo.NewHTTPError(http.StatusBadRequest, "Invalid to date, expected YYYY-MM-DD")
		}
		filter.To = &to
	}

	filter.SortBy = c.QueryParam("sort_by")
	filter.SortOrder = c.QueryParam("sort_order")

	if raw := c.QueryParam("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 1 {
			return filter, echo.NewHTTPError(http.StatusBadRequest, "Invalid limit parameter")
		}
		filter.Limit = limit
	}

	if raw := c.QueryParam("offset"); raw != "" {
		offset, err := strconv.Atoi(raw)
		if err != nil || offset < 0 {
			return filter, echo.NewHTTPError(http.StatusBadRequest, "Invalid offset parameter")
		}
		filter.Offset = offset
	}

	return filter, nil
}
