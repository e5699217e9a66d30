package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"taskhive/internal/auth"
	"taskhive/internal/model"
	"taskhive/internal/repository"
	"taskhive/internal/service"
)

const dueDateLayout = "2006-01-02"

// TaskHandler handles task endpoints. All routes require a resolved identity;
// every operation is scoped to the calling user.
type TaskHandler struct {
	taskService service.TaskService
}

// NewTaskHandler creates a new task handler.
func NewTaskHandler(taskService service.TaskService) *TaskHandler {
	return &TaskHandler{taskService: taskService}
}

// CreateTaskRequest represents a task creation request.
type CreateTaskRequest struct {
	Title       string `json:"title" validate:"required,max=255"`
	Description string `json:"description" validate:"max=1000"`
	Status      string `json:"status" validate:"omitempty,oneof=TODO IN_PROGRESS COMPLETED"`
	Priority    string `json:"priority" validate:"omitempty,oneof=LOW MEDIUM HIGH"`
	DueDate     string `json:"due_date" validate:"omitempty,datetime=2006-01-02"`
}

// UpdateTaskRequest represents a partial task update. Absent fields are left
// unchanged.
type UpdateTaskRequest struct {
	Title       *string `json:"title" validate:"omitempty,min=1,max=255"`
	Description *string `json:"description" validate:"omitempty,max=1000"`
	Status      *string `json:"status" validate:"omitempty,oneof=TODO IN_PROGRESS COMPLETED"`
	Priority    *string `json:"priority" validate:"omitempty,oneof=LOW MEDIUM HIGH"`
	DueDate     *string `json:"due_date" validate:"omitempty,datetime=2006-01-02"`
}

// TaskResponse represents a task in API responses.
type TaskResponse struct {
	ID          uint           `json:"id"`
	Title       string         `json:"title"`
	Description string         `json:"description,omitempty"`
	Status      model.Status   `json:"status"`
	Priority    model.Priority `json:"priority"`
	DueDate     *string        `json:"due_date,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	Username    string         `json:"username"`
}

func taskToResponse(task model.Task, username string) TaskResponse {
	resp := TaskResponse{
		ID:          task.ID,
		Title:       task.Title,
		Description: task.Description,
		Status:      task.Status,
		Priority:    task.Priority,
		CreatedAt:   task.CreatedAt,
		UpdatedAt:   task.UpdatedAt,
		Username:    username,
	}
	if task.DueDate != nil {
		v := task.DueDate.Format(dueDateLayout)
		resp.DueDate = &v
	}
	return resp
}

// List godoc
// @Summary List the caller's tasks
// @Tags tasks
// @Produce json
// @Security BearerAuth
// @Param status query string false "Status filter" Enums(TODO, IN_PROGRESS, COMPLETED)
// @Param priority query string false "Priority filter" Enums(LOW, MEDIUM, HIGH)
// @Param overdue query bool false "Only overdue tasks"
// @Param sort query string false "Set to due_date for due-date ascending order"
// @Success 200 {array} TaskResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Router /tasks [get]
func (h *TaskHandler) List(c echo.Context) error {
	user, ok := auth.CurrentUser(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
	}

	overdue := false
	if raw := c.QueryParam("overdue"); raw != "" {
		parsed, err := strconv.ParseBool(raw)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid overdue flag")
		}
		overdue = parsed
	}

	var tasks []model.Task
	var err error
	if overdue {
		tasks, err = h.taskService.ListOverdue(c.Request().Context(), user.ID)
	} else {
		filter, ferr := filterFromQuery(c)
		if ferr != nil {
			return ferr
		}
		tasks, err = h.taskService.ListFiltered(c.Request().Context(), user.ID, filter)
	}
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, tasksToResponse(tasks, user.Username))
}

// ListDue godoc
// @Summary List tasks due within a date range
// @Tags tasks
// @Produce json
// @Security BearerAuth
// @Param from query string true "Range start (YYYY-MM-DD)"
// @Param to query string true "Range end (YYYY-MM-DD)"
// @Success 200 {array} TaskResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Router /tasks/due [get]
func (h *TaskHandler) ListDue(c echo.Context) error {
	user, ok := auth.CurrentUser(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
	}

	from, err := time.Parse(dueDateLayout, c.QueryParam("from"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid from date, expected YYYY-MM-DD")
	}
	to, err := time.Parse(dueDateLayout, c.QueryParam("to"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid to date, expected YYYY-MM-DD")
	}

	tasks, err := h.taskService.ListDueBetween(c.Request().Context(), user.ID, from, to)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, tasksToResponse(tasks, user.Username))
}

// Get godoc
// @Summary Get a task by id
// @Tags tasks
// @Produce json
// @Security BearerAuth
// @Param id path int true "Task ID"
// @Success 200 {object} TaskResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /tasks/{id} [get]
func (h *TaskHandler) Get(c echo.Context) error {
	user, ok := auth.CurrentUser(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
	}

	taskID, err := taskIDParam(c)
	if err != nil {
		return err
	}

	task, err := h.taskService.Get(c.Request().Context(), user.ID, taskID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, taskToResponse(*task, user.Username))
}

// Create godoc
// @Summary Create a task
// @Tags tasks
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateTaskRequest true "Task data"
// @Success 201 {object} TaskResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Router /tasks [post]
func (h *TaskHandler) Create(c echo.Context) error {
	user, ok := auth.CurrentUser(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
	}

	var req CreateTaskRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	draft := service.TaskDraft{
		Title:       req.Title,
		Description: req.Description,
		Status:      model.Status(req.Status),
		Priority:    model.Priority(req.Priority),
	}
	if req.DueDate != "" {
		due, err := time.Parse(dueDateLayout, req.DueDate)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid due date, expected YYYY-MM-DD")
		}
		draft.DueDate = &due
	}

	task, err := h.taskService.Create(c.Request().Context(), user.ID, draft)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, taskToResponse(*task, user.Username))
}

// Update godoc
// @Summary Update a task (partial)
// @Tags tasks
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Task ID"
// @Param request body UpdateTaskRequest true "Fields to change"
// @Success 200 {object} TaskResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /tasks/{id} [put]
func (h *TaskHandler) Update(c echo.Context) error {
	user, ok := auth.CurrentUser(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
	}

	taskID, err := taskIDParam(c)
	if err != nil {
		return err
	}

	var req UpdateTaskRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	patch := service.TaskPatch{
		Title:       req.Title,
		Description: req.Description,
	}
	if req.Status != nil {
		status := model.Status(*req.Status)
		patch.Status = &status
	}
	if req.Priority != nil {
		priority := model.Priority(*req.Priority)
		patch.Priority = &priority
	}
	if req.DueDate != nil {
		due, err := time.Parse(dueDateLayout, *req.DueDate)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid due date, expected YYYY-MM-DD")
		}
		patch.DueDate = &due
	}

	task, err := h.taskService.Update(c.Request().Context(), user.ID, taskID, patch)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, taskToResponse(*task, user.Username))
}

// Complete godoc
// @Summary Mark a task completed
// @Tags tasks
// @Produce json
// @Security BearerAuth
// @Param id path int true "Task ID"
// @Success 200 {object} TaskResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /tasks/{id}/complete [patch]
func (h *TaskHandler) Complete(c echo.Context) error {
	user, ok := auth.CurrentUser(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
	}

	taskID, err := taskIDParam(c)
	if err != nil {
		return err
	}

	task, err := h.taskService.Complete(c.Request().Context(), user.ID, taskID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, taskToResponse(*task, user.Username))
}

// Delete godoc
// @Summary Delete a task
// @Tags tasks
// @Security BearerAuth
// @Param id path int true "Task ID"
// @Success 204
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /tasks/{id} [delete]
func (h *TaskHandler) Delete(c echo.Context) error {
	user, ok := auth.CurrentUser(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
	}

	taskID, err := taskIDParam(c)
	if err != nil {
		return err
	}

	if err := h.taskService.Delete(c.Request().Context(), user.ID, taskID); err != nil {
		return err
	}

	return c.NoContent(http.StatusNoContent)
}

// Stats godoc
// @Summary Task counts by status plus overdue count
// @Tags tasks
// @Produce json
// @Security BearerAuth
// @Success 200 {object} service.TaskStats
// @Failure 401 {object} errors.ErrorResponse
// @Router /tasks/stats [get]
func (h *TaskHandler) Stats(c echo.Context) error {
	user, ok := auth.CurrentUser(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
	}

	stats, err := h.taskService.Stats(c.Request().Context(), user.ID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, stats)
}

func taskIDParam(c echo.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil || id == 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid task id")
	}
	return uint(id), nil
}

func filterFromQuery(c echo.Context) (repository.TaskFilter, error) {
	var filter repository.TaskFilter

	if raw := c.QueryParam("status"); raw != "" {
		status := model.Status(raw)
		if !status.Valid() {
			return filter, echo.NewHTTPError(http.StatusBadRequest, "invalid status filter")
		}
		filter.Status = &status
	}
	if raw := c.QueryParam("priority"); raw != "" {
		priority := model.Priority(raw)
		if !priority.Valid() {
			return filter, echo.NewHTTPError(http.StatusBadRequest, "invalid priority filter")
		}
		filter.Priority = &priority
	}
	if c.QueryParam("sort") == "due_date" {
		filter.SortByDueDate = true
	}

	return filter, nil
}

func tasksToResponse(tasks []model.Task, username string) []TaskResponse {
	resp := make([]TaskResponse, len(tasks))
	for i := range tasks {
		resp[i] = taskToResponse(tasks[i], username)
	}
	return resp
}
