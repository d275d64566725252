package v1

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/adanyl0v/todo-assistant/internal/models"
	"github.com/adanyl0v/todo-assistant/internal/query"
	"github.com/adanyl0v/todo-assistant/internal/services"
)

type getTaskResponse struct {
	ID          string     `json:"id"`
	Text        string     `json:"text"`
	Completed   bool       `json:"completed"`
	Category    string     `json:"category"`
	Priority    string     `json:"priority"`
	DueDate     string     `json:"due_date,omitempty"`
	Overdue     bool       `json:"overdue"`
	DueSoon     bool       `json:"due_soon"`
	CreatedAt   time.Time  `json:"created_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

func newGetTaskResponse(task *models.Task, now time.Time) getTaskResponse {
	resp := getTaskResponse{
		ID:          task.ID,
		Text:        task.Text,
		Completed:   task.Completed,
		Category:    string(task.Category),
		Priority:    string(task.Priority),
		Overdue:     !task.Completed && query.IsOverdue(*task, now),
		DueSoon:     !task.Completed && query.IsDueSoon(*task, now),
		CreatedAt:   task.CreatedAt,
		CompletedAt: task.CompletedAt,
	}
	if task.HasDueDate() {
		resp.DueDate = task.DueDate.String()
	}
	return resp
}

type getTasksRequest struct {
	Search   string `form:"search"`
	Category string `form:"category"`
	Priority string `form:"priority"`
	Status   string `form:"status"`
	Sort     string `form:"sort"`
}

type getTasksResponse struct {
	Tasks []getTaskResponse `json:"tasks"`
	Stats getStatsResponse  `json:"stats"`
}

func (h *handlerImpl) HandleGetTasks(c *gin.Context) {
	var req getTasksRequest
	err := c.ShouldBindQuery(&req)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to bind query")
		abort(c, newBadRequestError(errInvalidQuery.Error()))
		return
	}

	params := query.Params{
		Search:   req.Search,
		Category: req.Category,
		Priority: req.Priority,
		Status:   req.Status,
		SortBy:   req.Sort,
	}
	err = params.Validate()
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("invalid view parameters")
		abort(c, newBadRequestError(err.Error()))
		return
	}

	now := h.now()
	tasks := h.tasks.View(params)
	h.logger.Debug().
		Int("count", len(tasks)).
		Str("sort", params.SortBy).
		Msg("selected tasks")

	response := getTasksResponse{
		Tasks: make([]getTaskResponse, len(tasks)),
		Stats: newGetStatsResponse(h.tasks.Stats()),
	}
	for i, task := range tasks {
		response.Tasks[i] = newGetTaskResponse(&task, now)
	}

	h.logger.Info().Msg("fetched tasks")
	c.JSON(http.StatusOK, response)
}

type createTaskRequest struct {
	Text     string `json:"text" binding:"max=1000"`
	Category string `json:"category"`
	Priority string `json:"priority"`
	DueDate  string `json:"due_date"`
}

func (h *handlerImpl) HandleCreateTask(c *gin.Context) {
	var req createTaskRequest
	err := c.ShouldBindJSON(&req)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to bind json")
		abort(c, newBadRequestError(errInvalidRequestBody.Error()))
		return
	}

	dueDate, err := models.ParseDate(req.DueDate)
	if err != nil {
		h.logger.Error().
			Err(err).
			Str("due_date", req.DueDate).
			Msg("failed to parse due date")
		abort(c, newBadRequestError(errInvalidDueDate.Error()))
		return
	}

	task, err := h.tasks.Add(c, services.AddTaskParams{
		Text:     req.Text,
		Category: req.Category,
		Priority: req.Priority,
		DueDate:  dueDate,
	})
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to create task")
		h.abortTaskError(c, err)
		return
	}

	h.logger.Info().Msg("created task")
	c.JSON(http.StatusCreated, newGetTaskResponse(task, h.now()))
}

func (h *handlerImpl) HandleGetTask(c *gin.Context) {
	task, err := h.tasks.Get(c.Param("id"))
	if err != nil {
		h.logger.Warn().
			Err(err).
			Str("id", c.Param("id")).
			Msg("failed to get task")
		h.abortTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, newGetTaskResponse(task, h.now()))
}

type updateTaskRequest struct {
	Text *string `json:"text,omitempty" binding:"omitempty,max=1000"`
}

func (h *handlerImpl) HandleUpdateTask(c *gin.Context) {
	var req updateTaskRequest
	err := c.ShouldBindJSON(&req)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to bind json")
		abort(c, newBadRequestError(errInvalidRequestBody.Error()))
		return
	}

	taskID := c.Param("id")
	if req.Text == nil {
		h.logger.Warn().
			Str("id", taskID).
			Msg("no fields to update")
		abort(c, newBadRequestError(errNoFieldsToUpdate.Error()))
		return
	}

	task, err := h.tasks.Edit(c, services.EditTaskParams{
		ID:   taskID,
		Text: *req.Text,
	})
	if err != nil {
		h.logger.Error().
			Err(err).
			Str("id", taskID).
			Msg("failed to update task")
		h.abortTaskError(c, err)
		return
	}

	h.logger.Info().Msg("updated task")
	c.JSON(http.StatusOK, newGetTaskResponse(task, h.now()))
}

func (h *handlerImpl) HandleToggleTask(c *gin.Context) {
	taskID := c.Param("id")
	task, err := h.tasks.ToggleComplete(c, taskID)
	if err != nil {
		h.logger.Error().
			Err(err).
			Str("id", taskID).
			Msg("failed to toggle task")
		h.abortTaskError(c, err)
		return
	}

	h.logger.Info().
		Bool("completed", task.Completed).
		Msg("toggled task")
	c.JSON(http.StatusOK, newGetTaskResponse(task, h.now()))
}

func (h *handlerImpl) HandleDeleteTask(c *gin.Context) {
	taskID := c.Param("id")
	err := h.tasks.Delete(c, taskID)
	if err != nil {
		h.logger.Error().
			Err(err).
			Str("id", taskID).
			Msg("failed to delete task")
		h.abortTaskError(c, err)
		return
	}

	h.logger.Info().Msg("deleted task")
	c.Status(http.StatusNoContent)
}

type clearCompletedResponse struct {
	Removed int `json:"removed"`
}

// HandleClearCompleted serves DELETE /tasks?status=completed. Any other
// status is rejected so that a bare DELETE never wipes the collection.
func (h *handlerImpl) HandleClearCompleted(c *gin.Context) {
	status := c.Query("status")
	if status != query.StatusCompleted {
		h.logger.Error().
			Str("status", status).
			Msg("unsupported clear request")
		abort(c, newBadRequestError(errUnsupportedClearAll.Error()))
		return
	}

	removed := h.tasks.ClearCompleted(c)

	h.logger.Info().
		Int("removed", removed).
		Msg("cleared completed tasks")
	c.JSON(http.StatusOK, clearCompletedResponse{Removed: removed})
}

func (h *handlerImpl) abortTaskError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrTaskNotFound):
		abort(c, newNotFoundError(services.ErrTaskNotFound.Error()))
	case errors.Is(err, services.ErrEmptyText):
		abort(c, newBadRequestError(services.ErrEmptyText.Error()))
	case errors.Is(err, services.ErrInvalidCategory):
		abort(c, newBadRequestError(services.ErrInvalidCategory.Error()))
	case errors.Is(err, services.ErrInvalidPriority):
		abort(c, newBadRequestError(services.ErrInvalidPriority.Error()))
	default:
		abort(c, newStatusTextError(http.StatusInternalServerError))
	}
}
