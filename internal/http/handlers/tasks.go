package handlers

import (
	"errors"
	"net/http"

	"taskboard/internal/domain"
	"taskboard/internal/http/views"
	"taskboard/internal/logger"
	"taskboard/internal/metrics"

	"github.com/gin-gonic/gin"
)

type createTaskRequest struct {
	Title       string `form:"title" binding:"required,max=255"`
	Description string `form:"description"`
}

// ListTasks renders the task page. A database failure still renders the page,
// with an empty list and the degraded flag set.
func (h *Handler) ListTasks(c *gin.Context) {
	page := views.IndexPage{
		Tasks:       []domain.Task{},
		Environment: h.Meta.Environment,
		DBType:      h.Meta.DBType,
		WebServer:   h.Meta.WebServer,
	}

	tasks, err := h.Tasks.List(c.Request.Context())
	if err != nil {
		logger.Error("failed to list tasks", "error", err)
		metrics.ListDegraded.Inc()
		page.DBError = true
	} else {
		page.Tasks = tasks
	}

	c.HTML(http.StatusOK, views.IndexTemplate, page)
}

// CreateTask stores a task from the form and redirects back to the list.
func (h *Handler) CreateTask(c *gin.Context) {
	var req createTaskRequest
	if err := c.ShouldBind(&req); err != nil {
		c.String(http.StatusBadRequest, "El título es obligatorio y debe tener como máximo 255 caracteres")
		return
	}

	task, err := domain.NewTask(req.Title, req.Description)
	if err != nil {
		msg := "El título es obligatorio"
		if errors.Is(err, domain.ErrTitleTooLong) {
			msg = "El título debe tener como máximo 255 caracteres"
		}
		c.String(http.StatusBadRequest, msg)
		return
	}

	if err := h.Tasks.Create(c.Request.Context(), task); err != nil {
		logger.Error("failed to create task", "error", err)
		c.String(http.StatusInternalServerError, "Error al crear la tarea")
		return
	}

	metrics.TasksCreated.Inc()
	c.Redirect(http.StatusFound, "/")
}
