package handlers

import (
	"errors"
	"net/http"

	"goalgrid/internal/middleware"
	"goalgrid/internal/tasks"
	"goalgrid/internal/web"

	"github.com/gin-gonic/gin"
)

type taskForm struct {
	Text     string `form:"task"`
	Priority string `form:"priority"`
	DueDate  string `form:"due_date"`
}

func (h *Handler) Board(c *gin.Context) {
	user := middleware.CurrentUser(c)

	board, err := h.tasks.Board(c.Request.Context(), user, h.now())
	if err != nil {
		h.internalError(c, "load board", err)
		return
	}

	c.HTML(http.StatusOK, web.BoardPage, web.Page{Title: "Board", User: user, Board: board})
}

// CreateTask adds a task from the board form. Incomplete submissions are
// dropped and the board is shown again.
func (h *Handler) CreateTask(c *gin.Context) {
	user := middleware.CurrentUser(c)

	request := &taskForm{}
	err := c.ShouldBind(request)
	if err != nil {
		redirectAfterWrite(c, "/")
		return
	}

	task, err := h.tasks.Add(c.Request.Context(), user, request.Text, request.Priority, request.DueDate)
	if errors.Is(err, tasks.ErrInvalidTask) {
		h.logger.Debug("task rejected", "err", err, "request_id", middleware.RequestID(c))
		redirectAfterWrite(c, "/")
		return
	}
	if err != nil {
		h.internalError(c, "create task", err)
		return
	}

	h.logger.Debug("task created", "task_id", task.ID, "user_id", user.ID)
	redirectAfterWrite(c, "/")
}

func (h *Handler) ToggleTask(c *gin.Context) {
	taskId, err := parseId(c.Param("id"))
	if err != nil {
		redirectAfterWrite(c, "/")
		return
	}

	err = h.tasks.Toggle(c.Request.Context(), middleware.CurrentUser(c), taskId)
	if err != nil {
		h.internalError(c, "toggle task", err)
		return
	}

	redirectAfterWrite(c, "/")
}

func (h *Handler) DeleteTask(c *gin.Context) {
	taskId, err := parseId(c.Param("id"))
	if err != nil {
		redirectAfterWrite(c, "/")
		return
	}

	err = h.tasks.Delete(c.Request.Context(), middleware.CurrentUser(c), taskId)
	if err != nil {
		h.internalError(c, "delete task", err)
		return
	}

	redirectAfterWrite(c, "/")
}
