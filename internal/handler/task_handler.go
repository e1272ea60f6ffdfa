package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/TushantKaura1/ai-micro-motivation/internal/model"
	"github.com/TushantKaura1/ai-micro-motivation/internal/service/task"
)

type TaskHandler struct {
	svc    *task.Service
	logger *zap.Logger
}

func NewTaskHandler(svc *task.Service, logger *zap.Logger) *TaskHandler {
	return &TaskHandler{svc: svc, logger: logger}
}

// ListTasks returns today's tasks as a bare array
func (h *TaskHandler) ListTasks(c *gin.Context) {
	tasks, err := h.svc.ListToday(c.Request.Context(), currentUserID(c))
	if err != nil {
		respondError(c, h.logger, "ListTasks", err)
		return
	}
	c.JSON(http.StatusOK, tasks)
}

func (h *TaskHandler) CreateTask(c *gin.Context) {
	var req model.CreateTaskInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid task payload"})
		return
	}

	t, err := h.svc.Create(c.Request.Context(), currentUserID(c), req)
	if err != nil {
		respondError(c, h.logger, "CreateTask", err)
		return
	}
	c.JSON(http.StatusCreated, t)
}

func (h *TaskHandler) CompleteTask(c *gin.Context) {
	taskID := c.Param("id")
	h.logger.Debug("CompleteTask request received",
		zap.String("task_id", taskID),
		zap.String("client_ip", c.ClientIP()),
	)

	res, err := h.svc.Complete(c.Request.Context(), currentUserID(c), taskID)
	if err != nil {
		respondError(c, h.logger, "CompleteTask", err)
		return
	}
	c.JSON(http.StatusOK, res)
}
