package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/TushantKaura1/ai-micro-motivation/internal/service/coach"
	"github.com/TushantKaura1/ai-micro-motivation/internal/service/streak"
)

type CoachHandler struct {
	coach  *coach.Service
	engine *streak.Engine
	logger *zap.Logger
}

func NewCoachHandler(coachSvc *coach.Service, engine *streak.Engine, logger *zap.Logger) *CoachHandler {
	return &CoachHandler{coach: coachSvc, engine: engine, logger: logger}
}

type nudgeRequest struct {
	Mood string `json:"mood"`
}

type moodRequest struct {
	Text string `json:"text"`
}

// Nudge accepts an optional JSON body with a mood
func (h *CoachHandler) Nudge(c *gin.Context) {
	var req nudgeRequest
	if c.Request.ContentLength != 0 {
		// a missing or malformed body means no mood
		_ = c.ShouldBindJSON(&req)
	}

	res, err := h.coach.Nudge(c.Request.Context(), currentUserID(c), strings.TrimSpace(req.Mood))
	if err != nil {
		respondError(c, h.logger, "Nudge", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"nudge": res.Text})
}

func (h *CoachHandler) DailyDigest(c *gin.Context) {
	res, err := h.coach.Digest(c.Request.Context(), currentUserID(c))
	if err != nil {
		respondError(c, h.logger, "DailyDigest", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"digest": res.Text})
}

func (h *CoachHandler) AnalyzeMood(c *gin.Context) {
	var req moodRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Text) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Text is required!"})
		return
	}

	mood, err := h.coach.AnalyzeMood(c.Request.Context(), currentUserID(c), req.Text)
	if err != nil {
		respondError(c, h.logger, "AnalyzeMood", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"mood": mood})
}

func (h *CoachHandler) Stats(c *gin.Context) {
	stats, err := h.engine.GetStats(c.Request.Context(), currentUserID(c))
	if err != nil {
		respondError(c, h.logger, "Stats", err)
		return
	}
	c.JSON(http.StatusOK, stats)
}
