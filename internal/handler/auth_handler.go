package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/TushantKaura1/ai-micro-motivation/internal/service/auth"
)

type AuthHandler struct {
	svc    *auth.Service
	logger *zap.Logger
}

func NewAuthHandler(svc *auth.Service, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{svc: svc, logger: logger}
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req auth.RegisterInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Email and password are required!"})
		return
	}

	session, err := h.svc.Register(c.Request.Context(), req)
	if err != nil {
		respondError(c, h.logger, "Register", err)
		return
	}
	c.JSON(http.StatusCreated, session)
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req auth.LoginInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Invalid credentials!"})
		return
	}

	session, err := h.svc.Login(c.Request.Context(), req)
	if err != nil {
		respondError(c, h.logger, "Login", err)
		return
	}
	c.JSON(http.StatusOK, session)
}
