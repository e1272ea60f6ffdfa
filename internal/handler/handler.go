// Package handler holds the gin handlers of the /api surface.
package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/TushantKaura1/ai-micro-motivation/internal/model"
	"github.com/TushantKaura1/ai-micro-motivation/pkg/logger"
)

// UserIDKey is the gin context key set by the auth middleware
const UserIDKey = "user_id"

func currentUserID(c *gin.Context) string {
	return c.GetString(UserIDKey)
}

// respondError maps domain errors to status codes. Unknown errors are logged
// and reported as 500 without detail.
func respondError(c *gin.Context, log *zap.Logger, op string, err error) {
	switch {
	case errors.Is(err, model.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
	case errors.Is(err, model.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"message": "Task not found!"})
	case errors.Is(err, model.ErrEmailExists):
		c.JSON(http.StatusBadRequest, gin.H{"message": "User already exists!"})
	case errors.Is(err, model.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Invalid credentials!"})
	default:
		logger.WithTrace(c.Request.Context(), log).Error(op+" failed",
			zap.String("user_id", currentUserID(c)),
			zap.Error(err),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
	}
}
