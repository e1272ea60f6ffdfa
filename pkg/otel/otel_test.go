package otel

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestInitDisabled(t *testing.T) {
	cleanup, err := Init(Config{Enabled: false}, zap.NewNop())
	require.NoError(t, err)
	cleanup()
}

func TestSpansWithoutProvider(t *testing.T) {
	ctx, span := StartSpan(context.Background(), "unit")
	assert.NotNil(t, ctx)
	EndSpan(span, errors.New("boom"))

	_, span = MQPublishSpan(context.Background(), "task.completed", "motivation.events")
	EndSpan(span, nil)
}

func TestGinMiddlewarePassesThrough(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(GinMiddleware())
	r.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "pong", w.Body.String())
}
