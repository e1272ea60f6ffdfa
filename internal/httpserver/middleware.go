package httpserver

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/TushantKaura1/ai-micro-motivation/internal/clock"
	"github.com/TushantKaura1/ai-micro-motivation/internal/handler"
	"github.com/TushantKaura1/ai-micro-motivation/pkg/metrics"
	"github.com/TushantKaura1/ai-micro-motivation/pkg/trace"
	"github.com/TushantKaura1/ai-micro-motivation/pkg/util"
)

// AuthMiddleware requires a valid bearer token and stores its user id
func AuthMiddleware(jwtSecret string, now clock.Clock) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := util.ExtractToken(c.Request)
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Token is missing!"})
			return
		}

		userID, err := util.ParseJWT(token, jwtSecret, now.Now())
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Token is invalid!"})
			return
		}

		c.Set(handler.UserIDKey, userID)
		c.Next()
	}
}

// SingleUserMiddleware binds every request to userID. A valid token, when
// present, still wins so multi-user clients keep working.
func SingleUserMiddleware(jwtSecret, userID string, now clock.Clock) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := userID
		if token := util.ExtractToken(c.Request); token != "" {
			if parsed, err := util.ParseJWT(token, jwtSecret, now.Now()); err == nil {
				id = parsed
			}
		}
		c.Set(handler.UserIDKey, id)
		c.Next()
	}
}

// TraceMiddleware propagates or creates the X-Trace-ID header
func TraceMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		traceID := trace.FromHeader(c.GetHeader(trace.HeaderName))
		c.Request = c.Request.WithContext(trace.WithContext(c.Request.Context(), traceID))
		c.Header(trace.HeaderName, traceID)
		c.Next()
	}
}

// RequestLogger logs every request and records its latency histogram
func RequestLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery

		c.Next()

		latency := time.Since(start)
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		metrics.RecordHTTPRequestDuration(c.Request.Method, route, strconv.Itoa(c.Writer.Status()), latency)

		logger.Info("HTTP Request",
			zap.String("method", c.Request.Method),
			zap.String("path", path),
			zap.String("query", query),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", latency),
			zap.String("client_ip", c.ClientIP()),
			zap.String("user_agent", c.Request.UserAgent()),
			zap.String("trace_id", trace.FromContext(c.Request.Context())),
		)
	}
}
