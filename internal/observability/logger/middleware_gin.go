package logger

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	obscontext "github.com/smallbiznis/hostelhub/internal/observability/context"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const RequestIDHeader = "X-Request-Id"

// MiddlewareConfig controls request logging. ErrorClassifier maps the last
// handler error to an (error_type, error_code) pair.
type MiddlewareConfig struct {
	Debug           bool
	ErrorClassifier func(err error) (string, string)
}

// GinMiddleware assigns a request id, stores it (and the cart session when
// the route has one) on the request context and emits one access log line
// per request.
func GinMiddleware(cfg MiddlewareConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		requestID := strings.TrimSpace(c.GetHeader(RequestIDHeader))
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Set("request_id", requestID)
		c.Header(RequestIDHeader, requestID)

		ctx := obscontext.WithRequestID(c.Request.Context(), requestID)
		if session := strings.TrimSpace(c.Param("session")); session != "" {
			ctx = obscontext.WithSessionID(ctx, session)
		}
		c.Request = c.Request.WithContext(ctx)

		c.Next()

		entry := accessEntry{
			route:   c.FullPath(),
			status:  c.Writer.Status(),
			elapsed: time.Since(start),
		}
		if entry.route == "" {
			entry.route = "unknown"
		}
		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.String("route", entry.route),
			zap.Int("status", entry.status),
			zap.Duration("latency", entry.elapsed),
			zap.Int("bytes_out", max(c.Writer.Size(), 0)),
		}
		if last := c.Errors.Last(); last != nil && cfg.ErrorClassifier != nil {
			var code string
			entry.errorType, code = cfg.ErrorClassifier(last.Err)
			fields = append(fields, zap.String("error_type", entry.errorType), zap.String("error_code", code))
			if cfg.Debug {
				fields = append(fields, zap.Error(last.Err))
			}
		}

		log := FromContext(c.Request.Context())
		if ce := log.Check(entry.level(), "http_request"); ce != nil {
			ce.Write(fields...)
		}
	}
}

type accessEntry struct {
	route     string
	status    int
	elapsed   time.Duration
	errorType string
}

func (e accessEntry) level() zapcore.Level {
	switch {
	case e.status >= http.StatusInternalServerError:
		return zapcore.ErrorLevel
	case isQuiet(e.route):
		return zapcore.DebugLevel
	case e.errorType == "validation_error":
		return zapcore.DebugLevel
	default:
		return zapcore.InfoLevel
	}
}

// isQuiet reports routes polled by infrastructure or held open by live
// subscribers.
func isQuiet(route string) bool {
	switch route {
	case "/metrics", "/health":
		return true
	}
	return strings.HasPrefix(route, "/v1/live/")
}
