package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/cosguru/fracpropgen/internal/logger"
)

// HTTPObserver получает итог каждого запроса (метрики).
type HTTPObserver interface {
	ObserveHTTP(method, route string, status int, elapsed time.Duration)
}

// RequestLogger пишет строку лога на каждый запрос. observer может быть nil.
func RequestLogger(observer HTTPObserver) gin.HandlerFunc {
	return func(c *gin.Context) {
		started := time.Now()
		c.Next()
		elapsed := time.Since(started)

		status := c.Writer.Status()
		route := c.FullPath()
		if observer != nil {
			observer.ObserveHTTP(c.Request.Method, route, status, elapsed)
		}

		fields := logrus.Fields{
			"method":     c.Request.Method,
			"path":       c.Request.URL.Path,
			"route":      route,
			"status":     status,
			"latency_ms": elapsed.Milliseconds(),
			"client_ip":  c.ClientIP(),
		}
		if sessionID, ok := c.Get(ContextSessionIDKey); ok {
			fields["session_id"] = sessionID
		}

		entry := logger.L().WithFields(fields)
		switch {
		case status >= 500:
			entry.Warn("http request")
		case route == "/health" || route == "/metrics":
			entry.Debug("http request")
		default:
			entry.Info("http request")
		}
	}
}
