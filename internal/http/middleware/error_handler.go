package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/cosguru/fracpropgen/internal/http/response"
	"github.com/cosguru/fracpropgen/internal/logger"
	"github.com/cosguru/fracpropgen/internal/pkg/apperror"
)

// ErrorHandler обрабатывает ошибки централизованно.
// Хэндлеры кладут ошибку в c.Error и выходят, ответ формируется здесь.
// Клиент видит только код и сообщение AppError, причина остаётся в логе.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}
		err := c.Errors.Last().Err

		status := http.StatusInternalServerError
		var appErr *apperror.AppError
		if errors.As(err, &appErr) {
			status = appErr.HTTPStatus
		}

		entry := logger.L().WithFields(logrus.Fields{
			"error":  err.Error(),
			"path":   c.Request.URL.Path,
			"method": c.Request.Method,
			"status": status,
		})
		if sessionID, ok := c.Get(ContextSessionIDKey); ok {
			entry = entry.WithField("session_id", sessionID)
		}
		if status >= http.StatusInternalServerError && status != http.StatusBadGateway {
			entry.Error("Request error")
		} else {
			entry.Info("Request rejected")
		}

		// Проверяем, не был ли уже отправлен ответ
		if c.Writer.Written() {
			return
		}
		response.Error(c, err)
	}
}
