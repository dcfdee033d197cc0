package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/cosguru/fracpropgen/internal/pkg/apperror"
)

const (
	// SessionHeader заголовок с идентификатором вкладки браузера.
	SessionHeader = "X-Session-ID"
	// ContextSessionIDKey ключ uuid.UUID сессии в gin.Context.
	ContextSessionIDKey = "sessionID"
)

// SessionID проверяет заголовок X-Session-ID и кладёт uuid в контекст.
// Запрос без заголовка проходит с uuid.Nil: состояние сессии не отслеживается.
func SessionID() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := c.GetHeader(SessionHeader)
		if raw == "" {
			c.Set(ContextSessionIDKey, uuid.Nil)
			c.Next()
			return
		}

		sessionID, err := uuid.Parse(raw)
		if err != nil || sessionID == uuid.Nil {
			_ = c.Error(apperror.New(apperror.ErrCodeBadRequest, SessionHeader+" must be a valid UUID"))
			c.Abort()
			return
		}

		c.Set(ContextSessionIDKey, sessionID)
		c.Next()
	}
}
