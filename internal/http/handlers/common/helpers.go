package common

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/cosguru/fracpropgen/internal/http/middleware"
	"github.com/cosguru/fracpropgen/internal/pkg/apperror"
)

// ErrNoBearer в запросе нет токена Bearer.
var ErrNoBearer = errors.New("нет заголовка Authorization: Bearer")

// CurrentSessionID извлекает сессию из контекста. Без middleware.SessionID вернёт uuid.Nil.
func CurrentSessionID(c *gin.Context) uuid.UUID {
	raw, exists := c.Get(middleware.ContextSessionIDKey)
	if !exists {
		return uuid.Nil
	}
	sessionID, ok := raw.(uuid.UUID)
	if !ok {
		return uuid.Nil
	}
	return sessionID
}

// BearerToken достаёт токен из заголовка Authorization.
func BearerToken(c *gin.Context) (string, error) {
	header := strings.TrimSpace(c.GetHeader("Authorization"))
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", ErrNoBearer
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return "", ErrNoBearer
	}
	return token, nil
}

// BindJSON разбирает тело запроса. Ошибка разбора уже обёрнута в BAD_REQUEST.
func BindJSON(c *gin.Context, req interface{}) error {
	if err := c.ShouldBindJSON(req); err != nil {
		return apperror.Wrap(err, apperror.ErrCodeBadRequest, "Invalid request body")
	}
	return nil
}

// Fail передаёт ошибку в middleware.ErrorHandler и прерывает цепочку.
func Fail(c *gin.Context, err error) {
	_ = c.Error(err)
	c.Abort()
}
