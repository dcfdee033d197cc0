package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/cosguru/fracpropgen/internal/templates"
)

// HealthHandler предоставляет endpoint для проверки здоровья сервиса.
type HealthHandler struct {
	aiConfigured  bool
	crmConfigured bool
	sessions      func() int
}

// NewHealthHandler создаёт новый health handler. sessions может быть nil.
func NewHealthHandler(aiConfigured, crmConfigured bool, sessions func() int) *HealthHandler {
	return &HealthHandler{aiConfigured: aiConfigured, crmConfigured: crmConfigured, sessions: sessions}
}

// HealthResponse представляет ответ health check.
type HealthResponse struct {
	Status    string            `json:"status"`
	Timestamp time.Time         `json:"timestamp"`
	Checks    map[string]string `json:"checks"`
	Sessions  int               `json:"sessions"`
}

// Health обрабатывает GET /health.
// Внешние сервисы не пингуются: проверяем только, что они настроены.
func (h *HealthHandler) Health(c *gin.Context) {
	checks := make(map[string]string)
	status := "healthy"

	if len(templates.All()) == 0 {
		checks["templates"] = "unhealthy: catalog is empty"
		status = "unhealthy"
	} else {
		checks["templates"] = "healthy"
	}

	checks["ai"] = configured(h.aiConfigured)
	checks["crm"] = configured(h.crmConfigured)
	if status == "healthy" && (!h.aiConfigured || !h.crmConfigured) {
		status = "degraded"
	}

	sessions := 0
	if h.sessions != nil {
		sessions = h.sessions()
	}

	statusCode := http.StatusOK
	if status == "unhealthy" {
		statusCode = http.StatusServiceUnavailable
	}

	c.JSON(statusCode, HealthResponse{
		Status:    status,
		Timestamp: time.Now(),
		Checks:    checks,
		Sessions:  sessions,
	})
}

func configured(ok bool) string {
	if ok {
		return "healthy"
	}
	return "warning: not configured"
}
