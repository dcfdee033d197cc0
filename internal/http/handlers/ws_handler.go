package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/cosguru/fracpropgen/internal/http/handlers/common"
	"github.com/cosguru/fracpropgen/internal/logger"
	"github.com/cosguru/fracpropgen/internal/pkg/apperror"
	"github.com/cosguru/fracpropgen/internal/ws"
)

// WSHandler отвечает за установку WebSocket соединений.
type WSHandler struct {
	hub      *ws.Hub
	upgrader websocket.Upgrader
}

// NewWSHandler создаёт новый хэндлер. checkOrigin nil разрешает любой origin.
func NewWSHandler(hub *ws.Hub, checkOrigin func(r *http.Request) bool) *WSHandler {
	if checkOrigin == nil {
		checkOrigin = func(r *http.Request) bool { return true }
	}
	return &WSHandler{
		hub: hub,
		upgrader: websocket.Upgrader{
			CheckOrigin: checkOrigin,
		},
	}
}

// Handle обслуживает GET /api/ws?session=<uuid>
// Браузер не умеет ставить заголовки на WebSocket, поэтому сессия в query.
func (h *WSHandler) Handle(c *gin.Context) {
	sessionID, err := uuid.Parse(c.Query("session"))
	if err != nil || sessionID == uuid.Nil {
		common.Fail(c, apperror.New(apperror.ErrCodeBadRequest, "session must be a valid UUID"))
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// Upgrade уже записал ответ
		logger.L().WithError(err).Debug("ws: upgrade не удался")
		return
	}

	client := ws.NewClient(conn, h.hub, sessionID)
	h.hub.Register(client)

	client.Run(c.Request.Context())
}
