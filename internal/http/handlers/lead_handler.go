package handlers

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/cosguru/fracpropgen/internal/dto"
	"github.com/cosguru/fracpropgen/internal/http/handlers/common"
	"github.com/cosguru/fracpropgen/internal/http/response"
	"github.com/cosguru/fracpropgen/internal/models"
	"github.com/cosguru/fracpropgen/internal/service"
)

// LeadService приём формы контакта.
type LeadService interface {
	Capture(ctx context.Context, sessionID uuid.UUID, lead models.Lead) (*service.DownloadGrant, error)
}

type LeadHandler struct {
	leads LeadService
	now   func() time.Time
}

func NewLeadHandler(leads LeadService) *LeadHandler {
	return &LeadHandler{leads: leads, now: time.Now}
}

// Capture POST /api/leads
func (h *LeadHandler) Capture(c *gin.Context) {
	var req dto.LeadRequest
	if err := common.BindJSON(c, &req); err != nil {
		common.Fail(c, err)
		return
	}

	grant, err := h.leads.Capture(c.Request.Context(), common.CurrentSessionID(c), req.ToLead())
	if err != nil {
		common.Fail(c, err)
		return
	}

	retryAfter := grant.NotBefore.Sub(h.now())
	if retryAfter < 0 {
		retryAfter = 0
	}
	response.Created(c, dto.LeadResponse{
		DownloadToken: grant.Token,
		NotBefore:     grant.NotBefore,
		ExpiresAt:     grant.ExpiresAt,
		RetryAfterMs:  retryAfter.Milliseconds(),
	})
}
