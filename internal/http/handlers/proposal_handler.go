package handlers

import (
	"context"
	"mime"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/cosguru/fracpropgen/internal/dto"
	"github.com/cosguru/fracpropgen/internal/http/handlers/common"
	"github.com/cosguru/fracpropgen/internal/http/response"
	"github.com/cosguru/fracpropgen/internal/models"
	"github.com/cosguru/fracpropgen/internal/pkg/apperror"
	"github.com/cosguru/fracpropgen/internal/service"
)

// ProposalService операции с предложением, нужные хэндлеру.
type ProposalService interface {
	Generate(ctx context.Context, sessionID uuid.UUID, in models.ProposalFormInput) (*models.GeneratedProposal, error)
	EditAbout(sessionID uuid.UUID, p models.GeneratedProposal, about string) (models.GeneratedProposal, error)
	GenerateEmail(ctx context.Context, p models.GeneratedProposal, clientName, executiveName string) (*models.GeneratedEmail, error)
	Suggest(ctx context.Context, text string) ([]string, error)
	Export(ctx context.Context, sessionID uuid.UUID, token string, req service.ExportRequest) (*service.Artifact, error)
}

type ProposalHandler struct {
	proposals ProposalService
}

func NewProposalHandler(proposals ProposalService) *ProposalHandler {
	return &ProposalHandler{proposals: proposals}
}

// Generate POST /api/proposals
func (h *ProposalHandler) Generate(c *gin.Context) {
	var req dto.GenerateProposalRequest
	if err := common.BindJSON(c, &req); err != nil {
		common.Fail(c, err)
		return
	}

	proposal, err := h.proposals.Generate(c.Request.Context(), common.CurrentSessionID(c), req.ToFormInput())
	if err != nil {
		common.Fail(c, err)
		return
	}
	response.Success(c, dto.ProposalResponse{Proposal: *proposal})
}

// EditAbout PUT /api/proposals/about
func (h *ProposalHandler) EditAbout(c *gin.Context) {
	var req dto.EditAboutRequest
	if err := common.BindJSON(c, &req); err != nil {
		common.Fail(c, err)
		return
	}

	if err := req.Proposal.Err(); err != nil {
		common.Fail(c, err)
		return
	}

	proposal, err := h.proposals.EditAbout(common.CurrentSessionID(c), req.Proposal.GeneratedProposal, req.About)
	if err != nil {
		common.Fail(c, err)
		return
	}
	response.Success(c, dto.ProposalResponse{Proposal: proposal})
}

// GenerateEmail POST /api/proposals/email
func (h *ProposalHandler) GenerateEmail(c *gin.Context) {
	var req dto.GenerateEmailRequest
	if err := common.BindJSON(c, &req); err != nil {
		common.Fail(c, err)
		return
	}

	if err := req.Proposal.Err(); err != nil {
		common.Fail(c, err)
		return
	}

	email, err := h.proposals.GenerateEmail(c.Request.Context(), req.Proposal.GeneratedProposal, req.ClientName, req.ExecutiveName)
	if err != nil {
		common.Fail(c, err)
		return
	}
	response.Success(c, dto.EmailResponse{Email: *email})
}

// Suggest POST /api/suggestions
func (h *ProposalHandler) Suggest(c *gin.Context) {
	var req dto.SuggestionsRequest
	if err := common.BindJSON(c, &req); err != nil {
		common.Fail(c, err)
		return
	}

	suggestions, err := h.proposals.Suggest(c.Request.Context(), req.Text)
	if err != nil {
		common.Fail(c, err)
		return
	}
	response.Success(c, dto.SuggestionsResponse{Suggestions: suggestions})
}

// Export POST /api/proposals/export
// Требует Authorization: Bearer <download_token> из POST /api/leads.
func (h *ProposalHandler) Export(c *gin.Context) {
	token, err := common.BearerToken(c)
	if err != nil {
		common.Fail(c, apperror.Wrap(err, apperror.ErrCodeDownloadLocked, apperror.MsgDownloadLocked))
		return
	}

	var req dto.ExportRequest
	if err := common.BindJSON(c, &req); err != nil {
		common.Fail(c, err)
		return
	}

	if err := req.Proposal.Err(); err != nil {
		common.Fail(c, err)
		return
	}

	artifact, err := h.proposals.Export(c.Request.Context(), common.CurrentSessionID(c), token, service.ExportRequest{
		Proposal:      req.Proposal.GeneratedProposal,
		ClientName:    req.ClientName,
		ExecutiveName: req.ExecutiveName,
		ExecutiveRole: req.ExecutiveRole,
		AccentColor:   models.AccentColor(req.AccentColor),
	})
	if err != nil {
		common.Fail(c, err)
		return
	}

	// FormatMediaType сам кодирует не-ASCII имя по RFC 2231
	disposition := mime.FormatMediaType("attachment", map[string]string{"filename": artifact.FileName})
	if disposition == "" {
		disposition = `attachment; filename="proposal.docx"`
	}
	c.Header("Content-Disposition", disposition)
	c.Header("Cache-Control", "no-store")
	c.Data(http.StatusOK, artifact.MIME, artifact.Data)
}
