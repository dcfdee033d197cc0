package dto

import "github.com/cosguru/fracpropgen/internal/models"

// GenerateProposalRequest тело POST /api/proposals.
type GenerateProposalRequest struct {
	ExecutiveName  string `json:"executive_name"`
	ExecutiveRole  string `json:"executive_role"`
	ClientName     string `json:"client_name"`
	ProjectGoal    string `json:"project_goal"`
	Deliverables   string `json:"deliverables"`
	Timeline       string `json:"timeline"`
	Price          string `json:"price"`
	ExecutiveAbout string `json:"executive_about"`
	TemplateID     string `json:"template_id"`
	AccentColor    string `json:"accent_color"`
}

// ToFormInput переводит запрос в модель формы.
func (r GenerateProposalRequest) ToFormInput() models.ProposalFormInput {
	return models.ProposalFormInput{
		ExecutiveName:  r.ExecutiveName,
		ExecutiveRole:  r.ExecutiveRole,
		ClientName:     r.ClientName,
		ProjectGoal:    r.ProjectGoal,
		Deliverables:   r.Deliverables,
		Timeline:       r.Timeline,
		Price:          r.Price,
		ExecutiveAbout: r.ExecutiveAbout,
		TemplateID:     r.TemplateID,
		AccentColor:    models.AccentColor(r.AccentColor),
	}
}

// EditAboutRequest тело PUT /api/proposals/about.
type EditAboutRequest struct {
	Proposal ProposalPayload `json:"proposal"`
	About    string          `json:"about"`
}

// GenerateEmailRequest тело POST /api/proposals/email.
type GenerateEmailRequest struct {
	Proposal      ProposalPayload `json:"proposal"`
	ClientName    string          `json:"client_name" binding:"required"`
	ExecutiveName string          `json:"executive_name" binding:"required"`
}

// SuggestionsRequest тело POST /api/suggestions. Пустой текст допустим.
type SuggestionsRequest struct {
	Text string `json:"text"`
}

// LeadRequest тело POST /api/leads. Либо name, либо first_name/last_name.
type LeadRequest struct {
	Name      string `json:"name"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
}

// ToLead переводит запрос в модель контакта.
func (r LeadRequest) ToLead() models.Lead {
	return models.Lead{
		Name:      r.Name,
		FirstName: r.FirstName,
		LastName:  r.LastName,
		Email:     r.Email,
	}
}

// ExportRequest тело POST /api/proposals/export.
type ExportRequest struct {
	Proposal      ProposalPayload `json:"proposal"`
	ClientName    string          `json:"client_name"`
	ExecutiveName string          `json:"executive_name"`
	ExecutiveRole string          `json:"executive_role"`
	AccentColor   string          `json:"accent_color"`
}
