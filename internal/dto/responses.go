package dto

import (
	"time"

	"github.com/cosguru/fracpropgen/internal/models"
)

// TemplateResponse шаблон с готовыми значениями формы.
// Fallback=true, если запрошенного шаблона нет и отдан шаблон по умолчанию.
type TemplateResponse struct {
	models.Template
	Defaults models.ProposalFormInput `json:"defaults"`
	Fallback bool                     `json:"fallback"`
}

// PaletteResponse допустимые акцентные цвета.
type PaletteResponse struct {
	Colors  []models.PaletteEntry `json:"colors"`
	Default models.AccentColor    `json:"default"`
}

// ProposalResponse сгенерированное или отредактированное предложение.
type ProposalResponse struct {
	Proposal models.GeneratedProposal `json:"proposal"`
}

// EmailResponse сопроводительное письмо.
type EmailResponse struct {
	Email models.GeneratedEmail `json:"email"`
}

// SuggestionsResponse варианты текста; пустой список, если текст слишком короткий.
type SuggestionsResponse struct {
	Suggestions []string `json:"suggestions"`
}

// LeadResponse токен скачивания. Скачивание откроется через RetryAfterMs.
type LeadResponse struct {
	DownloadToken string    `json:"download_token"`
	NotBefore     time.Time `json:"not_before"`
	ExpiresAt     time.Time `json:"expires_at"`
	RetryAfterMs  int64     `json:"retry_after_ms"`
}
