package ai

import (
	"encoding/json"
	"strings"

	"github.com/cosguru/fracpropgen/internal/models"
)

// InvalidProposalFields проверяет уже разобранное предложение схемой ответа.
// Отсутствующий список после разбора равен nil, в JSON это null, и он не проходит.
func InvalidProposalFields(p models.GeneratedProposal) []string {
	raw, err := json.Marshal(p)
	if err != nil {
		return ProposalSchema.Names()
	}
	var obj map[string]any
	if err := json.Unmarshal(raw, &obj); err != nil {
		return ProposalSchema.Names()
	}
	return ProposalSchema.InvalidFields(obj)
}

// IncompleteProposalMessage сообщение для пользователя о неполном предложении.
func IncompleteProposalMessage(fields []string) string {
	return "Proposal is missing or has invalid fields: " + strings.Join(fields, ", ") + ". Please generate it again."
}
