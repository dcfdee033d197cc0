package dto

import (
	"encoding/json"

	"github.com/cosguru/fracpropgen/internal/ai"
	"github.com/cosguru/fracpropgen/internal/models"
	"github.com/cosguru/fracpropgen/internal/pkg/apperror"
)

// ProposalPayload предложение, присланное клиентом обратно.
// Разбор помнит, каких ключей не было: после декодирования в структуру
// отсутствующая строка неотличима от пустой.
type ProposalPayload struct {
	models.GeneratedProposal
	invalid []string
	decoded bool
}

func (p *ProposalPayload) UnmarshalJSON(data []byte) error {
	var obj map[string]any
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}
	p.decoded = true
	// null тоже сюда: obj == nil, все поля невалидны
	p.invalid = ai.ProposalSchema.InvalidFields(obj)
	if len(p.invalid) > 0 {
		// типы не сошлись, структуру не заполняем, ответом будет VALIDATION_ERROR
		return nil
	}
	return json.Unmarshal(data, &p.GeneratedProposal)
}

// Err VALIDATION_ERROR, если предложения нет или оно неполное.
func (p ProposalPayload) Err() error {
	if !p.decoded {
		return apperror.New(apperror.ErrCodeValidation, "Proposal is required")
	}
	if len(p.invalid) > 0 {
		return apperror.New(apperror.ErrCodeValidation, ai.IncompleteProposalMessage(p.invalid))
	}
	return nil
}
