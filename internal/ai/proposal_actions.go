package ai

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/cosguru/fracpropgen/internal/models"
)

// Лимиты ответа. Предложение длинное, письмо и подсказки короткие.
const (
	proposalMaxTokens    = 8192
	emailMaxTokens       = 1024
	suggestionsMaxTokens = 1024
)

var suggestionsTemperature = 0.7

// GenerateProposal генерирует предложение качественной моделью.
func (c *Client) GenerateProposal(ctx context.Context, in models.ProposalFormInput, tpl models.Template) (*models.GeneratedProposal, error) {
	prompt := BuildProposalPrompt(in, tpl)

	var out models.GeneratedProposal
	if err := c.generateInto(ctx, Request{
		Prompt:    prompt.Task,
		Persona:   prompt.Persona,
		Schema:    ProposalSchema,
		Tier:      TierQuality,
		MaxTokens: proposalMaxTokens,
	}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GenerateEmail генерирует сопроводительное письмо быстрой моделью.
func (c *Client) GenerateEmail(ctx context.Context, p models.GeneratedProposal, clientName, senderName string) (*models.GeneratedEmail, error) {
	prompt := BuildEmailPrompt(p, clientName, senderName)

	var out models.GeneratedEmail
	if err := c.generateInto(ctx, Request{
		Prompt:    prompt.Task,
		Schema:    EmailSchema,
		Tier:      TierFast,
		MaxTokens: emailMaxTokens,
	}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GenerateSuggestions возвращает варианты переформулировки.
// Для короткого текста модель не вызывается и возвращается пустой список.
func (c *Client) GenerateSuggestions(ctx context.Context, text string) ([]string, error) {
	prompt, ok := BuildSuggestionsPrompt(text)
	if !ok {
		return []string{}, nil
	}

	var out models.Suggestions
	if err := c.generateInto(ctx, Request{
		Prompt:      prompt.Task,
		Schema:      SuggestionsSchema,
		Tier:        TierFast,
		MaxTokens:   suggestionsMaxTokens,
		Temperature: &suggestionsTemperature,
	}, &out); err != nil {
		return nil, err
	}
	if out.Suggestions == nil {
		out.Suggestions = []string{}
	}
	return out.Suggestions, nil
}

// generateInto вызывает Generate и раскладывает проверенный JSON в структуру.
func (c *Client) generateInto(ctx context.Context, req Request, out any) error {
	raw, err := c.Generate(ctx, req)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(raw, out); err != nil {
		// схема уже проверена, сюда попадаем только при расхождении схемы и модели
		return &InvalidOutputError{Schema: req.Schema.Name, Raw: string(raw), Reason: fmt.Sprintf("не удалось разобрать в структуру: %v", err)}
	}
	return nil
}
