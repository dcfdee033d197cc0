package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// ModelTier выбирает модель: качественную для полного предложения
// или быструю для письма и подсказок.
type ModelTier string

const (
	TierQuality ModelTier = "quality"
	TierFast    ModelTier = "fast"
)

// Recorder получает результат каждого вызова модели (метрики).
type Recorder interface {
	ObserveGeneration(schema string, tier ModelTier, outcome string, elapsed time.Duration)
}

// Исходы вызова для Recorder.
const (
	OutcomeOK            = "ok"
	OutcomeInvalidOutput = "invalid_output"
	OutcomeRequestFailed = "request_failed"
)

// Options параметры клиента.
type Options struct {
	BaseURL      string
	APIKey       string
	QualityModel string
	FastModel    string
	Timeout      time.Duration
	HTTPClient   *http.Client
	Recorder     Recorder
}

// Client вызывает OpenAI-совместимый chat/completions с требованием JSON по схеме.
type Client struct {
	baseURL    string
	apiKey     string
	models     map[ModelTier]string
	httpClient *http.Client
	recorder   Recorder
}

// NewClient создаёт экземпляр клиента.
func NewClient(opts Options) *Client {
	httpClient := opts.HTTPClient
	if httpClient == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = 120 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}

	quality := opts.QualityModel
	if quality == "" {
		quality = "gemini-2.5-pro"
	}
	fast := opts.FastModel
	if fast == "" {
		fast = "gemini-2.5-flash"
	}

	return &Client{
		baseURL:    opts.BaseURL,
		apiKey:     opts.APIKey,
		models:     map[ModelTier]string{TierQuality: quality, TierFast: fast},
		httpClient: httpClient,
		recorder:   opts.Recorder,
	}
}

// Model возвращает имя модели для уровня.
func (c *Client) Model(tier ModelTier) string {
	if m, ok := c.models[tier]; ok {
		return m
	}
	return c.models[TierQuality]
}

// Request запрос на генерацию.
type Request struct {
	Prompt      string
	Persona     string
	Schema      Schema
	Tier        ModelTier
	MaxTokens   int
	Temperature *float64
}

// Generate отправляет запрос, разбирает ответ и проверяет его по схеме.
// Возвращает очищенный JSON, который гарантированно содержит все обязательные поля.
func (c *Client) Generate(ctx context.Context, req Request) (json.RawMessage, error) {
	if strings.TrimSpace(req.Prompt) == "" {
		return nil, fmt.Errorf("ai: пустой промпт")
	}

	started := time.Now()
	raw, err := c.chatCompletion(ctx, req)
	if err != nil {
		c.observe(req, OutcomeRequestFailed, started)
		return nil, err
	}

	cleaned, obj, err := parseObject(raw)
	if err != nil {
		c.observe(req, OutcomeInvalidOutput, started)
		return nil, &InvalidOutputError{Schema: req.Schema.Name, Raw: raw, Reason: err.Error()}
	}
	if err := req.Schema.Validate(obj); err != nil {
		c.observe(req, OutcomeInvalidOutput, started)
		return nil, &InvalidOutputError{Schema: req.Schema.Name, Raw: raw, Reason: err.Error()}
	}

	c.observe(req, OutcomeOK, started)
	return json.RawMessage(cleaned), nil
}

func (c *Client) observe(req Request, outcome string, started time.Time) {
	if c.recorder != nil {
		c.recorder.ObserveGeneration(req.Schema.Name, req.Tier, outcome, time.Since(started))
	}
}

// chatCompletion выполняет запрос к OpenAI-совместимому API и возвращает текст первого ответа.
func (c *Client) chatCompletion(ctx context.Context, req Request) (string, error) {
	if c.baseURL == "" {
		return "", &RequestError{Err: fmt.Errorf("baseURL не задан")}
	}

	messages := make([]map[string]string, 0, 2)
	if req.Persona != "" {
		messages = append(messages, map[string]string{"role": "system", "content": req.Persona})
	}
	messages = append(messages, map[string]string{"role": "user", "content": req.Prompt})

	payload := map[string]any{
		"model":    c.Model(req.Tier),
		"messages": messages,
		"response_format": map[string]any{
			"type": "json_schema",
			"json_schema": map[string]any{
				"name":   req.Schema.Name,
				"strict": true,
				"schema": req.Schema.JSONSchema(),
			},
		},
	}
	if req.MaxTokens > 0 {
		payload["max_tokens"] = req.MaxTokens
	}
	if req.Temperature != nil {
		payload["temperature"] = *req.Temperature
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("ai: не удалось сериализовать запрос: %w", err)
	}

	url := c.baseURL
	if !strings.HasSuffix(url, "/") {
		url += "/"
	}
	url += "chat/completions"

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", &RequestError{Err: err}
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", &RequestError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		errorBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", &RequestError{Status: resp.StatusCode, Body: strings.TrimSpace(string(errorBody))}
	}

	var result struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", &RequestError{Status: resp.StatusCode, Err: fmt.Errorf("не удалось разобрать ответ: %w", err)}
	}

	if len(result.Choices) == 0 {
		return "", &RequestError{Status: resp.StatusCode, Err: fmt.Errorf("пустой ответ")}
	}

	return result.Choices[0].Message.Content, nil
}
