// Package crm добавляет контакты в Systeme.io и вешает на них теги.
package crm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/cosguru/fracpropgen/internal/logger"
)

// Contact данные контакта для CRM.
type Contact struct {
	FirstName string
	LastName  string
	Email     string
}

// Error неуспешный ответ CRM или сетевая ошибка.
type Error struct {
	Op     string
	Status int
	Body   string
	Err    error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("crm: %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("crm: %s: код ответа %d: %s", e.Op, e.Status, e.Body)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// IsError проверяет, пришла ли ошибка из CRM.
func IsError(err error) bool {
	var target *Error
	return errors.As(err, &target)
}

// Client клиент публичного API Systeme.io.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewClient создаёт клиента.
func NewClient(baseURL, apiKey string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// UpsertContact создаёт контакт или использует существующий с тем же email,
// затем добавляет каждый тег отдельным запросом. Теги только добавляются,
// поэтому после нескольких вызовов у контакта объединение всех тегов.
// Ошибка любого тега возвращается: контакт должен получить все теги.
func (c *Client) UpsertContact(ctx context.Context, contact Contact, tagIDs []int) error {
	if contact.Email == "" {
		return &Error{Op: "create contact", Err: fmt.Errorf("email обязателен")}
	}

	payload := map[string]string{
		"email":     contact.Email,
		"firstName": contact.FirstName,
	}
	if contact.LastName != "" {
		payload["lastName"] = contact.LastName
	}

	status, body, err := c.post(ctx, "/api/contacts", payload)
	if err != nil {
		return &Error{Op: "create contact", Err: err}
	}
	switch {
	case status < 300:
	case status == http.StatusUnprocessableEntity && emailAlreadyTaken(body):
		logger.L().WithField("email_fp", logger.Fingerprint(contact.Email)).Debug("crm: контакт уже существует, добавляем теги")
	default:
		return &Error{Op: "create contact", Status: status, Body: truncate(body)}
	}

	for _, tagID := range tagIDs {
		op := fmt.Sprintf("tag %d", tagID)
		status, body, err := c.post(ctx, fmt.Sprintf("/api/tags/%d/contacts", tagID), map[string]string{"email": contact.Email})
		if err != nil {
			return &Error{Op: op, Err: err}
		}
		if status >= 300 {
			return &Error{Op: op, Status: status, Body: truncate(body)}
		}
		logger.L().WithFields(logrus.Fields{
			"email_fp": logger.Fingerprint(contact.Email),
			"tag_id":   tagID,
		}).Debug("crm: тег добавлен")
	}
	return nil
}

func (c *Client) post(ctx context.Context, path string, payload any) (int, []byte, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return 0, nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(raw))
	if err != nil {
		return 0, nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-API-Key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 64*1024))
	if err != nil {
		return resp.StatusCode, nil, err
	}
	return resp.StatusCode, body, nil
}

// emailAlreadyTaken распознаёт 422 "контакт с таким email уже есть".
// Встречаются два формата: errors.email[] и violations[].
func emailAlreadyTaken(body []byte) bool {
	var parsed struct {
		Errors     map[string][]string `json:"errors"`
		Violations []struct {
			PropertyPath string `json:"propertyPath"`
			Message      string `json:"message"`
		} `json:"violations"`
	}
	if err := json.Unmarshal(body, &parsed); err != nil {
		return false
	}
	for _, msg := range parsed.Errors["email"] {
		if isTakenMessage(msg) {
			return true
		}
	}
	for _, v := range parsed.Violations {
		if v.PropertyPath == "email" && isTakenMessage(v.Message) {
			return true
		}
	}
	return false
}

func isTakenMessage(msg string) bool {
	msg = strings.ToLower(msg)
	return strings.Contains(msg, "already been taken") || strings.Contains(msg, "already used")
}

func truncate(body []byte) string {
	return logger.Truncate(strings.TrimSpace(string(body)), 512)
}
