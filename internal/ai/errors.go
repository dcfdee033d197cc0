package ai

import (
	"errors"
	"fmt"
)

// InvalidOutputError модель вернула текст, который не разобрался как JSON
// или не прошёл проверку схемы. Raw хранится только для логов.
type InvalidOutputError struct {
	Schema string
	Raw    string
	Reason string
}

func (e *InvalidOutputError) Error() string {
	return fmt.Sprintf("ai: некорректный ответ модели (%s): %s", e.Schema, e.Reason)
}

// RequestError сетевая ошибка или неуспешный статус от сервиса генерации.
type RequestError struct {
	Status int
	Body   string
	Err    error
}

func (e *RequestError) Error() string {
	switch {
	case e.Err != nil && e.Status > 0:
		return fmt.Sprintf("ai: код ответа %d: %v", e.Status, e.Err)
	case e.Err != nil:
		return fmt.Sprintf("ai: запрос не выполнен: %v", e.Err)
	default:
		return fmt.Sprintf("ai: код ответа %d: %s", e.Status, e.Body)
	}
}

func (e *RequestError) Unwrap() error {
	return e.Err
}

// IsInvalidOutput проверяет, является ли ошибка InvalidOutputError.
func IsInvalidOutput(err error) bool {
	var target *InvalidOutputError
	return errors.As(err, &target)
}

// IsRequestFailed проверяет, является ли ошибка RequestError.
func IsRequestFailed(err error) bool {
	var target *RequestError
	return errors.As(err, &target)
}

// RawOutput достаёт сырой ответ модели из ошибки, если он есть.
func RawOutput(err error) (string, bool) {
	var target *InvalidOutputError
	if errors.As(err, &target) {
		return target.Raw, true
	}
	return "", false
}
