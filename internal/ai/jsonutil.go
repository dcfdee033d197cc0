package ai

import (
	"bytes"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

var codeFenceRe = regexp.MustCompile("(?s)^```(?:json|JSON)?\\s*\\n?(.*?)\\s*```$")

// extractJSON убирает только markdown-обёртку вокруг ответа.
// Текст вокруг JSON не вырезается: такой ответ считается невалидным.
func extractJSON(text string) string {
	text = strings.TrimSpace(text)
	if m := codeFenceRe.FindStringSubmatch(text); len(m) > 1 {
		text = strings.TrimSpace(m[1])
	}
	return text
}

// parseObject разбирает ответ модели в JSON-объект.
// Возвращает очищенный JSON и разобранный объект.
func parseObject(raw string) (string, map[string]any, error) {
	cleaned := extractJSON(raw)
	if cleaned == "" {
		return "", nil, fmt.Errorf("пустой ответ")
	}

	dec := json.NewDecoder(bytes.NewReader([]byte(cleaned)))
	var value any
	if err := dec.Decode(&value); err != nil {
		return "", nil, fmt.Errorf("ответ не является JSON: %v", err)
	}
	if dec.More() {
		return "", nil, fmt.Errorf("после JSON-объекта есть лишние данные")
	}

	obj, ok := value.(map[string]any)
	if !ok {
		return "", nil, fmt.Errorf("ожидался JSON-объект, получено %s", typeName(value))
	}
	return cleaned, obj, nil
}
