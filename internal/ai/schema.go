package ai

import (
	"fmt"
	"strings"
)

// FieldKind тип обязательного поля ответа.
type FieldKind string

const (
	KindString      FieldKind = "string"
	KindStringArray FieldKind = "array<string>"
	KindObject      FieldKind = "object"
)

// Field обязательное поле схемы.
type Field struct {
	Name string
	Kind FieldKind
}

// Schema описывает форму JSON-объекта, который должна вернуть модель.
type Schema struct {
	Name   string
	Fields []Field
}

// Names имена обязательных полей в порядке объявления.
func (s Schema) Names() []string {
	names := make([]string, 0, len(s.Fields))
	for _, f := range s.Fields {
		names = append(names, f.Name)
	}
	return names
}

// JSONSchema представление схемы для response_format.
// Объекты закрыты (additionalProperties: false), иначе strict режим отклоняет схему.
func (s Schema) JSONSchema() map[string]any {
	props := make(map[string]any, len(s.Fields))
	for _, f := range s.Fields {
		switch f.Kind {
		case KindStringArray:
			props[f.Name] = map[string]any{
				"type":  "array",
				"items": map[string]any{"type": "string"},
			}
		case KindObject:
			props[f.Name] = map[string]any{
				"type":                 "object",
				"properties":           map[string]any{},
				"additionalProperties": false,
			}
		default:
			props[f.Name] = map[string]any{"type": "string"}
		}
	}
	return map[string]any{
		"type":                 "object",
		"properties":           props,
		"required":             s.Names(),
		"additionalProperties": false,
	}
}

// InvalidFields имена обязательных полей, которых нет или тип которых не совпадает.
func (s Schema) InvalidFields(obj map[string]any) []string {
	var invalid []string
	for _, f := range s.Fields {
		v, ok := obj[f.Name]
		if !ok || checkKind(v, f.Kind) != "" {
			invalid = append(invalid, f.Name)
		}
	}
	return invalid
}

// Validate проверяет, что все обязательные поля есть и имеют нужный тип.
// Лишние поля допускаются.
func (s Schema) Validate(obj map[string]any) error {
	var problems []string
	for _, f := range s.Fields {
		v, ok := obj[f.Name]
		if !ok {
			problems = append(problems, fmt.Sprintf("нет поля %q", f.Name))
			continue
		}
		if reason := checkKind(v, f.Kind); reason != "" {
			problems = append(problems, fmt.Sprintf("поле %q: %s", f.Name, reason))
		}
	}
	if len(problems) > 0 {
		return fmt.Errorf("%s", strings.Join(problems, "; "))
	}
	return nil
}

func checkKind(v any, kind FieldKind) string {
	switch kind {
	case KindString:
		if _, ok := v.(string); !ok {
			return fmt.Sprintf("ожидалась строка, получено %s", typeName(v))
		}
	case KindStringArray:
		arr, ok := v.([]any)
		if !ok {
			return fmt.Sprintf("ожидался массив строк, получено %s", typeName(v))
		}
		for i, item := range arr {
			if _, ok := item.(string); !ok {
				return fmt.Sprintf("элемент %d: ожидалась строка, получено %s", i, typeName(item))
			}
		}
	case KindObject:
		if _, ok := v.(map[string]any); !ok {
			return fmt.Sprintf("ожидался объект, получено %s", typeName(v))
		}
	}
	return ""
}

func typeName(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case string:
		return "string"
	case bool:
		return "bool"
	case float64:
		return "number"
	case []any:
		return "array"
	case map[string]any:
		return "object"
	default:
		return fmt.Sprintf("%T", v)
	}
}

// ProposalSchema схема ответа для генерации предложения.
var ProposalSchema = Schema{
	Name: "proposal",
	Fields: []Field{
		{Name: "title", Kind: KindString},
		{Name: "executiveSummary", Kind: KindString},
		{Name: "problemStatement", Kind: KindString},
		{Name: "proposedSolution", Kind: KindStringArray},
		{Name: "timeline", Kind: KindString},
		{Name: "investment", Kind: KindString},
		{Name: "about", Kind: KindString},
		{Name: "nextSteps", Kind: KindString},
		{Name: "termsAndConditions", Kind: KindStringArray},
		{Name: "ninetyDayPlan", Kind: KindStringArray},
		{Name: "measuringSuccess", Kind: KindStringArray},
		{Name: "clientResponsibilities", Kind: KindStringArray},
		{Name: "exclusions", Kind: KindStringArray},
	},
}

// EmailSchema схема сопроводительного письма.
var EmailSchema = Schema{
	Name: "email",
	Fields: []Field{
		{Name: "subject", Kind: KindString},
		{Name: "body", Kind: KindString},
	},
}

// SuggestionsSchema схема вариантов переформулировки.
var SuggestionsSchema = Schema{
	Name: "suggestions",
	Fields: []Field{
		{Name: "suggestions", Kind: KindStringArray},
	},
}
