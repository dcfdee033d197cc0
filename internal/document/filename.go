package document

import (
	"strings"
	"unicode"
)

const (
	maxNameRunes     = 100
	fallbackFileName = "Client"
	allowedPunct     = "-_.,&()'"
)

// FileName имя файла выгрузки: "Proposal for {client}.docx".
func FileName(clientName string) string {
	return "Proposal for " + SanitizeName(clientName) + ".docx"
}

// SanitizeName оставляет буквы, цифры, пробел и -_.,&()'. Остальное заменяется пробелом,
// пробелы схлопываются, точки и пробелы по краям убираются, длина ограничена.
func SanitizeName(name string) string {
	var b strings.Builder
	for _, r := range name {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
		case strings.ContainsRune(allowedPunct, r):
			b.WriteRune(r)
		default:
			b.WriteRune(' ')
		}
	}

	clean := strings.Join(strings.Fields(b.String()), " ")
	if runes := []rune(clean); len(runes) > maxNameRunes {
		clean = string(runes[:maxNameRunes])
	}
	clean = strings.Trim(clean, ". ")
	if clean == "" {
		return fallbackFileName
	}
	return clean
}
