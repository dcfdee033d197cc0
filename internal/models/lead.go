package models

import "strings"

// Lead контакт посетителя, который хочет скачать документ.
// Не хранится после передачи в CRM.
type Lead struct {
	Name      string `json:"name"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
}

// Names возвращает имя и фамилию. Если заданы раздельные поля, используются они,
// иначе полное имя делится по первому пробелу.
func (l Lead) Names() (first, last string) {
	first = strings.TrimSpace(l.FirstName)
	last = strings.TrimSpace(l.LastName)
	if first != "" {
		return first, last
	}
	return SplitName(l.Name)
}

// SplitName делит полное имя на первое слово и остаток.
func SplitName(full string) (first, last string) {
	parts := strings.Fields(full)
	switch len(parts) {
	case 0:
		return "", ""
	case 1:
		return parts[0], ""
	default:
		return parts[0], strings.Join(parts[1:], " ")
	}
}

// NormalizedEmail email в нижнем регистре без пробелов по краям.
func (l Lead) NormalizedEmail() string {
	return strings.ToLower(strings.TrimSpace(l.Email))
}
