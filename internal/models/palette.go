package models

import "strings"

// AccentColor токен цвета заголовков из фиксированной палитры.
type AccentColor string

const (
	AccentIndigo  AccentColor = "indigo"
	AccentGreen   AccentColor = "green"
	AccentBlue    AccentColor = "blue"
	AccentSlate   AccentColor = "slate"
	AccentCrimson AccentColor = "crimson"
	AccentAmber   AccentColor = "amber"
	AccentTeal    AccentColor = "teal"
	AccentViolet  AccentColor = "violet"
)

const DefaultAccentColor = AccentIndigo

// PaletteEntry элемент палитры для отдачи клиенту.
type PaletteEntry struct {
	Token AccentColor `json:"token"`
	Hex   string      `json:"hex"`
}

// Palette порядок важен: так цвета показываются в форме.
var Palette = []PaletteEntry{
	{Token: AccentIndigo, Hex: "4F46E5"},
	{Token: AccentGreen, Hex: "198648"},
	{Token: AccentBlue, Hex: "2563EB"},
	{Token: AccentSlate, Hex: "334155"},
	{Token: AccentCrimson, Hex: "B91C1C"},
	{Token: AccentAmber, Hex: "B45309"},
	{Token: AccentTeal, Hex: "0F766E"},
	{Token: AccentViolet, Hex: "7C3AED"},
}

// Normalize приводит токен к нижнему регистру, пустой токен заменяет на цвет по умолчанию.
func (c AccentColor) Normalize() AccentColor {
	v := AccentColor(strings.ToLower(strings.TrimSpace(string(c))))
	if v == "" {
		return DefaultAccentColor
	}
	return v
}

// Valid проверяет, что токен есть в палитре.
func (c AccentColor) Valid() bool {
	_, ok := c.lookup()
	return ok
}

// Hex возвращает цвет в формате RRGGBB. Неизвестный токен даёт цвет по умолчанию.
func (c AccentColor) Hex() string {
	if hex, ok := c.lookup(); ok {
		return hex
	}
	hex, _ := DefaultAccentColor.lookup()
	return hex
}

func (c AccentColor) lookup() (string, bool) {
	norm := c.Normalize()
	for _, e := range Palette {
		if e.Token == norm {
			return e.Hex, true
		}
	}
	return "", false
}
