// Package document собирает предложение в упорядоченный набор блоков
// и сериализует его в .docx.
package document

import "strings"

// Alignment выравнивание абзаца.
type Alignment string

const (
	AlignLeft   Alignment = "left"
	AlignCenter Alignment = "center"
)

// Run фрагмент текста с одним оформлением. Size в полупунктах, Color в RRGGBB.
type Run struct {
	Text   string
	Bold   bool
	Italic bool
	Size   int
	Color  string
}

// Paragraph абзац документа.
type Paragraph struct {
	Runs          []Run
	Align         Alignment
	Heading       bool
	Bullet        bool
	BorderColor   string
	SpacingBefore int
	SpacingAfter  int
}

// Text склеенный текст всех фрагментов.
func (p Paragraph) Text() string {
	var b strings.Builder
	for _, r := range p.Runs {
		b.WriteString(r.Text)
	}
	return b.String()
}

// Cell ячейка таблицы.
type Cell struct {
	Paragraphs []Paragraph
}

// Table таблица с фиксированными ширинами колонок (twips).
type Table struct {
	ColumnWidths []int
	Rows         [][]Cell
	Borderless   bool
}

// Block абзац или таблица.
type Block interface {
	isBlock()
}

func (Paragraph) isBlock() {}
func (Table) isBlock()     {}

// Document упорядоченный набор блоков и базовый стиль.
type Document struct {
	Blocks     []Block
	FontFamily string
	FontSize   int
}

// Section содержимое раздела между его заголовком и следующим заголовком.
type Section struct {
	Heading Paragraph
	Body    []Paragraph
	Items   []string
}

// Section ищет раздел по тексту заголовка.
func (d *Document) Section(title string) (Section, bool) {
	var (
		sec   Section
		found bool
	)
	for _, blk := range d.Blocks {
		p, isPara := blk.(Paragraph)
		if found {
			if !isPara || p.Heading {
				break
			}
			if p.Bullet {
				sec.Items = append(sec.Items, p.Text())
			} else {
				sec.Body = append(sec.Body, p)
			}
			continue
		}
		if isPara && p.Heading && p.Text() == title {
			sec.Heading = p
			found = true
		}
	}
	return sec, found
}

// Headings тексты всех заголовков по порядку.
func (d *Document) Headings() []string {
	var out []string
	for _, blk := range d.Blocks {
		if p, ok := blk.(Paragraph); ok && p.Heading {
			out = append(out, p.Text())
		}
	}
	return out
}
