package document

import (
	"github.com/cosguru/fracpropgen/internal/models"
)

// Заголовки разделов в порядке вывода.
const (
	TitleExecutiveSummary       = "Executive Summary"
	TitleChallenge              = "Understanding the Challenge"
	TitleProposedSolution       = "Proposed Solution & Scope of Work"
	TitleMeasuringSuccess       = "Measuring Success"
	TitleExclusions             = "Exclusions (Out of Scope)"
	TitleNinetyDayPlan          = "90-Day Plan"
	TitleTimeline               = "Timeline"
	TitleInvestment             = "Investment"
	TitleClientResponsibilities = "Client Responsibilities"
	TitleAbout                  = "About"
	TitleNextSteps              = "Next Steps"
	TitleTerms                  = "Terms & Conditions"
	TitleAgreement              = "Agreement & Signature"
)

// Disclaimer статичный текст, модель его не пишет.
const Disclaimer = "Disclaimer: This proposal is a template and is not a substitute for legal advice. All information, including the Terms & Conditions, should be reviewed by a qualified legal representative before signing."

const signatureLine = "____________________________"

// Размеры в полупунктах.
const (
	sizeTitle      = 44
	sizePrepared   = 24
	sizeHeading    = 28
	sizeBody       = 22
	sizeDisclaimer = 20

	disclaimerColor = "888888"
	fontFamily      = "Inter"

	// две колонки по 4535 twips, в сумме ширина текста A4 с полями 1 дюйм
	signatureColumnWidth = 4535
)

// Parties имена сторон для титула и подписи.
type Parties struct {
	ClientName    string
	ExecutiveName string
	ExecutiveRole string
}

// Assemble раскладывает проверенное предложение в блоки документа.
// Порядок разделов фиксирован, пустой список даёт раздел без пунктов.
func Assemble(p models.GeneratedProposal, parties Parties, accent models.AccentColor) *Document {
	a := &assembler{accent: accent.Hex()}

	a.add(Paragraph{
		Runs:         []Run{{Text: p.Title, Bold: true, Size: sizeTitle}},
		Align:        AlignCenter,
		SpacingAfter: 120,
	})
	a.add(Paragraph{
		Runs:         []Run{{Text: "Prepared for: " + parties.ClientName, Size: sizePrepared}},
		Align:        AlignCenter,
		SpacingAfter: 400,
	})

	a.textSection(TitleExecutiveSummary, p.ExecutiveSummary)
	a.textSection(TitleChallenge, p.ProblemStatement)
	a.listSection(TitleProposedSolution, p.ProposedSolution)
	a.listSection(TitleMeasuringSuccess, p.MeasuringSuccess)
	a.listSection(TitleExclusions, p.Exclusions)
	a.listSection(TitleNinetyDayPlan, p.NinetyDayPlan)
	a.textSection(TitleTimeline, p.Timeline)
	a.textSection(TitleInvestment, p.Investment)
	a.listSection(TitleClientResponsibilities, p.ClientResponsibilities)
	a.textSection(TitleAbout, p.About)
	a.textSection(TitleNextSteps, p.NextSteps)

	a.add(Paragraph{
		Runs:          []Run{{Text: Disclaimer, Italic: true, Color: disclaimerColor, Size: sizeDisclaimer}},
		SpacingBefore: 400,
		SpacingAfter:  200,
	})

	a.listSection(TitleTerms, p.TermsAndConditions)
	a.heading(TitleAgreement)
	a.add(signatureTable(parties))

	return &Document{Blocks: a.blocks, FontFamily: fontFamily, FontSize: sizeBody}
}

type assembler struct {
	accent string
	blocks []Block
}

func (a *assembler) add(b Block) {
	a.blocks = append(a.blocks, b)
}

func (a *assembler) heading(title string) {
	a.add(Paragraph{
		Runs:          []Run{{Text: title, Bold: true, Size: sizeHeading, Color: a.accent}},
		Heading:       true,
		BorderColor:   a.accent,
		SpacingBefore: 240,
		SpacingAfter:  120,
	})
}

func (a *assembler) textSection(title, text string) {
	a.heading(title)
	a.add(Paragraph{Runs: []Run{{Text: text}}, SpacingAfter: 120})
}

func (a *assembler) listSection(title string, items []string) {
	a.heading(title)
	for _, item := range items {
		a.add(Paragraph{Runs: []Run{{Text: item}}, Bullet: true, SpacingAfter: 60})
	}
}

func signatureTable(parties Parties) Table {
	return Table{
		ColumnWidths: []int{signatureColumnWidth, signatureColumnWidth},
		Borderless:   true,
		Rows: [][]Cell{{
			signatureCell("For Client:", parties.ClientName, ""),
			signatureCell("For Consultant:", parties.ExecutiveName, parties.ExecutiveRole),
		}},
	}
}

func signatureCell(label, name, title string) Cell {
	return Cell{Paragraphs: []Paragraph{
		{Runs: []Run{{Text: label, Bold: true}}, SpacingAfter: 400},
		{Runs: []Run{{Text: signatureLine}}},
		{Runs: []Run{{Text: "Name: " + name}}},
		{Runs: []Run{{Text: "Title: " + title}}},
		{Runs: []Run{{Text: "Date: "}}},
	}}
}
