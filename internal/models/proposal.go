package models

// ProposalFormInput хранит поля формы, из которых строится промпт.
type ProposalFormInput struct {
	ExecutiveName  string      `json:"executive_name" yaml:"executive_name"`
	ExecutiveRole  string      `json:"executive_role" yaml:"executive_role"`
	ClientName     string      `json:"client_name" yaml:"client_name"`
	ProjectGoal    string      `json:"project_goal" yaml:"project_goal"`
	Deliverables   string      `json:"deliverables" yaml:"deliverables"`
	Timeline       string      `json:"timeline" yaml:"timeline"`
	Price          string      `json:"price" yaml:"price"`
	ExecutiveAbout string      `json:"executive_about" yaml:"executive_about"`
	TemplateID     string      `json:"template_id" yaml:"template_id"`
	AccentColor    AccentColor `json:"accent_color" yaml:"accent_color"`
}

// Значения формы по умолчанию.
const (
	DefaultExecutiveName = "Jane Doe"
	DefaultClientName    = "Acme Inc."
	DefaultTimeline      = "3-Month Engagement"
)

// DefaultFormInput возвращает стартовое состояние формы для шаблона.
func DefaultFormInput(t Template) ProposalFormInput {
	in := ProposalFormInput{
		ExecutiveName: DefaultExecutiveName,
		ClientName:    DefaultClientName,
		Timeline:      DefaultTimeline,
		AccentColor:   DefaultAccentColor,
	}
	return in.ApplyTemplate(t)
}

// ApplyTemplate переключает шаблон: перезаписывает роль, цель, результаты и цену
// примерами шаблона. Имя, клиент, about и цвет сохраняются.
func (in ProposalFormInput) ApplyTemplate(t Template) ProposalFormInput {
	in.TemplateID = t.ID
	in.ExecutiveRole = t.ExampleValues.Role
	in.ProjectGoal = t.ExampleValues.Goal
	in.Deliverables = t.ExampleValues.Deliverables
	in.Price = t.ExampleValues.Price
	return in
}

// GeneratedProposal результат генерации предложения.
// Имена JSON-полей совпадают со схемой ответа модели.
type GeneratedProposal struct {
	Title                  string   `json:"title" yaml:"title"`
	ExecutiveSummary       string   `json:"executiveSummary" yaml:"executiveSummary"`
	ProblemStatement       string   `json:"problemStatement" yaml:"problemStatement"`
	ProposedSolution       []string `json:"proposedSolution" yaml:"proposedSolution"`
	Timeline               string   `json:"timeline" yaml:"timeline"`
	Investment             string   `json:"investment" yaml:"investment"`
	About                  string   `json:"about" yaml:"about"`
	NextSteps              string   `json:"nextSteps" yaml:"nextSteps"`
	TermsAndConditions     []string `json:"termsAndConditions" yaml:"termsAndConditions"`
	NinetyDayPlan          []string `json:"ninetyDayPlan" yaml:"ninetyDayPlan"`
	MeasuringSuccess       []string `json:"measuringSuccess" yaml:"measuringSuccess"`
	ClientResponsibilities []string `json:"clientResponsibilities" yaml:"clientResponsibilities"`
	Exclusions             []string `json:"exclusions" yaml:"exclusions"`
}

// WithAbout возвращает копию предложения с новым текстом about.
// Списки копируются, чтобы копия не делила память с оригиналом.
func (p GeneratedProposal) WithAbout(about string) GeneratedProposal {
	out := p.Clone()
	out.About = about
	return out
}

// Clone делает глубокую копию.
func (p GeneratedProposal) Clone() GeneratedProposal {
	p.ProposedSolution = cloneStrings(p.ProposedSolution)
	p.TermsAndConditions = cloneStrings(p.TermsAndConditions)
	p.NinetyDayPlan = cloneStrings(p.NinetyDayPlan)
	p.MeasuringSuccess = cloneStrings(p.MeasuringSuccess)
	p.ClientResponsibilities = cloneStrings(p.ClientResponsibilities)
	p.Exclusions = cloneStrings(p.Exclusions)
	return p
}

func cloneStrings(in []string) []string {
	if in == nil {
		return nil
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}

// GeneratedEmail сопроводительное письмо к предложению.
type GeneratedEmail struct {
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// Suggestions варианты переформулировки текста.
type Suggestions struct {
	Suggestions []string `json:"suggestions"`
}
