package models

// TemplateExample содержит примерные значения полей формы для шаблона.
type TemplateExample struct {
	Role         string `json:"executive_role" yaml:"executive_role"`
	Goal         string `json:"project_goal" yaml:"project_goal"`
	Deliverables string `json:"deliverables" yaml:"deliverables"`
	Price        string `json:"price" yaml:"price"`
}

// Template описывает персону, от имени которой пишется предложение.
type Template struct {
	ID                 string          `json:"id"`
	Name               string          `json:"name"`
	Description        string          `json:"description"`
	PersonaInstruction string          `json:"persona_instruction"`
	ExampleValues      TemplateExample `json:"example_values"`
}
