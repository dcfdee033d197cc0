// Package templates содержит каталог персон для генерации предложений.
package templates

import "github.com/cosguru/fracpropgen/internal/models"

// DefaultID шаблон, который используется при неизвестном id.
const DefaultID = "strategic-leader"

var catalog = []models.Template{
	{
		ID:                 "strategic-leader",
		Name:               "Fractional Executive Leader",
		Description:        "A balanced, high-level approach for general fractional leadership roles.",
		PersonaInstruction: "You are an expert proposal writer for fractional executives. Your proposals are clear, concise, and persuasive, focusing on strategic value and business outcomes. Your tone is confident, professional, and client-focused, leading to a high conversion rate.",
		ExampleValues: models.TemplateExample{
			Role:         "Fractional Executive",
			Goal:         "Develop and implement a comprehensive strategic plan to achieve 20% year-over-year growth.",
			Deliverables: "Business model analysis, 3-year strategic roadmap, OKR framework implementation, Quarterly business review process",
			Price:        "$10,000/month retainer",
		},
	},
	{
		ID:                 "business-consultant",
		Name:               "Business Consultant",
		Description:        "A versatile template for general business improvement, process optimization, and problem-solving projects.",
		PersonaInstruction: "You are an expert proposal writer for Business Consultants. Your proposals are structured, clear, and focused on delivering actionable solutions to complex business challenges. Your tone is analytical, collaborative, and results-oriented.",
		ExampleValues: models.TemplateExample{
			Role:         "Business Consultant",
			Goal:         "Identify key areas for operational improvement and develop a roadmap to increase efficiency by 15% within six months.",
			Deliverables: "Current state analysis report, Process improvement recommendations, Implementation roadmap, Quarterly progress reviews",
			Price:        "$12,000 fixed project fee",
		},
	},
	{
		ID:                 "strategic-advisor",
		Name:               "Strategic Advisor",
		Description:        "A high-level template for providing strategic guidance and advisory services to leadership teams.",
		PersonaInstruction: "You are an expert proposal writer for Strategic Advisors to executive boards. Your proposals are insightful, forward-looking, and focused on long-term value creation and strategic decision-making. Your tone is discerning, authoritative, and trusted.",
		ExampleValues: models.TemplateExample{
			Role:         "Strategic Advisor",
			Goal:         "Provide ongoing strategic counsel to the CEO and board on market expansion, competitive positioning, and long-term growth initiatives.",
			Deliverables: "Monthly advisory sessions, Market trend analysis reports, Strategic initiative review, Ad-hoc expert counsel",
			Price:        "$5,000/month advisory retainer",
		},
	},
	{
		ID:                 "fractional-cmo",
		Name:               "Fractional CMO",
		Description:        "Focuses on growth, metrics, and customer acquisition for a fCMO.",
		PersonaInstruction: "You are an expert proposal writer for Fractional CMOs. Your proposals are data-driven, highlighting growth metrics, customer acquisition strategies, and ROI. Your tone is energetic, insightful, and laser-focused on market domination.",
		ExampleValues: models.TemplateExample{
			Role:         "Fractional CMO",
			Goal:         "Increase marketing-qualified leads (MQLs) by 50% in the next quarter through targeted digital campaigns.",
			Deliverables: "Marketing strategy audit, New content marketing plan, SEO optimization roadmap, Paid advertising campaign management",
			Price:        "$7,500/month retainer",
		},
	},
	{
		ID:                 "fractional-coo",
		Name:               "Fractional COO",
		Description:        "Focuses on efficiency, process, and scaling operations for a fCOO.",
		PersonaInstruction: "You are an expert proposal writer for Fractional COOs. Your proposals are structured and practical, focusing on operational efficiency, process improvement, and scalable growth. Your tone is methodical, decisive, and centered on building a robust operational foundation for the business.",
		ExampleValues: models.TemplateExample{
			Role:         "Fractional COO",
			Goal:         "Streamline core business processes to increase operational efficiency by 30%.",
			Deliverables: "Operational workflow audit, Process mapping and optimization plan, KPI dashboard implementation, Supply chain analysis",
			Price:        "$8,500/month retainer",
		},
	},
	{
		ID:                 "fractional-cfo",
		Name:               "Fractional CFO",
		Description:        "Emphasizes profitability and financial health for a fCFO.",
		PersonaInstruction: "You are an expert proposal writer for Fractional CFOs. Your proposals are analytical and precise, focusing on profitability, financial stability, and risk mitigation. Your tone is authoritative, trustworthy, and centered on fiscal responsibility and strategic financial planning.",
		ExampleValues: models.TemplateExample{
			Role:         "Fractional CFO",
			Goal:         "Improve profit margins by 15% through financial modeling, forecasting, and expense optimization.",
			Deliverables: "Financial health assessment, Cash flow forecasting model, Unit economics analysis, Investor-ready financial reporting package",
			Price:        "$8,000/month retainer",
		},
	},
	{
		ID:                 "fractional-cto",
		Name:               "Fractional CTO",
		Description:        "Highlights innovation and technical strategy for a fCTO.",
		PersonaInstruction: "You are an expert proposal writer for Fractional CTOs. Your proposals are forward-thinking and innovative, emphasizing technical excellence, scalability, and digital transformation. Your tone is visionary, strategic, and focused on leveraging technology to create a competitive advantage.",
		ExampleValues: models.TemplateExample{
			Role:         "Fractional CTO",
			Goal:         "Lead the development and launch of the new SaaS product platform within 9 months.",
			Deliverables: "Technology stack evaluation, Product development roadmap, Engineering team hiring plan, Agile development process implementation",
			Price:        "$9,000/month retainer",
		},
	},
	{
		ID:                 "fractional-cso",
		Name:               "Fractional CSO",
		Description:        "Highlights revenue growth and sales process for a fCSO.",
		PersonaInstruction: "You are an expert proposal writer for Fractional Sales Leaders. Your proposals are dynamic and results-driven, focusing on accelerating revenue growth, optimizing the sales process, and building high-performance sales teams. Your tone is persuasive, confident, and relentlessly focused on hitting targets and exceeding market expectations.",
		ExampleValues: models.TemplateExample{
			Role:         "Fractional CSO",
			Goal:         "Increase new sales revenue by 40% in the next two quarters.",
			Deliverables: "Sales process audit and redesign, CRM optimization plan, Sales playbook creation, Sales team coaching and training",
			Price:        "$9,500/month retainer",
		},
	},
	{
		ID:                 "fractional-chro",
		Name:               "Fractional CHRO",
		Description:        "Centers on talent, culture, and organizational health for a fCHRO.",
		PersonaInstruction: "You are an expert proposal writer for Fractional CHROs. Your proposals are people-centric and strategic, focusing on building strong company culture, attracting top talent, and enhancing employee engagement. Your tone is empathetic, insightful, and dedicated to aligning people strategy with business objectives.",
		ExampleValues: models.TemplateExample{
			Role:         "Fractional CHRO",
			Goal:         "Reduce employee turnover by 25% and improve employee net promoter score (eNPS).",
			Deliverables: "Company culture assessment, Employee engagement survey and action plan, Performance management system redesign, Leadership training program",
			Price:        "$7,000/month retainer",
		},
	},
}

// Find возвращает шаблон по id. Неизвестный id даёт первый шаблон каталога.
func Find(id string) models.Template {
	for _, t := range catalog {
		if t.ID == id {
			return t
		}
	}
	return catalog[0]
}

// Exists сообщает, есть ли шаблон с таким id.
func Exists(id string) bool {
	for _, t := range catalog {
		if t.ID == id {
			return true
		}
	}
	return false
}

// All возвращает копию каталога в исходном порядке.
func All() []models.Template {
	out := make([]models.Template, len(catalog))
	copy(out, catalog)
	return out
}

// IDs список идентификаторов.
func IDs() []string {
	ids := make([]string, 0, len(catalog))
	for _, t := range catalog {
		ids = append(ids, t.ID)
	}
	return ids
}
