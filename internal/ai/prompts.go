package ai

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/cosguru/fracpropgen/internal/models"
)

// MinSuggestionTextLength минимальная длина текста (в символах после trim),
// с которой имеет смысл просить варианты переформулировки.
const MinSuggestionTextLength = 10

// Prompt текст задания и инструкция персоны (system).
type Prompt struct {
	Task    string
	Persona string
}

// BuildProposalPrompt строит задание на генерацию предложения.
// Persona берётся из шаблона без изменений.
func BuildProposalPrompt(in models.ProposalFormInput, tpl models.Template) Prompt {
	var aboutInstruction string
	if about := strings.TrimSpace(in.ExecutiveAbout); about != "" {
		aboutInstruction = fmt.Sprintf(
			"The user has provided the following text for the 'about' section. Refine it to be confident, professional, and client-focused, then use it in the final proposal. User's text: %q",
			about,
		)
	} else {
		aboutInstruction = fmt.Sprintf(
			"Generate a brief, confident, and professional bio for the executive's role (%s). Do not use the executive's name (%s). This will be the content for the 'about' section.",
			in.ExecutiveRole, in.ExecutiveName,
		)
	}

	task := fmt.Sprintf(`Based on the following details, generate a complete project proposal in JSON format that adheres to the provided schema.

**Executive Details:**
- Name: %s
- Role: %s

**Client Details:**
- Company: %s
- Main Goal: %s

**Project Specifics:**
- Key Deliverables to include and expand upon: %s
- Proposed Timeline: %s
- Investment: %s

**Instructions for 'About' Section:**
%s

Generate the proposal with the following sections:
- title: A compelling title for the proposal. E.g., "Proposal for Strategic Marketing Leadership".
- executiveSummary: A brief, powerful summary of the proposal.
- problemStatement: Elaborate on the client's goal, framing it as a challenge or opportunity.
- proposedSolution: A list of detailed actions based on the key deliverables. Each item in the list should be a clear, actionable statement.
- measuringSuccess: A list of 2-3 key performance indicators (KPIs) to track progress against the project goal.
- exclusions: A list of 2-3 items or activities explicitly out of scope to manage expectations.
- ninetyDayPlan: A high-level 30-60-90 day plan as a list of exactly three strings. The first string for Month 1 (Discovery & Planning), the second for Month 2 (Execution & Implementation), and the third for Month 3 (Optimization & Reporting). Base the specifics on the project goal and deliverables.
- timeline: A confirmation of the engagement timeline.
- investment: A confirmation of the pricing structure.
- clientResponsibilities: A list of key duties the client must fulfill for success, like providing timely access to data, stakeholders, and feedback.
- about: The content for the 'About' section, generated or refined as per the instructions above.
- nextSteps: Clear next steps for the client to engage.
- termsAndConditions: A list of standard professional service terms. Create professional clauses for each of the following: 'Payment Terms' (detailing invoicing and due dates), 'Confidentiality' (mutual non-disclosure), 'Intellectual Property' (clarifying ownership of deliverables upon final payment), 'Termination' (conditions for ending the agreement, e.g., 30-day notice), and 'Limitation of Liability' (capping liability to fees paid under this agreement).

The tone should be confident, professional, and client-focused. Ensure the output is a single, valid JSON object.`,
		in.ExecutiveName,
		in.ExecutiveRole,
		in.ClientName,
		in.ProjectGoal,
		in.Deliverables,
		in.Timeline,
		in.Price,
		aboutInstruction,
	)

	return Prompt{Task: task, Persona: tpl.PersonaInstruction}
}

// BuildEmailPrompt строит задание на сопроводительное письмо к готовому предложению.
func BuildEmailPrompt(p models.GeneratedProposal, clientName, senderName string) Prompt {
	task := fmt.Sprintf(`Based on the following proposal summary, generate a concise and professional email to send to the client. The email should introduce the attached proposal and encourage them to review it.

**Proposal Details:**
- Proposal Title: %s
- Executive Summary: %s
- Client Name: %s
- My Name: %s

**Instructions:**
- The subject line should be clear and professional, like "Proposal for [Project Title]" or "Following up on our conversation".
- The body should be friendly, professional, and brief.
- Start with a personalized greeting (e.g., "Hi [Client's First Name]"). Assume the client's first name is the first word in the Client Name.
- Mention that the proposal is attached.
- Briefly reiterate the main benefit or outcome from the proposal's executive summary.
- End with a clear call to action (e.g., suggesting a follow-up call to discuss).
- Sign off with my name.
- Keep the entire email body under 150 words.
- Ensure the output is a single, valid JSON object with the keys "subject" and "body".`,
		p.Title,
		p.ExecutiveSummary,
		clientName,
		senderName,
	)
	return Prompt{Task: task}
}

// BuildSuggestionsPrompt строит задание на три варианта переформулировки.
// Второе значение false, если текст слишком короткий и генерацию вызывать не нужно.
func BuildSuggestionsPrompt(text string) (Prompt, bool) {
	text = strings.TrimSpace(text)
	if utf8.RuneCountInString(text) < MinSuggestionTextLength {
		return Prompt{}, false
	}

	task := fmt.Sprintf(`A user has provided the following text for a project proposal: %q

Your task is to rewrite this text in three different ways to make it sound more professional, persuasive, and client-focused.
- Suggestion 1: Make it more concise and direct.
- Suggestion 2: Make it more focused on strategic value and outcomes.
- Suggestion 3: Make it sound more ambitious and visionary.

Provide the output as a JSON object with a single key "suggestions" which is an array of three strings. Do not include any explanation.`, text)

	return Prompt{Task: task}, true
}
