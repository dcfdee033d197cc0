package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/cosguru/fracpropgen/internal/ai"
	"github.com/cosguru/fracpropgen/internal/document"
	"github.com/cosguru/fracpropgen/internal/models"
	"github.com/cosguru/fracpropgen/internal/pkg/apperror"
	"github.com/cosguru/fracpropgen/internal/progress"
	"github.com/cosguru/fracpropgen/internal/workflow"
)

func scenarioInput() models.ProposalFormInput {
	return models.ProposalFormInput{
		ExecutiveName:  "Jane Doe",
		ExecutiveRole:  "Fractional COO",
		ClientName:     "Acme Inc.",
		TemplateID:     "strategic-leader",
		ProjectGoal:    "Grow revenue 20%",
		Deliverables:   "Audit, Roadmap",
		Price:          "$10,000/month",
		Timeline:       "3 months",
		ExecutiveAbout: "",
	}
}

func generatedProposal() *models.GeneratedProposal {
	return &models.GeneratedProposal{
		Title:                  "Proposal for Strategic Growth Leadership",
		ExecutiveSummary:       "Acme will grow revenue by 20%.",
		ProblemStatement:       "Growth has stalled.",
		ProposedSolution:       []string{"Audit", "Roadmap"},
		Timeline:               "3 months",
		Investment:             "$10,000/month",
		About:                  "A seasoned operator who has scaled three companies.",
		NextSteps:              "Book a kickoff call.",
		TermsAndConditions:     []string{"Payment Terms: monthly in advance."},
		NinetyDayPlan:          []string{"Month 1: Discovery", "Month 2: Execution", "Month 3: Optimization"},
		MeasuringSuccess:       []string{"Revenue growth"},
		ClientResponsibilities: []string{"Data access"},
		Exclusions:             []string{},
	}
}

type proposalFixture struct {
	svc      *ProposalService
	gen      *mockGenerator
	sessions *SessionStore
	pub      *recordingPublisher
	obs      *countingObserver
	tokens   *DownloadTokenManager
}

func newProposalFixture() *proposalFixture {
	gen := new(mockGenerator)
	sessions := NewSessionStore(time.Hour, nil)
	pub := &recordingPublisher{}
	sim := progress.NewSimulator(pub, time.Hour, 0)
	tokens := NewDownloadTokenManager(testSecret, 15*time.Minute, 1500*time.Millisecond)
	obs := newCountingObserver()
	return &proposalFixture{
		svc:      NewProposalService(gen, sessions, sim, tokens, obs),
		gen:      gen,
		sessions: sessions,
		pub:      pub,
		obs:      obs,
		tokens:   tokens,
	}
}

func TestProposalService_Generate_Success(t *testing.T) {
	f := newProposalFixture()
	f.gen.On("GenerateProposal", mock.Anything,
		mock.MatchedBy(func(in models.ProposalFormInput) bool {
			return in.AccentColor == models.DefaultAccentColor && in.ClientName == "Acme Inc."
		}),
		mock.MatchedBy(func(tpl models.Template) bool { return tpl.ID == "strategic-leader" }),
	).Return(generatedProposal(), nil).Once()
	sessionID := uuid.New()

	in := scenarioInput()
	in.ClientName = "  Acme Inc. "
	p, err := f.svc.Generate(context.Background(), sessionID, in)

	require.NoError(t, err)
	assert.NotEmpty(t, p.About)
	assert.Equal(t, workflow.ProposalReady, f.sessions.State(sessionID))
	assert.Equal(t, progress.Update{Percent: 100, Done: true, Success: true}, f.pub.last())
	f.gen.AssertExpectations(t)
}

func TestProposalService_Generate_EmptyTemplateUsesDefault(t *testing.T) {
	f := newProposalFixture()
	f.gen.On("GenerateProposal", mock.Anything, mock.Anything,
		mock.MatchedBy(func(tpl models.Template) bool { return tpl.ID == "strategic-leader" }),
	).Return(generatedProposal(), nil).Once()

	in := scenarioInput()
	in.TemplateID = ""
	_, err := f.svc.Generate(context.Background(), uuid.Nil, in)
	require.NoError(t, err)
	f.gen.AssertExpectations(t)
	// без сессии прогресс не публикуется
	assert.Equal(t, 0, f.pub.count())
}

func TestProposalService_Generate_Validation(t *testing.T) {
	cases := map[string]func(in *models.ProposalFormInput){
		"missing goal":     func(in *models.ProposalFormInput) { in.ProjectGoal = "  " },
		"missing price":    func(in *models.ProposalFormInput) { in.Price = "" },
		"unknown template": func(in *models.ProposalFormInput) { in.TemplateID = "nope" },
		"unknown color":    func(in *models.ProposalFormInput) { in.AccentColor = "neon" },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			f := newProposalFixture()
			sessionID := uuid.New()
			in := scenarioInput()
			mutate(&in)

			_, err := f.svc.Generate(context.Background(), sessionID, in)
			require.Error(t, err)
			assert.True(t, apperror.IsValidation(err))
			f.gen.AssertNotCalled(t, "GenerateProposal", mock.Anything, mock.Anything, mock.Anything)
			assert.Equal(t, workflow.Idle, f.sessions.State(sessionID))
		})
	}
}

func TestProposalService_Generate_InvalidOutputHidesRaw(t *testing.T) {
	f := newProposalFixture()
	raw := "not json"
	f.gen.On("GenerateProposal", mock.Anything, mock.Anything, mock.Anything).
		Return(nil, &ai.InvalidOutputError{Schema: "proposal", Raw: raw, Reason: "not json"}).Once()
	sessionID := uuid.New()

	p, err := f.svc.Generate(context.Background(), sessionID, scenarioInput())

	require.Error(t, err)
	assert.Nil(t, p)
	var appErr *apperror.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, apperror.ErrCodeInvalidOutput, appErr.Code)
	assert.Equal(t, apperror.MsgGenerationFailed, appErr.Message)
	assert.NotContains(t, appErr.Message, raw)
	assert.Equal(t, workflow.GenerationFailed, f.sessions.State(sessionID))

	last := f.pub.last().(progress.Update)
	assert.True(t, last.Done)
	assert.False(t, last.Success)
}

func TestProposalService_Generate_RequestFailedThenRetry(t *testing.T) {
	f := newProposalFixture()
	f.gen.On("GenerateProposal", mock.Anything, mock.Anything, mock.Anything).
		Return(nil, &ai.RequestError{Status: 503, Body: "overloaded"}).Once()
	f.gen.On("GenerateProposal", mock.Anything, mock.Anything, mock.Anything).
		Return(generatedProposal(), nil).Once()
	sessionID := uuid.New()

	_, err := f.svc.Generate(context.Background(), sessionID, scenarioInput())
	require.Error(t, err)
	assert.True(t, apperror.IsGenerationFailed(err))
	assert.Equal(t, workflow.GenerationFailed, f.sessions.State(sessionID))

	_, err = f.svc.Generate(context.Background(), sessionID, scenarioInput())
	require.NoError(t, err)
	assert.Equal(t, workflow.ProposalReady, f.sessions.State(sessionID))
}

func TestProposalService_Generate_ConflictWhileGenerating(t *testing.T) {
	f := newProposalFixture()
	sessionID := uuid.New()
	require.NoError(t, f.sessions.Machine(sessionID).Fire(workflow.EventSubmit))

	_, err := f.svc.Generate(context.Background(), sessionID, scenarioInput())
	require.Error(t, err)
	assert.Equal(t, apperror.ErrCodeConflict, apperror.CodeOf(err))
	f.gen.AssertNotCalled(t, "GenerateProposal", mock.Anything, mock.Anything, mock.Anything)
}

func TestProposalService_Generate_FromLeadFormRegenerates(t *testing.T) {
	f := newProposalFixture()
	f.gen.On("GenerateProposal", mock.Anything, mock.Anything, mock.Anything).Return(generatedProposal(), nil)
	sessionID := uuid.New()
	require.NoError(t, f.sessions.Machine(sessionID).Fire(
		workflow.EventSubmit, workflow.EventGenerated, workflow.EventRequestDownload, workflow.EventOpenLeadForm))

	_, err := f.svc.Generate(context.Background(), sessionID, scenarioInput())
	require.NoError(t, err)
	assert.Equal(t, workflow.ProposalReady, f.sessions.State(sessionID))
}

func TestProposalService_EditAbout(t *testing.T) {
	f := newProposalFixture()
	sessionID := uuid.New()
	require.NoError(t, f.sessions.Machine(sessionID).Fire(workflow.EventSubmit, workflow.EventGenerated))
	original := *generatedProposal()

	edited, err := f.svc.EditAbout(sessionID, original, "Edited bio")
	require.NoError(t, err)
	assert.Equal(t, "Edited bio", edited.About)
	assert.Equal(t, "A seasoned operator who has scaled three companies.", original.About)
	assert.Equal(t, original.NinetyDayPlan, edited.NinetyDayPlan)
	assert.Equal(t, workflow.ProposalReady, f.sessions.State(sessionID))

	_, err = f.svc.EditAbout(sessionID, models.GeneratedProposal{}, "x")
	assert.True(t, apperror.IsValidation(err))
}

func TestProposalService_GenerateEmail(t *testing.T) {
	f := newProposalFixture()
	p := *generatedProposal()
	f.gen.On("GenerateEmail", mock.Anything, p, "Acme Inc.", "Jane Doe").
		Return(&models.GeneratedEmail{Subject: "Proposal", Body: "Hi Acme"}, nil).Once()

	email, err := f.svc.GenerateEmail(context.Background(), p, " Acme Inc. ", "Jane Doe")
	require.NoError(t, err)
	assert.Equal(t, "Proposal", email.Subject)

	_, err = f.svc.GenerateEmail(context.Background(), p, "", "Jane Doe")
	assert.True(t, apperror.IsValidation(err))
	f.gen.AssertExpectations(t)
}

func TestProposalService_GenerateEmail_Failure(t *testing.T) {
	f := newProposalFixture()
	f.gen.On("GenerateEmail", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(nil, &ai.InvalidOutputError{Schema: "email", Raw: "{}", Reason: "missing subject"}).Once()

	_, err := f.svc.GenerateEmail(context.Background(), *generatedProposal(), "Acme", "Jane")
	require.Error(t, err)
	assert.True(t, apperror.IsInvalidOutput(err))
	assert.Equal(t, apperror.MsgEmailFailed, err.(*apperror.AppError).Message)
}

func TestProposalService_Suggest(t *testing.T) {
	f := newProposalFixture()
	f.gen.On("GenerateSuggestions", mock.Anything, "short").Return(nil, nil).Once()
	f.gen.On("GenerateSuggestions", mock.Anything, "Grow revenue by twenty percent").
		Return([]string{"a", "b", "c"}, nil).Once()
	f.gen.On("GenerateSuggestions", mock.Anything, "Broken model call").
		Return(nil, &ai.RequestError{Status: 500}).Once()

	got, err := f.svc.Suggest(context.Background(), "short")
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)

	got, err = f.svc.Suggest(context.Background(), "Grow revenue by twenty percent")
	require.NoError(t, err)
	assert.Len(t, got, 3)

	_, err = f.svc.Suggest(context.Background(), "Broken model call")
	assert.True(t, apperror.IsGenerationFailed(err))
	assert.Equal(t, apperror.MsgSuggestFailed, err.(*apperror.AppError).Message)
}

func TestProposalService_Export(t *testing.T) {
	f := newProposalFixture()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	f.tokens.now = func() time.Time { return now }
	grant, err := f.tokens.Issue("fp")
	require.NoError(t, err)

	sessionID := uuid.New()
	require.NoError(t, f.sessions.Machine(sessionID).Fire(workflow.EventSubmit, workflow.EventGenerated,
		workflow.EventRequestDownload, workflow.EventOpenLeadForm, workflow.EventLeadCaptured))

	req := ExportRequest{
		Proposal:      *generatedProposal(),
		ClientName:    "Acme Inc.",
		ExecutiveName: "Jane Doe",
		ExecutiveRole: "Fractional COO",
		AccentColor:   models.AccentTeal,
	}

	// до истечения задержки скачивание закрыто
	_, err = f.svc.Export(context.Background(), sessionID, grant.Token, req)
	require.Error(t, err)
	assert.Equal(t, apperror.ErrCodeDownloadLocked, apperror.CodeOf(err))
	assert.Equal(t, 0, f.obs.exports)

	now = grant.NotBefore
	artifact, err := f.svc.Export(context.Background(), sessionID, grant.Token, req)
	require.NoError(t, err)
	assert.Equal(t, "Proposal for Acme Inc.docx", artifact.FileName)
	assert.Equal(t, document.MIMEType, artifact.MIME)
	assert.NotEmpty(t, artifact.Data)
	assert.Equal(t, workflow.Idle, f.sessions.State(sessionID))
	assert.Equal(t, 1, f.obs.exports)
}

func TestProposalService_Export_Locked(t *testing.T) {
	f := newProposalFixture()

	for _, token := range []string{"", "garbage"} {
		_, err := f.svc.Export(context.Background(), uuid.Nil, token, ExportRequest{Proposal: *generatedProposal()})
		require.Error(t, err)
		assert.Equal(t, apperror.ErrCodeDownloadLocked, apperror.CodeOf(err))
	}
}

func TestProposalService_Export_UnknownColor(t *testing.T) {
	f := newProposalFixture()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	f.tokens.now = func() time.Time { return now }
	grant, err := f.tokens.Issue("fp")
	require.NoError(t, err)
	now = grant.NotBefore

	_, err = f.svc.Export(context.Background(), uuid.Nil, grant.Token, ExportRequest{
		Proposal:    *generatedProposal(),
		AccentColor: "neon",
	})
	assert.True(t, apperror.IsValidation(err))
}

func TestProposalService_IncompleteProposalRejected(t *testing.T) {
	f := newProposalFixture()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	f.tokens.now = func() time.Time { return now }
	grant, err := f.tokens.Issue("fp")
	require.NoError(t, err)
	now = grant.NotBefore

	partial := models.GeneratedProposal{Title: "Only a title"}

	_, err = f.svc.Export(context.Background(), uuid.Nil, grant.Token, ExportRequest{Proposal: partial, ClientName: "Acme"})
	require.Error(t, err)
	assert.True(t, apperror.IsValidation(err))
	assert.Contains(t, err.(*apperror.AppError).Message, "ninetyDayPlan")
	assert.Equal(t, 0, f.obs.exports)

	_, err = f.svc.Render(ExportRequest{Proposal: partial})
	assert.True(t, apperror.IsValidation(err))

	_, err = f.svc.EditAbout(uuid.Nil, partial, "x")
	assert.True(t, apperror.IsValidation(err))

	_, err = f.svc.GenerateEmail(context.Background(), partial, "Acme", "Jane")
	assert.True(t, apperror.IsValidation(err))
	f.gen.AssertNotCalled(t, "GenerateEmail", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

// Сценарий: пустой about при генерации, модель пишет свой текст,
// документ содержит центрированный жирный заголовок и непустой раздел About.
func TestProposalService_GenerateThenExportDocument(t *testing.T) {
	f := newProposalFixture()
	f.gen.On("GenerateProposal", mock.Anything,
		mock.MatchedBy(func(in models.ProposalFormInput) bool { return in.ExecutiveAbout == "" }),
		mock.Anything,
	).Return(generatedProposal(), nil).Once()

	p, err := f.svc.Generate(context.Background(), uuid.New(), scenarioInput())
	require.NoError(t, err)

	doc := document.Assemble(*p, document.Parties{ClientName: "Acme Inc.", ExecutiveName: "Jane Doe"}, models.DefaultAccentColor)
	title := doc.Blocks[0].(document.Paragraph)
	assert.Equal(t, document.AlignCenter, title.Align)
	require.NotEmpty(t, title.Runs)
	assert.True(t, title.Runs[0].Bold)

	about, ok := doc.Section(document.TitleAbout)
	require.True(t, ok)
	require.NotEmpty(t, about.Body)
	assert.NotEqual(t, "", about.Body[0].Text())

	exclusions, ok := doc.Section(document.TitleExclusions)
	require.True(t, ok)
	assert.Empty(t, exclusions.Items)
}
