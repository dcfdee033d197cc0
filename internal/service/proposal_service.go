package service

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/h2non/filetype"
	"github.com/sirupsen/logrus"

	"github.com/cosguru/fracpropgen/internal/ai"
	"github.com/cosguru/fracpropgen/internal/document"
	"github.com/cosguru/fracpropgen/internal/logger"
	"github.com/cosguru/fracpropgen/internal/models"
	"github.com/cosguru/fracpropgen/internal/pkg/apperror"
	"github.com/cosguru/fracpropgen/internal/progress"
	"github.com/cosguru/fracpropgen/internal/templates"
	"github.com/cosguru/fracpropgen/internal/validation"
	"github.com/cosguru/fracpropgen/internal/workflow"
)

// Сколько сырого ответа модели попадает в лог.
const rawLogLimit = 2048

// Максимальная длина текста для подсказок.
const maxSuggestionText = 2000

// ExportRequest данные для выгрузки документа.
type ExportRequest struct {
	Proposal      models.GeneratedProposal
	ClientName    string
	ExecutiveName string
	ExecutiveRole string
	AccentColor   models.AccentColor
}

// Artifact готовый файл для скачивания.
type Artifact struct {
	FileName string
	MIME     string
	Data     []byte
}

// ProposalService генерация, правка и выгрузка предложений.
type ProposalService struct {
	gen      Generator
	sessions *SessionStore
	progress *progress.Simulator
	tokens   *DownloadTokenManager
	observer Observer
}

// NewProposalService создаёт сервис. sessions, sim и observer могут быть nil.
func NewProposalService(gen Generator, sessions *SessionStore, sim *progress.Simulator, tokens *DownloadTokenManager, observer Observer) *ProposalService {
	if observer == nil {
		observer = nopObserver{}
	}
	return &ProposalService{
		gen:      gen,
		sessions: sessions,
		progress: sim,
		tokens:   tokens,
		observer: observer,
	}
}

// Generate проверяет форму, вызывает модель и возвращает предложение.
// Пока идёт вызов, в сессию публикуется прогресс.
func (s *ProposalService) Generate(ctx context.Context, sessionID uuid.UUID, in models.ProposalFormInput) (*models.GeneratedProposal, error) {
	in, tpl, err := normalizeForm(in)
	if err != nil {
		return nil, err
	}

	if err := s.beginGeneration(sessionID); err != nil {
		return nil, err
	}

	var run *progress.Run
	if s.progress != nil && sessionID != uuid.Nil {
		run = s.progress.Start(ctx, sessionID)
	}

	log := logger.L().WithFields(logrus.Fields{
		"session_id":  sessionID,
		"template_id": tpl.ID,
	})

	proposal, err := s.gen.GenerateProposal(ctx, in, tpl)
	if err != nil {
		if run != nil {
			run.Finish(ctx, false)
		}
		advance(s.sessions, sessionID, workflow.EventGenerationFailed)
		return nil, generationError(log, err, apperror.MsgGenerationFailed)
	}

	if run != nil {
		run.Finish(ctx, true)
	}
	advance(s.sessions, sessionID, workflow.EventGenerated)
	log.WithField("title", proposal.Title).Info("proposal: предложение сгенерировано")
	return proposal, nil
}

// beginGeneration переводит сессию в generating. Вторая генерация в той же
// сессии, пока первая не закончилась, отклоняется.
func (s *ProposalService) beginGeneration(sessionID uuid.UUID) error {
	if s.sessions == nil || sessionID == uuid.Nil {
		return nil
	}
	m := s.sessions.Machine(sessionID)

	var events []workflow.Event
	switch m.State() {
	case workflow.DownloadRequested, workflow.LeadFormOpen, workflow.LeadCaptureFailed, workflow.LeadCaptured:
		events = []workflow.Event{workflow.EventCancel, workflow.EventSubmit}
	case workflow.DocumentExported:
		events = []workflow.Event{workflow.EventReset, workflow.EventSubmit}
	default:
		events = []workflow.Event{workflow.EventSubmit}
	}

	if err := m.Fire(events...); err != nil {
		return apperror.Wrap(err, apperror.ErrCodeConflict, "A proposal is already being generated. Please wait for it to finish.")
	}
	return nil
}

// EditAbout заменяет текст about. Предложение единственный источник этого текста,
// исходный объект не меняется.
func (s *ProposalService) EditAbout(sessionID uuid.UUID, p models.GeneratedProposal, about string) (models.GeneratedProposal, error) {
	if err := validateProposal(p); err != nil {
		return models.GeneratedProposal{}, err
	}
	if err := validation.ValidateOptional("about", about, validation.MaxAboutLength); err != nil {
		return models.GeneratedProposal{}, apperror.Wrap(err, apperror.ErrCodeValidation, capitalize(err.Error()))
	}

	s.advanceIfAllowed(sessionID, workflow.EventEditAbout, workflow.EventAboutSaved)
	return p.WithAbout(about), nil
}

// GenerateEmail пишет сопроводительное письмо к готовому предложению.
func (s *ProposalService) GenerateEmail(ctx context.Context, p models.GeneratedProposal, clientName, executiveName string) (*models.GeneratedEmail, error) {
	if err := validateProposal(p); err != nil {
		return nil, err
	}
	clientName = strings.TrimSpace(clientName)
	executiveName = strings.TrimSpace(executiveName)
	if err := requireFields(map[string]string{
		"client name":    clientName,
		"executive name": executiveName,
	}); err != nil {
		return nil, err
	}

	email, err := s.gen.GenerateEmail(ctx, p, clientName, executiveName)
	if err != nil {
		return nil, generationError(logger.L().WithField("op", "email"), err, apperror.MsgEmailFailed)
	}
	return email, nil
}

// Suggest возвращает варианты переформулировки. Короткий текст даёт пустой список без вызова модели.
func (s *ProposalService) Suggest(ctx context.Context, text string) ([]string, error) {
	if err := validation.ValidateOptional("text", text, maxSuggestionText); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeValidation, capitalize(err.Error()))
	}

	suggestions, err := s.gen.GenerateSuggestions(ctx, text)
	if err != nil {
		return nil, generationError(logger.L().WithField("op", "suggestions"), err, apperror.MsgSuggestFailed)
	}
	if suggestions == nil {
		suggestions = []string{}
	}
	return suggestions, nil
}

// Export проверяет токен скачивания, собирает документ и сериализует его в docx.
func (s *ProposalService) Export(ctx context.Context, sessionID uuid.UUID, token string, req ExportRequest) (*Artifact, error) {
	claims, err := s.tokens.Verify(token)
	if err != nil {
		return nil, err
	}
	artifact, err := s.Render(req)
	if err != nil {
		return nil, err
	}

	s.advanceIfAllowed(sessionID, workflow.EventExported, workflow.EventReset)
	s.observer.ObserveExport()
	logger.L().WithFields(logrus.Fields{
		"session_id": sessionID,
		"email_fp":   claims.Subject,
		"file":       artifact.FileName,
		"bytes":      len(artifact.Data),
	}).Info("export: документ выгружен")
	return artifact, nil
}

// Render собирает docx без проверки токена. Используется экспортом и CLI.
func (s *ProposalService) Render(req ExportRequest) (*Artifact, error) {
	if err := validateProposal(req.Proposal); err != nil {
		return nil, err
	}
	accent := req.AccentColor.Normalize()
	if !accent.Valid() {
		return nil, apperror.New(apperror.ErrCodeValidation, fmt.Sprintf("Unknown accent color %q", req.AccentColor))
	}

	doc := document.Assemble(req.Proposal, document.Parties{
		ClientName:    strings.TrimSpace(req.ClientName),
		ExecutiveName: strings.TrimSpace(req.ExecutiveName),
		ExecutiveRole: strings.TrimSpace(req.ExecutiveRole),
	}, accent)

	data, err := document.RenderDOCX(doc)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeInternal, "Failed to build the document.")
	}

	// проверяем, что наружу уходит именно docx
	kind, err := filetype.Match(data)
	if err != nil || kind.MIME.Value != document.MIMEType {
		return nil, apperror.Wrap(fmt.Errorf("export: неожиданный тип файла %q: %v", kind.MIME.Value, err), apperror.ErrCodeInternal, "Failed to build the document.")
	}

	return &Artifact{
		FileName: document.FileName(req.ClientName),
		MIME:     kind.MIME.Value,
		Data:     data,
	}, nil
}

// advanceIfAllowed продвигает сессию, только если цепочка допустима.
// Правка и выгрузка вне своего шага workflow не ошибка.
func (s *ProposalService) advanceIfAllowed(sessionID uuid.UUID, events ...workflow.Event) {
	if s.sessions == nil || sessionID == uuid.Nil || !s.sessions.Can(sessionID, events...) {
		return
	}
	advance(s.sessions, sessionID, events...)
}

// normalizeForm обрезает пробелы, подставляет шаблон и цвет по умолчанию и проверяет поля.
func normalizeForm(in models.ProposalFormInput) (models.ProposalFormInput, models.Template, error) {
	in.ExecutiveName = strings.TrimSpace(in.ExecutiveName)
	in.ExecutiveRole = strings.TrimSpace(in.ExecutiveRole)
	in.ClientName = strings.TrimSpace(in.ClientName)
	in.ProjectGoal = strings.TrimSpace(in.ProjectGoal)
	in.Deliverables = strings.TrimSpace(in.Deliverables)
	in.Timeline = strings.TrimSpace(in.Timeline)
	in.Price = strings.TrimSpace(in.Price)
	in.ExecutiveAbout = strings.TrimSpace(in.ExecutiveAbout)
	in.TemplateID = strings.TrimSpace(in.TemplateID)

	if in.TemplateID == "" {
		in.TemplateID = templates.DefaultID
	}
	if !templates.Exists(in.TemplateID) {
		return in, models.Template{}, apperror.New(apperror.ErrCodeValidation, fmt.Sprintf("Unknown template %q", in.TemplateID))
	}
	in.AccentColor = in.AccentColor.Normalize()
	if !in.AccentColor.Valid() {
		return in, models.Template{}, apperror.New(apperror.ErrCodeValidation, fmt.Sprintf("Unknown accent color %q", in.AccentColor))
	}

	if err := requireFields(map[string]string{
		"executive name": in.ExecutiveName,
		"executive role": in.ExecutiveRole,
		"client name":    in.ClientName,
		"project goal":   in.ProjectGoal,
		"deliverables":   in.Deliverables,
		"timeline":       in.Timeline,
		"price":          in.Price,
	}); err != nil {
		return in, models.Template{}, err
	}
	if err := validation.ValidateOptional("about", in.ExecutiveAbout, validation.MaxAboutLength); err != nil {
		return in, models.Template{}, apperror.Wrap(err, apperror.ErrCodeValidation, capitalize(err.Error()))
	}

	return in, templates.Find(in.TemplateID), nil
}

// requireFields проверяет поля в алфавитном порядке имён, чтобы сообщение было стабильным.
func requireFields(fields map[string]string) error {
	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if err := validation.ValidateField(name, fields[name]); err != nil {
			return apperror.Wrap(err, apperror.ErrCodeValidation, capitalize(err.Error()))
		}
	}
	return nil
}

// validateProposal проверяет предложение, пришедшее от клиента, той же схемой,
// что и ответ модели. Пропущенный список приходит как nil и не проходит проверку.
func validateProposal(p models.GeneratedProposal) error {
	if invalid := ai.InvalidProposalFields(p); len(invalid) > 0 {
		return apperror.New(apperror.ErrCodeValidation, ai.IncompleteProposalMessage(invalid))
	}
	if strings.TrimSpace(p.Title) == "" {
		return apperror.New(apperror.ErrCodeValidation, "Proposal title is required")
	}
	return nil
}

// generationError переводит ошибку модели в ошибку для клиента.
// Сырой ответ модели только в логе.
func generationError(log *logrus.Entry, err error, message string) error {
	switch {
	case ai.IsInvalidOutput(err):
		entry := log.WithError(err)
		if raw, ok := ai.RawOutput(err); ok {
			entry = entry.WithField("raw", logger.Truncate(raw, rawLogLimit))
		}
		entry.Warn("ai: ответ модели не прошёл проверку")
		return apperror.Wrap(err, apperror.ErrCodeInvalidOutput, message)
	default:
		log.WithError(err).Warn("ai: запрос к модели не удался")
		return apperror.Wrap(err, apperror.ErrCodeGenerationFailed, message)
	}
}
