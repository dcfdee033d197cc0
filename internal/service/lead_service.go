package service

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/cosguru/fracpropgen/internal/crm"
	"github.com/cosguru/fracpropgen/internal/logger"
	"github.com/cosguru/fracpropgen/internal/models"
	"github.com/cosguru/fracpropgen/internal/pkg/apperror"
	"github.com/cosguru/fracpropgen/internal/validation"
	"github.com/cosguru/fracpropgen/internal/workflow"
)

// LeadService принимает форму контакта и открывает скачивание.
type LeadService struct {
	crm      ContactUpserter
	tagIDs   []int
	tokens   *DownloadTokenManager
	sessions *SessionStore
	observer Observer
}

// NewLeadService создаёт сервис. sessions и observer могут быть nil.
func NewLeadService(crmClient ContactUpserter, tagIDs []int, tokens *DownloadTokenManager, sessions *SessionStore, observer Observer) *LeadService {
	if observer == nil {
		observer = nopObserver{}
	}
	return &LeadService{
		crm:      crmClient,
		tagIDs:   append([]int(nil), tagIDs...),
		tokens:   tokens,
		sessions: sessions,
		observer: observer,
	}
}

// Capture проверяет имя и email, передаёт контакт в CRM и выдаёт токен скачивания.
// Невалидный ввод отклоняется до любого сетевого вызова.
func (s *LeadService) Capture(ctx context.Context, sessionID uuid.UUID, lead models.Lead) (*DownloadGrant, error) {
	first, last := lead.Names()
	email := lead.NormalizedEmail()

	if err := validateLead(first, last, email); err != nil {
		s.observer.ObserveLead(LeadOutcomeInvalid)
		return nil, err
	}

	s.openLeadForm(sessionID)

	fp := logger.Fingerprint(email)
	log := logger.L().WithFields(logrus.Fields{
		"session_id": sessionID,
		"email_fp":   fp,
	})

	contact := crm.Contact{FirstName: first, LastName: last, Email: email}
	if err := s.crm.UpsertContact(ctx, contact, s.tagIDs); err != nil {
		s.observer.ObserveLead(LeadOutcomeCRMFailed)
		advance(s.sessions, sessionID, workflow.EventLeadFailed)
		log.WithError(err).Warn("lead: CRM не приняла контакт")
		return nil, apperror.Wrap(err, apperror.ErrCodeLeadCapture, apperror.MsgLeadCapture)
	}

	grant, err := s.tokens.Issue(fp)
	if err != nil {
		advance(s.sessions, sessionID, workflow.EventLeadFailed)
		log.WithError(err).Error("lead: не удалось выпустить токен")
		return nil, apperror.Wrap(err, apperror.ErrCodeInternal, "Failed to prepare the download.")
	}

	s.observer.ObserveLead(LeadOutcomeCaptured)
	advance(s.sessions, sessionID, workflow.EventLeadCaptured)
	log.WithField("tags", len(s.tagIDs)).Info("lead: контакт сохранён")
	return grant, nil
}

// openLeadForm доводит сессию до открытой формы из любого состояния,
// где пользователь может нажать "скачать".
func (s *LeadService) openLeadForm(sessionID uuid.UUID) {
	if s.sessions == nil || sessionID == uuid.Nil {
		return
	}
	switch s.sessions.State(sessionID) {
	case workflow.ProposalReady:
		advance(s.sessions, sessionID, workflow.EventRequestDownload, workflow.EventOpenLeadForm)
	case workflow.DownloadRequested, workflow.LeadCaptureFailed:
		advance(s.sessions, sessionID, workflow.EventOpenLeadForm)
	}
}

func validateLead(first, last, email string) error {
	name := strings.TrimSpace(first + " " + last)
	if err := validation.ValidateName(name); err != nil {
		return apperror.Wrap(err, apperror.ErrCodeValidation, capitalize(err.Error()))
	}
	if err := validation.ValidateEmail(email); err != nil {
		return apperror.Wrap(err, apperror.ErrCodeValidation, capitalize(err.Error()))
	}
	return nil
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
