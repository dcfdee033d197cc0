package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/cosguru/fracpropgen/internal/crm"
	"github.com/cosguru/fracpropgen/internal/logger"
	"github.com/cosguru/fracpropgen/internal/models"
	"github.com/cosguru/fracpropgen/internal/workflow"
)

// Generator вызовы модели, нужные сервисам.
type Generator interface {
	GenerateProposal(ctx context.Context, in models.ProposalFormInput, tpl models.Template) (*models.GeneratedProposal, error)
	GenerateEmail(ctx context.Context, p models.GeneratedProposal, clientName, senderName string) (*models.GeneratedEmail, error)
	GenerateSuggestions(ctx context.Context, text string) ([]string, error)
}

// ContactUpserter CRM, куда уходят контакты.
type ContactUpserter interface {
	UpsertContact(ctx context.Context, contact crm.Contact, tagIDs []int) error
}

// Observer счётчики предметных событий.
type Observer interface {
	ObserveLead(outcome string)
	ObserveExport()
}

type nopObserver struct{}

func (nopObserver) ObserveLead(string) {}
func (nopObserver) ObserveExport()     {}

// Исходы формы контакта.
const (
	LeadOutcomeCaptured  = "captured"
	LeadOutcomeInvalid   = "invalid"
	LeadOutcomeCRMFailed = "crm_failed"
)

// advance продвигает автомат сессии. Сессии эфемерны, а доступ к скачиванию
// решает токен, поэтому недопустимый переход только логируется.
// uuid.Nil означает вызов без сессии (CLI, тесты).
func advance(sessions *SessionStore, sessionID uuid.UUID, events ...workflow.Event) {
	if sessions == nil || sessionID == uuid.Nil {
		return
	}
	m := sessions.Machine(sessionID)
	if err := m.Fire(events...); err != nil {
		logger.L().WithFields(logrus.Fields{
			"session_id": sessionID,
			"state":      m.State(),
		}).WithError(err).Debug("workflow: переход пропущен")
	}
}
