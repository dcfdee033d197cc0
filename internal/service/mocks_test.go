package service

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/cosguru/fracpropgen/internal/crm"
	"github.com/cosguru/fracpropgen/internal/models"
)

type mockGenerator struct {
	mock.Mock
}

func (m *mockGenerator) GenerateProposal(ctx context.Context, in models.ProposalFormInput, tpl models.Template) (*models.GeneratedProposal, error) {
	args := m.Called(ctx, in, tpl)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.GeneratedProposal), args.Error(1)
}

func (m *mockGenerator) GenerateEmail(ctx context.Context, p models.GeneratedProposal, clientName, senderName string) (*models.GeneratedEmail, error) {
	args := m.Called(ctx, p, clientName, senderName)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.GeneratedEmail), args.Error(1)
}

func (m *mockGenerator) GenerateSuggestions(ctx context.Context, text string) ([]string, error) {
	args := m.Called(ctx, text)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

type mockCRM struct {
	mock.Mock
}

func (m *mockCRM) UpsertContact(ctx context.Context, contact crm.Contact, tagIDs []int) error {
	args := m.Called(ctx, contact, tagIDs)
	return args.Error(0)
}

type countingObserver struct {
	mu      sync.Mutex
	leads   map[string]int
	exports int
}

func newCountingObserver() *countingObserver {
	return &countingObserver{leads: make(map[string]int)}
}

func (o *countingObserver) ObserveLead(outcome string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.leads[outcome]++
}

func (o *countingObserver) ObserveExport() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.exports++
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []any
}

func (p *recordingPublisher) Publish(sessionID uuid.UUID, event string, data any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, data)
	return nil
}

func (p *recordingPublisher) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.events)
}

func (p *recordingPublisher) last() any {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.events) == 0 {
		return nil
	}
	return p.events[len(p.events)-1]
}
