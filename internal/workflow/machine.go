// Package workflow описывает жизненный цикл предложения в рамках одной сессии:
// генерация, правка about, запрос скачивания, форма контакта и экспорт.
package workflow

import (
	"errors"
	"fmt"
	"sync"
)

// State состояние сессии.
type State string

const (
	Idle              State = "idle"
	Generating        State = "generating"
	ProposalReady     State = "proposalReady"
	GenerationFailed  State = "generationFailed"
	EditingAbout      State = "editingAbout"
	DownloadRequested State = "downloadRequested"
	LeadFormOpen      State = "leadFormOpen"
	LeadCaptured      State = "leadCaptured"
	LeadCaptureFailed State = "leadCaptureFailed"
	DocumentExported  State = "documentExported"
)

// Event событие, переводящее сессию в другое состояние.
type Event string

const (
	EventSubmit           Event = "submit"
	EventGenerated        Event = "generated"
	EventGenerationFailed Event = "generationFailed"
	EventEditAbout        Event = "editAbout"
	EventAboutSaved       Event = "aboutSaved"
	EventRequestDownload  Event = "requestDownload"
	EventOpenLeadForm     Event = "openLeadForm"
	EventLeadCaptured     Event = "leadCaptured"
	EventLeadFailed       Event = "leadFailed"
	EventCancel           Event = "cancel"
	EventExported         Event = "exported"
	EventReset            Event = "reset"
)

// ErrIllegalTransition событие недопустимо в текущем состоянии.
var ErrIllegalTransition = errors.New("workflow: недопустимый переход")

type transitionKey struct {
	from State
	ev   Event
}

var transitions = map[transitionKey]State{
	{Idle, EventSubmit}:             Generating,
	{ProposalReady, EventSubmit}:    Generating,
	{GenerationFailed, EventSubmit}: Generating,

	{Generating, EventGenerated}:        ProposalReady,
	{Generating, EventGenerationFailed}: GenerationFailed,

	{ProposalReady, EventEditAbout}:       EditingAbout,
	{EditingAbout, EventAboutSaved}:       ProposalReady,
	{ProposalReady, EventRequestDownload}: DownloadRequested,

	{DownloadRequested, EventOpenLeadForm}: LeadFormOpen,
	{LeadFormOpen, EventLeadCaptured}:      LeadCaptured,
	{LeadFormOpen, EventLeadFailed}:        LeadCaptureFailed,
	{LeadCaptureFailed, EventOpenLeadForm}: LeadFormOpen,

	// закрытие модалки возвращает к готовому предложению
	{DownloadRequested, EventCancel}: ProposalReady,
	{LeadFormOpen, EventCancel}:      ProposalReady,
	{LeadCaptureFailed, EventCancel}: ProposalReady,
	{LeadCaptured, EventCancel}:      ProposalReady,

	{LeadCaptured, EventExported}:  DocumentExported,
	{DocumentExported, EventReset}: Idle,
}

// Next возвращает состояние после события.
func Next(from State, ev Event) (State, error) {
	to, ok := transitions[transitionKey{from, ev}]
	if !ok {
		return from, fmt.Errorf("%w: %s --%s-->", ErrIllegalTransition, from, ev)
	}
	return to, nil
}

// TransitionFunc вызывается после каждого применённого перехода.
type TransitionFunc func(from, to State, ev Event)

// Machine потокобезопасный автомат одной сессии.
type Machine struct {
	mu     sync.Mutex
	state  State
	notify TransitionFunc
}

// New создаёт автомат в состоянии Idle.
func New(notify TransitionFunc) *Machine {
	return &Machine{state: Idle, notify: notify}
}

// State текущее состояние.
func (m *Machine) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Can проверяет, допустима ли цепочка событий из текущего состояния.
func (m *Machine) Can(events ...Event) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, err := walk(m.state, events)
	return err == nil
}

// Fire применяет цепочку событий целиком или не применяет ничего.
func (m *Machine) Fire(events ...Event) error {
	m.mu.Lock()
	from := m.state
	path, err := walk(from, events)
	if err != nil {
		m.mu.Unlock()
		return err
	}
	if len(path) > 0 {
		m.state = path[len(path)-1]
	}
	notify := m.notify
	m.mu.Unlock()

	if notify != nil {
		prev := from
		for i, to := range path {
			notify(prev, to, events[i])
			prev = to
		}
	}
	return nil
}

func walk(from State, events []Event) ([]State, error) {
	path := make([]State, 0, len(events))
	cur := from
	for _, ev := range events {
		next, err := Next(cur, ev)
		if err != nil {
			return nil, err
		}
		path = append(path, next)
		cur = next
	}
	return path, nil
}
