package service

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/cosguru/fracpropgen/internal/goroutine"
	"github.com/cosguru/fracpropgen/internal/workflow"
)

// SessionStore хранит автоматы сессий в памяти с TTL.
// Содержимое предложений здесь не хранится, только состояние.
type SessionStore struct {
	mu       sync.Mutex
	sessions map[uuid.UUID]*sessionEntry
	ttl      time.Duration
	notify   workflow.TransitionFunc
	now      func() time.Time
}

type sessionEntry struct {
	machine   *workflow.Machine
	expiresAt time.Time
}

// NewSessionStore создаёт хранилище. notify получает все переходы всех сессий.
func NewSessionStore(ttl time.Duration, notify workflow.TransitionFunc) *SessionStore {
	if ttl <= 0 {
		ttl = 2 * time.Hour
	}
	return &SessionStore{
		sessions: make(map[uuid.UUID]*sessionEntry),
		ttl:      ttl,
		notify:   notify,
		now:      time.Now,
	}
}

// Machine возвращает автомат сессии, создавая его при первом обращении.
// Каждое обращение продлевает TTL.
func (s *SessionStore) Machine(sessionID uuid.UUID) *workflow.Machine {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	entry, ok := s.sessions[sessionID]
	if !ok || now.After(entry.expiresAt) {
		entry = &sessionEntry{machine: workflow.New(s.notify)}
		s.sessions[sessionID] = entry
	}
	entry.expiresAt = now.Add(s.ttl)
	return entry.machine
}

// State текущее состояние сессии. Неизвестная или истёкшая сессия в Idle.
func (s *SessionStore) State(sessionID uuid.UUID) workflow.State {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.sessions[sessionID]
	if !ok || s.now().After(entry.expiresAt) {
		return workflow.Idle
	}
	return entry.machine.State()
}

// Can проверяет, допустима ли цепочка событий для живой сессии.
// Неизвестную сессию не создаёт и возвращает false.
func (s *SessionStore) Can(sessionID uuid.UUID, events ...workflow.Event) bool {
	s.mu.Lock()
	entry, ok := s.sessions[sessionID]
	if ok && s.now().After(entry.expiresAt) {
		ok = false
	}
	s.mu.Unlock()

	return ok && entry.machine.Can(events...)
}

// Len количество живых записей (включая ещё не вычищенные).
func (s *SessionStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// Run периодически удаляет истёкшие сессии до отмены ctx.
func (s *SessionStore) Run(ctx context.Context, interval time.Duration) {
	goroutine.SafeGoWithContext(ctx, "sessions.cleanup", func(ctx context.Context) {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.sweep()
			}
		}
	})
}

func (s *SessionStore) sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	removed := 0
	for id, entry := range s.sessions {
		if now.After(entry.expiresAt) {
			delete(s.sessions, id)
			removed++
		}
	}
	return removed
}
