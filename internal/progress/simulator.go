// Package progress публикует косметический прогресс генерации.
// Значение не связано с реальным запросом: растёт по таймеру, упирается
// в потолок и только при завершении становится 100.
package progress

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/cosguru/fracpropgen/internal/goroutine"
	"github.com/cosguru/fracpropgen/internal/logger"
)

// Имя события в WebSocket.
const EventName = "progress"

// Cap потолок до прихода ответа.
const Cap = 95

const (
	defaultTick  = 300 * time.Millisecond
	defaultGrace = 400 * time.Millisecond
)

// Publisher доставляет событие в сессию.
type Publisher interface {
	Publish(sessionID uuid.UUID, event string, data any) error
}

// Update содержимое события.
type Update struct {
	Percent int  `json:"percent"`
	Done    bool `json:"done"`
	Success bool `json:"success"`
}

// Simulator создаёт прогоны для сессий.
type Simulator struct {
	pub   Publisher
	tick  time.Duration
	grace time.Duration
}

// NewSimulator создаёт симулятор. pub может быть nil: тогда прогресс только считается.
func NewSimulator(pub Publisher, tick, grace time.Duration) *Simulator {
	if tick <= 0 {
		tick = defaultTick
	}
	if grace < 0 {
		grace = defaultGrace
	}
	return &Simulator{pub: pub, tick: tick, grace: grace}
}

// Run один прогон прогресса.
type Run struct {
	sim       *Simulator
	sessionID uuid.UUID

	mu      sync.Mutex
	percent int
	done    bool

	stop     chan struct{}
	stopped  chan struct{}
	stopOnce sync.Once
}

// Start запускает прогон с нуля. Прогон завершается через Finish или отмену ctx.
func (s *Simulator) Start(ctx context.Context, sessionID uuid.UUID) *Run {
	r := &Run{
		sim:       s,
		sessionID: sessionID,
		stop:      make(chan struct{}),
		stopped:   make(chan struct{}),
	}
	r.publish(Update{Percent: 0})
	goroutine.SafeGoWithContext(ctx, "progress.loop", r.loop)
	return r
}

// Percent текущее значение.
func (r *Run) Percent() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.percent
}

func (r *Run) loop(ctx context.Context) {
	defer close(r.stopped)
	ticker := time.NewTicker(r.sim.tick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-r.stop:
			return
		case <-ticker.C:
			r.advance()
		}
	}
}

// advance шаг убывает по мере приближения к потолку.
func (r *Run) advance() {
	r.mu.Lock()
	if r.done || r.percent >= Cap {
		r.mu.Unlock()
		return
	}
	step := (Cap - r.percent) / 8
	if step < 1 {
		step = 1
	}
	r.percent += step
	if r.percent > Cap {
		r.percent = Cap
	}
	update := Update{Percent: r.percent}
	r.mu.Unlock()

	r.publish(update)
}

// Finish останавливает таймер. При успехе значение становится 100 и
// Finish ждёт grace перед возвратом, чтобы интерфейс успел показать полную полосу.
// При ошибке публикуется done без 100. Повторные вызовы ничего не делают.
func (r *Run) Finish(ctx context.Context, success bool) {
	first := false
	r.stopOnce.Do(func() {
		first = true
		close(r.stop)
	})
	if !first {
		return
	}
	<-r.stopped

	r.mu.Lock()
	r.done = true
	if success {
		r.percent = 100
	}
	update := Update{Percent: r.percent, Done: true, Success: success}
	r.mu.Unlock()

	r.publish(update)

	if !success || r.sim.grace == 0 {
		return
	}
	timer := time.NewTimer(r.sim.grace)
	defer timer.Stop()
	select {
	case <-timer.C:
	case <-ctx.Done():
	}
}

func (r *Run) publish(u Update) {
	if r.sim.pub == nil {
		return
	}
	if err := r.sim.pub.Publish(r.sessionID, EventName, u); err != nil {
		logger.L().WithError(err).WithFields(logrus.Fields{
			"session_id": r.sessionID,
			"percent":    u.Percent,
		}).Debug("progress: не удалось отправить событие")
	}
}
