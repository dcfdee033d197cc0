package goroutine

import (
	"context"
	"runtime/debug"

	"github.com/sirupsen/logrus"

	"github.com/cosguru/fracpropgen/internal/logger"
)

// Logger интерфейс для логирования ошибок
type Logger interface {
	WithFields(fields logrus.Fields) *logrus.Entry
}

// RecoveryHandler обрабатывает panic в горутинах
type RecoveryHandler struct {
	logger func() Logger
}

// NewRecoveryHandler создает новый обработчик
func NewRecoveryHandler(l Logger) *RecoveryHandler {
	return &RecoveryHandler{logger: func() Logger { return l }}
}

// SafeGo запускает горутину с обработкой panic
func (rh *RecoveryHandler) SafeGo(name string, fn func()) {
	go func() {
		defer rh.recoverPanic(name)
		fn()
	}()
}

// SafeGoWithContext запускает горутину с контекстом и обработкой panic
func (rh *RecoveryHandler) SafeGoWithContext(ctx context.Context, name string, fn func(context.Context)) {
	go func() {
		defer rh.recoverPanic(name)
		fn(ctx)
	}()
}

// Recover используется напрямую в defer внутри уже запущенных горутин.
func (rh *RecoveryHandler) Recover(name string) {
	if r := recover(); r != nil {
		rh.report(name, r)
	}
}

func (rh *RecoveryHandler) recoverPanic(name string) {
	if r := recover(); r != nil {
		rh.report(name, r)
	}
}

func (rh *RecoveryHandler) report(name string, r any) {
	rh.logger().WithFields(logrus.Fields{
		"goroutine": name,
		"panic":     r,
		"stack":     string(debug.Stack()),
	}).Error("panic в горутине")
}

// DefaultRecoveryHandler пишет в логгер приложения.
var DefaultRecoveryHandler = &RecoveryHandler{logger: func() Logger { return logger.L() }}

// SafeGo - упрощенная функция для запуска безопасной горутины
func SafeGo(name string, fn func()) {
	DefaultRecoveryHandler.SafeGo(name, fn)
}

// SafeGoWithContext - упрощенная функция для запуска безопасной горутины с контекстом
func SafeGoWithContext(ctx context.Context, name string, fn func(context.Context)) {
	DefaultRecoveryHandler.SafeGoWithContext(ctx, name, fn)
}
