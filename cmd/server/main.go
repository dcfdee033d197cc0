package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/cosguru/fracpropgen/internal/ai"
	"github.com/cosguru/fracpropgen/internal/config"
	"github.com/cosguru/fracpropgen/internal/crm"
	httpHandlers "github.com/cosguru/fracpropgen/internal/http/handlers"
	"github.com/cosguru/fracpropgen/internal/http/middleware"
	httpRouter "github.com/cosguru/fracpropgen/internal/http/router"
	"github.com/cosguru/fracpropgen/internal/logger"
	"github.com/cosguru/fracpropgen/internal/metrics"
	"github.com/cosguru/fracpropgen/internal/progress"
	"github.com/cosguru/fracpropgen/internal/service"
	"github.com/cosguru/fracpropgen/internal/workflow"
	"github.com/cosguru/fracpropgen/internal/ws"
)

// Как часто чистим протухшие сессии.
const sessionSweepInterval = 5 * time.Minute

func main() {
	// Готовим контекст для graceful shutdown.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("main: ошибка загрузки конфигурации: %v", err)
	}

	logger.Setup(cfg.Env)
	l := logger.L()

	m := metrics.New()

	aiClient := ai.NewClient(ai.Options{
		BaseURL:      cfg.AIBaseURL,
		APIKey:       cfg.AIAPIKey,
		QualityModel: cfg.AIModelQuality,
		FastModel:    cfg.AIModelFast,
		Timeout:      cfg.AITimeout,
		Recorder:     m,
	})
	crmClient := crm.NewClient(cfg.SystemeBaseURL, cfg.SystemeAPIKey, 0)

	// Вебсокеты для прогресса генерации.
	hub := ws.NewHub(ctx)
	go hub.Run()

	sessions := service.NewSessionStore(cfg.SessionTTL, func(from, to workflow.State, ev workflow.Event) {
		m.ObserveTransition(string(from), string(to))
		l.WithFields(logrus.Fields{"from": from, "to": to, "event": ev}).Debug("workflow: переход")
	})
	sessions.Run(ctx, sessionSweepInterval)

	simulator := progress.NewSimulator(hub, cfg.ProgressTick, cfg.ProgressGrace)
	tokens := service.NewDownloadTokenManager(cfg.DownloadTokenSecret, cfg.DownloadTokenTTL, cfg.LeadConfirmDelay)

	// Сервисы.
	proposalService := service.NewProposalService(aiClient, sessions, simulator, tokens, m)
	leadService := service.NewLeadService(crmClient, cfg.SystemeTagIDs, tokens, sessions, m)

	// Роутер.
	engine := httpRouter.SetupRouter(cfg, httpRouter.Handlers{
		Health:   httpHandlers.NewHealthHandler(cfg.AIAPIKey != "", cfg.SystemeAPIKey != "", sessions.Len),
		Catalog:  httpHandlers.NewCatalogHandler(),
		Proposal: httpHandlers.NewProposalHandler(proposalService),
		Lead:     httpHandlers.NewLeadHandler(leadService),
		WS:       httpHandlers.NewWSHandler(hub, middleware.OriginAllowed(cfg.AllowedOrigins)),
		Metrics:  m.Handler(),
	}, m)

	server := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Завершаем сервер при получении сигнала.
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			l.WithError(err).Error("main: ошибка остановки http сервера")
		}
	}()

	l.WithFields(logrus.Fields{
		"port":      cfg.HTTPPort,
		"env":       cfg.Env,
		"crm_tags":  cfg.SystemeTagIDs,
		"ai_models": []string{cfg.AIModelQuality, cfg.AIModelFast},
	}).Info("main: HTTP сервер запущен")

	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		l.WithError(err).Fatal("main: сервер завершился с ошибкой")
	}
}
