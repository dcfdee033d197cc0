// Package metrics собирает Prometheus-метрики сервиса.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/cosguru/fracpropgen/internal/ai"
)

const namespace = "proposalgen"

// Metrics набор метрик с собственным реестром.
type Metrics struct {
	registry *prometheus.Registry

	generations        *prometheus.CounterVec
	generationDuration *prometheus.HistogramVec
	httpRequests       *prometheus.CounterVec
	httpDuration       *prometheus.HistogramVec
	leads              *prometheus.CounterVec
	exports            prometheus.Counter
	transitions        *prometheus.CounterVec
}

// New создаёт метрики и регистрирует их вместе со стандартными коллекторами Go.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		generations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "generation_requests_total",
			Help:      "Вызовы модели по схеме ответа, уровню модели и исходу.",
		}, []string{"schema", "tier", "outcome"}),
		generationDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "generation_duration_seconds",
			Help:      "Длительность вызова модели.",
			Buckets:   []float64{0.5, 1, 2, 5, 10, 20, 40, 60, 120},
		}, []string{"schema", "tier"}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP запросы по маршруту и коду ответа.",
		}, []string{"method", "route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "Длительность обработки HTTP запроса.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		leads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "lead_captures_total",
			Help:      "Отправки формы контакта по исходу.",
		}, []string{"outcome"}),
		exports: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "documents_exported_total",
			Help:      "Выгруженные документы.",
		}),
		transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "workflow_transitions_total",
			Help:      "Переходы автомата сессии.",
		}, []string{"from", "to"}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.generations,
		m.generationDuration,
		m.httpRequests,
		m.httpDuration,
		m.leads,
		m.exports,
		m.transitions,
	)
	return m
}

// Registry реестр для тестов и дополнительных коллекторов.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler отдаёт метрики в текстовом формате.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// ObserveGeneration реализует ai.Recorder.
func (m *Metrics) ObserveGeneration(schema string, tier ai.ModelTier, outcome string, elapsed time.Duration) {
	m.generations.WithLabelValues(schema, string(tier), outcome).Inc()
	m.generationDuration.WithLabelValues(schema, string(tier)).Observe(elapsed.Seconds())
}

// ObserveHTTP учитывает обработанный запрос. route шаблон маршрута gin, не сырой путь.
func (m *Metrics) ObserveHTTP(method, route string, status int, elapsed time.Duration) {
	if route == "" {
		route = "unmatched"
	}
	m.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.httpDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// ObserveLead учитывает отправку формы контакта.
func (m *Metrics) ObserveLead(outcome string) {
	m.leads.WithLabelValues(outcome).Inc()
}

// ObserveExport учитывает выгрузку документа.
func (m *Metrics) ObserveExport() {
	m.exports.Inc()
}

// ObserveTransition учитывает переход автомата сессии.
func (m *Metrics) ObserveTransition(from, to string) {
	m.transitions.WithLabelValues(from, to).Inc()
}
