package router

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cosguru/fracpropgen/internal/config"
	"github.com/cosguru/fracpropgen/internal/crm"
	"github.com/cosguru/fracpropgen/internal/crm/crmtest"
	"github.com/cosguru/fracpropgen/internal/document"
	"github.com/cosguru/fracpropgen/internal/http/handlers"
	"github.com/cosguru/fracpropgen/internal/http/middleware"
	"github.com/cosguru/fracpropgen/internal/metrics"
	"github.com/cosguru/fracpropgen/internal/models"
	"github.com/cosguru/fracpropgen/internal/service"
	"github.com/cosguru/fracpropgen/internal/workflow"
	"github.com/cosguru/fracpropgen/internal/ws"
)

type stubGenerator struct{}

func (stubGenerator) GenerateProposal(_ context.Context, in models.ProposalFormInput, _ models.Template) (*models.GeneratedProposal, error) {
	return &models.GeneratedProposal{
		Title:                  "Fractional CMO for " + in.ClientName,
		ExecutiveSummary:       "Summary",
		ProblemStatement:       "Problem",
		ProposedSolution:       []string{"Audit", "Plan"},
		Timeline:               in.Timeline,
		Investment:             in.Price,
		About:                  "",
		NextSteps:              "Sign",
		TermsAndConditions:     []string{"Net 30"},
		NinetyDayPlan:          []string{"Month 1"},
		MeasuringSuccess:       []string{"Pipeline"},
		ClientResponsibilities: []string{"Access"},
		Exclusions:             []string{},
	}, nil
}

func (stubGenerator) GenerateEmail(_ context.Context, p models.GeneratedProposal, clientName, senderName string) (*models.GeneratedEmail, error) {
	return &models.GeneratedEmail{Subject: p.Title, Body: "Hi " + clientName + ", " + senderName}, nil
}

func (stubGenerator) GenerateSuggestions(_ context.Context, _ string) ([]string, error) {
	return []string{"a", "b", "c"}, nil
}

type testServer struct {
	engine   *gin.Engine
	crm      *crmtest.Server
	metrics  *metrics.Metrics
	sessions *service.SessionStore
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	cfg := &config.Config{Env: "test", AllowedOrigins: []string{"http://localhost:3000"}}
	m := metrics.New()
	crmSrv := crmtest.NewServer("key")
	t.Cleanup(crmSrv.Close)

	hub := ws.NewHub(ctx)
	go hub.Run()

	sessions := service.NewSessionStore(time.Hour, func(from, to workflow.State, _ workflow.Event) {
		m.ObserveTransition(string(from), string(to))
	})
	tokens := service.NewDownloadTokenManager("router-test-secret", time.Minute, 0)
	proposals := service.NewProposalService(stubGenerator{}, sessions, nil, tokens, m)
	leads := service.NewLeadService(crm.NewClient(crmSrv.URL, "key", time.Second), []int{11, 12}, tokens, sessions, m)

	engine := SetupRouter(cfg, Handlers{
		Health:   handlers.NewHealthHandler(true, true, sessions.Len),
		Catalog:  handlers.NewCatalogHandler(),
		Proposal: handlers.NewProposalHandler(proposals),
		Lead:     handlers.NewLeadHandler(leads),
		WS:       handlers.NewWSHandler(hub, middleware.OriginAllowed(cfg.AllowedOrigins)),
		Metrics:  m.Handler(),
	}, m)

	return &testServer{engine: engine, crm: crmSrv, metrics: m, sessions: sessions}
}

func (s *testServer) do(t *testing.T, method, path string, body any, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)
	return w
}

func decodeData(t *testing.T, w *httptest.ResponseRecorder, out any) {
	t.Helper()
	var env struct {
		Success bool            `json:"success"`
		Data    json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	require.True(t, env.Success, w.Body.String())
	require.NoError(t, json.Unmarshal(env.Data, out))
}

func TestRouter_FullFlow(t *testing.T) {
	srv := newTestServer(t)
	session := map[string]string{middleware.SessionHeader: uuid.NewString()}

	w := srv.do(t, http.MethodPost, "/api/proposals", map[string]string{
		"executive_name": "Jane Doe",
		"executive_role": "Fractional CMO",
		"client_name":    "Acme Inc.",
		"project_goal":   "Grow pipeline",
		"deliverables":   "Plan",
		"timeline":       "3-Month Engagement",
		"price":          "$10k / month",
		"accent_color":   "teal",
	}, session)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var generated struct {
		Proposal models.GeneratedProposal `json:"proposal"`
	}
	decodeData(t, w, &generated)
	assert.Equal(t, "Fractional CMO for Acme Inc.", generated.Proposal.Title)

	exportBody := map[string]any{
		"proposal":       generated.Proposal,
		"client_name":    "Acme Inc.",
		"executive_name": "Jane Doe",
		"executive_role": "Fractional CMO",
		"accent_color":   "teal",
	}

	// без токена скачивание закрыто
	w = srv.do(t, http.MethodPost, "/api/proposals/export", exportBody, session)
	require.Equal(t, http.StatusForbidden, w.Code)

	w = srv.do(t, http.MethodPost, "/api/leads", map[string]string{
		"name":  "Jane Doe",
		"email": "Jane@Example.com",
	}, session)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var lead struct {
		DownloadToken string `json:"download_token"`
	}
	decodeData(t, w, &lead)
	require.NotEmpty(t, lead.DownloadToken)

	tags, ok := srv.crm.Tags("jane@example.com")
	require.True(t, ok)
	assert.Equal(t, []int{11, 12}, tags)

	auth := map[string]string{
		middleware.SessionHeader: session[middleware.SessionHeader],
		"Authorization":          "Bearer " + lead.DownloadToken,
	}
	var exported *httptest.ResponseRecorder
	require.Eventually(t, func() bool {
		exported = srv.do(t, http.MethodPost, "/api/proposals/export", exportBody, auth)
		return exported.Code == http.StatusOK
	}, 3*time.Second, 100*time.Millisecond)

	assert.Equal(t, document.MIMEType, exported.Header().Get("Content-Type"))
	assert.Contains(t, exported.Header().Get("Content-Disposition"), "Acme")
	assert.True(t, bytes.HasPrefix(exported.Body.Bytes(), []byte("PK")))

	sessionID := uuid.MustParse(session[middleware.SessionHeader])
	assert.Equal(t, workflow.Idle, srv.sessions.State(sessionID))
}

func TestRouter_CatalogAndHealth(t *testing.T) {
	srv := newTestServer(t)

	for _, path := range []string{"/health", "/api/templates", "/api/templates/unknown", "/api/palette"} {
		w := srv.do(t, http.MethodGet, path, nil, nil)
		assert.Equal(t, http.StatusOK, w.Code, path)
	}
}

func TestRouter_Metrics(t *testing.T) {
	srv := newTestServer(t)
	srv.do(t, http.MethodGet, "/api/palette", nil, nil)

	w := srv.do(t, http.MethodGet, "/metrics", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "proposalgen_http_requests_total")
}

func TestRouter_CORSPreflight(t *testing.T) {
	srv := newTestServer(t)

	req := httptest.NewRequest(http.MethodOptions, "/api/proposals", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	w := httptest.NewRecorder()
	srv.engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestRouter_NoRoute(t *testing.T) {
	srv := newTestServer(t)

	w := srv.do(t, http.MethodGet, "/api/nope", nil, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "NOT_FOUND")
}
