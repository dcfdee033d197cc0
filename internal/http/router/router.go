package router

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/cosguru/fracpropgen/internal/config"
	"github.com/cosguru/fracpropgen/internal/http/handlers"
	"github.com/cosguru/fracpropgen/internal/http/middleware"
	"github.com/cosguru/fracpropgen/internal/http/response"
)

// Handlers собранные хэндлеры API. Metrics может быть nil.
type Handlers struct {
	Health   *handlers.HealthHandler
	Catalog  *handlers.CatalogHandler
	Proposal *handlers.ProposalHandler
	Lead     *handlers.LeadHandler
	WS       *handlers.WSHandler
	Metrics  http.Handler
}

func SetupRouter(cfg *config.Config, h Handlers, observer middleware.HTTPObserver) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger(observer))
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.CORSMiddleware(cfg.AllowedOrigins))

	r.GET("/health", h.Health.Health)
	if h.Metrics != nil {
		r.GET("/metrics", gin.WrapH(h.Metrics))
	}

	api := r.Group("/api")

	// Справочники формы
	api.GET("/templates", h.Catalog.ListTemplates)
	api.GET("/templates/:id", h.Catalog.GetTemplate)
	api.GET("/palette", h.Catalog.Palette)

	// Сессия вкладки нужна и для прогресса, и для workflow
	api.GET("/ws", h.WS.Handle)

	session := api.Group("/")
	session.Use(middleware.SessionID())
	{
		session.POST("/proposals", h.Proposal.Generate)
		session.PUT("/proposals/about", h.Proposal.EditAbout)
		session.POST("/proposals/email", h.Proposal.GenerateEmail)
		session.POST("/proposals/export", h.Proposal.Export)
		session.POST("/suggestions", h.Proposal.Suggest)
		session.POST("/leads", h.Lead.Capture)
	}

	r.NoRoute(func(c *gin.Context) {
		response.NotFound(c, "Route not found")
	})

	return r
}
