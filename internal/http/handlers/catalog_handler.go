package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/cosguru/fracpropgen/internal/dto"
	"github.com/cosguru/fracpropgen/internal/http/response"
	"github.com/cosguru/fracpropgen/internal/models"
	"github.com/cosguru/fracpropgen/internal/templates"
)

// CatalogHandler отдаёт справочники формы: шаблоны и палитру.
type CatalogHandler struct{}

func NewCatalogHandler() *CatalogHandler {
	return &CatalogHandler{}
}

// ListTemplates GET /api/templates
func (h *CatalogHandler) ListTemplates(c *gin.Context) {
	response.Success(c, gin.H{
		"templates":  templates.All(),
		"default_id": templates.DefaultID,
	})
}

// GetTemplate GET /api/templates/:id
// Неизвестный id не ошибка: отдаётся шаблон по умолчанию с fallback=true.
func (h *CatalogHandler) GetTemplate(c *gin.Context) {
	id := c.Param("id")
	tpl := templates.Find(id)
	response.Success(c, dto.TemplateResponse{
		Template: tpl,
		Defaults: models.DefaultFormInput(tpl),
		Fallback: tpl.ID != id,
	})
}

// Palette GET /api/palette
func (h *CatalogHandler) Palette(c *gin.Context) {
	colors := make([]models.PaletteEntry, len(models.Palette))
	copy(colors, models.Palette)
	response.Success(c, dto.PaletteResponse{
		Colors:  colors,
		Default: models.DefaultAccentColor,
	})
}
