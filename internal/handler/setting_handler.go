package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stemsi/exstem-console/internal/model"
	"github.com/stemsi/exstem-console/internal/response"
	"github.com/stemsi/exstem-console/internal/service"
	"github.com/stemsi/exstem-console/internal/validator"
)

type SettingHandler struct {
	themeService *service.ThemeService
	log          zerolog.Logger
}

func NewSettingHandler(themeService *service.ThemeService, log zerolog.Logger) *SettingHandler {
	return &SettingHandler{
		themeService: themeService,
		log:          log.With().Str("component", "setting_handler").Logger(),
	}
}

// GetTheme godoc
// GET /api/v1/admin/preferences/theme
func (h *SettingHandler) GetTheme(c *gin.Context) {
	response.Success(c, http.StatusOK, gin.H{"theme": h.themeService.Current()})
}

// ToggleTheme godoc
// POST /api/v1/admin/preferences/theme/toggle
func (h *SettingHandler) ToggleTheme(c *gin.Context) {
	theme, err := h.themeService.Toggle(c.Request.Context())
	if err != nil {
		failFromError(c, h.log, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"theme": theme})
}

// UpdateTheme godoc
// PUT /api/v1/admin/preferences/theme
func (h *SettingHandler) UpdateTheme(c *gin.Context) {
	var req model.UpdateThemeRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	theme, err := h.themeService.Set(c.Request.Context(), model.Theme(req.Theme))
	if err != nil {
		failFromError(c, h.log, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"theme": theme})
}
