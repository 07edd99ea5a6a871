package transport

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/tagwerk-app/reminder-service/internal/entity"
	"github.com/tagwerk-app/reminder-service/internal/service"
	"github.com/tagwerk-app/reminder-service/internal/transport/middleware"
)

type SettingsHandler struct {
	settingsService service.SettingsService
}

func NewSettingsHandler(settingsService service.SettingsService) *SettingsHandler {
	return &SettingsHandler{settingsService: settingsService}
}

func (h *SettingsHandler) Sync(c *gin.Context) {
	userID := c.GetString(middleware.UserIDKey)

	var req service.SyncSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "Ungültige Anfrage"})
		return
	}

	settings, err := h.settingsService.Sync(c.Request.Context(), userID, &req)
	if err != nil {
		switch {
		case errors.Is(err, entity.ErrInvalidPhone):
			c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "Ungültige Telefonnummer"})
		case errors.Is(err, entity.ErrInvalidTimezone):
			c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "Ungültige Zeitzone"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": "Interner Serverfehler"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true, "result": settings})
}

func (h *SettingsHandler) Get(c *gin.Context) {
	userID := c.GetString(middleware.UserIDKey)

	settings, err := h.settingsService.GetByUser(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, entity.ErrSettingsNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"ok": false, "error": "Keine Einstellungen gefunden"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": "Interner Serverfehler"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true, "result": settings})
}
