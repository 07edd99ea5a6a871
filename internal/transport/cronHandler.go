package transport

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/tagwerk-app/reminder-service/internal/service"
)

// CronHandler serves the two scheduler-triggered reminder endpoints. Both
// require the shared cron secret, either as a Bearer token or in the
// x-cron-secret header.
type CronHandler struct {
	taskReminders service.TaskReminderService
	weeklyReviews service.WeeklyReviewService
	secret        string
}

func NewCronHandler(taskReminders service.TaskReminderService, weeklyReviews service.WeeklyReviewService, secret string) *CronHandler {
	return &CronHandler{
		taskReminders: taskReminders,
		weeklyReviews: weeklyReviews,
		secret:        secret,
	}
}

func (h *CronHandler) RunTaskStart(c *gin.Context) {
	if !h.authorize(c) {
		return
	}

	summary, err := h.taskReminders.Run(c.Request.Context())
	if err != nil {
		logrus.Errorf("Task-start reminder run failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": "Interner Serverfehler"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true, "result": summary})
}

func (h *CronHandler) RunWeeklyReview(c *gin.Context) {
	if !h.authorize(c) {
		return
	}

	summary, err := h.weeklyReviews.Run(c.Request.Context())
	if err != nil {
		logrus.Errorf("Weekly-review reminder run failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": "Interner Serverfehler"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true, "result": summary})
}

// authorize distinguishes a missing server-side secret (configuration
// error, 500) from a bad caller secret (401).
func (h *CronHandler) authorize(c *gin.Context) bool {
	if h.secret == "" {
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": "Cron-Secret ist nicht konfiguriert"})
		return false
	}

	provided := c.GetHeader("x-cron-secret")
	if provided == "" {
		if auth := c.GetHeader("Authorization"); strings.HasPrefix(auth, "Bearer ") {
			provided = strings.TrimPrefix(auth, "Bearer ")
		}
	}

	if provided != h.secret {
		c.JSON(http.StatusUnauthorized, gin.H{"ok": false, "error": "Nicht autorisiert"})
		return false
	}

	return true
}
