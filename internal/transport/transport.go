package transport

import (
	"github.com/gin-gonic/gin"
	"github.com/tagwerk-app/reminder-service/internal/transport/middleware"
)

func InitRoutes(cronHandler *CronHandler, settingsHandler *SettingsHandler, jwtSecret string) *gin.Engine {

	router := gin.New()

	// Middleware
	router.Use(gin.Recovery())
	router.Use(middleware.Logger())
	router.Use(middleware.Timeout(120))

	// Scheduler-facing endpoints; auth happens inside the handler so a
	// missing server secret can answer 500 instead of 401.
	cron := router.Group("/cron/reminders")
	{
		cron.GET("/task-start", cronHandler.RunTaskStart)
		cron.GET("/weekly-review", cronHandler.RunWeeklyReview)
	}

	// User-facing endpoints
	notifications := router.Group("/notifications", middleware.UserAuth(jwtSecret))
	{
		notifications.POST("/settings/sync", settingsHandler.Sync)
		notifications.GET("/settings", settingsHandler.Get)
	}

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status": "ok",
		})
	})

	return router
}
