package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// Handlers bundles everything the router mounts.
type Handlers struct {
	Notifications *NotificationHandler
	Plans         *PlanHandler
	Wizard        *WizardHandler
	Media         *MediaHandler
}

// SetupRoutes mounts the API under /api/v1.
func SetupRoutes(router *gin.Engine, h Handlers) {
	router.GET("/healthz", func(c *gin.Context) {
		if errLog.HasRecentCritical(5 * time.Minute) {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := router.Group("/api/v1")
	{
		scheduled := v1.Group("/notifications/scheduled")
		{
			scheduled.POST("", h.Notifications.Schedule)
			scheduled.GET("", h.Notifications.ListScheduled)
			scheduled.DELETE("/:id", h.Notifications.CancelScheduled)
		}

		feed := v1.Group("/notifications")
		{
			feed.GET("", h.Notifications.ListFeed)
			feed.POST("/:id/read", h.Notifications.MarkRead)
			feed.POST("/read-all", h.Notifications.MarkAllRead)
		}

		plans := v1.Group("/plans")
		{
			plans.POST("/daily", h.Plans.CreateDaily)
			plans.POST("/weekly", h.Plans.CreateWeekly)
			plans.GET("", h.Plans.List)
			plans.GET("/:id", h.Plans.Get)
			plans.POST("/:id/activate", h.Plans.Activate)
			plans.DELETE("/:id", h.Plans.Delete)
		}

		v1.POST("/workouts/generate", h.Plans.GenerateWorkout)

		wiz := v1.Group("/wizard/:userId")
		{
			wiz.GET("", h.Wizard.GetState)
			wiz.POST("/answer", h.Wizard.Answer)
			wiz.POST("/back", h.Wizard.Back)
			wiz.POST("/complete", h.Wizard.Complete)
			wiz.DELETE("", h.Wizard.Reset)
		}

		media := v1.Group("/media")
		{
			media.GET("/:key", h.Media.Resolve)
			media.DELETE("/:key", h.Media.Invalidate)
		}
	}
}
