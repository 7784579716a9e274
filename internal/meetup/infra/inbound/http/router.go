package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func RegisterMeetupRoutes(r *gin.Engine, handler *MeetupHandler) {
	meetups := r.Group("/meetups", IdentityMiddleware())
	{
		meetups.POST("", handler.CreateMeetup)
		meetups.GET("", handler.ListMeetups)
		meetups.DELETE("/:id", handler.DeleteMeetup)
		meetups.PATCH("/:id/status", handler.EditMeetupStatus)
		meetups.POST("/:id/moderation", handler.ModerateMeetup)

		meetups.POST("/:id/reviews", handler.AddReview)
		meetups.GET("/:id/reviews", handler.ListReviews)
		meetups.PUT("/:id/reviews/:review_id", handler.EditReview)
		meetups.DELETE("/:id/reviews/:review_id", handler.DropReview)
		meetups.POST("/:id/reviews/:review_id/moderation", handler.ModerateReview)
	}
}

// RegisterOpsRoutes expone /health y /metrics.
func RegisterOpsRoutes(r *gin.Engine, gatherer prometheus.Gatherer) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))
}
