package api

import (
	"alcyxob/training-planner/internal/metrics"
	"alcyxob/training-planner/internal/service"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Services bundles what the HTTP layer dispatches to.
type Services struct {
	Sessions         service.SessionService
	SessionExercises service.SessionExerciseService
	WeeklyPlans      service.WeeklyPlanService
	Completion       service.CompletionTracker
	Catalogs         service.CatalogService
}

func SetupRoutes(
	router *gin.Engine,
	services Services,
	metricsManager *metrics.Manager,
	gatherer prometheus.Gatherer,
) {
	sessionHandler := NewSessionHandler(services.Sessions)
	exerciseHandler := NewSessionExerciseHandler(services.SessionExercises)
	planHandler := NewWeeklyPlanHandler(services.WeeklyPlans)
	completionHandler := NewCompletionHandler(services.Completion)
	catalogHandler := NewCatalogHandler(services.Catalogs)

	router.Use(RequestLogger(metricsManager))

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))

	apiV1 := router.Group("/api/v1")
	apiV1.Use(TenantMiddleware())
	{
		// --- Session Routes ---
		sessionGroup := apiV1.Group("/sessions")
		{
			sessionGroup.POST("", sessionHandler.CreateSession)
			sessionGroup.GET("", sessionHandler.ListSessions)
			sessionGroup.GET("/:id", sessionHandler.GetSession)
			sessionGroup.PUT("/:id", sessionHandler.UpdateSession)
			sessionGroup.DELETE("/:id", sessionHandler.DeleteSession)
			sessionGroup.POST("/:id/duplicate", sessionHandler.DuplicateSession)

			sessionGroup.POST("/:id/exercises", exerciseHandler.CreateSessionExercise)
			sessionGroup.GET("/:id/exercises", exerciseHandler.ListSessionExercises)
			sessionGroup.PATCH("/:id/exercises/reorder", exerciseHandler.ReorderSessionExercises)
		}

		// --- Session Exercise Routes ---
		seGroup := apiV1.Group("/session-exercises")
		{
			seGroup.GET("/:id", exerciseHandler.GetSessionExercise)
			seGroup.PATCH("/:id", exerciseHandler.UpdateSessionExercise)
			seGroup.DELETE("/:id", exerciseHandler.DeleteSessionExercise)
		}

		// --- Weekly Plan Routes ---
		planGroup := apiV1.Group("/weekly-plans")
		{
			planGroup.POST("", planHandler.CreateWeeklyPlan)
			planGroup.GET("", planHandler.ListWeeklyPlans)
			planGroup.GET("/:id", planHandler.GetWeeklyPlan)
			planGroup.PUT("/:id", planHandler.UpdateWeeklyPlan)
			planGroup.DELETE("/:id", planHandler.DeleteWeeklyPlan)
			planGroup.POST("/:id/duplicate", planHandler.DuplicateWeeklyPlan)
			planGroup.POST("/:id/export", planHandler.ExportWeeklyPlan)

			planGroup.PATCH("/:id/mark-day", completionHandler.MarkDayCompleted)
			planGroup.PATCH("/:id/mark-exercise", completionHandler.MarkExerciseCompleted)
		}

		// --- Client Scoped Routes ---
		clientGroup := apiV1.Group("/clients/:clientId")
		{
			clientGroup.GET("/weekly-plans", planHandler.ListClientWeeklyPlans)
			clientGroup.GET("/weekly-plans/active", planHandler.ListActiveClientWeeklyPlans)
			clientGroup.POST("/form-responses/backfill", completionHandler.BackfillFormResponses)
		}

		// --- Catalog Routes ---
		catalogGroup := apiV1.Group("/catalogs/:kind")
		{
			catalogGroup.POST("", catalogHandler.CreateItem)
			catalogGroup.GET("", catalogHandler.ListItems)
			catalogGroup.PUT("/:id", catalogHandler.RenameItem)
			catalogGroup.DELETE("/:id", catalogHandler.DeleteItem)
		}
	}
}
