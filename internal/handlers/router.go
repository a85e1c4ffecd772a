package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/prepwise/interview-service/internal/services"
	"github.com/prepwise/interview-service/internal/utils"
)

type HandlerManager struct {
	interviewHandler *InterviewHandler
}

func NewHandlerManager(
	serviceManager services.ServiceManager,
	logger utils.Logger,
) *HandlerManager {
	return &HandlerManager{
		interviewHandler: NewInterviewHandler(serviceManager, logger),
	}
}

// SetupRoutes sets up all API routes
func (hm *HandlerManager) SetupRoutes(router *gin.Engine) {
	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		interviews := v1.Group("/interviews")
		{
			interviews.POST("/start", hm.interviewHandler.StartSession)
			interviews.GET("/:id", hm.interviewHandler.GetSession)
			interviews.POST("/:id/next", hm.interviewHandler.NextQuestion)
			interviews.POST("/:id/submit", hm.interviewHandler.SubmitAnswer)
			interviews.POST("/:id/pause", hm.interviewHandler.PauseSession)
			interviews.POST("/:id/resume", hm.interviewHandler.ResumeSession)
			interviews.PUT("/:id/draft", hm.interviewHandler.SaveDraft)
			interviews.GET("/:id/time-remaining", hm.interviewHandler.GetTimeRemaining)
			interviews.GET("/:id/results", hm.interviewHandler.GetResults)
		}
	}

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "healthy",
			"service": "interview-service",
		})
	})
}
