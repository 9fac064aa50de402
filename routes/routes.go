package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/fadhlanhapp/courtsplit-backend/handlers"
	"github.com/fadhlanhapp/courtsplit-backend/services"
)

// SetupRoutes configures all API routes for the application
func SetupRoutes(router *gin.Engine, matchService *services.MatchService) {
	matchHandler := handlers.NewMatchHandler(matchService)
	excelHandler := handlers.NewExcelHandler(services.NewExcelService(matchService))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := router.Group("/api/v1")
	{
		// Match endpoints
		v1.GET("/matches", matchHandler.ListMatches)
		v1.GET("/matches/export", excelHandler.ExportMatches)
		v1.GET("/matches/:id", matchHandler.GetMatch)
		v1.POST("/matches", matchHandler.CreateMatch)
		v1.PUT("/matches/:id", matchHandler.UpdateMatch)
		v1.DELETE("/matches/:id", matchHandler.DeleteMatch)

		// Payment endpoints
		v1.POST("/matches/:id/participants/:participantId/payment", matchHandler.UpdatePayment)
		v1.GET("/payments/pending", matchHandler.PendingPayments)

		// Participant endpoints
		v1.GET("/participants", matchHandler.ListParticipants)
	}
}
