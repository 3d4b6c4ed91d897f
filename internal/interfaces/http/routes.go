package http

import (
	"github.com/gin-gonic/gin"
	"github.com/rovelin/investment-tracker/internal/infrastructure/auth"
)

func SetupRoutes(router *gin.Engine, handler *Handler, provider auth.Provider) {
	router.Use(RequestLogger())

	api := router.Group("/api/v1")
	api.Use(Authenticate(provider))
	{
		api.POST("/investments", handler.AddInvestment)
		api.GET("/investments", handler.ListInvestments)
		api.GET("/investments/:id", handler.GetInvestment)
		api.PUT("/investments/:id", handler.UpdateInvestment)
		api.DELETE("/investments/:id", handler.DeleteInvestment)
		api.DELETE("/investments", handler.ClearInvestments)

		api.GET("/portfolio", handler.GetPortfolio)
		api.GET("/portfolio/stats", handler.GetStats)
		api.GET("/portfolio/performers/top", handler.GetTopPerformers)
		api.GET("/portfolio/performers/worst", handler.GetWorstPerformers)
		api.GET("/portfolio/distribution", handler.GetDistribution)
	}

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
}
