package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/arnavshah/roster-api-go/pkg/logger"
)

// Version is reported by the index route
const Version = "3.0.0"

// NewRouter registers every route on a fresh gin engine
func NewRouter(h *Handler, log *zap.Logger) *gin.Engine {
	r := gin.New()
	r.Use(logger.GinMiddleware(log), gin.Recovery())

	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "Shift Roster API",
			"version": Version,
		})
	})

	r.POST("/admin/login", h.Login)

	// Admin Endpoints
	admin := r.Group("/admin")
	admin.Use(h.AuthMiddleware())
	{
		admin.POST("/keys", h.GenerateKey)
		admin.GET("/keys", h.ListKeys)
		admin.PUT("/keys/:id", h.UpdateKeyLimit)
		admin.DELETE("/keys/:id", h.RevokeKey)
		admin.GET("/usage/:id", h.GetUsage)
	}

	api := r.Group("/api")
	api.Use(h.APIKeyMiddleware())
	{
		api.POST("/analyze", h.Analyze)
		api.POST("/validate", h.ValidateInput)
		api.GET("/teams/:team/days", h.TeamDays)
		api.POST("/time/parse", h.ParseTime)
		api.POST("/time/format", h.FormatTime)
		api.POST("/leave/check", h.CheckLeave)
		api.POST("/risk", h.Risk)
		api.POST("/status", h.Status)
		api.POST("/availability", h.Availability)
		api.GET("/usage", h.GetMyUsage)

		api.POST("/people", h.CreatePerson)
		api.GET("/people", h.ListPeople)

		api.GET("/roster/:month", h.GetRoster)
		api.PUT("/roster/:month/people/:id", h.PutRosterEntry)
		api.GET("/roster/:month/people/:id/status", h.GetPersonStatus)
		api.GET("/roster/:month/people/:id/availability", h.GetPersonAvailability)
		api.GET("/roster/:month/conflicts", h.GetConflicts)
		api.GET("/roster/:month/risk", h.GetRosterRisk)
		api.GET("/roster/:month/candidates", h.GetCandidates)

		api.GET("/overrides", h.ListOverrides)
		api.PUT("/overrides/:post", h.PutOverride)
		api.DELETE("/overrides/:post", h.DeleteOverride)
	}

	return r
}
