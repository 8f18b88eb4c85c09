package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/arnavshah/roster-api-go/pkg/database"
)

const usageWindowDays = 30

// GetMyUsage returns usage for the key the request was signed with
func (h *Handler) GetMyUsage(c *gin.Context) {
	raw, exists := c.Get("apiKey")
	if !exists {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "API Key context missing"})
		return
	}
	h.writeUsage(c, raw.(*database.APIKey))
}

func (h *Handler) writeUsage(c *gin.Context, key *database.APIKey) {
	var history []database.APIUsage
	err := h.DB.Where("key_id = ?", key.ID).Order("date desc").Limit(usageWindowDays).Find(&history).Error
	if err != nil {
		h.Log.Error("load usage", zap.Uint("key_id", key.ID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not fetch usage details"})
		return
	}

	var requests, people, conflicts int
	for _, u := range history {
		requests += u.RequestCount
		people += u.TotalPeople
		conflicts += u.TotalConflicts
	}

	c.JSON(http.StatusOK, gin.H{
		"key_name":      key.Name,
		"rate_limit":    key.RateLimit,
		"usage_history": history,
		"totals": gin.H{
			"requests":  requests,
			"people":    people,
			"conflicts": conflicts,
		},
	})
}
