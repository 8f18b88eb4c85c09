package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/arnavshah/roster-api-go/pkg/auth"
	"github.com/arnavshah/roster-api-go/pkg/database"
	"github.com/arnavshah/roster-api-go/pkg/scheduler"
)

// Handler contains dependencies for the route handlers
type Handler struct {
	DB       *gorm.DB
	Auth     *auth.Authenticator
	Calendar *scheduler.Calendar
	Log      *zap.Logger
}

// NewHandler wires a Handler. A nil calendar falls back to the default anchor.
func NewHandler(db *gorm.DB, a *auth.Authenticator, cal *scheduler.Calendar, log *zap.Logger) *Handler {
	if cal == nil {
		cal = scheduler.DefaultCalendar
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Handler{DB: db, Auth: a, Calendar: cal, Log: log}
}

func bearer(c *gin.Context) string {
	return strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer ")
}

// AuthMiddleware verifies the JWT token for admin routes
func (h *Handler) AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearer(c)
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header required"})
			return
		}

		claims, err := h.Auth.VerifyToken(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			return
		}

		c.Set("username", claims.Username)
		c.Next()
	}
}

// APIKeyMiddleware verifies the API key for roster routes using HMAC.
// Revoked keys get 401 and keys past their daily rate_limit get 429.
func (h *Handler) APIKeyMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		key := bearer(c)
		if key == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "API Key required"})
			return
		}

		userID, err := h.Auth.VerifyHMACKey(key)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid API Key signature"})
			return
		}

		if h.DB != nil {
			apiKey, err := auth.TouchAPIKey(h.DB, key, userID)
			if err != nil {
				h.Log.Error("track api key", zap.String("user_id", userID), zap.Error(err))
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Could not track API key"})
				return
			}
			if apiKey.Revoked() {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "API Key revoked"})
				return
			}
			used, err := database.RequestsOn(h.DB, apiKey.ID, database.UsageDate(time.Now()))
			if err != nil {
				h.Log.Error("check rate limit", zap.Uint("key_id", apiKey.ID), zap.Error(err))
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Could not check rate limit"})
				return
			}
			if apiKey.RateLimit > 0 && used >= apiKey.RateLimit {
				c.Header("Retry-After", "86400")
				c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
					"error":      "Daily request limit reached",
					"rate_limit": apiKey.RateLimit,
				})
				return
			}
			c.Set("apiKey", apiKey)
		}
		c.Set("userID", userID)
		c.Next()
	}
}

// RecordUsage records API usage in the database using an efficient upsert
func (h *Handler) RecordUsage(c *gin.Context, peopleCount, conflictCount int) {
	apiKeyRaw, exists := c.Get("apiKey")
	if !exists || h.DB == nil {
		return
	}
	apiKey := apiKeyRaw.(*database.APIKey)

	today := database.UsageDate(time.Now())

	// Use OnConflict for a single-query upsert (supported by both Postgres and SQLite)
	err := h.DB.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "key_id"}, {Name: "date"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"request_count":   gorm.Expr("request_count + ?", 1),
			"total_people":    gorm.Expr("total_people + ?", peopleCount),
			"total_conflicts": gorm.Expr("total_conflicts + ?", conflictCount),
		}),
	}).Create(&database.APIUsage{
		KeyID:          apiKey.ID,
		Date:           today,
		RequestCount:   1,
		TotalPeople:    peopleCount,
		TotalConflicts: conflictCount,
	}).Error
	if err != nil {
		h.Log.Warn("record usage", zap.Uint("key_id", apiKey.ID), zap.Error(err))
	}
}
