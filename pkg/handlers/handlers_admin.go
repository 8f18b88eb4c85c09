package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/arnavshah/roster-api-go/pkg/auth"
	"github.com/arnavshah/roster-api-go/pkg/database"
)

const defaultRateLimit = 10000

// Login exchanges admin credentials for a bearer token
func (h *Handler) Login(c *gin.Context) {
	var req struct {
		Username string `json:"username" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var user database.MasterUser
	err := h.DB.Where("username = ?", req.Username).First(&user).Error
	if err != nil || !auth.CheckPasswordHash(req.Password, user.PasswordHash) {
		h.Log.Warn("failed admin login", zap.String("username", req.Username))
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}

	token, err := h.Auth.CreateToken(user.Username)
	if err != nil {
		h.Log.Error("create token", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not create token"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"access_token": token, "token_type": "bearer"})
}

// GenerateKey signs a key for the given name and records it
func (h *Handler) GenerateKey(c *gin.Context) {
	var req struct {
		Name      string `json:"name" binding:"required"`
		RateLimit int    `json:"rate_limit" binding:"min=0"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.RateLimit == 0 {
		req.RateLimit = defaultRateLimit
	}

	key := h.Auth.GenerateHMACKey(req.Name)
	record := database.APIKey{
		Key:        key,
		Name:       req.Name,
		KeyPreview: auth.Preview(key),
		RateLimit:  req.RateLimit,
	}
	if err := h.DB.Create(&record).Error; err != nil {
		h.Log.Error("create api key", zap.String("name", req.Name), zap.Error(err))
		c.JSON(http.StatusConflict, gin.H{"error": "A key for this name already exists"})
		return
	}

	h.Log.Info("api key issued", zap.String("name", req.Name), zap.Uint("key_id", record.ID))
	c.JSON(http.StatusOK, gin.H{"id": record.ID, "name": req.Name, "key": key})
}

// ListKeys returns every issued key, newest first
func (h *Handler) ListKeys(c *gin.Context) {
	var keys []database.APIKey
	if err := h.DB.Order("created_at desc").Find(&keys).Error; err != nil {
		h.Log.Error("list api keys", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not list keys"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"keys": keys})
}

func keyID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id must be numeric"})
		return 0, false
	}
	return uint(id), true
}

// RevokeKey stamps revoked_at on a key. The record is kept so the signature keeps
// being refused and its usage history stays readable. Revoking twice is a no-op.
func (h *Handler) RevokeKey(c *gin.Context) {
	id, ok := keyID(c)
	if !ok {
		return
	}
	var key database.APIKey
	if err := h.DB.First(&key, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "key not found"})
			return
		}
		h.Log.Error("load api key", zap.Uint("key_id", id), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not revoke key"})
		return
	}
	if !key.Revoked() {
		now := time.Now()
		if err := h.DB.Model(&key).Update("revoked_at", now).Error; err != nil {
			h.Log.Error("revoke api key", zap.Uint("key_id", id), zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not revoke key"})
			return
		}
		key.RevokedAt = &now
		h.Log.Info("api key revoked", zap.Uint("key_id", id), zap.String("name", key.Name))
	}
	c.JSON(http.StatusOK, gin.H{"message": "Key revoked", "id": key.ID, "revoked_at": key.RevokedAt})
}

// UpdateKeyLimit changes a key's daily request limit. The limit may come from the body or the query.
func (h *Handler) UpdateKeyLimit(c *gin.Context) {
	id, ok := keyID(c)
	if !ok {
		return
	}
	var req struct {
		RateLimit int `json:"rate_limit" form:"rate_limit"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.ShouldBindQuery(&req)
	}
	if req.RateLimit <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "rate_limit must be positive"})
		return
	}

	res := h.DB.Model(&database.APIKey{}).Where("id = ?", id).Update("rate_limit", req.RateLimit)
	if res.Error != nil {
		h.Log.Error("update rate limit", zap.Uint("key_id", id), zap.Error(res.Error))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not update key limit"})
		return
	}
	if res.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "key not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": id, "rate_limit": req.RateLimit})
}

// GetUsage returns the last 30 days of usage for a key
func (h *Handler) GetUsage(c *gin.Context) {
	id, ok := keyID(c)
	if !ok {
		return
	}
	var key database.APIKey
	if err := h.DB.First(&key, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "key not found"})
			return
		}
		h.Log.Error("load api key", zap.Uint("key_id", id), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not fetch usage"})
		return
	}
	h.writeUsage(c, &key)
}
