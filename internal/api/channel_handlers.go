package api

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"potato-chat/internal/auth"
	"potato-chat/internal/store"
)

func channelIDParam(c *gin.Context) (uint, bool) {
	idUint, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": gin.H{"message": "Invalid channel id"}})
		return 0, false
	}
	return uint(idUint), true
}

// GET /channels
func ListChannelsHandler(s store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		channels, err := s.ListChannels()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": gin.H{"message": "Failed to list channels"}})
			return
		}
		result := make([]gin.H, 0, len(channels))
		for _, ch := range channels {
			result = append(result, gin.H{
				"id":        ch.ID,
				"name":      ch.Name,
				"locked":    ch.Locked,
				"createdAt": ch.CreatedAt,
			})
		}
		c.JSON(http.StatusOK, result)
	}
}

// POST /channels  [admin only]
func CreateChannelHandler(pol auth.Policy, s store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		session := auth.SessionFromContext(c)
		if !pol.Authorize(session, auth.ActionChannelCreate, auth.Resource{}) {
			c.JSON(http.StatusForbidden, gin.H{"error": gin.H{"message": "Forbidden"}})
			return
		}
		var req struct {
			Name string `json:"name"`
		}
		if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Name) == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": gin.H{"message": "Channel name required"}})
			return
		}
		ch, err := s.CreateChannel(strings.TrimSpace(req.Name), false)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": gin.H{"message": "Failed to create channel"}})
			return
		}
		c.JSON(http.StatusCreated, gin.H{"id": ch.ID, "name": ch.Name, "locked": ch.Locked})
	}
}

// PUT /channels/:id  [admin only]
func RenameChannelHandler(pol auth.Policy, s store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		session := auth.SessionFromContext(c)
		if !pol.Authorize(session, auth.ActionChannelRename, auth.Resource{}) {
			c.JSON(http.StatusForbidden, gin.H{"error": gin.H{"message": "Forbidden"}})
			return
		}
		id, ok := channelIDParam(c)
		if !ok {
			return
		}
		var req struct {
			Name string `json:"name"`
		}
		if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Name) == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": gin.H{"message": "Channel name required"}})
			return
		}
		ch, err := s.RenameChannel(id, strings.TrimSpace(req.Name))
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": gin.H{"message": "Channel not found"}})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": gin.H{"message": "Failed to rename channel"}})
			return
		}
		c.JSON(http.StatusOK, gin.H{"id": ch.ID, "name": ch.Name, "locked": ch.Locked})
	}
}

// PUT /channels/:id/lock  [admin only]
func SetChannelLockedHandler(pol auth.Policy, s store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		session := auth.SessionFromContext(c)
		if !pol.Authorize(session, auth.ActionChannelLock, auth.Resource{}) {
			c.JSON(http.StatusForbidden, gin.H{"error": gin.H{"message": "Forbidden"}})
			return
		}
		id, ok := channelIDParam(c)
		if !ok {
			return
		}
		var req struct {
			Locked *bool `json:"locked"`
		}
		if err := c.ShouldBindJSON(&req); err != nil || req.Locked == nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": gin.H{"message": "Locked flag required"}})
			return
		}
		ch, err := s.SetChannelLocked(id, *req.Locked)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": gin.H{"message": "Channel not found"}})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": gin.H{"message": "Failed to update channel"}})
			return
		}
		c.JSON(http.StatusOK, gin.H{"id": ch.ID, "name": ch.Name, "locked": ch.Locked})
	}
}

// DELETE /channels/:id  [admin only]
func DeleteChannelHandler(pol auth.Policy, s store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		session := auth.SessionFromContext(c)
		if !pol.Authorize(session, auth.ActionChannelDelete, auth.Resource{}) {
			c.JSON(http.StatusForbidden, gin.H{"error": gin.H{"message": "Forbidden"}})
			return
		}
		id, ok := channelIDParam(c)
		if !ok {
			return
		}
		if err := s.DeleteChannel(id); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": gin.H{"message": "Channel not found"}})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": gin.H{"message": "Failed to delete channel"}})
			return
		}
		c.JSON(http.StatusOK, gin.H{"deleted": true})
	}
}
