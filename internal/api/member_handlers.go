package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"potato-chat/internal/auth"
	"potato-chat/internal/store"
)

// GET /users  [admin only]
func ListUsersHandler(s store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := c.GetString("role")
		if role != "admin" {
			c.JSON(http.StatusForbidden, gin.H{"error": gin.H{"message": "Forbidden"}})
			return
		}
		users, err := s.ListUsers()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": gin.H{"message": "List error"}})
			return
		}
		result := make([]gin.H, 0, len(users))
		for _, u := range users {
			result = append(result, gin.H{
				"id":        u.ID,
				"username":  u.Username,
				"role":      u.Role,
				"createdAt": u.CreatedAt,
			})
		}
		c.JSON(http.StatusOK, result)
	}
}

// PUT /users/:username  [admin only]
// Renaming a member rewrites the authorship on all of their messages.
func RenameUserHandler(pol auth.Policy, s store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		session := auth.SessionFromContext(c)
		target := c.Param("username")
		if !pol.Authorize(session, auth.ActionMemberRename, auth.Resource{TargetUsername: target}) {
			c.JSON(http.StatusForbidden, gin.H{"error": gin.H{"message": "Forbidden"}})
			return
		}
		var req struct {
			Username string `json:"username"`
		}
		if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Username) == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": gin.H{"message": "New username required"}})
			return
		}
		newName := strings.TrimSpace(req.Username)
		if newName == pol.ReservedAdmin {
			// Renaming someone onto the reserved name would mint a second admin
			c.JSON(http.StatusForbidden, gin.H{"error": gin.H{"message": "Forbidden"}})
			return
		}
		if err := s.RenameUser(target, newName); err != nil {
			switch {
			case errors.Is(err, store.ErrNotFound):
				c.JSON(http.StatusNotFound, gin.H{"error": gin.H{"message": "User not found"}})
			case errors.Is(err, store.ErrDuplicate):
				c.JSON(http.StatusConflict, gin.H{"error": gin.H{"message": "Username already exists"}})
			default:
				c.JSON(http.StatusInternalServerError, gin.H{"error": gin.H{"message": "Rename error"}})
			}
			return
		}
		c.JSON(http.StatusOK, gin.H{"username": newName})
	}
}

// DELETE /users/:username  [admin only]
// Removing a member deletes all of their messages; the reserved admin and
// the caller themselves are off limits.
func RemoveUserHandler(pol auth.Policy, s store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		session := auth.SessionFromContext(c)
		target := c.Param("username")
		if !pol.Authorize(session, auth.ActionMemberRemove, auth.Resource{TargetUsername: target}) {
			c.JSON(http.StatusForbidden, gin.H{"error": gin.H{"message": "Forbidden"}})
			return
		}
		if err := s.RemoveUser(target); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": gin.H{"message": "User not found"}})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": gin.H{"message": "Remove error"}})
			return
		}
		c.JSON(http.StatusOK, gin.H{"deleted": true})
	}
}
