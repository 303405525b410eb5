package api

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"potato-chat/internal/auth"
	"potato-chat/internal/channel"
	"potato-chat/internal/events"
	"potato-chat/internal/store"
)

// GET /channels/:id/messages
func ListMessagesHandler(s store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := channelIDParam(c)
		if !ok {
			return
		}
		if _, err := s.GetChannel(id); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": gin.H{"message": "Channel not found"}})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": gin.H{"message": "Failed to load channel"}})
			return
		}
		msgs, err := s.ListMessages(id)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": gin.H{"message": "Failed to list messages"}})
			return
		}
		c.JSON(http.StatusOK, msgs)
	}
}

// POST /channels/:id/messages
func SendMessageHandler(pol auth.Policy, s store.Store, hub *events.Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		session := auth.SessionFromContext(c)
		id, ok := channelIDParam(c)
		if !ok {
			return
		}
		ch, err := s.GetChannel(id)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": gin.H{"message": "Channel not found"}})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": gin.H{"message": "Failed to load channel"}})
			return
		}
		if !pol.Authorize(session, auth.ActionMessageAppend, auth.Resource{ChannelLocked: ch.Locked}) {
			c.JSON(http.StatusForbidden, gin.H{"error": gin.H{"message": "This channel is locked"}})
			return
		}
		var req struct {
			Content string `json:"content"`
		}
		if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Content) == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": gin.H{"message": "Message content required"}})
			return
		}
		msg := channel.Message{
			ChannelID: ch.ID,
			Author:    session.Username,
			Content:   strings.TrimSpace(req.Content),
		}
		if err := s.AppendMessage(&msg); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": gin.H{"message": "Failed to send message"}})
			return
		}
		hub.Broadcast(ch.ID, events.Event{Type: "message", Message: &msg})
		c.JSON(http.StatusCreated, gin.H{
			"id":        msg.ID,
			"author":    msg.Author,
			"content":   msg.Content,
			"createdAt": msg.CreatedAt,
		})
	}
}

// DELETE /messages/:id
func DeleteMessageHandler(pol auth.Policy, s store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		session := auth.SessionFromContext(c)
		idUint, err := strconv.ParseUint(c.Param("id"), 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": gin.H{"message": "Invalid message id"}})
			return
		}
		msg, err := s.GetMessage(uint(idUint))
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": gin.H{"message": "Message not found"}})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": gin.H{"message": "Failed to load message"}})
			return
		}
		if !pol.Authorize(session, auth.ActionMessageDelete, auth.Resource{MessageAuthor: msg.Author}) {
			c.JSON(http.StatusForbidden, gin.H{"error": gin.H{"message": "Forbidden"}})
			return
		}
		if err := s.DeleteMessage(msg.ID); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": gin.H{"message": "Message not found"}})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": gin.H{"message": "Failed to delete message"}})
			return
		}
		c.JSON(http.StatusOK, gin.H{"deleted": true})
	}
}
